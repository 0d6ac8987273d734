package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/verte-zerg/bikeshare/internal/model"
)

func openTemp(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "nested", "history.db"))
	if err != nil {
		t.Fatalf("open failed: %v", err)
	}
	t.Cleanup(func() {
		if err := s.Close(); err != nil {
			t.Fatalf("close failed: %v", err)
		}
	})
	return s
}

func TestInsertAndListExplorations(t *testing.T) {
	ctx := context.Background()
	s := openTemp(t)
	base := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	explorations := []model.Exploration{
		{StartedAt: base, City: "Chicago", Path: "chicago.csv", Month: "March", Trips: 8, TotalDuration: 4821},
		{StartedAt: base.Add(time.Hour), City: "Washington", Path: "washington.csv", Weekday: "Monday", Trips: 3, TotalDuration: 900},
		{StartedAt: base.Add(2 * time.Hour), City: "Chicago", Path: "chicago.csv", Trips: 2, TotalDuration: 100},
	}
	for _, e := range explorations {
		id, err := s.InsertExploration(ctx, e)
		if err != nil {
			t.Fatalf("insert failed: %v", err)
		}
		if _, err := uuid.Parse(id); err != nil {
			t.Fatalf("expected uuid id, got %q", id)
		}
	}

	got, err := s.ListExplorations(ctx, 2)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 explorations, got %d", len(got))
	}
	if got[0].City != "Chicago" || got[0].Trips != 2 || !got[0].StartedAt.Equal(base.Add(2*time.Hour)) {
		t.Fatalf("unexpected newest exploration: %+v", got[0])
	}
	if got[1].City != "Washington" || got[1].Weekday != "Monday" {
		t.Fatalf("unexpected second exploration: %+v", got[1])
	}

	all, err := s.ListExplorations(ctx, 0)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected all explorations, got %d", len(all))
	}
}

func TestListExplorationsOrdersSubsecondTimes(t *testing.T) {
	ctx := context.Background()
	s := openTemp(t)
	whole := time.Date(2024, 3, 1, 10, 0, 5, 0, time.UTC)
	half := whole.Add(500 * time.Millisecond)

	for _, e := range []model.Exploration{
		{StartedAt: half, City: "Later"},
		{StartedAt: whole, City: "Earlier"},
	} {
		if _, err := s.InsertExploration(ctx, e); err != nil {
			t.Fatalf("insert failed: %v", err)
		}
	}
	got, err := s.ListExplorations(ctx, 0)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(got) != 2 || got[0].City != "Later" || got[1].City != "Earlier" {
		t.Fatalf("expected newest first, got %+v", got)
	}
	if !got[0].StartedAt.Equal(half) {
		t.Fatalf("expected subsecond time to round trip, got %v", got[0].StartedAt)
	}
}

func TestInsertKeepsGivenID(t *testing.T) {
	ctx := context.Background()
	s := openTemp(t)
	id, err := s.InsertExploration(ctx, model.Exploration{ID: "fixed", City: "Chicago"})
	if err != nil {
		t.Fatalf("insert failed: %v", err)
	}
	if id != "fixed" {
		t.Fatalf("expected given id, got %q", id)
	}
	if _, err := s.InsertExploration(ctx, model.Exploration{ID: "fixed", City: "Chicago"}); err == nil {
		t.Fatalf("expected duplicate id to fail")
	}
}

func TestCityTotals(t *testing.T) {
	ctx := context.Background()
	s := openTemp(t)
	for _, e := range []model.Exploration{
		{City: "Washington", Trips: 3, TotalDuration: 900},
		{City: "Chicago", Trips: 8, TotalDuration: 4821},
		{City: "Chicago", Trips: 2, TotalDuration: 100},
	} {
		if _, err := s.InsertExploration(ctx, e); err != nil {
			t.Fatalf("insert failed: %v", err)
		}
	}
	totals, err := s.CityTotals(ctx)
	if err != nil {
		t.Fatalf("totals failed: %v", err)
	}
	want := []CityTotal{
		{City: "Chicago", Explorations: 2, Trips: 10, TotalDuration: 4921},
		{City: "Washington", Explorations: 1, Trips: 3, TotalDuration: 900},
	}
	if len(totals) != len(want) {
		t.Fatalf("expected %d totals, got %+v", len(want), totals)
	}
	for i := range want {
		if totals[i] != want[i] {
			t.Fatalf("total %d: expected %+v, got %+v", i, want[i], totals[i])
		}
	}
}
