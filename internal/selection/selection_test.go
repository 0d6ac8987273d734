package selection

import (
	"strconv"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/verte-zerg/bikeshare/internal/model"
)

func TestNormalizeIndexMatchesName(t *testing.T) {
	lists := []struct {
		label string
		list  model.CandidateList
	}{
		{"cities", Cities(DefaultCities())},
		{"months", Months(nil)},
		{"weekdays", Weekdays()},
	}
	for _, tc := range lists {
		for _, c := range tc.list {
			byIndex, ok := Normalize(strconv.Itoa(c.Index), tc.list)
			if !ok {
				t.Fatalf("%s: index %d did not resolve", tc.label, c.Index)
			}
			byName, ok := Normalize(strings.ToUpper(c.Name), tc.list)
			if !ok {
				t.Fatalf("%s: name %q did not resolve", tc.label, c.Name)
			}
			if byIndex != byName {
				t.Fatalf("%s: index %d resolved to %+v, name resolved to %+v", tc.label, c.Index, byIndex, byName)
			}
		}
	}
}

func TestNormalizeOutOfRangeIsNoSelection(t *testing.T) {
	cities := Cities(DefaultCities())
	for _, input := range []string{"0", "4", "-1", "99"} {
		if sel, ok := Normalize(input, cities); ok || sel.Set {
			t.Fatalf("expected no city for %q, got %+v", input, sel)
		}
	}
	months := Months(nil)
	for _, input := range []string{"0", "13", "-3"} {
		if sel, ok := Normalize(input, months); ok || sel.Set {
			t.Fatalf("expected no month for %q, got %+v", input, sel)
		}
	}
	weekdays := Weekdays()
	for _, input := range []string{"-1", "7", "12"} {
		if sel, ok := Normalize(input, weekdays); ok || sel.Set {
			t.Fatalf("expected no weekday for %q, got %+v", input, sel)
		}
	}
}

func TestNormalizeBlankAndUnknown(t *testing.T) {
	list := Cities(DefaultCities())
	for _, input := range []string{"", "   ", "boston", "1.5", "chicago!"} {
		if _, ok := Normalize(input, list); ok {
			t.Fatalf("expected no selection for %q", input)
		}
	}
}

func TestNormalizeCaseInsensitive(t *testing.T) {
	sel, ok := Normalize("  new YORK city ", Cities(DefaultCities()))
	if !ok {
		t.Fatalf("expected a match")
	}
	if sel.Index != 2 || sel.Name != "New York City" {
		t.Fatalf("unexpected selection: %+v", sel)
	}
}

func TestMonthsRestrictedToPresent(t *testing.T) {
	list := Months([]int{1, 2, 3})
	if diff := cmp.Diff([]string{"January", "February", "March"}, list.Names()); diff != "" {
		t.Fatalf("unexpected months (-want +got):\n%s", diff)
	}
	if _, ok := Normalize("6", list); ok {
		t.Fatalf("expected month 6 to be unavailable")
	}
	if _, ok := Normalize("june", list); ok {
		t.Fatalf("expected June to be unavailable")
	}
	sel, ok := Normalize("3", list)
	if !ok || sel.Name != "March" || sel.Index != 3 {
		t.Fatalf("unexpected selection: %+v", sel)
	}
}

func TestWeekdaysStartOnMonday(t *testing.T) {
	want := []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}
	if diff := cmp.Diff(want, Weekdays().Names()); diff != "" {
		t.Fatalf("unexpected weekdays (-want +got):\n%s", diff)
	}
	sel, ok := Normalize("0", Weekdays())
	if !ok || sel.Name != "Monday" {
		t.Fatalf("expected 0 to be Monday, got %+v", sel)
	}
}

func TestTitleCase(t *testing.T) {
	if got := TitleCase("new  york city"); got != "New York City" {
		t.Fatalf("unexpected title case: %q", got)
	}
}
