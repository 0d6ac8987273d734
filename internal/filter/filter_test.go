package filter

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/verte-zerg/bikeshare/internal/model"
	"github.com/verte-zerg/bikeshare/internal/selection"
)

type scriptedAsker struct {
	answers   []string
	questions []string
}

func (s *scriptedAsker) Ask(question string) (string, error) {
	s.questions = append(s.questions, question)
	if len(s.answers) == 0 {
		return "", nil
	}
	answer := s.answers[0]
	s.answers = s.answers[1:]
	return strings.TrimSpace(answer), nil
}

func chicagoDir(t *testing.T) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("..", "dataset", "testdata", "chicago.csv"))
	if err != nil {
		t.Fatalf("read fixture: %v", err)
	}
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "chicago.csv"), data, 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return dir
}

func newBuilder(asker *scriptedAsker, out *bytes.Buffer, dir string, retries int) *Builder {
	return NewBuilder(asker, out, selection.Cities(selection.DefaultCities()), []string{dir}, retries)
}

func TestBuildAcceptsFilters(t *testing.T) {
	dir := chicagoDir(t)
	asker := &scriptedAsker{answers: []string{"1", "march", "0", "y"}}
	var out bytes.Buffer

	spec, ok, err := newBuilder(asker, &out, dir, 2).Build(context.Background())
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	if !ok {
		t.Fatalf("expected accepted filters")
	}
	if spec.City != "Chicago" || spec.Path != filepath.Join(dir, "chicago.csv") {
		t.Fatalf("unexpected city: %+v", spec)
	}
	if spec.Month != (model.Selection{Index: 3, Name: "March", Set: true}) {
		t.Fatalf("unexpected month: %+v", spec.Month)
	}
	if spec.Weekday != (model.Selection{Index: 0, Name: "Monday", Set: true}) {
		t.Fatalf("unexpected weekday: %+v", spec.Weekday)
	}
	if asker.questions[0] != "Enter a city to explore (Chicago, New York City, Washington):  " {
		t.Fatalf("unexpected city prompt: %q", asker.questions[0])
	}
	if asker.questions[1] != "[OPTIONAL] Enter a month to filter data (January to June):  " {
		t.Fatalf("unexpected month prompt: %q", asker.questions[1])
	}
	if !strings.HasSuffix(asker.questions[3], "for Monday during March. Confirm?  ") {
		t.Fatalf("unexpected confirm prompt: %q", asker.questions[3])
	}
}

func TestBuildEmptyConfirmationAccepts(t *testing.T) {
	dir := chicagoDir(t)
	asker := &scriptedAsker{answers: []string{"chicago", "", "", ""}}
	var out bytes.Buffer

	spec, ok, err := newBuilder(asker, &out, dir, 1).Build(context.Background())
	if err != nil || !ok {
		t.Fatalf("expected accepted filters, got ok=%v err=%v", ok, err)
	}
	if spec.Month.Set || spec.Weekday.Set {
		t.Fatalf("expected no time filters: %+v", spec)
	}
	if !strings.Contains(out.String(), "-=--=-") {
		t.Fatalf("expected separator after confirmation, got %q", out.String())
	}
}

func TestBuildAbortsAfterDeclines(t *testing.T) {
	dir := chicagoDir(t)
	asker := &scriptedAsker{answers: []string{
		"chicago", "", "", "n",
		"chicago", "", "", "no",
		"chicago",
	}}
	var out bytes.Buffer

	_, ok, err := newBuilder(asker, &out, dir, 2).Build(context.Background())
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	if ok {
		t.Fatalf("expected abort after two declines")
	}
	if len(asker.answers) != 1 {
		t.Fatalf("expected no further prompts after budget ran out, %d answers left", len(asker.answers))
	}
}

func TestBuildEmptyCityAborts(t *testing.T) {
	asker := &scriptedAsker{}
	var out bytes.Buffer

	_, ok, err := newBuilder(asker, &out, t.TempDir(), 2).Build(context.Background())
	if err != nil || ok {
		t.Fatalf("expected abort, got ok=%v err=%v", ok, err)
	}
	if len(asker.questions) != 1 {
		t.Fatalf("expected a single prompt, got %d", len(asker.questions))
	}
}

func TestBuildRepromptsUnknownCity(t *testing.T) {
	dir := chicagoDir(t)
	asker := &scriptedAsker{answers: []string{"boston", "washington", "chicago", "", "", "yes"}}
	var out bytes.Buffer

	spec, ok, err := newBuilder(asker, &out, dir, 2).Build(context.Background())
	if err != nil || !ok {
		t.Fatalf("expected accepted filters, got ok=%v err=%v", ok, err)
	}
	if spec.City != "Chicago" {
		t.Fatalf("unexpected city %q", spec.City)
	}
	text := out.String()
	if !strings.Contains(text, "No data for city 'Boston'") {
		t.Fatalf("expected unknown city message, got %q", text)
	}
	if !strings.Contains(text, "No data for city 'Washington'") {
		t.Fatalf("expected missing file message, got %q", text)
	}
}

func TestBuildMalformedFileReturnsToCity(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "washington.csv"), []byte("Start Time,End Time\nnot a time,x\n"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	asker := &scriptedAsker{answers: []string{"3", "3", "3"}}
	var out bytes.Buffer

	_, ok, err := newBuilder(asker, &out, dir, 1).Build(context.Background())
	if err != nil || ok {
		t.Fatalf("expected abort, got ok=%v err=%v", ok, err)
	}
	if got := strings.Count(out.String(), "Error getting filters for"); got != 3 {
		t.Fatalf("expected 3 preload errors without spending retries, got %d:\n%s", got, out.String())
	}
}
