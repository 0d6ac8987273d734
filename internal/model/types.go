// Package model defines shared data structures.
package model

import (
	"fmt"
	"time"
)

// Config defines interactive session settings.
type Config struct {
	Cities   []string
	DataDirs []string
	Retries  int
	History  bool
}

// Candidate is one selectable option. Index is the number a user may type
// instead of the name.
type Candidate struct {
	Index int
	Name  string
}

// CandidateList is an ordered set of selectable options.
type CandidateList []Candidate

// Names returns the canonical candidate names in order.
func (l CandidateList) Names() []string {
	names := make([]string, len(l))
	for i, c := range l {
		names[i] = c.Name
	}
	return names
}

// Selection is an optional (index, name) pair. The zero value means no selection.
type Selection struct {
	Index int
	Name  string
	Set   bool
}

// Select builds a set Selection from a candidate.
func Select(c Candidate) Selection {
	return Selection{Index: c.Index, Name: c.Name, Set: true}
}

// FilterSpec is the confirmed city and time filters for one exploration.
type FilterSpec struct {
	City    string
	Path    string
	Month   Selection
	Weekday Selection
}

// Summary renders the confirmation message for the filter spec.
func (f FilterSpec) Summary() string {
	msg := fmt.Sprintf("We're going to look at %s", f.Path)
	switch {
	case f.Month.Set && f.Weekday.Set:
		msg += fmt.Sprintf(" for %s during %s", f.Weekday.Name, f.Month.Name)
	case f.Month.Set:
		msg += fmt.Sprintf(" during %s", f.Month.Name)
	case f.Weekday.Set:
		msg += fmt.Sprintf(" for %s during all months", f.Weekday.Name)
	default:
		msg += " (no filters applied)"
	}
	return msg
}

// Trip is one bikeshare trip row. Weekday counts from Monday = 0.
type Trip struct {
	Label        string
	StartTime    time.Time
	EndTime      time.Time
	Month        int
	Weekday      int
	StartStation string
	EndStation   string
	Duration     float64
	UserType     string
	Gender       string
	BirthYear    int
	HasBirthYear bool
}

// Exploration summarizes a loaded exploration for history.
type Exploration struct {
	ID            string
	StartedAt     time.Time
	City          string
	Path          string
	Month         string
	Weekday       string
	Trips         int
	TotalDuration float64
}
