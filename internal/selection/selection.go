// Package selection resolves free-text answers against candidate lists.
package selection

import (
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/verte-zerg/bikeshare/internal/model"
)

// DefaultCities returns the cities offered when no config overrides them.
func DefaultCities() []string {
	return []string{"chicago", "new york city", "washington"}
}

// Cities builds a 1-based candidate list from city names.
func Cities(names []string) model.CandidateList {
	list := make(model.CandidateList, 0, len(names))
	for i, name := range names {
		list = append(list, model.Candidate{Index: i + 1, Name: TitleCase(name)})
	}
	return list
}

// Months builds month candidates indexed by calendar month number. Only the
// given months are offered; an empty slice offers all twelve.
func Months(present []int) model.CandidateList {
	if len(present) == 0 {
		present = []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12}
	}
	list := make(model.CandidateList, 0, len(present))
	for _, m := range present {
		if m < 1 || m > 12 {
			continue
		}
		list = append(list, model.Candidate{Index: m, Name: MonthName(m)})
	}
	return list
}

// Weekdays builds weekday candidates indexed from Monday = 0.
func Weekdays() model.CandidateList {
	list := make(model.CandidateList, 0, 7)
	for d := 0; d < 7; d++ {
		list = append(list, model.Candidate{Index: d, Name: WeekdayName(d)})
	}
	return list
}

// Normalize matches input against the list by index or by case-insensitive
// name. Blank input, unknown names and numbers without a candidate all yield
// no selection.
func Normalize(input string, list model.CandidateList) (model.Selection, bool) {
	input = strings.TrimSpace(input)
	if input == "" {
		return model.Selection{}, false
	}
	if n, err := strconv.Atoi(input); err == nil {
		for _, c := range list {
			if c.Index == n {
				return model.Select(c), true
			}
		}
		return model.Selection{}, false
	}
	for _, c := range list {
		if strings.EqualFold(c.Name, input) {
			return model.Select(c), true
		}
	}
	return model.Selection{}, false
}

// MonthName returns the English name for a calendar month number.
func MonthName(month int) string {
	return time.Month(month).String()
}

// WeekdayName returns the English name for a Monday-based weekday number.
func WeekdayName(day int) string {
	return time.Weekday((day + 1) % 7).String()
}

// TitleCase returns the canonical display form of a name.
func TitleCase(s string) string {
	return cases.Title(language.English).String(strings.Join(strings.Fields(s), " "))
}
