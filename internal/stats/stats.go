// Package stats contains statistics calculations and reporting.
package stats

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/verte-zerg/bikeshare/internal/dataset"
	"github.com/verte-zerg/bikeshare/internal/selection"
)

const sparkChars = " .:-=+*#%@"

// StationPair is a start and end station of one trip.
type StationPair struct {
	Start string
	End   string
}

func pairLess(a, b StationPair) bool {
	if a.Start == b.Start {
		return a.End < b.End
	}
	return a.Start < b.Start
}

// TimeStats writes the most common month, weekday and start hour. Month and
// weekday are skipped when the table holds a single distinct value.
func TimeStats(w io.Writer, t *dataset.Table) error {
	if t.Empty() {
		return nil
	}
	months := make([]int, len(t.Trips))
	weekdays := make([]int, len(t.Trips))
	hours := make([]int, len(t.Trips))
	for i, trip := range t.Trips {
		months[i] = trip.Month
		weekdays[i] = trip.Weekday
		hours[i] = trip.StartTime.Hour()
	}

	if len(ValueCounts(months)) > 1 {
		names := mapValues(Mode(months), selection.MonthName)
		if err := writeMode(w, "Most common Month", "Most common Months", names); err != nil {
			return err
		}
	}
	if len(ValueCounts(weekdays)) > 1 {
		names := mapValues(Mode(weekdays), selection.WeekdayName)
		if err := writeMode(w, "Most common Weekday", "Most common Weekdays", names); err != nil {
			return err
		}
	}
	if err := writeMode(w, "Most common Hour", "Most common Hours", mapValues(Mode(hours), FormatHour)); err != nil {
		return err
	}

	perHour := make([]float64, 24)
	for _, h := range hours {
		perHour[h]++
	}
	_, err := fmt.Fprintf(w, "Trips by hour (0-23): [%s]\n", Sparkline(perHour))
	return err
}

// StationStats writes the most frequent start station, end station and
// start-to-end pair. Pairs are counted jointly.
func StationStats(w io.Writer, t *dataset.Table) error {
	if t.Empty() {
		return nil
	}
	var starts, ends []string
	var pairs []StationPair
	for _, trip := range t.Trips {
		if trip.StartStation != "" {
			starts = append(starts, trip.StartStation)
		}
		if trip.EndStation != "" {
			ends = append(ends, trip.EndStation)
		}
		if trip.StartStation != "" && trip.EndStation != "" {
			pairs = append(pairs, StationPair{Start: trip.StartStation, End: trip.EndStation})
		}
	}
	if err := writeMode(w, "Most frequent Start Station", "Most frequent Start Stations", Mode(starts)); err != nil {
		return err
	}
	if err := writeMode(w, "Most frequent End Station", "Most frequent End Stations", Mode(ends)); err != nil {
		return err
	}
	top := ModeFunc(pairs, pairLess)
	if len(top) == 0 {
		return nil
	}
	label := "Most frequent Trip"
	if len(top) > 1 {
		label = "Most frequent Trips"
	}
	lines := make([]string, len(top))
	for i, p := range top {
		lines[i] = fmt.Sprintf("\t%s to %s", p.Start, p.End)
	}
	_, err := fmt.Fprintf(w, "%s:\n%s\n", label, strings.Join(lines, "\n"))
	return err
}

// TripStats writes the total and mean trip duration.
func TripStats(w io.Writer, t *dataset.Table) error {
	if t.Empty() {
		return nil
	}
	var total float64
	for _, trip := range t.Trips {
		total += trip.Duration
	}
	mean := total / float64(len(t.Trips))
	if _, err := fmt.Fprintf(w, "Trips counted: %s\n", humanize.Comma(int64(len(t.Trips)))); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Total time of Trip Durations: %s\n", FormatDuration(total)); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "Mean time of Trip Durations: %s\n", FormatShortDuration(mean))
	return err
}

// UserStats writes user type and gender counts and birth year extremes.
func UserStats(w io.Writer, t *dataset.Table) error {
	if t.Empty() {
		return nil
	}
	var userTypes, genders []string
	var years []int
	for _, trip := range t.Trips {
		if trip.UserType != "" {
			userTypes = append(userTypes, trip.UserType)
		}
		if trip.Gender != "" {
			genders = append(genders, trip.Gender)
		}
		if trip.HasBirthYear {
			years = append(years, trip.BirthYear)
		}
	}
	if err := writeCounts(w, "User Types and Counts", ValueCounts(userTypes)); err != nil {
		return err
	}
	if t.HasGender {
		if err := writeCounts(w, "Genders and Counts", ValueCounts(genders)); err != nil {
			return err
		}
	}
	if !t.HasBirthYear || len(years) == 0 {
		return nil
	}
	minYear, maxYear := years[0], years[0]
	for _, y := range years[1:] {
		minYear = min(minYear, y)
		maxYear = max(maxYear, y)
	}
	common := mapValues(Mode(years), strconv.Itoa)
	_, err := fmt.Fprintf(w, "Min Birth Year: %d\nMax Birth Year: %d\nMost Common Birth Year: %s\n",
		minYear, maxYear, strings.Join(common, ", "))
	return err
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	minVal := values[0]
	maxVal := values[0]
	for _, v := range values[1:] {
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}
	if math.Abs(maxVal-minVal) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		pos := (v - minVal) / (maxVal - minVal)
		idx := int(math.Round(pos * float64(len(sparkChars)-1)))
		if idx < 0 {
			idx = 0
		}
		if idx >= len(sparkChars) {
			idx = len(sparkChars) - 1
		}
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}

func writeMode(w io.Writer, singular, plural string, values []string) error {
	switch len(values) {
	case 0:
		return nil
	case 1:
		_, err := fmt.Fprintf(w, "%s: %s\n", singular, values[0])
		return err
	default:
		_, err := fmt.Fprintf(w, "%s: %s\n", plural, strings.Join(values, ", "))
		return err
	}
}

func writeCounts(w io.Writer, title string, counts []Count[string]) error {
	if len(counts) == 0 {
		return nil
	}
	if _, err := fmt.Fprintf(w, "%s:\n", title); err != nil {
		return err
	}
	for _, c := range counts {
		if _, err := fmt.Fprintf(w, "\t%s: %s\n", c.Value, humanize.Comma(int64(c.Count))); err != nil {
			return err
		}
	}
	return nil
}

func mapValues[T any](values []T, fn func(T) string) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = fn(v)
	}
	return out
}
