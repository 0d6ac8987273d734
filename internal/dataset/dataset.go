// Package dataset loads bikeshare trip files.
package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/verte-zerg/bikeshare/internal/model"
)

// Column names expected in trip files.
const (
	ColStartTime    = "Start Time"
	ColEndTime      = "End Time"
	ColDuration     = "Trip Duration"
	ColStartStation = "Start Station"
	ColEndStation   = "End Station"
	ColUserType     = "User Type"
	ColGender       = "Gender"
	ColBirthYear    = "Birth Year"
)

var requiredColumns = []string{
	ColStartTime,
	ColEndTime,
	ColDuration,
	ColStartStation,
	ColEndStation,
	ColUserType,
}

var timeLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"1/2/2006 15:04",
}

// ErrMalformed marks files whose structure or values cannot be read.
var ErrMalformed = errors.New("malformed trip data")

// Filter restricts loaded rows. Unset selections do not constrain.
type Filter struct {
	Month   model.Selection
	Weekday model.Selection
}

// Table is the loaded, filtered set of trips.
type Table struct {
	Trips        []model.Trip
	HasGender    bool
	HasBirthYear bool
}

// Len returns the number of trips, treating a nil table as empty.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Trips)
}

// Empty reports whether the table is nil or has no trips.
func (t *Table) Empty() bool {
	return t.Len() == 0
}

// Load reads the trip file at path, derives month and weekday from the start
// time and keeps rows matching every set filter.
func Load(path string, f Filter) (*Table, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			// Best-effort close for read-only trip file.
			_ = cerr
		}
	}()
	return Read(file, f)
}

// Read parses trip rows from r. Any unreadable row fails the whole read.
func Read(r io.Reader, f Filter) (*Table, error) {
	reader := csv.NewReader(r)
	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: missing header", ErrMalformed)
		}
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	cols, err := indexColumns(header, requiredColumns)
	if err != nil {
		return nil, err
	}
	labelCol := -1
	if strings.TrimSpace(header[0]) == "" {
		labelCol = 0
	}
	genderCol, hasGender := cols[ColGender]
	birthCol, hasBirth := cols[ColBirthYear]

	table := &Table{HasGender: hasGender, HasBirthYear: hasBirth}
	line := 1
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		trip, err := parseTrip(record, cols)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrMalformed, line, err)
		}
		if labelCol >= 0 {
			trip.Label = record[labelCol]
		} else {
			trip.Label = strconv.Itoa(line - 2)
		}
		if hasGender {
			trip.Gender = strings.TrimSpace(record[genderCol])
		}
		if hasBirth {
			year, ok, err := parseBirthYear(record[birthCol])
			if err != nil {
				return nil, fmt.Errorf("%w: line %d: %s: %v", ErrMalformed, line, ColBirthYear, err)
			}
			trip.BirthYear = year
			trip.HasBirthYear = ok
		}
		if f.Month.Set && trip.Month != f.Month.Index {
			continue
		}
		if f.Weekday.Set && trip.Weekday != f.Weekday.Index {
			continue
		}
		table.Trips = append(table.Trips, trip)
	}
	return table, nil
}

// ScanMonths returns the sorted distinct start months present in the file.
func ScanMonths(path string) ([]int, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			// Best-effort close for read-only trip file.
			_ = cerr
		}
	}()

	reader := csv.NewReader(file)
	reader.ReuseRecord = true
	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	cols, err := indexColumns(header, []string{ColStartTime})
	if err != nil {
		return nil, err
	}
	startCol := cols[ColStartTime]
	seen := map[int]struct{}{}
	line := 1
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		start, err := parseTime(record[startCol])
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %s: %v", ErrMalformed, line, ColStartTime, err)
		}
		seen[int(start.Month())] = struct{}{}
	}
	months := make([]int, 0, len(seen))
	for m := range seen {
		months = append(months, m)
	}
	sort.Ints(months)
	return months, nil
}

func indexColumns(header, required []string) (map[string]int, error) {
	cols := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
		if name == "" {
			continue
		}
		cols[name] = i
	}
	var missing []string
	for _, name := range required {
		if _, ok := cols[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: missing column(s) %s", ErrMalformed, strings.Join(missing, ", "))
	}
	return cols, nil
}

func parseTrip(record []string, cols map[string]int) (model.Trip, error) {
	start, err := parseTime(record[cols[ColStartTime]])
	if err != nil {
		return model.Trip{}, fmt.Errorf("%s: %w", ColStartTime, err)
	}
	end, err := parseTime(record[cols[ColEndTime]])
	if err != nil {
		return model.Trip{}, fmt.Errorf("%s: %w", ColEndTime, err)
	}
	duration, err := strconv.ParseFloat(strings.TrimSpace(record[cols[ColDuration]]), 64)
	if err != nil {
		return model.Trip{}, fmt.Errorf("%s: %w", ColDuration, err)
	}
	if math.IsNaN(duration) || math.IsInf(duration, 0) || duration < 0 {
		return model.Trip{}, fmt.Errorf("%s: invalid duration %v", ColDuration, duration)
	}
	return model.Trip{
		StartTime:    start,
		EndTime:      end,
		Month:        int(start.Month()),
		Weekday:      MondayWeekday(start),
		StartStation: strings.TrimSpace(record[cols[ColStartStation]]),
		EndStation:   strings.TrimSpace(record[cols[ColEndStation]]),
		Duration:     duration,
		UserType:     strings.TrimSpace(record[cols[ColUserType]]),
	}, nil
}

func parseTime(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", value)
}

func parseBirthYear(value string) (int, bool, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, false, nil
	}
	year, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, false, err
	}
	// NaN marks a missing year in exported trip files.
	if math.IsNaN(year) {
		return 0, false, nil
	}
	if math.IsInf(year, 0) || year < 0 {
		return 0, false, fmt.Errorf("invalid year %v", year)
	}
	return int(year), true, nil
}

// MondayWeekday returns the weekday of t counting from Monday = 0.
func MondayWeekday(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}
