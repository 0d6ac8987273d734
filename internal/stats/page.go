package stats

import (
	"fmt"
	"io"
	"strconv"

	"github.com/verte-zerg/bikeshare/internal/dataset"
	"github.com/verte-zerg/bikeshare/internal/model"
)

const (
	// PageSize is the number of raw rows shown per page.
	PageSize = 5
	// NoMoreData is the next offset returned for an absent table.
	NoMoreData = -1
)

const timeLayout = "2006-01-02 15:04:05"

// Page returns the rows [start, start+PageSize) of the table, clipped to its
// length, and the offset of the following page.
func Page(t *dataset.Table, start int) ([]model.Trip, int) {
	if t == nil {
		return nil, NoMoreData
	}
	if start < 0 {
		start = 0
	}
	lo := min(start, len(t.Trips))
	hi := min(start+PageSize, len(t.Trips))
	return t.Trips[lo:hi], start + PageSize
}

// PageHeaders returns the raw column headers shown for the table.
func PageHeaders(t *dataset.Table) []string {
	headers := []string{
		"",
		dataset.ColStartTime,
		dataset.ColEndTime,
		dataset.ColDuration,
		dataset.ColStartStation,
		dataset.ColEndStation,
		dataset.ColUserType,
	}
	if t != nil && t.HasGender {
		headers = append(headers, dataset.ColGender)
	}
	if t != nil && t.HasBirthYear {
		headers = append(headers, dataset.ColBirthYear)
	}
	return append(headers, "Month", "DoW")
}

// PageCells renders trips as table cells matching PageHeaders.
func PageCells(t *dataset.Table, trips []model.Trip) [][]string {
	rows := make([][]string, 0, len(trips))
	for _, trip := range trips {
		row := []string{
			trip.Label,
			trip.StartTime.Format(timeLayout),
			trip.EndTime.Format(timeLayout),
			strconv.FormatFloat(trip.Duration, 'f', -1, 64),
			trip.StartStation,
			trip.EndStation,
			naIfEmpty(trip.UserType),
		}
		if t != nil && t.HasGender {
			row = append(row, naIfEmpty(trip.Gender))
		}
		if t != nil && t.HasBirthYear {
			year := "<NA>"
			if trip.HasBirthYear {
				year = strconv.Itoa(trip.BirthYear)
			}
			row = append(row, year)
		}
		row = append(row, strconv.Itoa(trip.Month), strconv.Itoa(trip.Weekday))
		rows = append(rows, row)
	}
	return rows
}

// RenderPage writes trips as an aligned table. Lines wider than width are
// truncated; width <= 0 disables truncation.
func RenderPage(w io.Writer, t *dataset.Table, trips []model.Trip, width int) error {
	if len(trips) == 0 {
		_, err := fmt.Fprintln(w, "No more trips to show.")
		return err
	}
	rightAlign := map[int]bool{3: true}
	lines := formatTable(PageHeaders(t), PageCells(t, trips), rightAlign)
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, truncateLine(line, width)); err != nil {
			return err
		}
	}
	return nil
}

func naIfEmpty(value string) string {
	if value == "" {
		return "<NA>"
	}
	return value
}
