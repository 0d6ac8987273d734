package stats

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/bikeshare/internal/dataset"
)

// Separator closes every report section.
var Separator = strings.Repeat("-=-", 15)

var titleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)

// Reporter is one titled statistics section.
type Reporter struct {
	Title string
	Write func(io.Writer, *dataset.Table) error
}

// Reporters returns the time, station, trip and user reporters in display order.
func Reporters() []Reporter {
	return []Reporter{
		{Title: "Calculating the Most Frequent Times of Travel...", Write: TimeStats},
		{Title: "Calculating the Most Popular Stations...", Write: StationStats},
		{Title: "Calculating Trip Duration...", Write: TripStats},
		{Title: "Calculating User Stats...", Write: UserStats},
	}
}

// Run writes one reporter's section with its title, elapsed time and separator.
func Run(w io.Writer, t *dataset.Table, r Reporter) error {
	if t.Empty() {
		return nil
	}
	if _, err := fmt.Fprintf(w, "%s\n\n", titleStyle.Render(r.Title)); err != nil {
		return err
	}
	started := time.Now()
	if err := r.Write(w, t); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "\nThis took %.6f seconds.\n", time.Since(started).Seconds()); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w, Separator)
	return err
}

// RunAll writes every reporter in order.
func RunAll(w io.Writer, t *dataset.Table) error {
	for _, r := range Reporters() {
		if err := Run(w, t, r); err != nil {
			return err
		}
	}
	return nil
}
