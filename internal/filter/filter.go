// Package filter asks the user for a city and time filters.
package filter

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/verte-zerg/bikeshare/internal/ctxlog"
	"github.com/verte-zerg/bikeshare/internal/dataset"
	"github.com/verte-zerg/bikeshare/internal/model"
	"github.com/verte-zerg/bikeshare/internal/prompt"
	"github.com/verte-zerg/bikeshare/internal/selection"
	"github.com/verte-zerg/bikeshare/internal/stats"
)

// DefaultRetries is how many declined confirmations are allowed.
const DefaultRetries = 2

type state int

const (
	selectingCity state = iota
	preloadingCalendar
	selectingMonth
	selectingWeekday
	confirming
	done
	aborted
)

// Builder walks the user through city, month and weekday selection.
type Builder struct {
	asker   prompt.Asker
	out     io.Writer
	cities  model.CandidateList
	dirs    []string
	retries int
}

// NewBuilder returns a Builder offering cities whose files are searched in dirs.
func NewBuilder(asker prompt.Asker, out io.Writer, cities model.CandidateList, dirs []string, retries int) *Builder {
	if retries <= 0 {
		retries = DefaultRetries
	}
	return &Builder{
		asker:   asker,
		out:     out,
		cities:  cities,
		dirs:    dirs,
		retries: retries,
	}
}

// Build returns the confirmed filter spec. ok is false when the user aborts
// or the retry budget runs out.
func (b *Builder) Build(ctx context.Context) (spec model.FilterSpec, ok bool, err error) {
	logger := ctxlog.FromContext(ctx)
	remaining := b.retries
	var months []int
	st := selectingCity

	for {
		switch st {
		case selectingCity:
			if remaining <= 0 {
				st = aborted
				continue
			}
			city, path, found, err := b.selectCity()
			if err != nil {
				return model.FilterSpec{}, false, err
			}
			if !found {
				st = aborted
				continue
			}
			spec = model.FilterSpec{City: city, Path: path}
			logger.Debug("city resolved", "city", city, "path", path)
			st = preloadingCalendar

		case preloadingCalendar:
			months, err = dataset.ScanMonths(spec.Path)
			if err != nil {
				b.printf("Error getting filters for %s: %v\n", spec.Path, err)
				if !errors.Is(err, dataset.ErrMalformed) {
					remaining--
				}
				logger.Warn("preload failed", "path", spec.Path, "err", err, "retries_left", remaining)
				st = selectingCity
				continue
			}
			st = selectingMonth

		case selectingMonth:
			spec.Month, err = b.selectMonth(months)
			if err != nil {
				return model.FilterSpec{}, false, err
			}
			st = selectingWeekday

		case selectingWeekday:
			spec.Weekday, err = b.selectWeekday()
			if err != nil {
				return model.FilterSpec{}, false, err
			}
			st = confirming

		case confirming:
			answer, err := b.asker.Ask(spec.Summary() + ". Confirm?  ")
			if err != nil {
				return model.FilterSpec{}, false, err
			}
			if answer != "" {
				remaining--
				if prompt.IsNo(answer) {
					logger.Debug("filters declined", "retries_left", remaining)
					st = selectingCity
					continue
				}
			}
			b.printf("%s\n", stats.Separator)
			st = done

		case done:
			return spec, true, nil

		case aborted:
			return model.FilterSpec{}, false, nil
		}
	}
}

func (b *Builder) selectCity() (city, path string, ok bool, err error) {
	question := fmt.Sprintf("Enter a city to explore (%s):  ", strings.Join(b.cities.Names(), ", "))
	for {
		answer, err := b.asker.Ask(question)
		if err != nil {
			return "", "", false, err
		}
		if answer == "" {
			return "", "", false, nil
		}
		name := selection.TitleCase(answer)
		if sel, ok := selection.Normalize(answer, b.cities); ok {
			name = sel.Name
			path, err := dataset.ResolveCityFile(sel.Name, b.dirs)
			if err == nil {
				return sel.Name, path, true, nil
			}
			if !errors.Is(err, dataset.ErrNoData) {
				return "", "", false, err
			}
		}
		b.printf("\nSorry. No data for city '%s' at this time...\n", name)
		b.printf("\tCheck spelling or try another city.\n\n")
	}
}

func (b *Builder) selectMonth(present []int) (model.Selection, error) {
	list := selection.Months(present)
	names := list.Names()
	question := fmt.Sprintf("[OPTIONAL] Enter a month to filter data (%s to %s):  ", names[0], names[len(names)-1])
	answer, err := b.asker.Ask(question)
	if err != nil {
		return model.Selection{}, err
	}
	sel, _ := selection.Normalize(answer, list)
	return sel, nil
}

func (b *Builder) selectWeekday() (model.Selection, error) {
	answer, err := b.asker.Ask("[OPTIONAL] Enter a day of the week to filter data:  ")
	if err != nil {
		return model.Selection{}, err
	}
	sel, _ := selection.Normalize(answer, selection.Weekdays())
	return sel, nil
}

func (b *Builder) printf(format string, args ...any) {
	if _, err := fmt.Fprintf(b.out, format, args...); err != nil {
		// Best-effort console output.
		_ = err
	}
}
