// Package session runs the interactive exploration loop.
package session

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/verte-zerg/bikeshare/internal/ctxlog"
	"github.com/verte-zerg/bikeshare/internal/dataset"
	"github.com/verte-zerg/bikeshare/internal/filter"
	"github.com/verte-zerg/bikeshare/internal/model"
	"github.com/verte-zerg/bikeshare/internal/prompt"
	"github.com/verte-zerg/bikeshare/internal/selection"
	"github.com/verte-zerg/bikeshare/internal/stats"
)

// Recorder persists loaded explorations.
type Recorder interface {
	InsertExploration(ctx context.Context, e model.Exploration) (string, error)
}

// Options configures a Controller.
type Options struct {
	Asker prompt.Asker
	Out   io.Writer
	// Cities lists the offered city names; empty means selection.DefaultCities.
	Cities []string
	Dirs   []string
	// Retries is the confirmation budget; <= 0 means filter.DefaultRetries.
	Retries int
	// Width truncates raw data lines; <= 0 disables truncation.
	Width int
	// Recorder is optional.
	Recorder Recorder
}

// Controller drives greet, explore and restart cycles.
type Controller struct {
	opts    Options
	builder *filter.Builder
}

// New returns a Controller for the given options.
func New(opts Options) *Controller {
	names := opts.Cities
	if len(names) == 0 {
		names = selection.DefaultCities()
	}
	return &Controller{
		opts:    opts,
		builder: filter.NewBuilder(opts.Asker, opts.Out, selection.Cities(names), opts.Dirs, opts.Retries),
	}
}

// Run loops until the user aborts filter selection or declines to restart.
func (c *Controller) Run(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)
	c.printf("Hello! Let's explore some US bikeshare data!\n\n")

	for {
		spec, ok, err := c.builder.Build(ctx)
		if err != nil {
			return fmt.Errorf("failed to build filters: %w", err)
		}
		if !ok {
			break
		}

		if err := c.explore(ctx, spec); err != nil {
			return err
		}

		again, err := prompt.Confirm(c.opts.Asker, "\nWould you like to restart?  ")
		if err != nil {
			return err
		}
		if !again {
			break
		}
		logger.Debug("restarting exploration")
	}

	banner := strings.Repeat("*", 45)
	c.printf("\n\n%s\n\nThank you for exploring bikeshare data!\n\n%s\n\n", banner, banner)
	return nil
}

func (c *Controller) explore(ctx context.Context, spec model.FilterSpec) error {
	logger := ctxlog.FromContext(ctx)
	started := time.Now()
	table, err := dataset.Load(spec.Path, dataset.Filter{Month: spec.Month, Weekday: spec.Weekday})
	if err != nil {
		c.printf("Error loading %s: %v\n", spec.Path, err)
		logger.Warn("load failed", "path", spec.Path, "err", err)
		return nil
	}
	logger.Debug("trips loaded", "path", spec.Path, "trips", table.Len())

	if err := stats.RunAll(c.opts.Out, table); err != nil {
		return fmt.Errorf("failed to write statistics: %w", err)
	}
	c.record(ctx, Exploration(spec, table, started))

	view, err := prompt.Confirm(c.opts.Asker, "\nWould you like to view this city's data?  ")
	if err != nil {
		return err
	}
	if !view {
		return nil
	}
	return c.page(table)
}

func (c *Controller) page(table *dataset.Table) error {
	start := 0
	for start != stats.NoMoreData {
		trips, next := stats.Page(table, start)
		if err := stats.RenderPage(c.opts.Out, table, trips, c.opts.Width); err != nil {
			return fmt.Errorf("failed to write trips: %w", err)
		}
		if len(trips) == 0 {
			return nil
		}
		more, err := prompt.Confirm(c.opts.Asker, "\nWould you like to view more?  ")
		if err != nil {
			return err
		}
		if !more {
			return nil
		}
		start = next
	}
	return nil
}

func (c *Controller) record(ctx context.Context, e model.Exploration) {
	if c.opts.Recorder == nil {
		return
	}
	id, err := c.opts.Recorder.InsertExploration(ctx, e)
	if err != nil {
		ctxlog.FromContext(ctx).Warn("failed to record exploration", "city", e.City, "err", err)
		return
	}
	ctxlog.FromContext(ctx).Debug("exploration recorded", "id", id)
}

// Exploration summarizes a loaded table for the history store.
func Exploration(spec model.FilterSpec, table *dataset.Table, started time.Time) model.Exploration {
	e := model.Exploration{
		StartedAt: started,
		City:      spec.City,
		Path:      spec.Path,
		Month:     spec.Month.Name,
		Weekday:   spec.Weekday.Name,
		Trips:     table.Len(),
	}
	if table != nil {
		for _, trip := range table.Trips {
			e.TotalDuration += trip.Duration
		}
	}
	return e
}

func (c *Controller) printf(format string, args ...any) {
	if _, err := fmt.Fprintf(c.opts.Out, format, args...); err != nil {
		// Best-effort console output.
		_ = err
	}
}
