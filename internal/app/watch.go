package app

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"orderdesk/internal/fetch"
	"orderdesk/internal/logger"
	"orderdesk/internal/schedule"

	"go.uber.org/zap"
)

type searchView struct {
	search func(ctx context.Context, term string) error
	render func(w io.Writer) error
}

func (a *App) searchViewFor(resource string) (searchView, error) {
	switch strings.ToLower(strings.TrimSpace(resource)) {
	case "customers":
		return searchView{
			search: func(ctx context.Context, term string) error { _, err := a.Customers.Search(ctx, term); return err },
			render: a.Customers.Render,
		}, nil
	case "products":
		return searchView{
			search: func(ctx context.Context, term string) error { _, err := a.Products.Search(ctx, term); return err },
			render: a.Products.Render,
		}, nil
	case "orders":
		return searchView{
			search: func(ctx context.Context, term string) error { _, err := a.Orders.Search(ctx, term); return err },
			render: a.Orders.Render,
		}, nil
	}
	return searchView{}, fmt.Errorf("%w: watch-search customers|products|orders, got %q", ErrUsage, resource)
}

// watchSearch treats each input line as the search box's new content.
// Lines arriving faster than the configured delay collapse into one search.
// Input ending flushes the last pending search.
func (a *App) watchSearch(ctx context.Context, req Request) error {
	view, err := a.searchViewFor(req.Args[0])
	if err != nil {
		return err
	}
	if req.In == nil {
		return fmt.Errorf("%w: watch-search needs input", ErrUsage)
	}

	log := logger.FromCtx(ctx).With(
		zap.String("layer", "app"),
		zap.String("method", "WatchSearch"),
		zap.String("resource", req.Args[0]),
	)

	var (
		busy    sync.Mutex
		lastRun string
		runs    int
	)
	run := func(term string) {
		busy.Lock()
		defer busy.Unlock()

		lastRun = term
		runs++
		fmt.Fprintf(req.Out, "> %s\n", term)
		if err := view.search(ctx, term); err != nil {
			if !errors.Is(err, fetch.ErrCancelled) {
				fmt.Fprintf(req.Out, "error: %s\n", fetch.UserMessage(err))
			}
			return
		}
		if err := view.render(req.Out); err != nil {
			log.Warn("render failed", zap.Error(err))
		}
	}

	var (
		call   func(fn func())
		finish func(last string)
	)
	if req.Flag("throttle") == "true" {
		t := schedule.NewThrottler(a.cfg.SearchDebounce)
		call = t.Call
		finish = func(last string) {
			t.Stop()
			t.Wait()
			busy.Lock()
			stale := lastRun != last
			busy.Unlock()
			if stale {
				run(last)
			}
		}
	} else {
		d := schedule.NewDebouncer(a.cfg.SearchDebounce)
		call = d.Call
		finish = func(string) {
			d.Flush()
			d.Wait()
		}
	}

	var (
		last  string
		lines int
	)
	scanner := bufio.NewScanner(req.In)
	for scanner.Scan() {
		term := scanner.Text()
		last = term
		lines++
		call(func() { run(term) })
	}
	if lines > 0 {
		finish(last)
	}

	log.Debug("watch finished", zap.Int("lines", lines), zap.Int("searches", runs))

	return scanner.Err()
}
