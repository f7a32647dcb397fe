package calendar

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"orderdesk/internal/fetch"
	"orderdesk/internal/format"
	"orderdesk/internal/logger"

	"go.uber.org/zap"
)

type Service interface {
	Load(ctx context.Context) error
	Month(year int, month time.Month, today, selected time.Time) Month
	EventsOn(date string) []Event
	Render(w io.Writer, year int, month time.Month, today, selected time.Time) error
}

type service struct {
	repo Repository

	mu     sync.RWMutex
	events map[string][]Event
}

func NewService(repo Repository) Service {
	return &service{repo: repo, events: map[string][]Event{}}
}

// Load replaces the events with the current orders. On failure the previous
// events stay.
func (s *service) Load(ctx context.Context) error {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "LoadCalendar"),
	)

	orders, err := s.repo.Orders(ctx)
	if errors.Is(err, fetch.ErrCancelled) {
		return nil
	}
	if err != nil {
		log.Error("failed to load calendar events", zap.Error(err))
		return err
	}

	events := EventsFromOrders(orders)
	s.mu.Lock()
	s.events = events
	s.mu.Unlock()

	log.Debug("calendar events loaded", zap.Int("days", len(events)), zap.Int("orders", len(orders)))
	return nil
}

func (s *service) Month(year int, month time.Month, today, selected time.Time) Month {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return BuildMonth(year, month, today, selected, s.events)
}

func (s *service) EventsOn(date string) []Event {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Event(nil), s.events[date]...)
}

// Render draws the month grid and the event list for selected (today when
// selected is zero). Today is bracketed, the selected day is marked with
// angle brackets and days with events carry a '*'.
func (s *service) Render(w io.Writer, year int, month time.Month, today, selected time.Time) error {
	m := s.Month(year, month, today, selected)

	var b strings.Builder
	title := fmt.Sprintf("%s %d", m.Month, m.Year)
	fmt.Fprintf(&b, "%s%s\n", strings.Repeat(" ", (7*5-len(title))/2), title)
	b.WriteString(" Sun  Mon  Tue  Wed  Thu  Fri  Sat\n")

	for _, week := range m.Weeks {
		for _, d := range week {
			b.WriteString(cell(d))
		}
		b.WriteString("\n")
	}

	focus := selected
	if focus.IsZero() {
		focus = today
	}
	key := focus.Format(dateLayout)
	fmt.Fprintf(&b, "\nEvents on %s:\n", focus.Format("January 2, 2006"))

	events := s.EventsOn(key)
	if len(events) == 0 {
		b.WriteString("  No events for this day.\n")
	}
	for _, e := range events {
		fmt.Fprintf(&b, "  #%d  %s  (%s)\n", e.OrderID, format.Cell(e.Title), e.Color)
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func cell(d *Day) string {
	if d == nil {
		return "     "
	}

	num := fmt.Sprintf("%d", d.Date.Day())
	switch {
	case d.Today:
		num = "[" + num + "]"
	case d.Selected:
		num = "<" + num + ">"
	}
	if d.Events > 0 {
		num += "*"
	}
	return fmt.Sprintf("%5s", num)
}
