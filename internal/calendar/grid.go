package calendar

import (
	"fmt"
	"time"

	"orderdesk/internal/order"
)

// BuildMonth lays out year/month. today and selected are compared by date
// only; a zero selected marks nothing.
func BuildMonth(year int, month time.Month, today, selected time.Time, events map[string][]Event) Month {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	daysIn := first.AddDate(0, 1, -1).Day()

	todayKey := today.Format(dateLayout)
	selectedKey := ""
	if !selected.IsZero() {
		selectedKey = selected.Format(dateLayout)
	}

	var weeks [][]*Day
	week := make([]*Day, int(first.Weekday()), 7)

	for n := 1; n <= daysIn; n++ {
		date := time.Date(year, month, n, 0, 0, 0, 0, time.UTC)
		key := date.Format(dateLayout)
		week = append(week, &Day{
			Date:     date,
			Today:    key == todayKey,
			Selected: key == selectedKey,
			Events:   len(events[key]),
		})
		if len(week) == 7 {
			weeks = append(weeks, week)
			week = make([]*Day, 0, 7)
		}
	}
	if len(week) > 0 {
		for len(week) < 7 {
			week = append(week, nil)
		}
		weeks = append(weeks, week)
	}

	return Month{Year: year, Month: month, Weeks: weeks}
}

// EventsFromOrders groups orders by event date. Titles read
// "customer - STATUS" and carry the status color.
func EventsFromOrders(orders []order.Order) map[string][]Event {
	events := make(map[string][]Event)
	for _, o := range orders {
		if o.Date == "" {
			continue
		}
		key := o.Date
		if t, err := time.Parse(dateLayout, o.Date); err == nil {
			key = t.Format(dateLayout)
		} else if len(o.Date) > len(dateLayout) {
			key = o.Date[:len(dateLayout)]
		}

		events[key] = append(events[key], Event{
			OrderID: o.ID,
			Date:    key,
			Title:   fmt.Sprintf("%s - %s", o.CustomerName, o.Status),
			Status:  o.Status,
			Color:   o.Status.Color(),
		})
	}
	return events
}
