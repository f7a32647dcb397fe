package calendar

import (
	"time"

	"orderdesk/internal/status"
)

const dateLayout = "2006-01-02"

// Event is one order placed on the calendar.
type Event struct {
	OrderID int64
	Date    string
	Title   string
	Status  status.OrderStatus
	Color   string
}

type Day struct {
	Date     time.Time
	Today    bool
	Selected bool
	Events   int
}

func (d Day) Key() string {
	return d.Date.Format(dateLayout)
}

// Month is a grid of weeks starting on Sunday. Cells before the first and
// after the last day of the month are nil.
type Month struct {
	Year  int
	Month time.Month
	Weeks [][]*Day
}

// Day returns the cell for day n of the month, or nil when out of range.
func (m Month) Day(n int) *Day {
	for _, week := range m.Weeks {
		for _, d := range week {
			if d != nil && d.Date.Day() == n {
				return d
			}
		}
	}
	return nil
}
