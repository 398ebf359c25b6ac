package entity

import "time"

// Exercise is one entry of a user's log. Date is midnight UTC of the
// calendar day it happened on.
type Exercise struct {
	ID          string    `db:"id"`
	UserID      string    `db:"user_id"`
	Description string    `db:"description"`
	Duration    int       `db:"duration"`
	Date        time.Time `db:"date"`
	CreatedAt   time.Time `db:"created_at"`
}

// LogFilter narrows a user's log. Bounds are inclusive calendar days; a
// nil bound is open. Limit <= 0 means unbounded.
type LogFilter struct {
	From  *time.Time
	To    *time.Time
	Limit int
}

// Match reports whether day falls inside the bounds.
func (f LogFilter) Match(day time.Time) bool {
	if f.From != nil && day.Before(*f.From) {
		return false
	}
	if f.To != nil && day.After(*f.To) {
		return false
	}
	return true
}
