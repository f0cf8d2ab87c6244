// Package urgency classifies tasks by comparing their due date with today.
package urgency

import (
	"cmp"
	"errors"
	"fmt"
	"time"
)

// ErrMalformedDueDate is returned when a due date is present but is not RFC 3339.
var ErrMalformedDueDate = errors.New("malformed due date")

// Class is the urgency of a task.
type Class int

const (
	NoDueDate Class = iota
	DueLater
	DueToday
	Overdue
)

var classNames = [...]string{
	NoDueDate: "no due date",
	DueLater:  "due later",
	DueToday:  "due today",
	Overdue:   "overdue",
}

func (c Class) String() string {
	if c < 0 || int(c) >= len(classNames) {
		return fmt.Sprintf("Class(%d)", int(c))
	}
	return classNames[c]
}

// byOrdering maps the three-way comparison of due day against today
// (-1, 0, +1, shifted by one) to a class.
var byOrdering = [3]Class{Overdue, DueToday, DueLater}

// Classify returns the urgency of a task due at due, as seen at now.
// Only the UTC calendar day matters: a task due at 00:00 today is DueToday
// even in the evening.
func Classify(due string, now time.Time) (Class, error) {
	if due == "" {
		return NoDueDate, nil
	}
	t, err := time.Parse(time.RFC3339, due)
	if err != nil {
		return NoDueDate, fmt.Errorf("%w %q: %w", ErrMalformedDueDate, due, err)
	}
	return byOrdering[CompareDays(t, now)+1], nil
}

// CompareDays compares the UTC calendar days of a and b and returns -1, 0 or +1.
func CompareDays(a, b time.Time) int {
	ay, am, ad := a.UTC().Date()
	by, bm, bd := b.UTC().Date()
	if c := cmp.Compare(ay, by); c != 0 {
		return c
	}
	if c := cmp.Compare(am, bm); c != 0 {
		return c
	}
	return cmp.Compare(ad, bd)
}
