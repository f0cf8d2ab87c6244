package model

// Task is a single entry of a task list as the renderer sees it.
// Empty fields mean the value is absent.
type Task struct {
	Title string
	Notes string
	// Due is an RFC 3339 timestamp, e.g. "2024-06-01T00:00:00.000Z".
	Due string
}

// HasNotes reports whether the task carries notes worth printing.
func (t Task) HasNotes() bool {
	return t.Notes != ""
}
