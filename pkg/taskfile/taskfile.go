// Package taskfile reads tasks saved from the Google Tasks API as JSON, so a
// list can be printed without network access.
package taskfile

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"google.golang.org/api/tasks/v1"

	"github.com/harrisonrobin/gtasksprint/pkg/model"
)

const statusCompleted = "completed"

// Parse decodes a stream of JSON values from r. Each value may be a single
// task resource, an array of them, or a tasks.list response with "items".
// Completed, deleted and hidden tasks are dropped.
func Parse(r io.Reader) ([]model.Task, error) {
	var out []model.Task
	decoder := json.NewDecoder(r)
	for {
		var raw json.RawMessage
		if err := decoder.Decode(&raw); err != nil {
			if err == io.EOF {
				break
			}
			return nil, fmt.Errorf("failed to decode task json: %w", err)
		}

		items, err := decodeValue(raw)
		if err != nil {
			return nil, err
		}
		for _, item := range items {
			if item.Status == statusCompleted || item.Deleted || item.Hidden {
				continue
			}
			out = append(out, model.Task{Title: item.Title, Notes: item.Notes, Due: item.Due})
		}
	}
	return out, nil
}

func decodeValue(raw json.RawMessage) ([]*tasks.Task, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var items []*tasks.Task
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return nil, fmt.Errorf("failed to decode task array: %w", err)
		}
		return items, nil
	}

	var probe struct {
		Kind  string            `json:"kind"`
		Items []json.RawMessage `json:"items"`
	}
	if err := json.Unmarshal(trimmed, &probe); err != nil {
		return nil, fmt.Errorf("failed to decode task json: %w", err)
	}
	if probe.Kind == "tasks#tasks" || probe.Items != nil {
		var page tasks.Tasks
		if err := json.Unmarshal(trimmed, &page); err != nil {
			return nil, fmt.Errorf("failed to decode task list: %w", err)
		}
		return page.Items, nil
	}

	var item tasks.Task
	if err := json.Unmarshal(trimmed, &item); err != nil {
		return nil, fmt.Errorf("failed to decode task: %w", err)
	}
	return []*tasks.Task{&item}, nil
}

// Source serves tasks from a file, or from standard input when Path is "-".
type Source struct {
	Path  string
	Stdin io.Reader
}

// ListOpenTasks reads the file and keeps the tasks due before dueMax and the
// tasks without a due date. Tasks with an unreadable due date are kept so the
// renderer can report them.
func (s *Source) ListOpenTasks(_ context.Context, dueMax time.Time) ([]model.Task, error) {
	var r io.Reader
	if s.Path == "-" {
		r = s.Stdin
		if r == nil {
			r = os.Stdin
		}
	} else {
		f, err := os.Open(s.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to open task file: %w", err)
		}
		defer f.Close()
		r = f
	}

	all, err := Parse(r)
	if err != nil {
		return nil, err
	}
	out := all[:0]
	for _, t := range all {
		if due, err := time.Parse(time.RFC3339, t.Due); err == nil && due.After(dueMax) {
			continue
		}
		out = append(out, t)
	}
	return out, nil
}
