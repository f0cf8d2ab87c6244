package google

import (
	"context"
	"fmt"
	"log"
	"time"

	"google.golang.org/api/tasks/v1"

	"github.com/harrisonrobin/gtasksprint/pkg/model"
)

// TasksClient reads one Google Tasks list.
type TasksClient struct {
	srv    *tasks.Service
	listID string
}

// NewTasksClient wraps srv for the list with the given ID.
func NewTasksClient(srv *tasks.Service, listID string) *TasksClient {
	return &TasksClient{srv: srv, listID: listID}
}

// ListOpenTasks fetches the visible, uncompleted tasks of the list with the
// API's dueMax filter applied, in the order the API returns them.
func (c *TasksClient) ListOpenTasks(ctx context.Context, dueMax time.Time) ([]model.Task, error) {
	var out []model.Task
	call := c.srv.Tasks.List(c.listID).
		ShowHidden(false).
		ShowDeleted(false).
		ShowCompleted(false).
		DueMax(dueMax.UTC().Format(time.RFC3339)).
		MaxResults(100)
	err := call.Pages(ctx, func(page *tasks.Tasks) error {
		for _, item := range page.Items {
			out = append(out, toModel(item))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve tasks from list %s: %w", c.listID, err)
	}
	log.Printf("Fetched %d tasks from list %s", len(out), c.listID)
	return out, nil
}

func toModel(t *tasks.Task) model.Task {
	return model.Task{Title: t.Title, Notes: t.Notes, Due: t.Due}
}
