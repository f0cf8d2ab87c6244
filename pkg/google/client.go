package google

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/api/tasks/v1"

	"github.com/harrisonrobin/gtasksprint/pkg/auth"
)

// ErrListNotFound is returned when no task list has the configured title.
var ErrListNotFound = errors.New("task list not found")

// NewClient authenticates and returns a client for the task list titled listName.
func NewClient(ctx context.Context, listName string) (*TasksClient, error) {
	srv, err := auth.GetTasksService(ctx)
	if err != nil {
		return nil, err
	}

	listID, err := FindList(ctx, srv, listName)
	if err != nil {
		return nil, err
	}
	return NewTasksClient(srv, listID), nil
}

// FindList returns the ID of the first task list titled listName.
func FindList(ctx context.Context, srv *tasks.Service, listName string) (string, error) {
	var listID string
	errFound := errors.New("found")
	err := srv.Tasklists.List().MaxResults(100).Pages(ctx, func(page *tasks.TaskLists) error {
		for _, item := range page.Items {
			if item.Title == listName {
				listID = item.Id
				return errFound
			}
		}
		return nil
	})
	if err != nil && !errors.Is(err, errFound) {
		return "", fmt.Errorf("unable to retrieve task lists: %w", err)
	}
	if listID == "" {
		return "", fmt.Errorf("%w: %q", ErrListNotFound, listName)
	}
	return listID, nil
}
