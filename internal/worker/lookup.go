package worker

import (
	"context"
	"errors"

	"github.com/hibiken/asynq"

	"rubconverter/internal/service"
)

// taskInspector is the subset of *asynq.Inspector used for lookups.
type taskInspector interface {
	GetTaskInfo(queue, id string) (*asynq.TaskInfo, error)
}

// AsynqTaskLookup reads conversion state from the Asynq queue.
type AsynqTaskLookup struct {
	inspector taskInspector
	queue     string
}

// NewAsynqTaskLookup creates a new AsynqTaskLookup over the default queue.
func NewAsynqTaskLookup(inspector *asynq.Inspector) *AsynqTaskLookup {
	return &AsynqTaskLookup{inspector: inspector, queue: "default"}
}

// LookupConvertTask maps the Asynq task state onto the conversion lifecycle.
func (l *AsynqTaskLookup) LookupConvertTask(_ context.Context, conversionID string) (*service.ConversionTask, error) {
	info, err := l.inspector.GetTaskInfo(l.queue, conversionID)
	if err != nil {
		if errors.Is(err, asynq.ErrTaskNotFound) || errors.Is(err, asynq.ErrQueueNotFound) {
			return nil, service.ErrNotFound
		}
		return nil, err
	}
	if info.Type != service.TaskTypeConvert {
		return nil, service.ErrNotFound
	}

	return taskFromInfo(info), nil
}

func taskFromInfo(info *asynq.TaskInfo) *service.ConversionTask {
	t := &service.ConversionTask{ID: info.ID}

	switch info.State {
	case asynq.TaskStateActive:
		t.Status = service.StatusRunning
	case asynq.TaskStateCompleted:
		t.Status = service.StatusSuccess
		t.Result = info.Result
		t.CompletedAt = info.CompletedAt
	case asynq.TaskStateArchived:
		t.Status = service.StatusFailed
		t.LastErr = info.LastErr
	default:
		// pending, scheduled, retry, aggregating
		t.Status = service.StatusPending
	}
	return t
}

var _ service.TaskLookup = (*AsynqTaskLookup)(nil)
