// Package worker implements background task handling for asynchronous conversions.
package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"rubconverter/internal/service"
)

// NewConvertHandler returns a function to handle conversion tasks.
// The formatted result is written as the task result.
func NewConvertHandler(svc service.ConversionServiceInterface, logger *zap.SugaredLogger) func(context.Context, *asynq.Task) error {
	return func(ctx context.Context, t *asynq.Task) error {
		var payload service.ConvertPayload
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			logger.Errorw("Invalid task payload", "type", t.Type(), "error", err)
			return &taskFailure{msg: service.MsgInternal, cause: fmt.Errorf("decode payload: %w", err), permanent: true}
		}

		conv, err := svc.ProcessConversion(ctx, payload.ConversionID, payload.Amount, payload.Currency)
		if err != nil {
			logger.Errorw("Task processing failed", "conversion_id", payload.ConversionID, "error", err)
			// Bad input will not get better on retry.
			return &taskFailure{
				msg:       service.FailureMessage(err),
				cause:     err,
				permanent: !errors.Is(err, service.ErrUpstreamUnavailable),
			}
		}

		if rw := t.ResultWriter(); rw != nil {
			if _, err := rw.Write([]byte(conv.Text)); err != nil {
				logger.Errorw("Failed to write task result", "conversion_id", payload.ConversionID, "error", err)
				return err
			}
		}

		logger.Infow("Task completed", "conversion_id", payload.ConversionID, "result", conv.Text)
		return nil
	}
}

// taskFailure is a handler error whose text is the user-facing message.
// Asynq stores that text as the task's last error, so upstream details stay in the logs.
type taskFailure struct {
	msg       string
	cause     error
	permanent bool
}

func (e *taskFailure) Error() string { return e.msg }

func (e *taskFailure) Unwrap() []error {
	if e.permanent {
		return []error{e.cause, asynq.SkipRetry}
	}
	return []error{e.cause}
}

// AsynqEnqueuer enqueues conversion tasks with fixed retry, timeout and retention settings.
type AsynqEnqueuer struct {
	client    *asynq.Client
	maxRetry  int
	timeout   time.Duration
	retention time.Duration
}

// NewAsynqEnqueuer creates a new AsynqEnqueuer.
func NewAsynqEnqueuer(client *asynq.Client, maxRetry int, timeout, retention time.Duration) *AsynqEnqueuer {
	return &AsynqEnqueuer{
		client:    client,
		maxRetry:  maxRetry,
		timeout:   timeout,
		retention: retention,
	}
}

// EnqueueConvertTask enqueues a conversion task whose task ID is the conversion ID.
func (e *AsynqEnqueuer) EnqueueConvertTask(ctx context.Context, payload service.ConvertPayload) error {
	task, err := NewConvertTask(payload, e.maxRetry, e.timeout, e.retention)
	if err != nil {
		return err
	}

	_, err = e.client.EnqueueContext(ctx, task)
	return err
}

// NewConvertTask builds the Asynq task for a conversion.
func NewConvertTask(payload service.ConvertPayload, maxRetry int, timeout, retention time.Duration) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	return asynq.NewTask(service.TaskTypeConvert, data,
		asynq.TaskID(payload.ConversionID),
		asynq.MaxRetry(maxRetry),
		asynq.Timeout(timeout),
		asynq.Retention(retention),
	), nil
}

var _ service.TaskEnqueuer = (*AsynqEnqueuer)(nil)
