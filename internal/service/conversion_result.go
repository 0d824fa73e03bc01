package service

import "time"

// ConversionStatus is the lifecycle state of an asynchronous conversion.
type ConversionStatus string

// Status values for the asynchronous conversion lifecycle.
const (
	StatusPending ConversionStatus = "PENDING"
	StatusRunning ConversionStatus = "RUNNING"
	StatusSuccess ConversionStatus = "SUCCESS"
	StatusFailed  ConversionStatus = "FAILED"
)

// ConversionTask is the queue's view of an asynchronous conversion.
type ConversionTask struct {
	ID          string
	Status      ConversionStatus
	Result      []byte
	LastErr     string
	CompletedAt time.Time
}

// ConversionResult represents an asynchronous conversion returned by the service layer.
// Fields are populated according to Status:
//   - SUCCESS: Result and CompletedAt are set, ErrorMsg is nil.
//   - FAILED:  ErrorMsg is set, Result is nil.
//   - PENDING/RUNNING: Result, ErrorMsg and CompletedAt are nil.
type ConversionResult struct {
	ID          string
	Status      string
	Result      *string
	ErrorMsg    *string
	CompletedAt *string
}

func conversionResultFromTask(t *ConversionTask) *ConversionResult {
	r := &ConversionResult{
		ID:     t.ID,
		Status: string(t.Status),
	}

	switch t.Status {
	case StatusSuccess:
		res := string(t.Result)
		r.Result = &res
		if !t.CompletedAt.IsZero() {
			ts := t.CompletedAt.UTC().Format(time.RFC3339)
			r.CompletedAt = &ts
		}
	case StatusFailed:
		msg := publicFailure(t.LastErr)
		r.ErrorMsg = &msg
	}

	return r
}
