package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"rubconverter/internal/repository"
)

// ConversionServiceInterface defines the operations exposed to the HTTP layer and the worker.
type ConversionServiceInterface interface {
	Convert(ctx context.Context, rawAmount, currency string) ([]*Conversion, error)
	RequestConversion(ctx context.Context, rawAmount, currency string) (conversionID, status string, err error)
	GetConversion(ctx context.Context, conversionID string) (*ConversionResult, error)
	ProcessConversion(ctx context.Context, conversionID string, amount float64, currency string) (*Conversion, error)
	CurrentRates(ctx context.Context) (map[Currency]float64, error)
	RateArchive(ctx context.Context, limit int) ([]repository.RateSnapshot, error)
	LatestArchivedRates(ctx context.Context) (*repository.RateSnapshot, error)
	History() []string
	ClearHistory()
}

// TaskTypeConvert is the Asynq task type for conversion jobs.
const TaskTypeConvert = "conversion:run"

// ConvertPayload is the payload structure for conversion Asynq tasks.
type ConvertPayload struct {
	ConversionID string  `json:"conversion_id"`
	Amount       float64 `json:"amount"`
	Currency     string  `json:"currency"`
}

// TaskEnqueuer puts conversion tasks on the queue.
type TaskEnqueuer interface {
	EnqueueConvertTask(ctx context.Context, payload ConvertPayload) error
}

// TaskLookup reads the state of a queued conversion. It returns ErrNotFound for unknown IDs.
type TaskLookup interface {
	LookupConvertTask(ctx context.Context, conversionID string) (*ConversionTask, error)
}

// SnapshotArchive reads archived upstream snapshots.
type SnapshotArchive interface {
	ListSnapshots(ctx context.Context, limit int) ([]repository.RateSnapshot, error)
	LatestSnapshot(ctx context.Context) (*repository.RateSnapshot, error)
}

// ConversionService defines business logic for conversions.
type ConversionService struct {
	converter *Converter
	history   *History
	archive   SnapshotArchive
	enqueuer  TaskEnqueuer
	lookup    TaskLookup
	log       *zap.SugaredLogger
}

// NewConversionService creates a new ConversionService.
func NewConversionService(converter *Converter, history *History, archive SnapshotArchive, enqueuer TaskEnqueuer, lookup TaskLookup, logger *zap.SugaredLogger) *ConversionService {
	return &ConversionService{
		converter: converter,
		history:   history,
		archive:   archive,
		enqueuer:  enqueuer,
		lookup:    lookup,
		log:       logger,
	}
}

// Convert converts synchronously. An empty currency converts into every supported currency.
// Successful conversions are appended to the history.
func (s *ConversionService) Convert(ctx context.Context, rawAmount, currency string) ([]*Conversion, error) {
	var convs []*Conversion
	var err error
	if currency == "" {
		var amount float64
		if amount, err = ParseAmount(rawAmount); err == nil {
			convs, err = s.converter.ConvertAll(ctx, amount)
		}
	} else {
		var conv *Conversion
		if conv, err = s.converter.ConvertRaw(ctx, rawAmount, currency); err == nil {
			convs = []*Conversion{conv}
		}
	}
	if err != nil {
		s.logConvertError(rawAmount, currency, err)
		return nil, err
	}

	for _, conv := range convs {
		s.history.Append(conv)
	}
	return convs, nil
}

// RequestConversion validates the input and queues an asynchronous conversion.
func (s *ConversionService) RequestConversion(ctx context.Context, rawAmount, currency string) (conversionID, status string, err error) {
	amount, err := ParseAmount(rawAmount)
	if err != nil {
		return "", "", err
	}
	cur, err := ParseCurrency(currency)
	if err != nil {
		return "", "", err
	}

	id := uuid.New().String()
	payload := ConvertPayload{ConversionID: id, Amount: amount, Currency: string(cur)}
	if err := s.enqueuer.EnqueueConvertTask(ctx, payload); err != nil {
		s.log.Errorw("Failed to enqueue conversion task", "conversion_id", id, "error", err)
		return "", "", ErrInternalQueue
	}

	s.log.Infow("Enqueued conversion task", "conversion_id", id, "amount", amount, "currency", cur)
	return id, string(StatusPending), nil
}

// GetConversion retrieves the status and result of an asynchronous conversion.
func (s *ConversionService) GetConversion(ctx context.Context, conversionID string) (*ConversionResult, error) {
	if _, err := uuid.Parse(conversionID); err != nil {
		return nil, ErrInvalidConversionID
	}

	task, err := s.lookup.LookupConvertTask(ctx, conversionID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		s.log.Errorw("Queue error fetching conversion", "conversion_id", conversionID, "error", err)
		return nil, ErrInternal
	}

	return conversionResultFromTask(task), nil
}

// ProcessConversion performs a queued conversion (called by the background worker).
func (s *ConversionService) ProcessConversion(ctx context.Context, conversionID string, amount float64, currency string) (*Conversion, error) {
	cur, err := ParseCurrency(currency)
	if err != nil {
		return nil, err
	}

	s.log.Infow("Processing conversion", "conversion_id", conversionID, "amount", amount, "currency", cur)
	conv, err := s.converter.Convert(ctx, amount, cur)
	if err != nil {
		s.logConvertError(FormatAmount(amount), currency, err)
		return nil, err
	}

	s.history.Append(conv)
	s.log.Infow("Conversion success", "conversion_id", conversionID, "result", conv.Text)
	return conv, nil
}

// CurrentRates returns RUB per unit of every supported currency.
func (s *ConversionService) CurrentRates(ctx context.Context) (map[Currency]float64, error) {
	rates, err := s.converter.Rates(ctx)
	if err != nil {
		s.log.Warnw("Rates unavailable", "error", err)
		return nil, err
	}
	return rates, nil
}

// RateArchive lists archived upstream snapshots, newest first.
func (s *ConversionService) RateArchive(ctx context.Context, limit int) ([]repository.RateSnapshot, error) {
	if s.archive == nil {
		return nil, nil
	}
	snaps, err := s.archive.ListSnapshots(ctx, limit)
	if err != nil {
		s.log.Errorw("DB error listing rate archive", "error", err)
		return nil, ErrInternal
	}
	return snaps, nil
}

// LatestArchivedRates returns the most recent archived snapshot, or ErrNotFound
// when nothing has been fetched yet.
func (s *ConversionService) LatestArchivedRates(ctx context.Context) (*repository.RateSnapshot, error) {
	if s.archive == nil {
		return nil, ErrNotFound
	}
	snap, err := s.archive.LatestSnapshot(ctx)
	if err != nil {
		s.log.Errorw("DB error reading latest snapshot", "error", err)
		return nil, ErrInternal
	}
	if snap == nil {
		return nil, ErrNotFound
	}
	return snap, nil
}

// History returns the conversion log, oldest first.
func (s *ConversionService) History() []string {
	return s.history.Entries()
}

// ClearHistory empties the conversion log.
func (s *ConversionService) ClearHistory() {
	s.history.Clear()
	s.log.Infow("Conversion history cleared")
}

func (s *ConversionService) logConvertError(amount, currency string, err error) {
	if errors.Is(err, ErrUpstreamUnavailable) {
		s.log.Warnw("Conversion failed: rates unavailable", "amount", amount, "currency", currency, "error", err)
		return
	}
	s.log.Infow("Conversion rejected", "amount", amount, "currency", currency, "error", err)
}
