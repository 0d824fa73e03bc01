package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"rubconverter/internal/repository"
	"rubconverter/internal/service"
)

// ConvertRequest represents the request body of a conversion.
// The amount is raw text, as typed by the user.
type ConvertRequest struct {
	Amount   string `json:"amount" example:"150"`
	Currency string `json:"currency,omitempty" example:"USD"`
}

// ConversionItem is one converted value.
type ConversionItem struct {
	Currency string  `json:"currency" example:"USD"`
	Rate     float64 `json:"rate" example:"75"`
	Value    float64 `json:"value" example:"2"`
	Result   string  `json:"result" example:"2.00 USD"`
}

// ConvertResponse represents the response of a synchronous conversion.
type ConvertResponse struct {
	Amount  float64          `json:"amount" example:"150"`
	Results []ConversionItem `json:"results"`
}

// ConversionAcceptedResponse represents the response for a queued conversion.
type ConversionAcceptedResponse struct {
	ConversionID string `json:"conversion_id" example:"123e4567-e89b-12d3-a456-426614174000"`
	Status       string `json:"status" example:"PENDING"`
}

// ConversionResponse represents the status of a queued conversion.
type ConversionResponse struct {
	ConversionID string  `json:"conversion_id" example:"123e4567-e89b-12d3-a456-426614174000"`
	Status       string  `json:"status" example:"SUCCESS"`
	Result       *string `json:"result,omitempty" example:"2.00 USD"`
	CompletedAt  *string `json:"completed_at,omitempty" example:"2025-12-01T10:15:30Z"`
	Error        *string `json:"error,omitempty" example:"no data from server"`
}

// RatesResponse lists RUB per one unit of each supported currency.
type RatesResponse struct {
	Base  string             `json:"base" example:"RUB"`
	Rates map[string]float64 `json:"rates"`
}

// ArchivedSnapshot is one archived upstream fetch.
type ArchivedSnapshot struct {
	ID        int64   `json:"id" example:"42"`
	Source    string  `json:"source" example:"cbr_daily"`
	USDRate   float64 `json:"usd_rate" example:"75"`
	EURRate   float64 `json:"eur_rate" example:"85"`
	FetchedAt string  `json:"fetched_at" example:"2025-12-01T10:15:30Z"`
}

// HistoryResponse lists past conversions, oldest first.
type HistoryResponse struct {
	Entries []string `json:"entries"`
}

// HandleConvert godoc
// @Summary Convert RUB synchronously
// @Description Converts a RUB amount into the given currency, or into every supported currency when currency is omitted. Rates come from the hourly cache or a fresh fetch.
// @Tags conversions
// @Accept json
// @Produce json
// @Param request body ConvertRequest true "Amount in RUB and target currency (USD, EUR, CNY)"
// @Success 200 {object} ConvertResponse
// @Failure 400 {object} ErrorResponse "Invalid amount or unsupported currency"
// @Failure 503 {object} ErrorResponse "Rates unavailable"
// @Router /convert [post]
func HandleConvert(svc service.ConversionServiceInterface) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ConvertRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid JSON"})
			return
		}

		convs, err := svc.Convert(r.Context(), req.Amount, req.Currency)
		if err != nil {
			writeConversionError(w, err)
			return
		}

		resp := ConvertResponse{Results: make([]ConversionItem, 0, len(convs))}
		for _, c := range convs {
			resp.Amount = c.Amount
			resp.Results = append(resp.Results, ConversionItem{
				Currency: string(c.Currency),
				Rate:     c.Rate,
				Value:    c.Value,
				Result:   c.Text,
			})
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

// HandleRequestConversion godoc
// @Summary Request asynchronous conversion
// @Description Validates the input and queues the conversion. Returns immediately with a conversion_id for tracking; does not block on the rates fetch.
// @Tags conversions
// @Accept json
// @Produce json
// @Param request body ConvertRequest true "Amount in RUB and target currency (USD, EUR, CNY)"
// @Success 202 {object} ConversionAcceptedResponse "Conversion accepted"
// @Failure 400 {object} ErrorResponse "Invalid amount or unsupported currency"
// @Failure 500 {object} ErrorResponse "Internal error"
// @Router /conversions [post]
func HandleRequestConversion(svc service.ConversionServiceInterface) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ConvertRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid JSON"})
			return
		}
		if req.Currency == "" {
			writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "currency is required"})
			return
		}

		id, status, err := svc.RequestConversion(r.Context(), req.Amount, req.Currency)
		if err != nil {
			writeConversionError(w, err)
			return
		}

		writeJSON(w, http.StatusAccepted, ConversionAcceptedResponse{ConversionID: id, Status: status})
	}
}

// HandleGetConversion godoc
// @Summary Get conversion status and result by ID
// @Description Returns the status of a queued conversion and its formatted result when status is SUCCESS.
// @Tags conversions
// @Produce json
// @Param conversion_id path string true "Conversion ID (UUID)" format(uuid)
// @Success 200 {object} ConversionResponse "Conversion found"
// @Failure 400 {object} ErrorResponse "Invalid conversion_id format"
// @Failure 404 {object} ErrorResponse "Unknown conversion_id"
// @Failure 500 {object} ErrorResponse "Internal error"
// @Router /conversions/{conversion_id} [get]
func HandleGetConversion(svc service.ConversionServiceInterface) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "conversion_id")
		if id == "" {
			writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "conversion_id is required"})
			return
		}

		res, err := svc.GetConversion(r.Context(), id)
		if err != nil {
			switch {
			case errors.Is(err, service.ErrInvalidConversionID):
				writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: err.Error()})
			case errors.Is(err, service.ErrNotFound):
				writeJSON(w, http.StatusNotFound, ErrorResponse{Error: "Unknown conversion_id"})
			default:
				writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "Internal error"})
			}
			return
		}

		writeJSON(w, http.StatusOK, ConversionResponse{
			ConversionID: res.ID,
			Status:       res.Status,
			Result:       res.Result,
			CompletedAt:  res.CompletedAt,
			Error:        res.ErrorMsg,
		})
	}
}

// HandleGetRates godoc
// @Summary Current rates
// @Description Returns RUB per one unit of USD, EUR and the derived CNY (EUR / 7.5).
// @Tags rates
// @Produce json
// @Success 200 {object} RatesResponse
// @Failure 503 {object} ErrorResponse "Rates unavailable"
// @Router /rates [get]
func HandleGetRates(svc service.ConversionServiceInterface) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rates, err := svc.CurrentRates(r.Context())
		if err != nil {
			writeConversionError(w, err)
			return
		}

		resp := RatesResponse{Base: "RUB", Rates: make(map[string]float64, len(rates))}
		for cur, rate := range rates {
			resp.Rates[string(cur)] = rate
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

// HandleGetRateArchive godoc
// @Summary Archived upstream snapshots
// @Description Lists snapshots recorded on each successful upstream fetch, newest first.
// @Tags rates
// @Produce json
// @Param limit query int false "Maximum number of snapshots" minimum(1) maximum(500) default(50)
// @Success 200 {array} ArchivedSnapshot
// @Failure 400 {object} ErrorResponse "Invalid limit"
// @Failure 500 {object} ErrorResponse "Internal error"
// @Router /rates/archive [get]
func HandleGetRateArchive(svc service.ConversionServiceInterface) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := 50
		if raw := r.URL.Query().Get("limit"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n <= 0 {
				writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "limit must be a positive integer"})
				return
			}
			limit = n
		}

		snaps, err := svc.RateArchive(r.Context(), limit)
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "Internal error"})
			return
		}

		out := make([]ArchivedSnapshot, 0, len(snaps))
		for _, s := range snaps {
			out = append(out, archivedSnapshot(s))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// HandleGetLatestArchived godoc
// @Summary Latest archived snapshot
// @Description Returns the most recent upstream snapshot recorded in the archive.
// @Tags rates
// @Produce json
// @Success 200 {object} ArchivedSnapshot
// @Failure 404 {object} ErrorResponse "Archive is empty"
// @Failure 500 {object} ErrorResponse "Internal error"
// @Router /rates/archive/latest [get]
func HandleGetLatestArchived(svc service.ConversionServiceInterface) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snap, err := svc.LatestArchivedRates(r.Context())
		if err != nil {
			if errors.Is(err, service.ErrNotFound) {
				writeJSON(w, http.StatusNotFound, ErrorResponse{Error: "No archived rates yet"})
				return
			}
			writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "Internal error"})
			return
		}
		writeJSON(w, http.StatusOK, archivedSnapshot(*snap))
	}
}

func archivedSnapshot(s repository.RateSnapshot) ArchivedSnapshot {
	return ArchivedSnapshot{
		ID:        s.ID,
		Source:    s.Source,
		USDRate:   s.USDRate,
		EURRate:   s.EURRate,
		FetchedAt: s.FetchedAt.UTC().Format(time.RFC3339),
	}
}

// HandleGetHistory godoc
// @Summary Conversion history
// @Description Lists successful conversions of this process as "{amount} RUB → {result}", oldest first. Not persisted.
// @Tags history
// @Produce json
// @Success 200 {object} HistoryResponse
// @Router /history [get]
func HandleGetHistory(svc service.ConversionServiceInterface) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		entries := svc.History()
		if entries == nil {
			entries = []string{}
		}
		writeJSON(w, http.StatusOK, HistoryResponse{Entries: entries})
	}
}

// HandleClearHistory godoc
// @Summary Clear conversion history
// @Tags history
// @Success 204
// @Router /history [delete]
func HandleClearHistory(svc service.ConversionServiceInterface) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		svc.ClearHistory()
		w.WriteHeader(http.StatusNoContent)
	}
}

func writeConversionError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidAmount), errors.Is(err, service.ErrUnsupportedCurrency):
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: service.FailureMessage(err)})
	case errors.Is(err, service.ErrUpstreamUnavailable):
		writeJSON(w, http.StatusServiceUnavailable, ErrorResponse{Error: service.FailureMessage(err)})
	default:
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "Internal error"})
	}
}
