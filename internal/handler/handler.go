// Package handler runs one webhook invocation end to end: extract fields,
// resolve the log date, merge-upsert the row, wrap the reply.
package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"healthlog-webhook/internal/dates"
	"healthlog-webhook/internal/extract"
	"healthlog-webhook/internal/fields"
	"healthlog-webhook/internal/sheet"
)

const previewLimit = 4000

type Handler struct {
	store sheet.RowStore
	loc   *time.Location
	log   *zap.Logger
	now   func() time.Time
}

func New(store sheet.RowStore, loc *time.Location, log *zap.Logger) *Handler {
	return &Handler{
		store: store,
		loc:   loc,
		log:   log,
		now:   time.Now,
	}
}

// Handle processes a single event. It always returns a well-formed envelope
// and a nil error: failures are reported inside the reply body, never thrown
// at the invoking platform.
func (h *Handler) Handle(ctx context.Context, event json.RawMessage) (env Envelope, err error) {
	defer func() {
		if r := recover(); r != nil {
			h.log.Error("panic during invocation",
				zap.Any("panic", r),
				zap.Stack("stack"))
			env = ErrorEnvelope(event, "bad_request", fmt.Sprint(r))
			err = nil
		}
	}()

	h.log.Info("invocation received", zap.String("event", preview(event)))

	body := extract.Payload(event)
	inputText := extract.InputText(event)

	// Free-text parsing fills gaps only; structured fields win.
	if strings.TrimSpace(inputText) != "" {
		for k, v := range extract.FreeText(inputText) {
			if _, ok := body[k]; !ok {
				body[k] = v
			}
		}
	}

	extract.MergePayloadField(body)

	now := h.now().In(h.loc)
	date, forceTop := dates.Resolve(inputText, candidateDate(body), now)
	body["date"] = date
	delete(body, fields.DateColumn) // the resolved date wins over a caller-supplied "Date"

	h.log.Info("fields extracted",
		zap.Strings("keys", sortedKeys(body)),
		zap.String("date", date),
		zap.Bool("force_top", forceTop))

	mapped := fields.MapToColumns(body)
	if !fields.HasMeaningful(mapped) {
		return OKEnvelope(event, map[string]any{
			"error":   "no_parameters",
			"message": "No structured fields detected; no update performed.",
		}), nil
	}

	result, upsertErr := sheet.Upsert(ctx, h.store, mapped, forceTop, dates.Today(now))
	if upsertErr != nil {
		h.log.Error("upsert failed", zap.Error(upsertErr))
		return ErrorEnvelope(event, "bad_request", upsertErr.Error()), nil
	}

	h.log.Info("upsert done",
		zap.String("action", result.Action),
		zap.Any("row", result.Row),
		zap.String("date", result.Date))
	return OKEnvelope(event, result), nil
}

// candidateDate pulls the caller-declared date from the body, checking the
// canonical key first and the display name second.
func candidateDate(body map[string]any) string {
	if s := fields.Stringify(body["date"]); s != "" {
		return s
	}
	return fields.Stringify(body[fields.DateColumn])
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func preview(raw json.RawMessage) string {
	if len(raw) > previewLimit {
		return string(raw[:previewLimit])
	}
	return string(raw)
}
