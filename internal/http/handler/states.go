package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"reflekt/internal/auth"
	"reflekt/internal/catalog"
	"reflekt/internal/state"
)

type StateHandler struct {
	Store *state.Store
}

type appendStateReq struct {
	Key             string  `json:"key"`
	Value           float64 `json:"value"`
	MoodBefore      *string `json:"mood_before"`
	MoodAfter       *string `json:"mood_after"`
	DurationMinutes *int    `json:"duration_minutes"`
	Notes           *string `json:"notes"`
}

func (r appendStateReq) context() state.Context {
	c := state.Context{
		DurationMinutes: r.DurationMinutes,
		Notes:           r.Notes,
	}
	if r.MoodBefore != nil {
		m := catalog.Mood(*r.MoodBefore)
		c.MoodBefore = &m
	}
	if r.MoodAfter != nil {
		m := catalog.Mood(*r.MoodAfter)
		c.MoodAfter = &m
	}
	return c
}

func (h *StateHandler) Append(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())

	var req appendStateReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}
	if req.Value == 0 {
		req.Value = 1
	}

	entry, err := h.Store.Append(r.Context(), uid, req.Key, req.Value, req.context())
	if err != nil {
		if errors.Is(err, state.ErrInvalidEntry) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		http.Error(w, "storage error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusCreated, entry)
}

func (h *StateHandler) History(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())

	key := strings.TrimSpace(chi.URLParam(r, "key"))
	if key == "" {
		http.Error(w, "invalid key", http.StatusBadRequest)
		return
	}

	days := 7
	if v := strings.TrimSpace(r.URL.Query().Get("days")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 365 {
			days = n
		}
	}

	entries := h.Store.History(r.Context(), uid, key, days)
	if entries == nil {
		entries = []state.StateEntry{}
	}
	writeJSON(w, http.StatusOK, entries)
}

func (h *StateHandler) ForDate(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())

	date := chi.URLParam(r, "date")
	if _, err := time.Parse("2006-01-02", date); err != nil {
		http.Error(w, "invalid date (YYYY-MM-DD)", http.StatusBadRequest)
		return
	}

	entries := h.Store.EntriesForDate(r.Context(), uid, date)
	if entries == nil {
		entries = []state.StateEntry{}
	}
	writeJSON(w, http.StatusOK, entries)
}

func (h *StateHandler) Export(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())

	export := h.Store.AnonymizedExport(r.Context(), uid)
	if export == nil {
		export = []state.ExportEntry{}
	}
	writeJSON(w, http.StatusOK, export)
}
