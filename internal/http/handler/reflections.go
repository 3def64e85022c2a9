package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/lib/pq"
	"go.uber.org/zap"

	"reflekt/internal/anonymizer"
	"reflekt/internal/auth"
	"reflekt/internal/collective"
	"reflekt/internal/insight"
	"reflekt/internal/reflection"
	"reflekt/internal/state"
)

type ReflectionHandler struct {
	Anonymizer  *anonymizer.Anonymizer
	States      *state.Store
	Reflections *reflection.Store
	Engine      *insight.Engine
	Sharer      collective.Sharer
	Log         *zap.Logger
}

type createReflectionReq struct {
	Title   string           `json:"title"`
	Content string           `json:"content"`
	Share   bool             `json:"share"`
	States  []appendStateReq `json:"states"`
}

type sharingResult struct {
	Shared    bool   `json:"shared"`
	ContentID string `json:"content_id,omitempty"`
	Error     string `json:"error,omitempty"`
}

type createReflectionResp struct {
	ReflectionID      uint64                   `json:"reflection_id"`
	Entries           []state.StateEntry       `json:"entries"`
	ImmediateInsights []insight.Insight        `json:"immediate_insights"`
	Recommendations   []insight.Recommendation `json:"recommendations"`
	Metrics           anonymizer.Metrics       `json:"anonymization_metrics"`
	Sharing           sharingResult            `json:"sharing"`
}

// Create runs the full submission flow: anonymize, persist the private
// reflection, append the selected states, derive immediate insights, and
// optionally ship the anonymized payload to the sharing gateway. Sharing
// failures are reported in the response but never abort local persistence.
func (h *ReflectionHandler) Create(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())

	var req createReflectionReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}
	req.Content = strings.TrimSpace(req.Content)
	if req.Content == "" {
		http.Error(w, "content required", http.StatusBadRequest)
		return
	}

	proc := h.Anonymizer.ProcessReflection(req.Title, req.Content, time.Now())

	rec := reflection.Reflection{
		UserID:          uid,
		Title:           strings.TrimSpace(req.Title),
		Content:         req.Content,
		Tags:            pq.StringArray(proc.Shared.Tags),
		SentimentScore:  proc.Shared.Sentiment.Score,
		SentimentLabel:  proc.Shared.Sentiment.Label,
		PIICount:        proc.Shared.Metrics.PIICount,
		PIITypes:        pq.StringArray(proc.Shared.Metrics.PIITypes),
		Language:        proc.Shared.Language,
		TimestampMillis: proc.Local.TimestampMillis,
	}
	if err := h.Reflections.Save(r.Context(), &rec); err != nil {
		http.Error(w, "storage error", http.StatusInternalServerError)
		return
	}

	entries := make([]state.StateEntry, 0, len(req.States))
	keys := make([]string, 0, len(req.States))
	for _, s := range req.States {
		value := s.Value
		if value == 0 {
			value = 1
		}
		entry, err := h.States.Append(r.Context(), uid, s.Key, value, s.context())
		if err != nil {
			if errors.Is(err, state.ErrInvalidEntry) {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			http.Error(w, "storage error", http.StatusInternalServerError)
			return
		}
		entries = append(entries, entry)
		keys = append(keys, entry.StateKey)
	}

	resp := createReflectionResp{
		ReflectionID:      rec.ID,
		Entries:           entries,
		ImmediateInsights: h.Engine.ImmediateInsights(entries, proc.Shared.Sentiment),
		Recommendations:   h.Engine.Recommendations(keys),
		Metrics:           proc.Shared.Metrics,
		Sharing:           sharingResult{},
	}

	if req.Share {
		resp.Sharing = h.share(r, &rec, proc.Shared, entries)
	}

	writeJSON(w, http.StatusCreated, resp)
}

// share uploads the anonymized payload and logs the session's state entries
// against the returned content id. Only the derived feature payload ever
// leaves the process.
func (h *ReflectionHandler) share(r *http.Request, rec *reflection.Reflection, payload anonymizer.SharedPayload, entries []state.StateEntry) sharingResult {
	contentID, err := h.Sharer.Upload(r.Context(), payload)
	if err != nil {
		if !errors.Is(err, collective.ErrSharingDisabled) {
			h.Log.Warn("share upload failed", zap.Error(err))
		}
		return sharingResult{Shared: false, Error: err.Error()}
	}

	for _, e := range entries {
		if err := h.Sharer.LogEvent(r.Context(), e.StateKey, e.Value, contentID); err != nil {
			h.Log.Warn("share event failed", zap.String("state_key", e.StateKey), zap.Error(err))
		}
	}

	if err := h.Reflections.MarkShared(r.Context(), rec.ID, contentID); err != nil {
		h.Log.Warn("mark shared failed", zap.Error(err))
	}

	return sharingResult{Shared: true, ContentID: contentID}
}

func (h *ReflectionHandler) List(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())

	tag := strings.TrimSpace(strings.ToLower(r.URL.Query().Get("tag")))
	q := strings.TrimSpace(r.URL.Query().Get("q"))

	limit := 50
	if v := strings.TrimSpace(r.URL.Query().Get("limit")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 200 {
			limit = n
		}
	}

	rows := h.Reflections.List(r.Context(), uid, tag, q, limit)
	if rows == nil {
		rows = []reflection.Reflection{}
	}
	writeJSON(w, http.StatusOK, rows)
}
