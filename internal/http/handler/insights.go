package handler

import (
	"net/http"

	"reflekt/internal/auth"
	"reflekt/internal/insight"
)

type InsightHandler struct {
	Engine *insight.Engine
}

func (h *InsightHandler) List(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())

	insights := h.Engine.GenerateProactive(r.Context(), uid)
	if insights == nil {
		insights = []insight.Insight{}
	}
	writeJSON(w, http.StatusOK, insights)
}

func (h *InsightHandler) Summary(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())

	insights := h.Engine.GenerateProactive(r.Context(), uid)
	writeJSON(w, http.StatusOK, insight.Summarize(insights))
}
