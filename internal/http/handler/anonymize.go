package handler

import (
	"encoding/json"
	"net/http"

	"reflekt/internal/anonymizer"
)

type AnonymizeHandler struct {
	Anonymizer *anonymizer.Anonymizer
}

type validateReq struct {
	Text string `json:"text"`
}

// Validate previews the privacy check for a text before the user decides to
// share. Detection is best-effort; sharing stays gated on explicit consent.
func (h *AnonymizeHandler) Validate(w http.ResponseWriter, r *http.Request) {
	var req validateReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}

	writeJSON(w, http.StatusOK, h.Anonymizer.Validate(req.Text))
}
