package http

import (
	"encoding/json"
	"net/http"

	"stb-telemetry/internal/ingestors"
)

type AppHttpHandler interface {
	Handle(w http.ResponseWriter, r *http.Request) error
}

type ingestEventsResponse struct {
	Accepted int `json:"accepted"`
}

type ingestEventsHandler struct {
	ingestionService ingestors.IngestionService
}

func NewIngestEventsHandler(ingestionService ingestors.IngestionService) AppHttpHandler {
	return &ingestEventsHandler{
		ingestionService: ingestionService,
	}
}

// Handle processes POST /events requests.
func (h *ingestEventsHandler) Handle(w http.ResponseWriter, r *http.Request) error {
	result, err := h.ingestionService.IngestEvents(r.Context(), contentType(r), r.Body)
	if err != nil {
		return err
	}

	writeJSON(w, http.StatusAccepted, ingestEventsResponse{Accepted: result.Accepted})
	return nil
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
