package http

import (
	"net/http"

	"stb-telemetry/internal/batchers"
)

type batchFilesResponse struct {
	BatchFiles []string `json:"batchFiles"`
}

type flushHandler struct {
	engine batchers.Engine
}

func NewFlushHandler(engine batchers.Engine) AppHttpHandler {
	return &flushHandler{engine: engine}
}

// Handle processes POST /admin/flush requests and lists the files written so far.
func (h *flushHandler) Handle(w http.ResponseWriter, r *http.Request) error {
	if err := h.engine.Flush(r.Context()); err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, batchFilesResponse{BatchFiles: nonNil(h.engine.BatchFiles())})
	return nil
}

type listBatchesHandler struct {
	engine batchers.Engine
}

func NewListBatchesHandler(engine batchers.Engine) AppHttpHandler {
	return &listBatchesHandler{engine: engine}
}

// Handle processes GET /admin/batches requests.
func (h *listBatchesHandler) Handle(w http.ResponseWriter, r *http.Request) error {
	writeJSON(w, http.StatusOK, batchFilesResponse{BatchFiles: nonNil(h.engine.BatchFiles())})
	return nil
}

func nonNil(files []string) []string {
	if files == nil {
		return []string{}
	}
	return files
}
