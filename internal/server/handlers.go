package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dshills/pixelstorm/internal/codec"
	"github.com/dshills/pixelstorm/internal/engine/canvas"
	"github.com/dshills/pixelstorm/internal/histogram"
	"github.com/dshills/pixelstorm/internal/transform"
)

// Response bodies.
type (
	errorResponse struct {
		Error string `json:"error"`
	}

	versionResponse struct {
		Version string `json:"version"`
	}

	infoResponse struct {
		Name     string `json:"name"`
		Path     string `json:"path,omitempty"`
		Format   string `json:"format"`
		Width    int    `json:"width"`
		Height   int    `json:"height"`
		Modified bool   `json:"modified"`
		Undo     int    `json:"undo"`
		Redo     int    `json:"redo"`
	}

	histogramResponse struct {
		Histogram *histogram.Histogram `json:"histogram"`
		Stats     histogram.Stats      `json:"stats"`
	}

	opsRequest struct {
		Ops []string `json:"ops"`
	}

	opsResponse struct {
		Applied int `json:"applied"`
		Width   int `json:"width"`
		Height  int `json:"height"`
	}

	historyResponse struct {
		Status string `json:"status"`
		Undo   int    `json:"undo"`
		Redo   int    `json:"redo"`
	}
)

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, versionResponse{Version: s.version})
}

// handleImage returns the current canvas as PNG.
func (s *Server) handleImage(w http.ResponseWriter, r *http.Request) {
	img := s.session.Engine.Snapshot()
	if img == nil {
		writeError(w, http.StatusNotFound, "no image loaded")
		return
	}
	w.Header().Set("Content-Type", "image/png")
	if err := codec.Encode(w, img, codec.FormatPNG, codec.Options{}); err != nil {
		s.logger.Error("encoding image response: %v", err)
	}
}

func (s *Server) handleInfo(w http.ResponseWriter, r *http.Request) {
	undoDepth, redoDepth := s.session.Engine.HistoryDepth()
	width, height := s.session.Engine.Size()
	writeJSON(w, http.StatusOK, infoResponse{
		Name:     s.session.Name,
		Path:     s.session.Path,
		Format:   s.session.Format.String(),
		Width:    width,
		Height:   height,
		Modified: s.session.IsModified(),
		Undo:     undoDepth,
		Redo:     redoDepth,
	})
}

func (s *Server) handleHistogram(w http.ResponseWriter, r *http.Request) {
	img := s.session.Engine.Snapshot()
	if img == nil {
		writeError(w, http.StatusNotFound, "no image loaded")
		return
	}
	h := histogram.Compute(img)
	writeJSON(w, http.StatusOK, histogramResponse{Histogram: h, Stats: h.Stats()})
}

// handleOps parses and applies a list of operations in order. The
// request fails on the first bad operation; operations already applied
// stay applied and remain undoable one by one.
func (s *Server) handleOps(w http.ResponseWriter, r *http.Request) {
	var req opsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if len(req.Ops) == 0 {
		writeError(w, http.StatusBadRequest, "ops list is empty")
		return
	}

	ops, err := transform.ParseOps(req.Ops)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	for i, op := range ops {
		if _, err := s.session.Apply(op); err != nil {
			status := http.StatusUnprocessableEntity
			if errors.Is(err, canvas.ErrNoImage) {
				status = http.StatusConflict
			}
			s.logger.Warn("op %d (%s) failed: %v", i+1, op, err)
			writeError(w, status, err.Error())
			return
		}
	}

	width, height := s.session.Engine.Size()
	writeJSON(w, http.StatusOK, opsResponse{Applied: len(ops), Width: width, Height: height})
}

func (s *Server) handleUndo(w http.ResponseWriter, r *http.Request) {
	_, ok := s.session.Undo()
	s.writeHistory(w, ok)
}

func (s *Server) handleRedo(w http.ResponseWriter, r *http.Request) {
	_, ok := s.session.Redo()
	s.writeHistory(w, ok)
}

// writeHistory reports the outcome of an undo or redo. An empty log is
// not an error, it answers with status "noop".
func (s *Server) writeHistory(w http.ResponseWriter, ok bool) {
	status := "ok"
	if !ok {
		status = "noop"
	}
	undoDepth, redoDepth := s.session.Engine.HistoryDepth()
	writeJSON(w, http.StatusOK, historyResponse{Status: status, Undo: undoDepth, Redo: redoDepth})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
