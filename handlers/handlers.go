package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/VishalRathod21/yt-transcript/errors"
	"github.com/VishalRathod21/yt-transcript/transcript"
	"github.com/sirupsen/logrus"
)

// TranscriptService is the part of the transcript service the HTTP surface
// needs.
type TranscriptService interface {
	GetTranscript(ctx context.Context, req transcript.Request) (transcript.Result, error)
}

type Handler struct {
	service TranscriptService
	timeout time.Duration
	version string
}

func New(service TranscriptService, timeout time.Duration, version string) *Handler {
	return &Handler{service: service, timeout: timeout, version: version}
}

func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("/api/transcript", h.Transcript)
	mux.HandleFunc("/health", h.Health)
}

// Transcript handles GET /api/transcript?url=...&lang=...&retries=...&format=...
func (h *Handler) Transcript(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "Invalid request method")
		return
	}

	url := r.URL.Query().Get("url")
	if url == "" {
		writeError(w, http.StatusBadRequest, "url parameter is required")
		return
	}

	format, ok := transcript.ParseFormat(r.URL.Query().Get("format"))
	if !ok {
		writeError(w, http.StatusBadRequest, "format must be one of text, lines, json")
		return
	}

	retries := 0
	if raw := r.URL.Query().Get("retries"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			writeError(w, http.StatusBadRequest, "retries must be a non-negative integer")
			return
		}
		retries = parsed
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	result, err := h.service.GetTranscript(ctx, transcript.Request{
		Input:      url,
		Language:   r.URL.Query().Get("lang"),
		MaxRetries: retries,
		Format:     format,
	})
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"url":   url,
			"error": err,
		}).Error("Transcript request failed")
		writeError(w, errors.Code(err), userMessage(err))
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": h.version,
	})
}

// userMessage surfaces the categorized message without the diagnostic
// cause chain.
func userMessage(err error) string {
	var appErr *errors.AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return "Internal server error"
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logrus.WithError(err).Error("Failed to encode response")
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
