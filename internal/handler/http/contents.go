// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"path"
	"strings"

	"github.com/MKhiriev/go-ledger-keeper/internal/logger"
	"github.com/go-chi/chi/v5"
)

// contentsResponse is the body of GET /repos/{owner}/{repo}/contents/{path}.
// Content carries base64 wrapped with newlines, the way the real contents API
// serves it.
type contentsResponse struct {
	Type     string `json:"type"`
	Name     string `json:"name"`
	Path     string `json:"path"`
	SHA      string `json:"sha"`
	Encoding string `json:"encoding"`
	Content  string `json:"content"`
}

type putContentsRequest struct {
	Message string `json:"message"`
	Content string `json:"content"`
	Branch  string `json:"branch"`
	SHA     string `json:"sha"`
}

type putContentsResponse struct {
	Content struct {
		Path string `json:"path"`
		SHA  string `json:"sha"`
	} `json:"content"`
}

type errorResponse struct {
	Message string `json:"message"`
}

func (h *Handler) getContents(w http.ResponseWriter, r *http.Request) {
	key, filePath := contentKey(r)

	b, ok := h.contents.get(key)
	if !ok {
		writeJSON(w, http.StatusNotFound, errorResponse{Message: "Not Found"})
		return
	}

	writeJSON(w, http.StatusOK, contentsResponse{
		Type:     "file",
		Name:     path.Base(filePath),
		Path:     filePath,
		SHA:      b.sha,
		Encoding: "base64",
		Content:  wrapBase64(base64.StdEncoding.EncodeToString(b.content)),
	})
}

func (h *Handler) putContents(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)
	key, filePath := contentKey(r)

	var req putContentsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Err(err).Str("func", "*Handler.putContents").Msg("Invalid JSON was passed")
		writeJSON(w, http.StatusBadRequest, errorResponse{Message: "Problems parsing JSON"})
		return
	}

	content, err := base64.StdEncoding.DecodeString(req.Content)
	if err != nil {
		log.Err(err).Str("func", "*Handler.putContents").Msg("content is not valid base64")
		writeJSON(w, http.StatusBadRequest, errorResponse{Message: "content is not valid Base64"})
		return
	}

	b, created, err := h.contents.put(key, content, req.SHA)
	switch {
	case errors.Is(err, ErrSHANotSupplied):
		writeJSON(w, http.StatusUnprocessableEntity,
			errorResponse{Message: `Invalid request.` + "\n\n" + `"sha" wasn't supplied.`})
		return
	case errors.Is(err, ErrStaleSHA):
		writeJSON(w, http.StatusConflict,
			errorResponse{Message: filePath + " does not match the expected sha"})
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}

	var resp putContentsResponse
	resp.Content.Path = filePath
	resp.Content.SHA = b.sha
	writeJSON(w, status, resp)

	log.Debug().Str("path", filePath).Str("sha", b.sha).Bool("created", created).Msg("document stored")
}

func contentKey(r *http.Request) (key, filePath string) {
	filePath = chi.URLParam(r, "*")
	key = chi.URLParam(r, "owner") + "/" + chi.URLParam(r, "repo") + "/" + filePath
	return key, filePath
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// wrapBase64 inserts a newline every 60 characters, matching the contents
// API's on-the-wire encoding.
func wrapBase64(s string) string {
	var sb strings.Builder
	for len(s) > 60 {
		sb.WriteString(s[:60])
		sb.WriteByte('\n')
		s = s[60:]
	}
	sb.WriteString(s)
	sb.WriteByte('\n')
	return sb.String()
}
