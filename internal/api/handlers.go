// Package api exposes HTTP handlers for the health data server.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"example.com/healthdata/internal/aggregate"
	"example.com/healthdata/internal/domain"
)

// defaultDays is the window size used when the caller omits ?days=.
const defaultDays = 30

// Parser runs aggregation passes over the configured export.
type Parser interface {
	ActivityDaily(ctx context.Context, days int) ([]domain.ActivityDay, aggregate.ActivityStats, error)
	SleepDaily(ctx context.Context, days int) ([]domain.SleepDay, aggregate.SleepStats, error)
}

// Handler coordinates HTTP requests with the export parser and the raw
// health-data directory.
type Handler struct {
	parser  Parser
	dataDir string
	logger  *log.Logger
}

// NewHandler builds a Handler serving parsed series from parser and raw
// files from dataDir.
func NewHandler(parser Parser, dataDir string, logger *log.Logger) *Handler {
	if logger == nil {
		logger = log.New(log.Writer(), "[api] ", log.LstdFlags)
	}
	return &Handler{parser: parser, dataDir: dataDir, logger: logger}
}

// RegisterRoutes wires endpoints to the router.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/healthz", healthz)
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/activity", h.activity)
		r.Get("/sleep", h.sleep)
		r.Get("/files", h.listFiles)
		r.Get("/files/*", h.getFile)
	})
}

// healthz reports a simple OK status for container health checks.
func healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (h *Handler) activity(w http.ResponseWriter, r *http.Request) {
	days, err := daysParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "days must be an integer")
		return
	}

	result, _, err := h.parser.ActivityDaily(r.Context(), days)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrExportNotFound):
			writeError(w, http.StatusNotFound, "export_not_found", "health export file not found")
		case errors.Is(err, domain.ErrMalformedExport):
			writeError(w, http.StatusUnprocessableEntity, "malformed_export", err.Error())
		default:
			writeError(w, http.StatusInternalServerError, "server_error", err.Error())
		}
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (h *Handler) sleep(w http.ResponseWriter, r *http.Request) {
	days, err := daysParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "days must be an integer")
		return
	}

	result, _, err := h.parser.SleepDaily(r.Context(), days)
	if err != nil {
		// The sleep endpoint degrades to an empty series on any parse
		// failure; a missing or broken export is indistinguishable
		// from one with no sleep records.
		h.logger.Printf("sleep parse failed, returning empty series: %v", err)
		writeJSON(w, http.StatusOK, []domain.SleepDay{})
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (h *Handler) listFiles(w http.ResponseWriter, r *http.Request) {
	entries, err := os.ReadDir(h.dataDir)
	if err != nil {
		if os.IsNotExist(err) {
			writeError(w, http.StatusNotFound, "not_found", "health data directory not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "server_error", err.Error())
		return
	}

	items := make([]FileItem, 0, len(entries))
	for _, entry := range entries {
		items = append(items, toFileItem(entry, entry.Name()))
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *Handler) getFile(w http.ResponseWriter, r *http.Request) {
	rel := chi.URLParam(r, "*")

	full, ok := h.resolve(rel)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid_path", "path escapes the health data directory")
		return
	}

	info, err := os.Stat(full)
	if err != nil {
		if os.IsNotExist(err) {
			writeError(w, http.StatusNotFound, "not_found", "file not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "server_error", err.Error())
		return
	}

	if info.IsDir() {
		entries, err := os.ReadDir(full)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "server_error", err.Error())
			return
		}
		contents := make([]FileItem, 0, len(entries))
		for _, entry := range entries {
			contents = append(contents, toFileItem(entry, path.Join(rel, entry.Name())))
		}
		writeJSON(w, http.StatusOK, DirectoryListing{Type: itemTypeDirectory, Contents: contents})
		return
	}

	resp := FileContent{
		Path: rel,
		Size: info.Size(),
		Type: strings.TrimPrefix(strings.ToLower(filepath.Ext(full)), "."),
	}
	// Inline content only for the text formats the export bundle contains.
	switch resp.Type {
	case "txt", "json", "xml":
		data, err := os.ReadFile(full)
		if err == nil {
			content := string(data)
			resp.Content = &content
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

// resolve maps a request path onto the data directory, rejecting traversal.
func (h *Handler) resolve(rel string) (string, bool) {
	full := filepath.Join(h.dataDir, filepath.FromSlash(rel))
	back, err := filepath.Rel(h.dataDir, full)
	if err != nil || back == ".." || strings.HasPrefix(back, ".."+string(filepath.Separator)) {
		return "", false
	}
	return full, true
}

func daysParam(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("days")
	if raw == "" {
		return defaultDays, nil
	}
	return strconv.Atoi(raw)
}

// ItemType tags a listing entry as a file or directory.
type ItemType string

const (
	itemTypeFile      ItemType = "file"
	itemTypeDirectory ItemType = "directory"
)

// FileItem is one entry of a directory listing.
type FileItem struct {
	Name string   `json:"name"`
	Path string   `json:"path"`
	Type ItemType `json:"type"`
	Size *int64   `json:"size,omitempty"`
}

// DirectoryListing is the payload returned for a directory path.
type DirectoryListing struct {
	Type     ItemType   `json:"type"`
	Contents []FileItem `json:"contents"`
}

// FileContent describes a single file, inlining content for text formats.
type FileContent struct {
	Path    string  `json:"path"`
	Size    int64   `json:"size"`
	Type    string  `json:"type"`
	Content *string `json:"content,omitempty"`
}

func toFileItem(entry os.DirEntry, relPath string) FileItem {
	item := FileItem{
		Name: entry.Name(),
		Path: relPath,
		Type: itemTypeFile,
	}
	if entry.IsDir() {
		item.Type = itemTypeDirectory
		return item
	}
	if info, err := entry.Info(); err == nil {
		size := info.Size()
		item.Size = &size
	}
	return item
}

func writeError(w http.ResponseWriter, status int, code, detail string) {
	payload := map[string]string{
		"type":   code,
		"detail": detail,
	}
	writeJSON(w, status, payload)
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
