package api

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-chi/chi/v5"

	"example.com/healthdata/internal/aggregate"
	"example.com/healthdata/internal/domain"
)

type stubParser struct {
	activity    []domain.ActivityDay
	activityErr error
	sleep       []domain.SleepDay
	sleepErr    error
	lastDays    int
}

func (s *stubParser) ActivityDaily(ctx context.Context, days int) ([]domain.ActivityDay, aggregate.ActivityStats, error) {
	s.lastDays = days
	return s.activity, aggregate.ActivityStats{}, s.activityErr
}

func (s *stubParser) SleepDaily(ctx context.Context, days int) ([]domain.SleepDay, aggregate.SleepStats, error) {
	s.lastDays = days
	return s.sleep, aggregate.SleepStats{}, s.sleepErr
}

func newTestRouter(parser Parser, dataDir string) http.Handler {
	h := NewHandler(parser, dataDir, log.New(io.Discard, "", 0))
	r := chi.NewRouter()
	h.RegisterRoutes(r)
	return r
}

func TestActivityEndpoint(t *testing.T) {
	parser := &stubParser{activity: []domain.ActivityDay{
		{Date: "2025-06-13", Steps: 4200, DistanceKm: 3.21, ActiveEnergyKcal: 250.5},
		{Date: "2025-06-14", Steps: 1200, DistanceKm: 0.98, ActiveEnergyKcal: 77.01},
	}}
	router := newTestRouter(parser, t.TempDir())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/activity?days=2", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", rr.Code, rr.Body.String())
	}
	if parser.lastDays != 2 {
		t.Fatalf("expected days=2 to reach the parser, got %d", parser.lastDays)
	}

	var resp []domain.ActivityDay
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp) != 2 {
		t.Fatalf("expected 2 days got %d", len(resp))
	}
	if resp[1].Steps != 1200 {
		t.Fatalf("unexpected steps %d", resp[1].Steps)
	}
}

func TestActivityDefaultsDays(t *testing.T) {
	parser := &stubParser{activity: []domain.ActivityDay{}}
	router := newTestRouter(parser, t.TempDir())

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/activity", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rr.Code)
	}
	if parser.lastDays != 30 {
		t.Fatalf("expected default days=30, got %d", parser.lastDays)
	}
}

func TestActivityRejectsNonIntegerDays(t *testing.T) {
	router := newTestRouter(&stubParser{}, t.TempDir())

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/activity?days=week", nil))

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rr.Code)
	}
}

func TestActivityExportNotFound(t *testing.T) {
	router := newTestRouter(&stubParser{activityErr: domain.ErrExportNotFound}, t.TempDir())

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/activity", nil))

	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", rr.Code)
	}
}

func TestActivityMalformedExport(t *testing.T) {
	router := newTestRouter(&stubParser{activityErr: domain.ErrMalformedExport}, t.TempDir())

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/activity", nil))

	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 got %d", rr.Code)
	}
}

func TestSleepEndpoint(t *testing.T) {
	parser := &stubParser{sleep: []domain.SleepDay{
		{Date: "2025-06-14", InBed: 480, Asleep: 430, Deep: 90, REM: 100, Light: 240, Awake: 12},
	}}
	router := newTestRouter(parser, t.TempDir())

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/sleep?days=7", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rr.Code)
	}

	var resp []domain.SleepDay
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp) != 1 || resp[0].Deep != 90 {
		t.Fatalf("unexpected response %+v", resp)
	}
}

func TestSleepDegradesToEmptyOnError(t *testing.T) {
	router := newTestRouter(&stubParser{sleepErr: domain.ErrMalformedExport}, t.TempDir())

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/sleep", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rr.Code)
	}
	var resp []domain.SleepDay
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp) != 0 {
		t.Fatalf("expected empty series got %+v", resp)
	}
}

func TestListFiles(t *testing.T) {
	dataDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dataDir, "export.xml"), []byte("<HealthData/>"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.Mkdir(filepath.Join(dataDir, "electrocardiograms"), 0o755); err != nil {
		t.Fatal(err)
	}

	router := newTestRouter(&stubParser{}, dataDir)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/files", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", rr.Code, rr.Body.String())
	}

	var items []FileItem
	if err := json.Unmarshal(rr.Body.Bytes(), &items); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 entries got %d", len(items))
	}

	byName := map[string]FileItem{}
	for _, item := range items {
		byName[item.Name] = item
	}
	if byName["export.xml"].Type != itemTypeFile || byName["export.xml"].Size == nil {
		t.Fatalf("unexpected file entry %+v", byName["export.xml"])
	}
	if byName["electrocardiograms"].Type != itemTypeDirectory || byName["electrocardiograms"].Size != nil {
		t.Fatalf("unexpected directory entry %+v", byName["electrocardiograms"])
	}
}

func TestListFilesMissingDataDir(t *testing.T) {
	router := newTestRouter(&stubParser{}, filepath.Join(t.TempDir(), "gone"))

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/files", nil))

	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", rr.Code)
	}
}

func TestGetFileInlinesTextContent(t *testing.T) {
	dataDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dataDir, "export.xml"), []byte("<HealthData/>"), 0o644); err != nil {
		t.Fatal(err)
	}

	router := newTestRouter(&stubParser{}, dataDir)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/files/export.xml", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rr.Code)
	}

	var resp FileContent
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Type != "xml" || resp.Size != int64(len("<HealthData/>")) {
		t.Fatalf("unexpected metadata %+v", resp)
	}
	if resp.Content == nil || *resp.Content != "<HealthData/>" {
		t.Fatalf("expected inline content, got %+v", resp.Content)
	}
}

func TestGetFileMissing(t *testing.T) {
	router := newTestRouter(&stubParser{}, t.TempDir())

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/files/nope.xml", nil))

	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", rr.Code)
	}
}

func TestResolveRejectsTraversal(t *testing.T) {
	h := NewHandler(&stubParser{}, t.TempDir(), log.New(io.Discard, "", 0))

	if _, ok := h.resolve("../secrets.txt"); ok {
		t.Fatal("expected traversal path to be rejected")
	}
	if _, ok := h.resolve("nested/../../secrets.txt"); ok {
		t.Fatal("expected nested traversal path to be rejected")
	}
	if _, ok := h.resolve("nested/ok.txt"); !ok {
		t.Fatal("expected nested path inside the data dir to be accepted")
	}
}
