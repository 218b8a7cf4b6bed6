package files_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/JaimeStill/file-lab/internal/files"
	"github.com/JaimeStill/file-lab/internal/storage"
	"github.com/JaimeStill/file-lab/internal/uploads"
	"github.com/google/uuid"
)

type stubSystem struct {
	files   []files.File
	renamed string
	deleted []uuid.UUID
	err     error
}

func (s *stubSystem) List(context.Context) ([]files.File, error) {
	return s.files, s.err
}

func (s *stubSystem) Find(_ context.Context, id uuid.UUID) (*files.File, error) {
	if s.err != nil {
		return nil, s.err
	}
	for i := range s.files {
		if s.files[i].ID == id {
			return &s.files[i], nil
		}
	}
	return nil, files.ErrNotFound
}

func (s *stubSystem) Record(context.Context, uploads.Record) (uuid.UUID, error) {
	if s.err != nil {
		return uuid.Nil, s.err
	}
	return uuid.New(), nil
}

func (s *stubSystem) Rename(_ context.Context, id uuid.UUID, name string) (*files.File, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.renamed = name
	return &files.File{ID: id, OriginalName: name}, nil
}

func (s *stubSystem) Delete(_ context.Context, id uuid.UUID) error {
	if s.err != nil {
		return s.err
	}
	s.deleted = append(s.deleted, id)
	return nil
}

func (s *stubSystem) DeleteMany(_ context.Context, ids []uuid.UUID) (*files.BulkDeleteResult, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.deleted = append(s.deleted, ids...)
	return &files.BulkDeleteResult{
		Message:      "Bulk delete operation completed",
		DeletedCount: len(ids),
		Total:        len(ids),
		RequestedIDs: ids,
		DeletedIDs:   ids,
	}, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelError + 4,
	}))
}

func newHandler(t *testing.T, sys *stubSystem) *files.Handler {
	t.Helper()

	store, err := storage.New(t.TempDir(), testLogger())
	if err != nil {
		t.Fatalf("failed to create storage: %v", err)
	}

	validator := uploads.NewValidator(10*1024*1024, uploads.NewCategorySet(
		[]string{"image/png"},
		nil,
		[]string{"text/plain"},
	))
	orchestrator := uploads.NewOrchestrator(validator, store, sys, testLogger())

	return files.NewHandler(sys, orchestrator, testLogger(), t.TempDir())
}

func serve(t *testing.T, handler *files.Handler, r *http.Request) *httptest.ResponseRecorder {
	t.Helper()

	mux := http.NewServeMux()
	handler.Register(mux)

	w := httptest.NewRecorder()
	mux.ServeHTTP(w, r)
	return w
}

func TestListFiles(t *testing.T) {
	sys := &stubSystem{
		files: []files.File{
			{ID: uuid.New(), OriginalName: "a.png", Category: "image", CreatedAt: time.Now()},
			{ID: uuid.New(), OriginalName: "b.pdf", Category: "document", CreatedAt: time.Now()},
		},
	}
	handler := newHandler(t, sys)

	w := serve(t, handler, httptest.NewRequest("GET", "/files", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var body struct {
		Files []files.File `json:"files"`
	}
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(body.Files) != 2 {
		t.Errorf("expected 2 files, got %d", len(body.Files))
	}
}

func TestFindFileInvalidID(t *testing.T) {
	handler := newHandler(t, &stubSystem{})

	w := serve(t, handler, httptest.NewRequest("GET", "/files/not-a-uuid", nil))
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestFindFileNotFound(t *testing.T) {
	handler := newHandler(t, &stubSystem{})

	w := serve(t, handler, httptest.NewRequest("GET", "/files/"+uuid.NewString(), nil))
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
}

func TestUploadBatch(t *testing.T) {
	sys := &stubSystem{}
	handler := newHandler(t, sys)

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	for _, name := range []string{"a.txt", "b.txt"} {
		part, err := writer.CreateFormFile("file", name)
		if err != nil {
			t.Fatalf("failed to create part: %v", err)
		}
		part.Write([]byte("content of " + name))
	}
	writer.Close()

	r := httptest.NewRequest("POST", "/files", &body)
	r.Header.Set("Content-Type", writer.FormDataContentType())

	w := serve(t, handler, r)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Message    string           `json:"message"`
		Successful int              `json:"successful"`
		Failed     int              `json:"failed"`
		Results    []uploads.Result `json:"results"`
	}
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Successful != 2 || resp.Failed != 0 {
		t.Errorf("expected 2 successes, got %+v", resp)
	}
	if len(resp.Results) != 2 {
		t.Errorf("expected 2 results, got %d", len(resp.Results))
	}
}

func TestUploadNoFiles(t *testing.T) {
	handler := newHandler(t, &stubSystem{})

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	writer.WriteField("note", "no files here")
	writer.Close()

	r := httptest.NewRequest("POST", "/files", &body)
	r.Header.Set("Content-Type", writer.FormDataContentType())

	w := serve(t, handler, r)
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestUploadAllRejected(t *testing.T) {
	handler := newHandler(t, &stubSystem{})

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", "virus.exe")
	if err != nil {
		t.Fatalf("failed to create part: %v", err)
	}
	part.Write([]byte("MZ fake executable"))
	writer.Close()

	r := httptest.NewRequest("POST", "/files", &body)
	r.Header.Set("Content-Type", writer.FormDataContentType())

	w := serve(t, handler, r)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}

	var resp struct {
		Successful int              `json:"successful"`
		Failed     int              `json:"failed"`
		Results    []uploads.Result `json:"results"`
	}
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Successful != 0 || resp.Failed != 1 {
		t.Errorf("expected one failure, got %+v", resp)
	}
	if resp.Results[0].Error == "" {
		t.Error("expected rejection message in result")
	}
}

func TestRenameFile(t *testing.T) {
	sys := &stubSystem{}
	handler := newHandler(t, sys)

	id := uuid.New()
	body := strings.NewReader(`{"original_name": "renamed.png"}`)
	r := httptest.NewRequest("PUT", "/files/"+id.String(), body)

	w := serve(t, handler, r)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if sys.renamed != "renamed.png" {
		t.Errorf("expected rename applied, got %q", sys.renamed)
	}
}

func TestRenameFileInvalidName(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"empty name", `{"original_name": ""}`},
		{"whitespace name", `{"original_name": "   "}`},
		{"missing field", `{}`},
		{"malformed json", `{`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := newHandler(t, &stubSystem{})

			r := httptest.NewRequest("PUT", "/files/"+uuid.NewString(), strings.NewReader(tt.body))
			w := serve(t, handler, r)
			if w.Code != http.StatusBadRequest {
				t.Errorf("expected 400, got %d", w.Code)
			}
		})
	}
}

func TestDeleteFile(t *testing.T) {
	sys := &stubSystem{}
	handler := newHandler(t, sys)

	id := uuid.New()
	w := serve(t, handler, httptest.NewRequest("DELETE", "/files/"+id.String(), nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var resp map[string]string
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp["message"] != "File deleted successfully" {
		t.Errorf("unexpected message %q", resp["message"])
	}
	if len(sys.deleted) != 1 || sys.deleted[0] != id {
		t.Errorf("expected delete for %s, got %v", id, sys.deleted)
	}
}

func TestBulkDelete(t *testing.T) {
	sys := &stubSystem{}
	handler := newHandler(t, sys)

	ids := []uuid.UUID{uuid.New(), uuid.New()}
	payload, _ := json.Marshal(map[string]any{"fileIds": ids})

	r := httptest.NewRequest("POST", "/files/bulk-delete", bytes.NewReader(payload))
	w := serve(t, handler, r)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var result files.BulkDeleteResult
	if err := json.NewDecoder(w.Body).Decode(&result); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if result.DeletedCount != 2 || result.Total != 2 {
		t.Errorf("unexpected result %+v", result)
	}
	if len(sys.deleted) != 2 {
		t.Errorf("expected 2 deletions, got %d", len(sys.deleted))
	}
}

func TestBulkDeleteNoIDs(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"empty list", `{"fileIds": []}`},
		{"missing field", `{}`},
		{"malformed json", `not json`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := newHandler(t, &stubSystem{})

			r := httptest.NewRequest("POST", "/files/bulk-delete", strings.NewReader(tt.body))
			w := serve(t, handler, r)
			if w.Code != http.StatusBadRequest {
				t.Errorf("expected 400, got %d", w.Code)
			}
		})
	}
}
