package handlers_test

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/JaimeStill/file-lab/pkg/handlers"
)

func TestRespondJSON(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		data       any
		wantStatus int
		wantBody   string
	}{
		{
			"ok with map",
			http.StatusOK,
			map[string]string{"message": "File deleted successfully"},
			http.StatusOK,
			`{"message":"File deleted successfully"}`,
		},
		{
			"created with struct",
			http.StatusCreated,
			struct {
				Successful int `json:"successful"`
				Failed     int `json:"failed"`
			}{2, 1},
			http.StatusCreated,
			`{"successful":2,"failed":1}`,
		},
		{
			"ok with slice",
			http.StatusOK,
			[]int{1, 2, 3},
			http.StatusOK,
			`[1,2,3]`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()

			handlers.RespondJSON(w, tt.status, tt.data)

			resp := w.Result()
			defer resp.Body.Close()

			if resp.StatusCode != tt.wantStatus {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.wantStatus)
			}

			if ct := resp.Header.Get("Content-Type"); ct != "application/json" {
				t.Errorf("Content-Type = %q, want application/json", ct)
			}

			body, _ := io.ReadAll(resp.Body)
			if strings.TrimSpace(string(body)) != tt.wantBody {
				t.Errorf("body = %q, want %q", strings.TrimSpace(string(body)), tt.wantBody)
			}
		})
	}
}

func TestRespondError(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	w := httptest.NewRecorder()

	handlers.RespondError(w, logger, http.StatusNotFound, errors.New("file not found"))

	resp := w.Result()
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusNotFound)
	}

	var body map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if body["error"] != "file not found" {
		t.Errorf("error = %q, want %q", body["error"], "file not found")
	}
}
