package uploads_test

import (
	"bytes"
	"mime/multipart"
	"net/textproto"
	"os"
	"testing"

	"github.com/JaimeStill/file-lab/internal/uploads"
)

type part struct {
	field       string
	filename    string
	contentType string
	content     string
}

func parseForm(t *testing.T, parts []part) *multipart.Form {
	t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	for _, p := range parts {
		header := textproto.MIMEHeader{}
		header.Set("Content-Disposition", `form-data; name="`+p.field+`"; filename="`+p.filename+`"`)
		if p.contentType != "" {
			header.Set("Content-Type", p.contentType)
		}

		w, err := writer.CreatePart(header)
		if err != nil {
			t.Fatalf("failed to create part: %v", err)
		}
		if _, err := w.Write([]byte(p.content)); err != nil {
			t.Fatalf("failed to write part: %v", err)
		}
	}
	writer.Close()

	form, err := multipart.NewReader(&body, writer.Boundary()).ReadForm(32 << 20)
	if err != nil {
		t.Fatalf("failed to parse form: %v", err)
	}
	t.Cleanup(func() { form.RemoveAll() })

	return form
}

func rawEntry(t *testing.T, value any) map[string]any {
	t.Helper()

	entry, ok := value.(map[string]any)
	if !ok {
		t.Fatalf("expected entry object, got %T", value)
	}
	return entry
}

func TestFormPayloadSingleFile(t *testing.T) {
	form := parseForm(t, []part{
		{"file", "notes.txt", "text/plain", "hello"},
	})

	raw := uploads.FormPayload(form, t.TempDir())

	entry := rawEntry(t, raw["file"])
	if entry["name"] != "notes.txt" {
		t.Errorf("expected name notes.txt, got %v", entry["name"])
	}
	if entry["type"] != "text/plain" {
		t.Errorf("expected declared type, got %v", entry["type"])
	}
	if entry["error"] != int(uploads.CodeOK) {
		t.Errorf("expected OK code, got %v", entry["error"])
	}
	if entry["size"] != int64(len("hello")) {
		t.Errorf("expected size %d, got %v", len("hello"), entry["size"])
	}

	tmpPath, _ := entry["tmp_name"].(string)
	data, err := os.ReadFile(tmpPath)
	if err != nil {
		t.Fatalf("temporary file unreadable: %v", err)
	}
	if string(data) != "hello" {
		t.Errorf("buffered content mismatch: %q", data)
	}
}

func TestFormPayloadRepeatedFileKey(t *testing.T) {
	form := parseForm(t, []part{
		{"file", "a.txt", "text/plain", "a"},
		{"file", "b.txt", "text/plain", "b"},
	})

	raw := uploads.FormPayload(form, t.TempDir())

	entries, ok := raw["file"].([]any)
	if !ok {
		t.Fatalf("expected entry list, got %T", raw["file"])
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if rawEntry(t, entries[0])["name"] != "a.txt" || rawEntry(t, entries[1])["name"] != "b.txt" {
		t.Error("expected entries in submission order")
	}
}

func TestFormPayloadArrayFieldName(t *testing.T) {
	form := parseForm(t, []part{
		{"file[]", "a.txt", "text/plain", "a"},
		{"file[]", "b.txt", "text/plain", "b"},
	})

	raw := uploads.FormPayload(form, t.TempDir())

	entries, ok := raw["file"].([]any)
	if !ok {
		t.Fatalf("expected entry list under file, got %T", raw["file"])
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
}

func TestFormPayloadBracketKeys(t *testing.T) {
	form := parseForm(t, []part{
		{"file[0]", "a.txt", "text/plain", "a"},
		{"file[1]", "b.txt", "text/plain", "b"},
		{"avatar", "skip.png", "image/png", "ignored"},
	})

	raw := uploads.FormPayload(form, t.TempDir())

	if _, ok := raw["avatar"]; ok {
		t.Error("expected non-file field to be ignored")
	}
	if rawEntry(t, raw["file[0]"])["name"] != "a.txt" {
		t.Errorf("unexpected file[0]: %v", raw["file[0]"])
	}
	if rawEntry(t, raw["file[1]"])["name"] != "b.txt" {
		t.Errorf("unexpected file[1]: %v", raw["file[1]"])
	}

	batch := uploads.Normalize(raw)
	if len(batch) != 2 || batch[0].Name != "a.txt" || batch[1].Name != "b.txt" {
		t.Errorf("unexpected normalized batch: %+v", batch)
	}
}

func TestFormPayloadRepeatedBracketKey(t *testing.T) {
	form := parseForm(t, []part{
		{"file[0]", "a.txt", "text/plain", "a"},
		{"file[0]", "b.txt", "text/plain", "b"},
		{"file[1]", "c.txt", "text/plain", "c"},
	})

	raw := uploads.FormPayload(form, t.TempDir())

	entries, ok := raw["file[0]"].([]any)
	if !ok {
		t.Fatalf("expected entry list under file[0], got %T", raw["file[0]"])
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries under file[0], got %d", len(entries))
	}

	batch := uploads.Normalize(raw)
	if len(batch) != 3 {
		t.Fatalf("expected 3 descriptors, got %d", len(batch))
	}
	want := []string{"a.txt", "b.txt", "c.txt"}
	for i, name := range want {
		if batch[i].Name != name {
			t.Errorf("position %d: expected %q, got %q", i, name, batch[i].Name)
		}
	}
}

func TestFormPayloadSniffsGenericType(t *testing.T) {
	// %PDF magic with an octet-stream declaration forces a content sniff.
	form := parseForm(t, []part{
		{"file", "report.pdf", "application/octet-stream", "%PDF-1.4\n%fake"},
	})

	raw := uploads.FormPayload(form, t.TempDir())

	entry := rawEntry(t, raw["file"])
	if entry["type"] != "application/pdf" {
		t.Errorf("expected sniffed application/pdf, got %v", entry["type"])
	}
}

func TestFormPayloadStripsTypeParams(t *testing.T) {
	form := parseForm(t, []part{
		{"file", "notes.txt", "text/plain; charset=utf-8", "hello"},
	})

	raw := uploads.FormPayload(form, t.TempDir())

	entry := rawEntry(t, raw["file"])
	if entry["type"] != "text/plain" {
		t.Errorf("expected parameters stripped, got %v", entry["type"])
	}
}

func TestFormPayloadNilForm(t *testing.T) {
	if raw := uploads.FormPayload(nil, t.TempDir()); len(raw) != 0 {
		t.Errorf("expected empty payload, got %v", raw)
	}
}
