package uploads

import (
	"io"
	"mime/multipart"
	"os"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// FormPayload buffers every uploaded part of a parsed multipart form to a
// temporary file and returns the raw file-parameter structure consumed by
// Normalize. Ingest failures are encoded as transport error codes on the
// affected entry instead of aborting the request. Parts outside the "file",
// "file[]" and "file[N]" keys are ignored.
func FormPayload(form *multipart.Form, tmpDir string) map[string]any {
	raw := make(map[string]any)
	if form == nil {
		return raw
	}

	for key, headers := range form.File {
		if len(headers) == 0 {
			continue
		}

		switch {
		case key == "file[]":
			// HTML array field names collapse to a batch under "file".
			entries := make([]any, 0, len(headers))
			for _, header := range headers {
				entries = append(entries, bufferPart(header, tmpDir))
			}
			raw["file"] = entries
		case key == "file":
			if len(headers) > 1 {
				entries := make([]any, 0, len(headers))
				for _, header := range headers {
					entries = append(entries, bufferPart(header, tmpDir))
				}
				raw[key] = entries
				continue
			}
			raw[key] = bufferPart(headers[0], tmpDir)
		case bracketKey.MatchString(key):
			if len(headers) > 1 {
				entries := make([]any, 0, len(headers))
				for _, header := range headers {
					entries = append(entries, bufferPart(header, tmpDir))
				}
				raw[key] = entries
				continue
			}
			raw[key] = bufferPart(headers[0], tmpDir)
		}
	}
	return raw
}

// bufferPart copies one part to a temporary file and builds its raw entry.
func bufferPart(header *multipart.FileHeader, tmpDir string) map[string]any {
	entry := map[string]any{
		"name":     header.Filename,
		"type":     "",
		"tmp_name": "",
		"error":    int(CodeOK),
		"size":     header.Size,
	}

	if header.Filename == "" {
		entry["error"] = int(CodeNoFile)
		return entry
	}

	tmpPath, code := bufferToTmp(header, tmpDir)
	if code != CodeOK {
		entry["error"] = int(code)
		return entry
	}

	entry["tmp_name"] = tmpPath
	entry["type"] = detectContentType(header.Header.Get("Content-Type"), tmpPath)
	return entry
}

func bufferToTmp(header *multipart.FileHeader, tmpDir string) (string, Code) {
	part, err := header.Open()
	if err != nil {
		return "", CodeCantWrite
	}
	defer part.Close()

	tmp, err := os.CreateTemp(tmpDir, "upload-*")
	if err != nil {
		return "", CodeNoTmpDir
	}

	if _, err := io.Copy(tmp, part); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", CodeCantWrite
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", CodeCantWrite
	}

	return tmp.Name(), CodeOK
}

// detectContentType returns the declared MIME type without parameters,
// sniffing the buffered payload when the declaration is absent or generic.
func detectContentType(declared, tmpPath string) string {
	ct := stripParams(declared)
	if ct != "" && ct != "application/octet-stream" {
		return ct
	}

	if mt, err := mimetype.DetectFile(tmpPath); err == nil {
		return stripParams(mt.String())
	}
	return ct
}

func stripParams(mimeType string) string {
	if i := strings.Index(mimeType, ";"); i >= 0 {
		mimeType = mimeType[:i]
	}
	return strings.TrimSpace(mimeType)
}
