package uploads

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/JaimeStill/file-lab/internal/storage"
	"github.com/google/uuid"
	"github.com/pdfcpu/pdfcpu/pkg/api"
)

// Record contains the metadata persisted for one successfully stored file.
type Record struct {
	OriginalName string
	StoredName   string
	Path         string
	MimeType     string
	Size         int64
	Category     Category
	PageCount    *int
}

// Recorder persists metadata for stored files and returns the assigned
// identity.
type Recorder interface {
	Record(ctx context.Context, rec Record) (uuid.UUID, error)
}

// Result is the per-item outcome of an upload batch: either a stored file
// identity or the failure message for that file.
type Result struct {
	ID       *uuid.UUID `json:"id,omitempty"`
	Name     string     `json:"name"`
	Category Category   `json:"category,omitempty"`
	Status   string     `json:"status,omitempty"`
	Error    string     `json:"error,omitempty"`
}

// Orchestrator drives the upload pipeline for an arbitrary-length batch.
// It holds no state across requests.
type Orchestrator struct {
	validator *Validator
	store     storage.System
	recorder  Recorder
	logger    *slog.Logger
}

// NewOrchestrator creates an orchestrator wiring the validator, storage
// writer, and metadata recorder together.
func NewOrchestrator(validator *Validator, store storage.System, recorder Recorder, logger *slog.Logger) *Orchestrator {
	return &Orchestrator{
		validator: validator,
		store:     store,
		recorder:  recorder,
		logger:    logger.With("system", "uploads"),
	}
}

// Process normalizes the raw payload and runs each descriptor through
// validation, storage, and metadata recording independently. One result is
// produced per submitted file, in submission order; a failure never
// affects sibling files.
func (o *Orchestrator) Process(ctx context.Context, raw map[string]any) []Result {
	descriptors := Normalize(raw)

	results := make([]Result, 0, len(descriptors))
	for _, d := range descriptors {
		id, category, err := o.process(ctx, d)
		if err != nil {
			o.logger.Warn("file rejected", "name", d.Name, "error", err)
			o.discardTmp(d)
			results = append(results, Result{Name: d.Name, Error: err.Error()})
			continue
		}
		results = append(results, Result{
			ID:       id,
			Name:     d.Name,
			Category: category,
			Status:   "success",
		})
	}
	return results
}

func (o *Orchestrator) process(ctx context.Context, d Descriptor) (*uuid.UUID, Category, error) {
	category, err := o.validator.Validate(d)
	if err != nil {
		return nil, "", err
	}

	name, path, err := o.store.Store(ctx, d.TmpPath, category.Dir(), filepath.Ext(d.Name))
	if err != nil {
		return nil, "", err
	}

	rec := Record{
		OriginalName: d.Name,
		StoredName:   name,
		Path:         path,
		MimeType:     d.Type,
		Size:         d.Size,
		Category:     category,
		PageCount:    o.pageCount(d.Type, path),
	}

	id, err := o.recorder.Record(ctx, rec)
	if err != nil {
		if remErr := o.store.Remove(ctx, path); remErr != nil {
			o.logger.Error("cleanup failed after record error", "path", path, "error", remErr)
		}
		return nil, "", err
	}

	o.logger.Info("file stored", "id", id, "name", d.Name, "category", category, "stored_name", name)
	return &id, category, nil
}

// pageCount extracts the page count of stored PDFs, best-effort.
func (o *Orchestrator) pageCount(mimeType, path string) *int {
	if mimeType != "application/pdf" {
		return nil
	}

	count, err := api.PageCountFile(path)
	if err != nil {
		o.logger.Warn("failed to extract pdf page count", "path", path, "error", err)
		return nil
	}
	return &count
}

// discardTmp removes the buffered payload of a rejected file, best-effort.
func (o *Orchestrator) discardTmp(d Descriptor) {
	if d.TmpPath == "" {
		return
	}
	if err := os.Remove(d.TmpPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
		o.logger.Debug("temporary file cleanup failed", "path", d.TmpPath, "error", err)
	}
}
