package files

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	"github.com/JaimeStill/file-lab/internal/storage"
	"github.com/JaimeStill/file-lab/internal/uploads"
	"github.com/JaimeStill/file-lab/pkg/repository"
	"github.com/google/uuid"
)

type repo struct {
	db     *sql.DB
	store  storage.System
	logger *slog.Logger
}

// New creates a file repository with database and disk storage integration.
func New(db *sql.DB, store storage.System, logger *slog.Logger) System {
	return &repo{
		db:     db,
		store:  store,
		logger: logger.With("system", "files"),
	}
}

func (r *repo) List(ctx context.Context) ([]File, error) {
	q := fmt.Sprintf(`SELECT %s FROM files ORDER BY created_at DESC`, fileColumns)

	records, err := repository.QueryMany(ctx, r.db, q, nil, scanFile)
	if err != nil {
		return nil, fmt.Errorf("query files: %w", err)
	}
	return records, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*File, error) {
	q := fmt.Sprintf(`SELECT %s FROM files WHERE id = $1`, fileColumns)

	f, err := repository.QueryOne(ctx, r.db, q, []any{id}, scanFile)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &f, nil
}

func (r *repo) Record(ctx context.Context, rec uploads.Record) (uuid.UUID, error) {
	id := uuid.New()
	q := fmt.Sprintf(`INSERT INTO files (id, original_name, stored_name, file_path, mime_type, file_size, category, page_count)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING %s`, fileColumns)

	f, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (File, error) {
		return repository.QueryOne(ctx, tx, q, []any{
			id, rec.OriginalName, rec.StoredName, rec.Path,
			rec.MimeType, rec.Size, string(rec.Category), rec.PageCount,
		}, scanFile)
	})
	if err != nil {
		return uuid.Nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("file recorded", "id", f.ID, "name", f.OriginalName, "category", f.Category)
	return f.ID, nil
}

func (r *repo) Rename(ctx context.Context, id uuid.UUID, name string) (*File, error) {
	q := fmt.Sprintf(`UPDATE files SET original_name = $1, updated_at = NOW()
		WHERE id = $2
		RETURNING %s`, fileColumns)

	f, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (File, error) {
		return repository.QueryOne(ctx, tx, q, []any{name, id}, scanFile)
	})
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("file renamed", "id", f.ID, "name", f.OriginalName)
	return &f, nil
}

func (r *repo) Delete(ctx context.Context, id uuid.UUID) error {
	f, err := r.Find(ctx, id)
	if err != nil {
		return err
	}

	// Remove tolerates an already-missing disk file.
	if err := r.store.Remove(ctx, f.Path); err != nil {
		return fmt.Errorf("delete stored file: %w", err)
	}

	q := `DELETE FROM files WHERE id = $1`
	_, err = repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		return struct{}{}, repository.ExecExpectOne(ctx, tx, q, id)
	})
	if err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("file deleted", "id", id)
	return nil
}

func (r *repo) DeleteMany(ctx context.Context, ids []uuid.UUID) (*BulkDeleteResult, error) {
	if len(ids) == 0 {
		return nil, ErrNoIDs
	}

	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	q := fmt.Sprintf(`SELECT %s FROM files WHERE id IN (%s)`, fileColumns, placeholders(len(ids)))
	found, err := repository.QueryMany(ctx, r.db, q, args, scanFile)
	if err != nil {
		return nil, fmt.Errorf("query files for deletion: %w", err)
	}

	result := tallyBulkDelete(ctx, ids, found, r.store.Remove)

	if len(result.DeletedIDs) > 0 {
		args := make([]any, len(result.DeletedIDs))
		for i, id := range result.DeletedIDs {
			args[i] = id
		}

		q := fmt.Sprintf(`DELETE FROM files WHERE id IN (%s)`, placeholders(len(args)))
		_, err = repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
			_, err := tx.ExecContext(ctx, q, args...)
			return struct{}{}, err
		})
		if err != nil {
			return nil, fmt.Errorf("delete file records: %w", err)
		}
	}

	r.logger.Info("bulk delete completed", "requested", result.Total, "deleted", result.DeletedCount)
	return result, nil
}

func placeholders(n int) string {
	parts := make([]string, n)
	for i := range parts {
		parts[i] = fmt.Sprintf("$%d", i+1)
	}
	return strings.Join(parts, ", ")
}
