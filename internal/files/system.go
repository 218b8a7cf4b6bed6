package files

import (
	"context"

	"github.com/JaimeStill/file-lab/internal/uploads"
	"github.com/google/uuid"
)

// System defines the stored-file operations. Implementations handle
// metadata persistence and coordinate disk cleanup on deletion. Record
// satisfies the upload pipeline's metadata recorder.
type System interface {
	List(ctx context.Context) ([]File, error)
	Find(ctx context.Context, id uuid.UUID) (*File, error)
	Record(ctx context.Context, rec uploads.Record) (uuid.UUID, error)
	Rename(ctx context.Context, id uuid.UUID, name string) (*File, error)
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteMany(ctx context.Context, ids []uuid.UUID) (*BulkDeleteResult, error)
}
