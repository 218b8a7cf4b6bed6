package files

import (
	"context"

	"github.com/google/uuid"
)

// tallyBulkDelete computes the outcome of a bulk deletion. Requested ids
// with no record are listed as absent; every found file has its stored
// payload removed via remove, and a disk-level failure is reported without
// exempting the record itself from deletion. Response arrays preserve the
// request order.
func tallyBulkDelete(ctx context.Context, ids []uuid.UUID, found []File, remove func(context.Context, string) error) *BulkDeleteResult {
	byID := make(map[uuid.UUID]File, len(found))
	for _, f := range found {
		byID[f.ID] = f
	}

	result := &BulkDeleteResult{
		Message:      "Bulk delete operation completed",
		Total:        len(ids),
		RequestedIDs: ids,
		DeletedIDs:   make([]uuid.UUID, 0, len(found)),
		AbsentIDs:    make([]uuid.UUID, 0),
		Errors:       make([]BulkDeleteError, 0),
	}

	for _, id := range ids {
		f, ok := byID[id]
		if !ok {
			result.AbsentIDs = append(result.AbsentIDs, id)
			continue
		}

		if err := remove(ctx, f.Path); err != nil {
			result.Errors = append(result.Errors, BulkDeleteError{
				ID:    f.ID,
				Name:  f.OriginalName,
				Error: err.Error(),
			})
		}
		result.DeletedIDs = append(result.DeletedIDs, id)
	}

	result.DeletedCount = len(result.DeletedIDs)
	return result
}
