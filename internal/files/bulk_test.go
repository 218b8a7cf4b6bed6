package files

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
)

func TestTallyBulkDelete(t *testing.T) {
	ids := []uuid.UUID{uuid.New(), uuid.New(), uuid.New(), uuid.New()}
	found := []File{
		{ID: ids[0], OriginalName: "a.png", Path: "/base/images/a"},
		{ID: ids[2], OriginalName: "c.pdf", Path: "/base/documents/c"},
		{ID: ids[3], OriginalName: "d.pdf", Path: "/base/documents/d"},
	}

	var removed []string
	remove := func(_ context.Context, path string) error {
		removed = append(removed, path)
		if path == "/base/documents/c" {
			return errors.New("permission denied")
		}
		return nil
	}

	result := tallyBulkDelete(context.Background(), ids, found, remove)

	if result.Message != "Bulk delete operation completed" {
		t.Errorf("unexpected message %q", result.Message)
	}
	if result.Total != 4 {
		t.Errorf("expected total 4, got %d", result.Total)
	}
	if result.DeletedCount != 3 {
		t.Errorf("expected 3 deleted, got %d", result.DeletedCount)
	}

	// the absent id is reported, not treated as an error
	if len(result.AbsentIDs) != 1 || result.AbsentIDs[0] != ids[1] {
		t.Errorf("expected absent id %s, got %v", ids[1], result.AbsentIDs)
	}

	// request order is preserved among deleted ids
	want := []uuid.UUID{ids[0], ids[2], ids[3]}
	if len(result.DeletedIDs) != len(want) {
		t.Fatalf("expected %d deleted ids, got %d", len(want), len(result.DeletedIDs))
	}
	for i, id := range want {
		if result.DeletedIDs[i] != id {
			t.Errorf("position %d: expected %s, got %s", i, id, result.DeletedIDs[i])
		}
	}

	// the disk failure is reported but the record still counts as deleted
	if len(result.Errors) != 1 {
		t.Fatalf("expected 1 error, got %d", len(result.Errors))
	}
	if result.Errors[0].ID != ids[2] || result.Errors[0].Name != "c.pdf" {
		t.Errorf("unexpected error entry %+v", result.Errors[0])
	}
	if result.Errors[0].Error != "permission denied" {
		t.Errorf("unexpected error message %q", result.Errors[0].Error)
	}

	if len(removed) != 3 {
		t.Errorf("expected 3 remove calls, got %d", len(removed))
	}
}

func TestTallyBulkDeleteNoneFound(t *testing.T) {
	ids := []uuid.UUID{uuid.New(), uuid.New()}

	result := tallyBulkDelete(context.Background(), ids, nil, func(context.Context, string) error {
		t.Error("remove should not be called when nothing was found")
		return nil
	})

	if result.DeletedCount != 0 || len(result.DeletedIDs) != 0 {
		t.Errorf("expected nothing deleted, got %+v", result)
	}
	if len(result.AbsentIDs) != 2 {
		t.Errorf("expected both ids absent, got %v", result.AbsentIDs)
	}
	if result.Total != 2 {
		t.Errorf("expected total 2, got %d", result.Total)
	}
}

func TestTallyBulkDeleteAllFound(t *testing.T) {
	ids := []uuid.UUID{uuid.New(), uuid.New()}
	found := []File{
		{ID: ids[0], Path: "/base/images/a"},
		{ID: ids[1], Path: "/base/images/b"},
	}

	result := tallyBulkDelete(context.Background(), ids, found, func(context.Context, string) error {
		return nil
	})

	if result.DeletedCount != 2 || len(result.AbsentIDs) != 0 || len(result.Errors) != 0 {
		t.Errorf("expected clean full deletion, got %+v", result)
	}
}
