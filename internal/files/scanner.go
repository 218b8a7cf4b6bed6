package files

import "github.com/JaimeStill/file-lab/pkg/repository"

const fileColumns = `id, original_name, stored_name, file_path, mime_type, file_size, category, page_count, created_at, updated_at`

func scanFile(s repository.Scanner) (File, error) {
	var f File
	err := s.Scan(
		&f.ID,
		&f.OriginalName,
		&f.StoredName,
		&f.Path,
		&f.MimeType,
		&f.Size,
		&f.Category,
		&f.PageCount,
		&f.CreatedAt,
		&f.UpdatedAt,
	)
	return f, err
}
