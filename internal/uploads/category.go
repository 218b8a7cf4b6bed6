package uploads

// Category classifies a stored file and determines its storage directory.
type Category string

const (
	CategoryImage    Category = "image"
	CategoryVideo    Category = "video"
	CategoryDocument Category = "document"
)

// Dir returns the storage directory name for the category.
func (c Category) Dir() string {
	switch c {
	case CategoryImage:
		return "images"
	case CategoryVideo:
		return "videos"
	case CategoryDocument:
		return "documents"
	default:
		return string(c)
	}
}

// CategorySet maps each category to its MIME-type allow-list. Resolution
// follows the fixed enumeration order image, video, document.
type CategorySet struct {
	types map[Category][]string
}

// categoryOrder fixes the resolution and union order of categories.
var categoryOrder = []Category{CategoryImage, CategoryVideo, CategoryDocument}

// NewCategorySet creates a CategorySet from per-category MIME allow-lists.
func NewCategorySet(image, video, document []string) CategorySet {
	return CategorySet{
		types: map[Category][]string{
			CategoryImage:    image,
			CategoryVideo:    video,
			CategoryDocument: document,
		},
	}
}

// Resolve returns the first category whose allow-list contains the MIME
// type, or false when the type is not allowed anywhere.
func (s CategorySet) Resolve(mimeType string) (Category, bool) {
	for _, category := range categoryOrder {
		for _, allowed := range s.types[category] {
			if mimeType == allowed {
				return category, true
			}
		}
	}
	return "", false
}

// AllTypes returns the union of every category allow-list in enumeration
// order.
func (s CategorySet) AllTypes() []string {
	var all []string
	for _, category := range categoryOrder {
		all = append(all, s.types[category]...)
	}
	return all
}

// Dirs returns the storage directory name of every category in enumeration
// order.
func (s CategorySet) Dirs() []string {
	dirs := make([]string, 0, len(categoryOrder))
	for _, category := range categoryOrder {
		dirs = append(dirs, category.Dir())
	}
	return dirs
}
