package inkwell

// SortField names a document field and a direction, 1 ascending, -1
// descending, matching the Mongo sort convention.
type SortField struct {
	Field     string `json:"field"`
	Direction int    `json:"direction"`
}

// Query describes a filtered, ordered slice of a collection. StartIndex is
// an absolute skip, not a page number.
type Query struct {
	Filters    map[string]interface{}
	StartIndex int
	Limit      int
	Sort       SortField
}

// Document is anything a repository can persist.
type Document interface {
	GetCollectionName() string
}
