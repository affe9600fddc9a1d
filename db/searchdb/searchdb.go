package searchdb

type DB interface {
	BuildIndex(documents []Document) error
	Search(queryString string, categories []string, limit int, offset int) (*Response, error)
	GetDocCount() (uint64, error)
	Close() error
}
