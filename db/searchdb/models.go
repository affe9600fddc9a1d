package searchdb

import "github.com/meghashyamc/protocolnav/corpus"

type Document struct {
	ID         string   `json:"id"`
	Title      string   `json:"title"`
	Body       string   `json:"body"`
	Categories []string `json:"categories"`
}

type Hit struct {
	ID    string  `json:"id"`
	Score float64 `json:"score"`
}

type Response struct {
	Hits       []Hit   `json:"hits"`
	Total      uint64  `json:"total"`
	MaxScore   float64 `json:"max_score"`
	SearchTime string  `json:"search_time"`
}

// FromCorpus converts corpus documents to their indexed form. Source is not searchable.
func FromCorpus(documents []corpus.Document) []Document {
	indexed := make([]Document, 0, len(documents))
	for _, doc := range documents {
		indexed = append(indexed, Document{
			ID:         doc.ID,
			Title:      doc.Title,
			Body:       doc.Body,
			Categories: doc.Categories,
		})
	}
	return indexed
}
