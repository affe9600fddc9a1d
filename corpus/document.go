package corpus

import "strings"

// PlaceholderTitle is used for documents loaded without a title. Placeholder titles are never
// scanned for references.
const PlaceholderTitle = "Unnamed Protocol"

// Document is one indexed protocol. Documents are treated as immutable once loaded.
type Document struct {
	ID         string   `json:"id"`
	Title      string   `json:"title"`
	Body       string   `json:"body"`
	Source     string   `json:"source"`
	Categories []string `json:"categories"`
}

// NewDocument applies the load-time defaults: a placeholder title and a non-nil category list.
func NewDocument(id, title, body, source string, categories []string) Document {
	if strings.TrimSpace(title) == "" {
		title = PlaceholderTitle
	}
	if categories == nil {
		categories = []string{}
	}
	return Document{
		ID:         id,
		Title:      title,
		Body:       body,
		Source:     source,
		Categories: categories,
	}
}

// HasCategories reports whether every required category is present on the document.
// An empty requirement is satisfied by every document.
func (d Document) HasCategories(required []string) bool {
	for _, want := range required {
		found := false
		for _, have := range d.Categories {
			if have == want {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func (d Document) hasScannableTitle() bool {
	title := strings.TrimSpace(d.Title)
	return title != "" && title != PlaceholderTitle
}
