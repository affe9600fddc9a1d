package corpus

import (
	"fmt"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// TitleEntry is a scannable (id, title) pair.
type TitleEntry struct {
	ID    string
	Title string
}

// Index is the read-only view of the corpus shared by search and reference scanning.
// It is built once and is safe for concurrent use.
type Index struct {
	documents   []Document
	byID        map[string]int
	titles      []TitleEntry
	fingerprint string
}

// NewIndex builds the index in corpus order. Ids must be non-empty and unique.
func NewIndex(documents []Document) (*Index, error) {
	idx := &Index{
		documents: make([]Document, 0, len(documents)),
		byID:      make(map[string]int, len(documents)),
	}

	digest := xxhash.New()
	for _, doc := range documents {
		if doc.ID == "" {
			return nil, ErrEmptyID
		}
		if _, exists := idx.byID[doc.ID]; exists {
			return nil, &DuplicateIDError{ID: doc.ID}
		}

		idx.byID[doc.ID] = len(idx.documents)
		idx.documents = append(idx.documents, doc)
		if doc.hasScannableTitle() {
			idx.titles = append(idx.titles, TitleEntry{ID: doc.ID, Title: doc.Title})
		}

		for _, field := range []string{doc.ID, doc.Title, doc.Body, doc.Source, strings.Join(doc.Categories, ",")} {
			_, _ = digest.WriteString(field)
			_, _ = digest.WriteString("\x00")
		}
	}
	idx.fingerprint = fmt.Sprintf("%016x", digest.Sum64())

	return idx, nil
}

// ByID returns the document with the given id. A missing id is reported through ok, not an error.
func (idx *Index) ByID(id string) (Document, bool) {
	position, ok := idx.byID[id]
	if !ok {
		return Document{}, false
	}
	return idx.documents[position], true
}

// All returns every document in insertion order. The slice is a copy.
func (idx *Index) All() []Document {
	documents := make([]Document, len(idx.documents))
	copy(documents, idx.documents)
	return documents
}

func (idx *Index) Len() int {
	return len(idx.documents)
}

// Titles returns the documents that can be referenced by title, in insertion order.
// The returned slice is shared and must not be modified.
func (idx *Index) Titles() []TitleEntry {
	return idx.titles
}

// ResolveNumeric maps a dotted numeric token such as "7.21" to a document id: first by exact id,
// then by the id with every dot replaced by a hyphen ("7-21").
func (idx *Index) ResolveNumeric(token string) (string, bool) {
	if _, ok := idx.byID[token]; ok {
		return token, true
	}
	hyphenated := strings.ReplaceAll(token, ".", "-")
	if _, ok := idx.byID[hyphenated]; ok {
		return hyphenated, true
	}
	return "", false
}

// Fingerprint identifies the corpus contents. Two indexes over the same documents in the same order
// share a fingerprint.
func (idx *Index) Fingerprint() string {
	return idx.fingerprint
}
