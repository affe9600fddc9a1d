package view

import (
	"errors"
	"fmt"
	"slices"

	"github.com/meghashyamc/protocolnav/corpus"
)

type EventType string

const (
	EventSelectDocument  EventType = "select_document"
	EventSetQuery        EventType = "set_query"
	EventToggleCategory  EventType = "toggle_category"
	EventClearCategories EventType = "clear_categories"
	EventBack            EventType = "back"
)

var (
	ErrUnknownEvent = errors.New("unknown event")
	ErrInvalidEvent = errors.New("invalid event")
)

// State is everything a client needs to redraw the navigator: either a listing (query and
// categories) or a single selected document.
type State struct {
	Query      string   `json:"query"`
	Categories []string `json:"categories"`
	SelectedID string   `json:"selected_id,omitempty"`
}

func (s State) HasSelection() bool {
	return s.SelectedID != ""
}

type Event struct {
	Type       EventType `json:"type"`
	Query      string    `json:"query,omitempty"`
	Category   string    `json:"category,omitempty"`
	DocumentID string    `json:"document_id,omitempty"`
}

type Reducer struct {
	index *corpus.Index
}

func NewReducer(index *corpus.Index) *Reducer {
	return &Reducer{index: index}
}

// Reduce returns the state following event. The given state is never modified.
func (r *Reducer) Reduce(state State, event Event) (State, error) {
	next := State{
		Query:      state.Query,
		Categories: slices.Clone(state.Categories),
		SelectedID: state.SelectedID,
	}
	if next.Categories == nil {
		next.Categories = []string{}
	}

	switch event.Type {
	case EventSelectDocument:
		// An unknown id falls back to the listing it was selected from.
		if _, ok := r.index.ByID(event.DocumentID); !ok {
			next.SelectedID = ""
			return next, nil
		}
		return State{Categories: []string{}, SelectedID: event.DocumentID}, nil

	case EventSetQuery:
		next.Query = event.Query
		next.SelectedID = ""

	case EventToggleCategory:
		if event.Category == "" {
			return state, fmt.Errorf("%w: %s needs a category", ErrInvalidEvent, event.Type)
		}
		if i := slices.Index(next.Categories, event.Category); i >= 0 {
			next.Categories = slices.Delete(next.Categories, i, i+1)
		} else {
			next.Categories = append(next.Categories, event.Category)
		}
		next.SelectedID = ""

	case EventClearCategories:
		next.Categories = []string{}
		next.SelectedID = ""

	case EventBack:
		next.SelectedID = ""

	default:
		return state, fmt.Errorf("%w: %q", ErrUnknownEvent, event.Type)
	}

	return next, nil
}
