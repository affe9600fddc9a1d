package reference

type MatchKind string

const (
	MatchKindTitle   MatchKind = "title"
	MatchKindNumeric MatchKind = "numeric"
)

// Candidate is an unresolved mention of another document. Start and Length are byte offsets into
// the scanned body; DisplayText is the matched text exactly as it appears there.
type Candidate struct {
	Start       int       `json:"start"`
	Length      int       `json:"length"`
	TargetID    string    `json:"target_id"`
	DisplayText string    `json:"display_text"`
	Kind        MatchKind `json:"kind"`
}

func (c Candidate) Bounds() (int, int) {
	return c.Start, c.Start + c.Length
}

// Segment is either a literal run of body text or, when TargetID is set, a reference to another
// document.
type Segment struct {
	Text     string `json:"text"`
	TargetID string `json:"target_id,omitempty"`
}

func (s Segment) IsReference() bool {
	return s.TargetID != ""
}
