package model

// EntityKind discriminates ExtractedEntity values.
type EntityKind int

const (
	EntityNone EntityKind = iota
	EntityUsername
	EntityKeyword
	EntityNumericID
)

// Entity is a structured value derived from raw text. Text is set for
// usernames and keywords, ID for numeric ids.
type Entity struct {
	Kind EntityKind
	Text string
	ID   int64
}

func NoEntity() Entity                 { return Entity{} }
func UsernameEntity(name string) Entity { return Entity{Kind: EntityUsername, Text: name} }
func KeywordEntity(kw string) Entity    { return Entity{Kind: EntityKeyword, Text: kw} }
func NumericIDEntity(id int64) Entity   { return Entity{Kind: EntityNumericID, ID: id} }

// Outcome tells the dispatcher whether the classifier found the argument the
// intent needs.
type Outcome int

const (
	OutcomeResolved Outcome = iota
	OutcomeExtractionFailed
)

// Classification is the result of routing one request.
type Classification struct {
	Intent  Intent
	Entity  Entity
	Outcome Outcome
}

func (c Classification) Resolved() bool {
	return c.Outcome == OutcomeResolved
}
