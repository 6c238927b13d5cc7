package domain

import "fmt"

// Predicate is the kind of claim a statement makes.
type Predicate string

const (
	PredicateRole     Predicate = "role"
	PredicateLocation Predicate = "location"
	PredicateDid      Predicate = "did"
)

func ValidPredicate(p string) bool {
	switch Predicate(p) {
	case PredicateRole, PredicateLocation, PredicateDid:
		return true
	}
	return false
}

// Statement is a formal assertion made during a meeting: speaker claims that
// subject's predicate has the given value ("npc3's role is bad"). It is
// immutable and carried only as the payload of a say event.
type Statement struct {
	Predicate Predicate `json:"predicate"`
	Subject   string    `json:"subject"`
	Value     string    `json:"value"`
	Speaker   string    `json:"speaker"`
	Timestamp float64   `json:"timestamp"`
}

// NewStatement constructs a statement. An unknown predicate or missing
// speaker/subject is a programming error and panics.
func NewStatement(pred Predicate, subject, value, speaker string, timestamp float64) *Statement {
	if !ValidPredicate(string(pred)) {
		panic(fmt.Sprintf("domain: unknown predicate %q", pred))
	}
	if subject == "" || speaker == "" {
		panic("domain: statement requires subject and speaker")
	}
	return &Statement{
		Predicate: pred,
		Subject:   subject,
		Value:     value,
		Speaker:   speaker,
		Timestamp: timestamp,
	}
}

func (s *Statement) String() string {
	return fmt.Sprintf("%s says: %s's %s is %s", s.Speaker, s.Subject, s.Predicate, s.Value)
}
