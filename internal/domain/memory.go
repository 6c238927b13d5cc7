package domain

// Certainty is the subjective weight an agent attaches to a memory item.
//
// FACT is hard evidence: it licenses eliminating inconsistent candidate
// worlds and is never downgraded. UNCERTAIN is soft evidence (hearsay) that
// only moves suspicion scores. VERIFIED and DISPROVED are the corroboration
// outcomes of UNCERTAIN items; no rule in this version promotes into them
// (see engine.Corroborate).
type Certainty string

const (
	CertaintyFact      Certainty = "fact"
	CertaintyUncertain Certainty = "uncertain"
	CertaintyVerified  Certainty = "verified"
	CertaintyDisproved Certainty = "disproved"
)

func ValidCertainty(c string) bool {
	switch Certainty(c) {
	case CertaintyFact, CertaintyUncertain, CertaintyVerified, CertaintyDisproved:
		return true
	}
	return false
}

// SourceType records how a memory item reached the agent.
type SourceType string

const (
	SourceObservation SourceType = "observation"
	SourceHearsay     SourceType = "hearsay"
)

func (s SourceType) InitialCertainty() Certainty {
	if s == SourceObservation {
		return CertaintyFact
	}
	return CertaintyUncertain
}

// MemoryItem wraps one Event with the recipient's subjective certainty and
// source attribution. Items are appended to an agent's memory in arrival
// order and never removed.
type MemoryItem struct {
	Event      *Event     `json:"event"`
	SourceType SourceType `json:"source_type"`
	// SourceID is the claimed informant. Set only for hearsay.
	SourceID  string    `json:"source_id,omitempty"`
	Certainty Certainty `json:"certainty"`
}

// NewObservation wraps an event the agent saw (or performed) itself.
func NewObservation(e *Event) *MemoryItem {
	return &MemoryItem{Event: e, SourceType: SourceObservation, Certainty: CertaintyFact}
}

// NewHearsay wraps an event the agent only heard about from sourceID.
func NewHearsay(e *Event, sourceID string) *MemoryItem {
	return &MemoryItem{Event: e, SourceType: SourceHearsay, SourceID: sourceID, Certainty: CertaintyUncertain}
}

// Upgrade moves an UNCERTAIN item to VERIFIED or DISPROVED. Any other
// transition is rejected: certainty is monotonic and FACT never changes.
func (m *MemoryItem) Upgrade(to Certainty) bool {
	if m.Certainty != CertaintyUncertain {
		return false
	}
	if to != CertaintyVerified && to != CertaintyDisproved {
		return false
	}
	m.Certainty = to
	return true
}
