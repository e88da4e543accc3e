package bluffing

// Claim is a public, checkable commitment about hidden information that
// is attached to a move.
type Claim struct {
	// ID identifies the claim across caches and histories.
	ID int
	// Receivers are the players the claim is delivered to.
	Receivers []int
	// Subject reports whether the claimed fact is settled in a state,
	// and if so whether it holds.
	Subject func(GameState) (settled, holds bool)
}

// Honest returns the predicate that holds wherever the claim is true,
// or not yet settled.
func (c Claim) Honest() Predicate {
	return func(state GameState) bool {
		settled, holds := c.Subject(state)
		return !settled || holds
	}
}

// Lie returns the negation of the claim over its subject.
func (c Claim) Lie() Predicate {
	return func(state GameState) bool {
		settled, holds := c.Subject(state)
		return !settled || !holds
	}
}

// Stance selects which reading of a claim a strategy commits to, or
// believes when receiving one.
type Stance uint8

const (
	Honest Stance = iota
	Deceptive
)

var stanceStr = [...]string{
	"Honest",
	"Deceptive",
}

func (s Stance) String() string {
	return stanceStr[s]
}

// Reading returns the predicate of c corresponding to the stance.
func (s Stance) Reading(c Claim) Predicate {
	if s == Deceptive {
		return c.Lie()
	}

	return c.Honest()
}

// ClaimLedger records the claims a player has committed to and the
// claims it has received, as predicates.
type ClaimLedger struct {
	sent     []Predicate
	received []Predicate
}

func (l *ClaimLedger) Send(p Predicate) {
	l.sent = append(l.sent, p)
}

func (l *ClaimLedger) Receive(p Predicate) {
	l.received = append(l.received, p)
}

// Sent returns the outgoing claims in order. Callers must not modify it.
func (l *ClaimLedger) Sent() []Predicate {
	return l.sent
}

// Received returns the incoming claims in order. Callers must not modify it.
func (l *ClaimLedger) Received() []Predicate {
	return l.received
}

func (l *ClaimLedger) Reset() {
	l.sent = nil
	l.received = nil
}

// AllHold reports whether every predicate holds on state.
func AllHold(preds []Predicate, state GameState) bool {
	for _, p := range preds {
		if !p(state) {
			return false
		}
	}

	return true
}

// withPredicate returns a copy of preds with p appended, leaving the
// backing array of preds untouched.
func withPredicate(preds []Predicate, p Predicate) []Predicate {
	result := make([]Predicate, len(preds), len(preds)+1)
	copy(result, preds)
	return append(result, p)
}
