package bluffing

import (
	"math/rand"
	"sort"
	"strconv"
	"strings"

	"github.com/golang/glog"
	"github.com/pkg/errors"
	"github.com/samber/lo"
)

// Player is one side of a match. A Player may be reused across matches;
// Start resets its per-match state.
type Player interface {
	Name() string
	// Start begins a new match in which the player is seated at player
	// and considers the given deals possible.
	Start(game Game, player int, initial []InitialState) error
	// RequestMove returns the move to play from the given legal moves.
	RequestMove(legal []Move) (Move, error)
	// ObservePercept delivers what the player observed of the last turn.
	ObservePercept(p Percept) error
	// ReceiveClaims delivers the claims addressed to the player this turn.
	ReceiveClaims(claims []Claim) error
}

// session tracks what a player knows during one match.
type session struct {
	game    Game
	player  int
	beliefs *BeliefState
	ledger  ClaimLedger
	history []int
}

func (s *session) start(game Game, player int, initial []InitialState) {
	s.game = game
	s.player = player
	s.beliefs = NewBeliefState(initial)
	s.ledger.Reset()
	s.history = lo.Map(initial, func(is InitialState, _ int) int { return is.ID })
	sort.Ints(s.history)
}

// historyKey identifies everything the player has seen and done so far.
func (s *session) historyKey() string {
	var sb strings.Builder
	sb.WriteString(strconv.Itoa(s.player))
	sb.WriteByte(':')
	for i, id := range s.history {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(strconv.Itoa(id))
	}

	return sb.String()
}

// played records move and advances beliefs through it.
func (s *session) played(legal []Move, move Move) error {
	idx := lo.IndexOf(legal, move)
	s.history = append(s.history, -1-idx)
	beliefs, err := s.beliefs.Advance(s.game, move, s.player)
	if err != nil {
		return err
	}

	if beliefs.Len() == 0 {
		return errors.Wrapf(ErrEmptyBeliefState, "player %d advancing through move %d", s.player, move)
	}

	s.beliefs = beliefs
	return nil
}

func (s *session) observe(p Percept) error {
	s.history = append(s.history, p.ID)
	beliefs, err := s.beliefs.Filter(p.Holds)
	if err != nil {
		return errors.Wrapf(err, "player %d observing percept %d", s.player, p.ID)
	}

	s.beliefs = beliefs
	return nil
}

// Beliefs returns what the player currently believes.
func (s *session) Beliefs() *BeliefState {
	return s.beliefs
}

func (s *session) received(c Claim) {
	s.history = append(s.history, c.ID)
}

// RandomPlayer plays uniformly at random among its legal moves.
type RandomPlayer struct {
	rng *rand.Rand
}

func NewRandomPlayer(rng *rand.Rand) *RandomPlayer {
	return &RandomPlayer{rng: rng}
}

func (p *RandomPlayer) Name() string { return "random" }

func (p *RandomPlayer) Start(game Game, player int, initial []InitialState) error {
	return nil
}

func (p *RandomPlayer) RequestMove(legal []Move) (Move, error) {
	if len(legal) == 0 {
		return 0, ErrNoLegalMoves
	}

	return legal[p.rng.Intn(len(legal))], nil
}

func (p *RandomPlayer) ObservePercept(Percept) error { return nil }

func (p *RandomPlayer) ReceiveClaims([]Claim) error { return nil }

// Kind enumerates the search-based strategies.
type Kind uint8

const (
	// HonestKind keeps its promises and believes what it is told.
	HonestKind Kind = iota
	// LiarKind promises the opposite of the truth and assumes everyone
	// else does too.
	LiarKind
	// BeliefRevisionKind believes what it is told and discards worlds
	// that contradict it, but does not hold anyone to their claims.
	BeliefRevisionKind
	// CooperativeKind trusts claims only when it detects that nobody
	// can profit from deception.
	CooperativeKind
	// BluffingKind does no search. It plays the line the game scripts
	// for a bluffer and believes every claim it receives.
	BluffingKind
)

var kindStr = [...]string{
	"honest",
	"liar",
	"belief-revision",
	"cooperative",
	"bluffing",
}

func (k Kind) String() string {
	return kindStr[k]
}

var kindPolicies = [...]Policy{
	HonestKind:         {Sent: Honest, Received: Honest, Enforcement: EnforceAlways},
	LiarKind:           {Sent: Deceptive, Received: Deceptive, Enforcement: EnforceAlways},
	BeliefRevisionKind: {Sent: Honest, Received: Honest, Enforcement: EnforceNever},
	CooperativeKind:    {Sent: Honest, Received: Honest, Enforcement: EnforceCooperative},
	BluffingKind:       {Sent: Honest, Received: Honest, Enforcement: EnforceNever},
}

// ParseKind returns the Kind with the given name.
func ParseKind(name string) (Kind, error) {
	for k, s := range kindStr {
		if s == name {
			return Kind(k), nil
		}
	}

	return 0, errors.Errorf("unknown strategy kind: %q", name)
}

// SearchPlayer chooses moves with an Evaluator over its current beliefs.
type SearchPlayer struct {
	session
	kind      Kind
	arena     *Arena
	rng       *rand.Rand
	evaluator *Evaluator
}

// NewSearchPlayer returns a player of the given kind whose evaluations
// are memoized in arena. The arena persists across matches.
func NewSearchPlayer(kind Kind, arena *Arena, rng *rand.Rand) *SearchPlayer {
	return &SearchPlayer{
		kind:  kind,
		arena: arena,
		rng:   rng,
	}
}

func (p *SearchPlayer) Name() string { return p.kind.String() }

func (p *SearchPlayer) Kind() Kind { return p.kind }

func (p *SearchPlayer) Start(game Game, player int, initial []InitialState) error {
	if p.evaluator == nil || p.evaluator.game != game {
		p.evaluator = NewEvaluator(game, p.arena, kindPolicies[p.kind])
	}

	p.start(game, player, initial)
	return nil
}

func (p *SearchPlayer) RequestMove(legal []Move) (Move, error) {
	if len(legal) == 0 {
		return 0, errors.Wrapf(ErrNoLegalMoves, "player %d", p.player)
	}

	move := legal[0]
	if p.kind == BluffingKind {
		scripted := p.bluffingMoves(legal)
		move = scripted[p.rng.Intn(len(scripted))]
	} else if len(legal) > 1 {
		if p.kind == CooperativeKind {
			if err := p.trustIfCooperative(); err != nil {
				return 0, err
			}
		}

		best, err := p.evaluator.BestMoves(legal, p.historyKey(), p.player,
			p.beliefs, p.ledger.Sent(), p.ledger.Received())
		if err != nil {
			return 0, err
		}

		move = best[p.rng.Intn(len(best))]
	}

	if claim, ok := p.game.IsClaim(move); ok {
		p.ledger.Send(p.evaluator.policy.Sent.Reading(claim))
	}

	if err := p.played(legal, move); err != nil {
		return 0, err
	}

	return move, nil
}

// bluffingMoves returns the legal moves the game scripts for a bluffer
// in the first believed state, or all of legal if it scripts none.
func (p *SearchPlayer) bluffingMoves(legal []Move) []Move {
	bluffer, ok := p.beliefs.Beliefs()[0].State.(Bluffer)
	if !ok {
		return legal
	}

	scripted := bluffer.BluffingMoves(p.player)
	moves := lo.Filter(legal, func(m Move, _ int) bool { return lo.Contains(scripted, m) })
	if len(moves) == 0 {
		return legal
	}

	return moves
}

// trustIfCooperative discards beliefs that contradict received claims,
// if the current situation is cooperative.
func (p *SearchPlayer) trustIfCooperative() error {
	if len(p.ledger.Received()) == 0 {
		return nil
	}

	cooperative, err := IsCooperative(p.game, p.beliefs, p.player)
	if err != nil || !cooperative {
		return err
	}

	p.trust(p.ledger.Received()...)
	return nil
}

func (p *SearchPlayer) trust(preds ...Predicate) {
	beliefs, ok := p.beliefs.FilterIfConsistent(preds...)
	if !ok {
		glog.Warningf("Player %d (%s): received claims contradict all %d beliefs",
			p.player, p.kind, p.beliefs.Len())
		return
	}

	p.beliefs = beliefs
}

func (p *SearchPlayer) ObservePercept(percept Percept) error {
	return p.observe(percept)
}

func (p *SearchPlayer) ReceiveClaims(claims []Claim) error {
	for _, c := range claims {
		p.received(c)
		pred := p.evaluator.policy.Received.Reading(c)
		p.ledger.Receive(pred)
		if p.kind == BeliefRevisionKind || p.kind == BluffingKind {
			p.trust(pred)
		}
	}

	return nil
}

// CFRPlayer plays the current strategy of a CFR Trainer, training it on
// first use.
type CFRPlayer struct {
	session
	trainer    *Trainer
	iterations int
	rng        *rand.Rand
}

// NewCFRPlayer returns a player backed by trainer. If the trainer has
// not been run yet, it is trained for the given number of iterations
// when the first match starts.
func NewCFRPlayer(trainer *Trainer, iterations int, rng *rand.Rand) *CFRPlayer {
	return &CFRPlayer{
		trainer:    trainer,
		iterations: iterations,
		rng:        rng,
	}
}

func (p *CFRPlayer) Name() string { return "cfr" }

func (p *CFRPlayer) Start(game Game, player int, initial []InitialState) error {
	if p.trainer.Iterations() == 0 {
		glog.Infof("Training CFR on %s for %d iterations", game.Name(), p.iterations)
		if _, err := p.trainer.Run(p.iterations); err != nil {
			return err
		}
	}

	p.start(game, player, initial)
	return nil
}

func (p *CFRPlayer) RequestMove(legal []Move) (Move, error) {
	if len(legal) == 0 {
		return 0, errors.Wrapf(ErrNoLegalMoves, "player %d", p.player)
	}

	move := legal[0]
	if len(legal) > 1 {
		// Every belief shares the same key, since they are indistinguishable.
		state := p.beliefs.Beliefs()[0].State
		best, err := p.trainer.BestMoves(state, p.player)
		if err != nil {
			return 0, err
		}

		move = best[p.rng.Intn(len(best))]
	}

	if err := p.played(legal, move); err != nil {
		return 0, err
	}

	return move, nil
}

func (p *CFRPlayer) ObservePercept(percept Percept) error {
	return p.observe(percept)
}

func (p *CFRPlayer) ReceiveClaims(claims []Claim) error {
	for _, c := range claims {
		p.received(c)
	}

	return nil
}
