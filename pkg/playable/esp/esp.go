package esp

import (
	"errors"
	"fmt"
	"time"

	"card-shoggoths-server/internal/rng"
	"card-shoggoths-server/pkg/deck"
	"card-shoggoths-server/pkg/playable"

	"github.com/coder/quartz"
)

// ErrNoActiveRound is returned when there is no ESP round to act on
var ErrNoActiveRound = playable.NewRuleError(playable.KindNoActiveESP, "there is no active ESP round")

// ErrDeadlineExpired is returned when a guess arrives after the deadline
var ErrDeadlineExpired = playable.NewRuleError(playable.KindDeadlineExpired, "the visions have faded; the deadline passed")

// Options configures the ESP challenge
type Options struct {
	HandSize          int
	Deadline          time.Duration
	Reward            int
	TimeoutPenalty    int
	WrongGuessPenalty int
}

// DefaultOptions returns the default options
func DefaultOptions() Options {
	return Options{
		HandSize:       5,
		Deadline:       15 * time.Second,
		Reward:         15,
		TimeoutPenalty: 10,
	}
}

// ValidateOptions returns an error if the options cannot be played
func ValidateOptions(opts Options) error {
	if opts.HandSize < 1 || opts.HandSize*2 > smallestDeck() {
		return fmt.Errorf("hand size must be between 1 and %d", smallestDeck()/2)
	}

	if opts.Deadline <= 0 {
		return errors.New("deadline must be > 0")
	}

	if opts.Reward < 0 || opts.TimeoutPenalty < 0 || opts.WrongGuessPenalty < 0 {
		return errors.New("reward and penalties must be >= 0")
	}

	return nil
}

// Outcome describes what an ESP operation did
type Outcome struct {
	Correct bool
	// Ended is true if the round is over and must be discarded
	Ended bool
	// SanityDelta is the change to the player's sanity
	SanityDelta int
	Narration   string
}

// Engine runs ESP rounds against a server side clock
// The engine is stateless: the active round is owned by the caller.
type Engine struct {
	options Options
	clock   quartz.Clock
	random  rng.Generator
}

// NewEngine returns a new Engine
func NewEngine(opts Options, clock quartz.Clock, random rng.Generator) (*Engine, error) {
	if err := ValidateOptions(opts); err != nil {
		return nil, err
	}

	if clock == nil {
		clock = quartz.NewReal()
	}

	if random == nil {
		random = rng.Crypto{}
	}

	return &Engine{
		options: opts,
		clock:   clock,
		random:  random,
	}, nil
}

// Options returns the engine options
func (e *Engine) Options() Options {
	return e.options
}

// Now returns the current server time
func (e *Engine) Now() time.Time {
	return e.clock.Now()
}

// Start deals a new round from a randomly themed deck
func (e *Engine) Start() (*Round, Outcome, error) {
	theme := Themes[e.random.Intn(len(Themes))]

	d := deck.NewWithRanks(theme.Ranks)
	d.SetSeed(e.random.Int63())
	d.Shuffle()

	hand1, err := d.Deal(e.options.HandSize)
	if err != nil {
		return nil, Outcome{}, err
	}

	hand2, err := d.Deal(e.options.HandSize)
	if err != nil {
		return nil, Outcome{}, err
	}

	now := e.clock.Now()
	round := &Round{
		Theme:       theme.Name,
		Hand1:       hand1,
		Hand2:       hand2,
		MatchIndex1: e.random.Intn(e.options.HandSize),
		MatchIndex2: e.random.Intn(e.options.HandSize),
		StartedAt:   now,
		Deadline:    now.Add(e.options.Deadline),
	}

	return round, Outcome{
		Narration: fmt.Sprintf("%s Find the matching cards!", theme.Message),
	}, nil
}

// Guess checks the indices against the hidden link
// The caller must run Expire first so that a late guess has already paid the timeout penalty.
func (e *Engine) Guess(round *Round, player *playable.Player, index1, index2 int) (Outcome, error) {
	if round == nil {
		return Outcome{}, ErrNoActiveRound
	}

	if round.Expired(e.clock.Now()) {
		return Outcome{}, ErrDeadlineExpired
	}

	if err := round.validateIndices(index1, index2); err != nil {
		return Outcome{}, err
	}

	if round.IsMatch(index1, index2) {
		player.AdjustBalance(e.options.Reward)
		return Outcome{
			Correct:     true,
			Ended:       true,
			SanityDelta: e.options.Reward,
			Narration:   fmt.Sprintf("Your mind pierces the veil! +%d Sanity", e.options.Reward),
		}, nil
	}

	round.Attempts++
	penalty := player.Penalize(e.options.WrongGuessPenalty)

	narration := "The cards blur... Try again."
	if penalty > 0 {
		narration = fmt.Sprintf("The cards blur... -%d Sanity. Try again.", penalty)
	}

	return Outcome{
		SanityDelta: -penalty,
		Narration:   narration,
	}, nil
}

// Expire applies the timeout penalty if the round is past its deadline
// It returns false if the round is still live.
func (e *Engine) Expire(round *Round, player *playable.Player) (Outcome, bool) {
	if round == nil || !round.Expired(e.clock.Now()) {
		return Outcome{}, false
	}

	penalty := player.Penalize(e.options.TimeoutPenalty)
	return Outcome{
		Ended:       true,
		SanityDelta: -penalty,
		Narration:   fmt.Sprintf("Time runs out and the visions fade. -%d Sanity", penalty),
	}, true
}

// Exit ends the round without a penalty
func (e *Engine) Exit(round *Round) (Outcome, error) {
	if round == nil {
		return Outcome{}, ErrNoActiveRound
	}

	return Outcome{
		Ended:     true,
		Narration: "You close your third eye.",
	}, nil
}
