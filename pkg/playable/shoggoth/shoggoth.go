package shoggoth

import (
	"errors"
	"strings"
	"time"

	"card-shoggoths-server/internal/rng"
	"card-shoggoths-server/internal/util"
	"card-shoggoths-server/pkg/playable"
	"card-shoggoths-server/pkg/playable/esp"
	"card-shoggoths-server/pkg/playable/poker/action"
	"card-shoggoths-server/pkg/playable/poker/drawpoker"

	"github.com/coder/quartz"
	"github.com/sirupsen/logrus"
)

// seat IDs
const (
	HumanID    int64 = 1
	OpponentID int64 = 2
)

var errESPActive = playable.NewRuleError(playable.KindIllegalPhase, "the visions demand your attention; finish or exit the ESP challenge first")

// Game is one player's session: a game of draw poker against the opponent plus the ESP challenge
type Game struct {
	logger  logrus.FieldLogger
	options Options
	clock   quartz.Clock

	human    *playable.Player
	opponent *playable.Player

	round     *drawpoker.Game
	espEngine *esp.Engine
	activeESP *esp.Round

	narration string
	createdAt time.Time
	updatedAt time.Time

	logChan chan []*playable.LogMessage
	logs    []*playable.LogMessage
}

// Outcome is the result of an intent
type Outcome struct {
	Narration string          `json:"narration"`
	Phase     drawpoker.Phase `json:"phase"`
	ESPActive bool            `json:"espActive"`
	Correct   *bool           `json:"correct,omitempty"`

	changed bool
}

// NewGame starts a new session for the human
// An empty name picks a random one.
func NewGame(logger logrus.FieldLogger, humanName string, opts Options, clock quartz.Clock, random rng.Generator) (*Game, error) {
	humanName = strings.TrimSpace(humanName)
	if humanName == "" {
		humanName = util.GetRandomName()
	}

	human := &playable.Player{
		PlayerID: HumanID,
		Name:     humanName,
		IsHuman:  true,
		Sanity:   opts.Poker.StartingSanity,
	}

	opp := &playable.Player{
		PlayerID: OpponentID,
		Name:     opts.Opponent.Name(),
		Sanity:   opts.Poker.StartingSanity,
	}

	g, err := newGame(logger, opts, clock, random, human, opp)
	if err != nil {
		return nil, err
	}

	round, err := drawpoker.NewGame(g.logger, human, opp, opts.Opponent, opts.Poker)
	if err != nil {
		return nil, err
	}

	g.round = round
	g.createdAt = g.clock.Now()
	g.updatedAt = g.createdAt
	g.narration = "The cards await. Deal when you are ready."
	return g, nil
}

func newGame(logger logrus.FieldLogger, opts Options, clock quartz.Clock, random rng.Generator, human, opp *playable.Player) (*Game, error) {
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	if clock == nil {
		clock = quartz.NewReal()
	}

	if opts.Opponent.OpponentName == "" {
		return nil, errors.New("the opponent needs a name")
	}

	engine, err := esp.NewEngine(opts.ESP, clock, random)
	if err != nil {
		return nil, err
	}

	return &Game{
		logger:    logger,
		options:   opts,
		clock:     clock,
		human:     human,
		opponent:  opp,
		espEngine: engine,
		logChan:   make(chan []*playable.LogMessage, 256),
	}, nil
}

// Human returns the human player
func (g *Game) Human() *playable.Player {
	return g.human
}

// Opponent returns the opponent player
func (g *Game) Opponent() *playable.Player {
	return g.opponent
}

// Phase returns the phase of the poker round
func (g *Game) Phase() drawpoker.Phase {
	return g.round.Phase()
}

// IsESPActive returns true if an ESP round is in progress
func (g *Game) IsESPActive() bool {
	return g.activeESP != nil
}

// Narration returns the narration of the last intent
func (g *Game) Narration() string {
	return g.narration
}

// UpdatedAt is when the state last changed
func (g *Game) UpdatedAt() time.Time {
	return g.updatedAt
}

// CanStartESP returns true if no hand is in progress and no ESP round is active
func (g *Game) CanStartESP() bool {
	return g.activeESP == nil && g.round.Phase().IsAtRest()
}

// Deal starts a new round of poker
func (g *Game) Deal() (*Outcome, error) {
	return g.pokerIntent(g.round.Deal)
}

// Act performs a betting action for the human
func (g *Game) Act(a action.Action, amount int) (*Outcome, error) {
	return g.pokerIntent(func() (string, error) {
		return g.round.Act(HumanID, a, amount)
	})
}

// Discard replaces the cards at the indices
func (g *Game) Discard(indices []int) (*Outcome, error) {
	return g.pokerIntent(func() (string, error) {
		return g.round.Discard(HumanID, indices)
	})
}

// ResolveShowdown settles an outstanding showdown, or repeats the last settlement
func (g *Game) ResolveShowdown() (*Outcome, error) {
	return g.pokerIntent(g.round.ResolveShowdown)
}

// Rebuy restores both players after the game is over
func (g *Game) Rebuy() (*Outcome, error) {
	return g.pokerIntent(g.round.Rebuy)
}

func (g *Game) pokerIntent(intent func() (string, error)) (*Outcome, error) {
	var n narration
	expired := g.expireESP(&n)

	if g.activeESP != nil {
		return g.result(n, expired), errESPActive
	}

	text, err := intent()
	g.forwardRoundLogs()
	if err != nil {
		return g.result(n, expired), err
	}

	n.add(text)
	return g.result(n, true), nil
}

// StartESP begins an ESP round
func (g *Game) StartESP() (*Outcome, error) {
	var n narration
	expired := g.expireESP(&n)

	if g.activeESP != nil {
		return g.result(n, expired), playable.NewRuleError(playable.KindIllegalPhase, "an ESP round is already active")
	}

	if !g.round.Phase().IsAtRest() {
		return g.result(n, expired), playable.NewRuleError(playable.KindIllegalPhase, "the spirits are occupied; complete your current hand first")
	}

	round, outcome, err := g.espEngine.Start()
	if err != nil {
		return g.result(n, expired), err
	}

	g.activeESP = round
	n.add(outcome.Narration)
	g.log("esp_start", HumanID, "{} opens their third eye (%s)", round.Theme)
	return g.result(n, true), nil
}

// GuessESP guesses which two cards are linked
func (g *Game) GuessESP(index1, index2 int) (*Outcome, error) {
	var n narration
	if g.expireESP(&n) {
		return g.result(n, true), esp.ErrDeadlineExpired
	}

	outcome, err := g.espEngine.Guess(g.activeESP, g.human, index1, index2)
	if err != nil {
		return g.result(n, false), err
	}

	n.add(outcome.Narration)
	if outcome.Ended {
		g.activeESP = nil
	}

	if outcome.Correct {
		g.log("esp_correct", HumanID, "{} found the link and gained %d sanity", outcome.SanityDelta)
	}

	if g.endIfBroken(&n) {
		g.activeESP = nil
	}

	res := g.result(n, true)
	correct := outcome.Correct
	res.Correct = &correct
	return res, nil
}

// ExitESP leaves the ESP round without a further penalty
func (g *Game) ExitESP() (*Outcome, error) {
	var n narration
	if g.expireESP(&n) {
		return g.result(n, true), esp.ErrDeadlineExpired
	}

	outcome, err := g.espEngine.Exit(g.activeESP)
	if err != nil {
		return g.result(n, false), err
	}

	g.activeESP = nil
	n.add(outcome.Narration)
	return g.result(n, true), nil
}

// expireESP applies the timeout if the active ESP round is past its deadline
// The round is cleared in the same step so the penalty can only be applied once.
func (g *Game) expireESP(n *narration) bool {
	outcome, expired := g.espEngine.Expire(g.activeESP, g.human)
	if !expired {
		return false
	}

	g.activeESP = nil
	n.add(outcome.Narration)
	g.log("esp_timeout", HumanID, "{} ran out of time and lost %d sanity", -outcome.SanityDelta)
	g.logger.WithField("penalty", -outcome.SanityDelta).Debug("esp round expired")

	g.endIfBroken(n)
	return true
}

// endIfBroken moves to game_over when the human has no sanity left
// It reports whether the phase changed.
func (g *Game) endIfBroken(n *narration) bool {
	if !g.human.IsBroken() || g.round.Phase() == drawpoker.PhaseGameOver {
		return false
	}

	g.round.EndIfBroken()
	n.add("The visions consumed you. Game Over.")
	return true
}

func (g *Game) result(n narration, changed bool) *Outcome {
	if changed {
		g.narration = n.String()
		g.updatedAt = g.clock.Now()
	}

	g.flushLogs()
	return &Outcome{
		Narration: n.String(),
		Phase:     g.round.Phase(),
		ESPActive: g.activeESP != nil,
		changed:   changed,
	}
}

// forwardRoundLogs moves any pending poker log messages onto the session log
func (g *Game) forwardRoundLogs() {
	for {
		select {
		case logs := <-g.round.LogChan():
			g.logs = append(g.logs, logs...)
		default:
			return
		}
	}
}

func (g *Game) log(situation string, playerID int64, format string, a ...interface{}) {
	g.logs = append(g.logs, playable.SituationLogMessage(situation, playerID, format, a...))
}

func (g *Game) flushLogs() {
	if len(g.logs) == 0 {
		return
	}

	select {
	case g.logChan <- g.logs:
	default:
		g.logger.WithField("count", len(g.logs)).Warn("log channel is full, dropping messages")
	}

	g.logs = nil
}

// narration is a list of sentences describing what happened
type narration []string

func (n *narration) add(text string) {
	if text != "" {
		*n = append(*n, text)
	}
}

func (n narration) String() string {
	return strings.Join(n, " ")
}
