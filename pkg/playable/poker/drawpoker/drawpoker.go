package drawpoker

import (
	"errors"
	"fmt"
	"strings"

	"card-shoggoths-server/pkg/deck"
	"card-shoggoths-server/pkg/playable"
	"card-shoggoths-server/pkg/playable/poker/action"
	"card-shoggoths-server/pkg/playable/poker/handanalyzer"
	"card-shoggoths-server/pkg/playable/poker/opponent"
	"card-shoggoths-server/pkg/playable/poker/potmanager"

	"github.com/sirupsen/logrus"
)

const handSize = 5

// chat situations attached to log messages
const (
	SituationDeal        = "deal"
	SituationPlayerBet   = "player_bet"
	SituationPlayerFold  = "player_fold"
	SituationAncientWins = "ancient_wins"
	SituationPlayerWins  = "player_wins"
)

// Game is a heads-up game of five card draw played for sanity
// The human is always seated first and acts first in both betting rounds.
type Game struct {
	logger  logrus.FieldLogger
	options Options
	policy  opponent.Policy

	human    *Seat
	opponent *Seat
	seats    []*Seat

	deck        *deck.Deck
	potManager  *potmanager.PotManager
	phase       Phase
	roundNumber int
	result      *Result

	logChan chan []*playable.LogMessage
	logs    []*playable.LogMessage
}

// Result is how the last round was settled
type Result struct {
	// Reason is either "fold" or "showdown"
	Reason    string           `json:"reason"`
	Winners   []int64          `json:"winners"`
	Payouts   map[int64]int    `json:"payouts"`
	Hands     map[int64]string `json:"hands,omitempty"`
	Narration string           `json:"narration"`
}

// NewGame returns a new game between the human and the opponent
// The players are shared with the caller; their sanity is adjusted in place.
func NewGame(logger logrus.FieldLogger, human, opp *playable.Player, policy opponent.Policy, opts Options) (*Game, error) {
	if err := validateOptions(opts); err != nil {
		return nil, err
	}

	if human == nil || opp == nil {
		return nil, errors.New("two players are required")
	}

	if human.PlayerID == opp.PlayerID {
		return nil, errors.New("players must have distinct IDs")
	}

	if policy == nil {
		return nil, errors.New("an opponent policy is required")
	}

	if logger == nil {
		logger = logrus.StandardLogger()
	}

	g := &Game{
		logger:   logger,
		options:  opts,
		policy:   policy,
		human:    newSeat(human),
		opponent: newSeat(opp),
		phase:    PhaseAnte,
		logChan:  make(chan []*playable.LogMessage, 256),
	}
	g.seats = []*Seat{g.human, g.opponent}

	if human.IsBroken() {
		g.phase = PhaseGameOver
	}

	return g, nil
}

// Phase returns the current phase
func (g *Game) Phase() Phase {
	return g.phase
}

// RoundNumber returns how many rounds have been dealt
func (g *Game) RoundNumber() int {
	return g.roundNumber
}

// Options returns the options the game was created with
func (g *Game) Options() Options {
	return g.options
}

// Result returns the settlement of the last round, or nil if no round was settled
func (g *Game) Result() *Result {
	return g.result
}

// Human returns the human seat
func (g *Game) Human() *Seat {
	return g.human
}

// Opponent returns the opponent seat
func (g *Game) Opponent() *Seat {
	return g.opponent
}

// Deal posts the ante for both seats, deals a new hand and opens pre-draw betting
func (g *Game) Deal() (string, error) {
	if g.phase == PhaseGameOver {
		return "", playable.NewRuleError(playable.KindIllegalPhase, "the game is over; rebuy to play again")
	}

	if !g.phase.IsAtRest() {
		return "", playable.NewRuleError(playable.KindIllegalPhase, "a round is already in progress")
	}

	var n narration
	ante := g.options.Ante
	if g.human.Sanity < ante {
		g.phase = PhaseGameOver
		n.add("%s cannot cover the ante of %d. The game is over.", g.human.Name, ante)
		g.log("", g.human.PlayerID, "{} cannot cover the ante")
		return g.finish(n), nil
	}

	if g.opponent.Sanity < ante {
		g.opponent.Sanity = g.options.StartingSanity
		n.add("%s regenerates to %d sanity.", g.opponent.Name, g.opponent.Sanity)
	}

	g.roundNumber++
	g.result = nil
	for _, seat := range g.seats {
		seat.reset()
	}

	g.deck = deck.New()
	if g.options.Seed != 0 {
		g.deck.SetSeed(g.options.Seed + int64(g.roundNumber))
	}
	g.deck.Shuffle()

	for i := 0; i < handSize; i++ {
		for _, seat := range g.seats {
			card, err := g.deck.Draw()
			if err != nil {
				return "", fmt.Errorf("could not deal: %w", err)
			}

			seat.hand = append(seat.hand, card)
		}
	}

	pm := potmanager.New(ante)
	for _, seat := range g.seats {
		if err := pm.SeatParticipant(seat); err != nil {
			return "", err
		}
	}

	if err := pm.FinishSeatingParticipants(); err != nil {
		return "", err
	}

	g.potManager = pm
	g.phase = PhasePreDrawBetting

	n.add("Both players ante %d. The pot is %d.", ante, pm.GetPot())
	g.log(SituationDeal, 0, "round %d dealt, pot is %d", g.roundNumber, pm.GetPot())
	g.logger.WithFields(logrus.Fields{
		"round": g.roundNumber,
		"seed":  g.deck.GetSeed(),
	}).Debug("dealt round")

	if err := g.advance(&n); err != nil {
		return "", err
	}

	return g.finish(n), nil
}

// Act applies a betting action for the player
// For a bet, amount is the size of the bet. For a raise, amount is how much to raise by.
func (g *Game) Act(playerID int64, a action.Action, amount int) (string, error) {
	if !g.phase.IsBetting() {
		return "", playable.NewRuleError(playable.KindIllegalPhase, "you cannot %s during the %s phase", a, g.phase)
	}

	if !a.IsBetting() {
		return "", playable.NewRuleError(playable.KindIllegalAction, "%s is not a betting action", a)
	}

	seat, err := g.getSeat(playerID)
	if err != nil {
		return "", err
	}

	if seat != g.human {
		return "", potmanager.ErrParticipantCannotAct
	}

	var n narration
	if err := g.applyAction(seat, a, amount, &n); err != nil {
		return "", err
	}

	if err := g.advance(&n); err != nil {
		return "", err
	}

	return g.finish(n), nil
}

// Discard replaces the cards at the indices with new cards from the deck
// An empty slice stands pat.
func (g *Game) Discard(playerID int64, indices []int) (string, error) {
	if g.phase != PhaseDiscard {
		return "", playable.NewRuleError(playable.KindIllegalPhase, "you cannot discard during the %s phase", g.phase)
	}

	seat, err := g.getSeat(playerID)
	if err != nil {
		return "", err
	}

	if seat != g.human {
		return "", potmanager.ErrParticipantCannotAct
	}

	if seat.discarded {
		return "", playable.NewRuleError(playable.KindIllegalAction, "you have already discarded this round")
	}

	if err := g.validateDiscard(indices); err != nil {
		return "", err
	}

	var n narration
	if err := g.discard(seat, indices, &n); err != nil {
		return "", err
	}

	if err := g.advance(&n); err != nil {
		return "", err
	}

	return g.finish(n), nil
}

func (g *Game) validateDiscard(indices []int) error {
	if len(indices) > g.options.MaxDiscards {
		return playable.NewRuleError(playable.KindIllegalIndex, "you may discard at most %d cards", g.options.MaxDiscards)
	}

	seen := make(map[int]bool, len(indices))
	for _, index := range indices {
		if index < 0 || index >= handSize {
			return playable.NewRuleError(playable.KindIllegalIndex, "card index %d is out of range", index)
		}

		if seen[index] {
			return playable.NewRuleError(playable.KindIllegalIndex, "card index %d was given more than once", index)
		}

		seen[index] = true
	}

	return nil
}

func (g *Game) discard(seat *Seat, indices []int, n *narration) error {
	if err := seat.replaceCards(g.deck, indices); err != nil {
		return fmt.Errorf("could not replace cards: %w", err)
	}

	msg := action.Discard.LogMessage(len(indices))
	n.add("%s %s.", seat.Name, msg)
	g.log("", seat.PlayerID, "{} %s", msg)
	return nil
}

// ResolveShowdown settles an outstanding showdown
// Once the round is complete, the settlement narration is returned again.
func (g *Game) ResolveShowdown() (string, error) {
	if g.phase == PhaseShowdown {
		var n narration
		if err := g.showdown(&n); err != nil {
			return "", err
		}

		return g.finish(n), nil
	}

	if (g.phase == PhaseComplete || g.phase == PhaseGameOver) && g.result != nil {
		return g.result.Narration, nil
	}

	return "", playable.NewRuleError(playable.KindIllegalPhase, "there is no showdown to resolve during the %s phase", g.phase)
}

// Rebuy restores both players to the starting sanity after the game is over
func (g *Game) Rebuy() (string, error) {
	if g.phase != PhaseGameOver {
		return "", playable.NewRuleError(playable.KindIllegalPhase, "you can only rebuy once the game is over")
	}

	for _, seat := range g.seats {
		seat.Sanity = g.options.StartingSanity
		seat.reset()
	}

	g.potManager = nil
	g.result = nil
	g.phase = PhaseAnte

	var n narration
	n.add("Your mind is restored. Both players return to %d sanity.", g.options.StartingSanity)
	g.log("", g.human.PlayerID, "{} rebuys")
	return g.finish(n), nil
}

// EndIfBroken moves the game to game_over if a player has no sanity left
// It returns true if the game is over.
func (g *Game) EndIfBroken() bool {
	if g.phase == PhaseGameOver {
		return true
	}

	for _, seat := range g.seats {
		if seat.IsBroken() {
			g.phase = PhaseGameOver
			return true
		}
	}

	return false
}

// advance keeps the round moving until it is the human's turn or the round is settled
func (g *Game) advance(n *narration) error {
	for {
		switch {
		case g.phase.IsBetting():
			if g.potManager.IsHandOver() {
				return g.settleFold(n)
			}

			if g.potManager.IsRoundOver() {
				if err := g.closeBettingRound(n); err != nil {
					return err
				}
				continue
			}

			if pt := g.potManager.GetInTurnParticipant(); pt != nil && pt.ID() == g.opponent.PlayerID {
				if err := g.opponentActs(n); err != nil {
					return err
				}
				continue
			}

			return nil
		case g.phase == PhaseDiscard:
			if !g.human.discarded {
				return nil
			}

			if !g.opponent.discarded {
				indices := g.policy.ChooseDiscard(g.opponent.Hand())
				if err := g.validateDiscard(indices); err != nil {
					g.logger.WithError(err).Warn("opponent chose an illegal discard, standing pat")
					indices = []int{}
				}

				if err := g.discard(g.opponent, indices, n); err != nil {
					return err
				}
			}

			g.phase = PhasePostDrawBetting
		case g.phase == PhaseShowdown:
			return g.showdown(n)
		default:
			return nil
		}
	}
}

func (g *Game) closeBettingRound(n *narration) error {
	refund, err := g.potManager.NextRound()
	if err != nil {
		return err
	}

	if refund != nil {
		seat := g.seatFor(refund.Participant)
		n.add("%s takes back %d uncalled sanity.", seat.Name, refund.Amount)
		g.log("", seat.PlayerID, "{} takes back %d uncalled sanity", refund.Amount)
	}

	switch g.phase {
	case PhasePreDrawBetting:
		g.phase = PhaseDiscard
	case PhasePostDrawBetting:
		g.phase = PhaseShowdown
	}

	return nil
}

func (g *Game) opponentActs(n *narration) error {
	view := g.opponentView()
	decision := g.policy.DecideAction(view)

	err := g.applyAction(g.opponent, decision.Action, decision.Amount, n)
	if err == nil {
		return nil
	}

	var ruleErr *playable.RuleError
	if !errors.As(err, &ruleErr) {
		return err
	}

	g.logger.WithError(err).WithField("action", decision.Action).Warn("opponent chose an illegal action")
	for _, fallback := range []action.Action{action.Check, action.Call, action.Fold} {
		if !view.IsLegal(fallback) {
			continue
		}

		if err := g.applyAction(g.opponent, fallback, 0, n); err == nil {
			return nil
		}
	}

	return fmt.Errorf("opponent could not act: %w", err)
}

func (g *Game) applyAction(seat *Seat, a action.Action, amount int, n *narration) error {
	pm := g.potManager
	var logAmount int
	var err error

	switch a {
	case action.Check:
		err = pm.ParticipantChecks(seat)
	case action.Call:
		logAmount = pm.GetAmountToCall(seat)
		err = pm.ParticipantCalls(seat)
	case action.Bet:
		logAmount = amount
		err = pm.ParticipantBets(seat, amount)
	case action.Raise:
		err = pm.ParticipantRaises(seat, amount)
		logAmount = pm.GetBet()
	case action.Fold:
		err = pm.ParticipantFolds(seat)
	default:
		err = playable.NewRuleError(playable.KindIllegalAction, "%s is not a betting action", a)
	}

	if err != nil {
		return err
	}

	if a == action.Fold {
		seat.folded = true
	}

	situation := SituationPlayerBet
	if a == action.Fold {
		situation = SituationPlayerFold
	}

	msg := a.LogMessage(logAmount)
	if pm.IsAllIn(seat) && (a == action.Call || a == action.Bet || a == action.Raise) {
		msg += " and is all-in"
	}

	n.add("%s %s.", seat.Name, msg)
	g.log(situation, seat.PlayerID, "{} %s", msg)
	return nil
}

func (g *Game) settleFold(n *narration) error {
	var winner *Seat
	for _, seat := range g.seats {
		if !seat.folded {
			winner = seat
		}
	}

	if winner == nil {
		return errors.New("every seat folded")
	}

	pot := g.potManager.GetPot()
	payouts, err := g.potManager.PayWinners([]potmanager.Participant{winner})
	if err != nil {
		return err
	}

	n.add("%s wins the pot of %d.", winner.Name, pot)
	g.result = &Result{
		Reason:  "fold",
		Winners: []int64{winner.PlayerID},
		Payouts: payouts,
	}

	return g.finishRound(n, []*Seat{winner})
}

func (g *Game) showdown(n *narration) error {
	g.potManager.EndHand()
	pot := g.potManager.GetPot()

	wm := potmanager.NewWinManager()
	hands := make(map[int64]string)
	for _, seat := range g.seats {
		if seat.folded {
			continue
		}

		h := handanalyzer.New(seat.hand)
		wm.AddParticipant(seat, h.GetStrength())
		hands[seat.PlayerID] = h.Describe()
	}

	winners := wm.GetWinners()
	payouts, err := g.potManager.PayWinners(winners)
	if err != nil {
		return err
	}

	winningSeats := make([]*Seat, len(winners))
	winnerIDs := make([]int64, len(winners))
	for i, w := range winners {
		winningSeats[i] = g.seatFor(w)
		winnerIDs[i] = w.ID()
	}

	if len(winningSeats) > 1 {
		n.add("%s and %s both show %s. The pot of %d is split.", g.human.Name, g.opponent.Name, hands[g.human.PlayerID], pot)
	} else {
		winner := winningSeats[0]
		loser := g.human
		if winner == g.human {
			loser = g.opponent
		}

		n.add("%s shows %s. %s shows %s.", g.human.Name, hands[g.human.PlayerID], g.opponent.Name, hands[g.opponent.PlayerID])
		n.add("%s wins the pot of %d over %s.", winner.Name, pot, loser.Name)
	}

	g.result = &Result{
		Reason:  "showdown",
		Winners: winnerIDs,
		Payouts: payouts,
		Hands:   hands,
	}

	return g.finishRound(n, winningSeats)
}

func (g *Game) finishRound(n *narration, winners []*Seat) error {
	g.phase = PhaseComplete

	if len(winners) == 1 {
		situation := SituationPlayerWins
		if winners[0] == g.opponent {
			situation = SituationAncientWins
		}

		g.log(situation, winners[0].PlayerID, "{} won %d", g.result.Payouts[winners[0].PlayerID])
	} else {
		g.log("", 0, "the pot was split")
	}

	if g.EndIfBroken() {
		if g.human.IsBroken() {
			n.add("%s's mind shatters. The game is over.", g.human.Name)
		} else {
			n.add("%s is banished to the void. The game is over.", g.opponent.Name)
		}
	}

	g.result.Narration = n.String()
	return nil
}

func (g *Game) getSeat(playerID int64) (*Seat, error) {
	for _, seat := range g.seats {
		if seat.PlayerID == playerID {
			return seat, nil
		}
	}

	return nil, playable.NewRuleError(playable.KindIllegalAction, "player %d is not seated", playerID)
}

func (g *Game) seatFor(pt potmanager.Participant) *Seat {
	for _, seat := range g.seats {
		if seat.PlayerID == pt.ID() {
			return seat
		}
	}

	panic(fmt.Sprintf("participant %d is not seated", pt.ID()))
}

// finish sends the pending log messages and returns the narration
func (g *Game) finish(n narration) string {
	if len(g.logs) > 0 {
		select {
		case g.logChan <- g.logs:
		default:
			g.logger.WithField("count", len(g.logs)).Warn("log channel is full, dropping messages")
		}

		g.logs = nil
	}

	return n.String()
}

func (g *Game) log(situation string, playerID int64, format string, a ...interface{}) {
	g.logs = append(g.logs, playable.SituationLogMessage(situation, playerID, format, a...))
}

// LogChan returns the channel log messages are sent to
func (g *Game) LogChan() <-chan []*playable.LogMessage {
	return g.logChan
}

// narration is a list of sentences describing what happened
type narration []string

func (n *narration) add(format string, a ...interface{}) {
	*n = append(*n, fmt.Sprintf(format, a...))
}

func (n narration) String() string {
	return strings.Join(n, " ")
}
