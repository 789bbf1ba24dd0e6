package potmanager

import (
	"errors"
	"fmt"
	"sort"

	"card-shoggoths-server/pkg/playable"
)

// ErrHandOver is an error when an action is attempted after the hand was decided
var ErrHandOver = playable.NewRuleError(playable.KindIllegalAction, "the hand is over")

// ErrRoundOver is an error when the betting round is over
var ErrRoundOver = playable.NewRuleError(playable.KindIllegalAction, "the betting round is over")

// ErrParticipantCannotAct is an error when the participant cannot act
var ErrParticipantCannotAct = playable.NewRuleError(playable.KindIllegalAction, "it is not your turn")

// ErrParticipantNotFound is an error when a participant with a provided ID cannot be found
var ErrParticipantNotFound = errors.New("participant not found")

func newIllegalAction(format string, a ...interface{}) error {
	return playable.NewRuleError(playable.KindIllegalAction, format, a...)
}

func newInsufficientSanity(format string, a ...interface{}) error {
	return playable.NewRuleError(playable.KindInsufficientSanity, format, a...)
}

// PotManager keeps track of the bets and the single pot of a heads-up hand
// There are no side pots: any amount an all-in seat could not match is returned
// to the bettor when the betting round closes.
type PotManager struct {
	participants map[int64]*participantInPot
	tableOrder   []*participantInPot
	ante         int
	// pot holds everything committed so far, including the current betting round
	pot int
	// actionStartIndex is where the action started, or changed (i.e., a raise)
	actionStartIndex int
	// actionAtIndex is who is currently making a decision
	actionAtIndex int
	actionAmount  int

	// isHandOver will prevent any further action from happening
	isHandOver bool
}

// Refund is sanity handed back to a bettor whose bet could not be matched
type Refund struct {
	Participant Participant
	Amount      int
}

// New instantiates a new PotManager
func New(ante int) *PotManager {
	return &PotManager{
		participants: make(map[int64]*participantInPot),
		tableOrder:   make([]*participantInPot, 0, 2),
		ante:         ante,
	}
}

// SeatParticipant adds a participant to the table in the order called
// This method must be called in order of the players
func (p *PotManager) SeatParticipant(pt Participant) error {
	if _, ok := p.participants[pt.ID()]; ok {
		return fmt.Errorf("participant %d is already seated", pt.ID())
	}

	pip := &participantInPot{
		Participant: pt,
		tableIndex:  len(p.tableOrder),
	}
	p.participants[pt.ID()] = pip
	p.tableOrder = append(p.tableOrder, pip)

	return nil
}

// FinishSeatingParticipants collects the ante from every participant and opens the first betting round
// No ante is collected unless every participant can cover it.
func (p *PotManager) FinishSeatingParticipants() error {
	if len(p.tableOrder) < 2 {
		return errors.New("at least two participants are required")
	}

	for _, pip := range p.tableOrder {
		if pip.Balance() < p.ante {
			return newInsufficientSanity("the ante is %d but participant %d only has %d sanity", p.ante, pip.ID(), pip.Balance())
		}
	}

	for _, pip := range p.tableOrder {
		p.adjustParticipant(pip, p.ante)
	}

	p.reset()
	return nil
}

// ParticipantFolds handles a fold
// A fold that leaves a single participant decides the hand.
func (p *PotManager) ParticipantFolds(pt Participant) error {
	pip, err := p.getActiveParticipantInPot(pt)
	if err != nil {
		return err
	}

	pip.isFolded = true
	if p.getLiveParticipantCount() <= 1 {
		p.actionAtIndex = len(p.tableOrder)
		p.isHandOver = true
		return nil
	}

	p.completeTurn()
	return nil
}

// ParticipantChecks handles a check
func (p *PotManager) ParticipantChecks(pt Participant) error {
	pip, err := p.getActiveParticipantInPot(pt)
	if err != nil {
		return err
	}

	if pip.amountInPlay != p.actionAmount {
		return newIllegalAction("you cannot check with an active bet of %d", p.actionAmount-pip.amountInPlay)
	}

	p.completeTurn()
	return nil
}

// ParticipantCalls handles a call
// A participant who cannot cover the full call goes all-in for what they have left.
func (p *PotManager) ParticipantCalls(pt Participant) error {
	pip, err := p.getActiveParticipantInPot(pt)
	if err != nil {
		return err
	}

	if p.actionAmount <= pip.amountInPlay {
		return newIllegalAction("there is no bet to call")
	}

	p.adjustParticipant(pip, p.actionAmount)
	p.completeTurn()
	return nil
}

// ParticipantBets opens the betting with the specified amount
func (p *PotManager) ParticipantBets(pt Participant, amount int) error {
	pip, err := p.getActiveParticipantInPot(pt)
	if err != nil {
		return err
	}

	if p.actionAmount > 0 {
		return newIllegalAction("you cannot bet when there is already a bet of %d; call or raise instead", p.actionAmount)
	}

	if amount <= 0 {
		return newIllegalAction("your bet must be greater than zero")
	}

	if amount > pip.Balance() {
		return newInsufficientSanity("you cannot bet %d with only %d sanity", amount, pip.Balance())
	}

	if !p.hasOtherParticipantThatCanAct(pip) {
		return newIllegalAction("your opponent cannot act; you may only check or fold")
	}

	p.openAction(pip, amount)
	return nil
}

// ParticipantRaises raises the current bet by raiseBy
func (p *PotManager) ParticipantRaises(pt Participant, raiseBy int) error {
	pip, err := p.getActiveParticipantInPot(pt)
	if err != nil {
		return err
	}

	if p.actionAmount <= pip.amountInPlay {
		return newIllegalAction("there is no bet to raise; bet instead")
	}

	if raiseBy <= 0 {
		return newIllegalAction("your raise must be greater than zero")
	}

	newBet := p.actionAmount + raiseBy
	if cost := newBet - pip.amountInPlay; cost > pip.Balance() {
		return newInsufficientSanity("raising by %d costs %d sanity but you only have %d", raiseBy, cost, pip.Balance())
	}

	if !p.hasOtherParticipantThatCanAct(pip) {
		return newIllegalAction("your opponent is all-in; you may only call or fold")
	}

	p.openAction(pip, newBet)
	return nil
}

// openAction restarts the action from the participant who bet or raised
func (p *PotManager) openAction(pip *participantInPot, newBet int) {
	p.actionStartIndex = pip.tableIndex
	p.actionAtIndex = 0

	p.actionAmount = newBet
	p.adjustParticipant(pip, newBet)

	p.completeTurn()
}

// IsParticipantYetToAct returns true if the participant is not in turn and the participant has yet to act
// This also ensures the participant didn't fold and they are not all-in
func (p *PotManager) IsParticipantYetToAct(pt Participant) bool {
	pip, ok := p.participants[pt.ID()]
	if !ok {
		return false
	}

	// did they fold or go all-in
	if !pip.canAct() {
		return false
	}

	// simple formula to see if the player isn't in turn, but they are still yet to act
	check := pip.tableIndex
	if check < p.actionStartIndex {
		check += len(p.tableOrder)
	}

	return check > p.actionStartIndex+p.actionAtIndex
}

// GetCanActParticipantCount returns the number of participants in the hand who didn't fold or go all-in
func (p *PotManager) GetCanActParticipantCount() int {
	count := 0
	for _, pt := range p.tableOrder {
		if pt.canAct() {
			count++
		}
	}

	return count
}

func (p *PotManager) getLiveParticipantCount() int {
	count := 0
	for _, pt := range p.tableOrder {
		if !pt.isFolded {
			count++
		}
	}

	return count
}

func (p *PotManager) hasOtherParticipantThatCanAct(pip *participantInPot) bool {
	for _, other := range p.tableOrder {
		if other != pip && other.canAct() {
			return true
		}
	}

	return false
}

// adjustParticipant moves sanity from the participant into the pot until the participant
// has {target} in play, or goes all-in trying
func (p *PotManager) adjustParticipant(pip *participantInPot, target int) {
	adjustment := target - pip.amountInPlay
	if adjustment >= pip.Balance() {
		adjustment = pip.Balance()
		pip.isAllIn = true
	}

	p.pot += adjustment
	pip.amountInPlay += adjustment
	pip.AdjustBalance(-1 * adjustment)
}

// GetAnte returns the ante
func (p *PotManager) GetAnte() int {
	return p.ante
}

// GetBet returns the current bet
func (p *PotManager) GetBet() int {
	return p.actionAmount
}

// GetPot returns the total in the pot
func (p *PotManager) GetPot() int {
	return p.pot
}

// GetAmountInPlay returns how much the participant has put in on the current betting round
func (p *PotManager) GetAmountInPlay(pt Participant) int {
	if pip, ok := p.participants[pt.ID()]; ok {
		return pip.amountInPlay
	}

	return 0
}

// GetAmountToCall returns how much more the participant must put in to call
func (p *PotManager) GetAmountToCall(pt Participant) int {
	pip, ok := p.participants[pt.ID()]
	if !ok {
		return 0
	}

	toCall := p.actionAmount - pip.amountInPlay
	if toCall > pip.Balance() {
		toCall = pip.Balance()
	}

	return toCall
}

// IsAllIn returns true if the participant has no sanity left to bet
func (p *PotManager) IsAllIn(pt Participant) bool {
	pip, ok := p.participants[pt.ID()]
	return ok && pip.isAllIn
}

// IsFolded returns true if the participant folded
func (p *PotManager) IsFolded(pt Participant) bool {
	pip, ok := p.participants[pt.ID()]
	return ok && pip.isFolded
}

// CanRaise returns true if a bet or raise could be called by somebody
func (p *PotManager) CanRaise(pt Participant) bool {
	pip, ok := p.participants[pt.ID()]
	return ok && p.hasOtherParticipantThatCanAct(pip)
}

// IsHandOver returns true if the hand was decided
func (p *PotManager) IsHandOver() bool {
	return p.isHandOver
}

// IsRoundOver returns true if all eligible participants have acted
func (p *PotManager) IsRoundOver() bool {
	return p.actionAtIndex >= len(p.tableOrder)
}

// GetInTurnParticipant returns the participant who is to act next
// Returns nil if the round is over
func (p *PotManager) GetInTurnParticipant() Participant {
	if p.IsRoundOver() || p.isHandOver {
		return nil
	}

	return p.tableOrder[p.normalizedActionAtIndex()].Participant
}

// PayWinners splits the pot between the winners and returns the payouts
// Any uneven amount is paid to the winner seated first.
func (p *PotManager) PayWinners(winners []Participant) (map[int64]int, error) {
	if !p.isHandOver {
		return nil, errors.New("hand is not over")
	}

	if len(winners) == 0 {
		return nil, errors.New("at least one winner is required")
	}

	// sort by the table order to ensure the uneven amount goes to the first seat
	pipWinners := make([]*participantInPot, len(winners))
	for i, winner := range winners {
		pip, ok := p.participants[winner.ID()]
		if !ok {
			return nil, ErrParticipantNotFound
		}

		pipWinners[i] = pip
	}
	sort.Sort(sortByTableIndex(pipWinners))

	payouts := make(map[int64]int)
	share := p.pot / len(pipWinners)
	remainder := p.pot % len(pipWinners)
	for i, winner := range pipWinners {
		winnings := share
		if i < remainder {
			winnings++
		}

		winner.AdjustBalance(winnings)
		payouts[winner.ID()] += winnings
	}

	p.pot = 0
	return payouts, nil
}

// completeTurn must be called after a participant bets, raises, checks, calls, or folds
func (p *PotManager) completeTurn() {
	// stay in for loop until we find a player who can act
	for p.actionAtIndex++; p.actionAtIndex < len(p.tableOrder); p.actionAtIndex++ {
		pip := p.tableOrder[p.normalizedActionAtIndex()]
		if pip.canAct() {
			return
		}
	}
}

// NextRound closes the betting round and opens the next one
// If a bet was called all-in for less, the difference is returned to the bettor.
func (p *PotManager) NextRound() (*Refund, error) {
	if !p.IsRoundOver() {
		return nil, errors.New("round is not over")
	}

	refund := p.returnUncalled()
	p.reset()
	return refund, nil
}

func (p *PotManager) returnUncalled() *Refund {
	var top, second *participantInPot
	for _, pip := range p.tableOrder {
		if pip.isFolded {
			continue
		}

		if top == nil || pip.amountInPlay > top.amountInPlay {
			top, second = pip, top
		} else if second == nil || pip.amountInPlay > second.amountInPlay {
			second = pip
		}
	}

	if top == nil || second == nil || top.amountInPlay <= second.amountInPlay {
		return nil
	}

	excess := top.amountInPlay - second.amountInPlay
	top.amountInPlay -= excess
	top.AdjustBalance(excess)
	top.isAllIn = false
	p.pot -= excess

	return &Refund{
		Participant: top.Participant,
		Amount:      excess,
	}
}

func (p *PotManager) reset() {
	for _, pip := range p.tableOrder {
		pip.reset()
	}

	p.actionAmount = 0
	p.actionAtIndex = 0

	// reset actionStartIndex to first non-folded, non-all-in player
	for p.actionStartIndex = 0; p.actionStartIndex < len(p.tableOrder) && !p.tableOrder[p.actionStartIndex].canAct(); p.actionStartIndex++ {
		// no-op
	}

	// nobody can bet against a single participant, so there is no round to play
	if p.GetCanActParticipantCount() < 2 {
		p.actionStartIndex = 0
		p.actionAtIndex = len(p.tableOrder)
	}
}

func (p *PotManager) normalizedActionAtIndex() int {
	return (p.actionStartIndex + p.actionAtIndex) % len(p.tableOrder)
}

// getActiveParticipantInPot returns the participantInPot if the participant is on the clock, otherwise
// an error if the participant cannot act
func (p *PotManager) getActiveParticipantInPot(pt Participant) (*participantInPot, error) {
	if p.isHandOver {
		return nil, ErrHandOver
	}

	pit := p.GetInTurnParticipant()
	if pit == nil {
		return nil, ErrRoundOver
	}

	if pit.ID() != pt.ID() {
		return nil, ErrParticipantCannotAct
	}

	pip, ok := p.participants[pt.ID()]
	if !ok {
		panic("participant not found")
	}

	return pip, nil
}

// EndHand will prevent further action from happening
func (p *PotManager) EndHand() {
	p.isHandOver = true
}
