package potmanager

import "fmt"

// State is the serializable form of a PotManager
type State struct {
	Ante             int         `json:"ante"`
	Pot              int         `json:"pot"`
	CurrentBet       int         `json:"currentBet"`
	ActionStartIndex int         `json:"actionStartIndex"`
	ActionAtIndex    int         `json:"actionAtIndex"`
	IsHandOver       bool        `json:"isHandOver"`
	Seats            []SeatState `json:"seats"`
}

// SeatState is the serializable form of a seated participant
type SeatState struct {
	ID           int64 `json:"id"`
	AmountInPlay int   `json:"amountInPlay"`
	IsAllIn      bool  `json:"isAllIn"`
	IsFolded     bool  `json:"isFolded"`
}

// State returns a snapshot of the pot manager
func (p *PotManager) State() State {
	seats := make([]SeatState, len(p.tableOrder))
	for i, pip := range p.tableOrder {
		seats[i] = SeatState{
			ID:           pip.ID(),
			AmountInPlay: pip.amountInPlay,
			IsAllIn:      pip.isAllIn,
			IsFolded:     pip.isFolded,
		}
	}

	return State{
		Ante:             p.ante,
		Pot:              p.pot,
		CurrentBet:       p.actionAmount,
		ActionStartIndex: p.actionStartIndex,
		ActionAtIndex:    p.actionAtIndex,
		IsHandOver:       p.isHandOver,
		Seats:            seats,
	}
}

// Restore rebuilds a PotManager from a snapshot
// participants must be supplied in table order.
func Restore(state State, participants ...Participant) (*PotManager, error) {
	if len(state.Seats) != len(participants) {
		return nil, fmt.Errorf("expected %d participants, got %d", len(state.Seats), len(participants))
	}

	p := New(state.Ante)
	for i, seat := range state.Seats {
		pt := participants[i]
		if pt.ID() != seat.ID {
			return nil, fmt.Errorf("seat %d belongs to participant %d, got %d", i, seat.ID, pt.ID())
		}

		if err := p.SeatParticipant(pt); err != nil {
			return nil, err
		}

		pip := p.participants[pt.ID()]
		pip.amountInPlay = seat.AmountInPlay
		pip.isAllIn = seat.IsAllIn
		pip.isFolded = seat.IsFolded
	}

	p.pot = state.Pot
	p.actionAmount = state.CurrentBet
	p.actionStartIndex = state.ActionStartIndex
	p.actionAtIndex = state.ActionAtIndex
	p.isHandOver = state.IsHandOver

	return p, nil
}
