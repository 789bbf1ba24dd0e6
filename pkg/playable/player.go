package playable

// Player is a seated identity and the sanity pool that goes with it
// Sanity is the only currency. It persists across rounds until a rebuy.
type Player struct {
	PlayerID int64  `json:"id"`
	Name     string `json:"name"`
	IsHuman  bool   `json:"isHuman"`
	Sanity   int    `json:"sanity"`
}

// ID returns the player ID
func (p *Player) ID() int64 {
	return p.PlayerID
}

// Balance returns the sanity left
func (p *Player) Balance() int {
	return p.Sanity
}

// AdjustBalance adds the amount (which may be negative) to the sanity pool
func (p *Player) AdjustBalance(amount int) {
	p.Sanity += amount
}

// Penalize removes up to amount sanity without going below zero
// The amount actually removed is returned.
func (p *Player) Penalize(amount int) int {
	if amount > p.Sanity {
		amount = p.Sanity
	}

	if amount < 0 {
		amount = 0
	}

	p.Sanity -= amount
	return amount
}

// IsBroken returns true if the player has no sanity left
func (p *Player) IsBroken() bool {
	return p.Sanity <= 0
}
