package room

import (
	"strings"

	"card-shoggoths-server/pkg/playable"
)

const logMessageLimit = 25

// addLogMessages keeps the most recent log messages and relays them to the chat
// Note: this must only be called while holding the dealer lock
func (d *Dealer) addLogMessages(messages []*playable.LogMessage) {
	m := append(d.logMessages, messages...)
	count := len(m)
	if count > logMessageLimit {
		m = m[count-logMessageLimit:]
	}

	d.logMessages = m

	if d.pitBoss.hub == nil {
		return
	}

	for _, msg := range messages {
		d.pitBoss.hub.Narrate(d.id, d.renderLogMessage(msg))
		if HasQuip(msg.Situation) {
			d.pitBoss.hub.Say(d.id, msg.Situation)
		}
	}
}

// drainLogMessages reads everything the game has logged so far
func (d *Dealer) drainLogMessages() []*playable.LogMessage {
	var messages []*playable.LogMessage
	for {
		select {
		case logs := <-d.game.LogChan():
			messages = append(messages, logs...)
		default:
			return messages
		}
	}
}

// renderLogMessage replaces the {} placeholder with the name of the player
func (d *Dealer) renderLogMessage(msg *playable.LogMessage) string {
	if len(msg.PlayerIDs) == 0 {
		return msg.Message
	}

	name := d.game.Human().Name
	if msg.PlayerIDs[0] == d.game.Opponent().PlayerID {
		name = d.game.Opponent().Name
	}

	return strings.Replace(msg.Message, "{}", name, 1)
}
