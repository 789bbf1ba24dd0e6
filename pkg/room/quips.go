package room

import "card-shoggoths-server/internal/rng"

// what the opponent says, by situation
var ancientQuips = map[string][]string{
	"deal": {
		"*shuffles cards with tentacles*",
		"The cards whisper secrets...",
		"Fate is dealt anew.",
		"Let us see what the void reveals.",
		"*eyes glow faintly*",
	},
	"player_bet": {
		"Bold... or foolish?",
		"You wager your sanity freely.",
		"*chuckles in frequencies below human hearing*",
		"The stakes... rise.",
		"Interesting.",
	},
	"player_fold": {
		"Wisdom... or cowardice?",
		"The void notes your retreat.",
		"*nods slowly*",
		"Self-preservation. How... mortal.",
		"You yield to the inevitable.",
	},
	"ancient_wins": {
		"Your sanity feeds me.",
		"*absorbs essence*",
		"The cosmos favors the eternal.",
		"Another fragment of your mind... mine.",
		"Delicious despair.",
	},
	"player_wins": {
		"*hisses* Impossible...",
		"A temporary setback.",
		"You have... luck. For now.",
		"*tentacles twitch with agitation*",
		"The void is patient.",
	},
	"idle": {
		"*clears throat in a tone that predates language*",
		"Time moves differently for immortals... but still, it moves.",
		"*taps table with appendage*",
		"Do mortals always deliberate this long?",
		"The cards grow cold waiting.",
		"*stares into your soul*",
		"Eternity stretches before us... but perhaps not THAT long.",
	},
	"esp_start": {
		"Ah, you dare peer beyond the veil?",
		"*opens third eye*",
		"The patterns of reality shimmer...",
		"Focus... if your feeble mind can.",
	},
	"esp_correct": {
		"*surprised gurgle* You... saw?",
		"The gift stirs within you.",
		"*grudging respect*",
	},
	"esp_timeout": {
		"*laughs in cosmic horror*",
		"Your third eye remains... clouded.",
		"The visions elude you.",
	},
	"greeting": {
		"Welcome, mortal. Sit. Play. Lose your mind.",
		"Another soul seeks to challenge the void.",
		"*manifests at the table* Shall we begin?",
	},
}

const defaultQuip = "*stares inscrutably*"

// HasQuip returns true if the opponent has something to say about the situation
func HasQuip(situation string) bool {
	return len(ancientQuips[situation]) > 0
}

// Quip returns a random line for the situation
func Quip(random rng.Generator, situation string) string {
	quips := ancientQuips[situation]
	if len(quips) == 0 {
		return defaultQuip
	}

	return quips[random.Intn(len(quips))]
}
