package room

import "github.com/lox/pokerrooms/internal/bot"

// Player is a member of a room. Chips carry over from hand to hand.
type Player struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Chips int    `json:"chips"`
	Bot   bool   `json:"bot,omitempty"`

	policy bot.Policy
}

// Summary is a room as shown in lobby listings and room updates
type Summary struct {
	Code        string   `json:"code"`
	Players     []Player `json:"players"`
	MaxPlayers  int      `json:"maxPlayers"`
	SmallBlind  int      `json:"smallBlind"`
	BigBlind    int      `json:"bigBlind"`
	HandRunning bool     `json:"handRunning"`
	HandsPlayed int      `json:"handsPlayed"`
}

// Humans counts the non-bot players
func (s Summary) Humans() int {
	n := 0
	for _, p := range s.Players {
		if !p.Bot {
			n++
		}
	}
	return n
}
