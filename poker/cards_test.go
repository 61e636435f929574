package poker

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCardCreation(t *testing.T) {
	t.Parallel()

	aceSpades := NewCard(Ace, Spades)
	assert.Equal(t, Ace, aceSpades.Rank)
	assert.Equal(t, Spades, aceSpades.Suit)
	assert.Equal(t, "As", aceSpades.String())

	twoClubs := NewCard(Two, Clubs)
	assert.Equal(t, "2c", twoClubs.String())
	assert.True(t, NewCard(Ten, Hearts).Suit.IsRed())
	assert.False(t, Card{}.Valid())
}

func TestParseCard(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		wantCard Card
		wantErr  bool
	}{
		{name: "ace of spades", input: "As", wantCard: NewCard(Ace, Spades)},
		{name: "two of hearts", input: "2h", wantCard: NewCard(Two, Hearts)},
		{name: "ten with T notation", input: "Td", wantCard: NewCard(Ten, Diamonds)},
		{name: "ten with 10 notation", input: "10c", wantCard: NewCard(Ten, Clubs)},
		{name: "lowercase rank", input: "kd", wantCard: NewCard(King, Diamonds)},
		{name: "unicode suit", input: "Q♥", wantCard: NewCard(Queen, Hearts)},
		{name: "invalid rank", input: "Xs", wantErr: true},
		{name: "invalid suit", input: "Ax", wantErr: true},
		{name: "too long", input: "Asd", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseCard(tc.input)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.wantCard, got)
		})
	}
}

func TestCardJSONRoundTrip(t *testing.T) {
	t.Parallel()

	cards := MustParseCards("As Td 7h")
	data, err := json.Marshal(cards)
	require.NoError(t, err)
	assert.JSONEq(t, `["As","Td","7h"]`, string(data))

	var decoded []Card
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, cards, decoded)
}

func TestFormatCards(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Ah Kh 2c", FormatCards(MustParseCards("Ah Kh 2c")))
	assert.Equal(t, "", FormatCards(nil))
}
