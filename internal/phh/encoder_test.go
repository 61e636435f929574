package phh

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/lox/pokerrooms/internal/game"
	"github.com/lox/pokerrooms/internal/randutil"
	"github.com/lox/pokerrooms/poker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var handTime = time.Date(2025, time.November, 14, 15, 22, 0, 0, time.UTC)

// playedHand plays a three-handed hand to a river showdown. p0 deals, p1 posts the
// small blind and p2 the big blind.
func playedHand(t *testing.T) (*game.HandState, *Recorder) {
	t.Helper()
	var top []poker.Card
	for _, cards := range []string{"As Ad", "Kc Kd", "7h 2c", "2s 3s 9h Jd Qc"} {
		top = append(top, poker.MustParseCards(cards)...)
	}
	h := game.NewHand(randutil.New(1), 10, 20, game.WithDeck(poker.NewStackedDeck(randutil.New(1), top...)))
	require.NoError(t, h.StartHand([]game.SeatConfig{
		{ID: "p0", Name: "Alice", Chips: 1000},
		{ID: "p1", Name: "Bob", Chips: 1000},
		{ID: "p2", Name: "Carol", Chips: 1000},
	}))
	rec := NewRecorder("hand-42", "ABCDE", h, handTime)

	for _, step := range []struct {
		seat   string
		action game.Action
	}{
		{"p0", game.RaiseAction(60)},
		{"p1", game.Action{Kind: game.Call}},
		{"p2", game.Action{Kind: game.Fold}},
		{"p1", game.Action{Kind: game.Check}},
		{"p0", game.BetAction(100)},
		{"p1", game.Action{Kind: game.Call}},
		{"p1", game.Action{Kind: game.Check}},
		{"p0", game.Action{Kind: game.Check}},
		{"p1", game.Action{Kind: game.Check}},
		{"p0", game.Action{Kind: game.Check}},
	} {
		require.NoError(t, h.ApplyAction(step.seat, step.action), "%s %s", step.seat, step.action)
		rec.Record(step.seat, step.action.Kind, h)
	}
	require.True(t, h.Finished)
	return h, rec
}

func TestRecorder(t *testing.T) {
	t.Parallel()
	h, rec := playedHand(t)
	hand := rec.Finish(h)

	assert.Equal(t, Variant, hand.Variant)
	assert.Equal(t, "ABCDE", hand.Table)
	assert.Equal(t, 3, hand.SeatCount)
	assert.Equal(t, []string{"Bob", "Carol", "Alice"}, hand.Players)
	assert.Equal(t, []int{0, 0, 0}, hand.Antes)
	assert.Equal(t, []int{10, 20, 0}, hand.BlindsOrStraddles)
	assert.Equal(t, 20, hand.MinBet)
	assert.Equal(t, []int{1000, 1000, 1000}, hand.StartingStacks)
	assert.Equal(t, []int{840, 980, 1180}, hand.FinishingStacks)
	assert.Equal(t, []int{0, 0, 340}, hand.Winnings)
	assert.Equal(t, []string{
		"d dh p1 KcKd",
		"d dh p2 7h2c",
		"d dh p3 AsAd",
		"p3 cbr 60",
		"p1 cc",
		"p2 f",
		"d db 2s3s9h",
		"p1 cc",
		"p3 cbr 100",
		"p1 cc",
		"d db Jd",
		"p1 cc",
		"p3 cc",
		"d db Qc",
		"p1 cc",
		"p3 cc",
		"p1 sm KcKd",
		"p3 sm AsAd",
	}, hand.Actions)
	assert.Equal(t, []string{"2s", "3s", "9h", "Jd", "Qc"}, hand.Board())
	assert.Equal(t, "15:22:00", hand.Time)
	assert.Equal(t, 2025, hand.Year)
}

func TestRecorderAllInPreflopRunsOutBoard(t *testing.T) {
	t.Parallel()
	// Heads-up the first seat deals and posts the big blind, so b acts first
	h := game.NewHand(randutil.New(7), 10, 20)
	require.NoError(t, h.StartHand([]game.SeatConfig{
		{ID: "a", Name: "A", Chips: 500},
		{ID: "b", Name: "B", Chips: 300},
	}))
	rec := NewRecorder("hand-7", "", h, handTime)
	require.Equal(t, "b", h.ActingSeat().ID)

	require.NoError(t, h.ApplyAction("b", game.Action{Kind: game.AllIn}))
	rec.Record("b", game.AllIn, h)
	require.NoError(t, h.ApplyAction("a", game.Action{Kind: game.Call}))
	rec.Record("a", game.Call, h)
	require.True(t, h.Finished)

	hand := rec.Finish(h)
	assert.Equal(t, []string{"B", "A"}, hand.Players)
	assert.Equal(t, []int{300, 500}, hand.StartingStacks)
	assert.Equal(t, []string{"p1 cbr 300", "p2 cc"}, hand.Actions[2:4])
	assert.Len(t, hand.Board(), 5)
	// Hole deals, the shove, the call, three board deals and two shows
	assert.Len(t, hand.Actions, 9)
	assert.Equal(t, 800, hand.FinishingStacks[0]+hand.FinishingStacks[1])
}

func TestEncodeDecode(t *testing.T) {
	t.Parallel()
	h, rec := playedHand(t)
	hand := rec.Finish(h)

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, hand))
	out := buf.String()
	assert.Contains(t, out, "variant = \"NT\"\n")
	assert.Contains(t, out, "blinds_or_straddles = [10, 20, 0]\n")
	assert.Contains(t, out, "hand = \"hand-42\"\n")

	decoded, err := Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, hand.Actions, decoded.Actions)
	assert.Equal(t, hand.Winnings, decoded.Winnings)
	assert.Equal(t, hand.Players, decoded.Players)

	assert.Error(t, Encode(&buf, nil))
	_, err = Decode(bytes.NewBufferString("variant = "))
	assert.Error(t, err)
}

func TestDirSink(t *testing.T) {
	t.Parallel()
	dir := filepath.Join(t.TempDir(), "history")
	sink, err := NewDirSink(dir)
	require.NoError(t, err)

	h, rec := playedHand(t)
	hand := rec.Finish(h)
	require.NoError(t, sink.WriteHand(hand))

	path := sink.Path("hand-42")
	assert.Equal(t, filepath.Join(dir, "hand-42.phh"), path)
	decoded, err := DecodeFile(path)
	require.NoError(t, err)
	assert.Equal(t, hand.Actions, decoded.Actions)

	// IDs cannot escape the directory
	assert.Equal(t, filepath.Join(dir, "passwd.phh"), sink.Path("../../etc/passwd"))

	assert.Error(t, sink.WriteHand(&HandHistory{}))
	_, err = os.Stat(filepath.Join(dir, ".phh"))
	assert.True(t, os.IsNotExist(err))
}

func TestDescribe(t *testing.T) {
	t.Parallel()
	h, rec := playedHand(t)

	assert.Equal(t, []string{
		"Hand hand-42 at ABCDE on 2025-11-14 15:22:00 UTC",
		"Seat 1: Bob (1000)",
		"Seat 2: Carol (1000)",
		"Seat 3: Alice (1000)",
		"Bob posts 10",
		"Carol posts 20",
		"Dealt to Bob [Kc Kd]",
		"Dealt to Carol [7h 2c]",
		"Dealt to Alice [As Ad]",
		"Alice raises to 60",
		"Bob calls 50",
		"Carol folds",
		"*** FLOP *** [2s 3s 9h]",
		"Bob checks",
		"Alice bets 100",
		"Bob calls 100",
		"*** TURN *** [Jd]",
		"Bob checks",
		"Alice checks",
		"*** RIVER *** [Qc]",
		"Bob checks",
		"Alice checks",
		"Bob shows [Kc Kd]",
		"Alice shows [As Ad]",
		"Alice wins 340",
	}, Describe(rec.Finish(h)))
}
