package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildPots(t *testing.T) {
	t.Parallel()

	seat := func(id string, total int, status SeatStatus) *Seat {
		return &Seat{ID: id, TotalContributed: total, Status: status}
	}

	tests := []struct {
		name  string
		seats []*Seat
		want  []PotLayer
	}{
		{
			name:  "single pot",
			seats: []*Seat{seat("a", 50, Active), seat("b", 50, Active)},
			want:  []PotLayer{{Amount: 100, Eligible: []string{"a", "b"}}},
		},
		{
			name: "three all-in levels",
			seats: []*Seat{
				seat("a", 50, AllInStatus),
				seat("b", 150, AllInStatus),
				seat("c", 300, Active),
				seat("d", 300, Active),
			},
			want: []PotLayer{
				{Amount: 200, Eligible: []string{"a", "b", "c", "d"}},
				{Amount: 300, Eligible: []string{"b", "c", "d"}},
				{Amount: 300, Eligible: []string{"c", "d"}},
			},
		},
		{
			name: "folded contribution between levels",
			seats: []*Seat{
				seat("a", 100, AllInStatus),
				seat("b", 70, Folded),
				seat("c", 200, Active),
			},
			want: []PotLayer{
				{Amount: 270, Eligible: []string{"a", "c"}},
				{Amount: 100, Eligible: []string{"c"}},
			},
		},
		{
			name: "folded contribution above every level",
			seats: []*Seat{
				seat("a", 40, AllInStatus),
				seat("b", 300, Folded),
				seat("c", 40, Active),
			},
			want: []PotLayer{
				{Amount: 380, Eligible: []string{"a", "c"}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, buildPots(tt.seats))
		})
	}
}

func TestSplitPot(t *testing.T) {
	t.Parallel()

	assert.Equal(t, map[int]int{2: 34, 0: 33, 1: 33}, splitPot(100, []int{2, 0, 1}))
	assert.Equal(t, map[int]int{1: 7}, splitPot(7, []int{1}))
	assert.Empty(t, splitPot(10, nil))
}
