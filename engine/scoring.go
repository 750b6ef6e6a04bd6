package engine

import "sort"

// Winner returns the index of the first player, in seat order, whose score
// has reached threshold. Returns -1 if nobody has.
func Winner(players []Player, threshold int) int {
	for i := range players {
		if players[i].Score >= threshold {
			return i
		}
	}
	return -1
}

// Standing is one row of the final results table.
type Standing struct {
	Rank   int    `json:"rank"`
	Seat   int    `json:"seat"`
	Player Player `json:"player"`
}

// Standings orders players by score, highest first. Ties keep seat order and
// share a rank.
func Standings(players []Player) []Standing {
	out := make([]Standing, len(players))
	for i, p := range players {
		out[i] = Standing{Seat: i, Player: p}
	}
	sort.SliceStable(out, func(a, b int) bool {
		return out[a].Player.Score > out[b].Player.Score
	})
	for i := range out {
		switch {
		case i > 0 && out[i].Player.Score == out[i-1].Player.Score:
			out[i].Rank = out[i-1].Rank
		default:
			out[i].Rank = i + 1
		}
	}
	return out
}
