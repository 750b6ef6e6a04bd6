package engine

// HouseRules holds configurable game rule settings.
type HouseRules struct {
	WinThreshold    int // Score that ends the game.
	PassStartReward int // Awarded once per move that crosses START.
	TrialReward     int
	EventReward     int // Magnitude of GAIN_MEAT / LOSE_MEAT events.
	MinPlayers      int
	MaxPlayers      int
	MaxNameLength   int // In runes.
}

// DefaultHouseRules returns the standard rules.
func DefaultHouseRules() HouseRules {
	return HouseRules{
		WinThreshold:    10,
		PassStartReward: 1,
		TrialReward:     1,
		EventReward:     1,
		MinPlayers:      2,
		MaxPlayers:      4,
		MaxNameLength:   8,
	}
}

// Normalize returns a copy of r with unset fields taken from DefaultHouseRules.
func (r HouseRules) Normalize() HouseRules {
	d := DefaultHouseRules()
	if r.WinThreshold == 0 {
		r.WinThreshold = d.WinThreshold
	}
	if r.PassStartReward == 0 {
		r.PassStartReward = d.PassStartReward
	}
	if r.TrialReward == 0 {
		r.TrialReward = d.TrialReward
	}
	if r.EventReward == 0 {
		r.EventReward = d.EventReward
	}
	if r.MinPlayers == 0 {
		r.MinPlayers = d.MinPlayers
	}
	if r.MaxPlayers == 0 {
		r.MaxPlayers = d.MaxPlayers
	}
	if r.MaxNameLength == 0 {
		r.MaxNameLength = d.MaxNameLength
	}
	return r
}
