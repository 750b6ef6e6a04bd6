package setup

import (
	"testing"
	"unicode/utf8"

	engine "github.com/jason-s-yu/sojourn/engine"
	"github.com/jason-s-yu/sojourn/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	seats, err := Defaults(3, engine.DefaultHouseRules())
	require.NoError(t, err)
	require.Len(t, seats, 3)
	assert.Equal(t, models.PlayerSetup{Name: "Sage 1", Character: engine.Confucius}, seats[0])
	assert.Equal(t, "Bot 2", seats[1].Name)
	assert.True(t, seats[1].IsAI)
	assert.Equal(t, engine.YanHui, seats[2].Character)

	_, err = Defaults(1, engine.DefaultHouseRules())
	assert.ErrorIs(t, err, ErrPlayerCount)
	_, err = Defaults(5, engine.DefaultHouseRules())
	assert.ErrorIs(t, err, ErrPlayerCount)
}

func TestPlayersFromDefaults(t *testing.T) {
	seats, err := Defaults(4, engine.HouseRules{})
	require.NoError(t, err)
	players, err := Players(seats, engine.HouseRules{})
	require.NoError(t, err)
	require.Len(t, players, 4)
	for i, p := range players {
		assert.Equal(t, seats[i].Name, p.Name)
		assert.Equal(t, 0, p.Position)
		assert.Equal(t, 0, p.Score)
	}
	assert.NotEqual(t, players[0].ID, players[1].ID)
}

func TestDefaultNamesSurviveTruncation(t *testing.T) {
	rules := engine.DefaultHouseRules()
	for seat := 0; seat < rules.MaxPlayers; seat++ {
		for _, ai := range []bool{false, true} {
			name := DefaultName(seat, ai)
			assert.LessOrEqual(t, utf8.RuneCountInString(name), rules.MaxNameLength, name)
		}
	}

	seats, err := Defaults(rules.MaxPlayers, rules)
	require.NoError(t, err)
	players, err := Players(seats, rules)
	require.NoError(t, err)
	seen := make(map[string]bool)
	for _, p := range players {
		assert.False(t, seen[p.Name], "duplicate default name %q", p.Name)
		seen[p.Name] = true
	}
}

func TestPlayersValidation(t *testing.T) {
	rules := engine.DefaultHouseRules()
	cases := []struct {
		name    string
		entries []models.PlayerSetup
		err     error
	}{
		{"too few", []models.PlayerSetup{{Name: "a", Character: engine.Zilu}}, ErrPlayerCount},
		{"duplicate", []models.PlayerSetup{
			{Name: "a", Character: engine.Zilu},
			{Name: "b", Character: engine.Zilu},
		}, ErrDuplicateCharacter},
		{"unknown", []models.PlayerSetup{
			{Name: "a", Character: engine.Zilu},
			{Name: "b", Character: "mencius"},
		}, ErrUnknownCharacter},
		{"blank name", []models.PlayerSetup{
			{Name: "a", Character: engine.Zilu},
			{Name: "   ", Character: engine.Zigong},
		}, ErrEmptyName},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := Players(c.entries, rules)
			assert.ErrorIs(t, err, c.err)
		})
	}
}

func TestNamesCutToRuneLimit(t *testing.T) {
	players, err := Players([]models.PlayerSetup{
		{Name: "  Zengzi the Careful  ", Character: engine.Confucius},
		{Name: "賢士賢士賢士賢士賢士", Character: engine.Zilu, IsAI: true},
	}, engine.DefaultHouseRules())
	require.NoError(t, err)
	assert.Equal(t, "Zengzi t", players[0].Name)
	assert.Equal(t, "賢士賢士賢士賢士", players[1].Name)
	assert.True(t, players[1].IsAI)
}

func TestGoalAndMode(t *testing.T) {
	g, err := Goal(0)
	require.NoError(t, err)
	assert.Equal(t, DefaultGoal, g)
	g, err = Goal(20)
	require.NoError(t, err)
	assert.Equal(t, 20, g)
	_, err = Goal(4)
	assert.ErrorIs(t, err, ErrGoalOutOfRange)

	m, err := Mode("")
	require.NoError(t, err)
	assert.Equal(t, engine.ModeNormal, m)
	_, err = Mode("blitz")
	assert.ErrorIs(t, err, engine.ErrUnknownMode)
}
