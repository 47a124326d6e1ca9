package scoring

import (
	"testing"

	"github.com/cpkimr/olympreg/internal/database/models"
	"github.com/stretchr/testify/assert"
)

func intp(v int) *int { return &v }

func defaultBands() []models.League {
	return []models.League{
		{Type: models.LeagueBronze, MinPoints: 0, MaxPoints: intp(150)},
		{Type: models.LeagueSilver, MinPoints: 151, MaxPoints: intp(500)},
		{Type: models.LeagueGold, MinPoints: 501, MaxPoints: intp(1000)},
		{Type: models.LeaguePlatinum, MinPoints: 1001, MaxPoints: intp(2000)},
		{Type: models.LeagueRuby, MinPoints: 2001, MaxPoints: intp(3500)},
		{Type: models.LeagueDiamond, MinPoints: 3501, MaxPoints: nil},
	}
}

func TestMatchLeague(t *testing.T) {
	tests := []struct {
		name   string
		points int
		want   models.LeagueType
		found  bool
	}{
		{"zero points lands in bronze", 0, models.LeagueBronze, true},
		{"bronze upper bound inclusive", 150, models.LeagueBronze, true},
		{"silver lower bound", 151, models.LeagueSilver, true},
		{"gold mid band", 750, models.LeagueGold, true},
		{"platinum upper bound", 2000, models.LeaguePlatinum, true},
		{"ruby band", 2500, models.LeagueRuby, true},
		{"diamond is open-ended", 100000, models.LeagueDiamond, true},
		{"negative points match nothing", -1, "", false},
	}

	leagues := defaultBands()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := MatchLeague(leagues, tt.points)
			assert.Equal(t, tt.found, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMatchLeagueGap(t *testing.T) {
	leagues := []models.League{
		{Type: models.LeagueBronze, MinPoints: 0, MaxPoints: intp(100)},
		{Type: models.LeagueGold, MinPoints: 200, MaxPoints: nil},
	}

	got, ok := MatchLeague(leagues, 150)
	assert.False(t, ok)
	assert.Empty(t, got)
}

func TestMatchLeagueOverlapFirstWins(t *testing.T) {
	leagues := []models.League{
		{Type: models.LeagueBronze, MinPoints: 0, MaxPoints: intp(200)},
		{Type: models.LeagueSilver, MinPoints: 100, MaxPoints: intp(500)},
	}

	got, ok := MatchLeague(leagues, 150)
	assert.True(t, ok)
	assert.Equal(t, models.LeagueBronze, got)
}
