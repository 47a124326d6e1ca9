package scoring

import "github.com/cpkimr/olympreg/internal/database/models"

// MatchLeague returns the league whose band contains the point total.
// Leagues are scanned in min_points order; if bands overlap through
// misconfiguration the first match wins. A gap in the table yields
// ok=false and the caller leaves the league unset.
func MatchLeague(leagues []models.League, points int) (models.LeagueType, bool) {
	if points < 0 {
		return "", false
	}
	for i := range leagues {
		if leagues[i].Contains(points) {
			return leagues[i].Type, true
		}
	}
	return "", false
}
