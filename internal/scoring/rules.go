package scoring

import (
	"fmt"

	"github.com/cpkimr/olympreg/internal/config"
	"github.com/cpkimr/olympreg/internal/database/models"
)

// Rule holds the score thresholds and rewards for one olympiad stage.
// Status derivation is a pure function of (score, rule): the same score
// always yields the same status.
type Rule struct {
	WinnerThreshold int
	PrizeThreshold  int
	WinnerPoints    int
	PrizePoints     int
	WinnerMedal     models.MedalType
	PrizeMedal      models.MedalType
}

// RuleSet maps each stage to its rule. A stage absent from the set is a
// configuration error, not a zero-point award.
type RuleSet map[models.Stage]Rule

// StatusFor derives the result status from a raw score.
func (r Rule) StatusFor(score int) models.ResultStatus {
	switch {
	case score >= r.WinnerThreshold:
		return models.StatusWinner
	case score >= r.PrizeThreshold:
		return models.StatusPrize
	default:
		return models.StatusParticipant
	}
}

// RewardFor returns the rating points and medal tier for a status.
// Participants earn nothing.
func (r Rule) RewardFor(status models.ResultStatus) (points int, medal models.MedalType, hasMedal bool) {
	switch status {
	case models.StatusWinner:
		return r.WinnerPoints, r.WinnerMedal, true
	case models.StatusPrize:
		return r.PrizePoints, r.PrizeMedal, true
	default:
		return 0, "", false
	}
}

// DefaultRules returns the stock rule set, matching the point and medal
// tables the rating system launched with.
func DefaultRules() RuleSet {
	return RuleSet{
		models.StageSchool: {
			WinnerThreshold: 100, PrizeThreshold: 50,
			WinnerPoints: 100, PrizePoints: 50,
			WinnerMedal: models.MedalSilver, PrizeMedal: models.MedalBronze,
		},
		models.StageCity: {
			WinnerThreshold: 90, PrizeThreshold: 60,
			WinnerPoints: 450, PrizePoints: 300,
			WinnerMedal: models.MedalPlatinum, PrizeMedal: models.MedalGold,
		},
		models.StageRegional: {
			WinnerThreshold: 85, PrizeThreshold: 60,
			WinnerPoints: 1000, PrizePoints: 450,
			WinnerMedal: models.MedalRuby, PrizeMedal: models.MedalPlatinum,
		},
		models.StageFinal: {
			WinnerThreshold: 80, PrizeThreshold: 55,
			WinnerPoints: 6000, PrizePoints: 3000,
			WinnerMedal: models.MedalPersonal, PrizeMedal: models.MedalDiamond,
		},
	}
}

// RulesFromConfig builds a rule set from the YAML scoring section. An
// empty section falls back to the defaults, so a bare config still
// scores sensibly.
func RulesFromConfig(stages []config.StageRule) (RuleSet, error) {
	if len(stages) == 0 {
		return DefaultRules(), nil
	}

	rules := make(RuleSet, len(stages))
	for _, sr := range stages {
		stage, err := models.ParseStage(sr.Stage)
		if err != nil {
			return nil, err
		}
		if _, dup := rules[stage]; dup {
			return nil, fmt.Errorf("duplicate scoring rule for stage %q", sr.Stage)
		}
		if sr.WinnerThreshold < sr.PrizeThreshold {
			return nil, fmt.Errorf("stage %q: winner threshold %d below prize threshold %d",
				sr.Stage, sr.WinnerThreshold, sr.PrizeThreshold)
		}
		rules[stage] = Rule{
			WinnerThreshold: sr.WinnerThreshold,
			PrizeThreshold:  sr.PrizeThreshold,
			WinnerPoints:    sr.WinnerPoints,
			PrizePoints:     sr.PrizePoints,
			WinnerMedal:     models.MedalType(sr.WinnerMedal),
			PrizeMedal:      models.MedalType(sr.PrizeMedal),
		}
	}
	return rules, nil
}
