package scoring

import (
	"errors"
	"fmt"

	"github.com/cpkimr/olympreg/internal/database"
	"github.com/cpkimr/olympreg/internal/database/models"
	"github.com/cpkimr/olympreg/internal/pubsub"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrStageNotConfigured is returned when an olympiad's stage has no rule
// in the injected rule set. The record call fails without touching any
// state: a silent zero-point award would be indistinguishable from a
// legitimate non-placement.
var ErrStageNotConfigured = errors.New("no scoring rule configured for stage")

// TopicScoreboard is the pubsub topic carrying rating changes.
const TopicScoreboard = "scoreboard"

// Notifier receives result messages for asynchronous delivery. Enqueue
// must not block; delivery failures are the dispatcher's problem, never
// the recorder's.
type Notifier interface {
	Enqueue(chatID, text string)
}

// Outcome describes what one Record call did.
type Outcome struct {
	Result        *models.Result      `json:"result"`
	Status        models.ResultStatus `json:"status"`
	PointsAwarded int                 `json:"points_awarded"`
	PointsDelta   int                 `json:"points_delta"`
	MedalAwarded  bool                `json:"medal_awarded"`
	Medal         models.MedalType    `json:"medal,omitempty"`
	Rating        *models.Rating      `json:"rating"`
}

// ScoreboardEvent is published after every rating change.
type ScoreboardEvent struct {
	UserID string            `json:"user_id"`
	Points int               `json:"points"`
	League models.LeagueType `json:"league"`
}

// Recorder turns raw olympiad scores into results, rating points and
// medals. All state changes of one Record call happen in a single
// transaction; the notification handoff happens after commit and is
// fire-and-forget.
type Recorder struct {
	db       *gorm.DB
	rules    RuleSet
	notifier Notifier
	broker   *pubsub.Broker
}

func NewRecorder(db *gorm.DB, rules RuleSet, notifier Notifier, broker *pubsub.Broker) *Recorder {
	return &Recorder{
		db:       db,
		rules:    rules,
		notifier: notifier,
		broker:   broker,
	}
}

// Record derives the status for a score, upserts the Result and applies
// the rating/medal side effects. Re-recording the same score is a no-op
// for points and medals; a changed score applies only the difference.
func (r *Recorder) Record(userID string, olympiadID uint, score int) (*Outcome, error) {
	user, err := database.GetUserByID(r.db, userID)
	if err != nil {
		return nil, fmt.Errorf("user %s: %w", userID, err)
	}
	olympiad, err := database.GetOlympiadByID(r.db, olympiadID)
	if err != nil {
		return nil, fmt.Errorf("olympiad %d: %w", olympiadID, err)
	}

	rule, ok := r.rules[olympiad.Stage]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrStageNotConfigured, olympiad.Stage)
	}

	status := rule.StatusFor(score)
	points, medalType, hasMedal := rule.RewardFor(status)

	var (
		outcome   Outcome
		notifyNow bool
	)
	err = r.db.Transaction(func(tx *gorm.DB) error {
		var result models.Result
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("user_id = ? AND olympiad_id = ?", userID, olympiadID).
			First(&result).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			result = models.Result{
				ID:         uuid.NewString(),
				UserID:     userID,
				OlympiadID: olympiadID,
			}
		} else if err != nil {
			return err
		}

		delta := points - result.AwardedPoints

		// The school follows the student, so a transfer does not leave
		// re-recorded results attributed to the old school.
		if user.SchoolID != nil {
			result.SchoolID = *user.SchoolID
		}
		result.Score = score
		result.Status = status
		result.AwardedPoints = points
		if !result.Notified {
			result.Notified = true
			notifyNow = true
		}
		if err := tx.Save(&result).Error; err != nil {
			return err
		}

		rating, err := addPoints(tx, userID, delta)
		if err != nil {
			return err
		}

		if hasMedal {
			medal := models.Medal{
				ID:         uuid.NewString(),
				Type:       medalType,
				UserID:     userID,
				OlympiadID: olympiadID,
			}
			err = tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "user_id"}, {Name: "olympiad_id"}},
				DoUpdates: clause.AssignmentColumns([]string{"type", "updated_at"}),
			}).Create(&medal).Error
			if err != nil {
				return err
			}
		} else {
			// A score downgraded below the prize threshold takes the
			// stage medal back with it.
			err = tx.Where("user_id = ? AND olympiad_id = ?", userID, olympiadID).
				Delete(&models.Medal{}).Error
			if err != nil {
				return err
			}
		}

		outcome = Outcome{
			Result:        &result,
			Status:        status,
			PointsAwarded: points,
			PointsDelta:   delta,
			MedalAwarded:  hasMedal,
			Medal:         medalType,
			Rating:        rating,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if r.broker != nil {
		r.broker.PublishJSON(TopicScoreboard, ScoreboardEvent{
			UserID: userID,
			Points: outcome.Rating.Points,
			League: outcome.Rating.League,
		})
	}

	if notifyNow && r.notifier != nil && user.TelegramChatID != "" {
		r.notifier.Enqueue(user.TelegramChatID, resultMessage(user, olympiad, &outcome))
	}

	zap.S().Infof("recorded result for user %s on olympiad %d: score=%d status=%s delta=%+d",
		userID, olympiadID, score, status, outcome.PointsDelta)
	return &outcome, nil
}

// AddPoints adjusts a user's rating outside of result recording, e.g.
// for manual corrections. The league is re-derived in the same
// transaction.
func (r *Recorder) AddPoints(userID string, delta int) (*models.Rating, error) {
	var rating *models.Rating
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var err error
		rating, err = addPoints(tx, userID, delta)
		return err
	})
	if err != nil {
		return nil, err
	}

	if r.broker != nil {
		r.broker.PublishJSON(TopicScoreboard, ScoreboardEvent{
			UserID: userID,
			Points: rating.Points,
			League: rating.League,
		})
	}
	return rating, nil
}

// addPoints is the read-modify-write on the rating row. The UPDATE lock
// serializes concurrent calls for the same user so no increment is lost;
// different users proceed independently.
func addPoints(tx *gorm.DB, userID string, delta int) (*models.Rating, error) {
	var rating models.Rating
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ?", userID).
		First(&rating).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		rating = models.Rating{UserID: userID}
	} else if err != nil {
		return nil, err
	}

	rating.Points += delta
	if rating.Points < 0 {
		rating.Points = 0
	}

	leagues, err := database.GetAllLeagues(tx)
	if err != nil {
		return nil, err
	}
	if league, ok := MatchLeague(leagues, rating.Points); ok {
		rating.League = league
	} else {
		rating.League = ""
	}

	if err := tx.Save(&rating).Error; err != nil {
		return nil, err
	}
	return &rating, nil
}

func resultMessage(user *models.User, olympiad *models.Olympiad, outcome *Outcome) string {
	return fmt.Sprintf(
		"👋 Здравствуйте, %s!\n\n"+
			"🎓 Ваш результат по олимпиаде «%s»\n"+
			"✨ Этап: %s\n"+
			"📝 Статус: %s\n"+
			"🏆 Набранные очки: %d\n\n"+
			"Спасибо за участие и желаем успехов в следующих соревнованиях! 😊",
		user.FullName(), olympiad.Name, olympiad.Stage.DisplayName(),
		outcome.Status.DisplayName(), outcome.PointsAwarded,
	)
}
