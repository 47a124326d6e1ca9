package scoring

import (
	"fmt"
	"sync"
	"testing"

	"github.com/cpkimr/olympreg/internal/database"
	"github.com/cpkimr/olympreg/internal/database/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

type fakeNotifier struct {
	messages []string
}

func (f *fakeNotifier) Enqueue(chatID, text string) {
	f.messages = append(f.messages, text)
}

type fixture struct {
	db       *gorm.DB
	recorder *Recorder
	notifier *fakeNotifier
	user     *models.User
	olympiad map[models.Stage]*models.Olympiad
}

func setupFixture(t *testing.T) *fixture {
	t.Helper()
	db := testDB(t)

	school := models.School{Name: "Test School " + t.Name(), Status: models.SchoolApproved}
	require.NoError(t, db.Create(&school).Error)

	user := models.User{
		ID:             uuid.NewString(),
		Username:       "student",
		FirstName:      "Иван",
		LastName:       "Петров",
		IsChild:        true,
		SchoolID:       &school.ID,
		TelegramChatID: "42",
	}
	require.NoError(t, db.Create(&user).Error)

	olympiads := make(map[models.Stage]*models.Olympiad)
	for _, stage := range []models.Stage{
		models.StageSchool, models.StageCity, models.StageRegional, models.StageFinal,
	} {
		o := &models.Olympiad{Name: "Math " + string(stage), Stage: stage}
		require.NoError(t, db.Create(o).Error)
		olympiads[stage] = o
	}

	notifier := &fakeNotifier{}
	return &fixture{
		db:       db,
		recorder: NewRecorder(db, DefaultRules(), notifier, nil),
		notifier: notifier,
		user:     &user,
		olympiad: olympiads,
	}
}

func (f *fixture) ratingPoints(t *testing.T) int {
	t.Helper()
	rating, err := database.GetRatingByUserID(f.db, f.user.ID)
	if err != nil {
		return 0
	}
	return rating.Points
}

func TestRecordPrize(t *testing.T) {
	f := setupFixture(t)

	outcome, err := f.recorder.Record(f.user.ID, f.olympiad[models.StageSchool].ID, 75)
	require.NoError(t, err)

	assert.Equal(t, models.StatusPrize, outcome.Status)
	assert.Equal(t, 50, outcome.PointsAwarded)
	assert.Equal(t, 50, outcome.PointsDelta)
	assert.True(t, outcome.MedalAwarded)
	assert.Equal(t, models.MedalBronze, outcome.Medal)
	assert.Equal(t, 50, outcome.Rating.Points)
	assert.Equal(t, models.LeagueBronze, outcome.Rating.League)

	medals, err := database.GetMedalsByUserID(f.db, f.user.ID)
	require.NoError(t, err)
	require.Len(t, medals, 1)
	assert.Equal(t, models.MedalBronze, medals[0].Type)
}

func TestRecordParticipant(t *testing.T) {
	f := setupFixture(t)

	outcome, err := f.recorder.Record(f.user.ID, f.olympiad[models.StageSchool].ID, 30)
	require.NoError(t, err)

	assert.Equal(t, models.StatusParticipant, outcome.Status)
	assert.Zero(t, outcome.PointsAwarded)
	assert.False(t, outcome.MedalAwarded)
	assert.Zero(t, f.ratingPoints(t))

	medals, err := database.GetMedalsByUserID(f.db, f.user.ID)
	require.NoError(t, err)
	assert.Empty(t, medals)
}

func TestRecordUnconfiguredStage(t *testing.T) {
	f := setupFixture(t)
	f.recorder.rules = RuleSet{models.StageSchool: DefaultRules()[models.StageSchool]}

	_, err := f.recorder.Record(f.user.ID, f.olympiad[models.StageCity].ID, 95)
	require.ErrorIs(t, err, ErrStageNotConfigured)

	// The failed call must not leave any state behind.
	results, err := database.GetResultsByUserID(f.db, f.user.ID)
	require.NoError(t, err)
	assert.Empty(t, results)
	assert.Zero(t, f.ratingPoints(t))
}

func TestRecordUnknownUser(t *testing.T) {
	f := setupFixture(t)

	_, err := f.recorder.Record(uuid.NewString(), f.olympiad[models.StageSchool].ID, 75)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRecordSameScoreIsNoOp(t *testing.T) {
	f := setupFixture(t)
	olympiadID := f.olympiad[models.StageSchool].ID

	_, err := f.recorder.Record(f.user.ID, olympiadID, 75)
	require.NoError(t, err)

	outcome, err := f.recorder.Record(f.user.ID, olympiadID, 75)
	require.NoError(t, err)

	assert.Zero(t, outcome.PointsDelta)
	assert.Equal(t, 50, f.ratingPoints(t))

	var count int64
	require.NoError(t, f.db.Model(&models.Result{}).Where("user_id = ?", f.user.ID).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestRecordUpgradeAppliesDifference(t *testing.T) {
	f := setupFixture(t)
	olympiadID := f.olympiad[models.StageSchool].ID

	_, err := f.recorder.Record(f.user.ID, olympiadID, 75)
	require.NoError(t, err)

	outcome, err := f.recorder.Record(f.user.ID, olympiadID, 100)
	require.NoError(t, err)

	assert.Equal(t, models.StatusWinner, outcome.Status)
	assert.Equal(t, 100, outcome.PointsAwarded)
	assert.Equal(t, 50, outcome.PointsDelta)
	assert.Equal(t, 100, f.ratingPoints(t))

	// The stage medal upgrades in place, never duplicates.
	medals, err := database.GetMedalsByUserID(f.db, f.user.ID)
	require.NoError(t, err)
	require.Len(t, medals, 1)
	assert.Equal(t, models.MedalSilver, medals[0].Type)
}

func TestRecordDowngradeRevokes(t *testing.T) {
	f := setupFixture(t)
	olympiadID := f.olympiad[models.StageSchool].ID

	_, err := f.recorder.Record(f.user.ID, olympiadID, 100)
	require.NoError(t, err)
	require.Equal(t, 100, f.ratingPoints(t))

	outcome, err := f.recorder.Record(f.user.ID, olympiadID, 30)
	require.NoError(t, err)

	assert.Equal(t, models.StatusParticipant, outcome.Status)
	assert.Equal(t, -100, outcome.PointsDelta)
	assert.Zero(t, f.ratingPoints(t))

	medals, err := database.GetMedalsByUserID(f.db, f.user.ID)
	require.NoError(t, err)
	assert.Empty(t, medals)
}

func TestRecordAccumulatesAcrossOlympiads(t *testing.T) {
	f := setupFixture(t)

	_, err := f.recorder.Record(f.user.ID, f.olympiad[models.StageSchool].ID, 100)
	require.NoError(t, err)
	_, err = f.recorder.Record(f.user.ID, f.olympiad[models.StageCity].ID, 95)
	require.NoError(t, err)

	// 100 (school winner) + 450 (city winner) lands in gold.
	rating, err := database.GetRatingByUserID(f.db, f.user.ID)
	require.NoError(t, err)
	assert.Equal(t, 550, rating.Points)
	assert.Equal(t, models.LeagueGold, rating.League)

	medals, err := database.GetMedalsByUserID(f.db, f.user.ID)
	require.NoError(t, err)
	assert.Len(t, medals, 2)
}

func TestRecordConcurrentNoLostUpdate(t *testing.T) {
	f := setupFixture(t)

	second := models.Olympiad{Name: "Math school II", Stage: models.StageSchool}
	require.NoError(t, f.db.Create(&second).Error)

	// Prize (+50) and winner (+100) recorded concurrently on different
	// olympiads for the same user; the rating row lock serializes the
	// two updates and neither increment may be lost.
	var wg sync.WaitGroup
	errs := make([]error, 2)
	wg.Add(2)
	go func() {
		defer wg.Done()
		_, errs[0] = f.recorder.Record(f.user.ID, f.olympiad[models.StageSchool].ID, 75)
	}()
	go func() {
		defer wg.Done()
		_, errs[1] = f.recorder.Record(f.user.ID, second.ID, 100)
	}()
	wg.Wait()

	require.NoError(t, errs[0])
	require.NoError(t, errs[1])
	assert.Equal(t, 150, f.ratingPoints(t))
}

func TestRecordFollowsSchoolTransfer(t *testing.T) {
	f := setupFixture(t)
	olympiadID := f.olympiad[models.StageSchool].ID

	_, err := f.recorder.Record(f.user.ID, olympiadID, 75)
	require.NoError(t, err)

	newSchool := models.School{Name: "New School " + t.Name(), Status: models.SchoolApproved}
	require.NoError(t, f.db.Create(&newSchool).Error)
	require.NoError(t, f.db.Model(f.user).Update("school_id", newSchool.ID).Error)

	outcome, err := f.recorder.Record(f.user.ID, olympiadID, 100)
	require.NoError(t, err)
	assert.Equal(t, newSchool.ID, outcome.Result.SchoolID)
}

func TestRecordNotifiesOnce(t *testing.T) {
	f := setupFixture(t)
	olympiadID := f.olympiad[models.StageSchool].ID

	_, err := f.recorder.Record(f.user.ID, olympiadID, 75)
	require.NoError(t, err)
	_, err = f.recorder.Record(f.user.ID, olympiadID, 100)
	require.NoError(t, err)

	require.Len(t, f.notifier.messages, 1)
	assert.Contains(t, f.notifier.messages[0], "Петров Иван")
	assert.Contains(t, f.notifier.messages[0], "Призер")
}

func TestRecordNoChatNoNotification(t *testing.T) {
	f := setupFixture(t)
	require.NoError(t, f.db.Model(f.user).Update("telegram_chat_id", "").Error)

	_, err := f.recorder.Record(f.user.ID, f.olympiad[models.StageSchool].ID, 75)
	require.NoError(t, err)
	assert.Empty(t, f.notifier.messages)
}

func TestAddPoints(t *testing.T) {
	f := setupFixture(t)

	rating, err := f.recorder.AddPoints(f.user.ID, 200)
	require.NoError(t, err)
	assert.Equal(t, 200, rating.Points)
	assert.Equal(t, models.LeagueSilver, rating.League)

	t.Run("zero delta keeps totals", func(t *testing.T) {
		rating, err := f.recorder.AddPoints(f.user.ID, 0)
		require.NoError(t, err)
		assert.Equal(t, 200, rating.Points)
	})

	t.Run("negative total clamps at zero", func(t *testing.T) {
		rating, err := f.recorder.AddPoints(f.user.ID, -500)
		require.NoError(t, err)
		assert.Zero(t, rating.Points)
		assert.Equal(t, models.LeagueBronze, rating.League)
	})
}

func TestLeagueNeverStaleAfterBandChange(t *testing.T) {
	f := setupFixture(t)

	_, err := f.recorder.AddPoints(f.user.ID, 120)
	require.NoError(t, err)

	// Tighten the bronze band so 120 now falls into silver, then touch
	// the rating: the league must follow the current table.
	require.NoError(t, f.db.Model(&models.League{}).
		Where("type = ?", models.LeagueBronze).Update("max_points", 100).Error)
	require.NoError(t, f.db.Model(&models.League{}).
		Where("type = ?", models.LeagueSilver).Update("min_points", 101).Error)

	rating, err := f.recorder.AddPoints(f.user.ID, 0)
	require.NoError(t, err)
	assert.Equal(t, models.LeagueSilver, rating.League)
}
