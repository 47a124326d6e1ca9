package database

import (
	"github.com/cpkimr/olympreg/internal/database/models"
	"gorm.io/gorm"
)

// League table

func GetAllLeagues(db *gorm.DB) ([]models.League, error) {
	var leagues []models.League
	if err := db.Order("min_points").Find(&leagues).Error; err != nil {
		return nil, err
	}
	return leagues, nil
}

func CreateLeague(db *gorm.DB, league *models.League) error {
	return db.Create(league).Error
}

func UpdateLeague(db *gorm.DB, league *models.League) error {
	return db.Save(league).Error
}

func DeleteLeague(db *gorm.DB, id uint) error {
	return db.Delete(&models.League{}, id).Error
}

func GetLeagueByType(db *gorm.DB, leagueType models.LeagueType) (*models.League, error) {
	var league models.League
	if err := db.Where("type = ?", leagueType).First(&league).Error; err != nil {
		return nil, err
	}
	return &league, nil
}

// Ratings

func GetRatingByUserID(db *gorm.DB, userID string) (*models.Rating, error) {
	var rating models.Rating
	if err := db.Preload("User").Where("user_id = ?", userID).First(&rating).Error; err != nil {
		return nil, err
	}
	return &rating, nil
}

// Results

func GetResultByID(db *gorm.DB, id string) (*models.Result, error) {
	var result models.Result
	if err := db.Preload("User").Preload("Olympiad").Where("id = ?", id).First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func GetResultsByUserID(db *gorm.DB, userID string) ([]models.Result, error) {
	var results []models.Result
	err := db.Preload("Olympiad").
		Where("user_id = ?", userID).
		Order("created_at desc").
		Find(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}

func GetAllResults(db *gorm.DB) ([]models.Result, error) {
	var results []models.Result
	err := db.Preload("User").Preload("User.Classroom").Preload("Olympiad").
		Order("created_at desc").
		Find(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}

func GetResultsBySchool(db *gorm.DB, schoolID uint) ([]models.Result, error) {
	var results []models.Result
	err := db.Preload("User").Preload("User.Classroom").Preload("Olympiad").
		Where("school_id = ?", schoolID).
		Order("created_at desc").
		Find(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}

func GetResultsByClassroom(db *gorm.DB, schoolID, classroomID uint) ([]models.Result, error) {
	var results []models.Result
	err := db.Preload("User").Preload("User.Classroom").Preload("Olympiad").
		Joins("join users on users.id = results.user_id").
		Where("results.school_id = ? AND users.classroom_id = ?", schoolID, classroomID).
		Order("results.created_at desc").
		Find(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}

// Medals

func GetMedalsByUserID(db *gorm.DB, userID string) ([]models.Medal, error) {
	var medals []models.Medal
	if err := db.Preload("Olympiad").Where("user_id = ?", userID).Order("created_at desc").Find(&medals).Error; err != nil {
		return nil, err
	}
	return medals, nil
}

func CreatePersonalMedal(db *gorm.DB, medal *models.PersonalMedal) error {
	return db.Create(medal).Error
}

func GetPersonalMedalsByUserID(db *gorm.DB, userID string) ([]models.PersonalMedal, error) {
	var medals []models.PersonalMedal
	if err := db.Where("user_id = ?", userID).Order("created_at desc").Find(&medals).Error; err != nil {
		return nil, err
	}
	return medals, nil
}

// Leaderboard

type LeaderboardEntry struct {
	UserID     string            `json:"user_id"`
	FullName   string            `json:"full_name"`
	AvatarURL  string            `json:"avatar_url"`
	Points     int               `json:"points"`
	League     models.LeagueType `json:"league"`
	MedalCount int               `json:"medal_count"`
}

// GetLeaderboard returns ratings ordered by points descending, ties
// broken by earliest last update (the user who reached the total first
// ranks higher).
func GetLeaderboard(db *gorm.DB, schoolID *uint, limit int) ([]LeaderboardEntry, error) {
	type ratingRow struct {
		UserID     string
		LastName   string
		FirstName  string
		Patronymic string
		AvatarURL  string
		Points     int
		League     models.LeagueType
		MedalCount int
	}

	query := db.Table("ratings").
		Select(`users.id as user_id, users.last_name, users.first_name, users.patronymic,
			users.avatar_url, ratings.points, ratings.league,
			(SELECT COUNT(*) FROM medals WHERE medals.user_id = users.id) as medal_count`).
		Joins("join users on users.id = ratings.user_id").
		Where("users.deleted_at IS NULL")
	if schoolID != nil {
		query = query.Where("users.school_id = ?", *schoolID)
	}

	var rows []ratingRow
	if err := query.Order("ratings.points desc, ratings.updated_at asc").Scan(&rows).Error; err != nil {
		return nil, err
	}

	entries := make([]LeaderboardEntry, 0, len(rows))
	for _, row := range rows {
		user := models.User{LastName: row.LastName, FirstName: row.FirstName, Patronymic: row.Patronymic}
		entries = append(entries, LeaderboardEntry{
			UserID:     row.UserID,
			FullName:   user.FullName(),
			AvatarURL:  row.AvatarURL,
			Points:     row.Points,
			League:     row.League,
			MedalCount: row.MedalCount,
		})
	}

	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}
