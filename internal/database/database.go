package database

import (
	"os"
	"path/filepath"

	"github.com/cpkimr/olympreg/internal/database/models"
	"go.uber.org/zap"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func Init(dsn string) (*gorm.DB, error) {
	if _, err := os.Stat(dsn); os.IsNotExist(err) {
		zap.S().Infof("database file not found at '%s', creating directory for it.", dsn)
		dbDir := filepath.Dir(dsn)
		if err := os.MkdirAll(dbDir, 0755); err != nil {
			return nil, err
		}
	}

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}

	return db, nil
}

// Migrate applies the schema and seeds the league table when empty.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.User{},
		&models.School{},
		&models.Classroom{},
		&models.Subject{},
		&models.Position{},
		&models.Olympiad{},
		&models.Registration{},
		&models.Recommendation{},
		&models.Result{},
		&models.Rating{},
		&models.League{},
		&models.Medal{},
		&models.PersonalMedal{},
		&models.AuditLog{},
	)
	if err != nil {
		return err
	}

	return seedLeagues(db)
}

// seedLeagues installs the default league bands on a fresh database.
// Administrators edit the table afterwards; a non-empty table is never
// touched.
func seedLeagues(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.League{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	intp := func(v int) *int { return &v }
	defaults := []models.League{
		{Type: models.LeagueBronze, MinPoints: 0, MaxPoints: intp(150)},
		{Type: models.LeagueSilver, MinPoints: 151, MaxPoints: intp(500)},
		{Type: models.LeagueGold, MinPoints: 501, MaxPoints: intp(1000)},
		{Type: models.LeaguePlatinum, MinPoints: 1001, MaxPoints: intp(2000)},
		{Type: models.LeagueRuby, MinPoints: 2001, MaxPoints: intp(3500)},
		{Type: models.LeagueDiamond, MinPoints: 3501, MaxPoints: nil},
	}

	if err := db.Create(&defaults).Error; err != nil {
		return err
	}
	zap.S().Infof("seeded %d default leagues", len(defaults))
	return nil
}
