package user

import (
	"github.com/cpkimr/olympreg/internal/config"
	"github.com/cpkimr/olympreg/internal/scoring"
	"gorm.io/gorm"
)

// Handler holds all dependencies for the user API handlers.
type Handler struct {
	cfg      *config.Config
	db       *gorm.DB
	recorder *scoring.Recorder
}

// NewHandler creates a new user handler with its dependencies.
func NewHandler(cfg *config.Config, db *gorm.DB, recorder *scoring.Recorder) *Handler {
	return &Handler{
		cfg:      cfg,
		db:       db,
		recorder: recorder,
	}
}
