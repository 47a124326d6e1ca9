package admin

import (
	"github.com/cpkimr/olympreg/internal/config"
	"github.com/cpkimr/olympreg/internal/database"
	"github.com/cpkimr/olympreg/internal/database/models"
	"github.com/cpkimr/olympreg/internal/importer"
	"github.com/cpkimr/olympreg/internal/scoring"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Handler holds all dependencies for the admin API handlers.
type Handler struct {
	cfg      *config.Config
	db       *gorm.DB
	recorder *scoring.Recorder
	importer *importer.Importer
}

// NewHandler creates a new admin handler with its dependencies.
func NewHandler(cfg *config.Config, db *gorm.DB, recorder *scoring.Recorder, imp *importer.Importer) *Handler {
	return &Handler{
		cfg:      cfg,
		db:       db,
		recorder: recorder,
		importer: imp,
	}
}

// currentUser returns the admin user loaded by the role middleware.
func currentUser(c *gin.Context) *models.User {
	u, _ := c.Get("currentUser")
	user, _ := u.(*models.User)
	return user
}

// schoolScope returns the school the caller may operate on: site
// managers see everything (nil), school admins only their own school.
func schoolScope(c *gin.Context) *uint {
	user := currentUser(c)
	if user == nil || user.IsManager {
		return nil
	}
	return user.SchoolID
}

// audit appends an audit-log row for an admin mutation. Failures are
// logged by the database layer but never fail the mutation itself.
func (h *Handler) audit(c *gin.Context, action, object string) {
	user := currentUser(c)
	if user == nil {
		return
	}
	_ = recordAudit(h.db, user, action, object)
}

func recordAudit(db *gorm.DB, user *models.User, action, object string) error {
	return database.RecordAudit(db, user.ID, action, object, user.SchoolID)
}
