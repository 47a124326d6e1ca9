package admin

import (
	"github.com/cpkimr/olympreg/internal/api"
	"github.com/cpkimr/olympreg/internal/config"
	"github.com/cpkimr/olympreg/internal/importer"
	"github.com/cpkimr/olympreg/internal/scoring"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// NewAdminRouter creates and configures the admin Gin engine.
func NewAdminRouter(cfg *config.Config, db *gorm.DB, recorder *scoring.Recorder, imp *importer.Importer) *gin.Engine {
	r := gin.Default()

	r.Use(api.CORSMiddleware(cfg.CORS))

	h := NewHandler(cfg, db, recorder, imp)

	v1 := r.Group("/api/v1")
	v1.Use(api.AuthMiddleware(cfg.Auth.JWT.Secret), api.RequireAdmin(db))
	{
		// User management
		users := v1.Group("/users")
		{
			users.GET("", h.getAllUsers)
			users.POST("", h.createUser)
			users.GET("/:id", h.getUser)
			users.PATCH("/:id", h.updateUser)
			users.DELETE("/:id", h.deleteUser)
			users.POST("/:id/reset-password", h.resetUserPassword)
			users.GET("/:id/results", h.getUserResults)
			users.GET("/:id/rating", h.getUserRating)
			users.GET("/:id/medals", h.getUserMedals)
			users.POST("/:id/rating-adjustment", h.adjustUserRating)
		}

		// School management
		schools := v1.Group("/schools")
		{
			schools.GET("", h.getAllSchools)
			schools.POST("", h.createSchool)
			schools.GET("/:id", h.getSchool)
			schools.PATCH("/:id", h.updateSchool)
			schools.DELETE("/:id", h.deleteSchool)
		}

		// Classroom management
		classrooms := v1.Group("/classrooms")
		{
			classrooms.GET("", h.getClassrooms)
			classrooms.POST("", h.createClassroom)
			classrooms.PATCH("/:id", h.updateClassroom)
			classrooms.DELETE("/:id", h.deleteClassroom)
			classrooms.POST("/:id/promote", h.promoteClassroom)
		}

		// Subject management
		subjects := v1.Group("/subjects")
		{
			subjects.GET("", h.getSubjects)
			subjects.POST("", h.createSubject)
			subjects.DELETE("/:id", h.deleteSubject)
		}

		// Staff position reference table
		positions := v1.Group("/positions")
		{
			positions.GET("", h.getPositions)
			positions.POST("", h.createPosition)
			positions.DELETE("/:id", h.deletePosition)
		}

		// Olympiad management
		olympiads := v1.Group("/olympiads")
		{
			olympiads.GET("", h.getAllOlympiads)
			olympiads.POST("", h.createOlympiad)
			olympiads.GET("/:id", h.getOlympiad)
			olympiads.PUT("/:id", h.updateOlympiad)
			olympiads.DELETE("/:id", h.deleteOlympiad)
		}

		// League table
		leagues := v1.Group("/leagues")
		{
			leagues.GET("", h.getLeagues)
			leagues.POST("", h.createLeague)
			leagues.PUT("/:id", h.updateLeague)
			leagues.DELETE("/:id", h.deleteLeague)
		}

		// Results
		results := v1.Group("/results")
		{
			results.GET("", h.getResults)
			results.POST("", h.recordResult)
			results.GET("/:id", h.getResult)
			results.PATCH("/:id/advanced", h.setResultAdvanced)
			results.POST("/import", h.importResults)
			results.GET("/export", h.exportResults)
		}

		// Registrations
		registrations := v1.Group("/registrations")
		{
			registrations.GET("", h.getRegistrations)
			registrations.POST("/:id/approve", h.approveRegistration)
			registrations.POST("/:id/send", h.sendRegistration)
			registrations.DELETE("/:id", h.deleteRegistration)
		}

		// Recommendations
		v1.POST("/recommendations", h.createRecommendation)

		// Personal medals
		medals := v1.Group("/personal-medals")
		{
			medals.GET("/user/:id", h.getPersonalMedalsForUser)
			medals.POST("", h.awardPersonalMedal)
		}

		// Leaderboard & audit
		v1.GET("/leaderboard", h.getLeaderboard)
		v1.GET("/audit", h.getAuditLog)
	}

	// Live scoreboard feed; authenticated via token query parameter.
	r.GET("/api/v1/ws/scoreboard", h.handleScoreboardWs)

	return r
}
