package user

import (
	"github.com/cpkimr/olympreg/internal/api"
	"github.com/cpkimr/olympreg/internal/config"
	"github.com/cpkimr/olympreg/internal/scoring"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// NewUserRouter creates and configures the user-facing Gin engine.
func NewUserRouter(cfg *config.Config, db *gorm.DB, recorder *scoring.Recorder) *gin.Engine {
	r := gin.Default()

	r.Use(api.CORSMiddleware(cfg.CORS))

	h := NewHandler(cfg, db, recorder)

	v1 := r.Group("/api/v1")
	{
		// Auth
		if cfg.Auth.Local.Enabled {
			authGroup := v1.Group("/auth/local")
			{
				authGroup.POST("/register", h.localRegister)
				authGroup.POST("/login", h.localLogin)
			}
		}

		// Publicly accessible info
		v1.GET("/olympiads", h.getAllOlympiads)
		v1.GET("/olympiads/:id", h.getOlympiad)
		v1.GET("/leagues", h.getLeagues)
		v1.GET("/leagues/by-points/:points", h.getLeagueByPoints)
		v1.GET("/leaderboard", h.getLeaderboard)

		// Live scoreboard feed
		v1.GET("/ws/scoreboard", h.handleScoreboardWs)

		// Authenticated routes
		authed := v1.Group("/")
		authed.Use(api.AuthMiddleware(cfg.Auth.JWT.Secret))
		{
			profile := authed.Group("/user")
			{
				profile.GET("/profile", h.getProfile)
				profile.PATCH("/profile", h.updateProfile)
				profile.POST("/telegram-link", h.generateTelegramLink)
				profile.GET("/results", h.getMyResults)
				profile.GET("/rating", h.getMyRating)
				profile.GET("/medals", h.getMyMedals)
				profile.GET("/registrations", h.getMyRegistrations)
				profile.GET("/recommendations", h.getMyRecommendations)
			}

			authed.POST("/olympiads/:id/register", h.registerForOlympiad)
			authed.POST("/recommendations/:id/respond", h.respondToRecommendation)
		}
	}

	return r
}
