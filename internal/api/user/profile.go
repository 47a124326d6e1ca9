package user

import (
	"crypto/rand"
	"encoding/hex"
	"net/http"
	"time"

	"github.com/cpkimr/olympreg/internal/database"
	"github.com/cpkimr/olympreg/internal/util"
	"github.com/gin-gonic/gin"
)

func (h *Handler) getProfile(c *gin.Context) {
	user, err := database.GetUserByID(h.db, c.GetString("userID"))
	if err != nil {
		util.Error(c, http.StatusNotFound, err)
		return
	}
	util.Success(c, user, "ok")
}

func (h *Handler) updateProfile(c *gin.Context) {
	user, err := database.GetUserByID(h.db, c.GetString("userID"))
	if err != nil {
		util.Error(c, http.StatusNotFound, err)
		return
	}

	var reqBody struct {
		FirstName  *string `json:"first_name"`
		LastName   *string `json:"last_name"`
		Patronymic *string `json:"patronymic"`
		Gender     *string `json:"gender"`
		AvatarURL  *string `json:"avatar_url"`
	}
	if err := c.ShouldBindJSON(&reqBody); err != nil {
		util.Error(c, http.StatusBadRequest, err)
		return
	}

	if reqBody.FirstName != nil {
		user.FirstName = *reqBody.FirstName
	}
	if reqBody.LastName != nil {
		user.LastName = *reqBody.LastName
	}
	if reqBody.Patronymic != nil {
		user.Patronymic = *reqBody.Patronymic
	}
	if reqBody.Gender != nil {
		user.Gender = *reqBody.Gender
	}
	if reqBody.AvatarURL != nil {
		user.AvatarURL = *reqBody.AvatarURL
	}

	if err := database.UpdateUser(h.db, user); err != nil {
		util.Error(c, http.StatusInternalServerError, err)
		return
	}
	util.Success(c, user, "Profile updated")
}

// generateTelegramLink issues a one-time code the user sends to the bot
// to bind their chat id for result notifications.
func (h *Handler) generateTelegramLink(c *gin.Context) {
	user, err := database.GetUserByID(h.db, c.GetString("userID"))
	if err != nil {
		util.Error(c, http.StatusNotFound, err)
		return
	}

	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		util.Error(c, http.StatusInternalServerError, "failed to generate link code")
		return
	}

	now := time.Now()
	user.TelegramLinkCode = hex.EncodeToString(buf)
	user.TelegramLinkCreatedAt = &now
	if err := database.UpdateUser(h.db, user); err != nil {
		util.Error(c, http.StatusInternalServerError, err)
		return
	}

	util.Success(c, gin.H{"link_code": user.TelegramLinkCode}, "Telegram link code generated")
}

func (h *Handler) getMyResults(c *gin.Context) {
	results, err := database.GetResultsByUserID(h.db, c.GetString("userID"))
	if err != nil {
		util.Error(c, http.StatusInternalServerError, err)
		return
	}
	util.Success(c, results, "Results retrieved successfully")
}

func (h *Handler) getMyRating(c *gin.Context) {
	rating, err := database.GetRatingByUserID(h.db, c.GetString("userID"))
	if err != nil {
		// No rating yet simply means no scored results.
		util.Success(c, gin.H{"points": 0, "league": ""}, "No rating yet")
		return
	}
	util.Success(c, rating, "Rating retrieved successfully")
}

func (h *Handler) getMyMedals(c *gin.Context) {
	userID := c.GetString("userID")
	medals, err := database.GetMedalsByUserID(h.db, userID)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, err)
		return
	}
	personal, err := database.GetPersonalMedalsByUserID(h.db, userID)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, err)
		return
	}
	util.Success(c, gin.H{"medals": medals, "personal_medals": personal}, "Medals retrieved successfully")
}
