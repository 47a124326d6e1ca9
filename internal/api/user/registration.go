package user

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/cpkimr/olympreg/internal/database"
	"github.com/cpkimr/olympreg/internal/database/models"
	"github.com/cpkimr/olympreg/internal/util"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func (h *Handler) getMyRegistrations(c *gin.Context) {
	regs, err := database.GetRegistrationsByChild(h.db, c.GetString("userID"))
	if err != nil {
		util.Error(c, http.StatusInternalServerError, err)
		return
	}
	util.Success(c, regs, "Registrations retrieved successfully")
}

// registerForOlympiad files a registration request for the calling
// student. It still needs teacher and admin approval before it is sent.
func (h *Handler) registerForOlympiad(c *gin.Context) {
	olympiadID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		util.Error(c, http.StatusBadRequest, "invalid olympiad id")
		return
	}

	user, err := database.GetUserByID(h.db, c.GetString("userID"))
	if err != nil {
		util.Error(c, http.StatusNotFound, "user not found")
		return
	}
	if !user.IsChild {
		util.Error(c, http.StatusForbidden, "only students can register for olympiads")
		return
	}
	if user.SchoolID == nil {
		util.Error(c, http.StatusBadRequest, "user is not attached to a school")
		return
	}

	if _, err := database.GetOlympiadByID(h.db, uint(olympiadID)); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			util.Error(c, http.StatusNotFound, "olympiad not found")
		} else {
			util.Error(c, http.StatusInternalServerError, err)
		}
		return
	}

	existing, err := database.GetRegistrationsByChild(h.db, user.ID)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, err)
		return
	}
	for _, reg := range existing {
		if reg.OlympiadID == uint(olympiadID) {
			util.Error(c, http.StatusConflict, "already registered for this olympiad")
			return
		}
	}

	reg := models.Registration{
		SchoolID:   *user.SchoolID,
		ChildID:    user.ID,
		OlympiadID: uint(olympiadID),
	}
	if err := database.CreateRegistration(h.db, &reg); err != nil {
		util.Error(c, http.StatusInternalServerError, err)
		return
	}

	zap.S().Infof("user %s requested registration for olympiad %d", user.ID, olympiadID)
	util.Success(c, reg, "Registration request created")
}

func (h *Handler) getMyRecommendations(c *gin.Context) {
	recs, err := database.GetRecommendationsForUser(h.db, c.GetString("userID"))
	if err != nil {
		util.Error(c, http.StatusInternalServerError, err)
		return
	}
	util.Success(c, recs, "Recommendations retrieved successfully")
}

func (h *Handler) respondToRecommendation(c *gin.Context) {
	recID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		util.Error(c, http.StatusBadRequest, "invalid recommendation id")
		return
	}

	var req struct {
		Accept bool `json:"accept"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, err)
		return
	}

	status := models.RecommendationDeclined
	if req.Accept {
		status = models.RecommendationAccepted
	}
	if err := database.UpdateRecommendationStatus(h.db, uint(recID), status); err != nil {
		util.Error(c, http.StatusInternalServerError, err)
		return
	}
	util.Success(c, gin.H{"status": status}, "Recommendation updated")
}
