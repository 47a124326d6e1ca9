package admin

import (
	"net/http"

	"github.com/cpkimr/olympreg/internal/database"
	"github.com/cpkimr/olympreg/internal/database/models"
	"github.com/cpkimr/olympreg/internal/util"
	"github.com/gin-gonic/gin"
)

func (h *Handler) getPersonalMedalsForUser(c *gin.Context) {
	userID := c.Param("id")
	if _, err := database.GetUserByID(h.db, userID); err != nil {
		util.Error(c, http.StatusNotFound, "user not found")
		return
	}
	medals, err := database.GetPersonalMedalsByUserID(h.db, userID)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, err)
		return
	}
	util.Success(c, medals, "Personal medals retrieved successfully")
}

// awardPersonalMedal grants a named award chosen by the administrator.
// Personal medals are not tied to a result and carry no rating points.
func (h *Handler) awardPersonalMedal(c *gin.Context) {
	var reqBody struct {
		UserID string `json:"user_id" binding:"required"`
		Name   string `json:"name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&reqBody); err != nil {
		util.Error(c, http.StatusBadRequest, err)
		return
	}

	target, err := database.GetUserByID(h.db, reqBody.UserID)
	if err != nil {
		util.Error(c, http.StatusNotFound, "user not found")
		return
	}
	if scope := schoolScope(c); scope != nil {
		if target.SchoolID == nil || *target.SchoolID != *scope {
			util.Error(c, http.StatusForbidden, "user belongs to another school")
			return
		}
	}

	medal := models.PersonalMedal{
		UserID: reqBody.UserID,
		Name:   reqBody.Name,
	}
	if err := database.CreatePersonalMedal(h.db, &medal); err != nil {
		util.Error(c, http.StatusInternalServerError, err)
		return
	}

	h.audit(c, "award", "personal medal "+medal.Name+" to "+medal.UserID)
	util.Success(c, medal, "Personal medal awarded successfully")
}
