package admin

import (
	"net/http"

	"github.com/cpkimr/olympreg/internal/database"
	"github.com/cpkimr/olympreg/internal/database/models"
	"github.com/cpkimr/olympreg/internal/util"
	"github.com/gin-gonic/gin"
)

func (h *Handler) getLeagues(c *gin.Context) {
	leagues, err := database.GetAllLeagues(h.db)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, err)
		return
	}
	util.Success(c, leagues, "Leagues retrieved successfully")
}

func (h *Handler) createLeague(c *gin.Context) {
	if user := currentUser(c); user == nil || !user.IsManager {
		util.Error(c, http.StatusForbidden, "only managers may edit the league table")
		return
	}

	var league models.League
	if err := c.ShouldBindJSON(&league); err != nil {
		util.Error(c, http.StatusBadRequest, err)
		return
	}
	if league.Type == "" {
		util.Error(c, http.StatusBadRequest, "league type is required")
		return
	}
	if league.MaxPoints != nil && *league.MaxPoints < league.MinPoints {
		util.Error(c, http.StatusBadRequest, "max_points must not be below min_points")
		return
	}

	if err := database.CreateLeague(h.db, &league); err != nil {
		util.Error(c, http.StatusInternalServerError, err)
		return
	}

	h.audit(c, "create", "league "+string(league.Type))
	util.Success(c, league, "League created successfully")
}

func (h *Handler) updateLeague(c *gin.Context) {
	if user := currentUser(c); user == nil || !user.IsManager {
		util.Error(c, http.StatusForbidden, "only managers may edit the league table")
		return
	}

	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	// MaxPoints needs tri-state handling (absent / null / value), so
	// bind through a raw map instead of a typed struct.
	var raw map[string]interface{}
	if err := c.ShouldBindJSON(&raw); err != nil {
		util.Error(c, http.StatusBadRequest, err)
		return
	}

	var leagues []models.League
	if err := h.db.Where("id = ?", id).Find(&leagues).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, err)
		return
	}
	if len(leagues) == 0 {
		util.Error(c, http.StatusNotFound, "league not found")
		return
	}
	league := leagues[0]

	if v, ok := raw["min_points"]; ok {
		f, ok := v.(float64)
		if !ok {
			util.Error(c, http.StatusBadRequest, "min_points must be a number")
			return
		}
		league.MinPoints = int(f)
	}
	if v, ok := raw["max_points"]; ok {
		if v == nil {
			league.MaxPoints = nil
		} else {
			f, ok := v.(float64)
			if !ok {
				util.Error(c, http.StatusBadRequest, "max_points must be a number or null")
				return
			}
			maxPoints := int(f)
			league.MaxPoints = &maxPoints
		}
	}
	if league.MaxPoints != nil && *league.MaxPoints < league.MinPoints {
		util.Error(c, http.StatusBadRequest, "max_points must not be below min_points")
		return
	}
	if err := database.UpdateLeague(h.db, &league); err != nil {
		util.Error(c, http.StatusInternalServerError, err)
		return
	}

	h.audit(c, "update", "league "+string(league.Type))
	util.Success(c, league, "League updated successfully")
}

func (h *Handler) deleteLeague(c *gin.Context) {
	if user := currentUser(c); user == nil || !user.IsManager {
		util.Error(c, http.StatusForbidden, "only managers may edit the league table")
		return
	}

	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}
	if err := database.DeleteLeague(h.db, id); err != nil {
		util.Error(c, http.StatusInternalServerError, err)
		return
	}
	h.audit(c, "delete", "league "+c.Param("id"))
	util.Success(c, nil, "League deleted successfully")
}
