package user

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/cpkimr/olympreg/internal/database"
	"github.com/cpkimr/olympreg/internal/util"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func (h *Handler) getAllOlympiads(c *gin.Context) {
	olympiads, err := database.GetAllOlympiads(h.db)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, err)
		return
	}
	util.Success(c, olympiads, "Olympiads retrieved successfully")
}

func (h *Handler) getOlympiad(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		util.Error(c, http.StatusBadRequest, "invalid olympiad id")
		return
	}

	olympiad, err := database.GetOlympiadByID(h.db, uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			util.Error(c, http.StatusNotFound, "olympiad not found")
		} else {
			util.Error(c, http.StatusInternalServerError, err)
		}
		return
	}
	util.Success(c, olympiad, "Olympiad retrieved successfully")
}

func (h *Handler) getLeagues(c *gin.Context) {
	leagues, err := database.GetAllLeagues(h.db)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, err)
		return
	}
	util.Success(c, leagues, "Leagues retrieved successfully")
}

func (h *Handler) getLeagueByPoints(c *gin.Context) {
	points, err := strconv.Atoi(c.Param("points"))
	if err != nil || points < 0 {
		util.Error(c, http.StatusBadRequest, "invalid points value")
		return
	}

	leagues, err := database.GetAllLeagues(h.db)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, err)
		return
	}

	for i := range leagues {
		if leagues[i].Contains(points) {
			util.Success(c, leagues[i], "League retrieved successfully")
			return
		}
	}
	util.Error(c, http.StatusNotFound, "no league matches the given points")
}

func (h *Handler) getLeaderboard(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "250"))

	var schoolID *uint
	if s := c.Query("school_id"); s != "" {
		id, err := strconv.ParseUint(s, 10, 32)
		if err != nil {
			util.Error(c, http.StatusBadRequest, "invalid school_id")
			return
		}
		v := uint(id)
		schoolID = &v
	}

	entries, err := database.GetLeaderboard(h.db, schoolID, limit)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, err)
		return
	}
	util.Success(c, entries, "Leaderboard retrieved successfully")
}
