package admin

import (
	"net/http"
	"strconv"

	"github.com/cpkimr/olympreg/internal/database"
	"github.com/cpkimr/olympreg/internal/util"
	"github.com/gin-gonic/gin"
)

func (h *Handler) getAuditLog(c *gin.Context) {
	scope := schoolScope(c)
	if scope == nil {
		if schoolID, ok := parseOptionalUintQuery(c, "school_id"); ok && schoolID != nil {
			scope = schoolID
		}
	}

	limit := 200
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			util.Error(c, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = n
	}

	entries, err := database.GetAuditLog(h.db, scope, limit)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, err)
		return
	}
	util.Success(c, entries, "Audit log retrieved successfully")
}

func (h *Handler) getLeaderboard(c *gin.Context) {
	scope := schoolScope(c)
	if scope == nil {
		if schoolID, ok := parseOptionalUintQuery(c, "school_id"); ok && schoolID != nil {
			scope = schoolID
		}
	}

	limit := 250
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			util.Error(c, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = n
	}

	entries, err := database.GetLeaderboard(h.db, scope, limit)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, err)
		return
	}
	util.Success(c, entries, "Leaderboard retrieved successfully")
}
