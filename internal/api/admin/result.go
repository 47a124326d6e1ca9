package admin

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/cpkimr/olympreg/internal/database"
	"github.com/cpkimr/olympreg/internal/importer"
	"github.com/cpkimr/olympreg/internal/scoring"
	"github.com/cpkimr/olympreg/internal/util"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func (h *Handler) getResults(c *gin.Context) {
	scope := schoolScope(c)
	if scope == nil {
		if schoolID, ok := parseOptionalUintQuery(c, "school_id"); ok && schoolID != nil {
			scope = schoolID
		}
	}

	if scope == nil {
		rows, err := database.GetAllResults(h.db)
		if err != nil {
			util.Error(c, http.StatusInternalServerError, err)
			return
		}
		util.Success(c, rows, "Results retrieved successfully")
		return
	}

	rows, err := database.GetResultsBySchool(h.db, *scope)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, err)
		return
	}
	util.Success(c, rows, "Results retrieved successfully")
}

func (h *Handler) recordResult(c *gin.Context) {
	var reqBody struct {
		UserID     string `json:"user_id" binding:"required"`
		OlympiadID uint   `json:"olympiad_id" binding:"required"`
		Score      int    `json:"score"`
	}
	if err := c.ShouldBindJSON(&reqBody); err != nil {
		util.Error(c, http.StatusBadRequest, err)
		return
	}
	if reqBody.Score < 0 {
		util.Error(c, http.StatusBadRequest, "score must not be negative")
		return
	}

	if scope := schoolScope(c); scope != nil {
		student, err := database.GetUserByID(h.db, reqBody.UserID)
		if err != nil {
			util.Error(c, http.StatusNotFound, "user not found")
			return
		}
		if student.SchoolID == nil || *student.SchoolID != *scope {
			util.Error(c, http.StatusForbidden, "user belongs to another school")
			return
		}
	}

	outcome, err := h.recorder.Record(reqBody.UserID, reqBody.OlympiadID, reqBody.Score)
	if err != nil {
		switch {
		case errors.Is(err, scoring.ErrStageNotConfigured):
			util.Error(c, http.StatusUnprocessableEntity, err)
		case errors.Is(err, gorm.ErrRecordNotFound):
			util.Error(c, http.StatusNotFound, err)
		default:
			util.Error(c, http.StatusInternalServerError, err)
		}
		return
	}

	h.audit(c, "record", fmt.Sprintf("result user=%s olympiad=%d score=%d",
		reqBody.UserID, reqBody.OlympiadID, reqBody.Score))
	util.Success(c, outcome, "Result recorded successfully")
}

func (h *Handler) getResult(c *gin.Context) {
	result, err := database.GetResultByID(h.db, c.Param("id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			util.Error(c, http.StatusNotFound, "result not found")
		} else {
			util.Error(c, http.StatusInternalServerError, err)
		}
		return
	}
	if scope := schoolScope(c); scope != nil && result.SchoolID != *scope {
		util.Error(c, http.StatusForbidden, "result belongs to another school")
		return
	}
	util.Success(c, result, "Result retrieved successfully")
}

// setResultAdvanced flips the advanced-to-next-stage flag. It is a plain
// field update and never touches points, status or medals.
func (h *Handler) setResultAdvanced(c *gin.Context) {
	var reqBody struct {
		Advanced *bool `json:"advanced" binding:"required"`
	}
	if err := c.ShouldBindJSON(&reqBody); err != nil {
		util.Error(c, http.StatusBadRequest, err)
		return
	}

	result, err := database.GetResultByID(h.db, c.Param("id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			util.Error(c, http.StatusNotFound, "result not found")
		} else {
			util.Error(c, http.StatusInternalServerError, err)
		}
		return
	}
	if scope := schoolScope(c); scope != nil && result.SchoolID != *scope {
		util.Error(c, http.StatusForbidden, "result belongs to another school")
		return
	}

	if err := h.db.Model(result).Update("advanced", *reqBody.Advanced).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, err)
		return
	}
	result.Advanced = *reqBody.Advanced

	h.audit(c, "update", "result "+result.ID+" advanced")
	util.Success(c, result, "Result updated successfully")
}

func (h *Handler) importResults(c *gin.Context) {
	schoolID, ok := h.resolveSchoolID(c)
	if !ok {
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		util.Error(c, http.StatusBadRequest, "file is required")
		return
	}
	src, err := file.Open()
	if err != nil {
		util.Error(c, http.StatusBadRequest, err)
		return
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		util.Error(c, http.StatusBadRequest, err)
		return
	}

	report, err := h.importer.ImportResults(data, schoolID)
	if err != nil {
		util.Error(c, http.StatusUnprocessableEntity, err)
		return
	}

	h.audit(c, "import", fmt.Sprintf("results school=%d imported=%d", schoolID, report.Imported))
	util.Success(c, report, "Results imported successfully")
}

func (h *Handler) exportResults(c *gin.Context) {
	schoolID, ok := h.resolveSchoolID(c)
	if !ok {
		return
	}

	classroomID, ok := parseOptionalUintQuery(c, "classroom_id")
	if !ok {
		return
	}

	data, err := importer.ExportResults(h.db, schoolID, classroomID)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, err)
		return
	}

	h.audit(c, "export", fmt.Sprintf("results school=%d", schoolID))
	c.Header("Content-Disposition", `attachment; filename="results.xlsx"`)
	c.Data(http.StatusOK,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}

// resolveSchoolID picks the school for import/export: school admins are
// bound to their own school, managers pass ?school_id=.
func (h *Handler) resolveSchoolID(c *gin.Context) (uint, bool) {
	if scope := schoolScope(c); scope != nil {
		return *scope, true
	}
	schoolID, ok := parseOptionalUintQuery(c, "school_id")
	if !ok {
		return 0, false
	}
	if schoolID == nil {
		util.Error(c, http.StatusBadRequest, "school_id is required")
		return 0, false
	}
	return *schoolID, true
}
