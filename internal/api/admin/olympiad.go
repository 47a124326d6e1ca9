package admin

import (
	"errors"
	"net/http"
	"time"

	"github.com/cpkimr/olympreg/internal/database"
	"github.com/cpkimr/olympreg/internal/database/models"
	"github.com/cpkimr/olympreg/internal/util"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func (h *Handler) getSubjects(c *gin.Context) {
	subjects, err := database.GetAllSubjects(h.db)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, err)
		return
	}
	util.Success(c, subjects, "Subjects retrieved successfully")
}

func (h *Handler) createSubject(c *gin.Context) {
	var subject models.Subject
	if err := c.ShouldBindJSON(&subject); err != nil {
		util.Error(c, http.StatusBadRequest, err)
		return
	}
	if subject.Name == "" {
		util.Error(c, http.StatusBadRequest, "name is required")
		return
	}

	if err := database.CreateSubject(h.db, &subject); err != nil {
		util.Error(c, http.StatusInternalServerError, err)
		return
	}

	h.audit(c, "create", "subject "+subject.Name)
	util.Success(c, subject, "Subject created successfully")
}

func (h *Handler) deleteSubject(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}
	if err := database.DeleteSubject(h.db, id); err != nil {
		util.Error(c, http.StatusInternalServerError, err)
		return
	}
	h.audit(c, "delete", "subject "+c.Param("id"))
	util.Success(c, nil, "Subject deleted successfully")
}

func (h *Handler) getPositions(c *gin.Context) {
	positions, err := database.GetAllPositions(h.db)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, err)
		return
	}
	util.Success(c, positions, "Positions retrieved successfully")
}

func (h *Handler) createPosition(c *gin.Context) {
	var position models.Position
	if err := c.ShouldBindJSON(&position); err != nil {
		util.Error(c, http.StatusBadRequest, err)
		return
	}
	if position.Name == "" {
		util.Error(c, http.StatusBadRequest, "name is required")
		return
	}

	if err := database.CreatePosition(h.db, &position); err != nil {
		util.Error(c, http.StatusInternalServerError, err)
		return
	}

	h.audit(c, "create", "position "+position.Name)
	util.Success(c, position, "Position created successfully")
}

func (h *Handler) deletePosition(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}
	if err := database.DeletePosition(h.db, id); err != nil {
		util.Error(c, http.StatusInternalServerError, err)
		return
	}
	h.audit(c, "delete", "position "+c.Param("id"))
	util.Success(c, nil, "Position deleted successfully")
}

type olympiadRequest struct {
	Name        string     `json:"name" binding:"required"`
	Description string     `json:"description"`
	SubjectID   uint       `json:"subject_id"`
	Level       string     `json:"level"`
	Category    string     `json:"category"`
	Grade       int        `json:"grade"`
	Stage       string     `json:"stage" binding:"required"`
	Date        *time.Time `json:"date"`
	Location    string     `json:"location"`
}

func (h *Handler) getAllOlympiads(c *gin.Context) {
	olympiads, err := database.GetAllOlympiads(h.db)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, err)
		return
	}
	util.Success(c, olympiads, "Olympiads retrieved successfully")
}

func (h *Handler) getOlympiad(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}
	olympiad, err := database.GetOlympiadByID(h.db, id)
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

func (h *Handler) createOlympiad(c *gin.Context) {
	var reqBody olympiadRequest
	if err := c.ShouldBindJSON(&reqBody); err != nil {
		util.Error(c, http.StatusBadRequest, err)
		return
	}

	stage, err := models.ParseStage(reqBody.Stage)
	if err != nil {
		util.Error(c, http.StatusBadRequest, err)
		return
	}

	olympiad := models.Olympiad{
		Name:        reqBody.Name,
		Description: reqBody.Description,
		SubjectID:   reqBody.SubjectID,
		Level:       reqBody.Level,
		Category:    reqBody.Category,
		Grade:       reqBody.Grade,
		Stage:       stage,
		Date:        reqBody.Date,
		Location:    reqBody.Location,
	}
	if err := database.CreateOlympiad(h.db, &olympiad); err != nil {
		util.Error(c, http.StatusInternalServerError, err)
		return
	}

	h.audit(c, "create", "olympiad "+olympiad.Name)
	util.Success(c, olympiad, "Olympiad created successfully")
}

func (h *Handler) updateOlympiad(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}
	olympiad, err := database.GetOlympiadByID(h.db, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			util.Error(c, http.StatusNotFound, "olympiad not found")
		} else {
			util.Error(c, http.StatusInternalServerError, err)
		}
		return
	}

	var reqBody olympiadRequest
	if err := c.ShouldBindJSON(&reqBody); err != nil {
		util.Error(c, http.StatusBadRequest, err)
		return
	}

	stage, err := models.ParseStage(reqBody.Stage)
	if err != nil {
		util.Error(c, http.StatusBadRequest, err)
		return
	}

	olympiad.Name = reqBody.Name
	olympiad.Description = reqBody.Description
	olympiad.SubjectID = reqBody.SubjectID
	olympiad.Level = reqBody.Level
	olympiad.Category = reqBody.Category
	olympiad.Grade = reqBody.Grade
	olympiad.Stage = stage
	olympiad.Date = reqBody.Date
	olympiad.Location = reqBody.Location

	if err := database.UpdateOlympiad(h.db, olympiad); err != nil {
		util.Error(c, http.StatusInternalServerError, err)
		return
	}

	h.audit(c, "update", "olympiad "+c.Param("id"))
	util.Success(c, olympiad, "Olympiad updated successfully")
}

func (h *Handler) deleteOlympiad(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}
	if err := database.DeleteOlympiad(h.db, id); err != nil {
		util.Error(c, http.StatusInternalServerError, err)
		return
	}
	h.audit(c, "delete", "olympiad "+c.Param("id"))
	util.Success(c, nil, "Olympiad deleted successfully")
}
