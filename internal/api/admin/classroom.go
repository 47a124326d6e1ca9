package admin

import (
	"errors"
	"net/http"

	"github.com/cpkimr/olympreg/internal/database"
	"github.com/cpkimr/olympreg/internal/database/models"
	"github.com/cpkimr/olympreg/internal/util"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func (h *Handler) getClassrooms(c *gin.Context) {
	scope := schoolScope(c)
	if scope == nil {
		var classrooms []models.Classroom
		if err := h.db.Order("school_id, number, letter").Find(&classrooms).Error; err != nil {
			util.Error(c, http.StatusInternalServerError, err)
			return
		}
		util.Success(c, classrooms, "Classrooms retrieved successfully")
		return
	}

	classrooms, err := database.GetClassroomsBySchool(h.db, *scope)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, err)
		return
	}
	util.Success(c, classrooms, "Classrooms retrieved successfully")
}

func (h *Handler) createClassroom(c *gin.Context) {
	var classroom models.Classroom
	if err := c.ShouldBindJSON(&classroom); err != nil {
		util.Error(c, http.StatusBadRequest, err)
		return
	}
	if scope := schoolScope(c); scope != nil {
		classroom.SchoolID = *scope
	}
	if classroom.SchoolID == 0 {
		util.Error(c, http.StatusBadRequest, "school_id is required")
		return
	}

	if err := database.CreateClassroom(h.db, &classroom); err != nil {
		util.Error(c, http.StatusInternalServerError, err)
		return
	}

	h.audit(c, "create", "classroom")
	util.Success(c, classroom, "Classroom created successfully")
}

func (h *Handler) updateClassroom(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}
	classroom, err := database.GetClassroomByID(h.db, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			util.Error(c, http.StatusNotFound, "classroom not found")
		} else {
			util.Error(c, http.StatusInternalServerError, err)
		}
		return
	}

	var reqBody struct {
		Number    *int    `json:"number"`
		Letter    *string `json:"letter"`
		TeacherID *string `json:"teacher_id"`
	}
	if err := c.ShouldBindJSON(&reqBody); err != nil {
		util.Error(c, http.StatusBadRequest, err)
		return
	}

	if reqBody.Number != nil {
		classroom.Number = *reqBody.Number
	}
	if reqBody.Letter != nil {
		classroom.Letter = *reqBody.Letter
	}
	if reqBody.TeacherID != nil {
		classroom.TeacherID = reqBody.TeacherID
	}

	if err := database.UpdateClassroom(h.db, classroom); err != nil {
		util.Error(c, http.StatusInternalServerError, err)
		return
	}

	h.audit(c, "update", "classroom "+c.Param("id"))
	util.Success(c, classroom, "Classroom updated successfully")
}

func (h *Handler) deleteClassroom(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}
	if err := database.DeleteClassroom(h.db, id); err != nil {
		util.Error(c, http.StatusInternalServerError, err)
		return
	}
	h.audit(c, "delete", "classroom "+c.Param("id"))
	util.Success(c, nil, "Classroom deleted successfully")
}

func (h *Handler) promoteClassroom(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}
	classroom, err := database.PromoteClassroom(h.db, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			util.Error(c, http.StatusNotFound, "classroom not found")
		} else {
			util.Error(c, http.StatusInternalServerError, err)
		}
		return
	}

	h.audit(c, "promote", "classroom "+c.Param("id"))
	util.Success(c, classroom, "Classroom promoted successfully")
}
