package admin

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/cpkimr/olympreg/internal/database"
	"github.com/cpkimr/olympreg/internal/database/models"
	"github.com/cpkimr/olympreg/internal/util"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func (h *Handler) getRegistrations(c *gin.Context) {
	scope := schoolScope(c)
	if scope == nil {
		if schoolID, ok := parseOptionalUintQuery(c, "school_id"); ok && schoolID != nil {
			scope = schoolID
		}
	}

	if scope == nil {
		var regs []models.Registration
		err := h.db.Preload("Child").Preload("Olympiad").
			Where("is_deleted = ?", false).
			Order("created_at desc").
			Find(&regs).Error
		if err != nil {
			util.Error(c, http.StatusInternalServerError, err)
			return
		}
		util.Success(c, regs, "Registrations retrieved successfully")
		return
	}

	regs, err := database.GetRegistrationsBySchool(h.db, *scope)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, err)
		return
	}
	util.Success(c, regs, "Registrations retrieved successfully")
}

func (h *Handler) loadScopedRegistration(c *gin.Context) (*models.Registration, bool) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return nil, false
	}
	reg, err := database.GetRegistrationByID(h.db, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			util.Error(c, http.StatusNotFound, "registration not found")
		} else {
			util.Error(c, http.StatusInternalServerError, err)
		}
		return nil, false
	}
	if reg.IsDeleted {
		util.Error(c, http.StatusNotFound, "registration not found")
		return nil, false
	}
	if scope := schoolScope(c); scope != nil && reg.SchoolID != *scope {
		util.Error(c, http.StatusForbidden, "registration belongs to another school")
		return nil, false
	}
	return reg, true
}

func (h *Handler) approveRegistration(c *gin.Context) {
	reg, ok := h.loadScopedRegistration(c)
	if !ok {
		return
	}

	user := currentUser(c)
	if user != nil && user.IsTeacher && !user.IsAdmin && !user.IsManager {
		reg.ApprovedByTeacher = true
	} else {
		reg.ApprovedByAdmin = true
	}
	if err := database.UpdateRegistration(h.db, reg); err != nil {
		util.Error(c, http.StatusInternalServerError, err)
		return
	}

	h.audit(c, "approve", fmt.Sprintf("registration %d", reg.ID))
	util.Success(c, reg, "Registration approved successfully")
}

// sendRegistration marks a fully approved registration as forwarded to
// the olympiad organizers.
func (h *Handler) sendRegistration(c *gin.Context) {
	reg, ok := h.loadScopedRegistration(c)
	if !ok {
		return
	}

	if !reg.ApprovedByAdmin {
		util.Error(c, http.StatusConflict, "registration is not approved yet")
		return
	}
	if reg.Sent {
		util.Error(c, http.StatusConflict, "registration already sent")
		return
	}

	reg.Sent = true
	if err := database.UpdateRegistration(h.db, reg); err != nil {
		util.Error(c, http.StatusInternalServerError, err)
		return
	}

	h.audit(c, "send", fmt.Sprintf("registration %d", reg.ID))
	util.Success(c, reg, "Registration sent successfully")
}

func (h *Handler) deleteRegistration(c *gin.Context) {
	reg, ok := h.loadScopedRegistration(c)
	if !ok {
		return
	}
	if err := database.SoftDeleteRegistration(h.db, reg.ID); err != nil {
		util.Error(c, http.StatusInternalServerError, err)
		return
	}
	h.audit(c, "delete", fmt.Sprintf("registration %d", reg.ID))
	util.Success(c, nil, "Registration deleted successfully")
}

func (h *Handler) createRecommendation(c *gin.Context) {
	var reqBody struct {
		ChildID       string `json:"child_id" binding:"required"`
		RecommendedTo string `json:"recommended_to_id" binding:"required"`
		OlympiadID    uint   `json:"olympiad_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&reqBody); err != nil {
		util.Error(c, http.StatusBadRequest, err)
		return
	}

	child, err := database.GetUserByID(h.db, reqBody.ChildID)
	if err != nil {
		util.Error(c, http.StatusNotFound, "child not found")
		return
	}
	if child.SchoolID == nil {
		util.Error(c, http.StatusBadRequest, "child has no school")
		return
	}
	if scope := schoolScope(c); scope != nil && *child.SchoolID != *scope {
		util.Error(c, http.StatusForbidden, "child belongs to another school")
		return
	}
	if _, err := database.GetOlympiadByID(h.db, reqBody.OlympiadID); err != nil {
		util.Error(c, http.StatusNotFound, "olympiad not found")
		return
	}

	user := currentUser(c)
	rec := models.Recommendation{
		SchoolID:        *child.SchoolID,
		RecommendedByID: user.ID,
		RecommendedToID: reqBody.RecommendedTo,
		ChildID:         reqBody.ChildID,
		OlympiadID:      reqBody.OlympiadID,
		Status:          models.RecommendationPending,
	}
	if err := database.CreateRecommendation(h.db, &rec); err != nil {
		util.Error(c, http.StatusConflict, "recommendation already exists")
		return
	}

	h.audit(c, "create", fmt.Sprintf("recommendation child=%s olympiad=%d", rec.ChildID, rec.OlympiadID))
	util.Success(c, rec, "Recommendation created successfully")
}
