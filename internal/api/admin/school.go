package admin

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/cpkimr/olympreg/internal/database"
	"github.com/cpkimr/olympreg/internal/database/models"
	"github.com/cpkimr/olympreg/internal/util"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func parseUintParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		util.Error(c, http.StatusBadRequest, "invalid "+name)
		return 0, false
	}
	return uint(id), true
}

// parseOptionalUintQuery reads an optional numeric query parameter. The
// first return is nil when the parameter is absent; ok is false only on
// a malformed value, after the error response has been written.
func parseOptionalUintQuery(c *gin.Context, name string) (*uint, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	v, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		util.Error(c, http.StatusBadRequest, "invalid "+name)
		return nil, false
	}
	id := uint(v)
	return &id, true
}

func (h *Handler) getAllSchools(c *gin.Context) {
	schools, err := database.GetAllSchools(h.db)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, err)
		return
	}
	util.Success(c, schools, "Schools retrieved successfully")
}

func (h *Handler) getSchool(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}
	school, err := database.GetSchoolByID(h.db, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			util.Error(c, http.StatusNotFound, "school not found")
		} else {
			util.Error(c, http.StatusInternalServerError, err)
		}
		return
	}
	util.Success(c, school, "School retrieved successfully")
}

func (h *Handler) createSchool(c *gin.Context) {
	if schoolScope(c) != nil {
		util.Error(c, http.StatusForbidden, "only site managers can create schools")
		return
	}

	var school models.School
	if err := c.ShouldBindJSON(&school); err != nil {
		util.Error(c, http.StatusBadRequest, err)
		return
	}
	if school.Status == "" {
		school.Status = models.SchoolPending
	}

	if err := database.CreateSchool(h.db, &school); err != nil {
		util.Error(c, http.StatusInternalServerError, err)
		return
	}

	h.audit(c, "create", "school "+school.Name)
	util.Success(c, school, "School created successfully")
}

func (h *Handler) updateSchool(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}
	school, err := database.GetSchoolByID(h.db, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			util.Error(c, http.StatusNotFound, "school not found")
		} else {
			util.Error(c, http.StatusInternalServerError, err)
		}
		return
	}

	var reqBody struct {
		Name          *string              `json:"name"`
		Address       *string              `json:"address"`
		Region        *string              `json:"region"`
		Locality      *string              `json:"locality"`
		PrincipalName *string              `json:"principal_name"`
		ContactEmail  *string              `json:"contact_email"`
		ContactPhone  *string              `json:"contact_phone"`
		Status        *models.SchoolStatus `json:"status"`
		AdminUserID   *string              `json:"admin_user_id"`
	}
	if err := c.ShouldBindJSON(&reqBody); err != nil {
		util.Error(c, http.StatusBadRequest, err)
		return
	}

	if reqBody.Name != nil {
		school.Name = *reqBody.Name
	}
	if reqBody.Address != nil {
		school.Address = *reqBody.Address
	}
	if reqBody.Region != nil {
		school.Region = *reqBody.Region
	}
	if reqBody.Locality != nil {
		school.Locality = *reqBody.Locality
	}
	if reqBody.PrincipalName != nil {
		school.PrincipalName = *reqBody.PrincipalName
	}
	if reqBody.ContactEmail != nil {
		school.ContactEmail = *reqBody.ContactEmail
	}
	if reqBody.ContactPhone != nil {
		school.ContactPhone = *reqBody.ContactPhone
	}
	if reqBody.Status != nil && schoolScope(c) == nil {
		school.Status = *reqBody.Status
	}
	if reqBody.AdminUserID != nil && schoolScope(c) == nil {
		school.AdminUserID = reqBody.AdminUserID
	}

	if err := database.UpdateSchool(h.db, school); err != nil {
		util.Error(c, http.StatusInternalServerError, err)
		return
	}

	h.audit(c, "update", "school "+school.Name)
	util.Success(c, school, "School updated successfully")
}

func (h *Handler) deleteSchool(c *gin.Context) {
	if schoolScope(c) != nil {
		util.Error(c, http.StatusForbidden, "only site managers can delete schools")
		return
	}
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}
	if err := database.DeleteSchool(h.db, id); err != nil {
		util.Error(c, http.StatusInternalServerError, err)
		return
	}
	h.audit(c, "delete", "school "+c.Param("id"))
	util.Success(c, nil, "School deleted successfully")
}
