package admin

import (
	"errors"
	"net/http"

	"github.com/cpkimr/olympreg/internal/auth"
	"github.com/cpkimr/olympreg/internal/database"
	"github.com/cpkimr/olympreg/internal/database/models"
	"github.com/cpkimr/olympreg/internal/util"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func (h *Handler) getAllUsers(c *gin.Context) {
	dbQuery := h.db
	if scope := schoolScope(c); scope != nil {
		dbQuery = dbQuery.Where("school_id = ?", *scope)
	}
	if searchQuery := c.Query("query"); searchQuery != "" {
		likeQuery := "%" + searchQuery + "%"
		dbQuery = dbQuery.Where("id = ? OR username LIKE ? OR last_name LIKE ?", searchQuery, likeQuery, likeQuery)
	}

	var users []models.User
	if err := dbQuery.Find(&users).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, err)
		return
	}

	util.Success(c, users, "Users retrieved successfully")
}

func (h *Handler) getUser(c *gin.Context) {
	user, err := database.GetUserByID(h.db, c.Param("id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			util.Error(c, http.StatusNotFound, "user not found")
		} else {
			util.Error(c, http.StatusInternalServerError, err)
		}
		return
	}
	util.Success(c, user, "User retrieved successfully")
}

func (h *Handler) createUser(c *gin.Context) {
	var req struct {
		Username   string `json:"username" binding:"required"`
		Password   string `json:"password" binding:"required"`
		FirstName  string `json:"first_name" binding:"required"`
		LastName   string `json:"last_name" binding:"required"`
		Patronymic string `json:"patronymic"`
		IsChild    bool   `json:"is_child"`
		IsTeacher  bool   `json:"is_teacher"`
		IsAdmin    bool   `json:"is_admin"`
		SchoolID   *uint  `json:"school_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, err)
		return
	}

	hashedPassword, err := auth.HashPassword(req.Password)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, "failed to hash password")
		return
	}

	user := models.User{
		ID:           uuid.NewString(),
		Username:     req.Username,
		PasswordHash: hashedPassword,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Patronymic:   req.Patronymic,
		IsChild:      req.IsChild,
		IsTeacher:    req.IsTeacher,
		IsAdmin:      req.IsAdmin,
		SchoolID:     req.SchoolID,
	}
	// School admins can only create users inside their own school.
	if scope := schoolScope(c); scope != nil {
		user.SchoolID = scope
		user.IsAdmin = false
	}

	if err := database.CreateUser(h.db, &user); err != nil {
		util.Error(c, http.StatusInternalServerError, err)
		return
	}

	h.audit(c, "create", "user "+user.ID)
	util.Success(c, user, "User created successfully")
}

func (h *Handler) updateUser(c *gin.Context) {
	user, err := database.GetUserByID(h.db, c.Param("id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			util.Error(c, http.StatusNotFound, "user not found")
		} else {
			util.Error(c, http.StatusInternalServerError, err)
		}
		return
	}

	var reqBody struct {
		FirstName   *string `json:"first_name"`
		LastName    *string `json:"last_name"`
		Patronymic  *string `json:"patronymic"`
		IsChild     *bool   `json:"is_child"`
		IsTeacher   *bool   `json:"is_teacher"`
		IsExpelled  *bool   `json:"is_expelled"`
		ClassroomID *uint   `json:"classroom_id"`
		SchoolID    *uint   `json:"school_id"`
	}
	if err := c.ShouldBindJSON(&reqBody); err != nil {
		util.Error(c, http.StatusBadRequest, err)
		return
	}

	if reqBody.FirstName != nil {
		user.FirstName = *reqBody.FirstName
	}
	if reqBody.LastName != nil {
		user.LastName = *reqBody.LastName
	}
	if reqBody.Patronymic != nil {
		user.Patronymic = *reqBody.Patronymic
	}
	if reqBody.IsChild != nil {
		user.IsChild = *reqBody.IsChild
	}
	if reqBody.IsTeacher != nil {
		user.IsTeacher = *reqBody.IsTeacher
	}
	if reqBody.IsExpelled != nil {
		user.IsExpelled = *reqBody.IsExpelled
	}
	if reqBody.ClassroomID != nil {
		user.ClassroomID = reqBody.ClassroomID
	}
	if reqBody.SchoolID != nil && schoolScope(c) == nil {
		user.SchoolID = reqBody.SchoolID
	}

	if err := database.UpdateUser(h.db, user); err != nil {
		util.Error(c, http.StatusInternalServerError, err)
		return
	}

	h.audit(c, "update", "user "+user.ID)
	util.Success(c, user, "User updated successfully")
}

func (h *Handler) deleteUser(c *gin.Context) {
	userID := c.Param("id")
	if err := database.DeleteUser(h.db, userID); err != nil {
		util.Error(c, http.StatusInternalServerError, err)
		return
	}
	h.audit(c, "delete", "user "+userID)
	util.Success(c, nil, "User deleted successfully")
}

func (h *Handler) resetUserPassword(c *gin.Context) {
	user, err := database.GetUserByID(h.db, c.Param("id"))
	if err != nil {
		util.Error(c, http.StatusNotFound, "user not found")
		return
	}

	var req struct {
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, err)
		return
	}

	hashedPassword, err := auth.HashPassword(req.Password)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, "failed to hash new password")
		return
	}

	user.PasswordHash = hashedPassword
	if err := database.UpdateUser(h.db, user); err != nil {
		util.Error(c, http.StatusInternalServerError, "failed to update user password")
		return
	}

	zap.S().Warnf("admin reset password for user %s (%s)", user.Username, user.ID)
	h.audit(c, "reset-password", "user "+user.ID)
	util.Success(c, nil, "User password reset successfully")
}

func (h *Handler) getUserResults(c *gin.Context) {
	userID := c.Param("id")
	if _, err := database.GetUserByID(h.db, userID); err != nil {
		util.Error(c, http.StatusNotFound, "user not found")
		return
	}

	results, err := database.GetResultsByUserID(h.db, userID)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, err)
		return
	}
	util.Success(c, results, "User results retrieved successfully")
}

func (h *Handler) getUserRating(c *gin.Context) {
	rating, err := database.GetRatingByUserID(h.db, c.Param("id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			util.Error(c, http.StatusNotFound, "rating not found for user")
		} else {
			util.Error(c, http.StatusInternalServerError, err)
		}
		return
	}
	util.Success(c, rating, "User rating retrieved successfully")
}

func (h *Handler) getUserMedals(c *gin.Context) {
	userID := c.Param("id")
	medals, err := database.GetMedalsByUserID(h.db, userID)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, err)
		return
	}
	personal, err := database.GetPersonalMedalsByUserID(h.db, userID)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, err)
		return
	}
	util.Success(c, gin.H{"medals": medals, "personal_medals": personal}, "User medals retrieved successfully")
}

// adjustUserRating applies a manual point correction through the same
// serialized path as result recording.
func (h *Handler) adjustUserRating(c *gin.Context) {
	userID := c.Param("id")
	if _, err := database.GetUserByID(h.db, userID); err != nil {
		util.Error(c, http.StatusNotFound, "user not found")
		return
	}

	var req struct {
		Delta int `json:"delta" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, err)
		return
	}

	rating, err := h.recorder.AddPoints(userID, req.Delta)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, err)
		return
	}

	zap.S().Infof("admin adjusted rating of user %s by %+d", userID, req.Delta)
	h.audit(c, "rating-adjustment", "user "+userID)
	util.Success(c, rating, "Rating adjusted successfully")
}
