package database

import (
	"time"

	"github.com/cpkimr/olympreg/internal/database/models"
	"gorm.io/gorm"
)

// User CRUD

func CreateUser(db *gorm.DB, user *models.User) error {
	return db.Create(user).Error
}

func GetUserByID(db *gorm.DB, id string) (*models.User, error) {
	var user models.User
	if err := db.Preload("Classroom").Where("id = ?", id).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func GetUserByUsername(db *gorm.DB, username string) (*models.User, error) {
	var user models.User
	if err := db.Where("username = ?", username).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func GetUserByTelegramLinkCode(db *gorm.DB, code string) (*models.User, error) {
	var user models.User
	if err := db.Where("telegram_link_code = ?", code).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindStudentByFullName matches a student within a school by last name,
// first name and patronymic, case-insensitively. Used by the xlsx
// importer where names arrive as free text.
func FindStudentByFullName(db *gorm.DB, schoolID uint, lastName, firstName, patronymic string) (*models.User, error) {
	var user models.User
	err := db.Where(
		"school_id = ? AND is_child = ? AND LOWER(last_name) = LOWER(?) AND LOWER(first_name) = LOWER(?) AND LOWER(patronymic) = LOWER(?)",
		schoolID, true, lastName, firstName, patronymic,
	).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func GetUsersBySchool(db *gorm.DB, schoolID uint) ([]models.User, error) {
	var users []models.User
	if err := db.Where("school_id = ?", schoolID).Order("last_name, first_name").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func UpdateUser(db *gorm.DB, user *models.User) error {
	return db.Save(user).Error
}

func DeleteUser(db *gorm.DB, userID string) error {
	return db.Delete(&models.User{}, "id = ?", userID).Error
}

// School CRUD

func CreateSchool(db *gorm.DB, school *models.School) error {
	return db.Create(school).Error
}

func GetSchoolByID(db *gorm.DB, id uint) (*models.School, error) {
	var school models.School
	if err := db.First(&school, id).Error; err != nil {
		return nil, err
	}
	return &school, nil
}

func GetAllSchools(db *gorm.DB) ([]models.School, error) {
	var schools []models.School
	if err := db.Order("name").Find(&schools).Error; err != nil {
		return nil, err
	}
	return schools, nil
}

func UpdateSchool(db *gorm.DB, school *models.School) error {
	return db.Save(school).Error
}

func DeleteSchool(db *gorm.DB, id uint) error {
	return db.Delete(&models.School{}, id).Error
}

// Classroom CRUD

func CreateClassroom(db *gorm.DB, classroom *models.Classroom) error {
	return db.Create(classroom).Error
}

func GetClassroomByID(db *gorm.DB, id uint) (*models.Classroom, error) {
	var classroom models.Classroom
	if err := db.First(&classroom, id).Error; err != nil {
		return nil, err
	}
	return &classroom, nil
}

func GetClassroomsBySchool(db *gorm.DB, schoolID uint) ([]models.Classroom, error) {
	var classrooms []models.Classroom
	if err := db.Where("school_id = ?", schoolID).Order("number, letter").Find(&classrooms).Error; err != nil {
		return nil, err
	}
	return classrooms, nil
}

func UpdateClassroom(db *gorm.DB, classroom *models.Classroom) error {
	return db.Save(classroom).Error
}

func DeleteClassroom(db *gorm.DB, id uint) error {
	return db.Delete(&models.Classroom{}, id).Error
}

// PromoteClassroom moves the class up one grade, or marks it graduated
// past grade 11.
func PromoteClassroom(db *gorm.DB, id uint) (*models.Classroom, error) {
	classroom, err := GetClassroomByID(db, id)
	if err != nil {
		return nil, err
	}
	if classroom.Number < 11 {
		classroom.Number++
	} else {
		classroom.IsGraduated = true
		year := time.Now().Year()
		classroom.GraduationYear = &year
	}
	if err := db.Save(classroom).Error; err != nil {
		return nil, err
	}
	return classroom, nil
}

// Subject CRUD

func CreateSubject(db *gorm.DB, subject *models.Subject) error {
	return db.Create(subject).Error
}

func GetAllSubjects(db *gorm.DB) ([]models.Subject, error) {
	var subjects []models.Subject
	if err := db.Order("name").Find(&subjects).Error; err != nil {
		return nil, err
	}
	return subjects, nil
}

func DeleteSubject(db *gorm.DB, id uint) error {
	return db.Delete(&models.Subject{}, id).Error
}

// Position CRUD

func CreatePosition(db *gorm.DB, position *models.Position) error {
	return db.Create(position).Error
}

func GetAllPositions(db *gorm.DB) ([]models.Position, error) {
	var positions []models.Position
	if err := db.Order("name").Find(&positions).Error; err != nil {
		return nil, err
	}
	return positions, nil
}

func DeletePosition(db *gorm.DB, id uint) error {
	return db.Delete(&models.Position{}, id).Error
}

// Olympiad CRUD

func CreateOlympiad(db *gorm.DB, olympiad *models.Olympiad) error {
	return db.Create(olympiad).Error
}

func GetOlympiadByID(db *gorm.DB, id uint) (*models.Olympiad, error) {
	var olympiad models.Olympiad
	if err := db.Preload("Subject").First(&olympiad, id).Error; err != nil {
		return nil, err
	}
	return &olympiad, nil
}

func GetOlympiadByName(db *gorm.DB, name string) (*models.Olympiad, error) {
	var olympiad models.Olympiad
	if err := db.Where("LOWER(name) = LOWER(?)", name).First(&olympiad).Error; err != nil {
		return nil, err
	}
	return &olympiad, nil
}

func GetAllOlympiads(db *gorm.DB) ([]models.Olympiad, error) {
	var olympiads []models.Olympiad
	if err := db.Preload("Subject").Order("date desc").Find(&olympiads).Error; err != nil {
		return nil, err
	}
	return olympiads, nil
}

func UpdateOlympiad(db *gorm.DB, olympiad *models.Olympiad) error {
	return db.Save(olympiad).Error
}

func DeleteOlympiad(db *gorm.DB, id uint) error {
	return db.Delete(&models.Olympiad{}, id).Error
}

// Registration CRUD

func CreateRegistration(db *gorm.DB, reg *models.Registration) error {
	return db.Create(reg).Error
}

func GetRegistrationByID(db *gorm.DB, id uint) (*models.Registration, error) {
	var reg models.Registration
	if err := db.Preload("Child").Preload("Olympiad").First(&reg, id).Error; err != nil {
		return nil, err
	}
	return &reg, nil
}

func GetRegistrationsBySchool(db *gorm.DB, schoolID uint) ([]models.Registration, error) {
	var regs []models.Registration
	err := db.Preload("Child").Preload("Olympiad").
		Where("school_id = ? AND is_deleted = ?", schoolID, false).
		Order("created_at desc").
		Find(&regs).Error
	if err != nil {
		return nil, err
	}
	return regs, nil
}

func GetRegistrationsByChild(db *gorm.DB, childID string) ([]models.Registration, error) {
	var regs []models.Registration
	err := db.Preload("Olympiad").
		Where("child_id = ? AND is_deleted = ?", childID, false).
		Order("created_at desc").
		Find(&regs).Error
	if err != nil {
		return nil, err
	}
	return regs, nil
}

func UpdateRegistration(db *gorm.DB, reg *models.Registration) error {
	return db.Save(reg).Error
}

// SoftDeleteRegistration flags the registration without destroying the
// approval trail.
func SoftDeleteRegistration(db *gorm.DB, id uint) error {
	return db.Model(&models.Registration{}).Where("id = ?", id).Update("is_deleted", true).Error
}

// Recommendation CRUD

func CreateRecommendation(db *gorm.DB, rec *models.Recommendation) error {
	return db.Create(rec).Error
}

func GetRecommendationsForUser(db *gorm.DB, userID string) ([]models.Recommendation, error) {
	var recs []models.Recommendation
	if err := db.Where("recommended_to_id = ?", userID).Order("created_at desc").Find(&recs).Error; err != nil {
		return nil, err
	}
	return recs, nil
}

func UpdateRecommendationStatus(db *gorm.DB, id uint, status models.RecommendationStatus) error {
	return db.Model(&models.Recommendation{}).Where("id = ?", id).Update("status", status).Error
}

// Audit log

func RecordAudit(db *gorm.DB, userID, action, object string, schoolID *uint) error {
	entry := models.AuditLog{
		UserID:   userID,
		Action:   action,
		Object:   object,
		SchoolID: schoolID,
	}
	return db.Create(&entry).Error
}

func GetAuditLog(db *gorm.DB, schoolID *uint, limit int) ([]models.AuditLog, error) {
	query := db.Order("created_at desc")
	if schoolID != nil {
		query = query.Where("school_id = ?", *schoolID)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}
	var entries []models.AuditLog
	if err := query.Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}
