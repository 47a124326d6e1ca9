package models

import (
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
)

// Stage is the closed set of olympiad stages. Free-text stage names from
// imports and API payloads are resolved to one of these identifiers once,
// at ingestion time.
type Stage string

const (
	StageSchool   Stage = "school"
	StageCity     Stage = "city"
	StageRegional Stage = "regional"
	StageFinal    Stage = "final"
)

var stageNames = map[string]Stage{
	"school":        StageSchool,
	"школьный":      StageSchool,
	"city":          StageCity,
	"городской":     StageCity,
	"regional":      StageRegional,
	"региональный":  StageRegional,
	"final":         StageFinal,
	"заключительный": StageFinal,
}

// ParseStage resolves a stage name to its identifier. Matching is
// case-insensitive and accepts both the canonical identifiers and the
// Russian display names used in spreadsheets.
func ParseStage(s string) (Stage, error) {
	if stage, ok := stageNames[strings.ToLower(strings.TrimSpace(s))]; ok {
		return stage, nil
	}
	return "", fmt.Errorf("unknown olympiad stage: %q", s)
}

func (s Stage) DisplayName() string {
	switch s {
	case StageSchool:
		return "Школьный"
	case StageCity:
		return "Городской"
	case StageRegional:
		return "Региональный"
	case StageFinal:
		return "Заключительный"
	}
	return string(s)
}

// ResultStatus is the outcome of a participation, derived from the raw
// score and the stage thresholds.
type ResultStatus string

const (
	StatusParticipant ResultStatus = "participant"
	StatusPrize       ResultStatus = "prize"
	StatusWinner      ResultStatus = "winner"
)

func (s ResultStatus) DisplayName() string {
	switch s {
	case StatusParticipant:
		return "Участник"
	case StatusPrize:
		return "Призер"
	case StatusWinner:
		return "Победитель"
	}
	return string(s)
}

type MedalType string

const (
	MedalBronze   MedalType = "bronze"
	MedalSilver   MedalType = "silver"
	MedalGold     MedalType = "gold"
	MedalPlatinum MedalType = "platinum"
	MedalRuby     MedalType = "ruby"
	MedalDiamond  MedalType = "diamond"
	MedalPersonal MedalType = "personal"
)

type LeagueType string

const (
	LeagueBronze   LeagueType = "bronze"
	LeagueSilver   LeagueType = "silver"
	LeagueGold     LeagueType = "gold"
	LeaguePlatinum LeagueType = "platinum"
	LeagueRuby     LeagueType = "ruby"
	LeagueDiamond  LeagueType = "diamond"
)

type SchoolStatus string

const (
	SchoolPending  SchoolStatus = "pending"
	SchoolApproved SchoolStatus = "approved"
	SchoolRejected SchoolStatus = "rejected"
)

type RecommendationStatus string

const (
	RecommendationPending  RecommendationStatus = "pending"
	RecommendationAccepted RecommendationStatus = "accepted"
	RecommendationDeclined RecommendationStatus = "declined"
)

type User struct {
	ID        string `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`

	Username     string `gorm:"uniqueIndex" json:"username"`
	PasswordHash string `json:"-"`

	FirstName  string     `json:"first_name"`
	LastName   string     `json:"last_name"`
	Patronymic string     `json:"patronymic"`
	BirthDate  *time.Time `json:"birth_date"`
	Gender     string     `json:"gender"`
	AvatarURL  string     `json:"avatar_url"`

	TelegramChatID        string     `json:"telegram_chat_id"`
	TelegramLinkCode      string     `json:"-"`
	TelegramLinkCreatedAt *time.Time `json:"-"`

	IsChild    bool `json:"is_child"`
	IsTeacher  bool `json:"is_teacher"`
	IsAdmin    bool `json:"is_admin"`
	IsManager  bool `json:"is_manager"`
	IsExpelled bool `json:"is_expelled"`

	SchoolID    *uint      `gorm:"index" json:"school_id"`
	ClassroomID *uint      `gorm:"index" json:"classroom_id"`
	Classroom   *Classroom `json:"classroom,omitempty"`
}

// FullName returns "Last First Patronymic" with the patronymic omitted
// when absent.
func (u *User) FullName() string {
	return strings.TrimSpace(fmt.Sprintf("%s %s %s", u.LastName, u.FirstName, u.Patronymic))
}

type School struct {
	ID        uint `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Name          string       `gorm:"uniqueIndex" json:"name"`
	Address       string       `json:"address"`
	Region        string       `json:"region"`
	Locality      string       `json:"locality"`
	PrincipalName string       `json:"principal_name"`
	ContactEmail  string       `json:"contact_email"`
	ContactPhone  string       `json:"contact_phone"`
	Status        SchoolStatus `gorm:"index" json:"status"`

	AdminUserID     *string `json:"admin_user_id"`
	CredentialsSent bool    `json:"credentials_sent"`
}

type Classroom struct {
	ID        uint `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Number         int     `json:"number"`
	Letter         string  `json:"letter"`
	TeacherID      *string `json:"teacher_id"`
	SchoolID       uint    `gorm:"index" json:"school_id"`
	IsGraduated    bool    `json:"is_graduated"`
	GraduationYear *int    `json:"graduation_year"`
}

type Subject struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"uniqueIndex" json:"name"`
}

// Position is a staff job title (завуч, педагог-организатор, ...)
// assignable to teachers.
type Position struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"uniqueIndex" json:"name"`
}

type Olympiad struct {
	ID        uint `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Name        string   `gorm:"index" json:"name"`
	Description string   `json:"description"`
	SubjectID   uint     `json:"subject_id"`
	Subject     *Subject `json:"subject,omitempty"`
	Level       string   `json:"level"`
	Category    string   `json:"category"`
	Grade       int      `json:"grade"`
	Stage       Stage    `gorm:"index" json:"stage"`

	Date     *time.Time `json:"date"`
	Location string     `json:"location"`
}

// Registration is a school's request to enter a child into an olympiad.
// It passes through teacher approval, admin approval and finally the
// send to the olympiad organizers.
type Registration struct {
	ID        uint `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time
	UpdatedAt time.Time

	SchoolID   uint      `gorm:"index" json:"school_id"`
	TeacherID  *string   `json:"teacher_id"`
	ChildID    string    `gorm:"index" json:"child_id"`
	Child      *User     `gorm:"foreignKey:ChildID" json:"child,omitempty"`
	OlympiadID uint      `gorm:"index" json:"olympiad_id"`
	Olympiad   *Olympiad `json:"olympiad,omitempty"`

	ApprovedByTeacher bool `json:"approved_by_teacher"`
	ApprovedByAdmin   bool `json:"approved_by_admin"`
	Sent              bool `json:"sent"`
	IsDeleted         bool `gorm:"index" json:"is_deleted"`
}

type Recommendation struct {
	ID        uint `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time
	UpdatedAt time.Time

	SchoolID        uint                 `gorm:"index" json:"school_id"`
	RecommendedByID string               `gorm:"uniqueIndex:idx_recommendation" json:"recommended_by_id"`
	RecommendedToID string               `gorm:"uniqueIndex:idx_recommendation" json:"recommended_to_id"`
	ChildID         string               `gorm:"uniqueIndex:idx_recommendation" json:"child_id"`
	OlympiadID      uint                 `gorm:"uniqueIndex:idx_recommendation" json:"olympiad_id"`
	Status          RecommendationStatus `json:"status"`
}

// Result is one participation outcome. A user has at most one result per
// olympiad; re-recording a score updates the row in place. AwardedPoints
// holds the rating points last applied for this result, so a re-save
// applies only the difference and an unchanged score is a no-op.
type Result struct {
	ID        string `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time
	UpdatedAt time.Time

	UserID     string    `gorm:"uniqueIndex:idx_result_user_olympiad" json:"user_id"`
	User       *User     `json:"user,omitempty"`
	OlympiadID uint      `gorm:"uniqueIndex:idx_result_user_olympiad" json:"olympiad_id"`
	Olympiad   *Olympiad `json:"olympiad,omitempty"`
	SchoolID   uint      `gorm:"index" json:"school_id"`

	Score         int          `json:"score"`
	Status        ResultStatus `json:"status"`
	AwardedPoints int          `json:"awarded_points"`
	Advanced      bool         `json:"advanced"`
	Notified      bool         `json:"notified"`
}

// Rating is the per-user cumulative point total with the league derived
// from it. League is re-derived on every points change and is never
// stale; it stays empty when the league table has a gap at the total.
type Rating struct {
	ID        uint `gorm:"primaryKey" json:"id"`
	UpdatedAt time.Time

	UserID string     `gorm:"uniqueIndex" json:"user_id"`
	User   *User      `json:"user,omitempty"`
	Points int        `json:"points"`
	League LeagueType `json:"league"`
}

// League is one admin-curated band of the league table. MaxPoints nil
// means the band is open-ended.
type League struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	Type      LeagueType `gorm:"uniqueIndex" json:"type"`
	MinPoints int        `json:"min_points"`
	MaxPoints *int       `json:"max_points"`
}

// Contains reports whether points falls inside the band.
func (l *League) Contains(points int) bool {
	if points < l.MinPoints {
		return false
	}
	return l.MaxPoints == nil || points <= *l.MaxPoints
}

// Medal is a stage medal tied to one result. The (user, olympiad) unique
// index makes re-recording a result upgrade the medal in place instead
// of awarding a duplicate.
type Medal struct {
	ID        string `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Type       MedalType `gorm:"index" json:"type"`
	UserID     string    `gorm:"uniqueIndex:idx_medal_user_olympiad" json:"user_id"`
	User       *User     `json:"user,omitempty"`
	OlympiadID uint      `gorm:"uniqueIndex:idx_medal_user_olympiad" json:"olympiad_id"`
	Olympiad   *Olympiad `json:"olympiad,omitempty"`
}

// PersonalMedal is a named award granted directly by an administrator.
type PersonalMedal struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"awarded_at"`

	Name   string `json:"name"`
	UserID string `gorm:"index" json:"user_id"`
	User   *User  `json:"user,omitempty"`
}

type AuditLog struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"timestamp"`

	UserID   string `gorm:"index" json:"user_id"`
	Action   string `json:"action"`
	Object   string `json:"object"`
	SchoolID *uint  `gorm:"index" json:"school_id"`
}
