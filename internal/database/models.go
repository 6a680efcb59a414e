package database

import (
	"time"

	"gorm.io/datatypes"
)

// Role values stored in users.role.
const (
	RoleAdmin     = "admin"
	RoleEmployer  = "employer"
	RoleCandidate = "candidate"
)

// Job types and categories accepted by the jobs table.
var (
	JobTypes      = []string{"full_time", "part_time", "contract", "internship"}
	JobCategories = []string{"technology", "healthcare", "education", "finance", "other"}
)

// Application statuses. Pending is the initial state.
const (
	StatusPending  = "pending"
	StatusReviewed = "reviewed"
	StatusAccepted = "accepted"
	StatusRejected = "rejected"
)

// ApplicationStatuses lists every status an employer may set.
var ApplicationStatuses = []string{StatusPending, StatusReviewed, StatusAccepted, StatusRejected}

// User is an account with exactly one role.
// Rows are hard deleted so that foreign key cascades fire.
type User struct {
	ID                 uint      `gorm:"primaryKey" json:"id"`
	Name               string    `gorm:"size:255;not null" json:"name"`
	Email              string    `gorm:"size:255;not null;uniqueIndex" json:"email"`
	Role               string    `gorm:"size:16;not null;index" json:"role"`
	PasswordHash       string    `gorm:"size:255;not null" json:"-"`
	Phone              *string   `gorm:"size:20" json:"phone"`
	Bio                *string   `gorm:"size:500" json:"bio"`
	MustChangePassword bool      `gorm:"not null;default:false" json:"must_change_password"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// Job is a posting owned by one employer.
type Job struct {
	ID                  uint            `gorm:"primaryKey" json:"id"`
	EmployerID          uint            `gorm:"not null;index" json:"employer_id"`
	Employer            *User           `gorm:"foreignKey:EmployerID;constraint:OnDelete:CASCADE" json:"employer,omitempty"`
	Title               string          `gorm:"size:255;not null" json:"title"`
	Description         string          `gorm:"type:text;not null" json:"description"`
	Company             string          `gorm:"size:255;not null" json:"company"`
	Location            string          `gorm:"size:255;not null" json:"location"`
	Salary              *float64        `gorm:"type:decimal(10,2)" json:"salary"`
	Type                string          `gorm:"size:32;not null;default:full_time" json:"type"`
	Category            string          `gorm:"size:32;not null;default:technology" json:"category"`
	ApplicationDeadline *datatypes.Date `json:"application_deadline"`
	IsActive            bool            `gorm:"not null;default:true;index" json:"is_active"`
	CreatedAt           time.Time       `gorm:"index" json:"created_at"`
	UpdatedAt           time.Time       `json:"updated_at"`
	ApplicationsCount   *int64          `gorm:"->;-:migration" json:"applications_count,omitempty"`
}

// Application links one candidate to one job; the pair is unique.
type Application struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	JobID       uint      `gorm:"not null;uniqueIndex:idx_applications_job_candidate" json:"job_id"`
	Job         *Job      `gorm:"constraint:OnDelete:CASCADE" json:"job,omitempty"`
	CandidateID uint      `gorm:"not null;uniqueIndex:idx_applications_job_candidate;index" json:"candidate_id"`
	Candidate   *User     `gorm:"foreignKey:CandidateID;constraint:OnDelete:CASCADE" json:"candidate,omitempty"`
	CoverLetter string    `gorm:"type:text;not null" json:"cover_letter"`
	Resume      *string   `gorm:"size:255" json:"resume"`
	Status      string    `gorm:"size:16;not null;default:pending" json:"status"`
	Feedback    *string   `gorm:"type:text" json:"feedback"`
	CreatedAt   time.Time `gorm:"index" json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Favorite marks a job for a user; the pair is unique.
type Favorite struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_favorites_user_job" json:"user_id"`
	User      *User     `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	JobID     uint      `gorm:"not null;uniqueIndex:idx_favorites_user_job;index" json:"job_id"`
	Job       *Job      `gorm:"constraint:OnDelete:CASCADE" json:"job,omitempty"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
}
