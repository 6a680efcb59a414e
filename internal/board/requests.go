package board

import (
	"fmt"
	"strings"
	"time"

	"jobboard/internal/auth"
	"jobboard/internal/database"
	"jobboard/internal/validation"
)

// RegisterRequest is a self-service sign-up. Admin accounts cannot be created this way.
type RegisterRequest struct {
	Name                 string  `json:"name"`
	Email                string  `json:"email"`
	Password             string  `json:"password"`
	PasswordConfirmation string  `json:"password_confirmation"`
	Role                 string  `json:"role"`
	Phone                *string `json:"phone"`
	Bio                  *string `json:"bio"`
}

func (r RegisterRequest) Validate() validation.Errors {
	var errs validation.Errors
	if errs.Required("name", r.Name) {
		errs.MaxLen("name", r.Name, 255)
	}
	if errs.Required("email", r.Email) {
		errs.Email("email", r.Email)
		errs.MaxLen("email", r.Email, 255)
	}
	validatePassword(&errs, "password", r.Password, r.PasswordConfirmation)
	if errs.Required("role", r.Role) {
		errs.OneOf("role", r.Role, []string{database.RoleCandidate, database.RoleEmployer})
	}
	if r.Phone != nil {
		errs.MaxLen("phone", *r.Phone, 20)
	}
	if r.Bio != nil {
		errs.MaxLen("bio", *r.Bio, 500)
	}
	return errs
}

// LoginRequest carries credentials.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r LoginRequest) Validate() validation.Errors {
	var errs validation.Errors
	if errs.Required("email", r.Email) {
		errs.Email("email", r.Email)
	}
	errs.Required("password", r.Password)
	return errs
}

// ChangePasswordRequest replaces the caller's password.
type ChangePasswordRequest struct {
	CurrentPassword         string `json:"current_password"`
	NewPassword             string `json:"new_password"`
	NewPasswordConfirmation string `json:"new_password_confirmation"`
}

func (r ChangePasswordRequest) Validate() validation.Errors {
	var errs validation.Errors
	errs.Required("current_password", r.CurrentPassword)
	validatePassword(&errs, "new_password", r.NewPassword, r.NewPasswordConfirmation)
	if r.NewPassword != "" && r.NewPassword == r.CurrentPassword {
		errs.Add("new_password", "The new password must be different from the current password.")
	}
	return errs
}

func validatePassword(errs *validation.Errors, field, password, confirmation string) {
	if !errs.Required(field, password) {
		return
	}
	errs.MinLen(field, password, 8)
	// bcrypt only reads the first MaxPasswordBytes.
	if len(password) > auth.MaxPasswordBytes {
		errs.Add(field, fmt.Sprintf("The %s may not be greater than %d bytes.", strings.ReplaceAll(field, "_", " "), auth.MaxPasswordBytes))
	}
	if password != confirmation {
		errs.Add(field, "The "+strings.ReplaceAll(field, "_", " ")+" confirmation does not match.")
	}
}

// JobRequest creates a job or, with Partial set, patches one.
// Nil fields are absent from the request body.
type JobRequest struct {
	Title               *string  `json:"title"`
	Description         *string  `json:"description"`
	Company             *string  `json:"company"`
	Location            *string  `json:"location"`
	Salary              *float64 `json:"salary"`
	Type                *string  `json:"type"`
	Category            *string  `json:"category"`
	ApplicationDeadline *string  `json:"application_deadline"`
	IsActive            *bool    `json:"is_active"`

	// EmployerID is accepted so it can be ignored; the owner always comes from the actor.
	EmployerID *uint `json:"employer_id"`
}

// Validate checks the request. On success the parsed deadline is returned;
// it is nil when no deadline was supplied.
func (r JobRequest) Validate(partial bool, now time.Time) (*time.Time, validation.Errors) {
	var errs validation.Errors
	text := func(field string, value *string, max int) {
		if value == nil {
			if !partial {
				errs.Required(field, "")
			}
			return
		}
		if errs.Required(field, *value) && max > 0 {
			errs.MaxLen(field, *value, max)
		}
	}
	text("title", r.Title, 255)
	text("description", r.Description, 0)
	text("company", r.Company, 255)
	text("location", r.Location, 255)
	if r.Salary != nil {
		errs.NonNegative("salary", *r.Salary)
	}
	enum := func(field string, value *string, allowed []string) {
		if value == nil {
			if !partial {
				errs.Required(field, "")
			}
			return
		}
		if errs.Required(field, *value) {
			errs.OneOf(field, *value, allowed)
		}
	}
	enum("type", r.Type, database.JobTypes)
	enum("category", r.Category, database.JobCategories)

	var deadline *time.Time
	if r.ApplicationDeadline != nil && strings.TrimSpace(*r.ApplicationDeadline) != "" {
		if d, ok := errs.AfterToday("application_deadline", *r.ApplicationDeadline, now); ok {
			deadline = &d
		}
	}
	return deadline, errs
}

// ApplyRequest is a candidate's application to a job.
type ApplyRequest struct {
	CoverLetter string  `json:"cover_letter"`
	Resume      *string `json:"resume"`
}

// Validate checks the request. resumeOwned reports whether a resume key belongs to the applicant.
func (r ApplyRequest) Validate(resumeOwned func(string) bool) validation.Errors {
	var errs validation.Errors
	if errs.Required("cover_letter", r.CoverLetter) {
		errs.MinLen("cover_letter", r.CoverLetter, 50)
		errs.MaxLen("cover_letter", r.CoverLetter, 2000)
	}
	if r.Resume != nil && *r.Resume != "" && !resumeOwned(*r.Resume) {
		errs.Add("resume", "The selected resume is invalid.")
	}
	return errs
}

// StatusRequest moves an application to any status.
type StatusRequest struct {
	Status   string  `json:"status"`
	Feedback *string `json:"feedback"`
}

func (r StatusRequest) Validate() validation.Errors {
	var errs validation.Errors
	if errs.Required("status", r.Status) {
		errs.OneOf("status", r.Status, database.ApplicationStatuses)
	}
	if r.Feedback != nil {
		errs.MaxLen("feedback", *r.Feedback, 1000)
	}
	return errs
}

// RoleRequest is an admin's role change for one user.
type RoleRequest struct {
	Role string `json:"role"`
}

func (r RoleRequest) Validate() validation.Errors {
	var errs validation.Errors
	if errs.Required("role", r.Role) {
		errs.OneOf("role", r.Role, []string{database.RoleAdmin, database.RoleEmployer, database.RoleCandidate})
	}
	return errs
}
