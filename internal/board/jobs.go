package board

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"jobboard/internal/access"
	"jobboard/internal/auth"
	"jobboard/internal/database"
	"jobboard/internal/errcode"
	"jobboard/internal/listing"
)

const jobNoun = "Job"

const applicationsCountColumn = "(SELECT COUNT(*) FROM applications WHERE applications.job_id = jobs.id) AS applications_count"

// JobService owns job postings.
type JobService struct {
	db    *gorm.DB
	clock Clock
}

func NewJobService(db *gorm.DB, clock Clock) *JobService {
	return &JobService{db: db, clock: clock}
}

// Create stores a new posting owned by the actor. Any employer id in the request is ignored.
func (s *JobService) Create(ctx context.Context, actor auth.Actor, req JobRequest) (*database.Job, error) {
	deadline, errs := req.Validate(false, s.clock.now())
	if err := errs.Err(); err != nil {
		return nil, err
	}

	job := database.Job{
		EmployerID:  actor.UserID,
		Title:       strings.TrimSpace(*req.Title),
		Description: *req.Description,
		Company:     strings.TrimSpace(*req.Company),
		Location:    strings.TrimSpace(*req.Location),
		Salary:      req.Salary,
		Type:        *req.Type,
		Category:    *req.Category,
		IsActive:    true,
	}
	if deadline != nil {
		d := datatypes.Date(*deadline)
		job.ApplicationDeadline = &d
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&job).Error; err != nil {
			return err
		}
		// is_active has default:true, so gorm skips a zero-value false on insert.
		if req.IsActive != nil && !*req.IsActive {
			if err := tx.Model(&job).Update("is_active", false).Error; err != nil {
				return err
			}
			job.IsActive = false
		}
		return nil
	})
	if err != nil {
		return nil, errcode.Internal("create job", err)
	}
	return &job, nil
}

// Update applies the supplied fields to a job the actor owns.
func (s *JobService) Update(ctx context.Context, actor auth.Actor, id uint, req JobRequest) (*database.Job, error) {
	job, err := access.Find[database.Job](ctx, s.db, jobNoun, id, access.JobsOwnedBy(actor))
	if err != nil {
		return nil, err
	}
	deadline, errs := req.Validate(true, s.clock.now())
	if err := errs.Err(); err != nil {
		return nil, err
	}

	changes := map[string]any{}
	setText := func(column string, value *string) {
		if value != nil {
			changes[column] = strings.TrimSpace(*value)
		}
	}
	setText("title", req.Title)
	if req.Description != nil {
		changes["description"] = *req.Description
	}
	setText("company", req.Company)
	setText("location", req.Location)
	setText("type", req.Type)
	setText("category", req.Category)
	if req.Salary != nil {
		changes["salary"] = *req.Salary
	}
	if req.ApplicationDeadline != nil {
		if deadline == nil {
			changes["application_deadline"] = nil
		} else {
			changes["application_deadline"] = datatypes.Date(*deadline)
		}
	}
	if req.IsActive != nil {
		changes["is_active"] = *req.IsActive
	}
	if len(changes) == 0 {
		return job, nil
	}

	if err := s.db.WithContext(ctx).Model(job).Updates(changes).Error; err != nil {
		return nil, errcode.Internal("update job", err)
	}
	return access.Find[database.Job](ctx, s.db, jobNoun, id)
}

// Delete removes a job the actor owns together with its applications and favorites.
func (s *JobService) Delete(ctx context.Context, actor auth.Actor, id uint) error {
	job, err := access.Find[database.Job](ctx, s.db, jobNoun, id, access.JobsOwnedBy(actor))
	if err != nil {
		return err
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return deleteJobs(tx, tx.Model(&database.Job{}).Select("id").Where("id = ?", job.ID))
	})
	if err != nil {
		return errcode.Internal("delete job", err)
	}
	return nil
}

// deleteJobs removes the jobs selected by ids and everything hanging off them.
func deleteJobs(tx *gorm.DB, ids *gorm.DB) error {
	if err := tx.Where("job_id IN (?)", ids).Delete(&database.Favorite{}).Error; err != nil {
		return fmt.Errorf("delete favorites: %w", err)
	}
	if err := tx.Where("job_id IN (?)", ids).Delete(&database.Application{}).Error; err != nil {
		return fmt.Errorf("delete applications: %w", err)
	}
	if err := tx.Where("id IN (?)", ids).Delete(&database.Job{}).Error; err != nil {
		return fmt.Errorf("delete jobs: %w", err)
	}
	return nil
}

// Show returns one active job with its employer. Inactive jobs are not found.
func (s *JobService) Show(ctx context.Context, id uint) (*database.Job, error) {
	return access.Find[database.Job](ctx, s.db.Preload("Employer"), jobNoun, id, access.ActiveJobs)
}

// ListPublic lists active jobs.
func (s *JobService) ListPublic(ctx context.Context, q listing.Query) (listing.Page[database.Job], error) {
	base := s.db.Model(&database.Job{}).Scopes(access.ActiveJobs, q.Filters)
	return s.page(ctx, base, q, withEmployer)
}

// ListMine lists the actor's own jobs, active or not, with application counts.
func (s *JobService) ListMine(ctx context.Context, actor auth.Actor, q listing.Query) (listing.Page[database.Job], error) {
	base := s.db.Model(&database.Job{}).Scopes(access.JobsOwnedBy(actor), q.Filters)
	return s.page(ctx, base, q, withApplicationsCount)
}

// ListAll lists every job with employer and application counts.
func (s *JobService) ListAll(ctx context.Context, q listing.Query) (listing.Page[database.Job], error) {
	base := s.db.Model(&database.Job{}).Scopes(q.Filters)
	return s.page(ctx, base, q, withEmployer, withApplicationsCount)
}

func (s *JobService) page(ctx context.Context, base *gorm.DB, q listing.Query, present ...func(*gorm.DB) *gorm.DB) (listing.Page[database.Job], error) {
	page, err := listing.Paginate[database.Job](ctx, base, q.Page, append(present, q.Order)...)
	if err != nil {
		return page, errcode.Internal("list jobs", err)
	}
	return page, nil
}

func withEmployer(db *gorm.DB) *gorm.DB {
	return db.Preload("Employer")
}

func withApplicationsCount(db *gorm.DB) *gorm.DB {
	return db.Select("jobs.*", applicationsCountColumn)
}

// ExpirePastDeadline deactivates active jobs whose deadline is before today.
func (s *JobService) ExpirePastDeadline(ctx context.Context) (int64, error) {
	y, m, d := s.clock.now().UTC().Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	result := s.db.WithContext(ctx).
		Model(&database.Job{}).
		Where("is_active = ? AND application_deadline IS NOT NULL AND application_deadline < ?", true, datatypes.Date(today)).
		Update("is_active", false)
	if result.Error != nil {
		return 0, errcode.Internal("expire jobs", result.Error)
	}
	return result.RowsAffected, nil
}
