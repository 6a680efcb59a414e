package board

import (
	"context"

	"gorm.io/gorm"

	"jobboard/internal/access"
	"jobboard/internal/auth"
	"jobboard/internal/database"
	"jobboard/internal/errcode"
	"jobboard/internal/listing"
	"jobboard/internal/metrics"
	"jobboard/internal/storage"
)

const applicationNoun = "Application"

// ApplicationService runs the application lifecycle.
type ApplicationService struct {
	db *gorm.DB
}

func NewApplicationService(db *gorm.DB) *ApplicationService {
	return &ApplicationService{db: db}
}

// Apply submits the actor's application to an active job.
// A second application for the same job fails with DuplicateApplication, also when
// two submissions race past the pre-check and the unique index rejects the loser.
func (s *ApplicationService) Apply(ctx context.Context, actor auth.Actor, jobID uint, req ApplyRequest) (*database.Application, error) {
	job, err := access.Find[database.Job](ctx, s.db, jobNoun, jobID, access.ActiveJobs)
	if err != nil {
		return nil, err
	}

	var existing int64
	err = s.db.WithContext(ctx).Model(&database.Application{}).
		Where("job_id = ? AND candidate_id = ?", job.ID, actor.UserID).
		Count(&existing).Error
	if err != nil {
		return nil, errcode.Internal("check existing application", err)
	}
	if existing > 0 {
		return nil, errcode.DuplicateApplication()
	}

	owned := func(key string) bool { return storage.IsResumeKeyOf(actor.UserID, key) }
	if err := req.Validate(owned).Err(); err != nil {
		return nil, err
	}

	app := database.Application{
		JobID:       job.ID,
		CandidateID: actor.UserID,
		CoverLetter: req.CoverLetter,
		Status:      database.StatusPending,
	}
	if req.Resume != nil && *req.Resume != "" {
		app.Resume = req.Resume
	}
	if err := s.db.WithContext(ctx).Create(&app).Error; err != nil {
		if database.IsUniqueViolation(err) {
			return nil, errcode.DuplicateApplication()
		}
		return nil, errcode.Internal("create application", err)
	}
	metrics.ApplicationsSubmitted.Inc()
	return &app, nil
}

// UpdateStatus sets any status on an application against one of the actor's jobs.
// Feedback is replaced, so omitting it clears earlier feedback.
func (s *ApplicationService) UpdateStatus(ctx context.Context, actor auth.Actor, id uint, req StatusRequest) (*database.Application, error) {
	app, err := access.Find[database.Application](ctx, s.db, applicationNoun, id, access.ApplicationsForEmployer(actor))
	if err != nil {
		return nil, err
	}
	if err := req.Validate().Err(); err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).Model(app).Updates(map[string]any{
		"status":   req.Status,
		"feedback": req.Feedback,
	}).Error
	if err != nil {
		return nil, errcode.Internal("update application status", err)
	}
	metrics.ApplicationStatusChanges.WithLabelValues(req.Status).Inc()
	app.Status = req.Status
	app.Feedback = req.Feedback
	return app, nil
}

// ListForCandidate lists the actor's own applications, newest first.
func (s *ApplicationService) ListForCandidate(ctx context.Context, actor auth.Actor, page int) (listing.Page[database.Application], error) {
	base := s.db.Model(&database.Application{}).Scopes(access.ApplicationsOfCandidate(actor))
	return s.page(ctx, base, page, "Job.Employer")
}

// ShowForCandidate returns one of the actor's applications with job and employer.
func (s *ApplicationService) ShowForCandidate(ctx context.Context, actor auth.Actor, id uint) (*database.Application, error) {
	return access.Find[database.Application](ctx, s.db.Preload("Job.Employer"), applicationNoun, id, access.ApplicationsOfCandidate(actor))
}

// ListForEmployer lists applications against the actor's jobs, newest first.
func (s *ApplicationService) ListForEmployer(ctx context.Context, actor auth.Actor, page int) (listing.Page[database.Application], error) {
	base := s.db.Model(&database.Application{}).Scopes(access.ApplicationsForEmployer(actor))
	return s.page(ctx, base, page, "Job", "Candidate")
}

// ListAll lists every application, newest first.
func (s *ApplicationService) ListAll(ctx context.Context, page int) (listing.Page[database.Application], error) {
	return s.page(ctx, s.db.Model(&database.Application{}), page, "Job", "Candidate")
}

func (s *ApplicationService) page(ctx context.Context, base *gorm.DB, page int, preloads ...string) (listing.Page[database.Application], error) {
	present := func(db *gorm.DB) *gorm.DB {
		for _, p := range preloads {
			db = db.Preload(p)
		}
		return db.Order("applications.created_at DESC").Order("applications.id DESC")
	}
	result, err := listing.Paginate[database.Application](ctx, base, page, present)
	if err != nil {
		return result, errcode.Internal("list applications", err)
	}
	return result, nil
}

// ErrNoResume is returned when an application has no resume attached.
var ErrNoResume = errcode.NotFound("Resume not found")

// ResumeForEmployer returns the resume key of an application against the actor's jobs.
func (s *ApplicationService) ResumeForEmployer(ctx context.Context, actor auth.Actor, id uint) (string, error) {
	return s.resume(ctx, id, access.ApplicationsForEmployer(actor))
}

// ResumeForCandidate returns the resume key of one of the actor's applications.
func (s *ApplicationService) ResumeForCandidate(ctx context.Context, actor auth.Actor, id uint) (string, error) {
	return s.resume(ctx, id, access.ApplicationsOfCandidate(actor))
}

func (s *ApplicationService) resume(ctx context.Context, id uint, scope access.Scope) (string, error) {
	app, err := access.Find[database.Application](ctx, s.db, applicationNoun, id, scope)
	if err != nil {
		return "", err
	}
	if app.Resume == nil || *app.Resume == "" {
		return "", ErrNoResume
	}
	return *app.Resume, nil
}
