package board

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"jobboard/internal/access"
	"jobboard/internal/auth"
	"jobboard/internal/database"
	"jobboard/internal/errcode"
	"jobboard/internal/listing"
)

const userNoun = "User"

// AdminService holds the operations behind the admin panel.
// Route gating guarantees the caller is an admin; the actor is still passed for the self-delete guard.
type AdminService struct {
	db *gorm.DB
}

func NewAdminService(db *gorm.DB) *AdminService {
	return &AdminService{db: db}
}

// Statistics is the admin dashboard summary.
type Statistics struct {
	TotalUsers        int64 `json:"total_users"`
	TotalEmployers    int64 `json:"total_employers"`
	TotalCandidates   int64 `json:"total_candidates"`
	TotalJobs         int64 `json:"total_jobs"`
	ActiveJobs        int64 `json:"active_jobs"`
	TotalApplications int64 `json:"total_applications"`
}

// ListUsers lists every account, newest first.
func (s *AdminService) ListUsers(ctx context.Context, page int) (listing.Page[database.User], error) {
	result, err := listing.Paginate[database.User](ctx, s.db.Model(&database.User{}), page, func(db *gorm.DB) *gorm.DB {
		return db.Order("created_at DESC").Order("id DESC")
	})
	if err != nil {
		return result, errcode.Internal("list users", err)
	}
	return result, nil
}

// UpdateRole replaces a user's single role.
func (s *AdminService) UpdateRole(ctx context.Context, id uint, req RoleRequest) (*database.User, error) {
	user, err := s.findUser(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := req.Validate().Err(); err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Model(user).Update("role", req.Role).Error; err != nil {
		return nil, errcode.Internal("update role", err)
	}
	user.Role = req.Role
	return user, nil
}

// DeleteUser removes an account and everything it owns. Nobody can delete their own account.
func (s *AdminService) DeleteUser(ctx context.Context, actor auth.Actor, id uint) (*database.User, error) {
	if id == actor.UserID {
		return nil, errcode.SelfDeleteForbidden()
	}
	user, err := s.findUser(ctx, id)
	if err != nil {
		return nil, err
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		owned := tx.Model(&database.Job{}).Select("id").Where("employer_id = ?", user.ID)
		if err := deleteJobs(tx, owned); err != nil {
			return err
		}
		if err := tx.Where("candidate_id = ?", user.ID).Delete(&database.Application{}).Error; err != nil {
			return fmt.Errorf("delete applications: %w", err)
		}
		if err := tx.Where("user_id = ?", user.ID).Delete(&database.Favorite{}).Error; err != nil {
			return fmt.Errorf("delete favorites: %w", err)
		}
		return tx.Delete(user).Error
	})
	if err != nil {
		return nil, errcode.Internal("delete user", err)
	}
	return user, nil
}

// Statistics counts users, jobs and applications.
func (s *AdminService) Statistics(ctx context.Context) (Statistics, error) {
	var stats Statistics
	db := s.db.WithContext(ctx)
	counts := []struct {
		into  *int64
		query *gorm.DB
	}{
		{&stats.TotalUsers, db.Model(&database.User{})},
		{&stats.TotalEmployers, db.Model(&database.User{}).Where("role = ?", database.RoleEmployer)},
		{&stats.TotalCandidates, db.Model(&database.User{}).Where("role = ?", database.RoleCandidate)},
		{&stats.TotalJobs, db.Model(&database.Job{})},
		{&stats.ActiveJobs, db.Model(&database.Job{}).Where("is_active = ?", true)},
		{&stats.TotalApplications, db.Model(&database.Application{})},
	}
	for _, c := range counts {
		if err := c.query.Count(c.into).Error; err != nil {
			return Statistics{}, errcode.Internal("count statistics", err)
		}
	}
	return stats, nil
}

func (s *AdminService) findUser(ctx context.Context, id uint) (*database.User, error) {
	return access.Find[database.User](ctx, s.db, userNoun, id)
}
