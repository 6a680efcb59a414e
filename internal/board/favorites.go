package board

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"jobboard/internal/access"
	"jobboard/internal/auth"
	"jobboard/internal/database"
	"jobboard/internal/errcode"
	"jobboard/internal/listing"
	"jobboard/internal/metrics"
)

// FavoriteService keeps per-user bookmarks of jobs.
type FavoriteService struct {
	db *gorm.DB
}

func NewFavoriteService(db *gorm.DB) *FavoriteService {
	return &FavoriteService{db: db}
}

// Toggle flips whether the actor has favorited an active job and reports the new state.
// Delete-then-insert inside one transaction, with the unique index and ON CONFLICT
// DO NOTHING, keeps concurrent toggles from duplicating the row.
func (s *FavoriteService) Toggle(ctx context.Context, actor auth.Actor, jobID uint) (bool, error) {
	job, err := access.Find[database.Job](ctx, s.db, jobNoun, jobID, access.ActiveJobs)
	if err != nil {
		return false, err
	}

	var favorite bool
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		removed := tx.Where("user_id = ? AND job_id = ?", actor.UserID, job.ID).Delete(&database.Favorite{})
		if removed.Error != nil {
			return removed.Error
		}
		if removed.RowsAffected > 0 {
			favorite = false
			return nil
		}
		row := database.Favorite{UserID: actor.UserID, JobID: job.ID}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&row).Error; err != nil {
			return err
		}
		favorite = true
		return nil
	})
	if err != nil {
		return false, errcode.Internal("toggle favorite", err)
	}
	metrics.FavoriteToggles.WithLabelValues(toggleLabel(favorite)).Inc()
	return favorite, nil
}

func toggleLabel(added bool) string {
	if added {
		return "added"
	}
	return "removed"
}

// Check reports whether the actor has favorited the job, active or not.
func (s *FavoriteService) Check(ctx context.Context, actor auth.Actor, jobID uint) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&database.Favorite{}).
		Where("user_id = ? AND job_id = ?", actor.UserID, jobID).
		Count(&count).Error
	if err != nil {
		return false, errcode.Internal("check favorite", err)
	}
	return count > 0, nil
}

// List returns the actor's favorites, newest first, with job and employer.
func (s *FavoriteService) List(ctx context.Context, actor auth.Actor, page int) (listing.Page[database.Favorite], error) {
	base := s.db.Model(&database.Favorite{}).Where("favorites.user_id = ?", actor.UserID)
	result, err := listing.Paginate[database.Favorite](ctx, base, page, func(db *gorm.DB) *gorm.DB {
		return db.Preload("Job.Employer").Order("favorites.created_at DESC").Order("favorites.id DESC")
	})
	if err != nil {
		return result, errcode.Internal("list favorites", err)
	}
	return result, nil
}
