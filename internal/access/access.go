// Package access encodes who may see which rows as gorm scopes.
//
// A lookup through Find never distinguishes "absent" from "not yours": both
// come back as the same NotFound error.
package access

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"jobboard/internal/auth"
	"jobboard/internal/errcode"
)

// Scope narrows a query. It has the gorm.DB.Scopes signature.
type Scope = func(*gorm.DB) *gorm.DB

// JobsOwnedBy restricts jobs to the actor's own postings. Admins see every job.
func JobsOwnedBy(actor auth.Actor) Scope {
	return func(db *gorm.DB) *gorm.DB {
		if actor.IsAdmin() {
			return db
		}
		return db.Where("jobs.employer_id = ?", actor.UserID)
	}
}

// ActiveJobs restricts jobs to those visible to the public.
func ActiveJobs(db *gorm.DB) *gorm.DB {
	return db.Where("jobs.is_active = ?", true)
}

// ApplicationsOfCandidate restricts applications to the ones the actor submitted.
func ApplicationsOfCandidate(actor auth.Actor) Scope {
	return func(db *gorm.DB) *gorm.DB {
		if actor.IsAdmin() {
			return db
		}
		return db.Where("applications.candidate_id = ?", actor.UserID)
	}
}

// ApplicationsForEmployer restricts applications to those against the actor's jobs.
func ApplicationsForEmployer(actor auth.Actor) Scope {
	return func(db *gorm.DB) *gorm.DB {
		if actor.IsAdmin() {
			return db
		}
		return db.Where(
			"EXISTS (SELECT 1 FROM jobs WHERE jobs.id = applications.job_id AND jobs.employer_id = ?)",
			actor.UserID,
		)
	}
}

// ParseID converts a path parameter into a row id.
// Malformed ids are reported as not found, like any other miss.
func ParseID(raw, what string) (uint, error) {
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, notFound(what)
	}
	return uint(id), nil
}

// Find loads the row with the given id that also satisfies every scope.
func Find[T any](ctx context.Context, db *gorm.DB, what string, id uint, scopes ...Scope) (*T, error) {
	var row T
	err := db.WithContext(ctx).
		Scopes(scopes...).
		Where(clause.Eq{Column: clause.PrimaryColumn, Value: id}).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound(what)
		}
		return nil, errcode.Internal(fmt.Sprintf("find %s", what), err)
	}
	return &row, nil
}

func notFound(what string) error {
	return errcode.NotFound(what + " not found")
}
