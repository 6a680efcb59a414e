// Package board implements the job board's use cases.
//
// Every operation that acts on behalf of a user takes the caller's auth.Actor
// explicitly; row visibility is decided by the scopes in package access.
package board

import (
	"time"

	"gorm.io/gorm"
)

// Clock returns the current time. Services take one so deadline checks are testable.
type Clock func() time.Time

func (c Clock) now() time.Time {
	if c == nil {
		return time.Now()
	}
	return c()
}

// Services bundles every use case over one database handle.
type Services struct {
	Accounts     *AccountService
	Jobs         *JobService
	Applications *ApplicationService
	Favorites    *FavoriteService
	Admin        *AdminService
}

// New wires all services to db.
func New(db *gorm.DB, clock Clock) *Services {
	return &Services{
		Accounts:     NewAccountService(db),
		Jobs:         NewJobService(db, clock),
		Applications: NewApplicationService(db),
		Favorites:    NewFavoriteService(db),
		Admin:        NewAdminService(db),
	}
}
