package board

import (
	"strings"
	"testing"
	"time"

	"gorm.io/gorm"

	"jobboard/internal/auth"
	"jobboard/internal/database"
	"jobboard/internal/database/dbtest"
)

var testNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func newTestServices(t *testing.T) (*Services, *gorm.DB) {
	t.Helper()
	db := dbtest.Open(t)
	return New(db, func() time.Time { return testNow }), db
}

func actorFor(u database.User) auth.Actor {
	return auth.Actor{UserID: u.ID, Role: auth.Role(u.Role)}
}

func ptr[T any](v T) *T { return &v }

func coverLetter() string {
	return strings.Repeat("I would love to work here. ", 3)
}

func validJobRequest(title string) JobRequest {
	return JobRequest{
		Title:       ptr(title),
		Description: ptr("Build and run services."),
		Company:     ptr("Acme"),
		Location:    ptr("Remote"),
		Type:        ptr("full_time"),
		Category:    ptr("technology"),
	}
}
