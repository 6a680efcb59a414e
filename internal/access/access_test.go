package access

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobboard/internal/auth"
	"jobboard/internal/database"
	"jobboard/internal/database/dbtest"
	"jobboard/internal/errcode"
)

func TestFindJobOwnership(t *testing.T) {
	db := dbtest.Open(t)
	owner := dbtest.CreateUser(t, db, "Owner", database.RoleEmployer)
	other := dbtest.CreateUser(t, db, "Other", database.RoleEmployer)
	admin := dbtest.CreateUser(t, db, "Admin", database.RoleAdmin)
	job := dbtest.CreateJob(t, db, owner.ID, "Backend", false)
	ctx := context.Background()

	got, err := Find[database.Job](ctx, db, "Job", job.ID, JobsOwnedBy(auth.Actor{UserID: owner.ID, Role: auth.RoleEmployer}))
	require.NoError(t, err)
	assert.Equal(t, job.ID, got.ID)

	_, foreignErr := Find[database.Job](ctx, db, "Job", job.ID, JobsOwnedBy(auth.Actor{UserID: other.ID, Role: auth.RoleEmployer}))
	_, missingErr := Find[database.Job](ctx, db, "Job", job.ID+100, JobsOwnedBy(auth.Actor{UserID: other.ID, Role: auth.RoleEmployer}))
	require.Error(t, foreignErr)
	require.Error(t, missingErr)
	assert.True(t, errcode.Is(foreignErr, errcode.KindNotFound))
	assert.Equal(t, missingErr.Error(), foreignErr.Error(), "foreign and missing rows look identical")

	_, err = Find[database.Job](ctx, db, "Job", job.ID, JobsOwnedBy(auth.Actor{UserID: admin.ID, Role: auth.RoleAdmin}))
	assert.NoError(t, err)

	_, err = Find[database.Job](ctx, db, "Job", job.ID, ActiveJobs)
	assert.True(t, errcode.Is(err, errcode.KindNotFound), "inactive job is hidden from the public")
}

func TestApplicationScopes(t *testing.T) {
	db := dbtest.Open(t)
	employer := dbtest.CreateUser(t, db, "Employer", database.RoleEmployer)
	rival := dbtest.CreateUser(t, db, "Rival", database.RoleEmployer)
	candidate := dbtest.CreateUser(t, db, "Candidate", database.RoleCandidate)
	stranger := dbtest.CreateUser(t, db, "Stranger", database.RoleCandidate)
	job := dbtest.CreateJob(t, db, employer.ID, "Designer", true)

	app := database.Application{JobID: job.ID, CandidateID: candidate.ID, CoverLetter: "hello", Status: database.StatusPending}
	require.NoError(t, db.Create(&app).Error)
	ctx := context.Background()

	_, err := Find[database.Application](ctx, db, "Application", app.ID, ApplicationsForEmployer(auth.Actor{UserID: employer.ID, Role: auth.RoleEmployer}))
	assert.NoError(t, err)
	_, err = Find[database.Application](ctx, db, "Application", app.ID, ApplicationsForEmployer(auth.Actor{UserID: rival.ID, Role: auth.RoleEmployer}))
	assert.True(t, errcode.Is(err, errcode.KindNotFound))

	_, err = Find[database.Application](ctx, db, "Application", app.ID, ApplicationsOfCandidate(auth.Actor{UserID: candidate.ID, Role: auth.RoleCandidate}))
	assert.NoError(t, err)
	_, err = Find[database.Application](ctx, db, "Application", app.ID, ApplicationsOfCandidate(auth.Actor{UserID: stranger.ID, Role: auth.RoleCandidate}))
	assert.True(t, errcode.Is(err, errcode.KindNotFound))
}

func TestParseID(t *testing.T) {
	id, err := ParseID("17", "Job")
	require.NoError(t, err)
	assert.Equal(t, uint(17), id)

	for _, raw := range []string{"", "0", "-3", "abc", "1.5"} {
		_, err := ParseID(raw, "Job")
		assert.True(t, errcode.Is(err, errcode.KindNotFound), raw)
	}
}
