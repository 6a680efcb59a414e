package board

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobboard/internal/database"
	"jobboard/internal/database/dbtest"
	"jobboard/internal/errcode"
)

func TestToggleParity(t *testing.T) {
	svc, db := newTestServices(t)
	ctx := context.Background()
	user := dbtest.CreateUser(t, db, "Candidate", database.RoleCandidate)
	employer := dbtest.CreateUser(t, db, "Employer", database.RoleEmployer)
	job := dbtest.CreateJob(t, db, employer.ID, "Job", true)

	for n := 1; n <= 5; n++ {
		favorite, err := svc.Favorites.Toggle(ctx, actorFor(user), job.ID)
		require.NoError(t, err)
		assert.Equal(t, n%2 == 1, favorite, "toggle %d", n)

		var rows int64
		db.Model(&database.Favorite{}).Where("user_id = ? AND job_id = ?", user.ID, job.ID).Count(&rows)
		assert.LessOrEqual(t, rows, int64(1))
		assert.Equal(t, n%2 == 1, rows == 1)

		checked, err := svc.Favorites.Check(ctx, actorFor(user), job.ID)
		require.NoError(t, err)
		assert.Equal(t, favorite, checked)
	}
}

func TestToggleRequiresActiveJobButCheckDoesNot(t *testing.T) {
	svc, db := newTestServices(t)
	ctx := context.Background()
	user := dbtest.CreateUser(t, db, "Candidate", database.RoleCandidate)
	employer := dbtest.CreateUser(t, db, "Employer", database.RoleEmployer)
	job := dbtest.CreateJob(t, db, employer.ID, "Job", true)

	_, err := svc.Favorites.Toggle(ctx, actorFor(user), job.ID)
	require.NoError(t, err)
	require.NoError(t, db.Model(&job).Update("is_active", false).Error)

	_, err = svc.Favorites.Toggle(ctx, actorFor(user), job.ID)
	assert.True(t, errcode.Is(err, errcode.KindNotFound))

	favorite, err := svc.Favorites.Check(ctx, actorFor(user), job.ID)
	require.NoError(t, err)
	assert.True(t, favorite)

	list, err := svc.Favorites.List(ctx, actorFor(user), 1)
	require.NoError(t, err)
	require.Len(t, list.Data, 1)
	require.NotNil(t, list.Data[0].Job)
	assert.Equal(t, employer.ID, list.Data[0].Job.Employer.ID)
}
