package worker

import (
	"context"
	"errors"
	"testing"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobboard/internal/tasks"
)

type fakeExpirer struct {
	count int64
	err   error
	calls int
}

func (f *fakeExpirer) ExpirePastDeadline(context.Context) (int64, error) {
	f.calls++
	return f.count, f.err
}

type fakeDeleter struct {
	prefixes []string
	err      error
}

func (f *fakeDeleter) DeletePrefix(_ context.Context, prefix string) (int, error) {
	f.prefixes = append(f.prefixes, prefix)
	return 2, f.err
}

func TestExpireJobsHandler(t *testing.T) {
	expirer := &fakeExpirer{count: 3}
	h := NewExpireJobsHandler(expirer, nil)

	require.NoError(t, h.ProcessTask(context.Background(), tasks.NewJobsExpireTask()))
	assert.Equal(t, 1, expirer.calls)

	expirer.err = errors.New("db down")
	assert.Error(t, h.ProcessTask(context.Background(), tasks.NewJobsExpireTask()))
}

func TestPurgeUserHandler(t *testing.T) {
	deleter := &fakeDeleter{}
	h := NewPurgeUserHandler(deleter, nil)

	task, err := tasks.NewStoragePurgeUserTask(12, "cid")
	require.NoError(t, err)
	require.NoError(t, h.ProcessTask(context.Background(), task))
	assert.Equal(t, []string{"candidate-resumes/12/"}, deleter.prefixes)

	deleter.err = errors.New("minio down")
	err = h.ProcessTask(context.Background(), task)
	require.Error(t, err)
	assert.False(t, errors.Is(err, asynq.SkipRetry))
}

func TestPurgeUserHandlerSkipsRetryOnBadPayload(t *testing.T) {
	h := NewPurgeUserHandler(&fakeDeleter{}, nil)

	err := h.ProcessTask(context.Background(), asynq.NewTask(tasks.TypeStoragePurgeUser, []byte("{")))
	assert.ErrorIs(t, err, asynq.SkipRetry)

	err = h.ProcessTask(context.Background(), asynq.NewTask(tasks.TypeStoragePurgeUser, []byte(`{"user_id":0}`)))
	assert.ErrorIs(t, err, asynq.SkipRetry)
}
