package validation

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobboard/internal/errcode"
)

func TestErrorsCollectInOrder(t *testing.T) {
	var errs Errors
	errs.Required("title", "  ")
	errs.MaxLen("company", strings.Repeat("a", 256), 255)
	errs.OneOf("type", "freelance", []string{"full_time", "part_time"})

	require.Len(t, errs, 3)
	assert.Equal(t, "title", errs[0].Field)
	assert.Equal(t, "company", errs[1].Field)
	assert.Equal(t, "The selected type is invalid.", errs[2].Message)

	err := errs.Err()
	require.Error(t, err)
	assert.True(t, errcode.Is(err, errcode.KindValidation))
}

func TestErrorsEmptyIsNil(t *testing.T) {
	var errs Errors
	errs.MinLen("cover_letter", strings.Repeat("x", 50), 50)
	errs.MaxLen("cover_letter", strings.Repeat("é", 2000), 2000)
	assert.NoError(t, errs.Err())
}

func TestEmail(t *testing.T) {
	cases := map[string]bool{
		"a@example.com":         true,
		"Alice <a@example.com>": false,
		"not-an-email":          false,
		"":                      false,
	}
	for input, valid := range cases {
		var errs Errors
		errs.Email("email", input)
		assert.Equal(t, valid, len(errs) == 0, input)
	}
}

func TestAfterToday(t *testing.T) {
	now := time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)

	var errs Errors
	_, ok := errs.AfterToday("application_deadline", "2026-03-10", now)
	assert.False(t, ok, "today is not after today")

	_, ok = errs.AfterToday("application_deadline", "yesterday", now)
	assert.False(t, ok)

	date, ok := errs.AfterToday("application_deadline", "2026-03-11", now)
	assert.True(t, ok)
	assert.Equal(t, time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC), date)

	date, ok = errs.AfterToday("application_deadline", "2026-04-01T08:30:00Z", now)
	assert.True(t, ok)
	assert.Equal(t, 1, date.Day())

	assert.Len(t, errs, 2)
}

func TestAfterTodayUsesUTCDay(t *testing.T) {
	// 23:30 on March 10 in UTC-5 is already March 11 in UTC.
	now := time.Date(2026, 3, 10, 23, 30, 0, 0, time.FixedZone("EST", -5*3600))

	var errs Errors
	_, ok := errs.AfterToday("application_deadline", "2026-03-11", now)
	assert.False(t, ok, "March 11 is today in UTC")

	_, ok = errs.AfterToday("application_deadline", "2026-03-12", now)
	assert.True(t, ok)
}
