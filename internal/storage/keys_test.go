package storage

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewResumeKeyIsOwned(t *testing.T) {
	key := NewResumeKey(7, ".PDF")
	assert.True(t, strings.HasPrefix(key, "candidate-resumes/7/"))
	assert.True(t, strings.HasSuffix(key, ".pdf"))
	assert.True(t, IsResumeKeyOf(7, key))
	assert.False(t, IsResumeKeyOf(8, key))
}

func TestIsResumeKeyOfRejectsTampering(t *testing.T) {
	cases := []string{
		"",
		"candidate-resumes/7/",
		"candidate-resumes/7/cv.exe",
		"candidate-resumes/7/../8/cv.pdf",
		"candidate-resumes/7//cv.pdf",
		"candidate-resumes/7/nested/cv.pdf",
		"candidate-resumes/70/cv.pdf",
		"user-assets/7/cv.pdf",
		"candidate-resumes/7/" + strings.Repeat("a", 200) + ".pdf",
	}
	for _, key := range cases {
		assert.False(t, IsResumeKeyOf(7, key), key)
	}
	assert.True(t, IsResumeKeyOf(7, "candidate-resumes/7/cv.docx"))
}
