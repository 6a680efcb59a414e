package api

import (
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobboard/internal/database"
)

func pdfBytes() []byte {
	return []byte("%PDF-1.7\n1 0 obj\n<<>>\nendobj\n%%EOF\n")
}

func TestResumeUploadStoresUnderCandidatePrefix(t *testing.T) {
	srv := newTestServer(t, fakeScanner{})
	token, userID := srv.register("Alice", "alice@example.com", "candidate")

	res := srv.upload("/api/candidate/resumes", token, "cv.PDF", pdfBytes())
	require.Equal(t, http.StatusCreated, res.Code, res.Raw)

	key := res.Body["resume"].(string)
	assert.True(t, strings.HasPrefix(key, fmt.Sprintf("candidate-resumes/%d/", userID)), key)
	assert.True(t, strings.HasSuffix(key, ".pdf"), key)
	assert.Equal(t, pdfBytes(), srv.storage.uploaded[key])
}

func TestResumeUploadRejections(t *testing.T) {
	cases := []struct {
		name     string
		scanner  VirusScanner
		filename string
		content  []byte
	}{
		{name: "unsupported extension", filename: "cv.exe", content: []byte("MZ\x90\x00")},
		{name: "extension mismatch", filename: "cv.pdf", content: []byte("PK\x03\x04fake docx")},
		{name: "too large", filename: "cv.pdf", content: append(pdfBytes(), make([]byte, 1024*1024)...)},
		{name: "infected", scanner: fakeScanner{infected: true}, filename: "cv.pdf", content: pdfBytes()},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := newTestServer(t, tc.scanner)
			token, _ := srv.register("Alice", "alice@example.com", "candidate")

			res := srv.upload("/api/candidate/resumes", token, tc.filename, tc.content)
			require.Equal(t, http.StatusUnprocessableEntity, res.Code, res.Raw)
			assert.Contains(t, res.Body["errors"], "file")
			assert.Empty(t, srv.storage.uploaded)
		})
	}
}

func TestResumeUploadRequiresCandidate(t *testing.T) {
	srv := newTestServer(t, nil)
	token, _ := srv.register("Bob", "bob@example.com", "employer")

	res := srv.upload("/api/candidate/resumes", token, "cv.pdf", pdfBytes())
	require.Equal(t, http.StatusForbidden, res.Code)
	assert.Equal(t, "Unauthorized. Candidate access required.", res.Body["message"])
}

func TestResumeLinksFollowOwnership(t *testing.T) {
	srv := newTestServer(t, nil)
	candidate, _ := srv.register("Alice", "alice@example.com", "candidate")
	other, _ := srv.register("Carol", "carol@example.com", "candidate")
	employer, _ := srv.register("Bob", "bob@example.com", "employer")
	rival, _ := srv.register("Mallory", "mallory@example.com", "employer")
	jobID := srv.createJob(employer, "Go Engineer")

	uploaded := srv.upload("/api/candidate/resumes", candidate, "cv.pdf", pdfBytes())
	require.Equal(t, http.StatusCreated, uploaded.Code, uploaded.Raw)
	key := uploaded.Body["resume"].(string)

	// 不能引用别人的简历
	res := srv.do(http.MethodPost, fmt.Sprintf("/api/jobs/%d/apply", jobID), other, map[string]any{
		"cover_letter": coverLetter60(),
		"resume":       key,
	})
	require.Equal(t, http.StatusUnprocessableEntity, res.Code)
	assert.Contains(t, res.Body["errors"], "resume")

	res = srv.do(http.MethodPost, fmt.Sprintf("/api/jobs/%d/apply", jobID), candidate, map[string]any{
		"cover_letter": coverLetter60(),
		"resume":       key,
	})
	require.Equal(t, http.StatusCreated, res.Code, res.Raw)
	appID := uint(res.Body["id"].(float64))

	res = srv.do(http.MethodGet, fmt.Sprintf("/api/applications/%d/resume", appID), employer, nil)
	require.Equal(t, http.StatusOK, res.Code, res.Raw)
	assert.Contains(t, res.Body["url"], key)
	assert.EqualValues(t, 300, res.Body["expires_in"])

	res = srv.do(http.MethodGet, fmt.Sprintf("/api/candidate/applications/%d/resume", appID), candidate, nil)
	require.Equal(t, http.StatusOK, res.Code)

	res = srv.do(http.MethodGet, fmt.Sprintf("/api/applications/%d/resume", appID), rival, nil)
	assert.Equal(t, http.StatusNotFound, res.Code)

	require.NoError(t, srv.db.Model(&database.Application{}).Where("id = ?", appID).Update("resume", nil).Error)
	res = srv.do(http.MethodGet, fmt.Sprintf("/api/applications/%d/resume", appID), employer, nil)
	require.Equal(t, http.StatusNotFound, res.Code)
	assert.Equal(t, "Resume not found", res.Body["message"])
}
