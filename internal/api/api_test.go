package api

import (
	"bytes"
	"context"
	"crypto/rand"
	"crypto/rsa"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"jobboard/internal/auth"
	"jobboard/internal/board"
	"jobboard/internal/config"
	"jobboard/internal/database"
	"jobboard/internal/database/dbtest"
)

var (
	testKeyOnce sync.Once
	testKey     *rsa.PrivateKey
)

func signingKey(t *testing.T) *rsa.PrivateKey {
	t.Helper()
	testKeyOnce.Do(func() {
		key, err := rsa.GenerateKey(rand.Reader, 2048)
		if err != nil {
			panic(err)
		}
		testKey = key
	})
	return testKey
}

type memoryRevocations struct {
	mu      sync.Mutex
	revoked map[string]bool
}

func (m *memoryRevocations) Revoke(_ context.Context, id string, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.revoked[id] = true
	return nil
}

func (m *memoryRevocations) IsRevoked(_ context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.revoked[id], nil
}

type fakeStorage struct {
	uploaded map[string][]byte
}

func (s *fakeStorage) UploadFile(_ context.Context, objectKey string, reader io.Reader, _ int64, _ string) error {
	b, err := io.ReadAll(reader)
	if err != nil {
		return err
	}
	s.uploaded[objectKey] = b
	return nil
}

func (s *fakeStorage) GeneratePresignedURL(_ context.Context, objectKey string, _ time.Duration) (string, error) {
	return "https://files.example.test/" + objectKey + "?sig=1", nil
}

type fakeQueue struct {
	tasks []*asynq.Task
}

func (q *fakeQueue) EnqueueContext(_ context.Context, task *asynq.Task, _ ...asynq.Option) (*asynq.TaskInfo, error) {
	q.tasks = append(q.tasks, task)
	return &asynq.TaskInfo{ID: "t", Type: task.Type()}, nil
}

type fakeScanner struct {
	infected bool
}

func (s fakeScanner) Scan(r io.Reader) error {
	_, _ = io.Copy(io.Discard, r)
	if s.infected {
		return ErrInfected
	}
	return nil
}

type testServer struct {
	t       *testing.T
	router  *gin.Engine
	db      *gorm.DB
	storage *fakeStorage
	queue   *fakeQueue
}

func newTestServer(t *testing.T, scanner VirusScanner) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)
	db := dbtest.Open(t)
	key := signingKey(t)

	srv := &testServer{
		t:       t,
		db:      db,
		storage: &fakeStorage{uploaded: map[string][]byte{}},
		queue:   &fakeQueue{},
	}
	srv.router = NewRouter(config.APIConfig{AllowedOrigins: []string{"http://localhost:3000"}}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	RegisterRoutes(srv.router, Dependencies{
		Services:    board.New(db, nil),
		AuthService: auth.NewAuthServiceWithKeys(key, &key.PublicKey, time.Hour),
		Revocations: &memoryRevocations{revoked: map[string]bool{}},
		Uploads:     srv.storage,
		Links:       srv.storage,
		Scanner:     scanner,
		MaxUpload:   1024 * 1024,
		Queue:       srv.queue,
	})
	return srv
}

type response struct {
	Code int
	Body map[string]any
	Raw  string
}

func (s *testServer) do(method, path, token string, body any) response {
	s.t.Helper()
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = strings.NewReader(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(s.t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	return s.serve(req, token)
}

func (s *testServer) upload(path, token, filename string, content []byte) response {
	s.t.Helper()
	buf := &bytes.Buffer{}
	writer := multipart.NewWriter(buf)
	part, err := writer.CreateFormFile("file", filename)
	require.NoError(s.t, err)
	_, err = part.Write(content)
	require.NoError(s.t, err)
	require.NoError(s.t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, path, buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return s.serve(req, token)
}

func (s *testServer) serve(req *http.Request, token string) response {
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	res := response{Code: w.Code, Raw: w.Body.String()}
	_ = json.Unmarshal(w.Body.Bytes(), &res.Body)
	return res
}

// register signs up through the API and returns the bearer token and user id.
func (s *testServer) register(name, email, role string) (string, uint) {
	s.t.Helper()
	res := s.do(http.MethodPost, "/api/register", "", map[string]any{
		"name":                  name,
		"email":                 email,
		"password":              "password123",
		"password_confirmation": "password123",
		"role":                  role,
	})
	require.Equal(s.t, http.StatusCreated, res.Code, res.Raw)
	user := res.Body["user"].(map[string]any)
	return res.Body["access_token"].(string), uint(user["id"].(float64))
}

// seedAdmin inserts an admin directly and logs in.
func (s *testServer) seedAdmin(email string, mustChange bool) (string, uint) {
	s.t.Helper()
	hash, err := auth.HashPassword("password123")
	require.NoError(s.t, err)
	admin := database.User{Name: "Admin", Email: email, Role: database.RoleAdmin, PasswordHash: hash, MustChangePassword: mustChange}
	require.NoError(s.t, s.db.Create(&admin).Error)

	res := s.do(http.MethodPost, "/api/login", "", map[string]any{"email": email, "password": "password123"})
	require.Equal(s.t, http.StatusOK, res.Code, res.Raw)
	return res.Body["access_token"].(string), admin.ID
}

func (s *testServer) createJob(token, title string) uint {
	s.t.Helper()
	res := s.do(http.MethodPost, "/api/jobs", token, map[string]any{
		"title":       title,
		"description": "Write Go services.",
		"company":     "Acme",
		"location":    "Remote",
		"type":        "full_time",
		"category":    "technology",
	})
	require.Equal(s.t, http.StatusCreated, res.Code, res.Raw)
	return uint(res.Body["id"].(float64))
}

func coverLetter60() string {
	return strings.Repeat("abcdefghij", 6)
}
