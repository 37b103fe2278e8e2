package testutils

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"testing"
	"time"

	"careers-portal/config"
	"careers-portal/internal/models"
	"careers-portal/internal/server"
	"careers-portal/internal/site"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// SetupGinTestMode sets gin to test mode
func SetupGinTestMode() {
	gin.SetMode(gin.TestMode)
}

// UpstreamStub is an in-memory stand-in for the external job/application API.
type UpstreamStub struct {
	mu           sync.Mutex
	Jobs         map[string]models.JobPosting
	Applications map[string]models.JobApplicationData // keyed by edit token
	Requests     []string                             // "METHOD path" log
	FailAll      bool
	FailApply    bool
	UploadURL    string

	server *httptest.Server
}

// NewUpstreamStub starts the stub server. It is closed via t.Cleanup.
func NewUpstreamStub(t *testing.T) *UpstreamStub {
	t.Helper()

	stub := &UpstreamStub{
		Jobs:         make(map[string]models.JobPosting),
		Applications: make(map[string]models.JobApplicationData),
		UploadURL:    "https://files.example.com/uploaded.pdf",
	}
	stub.server = httptest.NewServer(http.HandlerFunc(stub.handle))
	t.Cleanup(stub.server.Close)
	return stub
}

// URL returns the stub's base URL.
func (s *UpstreamStub) URL() string {
	return s.server.URL
}

// AddJob registers a posting in the stub.
func (s *UpstreamStub) AddJob(job models.JobPosting) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Jobs[job.ID] = job
}

// RequestCount returns the number of upstream calls whose path starts with
// prefix.
func (s *UpstreamStub) RequestCount(prefix string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for _, r := range s.Requests {
		parts := strings.SplitN(r, " ", 2)
		if len(parts) == 2 && strings.HasPrefix(parts[1], prefix) {
			count++
		}
	}
	return count
}

func (s *UpstreamStub) handle(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.Requests = append(s.Requests, r.Method+" "+r.URL.Path)
	failAll := s.FailAll
	s.mu.Unlock()

	if failAll {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	path := r.URL.Path
	switch {
	case r.Method == http.MethodGet && path == "/api/public/jobs":
		s.handleListJobs(w, r)
	case r.Method == http.MethodPost && path == "/api/public/jobs/upload":
		s.handleUpload(w, r)
	case strings.HasPrefix(path, "/api/public/jobs/applications/by-token/"):
		token := strings.TrimPrefix(path, "/api/public/jobs/applications/by-token/")
		if r.Method == http.MethodPatch {
			s.handleUpdate(w, r, token)
		} else {
			s.handleByToken(w, token)
		}
	case r.Method == http.MethodPost && strings.HasSuffix(path, "/apply"):
		jobID := strings.TrimSuffix(strings.TrimPrefix(path, "/api/public/jobs/"), "/apply")
		s.handleApply(w, r, jobID)
	case r.Method == http.MethodGet && strings.HasPrefix(path, "/api/public/jobs/"):
		s.handleGetJob(w, strings.TrimPrefix(path, "/api/public/jobs/"))
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func (s *UpstreamStub) handleListJobs(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	company := r.URL.Query().Get("company")
	jobs := make([]models.JobPosting, 0, len(s.Jobs))
	for _, job := range s.Jobs {
		if company == "" || job.Company.Code == company {
			jobs = append(jobs, job)
		}
	}
	json.NewEncoder(w).Encode(jobs)
}

func (s *UpstreamStub) handleGetJob(w http.ResponseWriter, id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	job, ok := s.Jobs[id]
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]interface{}{"statusCode": 404, "message": "Job not found"})
		return
	}
	json.NewEncoder(w).Encode(job)
}

func (s *UpstreamStub) handleApply(w http.ResponseWriter, r *http.Request, jobID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.FailApply {
		w.WriteHeader(http.StatusServiceUnavailable)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"statusCode": 503,
			"message":    "ระบบไม่พร้อมใช้งานชั่วคราว",
		})
		return
	}

	job, ok := s.Jobs[jobID]
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]interface{}{"statusCode": 404, "message": "Job not found"})
		return
	}

	var input models.JobApplicationInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	token := "tok-" + uuid.New().String()
	s.Applications[token] = models.JobApplicationData{
		FullName:         input.FullName,
		Nickname:         input.Nickname,
		Phone:            input.Phone,
		LineID:           input.LineID,
		Facebook:         input.Facebook,
		ResumeURL:        input.ResumeURL,
		TranscriptURL:    input.TranscriptURL,
		SelfIntroduction: input.SelfIntroduction,
		JobID:            jobID,
		JobTitle:         job.Title,
		CompanyName:      job.Company.Name,
	}

	json.NewEncoder(w).Encode(models.JobApplicationRecord{
		ID:        uuid.New().String(),
		EditToken: token,
		Message:   "ส่งใบสมัครเรียบร้อยแล้ว",
	})
}

func (s *UpstreamStub) handleByToken(w http.ResponseWriter, token string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, ok := s.Applications[token]
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]interface{}{"statusCode": 404, "message": "Application not found"})
		return
	}
	json.NewEncoder(w).Encode(data)
}

func (s *UpstreamStub) handleUpdate(w http.ResponseWriter, r *http.Request, token string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, ok := s.Applications[token]
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]interface{}{"statusCode": 404, "message": "Application not found"})
		return
	}

	var input models.JobApplicationInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	if input.FullName != "" {
		data.FullName = input.FullName
	}
	if input.Nickname != "" {
		data.Nickname = input.Nickname
	}
	if input.Phone != "" {
		data.Phone = input.Phone
	}
	if input.LineID != "" {
		data.LineID = input.LineID
	}
	if input.Facebook != "" {
		data.Facebook = input.Facebook
	}
	if input.ResumeURL != "" {
		data.ResumeURL = input.ResumeURL
	}
	if input.TranscriptURL != "" {
		data.TranscriptURL = input.TranscriptURL
	}
	if input.SelfIntroduction != "" {
		data.SelfIntroduction = input.SelfIntroduction
	}
	s.Applications[token] = data

	json.NewEncoder(w).Encode(map[string]string{"message": "แก้ไขเรียบร้อยแล้ว"})
}

func (s *UpstreamStub) handleUpload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(10 << 20); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	if _, _, err := r.FormFile("file"); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	json.NewEncoder(w).Encode(models.FileUploadResponse{URL: s.UploadURL})
}

// TestConfig builds a config pointing at the stub with caching disabled so
// tests observe every upstream call.
func TestConfig(upstreamURL string) *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			Port: "0",
			Env:  "test",
		},
		Upstream: config.UpstreamConfig{
			BaseURL:       upstreamURL,
			PublicBaseURL: upstreamURL,
			Timeout:       5 * time.Second,
		},
		Cache: config.CacheConfig{
			JobsTTL: time.Nanosecond,
			JobTTL:  time.Nanosecond,
		},
		Cookie: config.CookieConfig{
			Prefix:     "rtg_apply_",
			MaxAgeDays: 30,
		},
		RateLimit: config.RateLimitConfig{
			Requests: 1000,
			Window:   60,
		},
		Log: config.LogConfig{
			Level:  "error",
			Format: "json",
		},
	}
}

// NewTestServer builds the full server wired to the stub, with templates
// loaded from the repository tree.
func NewTestServer(t *testing.T, stub *UpstreamStub) *server.Server {
	t.Helper()
	SetupGinTestMode()

	cfg := TestConfig(stub.URL())
	srv := server.New(cfg, zap.NewNop(), &server.Options{
		TemplateGlob: filepath.Join(repoRoot(t), "web", "templates", "*.html"),
		StaticDir:    filepath.Join(repoRoot(t), "web", "static"),
	})
	return srv
}

// NewTestServerWithSites is NewTestServer with an injected tenant table.
func NewTestServerWithSites(t *testing.T, stub *UpstreamStub, table map[string]site.SiteConfig, fallback site.SiteConfig) *server.Server {
	t.Helper()
	SetupGinTestMode()

	cfg := TestConfig(stub.URL())
	srv := server.New(cfg, zap.NewNop(), &server.Options{
		SiteTable:    table,
		SiteFallback: &fallback,
		TemplateGlob: filepath.Join(repoRoot(t), "web", "templates", "*.html"),
		StaticDir:    filepath.Join(repoRoot(t), "web", "static"),
	})
	return srv
}

func repoRoot(t *testing.T) string {
	t.Helper()
	_, thisFile, _, ok := runtime.Caller(0)
	require.True(t, ok, "failed to locate test utils source file")
	return filepath.Dir(filepath.Dir(filepath.Dir(thisFile)))
}

// SampleJob returns a posting with sensible defaults for tests.
func SampleJob(id, companyCode string) models.JobPosting {
	return models.JobPosting{
		ID:        id,
		Title:     "พนักงานขาย",
		Location:  "กรุงเทพฯ",
		Salary:    "18,000-25,000",
		Positions: 2,
		CreatedAt: time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC),
		Company: models.Company{
			ID:   "company-" + companyCode,
			Name: "บริษัททดสอบ",
			Code: companyCode,
		},
	}
}
