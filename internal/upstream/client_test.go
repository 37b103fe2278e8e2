package upstream

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"careers-portal/config"
	"careers-portal/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := &config.Config{
		Upstream: config.UpstreamConfig{
			BaseURL: srv.URL,
			Timeout: 5 * time.Second,
		},
		Cache: config.CacheConfig{
			JobsTTL: time.Minute,
			JobTTL:  time.Minute,
		},
	}
	return New(cfg, zap.NewNop()), srv
}

func testJob(id string) models.JobPosting {
	return models.JobPosting{
		ID:        id,
		Title:     "พนักงานขาย",
		Positions: 2,
		CreatedAt: time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC),
		Company:   models.Company{ID: "c1", Name: "โฮมทัช", Code: "HT"},
	}
}

func TestClient_ListJobs(t *testing.T) {
	t.Run("returns_jobs", func(t *testing.T) {
		client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/api/public/jobs", r.URL.Path)
			json.NewEncoder(w).Encode([]models.JobPosting{testJob("j1"), testJob("j2")})
		}))

		jobs := client.ListJobs(context.Background(), "")
		require.Len(t, jobs, 2)
		assert.Equal(t, "j1", jobs[0].ID)
	})

	t.Run("company_filter_in_query", func(t *testing.T) {
		client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "HT", r.URL.Query().Get("company"))
			json.NewEncoder(w).Encode([]models.JobPosting{testJob("j1")})
		}))

		jobs := client.ListJobs(context.Background(), "HT")
		assert.Len(t, jobs, 1)
	})

	t.Run("upstream_error_returns_empty_list", func(t *testing.T) {
		client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))

		jobs := client.ListJobs(context.Background(), "")
		assert.NotNil(t, jobs)
		assert.Empty(t, jobs)
	})

	t.Run("transport_failure_returns_empty_list", func(t *testing.T) {
		client, srv := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		srv.Close()

		jobs := client.ListJobs(context.Background(), "")
		assert.NotNil(t, jobs)
		assert.Empty(t, jobs)
	})

	t.Run("second_read_served_from_cache", func(t *testing.T) {
		calls := 0
		client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls++
			json.NewEncoder(w).Encode([]models.JobPosting{testJob("j1")})
		}))

		client.ListJobs(context.Background(), "")
		client.ListJobs(context.Background(), "")
		assert.Equal(t, 1, calls)
	})
}

func TestClient_GetJob(t *testing.T) {
	t.Run("returns_job", func(t *testing.T) {
		client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/api/public/jobs/j1", r.URL.Path)
			json.NewEncoder(w).Encode(testJob("j1"))
		}))

		job := client.GetJob(context.Background(), "j1")
		require.NotNil(t, job)
		assert.Equal(t, "พนักงานขาย", job.Title)
	})

	t.Run("not_found_returns_nil", func(t *testing.T) {
		client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))

		assert.Nil(t, client.GetJob(context.Background(), "nonexistent-id"))
	})

	t.Run("server_error_returns_nil", func(t *testing.T) {
		client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))

		assert.Nil(t, client.GetJob(context.Background(), "j1"))
	})
}

func TestClient_SubmitApplication(t *testing.T) {
	input := models.JobApplicationInput{
		FullName: "สมชาย ใจดี",
		Nickname: "ชาย",
		Phone:    "0812345678",
	}

	t.Run("success_returns_record_with_token", func(t *testing.T) {
		client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/api/public/jobs/j1/apply", r.URL.Path)
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

			var got models.JobApplicationInput
			require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
			assert.Equal(t, input.FullName, got.FullName)

			json.NewEncoder(w).Encode(models.JobApplicationRecord{
				ID:        "app-1",
				EditToken: "tok-abc",
				Message:   "ส่งใบสมัครเรียบร้อยแล้ว",
			})
		}))

		record, err := client.SubmitApplication(context.Background(), "j1", input)
		require.NoError(t, err)
		assert.Equal(t, "tok-abc", record.EditToken)
	})

	t.Run("non_2xx_returns_api_error", func(t *testing.T) {
		client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnprocessableEntity)
			json.NewEncoder(w).Encode(APIError{
				StatusCode: http.StatusUnprocessableEntity,
				Message:    "เบอร์โทรศัพท์ไม่ถูกต้อง",
				ErrorKind:  "Unprocessable Entity",
			})
		}))

		_, err := client.SubmitApplication(context.Background(), "j1", input)
		require.Error(t, err)

		apiErr, ok := err.(*APIError)
		require.True(t, ok)
		assert.Equal(t, http.StatusUnprocessableEntity, apiErr.StatusCode)
		assert.Equal(t, "เบอร์โทรศัพท์ไม่ถูกต้อง", apiErr.Message)
	})
}

func TestClient_UpdateApplication(t *testing.T) {
	t.Run("patch_to_token_path", func(t *testing.T) {
		client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPatch, r.Method)
			assert.Equal(t, "/api/public/jobs/applications/by-token/tok-abc", r.URL.Path)
			json.NewEncoder(w).Encode(map[string]string{"message": "แก้ไขเรียบร้อยแล้ว"})
		}))

		msg, err := client.UpdateApplication(context.Background(), "tok-abc", models.JobApplicationInput{Phone: "0898765432"})
		require.NoError(t, err)
		assert.Equal(t, "แก้ไขเรียบร้อยแล้ว", msg)
	})

	t.Run("invalid_token_returns_error", func(t *testing.T) {
		client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))

		_, err := client.UpdateApplication(context.Background(), "bad-token", models.JobApplicationInput{})
		require.Error(t, err)
		assert.True(t, IsNotFound(err))
	})
}

func TestClient_GetApplicationByToken(t *testing.T) {
	t.Run("resolves_record", func(t *testing.T) {
		client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/api/public/jobs/applications/by-token/tok-abc", r.URL.Path)
			json.NewEncoder(w).Encode(models.JobApplicationData{
				FullName: "สมชาย ใจดี",
				Nickname: "ชาย",
				Phone:    "0812345678",
				JobID:    "j1",
				JobTitle: "พนักงานขาย",
			})
		}))

		data := client.GetApplicationByToken(context.Background(), "tok-abc")
		require.NotNil(t, data)
		assert.Equal(t, "j1", data.JobID)
	})

	t.Run("invalid_token_returns_nil", func(t *testing.T) {
		client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))

		assert.Nil(t, client.GetApplicationByToken(context.Background(), "expired-token"))
	})

	t.Run("never_cached", func(t *testing.T) {
		calls := 0
		client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls++
			json.NewEncoder(w).Encode(models.JobApplicationData{FullName: "สมชาย ใจดี"})
		}))

		client.GetApplicationByToken(context.Background(), "tok-abc")
		client.GetApplicationByToken(context.Background(), "tok-abc")
		assert.Equal(t, 2, calls)
	})
}

func TestClient_UploadFile(t *testing.T) {
	t.Run("multipart_upload_returns_url", func(t *testing.T) {
		client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/api/public/jobs/upload", r.URL.Path)
			require.NoError(t, r.ParseMultipartForm(1<<20))

			file, header, err := r.FormFile("file")
			require.NoError(t, err)
			defer file.Close()
			assert.Equal(t, "resume.pdf", header.Filename)

			json.NewEncoder(w).Encode(models.FileUploadResponse{URL: "https://files.example.com/resume.pdf"})
		}))

		u, err := client.UploadFile(context.Background(), strings.NewReader("%PDF-1.4"), "resume.pdf")
		require.NoError(t, err)
		assert.Equal(t, "https://files.example.com/resume.pdf", u)
	})

	t.Run("upstream_failure_returns_error", func(t *testing.T) {
		client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))

		_, err := client.UploadFile(context.Background(), strings.NewReader("data"), "resume.pdf")
		assert.Error(t, err)
	})
}

func TestUserMessage(t *testing.T) {
	assert.Equal(t, "ข้อความจากระบบ", UserMessage(&APIError{StatusCode: 400, Message: "ข้อความจากระบบ"}, "fallback"))
	assert.Equal(t, "fallback", UserMessage(context.DeadlineExceeded, "fallback"))
	assert.Equal(t, "fallback", UserMessage(&APIError{StatusCode: 500}, "fallback"))
}
