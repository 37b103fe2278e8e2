// Package upstream wraps the external job/application API. The portal owns no
// storage; every read and write here goes over HTTP to that API. Failures are
// not retried and surface directly to the caller, except on the public job
// board where a failed fetch degrades to an empty result.
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"time"

	"careers-portal/config"
	"careers-portal/internal/models"

	gocache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

// Client is a typed wrapper over the upstream careers API. Job list and
// detail reads are cached in-process with short TTLs since postings change
// infrequently; token-resolution reads are never cached because they gate
// access to personal data.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *zap.Logger
	cache   *gocache.Cache
	jobsTTL time.Duration
	jobTTL  time.Duration
}

// New creates an upstream client from configuration.
func New(cfg *config.Config, logger *zap.Logger) *Client {
	return &Client{
		baseURL: cfg.Upstream.BaseURL,
		http: &http.Client{
			Timeout: cfg.Upstream.Timeout,
		},
		logger:  logger,
		cache:   gocache.New(cfg.Cache.JobsTTL, 10*time.Minute),
		jobsTTL: cfg.Cache.JobsTTL,
		jobTTL:  cfg.Cache.JobTTL,
	}
}

// ListJobs fetches published postings, optionally filtered to one company
// code. It is fail-soft: any transport or non-2xx failure is logged and an
// empty slice is returned, so the page renders the same empty state as a
// genuinely empty board.
func (c *Client) ListJobs(ctx context.Context, companyCode string) []models.JobPosting {
	cacheKey := "jobs:" + companyCode
	if cached, ok := c.cache.Get(cacheKey); ok {
		return cached.([]models.JobPosting)
	}

	endpoint := "/api/public/jobs"
	if companyCode != "" {
		endpoint += "?company=" + url.QueryEscape(companyCode)
	}

	var jobs []models.JobPosting
	if err := c.getJSON(ctx, endpoint, &jobs); err != nil {
		c.logger.Error("Failed to fetch job list",
			zap.String("company_code", companyCode),
			zap.Error(err),
		)
		return []models.JobPosting{}
	}

	c.cache.Set(cacheKey, jobs, c.jobsTTL)
	return jobs
}

// GetJob fetches a single posting. It returns nil on 404 and on any other
// failure; callers render the not-found view either way.
func (c *Client) GetJob(ctx context.Context, id string) *models.JobPosting {
	cacheKey := "job:" + id
	if cached, ok := c.cache.Get(cacheKey); ok {
		return cached.(*models.JobPosting)
	}

	var job models.JobPosting
	err := c.getJSON(ctx, "/api/public/jobs/"+url.PathEscape(id), &job)
	if err != nil {
		if !IsNotFound(err) {
			c.logger.Error("Failed to fetch job",
				zap.String("job_id", id),
				zap.Error(err),
			)
		}
		return nil
	}

	c.cache.Set(cacheKey, &job, c.jobTTL)
	return &job
}

// SubmitApplication creates an application for a job. On non-2xx the returned
// error is an *APIError carrying the upstream status and message.
func (c *Client) SubmitApplication(ctx context.Context, jobID string, input models.JobApplicationInput) (*models.JobApplicationRecord, error) {
	var record models.JobApplicationRecord
	endpoint := "/api/public/jobs/" + url.PathEscape(jobID) + "/apply"
	if err := c.doJSON(ctx, http.MethodPost, endpoint, input, &record); err != nil {
		return nil, err
	}
	return &record, nil
}

// UpdateApplication partially updates the application an edit token resolves
// to. Only fields present in input are changed upstream. An error here is
// interpreted by the caller as "token invalid" and downgrades the form to
// new-application mode rather than surfacing to the candidate.
func (c *Client) UpdateApplication(ctx context.Context, token string, input models.JobApplicationInput) (string, error) {
	var resp struct {
		Message string `json:"message"`
	}
	endpoint := "/api/public/jobs/applications/by-token/" + url.PathEscape(token)
	if err := c.doJSON(ctx, http.MethodPatch, endpoint, input, &resp); err != nil {
		return "", err
	}
	return resp.Message, nil
}

// GetApplicationByToken resolves an edit token to its full record. It returns
// nil on 404 and on any other failure; absence is what triggers the silent
// fallback to new-application mode. Responses are never cached.
func (c *Client) GetApplicationByToken(ctx context.Context, token string) *models.JobApplicationData {
	var data models.JobApplicationData
	endpoint := "/api/public/jobs/applications/by-token/" + url.PathEscape(token)
	if err := c.getJSON(ctx, endpoint, &data); err != nil {
		// The token itself is a secret and stays out of the log.
		if !IsNotFound(err) {
			c.logger.Warn("Failed to resolve edit token", zap.Error(err))
		}
		return nil
	}
	return &data
}

// UploadFile sends a single file as multipart form data and returns the
// stored file's URL.
func (c *Client) UploadFile(ctx context.Context, file io.Reader, fileName string) (string, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", fileName)
	if err != nil {
		return "", fmt.Errorf("failed to build multipart body: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return "", fmt.Errorf("failed to read upload: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("failed to finalize multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/public/jobs/upload", body)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", decodeAPIError(resp)
	}

	var uploaded models.FileUploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&uploaded); err != nil {
		return "", fmt.Errorf("failed to decode upload response: %w", err)
	}
	return uploaded.URL, nil
}

func (c *Client) getJSON(ctx context.Context, endpoint string, out interface{}) error {
	return c.doJSON(ctx, http.MethodGet, endpoint, nil, out)
}

func (c *Client) doJSON(ctx context.Context, method, endpoint string, in, out interface{}) error {
	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeAPIError(resp)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func decodeAPIError(resp *http.Response) error {
	apiErr := &APIError{
		StatusCode: resp.StatusCode,
		Message:    resp.Status,
	}
	var decoded APIError
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err == nil && decoded.Message != "" {
		apiErr.Message = decoded.Message
		apiErr.ErrorKind = decoded.ErrorKind
	}
	return apiErr
}
