package handlers

import (
	"net/http"
	"time"

	"careers-portal/internal/models"
	"careers-portal/internal/site"
	"careers-portal/internal/upstream"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type JobsHandler struct {
	client *upstream.Client
	sites  *site.Resolver
	logger *zap.Logger
}

func NewJobsHandler(client *upstream.Client, sites *site.Resolver, logger *zap.Logger) *JobsHandler {
	return &JobsHandler{
		client: client,
		sites:  sites,
		logger: logger,
	}
}

// jobView wraps a posting with the presentation fields templates need.
type jobView struct {
	models.JobPosting
	DaysLeft      int
	ClosingSoon   bool
	SalaryDisplay string
	ClosingLabel  string
}

func newJobView(job models.JobPosting, now time.Time) jobView {
	view := jobView{
		JobPosting:    job,
		DaysLeft:      job.DaysUntilClosing(now),
		ClosingSoon:   job.IsClosingSoon(now),
		SalaryDisplay: job.DisplaySalary(),
	}
	if job.ClosingDate != nil {
		view.ClosingLabel = job.ClosingDate.Format("2 Jan 2006")
	}
	return view
}

// ListJobs renders the tenant-filtered job board. An upstream failure is
// indistinguishable from an empty board here; the client already logged it.
func (h *JobsHandler) ListJobs(c *gin.Context) {
	tenant := h.sites.Resolve(c.Request.Host)
	jobs := h.client.ListJobs(c.Request.Context(), tenant.CompanyCode)

	now := time.Now()
	views := make([]jobView, 0, len(jobs))
	for _, job := range jobs {
		views = append(views, newJobView(job, now))
	}

	c.HTML(http.StatusOK, "jobs.html", gin.H{
		"Site": tenant,
		"Jobs": views,
	})
}

// GetJob renders a single posting, or the not-found page when the posting is
// absent upstream.
func (h *JobsHandler) GetJob(c *gin.Context) {
	tenant := h.sites.Resolve(c.Request.Host)
	job := h.client.GetJob(c.Request.Context(), c.Param("id"))
	if job == nil {
		RenderNotFound(c, tenant)
		return
	}

	c.HTML(http.StatusOK, "job_detail.html", gin.H{
		"Site": tenant,
		"Job":  newJobView(*job, time.Now()),
	})
}

// RenderNotFound renders the friendly not-found page with an exit link back
// to the job board.
func RenderNotFound(c *gin.Context, tenant site.SiteConfig) {
	c.HTML(http.StatusNotFound, "not_found.html", gin.H{
		"Site": tenant,
	})
}
