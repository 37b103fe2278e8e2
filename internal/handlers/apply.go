package handlers

import (
	"encoding/base64"
	"html/template"
	"net/http"
	"net/url"

	"careers-portal/internal/models"
	"careers-portal/internal/site"
	"careers-portal/internal/token"
	"careers-portal/internal/upstream"

	"github.com/gin-gonic/gin"
	qrcode "github.com/skip2/go-qrcode"
	"go.uber.org/zap"
)

const genericSubmitError = "เกิดข้อผิดพลาด กรุณาลองใหม่อีกครั้ง"
const missingFieldsError = "กรุณากรอกข้อมูลที่จำเป็นให้ครบถ้วน"

// ApplyHandler drives the application lifecycle: new vs edit mode resolution,
// submission, and post-submit redistribution of the edit token.
type ApplyHandler struct {
	client *upstream.Client
	sites  *site.Resolver
	tokens *token.Store
	logger *zap.Logger
}

func NewApplyHandler(client *upstream.Client, sites *site.Resolver, tokens *token.Store, logger *zap.Logger) *ApplyHandler {
	return &ApplyHandler{
		client: client,
		sites:  sites,
		tokens: tokens,
		logger: logger,
	}
}

// ShowForm renders the application form. Edit mode requires both a resolved
// token and a record behind it; any failure of either silently collapses to
// a blank new-application form, never an error page.
func (h *ApplyHandler) ShowForm(c *gin.Context) {
	tenant := h.sites.Resolve(c.Request.Host)
	jobID := c.Param("id")

	job := h.client.GetJob(c.Request.Context(), jobID)
	if job == nil {
		RenderNotFound(c, tenant)
		return
	}

	res := token.Resolve(c.Query("token"), func() (string, bool) {
		return h.tokens.Read(c.Request, jobID)
	})

	var form models.JobApplicationInput
	editToken := ""
	if res.Found() {
		if data := h.client.GetApplicationByToken(c.Request.Context(), res.Token); data != nil {
			form = data.Input()
			editToken = res.Token
		}
	}

	h.renderForm(c, http.StatusOK, tenant, job, form, editToken, "")
}

// Submit handles creation and edit in one endpoint; a hidden editToken field
// distinguishes the two. Required-field validation happens before any
// upstream call.
func (h *ApplyHandler) Submit(c *gin.Context) {
	tenant := h.sites.Resolve(c.Request.Host)
	jobID := c.Param("id")

	job := h.client.GetJob(c.Request.Context(), jobID)
	if job == nil {
		RenderNotFound(c, tenant)
		return
	}

	var input models.JobApplicationInput
	if err := c.ShouldBind(&input); err != nil {
		h.renderForm(c, http.StatusBadRequest, tenant, job, input, c.PostForm("editToken"), genericSubmitError)
		return
	}

	editToken := c.PostForm("editToken")

	if len(input.MissingRequired()) > 0 {
		h.renderForm(c, http.StatusBadRequest, tenant, job, input, editToken, missingFieldsError)
		return
	}

	if editToken != "" {
		if h.submitEdit(c, tenant, job, input, editToken) {
			return
		}
		// Token no longer resolves upstream; fall through and create a
		// fresh application instead of surfacing an error.
		editToken = ""
	}

	record, err := h.client.SubmitApplication(c.Request.Context(), jobID, input)
	if err != nil {
		h.logger.Warn("Application submission failed",
			zap.String("job_id", jobID),
			zap.Int("status", statusOf(err)),
		)
		h.renderForm(c, http.StatusBadGateway, tenant, job, input, editToken, upstream.UserMessage(err, genericSubmitError))
		return
	}

	h.tokens.Persist(c.Writer, jobID, record.EditToken)
	h.renderSubmitted(c, tenant, job, record.EditToken, false)
}

// submitEdit performs the update path. It returns false when the token is
// invalid upstream, signalling the caller to fall back to create mode.
func (h *ApplyHandler) submitEdit(c *gin.Context, tenant site.SiteConfig, job *models.JobPosting, input models.JobApplicationInput, editToken string) bool {
	_, err := h.client.UpdateApplication(c.Request.Context(), editToken, input)
	if err == nil {
		// Editing never rewrites the cookie; the client already holds
		// this token.
		h.renderSubmitted(c, tenant, job, editToken, true)
		return true
	}

	if upstream.IsNotFound(err) {
		return false
	}

	h.logger.Warn("Application update failed",
		zap.String("job_id", job.ID),
		zap.Int("status", statusOf(err)),
	)
	h.renderForm(c, http.StatusBadGateway, tenant, job, input, editToken, upstream.UserMessage(err, genericSubmitError))
	return true
}

func (h *ApplyHandler) renderForm(c *gin.Context, status int, tenant site.SiteConfig, job *models.JobPosting, form models.JobApplicationInput, editToken, errMsg string) {
	c.HTML(status, "apply.html", gin.H{
		"Site":      tenant,
		"Job":       job,
		"Form":      form,
		"EditToken": editToken,
		"EditMode":  editToken != "",
		"Error":     errMsg,
	})
}

func (h *ApplyHandler) renderSubmitted(c *gin.Context, tenant site.SiteConfig, job *models.JobPosting, editToken string, wasEdit bool) {
	editURL := shareURL(c.Request, job.ID, editToken)

	qr, err := qrPNGDataURI(editURL)
	if err != nil {
		h.logger.Error("Failed to render QR code", zap.Error(err))
	}

	c.HTML(http.StatusOK, "submitted.html", gin.H{
		"Site": tenant,
		"Job":  job,
		// template.URL keeps html/template from rejecting the data: scheme.
		"EditURL": editURL,
		"QRCode":  template.URL(qr),
		"WasEdit": wasEdit,
	})
}

// shareURL rebuilds the apply URL with the edit token so the candidate can
// resume from another device.
func shareURL(r *http.Request, jobID, editToken string) string {
	scheme := "http"
	if r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https" {
		scheme = "https"
	}
	return scheme + "://" + r.Host + "/jobs/" + url.PathEscape(jobID) + "/apply?token=" + url.QueryEscape(editToken)
}

func qrPNGDataURI(content string) (string, error) {
	png, err := qrcode.Encode(content, qrcode.Medium, 200)
	if err != nil {
		return "", err
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}

func statusOf(err error) int {
	if apiErr, ok := err.(*upstream.APIError); ok {
		return apiErr.StatusCode
	}
	return 0
}
