package handlers

import (
	"net/http"
	"net/url"
	"strings"

	"careers-portal/config"
	"careers-portal/internal/upstream"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const uploadFailedError = "อัปโหลดไม่สำเร็จ กรุณาลองใหม่"

// UploadHandler proxies the form's file fields to the upstream upload
// endpoint. Single file, no resumability; failures return a generic
// retryable error and the browser re-arms the same upload control.
type UploadHandler struct {
	client *upstream.Client
	config *config.Config
	logger *zap.Logger
}

func NewUploadHandler(client *upstream.Client, cfg *config.Config, logger *zap.Logger) *UploadHandler {
	return &UploadHandler{
		client: client,
		config: cfg,
		logger: logger,
	}
}

// Upload accepts a single multipart file and returns the stored file URL.
func (h *UploadHandler) Upload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": uploadFailedError})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": uploadFailedError})
		return
	}
	defer file.Close()

	fileURL, err := h.client.UploadFile(c.Request.Context(), file, fileHeader.Filename)
	if err != nil {
		h.logger.Error("File upload failed",
			zap.String("file_name", fileHeader.Filename),
			zap.Int64("size", fileHeader.Size),
			zap.Error(err),
		)
		c.JSON(http.StatusBadGateway, gin.H{"error": uploadFailedError})
		return
	}

	c.JSON(http.StatusOK, gin.H{"url": h.publicFileURL(fileURL)})
}

// publicFileURL resolves a relative stored-file path against the
// browser-reachable API base URL. The server talks to the API over an
// internal network, so a relative URL from the upload endpoint would
// otherwise be unreachable from the candidate's device.
func (h *UploadHandler) publicFileURL(fileURL string) string {
	parsed, err := url.Parse(fileURL)
	if err != nil || parsed.IsAbs() {
		return fileURL
	}
	base := strings.TrimSuffix(h.config.Upstream.PublicBaseURL, "/")
	if !strings.HasPrefix(fileURL, "/") {
		fileURL = "/" + fileURL
	}
	return base + fileURL
}
