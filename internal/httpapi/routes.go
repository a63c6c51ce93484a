package httpapi

import (
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/nguyentantai21042004/video-recap/internal/config"
	"github.com/nguyentantai21042004/video-recap/internal/logger"
	"github.com/nguyentantai21042004/video-recap/internal/media"
	"github.com/nguyentantai21042004/video-recap/internal/processor"
)

type API struct {
	cfg       *config.Config
	processor processor.Processor
	media     media.Media
	logger    logger.Logger
}

func NewAPI(cfg *config.Config, proc processor.Processor, m media.Media, log logger.Logger) *API {
	return &API{cfg: cfg, processor: proc, media: m, logger: log}
}

func registerRoutes(r *gin.Engine, api *API) {
	apiGroup := r.Group("/api")
	{
		apiGroup.GET("/health", api.handleHealth)
		apiGroup.GET("/info", api.handleVideoInfo)
		apiGroup.GET("/captions", api.handleListCaptions)
		apiGroup.POST("/recaps", api.handleCreateRecap)
	}
}

func (a *API) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (a *API) handleVideoInfo(c *gin.Context) {
	url, ok := a.queryURL(c)
	if !ok {
		return
	}
	info, err := a.media.VideoInfo(c.Request.Context(), url)
	if err != nil {
		respondError(c, http.StatusBadGateway, err)
		return
	}
	c.JSON(http.StatusOK, info)
}

func (a *API) handleListCaptions(c *gin.Context) {
	url, ok := a.queryURL(c)
	if !ok {
		return
	}
	captions, err := a.media.ListCaptions(c.Request.Context(), url)
	if err != nil {
		respondError(c, http.StatusBadGateway, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"captions": captions})
}

func (a *API) queryURL(c *gin.Context) (string, bool) {
	url := strings.TrimSpace(c.Query("url"))
	if url == "" {
		respondMessage(c, http.StatusBadRequest, "url is required")
		return "", false
	}
	if err := media.ValidateURL(url); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return "", false
	}
	return url, true
}

// handleCreateRecap accepts either a multipart upload in "file" or a JSON
// body naming a URL.
func (a *API) handleCreateRecap(c *gin.Context) {
	var req processor.Request
	if strings.HasPrefix(c.ContentType(), "multipart/") {
		path, title, ok := a.saveUpload(c)
		if !ok {
			return
		}
		defer os.Remove(path)

		req = processor.Request{
			FilePath:        path,
			Title:           title,
			Language:        c.PostForm("language"),
			CaptionLanguage: c.PostForm("caption_language"),
		}
	} else {
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, http.StatusBadRequest, err)
			return
		}
		req.FilePath = ""
	}

	recap, err := a.processor.Recap(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, processor.ErrInvalidRequest) {
			respondError(c, http.StatusBadRequest, err)
			return
		}
		a.logger.Error(c.Request.Context(), "Recap failed: %v", err)
		respondError(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, recap)
}

func (a *API) saveUpload(c *gin.Context) (string, string, bool) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) || strings.Contains(err.Error(), "request body too large") {
			respondMessage(c, http.StatusRequestEntityTooLarge, "upload exceeds "+strconv.FormatInt(a.cfg.Server.MaxUploadMB, 10)+" MB")
			return "", "", false
		}
		respondMessage(c, http.StatusBadRequest, "missing video file")
		return "", "", false
	}
	name := filepath.Base(fileHeader.Filename)
	if !media.IsSupported(name) {
		respondMessage(c, http.StatusBadRequest, "unsupported file type: "+filepath.Ext(name))
		return "", "", false
	}
	a.logger.Info(c.Request.Context(), "Received upload: filename=%s size=%d", name, fileHeader.Size)

	dir := filepath.Join(a.cfg.Paths.Temp, "uploads")
	if err := os.MkdirAll(dir, 0755); err != nil {
		respondError(c, http.StatusInternalServerError, err)
		return "", "", false
	}
	ext := strings.ToLower(filepath.Ext(name))
	path := filepath.Join(dir, uuid.NewString()+ext)
	if err := c.SaveUploadedFile(fileHeader, path); err != nil {
		respondError(c, http.StatusInternalServerError, err)
		return "", "", false
	}

	title := c.PostForm("title")
	if title == "" {
		title = strings.TrimSuffix(name, filepath.Ext(name))
	}
	return path, title, true
}

func respondError(c *gin.Context, status int, err error) {
	respondMessage(c, status, err.Error())
}

func respondMessage(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}
