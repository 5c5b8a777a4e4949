package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type fileHandlers struct {
	files         FileService
	maxUploadSize int64
}

type fileResponse struct {
	Filename string `json:"filename"`
	Format   string `json:"format"`
	Size     int64  `json:"size"`
	Key      string `json:"key"`
}

type presignResponse struct {
	Key string `json:"key"`
	URL string `json:"url"`
}

func (h *fileHandlers) upload(c *gin.Context) {
	user, _ := CurrentUser(c)

	if h.maxUploadSize > 0 {
		// multipart overhead is small; the part size is checked again below
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadSize+1<<20)
	}

	header, err := c.FormFile("file")
	if err != nil {
		writeError(c, newValidationError("file", "is required"))
		return
	}
	if h.maxUploadSize > 0 && header.Size > h.maxUploadSize {
		writeError(c, newValidationError("file", "is too large"))
		return
	}

	f, err := header.Open()
	if err != nil {
		writeError(c, err)
		return
	}
	defer f.Close()

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	info, err := h.files.Upload(c.Request.Context(), user.ID, header.Filename, contentType, header.Size, f)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, fileResponse{
		Filename: info.Filename,
		Format:   info.Format,
		Size:     info.Size,
		Key:      info.Key,
	})
}

func (h *fileHandlers) presign(c *gin.Context) {
	user, _ := CurrentUser(c)

	key, url, err := h.files.PresignUpload(c.Request.Context(), user.ID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, presignResponse{Key: key, URL: url})
}
