package controllers

import (
	"errors"

	"university-library/internals/service"

	"github.com/gin-gonic/gin"
)

type MediaController struct {
	media *service.MediaService
}

func NewMediaController(media *service.MediaService) *MediaController {
	return &MediaController{media: media}
}

// UploadAuth hands the client the signed parameters it needs for a direct
// CDN upload.
func (ctl *MediaController) UploadAuth(c *gin.Context) {
	auth := ctl.media.UploadAuthParams()
	respondOK(c, gin.H{
		"signature": auth.Signature,
		"expire":    auth.Expire,
		"token":     auth.Token,
	})
}

// Upload proxies a multipart file to the CDN. Form fields: file, type
// (image|video), folder.
func (ctl *MediaController) Upload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		respondBadRequest(c, errors.New("file is required"))
		return
	}
	kind := c.PostForm("type")
	folder := c.DefaultPostForm("folder", "books")

	if err := service.ValidateSize(kind, fileHeader.Size); err != nil {
		respondBadRequest(c, err)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respondError(c, err)
		return
	}
	defer file.Close()

	filePath, err := ctl.media.Upload(c.Request.Context(), kind, fileHeader.Filename, folder, file, fileHeader.Size)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, gin.H{"file_path": filePath})
}
