package controller

import (
	"net/http"
	"path"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/inkwell-io/inkwell"
	"github.com/inkwell-io/inkwell/internal/middleware"
)

// uploadPrefix is the only key space the upload endpoints may touch.
const uploadPrefix = "images/"

// UploadController hands out presigned URLs for post images. The platform
// never proxies file bytes; clients upload straight to the object store and
// save the returned URL on the post.
type UploadController struct{}

func NewUploadController() *UploadController {
	return &UploadController{}
}

func (c *UploadController) Register(group *inkwell.ControllerGroup) {
	protected := group.Group("", middleware.AuthMiddleware())
	protected.GET("/url", c.GetUploadURL)
	protected.DELETE("", c.DeleteUpload)
}

func (c *UploadController) GetUploadURL(ctx *inkwell.Context) {
	if _, err := ctx.GetAuthContext(); err != nil {
		return
	}

	fileName := ctx.Query("fileName")
	if fileName == "" {
		ctx.SendError(inkwell.ErrInvalidInput.New("fileName is required"))
		return
	}

	fileService := ctx.GetFileService()
	if fileService == nil {
		ctx.SendError(inkwell.ErrStoreFailure.New("no file service configured"))
		return
	}

	key := uploadPrefix + uuid.New().String() + "-" + path.Base(fileName)

	uploadURL, err := fileService.GetUploadURL(ctx.Request.Context(), key)
	if err != nil {
		ctx.SendError(inkwell.ErrStoreFailure.New(err.Error()))
		return
	}
	fileURL, err := fileService.GetURL(ctx.Request.Context(), key)
	if err != nil {
		ctx.SendError(inkwell.ErrStoreFailure.New(err.Error()))
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"key":       key,
		"uploadUrl": uploadURL,
		"fileUrl":   fileURL,
	})
}

// DeleteUpload removes an uploaded image, typically after its post's image
// was replaced or the post deleted.
func (c *UploadController) DeleteUpload(ctx *inkwell.Context) {
	if _, err := ctx.GetAuthContext(); err != nil {
		return
	}

	key := ctx.Query("key")
	if !strings.HasPrefix(key, uploadPrefix) || path.Clean(key) != key {
		ctx.SendError(inkwell.ErrInvalidInput.New("key must name an uploaded image"))
		return
	}

	fileService := ctx.GetFileService()
	if fileService == nil {
		ctx.SendError(inkwell.ErrStoreFailure.New("no file service configured"))
		return
	}

	exists, err := fileService.IsExists(ctx.Request.Context(), key)
	if err != nil {
		ctx.SendError(inkwell.ErrStoreFailure.New(err.Error()))
		return
	}
	if !exists {
		ctx.SendError(inkwell.ErrNotFound.New("upload not found"))
		return
	}

	if err := fileService.Delete(ctx.Request.Context(), key); err != nil {
		ctx.SendError(inkwell.ErrStoreFailure.New(err.Error()))
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"deleted": key})
}
