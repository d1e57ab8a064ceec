package controllers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/szymekpro/ztpai-mfs/services"
)

type PhotoUploadRequest struct {
	ImageBase64 string `json:"image_base64" binding:"required"`
}

// PhotoUpload handles POST /<resource>/:id/photo for any catalog entity with a photo.
// It answers 503 when no uploader is configured.
func PhotoUpload[T any](upload func(context.Context, services.Principal, uint, string) (T, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c, "id")
		if !ok {
			return
		}
		var req PhotoUploadRequest
		if !bindJSON(c, &req) {
			return
		}
		out, err := upload(c.Request.Context(), principal(c), id, req.ImageBase64)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, out)
	}
}
