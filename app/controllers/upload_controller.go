package controllers

import (
	"errors"
	"net/http"

	"github.com/sadekstore/storefront/app/services"
	"github.com/sadekstore/storefront/pkg/ctx"
	"github.com/sadekstore/storefront/pkg/response"
)

// multipartOverhead is the slack allowed on top of the image size for
// boundaries and part headers.
const multipartOverhead = 1 << 20

type UploadController struct {
	uploads *services.UploadService
}

func NewUploadController(uploads *services.UploadService) *UploadController {
	return &UploadController{uploads: uploads}
}

// Store handles POST /api/upload with a multipart "image" field.
func (uc *UploadController) Store(c *ctx.Context) {
	c.R.Body = http.MaxBytesReader(c.W, c.R.Body, uc.uploads.MaxBytes()+multipartOverhead)

	file, _, err := c.R.FormFile("image")
	if err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			c.Error(http.StatusRequestEntityTooLarge, "File too large")
			return
		}
		c.Error(http.StatusBadRequest, "No image file provided")
		return
	}
	defer file.Close()

	url, err := uc.uploads.Store(c.Context(), file)
	if err != nil {
		fail(c, err, "")
		return
	}

	c.Success(response.Fields{
		"imageUrl": url,
		"message":  "Image uploaded successfully",
	})
}
