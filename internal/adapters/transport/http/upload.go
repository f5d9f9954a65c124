package http

import (
	"errors"
	"fmt"
	nethttp "net/http"
	"os"
	"path/filepath"
	"strings"

	customErrors "github.com/Miraines/MoonyAndStarry/shop-service/internal/domain/auth/errors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type UploadOptions struct {
	Dir      string
	MaxBytes int64
}

var imageExt = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".webp": true,
	".gif":  true,
}

func isMultipart(c *gin.Context) bool {
	return strings.HasPrefix(c.ContentType(), "multipart/form-data")
}

// saveUpload stores the file sent in field under the upload dir and returns its
// path. No file, or a non-multipart request, yields an empty path.
func (h *Handler) saveUpload(c *gin.Context, field string) (string, error) {
	if !isMultipart(c) {
		return "", nil
	}
	fh, err := c.FormFile(field)
	if errors.Is(err, nethttp.ErrMissingFile) {
		return "", nil
	}
	if err != nil {
		return "", customErrors.NewInvalidArgument(err.Error())
	}
	return h.store(fh.Filename, fh.Size, func(dst string) error {
		return c.SaveUploadedFile(fh, dst)
	})
}

func (h *Handler) saveUploads(c *gin.Context, field string, max int) ([]string, error) {
	if !isMultipart(c) {
		return nil, nil
	}
	form, err := c.MultipartForm()
	if err != nil {
		return nil, customErrors.NewInvalidArgument(err.Error())
	}
	files := form.File[field]
	if len(files) > max {
		return nil, customErrors.NewInvalidArgument(fmt.Sprintf("at most %d %s allowed", max, field))
	}

	paths := make([]string, 0, len(files))
	for _, fh := range files {
		p, err := h.store(fh.Filename, fh.Size, func(dst string) error {
			return c.SaveUploadedFile(fh, dst)
		})
		if err != nil {
			removeFiles(paths...)
			return nil, err
		}
		paths = append(paths, p)
	}
	return paths, nil
}

func (h *Handler) store(name string, size int64, save func(dst string) error) (string, error) {
	ext := strings.ToLower(filepath.Ext(name))
	if !imageExt[ext] {
		return "", customErrors.NewInvalidArgument("unsupported file type " + ext)
	}
	if h.uploads.MaxBytes > 0 && size > h.uploads.MaxBytes {
		return "", customErrors.NewInvalidArgument("file is too large")
	}

	dst := filepath.Join(h.uploads.Dir, uuid.NewString()+ext)
	if err := save(dst); err != nil {
		return "", customErrors.WrapInternal(err, "save upload")
	}
	return dst, nil
}

// removeFiles drops temp uploads that never reached blob storage.
func removeFiles(paths ...string) {
	for _, p := range paths {
		if p != "" {
			_ = os.Remove(p)
		}
	}
}
