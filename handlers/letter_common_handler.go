package handlers

import (
	"errors"
	"io"
	"mime/multipart"

	"github.com/gofiber/fiber/v2"
	"github.com/penoFahmi/e-arsip-sub000/dto/letters"
	"github.com/penoFahmi/e-arsip-sub000/middleware"
	"github.com/penoFahmi/e-arsip-sub000/models"
	"github.com/penoFahmi/e-arsip-sub000/services"
	"github.com/penoFahmi/e-arsip-sub000/utils"
	"github.com/penoFahmi/e-arsip-sub000/utils/logger"
	"github.com/penoFahmi/e-arsip-sub000/utils/storage"
)

const msgForbidden = "Anda tidak memiliki akses"

// respondError menerjemahkan error service ke envelope APIResponse.
func respondError(c *fiber.Ctx, err error, fallback string) error {
	if ve, ok := services.IsValidation(err); ok {
		return utils.BadRequest(c, "Validasi gagal", ve.Fields)
	}
	if ce, ok := services.IsConflict(err); ok {
		return utils.Conflict(c, ce.Message)
	}
	switch {
	case errors.Is(err, services.ErrUnauthorized):
		return utils.Unauthorized(c, "Unauthorized")
	case errors.Is(err, services.ErrForbidden):
		return utils.Forbidden(c, msgForbidden)
	case errors.Is(err, services.ErrNotFound):
		return utils.NotFound(c, "Data tidak ditemukan")
	case errors.Is(err, services.ErrStorage):
		logger.App().WithError(err).WithField("path", c.Path()).Error("storage failure")
		return utils.InternalServerError(c, "Gagal menyimpan file")
	}
	logger.App().WithError(err).WithField("path", c.Path()).Error(fallback)
	return utils.InternalServerError(c, fallback)
}

func currentUser(c *fiber.Ctx) *models.User {
	return middleware.CurrentUser(c)
}

func paramID(c *fiber.Ctx, name string) (uint, bool) {
	id, err := c.ParamsInt(name)
	if err != nil || id <= 0 {
		return 0, false
	}
	return uint(id), true
}

// fileLinker turns stored paths into links, for example presigned S3 URLs.
func fileLinker(c *fiber.Ctx, store storage.Store) letters.URLFunc {
	ctx := c.UserContext()
	return func(path string) string {
		url, err := store.URL(ctx, path)
		if err != nil {
			logger.App().WithError(err).WithField("file", path).Warn("failed to build file url")
			return ""
		}
		return url
	}
}

// formFiles opens every upload of the multipart field. The returned closer
// must be called once the files are stored.
func formFiles(c *fiber.Ctx, field string) ([]storage.File, func(), error) {
	form, err := c.MultipartForm()
	if err != nil {
		// bukan multipart: tidak ada file
		return nil, func() {}, nil
	}
	return openHeaders(form.File[field])
}

// formFile opens the optional single upload of field, nil when absent.
func formFile(c *fiber.Ctx, field string) (*storage.File, func(), error) {
	fh, err := c.FormFile(field)
	if err != nil {
		return nil, func() {}, nil
	}
	files, closeAll, err := openHeaders([]*multipart.FileHeader{fh})
	if err != nil {
		return nil, closeAll, err
	}
	return &files[0], closeAll, nil
}

func openHeaders(headers []*multipart.FileHeader) ([]storage.File, func(), error) {
	var closers []io.Closer
	closeAll := func() {
		for _, cl := range closers {
			cl.Close()
		}
	}
	files := make([]storage.File, 0, len(headers))
	for _, fh := range headers {
		f, cl, err := storage.FromFileHeader(fh)
		if err != nil {
			closeAll()
			return nil, func() {}, err
		}
		closers = append(closers, cl)
		files = append(files, f)
	}
	return files, closeAll, nil
}
