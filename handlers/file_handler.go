package handlers

import (
	"errors"
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/penoFahmi/e-arsip-sub000/utils"
	"github.com/penoFahmi/e-arsip-sub000/utils/storage"
)

// FileHandler serves files of the local store to authenticated users. S3
// deployments hand out presigned URLs instead.
type FileHandler struct {
	store *storage.LocalStore
}

func NewFileHandler(store *storage.LocalStore) *FileHandler {
	return &FileHandler{store: store}
}

// ServeFile - GET /files/*
func (h *FileHandler) ServeFile(c *fiber.Ctx) error {
	key := c.Params("*")
	if key == "" {
		return utils.NotFound(c, "File tidak ditemukan")
	}
	if err := storage.CheckExtension(key); err != nil {
		return utils.NotFound(c, "File tidak ditemukan")
	}

	path, err := h.store.Path(key)
	if err != nil {
		return utils.BadRequest(c, "Path file tidak valid", nil)
	}
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return utils.NotFound(c, "File tidak ditemukan")
		}
		return respondError(c, err, "Gagal membaca file")
	}
	return c.SendFile(path)
}
