package utils

import "github.com/gofiber/fiber/v2"

// APIResponse defines the common structure returned by the API.
type APIResponse struct {
	Status  string      `json:"status"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	Meta    interface{} `json:"meta,omitempty"`
	Errors  interface{} `json:"errors,omitempty"`
}

// PaginationMeta describes one page of a list response.
type PaginationMeta struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}

func NewPaginationMeta(page, limit int, total int64) PaginationMeta {
	pages := 0
	if limit > 0 {
		pages = int((total + int64(limit) - 1) / int64(limit))
	}
	return PaginationMeta{Page: page, Limit: limit, Total: total, TotalPages: pages}
}

// JSONSuccess sends a successful JSON response with the provided status code, message and data.
func JSONSuccess(c *fiber.Ctx, statusCode int, message string, data interface{}) error {
	if statusCode == 0 {
		statusCode = fiber.StatusOK
	}

	response := APIResponse{
		Status:  "success",
		Message: message,
		Data:    data,
	}

	return c.Status(statusCode).JSON(response)
}

// JSONError sends an error JSON response with the provided status code, message and error details.
func JSONError(c *fiber.Ctx, statusCode int, message string, errDetail interface{}) error {
	if statusCode == 0 {
		statusCode = fiber.StatusInternalServerError
	}

	response := APIResponse{
		Status:  "error",
		Message: message,
		Errors:  errDetail,
	}

	return c.Status(statusCode).JSON(response)
}

func PaginatedResponse(c *fiber.Ctx, message string, data interface{}, meta PaginationMeta) error {
	return c.Status(fiber.StatusOK).JSON(APIResponse{
		Status:  "success",
		Message: message,
		Data:    data,
		Meta:    meta,
	})
}

func OK(c *fiber.Ctx, message string, data interface{}) error {
	return JSONSuccess(c, fiber.StatusOK, message, data)
}

func Created(c *fiber.Ctx, message string, data interface{}) error {
	return JSONSuccess(c, fiber.StatusCreated, message, data)
}

func BadRequest(c *fiber.Ctx, message string, errDetail interface{}) error {
	return JSONError(c, fiber.StatusBadRequest, message, errDetail)
}

func Unauthorized(c *fiber.Ctx, message string) error {
	return JSONError(c, fiber.StatusUnauthorized, message, nil)
}

func Forbidden(c *fiber.Ctx, message string) error {
	return JSONError(c, fiber.StatusForbidden, message, nil)
}

func NotFound(c *fiber.Ctx, message string) error {
	return JSONError(c, fiber.StatusNotFound, message, nil)
}

func Conflict(c *fiber.Ctx, message string) error {
	return JSONError(c, fiber.StatusConflict, message, nil)
}

func InternalServerError(c *fiber.Ctx, message string) error {
	return JSONError(c, fiber.StatusInternalServerError, message, nil)
}
