package appers

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"
)

var (
	// ошибки разбора денежных сумм (Asset.PurchasePrice)
	ErrFormat    = errors.New("invalid decimal format")
	ErrScale     = errors.New("too many fractional digits (max 2)")
	ErrPrecision = errors.New("too many integer digits (max 16)")
)

type ErrorResp struct {
	StatusCode int    `json:"statusCode,omitempty"`
	StatusDesc string `json:"statusDesc,omitempty"`
}

func (e ErrorResp) Error() string {
	return e.StatusDesc
}

var (
	ErrNotFound = ErrorResp{
		http.StatusNotFound,
		"not found",
	}
	ErrAlreadyExists = ErrorResp{
		http.StatusConflict,
		"already exists",
	}
	ErrUnknownTrigger = ErrorResp{
		http.StatusNotFound,
		"unknown trigger",
	}
	ErrInvalidDate = ErrorResp{
		StatusCode: http.StatusBadRequest,
		StatusDesc: "invalid date format, expected YYYY-MM-DD",
	}
	ErrInvalidDateRange = ErrorResp{
		StatusCode: http.StatusBadRequest,
		StatusDesc: "end date must not be before start date",
	}
	ErrAssigneeRequired = ErrorResp{
		StatusCode: http.StatusBadRequest,
		StatusDesc: "assignedTo is required when status is assigned",
	}
	ErrAssetNotAssignable = ErrorResp{
		StatusCode: http.StatusConflict,
		StatusDesc: "asset is not available for assignment",
	}
	ErrAssetNotAssigned = ErrorResp{
		StatusCode: http.StatusConflict,
		StatusDesc: "asset is not assigned",
	}
	ErrLootboxOpened = ErrorResp{
		StatusCode: http.StatusConflict,
		StatusDesc: "lootbox is already opened",
	}
	ErrUnauthorized = ErrorResp{
		StatusCode: http.StatusUnauthorized,
		StatusDesc: "unauthorized",
	}
)

func SanitizeError(c *fiber.Ctx, err error) error {
	var errResp ErrorResp

	switch {
	case errors.As(err, &errResp):
		return c.Status(errResp.StatusCode).JSON(fiber.Map{
			"message": errResp.StatusDesc,
		})
	case errors.Is(err, ErrFormat), errors.Is(err, ErrScale), errors.Is(err, ErrPrecision):
		return NewErr(c, http.StatusBadRequest, err)
	default:
		return NewErr(c, http.StatusInternalServerError, err)
	}
}

func NewErr(ctx *fiber.Ctx, status int, err error) error {
	return ctx.Status(status).JSON(fiber.Map{
		"message": err.Error(),
	})
}
