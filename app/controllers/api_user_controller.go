package controllers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/hanapbahay/hanapbahay/app/repository"
	"github.com/hanapbahay/hanapbahay/internal/pkg/usercontext"
)

// HandleGetUserAccount returns account information for the authenticated user.
func HandleGetUserAccount(c *fiber.Ctx) error {
	initServices()
	userCtx := usercontext.GetUserContext(c)

	account, err := repository.GetGlobalRepositories().User.GetByID(userCtx.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return respondError(c, fiber.StatusNotFound, "not_found", "User not found")
		}
		return respondServiceError(c, err)
	}

	return respondData(c, fiber.StatusOK, fiber.Map{
		"id":                   account.ID,
		"name":                 account.Name,
		"email":                account.Email,
		"phone":                account.Phone,
		"company_name":         account.CompanyName,
		"status":               account.Status,
		"is_admin":             account.IsAdmin(),
		"created_at":           account.CreatedAt.UTC().Format(time.RFC3339),
		"last_login_at":        formatTimePtr(account.LastLoginAt),
		"api_key_last_used_at": formatTimePtr(account.APIKeyLastUsedAt),
	})
}

// HandleGetUserStatistics returns the caller's usage and quota snapshot:
// live counts joined against the effective plan's limits.
func HandleGetUserStatistics(c *fiber.Ctx) error {
	initServices()
	userCtx := usercontext.GetUserContext(c)

	stats, err := statsService.GetUserStatistics(userCtx.UserID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return respondData(c, fiber.StatusOK, stats)
}
