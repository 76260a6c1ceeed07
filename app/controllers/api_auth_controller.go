package controllers

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/hanapbahay/hanapbahay/app/models"
	"github.com/hanapbahay/hanapbahay/app/repository"
	"github.com/hanapbahay/hanapbahay/internal/pkg/usercontext"
)

type registerRequest struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	Phone       string `json:"phone"`
	CompanyName string `json:"company_name"`
}

type issueAPIKeyRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// HandleRegister creates a seller account. Public, no authentication required.
func HandleRegister(c *fiber.Ctx) error {
	initServices()
	users := repository.GetGlobalRepositories().User

	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, fiber.StatusBadRequest, "invalid_request", "Malformed request body")
	}

	user, err := models.CreateUser(strings.TrimSpace(req.Name), strings.TrimSpace(req.Email), req.Password)
	if err != nil {
		return respondError(c, fiber.StatusUnprocessableEntity, "invalid_request", "A name, a valid email and a password of at least 6 characters are required")
	}
	user.Phone = strings.TrimSpace(req.Phone)
	user.CompanyName = strings.TrimSpace(req.CompanyName)
	if err := user.Validate(); err != nil {
		return respondError(c, fiber.StatusUnprocessableEntity, "invalid_request", "Phone or company name is too long")
	}

	if _, err := users.GetByEmail(user.Email); err == nil {
		return respondError(c, fiber.StatusConflict, "email_taken", "An account with this email already exists")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return respondServiceError(c, err)
	}

	// The first account on a fresh install becomes the administrator, so
	// someone can review payments before any other role tooling exists.
	count, err := users.Count()
	if err != nil {
		return respondServiceError(c, err)
	}
	if count == 0 {
		user.Role = models.ROLE_ADMIN
	}

	if err := users.Create(user); err != nil {
		return respondServiceError(c, err)
	}

	return respondData(c, fiber.StatusCreated, fiber.Map{
		"id":       user.ID,
		"name":     user.Name,
		"email":    user.Email,
		"is_admin": user.IsAdmin(),
	})
}

// HandleIssueAPIKey exchanges email/password credentials for a fresh API key.
// The plaintext key is returned exactly once; only its hash is stored, and any
// previously issued key stops working.
func HandleIssueAPIKey(c *fiber.Ctx) error {
	initServices()
	users := repository.GetGlobalRepositories().User

	var req issueAPIKeyRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, fiber.StatusBadRequest, "invalid_request", "Malformed request body")
	}

	user, err := users.GetByEmail(strings.TrimSpace(req.Email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return respondError(c, fiber.StatusUnauthorized, "invalid_credentials", "Email or password is incorrect")
		}
		return respondServiceError(c, err)
	}
	if !user.CheckPassword(req.Password) {
		return respondError(c, fiber.StatusUnauthorized, "invalid_credentials", "Email or password is incorrect")
	}
	if !user.IsActive() {
		return respondError(c, fiber.StatusForbidden, "account_disabled", "This account is not active")
	}

	key, err := user.GenerateAPIKey()
	if err != nil {
		return respondServiceError(c, err)
	}
	now := time.Now()
	user.LastLoginAt = &now
	if err := users.Update(user); err != nil {
		return respondServiceError(c, err)
	}

	return respondData(c, fiber.StatusCreated, fiber.Map{
		"api_key": key,
	})
}

// HandleChangePassword replaces the authenticated user's password after
// re-checking the current one.
func HandleChangePassword(c *fiber.Ctx) error {
	initServices()
	users := repository.GetGlobalRepositories().User
	userCtx := usercontext.GetUserContext(c)

	var req changePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, fiber.StatusBadRequest, "invalid_request", "Malformed request body")
	}
	if len(req.NewPassword) < 6 {
		return respondError(c, fiber.StatusUnprocessableEntity, "invalid_request", "The new password must be at least 6 characters")
	}

	user, err := users.GetByID(userCtx.UserID)
	if err != nil {
		return respondServiceError(c, err)
	}
	if !user.CheckPassword(req.CurrentPassword) {
		return respondError(c, fiber.StatusForbidden, "wrong_password", "The current password is incorrect")
	}

	if err := user.SetPassword(req.NewPassword); err != nil {
		return respondServiceError(c, err)
	}
	if err := users.Update(user); err != nil {
		return respondServiceError(c, err)
	}

	return respondData(c, fiber.StatusOK, fiber.Map{"changed": true})
}
