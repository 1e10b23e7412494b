package validator

import (
	"context"
	"errors"
	"net/http"
	"regexp"

	"rental/internal/domain/model"
	"rental/internal/repository"
	"rental/internal/usecase"
)

const minPasswordLen = 8

var emailLike = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

type authValidator struct {
	users repository.UserRepository
}

// Injected into AuthUsecase. Every returned error is a *usecase.HTTPError.
func NewAuthValidator(users repository.UserRepository) usecase.AuthValidator {
	return &authValidator{users: users}
}

func (v *authValidator) ValidateLogin(ctx context.Context, email string, password string) error {
	if email == "" || password == "" {
		return usecase.NewHTTPError(http.StatusBadRequest, "email and password are required")
	}
	if !isEmailLike(email) {
		return usecase.NewHTTPError(http.StatusBadRequest, "invalid email")
	}
	return nil
}

// ValidateCreateUser checks the new account, including email uniqueness.
func (v *authValidator) ValidateCreateUser(ctx context.Context, email string, displayName string, password string, role model.Role) error {
	if !isEmailLike(email) {
		return usecase.NewHTTPError(http.StatusBadRequest, "invalid email")
	}
	if displayName == "" {
		return usecase.NewHTTPError(http.StatusBadRequest, "display_name is required")
	}
	if len(password) < minPasswordLen {
		return usecase.NewHTTPError(http.StatusBadRequest, "password too short")
	}
	if role != model.RoleEmployee && role != model.RoleAdmin {
		return usecase.NewHTTPError(http.StatusBadRequest, "invalid role")
	}

	_, err := v.users.FindByEmail(ctx, email)
	if err == nil {
		return usecase.NewHTTPError(http.StatusConflict, "email already exists")
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return usecase.NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}

func isEmailLike(s string) bool {
	return emailLike.MatchString(s)
}
