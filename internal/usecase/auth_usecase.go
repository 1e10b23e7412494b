package usecase

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"rental/internal/domain/model"
	repo "rental/internal/repository"

	"github.com/golang-jwt/jwt/v4"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// Input checks that may need the user store, implemented in package validator
type AuthValidator interface {
	ValidateLogin(ctx context.Context, email string, password string) error
	ValidateCreateUser(ctx context.Context, email string, displayName string, password string, role model.Role) error
}

type UserDTO struct {
	ID           int64  `json:"id"`
	Email        string `json:"email"`
	DisplayName  string `json:"display_name"`
	Role         string `json:"role"`
	TokenVersion int    `json:"token_version"`
}

type JwtAccessTokenDTO struct {
	AccessToken  string `json:"access_token"`
	ExpiresIn    int    `json:"expires_in"`
	TokenVersion int    `json:"token_version"`
}

type AuthLoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthLoginResponse struct {
	User  UserDTO           `json:"user"`
	Token JwtAccessTokenDTO `json:"token"`
}

type ForceLogoutResponse struct {
	UserID          int64 `json:"user_id"`
	NewTokenVersion int   `json:"new_token_version"`
}

type CreateUserInput struct {
	Email       string
	DisplayName string
	Password    string
	Role        model.Role
}

type AuthUsecase struct {
	users     repo.UserRepository
	validator AuthValidator
	jwtSecret string
	ttl       time.Duration
	clock     Clock
	log       *zap.Logger
}

func NewAuthUsecase(
	users repo.UserRepository,
	validator AuthValidator,
	jwtSecret string,
	ttl time.Duration,
	clock Clock,
	log *zap.Logger,
) *AuthUsecase {
	return &AuthUsecase{
		users:     users,
		validator: validator,
		jwtSecret: jwtSecret,
		ttl:       ttl,
		clock:     clock,
		log:       log,
	}
}

// Login checks the password and issues an HS256 access token.
func (u *AuthUsecase) Login(ctx context.Context, req AuthLoginRequest) (*AuthLoginResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if err := u.validator.ValidateLogin(ctx, email, req.Password); err != nil {
		return nil, err
	}

	user, err := u.users.FindByEmail(ctx, email)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, NewHTTPError(http.StatusUnauthorized, "invalid credentials")
	}
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	//inactive users cannot log in
	if !user.IsActive {
		return nil, NewHTTPError(http.StatusForbidden, "user is inactive")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, NewHTTPError(http.StatusUnauthorized, "invalid credentials")
	}

	now := u.clock.Now()
	token, err := u.issueAccessToken(user, now)
	if err != nil {
		u.log.Error("sign access token", zap.Int64("user_id", user.ID), zap.Error(err))
		return nil, NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	user.LastLoginAt = &now
	if err := u.users.Update(ctx, user); err != nil {
		u.log.Warn("update last_login_at", zap.Int64("user_id", user.ID), zap.Error(err))
	}

	return &AuthLoginResponse{
		User: toUserDTO(user),
		Token: JwtAccessTokenDTO{
			AccessToken:  token,
			ExpiresIn:    int(u.ttl.Seconds()),
			TokenVersion: user.TokenVersion,
		},
	}, nil
}

// CreateUser provisions a staff account. Used by the create-user command.
func (u *AuthUsecase) CreateUser(ctx context.Context, in CreateUserInput) (*UserDTO, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	name := strings.TrimSpace(in.DisplayName)
	role := in.Role
	if role == "" {
		role = model.RoleEmployee
	}
	if err := u.validator.ValidateCreateUser(ctx, email, name, in.Password, role); err != nil {
		return nil, err
	}

	hash, err := HashPassword(in.Password)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	user := &model.User{
		Email:        email,
		DisplayName:  name,
		PasswordHash: hash,
		Role:         role,
		IsActive:     true,
	}
	if err := u.users.Create(ctx, user); err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	dto := toUserDTO(user)
	return &dto, nil
}

// ForceLogout bumps token_version so TokenVersionGuard rejects older tokens.
func (u *AuthUsecase) ForceLogout(ctx context.Context, userID int64) (*ForceLogoutResponse, error) {
	if userID <= 0 {
		return nil, NewHTTPError(http.StatusBadRequest, "invalid user_id")
	}

	user, err := u.users.FindByID(ctx, userID)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	user.TokenVersion++
	if err := u.users.Update(ctx, user); err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	u.log.Info("user logged out by admin", zap.Int64("user_id", user.ID), zap.Int("token_version", user.TokenVersion))
	return &ForceLogoutResponse{UserID: user.ID, NewTokenVersion: user.TokenVersion}, nil
}

func HashPassword(plain string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (u *AuthUsecase) issueAccessToken(user *model.User, now time.Time) (string, error) {
	claims := jwt.MapClaims{
		"sub":  user.ID,
		"name": user.DisplayName,
		"role": string(user.Role),
		"tv":   user.TokenVersion,
		"iat":  now.Unix(),
		"exp":  now.Add(u.ttl).Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(u.jwtSecret))
}

func toUserDTO(u *model.User) UserDTO {
	return UserDTO{
		ID:           u.ID,
		Email:        u.Email,
		DisplayName:  u.DisplayName,
		Role:         string(u.Role),
		TokenVersion: u.TokenVersion,
	}
}
