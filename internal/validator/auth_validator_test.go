package validator

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"rental/internal/domain/model"
	"rental/internal/repository"
	"rental/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type userRepoMock struct {
	mock.Mock
}

func (m *userRepoMock) Create(ctx context.Context, user *model.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *userRepoMock) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *userRepoMock) FindByID(ctx context.Context, id int64) (*model.User, error) {
	args := m.Called(ctx, id)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *userRepoMock) Update(ctx context.Context, user *model.User) error {
	return m.Called(ctx, user).Error(0)
}

func status(t *testing.T, err error) int {
	t.Helper()
	if err == nil {
		return 0
	}
	he, ok := usecase.AsHTTPError(err)
	if !assert.True(t, ok) {
		return 0
	}
	return he.Status
}

func TestValidateLogin(t *testing.T) {
	v := NewAuthValidator(new(userRepoMock))
	ctx := context.Background()

	assert.Zero(t, status(t, v.ValidateLogin(ctx, "a@example.com", "x")))
	assert.Equal(t, http.StatusBadRequest, status(t, v.ValidateLogin(ctx, "", "x")))
	assert.Equal(t, http.StatusBadRequest, status(t, v.ValidateLogin(ctx, "a@example.com", "")))
	assert.Equal(t, http.StatusBadRequest, status(t, v.ValidateLogin(ctx, "not-an-email", "x")))
}

func TestValidateCreateUser(t *testing.T) {
	ctx := context.Background()

	users := new(userRepoMock)
	users.On("FindByEmail", mock.Anything, "new@example.com").Return(nil, repository.ErrNotFound)
	users.On("FindByEmail", mock.Anything, "taken@example.com").Return(&model.User{ID: 1}, nil)
	users.On("FindByEmail", mock.Anything, "broken@example.com").Return(nil, errors.New("conn reset"))
	v := NewAuthValidator(users)

	tests := []struct {
		name     string
		email    string
		display  string
		password string
		role     model.Role
		want     int
	}{
		{"ok", "new@example.com", "New", "password123", model.RoleEmployee, 0},
		{"bad email", "new@", "New", "password123", model.RoleEmployee, http.StatusBadRequest},
		{"no name", "new@example.com", "", "password123", model.RoleEmployee, http.StatusBadRequest},
		{"short password", "new@example.com", "New", "short", model.RoleEmployee, http.StatusBadRequest},
		{"bad role", "new@example.com", "New", "password123", "OWNER", http.StatusBadRequest},
		{"taken", "taken@example.com", "New", "password123", model.RoleAdmin, http.StatusConflict},
		{"db error", "broken@example.com", "New", "password123", model.RoleAdmin, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidateCreateUser(ctx, tt.email, tt.display, tt.password, tt.role)
			assert.Equal(t, tt.want, status(t, err))
		})
	}
}
