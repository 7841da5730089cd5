package user

import (
	"context"
	"errors"
	"testing"

	"storefront-be/internal/apperror"
	"storefront-be/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockRepository is a mock implementation of the Repository interface
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Create(ctx context.Context, u *User) (*User, error) {
	args := m.Called(ctx, u)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*User), args.Error(1)
}

func (m *MockRepository) FindByID(ctx context.Context, id string) (*User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*User), args.Error(1)
}

func (m *MockRepository) FindByEmail(ctx context.Context, email string) (*User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*User), args.Error(1)
}

type stubIssuer struct {
	token string
	err   error
}

func (s stubIssuer) Issue(u *User) (string, error) {
	return s.token, s.err
}

func TestService_GetUser(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		mockRepo := new(MockRepository)
		svc := NewService(mockRepo, nil)
		expected := &User{ID: "u1", Email: "a@test.com"}

		mockRepo.On("FindByID", ctx, "u1").Return(expected, nil)

		u, err := svc.GetUser(ctx, "u1")
		assert.NoError(t, err)
		assert.Equal(t, expected, u)
	})

	t.Run("NotFound", func(t *testing.T) {
		mockRepo := new(MockRepository)
		svc := NewService(mockRepo, nil)

		mockRepo.On("FindByID", ctx, "u2").Return(nil, nil)

		_, err := svc.GetUser(ctx, "u2")
		assert.ErrorIs(t, err, apperror.ErrNotFound)
	})
}

func TestService_GetUserByEmail(t *testing.T) {
	ctx := context.Background()
	email := "test@example.com"

	t.Run("Success", func(t *testing.T) {
		mockRepo := new(MockRepository)
		svc := NewService(mockRepo, nil)
		expectedUser := &User{ID: "u1", Email: email}

		mockRepo.On("FindByEmail", ctx, email).Return(expectedUser, nil)

		user, err := svc.GetUserByEmail(ctx, email)
		assert.NoError(t, err)
		assert.Equal(t, expectedUser, user)
	})

	t.Run("Error", func(t *testing.T) {
		mockRepo := new(MockRepository)
		svc := NewService(mockRepo, nil)

		mockRepo.On("FindByEmail", ctx, email).Return(nil, errors.New("db error"))

		_, err := svc.GetUserByEmail(ctx, email)
		assert.EqualError(t, err, "db error")
	})

	t.Run("NotFound", func(t *testing.T) {
		mockRepo := new(MockRepository)
		svc := NewService(mockRepo, nil)

		mockRepo.On("FindByEmail", ctx, email).Return(nil, nil)

		_, err := svc.GetUserByEmail(ctx, email)
		assert.ErrorIs(t, err, ErrUserNotFound)
	})
}

func TestService_CreateUser(t *testing.T) {
	ctx := context.Background()
	email := "test@example.com"

	t.Run("DefaultsRoleAndHashesPassword", func(t *testing.T) {
		mockRepo := new(MockRepository)
		svc := NewService(mockRepo, nil)

		mockRepo.On("FindByEmail", ctx, email).Return(nil, nil)
		mockRepo.On("Create", ctx, mock.MatchedBy(func(u *User) bool {
			return u.Role == RoleUser && u.Password != "password123" && CheckPasswordHash("password123", u.Password)
		})).Return(&User{ID: "u1", Email: email, Role: RoleUser}, nil)

		u, err := svc.CreateUser(ctx, CreateUserParams{Email: email, Password: "password123"})

		assert.NoError(t, err)
		assert.Equal(t, "u1", u.ID)
		mockRepo.AssertExpectations(t)
	})

	t.Run("EmailExists", func(t *testing.T) {
		mockRepo := new(MockRepository)
		svc := NewService(mockRepo, nil)

		mockRepo.On("FindByEmail", ctx, email).Return(&User{ID: "u0"}, nil)

		_, err := svc.CreateUser(ctx, CreateUserParams{Email: email, Password: "x"})
		assert.ErrorIs(t, err, ErrEmailExists)
		mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("Validation", func(t *testing.T) {
		svc := NewService(new(MockRepository), nil)

		_, err := svc.CreateUser(ctx, CreateUserParams{Email: "bad", Password: "x"})
		assert.ErrorIs(t, err, apperror.ErrValidation)

		_, err = svc.CreateUser(ctx, CreateUserParams{Email: email})
		assert.ErrorIs(t, err, apperror.ErrValidation)

		_, err = svc.CreateUser(ctx, CreateUserParams{Email: email, Password: "x", Role: "root"})
		assert.ErrorIs(t, err, apperror.ErrValidation)
	})

	t.Run("RepoError", func(t *testing.T) {
		mockRepo := new(MockRepository)
		svc := NewService(mockRepo, nil)

		mockRepo.On("FindByEmail", ctx, email).Return(nil, nil)
		mockRepo.On("Create", ctx, mock.Anything).Return(nil, errors.New("db error"))

		_, err := svc.CreateUser(ctx, CreateUserParams{Email: email, Password: "x"})
		assert.EqualError(t, err, "db error")
	})
}

func TestService_Login(t *testing.T) {
	ctx := context.Background()
	email := "test@example.com"
	password := "password123"

	hashedPassword, _ := HashPassword(password)
	user := &User{ID: "u1", Email: email, Password: hashedPassword, Role: RoleUser}

	t.Run("Success", func(t *testing.T) {
		mockRepo := new(MockRepository)
		svc := NewService(mockRepo, stubIssuer{token: "signed"})

		mockRepo.On("FindByEmail", ctx, email).Return(user, nil)

		token, u, err := svc.Login(ctx, email, password)

		assert.NoError(t, err)
		assert.Equal(t, "signed", token)
		assert.Equal(t, user, u)
	})

	t.Run("UserNotFound", func(t *testing.T) {
		mockRepo := new(MockRepository)
		svc := NewService(mockRepo, stubIssuer{token: "signed"})

		mockRepo.On("FindByEmail", ctx, email).Return(nil, nil)

		_, _, err := svc.Login(ctx, email, password)
		assert.ErrorIs(t, err, apperror.ErrUnauthorized)
	})

	t.Run("InvalidPassword", func(t *testing.T) {
		mockRepo := new(MockRepository)
		svc := NewService(mockRepo, stubIssuer{token: "signed"})

		mockRepo.On("FindByEmail", ctx, email).Return(user, nil)

		_, _, err := svc.Login(ctx, email, "wrongpassword")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("IssuerError", func(t *testing.T) {
		mockRepo := new(MockRepository)
		svc := NewService(mockRepo, stubIssuer{err: errors.New("boom")})

		mockRepo.On("FindByEmail", ctx, email).Return(user, nil)

		_, _, err := svc.Login(ctx, email, password)
		assert.ErrorContains(t, err, "boom")
	})
}

func TestService_SeedAdmin(t *testing.T) {
	ctx := context.Background()
	svc := NewService(NewRepository(store.NewMemory()), nil)

	admin, err := svc.SeedAdmin(ctx, "admin@test.com", "admin123", "María González")
	require.NoError(t, err)
	assert.Equal(t, RoleAdmin, admin.Role)
	assert.True(t, CheckPasswordHash("admin123", admin.Password))

	again, err := svc.SeedAdmin(ctx, "admin@test.com", "other", "Other")
	require.NoError(t, err)
	assert.Equal(t, admin.ID, again.ID)
}

func TestUser_View(t *testing.T) {
	u := &User{ID: "u1", Email: "a@test.com", Password: "hash", Name: "A", Role: RoleAdmin}
	v := u.View()

	assert.Equal(t, "u1", v.ID)
	assert.Equal(t, RoleAdmin, v.Role)
}
