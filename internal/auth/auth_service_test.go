package auth_test

import (
	"context"
	"testing"
	"time"

	"paytrack/internal/auth"
	autherrors "paytrack/internal/auth/errors"
	"paytrack/internal/rbac"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const testJWTSecret = "test-secret"

type fakeAuthRepository struct {
	getByEmailFn  func(ctx context.Context, email string) (*auth.User, error)
	getByIDFn     func(ctx context.Context, id uuid.UUID) (*auth.User, error)
	createFn      func(ctx context.Context, u *auth.User) error
	emailExistsFn func(ctx context.Context, email string) (bool, error)
}

func (f *fakeAuthRepository) GetByEmail(ctx context.Context, email string) (*auth.User, error) {
	if f.getByEmailFn != nil {
		return f.getByEmailFn(ctx, email)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeAuthRepository) GetByID(ctx context.Context, id uuid.UUID) (*auth.User, error) {
	if f.getByIDFn != nil {
		return f.getByIDFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeAuthRepository) Create(ctx context.Context, u *auth.User) error {
	if f.createFn != nil {
		return f.createFn(ctx, u)
	}
	return nil
}

func (f *fakeAuthRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	if f.emailExistsFn != nil {
		return f.emailExistsFn(ctx, email)
	}
	return false, nil
}

func storedUser(t *testing.T, password string) *auth.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	assert.NoError(t, err)
	return &auth.User{
		ID:           uuid.New(),
		Email:        "riley@example.com",
		Name:         "Riley",
		Password:     string(hash),
		EmployeeType: rbac.RoleEmployee,
		StartDate:    time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		IsActive:     true,
	}
}

func TestAuthService_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("success - password is hashed and role defaults to employee", func(t *testing.T) {
		repo := &fakeAuthRepository{}
		var created *auth.User
		repo.createFn = func(ctx context.Context, u *auth.User) error {
			created = u
			return nil
		}

		svc := auth.NewService(repo)
		resp, err := svc.Register(ctx, auth.RegisterRequest{
			Email:     "riley@example.com",
			Name:      "Riley",
			Password:  "correct-horse",
			StartDate: "2026-02-01",
		})

		assert.NoError(t, err)
		assert.NotNil(t, created)
		assert.NotEqual(t, "correct-horse", created.Password)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(created.Password), []byte("correct-horse")))
		assert.Equal(t, rbac.RoleEmployee, created.EmployeeType)
		assert.True(t, created.IsActive)
		assert.Equal(t, "riley@example.com", resp.Email)
	})

	t.Run("negative - email already registered", func(t *testing.T) {
		repo := &fakeAuthRepository{
			emailExistsFn: func(ctx context.Context, email string) (bool, error) {
				return true, nil
			},
		}

		svc := auth.NewService(repo)
		_, err := svc.Register(ctx, auth.RegisterRequest{
			Email:     "riley@example.com",
			Name:      "Riley",
			Password:  "correct-horse",
			StartDate: "2026-02-01",
		})

		assert.ErrorIs(t, err, autherrors.ErrEmailTaken)
	})

	t.Run("negative - malformed start date", func(t *testing.T) {
		svc := auth.NewService(&fakeAuthRepository{})

		_, err := svc.Register(ctx, auth.RegisterRequest{
			Email:     "riley@example.com",
			Name:      "Riley",
			Password:  "correct-horse",
			StartDate: "Feb 1 2026",
		})

		assert.ErrorIs(t, err, autherrors.ErrInvalidStartDate)
	})
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()
	t.Setenv("JWT_SECRET", testJWTSecret)

	t.Run("success - tokens carry user id and role", func(t *testing.T) {
		stored := storedUser(t, "correct-horse")
		repo := &fakeAuthRepository{
			getByEmailFn: func(ctx context.Context, email string) (*auth.User, error) {
				assert.Equal(t, stored.Email, email)
				return stored, nil
			},
		}

		svc := auth.NewService(repo)
		accessToken, refreshToken, resp, err := svc.Login(ctx, stored.Email, "correct-horse")

		assert.NoError(t, err)
		assert.NotEmpty(t, refreshToken)
		assert.Equal(t, stored.ID.String(), resp.ID)

		token, err := jwt.Parse(accessToken, func(token *jwt.Token) (interface{}, error) {
			return []byte(testJWTSecret), nil
		})
		assert.NoError(t, err)
		claims := token.Claims.(jwt.MapClaims)
		assert.Equal(t, stored.ID.String(), claims["user_id"])
		assert.Equal(t, rbac.RoleEmployee, claims["role"])
	})

	t.Run("negative - wrong password", func(t *testing.T) {
		stored := storedUser(t, "correct-horse")
		repo := &fakeAuthRepository{
			getByEmailFn: func(ctx context.Context, email string) (*auth.User, error) {
				return stored, nil
			},
		}

		svc := auth.NewService(repo)
		_, _, _, err := svc.Login(ctx, stored.Email, "wrong-horse")

		assert.ErrorIs(t, err, autherrors.ErrInvalidCredentials)
	})

	t.Run("negative - unknown email yields the same error", func(t *testing.T) {
		svc := auth.NewService(&fakeAuthRepository{
			getByEmailFn: func(ctx context.Context, email string) (*auth.User, error) {
				return nil, gorm.ErrRecordNotFound
			},
		})

		_, _, _, err := svc.Login(ctx, "nobody@example.com", "whatever")

		assert.ErrorIs(t, err, autherrors.ErrInvalidCredentials)
	})
}

func TestAuthService_RefreshToken(t *testing.T) {
	ctx := context.Background()
	t.Setenv("JWT_SECRET", testJWTSecret)

	t.Run("success - rotates both tokens", func(t *testing.T) {
		stored := storedUser(t, "correct-horse")
		repo := &fakeAuthRepository{
			getByEmailFn: func(ctx context.Context, email string) (*auth.User, error) {
				return stored, nil
			},
			getByIDFn: func(ctx context.Context, id uuid.UUID) (*auth.User, error) {
				assert.Equal(t, stored.ID, id)
				return stored, nil
			},
		}

		svc := auth.NewService(repo)
		_, refreshToken, _, err := svc.Login(ctx, stored.Email, "correct-horse")
		assert.NoError(t, err)

		newAccess, newRefresh, resp, err := svc.RefreshToken(ctx, refreshToken)

		assert.NoError(t, err)
		assert.NotEmpty(t, newAccess)
		assert.NotEmpty(t, newRefresh)
		assert.Equal(t, stored.ID.String(), resp.ID)
	})

	t.Run("negative - garbage token", func(t *testing.T) {
		svc := auth.NewService(&fakeAuthRepository{})

		_, _, _, err := svc.RefreshToken(ctx, "not.a.token")

		assert.ErrorIs(t, err, autherrors.ErrInvalidRefreshToken)
	})
}

func TestAuthService_GetMe(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		stored := storedUser(t, "correct-horse")
		svc := auth.NewService(&fakeAuthRepository{
			getByIDFn: func(ctx context.Context, id uuid.UUID) (*auth.User, error) {
				return stored, nil
			},
		})

		resp, err := svc.GetMe(ctx, stored.ID.String())

		assert.NoError(t, err)
		assert.Equal(t, stored.Email, resp.Email)
	})

	t.Run("negative - invalid user id", func(t *testing.T) {
		svc := auth.NewService(&fakeAuthRepository{})

		_, err := svc.GetMe(ctx, "not-a-uuid")

		assert.ErrorIs(t, err, autherrors.ErrInvalidUserID)
	})

	t.Run("negative - unknown user", func(t *testing.T) {
		svc := auth.NewService(&fakeAuthRepository{
			getByIDFn: func(ctx context.Context, id uuid.UUID) (*auth.User, error) {
				return nil, gorm.ErrRecordNotFound
			},
		})

		_, err := svc.GetMe(ctx, uuid.New().String())

		assert.ErrorIs(t, err, autherrors.ErrUserNotFound)
	})
}
