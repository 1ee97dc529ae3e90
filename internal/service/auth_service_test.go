package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/campus-spark/events-api/internal/models"
	"github.com/campus-spark/events-api/internal/repository"
	"github.com/campus-spark/events-api/internal/store"
	appErrors "github.com/campus-spark/events-api/pkg/errors"
)

func newTestAuth(t *testing.T) *AuthService {
	t.Helper()
	users := repository.NewUserRepository(store.NewMemory(), zap.NewNop())
	return NewAuthService(users, nil, zap.NewNop(), AuthConfig{
		TokenSecret: "test-secret",
		TokenExpiry: time.Hour,
		Issuer:      "campus-spark-test",
	})
}

func signupRequest(email string) models.SignupRequest {
	return models.SignupRequest{
		Email:    email,
		Password: "s3cret-pass",
		FullName: "Asha Verma",
		Phone:    "9876543210",
		College:  "Engineering",
	}
}

func TestSignupDefaultsToStudentRole(t *testing.T) {
	svc := newTestAuth(t)

	user, err := svc.Signup(context.Background(), signupRequest("asha@campus.edu"))
	require.NoError(t, err)
	assert.Equal(t, models.RoleStudent, user.Role)
	assert.NotEmpty(t, user.ID)
}

func TestSignupAdminRole(t *testing.T) {
	svc := newTestAuth(t)

	req := signupRequest("admin@campus.edu")
	req.Role = string(models.RoleAdmin)
	user, err := svc.Signup(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, user.Role)
}

func TestSignupRejectsDuplicateEmail(t *testing.T) {
	svc := newTestAuth(t)
	ctx := context.Background()

	_, err := svc.Signup(ctx, signupRequest("asha@campus.edu"))
	require.NoError(t, err)

	_, err = svc.Signup(ctx, signupRequest("asha@campus.edu"))
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
}

func TestLoginAndValidateToken(t *testing.T) {
	svc := newTestAuth(t)
	ctx := context.Background()

	_, err := svc.Signup(ctx, signupRequest("asha@campus.edu"))
	require.NoError(t, err)

	result, err := svc.Login(ctx, models.LoginRequest{Email: "asha@campus.edu", Password: "s3cret-pass"})
	require.NoError(t, err)
	assert.NotEmpty(t, result.AccessToken)
	assert.Equal(t, "asha@campus.edu", result.User.Email)

	claims, err := svc.ValidateToken(result.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, result.User.ID, claims.UserID)
	assert.Equal(t, models.RoleStudent, claims.Role)
	assert.Equal(t, "asha@campus.edu", claims.Email)
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	svc := newTestAuth(t)
	ctx := context.Background()

	_, err := svc.Signup(ctx, signupRequest("asha@campus.edu"))
	require.NoError(t, err)

	_, err = svc.Login(ctx, models.LoginRequest{Email: "asha@campus.edu", Password: "wrong"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErrors.FromError(err).Code)
}

func TestLoginRejectsUnknownEmail(t *testing.T) {
	svc := newTestAuth(t)

	_, err := svc.Login(context.Background(), models.LoginRequest{Email: "nobody@campus.edu", Password: "whatever"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErrors.FromError(err).Code)
}

func TestStudentsListsOnlyStudentAccounts(t *testing.T) {
	svc := newTestAuth(t)
	ctx := context.Background()

	_, err := svc.Signup(ctx, signupRequest("asha@campus.edu"))
	require.NoError(t, err)

	artsReq := signupRequest("ravi@campus.edu")
	artsReq.FullName = "Ravi Kumar"
	artsReq.College = "Arts"
	_, err = svc.Signup(ctx, artsReq)
	require.NoError(t, err)

	adminReq := signupRequest("dean@campus.edu")
	adminReq.Role = string(models.RoleAdmin)
	_, err = svc.Signup(ctx, adminReq)
	require.NoError(t, err)

	all, err := svc.Students(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 2)
	for _, student := range all {
		assert.Equal(t, models.RoleStudent, student.Role)
	}

	arts, err := svc.Students(ctx, "arts")
	require.NoError(t, err)
	require.Len(t, arts, 1)
	assert.Equal(t, "ravi@campus.edu", arts[0].Email)
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	svc := newTestAuth(t)

	_, err := svc.ValidateToken("not-a-token")
	require.Error(t, err)
}
