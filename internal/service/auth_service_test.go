package service

import (
	"context"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"llama-chat-be/internal/dto"
	"llama-chat-be/internal/repository/memory"
)

const testSecret = "test-secret"

func newAuthService() IAuthService {
	return NewAuthService(
		memory.NewUserRepository(),
		[]string{"roberto", "pablo", "shafeena"},
		testSecret,
		24,
		nopLogger{},
	)
}

func TestSignupAllowedUser(t *testing.T) {
	svc := newAuthService()

	user, err := svc.Signup(context.Background(), &dto.SignupRequest{
		Name:     "Roberto",
		Email:    "roberto@example.com",
		Password: "Secret12",
	})
	require.NoError(t, err)
	assert.Equal(t, "Roberto", user.Name)
	assert.Equal(t, "roberto@example.com", user.Email)
}

func TestSignupRejectsUnknownUser(t *testing.T) {
	svc := newAuthService()

	_, err := svc.Signup(context.Background(), &dto.SignupRequest{
		Name:     "mallory",
		Email:    "mallory@example.com",
		Password: "Secret12",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not allowed")
}

func TestSignupPasswordPolicy(t *testing.T) {
	svc := newAuthService()

	cases := []struct {
		name     string
		password string
	}{
		{"too short", "Ab1"},
		{"no uppercase", "secret123"},
		{"no digit", "SecretPass"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Signup(context.Background(), &dto.SignupRequest{
				Name:     "pablo",
				Email:    "pablo@example.com",
				Password: tc.password,
			})
			assert.Error(t, err)
		})
	}
}

func TestSignupDuplicateEmail(t *testing.T) {
	svc := newAuthService()
	ctx := context.Background()

	_, err := svc.Signup(ctx, &dto.SignupRequest{Name: "pablo", Email: "pablo@example.com", Password: "Secret12"})
	require.NoError(t, err)

	_, err = svc.Signup(ctx, &dto.SignupRequest{Name: "pablo", Email: "pablo@example.com", Password: "Secret12"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "email already exists")
}

func TestLoginRoundTrip(t *testing.T) {
	svc := newAuthService()
	ctx := context.Background()

	_, err := svc.Signup(ctx, &dto.SignupRequest{Name: "shafeena", Email: "shafeena@example.com", Password: "Secret12"})
	require.NoError(t, err)

	res, err := svc.Login(ctx, &dto.LoginRequest{Email: "shafeena@example.com", Password: "Secret12"})
	require.NoError(t, err)
	assert.Equal(t, "shafeena", res.User.Name)
	require.NotEmpty(t, res.Token)

	token, err := jwt.Parse(res.Token, func(t *jwt.Token) (interface{}, error) {
		return []byte(testSecret), nil
	})
	require.NoError(t, err)
	assert.True(t, token.Valid)
	claims := token.Claims.(jwt.MapClaims)
	assert.NotEmpty(t, claims["user_id"])
}

func TestLoginFailuresAreUniform(t *testing.T) {
	svc := newAuthService()
	ctx := context.Background()

	_, err := svc.Signup(ctx, &dto.SignupRequest{Name: "roberto", Email: "roberto@example.com", Password: "Secret12"})
	require.NoError(t, err)

	_, wrongPass := svc.Login(ctx, &dto.LoginRequest{Email: "roberto@example.com", Password: "Wrong999"})
	_, noUser := svc.Login(ctx, &dto.LoginRequest{Email: "ghost@example.com", Password: "Secret12"})

	require.Error(t, wrongPass)
	require.Error(t, noUser)
	assert.Equal(t, wrongPass.Error(), noUser.Error())
}

func TestForgotPasswordUpdatesHash(t *testing.T) {
	svc := newAuthService()
	ctx := context.Background()

	_, err := svc.Signup(ctx, &dto.SignupRequest{Name: "pablo", Email: "pablo@example.com", Password: "Secret12"})
	require.NoError(t, err)

	err = svc.ForgotPassword(ctx, &dto.ForgotPasswordRequest{Email: "pablo@example.com", NewPassword: "Update34"})
	require.NoError(t, err)

	_, err = svc.Login(ctx, &dto.LoginRequest{Email: "pablo@example.com", Password: "Secret12"})
	assert.Error(t, err)

	_, err = svc.Login(ctx, &dto.LoginRequest{Email: "pablo@example.com", Password: "Update34"})
	assert.NoError(t, err)
}

func TestForgotPasswordUnknownEmail(t *testing.T) {
	svc := newAuthService()

	err := svc.ForgotPassword(context.Background(), &dto.ForgotPasswordRequest{
		Email:       "nobody@example.com",
		NewPassword: "Update34",
	})
	assert.Error(t, err)
}

func TestPasswordHashVerify(t *testing.T) {
	hash, err := hashPassword("Secret12")
	require.NoError(t, err)

	ok, err := verifyPassword("Secret12", hash)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = verifyPassword("Secret13", hash)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = verifyPassword("Secret12", "not-a-hash")
	assert.Error(t, err)
}
