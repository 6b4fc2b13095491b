package service

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/argon2"

	"llama-chat-be/internal/dto"
	"llama-chat-be/internal/entity"
	"llama-chat-be/internal/pkg/logger"
	"llama-chat-be/internal/repository/memory"
)

type IAuthService interface {
	Signup(ctx context.Context, req *dto.SignupRequest) (*dto.AuthUser, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error)
	ForgotPassword(ctx context.Context, req *dto.ForgotPasswordRequest) error
}

type authService struct {
	users        *memory.UserRepository
	allowedUsers map[string]struct{}
	jwtSecret    string
	tokenTTL     time.Duration
	logger       logger.ILogger
}

func NewAuthService(users *memory.UserRepository, allowedUsers []string, jwtSecret string, tokenTTLHours int, sysLogger logger.ILogger) IAuthService {
	allowed := make(map[string]struct{}, len(allowedUsers))
	for _, name := range allowedUsers {
		allowed[strings.ToLower(name)] = struct{}{}
	}
	return &authService{
		users:        users,
		allowedUsers: allowed,
		jwtSecret:    jwtSecret,
		tokenTTL:     time.Duration(tokenTTLHours) * time.Hour,
		logger:       sysLogger,
	}
}

func (s *authService) Signup(_ context.Context, req *dto.SignupRequest) (*dto.AuthUser, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, errors.New("name cannot be empty")
	}
	if _, ok := s.allowedUsers[strings.ToLower(name)]; !ok {
		return nil, fmt.Errorf("user '%s' is not allowed to sign up", name)
	}
	if err := checkPasswordComplexity(req.Password); err != nil {
		return nil, err
	}
	if _, exists := s.users.FindByEmail(req.Email); exists {
		return nil, errors.New("email already exists")
	}

	hash, err := hashPassword(req.Password)
	if err != nil {
		return nil, err
	}
	user := &entity.User{
		Id:           uuid.New(),
		Name:         name,
		Email:        req.Email,
		PasswordHash: hash,
		CreatedAt:    time.Now(),
	}
	s.users.Save(user)
	s.logger.Info("auth", "user signed up", map[string]interface{}{"email": req.Email})

	return &dto.AuthUser{Name: user.Name, Email: user.Email}, nil
}

func (s *authService) Login(_ context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error) {
	user, found := s.users.FindByEmail(req.Email)
	if !found {
		return nil, errors.New("invalid credentials")
	}
	ok, err := verifyPassword(req.Password, user.PasswordHash)
	if err != nil || !ok {
		return nil, errors.New("invalid credentials")
	}

	claims := jwt.MapClaims{
		"user_id": user.Id.String(),
		"exp":     time.Now().Add(s.tokenTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return nil, err
	}

	s.logger.Info("auth", "user logged in", map[string]interface{}{"email": req.Email})
	return &dto.LoginResponse{
		User:  dto.AuthUser{Name: user.Name, Email: user.Email},
		Token: signedToken,
	}, nil
}

func (s *authService) ForgotPassword(_ context.Context, req *dto.ForgotPasswordRequest) error {
	if err := checkPasswordComplexity(req.NewPassword); err != nil {
		return err
	}
	user, found := s.users.FindByEmail(req.Email)
	if !found {
		return errors.New("user with this email does not exist")
	}
	hash, err := hashPassword(req.NewPassword)
	if err != nil {
		return err
	}
	user.PasswordHash = hash
	s.users.Save(user)
	s.logger.Info("auth", "password reset", map[string]interface{}{"email": req.Email})
	return nil
}

func checkPasswordComplexity(password string) error {
	if len(password) < 8 {
		return errors.New("password must be at least 8 characters long")
	}
	hasUpper, hasDigit := false, false
	for _, r := range password {
		if unicode.IsUpper(r) {
			hasUpper = true
		}
		if unicode.IsDigit(r) {
			hasDigit = true
		}
	}
	if !hasUpper || !hasDigit {
		return errors.New("password must contain at least one uppercase letter and one digit")
	}
	return nil
}

// --- Argon2id password hashing ---

const (
	argonTime    = 1
	argonMemory  = 64 * 1024
	argonThreads = 4
	argonKeyLen  = 32
	argonSaltLen = 16
)

func hashPassword(password string) (string, error) {
	salt := make([]byte, argonSaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", err
	}
	key := argon2.IDKey([]byte(password), salt, argonTime, argonMemory, argonThreads, argonKeyLen)
	return fmt.Sprintf("argon2id$%s$%s",
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	), nil
}

func verifyPassword(password, stored string) (bool, error) {
	parts := strings.Split(stored, "$")
	if len(parts) != 3 || parts[0] != "argon2id" {
		return false, errors.New("invalid stored password format")
	}
	salt, err := base64.RawStdEncoding.DecodeString(parts[1])
	if err != nil {
		return false, err
	}
	want, err := base64.RawStdEncoding.DecodeString(parts[2])
	if err != nil {
		return false, err
	}
	got := argon2.IDKey([]byte(password), salt, argonTime, argonMemory, argonThreads, argonKeyLen)
	return subtle.ConstantTimeCompare(got, want) == 1, nil
}
