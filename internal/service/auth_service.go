package service

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog/log"

	"github.com/AmpolStack/AccessControlPlatform/internal/config"
	"github.com/AmpolStack/AccessControlPlatform/internal/dto"
	"github.com/AmpolStack/AccessControlPlatform/internal/hashing"
	"github.com/AmpolStack/AccessControlPlatform/internal/model"
	"github.com/AmpolStack/AccessControlPlatform/internal/repository"
)

type AuthService interface {
	Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*dto.LoginResponse, error)
	ChangePassword(ctx context.Context, userID uint, req dto.ChangePasswordRequest) error
	CreateUser(ctx context.Context, req dto.CreateUserRequest) (*dto.UserResponse, error)
	ListUsers(ctx context.Context, includeInactive bool) ([]dto.UserResponse, error)
	UpdateUser(ctx context.Context, id uint, req dto.UpdateUserRequest) (*dto.UserResponse, error)
	DeactivateUser(ctx context.Context, id uint) error
	ReactivateUser(ctx context.Context, id uint) error
	// DeleteUser removes the account permanently (data removal requests);
	// day-to-day offboarding uses DeactivateUser.
	DeleteUser(ctx context.Context, id uint) error
}

type authService struct {
	users  repository.UserRepository
	estabs repository.EstablishmentRepository
	hasher *hashing.Hasher
	cfg    *config.Config
}

func NewAuthService(users repository.UserRepository, estabs repository.EstablishmentRepository, hasher *hashing.Hasher, cfg *config.Config) AuthService {
	return &authService{users: users, estabs: estabs, hasher: hasher, cfg: cfg}
}

// ── Login ─────────────────────────────────────────────────────────────────────

func (s *authService) Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := s.users.FindActiveByEmail(ctx, req.Email)
	if err != nil {
		if isNotFound(err) {
			return nil, Validation("invalid credentials")
		}
		return nil, dataAccessf(err, "login: find user")
	}

	ok, err := s.hasher.Check(req.Password, user.PasswordHash)
	if err != nil {
		// Corrupt stored hash — same message to the caller as a plain
		// mismatch, but logged loudly for operators.
		if errors.Is(err, hashing.ErrInvalidHash) {
			log.Error().Uint("user_id", user.ID).Msg("stored password hash is malformed")
			return nil, Validation("invalid credentials")
		}
		return nil, DataAccess(err)
	}
	if !ok {
		return nil, Validation("invalid credentials")
	}

	now := time.Now()
	user.LastLoginAt = &now
	if err := s.users.Update(ctx, user); err != nil {
		return nil, dataAccessf(err, "login: record last login")
	}

	accessToken, err := s.generateToken(user, time.Duration(s.cfg.JWTExpirationHours)*time.Hour)
	if err != nil {
		return nil, DataAccess(err)
	}
	refreshToken, err := s.generateToken(user, time.Duration(s.cfg.JWTRefreshHours)*time.Hour)
	if err != nil {
		return nil, DataAccess(err)
	}

	resp := &dto.LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "bearer",
		ExpiresIn:    s.cfg.JWTExpirationHours * 3600,
		User:         userToResponse(user),
	}

	// Establishment payload lets the client render the workspace header
	// without a second round trip.
	if estab, err := s.estabs.FindByID(ctx, user.EstablishmentID); err == nil {
		resp.User.EstablishmentName = estab.Name
		resp.User.MaxCapacity = estab.MaxCapacity
	}

	return resp, nil
}

func (s *authService) Refresh(ctx context.Context, refreshToken string) (*dto.LoginResponse, error) {
	token, err := jwt.Parse(refreshToken, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, Validation("refresh token invalid or expired")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, Validation("malformed token")
	}
	userIDf, ok := claims["user_id"].(float64)
	if !ok {
		return nil, Validation("malformed token")
	}

	user, err := s.users.FindByID(ctx, uint(userIDf))
	if err != nil || !user.Active {
		return nil, Validation("user not found or inactive")
	}

	accessToken, err := s.generateToken(user, time.Duration(s.cfg.JWTExpirationHours)*time.Hour)
	if err != nil {
		return nil, DataAccess(err)
	}
	newRefresh, err := s.generateToken(user, time.Duration(s.cfg.JWTRefreshHours)*time.Hour)
	if err != nil {
		return nil, DataAccess(err)
	}

	return &dto.LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: newRefresh,
		TokenType:    "bearer",
		ExpiresIn:    s.cfg.JWTExpirationHours * 3600,
		User:         userToResponse(user),
	}, nil
}

func (s *authService) ChangePassword(ctx context.Context, userID uint, req dto.ChangePasswordRequest) error {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if isNotFound(err) {
			return NotFound("user not found")
		}
		return dataAccessf(err, "change password: find user %d", userID)
	}

	ok, err := s.hasher.Check(req.CurrentPassword, user.PasswordHash)
	if err != nil && !errors.Is(err, hashing.ErrInvalidHash) {
		return DataAccess(err)
	}
	if !ok {
		return Validation("current password is incorrect")
	}

	hash, err := s.hasher.Hash(req.NewPassword)
	if err != nil {
		return DataAccess(err)
	}
	user.PasswordHash = hash
	user.MustChangePassword = false
	if err := s.users.Update(ctx, user); err != nil {
		return dataAccessf(err, "change password: save user %d", userID)
	}
	return nil
}

// ── Account management ────────────────────────────────────────────────────────

func (s *authService) CreateUser(ctx context.Context, req dto.CreateUserRequest) (*dto.UserResponse, error) {
	if dup, err := s.users.ExistsByEmail(ctx, req.Email, 0); err != nil {
		return nil, dataAccessf(err, "create user: email check")
	} else if dup {
		return nil, Validation("a user with this email already exists")
	}
	if dup, err := s.users.ExistsByDocument(ctx, req.IdentityDocument, 0); err != nil {
		return nil, dataAccessf(err, "create user: document check")
	} else if dup {
		return nil, Validation("a user with this identity document already exists")
	}
	if _, err := s.estabs.FindByID(ctx, req.EstablishmentID); err != nil {
		if isNotFound(err) {
			return nil, NotFound("establishment not found")
		}
		return nil, dataAccessf(err, "create user: find establishment %d", req.EstablishmentID)
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, DataAccess(err)
	}
	user := &model.User{
		Email:              req.Email,
		PasswordHash:       hash,
		FullName:           req.FullName,
		IdentityDocument:   req.IdentityDocument,
		PhoneNumber:        req.PhoneNumber,
		Role:               req.Role,
		EstablishmentID:    req.EstablishmentID,
		Active:             true,
		MustChangePassword: true,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, dataAccessf(err, "create user")
	}
	resp := userToResponse(user)
	return &resp, nil
}

func (s *authService) ListUsers(ctx context.Context, includeInactive bool) ([]dto.UserResponse, error) {
	var users []model.User
	var err error
	if includeInactive {
		users, err = s.users.ListAll(ctx)
	} else {
		users, err = s.users.List(ctx)
	}
	if err != nil {
		return nil, dataAccessf(err, "list users")
	}
	resp := make([]dto.UserResponse, len(users))
	for i := range users {
		resp[i] = userToResponse(&users[i])
	}
	return resp, nil
}

func (s *authService) UpdateUser(ctx context.Context, id uint, req dto.UpdateUserRequest) (*dto.UserResponse, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, NotFound("user not found")
		}
		return nil, dataAccessf(err, "update user %d", id)
	}

	if req.Email != "" && req.Email != user.Email {
		if dup, err := s.users.ExistsByEmail(ctx, req.Email, id); err != nil {
			return nil, dataAccessf(err, "update user: email check")
		} else if dup {
			return nil, Validation("a user with this email already exists")
		}
		user.Email = req.Email
	}
	if req.IdentityDocument != "" && req.IdentityDocument != user.IdentityDocument {
		if dup, err := s.users.ExistsByDocument(ctx, req.IdentityDocument, id); err != nil {
			return nil, dataAccessf(err, "update user: document check")
		} else if dup {
			return nil, Validation("a user with this identity document already exists")
		}
		user.IdentityDocument = req.IdentityDocument
	}
	if req.FullName != "" {
		user.FullName = req.FullName
	}
	if req.PhoneNumber != nil {
		user.PhoneNumber = req.PhoneNumber
	}
	if req.Role != "" {
		user.Role = req.Role
	}
	if req.EstablishmentID != nil {
		if _, err := s.estabs.FindByID(ctx, *req.EstablishmentID); err != nil {
			if isNotFound(err) {
				return nil, NotFound("establishment not found")
			}
			return nil, dataAccessf(err, "update user: find establishment %d", *req.EstablishmentID)
		}
		user.EstablishmentID = *req.EstablishmentID
	}
	if req.Password != "" {
		hash, err := s.hasher.Hash(req.Password)
		if err != nil {
			return nil, DataAccess(err)
		}
		user.PasswordHash = hash
		user.MustChangePassword = true
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, dataAccessf(err, "update user %d", id)
	}
	resp := userToResponse(user)
	return &resp, nil
}

func (s *authService) DeactivateUser(ctx context.Context, id uint) error {
	if err := s.users.SoftDelete(ctx, id); err != nil {
		return dataAccessf(err, "deactivate user %d", id)
	}
	return nil
}

func (s *authService) ReactivateUser(ctx context.Context, id uint) error {
	if err := s.users.Reactivate(ctx, id); err != nil {
		return dataAccessf(err, "reactivate user %d", id)
	}
	return nil
}

func (s *authService) DeleteUser(ctx context.Context, id uint) error {
	if _, err := s.users.FindByID(ctx, id); err != nil {
		if isNotFound(err) {
			return NotFound("user not found")
		}
		return dataAccessf(err, "delete user %d", id)
	}
	if err := s.users.HardDelete(ctx, id); err != nil {
		return dataAccessf(err, "delete user %d", id)
	}
	return nil
}

// ── Helpers ───────────────────────────────────────────────────────────────────

func (s *authService) generateToken(user *model.User, duration time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"user_id":          user.ID,
		"email":            user.Email,
		"role":             user.Role,
		"establishment_id": user.EstablishmentID,
		"exp":              time.Now().Add(duration).Unix(),
		"iat":              time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}

func userToResponse(u *model.User) dto.UserResponse {
	return dto.UserResponse{
		ID:                 u.ID,
		Email:              u.Email,
		FullName:           u.FullName,
		IdentityDocument:   u.IdentityDocument,
		PhoneNumber:        u.PhoneNumber,
		Role:               u.Role,
		EstablishmentID:    u.EstablishmentID,
		Active:             u.Active,
		MustChangePassword: u.MustChangePassword,
		CreatedAt:          u.CreatedAt,
		LastLoginAt:        u.LastLoginAt,
	}
}
