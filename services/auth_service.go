package services

import (
	"context"
	"errors"
	"time"

	"fileshare/models"
	"fileshare/repositories"
	"fileshare/utils"

	"gorm.io/gorm"
)

type RegisterInput struct {
	Username string
	Password string
	Nickname string
}

type LoginInput struct {
	Username string
	Password string
}

type AuthUser struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Nickname string `json:"nickname"`
}

type LoginOutput struct {
	Token string   `json:"token"`
	User  AuthUser `json:"user"`
}

type ProfileOutput struct {
	ID        uint      `json:"id"`
	Username  string    `json:"username"`
	Nickname  string    `json:"nickname"`
	Avatar    string    `json:"avatar"`
	CreatedAt time.Time `json:"created_at"`
}

// AuthService is the authentication collaborator: it turns credentials into
// the opaque user identity every other component consumes.
type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (AuthUser, error)
	Login(ctx context.Context, in LoginInput) (LoginOutput, error)
	GetProfile(ctx context.Context, userID uint) (ProfileOutput, error)
}

type authService struct {
	txManager TxManager
	users     repositories.UserRepository
	settings  repositories.UserSettingsRepository
}

func NewAuthService(txManager TxManager, users repositories.UserRepository, settings repositories.UserSettingsRepository) AuthService {
	return &authService{txManager: txManager, users: users, settings: settings}
}

func (s *authService) Register(ctx context.Context, in RegisterInput) (AuthUser, error) {
	count, err := s.users.CountByUsername(ctx, in.Username)
	if err != nil {
		return AuthUser{}, newStorageError("failed to check username", err)
	}
	if count > 0 {
		return AuthUser{}, newConflictError("username already exists")
	}

	hashedPassword, err := utils.HashPassword(in.Password)
	if err != nil {
		return AuthUser{}, newStorageError("failed to hash password", err)
	}

	user := models.User{
		Username: in.Username,
		Password: hashedPassword,
		Nickname: in.Nickname,
	}

	err = s.txManager.WithTransaction(ctx, func(tx *gorm.DB) error {
		if err := s.users.Create(ctx, tx, &user); err != nil {
			return err
		}
		settings := models.DefaultUserSettings(user.ID)
		return s.settings.Create(ctx, tx, &settings)
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return AuthUser{}, newConflictError("username already exists")
		}
		return AuthUser{}, newStorageError("failed to create user", err)
	}

	return AuthUser{ID: user.ID, Username: user.Username, Nickname: user.Nickname}, nil
}

func (s *authService) Login(ctx context.Context, in LoginInput) (LoginOutput, error) {
	user, err := s.users.GetByUsername(ctx, nil, in.Username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LoginOutput{}, newUnauthorizedError("invalid username or password")
		}
		return LoginOutput{}, newStorageError("failed to query user", err)
	}

	if !utils.CheckPassword(in.Password, user.Password) {
		return LoginOutput{}, newUnauthorizedError("invalid username or password")
	}

	token, err := utils.GenerateToken(user.ID)
	if err != nil {
		return LoginOutput{}, newStorageError("failed to generate token", err)
	}

	return LoginOutput{
		Token: token,
		User:  AuthUser{ID: user.ID, Username: user.Username, Nickname: user.Nickname},
	}, nil
}

func (s *authService) GetProfile(ctx context.Context, userID uint) (ProfileOutput, error) {
	user, err := s.users.GetByID(ctx, nil, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ProfileOutput{}, newNotFoundError("user not found")
		}
		return ProfileOutput{}, newStorageError("failed to query user", err)
	}

	return ProfileOutput{
		ID:        user.ID,
		Username:  user.Username,
		Nickname:  user.Nickname,
		Avatar:    user.Avatar,
		CreatedAt: user.CreatedAt,
	}, nil
}
