package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"bistro-cms-be/internal/dto"
	"bistro-cms-be/internal/entity"
	"bistro-cms-be/internal/pkg/logger"
	"bistro-cms-be/internal/repository/contract"
	"bistro-cms-be/internal/repository/specification"
	"bistro-cms-be/internal/repository/unitofwork"
	"bistro-cms-be/pkg/events"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type IAuthService interface {
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error)
	CreateAdmin(ctx context.Context, req *dto.CreateAdminRequest) (*dto.AdminDTO, error)
	Me(ctx context.Context, id uuid.UUID) (*dto.AdminDTO, error)
}

type authService struct {
	uowFactory unitofwork.RepositoryFactory
	publisher  events.Publisher
	logger     logger.ILogger
	secret     string
	tokenTTL   time.Duration
}

func NewAuthService(
	uowFactory unitofwork.RepositoryFactory,
	publisher events.Publisher,
	logger logger.ILogger,
	secret string,
	tokenTTL time.Duration,
) IAuthService {
	return &authService{
		uowFactory: uowFactory,
		publisher:  publisher,
		logger:     logger,
		secret:     secret,
		tokenTTL:   tokenTTL,
	}
}

// dummyHash keeps the unknown-email path as slow as a wrong password.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("not-a-real-password"), bcrypt.DefaultCost)

func toAdminDTO(u *entity.AdminUser) *dto.AdminDTO {
	return &dto.AdminDTO{
		Id:       u.Id,
		Email:    u.Email,
		FullName: u.FullName,
		Role:     string(u.Role),
	}
}

func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	user, err := uow.AdminUserRepository().FindOne(ctx, specification.ByEmail{Email: strings.ToLower(req.Email)})
	if err != nil {
		return nil, err
	}
	if user == nil {
		_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(req.Password))
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	now := time.Now()
	expiresAt := now.Add(s.tokenTTL)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": user.Id.String(),
		"role":    string(user.Role),
		"iat":     now.Unix(),
		"exp":     expiresAt.Unix(),
	})
	signed, err := token.SignedString([]byte(s.secret))
	if err != nil {
		return nil, err
	}

	if err := uow.AdminUserRepository().UpdateLastLogin(ctx, user.Id, now); err != nil {
		s.logger.Warn("AuthService", "Failed to record last login", map[string]interface{}{"user_id": user.Id.String(), "error": err.Error()})
	}
	if err := s.publisher.Publish(ctx, events.New(events.AdminLoggedIn, map[string]interface{}{
		"user_id": user.Id.String(),
		"email":   user.Email,
	})); err != nil {
		s.logger.Warn("AuthService", "Failed to publish event", map[string]interface{}{"error": err.Error()})
	}

	return &dto.LoginResponse{
		AccessToken: signed,
		ExpiresAt:   expiresAt,
		Admin:       *toAdminDTO(user),
	}, nil
}

func (s *authService) CreateAdmin(ctx context.Context, req *dto.CreateAdminRequest) (*dto.AdminDTO, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	user := entity.AdminUser{
		Id:           uuid.New(),
		Email:        strings.ToLower(req.Email),
		FullName:     req.FullName,
		PasswordHash: string(hash),
		Role:         entity.AdminRole(req.Role),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.AdminUserRepository().Create(ctx, &user); err != nil {
		if errors.Is(err, contract.ErrDuplicateKey) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	return toAdminDTO(&user), nil
}

func (s *authService) Me(ctx context.Context, id uuid.UUID) (*dto.AdminDTO, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	user, err := uow.AdminUserRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}
	return toAdminDTO(user), nil
}
