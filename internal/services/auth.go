package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/voxhealth/voxhealth-backend/internal/data/repos/user"
	"github.com/voxhealth/voxhealth-backend/internal/domain"
	"github.com/voxhealth/voxhealth-backend/internal/pkg/apperr"
	"github.com/voxhealth/voxhealth-backend/internal/platform/logger"
	"github.com/voxhealth/voxhealth-backend/internal/requestdata"
)

type JWTClaims struct {
	jwt.RegisteredClaims
}

type AuthService interface {
	RegisterUser(ctx context.Context, newUser *domain.User) error
	LoginUser(ctx context.Context, email, password string) (string, string, error)
	RefreshUser(ctx context.Context) (string, string, error)
	LogoutUser(ctx context.Context) error
	SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error)
	GetAccessTTL() time.Duration
}

type authService struct {
	db            *gorm.DB
	log           *logger.Logger
	userRepo      user.UserRepo
	userTokenRepo user.UserTokenRepo
	avatarService AvatarService
	jwtSecretKey  string
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

func NewAuthService(
	db *gorm.DB,
	log *logger.Logger,
	userRepo user.UserRepo,
	userTokenRepo user.UserTokenRepo,
	avatarService AvatarService,
	jwtSecretKey string,
	accessTTL time.Duration,
	refreshTTL time.Duration,
) AuthService {
	return &authService{
		db:            db,
		log:           log.With("service", "AuthService"),
		userRepo:      userRepo,
		userTokenRepo: userTokenRepo,
		avatarService: avatarService,
		jwtSecretKey:  jwtSecretKey,
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
	}
}

func (as *authService) RegisterUser(ctx context.Context, newUser *domain.User) error {
	newUser.Email = strings.ToLower(strings.TrimSpace(newUser.Email))
	newUser.FirstName = strings.TrimSpace(newUser.FirstName)
	newUser.LastName = strings.TrimSpace(newUser.LastName)

	if newUser.Email == "" || !strings.Contains(newUser.Email, "@") {
		return apperr.New(400, "invalid_email", fmt.Errorf("invalid email: %w", apperr.ErrInvalidArgument))
	}
	if len(newUser.Password) < 8 {
		return apperr.New(400, "weak_password", fmt.Errorf("password too short: %w", apperr.ErrInvalidArgument))
	}
	if newUser.FirstName == "" || newUser.LastName == "" {
		return apperr.New(400, "missing_name", fmt.Errorf("first and last name required: %w", apperr.ErrInvalidArgument))
	}

	exists, err := as.userRepo.EmailExists(ctx, nil, newUser.Email)
	if err != nil {
		return fmt.Errorf("check email: %w", err)
	}
	if exists {
		return apperr.New(409, "email_taken", fmt.Errorf("email already registered"))
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newUser.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	newUser.Password = string(hashed)

	return as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		newUser.ID = uuid.New()
		if as.avatarService != nil {
			if err := as.avatarService.CreateAndUploadUserAvatar(ctx, tx, newUser); err != nil {
				as.log.Warn("Failed to create user avatar (continuing without)", "error", err)
			}
		}
		if _, err := as.userRepo.Create(ctx, tx, []*domain.User{newUser}); err != nil {
			return fmt.Errorf("create user: %w", err)
		}
		return nil
	})
}

func (as *authService) LoginUser(ctx context.Context, email, password string) (string, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	users, err := as.userRepo.GetByEmails(ctx, nil, []string{email})
	if err != nil {
		return "", "", fmt.Errorf("fetch user by email: %w", err)
	}
	if len(users) == 0 {
		return "", "", apperr.New(401, "invalid_credentials", apperr.ErrUnauthenticated)
	}

	u := users[0]
	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)); err != nil {
		return "", "", apperr.New(401, "invalid_credentials", apperr.ErrUnauthenticated)
	}

	var accessToken, refreshToken string
	err = as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		foundTokens, err := as.userTokenRepo.GetByUserIDs(ctx, tx, []uuid.UUID{u.ID})
		if err != nil {
			return fmt.Errorf("check user tokens: %w", err)
		}
		expired := make([]uuid.UUID, 0, len(foundTokens))
		for _, t := range foundTokens {
			if t.ExpiresAt.Before(time.Now()) {
				expired = append(expired, t.ID)
			}
		}
		if len(expired) > 0 {
			if err := as.userTokenRepo.DeleteByIDs(ctx, tx, expired); err != nil {
				return fmt.Errorf("delete expired user tokens: %w", err)
			}
		}

		tok, err := as.generateAccessToken(u)
		if err != nil {
			return fmt.Errorf("generate access token: %w", err)
		}
		accessToken = tok
		refreshToken = uuid.NewString()
		userToken := domain.UserToken{
			ID:           uuid.New(),
			UserID:       u.ID,
			AccessToken:  accessToken,
			RefreshToken: refreshToken,
			ExpiresAt:    time.Now().Add(as.refreshTTL),
		}
		if _, err := as.userTokenRepo.Create(ctx, tx, []*domain.UserToken{&userToken}); err != nil {
			return fmt.Errorf("create user token: %w", err)
		}
		return nil
	})
	if err != nil {
		return "", "", err
	}
	return accessToken, refreshToken, nil
}

func (as *authService) RefreshUser(ctx context.Context) (string, string, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil || rd.RefreshToken == "" {
		return "", "", apperr.New(401, "missing_refresh_token", apperr.ErrUnauthenticated)
	}

	var accessToken, newRefreshToken string
	err := as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		foundTokens, err := as.userTokenRepo.GetByRefreshTokens(ctx, tx, []string{rd.RefreshToken})
		if err != nil {
			return fmt.Errorf("fetch refresh token: %w", err)
		}
		if len(foundTokens) == 0 {
			return apperr.New(401, "unknown_refresh_token", apperr.ErrUnauthenticated)
		}
		existing := foundTokens[0]
		if existing.ExpiresAt.Before(time.Now()) {
			if err := as.userTokenRepo.DeleteByIDs(ctx, tx, []uuid.UUID{existing.ID}); err != nil {
				return fmt.Errorf("delete expired refresh token: %w", err)
			}
			return apperr.New(401, "refresh_token_expired", apperr.ErrUnauthenticated)
		}

		users, err := as.userRepo.GetByIDs(ctx, tx, []uuid.UUID{existing.UserID})
		if err != nil {
			return fmt.Errorf("load user for refresh: %w", err)
		}
		if len(users) == 0 {
			return apperr.New(401, "user_gone", apperr.ErrUnauthenticated)
		}
		u := users[0]

		tok, err := as.generateAccessToken(u)
		if err != nil {
			return fmt.Errorf("generate access token: %w", err)
		}
		accessToken = tok
		newRefreshToken = uuid.NewString()
		newToken := domain.UserToken{
			ID:           uuid.New(),
			UserID:       u.ID,
			AccessToken:  accessToken,
			RefreshToken: newRefreshToken,
			ExpiresAt:    time.Now().Add(as.refreshTTL),
		}
		if _, err := as.userTokenRepo.Create(ctx, tx, []*domain.UserToken{&newToken}); err != nil {
			return fmt.Errorf("create rotated user token: %w", err)
		}
		if err := as.userTokenRepo.DeleteByIDs(ctx, tx, []uuid.UUID{existing.ID}); err != nil {
			return fmt.Errorf("remove old refresh token: %w", err)
		}
		return nil
	})
	if err != nil {
		return "", "", err
	}
	return accessToken, newRefreshToken, nil
}

func (as *authService) LogoutUser(ctx context.Context) error {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil || rd.TokenString == "" {
		return apperr.New(401, "missing_token", apperr.ErrUnauthenticated)
	}
	return as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		foundTokens, err := as.userTokenRepo.GetByAccessTokens(ctx, tx, []string{rd.TokenString})
		if err != nil {
			return fmt.Errorf("find user token: %w", err)
		}
		if len(foundTokens) == 0 {
			return nil
		}
		ids := make([]uuid.UUID, 0, len(foundTokens))
		for _, t := range foundTokens {
			ids = append(ids, t.ID)
		}
		if err := as.userTokenRepo.DeleteByIDs(ctx, tx, ids); err != nil {
			return fmt.Errorf("delete user token: %w", err)
		}
		return nil
	})
}

func (as *authService) generateAccessToken(u *domain.User) (string, error) {
	claims := JWTClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID.String(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(as.accessTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(as.jwtSecretKey))
}

func (as *authService) SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error) {
	if tokenString == "" {
		return ctx, nil
	}
	parsedToken, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(as.jwtSecretKey), nil
	})
	if err != nil {
		return ctx, fmt.Errorf("parse token: %w", err)
	}
	claims, ok := parsedToken.Claims.(*JWTClaims)
	if !ok || !parsedToken.Valid {
		return ctx, fmt.Errorf("invalid or expired token")
	}
	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return ctx, fmt.Errorf("invalid user id in token: %w", err)
	}

	var refreshToken string
	foundTokens, err := as.userTokenRepo.GetByAccessTokens(ctx, nil, []string{tokenString})
	if err != nil {
		as.log.Warn("Error fetching user token by access token", "error", err)
	} else if len(foundTokens) > 0 {
		refreshToken = foundTokens[0].RefreshToken
	}

	rd := &requestdata.RequestData{
		TokenString:  tokenString,
		RefreshToken: refreshToken,
		UserID:       userID,
	}
	return requestdata.WithRequestData(ctx, rd), nil
}

func (as *authService) GetAccessTTL() time.Duration {
	return as.accessTTL
}
