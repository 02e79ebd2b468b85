package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/voxhealth/voxhealth-backend/internal/data/repos/user"
	"github.com/voxhealth/voxhealth-backend/internal/domain"
	"github.com/voxhealth/voxhealth-backend/internal/pkg/apperr"
	"github.com/voxhealth/voxhealth-backend/internal/platform/logger"
	"github.com/voxhealth/voxhealth-backend/internal/requestdata"
	"github.com/voxhealth/voxhealth-backend/internal/sse"
)

type UserService interface {
	GetCurrentUser(ctx context.Context) (*domain.User, error)
	UpdateName(ctx context.Context, firstName, lastName string) (*domain.User, error)
}

type userService struct {
	db            *gorm.DB
	log           *logger.Logger
	userRepo      user.UserRepo
	avatarService AvatarService
	notifier      Notifier
}

func NewUserService(
	db *gorm.DB,
	log *logger.Logger,
	userRepo user.UserRepo,
	avatarService AvatarService,
	notifier Notifier,
) UserService {
	return &userService{
		db:            db,
		log:           log.With("service", "UserService"),
		userRepo:      userRepo,
		avatarService: avatarService,
		notifier:      notifier,
	}
}

func (us *userService) GetCurrentUser(ctx context.Context) (*domain.User, error) {
	userID := requestdata.UserID(ctx)
	if userID == uuid.Nil {
		return nil, apperr.ErrUnauthenticated
	}
	users, err := us.userRepo.GetByIDs(ctx, nil, []uuid.UUID{userID})
	if err != nil {
		return nil, fmt.Errorf("fetch user: %w", err)
	}
	if len(users) == 0 {
		return nil, apperr.ErrNotFound
	}
	return users[0], nil
}

func (us *userService) UpdateName(ctx context.Context, firstName, lastName string) (*domain.User, error) {
	userID := requestdata.UserID(ctx)
	if userID == uuid.Nil {
		return nil, apperr.ErrUnauthenticated
	}

	firstName = strings.TrimSpace(firstName)
	lastName = strings.TrimSpace(lastName)
	if firstName == "" || lastName == "" {
		return nil, apperr.New(400, "missing_name", fmt.Errorf("first and last name required: %w", apperr.ErrInvalidArgument))
	}

	var updated *domain.User
	err := us.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := us.userRepo.UpdateName(ctx, tx, userID, firstName, lastName); err != nil {
			return fmt.Errorf("update name: %w", err)
		}
		users, err := us.userRepo.GetByIDs(ctx, tx, []uuid.UUID{userID})
		if err != nil {
			return fmt.Errorf("reload user: %w", err)
		}
		if len(users) == 0 {
			return apperr.ErrNotFound
		}
		updated = users[0]

		// Initials changed, so the avatar needs to be re-rendered.
		if us.avatarService != nil {
			if err := us.avatarService.CreateAndUploadUserAvatar(ctx, tx, updated); err != nil {
				us.log.Warn("Failed to refresh avatar after rename (ignored)", "error", err)
			} else if err := us.userRepo.UpdateAvatarFields(ctx, tx, userID, updated.AvatarBucketKey, updated.AvatarURL); err != nil {
				return fmt.Errorf("persist avatar fields: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if us.notifier != nil {
		us.notifier.Notify(ctx, userID, sse.EventUserAvatarUpdated, map[string]any{
			"avatar_url": updated.AvatarURL,
		})
	}
	return updated, nil
}
