package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"recipe-raid/logger"
	"recipe-raid/models"
	"recipe-raid/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AuthService struct {
	DB     *gorm.DB
	Tokens *utils.TokenIssuer
	Log    *logger.Logger
}

func NewAuthService(db *gorm.DB, tokens *utils.TokenIssuer, log *logger.Logger) *AuthService {
	return &AuthService{DB: db, Tokens: tokens, Log: log}
}

type RegisterInput struct {
	Username    string
	Email       string
	Password    string
	DisplayName string
}

type ProfileUpdate struct {
	DisplayName *string
	AvatarURL   *string
}

func (s *AuthService) issue(u *models.User) (string, error) {
	return s.Tokens.Issue(u.ID, u.Email, u.Username, u.IsPremium)
}

func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*models.User, string, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	username := strings.TrimSpace(in.Username)

	db := s.DB.WithContext(ctx)
	var existing int64
	if err := db.Model(&models.User{}).
		Where("email = ? OR username = ?", email, username).
		Count(&existing).Error; err != nil {
		return nil, "", err
	}
	if existing > 0 {
		return nil, "", ErrUserExists
	}

	hash, err := utils.HashPassword(in.Password)
	if err != nil {
		return nil, "", err
	}

	displayName := strings.TrimSpace(in.DisplayName)
	if displayName == "" {
		displayName = username
	}

	user := models.User{
		ID:           uuid.NewString(),
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		DisplayName:  displayName,
	}
	if err := db.Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, "", ErrUserExists
		}
		return nil, "", err
	}

	token, err := s.issue(&user)
	if err != nil {
		return nil, "", err
	}
	s.Log.Info("[AUTH] registered", "user_id", user.ID)
	return &user, token, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	var user models.User
	err := s.DB.WithContext(ctx).First(&user, "email = ?", strings.ToLower(strings.TrimSpace(email))).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, "", ErrInvalidLogin
	}
	if err != nil {
		return nil, "", err
	}
	if !utils.CheckPassword(user.PasswordHash, password) {
		return nil, "", ErrInvalidLogin
	}

	token, err := s.issue(&user)
	if err != nil {
		return nil, "", err
	}
	return &user, token, nil
}

func (s *AuthService) Profile(ctx context.Context, userID string) (*models.User, error) {
	var user models.User
	if err := s.DB.WithContext(ctx).First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (s *AuthService) UpdateProfile(ctx context.Context, userID string, in ProfileUpdate) (*models.User, error) {
	updates := map[string]interface{}{}
	if in.DisplayName != nil {
		updates["display_name"] = strings.TrimSpace(*in.DisplayName)
	}
	if in.AvatarURL != nil {
		updates["avatar_url"] = strings.TrimSpace(*in.AvatarURL)
	}
	if len(updates) == 0 {
		return nil, ErrNothingToUpdate
	}

	result := s.DB.WithContext(ctx).Model(&models.User{}).Where("id = ?", userID).Updates(updates)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ErrUserNotFound
	}
	return s.Profile(ctx, userID)
}

// GrantPremium extends (or starts) a premium subscription by days. The user
// row is locked so concurrent grants stack instead of overwriting each other.
func (s *AuthService) GrantPremium(ctx context.Context, userID string, days int) (*models.User, error) {
	if days <= 0 {
		return nil, utils.NewValidationError("days must be at least 1")
	}

	var user models.User
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", userID).
			First(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUserNotFound
			}
			return fmt.Errorf("lock user for premium grant: %w", err)
		}

		from := time.Now().UTC()
		if user.IsPremium && user.PremiumExpiresAt != nil && user.PremiumExpiresAt.After(from) {
			from = user.PremiumExpiresAt.UTC()
		}
		expires := from.AddDate(0, 0, days)

		if err := tx.Model(&user).Updates(map[string]interface{}{
			"is_premium":         true,
			"premium_expires_at": expires,
		}).Error; err != nil {
			return err
		}
		return tx.First(&user, "id = ?", userID).Error
	})
	if err != nil {
		return nil, err
	}

	s.Log.Info("[AUTH] premium granted", "user_id", userID, "expires_at", user.PremiumExpiresAt)
	return &user, nil
}

// ExpirePremium clears the premium flag on every lapsed subscription.
func (s *AuthService) ExpirePremium(ctx context.Context, now time.Time) (int64, error) {
	result := s.DB.WithContext(ctx).Model(&models.User{}).
		Where("is_premium = ? AND premium_expires_at IS NOT NULL AND premium_expires_at <= ?", true, now.UTC()).
		Update("is_premium", false)
	return result.RowsAffected, result.Error
}
