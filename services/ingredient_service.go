package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"recipe-raid/models"
	"recipe-raid/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type IngredientService struct {
	DB *gorm.DB
}

func NewIngredientService(db *gorm.DB) *IngredientService {
	return &IngredientService{DB: db}
}

type IngredientFilter struct {
	Category  string
	Rarity    string
	IsPremium *bool
}

type PantryEntry struct {
	models.PantryItem
	Name          string `json:"name"`
	Category      string `json:"category"`
	Rarity        string `json:"rarity"`
	IsPremium     bool   `json:"is_premium"`
	PowerUpEffect string `json:"power_up_effect,omitempty"`
}

type CreateIngredientInput struct {
	Name          string
	Category      string
	Rarity        string
	IsPremium     bool
	PowerUpEffect string
}

func (s *IngredientService) List(ctx context.Context, f IngredientFilter) ([]models.Ingredient, error) {
	q := s.DB.WithContext(ctx).Model(&models.Ingredient{})
	if f.Category != "" {
		q = q.Where("category = ?", f.Category)
	}
	if f.Rarity != "" {
		q = q.Where("rarity = ?", f.Rarity)
	}
	if f.IsPremium != nil {
		q = q.Where("is_premium = ?", *f.IsPremium)
	}

	ingredients := []models.Ingredient{}
	if err := q.Order("name ASC").Find(&ingredients).Error; err != nil {
		return nil, err
	}
	return ingredients, nil
}

func (s *IngredientService) Pantry(ctx context.Context, userID string) ([]PantryEntry, error) {
	pantry := []PantryEntry{}
	err := s.DB.WithContext(ctx).Table("user_pantry AS up").
		Select("up.*, i.name, i.category, i.rarity, i.is_premium, i.power_up_effect").
		Joins("JOIN ingredients i ON i.id = up.ingredient_id").
		Where("up.user_id = ?", userID).
		Order("i.name ASC").
		Scan(&pantry).Error
	if err != nil {
		return nil, err
	}
	return pantry, nil
}

// AddToPantry adds quantity of an ingredient, stacking onto what the user
// already holds. Premium ingredients need a premium account.
func (s *IngredientService) AddToPantry(ctx context.Context, userID, ingredientID string, quantity int) (*models.PantryItem, error) {
	if quantity < 1 {
		return nil, utils.NewValidationError("quantity must be at least 1")
	}

	var item models.PantryItem
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var ingredient models.Ingredient
		if err := tx.First(&ingredient, "id = ?", ingredientID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrIngredientNotFound
			}
			return err
		}

		if ingredient.IsPremium {
			var user models.User
			if err := tx.Select("id", "is_premium").First(&user, "id = ?", userID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrUserNotFound
				}
				return err
			}
			if !user.IsPremium {
				return ErrPremiumRequired
			}
		}

		item = models.PantryItem{
			ID:           uuid.NewString(),
			UserID:       userID,
			IngredientID: ingredientID,
			Quantity:     quantity,
		}
		if err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}, {Name: "ingredient_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"quantity":   gorm.Expr("user_pantry.quantity + ?", quantity),
				"updated_at": time.Now().UTC(),
			}),
		}).Create(&item).Error; err != nil {
			return err
		}

		// on conflict the stored row keeps its original id
		item = models.PantryItem{}
		return tx.Where("user_id = ? AND ingredient_id = ?", userID, ingredientID).First(&item).Error
	})
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *IngredientService) Create(ctx context.Context, in CreateIngredientInput) (*models.Ingredient, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, utils.NewValidationError("name is required")
	}
	if in.Rarity == "" {
		in.Rarity = models.RarityCommon
	}
	if !models.IsValidRarity(in.Rarity) {
		return nil, utils.NewValidationError("rarity must be one of: common, uncommon, rare, epic, legendary")
	}

	ingredient := models.Ingredient{
		ID:            uuid.NewString(),
		Name:          name,
		Category:      strings.ToLower(strings.TrimSpace(in.Category)),
		Rarity:        in.Rarity,
		IsPremium:     in.IsPremium,
		PowerUpEffect: in.PowerUpEffect,
	}
	if err := s.DB.WithContext(ctx).Create(&ingredient).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrIngredientExists
		}
		return nil, err
	}
	return &ingredient, nil
}
