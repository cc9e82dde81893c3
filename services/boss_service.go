package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"recipe-raid/models"
	"recipe-raid/utils"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// BossService is the recipe boss catalog. Raids only read from it.
type BossService struct {
	DB *gorm.DB
}

func NewBossService(db *gorm.DB) *BossService {
	return &BossService{DB: db}
}

type CreateBossInput struct {
	Name                string
	Description         string
	Difficulty          string
	DifficultyLevel     int
	CuisineType         string
	PrepTimeMinutes     int
	CookTimeMinutes     int
	Servings            int
	BaseScore           int
	RequiredIngredients []string
	Instructions        []string
}

// List returns bosses ordered by difficulty level, then name.
func (s *BossService) List(ctx context.Context, difficulty string) ([]models.Boss, error) {
	q := s.DB.WithContext(ctx).Model(&models.Boss{})
	if difficulty != "" {
		if !models.IsValidDifficulty(difficulty) {
			return nil, utils.NewValidationError("difficulty must be one of: easy, medium, hard, legendary")
		}
		q = q.Where("difficulty = ?", difficulty)
	}

	bosses := []models.Boss{}
	if err := q.Order("difficulty_level ASC").Order("name ASC").Find(&bosses).Error; err != nil {
		return nil, err
	}
	return bosses, nil
}

func (s *BossService) Get(ctx context.Context, id string) (*models.Boss, error) {
	var boss models.Boss
	if err := s.DB.WithContext(ctx).First(&boss, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBossNotFound
		}
		return nil, err
	}
	return &boss, nil
}

func (s *BossService) Create(ctx context.Context, in CreateBossInput) (*models.Boss, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, utils.NewValidationError("name is required")
	}
	if !models.IsValidDifficulty(in.Difficulty) {
		return nil, utils.NewValidationError("difficulty must be one of: easy, medium, hard, legendary")
	}
	if in.BaseScore <= 0 {
		in.BaseScore = 100
	}
	if in.DifficultyLevel <= 0 {
		in.DifficultyLevel = 1
	}

	boss := models.Boss{
		ID:                  uuid.NewString(),
		Name:                name,
		Slug:                slug.Make(name),
		Description:         in.Description,
		Difficulty:          in.Difficulty,
		DifficultyLevel:     in.DifficultyLevel,
		CuisineType:         in.CuisineType,
		PrepTimeMinutes:     in.PrepTimeMinutes,
		CookTimeMinutes:     in.CookTimeMinutes,
		Servings:            in.Servings,
		BaseScore:           in.BaseScore,
		RequiredIngredients: datatypes.JSONSlice[string](nonNil(in.RequiredIngredients)),
		Instructions:        datatypes.JSONSlice[string](nonNil(in.Instructions)),
	}

	db := s.DB.WithContext(ctx)
	var taken int64
	if err := db.Model(&models.Boss{}).Where("slug = ?", boss.Slug).Count(&taken).Error; err != nil {
		return nil, err
	}
	if taken > 0 || boss.Slug == "" {
		boss.Slug = strings.Trim(fmt.Sprintf("%s-%s", boss.Slug, boss.ID[:8]), "-")
	}

	if err := db.Create(&boss).Error; err != nil {
		return nil, err
	}
	return &boss, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
