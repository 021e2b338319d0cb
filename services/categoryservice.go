package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"taskmanager/model"

	"github.com/google/uuid"
)

type CategoryService struct {
	store CategoryStore
	now   func() time.Time
}

func NewCategoryService(store CategoryStore) *CategoryService {
	return &CategoryService{store: store, now: time.Now}
}

type CategoryPatch struct {
	Name  *string
	Emoji *string
}

func (s *CategoryService) Create(ctx context.Context, ownerID, name, emoji string) (*model.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ValidationError("Invalid Format", map[string]any{"name": "Category name is required"})
	}
	if err := s.ensureNameFree(ctx, ownerID, name, ""); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	category := &model.Category{
		CategoryID: uuid.New().String(),
		CreatedBy:  ownerID,
		Name:       name,
		Emoji:      strings.TrimSpace(emoji),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.store.CreateCategory(ctx, category); err != nil {
		if errors.Is(err, ErrConflict) {
			return nil, ConflictError("Category already exists")
		}
		return nil, fmt.Errorf("create category: %w", err)
	}
	return category, nil
}

// ensureNameFree fails with a conflict when another category of the owner
// already uses name. selfID is skipped so a rename to the same name passes.
func (s *CategoryService) ensureNameFree(ctx context.Context, ownerID, name, selfID string) error {
	existing, err := s.store.FindCategoryByName(ctx, ownerID, name)
	switch {
	case err == nil && existing.CategoryID != selfID:
		return ConflictError("Category already exists")
	case err != nil && !errors.Is(err, ErrNotFound):
		return fmt.Errorf("find category by name: %w", err)
	}
	return nil
}

func (s *CategoryService) List(ctx context.Context, ownerID string) ([]model.Category, error) {
	categories, err := s.store.ListCategories(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return categories, nil
}

func (s *CategoryService) Get(ctx context.Context, ownerID, categoryID string) (*model.Category, error) {
	if err := checkID("Category", categoryID); err != nil {
		return nil, err
	}
	category, err := s.store.GetCategory(ctx, ownerID, categoryID)
	if err != nil {
		return nil, categoryLookupError(err)
	}
	return category, nil
}

func (s *CategoryService) Update(ctx context.Context, ownerID, categoryID string, patch CategoryPatch) (*model.Category, error) {
	if err := checkID("Category", categoryID); err != nil {
		return nil, err
	}
	if patch.Name == nil && patch.Emoji == nil {
		return nil, ValidationError("Invalid Format", map[string]any{"message": "No fields to update"})
	}

	category, err := s.store.GetCategory(ctx, ownerID, categoryID)
	if err != nil {
		return nil, categoryLookupError(err)
	}

	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return nil, ValidationError("Invalid Format", map[string]any{"name": "Category name is required"})
		}
		if err := s.ensureNameFree(ctx, ownerID, name, categoryID); err != nil {
			return nil, err
		}
		category.Name = name
	}
	if patch.Emoji != nil {
		category.Emoji = strings.TrimSpace(*patch.Emoji)
	}
	category.UpdatedAt = s.now().UTC()

	if err := s.store.UpdateCategory(ctx, category); err != nil {
		switch {
		case errors.Is(err, ErrConflict):
			return nil, ConflictError("Category already exists")
		case errors.Is(err, ErrNotFound):
			return nil, categoryLookupError(err)
		}
		return nil, fmt.Errorf("update category: %w", err)
	}
	return category, nil
}

func (s *CategoryService) Delete(ctx context.Context, ownerID, categoryID string) (*model.Category, error) {
	if err := checkID("Category", categoryID); err != nil {
		return nil, err
	}
	category, err := s.store.DeleteCategory(ctx, ownerID, categoryID)
	if err != nil {
		return nil, categoryLookupError(err)
	}
	return category, nil
}

func categoryLookupError(err error) error {
	if errors.Is(err, ErrNotFound) {
		return NotFoundError("Category not found", map[string]any{
			"message": "The requested category does not exist",
		})
	}
	return fmt.Errorf("category lookup: %w", err)
}
