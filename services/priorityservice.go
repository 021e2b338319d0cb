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

type PriorityService struct {
	store PriorityStore
	now   func() time.Time
}

func NewPriorityService(store PriorityStore) *PriorityService {
	return &PriorityService{store: store, now: time.Now}
}

type PriorityPatch struct {
	Name  *string
	Color *string
}

func (s *PriorityService) Create(ctx context.Context, ownerID, name, color string) (*model.Priority, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ValidationError("Invalid Format", map[string]any{"name": "Priority name is required"})
	}
	if color == "" {
		color = model.DefaultPriorityColor
	}
	if !model.IsPaletteColor(color) {
		return nil, ValidationError("Invalid Format", map[string]any{"color": "Color must be one of the palette values"})
	}
	if err := s.ensureNameFree(ctx, ownerID, name, ""); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	priority := &model.Priority{
		PriorityID: uuid.New().String(),
		CreatedBy:  ownerID,
		Name:       name,
		Color:      color,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.store.CreatePriority(ctx, priority); err != nil {
		if errors.Is(err, ErrConflict) {
			return nil, ConflictError("Priority already exists")
		}
		return nil, fmt.Errorf("create priority: %w", err)
	}
	return priority, nil
}

// ensureNameFree fails with a conflict when another priority of the owner
// already uses name. selfID is skipped so a rename to the same name passes.
func (s *PriorityService) ensureNameFree(ctx context.Context, ownerID, name, selfID string) error {
	existing, err := s.store.FindPriorityByName(ctx, ownerID, name)
	switch {
	case err == nil && existing.PriorityID != selfID:
		return ConflictError("Priority already exists")
	case err != nil && !errors.Is(err, ErrNotFound):
		return fmt.Errorf("find priority by name: %w", err)
	}
	return nil
}

func (s *PriorityService) List(ctx context.Context, ownerID string) ([]model.Priority, error) {
	priorities, err := s.store.ListPriorities(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list priorities: %w", err)
	}
	return priorities, nil
}

func (s *PriorityService) Get(ctx context.Context, ownerID, priorityID string) (*model.Priority, error) {
	if err := checkID("Priority", priorityID); err != nil {
		return nil, err
	}
	priority, err := s.store.GetPriority(ctx, ownerID, priorityID)
	if err != nil {
		return nil, priorityLookupError(err)
	}
	return priority, nil
}

func (s *PriorityService) Update(ctx context.Context, ownerID, priorityID string, patch PriorityPatch) (*model.Priority, error) {
	if err := checkID("Priority", priorityID); err != nil {
		return nil, err
	}
	if patch.Name == nil && patch.Color == nil {
		return nil, ValidationError("Invalid Format", map[string]any{"message": "No fields to update"})
	}

	priority, err := s.store.GetPriority(ctx, ownerID, priorityID)
	if err != nil {
		return nil, priorityLookupError(err)
	}

	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return nil, ValidationError("Invalid Format", map[string]any{"name": "Priority name is required"})
		}
		if err := s.ensureNameFree(ctx, ownerID, name, priorityID); err != nil {
			return nil, err
		}
		priority.Name = name
	}
	if patch.Color != nil {
		if !model.IsPaletteColor(*patch.Color) {
			return nil, ValidationError("Invalid Format", map[string]any{"color": "Color must be one of the palette values"})
		}
		priority.Color = *patch.Color
	}
	priority.UpdatedAt = s.now().UTC()

	if err := s.store.UpdatePriority(ctx, priority); err != nil {
		switch {
		case errors.Is(err, ErrConflict):
			return nil, ConflictError("Priority already exists")
		case errors.Is(err, ErrNotFound):
			return nil, priorityLookupError(err)
		}
		return nil, fmt.Errorf("update priority: %w", err)
	}
	return priority, nil
}

func (s *PriorityService) Delete(ctx context.Context, ownerID, priorityID string) (*model.Priority, error) {
	if err := checkID("Priority", priorityID); err != nil {
		return nil, err
	}
	priority, err := s.store.DeletePriority(ctx, ownerID, priorityID)
	if err != nil {
		return nil, priorityLookupError(err)
	}
	return priority, nil
}

func priorityLookupError(err error) error {
	if errors.Is(err, ErrNotFound) {
		return NotFoundError("Priority not found", map[string]any{
			"message": "The requested priority does not exist",
		})
	}
	return fmt.Errorf("priority lookup: %w", err)
}
