package dto

import (
	"time"

	"taskmanager/model"
)

type CreateCategoryRequest struct {
	Name  string `json:"name" binding:"required"`
	Emoji string `json:"emoji" binding:"omitempty,emoji"`
}

type EditCategoryRequest struct {
	Name  *string `json:"name" binding:"omitempty,min=1"`
	Emoji *string `json:"emoji" binding:"omitempty,emoji"`
}

type CategoryResponse struct {
	CategoryID string `json:"id"`
	CreatedBy  string `json:"createdBy"`
	Name       string `json:"name"`
	Emoji      string `json:"emoji,omitempty"`
	CreatedAt  string `json:"createdAt"`
	UpdatedAt  string `json:"updatedAt"`
}

func NewCategoryResponse(c *model.Category) CategoryResponse {
	return CategoryResponse{
		CategoryID: c.CategoryID,
		CreatedBy:  c.CreatedBy,
		Name:       c.Name,
		Emoji:      c.Emoji,
		CreatedAt:  formatTime(c.CreatedAt),
		UpdatedAt:  formatTime(c.UpdatedAt),
	}
}

func NewCategoryList(categories []model.Category) []CategoryResponse {
	out := make([]CategoryResponse, 0, len(categories))
	for i := range categories {
		out = append(out, NewCategoryResponse(&categories[i]))
	}
	return out
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
