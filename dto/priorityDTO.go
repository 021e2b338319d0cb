package dto

import "taskmanager/model"

type CreatePriorityRequest struct {
	Name  string `json:"name" binding:"required"`
	Color string `json:"color" binding:"omitempty,palette"`
}

type EditPriorityRequest struct {
	Name  *string `json:"name" binding:"omitempty,min=1"`
	Color *string `json:"color" binding:"omitempty,palette"`
}

type PriorityResponse struct {
	PriorityID string `json:"id"`
	CreatedBy  string `json:"createdBy"`
	Name       string `json:"name"`
	Color      string `json:"color"`
	CreatedAt  string `json:"createdAt"`
	UpdatedAt  string `json:"updatedAt"`
}

func NewPriorityResponse(p *model.Priority) PriorityResponse {
	return PriorityResponse{
		PriorityID: p.PriorityID,
		CreatedBy:  p.CreatedBy,
		Name:       p.Name,
		Color:      p.Color,
		CreatedAt:  formatTime(p.CreatedAt),
		UpdatedAt:  formatTime(p.UpdatedAt),
	}
}

func NewPriorityList(priorities []model.Priority) []PriorityResponse {
	out := make([]PriorityResponse, 0, len(priorities))
	for i := range priorities {
		out = append(out, NewPriorityResponse(&priorities[i]))
	}
	return out
}
