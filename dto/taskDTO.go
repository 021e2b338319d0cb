package dto

import (
	"taskmanager/services"
)

type CreateTaskRequest struct {
	Name      string   `json:"name" binding:"required"`
	DateTime  string   `json:"dateTime" binding:"required,isodate"`
	Deadline  string   `json:"deadline" binding:"omitempty,isodate"`
	Priority  string   `json:"priority" binding:"required"`
	Category  []string `json:"category"`
	Completed bool     `json:"completed"`
}

// Input converts an already validated request into the service input.
func (r CreateTaskRequest) Input() (services.CreateTaskInput, error) {
	in := services.CreateTaskInput{
		Name:        r.Name,
		PriorityID:  r.Priority,
		CategoryIDs: r.Category,
		Completed:   r.Completed,
	}
	dateTime, err := services.ParseDateTime(r.DateTime)
	if err != nil {
		return in, dateError("dateTime")
	}
	in.DateTime = dateTime
	if r.Deadline != "" {
		deadline, err := services.ParseDate(r.Deadline)
		if err != nil {
			return in, dateError("deadline")
		}
		in.Deadline = &deadline
	}
	return in, nil
}

// EditTaskRequest is a partial update. An empty deadline string clears it.
type EditTaskRequest struct {
	Name      *string   `json:"name" binding:"omitempty,min=1"`
	DateTime  *string   `json:"dateTime" binding:"omitempty,isodate"`
	Deadline  *string   `json:"deadline"`
	Priority  *string   `json:"priority"`
	Category  *[]string `json:"category"`
	Completed *bool     `json:"completed"`
}

func (r EditTaskRequest) Patch() (services.TaskPatch, error) {
	patch := services.TaskPatch{
		Name:        r.Name,
		PriorityID:  r.Priority,
		CategoryIDs: r.Category,
		Completed:   r.Completed,
	}
	if r.DateTime != nil {
		dateTime, err := services.ParseDateTime(*r.DateTime)
		if err != nil {
			return patch, dateError("dateTime")
		}
		patch.DateTime = &dateTime
	}
	if r.Deadline != nil {
		if *r.Deadline == "" {
			patch.ClearDeadline = true
		} else {
			deadline, err := services.ParseDate(*r.Deadline)
			if err != nil {
				return patch, dateError("deadline")
			}
			patch.Deadline = &deadline
		}
	}
	return patch, nil
}

type ListTasksQuery struct {
	Category  string `form:"category"`
	Priority  string `form:"priority"`
	Completed *bool  `form:"completed"`
	Deadline  string `form:"deadline" binding:"omitempty,isodate"`
	Date      string `form:"date" binding:"omitempty,isodate"`
}

func (q ListTasksQuery) Input() (services.ListTasksInput, error) {
	in := services.ListTasksInput{
		CategoryID: q.Category,
		PriorityID: q.Priority,
		Completed:  q.Completed,
	}
	if q.Deadline != "" {
		day, err := services.ParseDate(q.Deadline)
		if err != nil {
			return in, dateError("deadline")
		}
		in.Deadline = &day
	}
	if q.Date != "" {
		day, err := services.ParseDate(q.Date)
		if err != nil {
			return in, dateError("date")
		}
		in.Date = &day
	}
	return in, nil
}

type TaskCategoryRequest struct {
	TaskID     string `json:"taskId" binding:"required"`
	CategoryID string `json:"categoryId" binding:"required"`
}

type PriorityRef struct {
	PriorityID string `json:"id"`
	Name       string `json:"name"`
	Color      string `json:"color"`
}

type CategoryRef struct {
	CategoryID string `json:"id"`
	Name       string `json:"name"`
	Emoji      string `json:"emoji,omitempty"`
}

type TaskResponse struct {
	TaskID    string        `json:"id"`
	CreatedBy string        `json:"createdBy"`
	Name      string        `json:"name"`
	DateTime  string        `json:"dateTime"`
	Deadline  *string       `json:"deadline"`
	Priority  *PriorityRef  `json:"priority"`
	Category  []CategoryRef `json:"category"`
	Completed bool          `json:"completed"`
	CreatedAt string        `json:"createdAt"`
	UpdatedAt string        `json:"updatedAt"`
}

func NewTaskResponse(view *services.TaskView) TaskResponse {
	t := view.Task
	resp := TaskResponse{
		TaskID:    t.TaskID,
		CreatedBy: t.CreatedBy,
		Name:      t.Name,
		DateTime:  formatTime(t.DateTime),
		Deadline:  services.FormatDate(t.Deadline),
		Category:  make([]CategoryRef, 0, len(view.Categories)),
		Completed: t.Completed,
		CreatedAt: formatTime(t.CreatedAt),
		UpdatedAt: formatTime(t.UpdatedAt),
	}
	if p := view.Priority; p != nil {
		resp.Priority = &PriorityRef{PriorityID: p.PriorityID, Name: p.Name, Color: p.Color}
	}
	for _, c := range view.Categories {
		resp.Category = append(resp.Category, CategoryRef{CategoryID: c.CategoryID, Name: c.Name, Emoji: c.Emoji})
	}
	return resp
}

func NewTaskList(views []services.TaskView) []TaskResponse {
	out := make([]TaskResponse, 0, len(views))
	for i := range views {
		out = append(out, NewTaskResponse(&views[i]))
	}
	return out
}

func dateError(field string) error {
	return services.ValidationError("Invalid Format", map[string]any{
		field: "Invalid date format for " + field,
	})
}
