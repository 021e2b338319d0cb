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

type TaskService struct {
	tasks      TaskStore
	categories CategoryStore
	priorities PriorityStore
	now        func() time.Time
}

func NewTaskService(tasks TaskStore, categories CategoryStore, priorities PriorityStore) *TaskService {
	return &TaskService{
		tasks:      tasks,
		categories: categories,
		priorities: priorities,
		now:        time.Now,
	}
}

// TaskView is a task with its owned references resolved. A reference whose
// target no longer exists is left out.
type TaskView struct {
	Task       model.Task
	Priority   *model.Priority
	Categories []model.Category
}

type CreateTaskInput struct {
	Name        string
	DateTime    time.Time
	Deadline    *time.Time
	PriorityID  string
	CategoryIDs []string
	Completed   bool
}

// TaskPatch carries only the fields a client sent. ClearDeadline drops the
// deadline and wins over Deadline.
type TaskPatch struct {
	Name          *string
	DateTime      *time.Time
	Deadline      *time.Time
	ClearDeadline bool
	PriorityID    *string
	CategoryIDs   *[]string
	Completed     *bool
}

func (p TaskPatch) empty() bool {
	return p.Name == nil && p.DateTime == nil && p.Deadline == nil && !p.ClearDeadline &&
		p.PriorityID == nil && p.CategoryIDs == nil && p.Completed == nil
}

// ListTasksInput holds the optional /task/all filters. Deadline and Date are
// calendar days.
type ListTasksInput struct {
	CategoryID string
	PriorityID string
	Completed  *bool
	Deadline   *time.Time
	Date       *time.Time
}

func (s *TaskService) Create(ctx context.Context, ownerID string, in CreateTaskInput) (*TaskView, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, ValidationError("Invalid Format", map[string]any{"name": "Task name is required"})
	}

	priority, err := s.ownedPriority(ctx, ownerID, in.PriorityID)
	if err != nil {
		return nil, err
	}
	categoryIDs := dedupe(in.CategoryIDs)
	categories, err := s.ownedCategories(ctx, ownerID, categoryIDs)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	task := model.Task{
		TaskID:      uuid.New().String(),
		CreatedBy:   ownerID,
		Name:        name,
		DateTime:    in.DateTime.UTC(),
		Deadline:    in.Deadline,
		PriorityID:  priority.PriorityID,
		CategoryIDs: categoryIDs,
		Completed:   in.Completed,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.tasks.CreateTask(ctx, &task); err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}

	return &TaskView{Task: task, Priority: priority, Categories: categories}, nil
}

func (s *TaskService) List(ctx context.Context, ownerID string, in ListTasksInput) ([]TaskView, error) {
	filter := TaskFilter{Completed: in.Completed}
	if in.CategoryID != "" {
		if err := checkID("Category", in.CategoryID); err != nil {
			return nil, err
		}
		filter.CategoryID = in.CategoryID
	}
	if in.PriorityID != "" {
		if err := checkID("Priority", in.PriorityID); err != nil {
			return nil, err
		}
		filter.PriorityID = in.PriorityID
	}
	if in.Deadline != nil {
		from, to := DayRange(*in.Deadline)
		filter.DeadlineFrom, filter.DeadlineTo = &from, &to
	}
	if in.Date != nil {
		from, to := DayRange(*in.Date)
		filter.DateFrom, filter.DateTo = &from, &to
	}

	tasks, err := s.tasks.ListTasks(ctx, ownerID, filter)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	if len(tasks) == 0 {
		return []TaskView{}, nil
	}

	priorities, err := s.priorities.ListPriorities(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list priorities: %w", err)
	}
	categories, err := s.categories.ListCategories(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}

	priorityByID := make(map[string]model.Priority, len(priorities))
	for _, p := range priorities {
		priorityByID[p.PriorityID] = p
	}
	categoryByID := make(map[string]model.Category, len(categories))
	for _, c := range categories {
		categoryByID[c.CategoryID] = c
	}

	views := make([]TaskView, 0, len(tasks))
	for _, task := range tasks {
		view := TaskView{Task: task, Categories: []model.Category{}}
		if p, ok := priorityByID[task.PriorityID]; ok {
			view.Priority = &p
		}
		for _, id := range task.CategoryIDs {
			if c, ok := categoryByID[id]; ok {
				view.Categories = append(view.Categories, c)
			}
		}
		views = append(views, view)
	}
	return views, nil
}

func (s *TaskService) Get(ctx context.Context, ownerID, taskID string) (*TaskView, error) {
	task, err := s.getTask(ctx, ownerID, taskID)
	if err != nil {
		return nil, err
	}
	return s.expand(ctx, task)
}

func (s *TaskService) Update(ctx context.Context, ownerID, taskID string, patch TaskPatch) (*TaskView, error) {
	if err := checkID("Task", taskID); err != nil {
		return nil, err
	}
	if patch.empty() {
		return nil, ValidationError("Invalid Format", map[string]any{"message": "No fields to update"})
	}

	task, err := s.getTask(ctx, ownerID, taskID)
	if err != nil {
		return nil, err
	}

	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return nil, ValidationError("Invalid Format", map[string]any{"name": "Task name is required"})
		}
		task.Name = name
	}
	if patch.DateTime != nil {
		task.DateTime = patch.DateTime.UTC()
	}
	if patch.Deadline != nil {
		task.Deadline = patch.Deadline
	}
	if patch.ClearDeadline {
		task.Deadline = nil
	}
	if patch.PriorityID != nil {
		priority, err := s.ownedPriority(ctx, ownerID, *patch.PriorityID)
		if err != nil {
			return nil, err
		}
		task.PriorityID = priority.PriorityID
	}
	if patch.CategoryIDs != nil {
		ids := dedupe(*patch.CategoryIDs)
		if _, err := s.ownedCategories(ctx, ownerID, ids); err != nil {
			return nil, err
		}
		task.CategoryIDs = ids
	}
	if patch.Completed != nil {
		task.Completed = *patch.Completed
	}

	return s.save(ctx, task)
}

func (s *TaskService) Delete(ctx context.Context, ownerID, taskID string) (*TaskView, error) {
	if err := checkID("Task", taskID); err != nil {
		return nil, err
	}
	task, err := s.tasks.DeleteTask(ctx, ownerID, taskID)
	if err != nil {
		return nil, taskLookupError(err)
	}
	return s.expand(ctx, task)
}

// AddCategory attaches an owned category to an owned task. Attaching a
// category twice is a no-op.
func (s *TaskService) AddCategory(ctx context.Context, ownerID, taskID, categoryID string) (*TaskView, error) {
	task, err := s.getTask(ctx, ownerID, taskID)
	if err != nil {
		return nil, err
	}
	if _, err := s.ownedCategories(ctx, ownerID, []string{categoryID}); err != nil {
		return nil, err
	}
	if task.HasCategory(categoryID) {
		return s.expand(ctx, task)
	}
	task.CategoryIDs = append(task.CategoryIDs, categoryID)
	return s.save(ctx, task)
}

// RemoveCategory detaches categoryID from the task. Detaching a category that
// is not attached is a no-op.
func (s *TaskService) RemoveCategory(ctx context.Context, ownerID, taskID, categoryID string) (*TaskView, error) {
	if err := checkID("Category", categoryID); err != nil {
		return nil, err
	}
	task, err := s.getTask(ctx, ownerID, taskID)
	if err != nil {
		return nil, err
	}
	if !task.HasCategory(categoryID) {
		return s.expand(ctx, task)
	}
	kept := make([]string, 0, len(task.CategoryIDs))
	for _, id := range task.CategoryIDs {
		if id != categoryID {
			kept = append(kept, id)
		}
	}
	task.CategoryIDs = kept
	return s.save(ctx, task)
}

func (s *TaskService) save(ctx context.Context, task *model.Task) (*TaskView, error) {
	task.UpdatedAt = s.now().UTC()
	if err := s.tasks.UpdateTask(ctx, task); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, taskLookupError(err)
		}
		return nil, fmt.Errorf("update task: %w", err)
	}
	return s.expand(ctx, task)
}

func (s *TaskService) getTask(ctx context.Context, ownerID, taskID string) (*model.Task, error) {
	if err := checkID("Task", taskID); err != nil {
		return nil, err
	}
	task, err := s.tasks.GetTask(ctx, ownerID, taskID)
	if err != nil {
		return nil, taskLookupError(err)
	}
	return task, nil
}

func (s *TaskService) expand(ctx context.Context, task *model.Task) (*TaskView, error) {
	view := &TaskView{Task: *task, Categories: []model.Category{}}

	if task.PriorityID != "" {
		priority, err := s.priorities.GetPriority(ctx, task.CreatedBy, task.PriorityID)
		switch {
		case err == nil:
			view.Priority = priority
		case !errors.Is(err, ErrNotFound):
			return nil, fmt.Errorf("load priority: %w", err)
		}
	}

	for _, id := range task.CategoryIDs {
		category, err := s.categories.GetCategory(ctx, task.CreatedBy, id)
		switch {
		case err == nil:
			view.Categories = append(view.Categories, *category)
		case !errors.Is(err, ErrNotFound):
			return nil, fmt.Errorf("load category: %w", err)
		}
	}
	return view, nil
}

func (s *TaskService) ownedPriority(ctx context.Context, ownerID, priorityID string) (*model.Priority, error) {
	if err := checkID("Priority", priorityID); err != nil {
		return nil, err
	}
	priority, err := s.priorities.GetPriority(ctx, ownerID, priorityID)
	if err != nil {
		return nil, priorityLookupError(err)
	}
	return priority, nil
}

func (s *TaskService) ownedCategories(ctx context.Context, ownerID string, ids []string) ([]model.Category, error) {
	categories := make([]model.Category, 0, len(ids))
	for _, id := range ids {
		if err := checkID("Category", id); err != nil {
			return nil, err
		}
		category, err := s.categories.GetCategory(ctx, ownerID, id)
		if err != nil {
			return nil, categoryLookupError(err)
		}
		categories = append(categories, *category)
	}
	return categories, nil
}

func taskLookupError(err error) error {
	if errors.Is(err, ErrNotFound) {
		return NotFoundError("Task not found", map[string]any{
			"message": "The requested task does not exist",
		})
	}
	return fmt.Errorf("task lookup: %w", err)
}

func dedupe(ids []string) []string {
	out := make([]string, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
