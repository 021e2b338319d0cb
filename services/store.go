package services

import (
	"context"
	"time"

	"taskmanager/model"
)

// Store implementations return the bare ErrNotFound when a lookup matches
// nothing and the bare ErrConflict when a unique constraint rejects a write.
// Every owner-scoped method takes the owner id and must use it as a query
// predicate.

type UserStore interface {
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByID(ctx context.Context, userID string) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	GetUserByUsername(ctx context.Context, username string) (*model.User, error)
	UpdateUser(ctx context.Context, user *model.User) error
	// DeleteUserCascade removes every task, category and priority owned by
	// userID and then the user itself. It either removes all of them or
	// returns an error.
	DeleteUserCascade(ctx context.Context, userID string) error
}

type CategoryStore interface {
	CreateCategory(ctx context.Context, category *model.Category) error
	GetCategory(ctx context.Context, ownerID, categoryID string) (*model.Category, error)
	FindCategoryByName(ctx context.Context, ownerID, name string) (*model.Category, error)
	ListCategories(ctx context.Context, ownerID string) ([]model.Category, error)
	UpdateCategory(ctx context.Context, category *model.Category) error
	DeleteCategory(ctx context.Context, ownerID, categoryID string) (*model.Category, error)
}

type PriorityStore interface {
	CreatePriority(ctx context.Context, priority *model.Priority) error
	GetPriority(ctx context.Context, ownerID, priorityID string) (*model.Priority, error)
	FindPriorityByName(ctx context.Context, ownerID, name string) (*model.Priority, error)
	ListPriorities(ctx context.Context, ownerID string) ([]model.Priority, error)
	UpdatePriority(ctx context.Context, priority *model.Priority) error
	DeletePriority(ctx context.Context, ownerID, priorityID string) (*model.Priority, error)
}

// TaskFilter narrows ListTasks. Zero values mean "no constraint"; time
// windows are half-open [From, To).
type TaskFilter struct {
	CategoryID   string
	PriorityID   string
	Completed    *bool
	DeadlineFrom *time.Time
	DeadlineTo   *time.Time
	DateFrom     *time.Time
	DateTo       *time.Time
}

type TaskStore interface {
	CreateTask(ctx context.Context, task *model.Task) error
	GetTask(ctx context.Context, ownerID, taskID string) (*model.Task, error)
	ListTasks(ctx context.Context, ownerID string, filter TaskFilter) ([]model.Task, error)
	UpdateTask(ctx context.Context, task *model.Task) error
	DeleteTask(ctx context.Context, ownerID, taskID string) (*model.Task, error)
}

type Store interface {
	UserStore
	CategoryStore
	PriorityStore
	TaskStore
	Close() error
}
