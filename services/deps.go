package services

import (
	"context"
	"log/slog"
	"time"
)

// Deps is the application context handed to every controller and
// middleware. It is built once at startup; nothing here is global.
type Deps struct {
	Log        *slog.Logger
	Timeout    time.Duration
	Tokens     *TokenService
	Users      *UserService
	Tasks      *TaskService
	Categories *CategoryService
	Priorities *PriorityService
}

func NewDeps(log *slog.Logger, store Store, tokens *TokenService, bcryptCost int, timeout time.Duration) *Deps {
	return &Deps{
		Log:        log,
		Timeout:    timeout,
		Tokens:     tokens,
		Users:      NewUserService(store, tokens, bcryptCost),
		Tasks:      NewTaskService(store, store, store),
		Categories: NewCategoryService(store),
		Priorities: NewPriorityService(store),
	}
}

// Context derives the per-request store context from parent.
func (d *Deps) Context(parent context.Context) (context.Context, context.CancelFunc) {
	if d.Timeout <= 0 {
		return context.WithCancel(parent)
	}
	return context.WithTimeout(parent, d.Timeout)
}
