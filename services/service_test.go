package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"taskmanager/model"
	"taskmanager/repository"
	"taskmanager/services"

	"github.com/glebarez/sqlite"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newStore(t *testing.T) *repository.SQLRepository {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	repo := repository.NewSQLRepository(db)
	if err := repo.AutoMigrate(context.Background()); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

func newDeps(t *testing.T) *services.Deps {
	t.Helper()
	tokens := services.NewTokenService("test-secret", time.Hour)
	return services.NewDeps(nil, newStore(t), tokens, bcrypt.MinCost, 0)
}

func mustRegister(t *testing.T, deps *services.Deps, username, email string) string {
	t.Helper()
	res, err := deps.Users.Register(context.Background(), services.RegisterInput{
		Username: username,
		Email:    email,
		Password: "secret123",
	})
	if err != nil {
		t.Fatalf("register %s: %v", username, err)
	}
	return res.User.UserID
}

func mustPriority(t *testing.T, deps *services.Deps, owner, name string) string {
	t.Helper()
	p, err := deps.Priorities.Create(context.Background(), owner, name, "")
	if err != nil {
		t.Fatalf("create priority %s: %v", name, err)
	}
	return p.PriorityID
}

func mustCategory(t *testing.T, deps *services.Deps, owner, name string) string {
	t.Helper()
	c, err := deps.Categories.Create(context.Background(), owner, name, "📚")
	if err != nil {
		t.Fatalf("create category %s: %v", name, err)
	}
	return c.CategoryID
}

func day(s string) *time.Time {
	t, err := services.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return &t
}

func TestUserService_Register(t *testing.T) {
	t.Parallel()
	deps := newDeps(t)
	ctx := context.Background()

	res, err := deps.Users.Register(ctx, services.RegisterInput{
		Username: "alice1",
		Email:    " Alice@Example.com ",
		Password: "secret123",
	})
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if res.User.Email != "alice@example.com" {
		t.Errorf("email = %q, want normalized", res.User.Email)
	}
	if res.User.Password == "secret123" {
		t.Error("password stored in plain text")
	}
	if id, err := deps.Tokens.Verify(res.Token); err != nil || id != res.User.UserID {
		t.Errorf("token resolves to %q, %v", id, err)
	}

	_, err = deps.Users.Register(ctx, services.RegisterInput{Username: "alice2", Email: "alice@example.com", Password: "secret123"})
	if !errors.Is(err, services.ErrConflict) {
		t.Errorf("duplicate email error = %v, want ErrConflict", err)
	}
	_, err = deps.Users.Register(ctx, services.RegisterInput{Username: "alice1", Email: "other@example.com", Password: "secret123"})
	if !errors.Is(err, services.ErrConflict) {
		t.Errorf("duplicate username error = %v, want ErrConflict", err)
	}
	_, err = deps.Users.Register(ctx, services.RegisterInput{Username: "abc", Email: "abc@example.com", Password: "secret123"})
	if !errors.Is(err, services.ErrValidation) {
		t.Errorf("short username error = %v, want ErrValidation", err)
	}
}

func TestUserService_Login(t *testing.T) {
	t.Parallel()
	deps := newDeps(t)
	ctx := context.Background()
	mustRegister(t, deps, "bobby", "bob@example.com")

	if _, err := deps.Users.Login(ctx, "BOB@example.com", "secret123"); err != nil {
		t.Fatalf("Login() error = %v", err)
	}

	for _, tc := range []struct{ email, password string }{
		{"bob@example.com", "wrong-password"},
		{"nobody@example.com", "secret123"},
	} {
		_, err := deps.Users.Login(ctx, tc.email, tc.password)
		if !errors.Is(err, services.ErrUnauthorized) {
			t.Errorf("Login(%s) error = %v, want ErrUnauthorized", tc.email, err)
		}
	}
}

func TestUserService_Update(t *testing.T) {
	t.Parallel()
	deps := newDeps(t)
	ctx := context.Background()
	mustRegister(t, deps, "carol", "carol@example.com")
	daveID := mustRegister(t, deps, "davey", "dave@example.com")

	dave, err := deps.Users.GetByID(ctx, daveID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}

	taken := "carol"
	if _, err := deps.Users.Update(ctx, dave, services.UpdateUserInput{Username: &taken}); !errors.Is(err, services.ErrConflict) {
		t.Errorf("rename to taken username error = %v, want ErrConflict", err)
	}
	if _, err := deps.Users.Update(ctx, dave, services.UpdateUserInput{}); !errors.Is(err, services.ErrValidation) {
		t.Errorf("empty update error = %v, want ErrValidation", err)
	}

	same := "davey"
	email := "dave2@example.com"
	updated, err := deps.Users.Update(ctx, dave, services.UpdateUserInput{Username: &same, Email: &email})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if updated.Email != email {
		t.Errorf("email = %q, want %q", updated.Email, email)
	}
	if _, err := deps.Users.Login(ctx, email, "secret123"); err != nil {
		t.Errorf("login with new email: %v", err)
	}
}

func TestCategoryService_OwnerScoped(t *testing.T) {
	t.Parallel()
	deps := newDeps(t)
	ctx := context.Background()
	alice := mustRegister(t, deps, "alice", "alice@example.com")
	bob := mustRegister(t, deps, "bobby", "bob@example.com")

	id := mustCategory(t, deps, alice, "Study")

	if _, err := deps.Categories.Create(ctx, alice, "Study", ""); !errors.Is(err, services.ErrConflict) {
		t.Errorf("duplicate name error = %v, want ErrConflict", err)
	}
	if _, err := deps.Categories.Create(ctx, bob, "Study", ""); err != nil {
		t.Errorf("same name for another owner: %v", err)
	}
	if _, err := deps.Categories.Get(ctx, bob, id); !errors.Is(err, services.ErrNotFound) {
		t.Errorf("foreign get error = %v, want ErrNotFound", err)
	}
	if _, err := deps.Categories.Get(ctx, alice, "not-a-uuid"); !errors.Is(err, services.ErrInvalidID) {
		t.Errorf("bad id error = %v, want ErrInvalidID", err)
	}

	name := "Study"
	if _, err := deps.Categories.Update(ctx, alice, id, services.CategoryPatch{Name: &name}); err != nil {
		t.Errorf("rename to own name: %v", err)
	}

	if _, err := deps.Categories.Delete(ctx, bob, id); !errors.Is(err, services.ErrNotFound) {
		t.Errorf("foreign delete error = %v, want ErrNotFound", err)
	}
	if _, err := deps.Categories.Delete(ctx, alice, id); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	list, err := deps.Categories.List(ctx, alice)
	if err != nil || len(list) != 0 {
		t.Errorf("List() after delete = %v, %v", list, err)
	}
}

func TestPriorityService_Color(t *testing.T) {
	t.Parallel()
	deps := newDeps(t)
	ctx := context.Background()
	owner := mustRegister(t, deps, "erin1", "erin@example.com")

	p, err := deps.Priorities.Create(ctx, owner, "High", "")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if p.Color != "#f74242" {
		t.Errorf("default color = %q", p.Color)
	}
	if _, err := deps.Priorities.Create(ctx, owner, "Low", "#123456"); !errors.Is(err, services.ErrValidation) {
		t.Errorf("off-palette color error = %v, want ErrValidation", err)
	}
}

func TestTaskService_Create(t *testing.T) {
	t.Parallel()
	deps := newDeps(t)
	ctx := context.Background()
	alice := mustRegister(t, deps, "alice", "alice@example.com")
	bob := mustRegister(t, deps, "bobby", "bob@example.com")
	priority := mustPriority(t, deps, alice, "High")
	category := mustCategory(t, deps, alice, "Work")
	foreignPriority := mustPriority(t, deps, bob, "High")

	view, err := deps.Tasks.Create(ctx, alice, services.CreateTaskInput{
		Name:        "Write report",
		DateTime:    time.Date(2025, 3, 9, 9, 0, 0, 0, time.UTC),
		Deadline:    day("2025-03-10"),
		PriorityID:  priority,
		CategoryIDs: []string{category, category},
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if view.Priority == nil || view.Priority.PriorityID != priority {
		t.Errorf("priority not expanded: %+v", view.Priority)
	}
	if len(view.Categories) != 1 {
		t.Errorf("categories = %d, want duplicates collapsed to 1", len(view.Categories))
	}

	_, err = deps.Tasks.Create(ctx, alice, services.CreateTaskInput{
		Name:       "Foreign",
		DateTime:   time.Now(),
		PriorityID: foreignPriority,
	})
	if !errors.Is(err, services.ErrNotFound) {
		t.Errorf("foreign priority error = %v, want ErrNotFound", err)
	}

	_, err = deps.Tasks.Create(ctx, alice, services.CreateTaskInput{
		Name:       "Bad id",
		DateTime:   time.Now(),
		PriorityID: "12345",
	})
	if !errors.Is(err, services.ErrInvalidID) {
		t.Errorf("malformed priority error = %v, want ErrInvalidID", err)
	}
}

func TestTaskService_ListFilters(t *testing.T) {
	t.Parallel()
	deps := newDeps(t)
	ctx := context.Background()
	owner := mustRegister(t, deps, "frank", "frank@example.com")
	high := mustPriority(t, deps, owner, "High")
	low := mustPriority(t, deps, owner, "Low")
	work := mustCategory(t, deps, owner, "Work")

	create := func(name string, dt time.Time, deadline *time.Time, priority string, categories []string, done bool) {
		t.Helper()
		_, err := deps.Tasks.Create(ctx, owner, services.CreateTaskInput{
			Name: name, DateTime: dt, Deadline: deadline, PriorityID: priority, CategoryIDs: categories, Completed: done,
		})
		if err != nil {
			t.Fatalf("create %s: %v", name, err)
		}
	}
	create("a", time.Date(2025, 3, 9, 8, 0, 0, 0, time.UTC), day("2025-03-10"), high, []string{work}, false)
	create("b", time.Date(2025, 3, 9, 23, 0, 0, 0, time.UTC), day("2025-03-11"), low, nil, true)
	create("c", time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC), nil, high, nil, false)

	done := true
	tests := []struct {
		name string
		in   services.ListTasksInput
		want []string
	}{
		{name: "all", in: services.ListTasksInput{}, want: []string{"a", "b", "c"}},
		{name: "deadline day", in: services.ListTasksInput{Deadline: day("2025-03-10")}, want: []string{"a"}},
		{name: "date day", in: services.ListTasksInput{Date: day("2025-03-09")}, want: []string{"a", "b"}},
		{name: "priority", in: services.ListTasksInput{PriorityID: high}, want: []string{"a", "c"}},
		{name: "category", in: services.ListTasksInput{CategoryID: work}, want: []string{"a"}},
		{name: "completed", in: services.ListTasksInput{Completed: &done}, want: []string{"b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			views, err := deps.Tasks.List(ctx, owner, tt.in)
			if err != nil {
				t.Fatalf("List() error = %v", err)
			}
			var got []string
			for _, v := range views {
				got = append(got, v.Task.Name)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("List() = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("List() = %v, want %v", got, tt.want)
				}
			}
		})
	}
}

func TestTaskService_UpdatePartial(t *testing.T) {
	t.Parallel()
	deps := newDeps(t)
	ctx := context.Background()
	owner := mustRegister(t, deps, "grace", "grace@example.com")
	priority := mustPriority(t, deps, owner, "High")

	created, err := deps.Tasks.Create(ctx, owner, services.CreateTaskInput{
		Name:       "Original",
		DateTime:   time.Date(2025, 3, 9, 9, 0, 0, 0, time.UTC),
		Deadline:   day("2025-03-10"),
		PriorityID: priority,
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	id := created.Task.TaskID

	done := true
	updated, err := deps.Tasks.Update(ctx, owner, id, services.TaskPatch{Completed: &done})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if !updated.Task.Completed || updated.Task.Name != "Original" || updated.Task.Deadline == nil {
		t.Errorf("partial update touched other fields: %+v", updated.Task)
	}

	cleared, err := deps.Tasks.Update(ctx, owner, id, services.TaskPatch{ClearDeadline: true})
	if err != nil {
		t.Fatalf("clear deadline: %v", err)
	}
	if cleared.Task.Deadline != nil {
		t.Errorf("deadline = %v, want cleared", cleared.Task.Deadline)
	}

	if _, err := deps.Tasks.Update(ctx, owner, id, services.TaskPatch{}); !errors.Is(err, services.ErrValidation) {
		t.Errorf("empty patch error = %v, want ErrValidation", err)
	}
}

func TestTaskService_Categories(t *testing.T) {
	t.Parallel()
	deps := newDeps(t)
	ctx := context.Background()
	owner := mustRegister(t, deps, "heidi", "heidi@example.com")
	priority := mustPriority(t, deps, owner, "High")
	work := mustCategory(t, deps, owner, "Work")

	created, err := deps.Tasks.Create(ctx, owner, services.CreateTaskInput{
		Name: "Tagged", DateTime: time.Now(), PriorityID: priority,
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	id := created.Task.TaskID

	for i := 0; i < 2; i++ {
		view, err := deps.Tasks.AddCategory(ctx, owner, id, work)
		if err != nil {
			t.Fatalf("AddCategory() error = %v", err)
		}
		if len(view.Task.CategoryIDs) != 1 {
			t.Errorf("attach #%d: categoryIDs = %v", i+1, view.Task.CategoryIDs)
		}
	}

	// a deleted category drops out of the expansion
	if _, err := deps.Categories.Delete(ctx, owner, work); err != nil {
		t.Fatalf("delete category: %v", err)
	}
	view, err := deps.Tasks.Get(ctx, owner, id)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if len(view.Categories) != 0 {
		t.Errorf("expanded categories = %v, want none", view.Categories)
	}

	view, err = deps.Tasks.RemoveCategory(ctx, owner, id, work)
	if err != nil {
		t.Fatalf("RemoveCategory() error = %v", err)
	}
	if len(view.Task.CategoryIDs) != 0 {
		t.Errorf("categoryIDs = %v, want empty", view.Task.CategoryIDs)
	}
}

func TestUserService_DeleteCascade(t *testing.T) {
	t.Parallel()
	deps := newDeps(t)
	ctx := context.Background()
	ownerID := mustRegister(t, deps, "ivan1", "ivan@example.com")
	otherID := mustRegister(t, deps, "judy1", "judy@example.com")
	priority := mustPriority(t, deps, ownerID, "High")
	category := mustCategory(t, deps, ownerID, "Work")
	otherCategory := mustCategory(t, deps, otherID, "Work")
	created, err := deps.Tasks.Create(ctx, ownerID, services.CreateTaskInput{Name: "t", DateTime: time.Now(), PriorityID: priority})
	if err != nil {
		t.Fatalf("create task: %v", err)
	}

	owner, err := deps.Users.GetByID(ctx, ownerID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if err := deps.Users.Delete(ctx, owner); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	if _, err := deps.Users.GetByID(ctx, ownerID); !errors.Is(err, services.ErrNotFound) {
		t.Errorf("user still present: %v", err)
	}
	if tasks, _ := deps.Tasks.List(ctx, ownerID, services.ListTasksInput{}); len(tasks) != 0 {
		t.Errorf("tasks left after cascade: %d", len(tasks))
	}
	if ps, _ := deps.Priorities.List(ctx, ownerID); len(ps) != 0 {
		t.Errorf("priorities left after cascade: %d", len(ps))
	}
	if cs, _ := deps.Categories.List(ctx, ownerID); len(cs) != 0 {
		t.Errorf("categories left after cascade: %d", len(cs))
	}

	// a fresh account cannot reach the old ids either
	newcomer := mustRegister(t, deps, "ivan2", "ivan2@example.com")
	if _, err := deps.Tasks.Get(ctx, newcomer, created.Task.TaskID); !errors.Is(err, services.ErrNotFound) {
		t.Errorf("old task visible to new user: %v", err)
	}
	if _, err := deps.Categories.Get(ctx, newcomer, category); !errors.Is(err, services.ErrNotFound) {
		t.Errorf("old category visible to new user: %v", err)
	}
	if _, err := deps.Priorities.Get(ctx, newcomer, priority); !errors.Is(err, services.ErrNotFound) {
		t.Errorf("old priority visible to new user: %v", err)
	}
	if _, err := deps.Categories.Get(ctx, otherID, otherCategory); err != nil {
		t.Errorf("other user's category removed: %v", err)
	}
}

func TestForeignResourcesAreHidden(t *testing.T) {
	t.Parallel()
	deps := newDeps(t)
	ctx := context.Background()
	alice := mustRegister(t, deps, "alice", "alice@example.com")
	bob := mustRegister(t, deps, "bobby", "bob@example.com")

	priority := mustPriority(t, deps, alice, "High")
	category := mustCategory(t, deps, alice, "Work")
	created, err := deps.Tasks.Create(ctx, alice, services.CreateTaskInput{
		Name: "Private", DateTime: time.Now(), PriorityID: priority,
	})
	if err != nil {
		t.Fatalf("create task: %v", err)
	}
	task := created.Task.TaskID

	name := "Renamed"
	done := true
	tests := []struct {
		name string
		call func() error
	}{
		{name: "get task", call: func() error { _, err := deps.Tasks.Get(ctx, bob, task); return err }},
		{name: "update task", call: func() error {
			_, err := deps.Tasks.Update(ctx, bob, task, services.TaskPatch{Name: &name, Completed: &done})
			return err
		}},
		{name: "delete task", call: func() error { _, err := deps.Tasks.Delete(ctx, bob, task); return err }},
		{name: "attach to task", call: func() error { _, err := deps.Tasks.AddCategory(ctx, bob, task, category); return err }},
		{name: "get category", call: func() error { _, err := deps.Categories.Get(ctx, bob, category); return err }},
		{name: "update category", call: func() error {
			_, err := deps.Categories.Update(ctx, bob, category, services.CategoryPatch{Name: &name})
			return err
		}},
		{name: "delete category", call: func() error { _, err := deps.Categories.Delete(ctx, bob, category); return err }},
		{name: "get priority", call: func() error { _, err := deps.Priorities.Get(ctx, bob, priority); return err }},
		{name: "update priority", call: func() error {
			_, err := deps.Priorities.Update(ctx, bob, priority, services.PriorityPatch{Name: &name})
			return err
		}},
		{name: "delete priority", call: func() error { _, err := deps.Priorities.Delete(ctx, bob, priority); return err }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.call(); !errors.Is(err, services.ErrNotFound) {
				t.Errorf("error = %v, want ErrNotFound", err)
			}
		})
	}

	view, err := deps.Tasks.Get(ctx, alice, task)
	if err != nil {
		t.Fatalf("owner get: %v", err)
	}
	if view.Task.Name != "Private" || view.Task.Completed {
		t.Errorf("foreign update leaked into the task: %+v", view.Task)
	}
	if c, err := deps.Categories.Get(ctx, alice, category); err != nil || c.Name != "Work" {
		t.Errorf("category after foreign update = %+v, %v", c, err)
	}
	if p, err := deps.Priorities.Get(ctx, alice, priority); err != nil || p.Name != "High" {
		t.Errorf("priority after foreign update = %+v, %v", p, err)
	}
}

func TestUserService_UpdateTrimsUsername(t *testing.T) {
	t.Parallel()
	deps := newDeps(t)
	ctx := context.Background()
	id := mustRegister(t, deps, "kevin", "kevin@example.com")
	user, err := deps.Users.GetByID(ctx, id)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}

	for _, raw := range []string{"   ab   ", "   ", ""} {
		username := raw
		if _, err := deps.Users.Update(ctx, user, services.UpdateUserInput{Username: &username}); !errors.Is(err, services.ErrValidation) {
			t.Errorf("Update(username=%q) error = %v, want ErrValidation", raw, err)
		}
	}

	padded := "  abc  "
	updated, err := deps.Users.Update(ctx, user, services.UpdateUserInput{Username: &padded})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if updated.Username != "abc" {
		t.Errorf("username = %q, want %q", updated.Username, "abc")
	}
}

// racingStore loses every CreateUser to a concurrent registration.
type racingStore struct {
	services.Store
}

func (racingStore) CreateUser(context.Context, *model.User) error {
	return services.ErrConflict
}

func TestUserService_RegisterRaceMessage(t *testing.T) {
	t.Parallel()
	users := services.NewUserService(racingStore{Store: newStore(t)}, services.NewTokenService("s", time.Hour), bcrypt.MinCost)

	_, err := users.Register(context.Background(), services.RegisterInput{
		Username: "lucy1", Email: "lucy@example.com", Password: "secret123",
	})
	var appErr *services.Error
	if !errors.As(err, &appErr) || !errors.Is(err, services.ErrConflict) {
		t.Fatalf("Register() error = %v, want a conflict", err)
	}
	if appErr.Message != "Username or email already in use" {
		t.Errorf("message = %q", appErr.Message)
	}
}
