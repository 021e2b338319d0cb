package repository

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"taskmanager/model"
	"taskmanager/services"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	usersCollection      = "Users"
	tasksCollection      = "Tasks"
	categoriesCollection = "Categories"
	prioritiesCollection = "Priorities"
)

// FirestoreRepository keeps one document per record, keyed by the record's
// id, in the Users, Tasks, Categories and Priorities collections.
type FirestoreRepository struct {
	client *firestore.Client
}

var _ services.Store = (*FirestoreRepository)(nil)

func NewFirestoreRepository(client *firestore.Client) *FirestoreRepository {
	return &FirestoreRepository{client: client}
}

func (r *FirestoreRepository) Close() error {
	return r.client.Close()
}

func (r *FirestoreRepository) users() *firestore.CollectionRef {
	return r.client.Collection(usersCollection)
}

func (r *FirestoreRepository) tasks() *firestore.CollectionRef {
	return r.client.Collection(tasksCollection)
}

func (r *FirestoreRepository) categories() *firestore.CollectionRef {
	return r.client.Collection(categoriesCollection)
}

func (r *FirestoreRepository) priorities() *firestore.CollectionRef {
	return r.client.Collection(prioritiesCollection)
}

// translate maps gRPC status codes onto the store sentinels.
func translate(err error) error {
	switch status.Code(err) {
	case codes.NotFound:
		return services.ErrNotFound
	case codes.AlreadyExists:
		return services.ErrConflict
	}
	return err
}

// getDoc decodes the document at ref into out.
func getDoc(ctx context.Context, ref *firestore.DocumentRef, out any) error {
	snap, err := ref.Get(ctx)
	if err != nil {
		return translate(err)
	}
	if !snap.Exists() {
		return services.ErrNotFound
	}
	if err := snap.DataTo(out); err != nil {
		return fmt.Errorf("decode %s: %w", ref.Path, err)
	}
	return nil
}

// first decodes the first document matched by q into out.
func first(ctx context.Context, q firestore.Query, out any) error {
	iter := q.Limit(1).Documents(ctx)
	defer iter.Stop()

	snap, err := iter.Next()
	if errors.Is(err, iterator.Done) {
		return services.ErrNotFound
	}
	if err != nil {
		return err
	}
	return snap.DataTo(out)
}

func all[T any](ctx context.Context, q firestore.Query) ([]T, error) {
	iter := q.Documents(ctx)
	defer iter.Stop()

	out := []T{}
	for {
		snap, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, err
		}
		var v T
		if err := snap.DataTo(&v); err != nil {
			return nil, fmt.Errorf("decode %s: %w", snap.Ref.ID, err)
		}
		out = append(out, v)
	}
	return out, nil
}

// ---------- users ----------

func (r *FirestoreRepository) CreateUser(ctx context.Context, user *model.User) error {
	_, err := r.users().Doc(user.UserID).Create(ctx, user)
	return translate(err)
}

func (r *FirestoreRepository) GetUserByID(ctx context.Context, userID string) (*model.User, error) {
	var user model.User
	if err := getDoc(ctx, r.users().Doc(userID), &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *FirestoreRepository) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	if err := first(ctx, r.users().Where("email", "==", email), &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *FirestoreRepository) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	var user model.User
	if err := first(ctx, r.users().Where("username", "==", username), &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *FirestoreRepository) UpdateUser(ctx context.Context, user *model.User) error {
	_, err := r.users().Doc(user.UserID).Update(ctx, []firestore.Update{
		{Path: "username", Value: user.Username},
		{Path: "email", Value: user.Email},
		{Path: "password", Value: user.Password},
		{Path: "updatedat", Value: user.UpdatedAt},
	})
	return translate(err)
}

// DeleteUserCascade runs in one transaction, so a failure leaves every
// document in place.
func (r *FirestoreRepository) DeleteUserCascade(ctx context.Context, userID string) error {
	userRef := r.users().Doc(userID)
	return r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		if _, err := tx.Get(userRef); err != nil {
			return translate(err)
		}

		var refs []*firestore.DocumentRef
		for _, col := range []*firestore.CollectionRef{r.tasks(), r.categories(), r.priorities()} {
			snaps, err := tx.Documents(col.Where("createdby", "==", userID)).GetAll()
			if err != nil {
				return fmt.Errorf("collect %s: %w", col.ID, err)
			}
			for _, snap := range snaps {
				refs = append(refs, snap.Ref)
			}
		}

		for _, ref := range refs {
			if err := tx.Delete(ref); err != nil {
				return err
			}
		}
		return tx.Delete(userRef)
	})
}

// ---------- owned documents ----------

// getOwned loads the document and hides it unless ownerID created it.
func getOwned[T any](ctx context.Context, ref *firestore.DocumentRef, ownerID string, owner func(*T) string) (*T, error) {
	var v T
	if err := getDoc(ctx, ref, &v); err != nil {
		return nil, err
	}
	if owner(&v) != ownerID {
		return nil, services.ErrNotFound
	}
	return &v, nil
}

// deleteOwned removes the document inside a transaction after checking the
// owner, and returns what was removed.
func deleteOwned[T any](ctx context.Context, client *firestore.Client, ref *firestore.DocumentRef, ownerID string, owner func(*T) string) (*T, error) {
	var removed T
	err := client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snap, err := tx.Get(ref)
		if err != nil {
			return translate(err)
		}
		var v T
		if err := snap.DataTo(&v); err != nil {
			return err
		}
		if owner(&v) != ownerID {
			return services.ErrNotFound
		}
		removed = v
		return tx.Delete(ref)
	})
	if err != nil {
		return nil, err
	}
	return &removed, nil
}

// updateOwned applies updates inside a transaction after checking the owner.
func updateOwned[T any](ctx context.Context, client *firestore.Client, ref *firestore.DocumentRef, ownerID string, owner func(*T) string, updates []firestore.Update) error {
	return client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snap, err := tx.Get(ref)
		if err != nil {
			return translate(err)
		}
		var v T
		if err := snap.DataTo(&v); err != nil {
			return err
		}
		if owner(&v) != ownerID {
			return services.ErrNotFound
		}
		return tx.Update(ref, updates)
	})
}

func categoryOwner(c *model.Category) string { return c.CreatedBy }
func priorityOwner(p *model.Priority) string { return p.CreatedBy }
func taskOwner(t *model.Task) string         { return t.CreatedBy }

// ---------- categories ----------

func (r *FirestoreRepository) CreateCategory(ctx context.Context, category *model.Category) error {
	_, err := r.categories().Doc(category.CategoryID).Create(ctx, category)
	return translate(err)
}

func (r *FirestoreRepository) GetCategory(ctx context.Context, ownerID, categoryID string) (*model.Category, error) {
	return getOwned(ctx, r.categories().Doc(categoryID), ownerID, categoryOwner)
}

func (r *FirestoreRepository) FindCategoryByName(ctx context.Context, ownerID, name string) (*model.Category, error) {
	var category model.Category
	q := r.categories().Where("createdby", "==", ownerID).Where("name", "==", name)
	if err := first(ctx, q, &category); err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *FirestoreRepository) ListCategories(ctx context.Context, ownerID string) ([]model.Category, error) {
	categories, err := all[model.Category](ctx, r.categories().Where("createdby", "==", ownerID))
	if err != nil {
		return nil, err
	}
	slices.SortFunc(categories, func(a, b model.Category) int {
		return a.CreatedAt.Compare(b.CreatedAt)
	})
	return categories, nil
}

func (r *FirestoreRepository) UpdateCategory(ctx context.Context, category *model.Category) error {
	return updateOwned(ctx, r.client, r.categories().Doc(category.CategoryID), category.CreatedBy, categoryOwner, []firestore.Update{
		{Path: "name", Value: category.Name},
		{Path: "emoji", Value: category.Emoji},
		{Path: "updatedat", Value: category.UpdatedAt},
	})
}

func (r *FirestoreRepository) DeleteCategory(ctx context.Context, ownerID, categoryID string) (*model.Category, error) {
	return deleteOwned(ctx, r.client, r.categories().Doc(categoryID), ownerID, categoryOwner)
}

// ---------- priorities ----------

func (r *FirestoreRepository) CreatePriority(ctx context.Context, priority *model.Priority) error {
	_, err := r.priorities().Doc(priority.PriorityID).Create(ctx, priority)
	return translate(err)
}

func (r *FirestoreRepository) GetPriority(ctx context.Context, ownerID, priorityID string) (*model.Priority, error) {
	return getOwned(ctx, r.priorities().Doc(priorityID), ownerID, priorityOwner)
}

func (r *FirestoreRepository) FindPriorityByName(ctx context.Context, ownerID, name string) (*model.Priority, error) {
	var priority model.Priority
	q := r.priorities().Where("createdby", "==", ownerID).Where("name", "==", name)
	if err := first(ctx, q, &priority); err != nil {
		return nil, err
	}
	return &priority, nil
}

func (r *FirestoreRepository) ListPriorities(ctx context.Context, ownerID string) ([]model.Priority, error) {
	priorities, err := all[model.Priority](ctx, r.priorities().Where("createdby", "==", ownerID))
	if err != nil {
		return nil, err
	}
	slices.SortFunc(priorities, func(a, b model.Priority) int {
		return a.CreatedAt.Compare(b.CreatedAt)
	})
	return priorities, nil
}

func (r *FirestoreRepository) UpdatePriority(ctx context.Context, priority *model.Priority) error {
	return updateOwned(ctx, r.client, r.priorities().Doc(priority.PriorityID), priority.CreatedBy, priorityOwner, []firestore.Update{
		{Path: "name", Value: priority.Name},
		{Path: "color", Value: priority.Color},
		{Path: "updatedat", Value: priority.UpdatedAt},
	})
}

func (r *FirestoreRepository) DeletePriority(ctx context.Context, ownerID, priorityID string) (*model.Priority, error) {
	return deleteOwned(ctx, r.client, r.priorities().Doc(priorityID), ownerID, priorityOwner)
}

// ---------- tasks ----------

func (r *FirestoreRepository) CreateTask(ctx context.Context, task *model.Task) error {
	_, err := r.tasks().Doc(task.TaskID).Create(ctx, task)
	return translate(err)
}

func (r *FirestoreRepository) GetTask(ctx context.Context, ownerID, taskID string) (*model.Task, error) {
	return getOwned(ctx, r.tasks().Doc(taskID), ownerID, taskOwner)
}

// ListTasks pushes every filter into the query. Range filters on datetime or
// deadline combined with createdby need a composite index.
func (r *FirestoreRepository) ListTasks(ctx context.Context, ownerID string, filter services.TaskFilter) ([]model.Task, error) {
	q := r.tasks().Where("createdby", "==", ownerID)
	if filter.CategoryID != "" {
		q = q.Where("categoryids", "array-contains", filter.CategoryID)
	}
	if filter.PriorityID != "" {
		q = q.Where("priorityid", "==", filter.PriorityID)
	}
	if filter.Completed != nil {
		q = q.Where("completed", "==", *filter.Completed)
	}
	if filter.DeadlineFrom != nil {
		q = q.Where("deadline", ">=", *filter.DeadlineFrom)
	}
	if filter.DeadlineTo != nil {
		q = q.Where("deadline", "<", *filter.DeadlineTo)
	}
	if filter.DateFrom != nil {
		q = q.Where("datetime", ">=", *filter.DateFrom)
	}
	if filter.DateTo != nil {
		q = q.Where("datetime", "<", *filter.DateTo)
	}

	tasks, err := all[model.Task](ctx, q)
	if err != nil {
		return nil, err
	}
	slices.SortFunc(tasks, compareTasks)
	return tasks, nil
}

func (r *FirestoreRepository) UpdateTask(ctx context.Context, task *model.Task) error {
	categoryIDs := task.CategoryIDs
	if categoryIDs == nil {
		categoryIDs = []string{}
	}
	return updateOwned(ctx, r.client, r.tasks().Doc(task.TaskID), task.CreatedBy, taskOwner, []firestore.Update{
		{Path: "name", Value: task.Name},
		{Path: "datetime", Value: task.DateTime},
		{Path: "deadline", Value: task.Deadline},
		{Path: "priorityid", Value: task.PriorityID},
		{Path: "categoryids", Value: categoryIDs},
		{Path: "completed", Value: task.Completed},
		{Path: "updatedat", Value: task.UpdatedAt},
	})
}

func (r *FirestoreRepository) DeleteTask(ctx context.Context, ownerID, taskID string) (*model.Task, error) {
	return deleteOwned(ctx, r.client, r.tasks().Doc(taskID), ownerID, taskOwner)
}

// compareTasks orders by scheduled time, then creation time.
func compareTasks(a, b model.Task) int {
	if c := a.DateTime.Compare(b.DateTime); c != 0 {
		return c
	}
	return a.CreatedAt.Compare(b.CreatedAt)
}
