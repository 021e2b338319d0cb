package repository

import (
	"context"
	"errors"
	"strings"

	"taskmanager/model"
	"taskmanager/services"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// SQLRepository stores records in four tables through gorm. It serves both
// the sqlite and the postgres drivers.
type SQLRepository struct {
	db *gorm.DB
}

var _ services.Store = (*SQLRepository)(nil)

func NewSQLRepository(db *gorm.DB) *SQLRepository {
	return &SQLRepository{db: db}
}

// Models lists every table the repository owns, in migration order.
func Models() []any {
	return []any{&model.User{}, &model.Priority{}, &model.Category{}, &model.Task{}}
}

// AutoMigrate creates or updates the tables and unique indexes.
func (r *SQLRepository) AutoMigrate(ctx context.Context) error {
	return r.db.WithContext(ctx).AutoMigrate(Models()...)
}

func (r *SQLRepository) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func sqlError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return services.ErrNotFound
	case isUniqueViolation(err):
		return services.ErrConflict
	}
	return err
}

// save writes every column of v and reports ErrNotFound when no row matches
// its primary key and the extra scopes.
func (r *SQLRepository) save(ctx context.Context, v any, scopes ...func(*gorm.DB) *gorm.DB) error {
	q := r.db.WithContext(ctx).Model(v).Scopes(scopes...)
	res := q.Select("*").Omit("created_at").Updates(v)
	if res.Error != nil {
		return sqlError(res.Error)
	}
	if res.RowsAffected == 0 {
		return services.ErrNotFound
	}
	return nil
}

// ownedBy limits a statement to rows created by ownerID.
func ownedBy(ownerID string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("created_by = ?", ownerID)
	}
}

// ---------- users ----------

func (r *SQLRepository) CreateUser(ctx context.Context, user *model.User) error {
	return sqlError(r.db.WithContext(ctx).Create(user).Error)
}

func (r *SQLRepository) findUser(ctx context.Context, query string, arg any) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Where(query, arg).First(&user).Error; err != nil {
		return nil, sqlError(err)
	}
	return &user, nil
}

func (r *SQLRepository) GetUserByID(ctx context.Context, userID string) (*model.User, error) {
	return r.findUser(ctx, "user_id = ?", userID)
}

func (r *SQLRepository) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.findUser(ctx, "email = ?", email)
}

func (r *SQLRepository) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	return r.findUser(ctx, "username = ?", username)
}

func (r *SQLRepository) UpdateUser(ctx context.Context, user *model.User) error {
	return r.save(ctx, user)
}

func (r *SQLRepository) DeleteUserCascade(ctx context.Context, userID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, owned := range []any{&model.Task{}, &model.Category{}, &model.Priority{}} {
			if err := tx.Where("created_by = ?", userID).Delete(owned).Error; err != nil {
				return err
			}
		}
		res := tx.Where("user_id = ?", userID).Delete(&model.User{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return services.ErrNotFound
		}
		return nil
	})
}

// ---------- owned rows ----------

func getOwnedRow[T any](ctx context.Context, db *gorm.DB, idColumn, ownerID, id string) (*T, error) {
	var v T
	err := db.WithContext(ctx).
		Where(idColumn+" = ? AND created_by = ?", id, ownerID).
		First(&v).Error
	if err != nil {
		return nil, sqlError(err)
	}
	return &v, nil
}

func deleteOwnedRow[T any](ctx context.Context, db *gorm.DB, idColumn, ownerID, id string) (*T, error) {
	var removed T
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where(idColumn+" = ? AND created_by = ?", id, ownerID).First(&removed).Error; err != nil {
			return err
		}
		return tx.Where(idColumn+" = ? AND created_by = ?", id, ownerID).Delete(new(T)).Error
	})
	if err != nil {
		return nil, sqlError(err)
	}
	return &removed, nil
}

func listOwnedRows[T any](ctx context.Context, db *gorm.DB, ownerID string) ([]T, error) {
	out := []T{}
	err := db.WithContext(ctx).
		Where("created_by = ?", ownerID).
		Order("created_at ASC").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ---------- categories ----------

func (r *SQLRepository) CreateCategory(ctx context.Context, category *model.Category) error {
	return sqlError(r.db.WithContext(ctx).Create(category).Error)
}

func (r *SQLRepository) GetCategory(ctx context.Context, ownerID, categoryID string) (*model.Category, error) {
	return getOwnedRow[model.Category](ctx, r.db, "category_id", ownerID, categoryID)
}

func (r *SQLRepository) FindCategoryByName(ctx context.Context, ownerID, name string) (*model.Category, error) {
	var category model.Category
	err := r.db.WithContext(ctx).Where("created_by = ? AND name = ?", ownerID, name).First(&category).Error
	if err != nil {
		return nil, sqlError(err)
	}
	return &category, nil
}

func (r *SQLRepository) ListCategories(ctx context.Context, ownerID string) ([]model.Category, error) {
	return listOwnedRows[model.Category](ctx, r.db, ownerID)
}

func (r *SQLRepository) UpdateCategory(ctx context.Context, category *model.Category) error {
	return r.save(ctx, category, ownedBy(category.CreatedBy))
}

func (r *SQLRepository) DeleteCategory(ctx context.Context, ownerID, categoryID string) (*model.Category, error) {
	return deleteOwnedRow[model.Category](ctx, r.db, "category_id", ownerID, categoryID)
}

// ---------- priorities ----------

func (r *SQLRepository) CreatePriority(ctx context.Context, priority *model.Priority) error {
	return sqlError(r.db.WithContext(ctx).Create(priority).Error)
}

func (r *SQLRepository) GetPriority(ctx context.Context, ownerID, priorityID string) (*model.Priority, error) {
	return getOwnedRow[model.Priority](ctx, r.db, "priority_id", ownerID, priorityID)
}

func (r *SQLRepository) FindPriorityByName(ctx context.Context, ownerID, name string) (*model.Priority, error) {
	var priority model.Priority
	err := r.db.WithContext(ctx).Where("created_by = ? AND name = ?", ownerID, name).First(&priority).Error
	if err != nil {
		return nil, sqlError(err)
	}
	return &priority, nil
}

func (r *SQLRepository) ListPriorities(ctx context.Context, ownerID string) ([]model.Priority, error) {
	return listOwnedRows[model.Priority](ctx, r.db, ownerID)
}

func (r *SQLRepository) UpdatePriority(ctx context.Context, priority *model.Priority) error {
	return r.save(ctx, priority, ownedBy(priority.CreatedBy))
}

func (r *SQLRepository) DeletePriority(ctx context.Context, ownerID, priorityID string) (*model.Priority, error) {
	return deleteOwnedRow[model.Priority](ctx, r.db, "priority_id", ownerID, priorityID)
}

// ---------- tasks ----------

func (r *SQLRepository) CreateTask(ctx context.Context, task *model.Task) error {
	return sqlError(r.db.WithContext(ctx).Create(task).Error)
}

func (r *SQLRepository) GetTask(ctx context.Context, ownerID, taskID string) (*model.Task, error) {
	return getOwnedRow[model.Task](ctx, r.db, "task_id", ownerID, taskID)
}

// ListTasks matches the category against the JSON-encoded id list, so the
// quoted id must appear verbatim.
func (r *SQLRepository) ListTasks(ctx context.Context, ownerID string, filter services.TaskFilter) ([]model.Task, error) {
	q := r.db.WithContext(ctx).Where("created_by = ?", ownerID)
	if filter.CategoryID != "" {
		q = q.Where("category_ids LIKE ?", `%"`+filter.CategoryID+`"%`)
	}
	if filter.PriorityID != "" {
		q = q.Where("priority_id = ?", filter.PriorityID)
	}
	if filter.Completed != nil {
		q = q.Where("completed = ?", *filter.Completed)
	}
	if filter.DeadlineFrom != nil {
		q = q.Where("deadline >= ?", *filter.DeadlineFrom)
	}
	if filter.DeadlineTo != nil {
		q = q.Where("deadline < ?", *filter.DeadlineTo)
	}
	if filter.DateFrom != nil {
		q = q.Where("date_time >= ?", *filter.DateFrom)
	}
	if filter.DateTo != nil {
		q = q.Where("date_time < ?", *filter.DateTo)
	}

	tasks := []model.Task{}
	if err := q.Order("date_time ASC, created_at ASC").Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

func (r *SQLRepository) UpdateTask(ctx context.Context, task *model.Task) error {
	return r.save(ctx, task, ownedBy(task.CreatedBy))
}

func (r *SQLRepository) DeleteTask(ctx context.Context, ownerID, taskID string) (*model.Task, error) {
	return deleteOwnedRow[model.Task](ctx, r.db, "task_id", ownerID, taskID)
}
