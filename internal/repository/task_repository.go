package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"task-manager/internal/model"
)

// TaskQuery narrows a user's task list. Zero values mean "no restriction".
type TaskQuery struct {
	UserID    uint
	Search    string
	DueOn     *model.Date
	DueBefore *model.Date
}

// TaskRepository handles CRUD for tasks.
type TaskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

func (r *TaskRepository) Create(ctx context.Context, task *model.Task) error {
	if err := r.db.WithContext(ctx).Omit("Category").Create(task).Error; err != nil {
		return fmt.Errorf("create task: %w", err)
	}
	return nil
}

// List returns tasks matching q ordered by creation, with categories loaded.
// Search matches the task title OR the category title.
func (r *TaskRepository) List(ctx context.Context, q TaskQuery) ([]model.Task, error) {
	db := r.db.WithContext(ctx).Model(&model.Task{}).
		Preload("Category").
		Where("tasks.user_id = ?", q.UserID)

	if q.Search != "" {
		pattern := likePattern(q.Search)
		db = db.Joins("JOIN categories ON categories.id = tasks.category_id").
			Where(`(LOWER(tasks.title) LIKE ? ESCAPE '\' OR LOWER(categories.title) LIKE ? ESCAPE '\')`, pattern, pattern)
	}
	if q.DueOn != nil {
		db = db.Where("tasks.due_date = ?", *q.DueOn)
	}
	if q.DueBefore != nil {
		db = db.Where("tasks.due_date < ?", *q.DueBefore)
	}

	var tasks []model.Task
	if err := db.Order("tasks.id ASC").Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return tasks, nil
}
