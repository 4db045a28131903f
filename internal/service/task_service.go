package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"task-manager/internal/apperr"
	"task-manager/internal/auth"
	"task-manager/internal/model"
	"task-manager/internal/repository"
)

// TaskFilter restricts a task list by due date.
type TaskFilter string

const (
	FilterAll   TaskFilter = "all"
	FilterToday TaskFilter = "today"
	FilterLast  TaskFilter = "last"
)

// ParseTaskFilter maps a query value to a filter; unknown values mean "all".
func ParseTaskFilter(raw string) TaskFilter {
	switch TaskFilter(strings.ToLower(strings.TrimSpace(raw))) {
	case FilterToday:
		return FilterToday
	case FilterLast:
		return FilterLast
	default:
		return FilterAll
	}
}

// TaskListQuery holds list parameters.
type TaskListQuery struct {
	Search string
	Filter TaskFilter
}

// TaskInput represents data required to create a task.
type TaskInput struct {
	Title      string
	CategoryID *uint
	Complete   bool
	DueDate    *model.Date
}

// Check records field errors of input into fields. A field that already
// carries a message is not reported as missing again.
func (input TaskInput) Check(fields apperr.FieldErrors) {
	checkTitle(fields, "title", strings.TrimSpace(input.Title))
	if input.CategoryID == nil && len(fields["category_id"]) == 0 {
		fields.Add("category_id", msgRequired)
	}
}

// TaskOptions tunes TaskService behaviour.
type TaskOptions struct {
	// EnforceCategoryOwnership rejects tasks pointing at another user's category.
	// Off by default: any existing category id is accepted.
	EnforceCategoryOwnership bool
	Now                      func() time.Time
}

// TaskService wraps task-related business logic.
type TaskService struct {
	taskRepo     *repository.TaskRepository
	categoryRepo *repository.CategoryRepository
	opts         TaskOptions
}

func NewTaskService(taskRepo *repository.TaskRepository, categoryRepo *repository.CategoryRepository, opts TaskOptions) *TaskService {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &TaskService{taskRepo: taskRepo, categoryRepo: categoryRepo, opts: opts}
}

// List returns the caller's tasks. Search matches the task or category title;
// the filter compares due dates with the server's current date.
func (s *TaskService) List(ctx context.Context, identity auth.Identity, q TaskListQuery) ([]model.Task, error) {
	query := repository.TaskQuery{
		UserID: identity.UserID,
		Search: q.Search,
	}
	today := model.DateOf(s.opts.Now())
	switch q.Filter {
	case FilterToday:
		query.DueOn = &today
	case FilterLast:
		query.DueBefore = &today
	}
	return s.taskRepo.List(ctx, query)
}

// Create stores a task owned by the caller inside an existing category.
func (s *TaskService) Create(ctx context.Context, identity auth.Identity, input TaskInput) (*model.Task, error) {
	input.Title = strings.TrimSpace(input.Title)
	fields := apperr.FieldErrors{}
	input.Check(fields)
	if err := fields.Err(); err != nil {
		return nil, err
	}

	category, err := s.lookupCategory(ctx, identity, *input.CategoryID)
	if err != nil {
		return nil, err
	}

	task := model.Task{
		UserID:     identity.UserID,
		CategoryID: category.ID,
		Title:      input.Title,
		Complete:   input.Complete,
		DueDate:    input.DueDate,
	}
	if err := s.taskRepo.Create(ctx, &task); err != nil {
		return nil, err
	}
	task.Category = *category
	return &task, nil
}

func (s *TaskService) lookupCategory(ctx context.Context, identity auth.Identity, id uint) (*model.Category, error) {
	var (
		category *model.Category
		err      error
	)
	if s.opts.EnforceCategoryOwnership {
		category, err = s.categoryRepo.FindOwned(ctx, identity.UserID, id)
	} else {
		category, err = s.categoryRepo.GetByID(ctx, id)
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.Validation("category_id", fmt.Sprintf("Invalid pk \"%d\" - object does not exist.", id))
	}
	if err != nil {
		return nil, err
	}
	return category, nil
}
