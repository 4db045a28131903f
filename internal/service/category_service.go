package service

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"task-manager/internal/apperr"
	"task-manager/internal/auth"
	"task-manager/internal/model"
	"task-manager/internal/repository"
)

// CategoryUpdate carries a partial category update; nil fields stay untouched.
type CategoryUpdate struct {
	Title *string
}

// CategoryService scopes category CRUD to the requesting user.
type CategoryService struct {
	repo *repository.CategoryRepository
}

func NewCategoryService(repo *repository.CategoryRepository) *CategoryService {
	return &CategoryService{repo: repo}
}

// List returns the caller's categories whose title contains search.
func (s *CategoryService) List(ctx context.Context, identity auth.Identity, search string) ([]model.Category, error) {
	return s.repo.ListByUser(ctx, identity.UserID, search)
}

// Create stores a category owned by the caller.
func (s *CategoryService) Create(ctx context.Context, identity auth.Identity, title string) (*model.Category, error) {
	title = strings.TrimSpace(title)
	fields := apperr.FieldErrors{}
	checkTitle(fields, "title", title)
	if err := fields.Err(); err != nil {
		return nil, err
	}

	category := model.Category{UserID: identity.UserID, Title: title}
	if err := s.repo.Create(ctx, &category); err != nil {
		return nil, err
	}
	return &category, nil
}

// Get returns a category owned by the caller.
func (s *CategoryService) Get(ctx context.Context, identity auth.Identity, id uint) (*model.Category, error) {
	category, err := s.repo.FindOwned(ctx, identity.UserID, id)
	if err != nil {
		return nil, notFound(err)
	}
	return category, nil
}

// Update changes the title of a category owned by the caller.
func (s *CategoryService) Update(ctx context.Context, identity auth.Identity, id uint, upd CategoryUpdate) (*model.Category, error) {
	category, err := s.Get(ctx, identity, id)
	if err != nil {
		return nil, err
	}
	if upd.Title == nil {
		return category, nil
	}

	title := strings.TrimSpace(*upd.Title)
	fields := apperr.FieldErrors{}
	checkTitle(fields, "title", title)
	if err := fields.Err(); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateTitle(ctx, category, title); err != nil {
		return nil, err
	}
	category.Title = title
	return category, nil
}

// Delete removes a category owned by the caller and every task in it.
func (s *CategoryService) Delete(ctx context.Context, identity auth.Identity, id uint) error {
	if err := s.repo.Delete(ctx, identity.UserID, id); err != nil {
		return notFound(err)
	}
	return nil
}

// notFound hides whether a row is missing or belongs to someone else.
func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.NotFound("Not found.")
	}
	return err
}
