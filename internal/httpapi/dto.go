package httpapi

import (
	"time"

	"task-manager/internal/model"
)

type userResponse struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Username  string `json:"username"`
	Email     string `json:"email"`
}

type accountResponse struct {
	ID uint `json:"id"`
	userResponse
}

type registerResponse struct {
	User    userResponse `json:"user"`
	Refresh string       `json:"refresh"`
	Access  string       `json:"access"`
}

type tokenPairResponse struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

type categoryResponse struct {
	ID    uint   `json:"id"`
	Title string `json:"title"`
}

type taskResponse struct {
	ID        uint             `json:"id"`
	Title     string           `json:"title"`
	Category  categoryResponse `json:"category"`
	User      uint             `json:"user"`
	Complete  bool             `json:"complete"`
	CreatedAt time.Time        `json:"created_at"`
	DueDate   *model.Date      `json:"due_date"`
}

func newUserResponse(u *model.User) userResponse {
	return userResponse{
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Username:  u.Username,
		Email:     u.Email,
	}
}

func newAccountResponse(u *model.User) accountResponse {
	return accountResponse{ID: u.ID, userResponse: newUserResponse(u)}
}

func newCategoryResponse(c *model.Category) categoryResponse {
	return categoryResponse{ID: c.ID, Title: c.Title}
}

func newTaskResponse(t *model.Task) taskResponse {
	return taskResponse{
		ID:        t.ID,
		Title:     t.Title,
		Category:  newCategoryResponse(&t.Category),
		User:      t.UserID,
		Complete:  t.Complete,
		CreatedAt: t.CreatedAt,
		DueDate:   t.DueDate,
	}
}
