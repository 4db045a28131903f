package service

import (
	"context"
	"errors"
	"testing"

	"task-manager/internal/apperr"
	"task-manager/internal/model"
)

func TestParseTaskFilter(t *testing.T) {
	tests := map[string]TaskFilter{
		"":        FilterAll,
		"all":     FilterAll,
		"today":   FilterToday,
		" TODAY ": FilterToday,
		"last":    FilterLast,
		"weekly":  FilterAll,
	}
	for raw, want := range tests {
		if got := ParseTaskFilter(raw); got != want {
			t.Fatalf("%q: expected %s, got %s", raw, want, got)
		}
	}
}

func TestTaskEndToEndScenario(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.register(t, "alice")
	pair, err := env.auth.Login(ctx, "alice", "pass-alice")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	alice, err := env.auth.Authenticate(pair.Access)
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}

	work := env.category(t, alice, "Work")
	today := model.DateOf(env.now)
	created, err := env.taskSvc.Create(ctx, alice, TaskInput{Title: "Report", CategoryID: &work, DueDate: &today})
	if err != nil {
		t.Fatalf("create task: %v", err)
	}
	if created.Complete || created.UserID != alice.UserID || created.Category.Title != "Work" {
		t.Fatalf("unexpected task %+v", created)
	}

	todays, err := env.taskSvc.List(ctx, alice, TaskListQuery{Filter: FilterToday})
	if err != nil {
		t.Fatalf("list today: %v", err)
	}
	if len(todays) != 1 || todays[0].ID != created.ID {
		t.Fatalf("expected exactly the new task, got %+v", todays)
	}

	overdue, err := env.taskSvc.List(ctx, alice, TaskListQuery{Filter: FilterLast})
	if err != nil {
		t.Fatalf("list last: %v", err)
	}
	if len(overdue) != 0 {
		t.Fatalf("expected no overdue tasks, got %+v", overdue)
	}
}

func TestTaskListFiltersAndSearch(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	_, alice := env.register(t, "alice")
	_, bob := env.register(t, "bob")

	work := env.category(t, alice, "Work")
	home := env.category(t, alice, "Home")
	bobWork := env.category(t, bob, "Work")

	today := model.DateOf(env.now)
	yesterday := today.AddDays(-1)
	lastYear := today.AddDays(-365)
	tomorrow := today.AddDays(1)
	for _, in := range []TaskInput{
		{Title: "Report", CategoryID: &work, DueDate: &today},
		{Title: "Taxes", CategoryID: &home, DueDate: &lastYear},
		{Title: "Dishes", CategoryID: &home, DueDate: &yesterday, Complete: true},
		{Title: "Homework review", CategoryID: &work, DueDate: &tomorrow},
		{Title: "Someday", CategoryID: &home},
	} {
		if _, err := env.taskSvc.Create(ctx, alice, in); err != nil {
			t.Fatalf("create task: %v", err)
		}
	}
	if _, err := env.taskSvc.Create(ctx, bob, TaskInput{Title: "Report", CategoryID: &bobWork, DueDate: &today}); err != nil {
		t.Fatalf("create task: %v", err)
	}

	tests := []struct {
		name  string
		query TaskListQuery
		want  []string
	}{
		{name: "all", query: TaskListQuery{}, want: []string{"Report", "Taxes", "Dishes", "Homework review", "Someday"}},
		{name: "today", query: TaskListQuery{Filter: FilterToday}, want: []string{"Report"}},
		{name: "last", query: TaskListQuery{Filter: FilterLast}, want: []string{"Taxes", "Dishes"}},
		{name: "search task or category title", query: TaskListQuery{Search: "home"}, want: []string{"Taxes", "Dishes", "Homework review", "Someday"}},
		{name: "search and today", query: TaskListQuery{Search: "work", Filter: FilterToday}, want: []string{"Report"}},
		{name: "search and last", query: TaskListQuery{Search: "work", Filter: FilterLast}, want: nil},
		{name: "no match", query: TaskListQuery{Search: "nothing"}, want: nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := env.taskSvc.List(ctx, alice, tt.query)
			if err != nil {
				t.Fatalf("list: %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("expected %v, got %d tasks", tt.want, len(got))
			}
			for i, task := range got {
				if task.Title != tt.want[i] || task.UserID != alice.UserID {
					t.Fatalf("expected %v, got %+v at %d", tt.want, task, i)
				}
			}
		})
	}
}

func TestTaskCreateValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	_, alice := env.register(t, "alice")
	work := env.category(t, alice, "Work")
	missing := uint(4242)

	tests := []struct {
		name  string
		input TaskInput
		field string
	}{
		{name: "missing title", input: TaskInput{CategoryID: &work}, field: "title"},
		{name: "missing category", input: TaskInput{Title: "Report"}, field: "category_id"},
		{name: "unknown category", input: TaskInput{Title: "Report", CategoryID: &missing}, field: "category_id"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.taskSvc.Create(ctx, alice, tt.input)
			appErr, ok := apperr.As(err)
			if !ok || appErr.Code != apperr.CodeValidation {
				t.Fatalf("expected validation error, got %v", err)
			}
			if _, ok := appErr.Fields[tt.field]; !ok {
				t.Fatalf("expected %s field error, got %v", tt.field, appErr.Fields)
			}
		})
	}
}

// A task may point at another user's category unless ownership is enforced.
// This mirrors the existing API contract and is a known risk.
func TestTaskCreateForeignCategory(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	_, alice := env.register(t, "alice")
	_, bob := env.register(t, "bob")
	bobWork := env.category(t, bob, "Bob work")

	task, err := env.taskSvc.Create(ctx, alice, TaskInput{Title: "Sneaky", CategoryID: &bobWork})
	if err != nil {
		t.Fatalf("expected foreign category accepted by default, got %v", err)
	}
	if task.UserID != alice.UserID || task.CategoryID != bobWork {
		t.Fatalf("unexpected task %+v", task)
	}

	strict := NewTaskService(env.tasks, env.categories, TaskOptions{EnforceCategoryOwnership: true, Now: env.clock})
	if _, err := strict.Create(ctx, alice, TaskInput{Title: "Sneaky", CategoryID: &bobWork}); !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("expected foreign category rejected when enforced, got %v", err)
	}
	if _, err := strict.Create(ctx, bob, TaskInput{Title: "Mine", CategoryID: &bobWork}); err != nil {
		t.Fatalf("expected own category accepted, got %v", err)
	}
}

func TestTaskInputCheckKeepsExistingFieldErrors(t *testing.T) {
	fields := apperr.FieldErrors{}
	fields.Add("category_id", "Incorrect type. Expected pk value, received str.")
	TaskInput{Title: "  "}.Check(fields)

	if len(fields["title"]) != 1 {
		t.Fatalf("expected blank title error, got %v", fields)
	}
	if len(fields["category_id"]) != 1 {
		t.Fatalf("expected category_id error kept as the only one, got %v", fields["category_id"])
	}

	empty := apperr.FieldErrors{}
	id := uint(1)
	TaskInput{Title: "Report", CategoryID: &id}.Check(empty)
	if len(empty) != 0 {
		t.Fatalf("expected no errors, got %v", empty)
	}
}
