package httpapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"task-manager/internal/apperr"
	"task-manager/internal/auth"
	"task-manager/internal/model"
	"task-manager/internal/service"
)

const msgDateFormat = "Date has wrong format. Use one of these formats instead: YYYY-MM-DD."

// taskRequest keeps category_id and due_date raw so type errors can be
// reported against the offending field.
type taskRequest struct {
	Title      string          `json:"title"`
	CategoryID json.RawMessage `json:"category_id"`
	Complete   bool            `json:"complete"`
	DueDate    json.RawMessage `json:"due_date"`
}

func (s *Server) handleListTasks(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	identity, _ := auth.IdentityFromContext(r.Context())
	tasks, err := s.tasks.List(r.Context(), identity, service.TaskListQuery{
		Search: query.Get("search"),
		Filter: service.ParseTaskFilter(query.Get("filter")),
	})
	if err != nil {
		writeError(w, err)
		return
	}

	out := make([]taskResponse, 0, len(tasks))
	for i := range tasks {
		out = append(out, newTaskResponse(&tasks[i]))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateTask(w http.ResponseWriter, r *http.Request) {
	var req taskRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	input, err := req.toInput()
	if err != nil {
		writeError(w, err)
		return
	}

	identity, _ := auth.IdentityFromContext(r.Context())
	task, err := s.tasks.Create(r.Context(), identity, input)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, newTaskResponse(task))
}

func (req taskRequest) toInput() (service.TaskInput, error) {
	input := service.TaskInput{Title: req.Title, Complete: req.Complete}
	fields := apperr.FieldErrors{}

	if id, ok, msg := parseCategoryID(req.CategoryID); msg != "" {
		fields.Add("category_id", msg)
	} else if ok {
		input.CategoryID = &id
	}

	if len(req.DueDate) > 0 && string(req.DueDate) != "null" {
		var due model.Date
		if err := json.Unmarshal(req.DueDate, &due); err != nil {
			fields.Add("due_date", msgDateFormat)
		} else {
			input.DueDate = &due
		}
	}

	if len(fields) > 0 {
		input.Check(fields)
		return service.TaskInput{}, fields.Err()
	}
	return input, nil
}

// parseCategoryID accepts a JSON number or a numeric string. A non-empty
// message describes a value of the wrong type.
func parseCategoryID(raw json.RawMessage) (uint, bool, string) {
	if len(raw) == 0 || string(raw) == "null" {
		return 0, false, ""
	}

	var text string
	if err := json.Unmarshal(raw, &text); err != nil {
		text = string(raw)
	}
	id, err := strconv.ParseUint(text, 10, 64)
	if err != nil {
		return 0, false, fmt.Sprintf("Incorrect type. Expected pk value, received %s.", jsonKind(raw))
	}
	return uint(id), true, ""
}

func jsonKind(raw json.RawMessage) string {
	var v interface{}
	if err := json.Unmarshal(raw, &v); err != nil {
		return "invalid"
	}
	switch v.(type) {
	case string:
		return "str"
	case float64:
		return "float"
	case bool:
		return "bool"
	case []interface{}:
		return "list"
	case map[string]interface{}:
		return "dict"
	default:
		return "invalid"
	}
}
