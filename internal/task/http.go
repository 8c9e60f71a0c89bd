// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package task

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/authkit/internal/platform/middleware"
	requestutil "github.com/taibuivan/authkit/internal/platform/request"
	"github.com/taibuivan/authkit/internal/platform/respond"
	"github.com/taibuivan/authkit/internal/platform/validate"
)

// Handler implements the task service HTTP endpoints.
type Handler struct {
	service  *Service
	reader   middleware.CredentialReader
	resolver middleware.IdentityResolver
}

// NewHandler constructs a new [Handler].
func NewHandler(service *Service, reader middleware.CredentialReader, resolver middleware.IdentityResolver) *Handler {
	return &Handler{service: service, reader: reader, resolver: resolver}
}

// Routes returns a [chi.Router] with every task endpoint.
//
// # Endpoints
//   - POST   /task/create
//   - GET    /tasks
//   - GET    /task/{id}
//   - PATCH  /task/{id}
//   - DELETE /task/{id}
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()
	router.Use(middleware.ResolveIdentity(handler.reader, handler.resolver))

	router.Post("/task/create", handler.create)
	router.Get("/tasks", handler.list)
	router.Get("/task/{id}", handler.get)
	router.Patch("/task/{id}", handler.update)
	router.Delete("/task/{id}", handler.delete)

	return router
}

// # Payloads

type createRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	DueDate     string `json:"dueDate"`
	Priority    string `json:"priority"`
	Status      string `json:"status"`
}

type updateRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	DueDate     *string `json:"dueDate"`
	Priority    *string `json:"priority"`
	Status      *string `json:"status"`
	Completed   *bool   `json:"completed"`
}

type listResponse struct {
	Length int     `json:"length"`
	Tasks  []*Task `json:"tasks"`
}

// # Handlers

/*
create stores a new task for the caller.

POST /api/v1/task/create

Response:
  - 201: Task
  - 400: VALIDATION_ERROR
*/
func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	caller, err := requestutil.RequiredIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input createRequest
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldTitle, input.Title).
		MaxLen(FieldTitle, input.Title, MaxTitleLength).
		Required(FieldDescription, input.Description).
		MaxLen(FieldDescription, input.Description, MaxDescriptionLength)
	if input.Priority != "" {
		validator.OneOf(FieldPriority, input.Priority, string(PriorityLow), string(PriorityMedium), string(PriorityHigh))
	}
	if input.Status != "" {
		validator.OneOf(FieldStatus, input.Status, string(StatusActive), string(StatusInactive))
	}
	dueDate, dueDateOK := parseDueDate(input.DueDate)
	validator.Custom(FieldDueDate, !dueDateOK, "Must be an RFC 3339 timestamp or YYYY-MM-DD date")

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	task, err := handler.service.Create(request.Context(), caller, CreateInput{
		Title:       strings.TrimSpace(input.Title),
		Description: strings.TrimSpace(input.Description),
		DueDate:     dueDate,
		Priority:    Priority(input.Priority),
		Status:      Status(input.Status),
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, task)
}

func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	caller, err := requestutil.RequiredIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	tasks, err := handler.service.List(request.Context(), caller)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, listResponse{Length: len(tasks), Tasks: tasks})
}

func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	caller, err := requestutil.RequiredIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	id, err := taskID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	task, err := handler.service.Get(request.Context(), caller, id)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, task)
}

/*
update applies a partial update to a task the caller owns.

PATCH /api/v1/task/{id}

Response:
  - 200: Task
  - 400: VALIDATION_ERROR
  - 403: FORBIDDEN when the task belongs to another account
  - 404: NOT_FOUND
*/
func (handler *Handler) update(writer http.ResponseWriter, request *http.Request) {
	caller, err := requestutil.RequiredIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	id, err := taskID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input updateRequest
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	update, err := input.toUpdate()
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	task, err := handler.service.Update(request.Context(), caller, id, update)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, task)
}

func (handler *Handler) delete(writer http.ResponseWriter, request *http.Request) {
	caller, err := requestutil.RequiredIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	id, err := taskID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.Delete(request.Context(), caller, id); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Message(writer, "Task deleted successfully")
}

// # Helpers

func taskID(request *http.Request) (string, error) {
	id := requestutil.Param(request, FieldID)
	validator := &validate.Validator{}
	return id, validator.UUID(FieldID, id).Err()
}

// toUpdate validates the provided fields and converts them to an UpdateInput.
func (input updateRequest) toUpdate() (UpdateInput, error) {
	validator := &validate.Validator{}
	update := UpdateInput{Completed: input.Completed}

	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		validator.Required(FieldTitle, title).MaxLen(FieldTitle, title, MaxTitleLength)
		update.Title = &title
	}
	if input.Description != nil {
		description := strings.TrimSpace(*input.Description)
		validator.Required(FieldDescription, description).MaxLen(FieldDescription, description, MaxDescriptionLength)
		update.Description = &description
	}
	if input.Priority != nil {
		priority := Priority(*input.Priority)
		validator.Custom(FieldPriority, !priority.Valid(), "Must be one of: low, medium, high")
		update.Priority = &priority
	}
	if input.Status != nil {
		status := Status(*input.Status)
		validator.Custom(FieldStatus, !status.Valid(), "Must be one of: active, inactive")
		update.Status = &status
	}
	if input.DueDate != nil {
		dueDate, ok := parseDueDate(*input.DueDate)
		validator.Custom(FieldDueDate, !ok, "Must be an RFC 3339 timestamp or YYYY-MM-DD date")
		update.DueDate = dueDate
		update.SetDueDate = true
	}

	return update, validator.Err()
}

// parseDueDate accepts an RFC 3339 timestamp or a calendar date. An empty
// value means no due date.
func parseDueDate(value string) (*time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, true
	}
	for _, layout := range []string{time.RFC3339, time.DateOnly} {
		if parsed, err := time.Parse(layout, value); err == nil {
			utc := parsed.UTC()
			return &utc, true
		}
	}
	return nil, false
}
