package tasks

import (
	"errors"
	"math"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/user/tareas-go/apperror"
	"github.com/user/tareas-go/auth"
	"github.com/user/tareas-go/forms"
	"github.com/user/tareas-go/web"
)

// Views rendered by this package.
const (
	ViewList = "tasks/list"
	ViewShow = "tasks/show"
	ViewNew  = "tasks/new"
	ViewEdit = "tasks/edit"
)

// ListPath is the first page of the task list.
const ListPath = "/tasks"

// TaskHandler handles the task pages. All of its routes expect an authenticated request.
type TaskHandler struct {
	service TaskService
	resp    *web.Responder
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(service TaskService, resp *web.Responder) *TaskHandler {
	return &TaskHandler{service: service, resp: resp}
}

// RegisterRoutes mounts the task routes on a router that already requires authentication.
func (h *TaskHandler) RegisterRoutes(router chi.Router) {
	router.Get("/tasks", h.list)
	router.Get("/tasks/{page:[0-9]+}", h.list)
	router.Get("/tasks/show/{id}", h.show)
	router.Get("/tasks/new", h.newForm)
	router.Post("/tasks/new", h.create)
	router.Get("/tasks/edit/{id}", h.editForm)
	router.Post("/tasks/edit/{id}", h.update)
	router.Get("/tasks/delete/{id}", h.delete)
	router.Post("/tasks/delete/{id}", h.delete)
}

type showData struct {
	Task *Task `json:"task"`
}

type formData struct {
	Form   forms.TaskForm `json:"form"`
	TaskID int64          `json:"task_id,omitempty"`
}

// list godoc
// @Summary List my tasks
// @Tags Tasks
// @Produce json
// @Param page path int false "Page number, starting at 1"
// @Param per_page query int false "Tasks per page (default 2, max 100)"
// @Success 200 {object} web.View{data=tasks.Page}
// @Router /tasks/{page} [get]
func (h *TaskHandler) list(w http.ResponseWriter, r *http.Request) {
	page := 1
	if raw := chi.URLParam(r, "page"); raw != "" {
		n, err := strconv.Atoi(raw)
		switch {
		case errors.Is(err, strconv.ErrRange):
			// Too many digits for an int: still just a page past the end.
			n = math.MaxInt
		case err != nil:
			h.resp.NotFound(w, r)
			return
		}
		page = n
	}
	perPage, _ := strconv.Atoi(r.URL.Query().Get("per_page"))

	result, err := h.service.List(r.Context(), identity(r), page, perPage)
	if err != nil {
		h.resp.Error(w, r, err)
		return
	}
	h.resp.Render(w, r, http.StatusOK, web.View{Name: ViewList, Title: "Tasks", Active: "tasks", Data: result})
}

// show godoc
// @Summary Show one of my tasks
// @Tags Tasks
// @Produce json
// @Param id path int true "Task ID"
// @Success 200 {object} web.View{data=tasks.Task}
// @Failure 404 {object} web.View "Missing, or owned by another user"
// @Router /tasks/show/{id} [get]
func (h *TaskHandler) show(w http.ResponseWriter, r *http.Request) {
	taskID, ok := h.taskID(w, r)
	if !ok {
		return
	}
	task, err := h.service.Get(r.Context(), identity(r), taskID)
	if err != nil {
		h.resp.Error(w, r, err)
		return
	}
	h.resp.Render(w, r, http.StatusOK, web.View{
		Name:  ViewShow,
		Title: "Tarea " + strconv.FormatInt(task.ID, 10),
		Data:  showData{Task: task},
	})
}

func (h *TaskHandler) newForm(w http.ResponseWriter, r *http.Request) {
	h.resp.Render(w, r, http.StatusOK, web.View{Name: ViewNew, Title: "New Task", Active: "new_task", Data: formData{}})
}

// create godoc
// @Summary Create a task
// @Tags Tasks
// @Accept x-www-form-urlencoded,json
// @Produce json
// @Param title formData string true "Title (4-50 characters)"
// @Param description formData string true "Description"
// @Success 303 "Redirect to /tasks"
// @Failure 400 {object} web.View "Invalid form"
// @Router /tasks/new [post]
func (h *TaskHandler) create(w http.ResponseWriter, r *http.Request) {
	var form forms.TaskForm
	if err := forms.Bind(r, &form); err != nil {
		h.resp.Error(w, r, err)
		return
	}

	if _, err := h.service.Create(r.Context(), identity(r), form); err != nil {
		if fields, ok := validationFields(err); ok {
			h.resp.Render(w, r, http.StatusBadRequest, web.View{
				Name: ViewNew, Title: "New Task", Active: "new_task",
				Data: formData{Form: form}, Errors: fields,
			})
			return
		}
		h.resp.Error(w, r, err)
		return
	}

	h.resp.Notice(w, r, TaskCreatedMessage, web.SeverityInfo)
	h.resp.Redirect(w, r, ListPath)
}

// editForm renders the edit form pre-filled with the stored task.
func (h *TaskHandler) editForm(w http.ResponseWriter, r *http.Request) {
	taskID, ok := h.taskID(w, r)
	if !ok {
		return
	}
	task, err := h.service.Get(r.Context(), identity(r), taskID)
	if err != nil {
		h.resp.Error(w, r, err)
		return
	}
	h.resp.Render(w, r, http.StatusOK, web.View{
		Name:  ViewEdit,
		Title: "Edit Task",
		Data:  formData{Form: forms.TaskForm{Title: task.Title, Description: task.Description}, TaskID: task.ID},
	})
}

// update godoc
// @Summary Edit one of my tasks
// @Tags Tasks
// @Accept x-www-form-urlencoded,json
// @Produce json
// @Param id path int true "Task ID"
// @Param title formData string true "Title (4-50 characters)"
// @Param description formData string true "Description"
// @Success 303 "Redirect to /tasks"
// @Failure 400 {object} web.View "Invalid form"
// @Failure 404 {object} web.View "Missing, or owned by another user"
// @Router /tasks/edit/{id} [post]
func (h *TaskHandler) update(w http.ResponseWriter, r *http.Request) {
	taskID, ok := h.taskID(w, r)
	if !ok {
		return
	}
	var form forms.TaskForm
	if err := forms.Bind(r, &form); err != nil {
		h.resp.Error(w, r, err)
		return
	}

	if _, err := h.service.Update(r.Context(), identity(r), taskID, form); err != nil {
		if fields, ok := validationFields(err); ok {
			h.resp.Render(w, r, http.StatusBadRequest, web.View{
				Name: ViewEdit, Title: "Edit Task",
				Data: formData{Form: form, TaskID: taskID}, Errors: fields,
			})
			return
		}
		h.resp.Error(w, r, err)
		return
	}

	h.resp.Notice(w, r, TaskUpdatedMessage, web.SeverityInfo)
	h.resp.Redirect(w, r, ListPath)
}

// delete godoc
// @Summary Delete one of my tasks
// @Tags Tasks
// @Param id path int true "Task ID"
// @Success 303 "Redirect to /tasks"
// @Failure 404 {object} web.View "Missing, or owned by another user"
// @Router /tasks/delete/{id} [post]
func (h *TaskHandler) delete(w http.ResponseWriter, r *http.Request) {
	taskID, ok := h.taskID(w, r)
	if !ok {
		return
	}
	removed, err := h.service.Delete(r.Context(), identity(r), taskID)
	if err != nil {
		h.resp.Error(w, r, err)
		return
	}
	if removed {
		h.resp.Notice(w, r, TaskDeletedMessage, web.SeverityInfo)
	}
	h.resp.Redirect(w, r, ListPath)
}

// taskID parses the {id} route parameter. A non-numeric id is answered like a missing task.
func (h *TaskHandler) taskID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id < 1 {
		h.resp.NotFound(w, r)
		return 0, false
	}
	return id, true
}

func identity(r *http.Request) *auth.Identity {
	id, _ := auth.IdentityFromContext(r.Context())
	return id
}

func validationFields(err error) (map[string][]string, bool) {
	appErr, ok := apperror.FromError(err)
	if !ok || appErr.Type != apperror.ValidationError {
		return nil, false
	}
	return appErr.Fields, true
}
