package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/usermgmt/admin-web/internal/auditlog"
	"github.com/usermgmt/admin-web/internal/dto"
	"github.com/usermgmt/admin-web/internal/models"
	"github.com/usermgmt/admin-web/internal/service"
	appErrors "github.com/usermgmt/admin-web/pkg/errors"
	"github.com/usermgmt/admin-web/pkg/render"
)

// UserHandler serves the user management pages.
type UserHandler struct {
	users    *service.UserService
	logs     *service.LogService
	exports  *service.ExportService
	sink     *auditlog.Sink
	validate *validator.Validate
	logger   *zap.Logger
}

// NewUserHandler creates a new user handler.
func NewUserHandler(users *service.UserService, logs *service.LogService, exports *service.ExportService, sink *auditlog.Sink, validate *validator.Validate, logger *zap.Logger) *UserHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UserHandler{users: users, logs: logs, exports: exports, sink: sink, validate: validate, logger: logger}
}

// Register mounts the user routes on the router group.
func (h *UserHandler) Register(r *gin.RouterGroup) {
	r.GET("/list", h.List)
	r.GET("/AddUserView", h.AddUserView)
	r.POST("/AddUserViewModel", h.AddUser)
	r.GET("/User/:id", h.ViewUser)
	r.GET("/EditUser/:id", h.EditUserView)
	r.POST("/EditUser/:id", h.EditUser)
	r.GET("/DeleteUser/:id", h.DeleteUserView)
	r.POST("/DeleteUser/:id", h.DeleteUser)
	r.GET("/export", h.Export)
}

// List renders the user list, optionally filtered by the active flag.
func (h *UserHandler) List(c *gin.Context) {
	ctx := c.Request.Context()

	var active *bool
	if raw := c.Query("active"); raw != "" {
		if val, err := strconv.ParseBool(raw); err == nil {
			active = &val
		}
	}

	h.sink.Info(ctx, models.EventFetchAllUsers, "Retrieving user list with active filter: %v", formatActive(active))

	var (
		users []models.User
		err   error
	)
	if active != nil {
		users, err = h.users.FilterByActive(ctx, *active)
	} else {
		users, err = h.users.GetAll(ctx)
	}
	if err != nil {
		h.logger.Error("failed to load user list", zap.Error(err))
		render.Error(c, err)
		return
	}

	model := dto.UserListViewModel{Items: make([]dto.UserViewModel, 0, len(users)), Active: active}
	for _, u := range users {
		model.Items = append(model.Items, dto.UserFromModel(u))
	}

	h.sink.Info(ctx, models.EventFetchAllUsers, "User list retrieved with %d items.", len(model.Items))

	render.HTML(c, http.StatusOK, "users_list.html", model)
}

// AddUserView renders the empty add form.
func (h *UserHandler) AddUserView(c *gin.Context) {
	render.HTML(c, http.StatusOK, "user_add.html", dto.UserFormViewModel{})
}

// AddUser validates the submitted form and creates the user. Validation
// failures redisplay the form with field errors and leave the store
// untouched.
func (h *UserHandler) AddUser(c *gin.Context) {
	ctx := c.Request.Context()

	var form dto.UserForm
	if err := c.ShouldBind(&form); err != nil {
		h.logger.Warn("failed to bind add user form", zap.Error(err))
		render.HTML(c, http.StatusOK, "user_add.html", dto.UserFormViewModel{Form: form, Errors: map[string]string{"Form": "Submitted form could not be read."}})
		return
	}

	if errs := dto.ValidateUserForm(h.validate, form); len(errs) > 0 {
		h.sink.Error(ctx, models.EventAddUser, appErrors.Clone(appErrors.ErrValidation, "user validation failed"), "Validation failed for submitted user form.")
		render.HTML(c, http.StatusOK, "user_add.html", dto.UserFormViewModel{Form: form, Errors: errs})
		return
	}

	user := models.User{
		Forename:    form.Forename,
		Surname:     form.Surname,
		Email:       form.Email,
		Active:      true,
		DateOfBirth: form.ParsedDateOfBirth(),
	}

	h.logger.Info("adding new user", zap.String("forename", user.Forename), zap.String("surname", user.Surname))
	if err := h.users.Add(ctx, &user); err != nil {
		h.logger.Error("failed to create user", zap.Error(err))
		render.Error(c, err)
		return
	}

	scoped := auditlog.WithScope(ctx, user.ID, models.EventAddUser)
	h.sink.Info(scoped, models.EventAddUser, "User created with ID %d", user.ID)

	render.Redirect(c, "/users/User/"+strconv.FormatInt(user.ID, 10))
}

// ViewUser renders a user's detail page with their full log history.
func (h *UserHandler) ViewUser(c *gin.Context) {
	ctx := c.Request.Context()
	id, ok := h.userID(c)
	if !ok {
		return
	}

	scoped := auditlog.WithScope(ctx, id, models.EventViewUser)
	h.sink.Info(scoped, models.EventViewUser, "Viewing user with ID %d", id)

	scoped = auditlog.WithScope(ctx, id, models.EventFetchUser)
	h.sink.Info(scoped, models.EventFetchUser, "Retrieving user with ID %d", id)

	user, ok := h.loadUser(c, id)
	if !ok {
		return
	}

	logs, err := h.logs.GetByUser(ctx, id)
	if err != nil {
		h.logger.Error("failed to load user logs", zap.Int64("user_id", id), zap.Error(err))
		render.Error(c, err)
		return
	}

	model := dto.UserDetailViewModel{User: dto.UserFromModel(*user)}
	for _, l := range logs {
		model.Logs = append(model.Logs, dto.UserLogViewModel{Level: l.Level, Message: l.Message, Timestamp: l.Timestamp})
	}

	render.HTML(c, http.StatusOK, "user_view.html", model)
}

// EditUserView renders the edit form prefilled with current values.
func (h *UserHandler) EditUserView(c *gin.Context) {
	ctx := c.Request.Context()
	id, ok := h.userID(c)
	if !ok {
		return
	}

	scoped := auditlog.WithScope(ctx, id, models.EventEditUser)
	h.sink.Info(scoped, models.EventEditUser, "Editing user with ID %d", id)

	user, ok := h.loadUser(c, id)
	if !ok {
		return
	}

	render.HTML(c, http.StatusOK, "user_edit.html", dto.UserFormViewModel{Form: dto.FormFromModel(*user)})
}

// EditUser applies the submitted edit, overwriting the user's mutable fields.
func (h *UserHandler) EditUser(c *gin.Context) {
	ctx := c.Request.Context()
	id, ok := h.userID(c)
	if !ok {
		return
	}

	var form dto.UserForm
	if err := c.ShouldBind(&form); err != nil {
		h.logger.Warn("failed to bind edit user form", zap.Error(err))
		form.ID = id
		render.HTML(c, http.StatusOK, "user_edit.html", dto.UserFormViewModel{Form: form, Errors: map[string]string{"Form": "Submitted form could not be read."}})
		return
	}
	form.ID = id

	if errs := dto.ValidateUserForm(h.validate, form); len(errs) > 0 {
		h.sink.Error(ctx, models.EventEditUser, appErrors.Clone(appErrors.ErrValidation, "user validation failed"), "Validation failed for submitted user form.")
		render.HTML(c, http.StatusOK, "user_edit.html", dto.UserFormViewModel{Form: form, Errors: errs})
		return
	}

	scoped := auditlog.WithScope(ctx, id, models.EventFetchUser)
	h.sink.Info(scoped, models.EventFetchUser, "Retrieving user with ID %d", id)

	user, ok := h.loadUser(c, id)
	if !ok {
		return
	}

	user.Forename = form.Forename
	user.Surname = form.Surname
	user.Email = form.Email
	user.Active = form.Active
	user.DateOfBirth = form.ParsedDateOfBirth()

	if err := h.users.Update(ctx, user); err != nil {
		h.logger.Error("failed to update user", zap.Int64("user_id", id), zap.Error(err))
		render.Error(c, err)
		return
	}

	scoped = auditlog.WithScope(ctx, id, models.EventEditUser)
	h.sink.Info(scoped, models.EventEditUser, "User updated with ID %d", id)

	render.Redirect(c, "/users/User/"+strconv.FormatInt(id, 10))
}

// DeleteUserView renders the delete confirmation page.
func (h *UserHandler) DeleteUserView(c *gin.Context) {
	ctx := c.Request.Context()
	id, ok := h.userID(c)
	if !ok {
		return
	}

	scoped := auditlog.WithScope(ctx, id, models.EventFetchUser)
	h.sink.Info(scoped, models.EventFetchUser, "Retrieving user with ID %d", id)

	user, ok := h.loadUser(c, id)
	if !ok {
		return
	}

	render.HTML(c, http.StatusOK, "user_delete.html", dto.UserFromModel(*user))
}

// DeleteUser removes the user and redirects to the list. The user's logs
// stay behind.
func (h *UserHandler) DeleteUser(c *gin.Context) {
	ctx := c.Request.Context()
	id, ok := h.userID(c)
	if !ok {
		return
	}

	user, ok := h.loadUser(c, id)
	if !ok {
		return
	}

	scoped := auditlog.WithScope(ctx, user.ID, models.EventDeleteUser)
	h.sink.Info(scoped, models.EventDeleteUser, "Deleting user with ID %d", user.ID)

	if err := h.users.Delete(ctx, user.ID); err != nil {
		h.logger.Error("failed to delete user", zap.Int64("user_id", id), zap.Error(err))
		render.Error(c, err)
		return
	}

	render.Redirect(c, "/users/list")
}

// Export downloads the user list in the requested format.
func (h *UserHandler) Export(c *gin.Context) {
	format := service.ExportFormat(c.DefaultQuery("format", string(service.FormatCSV)))

	result, err := h.exports.RenderUsers(c.Request.Context(), format)
	if err != nil {
		render.Error(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+result.Filename+`"`)
	c.Data(http.StatusOK, result.ContentType, result.Content)
}

// userID parses the path id, replying 404 on garbage.
func (h *UserHandler) userID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		render.NotFound(c, "User with ID "+c.Param("id")+" not found.")
		return 0, false
	}
	return id, true
}

// loadUser fetches a user and converts absence into a 404 response.
func (h *UserHandler) loadUser(c *gin.Context, id int64) (*models.User, bool) {
	user, err := h.users.Get(c.Request.Context(), id)
	if err != nil {
		appErr := appErrors.FromError(err)
		if appErr.Status == http.StatusNotFound {
			h.logger.Error("user not found", zap.Int64("user_id", id))
			render.NotFound(c, "User with ID "+strconv.FormatInt(id, 10)+" not found.")
		} else {
			h.logger.Error("failed to load user", zap.Int64("user_id", id), zap.Error(err))
			render.Error(c, err)
		}
		return nil, false
	}
	return user, true
}

func formatActive(active *bool) string {
	if active == nil {
		return "<none>"
	}
	return strconv.FormatBool(*active)
}
