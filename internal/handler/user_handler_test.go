package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/usermgmt/admin-web/internal/auditlog"
	"github.com/usermgmt/admin-web/internal/dto"
	"github.com/usermgmt/admin-web/internal/models"
	"github.com/usermgmt/admin-web/internal/repository"
	"github.com/usermgmt/admin-web/internal/service"
	"github.com/usermgmt/admin-web/pkg/database"
)

type testEnv struct {
	router *gin.Engine
	db     *sqlx.DB
	users  *repository.UserRepository
	logs   *repository.LogRepository
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := sqlx.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() { db.Close() })

	userRepo := repository.NewUserRepository(db)
	logRepo := repository.NewLogRepository(db)

	validate := validator.New()
	require.NoError(t, dto.RegisterValidations(validate))

	sink := auditlog.NewSink(logRepo, zapcore.InfoLevel, zap.NewNop(), nil)
	userSvc := service.NewUserService(userRepo, zap.NewNop())
	logSvc := service.NewLogService(logRepo, zap.NewNop())
	exportSvc := service.NewExportService(userRepo)

	userHandler := NewUserHandler(userSvc, logSvc, exportSvc, sink, validate, zap.NewNop())
	logHandler := NewLogHandler(logSvc, userSvc, sink, zap.NewNop())

	router := NewRouter("../../web/templates/*.html", userHandler, logHandler, nil, zap.NewNop())

	return &testEnv{router: router, db: db, users: userRepo, logs: logRepo}
}

func (e *testEnv) get(t *testing.T, path string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	req, err := http.NewRequest(http.MethodGet, path, nil)
	require.NoError(t, err)
	e.router.ServeHTTP(w, req)
	return w
}

func (e *testEnv) postForm(t *testing.T, path string, values url.Values) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	req, err := http.NewRequest(http.MethodPost, path, strings.NewReader(values.Encode()))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	e.router.ServeHTTP(w, req)
	return w
}

func (e *testEnv) seedUser(t *testing.T, forename, surname, email string, active bool) *models.User {
	t.Helper()
	user := &models.User{
		Forename:    forename,
		Surname:     surname,
		Email:       email,
		Active:      active,
		DateOfBirth: time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, e.users.Create(context.Background(), user))
	return user
}

func validUserForm() url.Values {
	return url.Values{
		"forename":      {"John"},
		"surname":       {"Doe"},
		"email":         {"jd@example.com"},
		"date_of_birth": {"1990-01-01"},
	}
}

func TestListShowsAllUsers(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, "Peter", "Loew", "ploew@example.com", true)
	env.seedUser(t, "Castor", "Troy", "ctroy@example.com", false)

	w := env.get(t, "/users/list")

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "ploew@example.com")
	assert.Contains(t, body, "ctroy@example.com")
	assert.Contains(t, body, "01/01/1990")
}

func TestListFiltersByActive(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, "Peter", "Loew", "ploew@example.com", true)
	env.seedUser(t, "Castor", "Troy", "ctroy@example.com", false)

	w := env.get(t, "/users/list?active=true")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "ploew@example.com")
	assert.NotContains(t, w.Body.String(), "ctroy@example.com")

	w = env.get(t, "/users/list?active=false")
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "ploew@example.com")
	assert.Contains(t, w.Body.String(), "ctroy@example.com")
}

func TestListWritesAuditEntries(t *testing.T) {
	env := newTestEnv(t)

	env.get(t, "/users/list")

	logs, err := env.logs.List(context.Background())
	require.NoError(t, err)
	// one emission before retrieval, one after
	require.Len(t, logs, 2)
	assert.Equal(t, models.EventFetchAllUsers, logs[0].EventID)
	assert.Equal(t, models.EventFetchAllUsers, logs[1].EventID)
	assert.Contains(t, logs[1].Message, "User list retrieved with 0 items.")
}

func TestAddUserViewRendersEmptyForm(t *testing.T) {
	env := newTestEnv(t)

	w := env.get(t, "/users/AddUserView")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `action="/users/AddUserViewModel"`)
}

func TestAddUserCreatesAndRedirects(t *testing.T) {
	env := newTestEnv(t)

	w := env.postForm(t, "/users/AddUserViewModel", validUserForm())

	require.Equal(t, http.StatusSeeOther, w.Code)
	location := w.Header().Get("Location")
	assert.Equal(t, "/users/User/1", location)

	users, err := env.users.List(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "jd@example.com", users[0].Email)
	assert.True(t, users[0].Active)

	logs, err := env.logs.ListByUser(context.Background(), users[0].ID)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, models.EventAddUser, logs[0].EventID)
	require.NotNil(t, logs[0].UserAction)
	assert.Equal(t, "AddUser", *logs[0].UserAction)
	assert.Equal(t, "User created with ID 1", logs[0].Message)
}

func TestAddUserValidationFailuresLeaveStoreUnchanged(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(url.Values)
		message string
	}{
		{
			name:    "underage",
			mutate:  func(v url.Values) { v.Set("date_of_birth", time.Now().UTC().AddDate(-17, 0, 0).Format("2006-01-02")) },
			message: "User must be at least 18 years old",
		},
		{
			name:    "digits in forename",
			mutate:  func(v url.Values) { v.Set("forename", "J0hn") },
			message: "Forename contains invalid characters.",
		},
		{
			name:    "malformed email",
			mutate:  func(v url.Values) { v.Set("email", "not-an-email") },
			message: "Email is not a valid email address.",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			env := newTestEnv(t)
			form := validUserForm()
			tc.mutate(form)

			w := env.postForm(t, "/users/AddUserViewModel", form)

			require.Equal(t, http.StatusOK, w.Code)
			assert.Contains(t, w.Body.String(), tc.message)
			// submitted values are redisplayed
			assert.Contains(t, w.Body.String(), form.Get("surname"))

			users, err := env.users.List(context.Background())
			require.NoError(t, err)
			assert.Empty(t, users)
		})
	}
}

func TestViewUserShowsOwnLogHistoryOnly(t *testing.T) {
	env := newTestEnv(t)
	user := env.seedUser(t, "Peter", "Loew", "ploew@example.com", true)
	other := env.seedUser(t, "Castor", "Troy", "ctroy@example.com", false)

	action := "AddUser"
	require.NoError(t, env.logs.Create(context.Background(), &models.Log{
		EventID: models.EventAddUser, UserAction: &action, Level: "info",
		Message: "User created with ID 1", UserID: &user.ID,
	}))
	require.NoError(t, env.logs.Create(context.Background(), &models.Log{
		EventID: models.EventEditUser, Level: "info",
		Message: "secret edit of other user", UserID: &other.ID,
	}))

	w := env.get(t, "/users/User/1")

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "ploew@example.com")
	assert.Contains(t, body, "User created with ID 1")
	assert.NotContains(t, body, "secret edit of other user")
}

func TestViewUserUnknownReturns404(t *testing.T) {
	env := newTestEnv(t)

	w := env.get(t, "/users/User/999")

	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "User with ID 999 not found.")
}

func TestEditUserViewPrefillsForm(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, "Peter", "Loew", "ploew@example.com", true)

	w := env.get(t, "/users/EditUser/1")

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, `value="ploew@example.com"`)
	assert.Contains(t, body, `value="1990-01-01"`)
}

func TestEditUserOverwritesMutableFields(t *testing.T) {
	env := newTestEnv(t)
	user := env.seedUser(t, "Peter", "Loew", "ploew@example.com", true)

	form := url.Values{
		"forename":      {"Pete"},
		"surname":       {"Loew-Smith"},
		"email":         {"pete@example.com"},
		"date_of_birth": {"1981-02-03"},
		// active checkbox left unchecked
	}
	w := env.postForm(t, "/users/EditUser/1", form)

	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/users/User/1", w.Header().Get("Location"))

	got, err := env.users.FindByID(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Pete", got.Forename)
	assert.Equal(t, "Loew-Smith", got.Surname)
	assert.Equal(t, "pete@example.com", got.Email)
	assert.False(t, got.Active)
	assert.Equal(t, "1981-02-03", got.DateOfBirth.Format("2006-01-02"))
}

func TestEditUserValidationRedisplaysForm(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, "Peter", "Loew", "ploew@example.com", true)

	form := validUserForm()
	form.Set("forename", "P3ter")
	w := env.postForm(t, "/users/EditUser/1", form)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Forename contains invalid characters.")

	got, err := env.users.FindByID(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "Peter", got.Forename)
}

func TestEditUserUnknownReturns404(t *testing.T) {
	env := newTestEnv(t)

	w := env.postForm(t, "/users/EditUser/42", validUserForm())

	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteUserConfirmationView(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, "Peter", "Loew", "ploew@example.com", true)

	w := env.get(t, "/users/DeleteUser/1")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Are you sure")
	assert.Contains(t, w.Body.String(), "Peter")
}

func TestDeleteUserRemovesUserAndKeepsLogs(t *testing.T) {
	env := newTestEnv(t)
	user := env.seedUser(t, "Peter", "Loew", "ploew@example.com", true)
	require.NoError(t, env.logs.Create(context.Background(), &models.Log{
		EventID: models.EventAddUser, Level: "info", Message: "User created with ID 1", UserID: &user.ID,
	}))

	w := env.postForm(t, "/users/DeleteUser/1", url.Values{})

	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/users/list", w.Header().Get("Location"))

	users, err := env.users.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, users)

	logs, err := env.logs.ListByUser(context.Background(), user.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, logs, "deleting a user must not remove their logs")
}

func TestDeleteUserUnknownReturns404(t *testing.T) {
	env := newTestEnv(t)

	w := env.postForm(t, "/users/DeleteUser/7", url.Values{})

	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestExportUsersCSVDownload(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, "Peter", "Loew", "ploew@example.com", true)

	w := env.get(t, "/users/export?format=csv")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/csv", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "users.csv")
	assert.Contains(t, w.Body.String(), "ploew@example.com")
}
