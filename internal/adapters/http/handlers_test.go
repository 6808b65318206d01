package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/penguin/core/internal/adapters/localstore"
	"github.com/penguin/core/internal/application/services"
	"github.com/penguin/core/internal/domain/entities"
	"github.com/penguin/core/internal/infrastructure/logger"
)

type testValidator struct {
	validator *validator.Validate
}

func (v *testValidator) Validate(i interface{}) error {
	return v.validator.Struct(i)
}

func newTestHandler(t *testing.T) (*TrackerHandler, *services.TrackerService, *echo.Echo) {
	t.Helper()
	kv, err := localstore.NewFileKVWithFs(afero.NewMemMapFs(), "data")
	require.NoError(t, err)
	backend, err := localstore.New(context.Background(), kv, logger.Nop())
	require.NoError(t, err)
	svc := services.NewTrackerService(backend, logger.Nop())

	e := echo.New()
	e.Validator = &testValidator{validator: validator.New()}
	return NewTrackerHandler(svc, logger.Nop()), svc, e
}

func doJSON(e *echo.Echo, method, path, body string) (echo.Context, *httptest.ResponseRecorder) {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestLoginAndSession(t *testing.T) {
	h, _, e := newTestHandler(t)

	c, rec := doJSON(e, http.MethodPost, "/api/v1/session", `{"identity":"user1"}`)
	require.NoError(t, h.Login(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp SessionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, entities.IdentityUser1, resp.Identity)
	assert.Equal(t, "Des", resp.Name)

	c, rec = doJSON(e, http.MethodGet, "/api/v1/session", "")
	require.NoError(t, h.GetSession(c))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestLoginRejectsUnknownIdentity(t *testing.T) {
	h, _, e := newTestHandler(t)

	c, _ := doJSON(e, http.MethodPost, "/api/v1/session", `{"identity":"stranger"}`)
	err := h.Login(c)
	require.Error(t, err)
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, he.Code)
}

func TestSessionNotFoundWhenLoggedOut(t *testing.T) {
	h, _, e := newTestHandler(t)

	c, _ := doJSON(e, http.MethodGet, "/api/v1/session", "")
	err := h.GetSession(c)
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, err.(*echo.HTTPError).Code)
}

func TestMutationsConflictWithoutLogin(t *testing.T) {
	h, _, e := newTestHandler(t)

	c, _ := doJSON(e, http.MethodPost, "/api/v1/goals", `{"text":"goal","target":5}`)
	err := h.CreateGoal(c)
	require.Error(t, err)
	assert.Equal(t, http.StatusConflict, err.(*echo.HTTPError).Code)
}

func TestGoalFlow(t *testing.T) {
	h, svc, e := newTestHandler(t)
	require.NoError(t, svc.Login(context.Background(), entities.IdentityUser1))

	c, rec := doJSON(e, http.MethodPost, "/api/v1/goals", `{"text":"Run 100km","target":100}`)
	require.NoError(t, h.CreateGoal(c))
	assert.Equal(t, http.StatusNoContent, rec.Code)

	c, rec = doJSON(e, http.MethodGet, "/api/v1/goals", "")
	require.NoError(t, h.GetGoals(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var goals []entities.Goal
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &goals))
	require.Len(t, goals, 1)
	assert.Equal(t, 0, goals[0].Current)

	c, rec = doJSON(e, http.MethodPost, "/api/v1/goals/"+goals[0].ID+"/progress", `{"delta":10}`)
	c.SetParamNames("id")
	c.SetParamValues(goals[0].ID)
	require.NoError(t, h.UpdateGoalProgress(c))
	assert.Equal(t, http.StatusNoContent, rec.Code)

	c, rec = doJSON(e, http.MethodGet, "/api/v1/goals", "")
	require.NoError(t, h.GetGoals(c))
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &goals))
	assert.Equal(t, 10, goals[0].Current)
}

func TestSilentNoOpStillNoContent(t *testing.T) {
	h, svc, e := newTestHandler(t)
	require.NoError(t, svc.Login(context.Background(), entities.IdentityUser1))

	// whitespace-only goal text is absorbed, not an HTTP error
	c, rec := doJSON(e, http.MethodPost, "/api/v1/goals", `{"text":"   ","target":5}`)
	require.NoError(t, h.CreateGoal(c))
	assert.Equal(t, http.StatusNoContent, rec.Code)

	c, rec = doJSON(e, http.MethodGet, "/api/v1/goals", "")
	require.NoError(t, h.GetGoals(c))
	assert.Equal(t, "[]\n", rec.Body.String())

	// unknown id delete is likewise silent
	c, rec = doJSON(e, http.MethodDelete, "/api/v1/goals/12345", "")
	c.SetParamNames("id")
	c.SetParamValues("12345")
	require.NoError(t, h.DeleteGoal(c))
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestTodoRoutes(t *testing.T) {
	h, svc, e := newTestHandler(t)
	require.NoError(t, svc.Login(context.Background(), entities.IdentityUser2))

	c, rec := doJSON(e, http.MethodPost, "/api/v1/todos", `{"text":"laundry"}`)
	require.NoError(t, h.CreateTodo(c))
	assert.Equal(t, http.StatusNoContent, rec.Code)

	c, rec = doJSON(e, http.MethodGet, "/api/v1/todos", "")
	require.NoError(t, h.GetTodos(c))

	var resp struct {
		Todos     []entities.Todo `json:"todos"`
		Completed int             `json:"completed"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Todos, 1)
	assert.Equal(t, 0, resp.Completed)

	c, rec = doJSON(e, http.MethodPut, "/api/v1/todos/"+resp.Todos[0].ID, "")
	c.SetParamNames("id")
	c.SetParamValues(resp.Todos[0].ID)
	require.NoError(t, h.ToggleTodo(c))
	assert.Equal(t, http.StatusNoContent, rec.Code)

	c, rec = doJSON(e, http.MethodGet, "/api/v1/todos", "")
	require.NoError(t, h.GetTodos(c))
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Completed)
}

func TestMessageAndRewardRoutes(t *testing.T) {
	h, svc, e := newTestHandler(t)
	require.NoError(t, svc.Login(context.Background(), entities.IdentityUser1))

	c, rec := doJSON(e, http.MethodPost, "/api/v1/messages", `{"text":"hello"}`)
	require.NoError(t, h.SendMessage(c))
	assert.Equal(t, http.StatusNoContent, rec.Code)

	c, rec = doJSON(e, http.MethodGet, "/api/v1/messages", "")
	require.NoError(t, h.GetMessages(c))
	var msgs []entities.Message
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &msgs))
	require.Len(t, msgs, 1)

	c, rec = doJSON(e, http.MethodPost, "/api/v1/rewards", `{"text":"movie night"}`)
	require.NoError(t, h.CreateReward(c))
	assert.Equal(t, http.StatusNoContent, rec.Code)

	c, rec = doJSON(e, http.MethodGet, "/api/v1/rewards", "")
	require.NoError(t, h.GetRewards(c))
	var rewards []entities.Reward
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rewards))
	require.Len(t, rewards, 1)
	assert.Equal(t, entities.IdentityUser2, rewards[0].To)

	c, rec = doJSON(e, http.MethodPut, "/api/v1/rewards/"+rewards[0].ID, "")
	c.SetParamNames("id")
	c.SetParamValues(rewards[0].ID)
	require.NoError(t, h.ToggleReward(c))
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestProgressRoute(t *testing.T) {
	h, svc, e := newTestHandler(t)
	ctx := context.Background()
	require.NoError(t, svc.Login(ctx, entities.IdentityUser1))
	require.NoError(t, svc.AddGoal(ctx, "goal", 4))

	c, rec := doJSON(e, http.MethodGet, "/api/v1/progress", "")
	require.NoError(t, h.GetProgress(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Des")
	assert.Contains(t, rec.Body.String(), "Princess")
}
