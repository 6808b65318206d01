package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/penguin/core/internal/application/services"
	"github.com/penguin/core/internal/domain/entities"
	"github.com/penguin/core/internal/infrastructure/logger"
)

// TrackerHandler exposes each mutation operation and derived view over HTTP.
// Every route maps 1:1 to exactly one service call.
type TrackerHandler struct {
	service *services.TrackerService
	logger  *logger.Logger
}

// NewTrackerHandler creates a new tracker handler
func NewTrackerHandler(service *services.TrackerService, logger *logger.Logger) *TrackerHandler {
	return &TrackerHandler{
		service: service,
		logger:  logger,
	}
}

// mutated translates the state layer's contract to HTTP: a nil error is a
// 204 whether the mutation applied or was silently absorbed, and a missing
// identity is a 409 because login is the sole gate.
func (h *TrackerHandler) mutated(c echo.Context, err error) error {
	if err == nil {
		return c.NoContent(http.StatusNoContent)
	}
	if errors.Is(err, entities.ErrNotLoggedIn) {
		return echo.NewHTTPError(http.StatusConflict, "login required")
	}
	if errors.Is(err, entities.ErrUnknownIdentity) {
		return echo.NewHTTPError(http.StatusBadRequest, "unknown identity")
	}
	h.logger.Error("Mutation failed", "error", err, "path", c.Path())
	return echo.NewHTTPError(http.StatusInternalServerError, "operation failed")
}

// Login handles identity selection
func (h *TrackerHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.service.Login(c.Request().Context(), req.Identity); err != nil {
		if errors.Is(err, entities.ErrUnknownIdentity) {
			return echo.NewHTTPError(http.StatusBadRequest, "unknown identity")
		}
		h.logger.Error("Login failed", "error", err, "identity", req.Identity)
		return echo.NewHTTPError(http.StatusInternalServerError, "login failed")
	}

	return c.JSON(http.StatusOK, SessionResponse{
		Identity: req.Identity,
		Name:     req.Identity.DisplayName(),
	})
}

// Logout clears the active identity
func (h *TrackerHandler) Logout(c echo.Context) error {
	if err := h.service.Logout(c.Request().Context()); err != nil {
		h.logger.Error("Logout failed", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "logout failed")
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: "logged out"})
}

// GetSession reports the active identity, if any
func (h *TrackerHandler) GetSession(c echo.Context) error {
	id, ok := h.service.ActiveIdentity()
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "no active identity")
	}
	return c.JSON(http.StatusOK, SessionResponse{Identity: id, Name: id.DisplayName()})
}

// GetUsers lists both participants for the login screen
func (h *TrackerHandler) GetUsers(c echo.Context) error {
	return c.JSON(http.StatusOK, h.service.Users())
}

// GetState returns the full current snapshot
func (h *TrackerHandler) GetState(c echo.Context) error {
	return c.JSON(http.StatusOK, h.service.Snapshot())
}

// GetGoals returns the active identity's goals, or the other participant's
// with ?user=other
func (h *TrackerHandler) GetGoals(c echo.Context) error {
	var goals []entities.Goal
	var err error
	if c.QueryParam("user") == "other" {
		goals, err = h.service.OtherGoals()
	} else {
		goals, err = h.service.MyGoals()
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusConflict, "login required")
	}
	return c.JSON(http.StatusOK, goals)
}

// CreateGoal handles goal creation
func (h *TrackerHandler) CreateGoal(c echo.Context) error {
	var req CreateGoalRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	return h.mutated(c, h.service.AddGoal(c.Request().Context(), req.Text, req.Target))
}

// UpdateGoalProgress moves a goal's progress by a delta
func (h *TrackerHandler) UpdateGoalProgress(c echo.Context) error {
	var req ProgressRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	return h.mutated(c, h.service.UpdateGoalProgress(c.Request().Context(), c.Param("id"), req.Delta))
}

// DeleteGoal removes a goal and its subgoals
func (h *TrackerHandler) DeleteGoal(c echo.Context) error {
	return h.mutated(c, h.service.DeleteGoal(c.Request().Context(), c.Param("id")))
}

// CreateSubgoal adds a checklist step under a goal
func (h *TrackerHandler) CreateSubgoal(c echo.Context) error {
	var req CreateSubgoalRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	return h.mutated(c, h.service.AddSubgoal(c.Request().Context(), c.Param("id"), req.Text, req.Description))
}

// ToggleSubgoal flips a subgoal's completed flag
func (h *TrackerHandler) ToggleSubgoal(c echo.Context) error {
	return h.mutated(c, h.service.ToggleSubgoal(c.Request().Context(), c.Param("id"), c.Param("subId")))
}

// DeleteSubgoal removes a checklist step
func (h *TrackerHandler) DeleteSubgoal(c echo.Context) error {
	return h.mutated(c, h.service.DeleteSubgoal(c.Request().Context(), c.Param("id"), c.Param("subId")))
}

// GetTodos returns the active identity's task list with a completed count
func (h *TrackerHandler) GetTodos(c echo.Context) error {
	todos, err := h.service.MyTodos()
	if err != nil {
		return echo.NewHTTPError(http.StatusConflict, "login required")
	}
	completed, _ := h.service.CompletedTodoCount()
	return c.JSON(http.StatusOK, map[string]interface{}{
		"todos":     todos,
		"completed": completed,
	})
}

// CreateTodo adds a task
func (h *TrackerHandler) CreateTodo(c echo.Context) error {
	var req CreateTextRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	return h.mutated(c, h.service.AddTodo(c.Request().Context(), req.Text))
}

// ToggleTodo flips a task's completed flag
func (h *TrackerHandler) ToggleTodo(c echo.Context) error {
	return h.mutated(c, h.service.ToggleTodo(c.Request().Context(), c.Param("id")))
}

// DeleteTodo removes a task
func (h *TrackerHandler) DeleteTodo(c echo.Context) error {
	return h.mutated(c, h.service.DeleteTodo(c.Request().Context(), c.Param("id")))
}

// GetMessages returns the shared thread in insertion order
func (h *TrackerHandler) GetMessages(c echo.Context) error {
	return c.JSON(http.StatusOK, h.service.Messages())
}

// SendMessage appends to the shared thread
func (h *TrackerHandler) SendMessage(c echo.Context) error {
	var req CreateTextRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	return h.mutated(c, h.service.SendMessage(c.Request().Context(), req.Text))
}

// GetRewards returns the shared reward ledger
func (h *TrackerHandler) GetRewards(c echo.Context) error {
	return c.JSON(http.StatusOK, h.service.Rewards())
}

// CreateReward sends a reward to the other participant
func (h *TrackerHandler) CreateReward(c echo.Context) error {
	var req CreateTextRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	return h.mutated(c, h.service.AddReward(c.Request().Context(), req.Text))
}

// ToggleReward flips a reward's claimed flag
func (h *TrackerHandler) ToggleReward(c echo.Context) error {
	return h.mutated(c, h.service.ToggleReward(c.Request().Context(), c.Param("id")))
}

// GetProgress returns both participants' goals with percentages
func (h *TrackerHandler) GetProgress(c echo.Context) error {
	return c.JSON(http.StatusOK, h.service.Progress())
}
