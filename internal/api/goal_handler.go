package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"fitpact/fitness-backend/internal/domain"
	"fitpact/fitness-backend/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// GoalHandler holds the goal and check-in service dependencies.
type GoalHandler struct {
	goalService    service.GoalService
	checkInService service.CheckInService
}

// NewGoalHandler creates a new GoalHandler.
func NewGoalHandler(goalService service.GoalService, checkInService service.CheckInService) *GoalHandler {
	return &GoalHandler{goalService: goalService, checkInService: checkInService}
}

// --- Request/Response Structs ---

type GoalRequest struct {
	Title       string          `json:"title" binding:"required"`
	Description string          `json:"description"`
	Category    string          `json:"category" binding:"required"`
	Frequency   string          `json:"frequency" binding:"required,oneof=daily weekly"`
	TargetDays  int             `json:"targetDays" binding:"omitempty,min=1,max=7"`
	GoalType    domain.GoalType `json:"goalType" binding:"required,oneof=habit time_challenge target_challenge"`

	ChallengeDurationDays int `json:"challengeDurationDays"`
	TargetCheckins        int `json:"targetCheckins"`
}

type GoalResponse struct {
	ID                    string          `json:"id"`
	Title                 string          `json:"title"`
	Description           string          `json:"description,omitempty"`
	Category              string          `json:"category"`
	Frequency             string          `json:"frequency"`
	TargetDays            int             `json:"targetDays"`
	GoalType              domain.GoalType `json:"goalType"`
	ChallengeDurationDays int             `json:"challengeDurationDays,omitempty"`
	TargetCheckins        int             `json:"targetCheckins,omitempty"`
	CreatedAt             time.Time       `json:"createdAt"`
}

type CheckInRequest struct {
	Note string `json:"note"`
}

type CheckInResponse struct {
	ID        string    `json:"id"`
	GoalID    string    `json:"goalId"`
	Date      string    `json:"date"`
	Note      string    `json:"note,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// --- Handler Methods ---

// CreateGoal creates a new goal for the authenticated user.
func (h *GoalHandler) CreateGoal(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req GoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	goal := goalFromRequest(req)
	goal.UserID = userID

	created, err := h.goalService.CreateGoal(c.Request.Context(), goal)
	if err != nil {
		if errors.Is(err, service.ErrInvalidGoal) {
			abortWithError(c, http.StatusBadRequest, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to create goal")
		}
		return
	}
	c.JSON(http.StatusCreated, MapGoalToResponse(created))
}

// GetGoals lists the authenticated user's goals.
func (h *GoalHandler) GetGoals(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	goals, err := h.goalService.GetGoalsForUser(c.Request.Context(), userID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to list goals")
		return
	}

	resp := make([]GoalResponse, 0, len(goals))
	for i := range goals {
		resp = append(resp, MapGoalToResponse(&goals[i]))
	}
	c.JSON(http.StatusOK, resp)
}

// GetGoal fetches a single goal owned by the authenticated user.
func (h *GoalHandler) GetGoal(c *gin.Context) {
	userID, goalID, ok := goalRequestIDs(c)
	if !ok {
		return
	}

	goal, err := h.goalService.GetGoalByID(c.Request.Context(), goalID, userID)
	if err != nil {
		respondGoalError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapGoalToResponse(goal))
}

// UpdateGoal replaces the mutable fields of a goal.
func (h *GoalHandler) UpdateGoal(c *gin.Context) {
	userID, goalID, ok := goalRequestIDs(c)
	if !ok {
		return
	}

	var req GoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	goal := goalFromRequest(req)
	goal.ID = goalID
	goal.UserID = userID

	if err := h.goalService.UpdateGoal(c.Request.Context(), goal); err != nil {
		if errors.Is(err, service.ErrInvalidGoal) {
			abortWithError(c, http.StatusBadRequest, err.Error())
		} else {
			respondGoalError(c, err)
		}
		return
	}
	c.JSON(http.StatusOK, MapGoalToResponse(goal))
}

// DeleteGoal removes a goal owned by the authenticated user.
func (h *GoalHandler) DeleteGoal(c *gin.Context) {
	userID, goalID, ok := goalRequestIDs(c)
	if !ok {
		return
	}

	if err := h.goalService.DeleteGoal(c.Request.Context(), goalID, userID); err != nil {
		respondGoalError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// CheckIn records today's check-in for a goal.
func (h *GoalHandler) CheckIn(c *gin.Context) {
	userID, goalID, ok := goalRequestIDs(c)
	if !ok {
		return
	}

	// Body is optional; an empty body means a check-in without a note.
	var req CheckInRequest
	_ = c.ShouldBindJSON(&req)

	checkIn, err := h.checkInService.CheckIn(c.Request.Context(), goalID, userID, req.Note)
	if err != nil {
		if errors.Is(err, service.ErrAlreadyCheckedIn) {
			abortWithError(c, http.StatusConflict, err.Error())
		} else {
			respondGoalError(c, err)
		}
		return
	}
	c.JSON(http.StatusCreated, MapCheckInToResponse(checkIn))
}

// GetCheckIns lists check-ins for a goal, newest first.
// Supports an optional ?limit= query parameter.
func (h *GoalHandler) GetCheckIns(c *gin.Context) {
	userID, goalID, ok := goalRequestIDs(c)
	if !ok {
		return
	}

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = n
		}
	}

	checkIns, err := h.checkInService.GetCheckIns(c.Request.Context(), goalID, userID, limit)
	if err != nil {
		respondGoalError(c, err)
		return
	}

	resp := make([]CheckInResponse, 0, len(checkIns))
	for i := range checkIns {
		resp = append(resp, MapCheckInToResponse(&checkIns[i]))
	}
	c.JSON(http.StatusOK, resp)
}

// GetStreak returns the current consecutive-day check-in streak for a goal.
func (h *GoalHandler) GetStreak(c *gin.Context) {
	userID, goalID, ok := goalRequestIDs(c)
	if !ok {
		return
	}

	streak, err := h.checkInService.CurrentStreak(c.Request.Context(), goalID, userID)
	if err != nil {
		respondGoalError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"streak": streak})
}

// --- Helpers ---

// goalRequestIDs extracts the authenticated user ID and the :goalId path param.
func goalRequestIDs(c *gin.Context) (userID, goalID primitive.ObjectID, ok bool) {
	userID, ok = currentUserID(c)
	if !ok {
		return
	}
	goalID, err := primitive.ObjectIDFromHex(c.Param("goalId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid goal ID format")
		return primitive.NilObjectID, primitive.NilObjectID, false
	}
	return userID, goalID, true
}

func respondGoalError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrGoalNotFound):
		abortWithError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrGoalAccessDenied):
		abortWithError(c, http.StatusForbidden, err.Error())
	default:
		abortWithError(c, http.StatusInternalServerError, "An unexpected error occurred")
	}
}

func goalFromRequest(req GoalRequest) *domain.Goal {
	return &domain.Goal{
		Title:                 req.Title,
		Description:           req.Description,
		Category:              req.Category,
		Frequency:             req.Frequency,
		TargetDays:            req.TargetDays,
		GoalType:              req.GoalType,
		ChallengeDurationDays: req.ChallengeDurationDays,
		TargetCheckins:        req.TargetCheckins,
	}
}

// MapGoalToResponse converts a domain Goal to a GoalResponse DTO.
func MapGoalToResponse(goal *domain.Goal) GoalResponse {
	return GoalResponse{
		ID:                    goal.ID.Hex(),
		Title:                 goal.Title,
		Description:           goal.Description,
		Category:              goal.Category,
		Frequency:             goal.Frequency,
		TargetDays:            goal.TargetDays,
		GoalType:              goal.GoalType,
		ChallengeDurationDays: goal.ChallengeDurationDays,
		TargetCheckins:        goal.TargetCheckins,
		CreatedAt:             goal.CreatedAt,
	}
}

// MapCheckInToResponse converts a domain CheckIn to a CheckInResponse DTO.
func MapCheckInToResponse(checkIn *domain.CheckIn) CheckInResponse {
	return CheckInResponse{
		ID:        checkIn.ID.Hex(),
		GoalID:    checkIn.GoalID.Hex(),
		Date:      checkIn.Date,
		Note:      checkIn.Note,
		CreatedAt: checkIn.CreatedAt,
	}
}
