package api

import (
	"errors"
	"fmt"
	"net/http"

	"fitpact/fitness-backend/internal/domain"
	"fitpact/fitness-backend/internal/service"

	"github.com/gin-gonic/gin"
)

// PlanHandler holds the plan service dependency.
type PlanHandler struct {
	planService service.PlanService
}

// NewPlanHandler creates a new PlanHandler.
func NewPlanHandler(planService service.PlanService) *PlanHandler {
	return &PlanHandler{planService: planService}
}

// --- Request/Response Structs ---

// GeneratePlanRequest optionally carries feedback about the previous plan so
// the generator can steer away from problem exercises.
type GeneratePlanRequest struct {
	Feedback *FeedbackRequest `json:"feedback"`
}

type FeedbackRequest struct {
	TooHard []string `json:"tooHard"`
	TooEasy []string `json:"tooEasy"`
	Unknown []string `json:"unknown"`
	Avoided []string `json:"avoided"`
}

// PlanResponse wraps the stored plan document. The structure is rich and
// already JSON-tagged on the domain types, so it is returned as-is.
type PlanResponse struct {
	ID        string               `json:"id"`
	RequestID string               `json:"requestId"`
	GoalID    string               `json:"goalId"`
	PlanType  domain.PlanType      `json:"planType"`
	Structure domain.PlanStructure `json:"structure"`
	Guidance  domain.Guidance      `json:"guidance"`
	Stale     bool                 `json:"stale"`
}

// --- Handler Methods ---

// GeneratePlan creates a new workout plan for a goal, superseding any
// previous active plan.
func (h *PlanHandler) GeneratePlan(c *gin.Context) {
	userID, goalID, ok := goalRequestIDs(c)
	if !ok {
		return
	}

	// Body is optional.
	var req GeneratePlanRequest
	_ = c.ShouldBindJSON(&req)

	var feedback *domain.WorkoutFeedback
	if req.Feedback != nil {
		feedback = &domain.WorkoutFeedback{
			TooHard: req.Feedback.TooHard,
			TooEasy: req.Feedback.TooEasy,
			Unknown: req.Feedback.Unknown,
			Avoided: req.Feedback.Avoided,
		}
	}

	plan, err := h.planService.GeneratePlan(c.Request.Context(), goalID, userID, feedback)
	if err != nil {
		respondPlanError(c, err)
		return
	}
	c.JSON(http.StatusCreated, MapPlanToResponse(plan))
}

// GetActivePlan returns the current plan for a goal.
func (h *PlanHandler) GetActivePlan(c *gin.Context) {
	userID, goalID, ok := goalRequestIDs(c)
	if !ok {
		return
	}

	plan, err := h.planService.GetActivePlan(c.Request.Context(), goalID, userID)
	if err != nil {
		respondPlanError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapPlanToResponse(plan))
}

func respondPlanError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrPlanNotFound):
		abortWithError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrGoalNotFound):
		abortWithError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrGoalAccessDenied):
		abortWithError(c, http.StatusForbidden, err.Error())
	default:
		abortWithError(c, http.StatusInternalServerError, fmt.Sprintf("Plan operation failed: %v", err))
	}
}

// MapPlanToResponse converts a domain WorkoutPlan to a PlanResponse DTO.
func MapPlanToResponse(plan *domain.WorkoutPlan) PlanResponse {
	return PlanResponse{
		ID:        plan.ID.Hex(),
		RequestID: plan.RequestID,
		GoalID:    plan.GoalID.Hex(),
		PlanType:  plan.PlanType,
		Structure: plan.Structure,
		Guidance:  plan.Guidance,
		Stale:     plan.Stale,
	}
}
