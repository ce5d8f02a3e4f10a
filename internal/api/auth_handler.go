package api

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"fitpact/fitness-backend/internal/domain"
	"fitpact/fitness-backend/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AuthHandler holds the authentication service dependency.
type AuthHandler struct {
	authService service.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// --- Request/Response Structs ---

type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

// UserResponse excludes sensitive info like password hash
type UserResponse struct {
	ID        string                  `json:"id"`
	Name      string                  `json:"name"`
	Email     string                  `json:"email"`
	Role      domain.Role             `json:"role"`
	Tier      domain.SubscriptionTier `json:"tier"`
	Profile   domain.UserProfile      `json:"profile"`
	CreatedAt time.Time               `json:"createdAt"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

// ProfileRequest carries the onboarding answers the plan generator keys off.
type ProfileRequest struct {
	FitnessLevel      domain.FitnessLevel `json:"fitnessLevel" binding:"required,oneof=beginner intermediate advanced athlete"`
	PrimaryGoal       string              `json:"primaryGoal"`
	CurrentFrequency  string              `json:"currentFrequency"`
	PreferredLocation domain.Location     `json:"preferredLocation" binding:"omitempty,oneof=gym home outdoor"`
	AvailableTime     string              `json:"availableTime"`
	MotivationStyle   string              `json:"motivationStyle"`
	BiggestChallenge  string              `json:"biggestChallenge"`
	BiologicalSex     string              `json:"biologicalSex"`
}

// --- Handler Methods ---

// Register creates a new user account.
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	user, err := h.authService.Register(c.Request.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrUserAlreadyExists) {
			abortWithError(c, http.StatusConflict, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "An unexpected error occurred during registration")
		}
		return
	}

	c.JSON(http.StatusCreated, MapUserToResponse(user))
}

// Login authenticates a user and returns a JWT token.
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	token, user, err := h.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrAuthenticationFailed) {
			abortWithError(c, http.StatusUnauthorized, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "An unexpected error occurred during login")
		}
		return
	}

	c.JSON(http.StatusOK, LoginResponse{
		Token: token,
		User:  MapUserToResponse(user),
	})
}

// GetMe returns the authenticated user's account.
func (h *AuthHandler) GetMe(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	user, err := h.authService.GetUser(c.Request.Context(), userID)
	if err != nil {
		abortWithError(c, http.StatusNotFound, "User not found")
		return
	}
	c.JSON(http.StatusOK, MapUserToResponse(user))
}

// UpdateProfile replaces the user's onboarding profile. Active plans are
// flagged for regeneration as a side effect.
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req ProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	profile := domain.UserProfile{
		FitnessLevel:      req.FitnessLevel,
		PrimaryGoal:       req.PrimaryGoal,
		CurrentFrequency:  req.CurrentFrequency,
		PreferredLocation: req.PreferredLocation,
		AvailableTime:     req.AvailableTime,
		MotivationStyle:   req.MotivationStyle,
		BiggestChallenge:  req.BiggestChallenge,
		BiologicalSex:     req.BiologicalSex,
	}

	if err := h.authService.UpdateProfile(c.Request.Context(), userID, profile); err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to update profile")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "profile updated"})
}

// UpdateTierRequest names the target subscription tier for a user.
type UpdateTierRequest struct {
	Tier domain.SubscriptionTier `json:"tier" binding:"required,oneof=free premium"`
}

// UpdateTier changes another user's subscription tier. Admin only.
func (h *AuthHandler) UpdateTier(c *gin.Context) {
	userID, err := primitive.ObjectIDFromHex(c.Param("userId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid user ID format")
		return
	}

	var req UpdateTierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	if err := h.authService.UpdateTier(c.Request.Context(), userID, req.Tier); err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to update tier")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "tier updated"})
}

// currentUserID pulls the authenticated user ID out of the gin context.
// Aborts with an error response when the ID is missing or malformed.
func currentUserID(c *gin.Context) (primitive.ObjectID, bool) {
	idStr, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return primitive.NilObjectID, false
	}
	id, err := primitive.ObjectIDFromHex(idStr)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid user ID in token")
		return primitive.NilObjectID, false
	}
	return id, true
}

// MapUserToResponse converts a domain User to a UserResponse DTO.
func MapUserToResponse(user *domain.User) UserResponse {
	if user == nil {
		return UserResponse{}
	}
	return UserResponse{
		ID:        user.ID.Hex(),
		Name:      user.Name,
		Email:     user.Email,
		Role:      user.Role,
		Tier:      user.Tier,
		Profile:   user.Profile,
		CreatedAt: user.CreatedAt,
	}
}
