package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type registerRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required"`
}

type deleteAccountRequest struct {
	Password string `json:"password" validate:"required"`
}

type profileResponse struct {
	Username string `json:"username"`
	Role     string `json:"role"`
}

func (s *Server) register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Message: "invalid request body"})
		return
	}
	if details := validateRequest(req); details != nil {
		respondValidationErrors(c, details)
		return
	}

	user, err := s.users.Register(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		s.respondError(c, err)
		return
	}

	c.Header("Location", "/users/"+user.Username)
	c.JSON(http.StatusCreated, profileResponse{Username: user.Username})
}

func (s *Server) profile(c *gin.Context) {
	target := c.Param("username")

	p, err := s.users.Profile(c.Request.Context(), callerIdentity(c), target)
	if err != nil {
		s.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, profileResponse{Username: p.Username, Role: p.Role})
}

func (s *Server) changePassword(c *gin.Context) {
	target := c.Param("username")

	var req changePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Message: "invalid request body"})
		return
	}
	if details := validateRequest(req); details != nil {
		respondValidationErrors(c, details)
		return
	}

	err := s.users.ChangePassword(c.Request.Context(), callerIdentity(c), target, req.CurrentPassword, req.NewPassword)
	if err != nil {
		s.respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (s *Server) deleteAccount(c *gin.Context) {
	target := c.Param("username")

	var req deleteAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Message: "invalid request body"})
		return
	}
	if details := validateRequest(req); details != nil {
		respondValidationErrors(c, details)
		return
	}

	err := s.users.DeleteAccount(c.Request.Context(), callerIdentity(c), target, req.Password)
	if err != nil {
		s.respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
