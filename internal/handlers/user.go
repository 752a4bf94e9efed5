// internal/handlers/user.go
package handlers

import (
	"net/http"

	"github.com/go-chi/render"

	"maw-backend/internal/models"
	"maw-backend/internal/services"
	"maw-backend/pkg/utils"
)

type UserHandler struct {
	userService services.UserService
}

func NewUserHandler(userService services.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

// RegisterUser serves POST /api/v1/register
func (h *UserHandler) RegisterUser(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterUserRequest
	if err := utils.DecodeJSONBody(r, &req); err != nil {
		utils.SendErrorResponse(w, err)
		return
	}

	user, err := h.userService.Register(r.Context(), &req)
	if err != nil {
		utils.SendErrorResponse(w, err)
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, map[string]interface{}{
		"ok":   true,
		"user": user,
	})
}
