package handlers

import (
	"net/http"

	"notely/internal/middlewares"
	"notely/internal/services"
	"notely/internal/utils"
)

type UserHandler struct {
	userService services.UserService
}

func NewUserHandler(userService services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

func (u *UserHandler) GetMyProfile(w http.ResponseWriter, r *http.Request) {
	user, ok := middlewares.UserFromContext(r.Context())
	if !ok {
		utils.SendJSONError(w, "Unauthenticated", http.StatusUnauthorized)
		return
	}

	profile, err := u.userService.GetUserProfile(r.Context(), user.ID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]interface{}{"user": profile})
}
