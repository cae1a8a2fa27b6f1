package handlers

import (
	"log/slog"
	"net/http"

	"github.com/vedran77/pulse-channels/internal/service"
	"github.com/vedran77/pulse-channels/internal/transport/http/middleware"
)

type UserHandler struct {
	userService *service.UserService
	log         *slog.Logger
}

func NewUserHandler(userService *service.UserService, log *slog.Logger) *UserHandler {
	return &UserHandler{userService: userService, log: log}
}

// Register publishes the caller's username and RSA public key.
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	workspaceID := middleware.GetWorkspaceID(r.Context())

	var input service.RegisterInput
	if !decode(w, r, &input) {
		return
	}

	user, err := h.userService.Register(r.Context(), userID, workspaceID, input)
	if err != nil {
		writeAppError(w, h.log, "register user", err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}

func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, err := h.userService.Get(r.Context(), middleware.GetWorkspaceID(r.Context()), middleware.GetUserID(r.Context()))
	if err != nil {
		writeAppError(w, h.log, "get user", err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}

// Get returns another user of the workspace, public key included, so
// clients can wrap channel keys for them.
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	user, err := h.userService.Get(r.Context(), middleware.GetWorkspaceID(r.Context()), userID)
	if err != nil {
		writeAppError(w, h.log, "get user", err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}
