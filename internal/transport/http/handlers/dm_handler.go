package handlers

import (
	"log/slog"
	"net/http"

	"github.com/vedran77/pulse-channels/internal/domain"
	"github.com/vedran77/pulse-channels/internal/service"
	"github.com/vedran77/pulse-channels/internal/transport/http/middleware"
)

type DMHandler struct {
	channelService *service.ChannelService
	log            *slog.Logger
}

func NewDMHandler(channelService *service.ChannelService, log *slog.Logger) *DMHandler {
	return &DMHandler{channelService: channelService, log: log}
}

// GetOrCreate answers 200 with the DM channel whether or not it existed.
func (h *DMHandler) GetOrCreate(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	workspaceID := middleware.GetWorkspaceID(r.Context())

	var input service.CreateDMInput
	if !decode(w, r, &input) {
		return
	}

	ch, err := h.channelService.CreateDMChannel(r.Context(), userID, workspaceID, input)
	if err != nil {
		writeAppError(w, h.log, "create dm channel", err)
		return
	}

	writeJSON(w, http.StatusOK, ch)
}

func (h *DMHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	workspaceID := middleware.GetWorkspaceID(r.Context())

	channels, err := h.channelService.ListDMChannels(r.Context(), userID, workspaceID)
	if err != nil {
		writeAppError(w, h.log, "list dm channels", err)
		return
	}

	if channels == nil {
		channels = []domain.DMChannel{}
	}

	writeJSON(w, http.StatusOK, channels)
}
