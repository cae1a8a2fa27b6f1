package handlers

import (
	"log/slog"
	"net/http"

	"github.com/vedran77/pulse-channels/internal/domain"
	"github.com/vedran77/pulse-channels/internal/service"
	"github.com/vedran77/pulse-channels/internal/transport/http/middleware"
)

type ChannelHandler struct {
	channelService *service.ChannelService
	log            *slog.Logger
}

func NewChannelHandler(channelService *service.ChannelService, log *slog.Logger) *ChannelHandler {
	return &ChannelHandler{channelService: channelService, log: log}
}

func (h *ChannelHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	workspaceID := middleware.GetWorkspaceID(r.Context())

	var input service.CreateChannelInput
	if !decode(w, r, &input) {
		return
	}

	ch, err := h.channelService.CreateGroupChannel(r.Context(), userID, workspaceID, input)
	if err != nil {
		writeAppError(w, h.log, "create channel", err)
		return
	}

	writeJSON(w, http.StatusCreated, ch)
}

func (h *ChannelHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	workspaceID := middleware.GetWorkspaceID(r.Context())

	channels, err := h.channelService.ListChannels(r.Context(), userID, workspaceID)
	if err != nil {
		writeAppError(w, h.log, "list channels", err)
		return
	}

	if channels == nil {
		channels = []domain.GroupChannel{}
	}

	writeJSON(w, http.StatusOK, channels)
}

func (h *ChannelHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	workspaceID := middleware.GetWorkspaceID(r.Context())
	channelID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	ch, err := h.channelService.GetChannel(r.Context(), userID, workspaceID, channelID)
	if err != nil {
		writeAppError(w, h.log, "get channel", err)
		return
	}

	writeJSON(w, http.StatusOK, ch)
}

func (h *ChannelHandler) Archive(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	workspaceID := middleware.GetWorkspaceID(r.Context())
	channelID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	ch, err := h.channelService.Archive(r.Context(), userID, workspaceID, channelID)
	if err != nil {
		writeAppError(w, h.log, "archive channel", err)
		return
	}

	writeJSON(w, http.StatusOK, ch)
}

// Invite takes the channel as an id or a name in the path.
func (h *ChannelHandler) Invite(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	workspaceID := middleware.GetWorkspaceID(r.Context())

	var input service.InviteInput
	if !decode(w, r, &input) {
		return
	}

	members, err := h.channelService.Invite(r.Context(), userID, workspaceID, r.PathValue("id"), input)
	if err != nil {
		writeAppError(w, h.log, "invite member", err)
		return
	}

	writeJSON(w, http.StatusOK, members)
}

func (h *ChannelHandler) Join(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	workspaceID := middleware.GetWorkspaceID(r.Context())

	var input service.MemberKeyInput
	if !decode(w, r, &input) {
		return
	}

	members, err := h.channelService.Join(r.Context(), userID, workspaceID, r.PathValue("id"), input)
	if err != nil {
		writeAppError(w, h.log, "join channel", err)
		return
	}

	writeJSON(w, http.StatusOK, members)
}

// ListMembers also serves DM channels.
func (h *ChannelHandler) ListMembers(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	workspaceID := middleware.GetWorkspaceID(r.Context())
	channelID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	members, err := h.channelService.ListMembers(r.Context(), userID, workspaceID, channelID)
	if err != nil {
		writeAppError(w, h.log, "list channel members", err)
		return
	}

	writeJSON(w, http.StatusOK, members)
}
