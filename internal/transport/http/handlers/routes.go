package handlers

import (
	"net/http"
)

type Handlers struct {
	Channels *ChannelHandler
	DMs      *DMHandler
	Users    *UserHandler
}

// Routes registers the REST API on mux. Everything but /health sits
// behind auth.
func Routes(mux *http.ServeMux, auth func(http.Handler) http.Handler, h Handlers) {
	protected := func(f http.HandlerFunc) http.Handler { return auth(f) }

	// Public
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status": "ok"}`))
	})

	// Users
	mux.Handle("PUT /api/v1/users/me", protected(h.Users.Register))
	mux.Handle("GET /api/v1/users/me", protected(h.Users.Me))
	mux.Handle("GET /api/v1/users/{id}", protected(h.Users.Get))

	// Group channels; {id} also accepts a channel name where noted
	mux.Handle("POST /api/v1/channels", protected(h.Channels.Create))
	mux.Handle("GET /api/v1/channels", protected(h.Channels.List))
	mux.Handle("GET /api/v1/channels/{id}", protected(h.Channels.Get))
	mux.Handle("DELETE /api/v1/channels/{id}", protected(h.Channels.Archive))
	mux.Handle("POST /api/v1/channels/{id}/members", protected(h.Channels.Invite))
	mux.Handle("POST /api/v1/channels/{id}/join", protected(h.Channels.Join))
	mux.Handle("GET /api/v1/channels/{id}/members", protected(h.Channels.ListMembers))

	// DM channels
	mux.Handle("POST /api/v1/dms", protected(h.DMs.GetOrCreate))
	mux.Handle("GET /api/v1/dms", protected(h.DMs.List))
	mux.Handle("GET /api/v1/dms/{id}/members", protected(h.Channels.ListMembers))
}
