package handlers

import (
	"bytes"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
	"github.com/vedran77/pulse-channels/internal/domain"
	"github.com/vedran77/pulse-channels/internal/keys"
	"github.com/vedran77/pulse-channels/internal/repository/kv"
	"github.com/vedran77/pulse-channels/internal/service"
	"github.com/vedran77/pulse-channels/internal/transport/http/middleware"
)

const testSecret = "test-secret"

var testKeyDER = sync.OnceValue(func() []byte {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		panic(err)
	}
	der, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	if err != nil {
		panic(err)
	}
	return der
})

type apiClient struct {
	t      *testing.T
	server *httptest.Server
	token  string
}

type apiError struct {
	Error struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Fields  map[string]string `json:"fields"`
	} `json:"error"`
}

func newTestServer(t *testing.T) (*httptest.Server, uuid.UUID) {
	t.Helper()
	log := logs.GetLoggerFromLevel(slog.LevelDebug)

	store, err := kv.Open("", true, log, 16)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	channels := service.NewChannelService(store, store, keys.NewKeyManager(), keys.NewEncryptor(), log, 2)
	mux := http.NewServeMux()
	Routes(mux, middleware.Auth(testSecret), Handlers{
		Channels: NewChannelHandler(channels, log),
		DMs:      NewDMHandler(channels, log),
		Users:    NewUserHandler(service.NewUserService(store, log), log),
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server, uuid.New()
}

// newUser registers a user in ws and returns a client acting as it.
func newUser(t *testing.T, server *httptest.Server, ws uuid.UUID, username string) (*apiClient, uuid.UUID) {
	t.Helper()
	id := middleware.Identity{UserID: uuid.New(), WorkspaceID: ws}
	token, err := middleware.IssueToken(testSecret, id, time.Hour)
	require.NoError(t, err)

	c := &apiClient{t: t, server: server, token: token}
	status := c.do(http.MethodPut, "/api/v1/users/me", service.RegisterInput{Username: username, PublicKey: testKeyDER()}, nil)
	require.Equal(t, http.StatusOK, status)
	return c, id.UserID
}

func (c *apiClient) do(method, path string, body, out any) int {
	c.t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(c.t, err)
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, c.server.URL+path, reader)
	require.NoError(c.t, err)
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.server.Client().Do(req)
	require.NoError(c.t, err)
	defer resp.Body.Close()

	if out != nil {
		require.NoError(c.t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func Test_Auth_RejectsMissingAndForeignTokens(t *testing.T) {
	req := require.New(t)
	server, _ := newTestServer(t)

	anonymous := &apiClient{t: t, server: server}
	req.Equal(http.StatusUnauthorized, anonymous.do(http.MethodGet, "/api/v1/channels", nil, nil))

	forged, err := middleware.IssueToken("other-secret", middleware.Identity{UserID: uuid.New(), WorkspaceID: uuid.New()}, time.Hour)
	req.NoError(err)
	intruder := &apiClient{t: t, server: server, token: forged}
	req.Equal(http.StatusUnauthorized, intruder.do(http.MethodGet, "/api/v1/channels", nil, nil))

	req.Equal(http.StatusOK, anonymous.do(http.MethodGet, "/health", nil, nil))
}

func Test_Channels_CreateInviteArchive(t *testing.T) {
	req := require.New(t)
	server, ws := newTestServer(t)
	u1, _ := newUser(t, server, ws, "u1")
	u2, u2ID := newUser(t, server, ws, "u2")

	// Given u1 creates "eng"
	var ch domain.GroupChannel
	req.Equal(http.StatusCreated, u1.do(http.MethodPost, "/api/v1/channels", service.CreateChannelInput{Name: "eng"}, &ch))
	req.Equal("eng", ch.Name)
	req.Equal(ws, ch.WorkspaceID)

	// Then the name is taken
	var dup apiError
	req.Equal(http.StatusConflict, u1.do(http.MethodPost, "/api/v1/channels", service.CreateChannelInput{Name: "eng"}, &dup))
	req.Equal("ALREADY_EXISTS", dup.Error.Code)

	// And u2 cannot read it yet
	var forbidden apiError
	req.Equal(http.StatusForbidden, u2.do(http.MethodGet, "/api/v1/channels/"+ch.ID.String(), nil, &forbidden))
	req.Equal("PERMISSION_DENIED", forbidden.Error.Code)

	// When u1 invites u2 by username through the channel name
	var members []domain.ChannelMember
	invite := service.InviteInput{User: "u2", MemberKeyInput: service.MemberKeyInput{EncryptedPrivateKey: []byte{1, 2, 3}}}
	req.Equal(http.StatusOK, u1.do(http.MethodPost, "/api/v1/channels/eng/members", invite, &members))
	req.Len(members, 2)

	// Then u2 sees the channel and its own wrapped copy
	var listed []domain.GroupChannel
	req.Equal(http.StatusOK, u2.do(http.MethodGet, "/api/v1/channels", nil, &listed))
	req.Len(listed, 1)
	req.Equal(http.StatusOK, u2.do(http.MethodGet, "/api/v1/channels/"+ch.ID.String()+"/members", nil, &members))
	for _, m := range members {
		if m.MemberID == u2ID {
			req.Equal([]byte{1, 2, 3}, m.EncryptedPrivateKey)
		}
	}

	// When u2 archives it
	var archived domain.GroupChannel
	req.Equal(http.StatusOK, u2.do(http.MethodDelete, "/api/v1/channels/"+ch.ID.String(), nil, &archived))
	req.True(archived.IsDeleted)

	// Then it is gone for everyone
	req.Equal(http.StatusNotFound, u1.do(http.MethodGet, "/api/v1/channels/"+ch.ID.String(), nil, nil))
	req.Equal(http.StatusOK, u1.do(http.MethodGet, "/api/v1/channels", nil, &listed))
	req.Empty(listed)
}

func Test_Channels_Validation(t *testing.T) {
	req := require.New(t)
	server, ws := newTestServer(t)
	u1, _ := newUser(t, server, ws, "u1")

	var invalid apiError
	req.Equal(http.StatusBadRequest, u1.do(http.MethodPost, "/api/v1/channels", map[string]string{"name": "  "}, &invalid))
	req.Equal("VALIDATION_ERROR", invalid.Error.Code)
	req.Contains(invalid.Error.Fields, "name")

	var missingKey apiError
	req.Equal(http.StatusBadRequest, u1.do(http.MethodPost, "/api/v1/channels/eng/join", map[string]string{}, &missingKey))
	req.Contains(missingKey.Error.Fields, "channel_encrypted_private_key")

	req.Equal(http.StatusBadRequest, u1.do(http.MethodGet, "/api/v1/channels/not-a-uuid", nil, nil))

	var notFound apiError
	join := service.MemberKeyInput{EncryptedPrivateKey: []byte{1}}
	req.Equal(http.StatusNotFound, u1.do(http.MethodPost, "/api/v1/channels/eng/join", join, &notFound))
	req.Equal("NOT_FOUND", notFound.Error.Code)
}

func Test_DMs(t *testing.T) {
	req := require.New(t)
	server, ws := newTestServer(t)
	a, aID := newUser(t, server, ws, "a")
	b, bID := newUser(t, server, ws, "b")

	var first, second domain.DMChannel
	req.Equal(http.StatusOK, a.do(http.MethodPost, "/api/v1/dms", service.CreateDMInput{ReceiverID: bID}, &first))
	req.Equal(http.StatusOK, b.do(http.MethodPost, "/api/v1/dms", service.CreateDMInput{ReceiverID: aID}, &second))
	req.Equal(first.ID, second.ID)

	var members []domain.ChannelMember
	req.Equal(http.StatusOK, b.do(http.MethodGet, "/api/v1/dms/"+first.ID.String()+"/members", nil, &members))
	req.Len(members, 2)

	var self apiError
	req.Equal(http.StatusBadRequest, a.do(http.MethodPost, "/api/v1/dms", service.CreateDMInput{ReceiverID: aID}, &self))
	req.Equal("INVALID_ARGUMENT", self.Error.Code)

	req.Equal(http.StatusNotFound, a.do(http.MethodPost, "/api/v1/dms", service.CreateDMInput{ReceiverID: uuid.New()}, nil))

	var dms []domain.DMChannel
	req.Equal(http.StatusOK, a.do(http.MethodGet, "/api/v1/dms", nil, &dms))
	req.Len(dms, 1)
}

func Test_Users_Register(t *testing.T) {
	req := require.New(t)
	server, ws := newTestServer(t)
	u1, u1ID := newUser(t, server, ws, "u1")
	u2, _ := newUser(t, server, ws, "u2")

	var me domain.User
	req.Equal(http.StatusOK, u1.do(http.MethodGet, "/api/v1/users/me", nil, &me))
	req.Equal(u1ID, me.ID)
	req.Equal(testKeyDER(), me.PublicKey)

	var other domain.User
	req.Equal(http.StatusOK, u2.do(http.MethodGet, "/api/v1/users/"+u1ID.String(), nil, &other))
	req.Equal("u1", other.Username)

	var taken apiError
	req.Equal(http.StatusConflict, u2.do(http.MethodPut, "/api/v1/users/me", service.RegisterInput{Username: "U1", PublicKey: testKeyDER()}, &taken))
	req.Equal("ALREADY_EXISTS", taken.Error.Code)

	var blank apiError
	req.Equal(http.StatusBadRequest, u2.do(http.MethodPut, "/api/v1/users/me", service.RegisterInput{Username: " ", PublicKey: testKeyDER()}, &blank))
	req.Equal("VALIDATION_ERROR", blank.Error.Code)
	req.Contains(blank.Error.Fields, "username")

	var badKey apiError
	req.Equal(http.StatusBadRequest, u2.do(http.MethodPut, "/api/v1/users/me", service.RegisterInput{Username: "u2", PublicKey: []byte("nope")}, &badKey))
	req.Equal("INVALID_ARGUMENT", badKey.Error.Code)
}
