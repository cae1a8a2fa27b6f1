package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/vedran77/pulse-channels/internal/keys"
	"github.com/vedran77/pulse-channels/internal/transport/http/middleware"
)

func Test_Token(t *testing.T) {
	req := require.New(t)
	user, workspace := uuid.New(), uuid.New()
	var out bytes.Buffer

	err := run([]string{"token", "--user", user.String(), "--workspace", workspace.String(), "--secret", "s3cret"}, &out)
	req.NoError(err)

	id, err := middleware.ParseToken(strings.TrimSpace(out.String()), "s3cret")
	req.NoError(err)
	req.Equal(user, id.UserID)
	req.Equal(workspace, id.WorkspaceID)

	err = run([]string{"token", "--user", "nope", "--workspace", workspace.String(), "--secret", "s"}, &out)
	req.ErrorContains(err, "invalid user id")
}

func Test_KeygenThenUserAdd(t *testing.T) {
	req := require.New(t)
	dir := t.TempDir()
	prefix := filepath.Join(dir, "alice")
	var out bytes.Buffer

	req.NoError(run([]string{"keygen", "-o", prefix}, &out))
	req.Contains(out.String(), "fingerprint")

	info, err := os.Stat(prefix + ".key")
	req.NoError(err)
	req.Equal(os.FileMode(0o600), info.Mode().Perm())

	der, err := readPEM(prefix + ".pub")
	req.NoError(err)
	_, err = keys.ParsePublicKey(der)
	req.NoError(err)

	// Given a badger store on disk
	t.Setenv("STORE_DRIVER", "badger")
	t.Setenv("BADGER_PATH", filepath.Join(dir, "db"))
	t.Setenv("BADGER_IN_MEMORY", "false")

	out.Reset()
	workspace := uuid.NewString()
	err = run([]string{"user", "add", "--workspace", workspace, "--username", "alice", "--public-key", prefix + ".pub"}, &out)
	req.NoError(err)
	req.Contains(out.String(), "registered alice")

	// Then the username is taken for a second user
	err = run([]string{"user", "add", "--workspace", workspace, "--username", "ALICE", "--public-key", prefix + ".pub"}, &out)
	req.ErrorContains(err, "username already taken")
}

func Test_UnknownCommand(t *testing.T) {
	req := require.New(t)
	var out bytes.Buffer

	req.Error(run([]string{"frobnicate"}, &out))
	req.NoError(run(nil, &out))
	req.Contains(out.String(), "usage")
}
