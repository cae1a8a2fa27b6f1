// pulsectl is the operator tool for a pulse-channels deployment: it mints
// development tokens, generates member key pairs and registers users
// directly in the configured store.
package main

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/mama165/sdk-go/logs"
	"github.com/spf13/pflag"
	"github.com/vedran77/pulse-channels/internal/bootstrap"
	"github.com/vedran77/pulse-channels/internal/config"
	"github.com/vedran77/pulse-channels/internal/keys"
	"github.com/vedran77/pulse-channels/internal/service"
	"github.com/vedran77/pulse-channels/internal/transport/http/middleware"
)

const usage = `usage: pulsectl <command> [flags]

commands:
  token     mint a signed token for a user in a workspace
  keygen    generate an RSA member key pair (PEM)
  user add  register a user and its public key in the store
`

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdout io.Writer) error {
	if len(args) == 0 {
		fmt.Fprint(stdout, usage)
		return nil
	}

	switch args[0] {
	case "token":
		return tokenCmd(args[1:], stdout)
	case "keygen":
		return keygenCmd(args[1:], stdout)
	case "user":
		if len(args) < 2 || args[1] != "add" {
			return errors.New("usage: pulsectl user add [flags]")
		}
		return userAddCmd(args[2:], stdout)
	case "help", "-h", "--help":
		fmt.Fprint(stdout, usage)
		return nil
	default:
		return fmt.Errorf("unknown command %q", args[0])
	}
}

func tokenCmd(args []string, stdout io.Writer) error {
	var (
		user, workspace, secret string
		ttl                     time.Duration
	)
	flagSet := pflag.NewFlagSet("token", pflag.ContinueOnError)
	flagSet.StringVar(&user, "user", "", "user id (required)")
	flagSet.StringVar(&workspace, "workspace", "", "workspace id (required)")
	flagSet.StringVar(&secret, "secret", os.Getenv("JWT_SECRET"), "signing secret (default $JWT_SECRET)")
	flagSet.DurationVar(&ttl, "ttl", 24*time.Hour, "token lifetime")
	if err := flagSet.Parse(args); err != nil {
		return err
	}

	id, err := parseIdentity(user, workspace)
	if err != nil {
		return err
	}
	if secret == "" {
		return errors.New("--secret or JWT_SECRET is required")
	}

	token, err := middleware.IssueToken(secret, id, ttl)
	if err != nil {
		return fmt.Errorf("signing token: %w", err)
	}
	fmt.Fprintln(stdout, token)
	return nil
}

func keygenCmd(args []string, stdout io.Writer) error {
	var (
		out  string
		bits int
	)
	flagSet := pflag.NewFlagSet("keygen", pflag.ContinueOnError)
	flagSet.StringVarP(&out, "out", "o", "member", "output path prefix; writes <out>.key and <out>.pub")
	flagSet.IntVar(&bits, "bits", 2048, "RSA modulus size")
	if err := flagSet.Parse(args); err != nil {
		return err
	}
	if bits < 2048 {
		return errors.New("--bits must be at least 2048")
	}

	key, err := rsa.GenerateKey(rand.Reader, bits)
	if err != nil {
		return fmt.Errorf("generating key: %w", err)
	}
	private, err := x509.MarshalPKCS8PrivateKey(key)
	if err != nil {
		return fmt.Errorf("encoding private key: %w", err)
	}
	public, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	if err != nil {
		return fmt.Errorf("encoding public key: %w", err)
	}

	if err := writePEM(out+".key", "PRIVATE KEY", private, 0o600); err != nil {
		return err
	}
	if err := writePEM(out+".pub", "PUBLIC KEY", public, 0o644); err != nil {
		return err
	}

	fmt.Fprintf(stdout, "wrote %s.key and %s.pub\nfingerprint %s\n", out, out, keys.Fingerprint(public))
	return nil
}

func userAddCmd(args []string, stdout io.Writer) error {
	var (
		user, workspace, username, displayName, publicKeyPath string
	)
	flagSet := pflag.NewFlagSet("user add", pflag.ContinueOnError)
	flagSet.StringVar(&user, "id", "", "user id (default: random)")
	flagSet.StringVar(&workspace, "workspace", "", "workspace id (required)")
	flagSet.StringVar(&username, "username", "", "username (required)")
	flagSet.StringVar(&displayName, "display-name", "", "display name (default: username)")
	flagSet.StringVar(&publicKeyPath, "public-key", "", "PEM public key file from keygen (required)")
	if err := flagSet.Parse(args); err != nil {
		return err
	}

	if user == "" {
		user = uuid.NewString()
	}
	id, err := parseIdentity(user, workspace)
	if err != nil {
		return err
	}
	if username == "" || publicKeyPath == "" {
		return errors.New("--username and --public-key are required")
	}
	der, err := readPEM(publicKeyPath)
	if err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	log := logs.GetLoggerFromString(cfg.LogLevel)

	ctx := context.Background()
	backend, err := bootstrap.OpenStore(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("opening %s store: %w", cfg.StoreDriver, err)
	}
	defer backend.Store.Close()

	registered, err := service.NewUserService(backend.Store, log).Register(ctx, id.UserID, id.WorkspaceID, service.RegisterInput{
		Username:    username,
		DisplayName: displayName,
		PublicKey:   der,
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(stdout, "registered %s as %s in workspace %s\n", registered.Username, registered.ID, registered.WorkspaceID)
	return nil
}

func parseIdentity(user, workspace string) (middleware.Identity, error) {
	userID, err := uuid.Parse(user)
	if err != nil {
		return middleware.Identity{}, fmt.Errorf("invalid user id %q", user)
	}
	workspaceID, err := uuid.Parse(workspace)
	if err != nil {
		return middleware.Identity{}, fmt.Errorf("invalid workspace id %q", workspace)
	}
	return middleware.Identity{UserID: userID, WorkspaceID: workspaceID}, nil
}

func writePEM(path, blockType string, der []byte, mode os.FileMode) error {
	data := pem.EncodeToMemory(&pem.Block{Type: blockType, Bytes: der})
	if err := os.WriteFile(path, data, mode); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

func readPEM(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	block, _ := pem.Decode(data)
	if block == nil {
		return nil, fmt.Errorf("%s: no PEM block", path)
	}
	return block.Bytes, nil
}
