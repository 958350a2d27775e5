package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/tokenbridge/internal/client/client"
	"github.com/dmitrijs2005/tokenbridge/internal/client/config"
	"github.com/dmitrijs2005/tokenbridge/internal/common"
	"github.com/dmitrijs2005/tokenbridge/internal/filex"
)

const defaultCallPath = "/api/resource/me"

// Client is what the commands need from the network side.
type Client interface {
	Register(ctx context.Context, userName string, password []byte) (*client.RegisterResult, error)
	Login(ctx context.Context, userName string, password []byte) (string, error)
	Call(ctx context.Context, token, path string) ([]byte, error)
}

type App struct {
	config *config.Config
	client Client
	reader *bufio.Reader
	out    io.Writer
	errOut io.Writer
	fd     int
}

func NewApp(c *config.Config) *App {
	return &App{
		config: c,
		client: client.NewHTTPClient(c.IssuerURL, c.GuardianURL, c.RequestTimeout),
		reader: bufio.NewReader(os.Stdin),
		out:    os.Stdout,
		errOut: os.Stderr,
		fd:     int(os.Stdin.Fd()),
	}
}

// Run executes one command and returns the process exit code.
func (a *App) Run(ctx context.Context, args []string) int {
	if len(args) == 0 {
		a.usage()
		return 2
	}

	cmd, rest := args[0], args[1:]

	var err error
	switch cmd {
	case "register":
		err = a.register(ctx, rest)
	case "login":
		err = a.login(ctx, rest)
	case "call":
		err = a.call(ctx, rest)
	case "gen-secret":
		err = a.genSecret(rest)
	case "help", "-h", "--help":
		a.usage()
		return 0
	default:
		fmt.Fprintln(a.errOut, "Unknown command:", cmd)
		a.usage()
		return 2
	}

	if err != nil {
		fmt.Fprintln(a.errOut, "error:", describe(err))
		return 1
	}
	return 0
}

func (a *App) usage() {
	fmt.Fprintln(a.errOut, "Usage: tokenbridge [-i issuer] [-g guardian] [-t tokenfile] <register|login|call|gen-secret> [args]")
}

func describe(err error) string {
	if errors.Is(err, client.ErrUnauthorized) {
		return "unauthorized (wrong credentials or expired token, try login)"
	}
	return err.Error()
}

// credentials takes the username from args or a prompt, then the password.
func (a *App) credentials(args []string) (string, []byte, error) {
	var userName string
	if len(args) > 0 {
		userName = strings.TrimSpace(args[0])
	} else {
		var err error
		userName, err = GetSimpleText(a.reader, "Enter user name", a.out)
		if err != nil {
			return "", nil, err
		}
	}

	password, err := GetPassword(a.reader, a.fd, a.out)
	if err != nil {
		return "", nil, err
	}
	return userName, password, nil
}

func (a *App) register(ctx context.Context, args []string) error {
	userName, password, err := a.credentials(args)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	res, err := a.client.Register(ctx, userName, password)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Registered %s (id %s)\n", res.Username, res.ID)
	return nil
}

func (a *App) login(ctx context.Context, args []string) error {
	userName, password, err := a.credentials(args)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	token, err := a.client.Login(ctx, userName, password)
	if err != nil {
		return err
	}

	if err := filex.WriteFileAtomic(a.config.TokenFile, []byte(token+"\n"), 0o600); err != nil {
		return fmt.Errorf("save token: %w", err)
	}

	fmt.Fprintf(a.out, "Login successful, token saved to %s\n", a.config.TokenFile)
	return nil
}

func (a *App) call(ctx context.Context, args []string) error {
	path := defaultCallPath
	if len(args) > 0 {
		path = args[0]
	}

	raw, err := os.ReadFile(a.config.TokenFile)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return errors.New("no token, run login first")
		}
		return fmt.Errorf("read token: %w", err)
	}
	token := strings.TrimSpace(string(raw))

	body, err := a.client.Call(ctx, token, path)
	if err != nil {
		return err
	}

	fmt.Fprintln(a.out, strings.TrimSpace(string(body)))
	return nil
}

// genSecret prints a random hex secret long enough for both services.
func (a *App) genSecret(args []string) error {
	n := common.MinSecretLength
	if len(args) > 0 {
		v, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("bad byte count %q: %w", args[0], err)
		}
		n = v
	}
	// hex doubles the length; the configured string is what gets used
	if 2*n < common.MinSecretLength {
		return fmt.Errorf("at least %d random bytes are needed", (common.MinSecretLength+1)/2)
	}

	s, err := common.MakeRandHexString(n)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, s)
	return nil
}
