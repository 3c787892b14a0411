package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/skillswap/internal/client/client"
	"github.com/dmitrijs2005/skillswap/internal/client/config"
	"github.com/dmitrijs2005/skillswap/internal/rpc"
	"github.com/spf13/cobra"
)

// API is the set of calls the commands make.
type API interface {
	BookSession(ctx context.Context, mentorID, skill string) (*rpc.BookSessionResponse, error)
	ConfirmAttendance(ctx context.Context, sessionID, otp string) (string, error)
	CancelSession(ctx context.Context, sessionID string) (string, error)
	SubmitReview(ctx context.Context, sessionID string, rating int, comment string) (string, error)
	GetSession(ctx context.Context, sessionID string) (*rpc.Session, error)
	ListSessions(ctx context.Context, role, status string, limit int) ([]rpc.Session, error)
	GetWallet(ctx context.Context, limit int) (*rpc.Wallet, error)
	ExportStatement(ctx context.Context) (*rpc.ExportStatementResponse, error)
	ListReviews(ctx context.Context, mentorID string, limit int) ([]rpc.Review, error)
	Close() error
}

// Connector opens an API for the resolved configuration.
type Connector func(cfg *config.Config) (API, error)

// DialGRPC connects to the server named in cfg.
func DialGRPC(cfg *config.Config) (API, error) {
	return client.NewGRPCClient(cfg.ServerAddress, cfg.AccessToken)
}

type App struct {
	connect Connector
	config  *config.Config
	api     API
	root    *cobra.Command

	configPath string
	server     string
	token      string
	timeout    time.Duration
}

func NewApp(connect Connector) *App {
	a := &App{connect: connect}
	a.root = a.newRootCommand()
	return a
}

// Command returns the root command.
func (a *App) Command() *cobra.Command {
	return a.root
}

// Close releases the connection opened by the last command, if any.
func (a *App) Close() error {
	if a.api == nil {
		return nil
	}
	err := a.api.Close()
	a.api = nil
	return err
}

// setup resolves the configuration (file, then flags) and connects.
func (a *App) setup(cmd *cobra.Command, _ []string) error {
	path, required := a.configPath, a.configPath != ""
	if path == "" {
		path = config.DefaultPath()
	}

	cfg, err := config.Load(path, required)
	if err != nil {
		return err
	}
	if a.server != "" {
		cfg.ServerAddress = a.server
	}
	if a.token != "" {
		cfg.AccessToken = a.token
	}
	if a.timeout > 0 {
		cfg.Timeout = a.timeout
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	api, err := a.connect(cfg)
	if err != nil {
		return fmt.Errorf("connect %s: %w", cfg.ServerAddress, err)
	}

	a.config = cfg
	a.api = api
	return nil
}

// callContext bounds one command by the configured timeout.
func (a *App) callContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return context.WithTimeout(cmd.Context(), a.config.Timeout)
}
