package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/uframe"
	"github.com/fwojciec/uframe/fs"
	uhttp "github.com/fwojciec/uframe/http"
	"github.com/fwojciec/uframe/m2m"
	uprom "github.com/fwojciec/uframe/prometheus"
	"github.com/fwojciec/uframe/singleflight"
	uslog "github.com/fwojciec/uframe/slog"
	"github.com/fwojciec/uframe/sqlite"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	ctx := context.Background()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Database path used when --db is not given. Set before calling Run().
	DBPath string

	// Config file path used when --config is not given. Empty means the
	// default location.
	ConfigPath string

	// SQLite database, opened only by commands that need snapshots.
	DB *sqlite.DB

	// Transport overrides the HTTP transport, for end-to-end testing.
	Transport uframe.Transport

	// Registry collects request metrics.
	Registry *prometheus.Registry
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		DBPath:   defaultDBPath(),
		Registry: prometheus.NewRegistry(),
	}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.DB != nil {
		return m.DB.Close()
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	configPath := configPathFromArgs(args)
	if configPath == "" {
		configPath = os.Getenv("UFRAME_CONFIG")
	}
	if configPath == "" {
		configPath = m.ConfigPath
	}
	cfg, err := LoadConfig(configPath)
	if err != nil {
		fmt.Fprintf(stderr, "error: %s\n", uframe.ErrorMessage(err))
		return err
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("uframe"),
		kong.Description("Search a UFrame instance's catalog, deployments and data requests"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}),
		kong.Bind(deps),
		kong.Resolvers(cfg.Resolver()),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		err := uframe.Errorf(uframe.EINVALID, "no command specified. Run 'uframe --help' to see available commands")
		fmt.Fprintf(stderr, "error: %s\n", uframe.ErrorMessage(err))
		return err
	}

	if cmd := args[0]; cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		fmt.Fprintf(stderr, "error: %s\n", err)
		return err
	}

	deps.Logger = newLogger(stderr, cli.LogLevel)
	defer m.Close()

	if err := m.wire(cli, kongCtx.Command(), deps); err != nil {
		fmt.Fprintf(stderr, "error: %s\n", uframe.ErrorMessage(err))
		return err
	}

	err = kongCtx.Run(deps)

	if cli.MetricsFile != "" {
		if werr := uprom.WriteTextfile(cli.MetricsFile, m.Registry); werr != nil {
			fmt.Fprintf(stderr, "error: %s\n", uframe.ErrorMessage(werr))
			if err == nil {
				err = werr
			}
		}
	}
	return err
}

// wire builds the services the selected command needs.
func (m *Main) wire(cli *CLI, command string, deps *Dependencies) error {
	logger := deps.Logger
	name := strings.Fields(command)[0]

	needsDB := name == "toc" || cli.Snapshot != ""
	if needsDB {
		path := cli.DB
		if path == "" {
			path = m.DBPath
		}
		m.DB = sqlite.NewDB(path)
		if err := m.DB.Open(); err != nil {
			fmt.Fprintf(deps.Stderr, "Hint: Set UFRAME_DB to use a different database path\n")
			return uframe.Errorf(uframe.ECONFIG, "failed to open database at %q: %v", path, err)
		}
		deps.Snapshots = uslog.NewLoggingSnapshotService(sqlite.NewSnapshotService(m.DB), logger)
	}

	var client *m2m.Client
	if cli.BaseURL != "" {
		transport, err := m.transport(cli)
		if err != nil {
			return err
		}
		if client, err = m2m.NewClient(cli.BaseURL, uslog.NewLoggingTransport(transport, logger)); err != nil {
			return err
		}
		deps.BaseURL = client.BaseURL()

		catalogs := m2m.NewCatalogService(client, logger)
		deps.TOC = catalogs
		deps.Catalogs = catalogs
		deps.Deployments = uslog.NewLoggingDeploymentService(m2m.NewDeploymentService(client, logger), logger)
		deps.Requests = m2m.NewRequestBuilder(client, logger)
		deps.Dispatcher = uslog.NewLoggingDispatcher(m2m.NewDispatcher(client), logger)
	}

	switch {
	case cli.TOCFile != "":
		_, toc, err := fs.ReadTOC(cli.TOCFile)
		if err != nil {
			return err
		}
		deps.Catalogs = m2m.NewStaticCatalogService(toc, logger)
	case cli.Snapshot != "":
		toc, err := m.snapshotTOC(deps, cli.Snapshot)
		if err != nil {
			return err
		}
		deps.Catalogs = m2m.NewStaticCatalogService(toc, logger)
	}
	if deps.Catalogs != nil {
		deps.Catalogs = singleflight.NewCatalogService(uslog.NewLoggingCatalogService(deps.Catalogs, logger))
	}

	if client == nil && needsInstance(command, deps) {
		return uframe.Errorf(uframe.ECONFIG, "no UFrame base URL specified. Use --base-url or set UFRAME_BASE_URL")
	}
	return nil
}

func (m *Main) transport(cli *CLI) (uframe.Transport, error) {
	if m.Transport != nil {
		return uprom.NewTransport(m.Transport, m.Registry)
	}
	t := uhttp.NewTransport(
		uhttp.WithTimeout(cli.Timeout),
		uhttp.WithBasicAuth(cli.User, cli.Token),
		uhttp.WithInsecureSkipVerify(cli.Insecure),
		uhttp.WithRateLimit(cli.Rate),
	)
	return uprom.NewTransport(t, m.Registry)
}

// snapshotTOC loads the TOC stored under id. "latest" selects the newest
// snapshot of the configured instance.
func (m *Main) snapshotTOC(deps *Dependencies, id string) (*uframe.TOC, error) {
	snap, err := findSnapshot(deps, id)
	if err != nil {
		return nil, err
	}
	return uframe.ParseTOC(snap.Content)
}

// needsInstance reports whether the command cannot run without a base URL.
func needsInstance(command string, deps *Dependencies) bool {
	fields := strings.Fields(command)
	switch fields[0] {
	case "instruments", "subsites", "streams", "parameters":
		return deps.Catalogs == nil
	case "requests", "deployments", "send":
		return true
	case "toc":
		return len(fields) > 1 && fields[1] == "save"
	}
	return false
}

func newLogger(w io.Writer, level string) *slog.Logger {
	var l slog.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		l = slog.LevelWarn
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: l}))
}

func defaultDBPath() string {
	if path := os.Getenv("UFRAME_DB"); path != "" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "uframe.db"
	}
	dir := filepath.Join(home, ".uframe")
	_ = os.MkdirAll(dir, 0755)
	return filepath.Join(dir, "uframe.db")
}
