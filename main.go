package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"lucy_nodes/core"
	"lucy_nodes/db"
	"lucy_nodes/logging"
	"lucy_nodes/lucygen"
	"lucy_nodes/nodes"
	"lucy_nodes/staticfiles"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// serverShutdownTimeout bounds graceful shutdown of the static server.
const serverShutdownTimeout = 10 * time.Second

// cliOptions holds the parsed command-line flags.
type cliOptions struct {
	op          string
	prompt      string
	seed        int64
	seedSet     bool
	resolution  string
	orientation string
	input       string
	manifest    bool
	serve       bool
	serveAddr   string
}

func main() {
	if err := run(); err != nil {
		color.Red("Error: %v", err)
		os.Exit(1)
	}
}

func run() error {
	opts := parseFlags()

	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		fmt.Printf("Warning: .env file not found: %v\n", err)
	}

	cfg, err := core.LoadConfig()
	if err != nil {
		return err
	}

	logger, err := logging.NewLogger(cfg.DevMode, cfg.LogFile)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	if opts.manifest {
		return nodes.WriteManifest(os.Stdout, nodes.NewManifest(core.APIKeyEnvVar))
	}
	if opts.serve {
		return serveStatic(cfg, opts.serveAddr, logger)
	}

	index, closeIndex, err := openIndex(cfg, logger)
	if err != nil {
		return err
	}
	defer closeIndex()

	store, err := staticfiles.NewLocalStore(staticfiles.LocalStoreConfig{
		Dir:     cfg.StaticFilesDir,
		BaseURL: cfg.StaticBaseURL,
		Index:   index,
		Logger:  logger,
	})
	if err != nil {
		return err
	}

	return runNode(cfg, opts, store, logger)
}

func parseFlags() cliOptions {
	var opts cliOptions
	flag.StringVar(&opts.op, "op", "", "Operation to run (image_to_video, text_to_image, text_to_video, video_edit, or a model name)")
	flag.StringVar(&opts.prompt, "prompt", "", "Generation prompt")
	flag.Int64Var(&opts.seed, "seed", 0, "Generation seed (omitted when not set)")
	flag.StringVar(&opts.resolution, "resolution", "", "Output resolution for t2v (720p or 480p)")
	flag.StringVar(&opts.orientation, "orientation", "", "Output orientation for t2v (landscape or portrait)")
	flag.StringVar(&opts.input, "input", "", "Input media: file path, http(s) URL, or data URI")
	flag.BoolVar(&opts.manifest, "manifest", false, "Print the node library manifest as YAML and exit")
	flag.BoolVar(&opts.serve, "serve", false, "Serve the static files directory over HTTP")
	flag.StringVar(&opts.serveAddr, "addr", ":8088", "Listen address for -serve")
	flag.Parse()

	opts.seedSet = flagWasSet("seed")
	return opts
}

func flagWasSet(name string) bool {
	set := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == name {
			set = true
		}
	})
	return set
}

// openIndex opens the SQLite artifact index when STATIC_DB_PATH is set.
// Running without an index is supported; saves then skip recording.
func openIndex(cfg *core.Config, logger *logging.Logger) (staticfiles.Index, func(), error) {
	if cfg.StaticDBPath == "" {
		return nil, func() {}, nil
	}

	database, err := db.NewDatabase(cfg.StaticDBPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open artifact index: %w", err)
	}
	if err := database.Migrate(); err != nil {
		_ = database.Close()
		return nil, nil, fmt.Errorf("failed to migrate artifact index: %w", err)
	}

	logger.Info("artifact index opened", zap.String("path", cfg.StaticDBPath))
	return db.NewRepository(database), func() { _ = database.Close() }, nil
}

// serveStatic runs the static file server until interrupted.
func serveStatic(cfg *core.Config, addr string, logger *logging.Logger) error {
	server, err := staticfiles.NewServer(cfg.StaticFilesDir, addr, logger)
	if err != nil {
		return err
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()
	color.Green("Serving %s on %s", cfg.StaticFilesDir, addr)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case <-sigCh:
		ctx, cancel := context.WithTimeout(context.Background(), serverShutdownTimeout)
		defer cancel()
		return server.Shutdown(ctx)
	}
}

// runNode executes one generation node from the command line.
func runNode(cfg *core.Config, opts cliOptions, store staticfiles.Store, logger *logging.Logger) error {
	op, ok := lucygen.ParseOperation(opts.op)
	if !ok {
		return fmt.Errorf("unknown operation %q, expected one of: %s", opts.op, operationNames())
	}

	httpClient := cfg.GetHTTPClient(cfg.GenerationTimeout)
	client, err := lucygen.NewClient(lucygen.ClientConfig{
		BaseURL:    cfg.DecartBaseURL,
		HTTPClient: httpClient,
	}, logger)
	if err != nil {
		return err
	}
	encoder := lucygen.NewMediaEncoder(httpClient, logger)

	runner, err := nodes.NewRunner(client, encoder, store, core.EnvSecretResolver{}, logger)
	if err != nil {
		return err
	}

	params := core.ParameterMap{}
	if opts.prompt != "" {
		params[nodes.ParamPrompt] = opts.prompt
	}
	if opts.seedSet {
		params[nodes.ParamSeed] = opts.seed
	}
	if opts.resolution != "" {
		params[nodes.ParamResolution] = opts.resolution
	}
	if opts.orientation != "" {
		params[nodes.ParamOrientation] = opts.orientation
	}

	spec, _ := lucygen.SpecFor(op)
	if inputParam := nodes.MediaInputParam(spec); inputParam != "" {
		value, err := loadInputMedia(opts.input)
		if err != nil {
			return err
		}
		if value != nil {
			params[inputParam] = value
		}
	}

	color.Cyan("Running %s against %s...", spec.DisplayName, cfg.DecartBaseURL)
	art, err := runner.Execute(context.Background(), op, params, params)
	if err != nil {
		return err
	}

	color.Green("Saved %s output: %s", art.ArtifactKind(), art.ArtifactURL())
	return nil
}

// loadInputMedia turns the -input flag into a host-style parameter value:
// URLs and data URIs pass through as reference mappings, anything else is
// read from disk as raw bytes.
func loadInputMedia(input string) (any, error) {
	if input == "" {
		return nil, nil
	}

	if strings.HasPrefix(input, "http://") || strings.HasPrefix(input, "https://") {
		return map[string]any{"value": input}, nil
	}
	if strings.HasPrefix(input, "data:") {
		return map[string]any{"value": input}, nil
	}

	data, err := os.ReadFile(input)
	if err != nil {
		return nil, fmt.Errorf("failed to read input file %s: %w", input, err)
	}
	return data, nil
}

func operationNames() string {
	specs := lucygen.Operations()
	names := make([]string, 0, len(specs))
	for _, spec := range specs {
		names = append(names, string(spec.Op))
	}
	return strings.Join(names, ", ")
}
