// Package main is the lapbot CLI entry point.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/hyperjump/lapbot/internal/catalog"
	"github.com/hyperjump/lapbot/internal/chat"
	"github.com/hyperjump/lapbot/internal/cli"
	"github.com/hyperjump/lapbot/internal/config"
	"github.com/hyperjump/lapbot/internal/metrics"
	"github.com/hyperjump/lapbot/internal/query"
	"github.com/hyperjump/lapbot/internal/render"
	"github.com/hyperjump/lapbot/internal/server"
	"github.com/hyperjump/lapbot/internal/watcher"
	"github.com/hyperjump/lapbot/pkg/utils"
)

var version = "dev"

const defaultConfigPath = "/usr/local/etc/lapbot/config.yaml"

// loadConfig loads .env and then the config at path. When path is the default, config.yaml in
// the current directory wins if present; when neither exists the built-in defaults are used.
// Returns the config and the path that was actually loaded ("" for defaults).
func loadConfig(path string) (*config.Config, string, error) {
	if err := config.LoadDotEnv(); err != nil {
		return nil, "", err
	}
	if path == defaultConfigPath {
		if cwd, cwdErr := os.Getwd(); cwdErr == nil {
			fallback := filepath.Join(cwd, "config.yaml")
			if _, statErr := os.Stat(fallback); statErr == nil {
				cfg, loadErr := config.Load(fallback)
				if loadErr != nil {
					return nil, "", loadErr
				}
				return cfg, fallback, nil
			}
		}
		if _, statErr := os.Stat(path); errors.Is(statErr, os.ErrNotExist) {
			cfg, err := config.Default()
			return cfg, "", err
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}
	command := os.Args[1]
	switch command {
	case "server":
		runServer()
	case "ask":
		runAsk()
	case "status":
		runStatus()
	case "init":
		runInit()
	case "version", "--version", "-v":
		fmt.Printf("lapbot version %s\n", version)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

// components holds the pieces shared by every command.
type components struct {
	Store    *catalog.Store
	Renderer *render.Renderer
	Bot      *chat.Bot
	Metrics  *metrics.Metrics
}

func initializeComponents(cfg *config.Config, logger *zap.Logger) *components {
	store := catalog.Open(cfg.Data.SourcePath,
		catalog.WithLogger(logger),
		catalog.WithSheet(cfg.Data.Sheet),
		catalog.WithTable(cfg.Data.Table),
	)
	renderer := render.NewRenderer(render.Options{
		MarketplaceDomain: cfg.Chat.MarketplaceDomain,
		SearchURL:         cfg.Chat.SearchURL,
		EscapeFields:      cfg.Render.EscapeFields,
	})
	m := metrics.New()
	bot := chat.NewBot(store, renderer,
		chat.WithLogger(logger),
		chat.WithMetrics(m),
		chat.WithRunner(query.NewEngine(cfg.Chat.DefaultLimit)),
	)
	return &components{Store: store, Renderer: renderer, Bot: bot, Metrics: m}
}

func runServer() {
	fs := flag.NewFlagSet("server", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	debug := fs.Bool("debug", false, "enable debug logging (queries, requests, file events)")
	_ = fs.Parse(os.Args[2:])

	cfg, resolvedConfigPath, err := loadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	debugMode := cfg.Debug || *debug
	logger, err := utils.NewLogger(debugMode)
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("config loaded",
		zap.String("config_path", resolvedConfigPath),
		zap.String("source", cfg.Data.SourcePath),
		zap.Bool("debug", debugMode),
	)

	c := initializeComponents(cfg, logger)

	watchCtx, watchCancel := context.WithCancel(context.Background())
	defer watchCancel()
	if cfg.Data.WatchOrDefault() && c.Store.Err() == nil {
		watchSvc := watcher.NewWatcher(cfg.Data.SourcePath, func(path string) {
			c.Store.MarkStale()
			logger.Warn("listing table changed on disk; restart to load it", zap.String("path", path))
		}, watcher.WithLogger(logger))
		if err := watchSvc.Start(watchCtx); err != nil {
			logger.Warn("Failed to start watcher", zap.Error(err))
		}
	}

	srv := server.NewServer(c.Bot, chat.NewRegistry(), cfg, logger, c.Metrics)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down...")
	watchCancel()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Stop(ctx)
}

func printAskUsage(fs *flag.FlagSet) {
	fmt.Fprintf(fs.Output(), "Usage: lapbot ask [flags] <query>\n\n")
	fmt.Fprintf(fs.Output(), "Query is all remaining arguments joined by spaces. Multi-word queries work with or without quotes.\n\n")
	fs.PrintDefaults()
	fmt.Fprintf(fs.Output(), `
Examples:
  lapbot ask top 3 hp laptops with 8gb ram under 700
  lapbot ask "cheapest dell"
  lapbot ask --output json best rated asus
`)
}

// buildQuery joins all positional args with spaces so multi-word queries
// work the same with or without shell quoting.
func buildQuery(args []string) string {
	return strings.TrimSpace(strings.Join(args, " "))
}

// argsReorder moves any flags (and their values) that appear after the query
// to the front of the slice so that flag.Parse() sees them. Go's flag package
// stops at the first non-flag argument.
func argsReorder(args []string) []string {
	for i, a := range args {
		if len(a) > 0 && a[0] == '-' {
			if i == 0 {
				return args
			}
			reordered := make([]string, 0, len(args))
			reordered = append(reordered, args[i:]...)
			reordered = append(reordered, args[:i]...)
			return reordered
		}
	}
	return args
}

func runAsk() {
	fs := flag.NewFlagSet("ask", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	outputFormat := fs.String("output", "text", "output format: text, json or html")
	fs.Usage = func() { printAskUsage(fs) }
	_ = fs.Parse(argsReorder(os.Args[2:]))

	queryStr := buildQuery(fs.Args())
	if queryStr == "" {
		printAskUsage(fs)
		os.Exit(1)
	}
	format, err := cli.ParseOutputFormat(*outputFormat)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	cfg, _, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger, err := utils.NewLogger(cfg.Debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	c := initializeComponents(cfg, logger)
	if code := ask(os.Stdout, c, queryStr, format); code != 0 {
		os.Exit(code)
	}
}

// ask answers one query and writes it to w. It returns the process exit code.
func ask(w io.Writer, c *components, queryStr string, format cli.OutputFormat) int {
	ans, err := c.Bot.Answer(queryStr)
	if err != nil {
		icon, msg := chat.ErrorMessage(err)
		if werr := cli.WriteError(w, icon, msg, format); werr != nil {
			fmt.Fprintf(os.Stderr, "Output failed: %v\n", werr)
		}
		return 1
	}
	if err := cli.WriteAnswer(w, ans, c.Renderer, format); err != nil {
		fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
		return 1
	}
	return 0
}

func runStatus() {
	fs := flag.NewFlagSet("status", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	outputFormat := fs.String("output", "text", "output format: text or json")
	_ = fs.Parse(os.Args[2:])

	format, err := cli.ParseOutputFormat(*outputFormat)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	cfg, _, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	c := initializeComponents(cfg, zap.NewNop())
	if err := cli.WriteStatus(os.Stdout, c.Store.Summary(), format); err != nil {
		fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
		os.Exit(1)
	}
	if c.Store.Err() != nil {
		os.Exit(1)
	}
}

func runInit() {
	fs := flag.NewFlagSet("init", flag.ExitOnError)
	output := fs.String("o", "config.yaml", "path to write the config to")
	force := fs.Bool("force", false, "overwrite an existing file")
	_ = fs.Parse(os.Args[2:])

	if err := initConfig(*output, *force); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	fmt.Printf("Wrote default config to %s\n", *output)
}

// initConfig writes the default config to path. An existing file is kept unless force is set.
func initConfig(path string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists (use -force to overwrite)", path)
		}
	}
	cfg := &config.Config{}
	config.ApplyDefaults(cfg)
	return config.Save(path, cfg)
}

func printUsage() {
	fmt.Print(`lapbot - laptop listing chat bot

Usage:
  lapbot <command> [flags]

Commands:
  server    Start the chat server
  ask       Answer one query from the command line
  status    Show the listing table summary
  init      Write a default config.yaml
  version   Show version
  help      Show this help

Run 'lapbot <command> -h' for command flags.

Examples:
  lapbot server --config ./config.yaml
  lapbot ask top 3 laptops under 700
  lapbot status --output json
  lapbot init -o ./config.yaml
`)
}
