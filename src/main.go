package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"

	"twitter-dashboard/src/dashboard"
	"twitter-dashboard/src/filter"
	"twitter-dashboard/src/loader"
	"log/slog"

	"gopkg.in/yaml.v3"
)

// Config struct for YAML config file
type Config struct {
	InputDir     string `yaml:"input"`
	HTTPHost     string `yaml:"http_host"`
	HTTPPort     int    `yaml:"http_port"`
	LogDir       string `yaml:"log_dir"`
	Title        string `yaml:"title"`
	TopWords     int    `yaml:"top_words"`
	TopUsers     int    `yaml:"top_users"`
	SampleRows   int    `yaml:"sample_rows"`
	StopwordFile string `yaml:"stopword_file"`
	MQHost       string `yaml:"mq_host"`
	MQPort       int    `yaml:"mq_port"`
	MQQueue      string `yaml:"mq_queue"`
	Verbose      bool   `yaml:"verbose"`
}

func main() {
	configPath := flag.String("config", "../config/config.yaml", "Path to YAML config file")
	flag.Parse()

	// Load config from YAML file
	cfg, err := loadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	applyConfigDefaults(cfg)

	// Require log_dir to be present and non-empty
	if cfg.LogDir == "" {
		fmt.Fprintln(os.Stderr, "ERROR: 'log_dir' must be defined in the config file and cannot be empty.")
		os.Exit(1)
	}

	// Set up slog logger to write to a file in the specified log_dir
	logger, logFile, err := setupLogger(cfg.LogDir)
	if err != nil {
		log.Fatalf("Failed to set up logger: %v", err)
	}
	defer logFile.Close()
	slog.SetDefault(logger)

	slog.Info("Starting twitter analysis dashboard", "input", cfg.InputDir)

	// Optional display-time stopword filter on top of whatever the
	// cleaning step already removed.
	var stopwords *filter.StopwordFilter
	if cfg.StopwordFile != "" {
		stopwords = filter.NewStopwordFilter()
		if err := stopwords.LoadFromFile(cfg.StopwordFile); err != nil {
			slog.Error("Failed to load stopword file", "error", err)
			os.Exit(1)
		}
		slog.Info("Loaded stopword filter", "words", stopwords.Len())
	}

	// Load the batch pipeline outputs. A missing file is the one fatal
	// error path: name the file and the step that produces it, then
	// stop before any server starts.
	tbls, err := loader.Load(cfg.InputDir, cfg.SampleRows, stopwords)
	if err != nil {
		var missing *loader.MissingInputError
		if errors.As(err, &missing) {
			fmt.Fprintf(os.Stderr, "ERROR: A required CSV file was not found: %s\n", missing.File)
			fmt.Fprintf(os.Stderr, "Please run %s and make sure its outputs are in %s.\n", missing.Step, cfg.InputDir)
		} else {
			fmt.Fprintf(os.Stderr, "ERROR: Failed to load analysis outputs: %v\n", err)
		}
		slog.Error("Failed to load analysis outputs", "error", err)
		os.Exit(1)
	}

	page, err := dashboard.RenderPage(tbls, pageConfig(cfg))
	if err != nil {
		slog.Error("Failed to render dashboard page", "error", err)
		os.Exit(1)
	}
	snap := dashboard.NewSnapshot(page)

	// When an MQ host is configured the batch pipeline can announce
	// rewritten outputs and the dashboard reloads in place. Without it
	// the snapshot rendered above is served for the process lifetime.
	if cfg.MQHost != "" {
		if err := startRefreshListener(cfg, stopwords, snap); err != nil {
			slog.Error("Failed to start refresh listener", "error", err)
			os.Exit(1)
		}
	}

	addr := fmt.Sprintf("%s:%d", cfg.HTTPHost, cfg.HTTPPort)
	fmt.Printf("Starting dashboard. Open http://%s/ in your browser.\n", addr)
	slog.Info("Serving dashboard", "addr", addr)

	if err := http.ListenAndServe(addr, dashboard.NewMux(snap)); err != nil {
		slog.Error("HTTP server failed", "error", err)
		os.Exit(1)
	}
}

// loadConfig loads the YAML config file into a Config struct.
func loadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// applyConfigDefaults fills in the optional knobs the config file may
// leave out. log_dir deliberately has no default.
func applyConfigDefaults(cfg *Config) {
	if cfg.InputDir == "" {
		cfg.InputDir = "."
	}
	if cfg.HTTPHost == "" {
		cfg.HTTPHost = "127.0.0.1"
	}
	if cfg.HTTPPort <= 0 {
		cfg.HTTPPort = 8050
	}
	if cfg.Title == "" {
		cfg.Title = "Social Media Analysis Dashboard"
	}
	if cfg.TopWords <= 0 {
		cfg.TopWords = 20
	}
	if cfg.TopUsers <= 0 {
		cfg.TopUsers = 10
	}
	if cfg.SampleRows <= 0 {
		cfg.SampleRows = 1000
	}
	if cfg.MQPort <= 0 {
		cfg.MQPort = 5672
	}
	if cfg.MQQueue == "" {
		cfg.MQQueue = "dashboard_refresh"
	}
}

func pageConfig(cfg *Config) dashboard.PageConfig {
	return dashboard.PageConfig{
		Title:    cfg.Title,
		TopWords: cfg.TopWords,
		TopUsers: cfg.TopUsers,
	}
}

// setupLogger creates the log directory if needed and returns a slog.Logger that writes to a file.
func setupLogger(logDir string) (*slog.Logger, *os.File, error) {
	if logDir == "" {
		return nil, nil, fmt.Errorf("logDir must be set in config; refusing to use a default")
	}
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return nil, nil, err
	}
	logPath := filepath.Join(logDir, "dashboard.log")
	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, nil, err
	}
	logger := slog.New(slog.NewTextHandler(logFile, nil))
	return logger, logFile, nil
}
