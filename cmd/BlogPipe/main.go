package main

import (
	"flag"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"github.com/ridhwanrazaliwork/BlogPipe/internal/api"
	"github.com/ridhwanrazaliwork/BlogPipe/internal/genai"
	"github.com/ridhwanrazaliwork/BlogPipe/internal/storage"
	"github.com/ridhwanrazaliwork/BlogPipe/internal/store"
	"github.com/ridhwanrazaliwork/BlogPipe/internal/util"
)

// Default configuration constants
const (
	// DefaultStateDir is the default directory for BlogPipe state data
	DefaultStateDir = "/var/lib/blogpipe"
	// DefaultDBFileName is the default SQLite database filename
	DefaultDBFileName = "blogpipe.db"
)

func main() {
	// Initialize structured logger
	initializeLogger()

	// Load environment configuration
	config := loadEnvironmentConfig()

	// Parse command line flags
	flags := parseCommandLineFlags(config)

	// Build module options
	genaiOpts := buildGenAIOptions(flags)
	storageOpts := buildStorageOptions(flags)
	storeOpts := buildStoreOptions(flags)
	apiOpts := buildAPIOptions(flags)

	// Start the service
	slog.Info("Bootstrapping BlogPipe with configured modules")
	slog.Debug("Module options counts", "genai", len(genaiOpts), "storage", len(storageOpts), "store", len(storeOpts), "api", len(apiOpts))
	if err := api.Run(genaiOpts, storageOpts, storeOpts, apiOpts); err != nil {
		slog.Error("BlogPipe failed to run", "error", err)
		os.Exit(1)
	}
	slog.Info("BlogPipe exited successfully")
}

// Config holds environment configuration
type Config struct {
	OpenAIKey      string
	Model          string
	BaseURL        string
	Bucket         string
	DBDSN          string
	StateDir       string
	PromptTemplate string
	APIAddr        string
}

// Flags holds command line flag values
type Flags struct {
	openaiKey      *string
	model          *string
	baseURL        *string
	bucket         *string
	dbDSN          *string
	stateDir       *string
	promptTemplate *string
	apiAddr        *string
}

// initializeLogger sets up structured logging; BLOGPIPE_DEBUG enables debug level.
func initializeLogger() {
	level := slog.LevelInfo
	if util.ParseBoolEnv("BLOGPIPE_DEBUG", false) {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
}

// loadEnvironmentConfig loads configuration from environment variables and .env file
func loadEnvironmentConfig() Config {
	if err := godotenv.Load(); err != nil {
		slog.Debug("failed to load .env file", "error", err)
	} else {
		slog.Debug("successfully loaded .env file")
	}

	config := Config{
		OpenAIKey:      os.Getenv("OPENAI_API_KEY"),
		Model:          os.Getenv("OPENAI_MODEL"),
		BaseURL:        os.Getenv("OPENAI_BASE_URL"),
		Bucket:         os.Getenv("BLOG_BUCKET"),
		DBDSN:          os.Getenv("BLOGPIPE_DB_DSN"),
		StateDir:       util.GetenvDefault("BLOGPIPE_STATE_DIR", DefaultStateDir),
		PromptTemplate: os.Getenv("PROMPT_TEMPLATE"),
		APIAddr:        os.Getenv("API_ADDR"),
	}

	// Fall back to the generic DATABASE_URL when the specific DSN is unset
	if config.DBDSN == "" {
		config.DBDSN = os.Getenv("DATABASE_URL")
		if config.DBDSN != "" {
			slog.Debug("Using DATABASE_URL as BLOGPIPE_DB_DSN", "dsn_set", true)
		}
	}

	// Default the receipt store to SQLite in the state directory
	if config.DBDSN == "" {
		config.DBDSN = filepath.Join(config.StateDir, DefaultDBFileName)
		slog.Debug("No database DSN provided, defaulting to SQLite", "sqlite_path", config.DBDSN)
	}

	slog.Debug("environment variables loaded",
		"OPENAI_API_KEY_SET", config.OpenAIKey != "",
		"OPENAI_MODEL", config.Model,
		"OPENAI_BASE_URL_SET", config.BaseURL != "",
		"BLOG_BUCKET", config.Bucket,
		"BLOGPIPE_DB_DSN_SET", config.DBDSN != "",
		"BLOGPIPE_STATE_DIR", config.StateDir,
		"PROMPT_TEMPLATE_SET", config.PromptTemplate != "",
		"API_ADDR", config.APIAddr)

	return config
}

// parseCommandLineFlags parses command line arguments with environment defaults
func parseCommandLineFlags(config Config) Flags {
	flags := Flags{
		openaiKey:      flag.String("openai-api-key", config.OpenAIKey, "OpenAI API key (overrides $OPENAI_API_KEY)"),
		model:          flag.String("model", config.Model, "generation model identifier (overrides $OPENAI_MODEL)"),
		baseURL:        flag.String("openai-base-url", config.BaseURL, "OpenAI-compatible endpoint override (overrides $OPENAI_BASE_URL)"),
		bucket:         flag.String("bucket", config.Bucket, "object store bucket locator: s3://name, COS bucket URL, or mem:// (overrides $BLOG_BUCKET)"),
		dbDSN:          flag.String("db-dsn", config.DBDSN, "receipt store DSN: postgres DSN or SQLite path (overrides $BLOGPIPE_DB_DSN or $DATABASE_URL)"),
		stateDir:       flag.String("state-dir", config.StateDir, "state directory for BlogPipe data (overrides $BLOGPIPE_STATE_DIR)"),
		promptTemplate: flag.String("prompt-template", config.PromptTemplate, "instruction template with {topic} placeholder (overrides $PROMPT_TEMPLATE)"),
		apiAddr:        flag.String("api-addr", config.APIAddr, "API server address (overrides $API_ADDR)"),
	}

	flag.Parse()

	// Follow an explicit -state-dir when the DSN was left at its derived default
	if *flags.dbDSN == filepath.Join(config.StateDir, DefaultDBFileName) && *flags.stateDir != config.StateDir {
		*flags.dbDSN = filepath.Join(*flags.stateDir, DefaultDBFileName)
		slog.Debug("Updated db DSN based on state directory", "new_state_dir", *flags.stateDir)
	}

	slog.Debug("flags parsed",
		"openaiKeySet", *flags.openaiKey != "",
		"model", *flags.model,
		"bucket", *flags.bucket,
		"dbDSN_set", *flags.dbDSN != "",
		"stateDir", *flags.stateDir,
		"apiAddr", *flags.apiAddr)

	return flags
}

// buildGenAIOptions constructs generation client configuration options
func buildGenAIOptions(flags Flags) []genai.Option {
	var genaiOpts []genai.Option
	if *flags.openaiKey != "" {
		genaiOpts = append(genaiOpts, genai.WithAPIKey(*flags.openaiKey))
	}
	if *flags.model != "" {
		genaiOpts = append(genaiOpts, genai.WithModel(*flags.model))
	}
	if *flags.baseURL != "" {
		genaiOpts = append(genaiOpts, genai.WithBaseURL(*flags.baseURL))
	}
	return genaiOpts
}

// buildStorageOptions constructs object store configuration options
func buildStorageOptions(flags Flags) []storage.Option {
	var storageOpts []storage.Option
	if *flags.bucket != "" {
		slog.Debug("Object store backend selected", "bucket_type", storage.DetectBucketType(*flags.bucket), "bucket", *flags.bucket)
		storageOpts = append(storageOpts, storage.WithBucket(*flags.bucket))
	} else {
		slog.Warn("No object store bucket configured; startup will fail without $BLOG_BUCKET or -bucket")
	}
	return storageOpts
}

// buildStoreOptions constructs receipt store configuration options
func buildStoreOptions(flags Flags) []store.Option {
	var storeOpts []store.Option
	if *flags.dbDSN != "" {
		if store.DetectDSNType(*flags.dbDSN) == store.DSNTypePostgres {
			slog.Debug("Detected PostgreSQL DSN, configuring PostgreSQL store", "dsn_set", true)
			storeOpts = append(storeOpts, store.WithPostgresDSN(*flags.dbDSN))
		} else {
			slog.Debug("Detected SQLite DSN, configuring SQLite store", "db_path", *flags.dbDSN)
			storeOpts = append(storeOpts, store.WithSQLiteDSN(*flags.dbDSN))
		}
	} else {
		slog.Debug("No database DSN provided, will use in-memory store")
	}
	return storeOpts
}

// buildAPIOptions constructs API server configuration options
func buildAPIOptions(flags Flags) []api.Option {
	var apiOpts []api.Option
	if *flags.apiAddr != "" {
		apiOpts = append(apiOpts, api.WithAddr(*flags.apiAddr))
	}
	if *flags.promptTemplate != "" {
		apiOpts = append(apiOpts, api.WithPromptTemplate(*flags.promptTemplate))
	}
	return apiOpts
}
