package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const ENV_FILE = ".env"
const CONFIG_FILE = "config.yaml"

// AppConfig carries every setting the application needs. It is built
// once in main and handed to each constructor explicitly; packages do
// not read configuration on their own.
type AppConfig struct {
	Logging LoggingConfig `yaml:"logging"`
	Server  ServerConfig  `yaml:"server"`

	// Secrets and endpoints, loaded from the environment.
	RAG      RAGConfig   `yaml:"-"`
	LLM      LLMConfig   `yaml:"-"`
	OCR      OCRConfig   `yaml:"-"`
	GraphURL string      `yaml:"-"`
	JWT      JWTConfig   `yaml:"-"`
	Store    StoreConfig `yaml:"-"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
}

type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// RAGConfig points at the RAGFlow-compatible knowledge service.
// Token authenticates API calls; Authorization is the separate web
// credential required by the system-status endpoint; ChatID selects
// the chat assistant all conversations are bound to.
type RAGConfig struct {
	Endpoint      string
	Token         string
	ChatID        string
	Authorization string
}

// LLMConfig points at an OpenAI-compatible chat completion service.
type LLMConfig struct {
	Endpoint string
	Token    string
	Model    string
}

type OCRConfig struct {
	Endpoint string
	Token    string
}

type JWTConfig struct {
	Secret string
}

type StoreConfig struct {
	DatabaseURL string
	// MongoURI is optional; when empty the AI call log is disabled.
	MongoURI    string
	MongoDBName string
}

// Load reads .env and config.yaml (searched upward from the working
// directory) and assembles the AppConfig. Missing required environment
// variables are reported together in one error.
func Load() (*AppConfig, error) {
	godotenv.Load(filepath.Join(basePath(), ENV_FILE))

	cfg := &AppConfig{
		Logging: LoggingConfig{Level: "info"},
		Server:  ServerConfig{Addr: ":9826"},
	}

	if data, err := os.ReadFile(filepath.Join(basePath(), CONFIG_FILE)); err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", CONFIG_FILE, err)
		}
	}

	var missing []string
	need := func(key string) string {
		v := os.Getenv(key)
		if v == "" {
			missing = append(missing, key)
		}
		return v
	}

	cfg.RAG = RAGConfig{
		Endpoint:      need("RAG_ENDPOINT"),
		Token:         need("RAG_TOKEN"),
		ChatID:        need("RAG_CHAT_ID"),
		Authorization: need("RAG_AUTHORIZATION"),
	}
	cfg.LLM = LLMConfig{
		Endpoint: need("LLM_ENDPOINT"),
		Token:    need("LLM_TOKEN"),
		Model:    need("LLM_MODEL"),
	}
	cfg.OCR = OCRConfig{
		Endpoint: need("OCR_ENDPOINT"),
		Token:    need("OCR_TOKEN"),
	}
	cfg.GraphURL = need("LIGHT_GRAPH_ENDPOINT")
	cfg.JWT = JWTConfig{Secret: need("JWT_SECRET")}
	cfg.Store = StoreConfig{
		DatabaseURL: need("DATABASE_URL"),
		MongoURI:    os.Getenv("MONGO_URI"),
		MongoDBName: os.Getenv("MONGO_DB_NAME"),
	}

	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}
	return cfg, nil
}

// basePath walks up from the working directory until it finds the
// directory holding config.yaml, so binaries and tests work from
// subdirectories.
func basePath() string {
	cwd, err := os.Getwd()
	if err != nil {
		return ""
	}

	dir := cwd
	for {
		cfgPath := filepath.Join(dir, CONFIG_FILE)
		if info, err := os.Stat(cfgPath); err == nil && !info.IsDir() {
			return dir
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return ""
}
