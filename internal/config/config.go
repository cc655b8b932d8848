package config

import (
	"fmt"
	"os"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultFile is the project config file looked up in the working
// directory.
const DefaultFile = "wikigraph.yaml"

type Config struct {
	DataDir string      `yaml:"data_dir"`
	Neo4j   Neo4jConfig `yaml:"neo4j"`
}

type Neo4jConfig struct {
	URI      string `yaml:"uri"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
}

// Load reads the yaml config, layering .env and environment variables
// on top. A missing config file is fine as long as the environment
// fills in the gaps.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		DataDir: "data",
		Neo4j: Neo4jConfig{
			URI:      "neo4j://localhost",
			Username: "neo4j",
			Database: "neo4j",
		},
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("loading config: %w", err)
		}
	case os.IsNotExist(err):
		// env-only setup
	default:
		return nil, fmt.Errorf("loading config: %w", err)
	}

	applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	setFromEnv(&cfg.DataDir, "WIKIGRAPH_DATA_DIR")
	setFromEnv(&cfg.Neo4j.URI, "NEO4J_URI")
	setFromEnv(&cfg.Neo4j.Username, "NEO4J_USERNAME")
	setFromEnv(&cfg.Neo4j.Password, "NEO4J_PASSWORD")
	setFromEnv(&cfg.Neo4j.Database, "NEO4J_DATABASE")
}

func setFromEnv(target *string, key string) {
	if value := os.Getenv(key); value != "" {
		*target = value
	}
}

func (c *Config) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.DataDir, validation.Required),
		validation.Field(&c.Neo4j),
	)
}

func (c Neo4jConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.URI, validation.Required),
		validation.Field(&c.Username, validation.Required),
		validation.Field(&c.Database, validation.Required),
	)
}
