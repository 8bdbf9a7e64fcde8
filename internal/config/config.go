package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Port           int           `yaml:"port"`
		CORSOrigins    []string      `yaml:"corsOrigins"`
		ReadTimeout    time.Duration `yaml:"readTimeout"`
		WriteTimeout   time.Duration `yaml:"writeTimeout"`
		MaxUploadBytes int64         `yaml:"maxUploadBytes"`
	} `yaml:"server"`

	Model struct {
		Provider  string `yaml:"provider"` // openai | vertex | mock
		Name      string `yaml:"name"`
		BaseURL   string `yaml:"baseURL"`
		MaxTokens int    `yaml:"maxTokens"`
		ProjectID string `yaml:"projectID"`
		Region    string `yaml:"region"`
	} `yaml:"model"`

	Workspace struct {
		IdleTTL       time.Duration `yaml:"idleTTL"`
		SweepInterval time.Duration `yaml:"sweepInterval"`
	} `yaml:"workspace"`

	Archive struct {
		Enabled    bool   `yaml:"enabled"`
		Driver     string `yaml:"driver"` // mysql | postgres | sqlite
		SQLitePath string `yaml:"sqlitePath"`
	} `yaml:"archive"`

	Database struct {
		Host     string `yaml:"host"`
		Port     int    `yaml:"port"`
		User     string `yaml:"user"`
		Password string `yaml:"password"`
		Name     string `yaml:"name"`
		SSLMode  string `yaml:"sslMode"`
	} `yaml:"database"`

	Minio struct {
		Enabled    bool   `yaml:"enabled"`
		Endpoint   string `yaml:"endpoint"`
		AccessKey  string `yaml:"accessKey"`
		SecretKey  string `yaml:"secretKey"`
		BucketName string `yaml:"bucketName"`
		Region     string `yaml:"region"`
		UseSSL     bool   `yaml:"useSSL"`
	} `yaml:"minio"`

	Auth struct {
		// operator name -> access key; empty disables auth
		Keys map[string]string `yaml:"keys"`
	} `yaml:"auth"`

	RateLimit struct {
		Capacity   int `yaml:"capacity"`
		RefillRate int `yaml:"refillRate"`
	} `yaml:"rateLimit"`
}

// Load baca .env lalu file config.yaml, env override di atasnya.
// A missing config file is not an error; defaults apply.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		log.Printf("config: %s not found, using defaults", path)
	case err != nil:
		return nil, err
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}

	cfg.applyEnv()
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyEnv() {
	setString(&c.Model.Provider, "MODEL_PROVIDER")
	setString(&c.Model.Name, "MODEL_NAME")
	setString(&c.Model.BaseURL, "MODEL_BASE_URL")
	setString(&c.Model.ProjectID, "VERTEX_PROJECT_ID")
	setString(&c.Model.Region, "VERTEX_REGION")
	setString(&c.Database.Password, "DB_PASSWORD")
	setString(&c.Minio.SecretKey, "MINIO_SECRET_KEY")
	if v := strings.TrimSpace(os.Getenv("SERVER_PORT")); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Server.Port = n
		}
	}
}

func setString(dst *string, key string) {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		*dst = v
	}
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 30 * time.Second
	}
	// model calls take a while
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 120 * time.Second
	}
	if c.Server.MaxUploadBytes == 0 {
		c.Server.MaxUploadBytes = 20 << 20
	}
	if c.Model.Provider == "" {
		c.Model.Provider = "mock"
	}
	c.Model.Provider = strings.ToLower(c.Model.Provider)
	if c.Model.Region == "" {
		c.Model.Region = "us-central1"
	}
	if c.Workspace.IdleTTL == 0 {
		c.Workspace.IdleTTL = 30 * time.Minute
	}
	if c.Workspace.SweepInterval == 0 {
		c.Workspace.SweepInterval = time.Minute
	}
	if c.Archive.Driver == "" {
		c.Archive.Driver = "sqlite"
	}
	c.Archive.Driver = strings.ToLower(c.Archive.Driver)
	if c.Archive.SQLitePath == "" {
		c.Archive.SQLitePath = "contract_reports.db"
	}
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = "disable"
	}
	if c.RateLimit.Capacity == 0 {
		c.RateLimit.Capacity = 20
	}
	if c.RateLimit.RefillRate == 0 {
		c.RateLimit.RefillRate = 1
	}
}

// Validate checks combinations the service cannot run with.
func (c *Config) Validate() error {
	switch c.Model.Provider {
	case "openai", "mock":
	case "vertex":
		if c.Model.ProjectID == "" {
			return fmt.Errorf("config: model.projectID is required for vertex")
		}
	default:
		return fmt.Errorf("config: unknown model.provider %q (openai, vertex, mock)", c.Model.Provider)
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("config: invalid server.port %d", c.Server.Port)
	}
	if c.Server.MaxUploadBytes < 0 {
		return fmt.Errorf("config: server.maxUploadBytes must be positive")
	}
	if c.Archive.Enabled {
		switch c.Archive.Driver {
		case "sqlite":
		case "mysql", "postgres":
			if c.Database.Host == "" || c.Database.Name == "" {
				return fmt.Errorf("config: database.host and database.name are required for %s", c.Archive.Driver)
			}
		default:
			return fmt.Errorf("config: unknown archive.driver %q (mysql, postgres, sqlite)", c.Archive.Driver)
		}
	}
	if c.Minio.Enabled && (c.Minio.Endpoint == "" || c.Minio.BucketName == "") {
		return fmt.Errorf("config: minio.endpoint and minio.bucketName are required")
	}
	return nil
}

// Helper untuk build DSN MySQL
func (c *Config) MySQLDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true&charset=utf8mb4&loc=UTC",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
	)
}

// PostgresDSN builds a lib/pq connection string
func (c *Config) PostgresDSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.Name,
		c.Database.SSLMode,
	)
}
