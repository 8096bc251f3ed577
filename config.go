package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// Config defines the structure of the configuration file.
type Config struct {
	GitCommit               string            `yaml:"git_commit" envconfig:"BKC_GIT_COMMIT"`
	GitTag                  string            `yaml:"git_tag" envconfig:"BKC_GIT_TAG"`
	BuildTime               string            `yaml:"build_time" envconfig:"BKC_BUILD_TIME"`
	IsProduction            bool              `yaml:"is_production" envconfig:"BKC_IS_PRODUCTION"`
	LogLevel                string            `yaml:"log_level" envconfig:"BKC_LOG_LEVEL"`
	LogFolder               string            `yaml:"log_folder" envconfig:"BKC_LOG_FOLDER"`
	LogMaxSize              int               `yaml:"log_max_size" envconfig:"BKC_LOG_MAX_SIZE"` // in megabytes
	OpsEndpointsEnable      bool              `yaml:"ops_endpoints_enable" envconfig:"BKC_OPS_ENDPOINTS_ENABLE"`
	ProfilerEndpointsEnable bool              `yaml:"profiler_endpoints_enable" envconfig:"BKC_PROFILER_ENDPOINTS_ENABLE"`
	Server                  ServerConfig      `yaml:"server"`
	Storage                 StorageConfig     `yaml:"storage"`
	Redis                   RedisConfig       `yaml:"redis"`
	BoltDB                  BoltDBConfig      `yaml:"boltdb"`
	SQLite                  SQLiteConfig      `yaml:"sqlite"`
	Replication             ReplicationConfig `yaml:"replication"`
}

type ServerConfig struct {
	Host            string        `yaml:"host" envconfig:"BKC_SERVER_HOST"`
	Port            string        `yaml:"port" envconfig:"BKC_SERVER_PORT"`
	ReadTimeout     time.Duration `yaml:"read_timeout" envconfig:"BKC_SERVER_READ_TIMEOUT"`
	WriteTimeout    time.Duration `yaml:"write_timeout" envconfig:"BKC_SERVER_WRITE_TIMEOUT"`
	RequestTimeout  time.Duration `yaml:"request_timeout" envconfig:"BKC_SERVER_REQUEST_TIMEOUT"` // Time to wait for a request to finish
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"BKC_SERVER_SHUTDOWN_TIMEOUT"`
}

// StorageConfig selects where the catalog lives. StrictDecode makes a
// corrupt catalog an error instead of an empty catalog.
type StorageConfig struct {
	Backend      string `yaml:"backend" envconfig:"BKC_STORAGE_BACKEND"`
	FilePath     string `yaml:"filepath" envconfig:"BKC_STORAGE_FILE_PATH"`
	StrictDecode bool   `yaml:"strict_decode" envconfig:"BKC_STORAGE_STRICT_DECODE"`
}

type RedisConfig struct {
	Host          string        `yaml:"host" envconfig:"BKC_REDIS_HOST"`
	Port          string        `yaml:"port" envconfig:"BKC_REDIS_PORT"`
	DialTimeout   time.Duration `yaml:"dial_timeout" envconfig:"BKC_REDIS_DIAL_TIMEOUT"`
	ReadTimeout   time.Duration `yaml:"read_timeout" envconfig:"BKC_REDIS_READ_TIMEOUT"`
	WriteTimeout  time.Duration `yaml:"write_timeout" envconfig:"BKC_REDIS_WRITE_TIMEOUT"`
	PoolSize      int           `yaml:"pool_size" envconfig:"BKC_REDIS_POOL_SIZE"`
	PoolTimeout   time.Duration `yaml:"pool_timeout" envconfig:"BKC_REDIS_POOL_TIMEOUT"`
	Username      string        `yaml:"username" envconfig:"BKC_REDIS_USERNAME"`
	Password      string        `yaml:"password" envconfig:"BKC_REDIS_PASSWORD" json:"-"`
	DatabaseIndex int           `yaml:"db_index" envconfig:"BKC_REDIS_DATABASE_INDEX"`
	CatalogKey    string        `yaml:"catalog_key" envconfig:"BKC_REDIS_CATALOG_KEY"`
}

type BoltDBConfig struct {
	FilePath   string        `yaml:"filepath" envconfig:"BKC_BOLTDB_FILE_PATH"`
	Timeout    time.Duration `yaml:"timeout" envconfig:"BKC_BOLTDB_TIMEOUT"`
	BucketName string        `yaml:"bucket_name" envconfig:"BKC_BOLTDB_BUCKET_NAME"`
}

type SQLiteConfig struct {
	FilePath string `yaml:"filepath" envconfig:"BKC_SQLITE_FILE_PATH"`
}

// ReplicationConfig controls the mirroring of each saved catalog
// snapshot into a second backend through a redis queue.
type ReplicationConfig struct {
	Enabled bool   `yaml:"enabled" envconfig:"BKC_REPLICATION_ENABLED"`
	Queue   string `yaml:"queue" envconfig:"BKC_REPLICATION_QUEUE"`
	Mirror  string `yaml:"mirror" envconfig:"BKC_REPLICATION_MIRROR"`
}

// LoadConfigFile provides an instance of config structure for the all application.
func LoadConfigFile(configFile string) (*Config, error) {
	file, err := os.Open(configFile)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	cfg := &Config{}
	yd := yaml.NewDecoder(file)
	err = yd.Decode(cfg)

	if err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadConfigEnvs reads the environments variables and updates the App config.
func LoadConfigEnvs(prefix string, config *Config) error {
	return envconfig.Process(prefix, config)
}

// InitConfig setup defaults values for non provided parameters
// and configures build tags values to be used if provided.
func InitConfig(config *Config, gitCommit, gitTag, buildTime string) error {
	if len(gitCommit) != 0 {
		config.GitCommit = gitCommit
	}

	if len(gitTag) != 0 {
		config.GitTag = gitTag
	}

	if len(buildTime) != 0 {
		config.BuildTime = buildTime
	}

	if len(config.Server.Host) == 0 || len(config.Server.Port) == 0 {
		return errors.New("make sure to set valid server address and port in configuration file")
	}

	setDefaults(config)

	if !isKnownBackend(config.Storage.Backend) {
		return fmt.Errorf("unknown storage backend %q", config.Storage.Backend)
	}

	if config.Replication.Enabled {
		if !isKnownBackend(config.Replication.Mirror) || config.Replication.Mirror == MemoryBackend {
			return fmt.Errorf("invalid replication mirror backend %q", config.Replication.Mirror)
		}
		if config.Replication.Mirror == config.Storage.Backend {
			return errors.New("replication mirror must differ from the storage backend")
		}
	}

	if config.Storage.Backend == RedisBackend || config.Replication.Enabled {
		if len(config.Redis.Host) == 0 || len(config.Redis.Port) == 0 {
			return errors.New("make sure to set valid redis address and port in configuration file")
		}
	}

	return nil
}

func setDefaults(config *Config) {
	if config.LogLevel == "" {
		config.LogLevel = "info"
	}
	if config.LogFolder == "" {
		config.LogFolder = "logs"
	}
	if config.LogMaxSize <= 0 {
		config.LogMaxSize = 10
	}
	if config.Server.RequestTimeout == 0 {
		config.Server.RequestTimeout = 30 * time.Second
	}
	if config.Server.ShutdownTimeout == 0 {
		config.Server.ShutdownTimeout = 30 * time.Second
	}
	if config.Storage.Backend == "" {
		config.Storage.Backend = FileBackend
	}
	if config.Storage.FilePath == "" {
		config.Storage.FilePath = "library.json"
	}
	if config.BoltDB.BucketName == "" {
		config.BoltDB.BucketName = "catalog"
	}
	if config.BoltDB.FilePath == "" {
		config.BoltDB.FilePath = "data/catalog.bolt.db"
	}
	if config.BoltDB.Timeout == 0 {
		config.BoltDB.Timeout = 5 * time.Second
	}
	if config.SQLite.FilePath == "" {
		config.SQLite.FilePath = "data/catalog.sqlite.db"
	}
	if config.Redis.CatalogKey == "" {
		config.Redis.CatalogKey = DefaultRedisCatalogKey
	}
	if config.Replication.Queue == "" {
		config.Replication.Queue = DefaultSnapshotQueue
	}
	if config.Replication.Mirror == "" {
		config.Replication.Mirror = BoltBackend
	}
}

func isKnownBackend(name string) bool {
	switch name {
	case FileBackend, MemoryBackend, BoltBackend, RedisBackend, SQLiteBackend:
		return true
	}
	return false
}

// LoadAndInitConfigs loads in order the configs from various predefined sources
// then build the App configuration data. The env file is optional.
func LoadAndInitConfigs(configFile, envFile, gitCommit, gitTag, buildTime string) (*Config, error) {
	// Setup the yaml configuration from file.
	config, err := LoadConfigFile(configFile)
	if err != nil {
		return config, fmt.Errorf("failed to load configurations from file: %s", err)
	}

	// Set the environment configuration.
	if _, err = os.Stat(envFile); err == nil {
		if err = godotenv.Load(envFile); err != nil {
			return config, fmt.Errorf("failed to set environment configurations: %s", err)
		}
	}

	// Use environment variables with prefix `BKC`.
	err = LoadConfigEnvs("BKC", config)
	if err != nil {
		return config, fmt.Errorf("failed to load configurations from environment: %s", err)
	}

	err = InitConfig(config, gitCommit, gitTag, buildTime)
	if err != nil {
		return config, fmt.Errorf("failed to initialize configurations: %s", err)
	}
	return config, nil
}
