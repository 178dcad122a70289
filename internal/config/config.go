package config

import (
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	_ "github.com/joho/godotenv/autoload"
)

const (
	EnvDev   = "dev"
	EnvProd  = "prod"
	EnvLocal = "local"
)

type Config struct {
	Env     string        `env:"ENV" env-default:"local" toml:"env"`
	Tracker TrackerConfig `toml:"tracker"`
}

type TrackerConfig struct {
	LoadDelay   time.Duration `env:"TRACKER_LOAD_DELAY" env-default:"2s" toml:"load_delay"`
	UpdateDelay time.Duration `env:"TRACKER_UPDATE_DELAY" env-default:"1s" toml:"update_delay"`
	SeedFile    string        `env:"TRACKER_SEED_FILE" toml:"seed_file"`
	ProjectID   int           `env:"TRACKER_PROJECT_ID" env-default:"101" toml:"project_id"`
	TaskID      int           `env:"TRACKER_TASK_ID" env-default:"2" toml:"task_id"`
}

type Reader interface {
	Read() (*Config, error)
}

// EnvReader reads the configuration from the environment. Variables in a
// .env file in the working directory are loaded on import.
type EnvReader struct{}

func NewEnvReader() EnvReader {
	return EnvReader{}
}

func (EnvReader) Read() (*Config, error) {
	cfg := new(Config)
	err := cleanenv.ReadEnv(cfg)
	if err != nil {
		return nil, err
	}

	return cfg, nil
}

// FileReader reads a TOML, YAML or .env file, then applies environment
// overrides on top.
type FileReader struct {
	Path string
}

func NewFileReader(path string) FileReader {
	return FileReader{Path: path}
}

func (r FileReader) Read() (*Config, error) {
	cfg := new(Config)
	err := cleanenv.ReadConfig(r.Path, cfg)
	if err != nil {
		return nil, err
	}

	return cfg, nil
}

// NewReader picks a FileReader when path is set and an EnvReader otherwise.
func NewReader(path string) Reader {
	if path != "" {
		return NewFileReader(path)
	}
	return NewEnvReader()
}
