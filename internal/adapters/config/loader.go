// Package config assembles the process configuration from defaults, a YAML file and the environment.
package config

import (
	"errors"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"go.trai.ch/artisan/internal/core/domain"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// ConfigPathEnv names the environment variable holding an explicit config file path.
const ConfigPathEnv = "ARTISAN_CONFIG"

// Loader implements ports.ConfigLoader.
//
// Precedence, lowest first: built-in defaults, the YAML file, the dotenv file, the process environment.
type Loader struct {
	// Path is the YAML file. When empty, artisan.yaml in the working directory is used if it exists.
	Path string
	// EnvFile is the dotenv file. A missing file is ignored.
	EnvFile string
	// LookupEnv reads the process environment.
	LookupEnv func(string) (string, bool)
}

// NewLoader creates a Loader reading the process environment.
func NewLoader() *Loader {
	return &Loader{
		Path:      os.Getenv(ConfigPathEnv),
		EnvFile:   domain.EnvFileName,
		LookupEnv: os.LookupEnv,
	}
}

// Load assembles the configuration. It does not validate credentials; callers do that eagerly
// before the first network call.
func (l *Loader) Load() (*domain.Config, error) {
	cfg := domain.DefaultConfig()

	if err := l.loadFile(&cfg); err != nil {
		return nil, err
	}

	dotenv, err := l.readEnvFile()
	if err != nil {
		return nil, err
	}

	for _, b := range envBindings {
		value, ok := l.lookup(b.name)
		if !ok {
			value, ok = dotenv[b.name]
		}
		if !ok || value == "" {
			continue
		}
		if err := b.apply(&cfg, value); err != nil {
			return nil, err
		}
	}

	return &cfg, nil
}

func (l *Loader) loadFile(cfg *domain.Config) error {
	path := l.Path
	explicit := path != ""
	if !explicit {
		path = domain.ConfigFileName
	}

	data, err := os.ReadFile(path) //nolint:gosec // path is provided by the operator
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) && !explicit {
			return nil
		}
		return zerr.With(zerr.Wrap(err, domain.ErrConfigReadFailed.Error()), "path", path)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrConfigParseFailed.Error()), "path", path)
	}
	return nil
}

func (l *Loader) readEnvFile() (map[string]string, error) {
	if l.EnvFile == "" {
		return nil, nil
	}
	values, err := godotenv.Read(l.EnvFile)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, zerr.With(zerr.Wrap(err, domain.ErrConfigParseFailed.Error()), "path", l.EnvFile)
	}
	return values, nil
}

func (l *Loader) lookup(name string) (string, bool) {
	if l.LookupEnv == nil {
		return "", false
	}
	return l.LookupEnv(name)
}
