package domain

import (
	"slices"
	"strings"
	"time"

	"go.trai.ch/zerr"
)

// Config is the process-wide configuration. It is built once at start-up and passed to constructors.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Remote  RemoteConfig  `yaml:"remote"`
	Storage StorageConfig `yaml:"storage"`
	History HistoryConfig `yaml:"history"`
	Poll    PollConfig    `yaml:"poll"`
	Log     LogConfig     `yaml:"log"`
}

// ServerConfig configures the HTTP surface.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// RemoteConfig configures the remote generation API.
type RemoteConfig struct {
	Endpoint        string        `yaml:"endpoint"`
	Region          string        `yaml:"region"`
	Service         string        `yaml:"service"`
	Version         string        `yaml:"version"`
	SubmitAction    string        `yaml:"submit_action"`
	ResultAction    string        `yaml:"result_action"`
	ReqKey          string        `yaml:"req_key"`
	AccessKeyID     string        `yaml:"access_key_id"`
	SecretAccessKey string        `yaml:"secret_access_key"`
	Timeout         time.Duration `yaml:"timeout"`
	Scale           float64       `yaml:"scale"`
	Size            int           `yaml:"size"`
	MinRatio        float64       `yaml:"min_ratio"`
	MaxRatio        float64       `yaml:"max_ratio"`
	ForceSingle     bool          `yaml:"force_single"`
	DefaultStyleURL string        `yaml:"default_style_url"`
	DefaultPrompt   string        `yaml:"default_prompt"`
}

// StorageConfig configures the artifact store.
type StorageConfig struct {
	// Backend is "cos" or "local".
	Backend   string `yaml:"backend"`
	Bucket    string `yaml:"bucket"`
	Region    string `yaml:"region"`
	SecretID  string `yaml:"secret_id"`
	SecretKey string `yaml:"secret_key"`
	// Domain is the public host serving stored artifacts.
	Domain   string `yaml:"domain"`
	LocalDir string `yaml:"local_dir"`
}

// HistoryConfig configures the history ledger.
type HistoryConfig struct {
	Path     string `yaml:"path"`
	Capacity int    `yaml:"capacity"`
}

// PollConfig configures the caller-side polling loop.
type PollConfig struct {
	Interval    time.Duration `yaml:"interval"`
	MaxAttempts int           `yaml:"max_attempts"`
	Timeout     time.Duration `yaml:"timeout"`
}

// LogConfig configures the logger.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

const (
	// StorageBackendCOS stores artifacts in Tencent Cloud Object Storage.
	StorageBackendCOS = "cos"
	// StorageBackendLocal stores artifacts in a local directory.
	StorageBackendLocal = "local"
)

// DefaultPrompt instructs the model to keep the face of the first image and the style of the second.
const DefaultPrompt = "参考图分工：图 1 为人脸参考图，图 2 为艺术风格参考图。要求：1:1 还原图 1 面部特征，" +
	"严格复刻图 2 的姿势、风格、场景氛围和光影逻辑。色彩过渡均匀，背景禁用高饱和色。" +
	"禁止混淆两图特征，整体画面需通透自然，符合艺术照审美。"

// DefaultConfig returns the configuration used before any file or environment override.
func DefaultConfig() Config {
	return Config{
		Server: ServerConfig{Addr: ":3001"},
		Remote: RemoteConfig{
			Endpoint:        "https://open.volcengineapi.com",
			Region:          "cn-beijing",
			Service:         "cv",
			Version:         "2024-06-06",
			SubmitAction:    "JimengT2IV40SubmitTask",
			ResultAction:    "JimengT2IV40GetResult",
			ReqKey:          "jimeng_t2i_v40",
			Timeout:         30 * time.Second,
			Scale:           0.9,
			Size:            4194304,
			MinRatio:        0.33,
			MaxRatio:        3,
			DefaultStyleURL: DefaultStyleURL,
			DefaultPrompt:   DefaultPrompt,
		},
		Storage: StorageConfig{
			Backend:  StorageBackendCOS,
			LocalDir: DataDirName,
		},
		History: HistoryConfig{
			Path:     DefaultHistoryPath(),
			Capacity: HistoryCapacity,
		},
		Poll: PollConfig{
			Interval:    DefaultPollInterval,
			MaxAttempts: DefaultPollMaxAttempts,
			Timeout:     DefaultPollTimeout,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// ValidateRemote checks the remote API credentials.
func (c *Config) ValidateRemote() error {
	var missing []string
	if c.Remote.AccessKeyID == "" {
		missing = append(missing, "remote.access_key_id")
	}
	if c.Remote.SecretAccessKey == "" {
		missing = append(missing, "remote.secret_access_key")
	}
	if c.Remote.Endpoint == "" {
		missing = append(missing, "remote.endpoint")
	}
	if len(missing) > 0 {
		return missingConfig(missing)
	}
	return nil
}

// ValidateStorage checks the settings of the selected artifact backend.
func (c *Config) ValidateStorage() error {
	var missing []string
	switch c.Storage.Backend {
	case StorageBackendCOS:
		for field, value := range map[string]string{
			"storage.bucket":     c.Storage.Bucket,
			"storage.region":     c.Storage.Region,
			"storage.secret_id":  c.Storage.SecretID,
			"storage.secret_key": c.Storage.SecretKey,
			"storage.domain":     c.Storage.Domain,
		} {
			if value == "" {
				missing = append(missing, field)
			}
		}
	case StorageBackendLocal:
		if c.Storage.LocalDir == "" {
			missing = append(missing, "storage.local_dir")
		}
		if c.Storage.Domain == "" {
			missing = append(missing, "storage.domain")
		}
	default:
		return WithKind(ErrConfiguration, zerr.With(zerr.New("unknown storage backend"), "backend", c.Storage.Backend))
	}
	if len(missing) > 0 {
		slices.Sort(missing)
		return missingConfig(missing)
	}
	return nil
}

// Validate checks every section required to serve requests.
func (c *Config) Validate() error {
	if err := c.ValidateRemote(); err != nil {
		return err
	}
	return c.ValidateStorage()
}

func missingConfig(fields []string) error {
	return WithKind(ErrConfiguration, zerr.With(zerr.New("missing "+strings.Join(fields, ", ")), "missing", fields))
}
