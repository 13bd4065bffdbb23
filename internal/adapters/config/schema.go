package config

import (
	"strconv"
	"time"

	"go.trai.ch/artisan/internal/core/domain"
	"go.trai.ch/zerr"
)

// envBinding maps one environment variable onto a config field.
type envBinding struct {
	name  string
	apply func(cfg *domain.Config, value string) error
}

// envBindings lists the recognized environment variables. The unprefixed names are the ones the
// original deployment's .env files use.
var envBindings = []envBinding{
	{"VOLCENGINE_ACCESS_KEY_ID", setString(func(c *domain.Config) *string { return &c.Remote.AccessKeyID })},
	{"VOLCENGINE_SECRET_ACCESS_KEY", setString(func(c *domain.Config) *string { return &c.Remote.SecretAccessKey })},
	{"COS_SECRET_ID", setString(func(c *domain.Config) *string { return &c.Storage.SecretID })},
	{"COS_SECRET_KEY", setString(func(c *domain.Config) *string { return &c.Storage.SecretKey })},
	{"COS_BUCKET", setString(func(c *domain.Config) *string { return &c.Storage.Bucket })},
	{"COS_REGION", setString(func(c *domain.Config) *string { return &c.Storage.Region })},
	{"COS_DOMAIN", setString(func(c *domain.Config) *string { return &c.Storage.Domain })},
	{"PORT", func(c *domain.Config, v string) error {
		if _, err := strconv.Atoi(v); err != nil {
			return invalidEnv("PORT", v, err)
		}
		c.Server.Addr = ":" + v
		return nil
	}},

	{"ARTISAN_ADDR", setString(func(c *domain.Config) *string { return &c.Server.Addr })},
	{"ARTISAN_REMOTE_ENDPOINT", setString(func(c *domain.Config) *string { return &c.Remote.Endpoint })},
	{"ARTISAN_REMOTE_REGION", setString(func(c *domain.Config) *string { return &c.Remote.Region })},
	{"ARTISAN_REMOTE_TIMEOUT", setDuration("ARTISAN_REMOTE_TIMEOUT", func(c *domain.Config) *time.Duration { return &c.Remote.Timeout })},
	{"ARTISAN_DEFAULT_STYLE_URL", setString(func(c *domain.Config) *string { return &c.Remote.DefaultStyleURL })},
	{"ARTISAN_STORAGE_BACKEND", setString(func(c *domain.Config) *string { return &c.Storage.Backend })},
	{"ARTISAN_STORAGE_LOCAL_DIR", setString(func(c *domain.Config) *string { return &c.Storage.LocalDir })},
	{"ARTISAN_HISTORY_PATH", setString(func(c *domain.Config) *string { return &c.History.Path })},
	{"ARTISAN_POLL_INTERVAL", setDuration("ARTISAN_POLL_INTERVAL", func(c *domain.Config) *time.Duration { return &c.Poll.Interval })},
	{"ARTISAN_POLL_TIMEOUT", setDuration("ARTISAN_POLL_TIMEOUT", func(c *domain.Config) *time.Duration { return &c.Poll.Timeout })},
	{"ARTISAN_POLL_MAX_ATTEMPTS", func(c *domain.Config, v string) error {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return invalidEnv("ARTISAN_POLL_MAX_ATTEMPTS", v, err)
		}
		c.Poll.MaxAttempts = n
		return nil
	}},
	{"ARTISAN_LOG_LEVEL", setString(func(c *domain.Config) *string { return &c.Log.Level })},
	{"ARTISAN_LOG_FORMAT", setString(func(c *domain.Config) *string { return &c.Log.Format })},
}

func setString(field func(*domain.Config) *string) func(*domain.Config, string) error {
	return func(c *domain.Config, v string) error {
		*field(c) = v
		return nil
	}
}

func setDuration(name string, field func(*domain.Config) *time.Duration) func(*domain.Config, string) error {
	return func(c *domain.Config, v string) error {
		d, err := time.ParseDuration(v)
		if err != nil {
			return invalidEnv(name, v, err)
		}
		*field(c) = d
		return nil
	}
}

func invalidEnv(name, value string, cause error) error {
	if cause == nil {
		cause = zerr.New("value out of range")
	}
	return domain.WithKind(domain.ErrConfiguration,
		zerr.With(zerr.With(zerr.Wrap(cause, "invalid environment variable"), "name", name), "value", value))
}
