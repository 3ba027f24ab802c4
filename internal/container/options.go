package container

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"
)

const minSecretLength = 32

// Options configures both binaries. The server reads them through humacli flags
// and SERVICE_ environment variables; the consumer reads plain environment variables.
type Options struct {
	Port          int    `default:"8888"                               help:"Port to listen on"                                          short:"p"`
	RedisAddr     string `default:"localhost:6379"                     help:"Redis server address"                                       short:"r"`
	DatabaseURL   string `default:""                                   help:"Postgres URL; empty keeps interviews in memory"             short:"d"`
	JWTSecret     string `default:""                                   help:"Secret used to sign session tokens (at least 32 bytes)"`
	AccessKey     string `default:""                                   help:"Shared key required to open a session; empty accepts all"`
	ResendAPIKey  string `default:""                                   help:"Resend API key; empty logs emails instead of sending them"`
	EmailFrom     string `default:"VideoSync <noreply@videosync.com>" help:"Sender of outbound emails"`
	AppURL        string `default:"http://localhost:3000"              help:"Base URL used for meeting links"`
	LogFormat     string `default:"console"                            help:"Log format: console or json"`
	CacheTTL      int    `default:"300"                                help:"Interview cache TTL in seconds"`
	SweepInterval int    `default:"300"                                help:"Seconds between expired quota sweeps; 0 disables"`
	RateLimits    string `default:""                                   help:"Quota overrides, e.g. auth=10/15m,api=120/1m"`
}

var (
	ErrInvalidPort      = errors.New("port must be between 1 and 65535")
	ErrWeakSecret       = fmt.Errorf("jwt secret must be at least %d bytes", minSecretLength)
	ErrInvalidLogFormat = errors.New("log format must be console or json")
	ErrInvalidAppURL    = errors.New("app url must be an absolute http(s) url")
	ErrNegativeDuration = errors.New("durations must not be negative")
)

// Validate reports every configuration problem at once.
func (o *Options) Validate() error {
	var errs []error

	if o.Port < 1 || o.Port > 65535 {
		errs = append(errs, ErrInvalidPort)
	}

	if len(o.JWTSecret) < minSecretLength {
		errs = append(errs, ErrWeakSecret)
	}

	if o.LogFormat != "console" && o.LogFormat != "json" {
		errs = append(errs, ErrInvalidLogFormat)
	}

	if u, err := url.Parse(o.AppURL); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		errs = append(errs, ErrInvalidAppURL)
	}

	if o.CacheTTL < 0 || o.SweepInterval < 0 {
		errs = append(errs, ErrNegativeDuration)
	}

	return errors.Join(errs...)
}

func (o *Options) cacheTTL() time.Duration {
	return time.Duration(o.CacheTTL) * time.Second
}

func (o *Options) sweepInterval() time.Duration {
	return time.Duration(o.SweepInterval) * time.Second
}

// OptionsFromEnv builds options for the consumer binary.
func OptionsFromEnv() *Options {
	return &Options{
		RedisAddr:    getEnv("REDIS_ADDR", "localhost:6379"),
		ResendAPIKey: getEnv("RESEND_API_KEY", ""),
		EmailFrom:    getEnv("EMAIL_FROM", "VideoSync <noreply@videosync.com>"),
		AppURL:       getEnv("APP_URL", "http://localhost:3000"),
		LogFormat:    getEnv("LOG_FORMAT", "console"),
		CacheTTL:     getEnvInt("CACHE_TTL", 300),
	}
}

func getEnv(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return defaultValue
	}

	return v
}
