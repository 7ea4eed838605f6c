package logger

import (
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// RequestIDKey is the context key carrying the request correlation id.
type RequestIDKey struct{}

var (
	once     sync.Once
	instance *zap.Logger
)

// Init builds the process-wide logger. Development environments get console
// encoding with colors; everything else gets production JSON.
func Init(env string) (*zap.Logger, error) {
	var initErr error
	once.Do(func() {
		var cfg zap.Config
		if env == "development" || env == "dev" || env == "local" {
			cfg = zap.NewDevelopmentConfig()
			cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		} else {
			cfg = zap.NewProductionConfig()
			cfg.EncoderConfig.TimeKey = "timestamp"
			cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		}

		logger, err := cfg.Build(zap.AddCallerSkip(0))
		if err != nil {
			initErr = err
			return
		}
		instance = logger
	})

	if initErr != nil {
		return nil, initErr
	}
	return instance, nil
}

// L returns the process logger, or a no-op logger before Init.
func L() *zap.Logger {
	if instance == nil {
		return zap.NewNop()
	}
	return instance
}

// MaskEmail hides the local part of an email address for log output.
func MaskEmail(email string) string {
	at := strings.Index(email, "@")
	if at <= 0 {
		return "***"
	}
	local := email[:at]
	domain := email[at:]
	if len(local) <= 2 {
		return "**" + domain
	}
	return local[:1] + strings.Repeat("*", len(local)-2) + local[len(local)-1:] + domain
}

// MaskIP hides the host portion of an IP address.
func MaskIP(ip string) string {
	if ip == "" {
		return ""
	}
	if idx := strings.LastIndex(ip, "."); idx > 0 {
		return ip[:idx] + ".xxx"
	}
	if idx := strings.LastIndex(ip, ":"); idx > 0 {
		return ip[:idx] + ":xxxx"
	}
	return "***"
}

// MaskString keeps the first and last character of a sensitive value.
func MaskString(s string) string {
	if len(s) <= 2 {
		return "***"
	}
	return s[:1] + strings.Repeat("*", len(s)-2) + s[len(s)-1:]
}
