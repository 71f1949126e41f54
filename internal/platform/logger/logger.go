package logger

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Logger struct {
	SugaredLogger *zap.SugaredLogger
}

// New builds a zap-backed logger. mode "prod"/"production" emits JSON,
// anything else uses the development console encoder. LOG_LEVEL overrides
// the default debug level.
func New(mode string) (*Logger, error) {
	var cfg zap.Config
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "prod", "production":
		cfg = zap.NewProductionConfig()
	case "test":
		cfg = zap.NewDevelopmentConfig()
		cfg.OutputPaths = []string{"stderr"}
		cfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
		return build(cfg)
	default:
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.Level = zap.NewAtomicLevelAt(levelFromEnv())
	return build(cfg)
}

// Nop returns a logger that discards everything.
func Nop() *Logger {
	return &Logger{SugaredLogger: zap.NewNop().Sugar()}
}

func build(cfg zap.Config) (*Logger, error) {
	zapLogger, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		return nil, err
	}
	return &Logger{SugaredLogger: zapLogger.Sugar()}, nil
}

func levelFromEnv() zapcore.Level {
	raw := strings.TrimSpace(os.Getenv("LOG_LEVEL"))
	if raw == "" {
		return zapcore.DebugLevel
	}
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(strings.ToLower(raw))); err != nil {
		return zapcore.DebugLevel
	}
	return lvl
}

func (l *Logger) Sync() {
	_ = l.SugaredLogger.Sync()
}

func (l *Logger) Debug(msg string, keysAndValues ...interface{}) {
	l.SugaredLogger.Debugw(msg, scrub(keysAndValues)...)
}
func (l *Logger) Info(msg string, keysAndValues ...interface{}) {
	l.SugaredLogger.Infow(msg, scrub(keysAndValues)...)
}
func (l *Logger) Warn(msg string, keysAndValues ...interface{}) {
	l.SugaredLogger.Warnw(msg, scrub(keysAndValues)...)
}
func (l *Logger) Error(msg string, keysAndValues ...interface{}) {
	l.SugaredLogger.Errorw(msg, scrub(keysAndValues)...)
}
func (l *Logger) Fatal(msg string, keysAndValues ...interface{}) {
	l.SugaredLogger.Fatalw(msg, scrub(keysAndValues)...)
}
func (l *Logger) With(keysAndValues ...interface{}) *Logger {
	return &Logger{SugaredLogger: l.SugaredLogger.With(scrub(keysAndValues)...)}
}

var (
	scrubOnce    sync.Once
	scrubEnabled bool
	hashSalt     string
)

// Keys containing any of these fragments are replaced wholesale.
var redactedFragments = []string{
	"token",
	"authorization",
	"password",
	"secret",
	"cookie",
	"api_key",
	"apikey",
	"credential",
	"email",
	"refresh",
}

// Keys containing any of these fragments are logged as a short salted hash so
// lines stay correlatable without leaking identifiers.
var hashedFragments = []string{"user_id", "session_id"}

func scrub(kv []interface{}) []interface{} {
	if len(kv) == 0 || !scrubOn() {
		return kv
	}
	out := make([]interface{}, 0, len(kv))
	for i := 0; i < len(kv); i += 2 {
		if i == len(kv)-1 {
			out = append(out, kv[i])
			break
		}
		name := stringify(kv[i])
		out = append(out, name, scrubValue(strings.ToLower(strings.TrimSpace(name)), kv[i+1]))
	}
	return out
}

func scrubValue(key string, val interface{}) interface{} {
	if key != "" {
		if containsAny(key, redactedFragments) {
			return "[REDACTED]"
		}
		if containsAny(key, hashedFragments) {
			return digest(val)
		}
	}
	switch v := val.(type) {
	case map[string]interface{}:
		out := make(map[string]interface{}, len(v))
		for k, inner := range v {
			out[k] = scrubValue(strings.ToLower(strings.TrimSpace(k)), inner)
		}
		return out
	case []interface{}:
		out := make([]interface{}, 0, len(v))
		for _, inner := range v {
			out = append(out, scrubValue("", inner))
		}
		return out
	case string:
		if isBearerish(v) {
			return "[REDACTED]"
		}
		return v
	default:
		return val
	}
}

func containsAny(key string, fragments []string) bool {
	for _, f := range fragments {
		if strings.Contains(key, f) {
			return true
		}
	}
	return false
}

func digest(val interface{}) string {
	raw := stringify(val)
	if raw == "" {
		return ""
	}
	h := sha256.New()
	if hashSalt != "" {
		_, _ = h.Write([]byte(hashSalt))
	}
	_, _ = h.Write([]byte(raw))
	return "hash:" + hex.EncodeToString(h.Sum(nil))[:12]
}

// isBearerish catches JWTs that slip into values under innocuous keys.
func isBearerish(s string) bool {
	parts := strings.Split(s, ".")
	return len(parts) == 3 && len(parts[0]) > 10 && len(parts[1]) > 10
}

func stringify(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case []byte:
		return string(t)
	default:
		return strings.TrimSpace(fmt.Sprint(v))
	}
}

func scrubOn() bool {
	scrubOnce.Do(func() {
		switch strings.TrimSpace(strings.ToLower(os.Getenv("LOG_REDACTION_ENABLED"))) {
		case "0", "false", "no", "off":
			scrubEnabled = false
		default:
			scrubEnabled = true
		}
		hashSalt = strings.TrimSpace(os.Getenv("LOG_HASH_SALT"))
	})
	return scrubEnabled
}
