package envutil

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/yungbote/studyquiz-backend/internal/platform/logger"
)

// String returns the trimmed value of name, or def when unset or blank.
// Every lookup is logged at debug level when log is non-nil.
func String(name, def string, log *logger.Logger) string {
	v, ok := lookup(name)
	if !ok {
		note(log, name, "Environment variable not found, using default", "default", def)
		return def
	}
	note(log, name, "Environment variable found, using environment", "value", v)
	return v
}

// Secret is String for credentials: only presence is logged.
func Secret(name string, log *logger.Logger) string {
	v, _ := lookup(name)
	note(log, name, "Secret environment variable checked", "present", v != "")
	return v
}

func Int(name string, def int, log *logger.Logger) int {
	v, ok := lookup(name)
	if !ok {
		note(log, name, "Environment variable not found, using default", "default", def)
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		note(log, name, "Environment variable could not be parsed as int, using default", "provided", v, "default", def, "error", err)
		return def
	}
	note(log, name, "Environment variable found, using it", "value", i)
	return i
}

func Bool(name string, def bool, log *logger.Logger) bool {
	v, ok := lookup(name)
	if !ok {
		note(log, name, "Environment variable not found, using default", "default", def)
		return def
	}
	switch strings.ToLower(v) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		note(log, name, "Environment variable could not be parsed as bool, using default", "provided", v, "default", def)
		return def
	}
}

// Seconds reads an integer number of seconds as a time.Duration.
func Seconds(name string, def time.Duration, log *logger.Logger) time.Duration {
	secs := Int(name, int(def/time.Second), log)
	if secs < 0 {
		return def
	}
	return time.Duration(secs) * time.Second
}

// List splits a comma separated variable, dropping empty entries.
func List(name string, def []string, log *logger.Logger) []string {
	raw := String(name, "", log)
	if raw == "" {
		return def
	}
	out := make([]string, 0, 4)
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}

func lookup(name string) (string, bool) {
	v, ok := os.LookupEnv(name)
	if !ok {
		return "", false
	}
	v = strings.TrimSpace(v)
	return v, v != ""
}

func note(log *logger.Logger, name, msg string, kv ...interface{}) {
	if log == nil {
		return
	}
	log.With("env_var", name).Debug(msg, kv...)
}
