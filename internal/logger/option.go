package logger

import (
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// componentLevelsMu guards componentLevels.
	//nolint:gochecknoglobals // Overrides apply to every logger created through WithName.
	componentLevelsMu sync.RWMutex
	// componentLevels maps a name passed to WithName to its minimum level.
	//nolint:gochecknoglobals // See componentLevelsMu.
	componentLevels map[string]zapcore.Level
)

// coreWithLevel replaces the level check of the wrapped core.
type coreWithLevel struct {
	zapcore.Core

	// level is the minimum level this core writes.
	level zapcore.Level
}

// Enabled ignores the level of the wrapped core.
func (c *coreWithLevel) Enabled(l zapcore.Level) bool {
	return c.level.Enabled(l)
}

// Check adds the core to the checked entry when the entry level is enabled.
//
//nolint:gocritic // AddCore requires ent to be passed by value.
func (c *coreWithLevel) Check(ent zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(ent.Level) {
		return ce.AddCore(ent, c)
	}

	return ce
}

// With keeps the override on loggers derived with extra fields.
//
//nolint:ireturn,nolintlint // Returning zapcore.Core is intended for zap integration.
func (c *coreWithLevel) With(fields []zapcore.Field) zapcore.Core {
	return &coreWithLevel{
		c.Core.With(fields),
		c.level,
	}
}

// WithLevel makes a logger write from lvl upwards regardless of the global level.
// It can make a component both quieter and more verbose than the rest.
//
//nolint:ireturn,nolintlint // Returning zap.Option is intended for zap integration.
func WithLevel(lvl zapcore.Level) zap.Option {
	return zap.WrapCore(
		func(core zapcore.Core) zapcore.Core {
			return &coreWithLevel{core, lvl}
		})
}

// SetComponentLevels replaces the per-component overrides, e.g. {"mqtt": "debug"}.
// Keys are the names passed to WithName. Loggers created earlier keep their level.
func SetComponentLevels(levels map[string]string) error {
	parsed := make(map[string]zapcore.Level, len(levels))

	for name, levelName := range levels {
		level, ok := ParseLogLevel(levelName)
		if !ok {
			return fmt.Errorf("component %q: unknown log level %q", name, levelName)
		}

		parsed[strings.TrimSpace(name)] = level
	}

	componentLevelsMu.Lock()
	componentLevels = parsed
	componentLevelsMu.Unlock()

	return nil
}

func componentLevel(name string) (zapcore.Level, bool) {
	componentLevelsMu.RLock()
	defer componentLevelsMu.RUnlock()

	level, ok := componentLevels[name]

	return level, ok
}
