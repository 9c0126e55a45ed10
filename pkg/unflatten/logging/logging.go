// Package logging builds the zap loggers used by the unflatten tool.
package logging

import (
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/Xtuden-com/flatten-tool/pkg/unflatten/models"
)

// Format names a log encoding.
type Format string

const (
	// FormatConsole writes human readable lines.
	FormatConsole Format = "console"
	// FormatJSON writes one JSON object per entry.
	FormatJSON Format = "json"
)

// New creates a logger writing entries at level and above to w.
func New(w io.Writer, level string, format Format) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(strings.TrimSpace(level))
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}

	var enc zapcore.Encoder
	switch format {
	case FormatConsole, "":
		cfg := zap.NewDevelopmentEncoderConfig()
		cfg.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		enc = zapcore.NewConsoleEncoder(cfg)
	case FormatJSON:
		enc = zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
	default:
		return nil, fmt.Errorf("log format %q: must be console or json", format)
	}

	core := zapcore.NewCore(enc, zapcore.Lock(zapcore.AddSync(w)), lvl)
	return zap.New(core), nil
}

// WarningHandler returns a handler logging each unflatten warning at warn
// level.
func WarningHandler(logger *zap.Logger) func(models.Warning) {
	return func(w models.Warning) {
		fields := []zap.Field{
			zap.String("kind", string(w.Kind)),
			zap.String("sheet", w.Sheet),
			zap.Int("line", w.Line),
		}
		if w.Path != "" {
			fields = append(fields,
				zap.String("path", w.Path),
				zap.Any("existing", w.Existing),
				zap.Any("incoming", w.Incoming))
		}
		logger.Warn(w.Message, fields...)
	}
}
