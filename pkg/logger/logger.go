// Package logger centraliza el logging estructurado de la aplicación sobre
// zerolog: JSON en producción, consola legible en desarrollo.
package logger

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Config opciones del logger.
type Config struct {
	Env     string    // development usa consola legible; cualquier otro valor, JSON
	Level   string    // trace, debug, info, warn, error (default info)
	Service string    // si no es vacío se agrega como campo fijo a cada línea
	Writer  io.Writer // destino de salida; nil escribe a stdout
}

// Logger envoltorio de zerolog para inyectar en los casos de uso.
type Logger struct {
	zl zerolog.Logger
}

// New construye el logger y redirige el logger global de zerolog, para que
// las librerías que lo usan escriban con el mismo formato.
func New(cfg Config) *Logger {
	w := cfg.Writer
	if w == nil {
		w = os.Stdout
	}
	if cfg.Env == "development" {
		w = zerolog.ConsoleWriter{Out: w}
	}

	level, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	zctx := zerolog.New(w).Level(level).With().Timestamp()
	if cfg.Service != "" {
		zctx = zctx.Str("service", cfg.Service)
	}
	zl := zctx.Logger()
	log.Logger = zl

	return &Logger{zl: zl}
}

func (l *Logger) Debug() *zerolog.Event { return l.zl.Debug() }
func (l *Logger) Info() *zerolog.Event  { return l.zl.Info() }
func (l *Logger) Warn() *zerolog.Event  { return l.zl.Warn() }
func (l *Logger) Error() *zerolog.Event { return l.zl.Error() }
func (l *Logger) Fatal() *zerolog.Event { return l.zl.Fatal() }
