// Package diagnostics provides the injectable logging sink and the prometheus
// metrics used by the transform engine. The engine never writes to a global
// logger; it reports through a Sink that defaults to NopSink.
package diagnostics

import (
	"io"

	"github.com/rs/zerolog"
)

// Sink receives structured diagnostics. Implementations must be safe for
// concurrent use, although the engine only reports from the calling goroutine.
type Sink interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Error(msg string, err error, fields ...Field)
}

// Field is a key-value pair for structured logging
type Field struct {
	Key   string
	Value any
}

func String(key, value string) Field { return Field{Key: key, Value: value} }

func Int(key string, value int) Field { return Field{Key: key, Value: value} }

func Float64(key string, value float64) Field { return Field{Key: key, Value: value} }

func Bool(key string, value bool) Field { return Field{Key: key, Value: value} }

func Err(err error) Field { return Field{Key: "error", Value: err} }

// NopSink discards everything
type NopSink struct{}

func (NopSink) Debug(string, ...Field)        {}
func (NopSink) Info(string, ...Field)         {}
func (NopSink) Error(string, error, ...Field) {}

// OrNop returns s, or NopSink when s is nil
func OrNop(s Sink) Sink {
	if s == nil {
		return NopSink{}
	}
	return s
}

// ZerologSink adapts a zerolog.Logger to Sink
type ZerologSink struct {
	logger zerolog.Logger
}

func NewZerologSink(logger zerolog.Logger) *ZerologSink {
	return &ZerologSink{logger: logger}
}

// NewConsoleSink writes human readable records to w at the given level
func NewConsoleSink(w io.Writer, level zerolog.Level) *ZerologSink {
	return NewZerologSink(zerolog.New(zerolog.ConsoleWriter{Out: w, NoColor: true}).
		Level(level).With().Timestamp().Logger())
}

// NewJSONSink writes JSON records tagged with component
func NewJSONSink(w io.Writer, component string, level zerolog.Level) *ZerologSink {
	return NewZerologSink(zerolog.New(w).Level(level).
		With().Str("component", component).Timestamp().Logger())
}

func applyFields(event *zerolog.Event, fields []Field) *zerolog.Event {
	for _, f := range fields {
		switch v := f.Value.(type) {
		case string:
			event = event.Str(f.Key, v)
		case int:
			event = event.Int(f.Key, v)
		case int64:
			event = event.Int64(f.Key, v)
		case float64:
			event = event.Float64(f.Key, v)
		case bool:
			event = event.Bool(f.Key, v)
		case error:
			event = event.AnErr(f.Key, v)
		default:
			event = event.Interface(f.Key, v)
		}
	}
	return event
}

func (z *ZerologSink) Debug(msg string, fields ...Field) {
	applyFields(z.logger.Debug(), fields).Msg(msg)
}

func (z *ZerologSink) Info(msg string, fields ...Field) {
	applyFields(z.logger.Info(), fields).Msg(msg)
}

func (z *ZerologSink) Error(msg string, err error, fields ...Field) {
	applyFields(z.logger.Error().Err(err), fields).Msg(msg)
}
