package logging

import "github.com/rs/zerolog"

// DispatcherLogger bridges the dispatcher's key-value logging calls
// onto a zerolog.Logger.
type DispatcherLogger struct {
	log zerolog.Logger
}

// NewDispatcherLogger wraps a zerolog.Logger for use as the
// dispatcher's Logger.
func NewDispatcherLogger(log zerolog.Logger) *DispatcherLogger {
	return &DispatcherLogger{log: log}
}

func (l *DispatcherLogger) Debug(msg string, keysAndValues ...any) {
	emit(l.log.Debug(), msg, keysAndValues)
}

func (l *DispatcherLogger) Info(msg string, keysAndValues ...any) {
	emit(l.log.Info(), msg, keysAndValues)
}

func (l *DispatcherLogger) Error(msg string, keysAndValues ...any) {
	emit(l.log.Error(), msg, keysAndValues)
}

// emit appends the pairs as structured fields. Non-string keys are
// skipped rather than stringified; a trailing odd value is dropped.
func emit(ev *zerolog.Event, msg string, pairs []any) {
	for i := 0; i+1 < len(pairs); i += 2 {
		key, ok := pairs[i].(string)
		if !ok {
			continue
		}
		ev = ev.Interface(key, pairs[i+1])
	}
	ev.Msg(msg)
}
