package logger

// LoggerInstance defines the interface for logging backends.
type LoggerInstance interface {
	Log(message string, keyvals ...any)
	Debug(message string, keyvals ...any)
	Info(message string, keyvals ...any)
	Warn(message string, keyvals ...any)
	Error(message string, keyvals ...any)
	Fatal(message string, keyvals ...any)
}

// Logger holds multiple logging backends and dispatches log calls to all of them.
// A Logger is itself a LoggerInstance, so it can be handed to components that
// take their logger as a dependency.
type Logger struct {
	instances []LoggerInstance
}

var singleton *Logger

// New creates a Logger dispatching to the given backends.
func New(instances ...LoggerInstance) *Logger {
	return &Logger{instances: instances}
}

// Init initializes the global logger with one or more logging backends.
// This must be called before using any of the package level logging functions.
func Init(instances ...LoggerInstance) {
	singleton = New(instances...)
}

// Default returns the global logger. Before Init is called it returns a
// Logger without backends that drops every message.
func Default() *Logger {
	if singleton == nil {
		return New()
	}
	return singleton
}

func (l *Logger) Log(message string, keyvals ...any) {
	for _, instance := range l.instances {
		instance.Log(message, keyvals...)
	}
}

func (l *Logger) Debug(message string, keyvals ...any) {
	for _, instance := range l.instances {
		instance.Debug(message, keyvals...)
	}
}

func (l *Logger) Info(message string, keyvals ...any) {
	for _, instance := range l.instances {
		instance.Info(message, keyvals...)
	}
}

func (l *Logger) Warn(message string, keyvals ...any) {
	for _, instance := range l.instances {
		instance.Warn(message, keyvals...)
	}
}

func (l *Logger) Error(message string, keyvals ...any) {
	for _, instance := range l.instances {
		instance.Error(message, keyvals...)
	}
}

func (l *Logger) Fatal(message string, keyvals ...any) {
	for _, instance := range l.instances {
		instance.Fatal(message, keyvals...)
	}
}

// Log writes a message at the default log level to all configured backends.
func Log(message string, keyvals ...any) {
	Default().Log(message, keyvals...)
}

// Info writes a message at INFO level to all configured backends.
func Info(message string, keyvals ...any) {
	Default().Info(message, keyvals...)
}

// Warn writes a message at WARN level to all configured backends.
func Warn(message string, keyvals ...any) {
	Default().Warn(message, keyvals...)
}

// Error writes a message at ERROR level to all configured backends.
func Error(message string, keyvals ...any) {
	Default().Error(message, keyvals...)
}

// Debug writes a message at DEBUG level to all configured backends.
func Debug(message string, keyvals ...any) {
	Default().Debug(message, keyvals...)
}

// Fatal writes a message at FATAL level and terminates the program.
func Fatal(message string, keyvals ...any) {
	Default().Fatal(message, keyvals...)
}

// Nop is a LoggerInstance that discards everything.
type Nop struct{}

func (Nop) Log(string, ...any)   {}
func (Nop) Debug(string, ...any) {}
func (Nop) Info(string, ...any)  {}
func (Nop) Warn(string, ...any)  {}
func (Nop) Error(string, ...any) {}
func (Nop) Fatal(string, ...any) {}
