// Package logger wraps zap for the patcher:
//   - a global sugared logger writing console lines to stderr,
//   - context helpers (ToContext/FromContext/WithName/WithKV/WithFields),
//   - level parsing and a per-logger level option.
//
// Services take a context and pull the logger out of it, so names and
// fields attached by callers follow every log line of a run.
package logger
