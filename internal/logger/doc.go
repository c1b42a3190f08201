// Package logger wraps zap with:
//   - a global sugared logger using a compact console encoder,
//   - context helpers (ToContext/FromContext/WithName/WithKV),
//   - level parsing and configuration,
//   - leveled convenience functions (Infof, WarnKV, ...).
//
// Services take a context and log through the logger stored in it, so names and
// fields attached by callers (run id, unit name, line) follow every message.
package logger
