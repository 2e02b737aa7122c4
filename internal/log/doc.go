// Package log builds the slog loggers used by embedprobe.
//
// Every logger returned by this package wraps its output handler in a
// SecureHandler, which masks:
//   - attributes whose key names a credential (cookie, authorization, token, ...)
//   - values that look like bearer tokens, JWTs or basic auth
//   - userinfo and credential-like query parameters inside URL values
//
// Candidate stream URLs often carry signed tokens in their query string, and
// the SOCKS5 proxy may be configured with a user:password pair; both end up in
// log lines when probing in verbose mode. Reports written to disk are not
// affected: only log output is sanitized.
//
// # Usage
//
//	logger := log.NewLogger(os.Stderr, log.FormatText, verbose)
//	slog.SetDefault(logger)
//
//	logger.Debug("attempt finished", "url", "https://u:p@cdn.example/live.m3u8?token=abc")
//	// url=https://***REDACTED***@cdn.example/live.m3u8?token=***REDACTED***
package log
