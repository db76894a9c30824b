// Package log provides secure logging built on top of the standard slog package.
//
// The SecureHandler sanitizes every record before it reaches the wrapped handler:
//   - credential-bearing keys (Authorization, Cookie, X-Api-Key, tokens) are redacted
//   - values that look like bearer tokens, JWTs or opaque API keys are redacted
//   - optionally, harvested contact values under the keys "email", "phone" and
//     "value" are partially masked so logs can be shared without leaking leads
//
// # Usage
//
//	logger := log.NewSecureLogger(os.Stderr, verbose, log.WithContactMasking(true))
//	logger.Debug("request headers", "authorization", "Bearer abc") // redacted
//	logger.Info("email found", "email", "jane@example.com")          // j***@example.com
//	slog.SetDefault(logger)
package log
