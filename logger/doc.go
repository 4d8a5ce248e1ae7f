// Package logger provides structured logging for structrest clients using
// zerolog.
//
// Clients log every call at debug level and every failure at warn level,
// with endpoint, method, URL, status and duration fields. Applications that
// already configure zerolog can hand their own logger to a client; others
// call New with a Config.
//
// # Configuration
//
//	logging:
//	  level: "debug"
//	  format: "json"
//
// # Usage
//
//	log := logger.Get("billing-api")
//	log.Info("client ready", logger.Fields("base_url", cfg.BaseURL))
package logger
