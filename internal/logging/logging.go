// Package logging builds the process logger.  Every layer logs through a
// *logrus.Logger created here so output format and level are set in one
// place.
package logging

import (
	"os"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

// New returns a logger writing to stderr.  level is a logrus level name
// ("debug", "info", ...); an invalid name falls back to info.  In the
// "prod" environment entries are JSON, otherwise human-readable text.
func New(level, env string) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stderr)

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	log.SetLevel(lvl)

	if env == "prod" {
		log.SetFormatter(&logrus.JSONFormatter{TimestampFormat: time.RFC3339})
	} else {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return log
}

// RequestLogger returns an Echo middleware that writes one entry per
// request with method, path, status, latency and request id.
func RequestLogger(log logrus.FieldLogger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				// let Echo write the response so the logged status is final
				c.Error(err)
			}
			req := c.Request()
			res := c.Response()
			entry := log.WithFields(logrus.Fields{
				"method":     req.Method,
				"path":       c.Path(),
				"status":     res.Status,
				"latency_ms": time.Since(start).Milliseconds(),
				"request_id": res.Header().Get(echo.HeaderXRequestID),
			})
			if res.Status >= 500 {
				entry.Warn("request failed")
			} else {
				entry.Info("request")
			}
			return nil
		}
	}
}
