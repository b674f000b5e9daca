// internal/middleware/recover.go
package middleware

import (
	"net/http"

	"github.com/gorilla/handlers"
	"github.com/sirupsen/logrus"
)

// Recover turns a handler panic into a 500 and logs it.
func Recover(logger *logrus.Logger) func(next http.Handler) http.Handler {
	return handlers.RecoveryHandler(
		handlers.RecoveryLogger(logger.WithField("component", "http")),
		handlers.PrintRecoveryStack(logger.IsLevelEnabled(logrus.DebugLevel)),
	)
}
