package echoapi

import (
	"github.com/labstack/echo/v4"
)

// sessionMiddleware gives the handler exclusive access to the store.
func (s *server) sessionMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		s.mu.Lock()
		defer s.mu.Unlock()
		return next(ctx)
	}
}
