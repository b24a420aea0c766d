package httpapi

import (
	"github.com/labstack/echo/v4"
)

func (s *Server) handleCacheStats(c echo.Context) error {
	if s.cache == nil {
		return internalError(c, "Flight cache is not configured")
	}
	return success(c, s.cache.Stats(c.Request().Context()))
}

func (s *Server) handleCacheClear(c echo.Context) error {
	if s.cache == nil {
		return internalError(c, "Flight cache is not configured")
	}

	cleared := s.cache.ClearCache(c.Request().Context())
	s.logger.Info().Int64("cleared", cleared).Msg("Flight cache cleared via ops API")
	return success(c, map[string]any{
		"cleared": cleared,
	})
}
