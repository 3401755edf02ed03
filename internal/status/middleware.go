package status

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/robalyx/vouchbot/internal/metrics"
	"go.uber.org/zap"
)

// requestLogger logs every request through zap.
func (s *Server) requestLogger() echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:  true,
		LogURI:     true,
		LogStatus:  true,
		LogLatency: true,
		LogError:   true,
		LogValuesFunc: func(_ echo.Context, v middleware.RequestLoggerValues) error {
			fields := []zap.Field{
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
			}

			if v.Error != nil {
				s.logger.Warn("Request failed", append(fields, zap.Error(v.Error))...)
				return nil
			}

			s.logger.Debug("Request handled", fields...)
			return nil
		},
	})
}

// countRequests records every request by route and status code.
func (s *Server) countRequests(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		err := next(c)

		code := c.Response().Status
		if err != nil {
			var he *echo.HTTPError
			if errors.As(err, &he) {
				code = he.Code
			} else {
				code = http.StatusInternalServerError
			}
		}

		route := c.Path()
		if route == "" {
			route = "unmatched"
		}

		metrics.HTTPRequestsTotal.WithLabelValues(route, strconv.Itoa(code)).Inc()
		return err
	}
}
