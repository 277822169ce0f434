package server

import (
	"errors"
	"html/template"
	"io"
	"net/http"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"MediBot/internal/utility"
)

const (
	requestIDHeader   = "X-Request-ID"
	chatPath          = "/chat"
	scanNutritionPath = "/scan-nutrition"
)

// TemplateRenderer is a custom html/template renderer for Echo framework
type TemplateRenderer struct {
	templates *template.Template
}

// Render renders a template document
func (t *TemplateRenderer) Render(w io.Writer, name string, data interface{}, c echo.Context) error {
	return t.templates.ExecuteTemplate(w, name, data)
}

func (s *Server) RegisterRoutes() http.Handler {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = httpErrorHandler

	trusted, err := utility.ParseTrustedProxies(s.cfg.TrustedProxies)
	if err != nil {
		log.Warn().Err(err).Msg("Ignoring trusted proxies, using the socket address as client IP")
		trusted = nil
	}
	e.IPExtractor = utility.NewIPExtractor(trusted)

	e.Use(LoggerMiddleware)
	e.Use(requestLogger())
	e.Use(middleware.Recover())

	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: s.cfg.CORSAllowOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderAccept, echo.HeaderContentType, requestIDHeader},
		MaxAge:       300,
	}))
	if s.cfg.BodyLimit != "" {
		e.Use(middleware.BodyLimit(s.cfg.BodyLimit))
	}

	webDir := s.cfg.WebDir
	e.Static("/static", filepath.Join(webDir, "public"))

	templates, err := template.ParseGlob(filepath.Join(webDir, "templates", "*.html"))
	if err != nil {
		log.Warn().Err(err).Str("web_dir", webDir).Msg("No page templates loaded, landing page disabled")
	} else {
		e.Renderer = &TemplateRenderer{templates: templates}
	}

	e.GET("/", s.indexHandler)
	e.GET("/health", s.healthHandler)

	// Only the model-backed routes are rate limited.
	var limited []echo.MiddlewareFunc
	if limiter := s.rateLimiter(); limiter != nil {
		limited = append(limited, limiter)
	}
	e.POST(chatPath, s.chatHandler, limited...)
	e.POST(scanNutritionPath, s.scanNutritionHandler, limited...)

	return e
}

// LoggerMiddleware attaches a request-scoped logger carrying the request id to
// both the echo context and the request context.
func LoggerMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		requestID := c.Request().Header.Get(requestIDHeader)
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Set("request_id", requestID)
		c.Response().Header().Set(requestIDHeader, requestID)

		logger := log.With().Str("request_id", requestID).Logger()
		c.Set("logger", &logger)

		req := c.Request()
		c.SetRequest(req.WithContext(logger.WithContext(req.Context())))

		return next(c)
	}
}

// requestLogger writes one access log line per request through zerolog.
func requestLogger() echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRemoteIP:  true,
		LogUserAgent: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			logger := zerolog.Ctx(c.Request().Context())

			event := logger.Info()
			if v.Error != nil || v.Status >= http.StatusInternalServerError {
				event = logger.Error().Err(v.Error)
			}
			event.
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("remote_ip", v.RemoteIP).
				Str("user_agent", v.UserAgent).
				Msg("request")
			return nil
		},
	})
}

// rateLimiter limits the model-backed routes per client IP, as resolved by
// e.IPExtractor. It returns nil when RATE_LIMIT_RPS is 0.
func (s *Server) rateLimiter() echo.MiddlewareFunc {
	if s.cfg.RateLimitRPS <= 0 {
		return nil
	}

	store := middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
		Rate:      rate.Limit(s.cfg.RateLimitRPS),
		Burst:     s.cfg.RateLimitBurst,
		ExpiresIn: 3 * time.Minute,
	})

	return middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
		Store: store,
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return writeError(c, http.StatusForbidden, "Could not identify client")
		},
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			zerolog.Ctx(c.Request().Context()).Warn().Str("client_ip", identifier).Msg("Rate limit exceeded")
			return writeError(c, http.StatusTooManyRequests, "Too many requests, please slow down.")
		},
	})
}

// httpErrorHandler renders every unhandled error through writeError.
// Messages of 5xx errors that did not come from echo are never exposed.
func httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	message := http.StatusText(code)

	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
		if m, ok := he.Message.(string); ok {
			message = m
		} else {
			message = http.StatusText(code)
		}
	}

	if code == http.StatusRequestEntityTooLarge && c.Path() == scanNutritionPath {
		message = msgScanTooLarge
	}

	if code >= http.StatusInternalServerError {
		zerolog.Ctx(c.Request().Context()).Error().Err(err).Int("status", code).Msg("Request failed")
	}

	if c.Request().Method == http.MethodHead {
		err = c.NoContent(code)
	} else {
		err = writeError(c, code, message)
	}
	if err != nil {
		zerolog.Ctx(c.Request().Context()).Error().Err(err).Msg("Failed to write error response")
	}
}

// writeError answers in the body shape of the matched route:
// {"success":false,"error":...} for scans, {"error":...} elsewhere.
func writeError(c echo.Context, code int, message string) error {
	if c.Path() == scanNutritionPath {
		return c.JSON(code, scanFailure(message))
	}
	return c.JSON(code, errorBody(message))
}

func errorBody(message string) map[string]string {
	return map[string]string{"error": message}
}
