package server

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"MediBot/internal/aiservice"
	"MediBot/internal/apperr"
)

const (
	msgInvalidRequest  = "Invalid request format"
	msgScanUnavailable = "Nutrition scanning is currently unavailable."
	msgScanUnreadable  = "Could not extract nutrition facts from the image. Please ensure the nutrition label is clear and try again."
	msgScanFailed      = "An error occurred while processing the image. Please try again."
	msgScanTooLarge    = "The image is too large. Please try a smaller photo."
	msgLandingPageGone = "Landing page not available"
	indexTemplateName  = "index.html"
)

type chatRequest struct {
	Message string `json:"message"`
}

type scanRequest struct {
	Image string `json:"image"`
}

type scanResponse struct {
	Success       bool                      `json:"success"`
	NutritionData *aiservice.NutritionFacts `json:"nutrition_data,omitempty"`
	Error         string                    `json:"error,omitempty"`
}

// chatHandler answers one message. Provider trouble never reaches the client:
// the assistant already degraded to a fallback reply.
func (s *Server) chatHandler(c echo.Context) error {
	var req chatRequest
	if err := c.Bind(&req); err != nil {
		zerolog.Ctx(c.Request().Context()).Debug().Err(err).Msg("chatHandler: bind failed")
		return c.JSON(http.StatusBadRequest, errorBody(msgInvalidRequest))
	}

	reply, err := s.assistant.Handle(c.Request().Context(), req.Message)
	if err != nil {
		if apperr.IsKind(err, apperr.KindValidation) {
			return c.JSON(http.StatusBadRequest, errorBody(messageOf(err)))
		}
		return err
	}

	return c.JSON(http.StatusOK, reply)
}

// scanNutritionHandler extracts label data from a base64 image. Every outcome,
// including a panic further down, is answered in the scanResponse shape.
func (s *Server) scanNutritionHandler(c echo.Context) (err error) {
	ctx := c.Request().Context()
	logger := zerolog.Ctx(ctx)

	defer func() {
		if r := recover(); r != nil {
			logger.Error().Interface("panic", r).Msg("scanNutritionHandler: recovered from panic")
			err = c.JSON(http.StatusInternalServerError, scanFailure(msgScanFailed))
		}
	}()

	var req scanRequest
	if err := c.Bind(&req); err != nil {
		logger.Debug().Err(err).Msg("scanNutritionHandler: bind failed")
		return c.JSON(http.StatusBadRequest, scanFailure(msgInvalidRequest))
	}

	img, err := aiservice.DecodeImage(req.Image)
	if err != nil {
		return c.JSON(http.StatusBadRequest, scanFailure(messageOf(err)))
	}

	if s.extractor == nil {
		logger.Warn().Msg("scanNutritionHandler: no vision provider configured")
		return c.JSON(http.StatusServiceUnavailable, scanFailure(msgScanUnavailable))
	}

	facts, err := s.extractor.Extract(ctx, img)
	if err == nil {
		return c.JSON(http.StatusOK, scanResponse{Success: true, NutritionData: facts})
	}

	switch apperr.KindOf(err) {
	case apperr.KindProvider, apperr.KindValidation:
		logger.Warn().Err(err).Msg("scanNutritionHandler: extraction failed")
		return c.JSON(http.StatusBadRequest, scanFailure(msgScanUnreadable))
	default:
		logger.Error().Err(err).Msg("scanNutritionHandler: unexpected error")
		return c.JSON(http.StatusInternalServerError, scanFailure(msgScanFailed))
	}
}

// indexHandler serves the landing page.
func (s *Server) indexHandler(c echo.Context) error {
	if c.Echo().Renderer == nil {
		return echo.NewHTTPError(http.StatusNotFound, msgLandingPageGone)
	}
	return c.Render(http.StatusOK, indexTemplateName, map[string]any{
		"ChatEnabled": s.chatEnabled,
		"ScanEnabled": s.extractor != nil,
	})
}

func scanFailure(message string) scanResponse {
	return scanResponse{Success: false, Error: message}
}

// messageOf returns the client-facing message of a typed error.
func messageOf(err error) string {
	var typed *apperr.Error
	if errors.As(err, &typed) {
		return typed.Message
	}
	return http.StatusText(http.StatusBadRequest)
}
