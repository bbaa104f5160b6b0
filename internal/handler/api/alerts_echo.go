package api

import (
	"context"
	"errors"
	"io"

	models "wingman/internal/domain/models"
	"wingman/internal/service/telegram"
	"wingman/internal/usecase"
	xhttp "wingman/pkg/http"
	xlogger "wingman/pkg/logger"

	"github.com/labstack/echo/v4"
)

// maxAlertBody bounds the webhook body read. TradingView alerts are small;
// anything larger is junk.
const maxAlertBody = 1 << 20

// IDInvalidator drops a cached aggregator identifier so the next alert
// re-resolves it.
type IDInvalidator interface {
	InvalidateID(ctx context.Context, base string) error
}

// AlertsEchoHandler exposes the webhook, bot, and operational endpoints.
type AlertsEchoHandler struct {
	logger    *xlogger.Logger
	processor *usecase.AlertProcessor
	analyzer  *usecase.Analyzer
	bot       *usecase.Bot
	notifier  *telegram.Client
	ids       IDInvalidator
}

func NewAlertsEchoHandler(
	logger *xlogger.Logger,
	processor *usecase.AlertProcessor,
	analyzer *usecase.Analyzer,
	bot *usecase.Bot,
	notifier *telegram.Client,
	ids IDInvalidator,
) *AlertsEchoHandler {
	return &AlertsEchoHandler{
		logger:    logger,
		processor: processor,
		analyzer:  analyzer,
		bot:       bot,
		notifier:  notifier,
		ids:       ids,
	}
}

func (h *AlertsEchoHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", h.Health)
	e.POST("/tv", h.TVWebhook)
	e.GET("/tv/test", h.TVTest)
	e.POST("/webhook", h.TelegramWebhook)

	g := e.Group("/api")
	g.POST("/analyze", h.Analyze)
	g.DELETE("/cache/ids/:symbol", h.InvalidateID)
}

func (h *AlertsEchoHandler) Health(c echo.Context) error {
	return xhttp.SuccessResponse(c, "ok")
}

// TVWebhook receives TradingView alerts. Authentication and parse failures
// map to 401/400; anything after that reports through the result body.
func (h *AlertsEchoHandler) TVWebhook(c echo.Context) error {
	body, err := io.ReadAll(io.LimitReader(c.Request().Body, maxAlertBody))
	if err != nil {
		return xhttp.BadRequestResponse(c, "unreadable body")
	}

	result, err := h.processor.Process(c.Request().Context(), body)
	switch {
	case errors.Is(err, usecase.ErrBadSecret):
		h.logger.Warn("unauthorized webhook attempt", xlogger.String("remote", c.RealIP()))
		return xhttp.UnauthorizedResponse(c, "unauthorized")
	case errors.Is(err, usecase.ErrBadPayload):
		return xhttp.BadRequestResponse(c, "bad json")
	case err != nil:
		h.logger.Error("webhook processing error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, result)
}

// TVTest pushes a fixed line to the configured chat to verify credentials.
func (h *AlertsEchoHandler) TVTest(c echo.Context) error {
	if err := h.notifier.Send(c.Request().Context(), "✅ /tv/test reached OK"); err != nil {
		h.logger.Error("test delivery failed", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, "ok")
}

// TelegramWebhook receives Bot API updates when webhook mode is registered
// instead of long polling.
func (h *AlertsEchoHandler) TelegramWebhook(c echo.Context) error {
	update, err := telegram.DecodeUpdate(c.Request().Body)
	if err != nil {
		return xhttp.BadRequestResponse(c, "no json")
	}
	if update.Message != nil && update.Message.Text != "" {
		h.bot.HandleUpdate(c.Request().Context(), update.Message.Chat.ID, update.Message.Text)
	}
	return xhttp.SuccessResponse(c, "ok")
}

func (h *AlertsEchoHandler) Analyze(c echo.Context) error {
	req := &models.AnalyzeRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	res, err := h.analyzer.Analyze(c.Request().Context(), req.Symbol, req.Timeframe)
	if errors.Is(err, usecase.ErrNoCachedData) {
		return xhttp.NotFoundResponse(c, "no cached alert for request")
	}
	if err != nil {
		h.logger.Error("analyze usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, res)
}

// InvalidateID drops the cached aggregator id for a base asset, for when
// the search picked the wrong coin.
func (h *AlertsEchoHandler) InvalidateID(c echo.Context) error {
	symbol := c.Param("symbol")
	if symbol == "" {
		return xhttp.BadRequestResponse(c, "missing symbol")
	}
	if err := h.ids.InvalidateID(c.Request().Context(), symbol); err != nil {
		h.logger.Error("id invalidation failed", xlogger.String("symbol", symbol), xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.NoContentResponse(c)
}
