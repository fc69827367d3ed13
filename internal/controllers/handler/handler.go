package handler

import (
	"context"
	"time"

	"portal/internal/appers"
	"portal/internal/application/entity"
	"portal/internal/application/service"
	use_cases "portal/internal/application/use-cases"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Modules сервисы модулей с документами
type Modules struct {
	Leveling service.LevelingService
	Contacts service.ContactService
	Assets   service.AssetService
	Presence service.PresenceService
}

type HandlerImpl struct {
	usecase  use_cases.UseCaser
	leveling service.LevelingService
	contacts service.ContactService
	assets   service.AssetService
	presence service.PresenceService
	logger   *zap.SugaredLogger
}

func NewHandler(usecase use_cases.UseCaser, modules Modules, logger *zap.SugaredLogger) *HandlerImpl {
	return &HandlerImpl{
		usecase:  usecase,
		leveling: modules.Leveling,
		contacts: modules.Contacts,
		assets:   modules.Assets,
		presence: modules.Presence,
		logger:   logger,
	}
}

// HealthCheck godoc
// @Summary     Проверка состояния сервиса
// @Description Проверяет доступность PostgreSQL (outbox), MongoDB, Kafka и Redis (если настроен). Возвращает состояние каждого компонента.
// @Produce     json
// @Success     200   {object} entity.HealthCheckResponse "Все сервисы доступны"
// @Failure     503   {object} entity.HealthCheckResponse "Один или несколько сервисов недоступны"
// @tags        Health
// @Router      /health [get]
func (h *HandlerImpl) HealthCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 3*time.Second)
	defer cancel()

	health := h.usecase.HealthCheck(ctx)
	if !health.Status {
		return c.Status(fiber.StatusServiceUnavailable).JSON(health)
	}
	return c.Status(fiber.StatusOK).JSON(health)
}

// Trigger godoc
// @Summary     Ручной запуск события модуля
// @Description Публикует событие модуля (GENERATE_DAILY_BIRTHDAY, GENERATE_DAILY_NEWS, GENERATE_DAILY_WEATHER) так же, как это делает cron
// @Produce     plain
// @Success     200 {string} string "ok"
// @Failure     401
// @Failure     500
// @Security    BearerAuth
// @tags        Triggers
// @Router      /v1/birthday/generate [get]
// @Router      /v1/news/generate [get]
// @Router      /v1/weather/generate [get]
func (h *HandlerImpl) Trigger(module string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		by := requestedBy(c)
		env, err := h.usecase.Trigger(c.UserContext(), module, entity.TriggerHTTP, entity.TriggerPayload{RequestedBy: by})
		if err != nil {
			h.logger.Errorf("[module: %s] trigger by %s failed: %v", module, by, err)
			return appers.SanitizeError(c, err)
		}
		h.logger.Infof("[module: %s] %s triggered by %s, id: %s", module, env.Event, by, env.ID)
		return sendOK(c)
	}
}

func sendOK(c *fiber.Ctx) error {
	return c.SendString("ok")
}
