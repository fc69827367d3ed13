package handler

import (
	"portal/internal/application/registry"
	"portal/pkg/config"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
	"go.uber.org/zap"
)

type Router struct {
	handler  *HandlerImpl
	app      *fiber.App
	conf     *config.Config
	registry *registry.Registry
	logger   *zap.SugaredLogger
}

func NewRouter(handler *HandlerImpl, app *fiber.App, conf *config.Config, registry *registry.Registry, logger *zap.SugaredLogger) *Router {
	return &Router{
		logger:   logger,
		app:      app,
		conf:     conf,
		registry: registry,
		handler:  handler,
	}
}

func (r *Router) RegisterRouter() {
	r.app.Get("/health", r.handler.HealthCheck)

	r.app.Use(
		recover.New(recover.Config{
			EnableStackTrace: true,
		}),
		logger.New(),
	)

	tokens := ParseTokens(r.conf.Auth.Tokens)
	if len(tokens) == 0 {
		r.logger.Warn("auth.tokens пуст: все запросы к /portal/api будут отклонены с 401")
	}

	r.app.Route("/portal", func(router fiber.Router) {

		router.Use("/swagger/*", swagger.New(swagger.Config{
			DeepLinking: false,
			URL:         "/portal/swagger/doc.json",
		}))

		api := router.Group("/api", Auth(tokens))

		v1 := api.Group("/v1")

		for _, b := range r.registry.Routed() {
			v1.Get(b.Route, r.handler.Trigger(b.Module))
			r.logger.Infof("[module: %s] GET /portal/api/v1%s -> %s", b.Module, b.Route, b.Event)
		}

		leveling := v1.Group("/leveling")
		leveling.Post("/badges", r.handler.CreateBadge)
		leveling.Get("/badges", r.handler.ListBadges)
		leveling.Get("/badges/:id", r.handler.GetBadge)
		leveling.Delete("/badges/:id", r.handler.DeleteBadge)
		leveling.Post("/quests", r.handler.CreateQuest)
		leveling.Get("/quests", r.handler.ListQuests)
		leveling.Get("/quests/:id", r.handler.GetQuest)
		leveling.Patch("/quests/:id/status", r.handler.UpdateQuestStatus)
		leveling.Get("/profiles/:userId", r.handler.GetProfile)
		leveling.Post("/profiles/:userId/badges/:badgeId", r.handler.AwardBadge)
		leveling.Post("/profiles/:userId/xp", r.handler.RequestXPGain)
		leveling.Get("/profiles/:userId/lootboxes", r.handler.ListLootboxes)
		leveling.Post("/profiles/:userId/lootboxes/:id/open", r.handler.RequestLootboxOpen)
		leveling.Post("/lootboxes", r.handler.CreateLootbox)

		contacts := v1.Group("/contacts")
		contacts.Post("", r.handler.CreateContact)
		contacts.Get("", r.handler.ListContacts)
		contacts.Get("/:id", r.handler.GetContact)
		contacts.Patch("/:id", r.handler.PatchContact)
		contacts.Delete("/:id", r.handler.DeleteContact)

		assets := v1.Group("/assets")
		assets.Post("", r.handler.CreateAsset)
		assets.Get("", r.handler.ListAssets)
		assets.Get("/:id", r.handler.GetAsset)
		assets.Put("/:id", r.handler.UpdateAsset)
		assets.Delete("/:id", r.handler.DeleteAsset)
		assets.Post("/:id/assign", r.handler.AssignAsset)
		assets.Post("/:id/release", r.handler.ReleaseAsset)

		presence := v1.Group("/presence")
		presence.Post("", r.handler.RecordPresence)
		presence.Get("", r.handler.ListPresenceByDate)
		presence.Get("/users/:userId", r.handler.ListPresenceByUser)
	})
}
