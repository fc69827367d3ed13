package handler

import (
	"time"

	"portal/internal/appers"
	"portal/internal/application/entity"

	"github.com/gofiber/fiber/v2"
)

// CreateBadge godoc
// @Summary     Создание бейджа
// @Accept      json
// @Produce     json
// @Param       body  body     entity.Badge  true  "Бейдж"
// @Success     201   {object} entity.Badge
// @Failure     400
// @Failure     409
// @Security    BearerAuth
// @tags        Leveling
// @Router      /v1/leveling/badges [post]
func (h *HandlerImpl) CreateBadge(c *fiber.Ctx) error {
	var b entity.Badge
	if ok, err := h.parseAndValidate(c, &b, b.ApplyDefaults); !ok {
		return err
	}

	created, err := h.leveling.CreateBadge(c.UserContext(), b)
	if err != nil {
		return appers.SanitizeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(created)
}

// ListBadges godoc
// @Summary     Список бейджей
// @Produce     json
// @Success     200   {array} entity.Badge
// @Security    BearerAuth
// @tags        Leveling
// @Router      /v1/leveling/badges [get]
func (h *HandlerImpl) ListBadges(c *fiber.Ctx) error {
	badges, err := h.leveling.ListBadges(c.UserContext())
	if err != nil {
		return appers.SanitizeError(c, err)
	}
	return c.JSON(badges)
}

func (h *HandlerImpl) GetBadge(c *fiber.Ctx) error {
	b, err := h.leveling.GetBadge(c.UserContext(), c.Params("id"))
	if err != nil {
		return appers.SanitizeError(c, err)
	}
	return c.JSON(b)
}

// DeleteBadge godoc
// @Summary     Удаление бейджа
// @Description Удаляет бейдж и убирает его из всех квестов и профилей пользователей
// @Produce     json
// @Param       id   path     string  true  "ID бейджа"
// @Success     200  {object} entity.BadgeCascade
// @Failure     404
// @Security    BearerAuth
// @tags        Leveling
// @Router      /v1/leveling/badges/{id} [delete]
func (h *HandlerImpl) DeleteBadge(c *fiber.Ctx) error {
	res, err := h.leveling.DeleteBadge(c.UserContext(), c.Params("id"))
	if err != nil {
		return appers.SanitizeError(c, err)
	}
	return c.JSON(res)
}

func (h *HandlerImpl) CreateQuest(c *fiber.Ctx) error {
	var q entity.Quest
	if ok, err := h.parseAndValidate(c, &q, func() { q.ApplyDefaults(time.Now().UTC()) }); !ok {
		return err
	}

	created, err := h.leveling.CreateQuest(c.UserContext(), q)
	if err != nil {
		return appers.SanitizeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(created)
}

func (h *HandlerImpl) ListQuests(c *fiber.Ctx) error {
	status := entity.QuestStatus(c.Query("status"))
	switch status {
	case "", entity.QuestActive, entity.QuestInactive, entity.QuestArchived:
	default:
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid status"})
	}

	quests, err := h.leveling.ListQuests(c.UserContext(), status)
	if err != nil {
		return appers.SanitizeError(c, err)
	}
	return c.JSON(quests)
}

func (h *HandlerImpl) GetQuest(c *fiber.Ctx) error {
	q, err := h.leveling.GetQuest(c.UserContext(), c.Params("id"))
	if err != nil {
		return appers.SanitizeError(c, err)
	}
	return c.JSON(q)
}

func (h *HandlerImpl) UpdateQuestStatus(c *fiber.Ctx) error {
	var req entity.QuestStatusRequest
	if ok, err := h.parseAndValidate(c, &req, nil); !ok {
		return err
	}

	q, err := h.leveling.UpdateQuestStatus(c.UserContext(), c.Params("id"), req.Status)
	if err != nil {
		return appers.SanitizeError(c, err)
	}
	return c.JSON(q)
}

func (h *HandlerImpl) GetProfile(c *fiber.Ctx) error {
	p, err := h.leveling.GetProfile(c.UserContext(), c.Params("userId"))
	if err != nil {
		return appers.SanitizeError(c, err)
	}
	return c.JSON(p)
}

// AwardBadge godoc
// @Summary     Выдача бейджа пользователю
// @Description Повторная выдача того же бейджа ничего не меняет
// @Produce     json
// @Param       userId   path  string  true  "ID пользователя"
// @Param       badgeId  path  string  true  "ID бейджа"
// @Success     200  {object} entity.Profile
// @Failure     404
// @Security    BearerAuth
// @tags        Leveling
// @Router      /v1/leveling/profiles/{userId}/badges/{badgeId} [post]
func (h *HandlerImpl) AwardBadge(c *fiber.Ctx) error {
	p, err := h.leveling.AwardBadge(c.UserContext(), c.Params("userId"), c.Params("badgeId"))
	if err != nil {
		return appers.SanitizeError(c, err)
	}
	return c.JSON(p)
}

// RequestXPGain godoc
// @Summary     Запрос начисления опыта
// @Description Публикует XP_GAIN_REQUESTED; опыт и уровень считает обработчик события
// @Accept      json
// @Produce     plain
// @Param       userId  path  string                true  "ID пользователя"
// @Param       body    body  entity.XPGainRequest  true  "Сколько опыта"
// @Success     200 {string} string "ok"
// @Failure     400
// @Security    BearerAuth
// @tags        Leveling
// @Router      /v1/leveling/profiles/{userId}/xp [post]
func (h *HandlerImpl) RequestXPGain(c *fiber.Ctx) error {
	var req entity.XPGainRequest
	if ok, err := h.parseAndValidate(c, &req, nil); !ok {
		return err
	}

	if err := h.leveling.RequestXPGain(c.UserContext(), c.Params("userId"), req); err != nil {
		return appers.SanitizeError(c, err)
	}
	return sendOK(c)
}

func (h *HandlerImpl) CreateLootbox(c *fiber.Ctx) error {
	var l entity.Lootbox
	if ok, err := h.parseAndValidate(c, &l, l.ApplyDefaults); !ok {
		return err
	}

	created, err := h.leveling.CreateLootbox(c.UserContext(), l)
	if err != nil {
		return appers.SanitizeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(created)
}

func (h *HandlerImpl) ListLootboxes(c *fiber.Ctx) error {
	boxes, err := h.leveling.ListLootboxes(c.UserContext(), c.Params("userId"))
	if err != nil {
		return appers.SanitizeError(c, err)
	}
	return c.JSON(boxes)
}

// RequestLootboxOpen публикует LOOTBOX_OPEN_REQUESTED, награду выбирает обработчик события
func (h *HandlerImpl) RequestLootboxOpen(c *fiber.Ctx) error {
	if err := h.leveling.RequestLootboxOpen(c.UserContext(), c.Params("userId"), c.Params("id")); err != nil {
		return appers.SanitizeError(c, err)
	}
	return sendOK(c)
}
