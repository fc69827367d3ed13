package handler

import (
	"portal/internal/appers"
	"portal/internal/application/entity"

	"github.com/gofiber/fiber/v2"
)

// CreateContact godoc
// @Summary     Создание контакта
// @Accept      json
// @Produce     json
// @Param       body  body     entity.Contact  true  "Контакт"
// @Success     201   {object} entity.Contact
// @Failure     400
// @Failure     409   "Контакт с таким email уже есть"
// @Security    BearerAuth
// @tags        Contacts
// @Router      /v1/contacts [post]
func (h *HandlerImpl) CreateContact(c *fiber.Ctx) error {
	var contact entity.Contact
	if ok, err := h.parseAndValidate(c, &contact, contact.ApplyDefaults); !ok {
		return err
	}

	created, err := h.contacts.Create(c.UserContext(), contact)
	if err != nil {
		return appers.SanitizeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(created)
}

// ListContacts godoc
// @Summary     Список контактов
// @Produce     json
// @Param       tag     query  string  false  "Тег"
// @Param       q       query  string  false  "Поиск по имени, фамилии и email"
// @Param       limit   query  int     false  "Размер страницы (по умолчанию 50)"
// @Param       offset  query  int     false  "Смещение"
// @Success     200   {array} entity.Contact
// @Security    BearerAuth
// @tags        Contacts
// @Router      /v1/contacts [get]
func (h *HandlerImpl) ListContacts(c *fiber.Ctx) error {
	f := entity.ContactFilter{
		Tag:    c.Query("tag"),
		Query:  c.Query("q"),
		Limit:  int64(c.QueryInt("limit", 0)),
		Offset: int64(c.QueryInt("offset", 0)),
	}
	if f.Limit < 0 || f.Offset < 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "limit and offset must be non-negative"})
	}

	contacts, err := h.contacts.List(c.UserContext(), f)
	if err != nil {
		return appers.SanitizeError(c, err)
	}
	return c.JSON(contacts)
}

func (h *HandlerImpl) GetContact(c *fiber.Ctx) error {
	contact, err := h.contacts.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return appers.SanitizeError(c, err)
	}
	return c.JSON(contact)
}

// PatchContact обновляет только переданные непустые поля
func (h *HandlerImpl) PatchContact(c *fiber.Ctx) error {
	var p entity.ContactPatch
	if ok, err := h.parseAndValidate(c, &p, nil); !ok {
		return err
	}

	contact, err := h.contacts.Patch(c.UserContext(), c.Params("id"), p)
	if err != nil {
		return appers.SanitizeError(c, err)
	}
	return c.JSON(contact)
}

func (h *HandlerImpl) DeleteContact(c *fiber.Ctx) error {
	if err := h.contacts.Delete(c.UserContext(), c.Params("id")); err != nil {
		return appers.SanitizeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// CreateAsset godoc
// @Summary     Создание актива
// @Description purchasePrice передается строкой, не более 2 знаков после запятой
// @Accept      json
// @Produce     json
// @Param       body  body     entity.AssetRequest  true  "Актив"
// @Success     201   {object} entity.Asset
// @Failure     400
// @Failure     409   "Серийный номер уже занят"
// @Security    BearerAuth
// @tags        Assets
// @Router      /v1/assets [post]
func (h *HandlerImpl) CreateAsset(c *fiber.Ctx) error {
	var req entity.AssetRequest
	if ok, err := h.parseAndValidate(c, &req, nil); !ok {
		return err
	}

	a, err := h.assets.Create(c.UserContext(), req)
	if err != nil {
		return appers.SanitizeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(a)
}

func (h *HandlerImpl) ListAssets(c *fiber.Ctx) error {
	f := entity.AssetFilter{
		Status:     entity.AssetStatus(c.Query("status")),
		Category:   entity.AssetCategory(c.Query("category")),
		AssignedTo: c.Query("assignedTo"),
	}

	assets, err := h.assets.List(c.UserContext(), f)
	if err != nil {
		return appers.SanitizeError(c, err)
	}
	return c.JSON(assets)
}

func (h *HandlerImpl) GetAsset(c *fiber.Ctx) error {
	a, err := h.assets.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return appers.SanitizeError(c, err)
	}
	return c.JSON(a)
}

func (h *HandlerImpl) UpdateAsset(c *fiber.Ctx) error {
	var req entity.AssetRequest
	if ok, err := h.parseAndValidate(c, &req, nil); !ok {
		return err
	}

	a, err := h.assets.Update(c.UserContext(), c.Params("id"), req)
	if err != nil {
		return appers.SanitizeError(c, err)
	}
	return c.JSON(a)
}

func (h *HandlerImpl) DeleteAsset(c *fiber.Ctx) error {
	if err := h.assets.Delete(c.UserContext(), c.Params("id")); err != nil {
		return appers.SanitizeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// AssignAsset godoc
// @Summary     Выдача актива пользователю
// @Accept      json
// @Produce     json
// @Param       id    path     string                true  "ID актива"
// @Param       body  body     entity.AssignRequest  true  "Кому"
// @Success     200   {object} entity.Asset
// @Failure     404
// @Failure     409   "Актив не в статусе available"
// @Security    BearerAuth
// @tags        Assets
// @Router      /v1/assets/{id}/assign [post]
func (h *HandlerImpl) AssignAsset(c *fiber.Ctx) error {
	var req entity.AssignRequest
	if ok, err := h.parseAndValidate(c, &req, nil); !ok {
		return err
	}

	a, err := h.assets.Assign(c.UserContext(), c.Params("id"), req.UserID)
	if err != nil {
		return appers.SanitizeError(c, err)
	}
	return c.JSON(a)
}

// ReleaseAsset godoc
// @Summary     Возврат актива на склад
// @Produce     json
// @Param       id  path     string  true  "ID актива"
// @Success     200 {object} entity.Asset
// @Failure     404
// @Failure     409 "Актив не выдан"
// @Security    BearerAuth
// @tags        Assets
// @Router      /v1/assets/{id}/release [post]
func (h *HandlerImpl) ReleaseAsset(c *fiber.Ctx) error {
	a, err := h.assets.Release(c.UserContext(), c.Params("id"))
	if err != nil {
		return appers.SanitizeError(c, err)
	}
	return c.JSON(a)
}

// RecordPresence godoc
// @Summary     Отметка присутствия
// @Description Повторная отметка в ту же половину дня (AM/PM) обновляет существующую запись
// @Accept      json
// @Produce     json
// @Param       body  body     entity.PresenceRequest  true  "Отметка"
// @Success     201   {object} entity.PresenceResult "Создана новая запись"
// @Success     200   {object} entity.PresenceResult "Обновлена запись той же половины дня"
// @Failure     400
// @Security    BearerAuth
// @tags        Presence
// @Router      /v1/presence [post]
func (h *HandlerImpl) RecordPresence(c *fiber.Ctx) error {
	var req entity.PresenceRequest
	if ok, err := h.parseAndValidate(c, &req, nil); !ok {
		return err
	}

	res, err := h.presence.Record(c.UserContext(), req)
	if err != nil {
		return appers.SanitizeError(c, err)
	}
	if res.Created {
		return c.Status(fiber.StatusCreated).JSON(res)
	}
	return c.JSON(res)
}

// ListPresenceByDate список отметок всех пользователей за день (?date=YYYY-MM-DD, по умолчанию сегодня)
func (h *HandlerImpl) ListPresenceByDate(c *fiber.Ctx) error {
	list, err := h.presence.ListByDate(c.UserContext(), c.Query("date"))
	if err != nil {
		return appers.SanitizeError(c, err)
	}
	return c.JSON(list)
}

func (h *HandlerImpl) ListPresenceByUser(c *fiber.Ctx) error {
	list, err := h.presence.ListByUser(c.UserContext(), c.Params("userId"), c.Query("from"), c.Query("to"))
	if err != nil {
		return appers.SanitizeError(c, err)
	}
	return c.JSON(list)
}
