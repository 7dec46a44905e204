package handlers

import (
	"playlater/internal/app"
	"playlater/internal/apperrors"
	collectionController "playlater/internal/controllers/collection"
	"playlater/internal/handlers/middleware"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/gofiber/fiber/v2"
)

type CollectionHandler struct {
	Handler
	collectionController collectionController.CollectionControllerInterface
}

func NewCollectionHandler(app app.App, router fiber.Router) *CollectionHandler {
	log := logger.New("collectionHandler")
	return &CollectionHandler{
		collectionController: app.Controllers.Collection,
		Handler: Handler{
			log:        log,
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *CollectionHandler) Register() {
	collection := h.router.Group("/collection", h.middleware.RequireAuth())

	collection.Get("", h.list)
	collection.Post("", h.create)
	collection.Get("/stats", h.stats)
	collection.Post("/bulk", h.bulk)
	collection.Get("/:id", h.get)
	collection.Put("/:id", h.update)
	collection.Delete("/:id", h.delete)
}

func (h *CollectionHandler) list(c *fiber.Ctx) error {
	user := middleware.GetUser(c)
	if user == nil {
		return apperrors.Authentication()
	}

	params := collectionController.ListParams{
		Platforms:        queryValues(c, "platform"),
		AcquisitionTypes: queryValues(c, "acquisition_type"),
		Priorities:       queryValues(c, "priority"),
		IsActive:         c.Query("is_active"),
		AcquiredAfter:    c.Query("acquired_after"),
		AcquiredBefore:   c.Query("acquired_before"),
		Search:           c.Query("search"),
		SortBy:           c.Query("sort_by"),
		SortOrder:        c.Query("sort_order"),
		Limit:            c.Query("limit"),
		Offset:           c.Query("offset"),
	}

	response, err := h.collectionController.List(c.UserContext(), user.ID, params)
	if err != nil {
		return err
	}

	return c.JSON(response)
}

func (h *CollectionHandler) create(c *fiber.Ctx) error {
	user := middleware.GetUser(c)
	if user == nil {
		return apperrors.Authentication()
	}

	var req collectionController.CreateRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody()
	}

	item, err := h.collectionController.Create(c.UserContext(), user.ID, req)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(item)
}

func (h *CollectionHandler) get(c *fiber.Ctx) error {
	user := middleware.GetUser(c)
	if user == nil {
		return apperrors.Authentication()
	}

	id, err := idParam(c)
	if err != nil {
		return err
	}

	item, err := h.collectionController.Get(c.UserContext(), user.ID, id)
	if err != nil {
		return err
	}

	return c.JSON(item)
}

func (h *CollectionHandler) update(c *fiber.Ctx) error {
	user := middleware.GetUser(c)
	if user == nil {
		return apperrors.Authentication()
	}

	id, err := idParam(c)
	if err != nil {
		return err
	}

	var req collectionController.UpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody()
	}

	item, err := h.collectionController.Update(c.UserContext(), user.ID, id, req)
	if err != nil {
		return err
	}

	return c.JSON(item)
}

func (h *CollectionHandler) delete(c *fiber.Ctx) error {
	user := middleware.GetUser(c)
	if user == nil {
		return apperrors.Authentication()
	}

	id, err := idParam(c)
	if err != nil {
		return err
	}

	result, err := h.collectionController.Delete(c.UserContext(), user.ID, id, c.QueryBool("hard"))
	if err != nil {
		return err
	}

	return c.JSON(result)
}

func (h *CollectionHandler) bulk(c *fiber.Ctx) error {
	user := middleware.GetUser(c)
	if user == nil {
		return apperrors.Authentication()
	}

	var req collectionController.BulkRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody()
	}

	response, err := h.collectionController.Bulk(c.UserContext(), user.ID, req)
	if err != nil {
		return err
	}

	status := fiber.StatusOK
	if !response.Success {
		status = fiber.StatusMultiStatus
	}
	return c.Status(status).JSON(response)
}

func (h *CollectionHandler) stats(c *fiber.Ctx) error {
	user := middleware.GetUser(c)
	if user == nil {
		return apperrors.Authentication()
	}

	response, err := h.collectionController.Stats(c.UserContext(), user.ID)
	if err != nil {
		return err
	}

	return c.JSON(response)
}
