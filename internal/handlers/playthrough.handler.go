package handlers

import (
	"playlater/internal/app"
	"playlater/internal/apperrors"
	playthroughsController "playlater/internal/controllers/playthroughs"
	"playlater/internal/handlers/middleware"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/gofiber/fiber/v2"
)

type PlaythroughHandler struct {
	Handler
	playthroughsController playthroughsController.PlaythroughsControllerInterface
}

func NewPlaythroughHandler(app app.App, router fiber.Router) *PlaythroughHandler {
	log := logger.New("playthroughHandler")
	return &PlaythroughHandler{
		playthroughsController: app.Controllers.Playthroughs,
		Handler: Handler{
			log:        log,
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *PlaythroughHandler) Register() {
	playthroughs := h.router.Group("/playthroughs", h.middleware.RequireAuth())

	playthroughs.Get("", h.list)
	playthroughs.Post("", h.create)
	playthroughs.Get("/stats", h.stats)
	playthroughs.Get("/backlog", h.backlog)
	playthroughs.Get("/playing", h.playing)
	playthroughs.Get("/completed", h.completed)
	playthroughs.Post("/bulk", h.bulk)
	playthroughs.Get("/:id", h.get)
	playthroughs.Put("/:id", h.update)
	playthroughs.Delete("/:id", h.delete)
	playthroughs.Post("/:id/complete", h.complete)
}

func (h *PlaythroughHandler) list(c *fiber.Ctx) error {
	user := middleware.GetUser(c)
	if user == nil {
		return apperrors.Authentication()
	}

	params := playthroughsController.ListParams{
		Statuses:         queryValues(c, "status"),
		Platforms:        queryValues(c, "platform"),
		Difficulties:     queryValues(c, "difficulty"),
		PlaythroughTypes: queryValues(c, "playthrough_type"),
		RatingMin:        c.Query("rating_min"),
		RatingMax:        c.Query("rating_max"),
		PlayTimeMin:      c.Query("play_time_min"),
		PlayTimeMax:      c.Query("play_time_max"),
		StartedAfter:     c.Query("started_after"),
		StartedBefore:    c.Query("started_before"),
		CompletedAfter:   c.Query("completed_after"),
		CompletedBefore:  c.Query("completed_before"),
		UnplayedOnly:     c.Query("unplayed_only"),
		Search:           c.Query("search"),
		SortBy:           c.Query("sort_by"),
		SortOrder:        c.Query("sort_order"),
		Limit:            c.Query("limit"),
		Offset:           c.Query("offset"),
	}

	response, err := h.playthroughsController.List(c.UserContext(), user.ID, params)
	if err != nil {
		return err
	}

	return c.JSON(response)
}

func (h *PlaythroughHandler) create(c *fiber.Ctx) error {
	user := middleware.GetUser(c)
	if user == nil {
		return apperrors.Authentication()
	}

	var req playthroughsController.CreateRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody()
	}

	playthrough, err := h.playthroughsController.Create(c.UserContext(), user.ID, req)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(playthrough)
}

func (h *PlaythroughHandler) get(c *fiber.Ctx) error {
	user := middleware.GetUser(c)
	if user == nil {
		return apperrors.Authentication()
	}

	id, err := idParam(c)
	if err != nil {
		return err
	}

	detail, err := h.playthroughsController.Get(c.UserContext(), user.ID, id)
	if err != nil {
		return err
	}

	return c.JSON(detail)
}

func (h *PlaythroughHandler) update(c *fiber.Ctx) error {
	user := middleware.GetUser(c)
	if user == nil {
		return apperrors.Authentication()
	}

	id, err := idParam(c)
	if err != nil {
		return err
	}

	var req playthroughsController.UpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody()
	}

	playthrough, err := h.playthroughsController.Update(c.UserContext(), user.ID, id, req)
	if err != nil {
		return err
	}

	return c.JSON(playthrough)
}

func (h *PlaythroughHandler) delete(c *fiber.Ctx) error {
	user := middleware.GetUser(c)
	if user == nil {
		return apperrors.Authentication()
	}

	id, err := idParam(c)
	if err != nil {
		return err
	}

	result, err := h.playthroughsController.Delete(c.UserContext(), user.ID, id)
	if err != nil {
		return err
	}

	return c.JSON(result)
}

func (h *PlaythroughHandler) complete(c *fiber.Ctx) error {
	user := middleware.GetUser(c)
	if user == nil {
		return apperrors.Authentication()
	}

	id, err := idParam(c)
	if err != nil {
		return err
	}

	var req playthroughsController.CompleteRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody()
	}

	playthrough, err := h.playthroughsController.Complete(c.UserContext(), user.ID, id, req)
	if err != nil {
		return err
	}

	return c.JSON(playthrough)
}

func (h *PlaythroughHandler) bulk(c *fiber.Ctx) error {
	user := middleware.GetUser(c)
	if user == nil {
		return apperrors.Authentication()
	}

	var req playthroughsController.BulkRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody()
	}

	response, err := h.playthroughsController.Bulk(c.UserContext(), user.ID, req)
	if err != nil {
		return err
	}

	status := fiber.StatusOK
	if !response.Success {
		status = fiber.StatusMultiStatus
	}
	return c.Status(status).JSON(response)
}

func (h *PlaythroughHandler) stats(c *fiber.Ctx) error {
	user := middleware.GetUser(c)
	if user == nil {
		return apperrors.Authentication()
	}

	response, err := h.playthroughsController.Stats(c.UserContext(), user.ID)
	if err != nil {
		return err
	}

	return c.JSON(response)
}

func (h *PlaythroughHandler) backlog(c *fiber.Ctx) error {
	user := middleware.GetUser(c)
	if user == nil {
		return apperrors.Authentication()
	}

	response, err := h.playthroughsController.Backlog(c.UserContext(), user.ID, c.Query("priority"))
	if err != nil {
		return err
	}

	return c.JSON(response)
}

func (h *PlaythroughHandler) playing(c *fiber.Ctx) error {
	user := middleware.GetUser(c)
	if user == nil {
		return apperrors.Authentication()
	}

	response, err := h.playthroughsController.Playing(c.UserContext(), user.ID, c.Query("platform"))
	if err != nil {
		return err
	}

	return c.JSON(response)
}

func (h *PlaythroughHandler) completed(c *fiber.Ctx) error {
	user := middleware.GetUser(c)
	if user == nil {
		return apperrors.Authentication()
	}

	params := playthroughsController.CompletedParams{
		Year:      c.Query("year"),
		Platform:  c.Query("platform"),
		MinRating: c.Query("min_rating"),
	}

	response, err := h.playthroughsController.Completed(c.UserContext(), user.ID, params)
	if err != nil {
		return err
	}

	return c.JSON(response)
}
