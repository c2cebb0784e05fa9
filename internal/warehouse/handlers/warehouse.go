package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"warehouse-grid/internal/warehouse/grid"
	"warehouse-grid/internal/warehouse/mapper"
	"warehouse-grid/internal/warehouse/models"
	"warehouse-grid/internal/warehouse/reservation"
	"warehouse-grid/internal/warehouse/service"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"
)

// ============================================================
// Warehouse Handler
// ============================================================

// Journal — то, что обработчику нужно от журнала переходов.
type Journal interface {
	Record(ctx context.Context, t models.Transition) error
	History(ctx context.Context, warehouseID string, limit int) ([]models.Transition, error)
}

var (
	errBadRequest    = errors.New("bad request")
	errTooManyCells  = errors.New("too many cells")
	errInvalidNumber = errors.New("invalid number")
)

type WarehouseHandler struct {
	registry *service.Registry
	journal  Journal
	renderer *mapper.Renderer
	logger   *zap.Logger
	maxCells int
}

func NewWarehouseHandler(registry *service.Registry, journal Journal, logger *zap.Logger, maxCells int) *WarehouseHandler {
	return &WarehouseHandler{
		registry: registry,
		journal:  journal,
		renderer: mapper.NewRenderer(),
		logger:   logger.Named("warehouse"),
		maxCells: maxCells,
	}
}

// Register вешает маршруты складов на router.
func (h *WarehouseHandler) Register(router fiber.Router) {
	router.Post("/warehouses", h.Create)
	router.Get("/warehouses", h.List)
	router.Get("/warehouses/:id", h.Get)
	router.Delete("/warehouses/:id", h.Delete)
	router.Put("/warehouses/:id/dimensions", h.Resize)
	router.Get("/warehouses/:id/counts", h.Counts)
	router.Get("/warehouses/:id/cells/:row/:column", h.GetCell)
	router.Put("/warehouses/:id/cells/:row/:column", h.SetCell)
	router.Post("/warehouses/:id/cells/:row/:column/toggle", h.ToggleCell)
	router.Get("/warehouses/:id/reservations", h.Reservations)
	router.Get("/warehouses/:id/reservations/:row/:column", h.Anchor)
	router.Get("/warehouses/:id/routes", h.Routes)
	router.Get("/warehouses/:id/placement/:row/:column", h.Placement)
	router.Get("/warehouses/:id/svg", h.SVG)
	router.Get("/warehouses/:id/history", h.History)
}

type dimensionsRequest struct {
	Rows    int `json:"rows"`
	Columns int `json:"columns"`
}

type statusRequest struct {
	Status string `json:"status"`
}

type transitionResponse struct {
	Cell     models.Cell   `json:"cell"`
	Previous models.Status `json:"previous"`
	Status   models.Status `json:"status"`
	Counts   models.Counts `json:"counts"`
}

// Create создаёт склад заданного размера.
func (h *WarehouseHandler) Create(c fiber.Ctx) error {
	req, err := h.parseDimensions(c)
	if err != nil {
		return h.fail(c, err)
	}

	snapshot, err := h.registry.Create(req.Rows, req.Columns)
	if err != nil {
		return h.fail(c, err)
	}

	h.logger.Info("warehouse created",
		zap.String("id", snapshot.ID),
		zap.Int("rows", snapshot.Rows),
		zap.Int("columns", snapshot.Columns))
	h.record(c, models.Transition{WarehouseID: snapshot.ID, Kind: models.KindResize, Row: req.Rows, Column: req.Columns})

	return c.Status(http.StatusCreated).JSON(snapshot)
}

func (h *WarehouseHandler) List(c fiber.Ctx) error {
	return c.JSON(fiber.Map{"warehouses": h.registry.List()})
}

// Get отдаёт полный снимок склада.
func (h *WarehouseHandler) Get(c fiber.Ctx) error {
	snapshot, err := h.registry.Get(c.Params("id"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(snapshot)
}

func (h *WarehouseHandler) Delete(c fiber.Ctx) error {
	id := c.Params("id")
	if err := h.registry.Delete(id); err != nil {
		return h.fail(c, err)
	}
	h.logger.Info("warehouse deleted", zap.String("id", id))
	return c.SendStatus(http.StatusNoContent)
}

// Resize пересоздаёт сетку; все состояния и резервы сбрасываются.
func (h *WarehouseHandler) Resize(c fiber.Ctx) error {
	req, err := h.parseDimensions(c)
	if err != nil {
		return h.fail(c, err)
	}

	id := c.Params("id")
	var snapshot models.Snapshot
	err = h.registry.With(id, func(w *service.Warehouse) error {
		if err := w.Resize(req.Rows, req.Columns); err != nil {
			return err
		}
		snapshot = w.Snapshot()
		return nil
	})
	if err != nil {
		return h.fail(c, err)
	}

	h.record(c, models.Transition{WarehouseID: id, Kind: models.KindResize, Row: req.Rows, Column: req.Columns})
	return c.JSON(snapshot)
}

func (h *WarehouseHandler) Counts(c fiber.Ctx) error {
	var counts models.Counts
	err := h.registry.With(c.Params("id"), func(w *service.Warehouse) error {
		counts = w.Counts()
		return nil
	})
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(counts)
}

// GetCell отдаёт состояние ячейки и её позицию в сцене.
func (h *WarehouseHandler) GetCell(c fiber.Ctx) error {
	cell, err := parseCell(c)
	if err != nil {
		return h.fail(c, err)
	}

	var (
		status models.Status
		point  models.Point
	)
	err = h.registry.With(c.Params("id"), func(w *service.Warehouse) error {
		var err error
		if status, err = w.Status(cell); err != nil {
			return err
		}
		point, err = w.PlacementOf(cell)
		return err
	})
	if err != nil {
		return h.fail(c, err)
	}

	return c.JSON(fiber.Map{"cell": cell, "status": status, "placement": point})
}

// SetCell переводит ячейку в запрошенное состояние.
func (h *WarehouseHandler) SetCell(c fiber.Ctx) error {
	cell, err := parseCell(c)
	if err != nil {
		return h.fail(c, err)
	}

	var req statusRequest
	if err := decodeBody(c, &req); err != nil {
		return h.fail(c, err)
	}
	status, err := models.ParseStatus(req.Status)
	if err != nil {
		return h.fail(c, err)
	}

	resp := transitionResponse{Cell: cell, Status: status}
	err = h.registry.With(c.Params("id"), func(w *service.Warehouse) error {
		previous, err := w.SetStatus(cell, status)
		if err != nil {
			return err
		}
		resp.Previous = previous
		resp.Counts = w.Counts()
		return nil
	})
	if err != nil {
		return h.fail(c, err)
	}

	h.recordTransition(c, resp)
	return c.JSON(resp)
}

// ToggleCell — клик по стеллажу в сцене.
func (h *WarehouseHandler) ToggleCell(c fiber.Ctx) error {
	cell, err := parseCell(c)
	if err != nil {
		return h.fail(c, err)
	}

	resp := transitionResponse{Cell: cell}
	err = h.registry.With(c.Params("id"), func(w *service.Warehouse) error {
		previous, current, err := w.Toggle(cell)
		if err != nil {
			return err
		}
		resp.Previous, resp.Status = previous, current
		resp.Counts = w.Counts()
		return nil
	})
	if err != nil {
		return h.fail(c, err)
	}

	h.recordTransition(c, resp)
	return c.JSON(resp)
}

func (h *WarehouseHandler) Reservations(c fiber.Ctx) error {
	var reservations []models.Reservation
	err := h.registry.With(c.Params("id"), func(w *service.Warehouse) error {
		reservations = w.Reservations()
		return nil
	})
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{"reservations": reservations})
}

// Anchor отдаёт якорь резерва ячейки.
func (h *WarehouseHandler) Anchor(c fiber.Ctx) error {
	cell, err := parseCell(c)
	if err != nil {
		return h.fail(c, err)
	}

	var anchor models.Point
	err = h.registry.With(c.Params("id"), func(w *service.Warehouse) error {
		var err error
		anchor, err = w.AnchorOf(cell)
		return err
	})
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(models.Reservation{Cell: cell, Anchor: anchor})
}

func (h *WarehouseHandler) Routes(c fiber.Ctx) error {
	var (
		dock   models.Point
		routes []models.Route
	)
	err := h.registry.With(c.Params("id"), func(w *service.Warehouse) error {
		dock = w.Dock()
		routes = w.Routes()
		return nil
	})
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{"dock": dock, "routes": routes})
}

func (h *WarehouseHandler) Placement(c fiber.Ctx) error {
	cell, err := parseCell(c)
	if err != nil {
		return h.fail(c, err)
	}

	var point models.Point
	err = h.registry.With(c.Params("id"), func(w *service.Warehouse) error {
		var err error
		point, err = w.PlacementOf(cell)
		return err
	})
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{"cell": cell, "placement": point})
}

// SVG отдаёт схему склада сверху.
func (h *WarehouseHandler) SVG(c fiber.Ctx) error {
	snapshot, err := h.registry.Get(c.Params("id"))
	if err != nil {
		return h.fail(c, err)
	}

	svg, err := h.renderer.Render(snapshot)
	if err != nil {
		h.logger.Error("render svg", zap.String("id", snapshot.ID), zap.Error(err))
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	c.Set("Content-Type", "image/svg+xml")
	return c.SendString(svg)
}

// History отдаёт журнал переходов склада, новые записи первыми.
func (h *WarehouseHandler) History(c fiber.Ctx) error {
	id := c.Params("id")
	if _, err := h.registry.Get(id); err != nil {
		return h.fail(c, err)
	}

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return h.fail(c, errInvalidNumber)
		}
		limit = n
	}

	if h.journal == nil {
		return c.JSON(fiber.Map{"history": []models.Transition{}})
	}

	history, err := h.journal.History(c.Context(), id, limit)
	if err != nil {
		h.logger.Error("read history", zap.String("id", id), zap.Error(err))
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "failed to read history"})
	}
	return c.JSON(fiber.Map{"history": history})
}

// ============================================================
// Helpers
// ============================================================

func (h *WarehouseHandler) parseDimensions(c fiber.Ctx) (dimensionsRequest, error) {
	var req dimensionsRequest
	if err := decodeBody(c, &req); err != nil {
		return req, err
	}
	// Отрицательные размеры отклоняет grid.New с ErrInvalidDimensions.
	if h.maxCells <= 0 {
		return req, nil
	}
	// Каждое измерение ограничено отдельно: при нулевом втором
	// измерении произведение равно нулю, а строки всё равно аллоцируются.
	if req.Rows > h.maxCells || req.Columns > h.maxCells {
		return req, errTooManyCells
	}
	if req.Columns > 0 && req.Rows > h.maxCells/req.Columns {
		return req, errTooManyCells
	}
	return req, nil
}

func (h *WarehouseHandler) recordTransition(c fiber.Ctx, resp transitionResponse) {
	if resp.Previous == resp.Status {
		return
	}
	h.record(c, models.Transition{
		WarehouseID: c.Params("id"),
		Kind:        models.KindStatus,
		Row:         resp.Cell.Row,
		Column:      resp.Cell.Column,
		Previous:    resp.Previous.String(),
		Status:      resp.Status.String(),
	})
}

// record пишет в журнал; ошибка журнала не откатывает изменение в памяти.
func (h *WarehouseHandler) record(c fiber.Ctx, t models.Transition) {
	if h.journal == nil {
		return
	}
	if err := h.journal.Record(c.Context(), t); err != nil {
		h.logger.Warn("journal write failed",
			zap.String("id", t.WarehouseID),
			zap.String("kind", t.Kind),
			zap.Error(err))
	}
}

func (h *WarehouseHandler) fail(c fiber.Ctx, err error) error {
	code := http.StatusInternalServerError
	switch {
	case errors.Is(err, grid.ErrInvalidDimensions),
		errors.Is(err, models.ErrUnknownStatus),
		errors.Is(err, errBadRequest),
		errors.Is(err, errTooManyCells),
		errors.Is(err, errInvalidNumber):
		code = http.StatusBadRequest
	case errors.Is(err, grid.ErrOutOfBounds),
		errors.Is(err, reservation.ErrNotReserved),
		errors.Is(err, service.ErrWarehouseNotFound):
		code = http.StatusNotFound
	}

	if code == http.StatusInternalServerError {
		h.logger.Error("request failed", zap.String("path", c.Path()), zap.Error(err))
	} else {
		h.logger.Debug("request rejected", zap.String("path", c.Path()), zap.Int("code", code), zap.Error(err))
	}
	return c.Status(code).JSON(fiber.Map{"error": err.Error()})
}

func decodeBody(c fiber.Ctx, v any) error {
	if len(c.Body()) == 0 {
		return fmt.Errorf("%w: empty body", errBadRequest)
	}
	if err := json.Unmarshal(c.Body(), v); err != nil {
		return fmt.Errorf("%w: invalid json", errBadRequest)
	}
	return nil
}

func parseCell(c fiber.Ctx) (models.Cell, error) {
	row, err := strconv.Atoi(c.Params("row"))
	if err != nil {
		return models.Cell{}, fmt.Errorf("%w: row %q", errInvalidNumber, c.Params("row"))
	}
	column, err := strconv.Atoi(c.Params("column"))
	if err != nil {
		return models.Cell{}, fmt.Errorf("%w: column %q", errInvalidNumber, c.Params("column"))
	}
	return models.Cell{Row: row, Column: column}, nil
}
