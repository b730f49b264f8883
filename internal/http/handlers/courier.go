package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"service-courier/internal/apperr"
	"service-courier/internal/listing"
	"service-courier/internal/logx"
)

// CourierHandler serves HTTP endpoints for courier resources.
type CourierHandler struct {
	usecase courierUsecase
	logger  logx.Logger
}

// NewCourierHandler wires a courierUsecase into HTTP handlers.
func NewCourierHandler(logger logx.Logger, uc courierUsecase) *CourierHandler {
	if logger == nil {
		logger = logx.Nop()
	}
	return &CourierHandler{usecase: uc, logger: logger}
}

// List handles GET /couriers.
// @Summary Список курьеров
// @Description Поиск по имени, фильтр по уровню, сортировка и пагинация
// @Tags couriers
// @Produce json
// @Param search query string false "space separated terms, all must match the name"
// @Param level query string false "comma separated levels, only 2 and 3 are applied"
// @Param sort query string false "registered_at or name" default(name)
// @Param direction query string false "asc or desc, used with sort=registered_at" default(asc)
// @Param per_page query int false "1..100" default(15)
// @Param page query int false "page number" default(1)
// @Success 200 {object} courierListResponse
// @Failure 500 {object} ErrorResponse "internal error"
// @Router /couriers [get]
func (h *CourierHandler) List(w http.ResponseWriter, r *http.Request) {
	plan := listing.Compose(listing.ParamsFromQuery(r.URL.Query()))

	page, err := h.usecase.List(r.Context(), plan)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, courierListResponse{
		Data: modelsToResponse(page.Items),
		Meta: page.Meta,
	})
}

// Get handles GET /couriers/{id}.
// @Summary Получить курьера
// @Tags couriers
// @Produce json
// @Param id path int true "courier id"
// @Success 200 {object} courierDTO
// @Failure 404 {object} ErrorResponse "not found"
// @Failure 500 {object} ErrorResponse "internal error"
// @Router /couriers/{id} [get]
func (h *CourierHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := h.id(w, r)
	if !ok {
		return
	}

	c, err := h.usecase.Get(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, modelToResponse(*c))
}

// Create handles POST /couriers.
// @Summary Создать курьера
// @Tags couriers
// @Accept json
// @Produce json
// @Param request body courierRequest true "courier payload, name and level are required"
// @Success 201 {object} courierDTO
// @Failure 400 {object} ErrorResponse "invalid json"
// @Failure 422 {object} ErrorResponse "validation errors"
// @Failure 409 {object} ErrorResponse "phone already exists"
// @Failure 500 {object} ErrorResponse "internal error"
// @Router /couriers [post]
func (h *CourierHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req rawPayload
	if ok := decodeJSON(h.logger, w, r, &req); !ok {
		return
	}
	in := req.toInput()

	c, err := h.usecase.Create(r.Context(), in)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	w.Header().Set("Location", r.URL.Path+"/"+strconv.FormatInt(c.ID, 10))
	writeJSON(h.logger, w, r, http.StatusCreated, modelToResponse(*c))
}

// Update handles PUT and PATCH /couriers/{id}. Both are partial.
// @Summary Обновить курьера
// @Tags couriers
// @Accept json
// @Produce json
// @Param id path int true "courier id"
// @Param request body courierRequest true "fields to change"
// @Success 200 {object} courierDTO
// @Failure 400 {object} ErrorResponse "invalid json"
// @Failure 404 {object} ErrorResponse "not found"
// @Failure 422 {object} ErrorResponse "validation errors"
// @Failure 409 {object} ErrorResponse "phone already exists"
// @Failure 500 {object} ErrorResponse "internal error"
// @Router /couriers/{id} [put]
// @Router /couriers/{id} [patch]
func (h *CourierHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := h.id(w, r)
	if !ok {
		return
	}
	var req rawPayload
	if ok := decodeJSON(h.logger, w, r, &req); !ok {
		return
	}
	in := req.toInput()

	c, err := h.usecase.Update(r.Context(), id, in)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, modelToResponse(*c))
}

// Delete handles DELETE /couriers/{id}.
// @Summary Удалить курьера
// @Tags couriers
// @Param id path int true "courier id"
// @Success 204
// @Failure 404 {object} ErrorResponse "not found"
// @Failure 500 {object} ErrorResponse "internal error"
// @Router /couriers/{id} [delete]
func (h *CourierHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.id(w, r)
	if !ok {
		return
	}

	if err := h.usecase.Delete(r.Context(), id); err != nil {
		h.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// id reads the path id. A malformed id cannot name a record, so it is a 404.
func (h *CourierHandler) id(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := idFromURL(r, "id")
	if err != nil {
		writeError(h.logger, w, r, http.StatusNotFound, "not found")
		return 0, false
	}
	return id, true
}

func (h *CourierHandler) fail(w http.ResponseWriter, r *http.Request, err error) {
	var verr *apperr.ValidationError
	switch {
	case errors.As(err, &verr):
		writeValidationError(h.logger, w, r, verr)
	case errors.Is(err, apperr.ErrInvalid):
		writeError(h.logger, w, r, http.StatusUnprocessableEntity, "invalid input")
	case errors.Is(err, apperr.ErrNotFound):
		writeError(h.logger, w, r, http.StatusNotFound, "not found")
	case errors.Is(err, apperr.ErrConflict):
		writeError(h.logger, w, r, http.StatusConflict, "phone already exists")
	default:
		h.logger.Error("courier request failed",
			logx.String("request_id", reqID(r.Context())),
			logx.String("method", r.Method),
			logx.Err(err),
		)
		writeError(h.logger, w, r, http.StatusInternalServerError, "internal error")
	}
}
