package stock

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/saddlefit/oms/internal/platform/httpx"
	"github.com/saddlefit/oms/internal/rbac"
	"github.com/saddlefit/oms/internal/shared"
)

type Handler struct {
	logger  *slog.Logger
	service *Service
	rbac    rbac.Middleware
}

func NewHandler(logger *slog.Logger, service *Service, rbac rbac.Middleware) *Handler {
	return &Handler{logger: logger, service: service, rbac: rbac}
}

type listFunc func(context.Context, Filters) ([]Item, int, error)

func (h *Handler) list(fn listFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		page, limit := shared.PageParams(q)
		f := Filters{Page: page, Limit: limit, Search: strings.TrimSpace(q.Get("search")), SeatSize: strings.TrimSpace(q.Get("seat_size"))}
		if raw := q.Get("warehouse_id"); raw != "" {
			id, err := strconv.ParseInt(raw, 10, 64)
			if err != nil || id <= 0 {
				httpx.RespondError(w, shared.NewValidationError("warehouse_id", "must be a positive integer"))
				return
			}
			f.WarehouseID = &id
		}
		if raw := q.Get("status"); raw != "" {
			st := Status(strings.ToUpper(raw))
			if st != StatusAvailable && st != StatusAssigned && st != StatusSold {
				httpx.RespondError(w, shared.NewValidationError("status", "unknown status"))
				return
			}
			f.Status = &st
		}
		items, total, err := fn(r.Context(), f)
		if err != nil {
			h.logger.Error("list stock failed", slog.String("path", r.URL.Path), slog.Any("error", err))
			httpx.RespondError(w, err)
			return
		}
		httpx.JSON(w, http.StatusOK, httpx.Page[Item]{Data: items, Pagination: shared.NewPagination(page, limit, total)})
	}
}

func (h *Handler) show(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.IDParam(r, "id")
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	it, err := h.service.Get(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, it)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var in Input
	if err := httpx.DecodeJSON(r, &in); err != nil {
		httpx.RespondError(w, err)
		return
	}
	it, err := h.service.Create(r.Context(), in)
	if err != nil {
		h.logger.Warn("create stock item failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, it)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.IDParam(r, "id")
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	var in Input
	if err := httpx.DecodeJSON(r, &in); err != nil {
		httpx.RespondError(w, err)
		return
	}
	it, err := h.service.Update(r.Context(), id, in)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, it)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.IDParam(r, "id")
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.NoContent(w)
}

func (h *Handler) assign(fn func(context.Context, int64) (Item, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := httpx.IDParam(r, "id")
		if err != nil {
			httpx.RespondError(w, err)
			return
		}
		it, err := fn(r.Context(), id)
		if err != nil {
			h.logger.Warn("stock assignment failed", slog.Int64("id", id), slog.Any("error", err))
			httpx.RespondError(w, err)
			return
		}
		httpx.JSON(w, http.StatusOK, it)
	}
}
