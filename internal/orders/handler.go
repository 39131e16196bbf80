package orders

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/saddlefit/oms/internal/platform/httpx"
	"github.com/saddlefit/oms/internal/rbac"
	"github.com/saddlefit/oms/internal/shared"
)

const exportLimit = 10000

type Handler struct {
	logger  *slog.Logger
	service *Service
	rbac    rbac.Middleware
}

func NewHandler(logger *slog.Logger, service *Service, rbac rbac.Middleware) *Handler {
	return &Handler{logger: logger, service: service, rbac: rbac}
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	filters, err := filtersFromRequest(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	orders, total, err := h.service.List(r.Context(), filters)
	if err != nil {
		h.logger.Error("list orders failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, httpx.Page[Order]{Data: orders, Pagination: shared.NewPagination(filters.Page, filters.Limit, total)})
}

func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	filters, err := filtersFromRequest(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	filters.Page, filters.Limit = 1, exportLimit
	orders, _, err := h.service.List(r.Context(), filters)
	if err != nil {
		h.logger.Error("export orders failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="orders-`+time.Now().UTC().Format("20060102")+`.csv"`)
	if err := WriteCSV(w, orders); err != nil {
		h.logger.Error("write orders csv", slog.Any("error", err))
	}
}

func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.IDParam(r, "id")
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	order, err := h.service.Get(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, order)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateOrderRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, err)
		return
	}
	key := strings.TrimSpace(r.Header.Get("Idempotency-Key"))
	order, replayed, err := h.service.Create(r.Context(), req, key)
	if err != nil {
		h.logger.Warn("create order failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	if replayed {
		w.Header().Set("Idempotent-Replayed", "true")
		httpx.JSON(w, http.StatusOK, order)
		return
	}
	h.logger.Info("order created", slog.Int64("id", order.ID), slog.String("number", order.OrderNumber))
	httpx.JSON(w, http.StatusCreated, order)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.IDParam(r, "id")
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	var req UpdateOrderRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, err)
		return
	}
	order, err := h.service.Update(r.Context(), id, req)
	if err != nil {
		h.logger.Warn("update order failed", slog.Int64("id", id), slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, order)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.IDParam(r, "id")
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		h.logger.Warn("delete order failed", slog.Int64("id", id), slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.NoContent(w)
}

func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.service.Submit)
}

func (h *Handler) Approve(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.service.Approve)
}

func (h *Handler) ChangeStatus(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.IDParam(r, "id")
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	var req StatusRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, err)
		return
	}
	order, err := h.service.ChangeStatus(r.Context(), id, req)
	if err != nil {
		h.logger.Warn("change order status failed", slog.Int64("id", id), slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, order)
}

func (h *Handler) transition(w http.ResponseWriter, r *http.Request, fn func(context.Context, int64) (*Order, error)) {
	id, err := httpx.IDParam(r, "id")
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	order, err := fn(r.Context(), id)
	if err != nil {
		h.logger.Warn("order transition failed", slog.Int64("id", id), slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, order)
}

func filtersFromRequest(r *http.Request) (ListFilters, error) {
	q := r.URL.Query()
	page, limit := shared.PageParams(q)
	f := ListFilters{
		Page:    page,
		Limit:   limit,
		Search:  strings.TrimSpace(q.Get("search")),
		SortBy:  q.Get("sort"),
		SortDir: strings.ToLower(q.Get("dir")),
	}
	if raw := q.Get("status"); raw != "" {
		st, ok := ParseStatus(raw)
		if !ok {
			return ListFilters{}, shared.NewValidationError("status", "unknown status")
		}
		f.Status = &st
	}
	if raw := strings.TrimSpace(q.Get("fitterUsername")); raw != "" {
		username := shared.NormalizeUsername(raw)
		f.FitterUsername = &username
	}
	var err error
	if f.CustomerID, err = optionalID(q.Get("customerId"), "customerId"); err != nil {
		return ListFilters{}, err
	}
	if f.SupplierID, err = optionalID(q.Get("supplierId"), "supplierId"); err != nil {
		return ListFilters{}, err
	}
	if f.DateFrom, err = optionalDate(q.Get("from"), "from"); err != nil {
		return ListFilters{}, err
	}
	if f.DateTo, err = optionalDate(q.Get("to"), "to"); err != nil {
		return ListFilters{}, err
	}
	if f.DateTo != nil {
		next := f.DateTo.AddDate(0, 0, 1)
		f.DateTo = &next
	}
	return f, nil
}

func optionalID(raw, field string) (*int64, error) {
	if raw == "" {
		return nil, nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return nil, shared.NewValidationError(field, "must be a positive integer")
	}
	return &id, nil
}

func optionalDate(raw, field string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	d, err := time.Parse(time.DateOnly, raw)
	if err != nil {
		return nil, shared.NewValidationError(field, "must be YYYY-MM-DD")
	}
	return &d, nil
}
