package reports

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/nanoerp/nanoerp/internal/platform/httpx"
)

// Handler exposes the report queries.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler constructs a Handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountRoutes registers report routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/reports/dashboard", h.Dashboard)
	r.Get("/reports/sales", h.Sales)
	r.Get("/reports/expenses", h.Expenses)
	r.Get("/reports/top-products", h.TopProducts)
}

func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	d, err := h.service.Dashboard(r.Context())
	if err != nil {
		h.logger.Error("dashboard report", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, d)
}

func (h *Handler) Sales(w http.ResponseWriter, r *http.Request) {
	from, to, ok := dateRange(r)
	if !ok {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "from and to must be YYYY-MM-DD")
		return
	}
	sum, err := h.service.SalesSummary(r.Context(), from, to)
	if err != nil {
		h.logger.Error("sales report", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, sum)
}

func (h *Handler) Expenses(w http.ResponseWriter, r *http.Request) {
	from, to, ok := dateRange(r)
	if !ok {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "from and to must be YYYY-MM-DD")
		return
	}
	out, err := h.service.ExpensesByCategory(r.Context(), from, to)
	if err != nil {
		h.logger.Error("expense report", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, out)
}

func (h *Handler) TopProducts(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	out, err := h.service.TopProducts(r.Context(), limit)
	if err != nil {
		h.logger.Error("top products report", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, out)
}

// dateRange reads from/to query params, defaulting to the current month.
func dateRange(r *http.Request) (string, string, bool) {
	q := r.URL.Query()
	from, to := q.Get("from"), q.Get("to")
	if from == "" && to == "" {
		now := time.Now()
		from = now.Format("2006-01") + "-01"
		to = now.Format(dateLayout)
		return from, to, true
	}
	for _, v := range []string{from, to} {
		if _, err := time.Parse(dateLayout, v); err != nil {
			return "", "", false
		}
	}
	return from, to, true
}
