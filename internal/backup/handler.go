package backup

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/nanoerp/nanoerp/internal/platform/httpx"
)

// Handler exposes backup operations.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler constructs a Handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountRoutes registers backup routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/backups", h.List)
	r.Post("/backups", h.Create)
	r.Post("/backups/{name}/restore", h.Restore)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	out, err := h.service.List(r.Context())
	if err != nil {
		h.logger.Error("list backups", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, out)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	snap, err := h.service.Create(r.Context())
	if err != nil {
		h.logger.Error("create backup", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	h.logger.Info("backup created", slog.String("name", snap.Name))
	httpx.JSON(w, http.StatusCreated, snap)
}

func (h *Handler) Restore(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if err := h.service.Restore(r.Context(), name); err != nil {
		h.logger.Error("restore backup", slog.String("name", name), slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	h.logger.Warn("backup restored, restart required", slog.String("name", name))
	httpx.JSON(w, http.StatusOK, map[string]string{
		"restored": name,
		"note":     "restart the application to load the restored database",
	})
}
