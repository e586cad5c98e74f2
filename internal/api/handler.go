// Package api exposes the inbound HTTP surface: one endpoint that
// accepts a completed optimization result and dispatches a
// notification for it.
package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/cargovortex/notify-relay/internal/notify"
	"github.com/cargovortex/notify-relay/internal/pkg/ctxlog"
	"github.com/cargovortex/notify-relay/internal/pkg/httputil"
)

// Handler handles notification requests.
type Handler struct {
	dispatcher *notify.Dispatcher
	validate   *validator.Validate
}

// NewHandler creates a new API handler.
func NewHandler(dispatcher *notify.Dispatcher) *Handler {
	return &Handler{
		dispatcher: dispatcher,
		validate:   validator.New(),
	}
}

// RegisterRoutes registers the notification routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/notifications", h.CreateNotification)
}

// createNotificationRequest is the inbound optimization-result body.
type createNotificationRequest struct {
	VolumeUtilization float64 `json:"volume_utilization" validate:"gte=0,lte=100"`
	ItemsPacked       int     `json:"items_packed" validate:"gte=0"`
	TotalItems        int     `json:"total_items" validate:"gte=0"`
	TotalWeight       float64 `json:"total_weight" validate:"gte=0"`
	RemainingVolume   float64 `json:"remaining_volume" validate:"gte=0"`
	UserName          string  `json:"user_name"`
	AlgorithmUsed     string  `json:"algorithm_used"`
	VisualizationURL  string  `json:"visualization_url" validate:"omitempty,url"`
}

// CreateNotification dispatches a notification for one optimization
// result. Delivery failure is reported in the result body, not as an
// HTTP error: notification is fire-and-forget relative to the
// optimization run that triggered it.
func (h *Handler) CreateNotification(w http.ResponseWriter, r *http.Request) {
	var req createNotificationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.validate.Struct(req); err != nil {
		httputil.ValidationError(w, err)
		return
	}

	result := h.dispatcher.Notify(r.Context(), notify.Event{
		VolumeUtilization: req.VolumeUtilization,
		ItemsPacked:       req.ItemsPacked,
		TotalItems:        req.TotalItems,
		TotalWeight:       req.TotalWeight,
		RemainingVolume:   req.RemainingVolume,
		UserName:          req.UserName,
		Algorithm:         req.AlgorithmUsed,
		VisualizationURL:  req.VisualizationURL,
	})

	if !result.Success {
		ctxlog.FromContext(r.Context()).Warn("notification not delivered",
			"dispatch_id", result.ID,
			"detail", result.Detail,
		)
	}

	httputil.Success(w, http.StatusOK, result)
}
