package transport

import (
	"net/http"

	"verduleria/internal/middleware"
	"verduleria/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// CartRequest is the payload of a checkout record.
type CartRequest struct {
	Fullname string    `json:"fullname" validate:"required,min=3,max=70"`
	Email    string    `json:"email" validate:"required,email"`
	Total    FlexFloat `json:"total" validate:"gte=0"`
}

// CartHandler handles HTTP requests for shopping cart records
type CartHandler struct {
	carts  service.CartService
	logger *zap.Logger
}

// NewCartHandler creates a new CartHandler
func NewCartHandler(carts service.CartService, logger *zap.Logger) *CartHandler {
	return &CartHandler{
		carts:  carts,
		logger: logger,
	}
}

// RegisterRoutes registers all shopping cart routes
func (h *CartHandler) RegisterRoutes(r chi.Router) {
	r.Route("/api/shopping-carts", func(r chi.Router) {
		r.Get("/", h.List)
		r.Post("/", h.Create)
	})
}

// List handles GET /api/shopping-carts.
func (h *CartHandler) List(w http.ResponseWriter, r *http.Request) {
	carts, err := h.carts.List(r.Context())
	if err != nil {
		h.logger.Error("Failed to list shopping carts", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, msgServerError)
		return
	}

	middleware.RespondWithData(w, http.StatusOK, carts)
}

// Create handles POST /api/shopping-carts.
func (h *CartHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CartRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Cart validation failed", zap.Error(err))

		if msg := middleware.FirstValidationMessage(err); msg != "" {
			middleware.RespondWithError(w, http.StatusBadRequest, msg)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, msgInvalidBody)
		return
	}

	cart, err := h.carts.Create(r.Context(), service.CartInput{
		Fullname: req.Fullname,
		Email:    req.Email,
		Total:    float64(req.Total),
	})
	if err != nil {
		h.logger.Error("Failed to create shopping cart", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, msgServerError)
		return
	}

	h.logger.Info("Shopping cart created", zap.Int64("cart_id", cart.ID))
	middleware.RespondWithData(w, http.StatusCreated, cart)
}
