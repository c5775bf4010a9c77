package transport

import (
	"errors"
	"net/http"
	"strconv"

	"verduleria/internal/domain"
	"verduleria/internal/middleware"
	"verduleria/internal/repository"
	"verduleria/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Fixed client-facing failure messages. Anything with more detail stays in
// the server logs.
const (
	msgServerError       = "internal server error"
	msgProductNotFound   = "product not found"
	msgProductsNotFound  = "products not found"
	msgInsufficientStock = "insufficient stock"
	msgUploadNull        = "no file uploaded"
	msgInvalidID         = "invalid product id"
	msgInvalidBody       = "invalid request body"
)

// Upload bodies above this size are rejected while parsing the multipart
// form.
const maxUploadSize = 10 << 20

// ProductRequest is the loose wire payload of create and update,
// coerced into typed fields at decode time.
type ProductRequest struct {
	Name          string    `json:"name" validate:"required,min=3,max=35"`
	Description   *string   `json:"description" validate:"omitempty,max=150"`
	ImageFileName string    `json:"imageFileName" validate:"required"`
	Stock         FlexInt   `json:"stock" validate:"gte=0"`
	Price         FlexFloat `json:"price" validate:"gte=1"`
	IsPromotion   FlexBool  `json:"isPromotion"`
}

func (r ProductRequest) toInput() service.ProductInput {
	return service.ProductInput{
		Name:          r.Name,
		Description:   r.Description,
		ImageFileName: r.ImageFileName,
		Stock:         int(r.Stock),
		Price:         float64(r.Price),
		IsPromotion:   bool(r.IsPromotion),
	}
}

// InventoryUpdateRequest is a checkout batch: one entry per cart line.
type InventoryUpdateRequest struct {
	Products []InventoryItem `json:"products" validate:"omitempty,dive"`
}

// InventoryItem pairs a product id with the amount to decrement.
type InventoryItem struct {
	ID     FlexInt `json:"id" validate:"required,gt=0"`
	Amount FlexInt `json:"amount" validate:"gte=0"`
}

// ProductHandler handles HTTP requests for the product catalog
type ProductHandler struct {
	catalog service.CatalogService
	logger  *zap.Logger
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(catalog service.CatalogService, logger *zap.Logger) *ProductHandler {
	return &ProductHandler{
		catalog: catalog,
		logger:  logger,
	}
}

// RegisterRoutes registers all catalog routes
func (h *ProductHandler) RegisterRoutes(r chi.Router) {
	r.Route("/api/products", func(r chi.Router) {
		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Post("/upload-image", h.UploadImage)
		r.Post("/update-inventory", h.UpdateInventory)
		r.Get("/{id}", h.Get)
		r.Put("/{id}", h.Update)
		r.Delete("/{id}", h.Delete)
	})
}

// List handles GET /api/products with an optional search filter.
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	products, err := h.catalog.List(r.Context(), r.URL.Query().Get("search"))
	if err != nil {
		h.logger.Error("Failed to list products", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, msgServerError)
		return
	}

	middleware.RespondWithData(w, http.StatusOK, products)
}

// Get handles GET /api/products/{id}.
func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := h.productID(w, r)
	if !ok {
		return
	}

	product, err := h.catalog.Get(r.Context(), id)
	if err != nil {
		h.respondCatalogError(w, err, "Failed to get product")
		return
	}

	middleware.RespondWithData(w, http.StatusOK, product)
}

// Create handles POST /api/products.
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req ProductRequest
	if !h.decodeProductRequest(w, r, &req) {
		return
	}

	product, err := h.catalog.Create(r.Context(), req.toInput())
	if err != nil {
		h.logger.Error("Failed to create product", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, msgServerError)
		return
	}

	h.logger.Info("Product created", zap.Int64("product_id", product.ID))
	middleware.RespondWithData(w, http.StatusCreated, product)
}

// Update handles PUT /api/products/{id}.
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := h.productID(w, r)
	if !ok {
		return
	}

	var req ProductRequest
	if !h.decodeProductRequest(w, r, &req) {
		return
	}

	product, err := h.catalog.Update(r.Context(), id, req.toInput())
	if err != nil {
		h.respondCatalogError(w, err, "Failed to update product")
		return
	}

	h.logger.Info("Product updated", zap.Int64("product_id", product.ID))
	middleware.RespondWithData(w, http.StatusOK, product)
}

// Delete handles DELETE /api/products/{id} and returns the deleted record.
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.productID(w, r)
	if !ok {
		return
	}

	product, err := h.catalog.Delete(r.Context(), id)
	if err != nil {
		h.respondCatalogError(w, err, "Failed to delete product")
		return
	}

	h.logger.Info("Product deleted", zap.Int64("product_id", id))
	middleware.RespondWithData(w, http.StatusOK, product)
}

// UpdateInventory handles POST /api/products/update-inventory: the
// all-or-nothing checkout decrement.
func (h *ProductHandler) UpdateInventory(w http.ResponseWriter, r *http.Request) {
	var req InventoryUpdateRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.respondBadRequest(w, err)
		return
	}

	items := make([]domain.DecrementItem, 0, len(req.Products))
	for _, p := range req.Products {
		items = append(items, domain.DecrementItem{ID: int64(p.ID), Amount: int(p.Amount)})
	}

	products, err := h.catalog.DecrementStock(r.Context(), items)
	if err != nil {
		var stockErr *repository.InsufficientStockError
		switch {
		case errors.Is(err, repository.ErrProductNotFound):
			middleware.RespondWithError(w, http.StatusNotFound, msgProductsNotFound)
		case errors.As(err, &stockErr):
			h.logger.Info("Inventory update rejected",
				zap.Int64("product_id", stockErr.ProductID),
				zap.Int("requested", stockErr.Requested),
				zap.Int("stock", stockErr.Stock),
			)
			middleware.RespondWithError(w, http.StatusConflict, msgInsufficientStock)
		default:
			h.logger.Error("Failed to update inventory", zap.Error(err))
			middleware.RespondWithError(w, http.StatusInternalServerError, msgServerError)
		}
		return
	}

	middleware.RespondWithData(w, http.StatusOK, products)
}

// UploadImage handles POST /api/products/upload-image. At most one file
// per request, under the form field "image".
func (h *ProductHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, msgUploadNull)
		return
	}

	files := r.MultipartForm.File["image"]
	if len(files) == 0 {
		middleware.RespondWithError(w, http.StatusBadRequest, msgUploadNull)
		return
	}
	if len(files) > 1 {
		middleware.RespondWithError(w, http.StatusBadRequest, "only one file per upload")
		return
	}

	header := files[0]
	file, err := header.Open()
	if err != nil {
		h.logger.Error("Failed to open uploaded file", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, msgServerError)
		return
	}
	defer file.Close()

	info, err := h.catalog.UploadImage(file, header.Filename, header.Header.Get("Content-Type"))
	if err != nil {
		h.logger.Error("Failed to store uploaded file", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, msgServerError)
		return
	}

	h.logger.Info("Image uploaded",
		zap.String("file", info.FileName),
		zap.Int64("size", info.Size),
	)
	middleware.RespondWithData(w, http.StatusCreated, info)
}

// productID parses the {id} route parameter, responding 400 on garbage.
func (h *ProductHandler) productID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		middleware.RespondWithError(w, http.StatusBadRequest, msgInvalidID)
		return 0, false
	}
	return id, true
}

func (h *ProductHandler) decodeProductRequest(w http.ResponseWriter, r *http.Request, req *ProductRequest) bool {
	if err := middleware.DecodeAndValidate(r, req); err != nil {
		h.respondBadRequest(w, err)
		return false
	}
	return true
}

// respondBadRequest reports the first violated validation rule, or a
// generic bad-body message for decode failures.
func (h *ProductHandler) respondBadRequest(w http.ResponseWriter, err error) {
	h.logger.Debug("Request validation failed", zap.Error(err))

	if msg := middleware.FirstValidationMessage(err); msg != "" {
		middleware.RespondWithError(w, http.StatusBadRequest, msg)
		return
	}

	middleware.RespondWithError(w, http.StatusBadRequest, msgInvalidBody)
}

// respondCatalogError maps single-product failures: missing id is a 404,
// everything else a logged 500.
func (h *ProductHandler) respondCatalogError(w http.ResponseWriter, err error, logMsg string) {
	if errors.Is(err, repository.ErrProductNotFound) {
		middleware.RespondWithError(w, http.StatusNotFound, msgProductNotFound)
		return
	}

	h.logger.Error(logMsg, zap.Error(err))
	middleware.RespondWithError(w, http.StatusInternalServerError, msgServerError)
}
