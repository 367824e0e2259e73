package transport

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"catalog-admin/internal/domain"
	"catalog-admin/internal/middleware"
	"catalog-admin/internal/repository"
	"catalog-admin/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// filterParams are the query parameters that narrow GET /products
var filterParams = []string{"search", "category", "stockFilter", "minPrice", "maxPrice", "startDate", "endDate"}

// ProductHandler handles HTTP requests for product operations
type ProductHandler struct {
	productService service.ProductService
	logger         *zap.Logger
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(productService service.ProductService, logger *zap.Logger) *ProductHandler {
	return &ProductHandler{
		productService: productService,
		logger:         logger,
	}
}

// RegisterRoutes registers all product routes under prefix
func (h *ProductHandler) RegisterRoutes(r chi.Router, prefix string) {
	r.Route(prefix+"/products", func(r chi.Router) {
		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Put("/{id}", h.Update)
		r.Delete("/{id}", h.Delete)
	})
}

// List returns every product, or the filtered subset when filter query
// parameters are present
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	spec, err := parseFilterSpec(r.URL.Query())
	if err != nil {
		h.logger.Debug("Invalid filter parameters", zap.Error(err))
		middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	products, err := h.productService.List(r.Context(), spec)
	if err != nil {
		h.logger.Error("Failed to list products", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list products")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, products)
}

// Create handles product creation
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input domain.ProductInput
	if !h.decode(w, r, &input) {
		return
	}

	product, err := h.productService.Create(r.Context(), input)
	if err != nil {
		h.logger.Error("Product creation failed", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to create product")
		return
	}

	h.logger.Info("Product created", zap.String("product_id", product.ID))
	middleware.RespondWithJSON(w, http.StatusOK, product)
}

// Update merges the request body onto an existing product
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var input domain.ProductInput
	if !h.decode(w, r, &input) {
		return
	}

	product, err := h.productService.Update(r.Context(), id, input)
	if err != nil {
		h.respondWithServiceError(w, "failed to update product", id, err)
		return
	}

	h.logger.Info("Product updated", zap.String("product_id", id))
	middleware.RespondWithJSON(w, http.StatusOK, product)
}

// Delete removes a product
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.productService.Delete(r.Context(), id); err != nil {
		h.respondWithServiceError(w, "failed to delete product", id, err)
		return
	}

	h.logger.Info("Product deleted", zap.String("product_id", id))
	middleware.RespondNoContent(w)
}

func (h *ProductHandler) decode(w http.ResponseWriter, r *http.Request, input *domain.ProductInput) bool {
	err := middleware.DecodeAndValidate(w, r, input)
	if err == nil {
		return true
	}

	h.logger.Debug("Product validation failed", zap.Error(err))

	if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
		middleware.RespondWithValidationErrors(w, validationErrors)
		return false
	}

	middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
	return false
}

func (h *ProductHandler) respondWithServiceError(w http.ResponseWriter, message, id string, err error) {
	if errors.Is(err, repository.ErrProductNotFound) {
		h.logger.Debug("Product not found", zap.String("product_id", id))
		middleware.RespondWithError(w, http.StatusNotFound, "product not found")
		return
	}

	h.logger.Error(message, zap.String("product_id", id), zap.Error(err))
	middleware.RespondWithError(w, http.StatusInternalServerError, message)
}

// parseFilterSpec returns nil when no filter parameter is present
func parseFilterSpec(query url.Values) (*domain.FilterSpec, error) {
	present := false
	for _, name := range filterParams {
		if query.Has(name) {
			present = true
			break
		}
	}
	if !present {
		return nil, nil
	}

	spec := domain.NeutralFilters()
	spec.Search = query.Get("search")
	spec.Category = query.Get("category")

	switch stock := domain.StockFilter(query.Get("stockFilter")); stock {
	case "", domain.StockAll:
	case domain.StockOutOfStock:
		spec.StockFilter = stock
	default:
		return nil, errors.New("stockFilter must be 'all' or 'outOfStock'")
	}

	var err error
	if spec.MinPrice, err = parsePrice(query.Get("minPrice")); err != nil {
		return nil, errors.New("minPrice must be a non-negative number")
	}
	if spec.MaxPrice, err = parsePrice(query.Get("maxPrice")); err != nil {
		return nil, errors.New("maxPrice must be a non-negative number")
	}
	if spec.StartDate, err = parseDate(query.Get("startDate")); err != nil {
		return nil, errors.New("startDate must be an RFC 3339 timestamp")
	}
	if spec.EndDate, err = parseDate(query.Get("endDate")); err != nil {
		return nil, errors.New("endDate must be an RFC 3339 timestamp")
	}

	return &spec, nil
}

func parsePrice(value string) (float64, error) {
	if value == "" {
		return 0, nil
	}
	price, err := strconv.ParseFloat(value, 64)
	if err != nil || price < 0 {
		return 0, errors.New("invalid price")
	}
	return price, nil
}

func parseDate(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	return time.Parse(time.RFC3339, value)
}
