package handlers

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/donaldgifford/market-price-tracker/internal/engine"
	"github.com/donaldgifford/market-price-tracker/internal/store"
	"github.com/donaldgifford/market-price-tracker/pkg/trend"
	domain "github.com/donaldgifford/market-price-tracker/pkg/types"
)

// Catalog reads and removes tracked products.
type Catalog interface {
	Product(key string) (*domain.TrackedProduct, error)
	Products(ctx context.Context, q *store.ProductQuery) ([]domain.TrackedProduct, int, error)
	Analyze(key string) (*trend.Analysis, error)
	Untrack(ctx context.Context, key string) error
	Stats(ctx context.Context) (*engine.Stats, error)
}

// ProductsHandler serves tracked product queries.
type ProductsHandler struct {
	catalog Catalog
}

// NewProductsHandler creates a new ProductsHandler.
func NewProductsHandler(c Catalog) *ProductsHandler {
	return &ProductsHandler{catalog: c}
}

// --- Input/Output types ---

// ListProductsInput filters the product list.
type ListProductsInput struct {
	Search  string `query:"search"   doc:"Case-insensitive substring of name or URL"`
	Limit   int    `query:"limit"    doc:"Number of results (default 50)"             minimum:"0" maximum:"500"`
	Offset  int    `query:"offset"   doc:"Pagination offset"                          minimum:"0"`
	OrderBy string `query:"order_by" doc:"Sort field"                                 enum:"key,name,updated,"`
}

// ProductSummary is a product with only its latest observation.
type ProductSummary struct {
	Key       string       `json:"key"`
	Name      string       `json:"name"`
	Latest    domain.Price `json:"latest"`
	UpdatedAt string       `json:"updated_at,omitempty"`
	Points    int          `json:"points"`
	Threshold *float64     `json:"threshold,omitempty"`
}

// ListProductsOutput is the response for listing products.
type ListProductsOutput struct {
	Body struct {
		Products []ProductSummary `json:"products"`
		Total    int              `json:"total"`
		Limit    int              `json:"limit"`
		Offset   int              `json:"offset"`
	}
}

// ProductKeyInput identifies a product. Keys are URLs so they travel as a
// query parameter rather than a path segment.
type ProductKeyInput struct {
	Key string `query:"key" required:"true" minLength:"1" doc:"Product key (source listing URL)"`
}

// GetProductOutput is the response for a single product.
type GetProductOutput struct {
	Body *domain.TrackedProduct
}

// AnalysisOutput is the response for a product analysis.
type AnalysisOutput struct {
	Body *trend.Analysis
}

// StatsOutput is the response for working set statistics.
type StatsOutput struct {
	Body *engine.Stats
}

// --- Handlers ---

// List returns tracked products with their latest price.
func (h *ProductsHandler) List(ctx context.Context, input *ListProductsInput) (*ListProductsOutput, error) {
	q := &store.ProductQuery{
		Search:  input.Search,
		Limit:   input.Limit,
		Offset:  input.Offset,
		OrderBy: input.OrderBy,
	}
	if q.Limit == 0 {
		q.Limit = 50
	}
	products, total, err := h.catalog.Products(ctx, q)
	if err != nil {
		return nil, apiError("listing products", err)
	}

	out := &ListProductsOutput{}
	out.Body.Products = make([]ProductSummary, 0, len(products))
	for i := range products {
		out.Body.Products = append(out.Body.Products, summarize(&products[i]))
	}
	out.Body.Total = total
	out.Body.Limit = q.Limit
	out.Body.Offset = q.Offset
	return out, nil
}

func summarize(p *domain.TrackedProduct) ProductSummary {
	s := ProductSummary{
		Key:       p.Key,
		Name:      p.Name,
		Latest:    domain.Unavailable,
		Points:    len(p.Prices),
		Threshold: p.Threshold,
	}
	if latest, ok := p.Latest(); ok {
		s.Latest = latest.Price
		s.UpdatedAt = latest.Timestamp
	}
	return s
}

// Get returns one product with its full price series.
func (h *ProductsHandler) Get(_ context.Context, input *ProductKeyInput) (*GetProductOutput, error) {
	p, err := h.catalog.Product(input.Key)
	if err != nil {
		return nil, apiError("looking up product", err)
	}
	return &GetProductOutput{Body: p}, nil
}

// Analysis returns the forecast and anomaly flags for a product.
func (h *ProductsHandler) Analysis(_ context.Context, input *ProductKeyInput) (*AnalysisOutput, error) {
	a, err := h.catalog.Analyze(input.Key)
	if err != nil {
		return nil, apiError("analyzing product", err)
	}
	return &AnalysisOutput{Body: a}, nil
}

// Delete stops tracking a product and drops its history.
func (h *ProductsHandler) Delete(ctx context.Context, input *ProductKeyInput) (*struct{}, error) {
	if err := h.catalog.Untrack(ctx, input.Key); err != nil {
		return nil, apiError("removing product", err)
	}
	return nil, nil
}

// Stats returns counts over the tracked working set.
func (h *ProductsHandler) Stats(ctx context.Context, _ *struct{}) (*StatsOutput, error) {
	st, err := h.catalog.Stats(ctx)
	if err != nil {
		return nil, apiError("reading stats", err)
	}
	return &StatsOutput{Body: st}, nil
}

// RegisterProductRoutes registers product endpoints with the Huma API.
func RegisterProductRoutes(api huma.API, h *ProductsHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "list-products",
		Method:      http.MethodGet,
		Path:        "/api/v1/products",
		Summary:     "List tracked products",
		Description: "Returns tracked products with their latest price.",
		Tags:        []string{"products"},
	}, h.List)

	huma.Register(api, huma.Operation{
		OperationID: "get-product",
		Method:      http.MethodGet,
		Path:        "/api/v1/products/lookup",
		Summary:     "Get a tracked product",
		Description: "Returns one product and its full price series.",
		Tags:        []string{"products"},
		Errors:      []int{http.StatusNotFound},
	}, h.Get)

	huma.Register(api, huma.Operation{
		OperationID: "analyze-product",
		Method:      http.MethodGet,
		Path:        "/api/v1/products/analysis",
		Summary:     "Analyze a price series",
		Description: "Returns the next-step linear forecast and the indices of anomalous prices.",
		Tags:        []string{"products"},
		Errors:      []int{http.StatusNotFound},
	}, h.Analysis)

	huma.Register(api, huma.Operation{
		OperationID:   "delete-product",
		Method:        http.MethodDelete,
		Path:          "/api/v1/products",
		Summary:       "Stop tracking a product",
		Description:   "Removes the product and its price history.",
		Tags:          []string{"products"},
		DefaultStatus: http.StatusNoContent,
		Errors:        []int{http.StatusNotFound, http.StatusInternalServerError},
	}, h.Delete)

	huma.Register(api, huma.Operation{
		OperationID: "get-system-state",
		Method:      http.MethodGet,
		Path:        "/api/v1/system/state",
		Summary:     "Get system state",
		Description: "Returns counts over the tracked working set.",
		Tags:        []string{"system"},
	}, h.Stats)
}
