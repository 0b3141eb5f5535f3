package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/prn-tf/atlant-cms/internal/app"
	"github.com/prn-tf/atlant-cms/internal/domain"
	"github.com/prn-tf/atlant-cms/internal/mediator"
	"github.com/prn-tf/atlant-cms/internal/repository"
)

const (
	defaultPageSize = 50
	maxPageSize     = 200
)

// listResponse is the JSON body of a list request.
type listResponse[T domain.Aggregate] struct {
	Items  []T   `json:"items"`
	Total  int64 `json:"total"`
	Offset int   `json:"offset"`
	Limit  int   `json:"limit"`
}

// orderRequest is the JSON body of an order update.
type orderRequest struct {
	Order int `json:"order"`
}

// Resource serves one aggregate type over HTTP. In is the raw input
// shape; build validates it into the aggregate. All traffic goes
// through the mediator, so the handler is identical for every
// aggregate and differs only in its wiring.
type Resource[T domain.Aggregate, In any] struct {
	name      string
	mediator  *mediator.Mediator
	build     func(In) (T, error)
	filters   []string
	keyLookup bool
	orderable bool
}

// ResourceConfig declares the optional behavior of a resource.
type ResourceConfig struct {
	// Filters are the query parameters forwarded as list filters.
	Filters []string

	// KeyLookup lets GET resolve non-UUID path values through the
	// aggregate's natural key (slug, email).
	KeyLookup bool

	// Orderable enables the order update route.
	Orderable bool
}

// NewResource creates a Resource.
func NewResource[T domain.Aggregate, In any](
	name string,
	m *mediator.Mediator,
	build func(In) (T, error),
	cfg ResourceConfig,
) *Resource[T, In] {
	return &Resource[T, In]{
		name:      name,
		mediator:  m,
		build:     build,
		filters:   cfg.Filters,
		keyLookup: cfg.KeyLookup,
		orderable: cfg.Orderable,
	}
}

// Name returns the route segment of the resource.
func (res *Resource[T, In]) Name() string { return res.name }

// AdminRoutes mounts the full read-write route set.
func (res *Resource[T, In]) AdminRoutes(r chi.Router) {
	r.Route("/"+res.name, func(r chi.Router) {
		r.Post("/", res.Create)
		r.Get("/", res.List)
		r.Get("/{id}", res.Get)
		r.Put("/{id}", res.Update)
		r.Delete("/{id}", res.Delete)
		if res.orderable {
			r.Patch("/{id}/order", res.UpdateOrder)
		}
	})
}

// PublicRoutes mounts the read-only route set.
func (res *Resource[T, In]) PublicRoutes(r chi.Router) {
	r.Route("/"+res.name, func(r chi.Router) {
		r.Get("/", res.List)
		r.Get("/{id}", res.Get)
	})
}

// Create handles POST /{resource}.
func (res *Resource[T, In]) Create(w http.ResponseWriter, r *http.Request) {
	var in In
	if err := decodeBody(r, &in); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	entity, err := res.build(in)
	if err != nil {
		writeError(w, err)
		return
	}

	results, err := res.mediator.Send(r.Context(), app.CreateCommand[T]{Entity: entity})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, results[0])
}

// Get handles GET /{resource}/{id}. A value that is not a UUID falls
// through to the natural key when the resource has one.
func (res *Resource[T, In]) Get(w http.ResponseWriter, r *http.Request) {
	raw := chi.URLParam(r, "id")

	id, err := uuid.Parse(raw)
	if err != nil {
		if !res.keyLookup {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid id"})
			return
		}
		entity, err := res.mediator.Ask(r.Context(), app.GetByKeyQuery[T]{Key: raw})
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, entity)
		return
	}

	entity, err := res.mediator.Ask(r.Context(), app.GetByIDQuery[T]{ID: id})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entity)
}

// List handles GET /{resource}.
func (res *Resource[T, In]) List(w http.ResponseWriter, r *http.Request) {
	opts := res.listOptions(r)

	result, err := mediator.Ask[app.ListQuery[T], repository.ListResult[T]](
		r.Context(), res.mediator, app.ListQuery[T]{Options: opts})
	if err != nil {
		writeError(w, err)
		return
	}

	items := result.Items
	if items == nil {
		items = []T{}
	}
	writeJSON(w, http.StatusOK, listResponse[T]{
		Items:  items,
		Total:  result.Total,
		Offset: opts.Offset,
		Limit:  opts.Limit,
	})
}

// Update handles PUT /{resource}/{id}.
func (res *Resource[T, In]) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid id"})
		return
	}

	var in In
	if err := decodeBody(r, &in); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	entity, err := res.build(in)
	if err != nil {
		writeError(w, err)
		return
	}
	entity.Meta().ID = id

	results, err := res.mediator.Send(r.Context(), app.UpdateCommand[T]{Entity: entity})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, results[0])
}

// UpdateOrder handles PATCH /{resource}/{id}/order.
func (res *Resource[T, In]) UpdateOrder(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid id"})
		return
	}

	var req orderRequest
	if err := decodeBody(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	results, err := res.mediator.Send(r.Context(), app.UpdateOrderCommand[T]{ID: id, Order: req.Order})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, results[0])
}

// Delete handles DELETE /{resource}/{id}.
func (res *Resource[T, In]) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid id"})
		return
	}

	if _, err := res.mediator.Send(r.Context(), app.DeleteCommand[T]{ID: id}); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// listOptions builds list options from query parameters. Only declared
// filters are forwarded; everything else is ignored.
func (res *Resource[T, In]) listOptions(r *http.Request) repository.ListOptions {
	q := r.URL.Query()

	opts := repository.ListOptions{
		SortField: q.Get("sort"),
		SortOrder: repository.SortAscending,
		Limit:     defaultPageSize,
	}
	if q.Get("order") == "desc" {
		opts.SortOrder = repository.SortDescending
	}
	if offset, err := strconv.Atoi(q.Get("offset")); err == nil && offset > 0 {
		opts.Offset = offset
	}
	if limit, err := strconv.Atoi(q.Get("limit")); err == nil && limit > 0 {
		opts.Limit = min(limit, maxPageSize)
	}

	for _, name := range res.filters {
		if value := q.Get(name); value != "" {
			if opts.Filters == nil {
				opts.Filters = make(repository.Filters)
			}
			opts.Filters[name] = value
		}
	}
	return opts
}
