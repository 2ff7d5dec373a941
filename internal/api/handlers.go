// FashionRec - Item-to-Item Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fashionrec

package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/fashionrec/internal/catalog"
	"github.com/tomtom215/fashionrec/internal/logging"
	"github.com/tomtom215/fashionrec/internal/recommend"
	"github.com/tomtom215/fashionrec/internal/validation"
)

// Handler serves the lookup endpoints.
type Handler struct {
	catalog     Catalog
	maxRowsShow int
	version     string
}

// NewHandler creates a Handler. maxRowsShow caps every recommendation list.
func NewHandler(c Catalog, maxRowsShow int, version string) *Handler {
	if maxRowsShow < 1 {
		maxRowsShow = 1
	}
	return &Handler{catalog: c, maxRowsShow: maxRowsShow, version: version}
}

// HealthStatus is the body of GET /api/v1/health.
type HealthStatus struct {
	Status  string `json:"status"`
	Catalog string `json:"catalog"`
	Version string `json:"version,omitempty"`
}

// Health reports whether the catalog is reachable.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	if err := h.catalog.Ping(r.Context()); err != nil {
		logging.Ctx(r.Context()).Warn().Err(err).Msg("Health check failed")
		rw.ErrorWithDetails(http.StatusServiceUnavailable, ErrCodeServiceUnavailable, "catalog unreachable",
			HealthStatus{Status: "unhealthy", Catalog: "unreachable", Version: h.version})
		return
	}
	rw.Success(HealthStatus{Status: "healthy", Catalog: "ok", Version: h.version})
}

// ItemsResponse is the body of GET /api/v1/items.
type ItemsResponse struct {
	Items []int64 `json:"items"`
}

// Items lists the input items that have recommendations, ascending.
func (h *Handler) Items(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	ids, err := h.catalog.InputItems(r.Context())
	if err != nil {
		h.catalogError(rw, err)
		return
	}
	rw.SuccessList(ItemsResponse{Items: ids}, len(ids), 0)
}

// recommendationsQuery holds the parsed query string of the
// recommendations endpoint.
type recommendationsQuery struct {
	Limit int `query:"limit" validate:"gte=0"`
}

// RecommendationsResponse is the body of the recommendations endpoint.
type RecommendationsResponse struct {
	InputItemID     int64             `json:"input_itemid"`
	Recommendations []catalog.Product `json:"recommendations"`
}

// Recommendations returns the ranked recommendations of one input item.
// limit defaults to max_rows_show and is capped by it.
func (h *Handler) Recommendations(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	itemID, err := recommend.ParseID(chi.URLParam(r, "itemID"))
	if err != nil {
		rw.BadRequest("itemID must be an integer item id")
		return
	}

	var q recommendationsQuery
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			rw.BadRequest("limit must be an integer")
			return
		}
		q.Limit = n
	}
	if verr := validation.ValidateStruct(&q); verr != nil {
		rw.ValidationError(verr)
		return
	}

	limit := h.maxRowsShow
	if q.Limit > 0 && q.Limit < limit {
		limit = q.Limit
	}

	rows, err := h.catalog.ByInputItem(r.Context(), itemID, limit)
	if err != nil {
		h.catalogError(rw, err)
		return
	}
	if len(rows) == 0 {
		rw.NotFound("no recommendations for item " + strconv.FormatInt(itemID, 10))
		return
	}
	rw.SuccessList(RecommendationsResponse{InputItemID: itemID, Recommendations: rows}, len(rows), limit)
}

func (h *Handler) catalogError(rw *ResponseWriter, err error) {
	if errors.Is(err, ErrCatalogUnavailable) {
		rw.ServiceUnavailable("catalog temporarily unavailable")
		return
	}
	rw.DatabaseError(err)
}
