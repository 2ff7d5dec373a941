// FashionRec - Item-to-Item Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fashionrec

/*
Package api serves the read-only recommendation lookup API.

Routes:

	GET /api/v1/health                               catalog connectivity
	GET /api/v1/items                                input item ids with recommendations
	GET /api/v1/items/{itemID}/recommendations?limit=N
	GET /metrics                                     Prometheus exposition

Every JSON endpoint answers with the APIResponse envelope:

	{"success": true, "data": {...}, "meta": {"request_id": "...", "timestamp": "..."}}
	{"success": false, "error": {"code": "NOT_FOUND", "message": "..."}, "meta": {...}}

The recommendation limit defaults to, and is capped at, the configured
max_rows_show. Catalog reads go through a circuit breaker so a failing
database answers 503 quickly instead of piling up requests.

Middleware order: request id, real IP, panic recovery, then per-route rate
limiting (go-chi/httprate) and request metrics.
*/
package api
