// FashionRec - Item-to-Item Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fashionrec

package api

import "errors"

// ErrCatalogUnavailable is returned when the circuit breaker rejects a read.
var ErrCatalogUnavailable = errors.New("catalog unavailable")
