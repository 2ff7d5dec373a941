// FashionRec - Item-to-Item Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fashionrec

// Package validation provides struct validation using go-playground/validator v10.
//
// A single validator instance is shared process-wide. Field names in errors
// are taken from koanf tags (configuration) or json/query tags (API
// requests), so a failure reads "model.metric must be a supported distance
// metric" rather than quoting Go field names.
//
// # Custom Tags
//
//   - metric: value must be accepted by algorithms.ParseMetric
//
// # Usage
//
//	type recommendationsQuery struct {
//	    Limit int `query:"limit" validate:"gte=0"`
//	}
//
//	if verr := validation.ValidateStruct(&q); verr != nil {
//	    apiErr := verr.ToAPIError()
//	    respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
//	    return
//	}
package validation
