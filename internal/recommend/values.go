// FashionRec - Item-to-Item Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fashionrec

package recommend

import (
	"cmp"
	"math"
	"strconv"
	"strings"
)

// missingTokens are the cell values treated as absent, matching the NA
// vocabulary of common CSV exporters.
var missingTokens = map[string]struct{}{
	"":         {},
	"#N/A":     {},
	"#N/A N/A": {},
	"#NA":      {},
	"-1.#IND":  {},
	"-1.#QNAN": {},
	"-NaN":     {},
	"-nan":     {},
	"1.#IND":   {},
	"1.#QNAN":  {},
	"<NA>":     {},
	"N/A":      {},
	"NA":       {},
	"NULL":     {},
	"NaN":      {},
	"None":     {},
	"n/a":      {},
	"nan":      {},
	"null":     {},
}

// IsMissing reports whether a raw cell holds no value. The match is exact:
// a cell of only whitespace is a value.
func IsMissing(cell string) bool {
	_, ok := missingTokens[cell]
	return ok
}

// maxExactFloat is the largest magnitude at which every integer is
// representable as a float64.
const maxExactFloat = 1 << 53

// CanonicalKey normalizes an identifier so that equal numeric ids compare
// equal regardless of formatting ("42", "42.0", " 42 ").
func CanonicalKey(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return s
	}
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return strconv.FormatInt(i, 10)
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return s
	}
	if f == math.Trunc(f) && math.Abs(f) < maxExactFloat {
		return strconv.FormatInt(int64(f), 10)
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// CompareKeys orders canonical keys: numeric keys first in numeric order,
// then the remaining keys lexically. Numeric ties fall back to the text so
// the order is total.
func CompareKeys(a, b string) int {
	ai, aInt := parseInt(a)
	bi, bInt := parseInt(b)
	if aInt && bInt {
		return cmp.Compare(ai, bi)
	}
	af, aNum := parseNumber(a)
	bf, bNum := parseNumber(b)
	switch {
	case aNum && bNum:
		if c := cmp.Compare(af, bf); c != 0 {
			return c
		}
		return strings.Compare(a, b)
	case aNum:
		return -1
	case bNum:
		return 1
	default:
		return strings.Compare(a, b)
	}
}

// CompareKeyTuples compares two rows of keys lexicographically with CompareKeys.
func CompareKeyTuples(a, b []string) int {
	for i := 0; i < len(a) && i < len(b); i++ {
		if c := CompareKeys(a[i], b[i]); c != 0 {
			return c
		}
	}
	return cmp.Compare(len(a), len(b))
}

func parseInt(s string) (int64, bool) {
	i, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	return i, err == nil
}

func parseNumber(s string) (float64, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(f) {
		return 0, false
	}
	return f, true
}

// ParseFloat parses a numeric cell. Surrounding whitespace is ignored.
func ParseFloat(cell string) (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(cell), 64)
}

// FormatFloat renders a computed value in its shortest exact decimal form.
func FormatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
