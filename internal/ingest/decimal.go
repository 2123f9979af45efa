//-------------------------------------------------------------------------
//
// HiloTools Data Pipeline
//
// Copyright (c) 2025 - 2026, Rafa Marin Systems
// This software is released under The MIT License
//
//-------------------------------------------------------------------------

package ingest

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// Matches a dot used as a thousands separator: a digit, a dot, then a
// three-digit group ending at a word boundary.
var thousandsDot = regexp.MustCompile(`(\d)\.(\d{3})\b`)

// ParseDecimal parses a number from a spreadsheet export that may use
// either decimal-comma or decimal-point conventions, with optional
// thousands grouping and embedded spaces:
//
//	"1.234,56", "1,234.56", "1234,56" and "1 234,56" all parse to 1234.56
//
// The second return is false when the input is empty or not a number.
func ParseDecimal(s string) (decimal.Decimal, bool) {
	s = strings.ReplaceAll(strings.TrimSpace(s), " ", "")
	if s == "" {
		return decimal.Decimal{}, false
	}

	hasComma := strings.Contains(s, ",")
	hasDot := strings.Contains(s, ".")
	switch {
	case hasComma && hasDot:
		if strings.LastIndex(s, ".") > strings.LastIndex(s, ",") {
			// 1,234.56 - comma is the thousands separator
			s = strings.ReplaceAll(s, ",", "")
		} else {
			// 1.234,56 - dot is the thousands separator
			s = strings.ReplaceAll(s, ".", "")
			s = strings.ReplaceAll(s, ",", ".")
		}
	default:
		s = strings.ReplaceAll(s, ",", ".")
	}

	// Strip any remaining thousands-grouping dots ("1.234" -> "1234").
	for {
		stripped := thousandsDot.ReplaceAllString(s, "$1$2")
		if stripped == s {
			break
		}
		s = stripped
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, false
	}
	return d, true
}
