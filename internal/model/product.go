//-------------------------------------------------------------------------
//
// HiloTools Data Pipeline
//
// Copyright (c) 2025 - 2026, Rafa Marin Systems
// This software is released under The MIT License
//
//-------------------------------------------------------------------------

package model

import (
	"database/sql"
	"fmt"
	"regexp"
	"sort"
	"strconv"

	"github.com/rafamarinsys/hilotools/internal/staging"
)

var trailingDigits = regexp.MustCompile(`(\d+)$`)

// ExtractProductID pulls the numeric product id out of an inventory product
// code by taking the trailing digit run ("PRD_0042" -> 42). Codes with no
// trailing digits have no id and are excluded from the id-based join.
func ExtractProductID(code string) (int64, bool) {
	m := trailingDigits.FindString(code)
	if m == "" {
		return 0, false
	}
	id, err := strconv.ParseInt(m, 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

// SynthesizeProductCode builds the placeholder code for a product id that
// has no inventory match.
func SynthesizeProductCode(id int64) string {
	return fmt.Sprintf("PRD_%04d", id)
}

// BuildDimProduct reconciles product identities referenced from sales and
// inventory. Sales-derived ids are left-joined against inventory-derived
// (id, code, category) tuples; ids with no inventory match get a
// synthesized code and a null category. The surrogate key equals the
// natural product id, and a sentinel row keyed 0 is prepended unless the
// data already contains that key.
func BuildDimProduct(sales []staging.SalesRecord, inventory []staging.InventoryRecord) []DimProductRow {
	type invProduct struct {
		code     string
		category sql.NullInt64
	}

	// Distinct (id, code, category) tuples from inventory. Tuples missing
	// any component are dropped, mirroring the dropna before the join.
	fromInventory := make(map[int64][]invProduct)
	seenTuple := make(map[string]bool)
	for _, r := range inventory {
		id, ok := ExtractProductID(r.ProductCode)
		if !ok || r.ProductCode == "" || !r.CategoryID.Valid {
			continue
		}
		key := fmt.Sprintf("%d|%s|%d", id, r.ProductCode, r.CategoryID.Int64)
		if seenTuple[key] {
			continue
		}
		seenTuple[key] = true
		fromInventory[id] = append(fromInventory[id], invProduct{
			code:     r.ProductCode,
			category: r.CategoryID,
		})
	}

	// Distinct non-null product ids from sales, in ascending order.
	idSet := make(map[int64]bool)
	for _, r := range sales {
		if r.ProductID.Valid {
			idSet[r.ProductID.Int64] = true
		}
	}
	ids := make([]int64, 0, len(idSet))
	for id := range idSet {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	rows := make([]DimProductRow, 0, len(ids)+1)
	hasSentinel := false
	for _, id := range ids {
		if id == SentinelKey {
			hasSentinel = true
		}
		matches := fromInventory[id]
		if len(matches) == 0 {
			rows = append(rows, DimProductRow{
				ProductKey:  id,
				ProductID:   id,
				ProductCode: SynthesizeProductCode(id),
			})
			continue
		}
		// Left join: every matching inventory tuple produces a row.
		for _, m := range matches {
			rows = append(rows, DimProductRow{
				ProductKey:  id,
				ProductID:   id,
				ProductCode: m.code,
				CategoryID:  m.category,
			})
		}
	}

	if !hasSentinel {
		sentinel := DimProductRow{
			ProductKey:  SentinelKey,
			ProductID:   0,
			ProductCode: "UNKNOWN",
		}
		rows = append([]DimProductRow{sentinel}, rows...)
	}
	return rows
}
