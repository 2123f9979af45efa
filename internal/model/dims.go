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
	"sort"

	"github.com/shopspring/decimal"

	"github.com/rafamarinsys/hilotools/internal/staging"
)

// BuildDimStore derives the store dimension from the distinct store ids
// observed in sales. Store names are synthesized; the staging data carries
// no store master record.
func BuildDimStore(sales []staging.SalesRecord) []DimStoreRow {
	idSet := make(map[int64]bool)
	for _, r := range sales {
		if r.StoreID.Valid {
			idSet[r.StoreID.Int64] = true
		}
	}
	ids := make([]int64, 0, len(idSet))
	for id := range idSet {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	rows := make([]DimStoreRow, 0, len(ids)+1)
	hasSentinel := false
	for _, id := range ids {
		if id == SentinelKey {
			hasSentinel = true
		}
		rows = append(rows, DimStoreRow{
			StoreKey:  id,
			StoreID:   id,
			StoreName: fmt.Sprintf("Store %d", id),
			StoreType: "retail",
		})
	}
	if !hasSentinel {
		sentinel := DimStoreRow{
			StoreKey:  SentinelKey,
			StoreID:   0,
			StoreName: "UNKNOWN",
			StoreType: "UNKNOWN",
		}
		rows = append([]DimStoreRow{sentinel}, rows...)
	}
	return rows
}

// BuildDimEmployee aggregates HR records per employee: first non-null
// department, median salary and median bonus across reviews.
func BuildDimEmployee(hr []staging.HRRecord) []DimEmployeeRow {
	type group struct {
		department sql.NullInt64
		salaries   []decimal.Decimal
		bonuses    []decimal.Decimal
	}

	groups := make(map[int64]*group)
	order := make([]int64, 0)
	for _, r := range hr {
		g := groups[r.EmployeeID]
		if g == nil {
			g = &group{}
			groups[r.EmployeeID] = g
			order = append(order, r.EmployeeID)
		}
		// First non-null department wins.
		if !g.department.Valid && r.DepartmentID.Valid {
			g.department = r.DepartmentID
		}
		if r.Salary.Valid {
			g.salaries = append(g.salaries, r.Salary.Decimal)
		}
		if r.Bonus.Valid {
			g.bonuses = append(g.bonuses, r.Bonus.Decimal)
		}
	}
	sort.Slice(order, func(i, j int) bool { return order[i] < order[j] })

	rows := make([]DimEmployeeRow, 0, len(order)+1)
	hasSentinel := false
	for _, id := range order {
		if id == SentinelKey {
			hasSentinel = true
		}
		g := groups[id]
		rows = append(rows, DimEmployeeRow{
			EmployeeKey:  id,
			EmployeeID:   id,
			DepartmentID: g.department,
			Salary:       medianDecimal(g.salaries),
			Bonus:        medianDecimal(g.bonuses),
		})
	}
	if !hasSentinel {
		sentinel := DimEmployeeRow{EmployeeKey: SentinelKey, EmployeeID: 0}
		rows = append([]DimEmployeeRow{sentinel}, rows...)
	}
	return rows
}

// medianDecimal returns the median of values, averaging the middle pair for
// even counts. Null when there are no values.
func medianDecimal(values []decimal.Decimal) decimal.NullDecimal {
	if len(values) == 0 {
		return decimal.NullDecimal{}
	}
	sorted := append([]decimal.Decimal(nil), values...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].LessThan(sorted[j]) })

	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return staging.Dec(sorted[mid])
	}
	two := decimal.NewFromInt(2)
	return staging.Dec(sorted[mid-1].Add(sorted[mid]).Div(two))
}
