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

	"github.com/rafamarinsys/hilotools/internal/staging"
)

// keyIndex maps dimension natural ids to surrogate keys. Lookups of
// missing or null ids resolve to the sentinel key; fact rows are never
// dropped over an unresolvable foreign key.
type keyIndex map[int64]int64

func (k keyIndex) resolve(id sql.NullInt64) int64 {
	if !id.Valid {
		return SentinelKey
	}
	key, ok := k[id.Int64]
	if !ok {
		return SentinelKey
	}
	return key
}

// BuildFactSales projects sales transactions into the fact schema, joining
// natural keys to dimension surrogate keys. The employee key is fixed at
// the sentinel: sales facts carry no employee attribution in the source
// data, and that limitation is preserved rather than papered over.
func BuildFactSales(sales []staging.SalesRecord, products []DimProductRow,
	customers []DimCustomerRow, stores []DimStoreRow) []FactSalesRow {

	productKeys := make(keyIndex, len(products))
	for _, p := range products {
		productKeys[p.ProductID] = p.ProductKey
	}
	customerKeys := make(keyIndex, len(customers))
	for _, c := range customers {
		customerKeys[c.CustomerKey] = c.CustomerKey
	}
	storeKeys := make(keyIndex, len(stores))
	for _, s := range stores {
		storeKeys[s.StoreID] = s.StoreKey
	}

	rows := make([]FactSalesRow, 0, len(sales))
	for _, r := range sales {
		rows = append(rows, FactSalesRow{
			SaleID:          r.SaleID,
			DateID:          DateKey(r.SaleDate),
			ProductKey:      productKeys.resolve(r.ProductID),
			CustomerKey:     customerKeys.resolve(r.CustomerID),
			StoreKey:        storeKeys.resolve(r.StoreID),
			EmployeeKey:     SentinelKey,
			Quantity:        r.Quantity,
			UnitPrice:       r.UnitPrice,
			DiscountPercent: r.DiscountPercent,
			SalesAmount:     r.SalesAmount,
			ProfitMargin:    r.ProfitMargin,
		})
	}
	return rows
}

// BuildFactInventory projects inventory snapshots into the fact schema.
// The product key comes from the trailing-digit extraction on the product
// code; codes without digits resolve to the sentinel.
func BuildFactInventory(inventory []staging.InventoryRecord) []FactInventoryRow {
	rows := make([]FactInventoryRow, 0, len(inventory))
	for _, r := range inventory {
		productKey := int64(SentinelKey)
		if id, ok := ExtractProductID(r.ProductCode); ok {
			productKey = id
		}
		warehouseKey := int64(SentinelKey)
		if r.WarehouseID.Valid {
			warehouseKey = r.WarehouseID.Int64
		}
		rows = append(rows, FactInventoryRow{
			InventoryID:  r.InventoryID,
			DateID:       DateKey(r.SnapshotDate),
			ProductKey:   productKey,
			WarehouseKey: warehouseKey,
			StockQty:     r.StockQty,
			ReorderLevel: r.ReorderLevel,
			UnitCost:     r.UnitCost,
			TotalValue:   r.TotalValue,
		})
	}
	return rows
}
