package persistence

import (
	"strings"
)

// ValidateSortOrder validates and normalizes the sort order to ASC or DESC.
// Returns "DESC" as the default if the input is invalid or empty.
func ValidateSortOrder(orderDir string) string {
	normalized := strings.ToUpper(strings.TrimSpace(orderDir))
	if normalized == "ASC" {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField validates the sort field against a whitelist of allowed fields.
// Returns the defaultField if the input is invalid, empty, or not in the whitelist.
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed == "" {
		return defaultField
	}
	if allowedFields[trimmed] {
		return trimmed
	}
	return defaultField
}

// CommonSortFields contains fields common to most entities
var CommonSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
}

// ProductSortFields contains allowed sort and filter fields for products
var ProductSortFields = map[string]bool{
	"id":            true,
	"created_at":    true,
	"updated_at":    true,
	"code":          true,
	"name":          true,
	"tracking_mode": true,
	"import_price":  true,
	"sale_price":    true,
	"stock":         true,
	"pending":       true,
	"out_of_stock":  true,
	"minimum_stock": true,
}

// DepotSortFields contains allowed sort and filter fields for depots
var DepotSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"name":       true,
	"is_default": true,
}

// StockLocationSortFields contains allowed sort and filter fields for stock locations
var StockLocationSortFields = map[string]bool{
	"id":            true,
	"created_at":    true,
	"updated_at":    true,
	"depot_id":      true,
	"product_id":    true,
	"quantity":      true,
	"pending":       true,
	"out_of_stock":  true,
	"minimum_stock": true,
}

// MovementSortFields contains allowed sort and filter fields for movement documents
var MovementSortFields = map[string]bool{
	"id":           true,
	"created_at":   true,
	"updated_at":   true,
	"code":         true,
	"kind":         true,
	"status":       true,
	"source":       true,
	"depot_id":     true,
	"completed_at": true,
}

// ReconciliationSortFields contains allowed sort and filter fields for count documents
var ReconciliationSortFields = map[string]bool{
	"id":           true,
	"created_at":   true,
	"updated_at":   true,
	"code":         true,
	"status":       true,
	"depot_id":     true,
	"completed_at": true,
}

// OrderSortFields contains allowed sort and filter fields for orders
var OrderSortFields = map[string]bool{
	"id":           true,
	"created_at":   true,
	"updated_at":   true,
	"code":         true,
	"status":       true,
	"depot_id":     true,
	"completed_at": true,
}
