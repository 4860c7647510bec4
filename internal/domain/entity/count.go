package entity

import "github.com/shopspring/decimal"

// CountKey (artículo, inventario): la cantidad contada se aplica a todos los lotes del par.
type CountKey struct {
	Article   string
	Inventory string
}

// ActualCounts cantidades contadas por (artículo, inventario).
type ActualCounts map[CountKey]decimal.Decimal

// Get devuelve la cantidad contada; sin entrada equivale a "nada contado" (cero).
func (c ActualCounts) Get(k CountKey) decimal.Decimal {
	if v, ok := c[k]; ok {
		return v
	}
	return decimal.Zero
}

// CompletedRow una fila de la plantilla que el usuario completó.
type CompletedRow struct {
	RowNo       int             `json:"row_no"`
	Session     string          `json:"session"`
	Inventory   string          `json:"inventory"`
	Article     string          `json:"article"`
	Status      string          `json:"status"`
	Theoretical decimal.Decimal `json:"theoretical"`
	Counted     decimal.Decimal `json:"counted"`
	Unit        string          `json:"unit"`
	Zone        string          `json:"zone"`
	Location    string          `json:"location"`
}

// CountKey clave de conteo de la fila.
func (r CompletedRow) CountKey() CountKey {
	return CountKey{Article: r.Article, Inventory: r.Inventory}
}
