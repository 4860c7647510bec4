package entity

import "github.com/shopspring/decimal"

// CoercionSample ejemplo de una cantidad que no se pudo convertir.
type CoercionSample struct {
	Line      int    `json:"line"`
	Inventory string `json:"inventory"`
	Article   string `json:"article"`
	Raw       string `json:"raw"`
}

// CoercionReport cantidades inválidas reemplazadas por cero. Nunca se descartan en silencio.
type CoercionReport struct {
	Count   int              `json:"count"`
	Samples []CoercionSample `json:"samples,omitempty"`
}

// MaxCoercionSamples cantidad de ejemplos conservados en el reporte.
const MaxCoercionSamples = 5

// Add registra una coerción.
func (r *CoercionReport) Add(s CoercionSample) {
	r.Count++
	if len(r.Samples) < MaxCoercionSamples {
		r.Samples = append(r.Samples, s)
	}
}

// ResidualWarning diferencia de un grupo que no se pudo repartir dentro de la tolerancia.
type ResidualWarning struct {
	Key      AggregationKey  `json:"key"`
	Delta    decimal.Decimal `json:"delta"`
	Residual decimal.Decimal `json:"residual"`
}

// UnresolvedFoundStock candidato de stock encontrado sin línea de referencia.
type UnresolvedFoundStock struct {
	Article   string          `json:"article"`
	Inventory string          `json:"inventory"`
	Counted   decimal.Decimal `json:"counted"`
}

// FoundStockSummary resumen del tratamiento de stock encontrado.
type FoundStockSummary struct {
	Candidates          int                 `json:"candidates"`
	Adjustments         int                 `json:"adjustments"`
	UpdatedLines        int                 `json:"updated_lines"`
	NewLines            int                 `json:"new_lines"`
	TotalQuantity       decimal.Decimal     `json:"total_quantity"`
	InventoriesAffected int                 `json:"inventories_affected"`
	ArticlesByInventory map[string][]string `json:"articles_by_inventory,omitempty"`
}

// OutputValidation verificación del archivo final regenerado.
type OutputValidation struct {
	Success           bool     `json:"success"`
	FoundStockLines   int      `json:"found_stock_lines"`
	CorrectIndicators int      `json:"correct_indicators"`
	Issues            []string `json:"issues,omitempty"`
}

// RunReport todo lo que una pasada reporta además de su resultado: se persiste con la sesión
// y alimenta el reporte PDF y las respuestas del API.
type RunReport struct {
	Coercions        CoercionReport         `json:"coercions"`
	Residuals        []ResidualWarning      `json:"residuals,omitempty"`
	Unresolved       []UnresolvedFoundStock `json:"unresolved,omitempty"`
	FoundStock       FoundStockSummary      `json:"found_stock"`
	Validation       *OutputValidation      `json:"validation,omitempty"`
	Conflicts        int                    `json:"count_conflicts"`
	LocationsChanged int                    `json:"locations_changed"`
}
