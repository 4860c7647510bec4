package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Posiciones de los campos de una línea S; del extracto Sage X3.
const (
	ColLineType   = 0
	ColSession    = 1
	ColInventory  = 2
	ColRank       = 3
	ColSite       = 4
	ColQuantity   = 5  // quantité théorique (original)
	ColCounted    = 6  // quantité réelle / corrigée
	ColIndicator  = 7  // indicateur de compte
	ColArticle    = 8
	ColLocation   = 9
	ColStatus     = 10
	ColUnit       = 11
	ColValue      = 12
	ColZone       = 13
	ColLot        = 14
	SchemaColumns = 15
)

// Tipos de línea del extracto.
const (
	LineTypeHeader = "E"
	LineTypeList   = "L"
	LineTypeStock  = "S"
)

// Valores del indicador de compte y lote centinela.
const (
	IndicatorNormal = "1"
	IndicatorZeroed = "2"
	LotecartLot     = "LOTECART"
)

// LotType etiqueta asignada al identificador de lote.
type LotType string

const (
	LotTypeType1     LotType = "type1"
	LotTypeType2     LotType = "type2"
	LotTypeLotecart  LotType = "lotecart"
	LotTypePotential LotType = "potential_lotecart"
	LotTypeUnknown   LotType = "unknown"
)

// Priority rango de prioridad (1 = más prioritario) usado en desempates y ordenamientos.
func (t LotType) Priority() int {
	switch t {
	case LotTypeType1:
		return 1
	case LotTypeType2:
		return 2
	case LotTypeLotecart:
		return 3
	case LotTypePotential:
		return 4
	default:
		return 5
	}
}

// LotClassification resultado inmutable de clasificar un lote.
type LotClassification struct {
	Date *time.Time
	Type LotType
}

// StockRecord una línea S; parseada. Raw conserva el texto original para regenerar el archivo.
type StockRecord struct {
	LineNo     int             `json:"line_no"`
	Site       string          `json:"site"`
	Session    string          `json:"session"`
	Inventory  string          `json:"inventory"`
	Rank       int             `json:"rank"`
	Article    string          `json:"article"`
	Quantity   decimal.Decimal `json:"quantity"`
	CountedRaw string          `json:"counted_raw"`
	Indicator  string          `json:"indicator"`
	Unit       string          `json:"unit"`
	Zone       string          `json:"zone"`
	Status     string          `json:"status"`
	Lot        string          `json:"lot"`
	Location   string          `json:"location"`
	LotDate    *time.Time      `json:"lot_date,omitempty"`
	LotType    LotType         `json:"lot_type"`
	Raw        string          `json:"raw"`
}

// Key clave de agregación completa del registro.
func (r StockRecord) Key() AggregationKey {
	return AggregationKey{
		Article:   r.Article,
		Status:    r.Status,
		Location:  r.Location,
		Zone:      r.Zone,
		Unit:      r.Unit,
		Inventory: r.Inventory,
	}
}

// CountKey clave (artículo, inventario) con la que se busca la cantidad contada.
func (r StockRecord) CountKey() CountKey {
	return CountKey{Article: r.Article, Inventory: r.Inventory}
}
