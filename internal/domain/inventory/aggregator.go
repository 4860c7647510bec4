package inventory

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Inventario-x3/internal/domain"
	"github.com/jhoicas/Inventario-x3/internal/domain/entity"
)

// Nombres de columnas del esquema derivado aceptados como claves de agregación.
const (
	KeyArticle   = "CODE_ARTICLE"
	KeyStatus    = "STATUT"
	KeyLocation  = "EMPLACEMENT"
	KeyZone      = "ZONE_PK"
	KeyUnit      = "UNITE"
	KeyInventory = "NUMERO_INVENTAIRE"
)

// DefaultAggregationKeys claves de negocio; el número de inventario se agrega siempre.
var DefaultAggregationKeys = []string{KeyArticle, KeyStatus, KeyLocation, KeyZone, KeyUnit}

// Aggregator agrupa registros por clave de negocio.
type Aggregator struct {
	article, status, location, zone, unit bool
}

// NewAggregator selecciona las claves. Nombres desconocidos se ignoran; si ninguno es válido
// (aparte del inventario) el resultado es un error de consistencia.
func NewAggregator(keys []string) (*Aggregator, error) {
	if len(keys) == 0 {
		keys = DefaultAggregationKeys
	}
	a := &Aggregator{}
	valid := 0
	for _, k := range keys {
		switch strings.ToUpper(strings.TrimSpace(k)) {
		case KeyArticle:
			a.article = true
		case KeyStatus:
			a.status = true
		case KeyLocation:
			a.location = true
		case KeyZone:
			a.zone = true
		case KeyUnit:
			a.unit = true
		case KeyInventory:
			continue
		default:
			continue
		}
		valid++
	}
	if valid == 0 {
		return nil, fmt.Errorf("%w: ninguna clave de agregación válida en %v", domain.ErrDataConsistency, keys)
	}
	return a, nil
}

// GroupKey clave del registro restringida a las columnas seleccionadas.
func (a *Aggregator) GroupKey(r entity.StockRecord) entity.AggregationKey {
	k := entity.AggregationKey{Inventory: r.Inventory}
	if a.article {
		k.Article = r.Article
	}
	if a.status {
		k.Status = r.Status
	}
	if a.location {
		k.Location = r.Location
	}
	if a.zone {
		k.Zone = r.Zone
	}
	if a.unit {
		k.Unit = r.Unit
	}
	return k
}

// Aggregate suma la cantidad teórica por grupo y ordena por (prioridad de tipo de lote, fecha mínima),
// fechas nulas al final. El orden es estable respecto a la primera aparición del grupo.
func (a *Aggregator) Aggregate(records []entity.StockRecord) ([]entity.AggregatedGroup, error) {
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: no hay registros para agregar", domain.ErrDataConsistency)
	}

	index := make(map[entity.AggregationKey]int)
	groups := make([]entity.AggregatedGroup, 0)
	for _, r := range records {
		k := a.GroupKey(r)
		i, ok := index[k]
		if !ok {
			i = len(groups)
			index[k] = i
			groups = append(groups, entity.AggregatedGroup{
				Key:              k,
				Site:             r.Site,
				Session:          r.Session,
				TheoreticalTotal: decimal.Zero,
				PriorityLotType:  entity.LotTypeUnknown,
			})
		}
		g := &groups[i]
		g.TheoreticalTotal = g.TheoreticalTotal.Add(r.Quantity)
		g.Members++
		if r.LotType.Priority() < g.PriorityLotType.Priority() {
			g.PriorityLotType = r.LotType
		}
		if r.LotDate != nil && (g.MinLotDate == nil || r.LotDate.Before(*g.MinLotDate)) {
			d := *r.LotDate
			g.MinLotDate = &d
		}
	}

	sort.SliceStable(groups, func(i, j int) bool {
		pi, pj := groups[i].PriorityLotType.Priority(), groups[j].PriorityLotType.Priority()
		if pi != pj {
			return pi < pj
		}
		di, dj := groups[i].MinLotDate, groups[j].MinLotDate
		switch {
		case di == nil:
			return false
		case dj == nil:
			return true
		default:
			return di.Before(*dj)
		}
	})
	return groups, nil
}

// BuildTemplateRows una fila de plantilla por grupo con la cantidad real en cero.
func BuildTemplateRows(groups []entity.AggregatedGroup) []entity.CompletedRow {
	rows := make([]entity.CompletedRow, 0, len(groups))
	for i, g := range groups {
		rows = append(rows, entity.CompletedRow{
			RowNo:       i + 2,
			Session:     g.Session,
			Inventory:   g.Key.Inventory,
			Article:     g.Key.Article,
			Status:      g.Key.Status,
			Theoretical: g.TheoreticalTotal,
			Counted:     decimal.Zero,
			Unit:        g.Key.Unit,
			Zone:        g.Key.Zone,
			Location:    g.Key.Location,
		})
	}
	return rows
}

// Inventories números de inventario distintos en orden de aparición.
func Inventories(records []entity.StockRecord) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, r := range records {
		if _, ok := seen[r.Inventory]; ok {
			continue
		}
		seen[r.Inventory] = struct{}{}
		out = append(out, r.Inventory)
	}
	return out
}
