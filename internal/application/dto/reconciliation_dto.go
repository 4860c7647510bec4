package dto

import (
	"github.com/jhoicas/Inventario-x3/internal/domain/entity"
	"github.com/jhoicas/Inventario-x3/internal/domain/inventory"
)

// ImportResponse respuesta de POST /api/sessions.
type ImportResponse struct {
	Session      *entity.Session       `json:"session"`
	TemplateName string                `json:"template_name"`
	TemplateURL  string                `json:"template_url"`
	Coercions    entity.CoercionReport `json:"coercions"`
}

// ProcessRequest campos de formulario de POST /api/sessions/:id/process (además del archivo).
type ProcessRequest struct {
	Strategy string `form:"strategy"`
}

// ProcessResponse resumen de la carga de la plantilla y del reparto.
type ProcessResponse struct {
	Session          *entity.Session           `json:"session"`
	Strategy         string                    `json:"strategy"`
	Rows             int                       `json:"rows"`
	Discrepancies    int                       `json:"discrepancies"`
	FoundStock       int                       `json:"found_stock"`
	Adjustments      int                       `json:"adjustments"`
	LocationsChanged int                       `json:"locations_changed"`
	Conflicts        []inventory.CountConflict `json:"conflicts,omitempty"`
	Report           entity.RunReport          `json:"report"`
	FinalURL         string                    `json:"final_url"`
	ReportURL        string                    `json:"report_url"`
}

// SessionListResponse página de sesiones.
type SessionListResponse struct {
	Items []*entity.Session `json:"items"`
	Page  PageResponse      `json:"page"`
}
