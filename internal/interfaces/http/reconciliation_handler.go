package http

import (
	"errors"
	"io"
	"mime/multipart"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Inventario-x3/internal/application/dto"
	"github.com/jhoicas/Inventario-x3/internal/application/reconciliation"
	"github.com/jhoicas/Inventario-x3/internal/domain"
	"github.com/jhoicas/Inventario-x3/internal/domain/inventory"
)

const (
	mimeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	mimeCSV  = "text/csv; charset=utf-8"
	mimePDF  = "application/pdf"
)

// ReconciliationHandler expone las sesiones de reconciliación X3.
type ReconciliationHandler struct {
	svc *reconciliation.Service
}

// NewReconciliationHandler construye el handler.
func NewReconciliationHandler(svc *reconciliation.Service) *ReconciliationHandler {
	return &ReconciliationHandler{svc: svc}
}

// Import sube un extracto X3 y crea la sesión.
// @Summary      Importar extracto
// @Description  Analiza el extracto (csv, txt o xlsx), agrega por artículo e inventario y crea la sesión.
// @Tags         sessions
// @Accept       multipart/form-data
// @Produce      json
// @Param        file  formData  file  true  "Extracto X3"
// @Success      201   {object}  dto.ImportResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      415   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/sessions [post]
func (h *ReconciliationHandler) Import(c *fiber.Ctx) error {
	fh, content, err := formFile(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "archivo requerido en el campo 'file'"})
	}
	res, err := h.svc.ImportExtract(c.UserContext(), reconciliation.ImportInput{Filename: fh.Filename, Content: content})
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ImportResponse{
		Session:      res.Session,
		TemplateName: res.TemplateName,
		TemplateURL:  "/api/sessions/" + res.Session.ID + "/template",
		Coercions:    res.Coercions,
	})
}

// List sesiones más recientes primero.
// @Summary      Listar sesiones
// @Tags         sessions
// @Produce      json
// @Param        limit   query  int  false  "Límite (por defecto 20)"
// @Param        offset  query  int  false  "Desplazamiento"
// @Success      200     {object}  dto.SessionListResponse
// @Router       /api/sessions [get]
func (h *ReconciliationHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginación inválida"})
	}
	page.DefaultPage()
	items, err := h.svc.ListSessions(c.UserContext(), page.Limit, page.Offset)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.SessionListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Total: len(items)},
	})
}

// GetByID sesión con su reporte acumulado.
// @Summary      Detalle de sesión
// @Tags         sessions
// @Produce      json
// @Param        id   path      string  true  "ID de sesión"
// @Success      200  {object}  reconciliation.SessionDetail
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sessions/{id} [get]
func (h *ReconciliationHandler) GetByID(c *fiber.Ctx) error {
	detail, err := h.svc.GetSession(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(detail)
}

// Delete elimina la sesión y sus tablas.
// @Summary      Eliminar sesión
// @Tags         sessions
// @Param        id   path  string  true  "ID de sesión"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/sessions/{id} [delete]
func (h *ReconciliationHandler) Delete(c *fiber.Ctx) error {
	if err := h.svc.DeleteSession(c.UserContext(), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Template descarga la plantilla de conteo.
// @Summary      Descargar plantilla
// @Tags         sessions
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        id   path  string  true  "ID de sesión"
// @Success      200  {file}  file
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sessions/{id}/template [get]
func (h *ReconciliationHandler) Template(c *fiber.Ctx) error {
	name, content, err := h.svc.Template(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return sendAttachment(c, name, mimeXLSX, content)
}

// Process carga la plantilla completada y reparte los écarts.
// @Summary      Procesar plantilla completada
// @Description  Calcula los écarts por línea y los reparte entre lotes (FIFO o LIFO), incluido el stock encontrado.
// @Tags         sessions
// @Accept       multipart/form-data
// @Produce      json
// @Param        id        path      string  true   "ID de sesión"
// @Param        file      formData  file    true   "Plantilla completada (xlsx)"
// @Param        strategy  formData  string  false  "FIFO o LIFO (por defecto FIFO)"
// @Success      200       {object}  dto.ProcessResponse
// @Failure      400       {object}  dto.ErrorResponse
// @Failure      404       {object}  dto.ErrorResponse
// @Failure      409       {object}  dto.ErrorResponse
// @Failure      422       {object}  dto.ErrorResponse
// @Router       /api/sessions/{id}/process [post]
func (h *ReconciliationHandler) Process(c *fiber.Ctx) error {
	var in dto.ProcessRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.Strategy == "" {
		in.Strategy = string(inventory.StrategyFIFO)
	}
	_, content, err := formFile(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "archivo requerido en el campo 'file'"})
	}
	id := c.Params("id")
	res, err := h.svc.Reconcile(c.UserContext(), id, content, in.Strategy)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.ProcessResponse{
		Session:          res.Distribute.Session,
		Strategy:         string(res.Distribute.Strategy),
		Rows:             res.Process.Rows,
		Discrepancies:    res.Process.Discrepancies,
		FoundStock:       res.Process.FoundStock,
		Adjustments:      res.Distribute.Adjustments,
		LocationsChanged: res.Process.LocationsChanged,
		Conflicts:        res.Process.Conflicts,
		Report:           res.Distribute.Report,
		FinalURL:         "/api/sessions/" + id + "/final",
		ReportURL:        "/api/sessions/" + id + "/report",
	})
}

// Final genera y descarga el extracto corregido.
// @Summary      Descargar archivo corregido
// @Tags         sessions
// @Produce      text/csv
// @Param        id   path  string  true  "ID de sesión"
// @Success      200  {file}  file
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sessions/{id}/final [get]
func (h *ReconciliationHandler) Final(c *fiber.Ctx) error {
	final, err := h.svc.GenerateFinal(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	if !final.Validation.Success {
		c.Set("X-Validation-Issues", "true")
	}
	return sendAttachment(c, final.Filename, mimeCSV, final.Content)
}

// Report descarga el reporte PDF de la sesión.
// @Summary      Reporte PDF
// @Tags         sessions
// @Produce      application/pdf
// @Param        id   path  string  true  "ID de sesión"
// @Success      200  {file}  file
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sessions/{id}/report [get]
func (h *ReconciliationHandler) Report(c *fiber.Ctx) error {
	name, content, err := h.svc.Report(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return sendAttachment(c, name, mimePDF, content)
}

func formFile(c *fiber.Ctx) (*multipart.FileHeader, []byte, error) {
	fh, err := c.FormFile("file")
	if err != nil {
		return nil, nil, err
	}
	f, err := fh.Open()
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()
	content, err := io.ReadAll(f)
	if err != nil {
		return nil, nil, err
	}
	return fh, content, nil
}

func sendAttachment(c *fiber.Ctx, name, contentType string, content []byte) error {
	c.Attachment(name)
	c.Set(fiber.HeaderContentType, contentType)
	return c.Send(content)
}

// writeError traduce los errores de dominio a códigos HTTP.
func writeError(c *fiber.Ctx, err error) error {
	status, code := fiber.StatusInternalServerError, "INTERNAL"
	switch {
	case errors.Is(err, domain.ErrNotFound):
		status, code = fiber.StatusNotFound, "NOT_FOUND"
	case errors.Is(err, domain.ErrSessionBusy):
		status, code = fiber.StatusConflict, "SESSION_BUSY"
	case errors.Is(err, domain.ErrUnsupportedFormat):
		status, code = fiber.StatusUnsupportedMediaType, "UNSUPPORTED_FORMAT"
	case errors.Is(err, domain.ErrFormat):
		status, code = fiber.StatusUnprocessableEntity, "INVALID_FORMAT"
	case errors.Is(err, domain.ErrInvalidTemplate):
		status, code = fiber.StatusUnprocessableEntity, "INVALID_TEMPLATE"
	case errors.Is(err, domain.ErrInvalidInput):
		status, code = fiber.StatusBadRequest, "VALIDATION"
	case errors.Is(err, domain.ErrDataConsistency):
		status, code = fiber.StatusInternalServerError, "DATA_CONSISTENCY"
	}
	return c.Status(status).JSON(dto.ErrorResponse{Code: code, Message: err.Error()})
}
