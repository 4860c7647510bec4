// Package reconciliation orquesta una sesión de reconciliación de inventario X3: importación
// del extracto, plantilla de conteo, cálculo y reparto de écarts, stock encontrado y archivo final.
package reconciliation

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/Inventario-x3/internal/domain"
	"github.com/jhoicas/Inventario-x3/internal/domain/entity"
	"github.com/jhoicas/Inventario-x3/internal/domain/inventory"
	"github.com/jhoicas/Inventario-x3/internal/domain/repository"
	"github.com/jhoicas/Inventario-x3/pkg/config"
	"github.com/jhoicas/Inventario-x3/pkg/logger"
)

// Extensiones aceptadas para el extracto.
var extractExtensions = map[string]bool{".csv": true, ".txt": true, ".xlsx": true}

// Options reglas del formato X3 y límites de la importación.
type Options struct {
	MinFields            int
	SiteCodes            []string
	Type1Pattern         string
	Type2Pattern         string
	InventoryDatePattern string
	AggregationKeys      []string
	DecimalSeparator     string
	InvalidAsZero        bool
	NewLineIndicator     string
	MaxUploadBytes       int
}

// OptionsFromConfig traduce la configuración X3 a opciones del servicio.
func OptionsFromConfig(x3 config.X3Config, maxUploadBytes int) Options {
	return Options{
		MinFields:            x3.MinFields,
		SiteCodes:            x3.SiteCodes,
		Type1Pattern:         x3.Type1Pattern,
		Type2Pattern:         x3.Type2Pattern,
		InventoryDatePattern: x3.InventoryDatePattern,
		AggregationKeys:      x3.AggregationKeys,
		DecimalSeparator:     x3.DecimalSeparator,
		InvalidAsZero:        x3.InvalidQuantityAsZero,
		NewLineIndicator:     x3.NewLineIndicator,
		MaxUploadBytes:       maxUploadBytes,
	}
}

// Deps colaboradores del servicio.
type Deps struct {
	Sessions repository.SessionRepository
	Tables   repository.TableStore
	Tx       repository.TxRunner
	Locker   repository.SessionLocker
	Sheets   Spreadsheets
	Decoder  TextDecoder
	Reports  ReportGenerator
	Logger   *logger.Logger
}

// Service casos de uso de una sesión de reconciliación.
type Service struct {
	sessions   repository.SessionRepository
	tables     repository.TableStore
	tx         repository.TxRunner
	locker     repository.SessionLocker
	sheets     Spreadsheets
	decoder    TextDecoder
	reports    ReportGenerator
	log        *logger.Logger
	parser     *inventory.Parser
	aggregator *inventory.Aggregator
	regen      inventory.Regenerator
	opts       Options
	now        func() time.Time
}

// NewService valida las opciones y construye el servicio.
func NewService(deps Deps, opts Options) (*Service, error) {
	classifier, err := inventory.NewLotClassifier(opts.Type1Pattern, opts.Type2Pattern, opts.SiteCodes)
	if err != nil {
		return nil, err
	}
	parser, err := inventory.NewParser(inventory.ParserOptions{
		MinFields:            opts.MinFields,
		InvalidAsZero:        opts.InvalidAsZero,
		InventoryDatePattern: opts.InventoryDatePattern,
		Classifier:           classifier,
	})
	if err != nil {
		return nil, err
	}
	aggregator, err := inventory.NewAggregator(opts.AggregationKeys)
	if err != nil {
		return nil, err
	}
	log := deps.Logger
	if log == nil {
		log = logger.Nop()
	}
	return &Service{
		sessions:   deps.Sessions,
		tables:     deps.Tables,
		tx:         deps.Tx,
		locker:     deps.Locker,
		sheets:     deps.Sheets,
		decoder:    deps.Decoder,
		reports:    deps.Reports,
		log:        log.Named("reconciliation"),
		parser:     parser,
		aggregator: aggregator,
		regen: inventory.Regenerator{
			DecimalSeparator: opts.DecimalSeparator,
			NewLineIndicator: inventory.ParseNewLineIndicator(opts.NewLineIndicator),
		},
		opts: opts,
		now:  time.Now,
	}, nil
}

// ImportInput archivo del extracto subido.
type ImportInput struct {
	Filename string
	Content  []byte
}

// ImportResult sesión creada y nombre de la plantilla a descargar.
type ImportResult struct {
	Session      *entity.Session
	TemplateName string
	Coercions    entity.CoercionReport
}

// ImportExtract analiza el extracto, agrega por clave de negocio y crea la sesión.
func (s *Service) ImportExtract(ctx context.Context, in ImportInput) (*ImportResult, error) {
	ext := strings.ToLower(filepath.Ext(in.Filename))
	if !extractExtensions[ext] {
		return nil, fmt.Errorf("%w: extensión %q (se aceptan .csv, .txt, .xlsx)", domain.ErrUnsupportedFormat, ext)
	}
	if len(in.Content) == 0 {
		return nil, fmt.Errorf("%w: archivo vacío", domain.ErrInvalidInput)
	}
	if s.opts.MaxUploadBytes > 0 && len(in.Content) > s.opts.MaxUploadBytes {
		return nil, fmt.Errorf("%w: el archivo supera %d bytes", domain.ErrInvalidInput, s.opts.MaxUploadBytes)
	}

	now := s.now()
	parsed, err := s.parse(ext, in.Content, now)
	if err != nil {
		return nil, err
	}
	groups, err := s.aggregator.Aggregate(parsed.Records)
	if err != nil {
		return nil, err
	}

	first := parsed.Records[0]
	sess := &entity.Session{
		ID:               uuid.NewString(),
		OriginalFilename: filepath.Base(in.Filename),
		Headers:          parsed.Headers,
		Status:           entity.SessionStatusUploaded,
		InventoryDate:    parsed.InventoryDate,
		Site:             first.Site,
		SessionNumber:    first.Session,
		Inventories:      inventory.Inventories(parsed.Records),
		RecordCount:      len(parsed.Records),
		GroupCount:       len(groups),
		CoercedCount:     parsed.Coercions.Count,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	report := entity.RunReport{Coercions: parsed.Coercions}

	err = s.tx.Run(ctx, func(sessions repository.SessionRepository, tables repository.TableStore) error {
		if err := sessions.Create(ctx, sess); err != nil {
			return err
		}
		if err := saveJSON(ctx, tables, sess.ID, repository.TableOriginal, parsed.Records); err != nil {
			return err
		}
		if err := saveJSON(ctx, tables, sess.ID, repository.TableAggregated, groups); err != nil {
			return err
		}
		return saveJSON(ctx, tables, sess.ID, repository.TableReport, report)
	})
	if err != nil {
		return nil, fmt.Errorf("guardar sesión: %w", err)
	}

	s.log.Info().
		Str("session_id", sess.ID).
		Str("file", sess.OriginalFilename).
		Int("headers", len(parsed.Headers)).
		Int("records", sess.RecordCount).
		Int("groups", sess.GroupCount).
		Strs("inventories", sess.Inventories).
		Msg("extracto importado")
	if parsed.Coercions.Count > 0 {
		s.log.Warn().
			Str("session_id", sess.ID).
			Int("count", parsed.Coercions.Count).
			Interface("samples", parsed.Coercions.Samples).
			Msg("cantidades inválidas reemplazadas por 0")
	}

	return &ImportResult{Session: sess, TemplateName: TemplateFilename(sess), Coercions: parsed.Coercions}, nil
}

func (s *Service) parse(ext string, content []byte, now time.Time) (*inventory.ParseResult, error) {
	if ext == ".xlsx" {
		rows, err := s.sheets.ReadExtractRows(bytes.NewReader(content))
		if err != nil {
			return nil, err
		}
		return s.parser.ParseRows(rows, now)
	}
	text, err := s.decoder.Decode(content)
	if err != nil {
		return nil, err
	}
	return s.parser.ParseLines(bytes.NewReader(text), now)
}

// Template regenera la plantilla de conteo de la sesión.
func (s *Service) Template(ctx context.Context, sessionID string) (string, []byte, error) {
	sess, err := s.getSession(ctx, sessionID)
	if err != nil {
		return "", nil, err
	}
	var groups []entity.AggregatedGroup
	if err := s.mustLoad(ctx, sessionID, repository.TableAggregated, &groups); err != nil {
		return "", nil, err
	}

	var buf bytes.Buffer
	if err := s.sheets.WriteTemplate(&buf, inventory.BuildTemplateRows(groups)); err != nil {
		return "", nil, fmt.Errorf("generar plantilla: %w", err)
	}
	s.log.Debug().Str("session_id", sessionID).Int("rows", len(groups)).Msg("plantilla generada")
	return TemplateFilename(sess), buf.Bytes(), nil
}

// ProcessResult resultado de cargar la plantilla completada.
type ProcessResult struct {
	Session          *entity.Session
	Rows             int
	Discrepancies    int
	FoundStock       int
	Conflicts        []inventory.CountConflict
	LocationsChanged int
}

// ProcessCompleted carga las cantidades contadas y calcula los écarts por línea.
func (s *Service) ProcessCompleted(ctx context.Context, sessionID string, content []byte) (*ProcessResult, error) {
	unlock, err := s.lock(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	defer unlock()
	return s.processCompleted(ctx, sessionID, content)
}

func (s *Service) processCompleted(ctx context.Context, sessionID string, content []byte) (*ProcessResult, error) {
	sess, err := s.getSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	var records []entity.StockRecord
	if err := s.mustLoad(ctx, sessionID, repository.TableOriginal, &records); err != nil {
		return nil, err
	}
	report, err := s.loadReport(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	rows, err := s.sheets.ReadCompleted(bytes.NewReader(content))
	if err != nil {
		return nil, err
	}
	counts, conflicts := inventory.CountsFromTemplate(rows)
	discrepancies := inventory.CalculateDiscrepancies(records, counts)
	candidates := inventory.DetectFoundStock(rows)
	overrides := inventory.LocationOverrides(rows, records)

	// Un conteo nuevo invalida el reparto anterior y sus resultados.
	sess.Status = entity.SessionStatusCounted
	sess.Strategy = ""
	sess.AdjustedItems = 0
	sess.FinalFilename = ""
	sess.TotalDiscrepancy = inventory.TotalDelta(discrepancies)
	sess.UpdatedAt = s.now()
	report.Conflicts = len(conflicts)
	report.LocationsChanged = len(overrides)
	report.Residuals = nil
	report.Unresolved = nil
	report.FoundStock = entity.FoundStockSummary{}
	report.Validation = nil

	err = s.tx.Run(ctx, func(sessions repository.SessionRepository, tables repository.TableStore) error {
		if err := saveJSON(ctx, tables, sessionID, repository.TableCompleted, rows); err != nil {
			return err
		}
		if err := saveJSON(ctx, tables, sessionID, repository.TableDiscrepancies, discrepancies); err != nil {
			return err
		}
		if err := saveJSON(ctx, tables, sessionID, repository.TableFoundCandidates, candidates); err != nil {
			return err
		}
		if err := tables.DeleteTable(ctx, sessionID, repository.TableDistributed); err != nil {
			return err
		}
		if err := saveJSON(ctx, tables, sessionID, repository.TableReport, report); err != nil {
			return err
		}
		return sessions.Update(ctx, sess)
	})
	if err != nil {
		return nil, fmt.Errorf("guardar conteo: %w", err)
	}

	s.log.Info().
		Str("session_id", sessionID).
		Int("rows", len(rows)).
		Int("lines", len(discrepancies)).
		Int("found_stock", len(candidates)).
		Str("total_delta", inventory.FormatQuantity(sess.TotalDiscrepancy)).
		Msg("plantilla completada procesada")
	for _, c := range conflicts {
		s.log.Warn().
			Str("session_id", sessionID).
			Str("article", c.Key.Article).
			Str("inventory", c.Key.Inventory).
			Int("row", c.Row).
			Str("previous", inventory.FormatQuantity(c.Previous)).
			Str("current", inventory.FormatQuantity(c.Current)).
			Msg("cantidad contada repetida; se usa la última fila")
	}

	return &ProcessResult{
		Session:          sess,
		Rows:             len(rows),
		Discrepancies:    len(discrepancies),
		FoundStock:       len(candidates),
		Conflicts:        conflicts,
		LocationsChanged: len(overrides),
	}, nil
}

// DistributeResult resultado del reparto de écarts y del stock encontrado.
type DistributeResult struct {
	Session     *entity.Session
	Strategy    inventory.Strategy
	Adjustments int
	Report      entity.RunReport
}

// Distribute reparte los écarts entre lotes con la estrategia dada y trata el stock encontrado.
func (s *Service) Distribute(ctx context.Context, sessionID, strategy string) (*DistributeResult, error) {
	unlock, err := s.lock(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	defer unlock()
	return s.distribute(ctx, sessionID, strategy)
}

func (s *Service) distribute(ctx context.Context, sessionID, strategy string) (*DistributeResult, error) {
	sess, err := s.getSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	var (
		records       []entity.StockRecord
		discrepancies []entity.DiscrepancyRecord
		candidates    []entity.CompletedRow
	)
	if err := s.mustLoad(ctx, sessionID, repository.TableOriginal, &records); err != nil {
		return nil, err
	}
	if ok, err := s.load(ctx, sessionID, repository.TableDiscrepancies, &discrepancies); err != nil {
		return nil, err
	} else if !ok {
		return nil, fmt.Errorf("%w: la sesión no tiene plantilla completada", domain.ErrInvalidInput)
	}
	if _, err := s.load(ctx, sessionID, repository.TableFoundCandidates, &candidates); err != nil {
		return nil, err
	}
	report, err := s.loadReport(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	strat := inventory.ParseStrategy(strategy)
	dist := inventory.Distribute(discrepancies, strat)
	found := inventory.CreateFoundStockAdjustments(candidates, records)
	adjustments := append(dist.Adjustments, found.Adjustments...)

	report.Residuals = dist.Residuals
	report.Unresolved = found.Unresolved
	report.FoundStock = inventory.SummarizeFoundStock(candidates, found.Adjustments)
	report.Validation = nil

	sess.Strategy = string(strat)
	effective := inventory.EffectiveAdjustments(adjustments)
	sess.TotalDiscrepancy = inventory.SumAdjustments(effective)
	sess.AdjustedItems = inventory.CountAdjusted(effective)
	sess.Status = entity.SessionStatusDistributed
	sess.UpdatedAt = s.now()

	err = s.tx.Run(ctx, func(sessions repository.SessionRepository, tables repository.TableStore) error {
		if err := saveJSON(ctx, tables, sessionID, repository.TableDistributed, adjustments); err != nil {
			return err
		}
		if err := saveJSON(ctx, tables, sessionID, repository.TableReport, report); err != nil {
			return err
		}
		return sessions.Update(ctx, sess)
	})
	if err != nil {
		return nil, fmt.Errorf("guardar reparto: %w", err)
	}

	for _, a := range effective {
		if a.Adjustment.IsZero() {
			continue
		}
		s.log.Debug().
			Str("session_id", sessionID).
			Str("kind", string(a.Kind)).
			Str("article", a.Article).
			Str("lot", a.Lot).
			Str("original", inventory.FormatQuantity(a.Original)).
			Str("adjustment", inventory.FormatQuantity(a.Adjustment)).
			Msg("ajuste de línea")
	}
	s.log.Info().
		Str("session_id", sessionID).
		Str("strategy", sess.Strategy).
		Int("adjustments", len(adjustments)).
		Int("adjusted_items", sess.AdjustedItems).
		Int("found_stock", len(found.Adjustments)).
		Str("total_adjustment", inventory.FormatQuantity(sess.TotalDiscrepancy)).
		Msg("écarts repartidos")
	for _, r := range dist.Residuals {
		s.log.Warn().
			Str("session_id", sessionID).
			Str("article", r.Key.Article).
			Str("inventory", r.Key.Inventory).
			Str("location", r.Key.Location).
			Str("delta", inventory.FormatQuantity(r.Delta)).
			Str("residual", inventory.FormatQuantity(r.Residual)).
			Msg("écart no repartido completamente")
	}
	for _, u := range found.Unresolved {
		s.log.Warn().
			Str("session_id", sessionID).
			Str("article", u.Article).
			Str("inventory", u.Inventory).
			Str("counted", inventory.FormatQuantity(u.Counted)).
			Msg("stock encontrado sin línea de referencia")
	}

	return &DistributeResult{Session: sess, Strategy: strat, Adjustments: len(adjustments), Report: report}, nil
}

// ReconcileResult plantilla procesada y écarts repartidos en una sola pasada.
type ReconcileResult struct {
	Process    *ProcessResult
	Distribute *DistributeResult
}

// Reconcile ProcessCompleted + Distribute bajo un mismo bloqueo de sesión.
func (s *Service) Reconcile(ctx context.Context, sessionID string, content []byte, strategy string) (*ReconcileResult, error) {
	unlock, err := s.lock(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	proc, err := s.processCompleted(ctx, sessionID, content)
	if err != nil {
		return nil, err
	}
	dist, err := s.distribute(ctx, sessionID, strategy)
	if err != nil {
		return nil, err
	}
	return &ReconcileResult{Process: proc, Distribute: dist}, nil
}

// FinalFile archivo corregido listo para reimportar en X3.
type FinalFile struct {
	Filename   string
	Content    []byte
	Validation entity.OutputValidation
	NewLines   int
}

// GenerateFinal regenera el extracto con las cantidades corregidas y lo valida.
func (s *Service) GenerateFinal(ctx context.Context, sessionID string) (*FinalFile, error) {
	unlock, err := s.lock(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	sess, err := s.getSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if sess.Status != entity.SessionStatusDistributed && sess.Status != entity.SessionStatusCompleted {
		return nil, fmt.Errorf("%w: la sesión está en estado %s, falta repartir los écarts", domain.ErrInvalidInput, sess.Status)
	}
	var (
		records     []entity.StockRecord
		adjustments []entity.Adjustment
		rows        []entity.CompletedRow
	)
	if err := s.mustLoad(ctx, sessionID, repository.TableOriginal, &records); err != nil {
		return nil, err
	}
	if ok, err := s.load(ctx, sessionID, repository.TableDistributed, &adjustments); err != nil {
		return nil, err
	} else if !ok {
		return nil, fmt.Errorf("%w: la sesión no tiene écarts repartidos", domain.ErrInvalidInput)
	}
	if _, err := s.load(ctx, sessionID, repository.TableCompleted, &rows); err != nil {
		return nil, err
	}
	report, err := s.loadReport(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	out, err := s.regen.Regenerate(inventory.RegenerateInput{
		Headers:           sess.Headers,
		Records:           records,
		Adjustments:       adjustments,
		LocationOverrides: inventory.LocationOverrides(rows, records),
	})
	if err != nil {
		return nil, err
	}
	expected := 0
	for _, a := range adjustments {
		if a.IsFoundStock() {
			expected++
		}
	}
	validation := inventory.ValidateOutput(out.Lines, expected, s.regen.NewLineIndicator, out.NewLineRanks)
	report.Validation = &validation

	sess.FinalFilename = FinalFilename(sess)
	sess.Status = entity.SessionStatusCompleted
	sess.UpdatedAt = s.now()
	err = s.tx.Run(ctx, func(sessions repository.SessionRepository, tables repository.TableStore) error {
		if err := saveJSON(ctx, tables, sessionID, repository.TableReport, report); err != nil {
			return err
		}
		return sessions.Update(ctx, sess)
	})
	if err != nil {
		return nil, fmt.Errorf("guardar archivo final: %w", err)
	}

	var ev *zerolog.Event
	if validation.Success {
		ev = s.log.Info()
	} else {
		ev = s.log.Warn().Strs("issues", validation.Issues)
	}
	ev.Str("session_id", sessionID).
		Str("file", sess.FinalFilename).
		Int("lines", len(out.Lines)).
		Int("adjusted", out.Adjusted).
		Int("new_lines", len(out.NewLineRanks)).
		Int("lotecart_lines", validation.FoundStockLines).
		Msg("archivo final generado")

	return &FinalFile{
		Filename:   sess.FinalFilename,
		Content:    inventory.Encode(out.Lines),
		Validation: validation,
		NewLines:   len(out.NewLineRanks),
	}, nil
}

// Report genera el reporte PDF de la sesión.
func (s *Service) Report(ctx context.Context, sessionID string) (string, []byte, error) {
	sess, err := s.getSession(ctx, sessionID)
	if err != nil {
		return "", nil, err
	}
	report, err := s.loadReport(ctx, sessionID)
	if err != nil {
		return "", nil, err
	}
	var adjustments []entity.Adjustment
	if _, err := s.load(ctx, sessionID, repository.TableDistributed, &adjustments); err != nil {
		return "", nil, err
	}
	pdf, err := s.reports.GenerateReport(ctx, sess, report, inventory.EffectiveAdjustments(adjustments))
	if err != nil {
		return "", nil, err
	}
	return fmt.Sprintf("%s_rapport_%s.pdf", baseName(sess.OriginalFilename), sess.ID), pdf, nil
}

// SessionDetail sesión con su reporte acumulado.
type SessionDetail struct {
	Session *entity.Session  `json:"session"`
	Report  entity.RunReport `json:"report"`
}

// GetSession devuelve la sesión y su reporte; domain.ErrNotFound si no existe.
func (s *Service) GetSession(ctx context.Context, sessionID string) (*SessionDetail, error) {
	sess, err := s.getSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	report, err := s.loadReport(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return &SessionDetail{Session: sess, Report: report}, nil
}

// ListSessions sesiones más recientes primero.
func (s *Service) ListSessions(ctx context.Context, limit, offset int) ([]*entity.Session, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.sessions.List(ctx, limit, offset)
}

// DeleteSession elimina la sesión y todas sus tablas.
func (s *Service) DeleteSession(ctx context.Context, sessionID string) error {
	unlock, err := s.lock(ctx, sessionID)
	if err != nil {
		return err
	}
	defer unlock()

	if _, err := s.getSession(ctx, sessionID); err != nil {
		return err
	}
	err = s.tx.Run(ctx, func(sessions repository.SessionRepository, tables repository.TableStore) error {
		if err := tables.DeleteAll(ctx, sessionID); err != nil {
			return err
		}
		return sessions.Delete(ctx, sessionID)
	})
	if err != nil {
		return fmt.Errorf("eliminar sesión: %w", err)
	}
	s.log.Info().Str("session_id", sessionID).Msg("sesión eliminada")
	return nil
}

// TemplateFilename {site}_{session}_{inventario|inventario_MULTI}_{id}.xlsx
func TemplateFilename(sess *entity.Session) string {
	inv := ""
	if len(sess.Inventories) > 0 {
		inv = sess.Inventories[0]
		if len(sess.Inventories) > 1 {
			inv += "_MULTI"
		}
	}
	return fmt.Sprintf("%s_%s_%s_%s.xlsx", sess.Site, sess.SessionNumber, inv, sess.ID)
}

// FinalFilename {base}_corrige_{id}.csv
func FinalFilename(sess *entity.Session) string {
	return fmt.Sprintf("%s_corrige_%s.csv", baseName(sess.OriginalFilename), sess.ID)
}

func baseName(name string) string {
	name = filepath.Base(name)
	return strings.TrimSuffix(name, filepath.Ext(name))
}

func (s *Service) lock(ctx context.Context, sessionID string) (func(), error) {
	release, err := s.locker.Lock(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return func() {
		if err := release(context.WithoutCancel(ctx)); err != nil {
			s.log.Error().Err(err).Str("session_id", sessionID).Msg("liberar bloqueo de sesión")
		}
	}, nil
}

func (s *Service) getSession(ctx context.Context, sessionID string) (*entity.Session, error) {
	sess, err := s.sessions.GetByID(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("obtener sesión: %w", err)
	}
	if sess == nil {
		return nil, fmt.Errorf("%w: sesión %s", domain.ErrNotFound, sessionID)
	}
	return sess, nil
}

func (s *Service) loadReport(ctx context.Context, sessionID string) (entity.RunReport, error) {
	var report entity.RunReport
	if _, err := s.load(ctx, sessionID, repository.TableReport, &report); err != nil {
		return entity.RunReport{}, err
	}
	return report, nil
}
