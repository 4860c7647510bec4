// Command x3recon reconcilia extractos de inventario Sage X3 desde la línea de comandos.
//
// Las sesiones se guardan en un archivo SQLite local, de modo que la plantilla se genera
// en un paso y se procesa en otro cuando el conteo físico termina:
//
//	x3recon template extracto.csv -o plantillas/
//	x3recon reconcile <session-id> conteo.xlsx --strategy LIFO -o corregido.csv --report reporte.pdf
package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/jhoicas/Inventario-x3/internal/application/reconciliation"
	"github.com/jhoicas/Inventario-x3/internal/infrastructure/excel"
	"github.com/jhoicas/Inventario-x3/internal/infrastructure/memory"
	infrapdf "github.com/jhoicas/Inventario-x3/internal/infrastructure/pdf"
	"github.com/jhoicas/Inventario-x3/internal/infrastructure/sqlite"
	"github.com/jhoicas/Inventario-x3/internal/infrastructure/textenc"
	"github.com/jhoicas/Inventario-x3/pkg/config"
	"github.com/jhoicas/Inventario-x3/pkg/logger"
)

type rootOptions struct {
	dbPath   string
	encoding string
	verbose  bool
}

// app servicio de reconciliación sobre la base SQLite de la CLI.
type app struct {
	svc *reconciliation.Service
	db  *sqlite.DB
}

func (a *app) Close() error { return a.db.Close() }

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:           "x3recon",
		Short:         "Reconciliación de inventarios Sage X3",
		Long:          "Genera la plantilla de conteo de un extracto X3 y, con la plantilla completada, el extracto corregido listo para reimportar.",
		SilenceUsage:  true,
	}
	root.PersistentFlags().StringVar(&opts.dbPath, "db", "", "archivo SQLite de sesiones (por defecto SQLITE_PATH)")
	root.PersistentFlags().StringVar(&opts.encoding, "encoding", "", "codificación del extracto: utf-8, windows-1252, iso-8859-1 o auto")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "log detallado en stderr")

	root.AddCommand(
		newTemplateCmd(opts),
		newReconcileCmd(opts),
		newSessionsCmd(opts),
		newDeleteCmd(opts),
	)
	return root
}

// openApp carga la configuración, abre la base y construye el servicio.
func openApp(cmd *cobra.Command, opts *rootOptions) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if opts.dbPath != "" {
		cfg.Store.SQLitePath = opts.dbPath
	}
	if opts.encoding != "" {
		cfg.X3.InputEncoding = opts.encoding
	}
	if err := textenc.Validate(cfg.X3.InputEncoding); err != nil {
		return nil, err
	}

	level := cfg.App.LogLevel
	if opts.verbose {
		level = "debug"
	}
	log := logger.NewWithWriter(logger.Config{Env: cfg.App.Env, Level: level}, cmd.ErrOrStderr())

	db, err := sqlite.Open(cmd.Context(), cfg.Store.SQLitePath)
	if err != nil {
		return nil, err
	}
	svc, err := reconciliation.NewService(reconciliation.Deps{
		Sessions: db.Store,
		Tables:   db.Store,
		Tx:       db,
		Locker:   memory.NewLocker(),
		Sheets:   excel.Codec{},
		Decoder:  textenc.Decoder{Encoding: cfg.X3.InputEncoding},
		Reports:  infrapdf.NewMarotoReportGenerator(),
		Logger:   log.Named("x3recon"),
	}, reconciliation.OptionsFromConfig(cfg.X3, cfg.HTTP.MaxUploadBytes()))
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	log.Debug().Str("db", cfg.Store.SQLitePath).Msg("base de sesiones abierta")
	return &app{svc: svc, db: db}, nil
}
