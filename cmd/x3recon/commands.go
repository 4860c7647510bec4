package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jhoicas/Inventario-x3/internal/application/reconciliation"
	"github.com/jhoicas/Inventario-x3/internal/domain/inventory"
)

var errValidation = errors.New("el archivo corregido no pasó la validación")

func newTemplateCmd(opts *rootOptions) *cobra.Command {
	var outDir string
	cmd := &cobra.Command{
		Use:   "template <extracto>",
		Short: "Importa un extracto X3 y escribe la plantilla de conteo",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd, opts)
			if err != nil {
				return err
			}
			defer a.Close()

			content, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			imported, err := a.svc.ImportExtract(cmd.Context(), reconciliation.ImportInput{
				Filename: filepath.Base(args[0]),
				Content:  content,
			})
			if err != nil {
				return err
			}
			name, template, err := a.svc.Template(cmd.Context(), imported.Session.ID)
			if err != nil {
				return err
			}
			path := filepath.Join(outDir, name)
			if err := writeFile(path, template); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "sesión:     %s\n", imported.Session.ID)
			fmt.Fprintf(out, "plantilla:  %s\n", path)
			fmt.Fprintf(out, "líneas:     %d (%d grupos)\n", imported.Session.RecordCount, imported.Session.GroupCount)
			if imported.Coercions.Count > 0 {
				fmt.Fprintf(out, "coerciones: %d cantidades inválidas leídas como 0\n", imported.Coercions.Count)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&outDir, "output-dir", "o", ".", "directorio donde escribir la plantilla")
	return cmd
}

func newReconcileCmd(opts *rootOptions) *cobra.Command {
	var (
		strategy   string
		output     string
		reportPath string
	)
	cmd := &cobra.Command{
		Use:   "reconcile <session-id> <plantilla-completada.xlsx>",
		Short: "Procesa la plantilla completada y escribe el extracto corregido",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd, opts)
			if err != nil {
				return err
			}
			defer a.Close()

			id := args[0]
			completed, err := os.ReadFile(args[1])
			if err != nil {
				return err
			}
			rec, err := a.svc.Reconcile(cmd.Context(), id, completed, strategy)
			if err != nil {
				return err
			}
			final, err := a.svc.GenerateFinal(cmd.Context(), id)
			if err != nil {
				return err
			}
			if output == "" {
				output = final.Filename
			}
			if err := writeFile(output, final.Content); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			sess := rec.Distribute.Session
			fmt.Fprintf(out, "estrategia:        %s\n", rec.Distribute.Strategy)
			fmt.Fprintf(out, "écarts:            %d líneas evaluadas, %d ajustadas\n", rec.Process.Discrepancies, sess.AdjustedItems)
			fmt.Fprintf(out, "ajuste total:      %s\n", inventory.FormatQuantity(sess.TotalDiscrepancy))
			fmt.Fprintf(out, "stock encontrado:  %d (%d líneas nuevas)\n", rec.Process.FoundStock, final.NewLines)
			fmt.Fprintf(out, "archivo corregido: %s\n", output)

			if reportPath != "" {
				_, pdf, err := a.svc.Report(cmd.Context(), id)
				if err != nil {
					return err
				}
				if err := writeFile(reportPath, pdf); err != nil {
					return err
				}
				fmt.Fprintf(out, "reporte:           %s\n", reportPath)
			}

			if !final.Validation.Success {
				fmt.Fprintf(cmd.ErrOrStderr(), "validación:\n  %s\n", strings.Join(final.Validation.Issues, "\n  "))
				return errValidation
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&strategy, "strategy", string(inventory.StrategyFIFO), "reparto de écarts entre lotes: FIFO o LIFO")
	cmd.Flags().StringVarP(&output, "output", "o", "", "archivo corregido (por defecto {extracto}_corrige_{sesión}.csv)")
	cmd.Flags().StringVar(&reportPath, "report", "", "escribir además el reporte PDF en esta ruta")
	return cmd
}

func newSessionsCmd(opts *rootOptions) *cobra.Command {
	var limit, offset int
	cmd := &cobra.Command{
		Use:   "sessions",
		Short: "Lista las sesiones guardadas",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := openApp(cmd, opts)
			if err != nil {
				return err
			}
			defer a.Close()

			list, err := a.svc.ListSessions(cmd.Context(), limit, offset)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, s := range list {
				fmt.Fprintf(out, "%s\t%s\t%s\t%s\t%s\n",
					s.ID, s.Status, s.CreatedAt.Format("2006-01-02 15:04"), s.SessionNumber, s.OriginalFilename)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "cantidad máxima de sesiones")
	cmd.Flags().IntVar(&offset, "offset", 0, "desplazamiento")
	return cmd
}

func newDeleteCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <session-id>",
		Short: "Elimina una sesión y sus tablas",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd, opts)
			if err != nil {
				return err
			}
			defer a.Close()
			return a.svc.DeleteSession(cmd.Context(), args[0])
		},
	}
}

func writeFile(path string, content []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, content, 0o644)
}
