package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	_ "github.com/joho/godotenv/autoload"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vanderheijden86/rowtree/pkg/config"
	"github.com/vanderheijden86/rowtree/pkg/export"
	"github.com/vanderheijden86/rowtree/pkg/rowmodel"
	"github.com/vanderheijden86/rowtree/pkg/ui"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

type app struct {
	configPath string
	columns    int
}

// load resolves the config and builds the seeded model.
func (a *app) load() (*config.Config, *rowmodel.Model, error) {
	cfg, err := config.Resolve(a.configPath)
	if err != nil {
		return nil, nil, err
	}
	if a.columns > 0 {
		cfg.Columns = a.columns
		if err := cfg.Validate(); err != nil {
			return nil, nil, fmt.Errorf("invalid --columns: %w", err)
		}
	}
	return cfg, cfg.NewModel(), nil
}

func newRootCmd() *cobra.Command {
	a := &app{}

	cmd := &cobra.Command{
		Use:           "rowtree",
		Short:         "Browse and edit a tree of rows in the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
		Example: strings.TrimSpace(`
  # Start the interactive tree view
  rowtree

  # Print the seeded tree
  rowtree dump --json

  # Render the tree as a picture
  rowtree export --format svg --out rows.svg
`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, rows, err := a.load()
			if err != nil {
				return err
			}
			if !isTerminal(cmd.OutOrStdout()) {
				// piped: there is nobody to drive the UI
				return rows.Dump(cmd.OutOrStdout())
			}
			return ui.Run(cmd.Context(), cfg, rows)
		},
	}

	cmd.PersistentFlags().StringVar(&a.configPath, "config", "", "Config file (default: nearest .rowtree/config.yaml, or $"+config.EnvConfig+")")
	cmd.PersistentFlags().IntVar(&a.columns, "columns", 0, "Override the number of columns")

	cmd.AddCommand(newDumpCmd(a))
	cmd.AddCommand(newExportCmd(a))
	cmd.AddCommand(newVersionCmd())
	return cmd
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func newDumpCmd(a *app) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "dump",
		Short: "Print a diagnostic dump of the tree",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, rows, err := a.load()
			if err != nil {
				return err
			}
			if asJSON {
				return export.WriteJSON(cmd.OutOrStdout(), rows)
			}
			return rows.Dump(cmd.OutOrStdout())
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Write the rows as nested JSON")
	return cmd
}

func newExportCmd(a *app) *cobra.Command {
	var format, out, title string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write a snapshot of the tree as Markdown, SVG or PNG",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, rows, err := a.load()
			if err != nil {
				return err
			}
			snap := export.Take(rows)

			if out != "" {
				switch strings.ToLower(format) {
				case "md", "markdown":
					return export.SaveMarkdownToFile(snap, title, out)
				case "svg":
					return export.SaveSVGToFile(snap, out)
				case "png":
					return export.SavePNGToFile(snap, out)
				}
				return fmt.Errorf("unknown format %q (want md, svg or png)", format)
			}

			w := cmd.OutOrStdout()
			switch strings.ToLower(format) {
			case "md", "markdown":
				md, err := export.GenerateMarkdown(snap, title)
				if err != nil {
					return err
				}
				_, err = io.WriteString(w, md)
				return err
			case "svg":
				return export.WriteSVG(w, snap, export.DefaultLayout())
			case "png":
				if isTerminal(w) {
					return fmt.Errorf("refusing to write PNG to a terminal; use --out")
				}
				return export.WritePNG(w, snap, export.DefaultLayout())
			}
			return fmt.Errorf("unknown format %q (want md, svg or png)", format)
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "md", "Output format (md|svg|png)")
	cmd.Flags().StringVarP(&out, "out", "o", "", "Output file (default: stdout)")
	cmd.Flags().StringVar(&title, "title", "Row Tree Export", "Title of the Markdown report")
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "rowtree %s\n", version)
		},
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		stop()
		os.Exit(1)
	}
}
