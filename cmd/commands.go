package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	app "github.com/okian/climatedash/internal/app"
	"github.com/okian/climatedash/pkg/logger"
)

// selection flags shared by render and export.
type selection struct {
	index int
	name  string
	out   string
}

func (s *selection) bind(cmd *cobra.Command) {
	cmd.Flags().IntVar(&s.index, "company", -1, "company index (default: configured default company)")
	cmd.Flags().StringVar(&s.name, "name", "", "company name")
	cmd.Flags().StringVarP(&s.out, "output", "o", "", "output file path (default: stdout)")
}

// startService loads the data set for a one-shot command. Logs go to the
// command's stderr so stdout carries only the output.
func startService(cmd *cobra.Command, f *flags) (*app.Service, error) {
	ctx := cmd.Context()
	cfg, err := loadConfig(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	svc, err := newService(cfg, logger.New(cmd.ErrOrStderr()))
	if err != nil {
		return nil, fmt.Errorf("failed to build service: %w", err)
	}
	if err := svc.Start(ctx); err != nil {
		return nil, fmt.Errorf("failed to start service: %w", err)
	}
	return svc, nil
}

// apply selects the requested company, if any.
func (s *selection) apply(ctx context.Context, svc *app.Service) error {
	switch {
	case s.name != "":
		if _, err := svc.SelectByName(ctx, s.name); err != nil {
			return err
		}
	case s.index >= 0:
		if svc.Select(ctx, s.index) == nil {
			return fmt.Errorf("company %d: index out of range", s.index)
		}
	}
	return nil
}

// write sends body to the output file or to w.
func (s *selection) write(w io.Writer, body string) error {
	if s.out == "" {
		_, err := io.WriteString(w, body)
		return err
	}
	if err := os.WriteFile(s.out, []byte(body), 0o644); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func newRenderCmd(f *flags) *cobra.Command {
	sel := &selection{}
	var chartID string
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render the dashboard page or one chart for a company",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			svc, err := startService(cmd, f)
			if err != nil {
				return err
			}
			defer svc.Stop()
			if err := sel.apply(ctx, svc); err != nil {
				return err
			}

			var body string
			if chartID != "" {
				body, err = svc.Chart(ctx, chartID)
			} else {
				body, err = svc.Render(ctx)
			}
			if err != nil {
				return fmt.Errorf("render failed: %w", err)
			}
			return sel.write(cmd.OutOrStdout(), body)
		},
	}
	sel.bind(cmd)
	cmd.Flags().StringVar(&chartID, "chart", "", "render only this chart container id")
	return cmd
}

func newExportCmd(f *flags) *cobra.Command {
	sel := &selection{}
	var format string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export a company's raw record as JSON or CSV",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			svc, err := startService(cmd, f)
			if err != nil {
				return err
			}
			defer svc.Stop()
			if err := sel.apply(ctx, svc); err != nil {
				return err
			}
			out, err := svc.Export(ctx, format)
			if err != nil {
				return fmt.Errorf("export failed: %w", err)
			}
			return sel.write(cmd.OutOrStdout(), out.Body+"\n")
		},
	}
	sel.bind(cmd)
	cmd.Flags().StringVarP(&format, "format", "f", "json", "json or csv")
	return cmd
}

func newCompaniesCmd(f *flags) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "companies",
		Short: "List the companies in the data source",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			svc, err := startService(cmd, f)
			if err != nil {
				return err
			}
			defer svc.Stop()

			list := svc.Companies(ctx)
			w := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(w)
				enc.SetEscapeHTML(false)
				enc.SetIndent("", "  ")
				return enc.Encode(list)
			}
			for _, c := range list {
				if _, err := fmt.Fprintf(w, "%d\t%s\n", c.Index, c.Name); err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of tab separated lines")
	return cmd
}
