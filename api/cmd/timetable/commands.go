package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"ai-timetable/api/internal/export"
	"ai-timetable/api/internal/extract"
	"ai-timetable/api/internal/timetable"
	"ai-timetable/api/internal/widget"
)

type noExtractor struct{}

func (noExtractor) Run(context.Context, []byte) (*timetable.Data, error) {
	return nil, errors.New("no model configured for this command")
}

func extractCmd() *cobra.Command {
	var dryRun bool
	var output string

	cmd := &cobra.Command{
		Use:   "extract <image>",
		Short: "Extract a timetable from an image and save it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			img, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			a, err := setup(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			if dryRun {
				p, err := a.pipeline()
				if err != nil {
					return err
				}
				d, err := p.Run(ctx, img)
				if err != nil {
					return errors.New(extract.Message(err))
				}
				return printData(cmd.OutOrStdout(), d, output)
			}

			svc, err := a.service(ctx, true)
			if err != nil {
				return err
			}
			if err := svc.SubmitImage(ctx, img); err != nil {
				if msg := svc.LastError(); msg != "" {
					return errors.New(msg)
				}
				return err
			}
			return printData(cmd.OutOrStdout(), svc.CurrentTimetable(), output)
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "print the result without saving it")
	cmd.Flags().StringVarP(&output, "output", "o", "json", "output format: json or yaml")
	return cmd
}

func showCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the saved timetable",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setup(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			d := a.store.Load(cmd.Context())
			if d == nil {
				fmt.Fprintln(cmd.OutOrStdout(), "No timetable saved.")
				return nil
			}
			return printData(cmd.OutOrStdout(), d, output)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "json", "output format: json or yaml")
	return cmd
}

func todayCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "today",
		Short: "Show today's classes with their status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setup(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			t := widget.Summary(cmd.Context(), a.store, time.Now().In(a.loc))
			if output == "text" {
				fmt.Fprintln(cmd.OutOrStdout(), t.Text())
				return nil
			}
			return printData(cmd.OutOrStdout(), t, output)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "text", "output format: text, json or yaml")
	return cmd
}

func deleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete",
		Short: "Delete the saved timetable",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setup(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			svc, err := a.service(cmd.Context(), false)
			if err != nil {
				return err
			}
			if err := svc.DeleteTimetable(cmd.Context()); err != nil {
				return errors.New(svc.LastError())
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Timetable deleted.")
			return nil
		},
	}
}

func exportCmd() *cobra.Command {
	var format, out string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the saved timetable as a calendar or spreadsheet",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setup(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			d := a.store.Load(cmd.Context())
			if d == nil {
				return errors.New("no timetable saved")
			}
			var body []byte
			switch format {
			case "ics":
				body, err = export.ICS(*d, time.Now(), a.loc)
			case "xlsx":
				body, err = export.XLSX(*d)
			default:
				return fmt.Errorf("unknown format %q; use ics or xlsx", format)
			}
			if err != nil {
				return err
			}
			if out == "" || out == "-" {
				_, err = cmd.OutOrStdout().Write(body)
				return err
			}
			if err := os.WriteFile(out, body, 0o644); err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "wrote %s (%d bytes)\n", out, len(body))
			return nil
		},
	}
	cmd.Flags().StringVar(&format, "format", "ics", "ics or xlsx")
	cmd.Flags().StringVarP(&out, "output", "o", "", "output file (default stdout)")
	return cmd
}

func printData(w io.Writer, v any, format string) error {
	switch format {
	case "json", "":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		defer enc.Close()
		return enc.Encode(v)
	default:
		return fmt.Errorf("unknown output %q; use json or yaml", format)
	}
}
