package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/Kerhoff/WishDesk/internal/form"
	"github.com/Kerhoff/WishDesk/internal/service"
	"github.com/Kerhoff/WishDesk/pkg/logger"
)

type runResult struct {
	Action string     `json:"action" yaml:"action"`
	Flash  string     `json:"flash" yaml:"flash"`
	Form   form.State `json:"form" yaml:"form"`
	Table  *tableOut  `json:"table,omitempty" yaml:"table,omitempty"`
}

type tableOut struct {
	Columns []string   `json:"columns" yaml:"columns"`
	Rows    [][]string `json:"rows" yaml:"rows"`
}

func newRunCmd() *cobra.Command {
	var (
		fields []string
		format string
	)

	cmd := &cobra.Command{
		Use:   "run <action>",
		Short: "Run one action and print the resulting form",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := parseFields(fields)
			if err != nil {
				return err
			}

			a, err := bootstrap(logger.NewWithOutput("warn", cmd.ErrOrStderr()))
			if err != nil {
				return err
			}

			action := service.Action(args[0])
			if !a.svc.Supports(action) {
				return fmt.Errorf("unknown action %q", action)
			}

			session := service.NewSession(uuid.NewString(), nil)
			out := session.Do(cmd.Context(), a.svc, action, in)
			if err := printOutcome(cmd.OutOrStdout(), format, out); err != nil {
				return err
			}
			if out.Failed() {
				return fmt.Errorf("%s: %s", action, out.Flash)
			}
			return nil
		},
	}

	cmd.Flags().StringArrayVar(&fields, "field", nil, "Form field as name=value (repeatable)")
	cmd.Flags().StringVarP(&format, "format", "f", "text", "Output format: text|json|yaml")
	return cmd
}

// parseFields turns name=value pairs into a form. Unknown names are rejected.
func parseFields(pairs []string) (form.State, error) {
	in := form.New()
	for _, p := range pairs {
		name, value, ok := strings.Cut(p, "=")
		if !ok {
			return nil, fmt.Errorf("field %q: expected name=value", p)
		}
		name = strings.TrimSpace(name)
		if !form.IsKnown(name) {
			return nil, fmt.Errorf("unknown field %q", name)
		}
		in.Write(name, value)
	}
	return in, nil
}

func printOutcome(w io.Writer, format string, out service.Outcome) error {
	res := runResult{Action: string(out.Action), Flash: out.Flash, Form: out.Form}
	if out.Table != nil {
		res.Table = &tableOut{Columns: out.Table.Columns, Rows: out.Table.Rows}
	}

	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	case "yaml":
		enc := yaml.NewEncoder(w)
		defer enc.Close()
		return enc.Encode(res)
	case "text":
		return printText(w, out)
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}

func printText(w io.Writer, out service.Outcome) error {
	fmt.Fprintln(w, out.Flash)
	for _, name := range form.AllFields {
		if v := out.Form.Read(name); v != "" {
			fmt.Fprintf(w, "%s=%s\n", name, v)
		}
	}
	if out.Table != nil {
		fmt.Fprintln(w)
		return out.Table.Text(w)
	}
	return nil
}
