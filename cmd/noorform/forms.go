package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/vango-dev/noorform/pkg/catalog"
)

func formsCmd() *cobra.Command {
	var (
		locale string
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "forms [name]",
		Short: "List forms or describe one",
		Long: `List the built-in forms, or print the fields of one form.

Examples:
  noorform forms
  noorform forms signup --locale=ar
  noorform forms contact --json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := catalog.ParseLocale(locale)
			if err != nil {
				return err
			}
			reg := catalog.Default()
			out := cmd.OutOrStdout()

			if len(args) == 0 {
				var views []catalog.View
				for _, def := range reg.Definitions() {
					views = append(views, def.Summary(l))
				}
				if asJSON {
					return encodeJSON(out, views)
				}
				return printSummaries(out, views)
			}

			def, err := reg.Get(args[0])
			if err != nil {
				return err
			}
			view := def.View(l)
			if asJSON {
				return encodeJSON(out, view)
			}
			return printView(out, view)
		},
	}

	cmd.Flags().StringVarP(&locale, "locale", "l", string(catalog.English), "Locale: en or ar")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON")

	return cmd
}

func printSummaries(w io.Writer, views []catalog.View) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, v := range views {
		fmt.Fprintf(tw, "%s\t%s\n", v.Name, v.Title)
	}
	return tw.Flush()
}

func printView(w io.Writer, v catalog.View) error {
	fmt.Fprintf(w, "%s (%s)\n", v.Title, v.Name)
	if v.Description != "" {
		fmt.Fprintf(w, "%s\n", v.Description)
	}
	fmt.Fprintln(w)

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, f := range v.Fields {
		req := ""
		if f.Required {
			req = "required"
		}
		fmt.Fprintf(tw, "  %s\t%s\t%s\t%s\n", f.Name, f.Type, f.Label, req)
	}
	return tw.Flush()
}

func encodeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
