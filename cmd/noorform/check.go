package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	ferrors "github.com/vango-dev/noorform/internal/errors"
	"github.com/vango-dev/noorform/pkg/catalog"
	"github.com/vango-dev/noorform/pkg/form"
)

func checkCmd() *cobra.Command {
	var (
		locale string
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "check <form> [values.json|-]",
		Short: "Validate values against a form",
		Long: `Validate a JSON object of field values against a form.

Values are read from the given file, or from stdin when the
file is omitted or "-". The command exits non-zero when any
field fails validation.

Examples:
  noorform check signin values.json
  echo '{"email":"a@b.co"}' | noorform check signin --locale=ar`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := catalog.ParseLocale(locale)
			if err != nil {
				return err
			}
			def, err := catalog.Default().Get(args[0])
			if err != nil {
				return err
			}

			in := cmd.InOrStdin()
			if len(args) == 2 && args[1] != "-" {
				f, err := os.Open(args[1])
				if err != nil {
					return ferrors.New("F300").Wrap(err)
				}
				defer f.Close()
				in = f
			}
			values, err := readValues(in)
			if err != nil {
				return err
			}

			f := checkValues(cmd, def, l, values)
			out := cmd.OutOrStdout()
			if asJSON {
				if err := encodeJSON(out, f.State()); err != nil {
					return err
				}
			} else {
				printResult(out, def, l, f)
			}

			if !f.IsValid() {
				return ferrors.New("F301").
					WithDetail(fmt.Sprintf("Fields failed validation: %s", strings.Join(sortedKeys(f.Errors()), ", ")))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&locale, "locale", "l", string(catalog.English), "Locale of error messages: en or ar")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the form state as JSON")

	return cmd
}

func readValues(r io.Reader) (form.Values, error) {
	var values form.Values
	if err := json.NewDecoder(r).Decode(&values); err != nil {
		return nil, ferrors.New("F300").Wrap(err)
	}
	return values, nil
}

// checkValues mounts def, applies the declared values and submits it.
func checkValues(cmd *cobra.Command, def *catalog.Definition, l catalog.Locale, values form.Values) *form.Form {
	f := def.Mount(l, catalog.MountOptions{})
	for name, v := range values {
		if _, ok := def.Field(name); !ok {
			slog.Warn("ignoring undeclared field", "form", def.Name, "field", name)
			continue
		}
		f.SetFieldValue(name, v)
	}
	f.Submit(cmd.Context())
	return f
}

func printResult(w io.Writer, def *catalog.Definition, l catalog.Locale, f *form.Form) {
	for _, spec := range def.Fields {
		label := spec.Label.In(l)
		if msg, ok := f.Error(spec.Name); ok {
			failure(w, "%s: %s", label, msg)
			continue
		}
		success(w, "%s", label)
	}
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
