package main

import (
	"context"

	"github.com/spf13/cobra"

	ferrors "github.com/vango-dev/noorform/internal/errors"
	"github.com/vango-dev/noorform/internal/fill"
	"github.com/vango-dev/noorform/internal/prompt"
	"github.com/vango-dev/noorform/pkg/catalog"
	"github.com/vango-dev/noorform/pkg/form"
	"github.com/vango-dev/noorform/pkg/sink"
)

func fillCmd() *cobra.Command {
	var (
		locale   string
		save     string
		attempts int
	)

	cmd := &cobra.Command{
		Use:   "fill <form>",
		Short: "Fill in a form from the terminal",
		Long: `Prompt for every field of a form, validating each answer
as it is given, then submit the form.

The submitted values are printed as JSON, or written to
--save as one file per submission.

Examples:
  noorform fill signup
  noorform fill contact --locale=ar --save=./submissions`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := catalog.ParseLocale(locale)
			if err != nil {
				return err
			}
			def, err := catalog.Default().Get(args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			submit := func(_ context.Context, values form.Values) error {
				return encodeJSON(out, values)
			}
			if save != "" {
				s, err := sink.NewFileSink(save)
				if err != nil {
					return err
				}
				submit = s.For(def.Name)
			}

			f := def.Mount(l, catalog.MountOptions{OnSubmit: submit})
			filler := &fill.Filler{
				Driver:   prompt.NewSurvey(out),
				Locale:   l,
				Attempts: attempts,
			}
			accepted, err := filler.Run(cmd.Context(), def, f)
			if err != nil {
				return err
			}
			if !accepted {
				return ferrors.New("F301")
			}
			if err := f.SubmissionError(); err != nil {
				return err
			}
			if save != "" {
				success(out, "Saved %s submission to %s", def.Name, save)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&locale, "locale", "l", string(catalog.English), "Locale: en or ar")
	cmd.Flags().StringVar(&save, "save", "", "Directory to store the submission in")
	cmd.Flags().IntVar(&attempts, "attempts", fill.DefaultAttempts, "Times an invalid field is asked again")

	return cmd
}
