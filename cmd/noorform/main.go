package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	ferrors "github.com/vango-dev/noorform/internal/errors"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	root := rootCmd(stderr)
	root.SetArgs(args)
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)

	if err := root.Execute(); err != nil {
		ferrors.Fprint(stderr, err)
		return 1
	}
	return 0
}

func rootCmd(logOut io.Writer) *cobra.Command {
	var (
		logFormat string
		logLevel  string
		noColor   bool
	)

	cmd := &cobra.Command{
		Use:   "noorform",
		Short: "Serve and validate bilingual forms",
		Long: `Noorform serves validated forms in English and Arabic.

Forms can be rendered over HTTP, driven live over WebSocket,
checked against a values file, or filled in from the terminal.

Examples:
  noorform serve --addr=:8080
  noorform forms signup --locale=ar
  noorform check signin values.json
  noorform fill contact`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if noColor {
				ferrors.DisableColors()
			}
			logger, err := newLogger(logOut, logFormat, logLevel)
			if err != nil {
				return err
			}
			slog.SetDefault(logger)
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "Log format: text or json")
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level: debug, info, warn or error")
	cmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored error output")

	cmd.AddCommand(
		serveCmd(),
		formsCmd(),
		checkCmd(),
		fillCmd(),
		versionCmd(),
	)
	return cmd
}

func newLogger(w io.Writer, format, level string) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, ferrors.New("F100").
			WithDetail(fmt.Sprintf("Unknown log level %q", level)).
			WithSuggestion("Use debug, info, warn or error")
	}
	opts := &slog.HandlerOptions{Level: lvl}

	switch strings.ToLower(format) {
	case "text", "":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	default:
		return nil, ferrors.New("F100").
			WithDetail(fmt.Sprintf("Unknown log format %q", format)).
			WithSuggestion("Use text or json")
	}
}

// success prints a success message.
func success(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "\033[32m✓\033[0m %s\n", fmt.Sprintf(format, args...))
}

// failure prints a failure message.
func failure(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "\033[31m✗\033[0m %s\n", fmt.Sprintf(format, args...))
}
