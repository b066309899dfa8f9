// Package main provides the sable-termck binary: a structural
// termination checker for fixture programs. It loads one or more
// fixture files, checks every mutual block, and reports the blocks
// that could not be shown terminating.
package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/sable-lang/sable/internal/core"
	"github.com/sable-lang/sable/internal/diag"
	"github.com/sable-lang/sable/internal/fixture"
	"github.com/sable-lang/sable/internal/termination"
)

const appName = "sable-termck"

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   appName,
		Short: "Structural termination checker for sable programs",
		Long: `sable-termck decides whether groups of mutually recursive function
definitions terminate on all well-typed inputs, by checking that every
recursive call strictly decreases some argument under the subterm
ordering.`,
		SilenceUsage: true,
	}
	cmd.AddCommand(checkCmd())
	return cmd
}

func checkCmd() *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "check <file>...",
		Short: "Check every mutual block of the given fixture files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			level := slog.LevelWarn
			if verbose {
				level = slog.LevelDebug
			}
			logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

			failed := false
			for _, file := range args {
				ok, err := checkFile(file, logger)
				if err != nil {
					return err
				}
				failed = failed || !ok
			}
			if failed {
				return errors.New("termination checking failed")
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	return cmd
}

func checkFile(file string, logger *slog.Logger) (bool, error) {
	program, err := fixture.Load(file)
	if err != nil {
		var ferr *fixture.Error
		if errors.As(err, &ferr) {
			diag.NewFormatter().Format(ferr.Diagnostic())
			return false, nil
		}
		return false, err
	}

	checker := termination.NewChecker(program, logger)
	formatter := diag.NewFormatter()
	ok := true

	for _, block := range program.Blocks {
		result, err := checker.Check(block)
		if err != nil {
			return false, fmt.Errorf("%s: checking block %s: %w", file, blockLabel(block), err)
		}
		if result.Terminates() {
			fmt.Printf("%s: %s terminates\n", file, blockLabel(block))
			continue
		}
		ok = false
		fmt.Printf("%s: %s does not terminate\n", file, blockLabel(block))
		for _, failure := range result.Failures {
			formatter.Format(failureDiagnostic(block, failure))
		}
	}
	return ok, nil
}

func blockLabel(block []core.Name) string {
	names := lo.Map(block, func(n core.Name, _ int) string { return string(n) })
	return strings.Join(names, ", ")
}

func failureDiagnostic(block []core.Name, failure termination.Failure) diag.Diagnostic {
	names := lo.Map(failure.Names, func(n core.Name, _ int) string { return string(n) })
	d := diag.Diagnostic{
		Stage:    diag.StageTermination,
		Severity: diag.SeverityError,
		Code:     diag.CodeTermNonTerminating,
		Message:  fmt.Sprintf("termination checking failed for %s", strings.Join(names, ", ")),
	}
	for i, span := range failure.Sites {
		label := ""
		if i == 0 {
			label = "recursive call here never decreases an argument"
		}
		style := "secondary"
		if i == 0 {
			style = "primary"
		}
		d = d.WithLabeledSpan(span, label, style)
	}
	d = d.WithNote(fmt.Sprintf("problematic call behaviour: %s", failure.Matrix))
	return d
}
