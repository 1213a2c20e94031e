// Command planc compiles a relational plan described by a directory of
// CSV tables into an encryption-aware, subject-assigned execution plan,
// and renders it as Graphviz DOT.
package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/Bonis98/Distributed-query/analyzer"
	"github.com/Bonis98/Distributed-query/catalog"
	"github.com/Bonis98/Distributed-query/config"
	"github.com/Bonis98/Distributed-query/export"
	"github.com/Bonis98/Distributed-query/plan"
)

// Exit codes, spec §6.
const (
	exitOK              = 0
	exitInputValidation = 1
	exitCompileFailure  = 2
	exitIOError         = 3
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	var (
		input     string
		output    string
		manualRaw string
		cfgPath   string
		verbose   int
		dotOnly   bool
	)

	log := logrus.New()
	code := exitOK

	rootCmd := &cobra.Command{
		Use:           "planc",
		Short:         "Compile CSV-described relational plans into encryption-aware execution plans",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	compileCmd := &cobra.Command{
		Use:   "compile",
		Short: "Compile a plan and render it as Graphviz DOT",
		RunE: func(cmd *cobra.Command, args []string) error {
			switch {
			case verbose >= 2:
				log.SetLevel(logrus.TraceLevel)
			case verbose == 1:
				log.SetLevel(logrus.DebugLevel)
			}

			var err error
			code, err = compile(cmd.Context(), log, input, output, manualRaw, cfgPath, dotOnly)
			if err != nil {
				log.WithError(err).Error("compilation failed")
			}
			return err
		},
	}

	compileCmd.Flags().StringVar(&input, "input", "", "directory containing tree.csv, relations.csv, subjects.csv, authorizations.csv")
	compileCmd.Flags().StringVar(&output, "output", "", "path to write the Graphviz DOT rendering")
	compileCmd.Flags().StringVar(&manualRaw, "manual", "", "comma-separated subject ids consumed head-first for assignment overrides")
	compileCmd.Flags().StringVar(&cfgPath, "config", "", "optional YAML file of operator weight overrides")
	compileCmd.Flags().CountVarP(&verbose, "verbose", "v", "raise log verbosity (repeatable)")
	compileCmd.Flags().BoolVar(&dotOnly, "dot-only", false, "write the DOT rendering of the profiled input tree without running any compiler pass")
	_ = compileCmd.MarkFlagRequired("input")
	_ = compileCmd.MarkFlagRequired("output")

	rootCmd.AddCommand(compileCmd)
	rootCmd.SetArgs(args)

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		if code == exitOK {
			code = exitIOError
		}
		return code
	}
	return code
}

func compile(ctx context.Context, log *logrus.Logger, inputDir, outputPath, manualRaw, cfgPath string, dotOnly bool) (int, error) {
	if _, err := config.Load(cfgPath); err != nil {
		return exitIOError, fmt.Errorf("loading config: %w", err)
	}

	cat, rows, relByRow, err := catalog.ReadAll(inputDir)
	if err != nil {
		var pathErr *fs.PathError
		if errors.As(err, &pathErr) {
			return exitIOError, fmt.Errorf("reading input: %w", err)
		}
		return exitInputValidation, fmt.Errorf("reading input: %w", err)
	}

	root, err := plan.BuildTree(rows, relByRow)
	if err != nil {
		return exitInputValidation, fmt.Errorf("building tree: %w", err)
	}

	manual := parseManual(manualRaw)

	final := root
	if dotOnly {
		plan.RecomputeProfiles(root)
	} else {
		final, err = analyzer.Compile(ctx, root, cat, analyzer.Options{Manual: manual, Log: log})
		if err != nil {
			return exitCompileFailure, err
		}
	}

	f, err := os.Create(outputPath)
	if err != nil {
		return exitIOError, fmt.Errorf("opening output: %w", err)
	}
	defer f.Close()

	if err := export.WriteDOT(f, final); err != nil {
		return exitIOError, fmt.Errorf("writing output: %w", err)
	}

	return exitOK, nil
}

func parseManual(raw string) []catalog.SubjectID {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]catalog.SubjectID, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, catalog.SubjectID(p))
		}
	}
	return out
}
