package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"

	latextree "github.com/texkit/go-latextree"
)

var log = commonlog.GetLogger("latextree")

func main() {
	var verbosity int

	rootCmd := &cobra.Command{
		Use:   "latextree",
		Short: "Inspect and convert LaTeX-like markup",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			commonlog.Configure(verbosity, nil)
		},
	}

	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "raise the log verbosity, repeatable")

	rootCmd.AddCommand(newNodesCmd())
	rootCmd.AddCommand(newTextCmd())
	rootCmd.AddCommand(newEncodeCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// readInput returns the whole input text: the named file, or stdin when no
// argument is given or the argument is "-".
func readInput(args []string) (string, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return "", fmt.Errorf("read file: %w", err)
	}
	return string(data), nil
}

func addContextFlags(cmd *cobra.Command, files *[]string, noDefault *bool) {
	cmd.Flags().StringArrayVar(files, "context", nil, "extra grammar category file (yaml), repeatable")
	cmd.Flags().BoolVar(noDefault, "no-default-context", false, "start from an empty grammar instead of the builtin one")
}

// loadContext builds the grammar for a parse: the builtin categories unless
// disabled, then every given category file on top.
func loadContext(files []string, noDefault bool) (*latextree.ContextDb, error) {
	db := latextree.StandardContext()
	if noDefault {
		db = latextree.NewContextDb()
	}

	for _, path := range files {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read context file: %w", err)
		}

		if err := db.AddCategoriesYAML(data); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}

		log.Infof("loaded grammar categories from %s", path)
	}

	return db, nil
}

// parseFailure turns a fatal parse error into the command error, formatted
// against the source with the offending line quoted.
func parseFailure(w *latextree.Walker, err error) error {
	return errors.New(strings.TrimRight(w.FormatError(err), "\n"))
}

// reportRecovered prints the errors a tolerant parse recovered from.
func reportRecovered(w *latextree.Walker) {
	for _, err := range w.Errors() {
		fmt.Fprint(os.Stderr, w.FormatError(err))
	}
}
