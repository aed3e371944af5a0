// Command cql runs CQL programs over delimited text tables.
//
// With a script argument the file is parsed and executed as one program.
// Without one, an interactive prompt accumulates statements until a line
// equal to "exit" (case-insensitive), then runs the accumulated buffer.
package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/DaniloTeixeiraCastro/PL-Project/engine"
	"github.com/DaniloTeixeiraCastro/PL-Project/query"
)

var (
	verbose bool
	format  string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "cql [script]",
		Short: "Interpreter for the CQL query language",
		Long: `cql interprets CQL, a small SQL-like language over tables backed by
delimited text files. Statements load, transform, filter, join, and persist
tabular data held in an in-memory table store.

Examples:
  cql program.cql
  cql        (interactive; finish with 'exit')`,
		Args:          cobra.MaximumNArgs(1),
		RunE:          run,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.Flags().StringVar(&format, "format", engine.FormatTable, "query result format (table, csv, json)")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	log.SetOutput(os.Stderr)
	log.SetFormatter(&log.TextFormatter{DisableTimestamp: true})
	if verbose {
		log.SetLevel(log.DebugLevel)
	}

	executor := engine.NewExecutor(engine.NewStore(), os.Stdout)
	if err := executor.SetResultFormat(format); err != nil {
		return err
	}

	var source string
	if len(args) == 1 {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read script: %w", err)
		}
		source = string(data)
	} else {
		source = readInteractive()
	}

	if strings.TrimSpace(source) == "" {
		return nil
	}

	stmts, err := query.Parse(source)
	if err != nil {
		// A parse failure executes nothing
		return err
	}

	executor.Execute(stmts)
	return nil
}

// readInteractive accumulates lines from stdin until "exit" or EOF
func readInteractive() string {
	fmt.Println("CQL interpreter (type 'exit' to run)")

	var buf strings.Builder
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("CQL> ")
		if !scanner.Scan() {
			break
		}
		line := scanner.Text()
		if strings.EqualFold(strings.TrimSpace(line), "exit") {
			break
		}
		buf.WriteString(line)
		buf.WriteString("\n")
	}

	return buf.String()
}
