/*
Gramlex loads a TOML grammar document and parses one or more lines against it.

Usage:

	gramlex [flags] -g GRAMMAR_FILE

The flags are:

	-v, --version
		Give the current version of gramlex and then exit.

	-g, --grammar FILE
		Use the provided gramconfig TOML document as the grammar. Required.

	-l, --line LINE
		Parse the given line and print its result, then exit.

	-f, --file FILE
		Parse every line of the given file in turn, printing each result.

Exactly one of -l or -f must be given. For an interactive session instead,
see cmd/gramrepl.
*/
package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/pflag"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/dekarrin/gramlex"
	"github.com/dekarrin/gramlex/ast"
	"github.com/dekarrin/gramlex/gerr"
	"github.com/dekarrin/gramlex/gramconfig"
)

const (
	ExitSuccess = iota
	ExitUsageError
	ExitGrammarError
	ExitParseFailure
)

const version = "0.1.0"

var (
	returnCode = ExitSuccess

	flagVersion = pflag.BoolP("version", "v", false, "Give the current version of gramlex and then exit.")
	flagGrammar = pflag.StringP("grammar", "g", "", "The gramconfig TOML document that defines the grammar.")
	flagLine    = pflag.StringP("line", "l", "", "Parse the given line and exit.")
	flagFile    = pflag.StringP("file", "f", "", "Parse every line of the given file.")

	printer = message.NewPrinter(language.English)
)

func main() {
	defer func() {
		if panicErr := recover(); panicErr != nil {
			panic(fmt.Sprintf("unrecoverable panic occurred: %v", panicErr))
		} else {
			os.Exit(returnCode)
		}
	}()

	pflag.Parse()

	if *flagVersion {
		fmt.Printf("gramlex %s\n", version)
		return
	}

	if *flagGrammar == "" {
		fmt.Fprintf(os.Stderr, "ERROR: -g/--grammar is required\nDo -h for help.\n")
		returnCode = ExitUsageError
		return
	}
	if (*flagLine == "") == (*flagFile == "") {
		fmt.Fprintf(os.Stderr, "ERROR: exactly one of -l/--line or -f/--file must be given\nDo -h for help.\n")
		returnCode = ExitUsageError
		return
	}

	parser, err := gramconfig.LoadFile(*flagGrammar)
	if err != nil {
		msg := err.Error()
		var cerr *gerr.ConstructionError
		if errors.As(err, &cerr) {
			msg = cerr.HumanSummary()
		}
		fmt.Fprintf(os.Stderr, "ERROR: could not load grammar: %s\n", msg)
		returnCode = ExitGrammarError
		return
	}

	var lines []string
	if *flagLine != "" {
		lines = []string{*flagLine}
	} else {
		lines, err = readLines(*flagFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: could not read %s: %s\n", *flagFile, err.Error())
			returnCode = ExitGrammarError
			return
		}
	}

	anyFailed := false
	for i, line := range lines {
		lineNum := uint(i + 1)
		outcomes, err := parser.ParseLine(line, lineNum)
		if err != nil {
			fmt.Fprintf(os.Stderr, "line %d: %s\n", lineNum, err.Error())
			anyFailed = true
			continue
		}
		if !printOutcomes(lineNum, outcomes) {
			anyFailed = true
		}
	}

	if anyFailed {
		returnCode = ExitParseFailure
	}
}

// printOutcomes prints the result of parsing one line and reports whether it
// succeeded.
func printOutcomes(lineNum uint, outcomes []gramlex.Outcome) bool {
	if len(outcomes) == 1 && outcomes[0].Success {
		fmt.Printf("line %d: OK\n%s\n", lineNum, ast.Print(outcomes[0].AST))
		return true
	}

	fmt.Printf("line %d: FAILED (%s)\n", lineNum, pluralize(len(outcomes), "candidate failed", "candidates failed"))
	for _, o := range outcomes {
		if o.Err != nil {
			fmt.Printf("  %s\n", o.Err.Render())
		}
	}
	return false
}

func readLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	return lines, scanner.Err()
}

func pluralize(n int, singular, plural string) string {
	if n == 1 {
		return printer.Sprintf("%d %s", n, singular)
	}
	return printer.Sprintf("%d %s", n, plural)
}
