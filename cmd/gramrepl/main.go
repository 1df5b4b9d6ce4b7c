/*
Gramrepl starts an interactive session that parses one line of input at a
time against a loaded grammar.

It reads a gramconfig TOML grammar document and then reads lines from stdin
(using GNU readline when attached to a tty, or direct reads otherwise),
printing the AST or the furthest-progress diagnostics for each line until
EOF or the user types "QUIT".

Usage:

	gramrepl [flags] -g GRAMMAR_FILE

The flags are:

	-v, --version
		Give the current version of gramrepl and then exit.

	-g, --grammar FILE
		Use the provided gramconfig TOML document as the grammar. Required.

	-d, --direct
		Force reading directly from the console as opposed to using GNU
		readline based routines for reading input, even if launched in a tty.
*/
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/pflag"

	"github.com/dekarrin/gramlex/ast"
	"github.com/dekarrin/gramlex/gramconfig"
	"github.com/dekarrin/gramlex/internal/lineio"
)

const (
	ExitSuccess = iota
	ExitUsageError
	ExitGrammarError
)

const version = "0.1.0"

var (
	returnCode = ExitSuccess

	flagVersion = pflag.BoolP("version", "v", false, "Give the current version of gramrepl and then exit.")
	flagGrammar = pflag.StringP("grammar", "g", "", "The gramconfig TOML document that defines the grammar.")
	forceDirect = pflag.BoolP("direct", "d", false, "Force reading directly from stdin instead of going through GNU readline where possible.")
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
		fmt.Printf("gramrepl %s\n", version)
		return
	}

	if *flagGrammar == "" {
		fmt.Fprintf(os.Stderr, "ERROR: -g/--grammar is required\nDo -h for help.\n")
		returnCode = ExitUsageError
		return
	}

	parser, err := gramconfig.LoadFile(*flagGrammar)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: could not load grammar: %s\n", err.Error())
		returnCode = ExitGrammarError
		return
	}

	reader, err := newReader()
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: could not set up input: %s\n", err.Error())
		returnCode = ExitGrammarError
		return
	}
	defer reader.Close()

	lineNum := uint(1)
	for {
		line, err := reader.ReadLine()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return
			}
			fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
			return
		}

		if strings.EqualFold(line, "QUIT") {
			return
		}

		outcomes, err := parser.ParseLine(line, lineNum)
		if err != nil {
			fmt.Printf("lex error: %s\n", err.Error())
		} else if len(outcomes) == 1 && outcomes[0].Success {
			fmt.Println(ast.Print(outcomes[0].AST))
		} else {
			for _, o := range outcomes {
				if o.Err != nil {
					fmt.Println(o.Err.Render())
				}
			}
		}

		lineNum++
	}
}

func newReader() (lineio.Reader, error) {
	if !*forceDirect && isatty.IsTerminal(os.Stdin.Fd()) {
		return lineio.NewInteractive("gramlex> ")
	}
	return lineio.NewDirect(os.Stdin), nil
}
