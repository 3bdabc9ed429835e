// Copyright 2023 The Hypatia Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command hypatia runs the Hypatia calculator language: expressions given
// with -e, script files given as arguments, or an interactive REPL.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/chzyer/readline"
	"github.com/urfave/cli/v3"

	"github.com/hypatia-lang/hypatia/run"
)

var (
	resultStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
)

func main() {
	cmd := &cli.Command{
		Name:      "hypatia",
		Usage:     "a calculator language with first-class physical quantities",
		ArgsUsage: "[file ...]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "expression",
				Aliases: []string{"e"},
				Usage:   "evaluate `EXPR` and exit",
			},
			&cli.BoolFlag{
				Name:  "no-prelude",
				Usage: "start without the standard units and prefixes",
			},
			&cli.BoolFlag{
				Name:  "plain",
				Usage: "disable styled output",
			},
		},
		Action: hypatia,
	}
	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func hypatia(_ context.Context, cmd *cli.Command) error {
	session := run.New()
	if cmd.Bool("no-prelude") {
		session = run.NewBare()
	}
	plain := cmd.Bool("plain")

	if expr := cmd.String("expression"); expr != "" {
		return evalSource(session, expr, plain, os.Stdout)
	}
	if cmd.Args().Len() > 0 {
		for _, name := range cmd.Args().Slice() {
			src, err := os.ReadFile(name)
			if err != nil {
				return err
			}
			if err := evalSource(session, string(src), plain, os.Stdout); err != nil {
				return err
			}
		}
		return nil
	}
	return repl(session, plain)
}

// evalSource runs one source text and prints its result, or its
// diagnostics on stderr.
func evalSource(session *run.Session, src string, plain bool, out io.Writer) error {
	result, errs := session.Eval(src)
	if len(errs) > 0 {
		fmt.Fprintln(os.Stderr, styled(errorStyle, run.Reports(errs, src), plain))
		return cli.Exit("", 1)
	}
	fmt.Fprintln(out, styled(resultStyle, result, plain))
	return nil
}

// repl reads inputs until EOF, continuing a multi-line input while its
// braces are unbalanced, and evaluates each complete input against the
// session environment.
func repl(session *run.Session, plain bool) error {
	rl, err := readline.New("> ")
	if err != nil {
		return err
	}
	defer rl.Close()

	for {
		input, err := readInput(rl)
		switch {
		case errors.Is(err, io.EOF):
			return nil
		case errors.Is(err, readline.ErrInterrupt):
			continue
		case err != nil:
			return err
		}
		if strings.TrimSpace(input) == "" {
			continue
		}
		result, errs := session.Eval(input)
		if len(errs) > 0 {
			fmt.Println(styled(errorStyle, run.Reports(errs, input), plain))
			continue
		}
		fmt.Println(styled(resultStyle, result, plain))
	}
}

// readInput collects lines until the brace balance closes.
func readInput(rl *readline.Instance) (string, error) {
	rl.SetPrompt("> ")
	var input strings.Builder
	for {
		line, err := rl.Readline()
		if err != nil {
			return "", err
		}
		input.WriteString(line)
		input.WriteString("\n")
		depth := run.OpenBraces(input.String())
		if depth <= 0 {
			return input.String(), nil
		}
		rl.SetPrompt(strings.Repeat("  ", depth) + "| ")
	}
}

func styled(style lipgloss.Style, s string, plain bool) string {
	if plain || s == "" {
		return s
	}
	return style.Render(s)
}
