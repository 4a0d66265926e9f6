// Package cli renders evaluations for the calc command: single expressions,
// an interactive loop, and the stored history.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/alecthomas/repr"
	"github.com/fatih/color"

	"github.com/graeme-hill/shuntcalc/internal/logger"
	"github.com/graeme-hill/shuntcalc/lib"
)

// ErrEvaluationFailed is returned after an evaluation error has already been
// printed, so callers only need to set the exit status.
var ErrEvaluationFailed = errors.New("evaluation failed")

var (
	resultLabel  = color.New(color.FgGreen, color.Bold).SprintFunc()
	errorLabel   = color.New(color.FgRed, color.Bold).SprintFunc()
	postfixLabel = color.New(color.FgCyan).SprintFunc()
)

type Runner struct {
	Out io.Writer

	// History is optional; when set every evaluation is recorded.
	History *lib.HistoryStore

	ShowPostfix bool
	ShowTokens  bool

	Log *logger.Logger
}

func (r *Runner) logger() *logger.Logger {
	if r.Log == nil {
		return logger.Global()
	}
	return r.Log
}

// Evaluate prints "Result: <value>" or "Error: <message>" for expr.
func (r *Runner) Evaluate(ctx context.Context, expr string) error {
	tokens := lib.Tokenize(expr)
	if r.ShowTokens {
		fmt.Fprintln(r.Out, repr.String(tokens))
	}
	if r.ShowPostfix {
		fmt.Fprintf(r.Out, "%s %s\n", postfixLabel("Postfix:"), lib.FormatPostfix(tokens))
	}

	result, evalErr := lib.Evaluate(tokens)
	r.logger().Debug("evaluate %q postfix=%q result=%v err=%v", expr, lib.FormatPostfix(tokens), result, evalErr)

	if r.History != nil {
		if _, err := r.History.Record(ctx, expr, tokens, result, evalErr); err != nil {
			r.logger().Warn("failed to record evaluation: %v", err)
		}
	}

	if evalErr != nil {
		fmt.Fprintf(r.Out, "%s %v\n", errorLabel("Error:"), evalErr)
		return ErrEvaluationFailed
	}
	fmt.Fprintf(r.Out, "%s %s\n", resultLabel("Result:"), lib.FormatResult(result))
	return nil
}

// REPL evaluates one expression per line until EOF, "exit" or "quit".
// Evaluation errors are printed and the loop carries on. Cancelling ctx
// stops the loop even while it is waiting for input.
func (r *Runner) REPL(ctx context.Context, in io.Reader, prompt bool) error {
	readCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	lines := make(chan string)
	readErr := make(chan error, 1)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-readCtx.Done():
				readErr <- readCtx.Err()
				return
			}
		}
		readErr <- scanner.Err()
	}()

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if prompt {
			fmt.Fprint(r.Out, "> ")
		}

		var line string
		select {
		case <-ctx.Done():
			return ctx.Err()
		case l, ok := <-lines:
			if !ok {
				if prompt {
					fmt.Fprintln(r.Out)
				}
				if err := ctx.Err(); err != nil {
					return err
				}
				return <-readErr
			}
			line = strings.TrimSpace(l)
		}

		switch line {
		case "":
			continue
		case "exit", "quit":
			return nil
		}

		if err := r.Evaluate(ctx, line); err != nil && !errors.Is(err, ErrEvaluationFailed) {
			return err
		}
	}
}

// PrintHistory lists up to limit stored evaluations, newest first.
func (r *Runner) PrintHistory(ctx context.Context, limit int) error {
	if r.History == nil {
		return errors.New("history is not enabled")
	}
	if limit < 1 {
		return fmt.Errorf("history limit must be at least 1, got %d", limit)
	}

	evaluations, err := r.History.Recent(ctx, limit)
	if err != nil {
		return err
	}
	if len(evaluations) == 0 {
		fmt.Fprintln(r.Out, "No evaluations recorded.")
		return nil
	}

	for _, e := range evaluations {
		when := e.EvaluatedAt.Local().Format("2006-01-02 15:04:05")
		if e.Failed() {
			fmt.Fprintf(r.Out, "#%d  %s  %s  %s %s\n", e.ID, when, e.Expression, errorLabel("Error:"), e.Error)
			continue
		}
		fmt.Fprintf(r.Out, "#%d  %s  %s = %s\n", e.ID, when, e.Expression, lib.FormatResult(e.Result))
	}
	return nil
}

// ClearHistory removes every stored evaluation.
func (r *Runner) ClearHistory(ctx context.Context) error {
	if r.History == nil {
		return errors.New("history is not enabled")
	}
	n, err := r.History.Clear(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(r.Out, "Cleared %d evaluations.\n", n)
	return nil
}
