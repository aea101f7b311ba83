package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/nickcecere/barnsbot/internal/config"
	"github.com/nickcecere/barnsbot/internal/llm"
	"github.com/nickcecere/barnsbot/internal/ui"
)

var askInteractive bool

// askCmd answers questions from the terminal.
var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a question about the uploaded documents",
	Long: `Ask a question answered only from the documents in the active vector store.

Examples:
  # One question
  barnsbot ask "What is the travel reimbursement limit?"

  # Interactive session
  barnsbot ask -i`,
	RunE: runAsk,
}

func init() {
	askCmd.Flags().BoolVarP(&askInteractive, "interactive", "i", false, "read questions from stdin until EOF")
}

func runAsk(cmd *cobra.Command, args []string) error {
	if !askInteractive && len(args) == 0 {
		return cmd.Help()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	b, err := openBackend(ctx, config.Get())
	if err != nil {
		return err
	}

	if !askInteractive {
		return askOnce(ctx, b.relay, strings.Join(args, " "), os.Stdout)
	}

	fmt.Println(ui.Header.Render("barnsbot") + ui.Dim.Render("  (Ctrl+D to quit)"))
	return askLoop(ctx, b.relay, os.Stdin, os.Stdout)
}

// askLoop answers one question per input line until EOF.
func askLoop(ctx context.Context, relay *llm.Relay, in io.Reader, out io.Writer) error {
	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, ui.Prompt.Render("? "))
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}
		question := strings.TrimSpace(scanner.Text())
		if question == "" {
			continue
		}
		if err := askOnce(ctx, relay, question, out); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			fmt.Fprintln(out, ui.Error.Render(err.Error()))
		}
	}
}

func askOnce(ctx context.Context, relay *llm.Relay, question string, out io.Writer) error {
	answer, err := relay.Ask(ctx, question)
	if errors.Is(err, llm.ErrEmptyQuestion) {
		return fmt.Errorf("no question given")
	}
	if err != nil {
		return err
	}

	if answer.Outcome != llm.OutcomeAnswered {
		fmt.Fprintln(out, ui.Warning.Render(answer.Reply()))
		return nil
	}

	fmt.Fprint(out, ui.RenderMarkdown(answer.Reply()))
	if len(answer.Sources) > 0 {
		fmt.Fprintln(out, ui.Dim.Render("Sources:"))
		for _, s := range answer.Sources {
			fmt.Fprintf(out, "  %s\n", ui.SourceRef.Render(s))
		}
	}
	fmt.Fprintln(out)
	return nil
}
