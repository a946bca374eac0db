package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/MrSnakeDoc/linlv/internal/assistant"
	"github.com/MrSnakeDoc/linlv/internal/assistant/gemini"
	"github.com/MrSnakeDoc/linlv/internal/config"
)

// NewAskCmd creates the 'ask' command. With no arguments it reads one
// question per line from stdin and keeps the conversation going.
func NewAskCmd(newLogger loggerFactory) *cobra.Command {
	return &cobra.Command{
		Use:   "ask [question...]",
		Short: "Ask the academic assistant",
		Example: `  linlv ask "什么是国家公园体制试点?"
  linlv ask          # interactive, one question per line`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			client := gemini.New(cfg.GeminiAPIKey, gemini.WithBaseURL(cfg.GeminiBaseURL))
			session := assistant.NewSession(client, newLogger(cfg), assistant.Options{
				Model:   cfg.GeminiModel,
				Timeout: cfg.AssistantTimeout,
			})

			out := cmd.OutOrStdout()
			if len(args) > 0 {
				turn, err := session.Ask(cmd.Context(), strings.Join(args, " "))
				if err != nil {
					return err
				}
				fmt.Fprintln(out, turn.Text)
				return nil
			}

			fmt.Fprintln(out, assistant.Greeting)
			return converse(cmd, session, cmd.InOrStdin(), out)
		},
	}
}

func converse(cmd *cobra.Command, session *assistant.Session, in io.Reader, out io.Writer) error {
	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}
		turn, err := session.Ask(cmd.Context(), scanner.Text())
		if errors.Is(err, assistant.ErrEmptyInput) {
			continue
		}
		if err != nil {
			return err
		}
		fmt.Fprintln(out, turn.Text)
	}
}
