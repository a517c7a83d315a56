package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"ai-docchat/internal/bootstrap"
	"ai-docchat/internal/conversation"
	"ai-docchat/internal/session"
	"ai-docchat/pkg/gateway"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var askFile string

var (
	errUploadFailed   = errors.New("upload failed")
	errQuestionFailed = errors.New("question failed")
)

var askCmd = &cobra.Command{
	Use:   "ask --file <document> <question> [question...]",
	Short: "Upload a document, ask each question in order and print the conversation",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer cancel()

		sysLogger := newLogger()
		defer sysLogger.Sync()

		client, err := bootstrap.NewClient(ctx, cfg, sysLogger)
		if err != nil {
			return err
		}
		defer client.Close()

		return runAsk(ctx, client.Controller, askFile, args, cmd.OutOrStdout())
	},
}

// runAsk drives one upload and then each question through the controller and
// prints the resulting log. It stops at the first failed question.
func runAsk(ctx context.Context, ctrl *session.Controller, path string, questions []string, out io.Writer) error {
	doc, err := gateway.OpenDocument(path)
	if err != nil {
		return err
	}

	ctrl.SubmitUpload(ctx, doc)
	if !ctrl.FileUploaded() {
		printTranscript(out, ctrl.Messages())
		return errUploadFailed
	}

	var failed error
	for _, q := range questions {
		if strings.TrimSpace(q) == "" {
			continue
		}
		if !ctrl.SubmitQuestion(ctx, q) {
			failed = fmt.Errorf("%w: %q was not accepted", errQuestionFailed, q)
			break
		}
		if last, _ := lastMessage(ctrl); last.Content == session.AskFallbackMessage {
			failed = errQuestionFailed
			break
		}
	}

	printTranscript(out, ctrl.Messages())
	return failed
}

func lastMessage(ctrl *session.Controller) (conversation.Message, bool) {
	msgs := ctrl.Messages()
	if len(msgs) == 0 {
		return conversation.Message{}, false
	}
	return msgs[len(msgs)-1], true
}

func printTranscript(out io.Writer, msgs []conversation.Message) {
	user := color.New(color.FgCyan, color.Bold)
	assistant := color.New(color.FgGreen, color.Bold)

	for _, m := range msgs {
		if m.Role == conversation.RoleUser {
			user.Fprint(out, "You: ")
		} else {
			assistant.Fprint(out, "Assistant: ")
		}
		fmt.Fprintln(out, m.Content)
	}
}
