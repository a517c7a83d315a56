package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"ai-docchat/internal/bootstrap"
	"ai-docchat/internal/pkg/logger"
	"ai-docchat/internal/tui"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

var chatFile string

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start the interactive chat interface",
	Args:  cobra.NoArgs,
	RunE:  runChat,
}

func runChat(cmd *cobra.Command, args []string) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// The UI owns the terminal, so logs only go to the file.
	sysLogger := logger.NewIsolatedLogger(cfg.App.LogFilePath)
	defer sysLogger.Sync()

	bridge := &tui.Bridge{}
	client, err := bootstrap.NewClient(ctx, cfg, sysLogger, bridge)
	if err != nil {
		return err
	}
	defer client.Close()

	model := tui.New(client.Controller, tui.Options{
		InitialFile: chatFile,
		Context:     ctx,
	})
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	bridge.Attach(p)

	sysLogger.Info("CLI", "Chat started", map[string]interface{}{"base_url": cfg.Client.APIBaseURL})
	if _, err := p.Run(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("chat: %w", err)
	}
	return nil
}
