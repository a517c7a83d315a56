package main

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"ai-docchat/internal/pkg/logger"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	logsLevel  string
	logsModule string
	logsLimit  int
)

var logsCmd = &cobra.Command{
	Use:   "logs",
	Short: "Show recent entries from the client log file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		entries, err := logger.ReadLogs(cfg.App.LogFilePath, logger.LogFilter{
			Level:  logsLevel,
			Module: logsModule,
			Limit:  logsLimit,
		})
		if err != nil {
			return fmt.Errorf("read logs: %w", err)
		}
		printLogs(cmd.OutOrStdout(), entries)
		return nil
	},
}

func printLogs(out io.Writer, entries []logger.LogEntry) {
	if len(entries) == 0 {
		fmt.Fprintln(out, "No log entries.")
		return
	}

	for _, e := range entries {
		levelColor(e.Level).Fprintf(out, "%-5s", e.Level)
		fmt.Fprintf(out, " %s [%s] %s", e.Timestamp, e.Module, e.Message)

		keys := make([]string, 0, len(e.Details))
		for k := range e.Details {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(out, " %s=%v", k, e.Details[k])
		}
		fmt.Fprintln(out)
	}
}

func levelColor(level string) *color.Color {
	switch strings.ToUpper(level) {
	case "ERROR", "FATAL", "PANIC":
		return color.New(color.FgRed)
	case "WARN":
		return color.New(color.FgYellow)
	case "DEBUG":
		return color.New(color.FgHiBlack)
	default:
		return color.New(color.FgGreen)
	}
}
