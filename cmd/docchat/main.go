package main

import (
	"fmt"
	"os"

	"ai-docchat/internal/config"
	"ai-docchat/internal/pkg/logger"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	apiURL  string
	logFile string
	verbose bool

	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "docchat",
	Short: "Ask questions about a PDF or text document",
	Long: `docchat uploads a document to the Q&A backend and lets you ask questions
about it, either interactively or one question at a time.

Run without arguments to start the interactive chat interface.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg = config.Load()
		if apiURL != "" {
			cfg.Client.APIBaseURL = config.ResolveAPIBaseURL(apiURL, cfg.IsProduction(), cfg.Client.PublicOrigin, cfg.Client.APIPath)
		}
		if logFile != "" {
			cfg.App.LogFilePath = logFile
		}
		if cmd.Name() == logsCmd.Name() {
			return nil
		}
		return cfg.ValidateClient()
	},
	RunE: runChat,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "Backend base URL (or set API_BASE_URL env)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Log file path (or set LOG_FILE_PATH env)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Also log to the terminal (ask only)")

	chatCmd.Flags().StringVarP(&chatFile, "file", "f", "", "Document to upload on start")
	rootCmd.Flags().AddFlagSet(chatCmd.Flags())

	askCmd.Flags().StringVarP(&askFile, "file", "f", "", "Document to upload before asking (required)")
	_ = askCmd.MarkFlagRequired("file")

	logsCmd.Flags().StringVar(&logsLevel, "level", "", "Only show entries at this level")
	logsCmd.Flags().StringVar(&logsModule, "module", "", "Only show entries from this module")
	logsCmd.Flags().IntVarP(&logsLimit, "limit", "n", 50, "Maximum number of entries")

	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(logsCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newLogger() *logger.ZapLogger {
	if verbose {
		return logger.NewZapLogger(cfg.App.LogFilePath, cfg.IsProduction())
	}
	return logger.NewIsolatedLogger(cfg.App.LogFilePath)
}
