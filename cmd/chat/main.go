package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"helpdesk-backend/internal/config"
	"helpdesk-backend/internal/logx"
	"helpdesk-backend/internal/tui"
	"helpdesk-backend/internal/widget"
)

var (
	endpointFlag string
	timeoutFlag  time.Duration
	logFileFlag  string
)

var rootCmd = &cobra.Command{
	Use:   "helpdesk-chat",
	Short: "Terminal chat client for the help desk relay",
	Long: `helpdesk-chat sends each line you type to the relay's /api/chat endpoint
and shows the reply in a scrolling transcript. Only one message is sent at a
time; Enter is ignored until the previous reply arrives.`,
	RunE: runChat,
}

func runChat(cmd *cobra.Command, args []string) error {
	// The TUI owns the terminal, so logs go to a file or nowhere.
	var logOut io.Writer = io.Discard
	if logFileFlag != "" {
		f, err := os.OpenFile(logFileFlag, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		defer f.Close()
		logOut = f
	}
	logx.SetOutput(logOut)

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	w := widget.New(widget.NewClient(endpointFlag, timeoutFlag), nil)

	p := tea.NewProgram(
		tui.New(ctx, w, endpointFlag),
		tea.WithAltScreen(),
	)
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cfg := config.LoadClient()
	rootCmd.Flags().StringVarP(&endpointFlag, "endpoint", "e", cfg.Endpoint, "Relay chat endpoint URL (RELAY_URL)")
	rootCmd.Flags().DurationVarP(&timeoutFlag, "timeout", "t", cfg.Timeout, "Per-request timeout (RELAY_TIMEOUT_SECONDS)")
	rootCmd.Flags().StringVar(&logFileFlag, "log-file", "", "Write client logs to this file")
}
