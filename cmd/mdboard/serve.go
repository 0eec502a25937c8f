package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/steveyegge/mdboard/internal/board"
	"github.com/steveyegge/mdboard/internal/resource"
	"github.com/steveyegge/mdboard/internal/server"
	"github.com/steveyegge/mdboard/internal/watch"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the board server",
	Long: `Start the mdboard HTTP server.

The server binds the first free port in 10600-10700 (or --port when given),
writes port.json into the data directory so clients can discover the running
instance, and serves the board UI and JSON API until interrupted.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command) error {
	dataDir := settings.GetString("dir")
	port := settings.GetInt("port")

	logger, err := buildLogger(settings.GetString("log_file"))
	if err != nil {
		return err
	}

	b, err := board.New(filepath.Join(dataDir, "tasks"))
	if err != nil {
		return fmt.Errorf("failed to open task store: %w", err)
	}
	prompts, err := resource.New(dataDir, "prompts")
	if err != nil {
		return fmt.Errorf("failed to open prompt store: %w", err)
	}
	documents, err := resource.New(dataDir, "documents")
	if err != nil {
		return fmt.Errorf("failed to open document store: %w", err)
	}

	srv := server.New(server.Config{
		Port:    port,
		DataDir: dataDir,
		Logger:  logger,
	}, b, prompts, documents)

	if err := srv.Start(); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}

	watcher, err := watch.New(dataDir)
	if err != nil {
		logger.Printf("File watcher unavailable: %v", err)
	} else if err := watcher.Start(); err != nil {
		logger.Printf("File watcher failed to start: %v", err)
		watcher = nil
	} else {
		go logWatchEvents(watcher, logger)
	}

	printBanner(srv.Port(), dataDir, b)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	<-ctx.Done()

	fmt.Println("\nShutting down...")
	if watcher != nil {
		watcher.Stop()
	}
	if err := srv.Stop(); err != nil {
		return fmt.Errorf("error during shutdown: %w", err)
	}
	return nil
}

// buildLogger returns a stderr logger, or a rotating file logger when a log
// file path was configured.
func buildLogger(logFile string) (*log.Logger, error) {
	if logFile == "" {
		return log.New(os.Stderr, "[mdboard] ", log.LstdFlags), nil
	}
	if err := os.MkdirAll(filepath.Dir(logFile), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	rotator := &lumberjack.Logger{
		Filename:   logFile,
		MaxSize:    10, // megabytes
		MaxBackups: 3,
		MaxAge:     28, // days
	}
	return log.New(rotator, "[mdboard] ", log.LstdFlags), nil
}

func logWatchEvents(w *watch.Watcher, logger *log.Logger) {
	for {
		select {
		case ev, ok := <-w.Events():
			if !ok {
				return
			}
			logger.Printf("%s %s", ev.Op, ev.Rel)
		case err, ok := <-w.Errors():
			if !ok {
				return
			}
			logger.Printf("Watch error: %v", err)
		}
	}
}

var (
	bannerTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("#3b82f6"))
	bannerBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#6b7280")).
			Padding(0, 2)
	bannerDimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#9ca3af"))
)

func printBanner(port int, dataDir string, b *board.Store) {
	lines := fmt.Sprintf("%s\n\n%s\n%s\n%s",
		bannerTitleStyle.Render("mdboard"),
		fmt.Sprintf("http://localhost:%d", port),
		bannerDimStyle.Render(fmt.Sprintf("data: %s", dataDir)),
		bannerDimStyle.Render(fmt.Sprintf("%d columns, %d tasks", len(b.Config().Columns), b.Count())),
	)
	fmt.Println(bannerBoxStyle.Render(lines))
	fmt.Println(bannerDimStyle.Render("Press Ctrl+C to stop..."))
}
