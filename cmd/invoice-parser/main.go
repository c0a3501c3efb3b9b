package main

import (
	_ "embed"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/peterbourgon/ff/v4"
	"github.com/peterbourgon/ff/v4/ffhelp"

	"invoice-parser/internal/extract"
	"invoice-parser/internal/invoice"
)

//go:embed VERSION.txt
var versionFile string

var version = strings.TrimSpace(versionFile)

func main() {
	// Check for version flag before parsing other flags
	for _, arg := range os.Args[1:] {
		if arg == "--version" || arg == "-version" || arg == "-v" {
			fmt.Println(version)
			os.Exit(0)
		}
	}

	fs := ff.NewFlagSet("invoice-parser")
	var (
		port        = fs.IntLong("port", 8080, "HTTP server port")
		dbPath      = fs.StringLong("db", "invoice-parser.db", "Parse journal database file path")
		spoolPath   = fs.StringLong("spool", "", "Upload spool directory (default: system temp dir)")
		maxUploadMB = fs.IntLong("max-upload-mb", 16, "Maximum upload size in MiB")
		authUser    = fs.StringLong("auth-user", "", "Basic auth username (optional)")
		authPass    = fs.StringLong("auth-pass", "", "Basic auth password (optional)")
		showVersion = fs.BoolLong("version", "Show version information")
	)

	if err := ff.Parse(fs, os.Args[1:],
		ff.WithEnvVarPrefix("INVOICE_PARSER"),
	); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", ffhelp.Flags(fs))
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	// Check version flag after parsing
	if *showVersion {
		fmt.Println(version)
		os.Exit(0)
	}

	// Initialize parse journal
	slog.Info("Initializing parse journal...")
	journal, err := invoice.NewBoltJournal(*dbPath)
	if err != nil {
		slog.Error("Failed to initialize parse journal", "error", err)
		os.Exit(1)
	}
	defer journal.Close()

	// Initialize upload spool
	spoolDir := *spoolPath
	if spoolDir == "" {
		spoolDir = filepath.Join(os.TempDir(), "invoice-parser")
	}
	slog.Info("Initializing upload spool...", "dir", spoolDir)
	spool, err := invoice.NewLocalStorage(spoolDir)
	if err != nil {
		slog.Error("Failed to initialize upload spool", "error", err)
		os.Exit(1)
	}

	// Initialize extraction engine and service
	parser := extract.NewParser()
	service := invoice.NewService(parser, journal, spool)

	// Initialize server
	basicAuth := invoice.BasicAuth{
		Username: *authUser,
		Password: *authPass,
	}
	maxUploadBytes := int64(*maxUploadMB) << 20
	server := invoice.NewServer(service, basicAuth, maxUploadBytes, version)

	// Start server in goroutine
	addr := fmt.Sprintf(":%d", *port)
	go func() {
		if err := server.Start(addr); err != nil {
			slog.Error("Server error", "error", err)
			os.Exit(1)
		}
	}()

	slog.Info("Server started", "address", fmt.Sprintf("http://localhost%s", addr), "max_upload_mb", *maxUploadMB)
	if *authUser != "" || *authPass != "" {
		slog.Info("Basic auth enabled", "user", *authUser)
	}

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	slog.Info("Shutting down...")
}
