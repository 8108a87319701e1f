package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/wadjakorntonsri/tinylink/pkg/adapters/kv"
	"github.com/wadjakorntonsri/tinylink/pkg/adapters/repository"
	"github.com/wadjakorntonsri/tinylink/pkg/config"
	"github.com/wadjakorntonsri/tinylink/pkg/core/services"
)

func main() {
	exportCmd := flag.NewFlagSet("export", flag.ExitOnError)
	importCmd := flag.NewFlagSet("import", flag.ExitOnError)
	importFile := importCmd.String("file", "", "snapshot JSON file to import")

	if len(os.Args) < 2 {
		fmt.Println("expected 'export' or 'import' subcommands")
		os.Exit(1)
	}

	cfg := config.Load()
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	store, err := kv.Open(cfg.KVDriver, cfg.DatabaseURL, cfg.RedisAddr)
	if err != nil {
		logger.Error("failed to open key-value store", "error", err)
		os.Exit(1)
	}
	defer store.Close()

	sink := repository.NewEventLog(store, logger)
	repo := repository.NewLinkStore(store, sink, logger)
	svc := services.NewLinkService(repo, sink, cfg.BaseURL)

	switch os.Args[1] {
	case "export":
		_ = exportCmd.Parse(os.Args[2:])
		doExport(svc)
	case "import":
		_ = importCmd.Parse(os.Args[2:])
		if *importFile == "" {
			importCmd.PrintDefaults()
			os.Exit(1)
		}
		doImport(svc, *importFile)
	default:
		fmt.Println("expected 'export' or 'import' subcommands")
		os.Exit(1)
	}
}

// doExport writes the full snapshot document to stdout.
func doExport(svc *services.LinkService) {
	snap := svc.Export(context.Background())

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(snap); err != nil {
		fmt.Fprintf(os.Stderr, "export failed: %v\n", err)
		os.Exit(1)
	}
}

// doImport replaces both collections from a snapshot file.
func doImport(svc *services.LinkService, filename string) {
	file, err := os.Open(filename)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open file: %v\n", err)
		os.Exit(1)
	}
	defer file.Close()

	raw, err := io.ReadAll(file)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to read file: %v\n", err)
		os.Exit(1)
	}

	if err := svc.Import(context.Background(), raw); err != nil {
		fmt.Fprintf(os.Stderr, "import failed: %v\n", err)
		os.Exit(1)
	}

	snap := svc.Export(context.Background())
	fmt.Printf("imported %d links and %d log events\n", len(snap.URLs), len(snap.Logs))
}
