package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/spf13/pflag"

	"github.com/conorfennell/leitbox/internal/config"
	"github.com/conorfennell/leitbox/internal/deck"
	"github.com/conorfennell/leitbox/internal/domain"
	"github.com/conorfennell/leitbox/internal/gitsource"
	"github.com/conorfennell/leitbox/internal/storage"
	"github.com/conorfennell/leitbox/internal/web"
)

func main() {
	flags := pflag.NewFlagSet("leitbox", pflag.ExitOnError)
	config.Flags(flags)
	importFile := flags.String("import", "", "Replace the collection with a CSV/TSV deck file and exit")
	importGit := flags.String("import-git", "", "Replace the collection with decks from a git repository and exit")
	exportFile := flags.String("export", "", "Write a JSON backup of the collection and exit")
	restoreFile := flags.String("restore", "", "Replace the collection with a JSON backup written by --export and exit")
	addCard := flags.String("add", "", `Add one card ("term;definition;tags") and exit`)
	flags.Parse(os.Args[1:])

	cfg := config.MustLoad(flags)

	db, err := storage.Open(cfg.DBPath)
	if err != nil {
		slog.Error("failed to open database", "path", cfg.DBPath, "error", err)
		os.Exit(1)
	}
	defer db.Close()

	today := domain.DateOf(time.Now())

	seed, err := deck.Seed(today)
	if err != nil {
		slog.Error("failed to load seed deck", "error", err)
		os.Exit(1)
	}
	seeded, err := db.EnsureSeeded(seed)
	if err != nil {
		slog.Error("failed to seed database", "error", err)
		os.Exit(1)
	}
	if seeded {
		slog.Info("collection was empty or unreadable, loaded seed deck", "cards", len(seed))
	}

	switch {
	case *importFile != "":
		runImportFile(db, *importFile, today)
	case *importGit != "":
		runImportGit(db, *importGit, cfg.ReposDir, today)
	case *exportFile != "":
		runExport(db, *exportFile)
	case *restoreFile != "":
		runRestore(db, *restoreFile)
	case *addCard != "":
		runAdd(db, *addCard, today)
	default:
		runServe(db, cfg)
	}
}

func runImportFile(db *storage.DB, path string, today domain.Date) {
	cards, err := deck.ParseFile(path, today)
	if err != nil {
		slog.Error("failed to parse deck file", "path", path, "error", err)
		os.Exit(1)
	}
	replaceAll(db, cards)
}

func runImportGit(db *storage.DB, url, reposDir string, today domain.Date) {
	cards, err := gitsource.ImportDeck(url, reposDir, today)
	if err != nil {
		slog.Error("failed to import deck from git", "url", url, "error", err)
		os.Exit(1)
	}
	replaceAll(db, cards)
}

func replaceAll(db *storage.DB, cards []domain.Card) {
	if len(cards) == 0 {
		slog.Error("import found no cards, keeping existing collection")
		os.Exit(1)
	}
	if err := db.ReplaceAll(cards); err != nil {
		slog.Error("failed to replace collection", "error", err)
		os.Exit(1)
	}
	fmt.Printf("Imported %d cards.\n", len(cards))
}

func runExport(db *storage.DB, path string) {
	cards, err := db.LoadAll()
	if err != nil {
		slog.Error("failed to load cards", "error", err)
		os.Exit(1)
	}
	f, err := os.Create(path)
	if err != nil {
		slog.Error("failed to create export file", "path", path, "error", err)
		os.Exit(1)
	}
	defer f.Close()
	if err := deck.Export(f, cards); err != nil {
		slog.Error("failed to export", "error", err)
		os.Exit(1)
	}
	fmt.Printf("Exported %d cards to %s.\n", len(cards), path)
}

func runRestore(db *storage.DB, path string) {
	f, err := os.Open(path)
	if err != nil {
		slog.Error("failed to open backup file", "path", path, "error", err)
		os.Exit(1)
	}
	defer f.Close()

	cards, err := deck.Restore(f)
	if err != nil {
		slog.Error("failed to parse backup file", "path", path, "error", err)
		os.Exit(1)
	}
	replaceAll(db, cards)
}

func runAdd(db *storage.DB, line string, today domain.Date) {
	cards, err := deck.Parse(strings.NewReader(line), "manual", today)
	if err != nil || len(cards) != 1 {
		slog.Error("could not parse card", "input", line)
		os.Exit(1)
	}
	if err := db.InsertCard(cards[0]); err != nil {
		slog.Error("failed to insert card", "error", err)
		os.Exit(1)
	}
	fmt.Printf("Added card %q.\n", cards[0].Term)
}

func runServe(db *storage.DB, cfg *config.Config) {
	server, err := web.NewServer(db, cfg.QueueLimit)
	if err != nil {
		slog.Error("failed to create server", "error", err)
		os.Exit(1)
	}
	slog.Info("serving study UI", "listen", cfg.Listen)
	if err := http.ListenAndServe(cfg.Listen, server); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
