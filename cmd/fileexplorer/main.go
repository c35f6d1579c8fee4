package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/benju66/fileexplorer/internal/config"
	"github.com/benju66/fileexplorer/internal/debug"
	"github.com/benju66/fileexplorer/internal/shell"
	"github.com/benju66/fileexplorer/internal/store"
)

func main() {
	debugFlag := flag.Bool("debug", false, "Enable verbose debug logging")
	pathFlag := flag.String("path", "", "Directory to open (default: last session or home)")
	flag.Parse()

	if *debugFlag {
		debug.EnableAll()
	}

	cfg := config.NewManager()
	cfg.Load(config.DefaultConfigPath())
	if err := cfg.ParseError(); err != nil {
		log.Printf("Config error, using defaults: %v", err)
	}

	startPath := *pathFlag
	if startPath == "" {
		startPath = restorePath(cfg)
	}

	sh, err := shell.New(cfg, startPath, os.Stdout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "fileexplorer: %v\n", err)
		os.Exit(1)
	}
	defer sh.Close()

	if err := sh.Run(os.Stdin); err != nil {
		fmt.Fprintf(os.Stderr, "fileexplorer: %v\n", err)
		os.Exit(1)
	}
}

// restorePath picks the starting directory: the previous session's path
// when enabled and still a directory, otherwise the home directory.
func restorePath(cfg *config.Manager) string {
	if cfg.GetBehavior().RestoreLastPath {
		if db, err := store.Open(cfg.GetData().MetadataDB); err == nil {
			last := db.Setting("last_path")
			db.Close()
			if info, err := os.Stat(last); err == nil && info.IsDir() {
				return last
			}
		}
	}
	if home, err := os.UserHomeDir(); err == nil {
		return home
	}
	return "."
}
