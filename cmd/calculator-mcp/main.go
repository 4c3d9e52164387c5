// Command calculator-mcp serves the calculator over the Model Context
// Protocol on stdin and stdout.
package main

import (
	"flag"
	"log/slog"
	"os"

	"github.com/zephyrtronium/calculator/internal/config"
	"github.com/zephyrtronium/calculator/internal/server"
)

func main() {
	var cfgpath string
	flag.StringVar(&cfgpath, "config", "", "config file (default ./calculator.yaml or ~/.config/calculator/config.yaml)")
	flag.Parse()

	cfg, used, err := config.Load(cfgpath)
	if err != nil {
		slog.Error("loading config", "err", err)
		os.Exit(2)
	}
	// Stdout carries the protocol.
	log := cfg.Logger(os.Stderr)
	if used != "" {
		log.Info("using config file", "path", used)
	}
	log.Info("starting", "name", cfg.Server.Name, "version", cfg.Server.Version, "timeout", cfg.Limits.Timeout)

	if err := server.New(cfg, log).ServeStdio(); err != nil {
		log.Error("server stopped", "err", err)
		os.Exit(1)
	}
}
