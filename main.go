package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"emailbuilder/internal/app"
	"emailbuilder/internal/config"
	"emailbuilder/internal/logger"
)

var version = "dev"

const usage = `emailbuilder composes responsive HTML emails and React Email templates.

Usage:
  emailbuilder [mode] [flags]

Modes:
  mcp       serve MCP tools on stdin/stdout (default)
  preview   serve a live preview over HTTP
  export    write <name>.html and <name>.tsx
  watch     re-export a document JSON file whenever it changes
  outline   print the block tree of a document

Flags:
`

func main() {
	mode := "mcp"
	args := os.Args[1:]
	if len(args) > 0 && len(args[0]) > 0 && args[0][0] != '-' {
		mode, args = args[0], args[1:]
	}

	fs := flag.NewFlagSet("emailbuilder", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprint(fs.Output(), usage)
		fs.PrintDefaults()
	}
	docPath := fs.String("doc", "", "document JSON file (export, watch, outline)")
	outDir := fs.String("out", "", "export directory (defaults to EMAILBUILDER_EXPORT_DIR)")
	addr := fs.String("addr", "", "preview listen address (defaults to EMAILBUILDER_PREVIEW_ADDR)")
	withPreview := fs.Bool("preview", false, "also serve the live preview in mcp mode")
	dataDir := fs.String("data", "", "data directory (defaults to EMAILBUILDER_DATA_DIR)")
	showVersion := fs.Bool("version", false, "print the version and exit")
	fs.Parse(args)

	if *showVersion {
		fmt.Println(version)
		return
	}

	var cfg config.App
	if err := config.Load(&cfg); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if *dataDir != "" {
		cfg.DataDir = *dataDir
	}
	if *addr != "" {
		cfg.PreviewAddr = *addr
	}

	// stdout carries the MCP protocol, so logs always go to stderr
	slog.SetDefault(logger.New(
		logger.WithLevel(logger.ParseLevel(cfg.LogLevel)),
		logger.WithFormat(logger.Format(cfg.LogFormat)),
		logger.WithOutput(os.Stderr),
		logger.WithAttr(slog.String("mode", mode)),
	))

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, mode, cfg, *docPath, *outDir, *withPreview); err != nil {
		slog.Error("exit", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, mode string, cfg config.App, docPath, outDir string, withPreview bool) error {
	a, err := app.New(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	switch mode {
	case "mcp":
		if err := a.StartAutosave(ctx, cfg.AutosaveSchedule); err != nil {
			return err
		}
		err := a.ServeMCP(ctx, version, withPreview)
		a.StopAutosave()
		a.Autosave(context.Background())
		return err
	case "preview":
		if docPath != "" {
			if err := a.LoadDocument(ctx, docPath); err != nil {
				return err
			}
		}
		return a.RunPreview(ctx, cfg.PreviewAddr)
	case "export":
		res, err := a.RunExport(ctx, docPath, outDir)
		if err != nil {
			return err
		}
		fmt.Println(res.HTMLPath)
		fmt.Println(res.TemplatePath)
		return nil
	case "watch":
		return a.RunWatch(ctx, docPath, outDir)
	case "outline":
		return a.RunOutline(ctx, docPath, os.Stdout)
	default:
		return fmt.Errorf("unknown mode %q", mode)
	}
}
