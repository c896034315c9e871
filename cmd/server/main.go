package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/nomis52/mergington/buildinfo"
	"github.com/nomis52/mergington/server"
)

type Args struct {
	ConfigPath  string
	ListenAddr  string
	ShowVersion bool
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	args := parseArgs()

	if args.ShowVersion {
		props := buildinfo.Get()
		fmt.Printf("mergington-server %s\n", props.Version)
		fmt.Printf("Built: %s\n", props.BuildTime)
		fmt.Printf("Commit: %s\n", props.GitCommit)
		return nil
	}

	if args.ConfigPath == "" {
		return fmt.Errorf("config flag (-c or --config) is required")
	}

	var opts []server.Option
	if args.ListenAddr != "" {
		opts = append(opts, server.WithListenAddr(args.ListenAddr))
	}

	srv, err := server.New(args.ConfigPath, opts...)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	props := buildinfo.Get()
	srv.Logger().Info("mergington server started",
		"version", props.Version,
		"git_commit", props.GitCommit,
		"config_path", args.ConfigPath,
	)

	// Set up signal handling for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigCh
		srv.Logger().Info("received signal, shutting down", "signal", sig)
		cancel()
	}()

	return srv.Run(ctx)
}

func parseArgs() Args {
	configPath := flag.String("config", "", "Path to server config file")
	configPathShort := flag.String("c", "", "Path to server config file (shorthand)")
	listenAddr := flag.String("listen", "", "Listen address, overrides listener.addr from the config")
	showVersion := flag.Bool("version", false, "Show version information")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [options]\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nMergington High School extracurricular activity signup server\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s --config /etc/mergington/server.yaml\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -c server.yaml -listen :9090\n", os.Args[0])
	}

	flag.Parse()

	path := *configPath
	if path == "" && *configPathShort != "" {
		path = *configPathShort
	}

	return Args{
		ConfigPath:  path,
		ListenAddr:  *listenAddr,
		ShowVersion: *showVersion,
	}
}
