package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/nomis52/mergington/buildinfo"
	"github.com/nomis52/mergington/catalog"
	"github.com/nomis52/mergington/clients/signupclient"
	serverconfig "github.com/nomis52/mergington/server/config"
)

type Args struct {
	Server      string
	ConfigPath  string
	ShowVersion bool
	Validate    bool
	Command     []string
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
		showVersion()
		return nil
	}

	// Handle validation-only request
	if args.Validate {
		return validate(args.ConfigPath)
	}

	if len(args.Command) == 0 {
		flag.Usage()
		return fmt.Errorf("a command is required")
	}

	client := signupclient.New(args.Server)
	ctx := context.Background()

	switch cmd := args.Command[0]; cmd {
	case "list":
		activities, err := client.Activities(ctx)
		if err != nil {
			return err
		}
		printActivities(activities)
		return nil
	case "signup", "unregister":
		if len(args.Command) != 3 {
			return fmt.Errorf("usage: %s <activity> <email>", cmd)
		}
		change := client.Signup
		if cmd == "unregister" {
			change = client.Unregister
		}
		msg, err := change(ctx, args.Command[1], args.Command[2])
		if err != nil {
			return err
		}
		fmt.Println(msg)
		return nil
	default:
		return fmt.Errorf("unknown command %q", cmd)
	}
}

// validate checks a server config and the catalog seed it points at.
func validate(path string) error {
	if path == "" {
		return fmt.Errorf("config flag (-c or --config) is required with --validate")
	}

	cfg, err := serverconfig.LoadConfig(path)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	activities := catalog.DefaultActivities()
	if cfg.CatalogFile != "" {
		if activities, err = catalog.LoadSeed(cfg.CatalogFile); err != nil {
			return err
		}
	}
	if _, err := catalog.New(activities); err != nil {
		return err
	}

	fmt.Printf("Configuration validation successful: %s (%d activities)\n", path, len(activities))
	return nil
}

func printActivities(activities map[string]signupclient.Activity) {
	names := make([]string, 0, len(activities))
	for name := range activities {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		a := activities[name]
		fmt.Printf("%s (%d/%d)\n", name, len(a.Participants), a.MaxParticipants)
		fmt.Printf("  %s\n", a.Schedule)
		if len(a.Participants) > 0 {
			fmt.Printf("  %s\n", strings.Join(a.Participants, ", "))
		}
	}
}

func showVersion() {
	props := buildinfo.Get()
	fmt.Printf("mergington %s\n", props.Version)
	fmt.Printf("Built: %s\n", props.BuildTime)
	fmt.Printf("Commit: %s\n", props.GitCommit)
}

func parseArgs() Args {
	server := flag.String("server", "http://localhost:8080", "Signup server URL")
	configPath := flag.String("config", "", "Path to server config file")
	configPathShort := flag.String("c", "", "Path to server config file (shorthand)")
	showVersion := flag.Bool("version", false, "Show version information")
	versionShort := flag.Bool("v", false, "Show version information (shorthand)")
	validate := flag.Bool("validate", false, "Validate server configuration and catalog seed, then exit")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [options] <command> [args]\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nMergington activity signup client\n\n")
		fmt.Fprintf(os.Stderr, "Commands:\n")
		fmt.Fprintf(os.Stderr, "  list                        List activities and participants\n")
		fmt.Fprintf(os.Stderr, "  signup <activity> <email>   Sign a student up\n")
		fmt.Fprintf(os.Stderr, "  unregister <activity> <email>  Remove a student\n")
		fmt.Fprintf(os.Stderr, "\nOptions:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s list\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -server http://school:8080 signup \"Chess Club\" ada@mergington.edu\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --config server.yaml --validate\n", os.Args[0])
	}

	flag.Parse()

	path := *configPath
	if path == "" && *configPathShort != "" {
		path = *configPathShort
	}

	return Args{
		Server:      *server,
		ConfigPath:  path,
		ShowVersion: *showVersion || *versionShort,
		Validate:    *validate,
		Command:     flag.Args(),
	}
}
