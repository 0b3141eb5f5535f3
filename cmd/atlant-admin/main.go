// Package main is the entry point for the Atlant CMS admin CLI.
// It manages editor accounts directly against the configured database,
// without going through the HTTP API.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/prn-tf/atlant-cms/internal/app"
	"github.com/prn-tf/atlant-cms/internal/config"
	"github.com/prn-tf/atlant-cms/internal/repository"
)

// Version information (set at build time)
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]

	switch command {
	case "version":
		fmt.Printf("Atlant CMS Admin CLI\n")
		fmt.Printf("Version: %s\n", Version)
		fmt.Printf("Build Time: %s\n", BuildTime)
		fmt.Printf("Git Commit: %s\n", GitCommit)

	case "user":
		if err := runUser(os.Args[2:]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

	case "help", "-h", "--help":
		printUsage()

	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func runUser(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("user subcommand required: create, list or delete")
	}

	subcommand := args[0]
	flags := flag.NewFlagSet("user "+subcommand, flag.ExitOnError)
	configPath := flags.String("config", "", "path to config file")
	email := flags.String("email", "", "account email")
	password := flags.String("password", "", "account password")
	name := flags.String("name", "", "display name")
	id := flags.String("id", "", "account id")
	if err := flags.Parse(args[1:]); err != nil {
		return err
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	ctx := context.Background()
	backends, err := app.Bootstrap(ctx, cfg, zerolog.Nop())
	if err != nil {
		return fmt.Errorf("failed to initialize backends: %w", err)
	}
	defer backends.Close()
	users := backends.Services.Users

	switch subcommand {
	case "create":
		if *email == "" || *password == "" || *name == "" {
			return fmt.Errorf("-email, -password and -name are required")
		}
		user, err := users.Register(ctx, *email, *password, *name)
		if err != nil {
			return err
		}
		fmt.Printf("Created user %s (%s)\n", user.Email, user.AggregateID())
		return nil

	case "list":
		result, err := users.List(ctx, repository.ListOptions{SortField: "created_at"})
		if err != nil {
			return err
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tEMAIL\tNAME\tLAST ONLINE")
		for _, user := range result.Items {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
				user.AggregateID(), user.Email, user.Name,
				user.LastOnlineAt.Format("2006-01-02 15:04:05"))
		}
		return w.Flush()

	case "delete":
		userID, err := uuid.Parse(*id)
		if err != nil {
			return fmt.Errorf("-id must be a valid uuid")
		}
		if err := users.Delete(ctx, userID); err != nil {
			return err
		}
		fmt.Printf("Deleted user %s\n", userID)
		return nil

	default:
		return fmt.Errorf("unknown user subcommand: %s", subcommand)
	}
}

func printUsage() {
	fmt.Println(`Atlant CMS Admin CLI

Usage:
  atlant-admin <command> [arguments]

Commands:
  user        Manage editor accounts (create, list, delete)
  version     Print version information
  help        Show this help message

Examples:
  atlant-admin user create -email admin@example.com -password secret123 -name Admin
  atlant-admin user list
  atlant-admin user delete -id <uuid>

Use "atlant-admin user <subcommand> -h" for flag details.`)
}
