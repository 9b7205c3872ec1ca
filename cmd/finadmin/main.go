// Package main is the finadmin CLI: a terminal console over the Fineract
// administrative API. It owns no business logic; it wires the credential
// store, gateway, and session controller, then maps subcommands onto them.
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"github.com/BenyThomas/mtm-sub002/internal/credstore"
	"github.com/BenyThomas/mtm-sub002/internal/fineract"
	"github.com/BenyThomas/mtm-sub002/internal/gateway"
	gwmetrics "github.com/BenyThomas/mtm-sub002/internal/gateway/metrics"
	"github.com/BenyThomas/mtm-sub002/internal/platform/config"
	"github.com/BenyThomas/mtm-sub002/internal/platform/logger"
	"github.com/BenyThomas/mtm-sub002/internal/session"
	dErrors "github.com/BenyThomas/mtm-sub002/pkg/domain-errors"
)

const usage = `usage: finadmin <command> [flags]

commands:
  login      authenticate against the platform
  logout     clear the stored credential
  whoami     show the current session
  tenant     switch the active tenant
  list       fetch a resource collection
  template   fetch option metadata for one or more resources
`

func main() {
	_ = godotenv.Load()

	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	cfg := config.FromEnv()
	log := logger.New()

	credDir, err := credstore.DefaultDir(cfg.CredentialDir)
	if err != nil {
		log.Error("could not resolve credential directory", "error", err)
		os.Exit(1)
	}
	store := credstore.New(credstore.NewFile(credDir), credstore.NewMemory())

	gw := gateway.New(store,
		gateway.WithBaseURL(cfg.APIBaseURL),
		gateway.WithDefaultTenant(cfg.Tenant),
		gateway.WithTimeout(cfg.RequestTimeout),
		gateway.WithLogger(log),
		gateway.WithMetrics(gwmetrics.New()),
	)

	controller := session.New(store, gw,
		session.WithLogger(log),
		session.WithDefaultTenant(cfg.Tenant),
		session.WithSessionExpiredHandler(func() {
			fmt.Fprintln(os.Stderr, "session expired; please log in again")
		}),
	)
	defer controller.Close()

	resources := fineract.NewClient(gw)

	ctx := context.Background()
	var cmdErr error
	switch os.Args[1] {
	case "login":
		cmdErr = runLogin(ctx, controller, os.Args[2:])
	case "logout":
		controller.Logout()
		fmt.Println("logged out")
	case "whoami":
		printState(controller.State())
	case "tenant":
		cmdErr = runTenant(controller, os.Args[2:])
	case "list":
		cmdErr = runList(ctx, resources, os.Args[2:])
	case "template":
		cmdErr = runTemplate(ctx, resources, os.Args[2:])
	default:
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	if cmdErr != nil {
		fmt.Fprintln(os.Stderr, "error:", dErrors.Message(cmdErr))
		os.Exit(1)
	}
}

func runLogin(ctx context.Context, controller *session.Controller, args []string) error {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	username := fs.String("username", "", "platform username")
	password := fs.String("password", "", "platform password (prompted when omitted)")
	tenant := fs.String("tenant", "", "tenant to log into (defaults to the current one)")
	remember := fs.Bool("remember", false, "persist the credential across runs")
	_ = fs.Parse(args)

	if *password == "" {
		fmt.Fprint(os.Stderr, "password: ")
		line, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInvalidInput, "could not read password")
		}
		*password = strings.TrimRight(line, "\r\n")
	}

	if err := controller.Login(ctx, *username, *password, *remember, *tenant); err != nil {
		return err
	}
	state := controller.State()
	fmt.Printf("logged in as %s (tenant %s)\n", state.User.Username, state.Tenant)
	return nil
}

func runTenant(controller *session.Controller, args []string) error {
	if len(args) != 1 {
		return dErrors.New(dErrors.CodeInvalidInput, "usage: finadmin tenant <name>")
	}
	tenant := controller.SwitchTenant(args[0])
	fmt.Printf("tenant set to %s\n", tenant)
	return nil
}

func runList(ctx context.Context, resources *fineract.Client, args []string) error {
	if len(args) != 1 {
		return dErrors.New(dErrors.CodeInvalidInput,
			"usage: finadmin list <resource> ("+strings.Join(fineract.Resources, ", ")+")")
	}
	raw, err := resources.List(ctx, args[0])
	if err != nil {
		return err
	}
	return printJSON(raw)
}

func runTemplate(ctx context.Context, resources *fineract.Client, args []string) error {
	if len(args) == 0 {
		return dErrors.New(dErrors.CodeInvalidInput, "usage: finadmin template <resource>...")
	}
	templates, err := resources.PreloadTemplates(ctx, args...)
	if err != nil {
		return err
	}
	return printJSON(templates)
}

func printState(state session.State) {
	if !state.Authenticated {
		fmt.Printf("not logged in (tenant %s)\n", state.Tenant)
		return
	}
	fmt.Printf("tenant: %s\n", state.Tenant)
	if state.User != nil {
		fmt.Printf("user: %s\n", state.User.Username)
		if state.User.StaffDisplayName != "" {
			fmt.Printf("staff: %s\n", state.User.StaffDisplayName)
		}
		if state.User.OfficeName != "" {
			fmt.Printf("office: %s\n", state.User.OfficeName)
		}
		if len(state.User.Roles) > 0 {
			fmt.Printf("roles: %s\n", strings.Join(state.User.Roles, ", "))
		}
	}
}

func printJSON(v any) error {
	encoded, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "could not render response")
	}
	fmt.Println(string(encoded))
	return nil
}
