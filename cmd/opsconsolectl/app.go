package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"maps"
	"slices"
	"strconv"
	"time"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/kailas-cloud/opsconsole/internal/domain/budget"
	"github.com/kailas-cloud/opsconsole/internal/logger"
	"github.com/kailas-cloud/opsconsole/internal/version"
	opsconsole "github.com/kailas-cloud/opsconsole/pkg/sdk"
)

func newApp() *cli.App {
	return &cli.App{
		Name:    "opsconsolectl",
		Usage:   "Inspect scope decisions, organization selection and budgets of an opsconsole server",
		Version: version.String(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "url",
				Value:   "http://localhost:8080",
				Usage:   "opsconsole base URL",
				EnvVars: []string{"OPSCONSOLE_URL"},
			},
			&cli.StringFlag{
				Name:    "token",
				Usage:   "Session token (Bearer)",
				EnvVars: []string{"OPSCONSOLE_TOKEN"},
			},
			&cli.StringFlag{
				Name:    "jwt-secret",
				Usage:   "Mint a development token with this secret when --token is empty",
				EnvVars: []string{"OPSCONSOLE_JWT_SECRET"},
			},
			&cli.StringFlag{
				Name:    "subject",
				Usage:   "Subject of a minted development token",
				EnvVars: []string{"OPSCONSOLE_SUBJECT"},
			},
			&cli.StringFlag{
				Name:    "issuer",
				Usage:   "Issuer of a minted development token",
				EnvVars: []string{"OPSCONSOLE_ISSUER"},
			},
			&cli.DurationFlag{
				Name:  "timeout",
				Value: 10 * time.Second,
				Usage: "Per-request timeout",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Print raw JSON",
			},
			&cli.StringFlag{
				Name:    "log-level",
				Value:   "warn",
				Usage:   "Log level (debug, info, warn, error)",
				EnvVars: []string{"OPSCONSOLE_LOG_LEVEL"},
			},
		},
		Commands: []*cli.Command{
			resolveCommand(),
			orgCommand(),
			budgetCommand(),
			healthCommand(),
		},
	}
}

func resolveCommand() *cli.Command {
	return &cli.Command{
		Name:      "resolve",
		Usage:     "Show how the console treats a workspace path",
		ArgsUsage: "<path>",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "no-wait", Usage: "Answer loading instead of waiting for the workspace list"},
		},
		Action: func(c *cli.Context) error {
			if c.Args().Len() != 1 {
				return cli.Exit("resolve takes exactly one path", 2)
			}
			client, err := clientFrom(c)
			if err != nil {
				return err
			}
			res, err := client.ResolveScope(c.Context, c.Args().First(), !c.Bool("no-wait"))
			if err != nil {
				return err
			}
			return output(c, res, func(w io.Writer) {
				fmt.Fprintf(w, "%s: %s", res.Rule, res.Outcome)
				if res.Target != "" {
					fmt.Fprintf(w, " -> %s", res.Target)
				}
				if res.Reason != "" {
					fmt.Fprintf(w, " (%s)", res.Reason)
				}
				fmt.Fprintln(w)
			})
		},
	}
}

func orgCommand() *cli.Command {
	printOrg := func(c *cli.Context, orgID *int64) error {
		return output(c, map[string]*int64{"currentOrgId": orgID}, func(w io.Writer) {
			if orgID == nil {
				fmt.Fprintln(w, "no current organization")
				return
			}
			fmt.Fprintf(w, "current organization: %d\n", *orgID)
		})
	}

	return &cli.Command{
		Name:  "org",
		Usage: "Read or change the current organization",
		Subcommands: []*cli.Command{
			{
				Name:  "get",
				Usage: "Print the current organization",
				Action: func(c *cli.Context) error {
					client, err := clientFrom(c)
					if err != nil {
						return err
					}
					orgID, err := client.CurrentOrganization(c.Context)
					if err != nil {
						return err
					}
					return printOrg(c, orgID)
				},
			},
			{
				Name:      "set",
				Usage:     "Switch to an organization you belong to",
				ArgsUsage: "<orgId>",
				Action: func(c *cli.Context) error {
					orgID, err := strconv.ParseInt(c.Args().First(), 10, 64)
					if err != nil || orgID <= 0 {
						return cli.Exit("org set takes a positive organization id", 2)
					}
					client, err := clientFrom(c)
					if err != nil {
						return err
					}
					if err := client.SelectOrganization(c.Context, orgID); err != nil {
						if errors.Is(err, opsconsole.ErrNotFound) {
							return cli.Exit(fmt.Sprintf("organization %d has none of your workspaces", orgID), 1)
						}
						return err
					}
					return printOrg(c, &orgID)
				},
			},
			{
				Name:  "clear",
				Usage: "Forget the current organization",
				Action: func(c *cli.Context) error {
					client, err := clientFrom(c)
					if err != nil {
						return err
					}
					if err := client.ClearOrganization(c.Context); err != nil {
						return err
					}
					return printOrg(c, nil)
				},
			},
		},
	}
}

func budgetCommand() *cli.Command {
	return &cli.Command{
		Name:  "budget",
		Usage: "Budget usage and display helpers",
		Subcommands: []*cli.Command{
			{
				Name:  "usage",
				Usage: "Show the budget view of a scope",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "scope-type", Value: string(opsconsole.ScopeWorkspace), Usage: "WORKSPACE or PROVIDER"},
					&cli.Int64Flag{Name: "scope-id", Required: true, Usage: "Workspace or provider id"},
					&cli.StringFlag{Name: "month", Usage: "YYYY-MM; defaults to the current month"},
				},
				Action: func(c *cli.Context) error {
					client, err := clientFrom(c)
					if err != nil {
						return err
					}
					view, err := client.BudgetUsage(c.Context,
						opsconsole.ScopeType(c.String("scope-type")), c.Int64("scope-id"), c.String("month"))
					if err != nil {
						return err
					}
					return output(c, view, func(w io.Writer) { printView(w, view) })
				},
			},
			{
				Name:      "format",
				Usage:     "Format a dollar amount the way the console does",
				ArgsUsage: "<amount>",
				Action: func(c *cli.Context) error {
					var amount *float64
					if raw := c.Args().First(); raw != "" {
						v, err := strconv.ParseFloat(raw, 64)
						if err != nil {
							return cli.Exit(fmt.Sprintf("not a number: %q", raw), 2)
						}
						amount = &v
					}
					fmt.Fprintln(c.App.Writer, budget.FormatUSDAmount(amount))
					return nil
				},
			},
			{
				Name:      "month",
				Usage:     "Normalise a usage month label",
				ArgsUsage: "<YYYY-MM>",
				Action: func(c *cli.Context) error {
					fmt.Fprintln(c.App.Writer, budget.FormatUsageMonth(c.Args().First()))
					return nil
				},
			},
		},
	}
}

func healthCommand() *cli.Command {
	return &cli.Command{
		Name:  "health",
		Usage: "Show the server health report",
		Action: func(c *cli.Context) error {
			client, err := clientFrom(c)
			if err != nil {
				return err
			}
			h, err := client.Health(c.Context)
			if err != nil {
				return err
			}
			return output(c, h, func(w io.Writer) {
				fmt.Fprintf(w, "status: %s (version %s)\n", h.Status, h.Version)
				for _, name := range slices.Sorted(maps.Keys(h.Checks)) {
					fmt.Fprintf(w, "  %s: %s\n", name, h.Checks[name])
				}
			})
		},
	}
}

func clientFrom(c *cli.Context) (*opsconsole.Client, error) {
	token := c.String("token")
	if token == "" && c.String("jwt-secret") != "" {
		var err error
		token, err = opsconsole.NewSessionToken(c.String("jwt-secret"), c.String("subject"), c.String("issuer"), time.Hour)
		if err != nil {
			return nil, err
		}
	}

	log, err := logger.NewLogger("local", c.String("log-level"))
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}

	return opsconsole.New(c.String("url"),
		opsconsole.WithToken(token),
		opsconsole.WithTimeout(c.Duration("timeout")),
		opsconsole.WithLogger(log.With(zap.String("cli", "opsconsolectl"))),
	)
}

// output prints v as JSON with --json, otherwise through text.
func output(c *cli.Context, v any, text func(io.Writer)) error {
	if c.Bool("json") {
		enc := json.NewEncoder(c.App.Writer)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	text(c.App.Writer)
	return nil
}

func printView(w io.Writer, v opsconsole.BudgetView) {
	fmt.Fprintf(w, "%s %d, %s: %s\n", v.ScopeType, v.ScopeID, v.Month, v.Status)
	fmt.Fprintf(w, "  used:  %s of %s", v.UsedDisplay, v.PrimaryLimitDisplay)
	if v.UsagePercent != nil {
		fmt.Fprintf(w, " (%.1f%%)", *v.UsagePercent)
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  hard:  %s (remaining %s)\n", v.HardLimitDisplay, v.RemainingHardDisplay)
	fmt.Fprintf(w, "  soft:  %s (remaining %s)\n", v.SoftLimitDisplay, v.RemainingSoftDisplay)
	for _, m := range v.Models {
		fmt.Fprintf(w, "  %-24s %s\n", m.Model, m.UsedDisplay)
	}
}
