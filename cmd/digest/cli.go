package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strconv"
	"strings"

	"github.com/urfave/cli/v2"

	"page-digest/core/domain"
	"page-digest/core/settings"
	digests "page-digest/digests-lib"
	"page-digest/infrastructure/dom"
)

// newCLIApp creates the CLI application with all commands.
func newCLIApp(rt *runtime) *cli.App {
	app := &cli.App{
		Name:      "digest",
		Usage:     "Rewrite web articles into shorter digests",
		Version:   Version,
		Writer:    rt.out,
		ErrWriter: rt.errOut,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "storage",
				EnvVars: []string{"STORAGE_TYPE"},
				Value:   "sqlite",
				Usage:   "Where settings, cached digests and usage are kept: memory|sqlite|redis",
			},
		},
		Commands: []*cli.Command{
			runCmd(rt),
			serveCmd(rt),
			usageCmd(rt),
			cacheCmd(rt),
			policyCmd(rt),
			settingsCmd(rt),
		},
		After: func(*cli.Context) error {
			return rt.close()
		},
	}
	// Disable default exit error handler to allow proper error return in tests
	app.ExitErrHandler = func(_ *cli.Context, _ error) {}
	return app
}

// runCmd creates the run command.
func runCmd(rt *runtime) *cli.Command {
	return &cli.Command{
		Name:  "run",
		Usage: "Digest one page",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "url", Aliases: []string{"u"}, Usage: "Page URL; fetched unless --file is given"},
			&cli.StringFlag{Name: "file", Aliases: []string{"f"}, Usage: "Read the page from a local HTML file"},
			&cli.StringFlag{Name: "selection", Aliases: []string{"s"}, Usage: "Digest this selected text instead of the article"},
			&cli.StringFlag{Name: "mode", Aliases: []string{"m"}, Usage: "Digest mode: large|small (defaults to large when auto-run is on)"},
			&cli.BoolFlag{Name: "json", Usage: "Print the result as JSON"},
		},
		Action: func(c *cli.Context) error {
			mode, err := checkRunFlags(c)
			if err != nil {
				return cli.Exit(err.Error(), 2)
			}

			client, err := rt.open(c)
			if err != nil {
				return err
			}

			doc, host, err := loadDocument(c, rt)
			if err != nil {
				return cli.Exit(err.Error(), 1)
			}
			if sel := c.String("selection"); sel != "" {
				doc = doc.WithSelection(sel)
			}

			surface := terminalSurface{out: rt.out, status: rt.errOut}
			if c.Bool("json") {
				surface.out = nil
			}

			session, err := client.OpenWith(c.Context, host, doc, surface)
			if err != nil {
				return cli.Exit(digests.Message(err), 3)
			}

			if mode == "" {
				if !session.AutoRun {
					return cli.Exit("--mode is required (large or small) unless auto-run is enabled", 2)
				}
				mode = digests.ModeLarge
			}

			result, err := session.RequestDigest(c.Context, mode)
			if errors.Is(err, digests.ErrNothingToDigest) {
				return nil
			}
			if err != nil {
				return cli.Exit(digests.Message(err), 1)
			}

			if c.Bool("json") {
				return outputJSON(rt.out, map[string]interface{}{
					"text":      result.Text,
					"mode":      result.Mode,
					"fromCache": result.FromCache,
					"status":    session.Status(),
				})
			}
			return nil
		},
	}
}

// checkRunFlags rejects bad run input before any storage is opened.
// An empty mode means none was given.
func checkRunFlags(c *cli.Context) (domain.DigestMode, error) {
	if c.String("url") == "" && c.String("file") == "" {
		return "", errors.New("one of --url or --file is required")
	}
	if raw := c.String("url"); raw != "" {
		if _, err := url.Parse(raw); err != nil {
			return "", fmt.Errorf("invalid --url: %w", err)
		}
	}

	raw := c.String("mode")
	if raw == "" {
		return "", nil
	}
	mode, ok := domain.ParseMode(raw)
	if !ok {
		return "", fmt.Errorf("invalid --mode %q (want large or small)", raw)
	}
	return mode, nil
}

// loadDocument reads the page named by --file or --url and returns it with its host
func loadDocument(c *cli.Context, rt *runtime) (*dom.Document, string, error) {
	rawURL := c.String("url")
	host := ""
	if rawURL != "" {
		u, err := url.Parse(rawURL)
		if err != nil {
			return nil, "", fmt.Errorf("invalid --url: %w", err)
		}
		host = u.Hostname()
	}

	var (
		doc *dom.Document
		err error
	)
	switch {
	case c.String("file") != "":
		doc, err = rt.loader().LoadFile(c.String("file"), rawURL)
	case rawURL != "":
		doc, err = rt.loader().Load(c.Context, rawURL)
	default:
		err = errors.New("one of --url or --file is required")
	}
	return doc, host, err
}

// usageCmd creates the usage command.
func usageCmd(rt *runtime) *cli.Command {
	return &cli.Command{
		Name:  "usage",
		Usage: "Show token usage and cost",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "reset", Usage: "Zero the counters"},
		},
		Action: func(c *cli.Context) error {
			client, err := rt.open(c)
			if err != nil {
				return err
			}
			if c.Bool("reset") {
				if err := client.ResetUsage(c.Context); err != nil {
					return err
				}
			}
			return outputJSON(rt.out, client.Usage())
		},
	}
}

// cacheCmd creates the cache command.
func cacheCmd(rt *runtime) *cli.Command {
	return &cli.Command{
		Name:  "cache",
		Usage: "Inspect or clear cached digests",
		Subcommands: []*cli.Command{
			{
				Name:  "size",
				Usage: "Print the number of cached digests",
				Action: func(c *cli.Context) error {
					client, err := rt.open(c)
					if err != nil {
						return err
					}
					fmt.Fprintln(rt.out, client.CacheSize())
					return nil
				},
			},
			{
				Name:  "clear",
				Usage: "Drop every cached digest",
				Action: func(c *cli.Context) error {
					client, err := rt.open(c)
					if err != nil {
						return err
					}
					return client.ClearCache(c.Context)
				},
			},
		},
	}
}

// policyCmd creates the policy command.
func policyCmd(rt *runtime) *cli.Command {
	return &cli.Command{
		Name:  "policy",
		Usage: "Check or change where digests are enabled",
		Subcommands: []*cli.Command{
			{
				Name:      "check",
				Usage:     "Report whether digests are enabled on a host",
				ArgsUsage: "<host>",
				Action: func(c *cli.Context) error {
					if c.NArg() != 1 {
						return cli.Exit("policy check takes exactly one host", 2)
					}
					client, err := rt.open(c)
					if err != nil {
						return err
					}
					host := c.Args().First()
					if client.IsDisabled(host) {
						fmt.Fprintf(rt.out, "%s: disabled\n", host)
					} else {
						fmt.Fprintf(rt.out, "%s: enabled\n", host)
					}
					return nil
				},
			},
			{
				Name:  "set",
				Usage: "Replace the domain policy",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "mode", Value: string(domain.PolicyDeny), Usage: "allow|deny"},
					&cli.StringSliceFlag{Name: "allow", Usage: "Allow-list pattern (repeatable)"},
					&cli.StringSliceFlag{Name: "deny", Usage: "Deny-list pattern (repeatable)"},
				},
				Action: func(c *cli.Context) error {
					client, err := rt.open(c)
					if err != nil {
						return err
					}
					next, err := client.UpdateSettings(c.Context, settings.SetPolicy(domain.DomainPolicy{
						Mode:      domain.PolicyMode(c.String("mode")),
						AllowList: c.StringSlice("allow"),
						DenyList:  c.StringSlice("deny"),
					}))
					if err != nil {
						return cli.Exit(err.Error(), 2)
					}
					return outputJSON(rt.out, next.Policy)
				},
			},
		},
	}
}

// settingsCmd creates the settings command.
func settingsCmd(rt *runtime) *cli.Command {
	return &cli.Command{
		Name:  "settings",
		Usage: "Show or change settings",
		Subcommands: []*cli.Command{
			{
				Name:  "show",
				Usage: "Print the current settings",
				Action: func(c *cli.Context) error {
					client, err := rt.open(c)
					if err != nil {
						return err
					}
					return outputJSON(rt.out, settingsView(client.Settings()))
				},
			},
			settingCmd(rt, "set-level", "<conservative|balanced|liberal>", "Set the simplification level", func(arg string) (settings.Update, error) {
				level, ok := domain.ParseLevel(arg)
				if !ok {
					return nil, fmt.Errorf("unknown level %q", arg)
				}
				return settings.SetLevel(level), nil
			}),
			settingCmd(rt, "set-key", "<key>", "Store the backend API key; an empty key removes it", func(arg string) (settings.Update, error) {
				return settings.SetCredential(arg), nil
			}),
			settingCmd(rt, "set-debug", "<true|false>", "Toggle debug logging", func(arg string) (settings.Update, error) {
				on, err := strconv.ParseBool(arg)
				if err != nil {
					return nil, fmt.Errorf("expected true or false, got %q", arg)
				}
				return settings.SetDebug(on), nil
			}),
			settingCmd(rt, "set-auto-run", "<true|false>", "Toggle digesting in large mode when a page opens", func(arg string) (settings.Update, error) {
				on, err := strconv.ParseBool(arg)
				if err != nil {
					return nil, fmt.Errorf("expected true or false, got %q", arg)
				}
				return settings.SetAutoRun(on), nil
			}),
			{
				Name:      "set-prompt",
				Usage:     "Override the prompt for a mode; an empty prompt restores the default",
				ArgsUsage: "<large|small> <prompt>",
				Action: func(c *cli.Context) error {
					if c.NArg() < 1 {
						return cli.Exit("set-prompt needs a mode", 2)
					}
					mode, ok := domain.ParseMode(c.Args().First())
					if !ok {
						return cli.Exit(fmt.Sprintf("unknown mode %q", c.Args().First()), 2)
					}
					prompt := strings.Join(c.Args().Tail(), " ")
					return applySetting(c, rt, settings.SetPrompt(mode, prompt))
				},
			},
			{
				Name:  "reset-prompts",
				Usage: "Restore the default prompts",
				Action: func(c *cli.Context) error {
					return applySetting(c, rt, settings.ResetPrompts())
				},
			},
		},
	}
}

// settingCmd builds a subcommand that takes one argument and applies one update
func settingCmd(rt *runtime, name, argsUsage, usage string, parse func(string) (settings.Update, error)) *cli.Command {
	return &cli.Command{
		Name:      name,
		Usage:     usage,
		ArgsUsage: argsUsage,
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return cli.Exit(name+" takes exactly one argument", 2)
			}
			update, err := parse(c.Args().First())
			if err != nil {
				return cli.Exit(err.Error(), 2)
			}
			return applySetting(c, rt, update)
		},
	}
}

func applySetting(c *cli.Context, rt *runtime, update settings.Update) error {
	client, err := rt.open(c)
	if err != nil {
		return err
	}
	next, err := client.UpdateSettings(c.Context, update)
	if err != nil {
		return cli.Exit(err.Error(), 2)
	}
	return outputJSON(rt.out, settingsView(next))
}

// settingsView is the printable form of a snapshot with the key masked
func settingsView(s domain.Settings) map[string]interface{} {
	prompts := make(map[string]string, 2)
	for _, mode := range domain.Modes() {
		prompts[string(mode)] = s.Prompt(mode)
	}
	return map[string]interface{}{
		"policy":  s.Policy,
		"level":   s.Level,
		"debug":   s.Debug,
		"autoRun": s.AutoRun,
		"prompts": prompts,
		"apiKey":  maskKey(s.Credential),
		"pricing": s.Pricing,
	}
}

func maskKey(key string) string {
	if key == "" {
		return ""
	}
	if len(key) <= 8 {
		return "****"
	}
	return key[:3] + "..." + key[len(key)-4:]
}

// outputJSON writes v as indented JSON.
func outputJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
