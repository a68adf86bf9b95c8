package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/urfave/cli/v2"

	"url-shortener-web/internal/client"
	"url-shortener-web/internal/config"
	"url-shortener-web/internal/domain"
	"url-shortener-web/internal/service"
	"url-shortener-web/internal/view"
	"url-shortener-web/pkg/logger"
)

// cliDeps are the collaborators shared by every command
type cliDeps struct {
	cfg         *config.Config
	links       client.LinkService
	logger      *logger.Logger
	scheduler   view.Scheduler
	openBrowser func(url string) error
}

// newCLIApp creates the CLI application with all commands.
func newCLIApp(deps cliDeps) *cli.App {
	app := &cli.App{
		Name:    "shortlink",
		Usage:   "Shorten URLs and resolve short links from the terminal",
		Version: Version,
		Commands: []*cli.Command{
			shortenCmd(deps),
			openCmd(deps),
		},
	}
	// Disable default exit error handler to allow proper error return in tests
	app.ExitErrHandler = func(_ *cli.Context, _ error) {}
	return app
}

// newView builds a view whose side effects land in the terminal
func newView(c *cli.Context, deps cliDeps, nav view.Navigator, origin string) *view.View {
	return view.New(origin, view.Deps{
		Resolver:  service.NewResolver(deps.links, deps.logger),
		Submitter: service.NewSubmitter(deps.links, deps.logger),
		Navigator: nav,
		Clipboard: &systemClipboard{w: c.App.ErrWriter},
		Scheduler: deps.scheduler,
		Logger:    deps.logger,
	})
}

// shortenCmd creates the shorten command.
func shortenCmd(deps cliDeps) *cli.Command {
	return &cli.Command{
		Name:      "shorten",
		Usage:     "Shorten a URL and print the short link",
		ArgsUsage: "<url>",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "copy", Aliases: []string{"c"}, Usage: "Copy the short link to the clipboard"},
			&cli.StringFlag{Name: "origin", Usage: "Origin short links are composed with (defaults to PUBLIC_ORIGIN, then API_URL)"},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return fmt.Errorf("expected exactly one URL, got %d arguments", c.NArg())
			}

			v := newView(c, deps, newTerminalNavigator(), shortLinkOrigin(c, deps.cfg))
			defer v.Close()

			v.Navigate(view.RootPath)
			display, err := v.Submit(c.Context, c.Args().First())
			if err != nil {
				if errors.Is(err, domain.ErrEmptyURL) {
					return err
				}
				return errors.New(v.State().Status.Message)
			}

			fmt.Fprintln(c.App.Writer, display)
			fmt.Fprintln(c.App.ErrWriter, v.State().Status.Message)

			if c.Bool("copy") {
				if err := v.CopyToClipboard(); err != nil {
					return errors.New(v.State().Status.Message)
				}
				fmt.Fprintln(c.App.ErrWriter, v.State().Status.Message)
			}

			return nil
		},
	}
}

// openCmd creates the open command.
func openCmd(deps cliDeps) *cli.Command {
	return &cli.Command{
		Name:      "open",
		Usage:     "Resolve a short code and print or open its destination",
		ArgsUsage: "<code|/code>",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "browser", Aliases: []string{"b"}, Usage: "Open the destination in the system browser"},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return fmt.Errorf("expected exactly one short code, got %d arguments", c.NArg())
			}

			path := c.Args().First()
			if !strings.HasPrefix(path, "/") {
				path = "/" + path
			}

			nav := newTerminalNavigator()
			if c.Bool("browser") {
				nav.openBrowser = deps.openBrowser
			}

			v := newView(c, deps, nav, shortLinkOrigin(c, deps.cfg))
			defer v.Close()

			v.Navigate(path)
			if !v.State().Mode.IsResolve() {
				return errors.New("nothing to resolve: give a short code")
			}
			fmt.Fprintln(c.App.ErrWriter, "Redirecting to your destination...")

			select {
			case dest := <-nav.replaced:
				fmt.Fprintln(c.App.Writer, dest)
				if nav.openBrowser != nil {
					if err := nav.openBrowser(dest); err != nil {
						return fmt.Errorf("open browser: %w", err)
					}
				}
				return nil
			case <-nav.returned:
				return errors.New(v.State().Status.Message)
			case <-c.Context.Done():
				return c.Context.Err()
			}
		},
	}
}

// shortLinkOrigin picks the origin printed short links start with
func shortLinkOrigin(c *cli.Context, cfg *config.Config) string {
	if origin := c.String("origin"); origin != "" {
		return strings.TrimSuffix(origin, "/")
	}
	if cfg.PublicOrigin != "" {
		return cfg.PublicOrigin
	}
	return cfg.APIURL
}
