package cli

import (
	"errors"

	"github.com/SC0R9I0N/qr-class-manager/internal/config"
	"github.com/SC0R9I0N/qr-class-manager/internal/logging"
	"github.com/SC0R9I0N/qr-class-manager/internal/version"

	"github.com/urfave/cli/v2"
)

const configKey = "config"

// NewApp builds the command line application.
func NewApp() *cli.App {
	app := &cli.App{
		Name:    version.App,
		Usage:   "QR code attendance client and reference attendance server",
		Version: version.String(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "Log level (overrides LOG_LEVEL)",
			},
			&cli.StringFlag{
				Name:  "log-format",
				Usage: "Log format: text or json (overrides LOG_FORMAT)",
			},
		},
		Before: loadConfig,
		Commands: []*cli.Command{
			{
				Name:  "server",
				Usage: "Run the attendance server",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "addr",
						Usage: "Listen address (overrides SERVER_ADDR)",
					},
				},
				Action: serverAction,
			},
			{
				Name:  "register",
				Usage: "Create an account with the identity provider",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "email", Aliases: []string{"e"}, Required: true},
					&cli.StringFlag{Name: "password", Aliases: []string{"p"}, EnvVars: []string{"QR_PASSWORD"}},
				},
				Action: registerAction,
			},
			{
				Name:  "confirm",
				Usage: "Confirm an account with the emailed code",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "email", Aliases: []string{"e"}, Required: true},
					&cli.StringFlag{Name: "code", Aliases: []string{"c"}, Required: true},
				},
				Action: confirmAction,
			},
			{
				Name:  "login",
				Usage: "Log in and store the issued tokens",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "username", Aliases: []string{"u"}, Required: true},
					&cli.StringFlag{Name: "password", Aliases: []string{"p"}, EnvVars: []string{"QR_PASSWORD"}},
				},
				Action: loginAction,
			},
			{
				Name:   "logout",
				Usage:  "Discard the stored tokens",
				Action: logoutAction,
			},
			{
				Name:  "token",
				Usage: "Show the stored session",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "raw",
						Usage: "Print a valid identity token, refreshing it if needed",
					},
				},
				Action: tokenAction,
			},
			{
				Name:      "scan",
				Usage:     "Submit scanned QR code text",
				ArgsUsage: "[qr-text]",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "stdin",
						Usage: "Read one scan per line from standard input",
					},
					&cli.StringFlag{
						Name:  "location",
						Usage: "Location sent with the scan (overrides CLIENT_LOCATION)",
					},
				},
				Action: scanAction,
			},
			{
				Name:  "attendance",
				Usage: "List attendance records visible to you",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "session", Usage: "Only records of this session"},
					&cli.StringFlag{Name: "student", Usage: "Only records of this student"},
				},
				Action: attendanceAction,
			},
			{
				Name:   "version",
				Usage:  "Show version information",
				Action: versionAction,
			},
		},
	}

	return app
}

// loadConfig reads the environment once and configures logging.
func loadConfig(c *cli.Context) error {
	cfg := config.Load()
	if c.IsSet("log-level") {
		cfg.LogLevel = c.String("log-level")
	}
	if c.IsSet("log-format") {
		cfg.LogFormat = c.String("log-format")
	}

	logging.Setup(cfg.LogLevel, cfg.LogFormat, c.App.ErrWriter)

	if err := cfg.Validate(); err != nil {
		return cli.Exit(err.Error(), exitConfig)
	}

	if c.App.Metadata == nil {
		c.App.Metadata = map[string]any{}
	}
	c.App.Metadata[configKey] = cfg
	return nil
}

func configFrom(c *cli.Context) (*config.Config, error) {
	cfg, ok := c.App.Metadata[configKey].(*config.Config)
	if !ok {
		return nil, errors.New("configuration not loaded")
	}
	return cfg, nil
}
