package main

import (
	"fmt"
	"strings"

	"github.com/urfave/cli/v2"

	accountrepo "github.com/gnr-surgicals/inventory/internal/account/repository"
	authservice "github.com/gnr-surgicals/inventory/internal/auth/service"
	"github.com/gnr-surgicals/inventory/internal/common/bootstrap"
	"github.com/gnr-surgicals/inventory/internal/common/clock"
	"github.com/gnr-surgicals/inventory/internal/common/config"
	commoncrypto "github.com/gnr-surgicals/inventory/internal/common/crypto"
	"github.com/gnr-surgicals/inventory/internal/common/db"
	equipmentrepo "github.com/gnr-surgicals/inventory/internal/equipment/repository"
	"github.com/gnr-surgicals/inventory/internal/seed"
)

const serviceName = "inventoryctl"

func newApp() *cli.App {
	return &cli.App{
		Name:  "inventoryctl",
		Usage: "operator commands for the inventory database",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "YAML config file",
				EnvVars: []string{"INVENTORY_CONFIG_FILE"},
			},
		},
		Commands: []*cli.Command{
			migrateCommand(),
			createUserCommand(),
			seedCommand(),
		},
	}
}

func migrateCommand() *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "apply pending schema migrations",
		Action: func(c *cli.Context) error {
			app, err := open(c, false)
			if err != nil {
				return err
			}
			defer app.Close()

			version, err := app.Migrate(c.Context)
			if err != nil {
				return err
			}
			fmt.Fprintf(c.App.Writer, "schema at version %d\n", version)
			return nil
		},
	}
}

func createUserCommand() *cli.Command {
	return &cli.Command{
		Name:  "create-user",
		Usage: "create an account, replacing any account with the same username",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "username", Aliases: []string{"u"}, Value: "gnrr"},
			&cli.StringFlag{Name: "password", Aliases: []string{"p"}, Value: "0000"},
			&cli.StringFlag{Name: "name", Usage: "display name"},
		},
		Action: func(c *cli.Context) error {
			app, err := open(c, true)
			if err != nil {
				return err
			}
			defer app.Close()

			svc := authservice.NewAuthService(authservice.Deps{
				Repo:        accountrepo.NewPgRepository(app.Pool),
				Hasher:      commoncrypto.NewBcryptHasher(0),
				IDGenerator: commoncrypto.NewUUIDGenerator(),
				Clock:       clock.NewRealClock(),
				Log:         app.Log,
			})

			user, replaced, err := svc.Provision(c.Context, authservice.RegisterInput{
				Username: c.String("username"),
				Password: c.String("password"),
				Name:     c.String("name"),
			})
			if err != nil {
				return err
			}

			verb := "created"
			if replaced {
				verb = "replaced"
			}
			fmt.Fprintf(c.App.Writer, "user %s: %s / %s\n", verb, user.Username, c.String("password"))
			return nil
		},
	}
}

func seedCommand() *cli.Command {
	return &cli.Command{
		Name:  "seed",
		Usage: "replace all equipment with the sample catalogue",
		Action: func(c *cli.Context) error {
			app, err := open(c, true)
			if err != nil {
				return err
			}
			defer app.Close()

			seeder := seed.NewSeeder(
				db.NewPgTxManager(app.Pool),
				func(q db.Querier) equipmentrepo.Repository { return equipmentrepo.NewPgRepository(q) },
				commoncrypto.NewUUIDGenerator(),
				clock.NewRealClock(),
			)

			report, err := seeder.Run(c.Context, seed.Samples())
			if err != nil {
				return err
			}

			w := c.App.Writer
			fmt.Fprintf(w, "removed %d existing equipment items\n", report.Removed)
			fmt.Fprintln(w, "\nSeeding Summary:")
			fmt.Fprintf(w, "- Equipment Types: %d\n", report.Types)
			fmt.Fprintf(w, "- Total Units: %d\n", report.Units)
			fmt.Fprintf(w, "- Total Value: $%.2f\n", report.TotalCost)
			fmt.Fprintf(w, "- Categories: %s\n", strings.Join(report.Categories, ", "))
			return nil
		},
	}
}

// open loads configuration and, when withPool is set, migrates and connects
// so the command can run against a fresh database.
func open(c *cli.Context, withPool bool) (*bootstrap.App, error) {
	var opts []config.Option
	if path := c.String("config"); path != "" {
		opts = append(opts, config.WithConfigFile(path))
	}

	app, err := bootstrap.New(serviceName, bootstrap.ToolRequirements, opts...)
	if err != nil {
		return nil, err
	}
	if !withPool {
		return app, nil
	}

	if _, err := app.Migrate(c.Context); err != nil {
		app.Close()
		return nil, err
	}
	if err := app.OpenPool(c.Context); err != nil {
		app.Close()
		return nil, err
	}
	return app, nil
}
