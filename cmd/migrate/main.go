package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	_ "github.com/lib/pq"
	identityapp "github.com/societyhub/backend/internal/application/identity"
	"github.com/societyhub/backend/internal/infrastructure/config"
	"github.com/societyhub/backend/internal/infrastructure/logger"
	"github.com/societyhub/backend/internal/infrastructure/migration"
	"github.com/societyhub/backend/internal/infrastructure/persistence"
	"github.com/societyhub/backend/migrations"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// cli carries what every subcommand shares
type cli struct {
	logLevel string
	dir      string
	cfg      *config.Config
	log      *zap.Logger
}

func newRootCommand() *cobra.Command {
	c := &cli{}
	root := &cobra.Command{
		Use:           "migrate",
		Short:         "Manage the master registry schema, societies and platform operators",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			log, err := logger.New(&logger.Config{
				Level:      c.logLevel,
				Format:     "console",
				Output:     "stdout",
				TimeFormat: "2006-01-02 15:04:05",
			})
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			c.log = log
			if cmd.Name() == "create" {
				return nil
			}
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			c.cfg = cfg
			return nil
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if c.log != nil {
				_ = logger.Sync(c.log)
			}
		},
	}
	root.PersistentFlags().StringVar(&c.logLevel, "log-level", "info", "Log level: debug, info, warn, error")
	root.PersistentFlags().StringVar(&c.dir, "path", "", "Read scripts from this directory instead of the embedded set")

	root.AddCommand(
		c.upCommand(),
		c.downCommand(),
		c.versionCommand(),
		c.forceCommand(),
		c.createCommand(),
		c.societyCommand(),
		c.superCommand(),
	)
	return root
}

// migrator opens the master database and the script source
func (c *cli) migrator() (*migration.Migrator, func(), error) {
	if c.dir != "" {
		m, err := migration.NewFromDir(c.cfg.Database.DSN(), c.dir, c.log)
		if err != nil {
			return nil, nil, err
		}
		return m, func() { _ = m.Close() }, nil
	}

	db, err := sql.Open("postgres", c.cfg.Database.DSN())
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("failed to ping database: %w", err)
	}
	m, err := migration.New(db, migrations.FS, c.log)
	if err != nil {
		_ = db.Close()
		return nil, nil, err
	}
	return m, func() { _ = m.Close() }, nil
}

func (c *cli) upCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			m, closeFn, err := c.migrator()
			if err != nil {
				return err
			}
			defer closeFn()
			return m.Up()
		},
	}
}

func (c *cli) downCommand() *cobra.Command {
	var steps int
	var all bool
	cmd := &cobra.Command{
		Use:   "down",
		Short: "Roll back the last migration, or --steps n, or --all",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			if all {
				steps = 0
			} else if steps <= 0 {
				return fmt.Errorf("--steps must be positive")
			}
			m, closeFn, err := c.migrator()
			if err != nil {
				return err
			}
			defer closeFn()
			return m.Down(steps)
		},
	}
	cmd.Flags().IntVar(&steps, "steps", 1, "Number of migrations to roll back")
	cmd.Flags().BoolVar(&all, "all", false, "Roll back every migration")
	return cmd
}

func (c *cli) versionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show the applied migration version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			m, closeFn, err := c.migrator()
			if err != nil {
				return err
			}
			defer closeFn()

			version, dirty, err := m.Version()
			if err != nil {
				return err
			}
			if version == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no migrations applied")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "version %d (dirty: %t)\n", version, dirty)
			return nil
		},
	}
}

func (c *cli) forceCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "force <version>",
		Short: "Set the version without running scripts, clearing a dirty state",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			version, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid version %q", args[0])
			}
			m, closeFn, err := c.migrator()
			if err != nil {
				return err
			}
			defer closeFn()
			return m.Force(version)
		},
	}
}

func (c *cli) createCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "create <name>",
		Short: "Write the next numbered script pair into --path (default ./migrations)",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			dir := c.dir
			if dir == "" {
				dir = "migrations"
			}
			mf, err := migration.CreateMigration(dir, args[0])
			if err != nil {
				return err
			}
			c.log.Info("Migration created",
				zap.Uint("version", mf.Version),
				zap.String("up_file", mf.UpPath),
				zap.String("down_file", mf.DownPath))
			return nil
		},
	}
}

// master opens the registry through GORM for the provisioning commands
func (c *cli) master() (*persistence.Database, error) {
	gormLog := logger.NewGormLogger(c.log, logger.MapGormLogLevel(c.logLevel), c.cfg.Telemetry.DBSlowQueryThresh)
	return persistence.NewDatabaseWithLogger(&c.cfg.Database, gormLog)
}

func (c *cli) societyCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "society",
		Short: "Manage the society registry",
	}

	var name, code, dsn, address string
	register := &cobra.Command{
		Use:   "register",
		Short: "Register a society and the DSN of its data store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			db, err := c.master()
			if err != nil {
				return err
			}
			defer db.Close()

			svc := identityapp.NewProvisioningService(persistence.NewGormSocietyRegistry(db.DB), nil, c.log)
			s, err := svc.RegisterSociety(cmd.Context(), identityapp.RegisterSocietyInput{
				Name:    name,
				Code:    code,
				DSN:     dsn,
				Address: address,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "registered %s (%s)\n", s.Code, s.ID)
			return nil
		},
	}
	register.Flags().StringVar(&name, "name", "", "Display name")
	register.Flags().StringVar(&code, "code", "", "Login code, unique across societies")
	register.Flags().StringVar(&dsn, "dsn", "", "Connection string of the society data store")
	register.Flags().StringVar(&address, "address", "", "Postal address")
	for _, f := range []string{"name", "code", "dsn"} {
		_ = register.MarkFlagRequired(f)
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List registered societies",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			db, err := c.master()
			if err != nil {
				return err
			}
			defer db.Close()

			societies, err := identityapp.NewProvisioningService(persistence.NewGormSocietyRegistry(db.DB), nil, c.log).
				ListSocieties(cmd.Context())
			if err != nil {
				return err
			}
			for _, s := range societies {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\n", s.ID, s.Code, s.Name)
			}
			return nil
		},
	}

	cmd.AddCommand(register, list)
	return cmd
}

func (c *cli) superCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "super",
		Short: "Manage platform operators",
	}

	var email, password string
	create := &cobra.Command{
		Use:   "create",
		Short: "Create a platform operator account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			db, err := c.master()
			if err != nil {
				return err
			}
			defer db.Close()

			svc := identityapp.NewAuthService(nil, persistence.NewGormSuperUserRepository(db.DB), nil, nil, c.log)
			su, err := svc.CreateSuperUser(cmd.Context(), email, password)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created %s (%s)\n", su.Email, su.ID)
			return nil
		},
	}
	create.Flags().StringVar(&email, "email", "", "Login email")
	create.Flags().StringVar(&password, "password", "", "Password, at least 8 characters")
	_ = create.MarkFlagRequired("email")
	_ = create.MarkFlagRequired("password")

	cmd.AddCommand(create)
	return cmd
}
