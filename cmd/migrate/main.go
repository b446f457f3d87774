package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/joho/godotenv"

	"github.com/finbridge/walletcore/internal/config"
)

// Schema management CLI. Commands: up [n], down [n], force <version>,
// version, drop. The database is resolved from -database-url, then
// DATABASE_URL, then the service configuration.
func main() {
	var (
		migrationsPath = flag.String("path", "./migrations", "migrations directory")
		databaseURL    = flag.String("database-url", "", "connection URL; overrides the configured database")
	)
	flag.Parse()

	m, err := migrate.New("file://"+*migrationsPath, resolveDatabaseURL(*databaseURL))
	if err != nil {
		log.Fatalf("failed to open migrations: %v", err)
	}
	defer m.Close()
	m.Log = &migrationLogger{}

	if err := run(m, flag.Args()); err != nil {
		log.Fatal(err)
	}
}

func resolveDatabaseURL(override string) string {
	if override != "" {
		return override
	}

	_ = godotenv.Load()
	if url := os.Getenv("DATABASE_URL"); url != "" {
		return url
	}

	configPath := os.Getenv("WALLETCORE_CONFIG_PATH")
	if configPath == "" {
		configPath = "."
	}
	cfg, err := config.Load(configPath, "config")
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}
	return cfg.Database.DSN()
}

func run(m *migrate.Migrate, args []string) error {
	command := "up"
	if len(args) > 0 {
		command = args[0]
	}

	switch command {
	case "up":
		steps, err := stepsArg(args)
		if err != nil {
			return err
		}
		if steps > 0 {
			err = m.Steps(steps)
		} else {
			err = m.Up()
		}
		if err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return fmt.Errorf("migration up failed: %w", err)
		}
		fmt.Println("migrations applied")
		return nil

	case "down":
		steps, err := stepsArg(args)
		if err != nil {
			return err
		}
		if steps > 0 {
			err = m.Steps(-steps)
		} else {
			err = m.Down()
		}
		if err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return fmt.Errorf("migration down failed: %w", err)
		}
		fmt.Println("migrations rolled back")
		return nil

	case "force":
		if len(args) < 2 {
			return errors.New("force requires a version argument")
		}
		version, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid version %q: %w", args[1], err)
		}
		if err := m.Force(version); err != nil {
			return fmt.Errorf("force failed: %w", err)
		}
		fmt.Printf("forced version to %d\n", version)
		return nil

	case "version":
		version, dirty, err := m.Version()
		if errors.Is(err, migrate.ErrNilVersion) {
			fmt.Println("no migrations applied yet")
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read version: %w", err)
		}
		fmt.Printf("version %d (dirty: %v)\n", version, dirty)
		return nil

	case "drop":
		if err := m.Drop(); err != nil {
			return fmt.Errorf("drop failed: %w", err)
		}
		fmt.Println("schema dropped")
		return nil

	default:
		return fmt.Errorf("unknown command %q (up, down, force, version, drop)", command)
	}
}

func stepsArg(args []string) (int, error) {
	if len(args) < 2 {
		return 0, nil
	}
	steps, err := strconv.Atoi(args[1])
	if err != nil {
		return 0, fmt.Errorf("invalid step count %q: %w", args[1], err)
	}
	return steps, nil
}

type migrationLogger struct{}

func (l *migrationLogger) Printf(format string, v ...interface{}) {
	log.Printf(format, v...)
}

func (l *migrationLogger) Verbose() bool {
	return true
}
