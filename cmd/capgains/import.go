package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/google/subcommands"
	"go.uber.org/zap"

	"github.com/tropicaldog17/capgains/internal/config"
	"github.com/tropicaldog17/capgains/internal/db"
	apperrors "github.com/tropicaldog17/capgains/internal/errors"
	"github.com/tropicaldog17/capgains/internal/importer"
	"github.com/tropicaldog17/capgains/internal/logger"
	"github.com/tropicaldog17/capgains/internal/models"
	"github.com/tropicaldog17/capgains/internal/repositories"
	"github.com/tropicaldog17/capgains/internal/services"
)

// importCmd holds the flags for the 'import' subcommand.
type importCmd struct {
	file        string
	owner       string
	skipInvalid bool
	configPath  string
	sqlitePath  string

	out io.Writer
}

func (*importCmd) Name() string     { return "import" }
func (*importCmd) Synopsis() string { return "load a trade CSV into the database" }
func (*importCmd) Usage() string {
	return `capgains import -f <trades.csv> -owner <id> [-skip-invalid] [-config <path>] [-sqlite <file>]

  Stores every row of the CSV as a transaction of the given owner. One invalid
  row aborts the whole import unless -skip-invalid is set. With -sqlite the rows
  go to a local SQLite file instead of the configured Postgres database.
`
}

func (c *importCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.file, "f", "", "Trade CSV file")
	f.StringVar(&c.owner, "owner", "", "Owner the trades belong to")
	f.BoolVar(&c.skipInvalid, "skip-invalid", false, "Store the valid rows and report the rest")
	f.StringVar(&c.configPath, "config", "capgains.toml", "Path to the TOML config file")
	f.StringVar(&c.sqlitePath, "sqlite", "", "Import into this SQLite file instead of Postgres")
}

func (c *importCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.file == "" || c.owner == "" {
		fmt.Fprintln(os.Stderr, "-f and -owner are required")
		return subcommands.ExitUsageError
	}

	cfg, err := config.Load(c.configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		return subcommands.ExitFailure
	}

	zl, err := logger.New(cfg.Log.Env, cfg.Log.Level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating logger: %v\n", err)
		return subcommands.ExitFailure
	}
	defer zl.Sync()

	f, err := os.Open(c.file)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening %q: %v\n", c.file, err)
		return subcommands.ExitFailure
	}
	defer f.Close()

	rows, err := importer.ParseCSV(f)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading %q: %v\n", c.file, err)
		return subcommands.ExitFailure
	}

	database, err := c.open(cfg)
	if err != nil {
		zl.Error("Failed to connect to database", zap.Error(err))
		return subcommands.ExitFailure
	}
	defer database.Close()

	repo := repositories.NewTransactionRepository(database)
	svc := services.NewTransactionService(repo, nil, zl)

	result, err := svc.ImportTransactions(ctx, c.owner, rows, models.ImportOptions{SkipInvalid: c.skipInvalid})
	if result != nil {
		out := c.out
		if out == nil {
			out = os.Stdout
		}
		if werr := writeImportResult(out, result); werr != nil {
			fmt.Fprintf(os.Stderr, "Error writing result: %v\n", werr)
		}
	}
	if err != nil {
		if apperrors.IsValidation(err) {
			fmt.Fprintf(os.Stderr, "Import aborted: %v\n", err)
		} else {
			zl.Error("Import failed", zap.Error(err))
		}
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

// writeImportResult prints the batch id, the stored ids and any rejected lines.
func writeImportResult(w io.Writer, result *models.ImportResult) error {
	if result == nil {
		return errors.New("nil import result")
	}
	ids := make([]int64, 0, len(result.Created))
	for _, tx := range result.Created {
		ids = append(ids, tx.ID)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(struct {
		BatchID  string            `json:"batch_id"`
		Created  []int64           `json:"created"`
		Rejected []models.RowError `json:"rejected,omitempty"`
	}{result.BatchID, ids, result.Rejected})
}

func (c *importCmd) open(cfg *config.Config) (*db.DB, error) {
	if c.sqlitePath != "" {
		return db.OpenSQLite(c.sqlitePath)
	}
	return db.Connect(&cfg.Database)
}
