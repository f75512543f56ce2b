package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib" // registers "pgx" driver for database/sql
	"github.com/spf13/cobra"
)

// rootOptions holds the flags shared by every subcommand.
type rootOptions struct {
	databaseURL string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:   "dbtool",
		Short: "Trucker Logbook database administration",
		Long: `dbtool applies schema migrations and performs destructive maintenance
on the Trucker Logbook database. The connection string comes from --database-url
or the DATABASE_URL environment variable.`,
		SilenceUsage: true,
	}
	cmd.PersistentFlags().StringVar(&opts.databaseURL, "database-url", "", "Postgres connection string (default $DATABASE_URL)")

	cmd.AddCommand(newMigrateCmd(opts))
	cmd.AddCommand(newResetCmd(opts))
	return cmd
}

// dsn resolves the connection string from the flag, then the environment.
func (o *rootOptions) dsn() (string, error) {
	if o.databaseURL != "" {
		return o.databaseURL, nil
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		return v, nil
	}
	return "", errors.New("no database: set --database-url or DATABASE_URL")
}

// openSQL opens a database/sql handle for goose.
func (o *rootOptions) openSQL(ctx context.Context) (*sql.DB, error) {
	dsn, err := o.dsn()
	if err != nil {
		return nil, err
	}
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	return db, nil
}

// openPool opens a pgx pool for the repo layer.
func (o *rootOptions) openPool(ctx context.Context) (*pgxpool.Pool, error) {
	dsn, err := o.dsn()
	if err != nil {
		return nil, err
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	return pool, nil
}
