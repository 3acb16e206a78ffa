package dbmigrate

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/fdg312/meal-planner/migrations"
	"github.com/pressly/goose/v3"
	"go.uber.org/zap"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// Commands lists the goose commands exposed by cmd/migrate.
var Commands = []string{"up", "status", "down"}

// Run applies a goose command using the migrations embedded in the binary.
func Run(ctx context.Context, command string, dbURL string, logger *zap.Logger) error {
	if dbURL == "" {
		return fmt.Errorf("database URL is empty")
	}
	if !IsCommand(command) {
		return fmt.Errorf("unsupported command %q", command)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	db, err := sql.Open("pgx", dbURL)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("ping database: %w", err)
	}

	goose.SetBaseFS(migrations.FS)
	goose.SetLogger(gooseLogger{logger.Sugar()})
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}

	if err := goose.RunContext(ctx, command, db, "."); err != nil {
		return fmt.Errorf("goose %s failed: %w", command, err)
	}

	return nil
}

// IsCommand reports whether command is one of Commands.
func IsCommand(command string) bool {
	for _, c := range Commands {
		if c == command {
			return true
		}
	}
	return false
}

// gooseLogger routes goose output into zap.
type gooseLogger struct {
	s *zap.SugaredLogger
}

func (l gooseLogger) Printf(format string, v ...interface{}) {
	l.s.Infof(format, v...)
}

func (l gooseLogger) Fatalf(format string, v ...interface{}) {
	l.s.Fatalf(format, v...)
}
