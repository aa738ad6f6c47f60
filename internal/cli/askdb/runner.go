// Package askdb implements the terminal client: one-shot questions, literal
// SQL, an interactive loop, and a canned demo.
package askdb

import (
	"bufio"
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/askdb/askdb/internal/config"
	"github.com/askdb/askdb/internal/migrations"
	"github.com/askdb/askdb/internal/nl2sql"
	"github.com/askdb/askdb/internal/pipeline"
	querysqlite "github.com/askdb/askdb/internal/query/sqlite"
	"github.com/askdb/askdb/internal/render"
	"github.com/askdb/askdb/internal/schema"
	storesqlite "github.com/askdb/askdb/internal/store/sqlite"
)

// Pipeline is the ask surface the runner drives. Injected in tests.
type Pipeline interface {
	Ask(ctx context.Context, question string) (pipeline.Answer, error)
	Run(ctx context.Context, sqlText string) (pipeline.Answer, error)
}

type Options struct {
	Stdin    io.Reader
	Stdout   io.Writer
	Stderr   io.Writer
	Logger   *slog.Logger
	Lookup   config.LookupFunc
	Pipeline Pipeline
}

// quitTokens end the interactive loop. Turkish forms are accepted alongside
// the English ones.
var quitTokens = map[string]struct{}{
	"q":     {},
	"quit":  {},
	"exit":  {},
	"çıkış": {},
	"çık":   {},
}

func Run(ctx context.Context, args []string, defaults Options) int {
	stdin := defaults.Stdin
	if stdin == nil {
		stdin = strings.NewReader("")
	}
	stdout := defaults.Stdout
	if stdout == nil {
		stdout = io.Discard
	}
	stderr := defaults.Stderr
	if stderr == nil {
		stderr = io.Discard
	}

	fs := flag.NewFlagSet("askdb", flag.ContinueOnError)
	fs.SetOutput(stderr)

	dbPath := fs.String("db", "", "SQLite database path (defaults to ASKDB_STORE_PATH)")
	sqlText := fs.String("sql", "", "run literal SQL instead of translating a question")
	interactive := fs.Bool("interactive", false, "read questions from stdin until a quit word")
	demo := fs.Bool("demo", false, "replay the canned question set against the sample data")
	rowLimit := fs.Int("limit", 0, "cap result rows (0 disables the cap)")

	if err := fs.Parse(args); err != nil {
		return 2
	}

	question := strings.TrimSpace(strings.Join(fs.Args(), " "))
	if !*demo && !*interactive && *sqlText == "" && question == "" {
		writeUsage(stderr)
		return 2
	}

	p := defaults.Pipeline
	if p == nil {
		built, cleanup, err := buildPipeline(ctx, defaults, *dbPath, *rowLimit)
		if err != nil {
			_, _ = fmt.Fprintf(stderr, "startup failed: %v\n", err)
			return 1
		}
		defer cleanup()
		p = built
	}

	switch {
	case *demo:
		return runDemo(ctx, p, stdout, stderr)
	case *sqlText != "":
		return runOnce(stdout, stderr, func() (pipeline.Answer, error) {
			return p.Run(ctx, *sqlText)
		})
	case *interactive:
		return runInteractive(ctx, p, stdin, stdout, stderr)
	default:
		return runOnce(stdout, stderr, func() (pipeline.Answer, error) {
			return p.Ask(ctx, question)
		})
	}
}

func runOnce(stdout, stderr io.Writer, exec func() (pipeline.Answer, error)) int {
	answer, err := exec()
	if err != nil {
		_, _ = fmt.Fprintln(stderr, describeError(err))
		return 1
	}
	_, _ = fmt.Fprintf(stdout, "SQL: %s\n", answer.SQL)
	render.Table(stdout, answer.Result)
	return 0
}

func runInteractive(ctx context.Context, p Pipeline, stdin io.Reader, stdout, stderr io.Writer) int {
	_, _ = fmt.Fprintln(stdout, "ask questions about the sales data; type q to leave")
	scanner := bufio.NewScanner(stdin)
	for {
		_, _ = fmt.Fprint(stdout, "> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if _, quit := quitTokens[strings.ToLower(line)]; quit {
			break
		}
		answer, err := p.Ask(ctx, line)
		if err != nil {
			_, _ = fmt.Fprintln(stderr, describeError(err))
			continue
		}
		_, _ = fmt.Fprintf(stdout, "SQL: %s\n", answer.SQL)
		render.Table(stdout, answer.Result)
	}
	if err := scanner.Err(); err != nil {
		_, _ = fmt.Fprintf(stderr, "read input: %v\n", err)
		return 1
	}
	return 0
}

func describeError(err error) string {
	var validationErr *pipeline.ValidationError
	if errors.As(err, &validationErr) {
		return fmt.Sprintf("query rejected: %s\n  %s", validationErr.Reason, validationErr.SQL)
	}
	var executionErr *pipeline.ExecutionError
	if errors.As(err, &executionErr) {
		return fmt.Sprintf("query failed: %v", executionErr.Err)
	}
	if errors.Is(err, pipeline.ErrTranslationFailed) {
		return fmt.Sprintf("could not translate the question: %v", err)
	}
	return err.Error()
}

func buildPipeline(ctx context.Context, defaults Options, dbPath string, rowLimit int) (*pipeline.Pipeline, func(), error) {
	lookup := defaults.Lookup

	var cfg config.Config
	var err error
	if lookup != nil {
		cfg, err = config.Load("askdb", lookup)
	} else {
		cfg, err = config.LoadFromEnv("askdb")
	}
	if err != nil {
		return nil, nil, fmt.Errorf("load configuration: %w", err)
	}
	if dbPath != "" {
		cfg.Store.Path = dbPath
	}
	if rowLimit > 0 {
		cfg.Store.RowLimit = rowLimit
	}

	logger := defaults.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	db, err := bootstrapStore(ctx, cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() { _ = db.Close() }

	descriptor := schema.Default()
	var translator nl2sql.Translator
	if cfg.TranslationEnabled() {
		translator, err = nl2sql.NewOpenAITranslator(nl2sql.OpenAIConfig{
			BaseURL:     cfg.AI.BaseURL,
			APIKey:      cfg.AI.APIKey,
			Model:       cfg.AI.Model,
			Temperature: cfg.AI.Temperature,
			Timeout:     cfg.AI.Timeout,
		})
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("configure translator: %w", err)
		}
	}

	p, err := pipeline.New(pipeline.Config{
		Translator:   translator,
		Engine:       querysqlite.NewEngine(db),
		SystemPrompt: nl2sql.BuildSystemPrompt(descriptor),
		RowLimit:     cfg.Store.RowLimit,
		Logger:       logger,
	})
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	return p, cleanup, nil
}

// bootstrapStore opens the database, creates the tables, and seeds sample
// data when the file did not exist before.
func bootstrapStore(ctx context.Context, cfg config.Config, logger *slog.Logger) (*sql.DB, error) {
	_, statErr := os.Stat(cfg.Store.Path)
	firstRun := os.IsNotExist(statErr)

	db, err := storesqlite.Open(ctx, storesqlite.DBConfig{
		Path:         cfg.Store.Path,
		BusyTimeout:  cfg.Store.BusyTimeout,
		MaxOpenConns: cfg.Store.MaxOpenConns,
	})
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	if err := migrations.Up(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply migrations: %w", err)
	}
	if firstRun || cfg.Store.SeedOnCreate {
		logger.Info("seeding sample data", slog.String("path", cfg.Store.Path))
		if err := storesqlite.Seed(ctx, db, storesqlite.SeedConfig{
			ExtraSales: cfg.Store.SeedExtra,
			Random:     cfg.Store.SeedRandom,
		}); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("seed store: %w", err)
		}
	}
	return db, nil
}

func writeUsage(w io.Writer) {
	_, _ = fmt.Fprintln(w, "usage: askdb [flags] <question>")
	_, _ = fmt.Fprintln(w, "")
	_, _ = fmt.Fprintln(w, "modes:")
	_, _ = fmt.Fprintln(w, "  askdb \"total revenue last month\"   translate and run one question")
	_, _ = fmt.Fprintln(w, "  askdb -sql 'SELECT ...'            run literal SQL through the safety review")
	_, _ = fmt.Fprintln(w, "  askdb -interactive                 question loop on stdin")
	_, _ = fmt.Fprintln(w, "  askdb -demo                        replay the canned question set")
	_, _ = fmt.Fprintln(w, "")
	_, _ = fmt.Fprintln(w, "flags:")
	_, _ = fmt.Fprintln(w, "  -db PATH      SQLite database path")
	_, _ = fmt.Fprintln(w, "  -limit N      cap result rows")
}
