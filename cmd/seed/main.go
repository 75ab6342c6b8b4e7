// Command seed replaces the contents of the levees table with a CSV export.
//
// Usage:
//
//	go run ./cmd/seed -csv data/levees.csv -dry-run
//	go run ./cmd/seed -csv data/levees.csv -confirm
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/couchcryptid/levee-files/internal/adapter/csvfile"
	"github.com/couchcryptid/levee-files/internal/adapter/postgres"
	"github.com/couchcryptid/levee-files/internal/domain"
	"github.com/joho/godotenv"
)

var (
	csvPath = flag.String("csv", "", "Path to the levee CSV (required)")
	dsn     = flag.String("dsn", "", "Postgres DSN (default: env DATABASE_URL)")
	dryRun  = flag.Bool("dry-run", false, "Parse and validate only; no DB writes")
	confirm = flag.Bool("confirm", false, "Required to replace the table contents")
)

func main() {
	_ = godotenv.Load(".env.local")
	flag.Parse()
	if *dsn == "" {
		*dsn = os.Getenv("DATABASE_URL")
	}
	if *csvPath == "" {
		fatalf("--csv is required")
	}

	levees, err := load(*csvPath)
	if err != nil {
		fatalf("CSV error: %v", err)
	}
	fmt.Printf("Loaded %d levees from %s\n", len(levees), *csvPath)

	if *dryRun {
		printPlan(os.Stdout, levees)
		fmt.Println("Dry run complete. No changes made.")
		return
	}
	if !*confirm {
		fatalf("Refusing to run without --confirm. Add --dry-run to preview.")
	}
	if *dsn == "" {
		fatalf("--dsn not provided and DATABASE_URL not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	db, err := postgres.Open(ctx, *dsn)
	if err != nil {
		fatalf("%v", err)
	}
	defer db.Close()

	if err := postgres.Seed(ctx, db, levees); err != nil {
		fatalf("seed: %v", err)
	}
	fmt.Printf("Seed complete: %d levees\n", len(levees))
}

// load parses the CSV and checks every record's name and dates in UTC; the
// zone does not matter for well-formedness.
func load(path string) ([]domain.Levee, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	levees, err := csvfile.ReadAll(f)
	if err != nil {
		return nil, err
	}
	tf := domain.NewTimeFormatter(nil)
	for i, l := range levees {
		if err := l.Validate(); err != nil {
			return nil, fmt.Errorf("record %d: %w", i+1, err)
		}
		if _, err := tf.Span(l); err != nil {
			return nil, fmt.Errorf("record %d: %w", i+1, err)
		}
	}
	return levees, nil
}

func printPlan(w io.Writer, levees []domain.Levee) {
	var active, cancelled, region int
	for _, l := range levees {
		if l.Active {
			active++
		}
		if l.Cancelled {
			cancelled++
		}
		if l.InRegionOfInterest {
			region++
		}
	}
	fmt.Fprintf(w, "Plan: replace levees with %d rows (%d active, %d cancelled, %d in region)\n",
		len(levees), active, cancelled, region)
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "seed: "+format+"\n", args...)
	os.Exit(1)
}
