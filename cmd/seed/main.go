package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"fitfam/internal/config"
	"fitfam/internal/database"
	"fitfam/internal/repository"
	"fitfam/internal/service"
	"fitfam/internal/sugarwod"
)

func main() {
	// Define subcommands
	movementsCmd := flag.NewFlagSet("movements", flag.ExitOnError)
	benchmarksCmd := flag.NewFlagSet("benchmarks", flag.ExitOnError)

	// Benchmark flags
	categories := benchmarksCmd.String("categories", strings.Join(sugarwod.BenchmarkCategories, ","),
		"Comma separated benchmark categories to import")

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	client := sugarwod.NewClient(cfg.SugarWODBaseURL, cfg.SugarWODAPIKey)
	if !client.Enabled() {
		log.Fatal("SUGARWOD_API_KEY is required")
	}

	// Initialize database
	db, err := database.InitializeWithConfig(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	// Run migrations to ensure schema is up to date
	if err := db.RunMigrations(cfg.MigrationsPath); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	seedService := service.NewSeedService(client, repository.NewMovementRepository(db), repository.NewWorkoutRepository(db))

	switch os.Args[1] {
	case "movements":
		movementsCmd.Parse(os.Args[2:])
		n, err := seedService.SeedMovements(ctx)
		if err != nil {
			log.Fatalf("Movement seed failed: %v", err)
		}
		log.Printf("Movement seed complete: %d movements", n)

	case "benchmarks":
		benchmarksCmd.Parse(os.Args[2:])
		n, err := seedService.SeedBenchmarks(ctx, splitCategories(*categories))
		if err != nil {
			log.Fatalf("Benchmark seed failed after %d workouts: %v", n, err)
		}
		log.Printf("Benchmark seed complete: %d new workouts", n)

	default:
		printUsage()
		os.Exit(1)
	}
}

func splitCategories(raw string) []string {
	var out []string
	for _, c := range strings.Split(raw, ",") {
		if c = strings.TrimSpace(c); c != "" {
			out = append(out, c)
		}
	}
	return out
}

func printUsage() {
	fmt.Println("FitFam Catalogue Seed Tool")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  seed movements [options]     Load the SugarWOD movement catalogue")
	fmt.Println("  seed benchmarks [options]    Import SugarWOD benchmark workouts")
	fmt.Println()
	fmt.Println("Benchmark Options:")
	fmt.Println("  -categories <list>    Categories to import (default: girls,heroes,games)")
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  # Movements first so benchmark workouts get their movement tags")
	fmt.Println("  seed movements")
	fmt.Println("  seed benchmarks -categories heroes")
	fmt.Println()
	fmt.Println("Environment Variables:")
	fmt.Println("  SUGARWOD_API_KEY    SugarWOD API key (required)")
	fmt.Println("  DATABASE_TYPE       Database type: sqlite, postgres, or mysql (default: sqlite)")
	fmt.Println("  DB_PATH             SQLite database path (default: ./fitfam.db)")
	fmt.Println("  DATABASE_URL        PostgreSQL or MySQL connection URL")
}
