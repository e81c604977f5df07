package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"carlot/internal/config"
	"carlot/internal/db"
	"carlot/internal/model"
	"carlot/internal/repository"
)

// SeedCar is one entry of a seed file.
type SeedCar struct {
	Make  string `json:"make"`
	Model string `json:"model"`
	Year  int    `json:"year"`
}

var defaultCars = []SeedCar{
	{Make: "Honda", Model: "Civic", Year: 2020},
	{Make: "Toyota", Model: "Corolla", Year: 2018},
	{Make: "Ford", Model: "Focus", Year: 2012},
	{Make: "Subaru", Model: "Outback", Year: 2016},
	{Make: "Mazda", Model: "MX-5", Year: 1994},
}

func main() {
	log.Println("Starting seed script...")

	cfg := config.Load()

	gormDB, err := db.NewMySQL(cfg.MySQLDSN, cfg.MaxOpenConns)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Println("Connected to database")

	if err := gormDB.AutoMigrate(&model.Car{}, &model.User{}); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	cars := defaultCars
	if path := os.Getenv("SEED_FILE"); path != "" {
		log.Printf("Reading cars from: %s", path)
		cars, err = loadSeedFile(path)
		if err != nil {
			log.Fatalf("Failed to load seed file: %v", err)
		}
	}

	pool := db.NewPool(gormDB, db.SessionOptions{SQLMode: cfg.SQLMode, TimeZone: cfg.TimeZone})
	repo := repository.NewCarRepository(gormDB)

	var seeded, skipped int
	err = pool.WithSession(context.Background(), func(ctx context.Context) error {
		seeded, skipped, err = seedCars(ctx, repo, cars)
		return err
	})
	if err != nil {
		log.Fatalf("Failed to seed cars: %v", err)
	}

	log.Printf("Seed completed successfully!")
	log.Printf("  - Cars created: %d", seeded)
	if skipped > 0 {
		log.Printf("  - Invalid entries skipped: %d", skipped)
	}
}

func loadSeedFile(path string) ([]SeedCar, error) {
	body, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}
	var cars []SeedCar
	if err := json.Unmarshal(body, &cars); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}
	return cars, nil
}

// seedCars inserts every valid entry. Entries missing make or model, or with a
// non-positive year, are skipped.
func seedCars(ctx context.Context, repo repository.CarRepository, cars []SeedCar) (seeded int, skipped int, err error) {
	for _, item := range cars {
		if item.Make == "" || item.Model == "" || item.Year <= 0 {
			log.Printf("Skipping invalid car entry: %+v", item)
			skipped++
			continue
		}
		car := model.Car{Make: item.Make, Model: item.Model, Year: item.Year}
		if err := repo.Create(ctx, &car); err != nil {
			return seeded, skipped, fmt.Errorf("error creating car %s %s: %w", item.Make, item.Model, err)
		}
		seeded++
	}
	return seeded, skipped, nil
}
