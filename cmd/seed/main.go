// Command seed populates a development database with demo data.
package main

import (
	"context"
	"flag"
	"log"

	"vidtube/internal/config"
	"vidtube/internal/database"
	"vidtube/internal/seed"
)

func main() {
	profiles := flag.Int("profiles", 12, "Number of channel profiles to create")
	comments := flag.Int("comments", 4, "Root comments per video")
	clean := flag.Bool("clean", true, "Clear seeded tables first")
	randSeed := flag.Int64("seed", 0, "Random seed (0 picks one from the clock)")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if cfg.IsProduction() {
		log.Fatal("Refusing to seed a production database")
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	res, err := seed.Run(context.Background(), db, seed.Options{
		Profiles:         *profiles,
		CommentsPerVideo: *comments,
		Clean:            *clean,
		RandSeed:         *randSeed,
	})
	if err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}
	log.Printf("Seeded %d profiles, %d videos, %d reactions, %d subscriptions, %d comments",
		res.Profiles, res.Videos, res.Reactions, res.Subscriptions, res.Comments)
}
