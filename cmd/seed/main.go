// Command main runs the database seeder for Aperture.
package main

import (
	"flag"
	"log"

	"aperture/internal/config"
	"aperture/internal/database"
	"aperture/internal/seed"
)

func main() {
	numUsers := flag.Int("users", 25, "Number of users to create")
	numPhotos := flag.Int("photos", 100, "Number of photos to create")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	flag.Parse()

	log.Println("🌱 Database Seeder")
	log.Println("==================")
	log.Printf("Target: %d users, %d photos, clean=%v\n", *numUsers, *numPhotos, *shouldClean)

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if _, err := database.Connect(cfg); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := seed.Seed(database.DB, seed.Options{
		NumUsers:    *numUsers,
		NumPhotos:   *numPhotos,
		ShouldClean: *shouldClean,
	}); err != nil {
		log.Fatalf("❌ Seeding failed: %v", err)
	}

	log.Println("✨ All done! Your database is now populated with test data.")
	log.Printf("📧 All test users have the password: %s", seed.SeedPassword)
}
