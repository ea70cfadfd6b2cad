package main

import (
	"log"

	"greenhill-schools/app/config"
	"greenhill-schools/app/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Configuration error: ", err)
	}

	db, err := cfg.OpenDB()
	if err != nil {
		log.Fatal("Failed to connect to database: ", err)
	}
	defer db.Close()

	if err := storage.Migrate(db); err != nil {
		log.Fatal("Migration failed: ", err)
	}
	log.Println("Migration completed successfully")
}
