package main

import (
	"flag"
	"log"

	"wtf2eat-be/internal/config"
	"wtf2eat-be/internal/model"
	"wtf2eat-be/pkg/database"
)

func main() {
	skipIndexes := flag.Bool("skip-indexes", false, "only create the extension and tables")
	flag.Parse()

	cfg := config.Load()
	db, err := database.Open(cfg.Database.Connection, true, database.PoolConfig{MaxIdleConns: 1, MaxOpenConns: 1})
	if err != nil {
		log.Fatalf("Error: %v (is DB_CONNECTION_STRING set?)", err)
	}
	defer database.Close(db)

	log.Println("Step 1: Extensions and tables...")
	if err := database.Migrate(db, &model.StoreItem{}); err != nil {
		log.Fatalf("Error: migration failed: %v", err)
	}

	if *skipIndexes {
		log.Println("✅ Migration complete (indexes skipped)")
		return
	}

	log.Println("Step 2: Indexes...")
	for _, stmt := range model.StoreItemIndexes {
		if err := db.Exec(stmt).Error; err != nil {
			log.Fatalf("Error: %s: %v", stmt, err)
		}
	}
	log.Println("✅ Migration complete")
}
