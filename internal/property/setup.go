package property

import (
	"log"

	"gorm.io/gorm"
)

// Init prepares the properties table. AutoMigrate only adds what is missing;
// deployments that manage their schema by hand leave autoMigrate off and rely
// on the schema-tolerant store.
func Init(db *gorm.DB, autoMigrate bool) {
	if !autoMigrate {
		log.Println("Property module initialized (schema managed externally)")
		return
	}

	if err := db.AutoMigrate(&Property{}); err != nil {
		log.Fatal("Failed to auto-migrate properties table: ", err)
	}

	if err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_properties_live_created
		ON properties (is_deleted, created_at DESC);
	`).Error; err != nil {
		log.Fatal("Failed to create idx_properties_live_created: ", err)
	}

	log.Println("Property module initialized")
}
