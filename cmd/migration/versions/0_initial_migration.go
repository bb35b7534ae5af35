package versions

import (
	"barrier_registry/registry/schema"

	"github.com/go-gormigrate/gormigrate/v2"
	"gorm.io/gorm"
)

func initialSchema() *gormigrate.Migration {
	return &gormigrate.Migration{
		ID: "0_initial_schema",
		Migrate: func(txn *gorm.DB) error {
			return txn.AutoMigrate(schema.AllModels()...)
		},
		Rollback: func(txn *gorm.DB) error {
			return txn.Migrator().DropTable(schema.AllModels()...)
		},
	}
}

func Migrations() []*gormigrate.Migration {
	return []*gormigrate.Migration{
		initialSchema(),
	}
}
