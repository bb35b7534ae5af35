package tests

import (
	"testing"

	"barrier_registry/registry/schema"
	"barrier_registry/registry/services"

	"github.com/go-chi/chi/v5"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type testEnv struct {
	registry services.Registry
	api      chi.Router
	db       *gorm.DB
}

func setupTestEnv(t *testing.T) *testEnv {
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	if err != nil {
		t.Fatal(err)
	}

	err = db.AutoMigrate(schema.AllModels()...)
	if err != nil {
		t.Fatal(err)
	}

	registry := services.NewRegistry(db)

	return &testEnv{registry: registry, api: registry.Routes(), db: db}
}

// Employees are provisioned out of band in production, so tests seed them
// directly through the db.
func (e *testEnv) seedEmployees(t *testing.T, employees ...schema.Employee) {
	for _, employee := range employees {
		if err := e.db.Create(&employee).Error; err != nil {
			t.Fatal(err)
		}
	}
}

func (e *testEnv) newClient() client {
	return client{api: e.api}
}
