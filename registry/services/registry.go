package services

import (
	"log"
	"net/http"
	"os"

	"barrier_registry/utils"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"
)

type Registry struct {
	employee EmployeeService
	deal     DealService
	barrier  BarrierService

	db *gorm.DB
}

func NewRegistry(db *gorm.DB) Registry {
	return Registry{
		employee: EmployeeService{db: db},
		deal:     DealService{db: db},
		barrier:  BarrierService{db: db},
		db:       db,
	}
}

func (m *Registry) Routes() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestLogger(&middleware.DefaultLogFormatter{
		Logger: log.New(os.Stderr, "", log.LstdFlags), NoColor: false,
	}))

	r.Mount("/employee", m.employee.Routes())
	r.Mount("/deal", m.deal.Routes())
	r.Mount("/barrier", m.barrier.Routes())

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		utils.WriteSuccess(w)
	})

	r.Handle("/metrics", promhttp.Handler())

	return r
}
