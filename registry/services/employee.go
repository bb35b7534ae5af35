package services

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"barrier_registry/registry/schema"
	"barrier_registry/utils"

	"github.com/go-chi/chi/v5"
	"gorm.io/gorm"
)

type EmployeeService struct {
	db *gorm.DB
}

func (s *EmployeeService) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", s.List)
	r.Get("/search", s.Search)
	r.Get("/{code}", s.GetByCode)

	return r
}

func (s *EmployeeService) List(w http.ResponseWriter, r *http.Request) {
	var employees []schema.Employee
	result := s.db.Order("created_at").Find(&employees)
	if result.Error != nil {
		slog.Error("sql error listing employees", "error", result.Error)
		utils.WriteError(w, schema.ErrDbAccessFailed.Error(), http.StatusInternalServerError)
		return
	}

	utils.WriteJsonResponse(w, employees)
}

// Search matches by exact email (case insensitive, whitespace trimmed) when the
// email param is given, otherwise by partial case insensitive name match.
func (s *EmployeeService) Search(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")
	name := r.URL.Query().Get("name")

	if email == "" && name == "" {
		utils.WriteError(w, "email or name query parameter is required", http.StatusBadRequest)
		return
	}

	var employees []schema.Employee
	var result *gorm.DB
	if email != "" {
		result = s.db.Find(&employees, "LOWER(email) = LOWER(?)", strings.TrimSpace(email))
	} else {
		result = s.db.Find(&employees, "LOWER(name) LIKE ?", "%"+strings.ToLower(name)+"%")
	}

	if result.Error != nil {
		slog.Error("sql error searching employees", "error", result.Error)
		utils.WriteError(w, schema.ErrDbAccessFailed.Error(), http.StatusInternalServerError)
		return
	}

	if len(employees) == 0 {
		utils.WriteError(w, "no employees found matching the search criteria", http.StatusNotFound)
		return
	}

	utils.WriteJsonResponse(w, employees)
}

func (s *EmployeeService) GetByCode(w http.ResponseWriter, r *http.Request) {
	code, err := utils.URLParam(r, "code")
	if err != nil {
		utils.WriteError(w, err.Error(), http.StatusBadRequest)
		return
	}

	employee, err := schema.GetEmployee(code, s.db)
	if err != nil {
		if errors.Is(err, schema.ErrEmployeeNotFound) {
			utils.WriteError(w, err.Error(), http.StatusNotFound)
			return
		}
		utils.WriteError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	utils.WriteJsonResponse(w, employee)
}
