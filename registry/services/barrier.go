package services

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"barrier_registry/registry/schema"
	"barrier_registry/utils"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"gorm.io/gorm"
)

var (
	barrierCreateMetric    = promauto.NewSummary(prometheus.SummaryOpts{Name: "barrier_create", Help: "Barrier creations"})
	barrierDeleteMetric    = promauto.NewSummary(prometheus.SummaryOpts{Name: "barrier_delete", Help: "Barrier deletions"})
	barrierAddMemberMetric = promauto.NewSummary(prometheus.SummaryOpts{Name: "barrier_add_member", Help: "Barrier member additions"})
	barrierStatusMetric    = promauto.NewSummary(prometheus.SummaryOpts{Name: "barrier_status", Help: "Barrier status lookups"})
)

type BarrierService struct {
	db *gorm.DB
}

func (s *BarrierService) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", s.List)
	r.Post("/", s.Create)
	r.Get("/search", s.Search)
	r.Get("/status/{member_code}", s.MemberStatus)

	r.Route("/{code}", func(r chi.Router) {
		r.Get("/", s.GetByCode)
		r.Delete("/", s.Delete)
		r.Post("/member", s.AddMember)
	})

	return r
}

func (s *BarrierService) List(w http.ResponseWriter, r *http.Request) {
	var barriers []schema.Barrier
	result := s.db.Order("created_at").Find(&barriers)
	if result.Error != nil {
		slog.Error("sql error listing barriers", "error", result.Error)
		utils.WriteError(w, schema.ErrDbAccessFailed.Error(), http.StatusInternalServerError)
		return
	}

	utils.WriteJsonResponse(w, barriers)
}

type createBarrierRequest struct {
	Code         string  `json:"code"`
	Name         string  `json:"name"`
	ApproverCode *string `json:"approver_code"`
}

func (s *BarrierService) Create(w http.ResponseWriter, r *http.Request) {
	timer := prometheus.NewTimer(barrierCreateMetric)
	defer timer.ObserveDuration()

	var params createBarrierRequest
	if !utils.ParseRequestBody(w, r, &params) {
		return
	}

	if params.Code == "" || params.Name == "" {
		utils.WriteError(w, "barrier code and name must be specified", http.StatusBadRequest)
		return
	}

	newBarrier := schema.Barrier{Code: params.Code, Name: params.Name, ApproverCode: params.ApproverCode}

	err := s.db.Transaction(func(txn *gorm.DB) error {
		if err := checkForDuplicateBarrier(txn, params.Code); err != nil {
			return err
		}

		if params.ApproverCode != nil {
			if err := checkEmployeeExists(txn, *params.ApproverCode); err != nil {
				return err
			}
		}

		result := txn.Create(&newBarrier)
		if result.Error != nil {
			slog.Error("sql error creating new barrier", "code", params.Code, "error", result.Error)
			return CodedError(schema.ErrDbAccessFailed, http.StatusInternalServerError)
		}

		return nil
	})

	if err != nil {
		utils.WriteError(w, fmt.Sprintf("error creating barrier: %v", err), GetResponseCode(err))
		return
	}

	slog.Info("created barrier", "code", newBarrier.Code)

	utils.WriteJsonCreated(w, newBarrier)
}

func (s *BarrierService) Search(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	if name == "" {
		utils.WriteError(w, "query parameter 'name' is required", http.StatusBadRequest)
		return
	}

	var barriers []schema.Barrier
	result := s.db.Find(&barriers, "LOWER(name) LIKE ?", "%"+strings.ToLower(name)+"%")
	if result.Error != nil {
		slog.Error("sql error searching barriers", "error", result.Error)
		utils.WriteError(w, schema.ErrDbAccessFailed.Error(), http.StatusInternalServerError)
		return
	}

	if len(barriers) == 0 {
		utils.WriteError(w, "no barriers found matching the search criteria", http.StatusNotFound)
		return
	}

	utils.WriteJsonResponse(w, barriers)
}

type barrierWithMembers struct {
	Barrier schema.Barrier         `json:"barrier"`
	Members []schema.BarrierMember `json:"members"`
}

func (s *BarrierService) GetByCode(w http.ResponseWriter, r *http.Request) {
	code, err := utils.URLParam(r, "code")
	if err != nil {
		utils.WriteError(w, err.Error(), http.StatusBadRequest)
		return
	}

	res := barrierWithMembers{Members: []schema.BarrierMember{}}

	err = s.db.Transaction(func(txn *gorm.DB) error {
		barrier, err := schema.GetBarrier(code, txn)
		if err != nil {
			if errors.Is(err, schema.ErrBarrierNotFound) {
				return CodedError(err, http.StatusNotFound)
			}
			return CodedError(err, http.StatusInternalServerError)
		}
		res.Barrier = barrier

		result := txn.Order("created_at").Find(&res.Members, "barrier_code = ?", code)
		if result.Error != nil {
			slog.Error("sql error listing barrier members", "code", code, "error", result.Error)
			return CodedError(schema.ErrDbAccessFailed, http.StatusInternalServerError)
		}

		return nil
	})

	if err != nil {
		utils.WriteError(w, err.Error(), GetResponseCode(err))
		return
	}

	utils.WriteJsonResponse(w, res)
}

func (s *BarrierService) Delete(w http.ResponseWriter, r *http.Request) {
	timer := prometheus.NewTimer(barrierDeleteMetric)
	defer timer.ObserveDuration()

	code, err := utils.URLParam(r, "code")
	if err != nil {
		utils.WriteError(w, err.Error(), http.StatusBadRequest)
		return
	}

	err = s.db.Transaction(func(txn *gorm.DB) error {
		result := txn.Delete(&schema.BarrierMember{}, "barrier_code = ?", code)
		if result.Error != nil {
			slog.Error("sql error deleting barrier members", "code", code, "error", result.Error)
			return CodedError(schema.ErrDbAccessFailed, http.StatusInternalServerError)
		}
		membersRemoved := result.RowsAffected

		result = txn.Delete(&schema.Barrier{}, "code = ?", code)
		if result.Error != nil {
			slog.Error("sql error deleting barrier", "code", code, "error", result.Error)
			return CodedError(schema.ErrDbAccessFailed, http.StatusInternalServerError)
		}

		slog.Info("deleted barrier", "code", code, "barriers_removed", result.RowsAffected, "members_removed", membersRemoved)
		return nil
	})

	if err != nil {
		utils.WriteError(w, fmt.Sprintf("error deleting barrier: %v", err), GetResponseCode(err))
		return
	}

	utils.WriteSuccess(w)
}

type addBarrierMemberRequest struct {
	MemberCode string  `json:"member_code"`
	OnDate     string  `json:"on_date"`
	OffDate    *string `json:"off_date"`
	Status     string  `json:"status"`
	DealCode   *string `json:"deal_code"`
	Role       *string `json:"role"`
}

func (s *BarrierService) AddMember(w http.ResponseWriter, r *http.Request) {
	timer := prometheus.NewTimer(barrierAddMemberMetric)
	defer timer.ObserveDuration()

	code, err := utils.URLParam(r, "code")
	if err != nil {
		utils.WriteError(w, err.Error(), http.StatusBadRequest)
		return
	}

	var params addBarrierMemberRequest
	if !utils.ParseRequestBody(w, r, &params) {
		return
	}

	if params.MemberCode == "" || params.OnDate == "" || params.Status == "" {
		utils.WriteError(w, "member_code, on_date, and status must be specified", http.StatusBadRequest)
		return
	}

	if err := validateDateRange(params.OnDate, params.OffDate); err != nil {
		utils.WriteError(w, err.Error(), http.StatusBadRequest)
		return
	}

	newMember := schema.BarrierMember{
		Id:          uuid.New(),
		BarrierCode: code,
		MemberCode:  params.MemberCode,
		OnDate:      params.OnDate,
		OffDate:     params.OffDate,
		Status:      params.Status,
		DealCode:    params.DealCode,
		Role:        params.Role,
	}

	err = s.db.Transaction(func(txn *gorm.DB) error {
		if err := checkBarrierExists(txn, code); err != nil {
			return err
		}

		if err := checkEmployeeExists(txn, params.MemberCode); err != nil {
			return err
		}

		if params.DealCode != nil {
			if err := checkDealExists(txn, *params.DealCode); err != nil {
				return err
			}
		}

		result := txn.Create(&newMember)
		if result.Error != nil {
			slog.Error("sql error creating new barrier member", "code", code, "member_code", params.MemberCode, "error", result.Error)
			return CodedError(schema.ErrDbAccessFailed, http.StatusInternalServerError)
		}

		return nil
	})

	if err != nil {
		utils.WriteError(w, fmt.Sprintf("error adding member to barrier: %v", err), GetResponseCode(err))
		return
	}

	slog.Info("added member to barrier", "code", code, "member_code", params.MemberCode)

	utils.WriteJsonCreated(w, newMember)
}

type barrierStatusEntry struct {
	BarrierCode string  `json:"barrier_code"`
	BarrierName string  `json:"barrier_name"`
	OnDate      string  `json:"on_date"`
	OffDate     *string `json:"off_date"`
	Status      string  `json:"status"`
	DealCode    *string `json:"deal_code"`
}

// MemberStatus returns the barrier memberships of an employee. An unknown
// employee code is a 404, a known employee with no memberships is an empty list.
func (s *BarrierService) MemberStatus(w http.ResponseWriter, r *http.Request) {
	timer := prometheus.NewTimer(barrierStatusMetric)
	defer timer.ObserveDuration()

	memberCode, err := utils.URLParam(r, "member_code")
	if err != nil {
		utils.WriteError(w, err.Error(), http.StatusBadRequest)
		return
	}

	entries := []barrierStatusEntry{}

	err = s.db.Transaction(func(txn *gorm.DB) error {
		if err := checkEmployeeExists(txn, memberCode); err != nil {
			return err
		}

		result := txn.Model(&schema.BarrierMember{}).
			Select("barrier_members.barrier_code, barriers.name AS barrier_name, barrier_members.on_date, barrier_members.off_date, barrier_members.status, barrier_members.deal_code").
			Joins("JOIN barriers ON barriers.code = barrier_members.barrier_code").
			Where("barrier_members.member_code = ?", memberCode).
			Order("barrier_members.created_at").
			Scan(&entries)
		if result.Error != nil {
			slog.Error("sql error listing barrier statuses", "member_code", memberCode, "error", result.Error)
			return CodedError(schema.ErrDbAccessFailed, http.StatusInternalServerError)
		}

		return nil
	})

	if err != nil {
		utils.WriteError(w, fmt.Sprintf("error retrieving barrier status: %v", err), GetResponseCode(err))
		return
	}

	utils.WriteJsonResponse(w, entries)
}
