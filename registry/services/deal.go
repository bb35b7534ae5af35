package services

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"barrier_registry/registry/schema"
	"barrier_registry/utils"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"gorm.io/gorm"
)

var (
	dealCreateMetric    = promauto.NewSummary(prometheus.SummaryOpts{Name: "deal_create", Help: "Deal creations"})
	dealDeleteMetric    = promauto.NewSummary(prometheus.SummaryOpts{Name: "deal_delete", Help: "Deal deletions"})
	dealAddMemberMetric = promauto.NewSummary(prometheus.SummaryOpts{Name: "deal_add_member", Help: "Deal member additions"})
)

type DealService struct {
	db *gorm.DB
}

func (s *DealService) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", s.List)
	r.Post("/", s.Create)

	r.Route("/{code}", func(r chi.Router) {
		r.Get("/", s.GetByCode)
		r.Delete("/", s.Delete)
		r.Post("/member", s.AddMember)
		r.Get("/member/{member_code}", s.GetMember)
	})

	return r
}

func (s *DealService) List(w http.ResponseWriter, r *http.Request) {
	var deals []schema.Deal
	result := s.db.Order("created_at").Find(&deals)
	if result.Error != nil {
		slog.Error("sql error listing deals", "error", result.Error)
		utils.WriteError(w, schema.ErrDbAccessFailed.Error(), http.StatusInternalServerError)
		return
	}

	utils.WriteJsonResponse(w, deals)
}

type createDealRequest struct {
	Code         string  `json:"code"`
	Name         string  `json:"name"`
	ApproverCode *string `json:"approver_code"`
}

func (s *DealService) Create(w http.ResponseWriter, r *http.Request) {
	timer := prometheus.NewTimer(dealCreateMetric)
	defer timer.ObserveDuration()

	var params createDealRequest
	if !utils.ParseRequestBody(w, r, &params) {
		return
	}

	if params.Code == "" || params.Name == "" {
		utils.WriteError(w, "deal code and name must be specified", http.StatusBadRequest)
		return
	}

	newDeal := schema.Deal{Code: params.Code, Name: params.Name, ApproverCode: params.ApproverCode}

	err := s.db.Transaction(func(txn *gorm.DB) error {
		if err := checkForDuplicateDeal(txn, params.Code); err != nil {
			return err
		}

		if params.ApproverCode != nil {
			if err := checkEmployeeExists(txn, *params.ApproverCode); err != nil {
				return err
			}
		}

		result := txn.Create(&newDeal)
		if result.Error != nil {
			slog.Error("sql error creating new deal", "code", params.Code, "error", result.Error)
			return CodedError(schema.ErrDbAccessFailed, http.StatusInternalServerError)
		}

		return nil
	})

	if err != nil {
		utils.WriteError(w, fmt.Sprintf("error creating deal: %v", err), GetResponseCode(err))
		return
	}

	slog.Info("created deal", "code", newDeal.Code)

	utils.WriteJsonCreated(w, newDeal)
}

type dealWithMembers struct {
	Deal    schema.Deal         `json:"deal"`
	Members []schema.DealMember `json:"members"`
}

func (s *DealService) GetByCode(w http.ResponseWriter, r *http.Request) {
	code, err := utils.URLParam(r, "code")
	if err != nil {
		utils.WriteError(w, err.Error(), http.StatusBadRequest)
		return
	}

	res := dealWithMembers{Members: []schema.DealMember{}}

	err = s.db.Transaction(func(txn *gorm.DB) error {
		deal, err := schema.GetDeal(code, txn)
		if err != nil {
			if errors.Is(err, schema.ErrDealNotFound) {
				return CodedError(err, http.StatusNotFound)
			}
			return CodedError(err, http.StatusInternalServerError)
		}
		res.Deal = deal

		result := txn.Order("created_at").Find(&res.Members, "deal_code = ?", code)
		if result.Error != nil {
			slog.Error("sql error listing deal members", "code", code, "error", result.Error)
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

// Delete is idempotent, removing an absent deal is a no-op. Member rows are
// removed in the same transaction as the parent so no orphans can be observed.
func (s *DealService) Delete(w http.ResponseWriter, r *http.Request) {
	timer := prometheus.NewTimer(dealDeleteMetric)
	defer timer.ObserveDuration()

	code, err := utils.URLParam(r, "code")
	if err != nil {
		utils.WriteError(w, err.Error(), http.StatusBadRequest)
		return
	}

	err = s.db.Transaction(func(txn *gorm.DB) error {
		result := txn.Delete(&schema.DealMember{}, "deal_code = ?", code)
		if result.Error != nil {
			slog.Error("sql error deleting deal members", "code", code, "error", result.Error)
			return CodedError(schema.ErrDbAccessFailed, http.StatusInternalServerError)
		}
		membersRemoved := result.RowsAffected

		result = txn.Delete(&schema.Deal{}, "code = ?", code)
		if result.Error != nil {
			slog.Error("sql error deleting deal", "code", code, "error", result.Error)
			return CodedError(schema.ErrDbAccessFailed, http.StatusInternalServerError)
		}

		slog.Info("deleted deal", "code", code, "deals_removed", result.RowsAffected, "members_removed", membersRemoved)
		return nil
	})

	if err != nil {
		utils.WriteError(w, fmt.Sprintf("error deleting deal: %v", err), GetResponseCode(err))
		return
	}

	utils.WriteSuccess(w)
}

type addDealMemberRequest struct {
	MemberCode string `json:"member_code"`
	Role       string `json:"role"`
}

func (s *DealService) AddMember(w http.ResponseWriter, r *http.Request) {
	timer := prometheus.NewTimer(dealAddMemberMetric)
	defer timer.ObserveDuration()

	code, err := utils.URLParam(r, "code")
	if err != nil {
		utils.WriteError(w, err.Error(), http.StatusBadRequest)
		return
	}

	var params addDealMemberRequest
	if !utils.ParseRequestBody(w, r, &params) {
		return
	}

	if params.MemberCode == "" {
		utils.WriteError(w, "member_code must be specified", http.StatusBadRequest)
		return
	}

	newMember := schema.DealMember{
		Id:         uuid.New(),
		DealCode:   code,
		MemberCode: params.MemberCode,
		Role:       params.Role,
	}

	err = s.db.Transaction(func(txn *gorm.DB) error {
		if err := checkDealExists(txn, code); err != nil {
			return err
		}

		if err := checkEmployeeExists(txn, params.MemberCode); err != nil {
			return err
		}

		result := txn.Create(&newMember)
		if result.Error != nil {
			slog.Error("sql error creating new deal member", "code", code, "member_code", params.MemberCode, "error", result.Error)
			return CodedError(schema.ErrDbAccessFailed, http.StatusInternalServerError)
		}

		return nil
	})

	if err != nil {
		utils.WriteError(w, fmt.Sprintf("error adding member to deal: %v", err), GetResponseCode(err))
		return
	}

	slog.Info("added member to deal", "code", code, "member_code", params.MemberCode)

	utils.WriteJsonCreated(w, newMember)
}

type dealMemberRole struct {
	MemberCode string `json:"member_code"`
	Role       string `json:"role"`
}

func (s *DealService) GetMember(w http.ResponseWriter, r *http.Request) {
	code, err := utils.URLParam(r, "code")
	if err != nil {
		utils.WriteError(w, err.Error(), http.StatusBadRequest)
		return
	}
	memberCode, err := utils.URLParam(r, "member_code")
	if err != nil {
		utils.WriteError(w, err.Error(), http.StatusBadRequest)
		return
	}

	var member schema.DealMember
	result := s.db.First(&member, "deal_code = ? AND member_code = ?", code, memberCode)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			utils.WriteError(w, "member not found in deal", http.StatusNotFound)
			return
		}
		slog.Error("sql error in get deal member", "code", code, "member_code", memberCode, "error", result.Error)
		utils.WriteError(w, schema.ErrDbAccessFailed.Error(), http.StatusInternalServerError)
		return
	}

	utils.WriteJsonResponse(w, dealMemberRole{MemberCode: member.MemberCode, Role: member.Role})
}
