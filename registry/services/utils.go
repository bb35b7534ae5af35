package services

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"barrier_registry/registry/schema"

	"gorm.io/gorm"
)

type codedError struct {
	err  error
	code int
}

func (e *codedError) Error() string {
	return e.err.Error()
}

func (e *codedError) Unwrap() error {
	return e.err
}

func CodedError(err error, code int) error {
	return &codedError{err: err, code: code}
}

func GetResponseCode(err error) int {
	var cerr *codedError
	if errors.As(err, &cerr) {
		return cerr.code
	}
	slog.Error("non coded error passed to GetResponseCode", "error", err)
	return http.StatusInternalServerError
}

func checkEmployeeExists(txn *gorm.DB, code string) error {
	if _, err := schema.GetEmployee(code, txn); err != nil {
		if errors.Is(err, schema.ErrEmployeeNotFound) {
			return CodedError(err, http.StatusNotFound)
		}
		return CodedError(err, http.StatusInternalServerError)
	}
	return nil
}

func checkDealExists(txn *gorm.DB, code string) error {
	if _, err := schema.GetDeal(code, txn); err != nil {
		if errors.Is(err, schema.ErrDealNotFound) {
			return CodedError(err, http.StatusNotFound)
		}
		return CodedError(err, http.StatusInternalServerError)
	}
	return nil
}

func checkBarrierExists(txn *gorm.DB, code string) error {
	if _, err := schema.GetBarrier(code, txn); err != nil {
		if errors.Is(err, schema.ErrBarrierNotFound) {
			return CodedError(err, http.StatusNotFound)
		}
		return CodedError(err, http.StatusInternalServerError)
	}
	return nil
}

func checkForDuplicateDeal(txn *gorm.DB, code string) error {
	var duplicate schema.Deal
	result := txn.Limit(1).Find(&duplicate, "code = ?", code)
	if result.Error != nil {
		slog.Error("sql error checking for duplicate deal", "code", code, "error", result.Error)
		return CodedError(schema.ErrDbAccessFailed, http.StatusInternalServerError)
	}
	if result.RowsAffected != 0 {
		return CodedError(fmt.Errorf("deal with code %v already exists", code), http.StatusConflict)
	}
	return nil
}

func checkForDuplicateBarrier(txn *gorm.DB, code string) error {
	var duplicate schema.Barrier
	result := txn.Limit(1).Find(&duplicate, "code = ?", code)
	if result.Error != nil {
		slog.Error("sql error checking for duplicate barrier", "code", code, "error", result.Error)
		return CodedError(schema.ErrDbAccessFailed, http.StatusInternalServerError)
	}
	if result.RowsAffected != 0 {
		return CodedError(fmt.Errorf("barrier with code %v already exists", code), http.StatusConflict)
	}
	return nil
}

const dateLayout = "2006-01-02"

// validateDateRange checks that onDate is a well formed YYYY-MM-DD date, that
// offDate (if present) is too, and that onDate <= offDate.
func validateDateRange(onDate string, offDate *string) error {
	on, err := time.Parse(dateLayout, onDate)
	if err != nil {
		return fmt.Errorf("invalid on_date '%v', expected YYYY-MM-DD", onDate)
	}

	if offDate == nil {
		return nil
	}

	off, err := time.Parse(dateLayout, *offDate)
	if err != nil {
		return fmt.Errorf("invalid off_date '%v', expected YYYY-MM-DD", *offDate)
	}

	if off.Before(on) {
		return fmt.Errorf("on_date %v must not be after off_date %v", onDate, *offDate)
	}

	return nil
}
