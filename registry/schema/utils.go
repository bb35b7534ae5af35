package schema

import (
	"errors"
	"log/slog"

	"gorm.io/gorm"
)

var (
	ErrEmployeeNotFound = errors.New("employee not found")
	ErrDealNotFound     = errors.New("deal not found")
	ErrBarrierNotFound  = errors.New("barrier not found")
	ErrDbAccessFailed   = errors.New("db access failed")
)

func GetEmployee(code string, db *gorm.DB) (Employee, error) {
	var employee Employee

	result := db.First(&employee, "code = ?", code)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return employee, ErrEmployeeNotFound
		}
		slog.Error("sql error in get employee", "code", code, "error", result.Error)
		return employee, ErrDbAccessFailed
	}

	return employee, nil
}

func GetDeal(code string, db *gorm.DB) (Deal, error) {
	var deal Deal

	result := db.First(&deal, "code = ?", code)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return deal, ErrDealNotFound
		}
		slog.Error("sql error in get deal", "code", code, "error", result.Error)
		return deal, ErrDbAccessFailed
	}

	return deal, nil
}

func GetBarrier(code string, db *gorm.DB) (Barrier, error) {
	var barrier Barrier

	result := db.First(&barrier, "code = ?", code)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return barrier, ErrBarrierNotFound
		}
		slog.Error("sql error in get barrier", "code", code, "error", result.Error)
		return barrier, ErrDbAccessFailed
	}

	return barrier, nil
}
