package tests

import (
	"errors"
	"testing"

	"barrier_registry/registry/schema"
)

func TestCreateGetDeleteDeal(t *testing.T) {
	env := setupTestEnv(t)
	env.seedEmployees(t,
		schema.Employee{Code: "E1", Name: "Ada Park", Email: "ada@x.com"},
	)

	c := env.newClient()

	approver := "E1"
	created, err := c.createDeal("D1", "Project Orion", &approver)
	if err != nil {
		t.Fatal(err)
	}
	if created.Code != "D1" || created.Name != "Project Orion" {
		t.Fatal("created deal info wrong")
	}

	res, err := c.getDeal("D1")
	if err != nil {
		t.Fatal(err)
	}
	if res.Deal.Code != "D1" || res.Deal.Name != "Project Orion" || res.Deal.ApproverCode == nil || *res.Deal.ApproverCode != "E1" {
		t.Fatal("deal round trip failed")
	}
	if len(res.Members) != 0 {
		t.Fatal("new deal should have no members")
	}

	deals, err := c.listDeals()
	if err != nil {
		t.Fatal(err)
	}
	if len(deals) != 1 || deals[0].Code != "D1" {
		t.Fatal("expected 1 deal")
	}

	err = c.deleteDeal("D1")
	if err != nil {
		t.Fatal(err)
	}

	_, err = c.getDeal("D1")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found after delete, got %v", err)
	}
}

func TestCreateDealValidation(t *testing.T) {
	env := setupTestEnv(t)
	c := env.newClient()

	_, err := c.createDeal("", "No Code", nil)
	if !errors.Is(err, ErrInvalidRequest) {
		t.Fatalf("expected invalid request for missing code, got %v", err)
	}

	unknown := "E9"
	_, err = c.createDeal("D1", "Bad Approver", &unknown)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found for unknown approver, got %v", err)
	}

	_, err = c.createDeal("D1", "Project Orion", nil)
	if err != nil {
		t.Fatal(err)
	}

	_, err = c.createDeal("D1", "Duplicate", nil)
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("expected conflict for duplicate code, got %v", err)
	}
}

func TestDeleteDealIsIdempotent(t *testing.T) {
	env := setupTestEnv(t)
	c := env.newClient()

	if err := c.deleteDeal("D9"); err != nil {
		t.Fatalf("deleting an absent deal should be a no-op, got %v", err)
	}
}

func TestAddDealMember(t *testing.T) {
	env := setupTestEnv(t)
	env.seedEmployees(t,
		schema.Employee{Code: "E1", Name: "Ada Park", Email: "ada@x.com"},
		schema.Employee{Code: "E2", Name: "Ben Ortiz", Email: "ben@x.com"},
	)

	c := env.newClient()

	if _, err := c.createDeal("D1", "Project Orion", nil); err != nil {
		t.Fatal(err)
	}

	err := c.addDealMember("D9", "E1", "analyst")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found for unknown deal, got %v", err)
	}

	var count int64
	if err := env.db.Model(&schema.DealMember{}).Count(&count).Error; err != nil {
		t.Fatal(err)
	}
	if count != 0 {
		t.Fatal("no member row should be inserted when the deal is unknown")
	}

	err = c.addDealMember("D1", "E9", "analyst")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found for unknown employee, got %v", err)
	}

	if err := c.addDealMember("D1", "E1", "analyst"); err != nil {
		t.Fatal(err)
	}
	if err := c.addDealMember("D1", "E2", "approver"); err != nil {
		t.Fatal(err)
	}

	res, err := c.getDeal("D1")
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Members) != 2 {
		t.Fatalf("expected 2 members, got %d", len(res.Members))
	}
	if res.Members[0].MemberCode != "E1" || res.Members[0].Role != "analyst" {
		t.Fatal("member info wrong")
	}

	member, err := c.getDealMember("D1", "E2")
	if err != nil {
		t.Fatal(err)
	}
	if member.MemberCode != "E2" || member.Role != "approver" {
		t.Fatal("member role lookup wrong")
	}

	_, err = c.getDealMember("D1", "E9")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found for non-member, got %v", err)
	}
}

func TestDeleteDealRemovesMembers(t *testing.T) {
	env := setupTestEnv(t)
	env.seedEmployees(t,
		schema.Employee{Code: "E1", Name: "Ada Park", Email: "ada@x.com"},
	)

	c := env.newClient()

	if _, err := c.createDeal("D1", "Project Orion", nil); err != nil {
		t.Fatal(err)
	}
	if err := c.addDealMember("D1", "E1", "analyst"); err != nil {
		t.Fatal(err)
	}

	if err := c.deleteDeal("D1"); err != nil {
		t.Fatal(err)
	}

	var count int64
	if err := env.db.Model(&schema.DealMember{}).Where("deal_code = ?", "D1").Count(&count).Error; err != nil {
		t.Fatal(err)
	}
	if count != 0 {
		t.Fatal("deleting a deal must remove its member rows")
	}
}
