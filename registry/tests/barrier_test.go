package tests

import (
	"errors"
	"testing"

	"barrier_registry/registry/schema"
)

func TestCreateGetDeleteBarrier(t *testing.T) {
	env := setupTestEnv(t)
	c := env.newClient()

	created, err := c.createBarrier("B1", "Perm", nil)
	if err != nil {
		t.Fatal(err)
	}
	if created.Code != "B1" || created.Name != "Perm" || created.ApproverCode != nil {
		t.Fatal("created barrier info wrong")
	}

	res, err := c.getBarrier("B1")
	if err != nil {
		t.Fatal(err)
	}
	if res.Barrier.Code != "B1" || res.Barrier.Name != "Perm" || res.Barrier.ApproverCode != nil {
		t.Fatal("barrier round trip failed")
	}
	if len(res.Members) != 0 {
		t.Fatal("new barrier should have no members")
	}

	_, err = c.createBarrier("B1", "Duplicate", nil)
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("expected conflict for duplicate code, got %v", err)
	}

	if err := c.deleteBarrier("B1"); err != nil {
		t.Fatal(err)
	}

	_, err = c.getBarrier("B1")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found after delete, got %v", err)
	}

	// delete is idempotent
	if err := c.deleteBarrier("B1"); err != nil {
		t.Fatal(err)
	}
}

func TestSearchBarriers(t *testing.T) {
	env := setupTestEnv(t)
	c := env.newClient()

	if _, err := c.createBarrier("B1", "Permanent Barrier", nil); err != nil {
		t.Fatal(err)
	}
	if _, err := c.createBarrier("B2", "Temporary Wall", nil); err != nil {
		t.Fatal(err)
	}

	_, err := c.searchBarriers("")
	if !errors.Is(err, ErrInvalidRequest) {
		t.Fatalf("expected invalid request for missing name param, got %v", err)
	}

	barriers, err := c.searchBarriers("perm")
	if err != nil {
		t.Fatal(err)
	}
	if len(barriers) != 1 || barriers[0].Code != "B1" {
		t.Fatal("expected case insensitive partial match on B1")
	}

	_, err = c.searchBarriers("zzz")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found when nothing matches, got %v", err)
	}
}

func TestAddBarrierMemberValidation(t *testing.T) {
	env := setupTestEnv(t)
	env.seedEmployees(t,
		schema.Employee{Code: "E1", Name: "Ada Park", Email: "ada@x.com"},
	)

	c := env.newClient()

	if _, err := c.createBarrier("B1", "Perm", nil); err != nil {
		t.Fatal(err)
	}

	err := c.addBarrierMember("B1", addBarrierMemberRequest{MemberCode: "E1"})
	if !errors.Is(err, ErrInvalidRequest) {
		t.Fatalf("expected invalid request for missing on_date/status, got %v", err)
	}

	offBeforeOn := "2024-01-01"
	err = c.addBarrierMember("B1", addBarrierMemberRequest{
		MemberCode: "E1", OnDate: "2024-06-01", OffDate: &offBeforeOn, Status: "active",
	})
	if !errors.Is(err, ErrInvalidRequest) {
		t.Fatalf("expected invalid request when on_date is after off_date, got %v", err)
	}

	err = c.addBarrierMember("B1", addBarrierMemberRequest{
		MemberCode: "E1", OnDate: "not-a-date", Status: "active",
	})
	if !errors.Is(err, ErrInvalidRequest) {
		t.Fatalf("expected invalid request for malformed date, got %v", err)
	}

	err = c.addBarrierMember("B9", addBarrierMemberRequest{
		MemberCode: "E1", OnDate: "2024-01-01", Status: "active",
	})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found for unknown barrier, got %v", err)
	}

	err = c.addBarrierMember("B1", addBarrierMemberRequest{
		MemberCode: "E9", OnDate: "2024-01-01", Status: "active",
	})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found for unknown employee, got %v", err)
	}

	unknownDeal := "D9"
	err = c.addBarrierMember("B1", addBarrierMemberRequest{
		MemberCode: "E1", OnDate: "2024-01-01", Status: "active", DealCode: &unknownDeal,
	})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found for unknown deal reference, got %v", err)
	}

	var count int64
	if err := env.db.Model(&schema.BarrierMember{}).Count(&count).Error; err != nil {
		t.Fatal(err)
	}
	if count != 0 {
		t.Fatal("no member rows should be inserted by rejected requests")
	}
}

func TestBarrierMemberStatus(t *testing.T) {
	env := setupTestEnv(t)
	env.seedEmployees(t,
		schema.Employee{Code: "E1", Name: "Ada Park", Email: "ada@x.com"},
		schema.Employee{Code: "E2", Name: "Ben Ortiz", Email: "ben@x.com"},
	)

	c := env.newClient()

	if _, err := c.createBarrier("B1", "Perm", nil); err != nil {
		t.Fatal(err)
	}

	offDate := "2024-06-01"
	err := c.addBarrierMember("B1", addBarrierMemberRequest{
		MemberCode: "E1", OnDate: "2024-01-01", OffDate: &offDate, Status: "active",
	})
	if err != nil {
		t.Fatal(err)
	}

	entries, err := c.barrierStatus("E1")
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 status entry, got %d", len(entries))
	}
	entry := entries[0]
	if entry.BarrierCode != "B1" || entry.BarrierName != "Perm" || entry.OnDate != "2024-01-01" ||
		entry.OffDate == nil || *entry.OffDate != "2024-06-01" || entry.Status != "active" || entry.DealCode != nil {
		t.Fatalf("status entry wrong: %+v", entry)
	}

	// a known employee with no memberships is an empty list, not an error
	entries, err = c.barrierStatus("E2")
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Fatal("expected no status entries for E2")
	}

	_, err = c.barrierStatus("E9")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found for unknown employee, got %v", err)
	}
}

func TestDeleteBarrierRemovesMembers(t *testing.T) {
	env := setupTestEnv(t)
	env.seedEmployees(t,
		schema.Employee{Code: "E1", Name: "Ada Park", Email: "ada@x.com"},
	)

	c := env.newClient()

	if _, err := c.createBarrier("B1", "Perm", nil); err != nil {
		t.Fatal(err)
	}
	err := c.addBarrierMember("B1", addBarrierMemberRequest{
		MemberCode: "E1", OnDate: "2024-01-01", Status: "active",
	})
	if err != nil {
		t.Fatal(err)
	}

	if err := c.deleteBarrier("B1"); err != nil {
		t.Fatal(err)
	}

	entries, err := c.barrierStatus("E1")
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Fatal("barrier memberships must be unreachable after the barrier is deleted")
	}
}
