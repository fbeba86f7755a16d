package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/zonewarden/zonewarden/internal/core/domain"
	"github.com/zonewarden/zonewarden/internal/testutil"
)

func rootedZone() *domain.Zone {
	return &domain.Zone{
		Name:      "example-org",
		Namespace: "default",
		UID:       "zone-example-org",
		Spec: domain.ZoneSpec{
			DomainName: "example.org.",
			TTL:        domain.DefaultTTL,
			Delegations: []domain.Delegation{{
				Namespaces: []string{"default"},
				Zones:      []string{"*.example.org."},
				Records:    []domain.RecordDelegation{{Pattern: "*.example.org."}},
			}},
		},
	}
}

func TestReconcileZoneRooted(t *testing.T) {
	repo := new(testutil.MockRepo)
	zone := rootedZone()

	ttl := uint32(120)
	repo.On("ListRecordsForZone", zone.ZoneRef()).Return([]domain.Record{{
		Name:      "www",
		Namespace: "default",
		UID:       "record-www",
		Spec: domain.RecordSpec{
			DomainName: "www.example.org.",
			Type:       domain.TypeA,
			Class:      domain.ClassIN,
			TTL:        &ttl,
			RData:      "192.168.0.1",
		},
		Status: domain.RecordStatus{FQDN: "www.example.org."},
	}}, nil)
	repo.On("UpdateZoneStatus", zone.UID, mock.Anything).Return(nil)

	if err := NewReconciler(repo, nil).ReconcileZone(context.Background(), zone); err != nil {
		t.Fatalf("ReconcileZone failed: %v", err)
	}

	if zone.Status.FQDN != "example.org." {
		t.Errorf("unexpected fqdn %q", zone.Status.FQDN)
	}
	if len(zone.Status.Entries) != 1 || zone.Status.Entries[0].TTL != 120 {
		t.Errorf("unexpected entries: %+v", zone.Status.Entries)
	}
	if zone.Status.Hash == "" || zone.Status.Serial == 0 {
		t.Errorf("hash/serial not set: %+v", zone.Status)
	}
	repo.AssertExpectations(t)
}

func TestReconcileZoneRejectsConflictingSpec(t *testing.T) {
	repo := new(testutil.MockRepo)
	zone := rootedZone()
	zone.Spec.ZoneRef = &domain.ZoneRef{Name: "other"}

	if err := NewReconciler(repo, nil).ReconcileZone(context.Background(), zone); err == nil {
		t.Error("zone with both fqdn and zoneRef should fail reconciliation")
	}
}

func TestReconcileZoneAnchored(t *testing.T) {
	repo := new(testutil.MockRepo)
	parent := rootedZone()
	parent.Status.FQDN = "example.org."
	// Zone patterns match the declared, partially qualified domainName.
	parent.Spec.Delegations[0].Zones = []string{"sub"}

	child := &domain.Zone{
		Name:      "sub-example-org",
		Namespace: "default",
		UID:       "zone-sub",
		Spec: domain.ZoneSpec{
			DomainName: "sub",
			ZoneRef:    &domain.ZoneRef{Name: "example-org"},
		},
	}

	repo.On("GetZone", "default", "example-org").Return(parent, nil)
	repo.On("ListRecordsForZone", child.ZoneRef()).Return([]domain.Record(nil), nil)
	repo.On("UpdateZoneStatus", child.UID, mock.Anything).Return(nil)

	if err := NewReconciler(repo, nil).ReconcileZone(context.Background(), child); err != nil {
		t.Fatalf("ReconcileZone failed: %v", err)
	}
	if child.Status.FQDN != "sub.example.org." {
		t.Errorf("unexpected fqdn %q", child.Status.FQDN)
	}
	repo.AssertExpectations(t)
}

func TestReconcileZoneAnchoredDenied(t *testing.T) {
	repo := new(testutil.MockRepo)
	parent := rootedZone()
	parent.Status.FQDN = "example.org."

	child := &domain.Zone{
		Name:      "sub-example-org",
		Namespace: "intruder", // not covered by the parent's delegation
		UID:       "zone-sub",
		Spec: domain.ZoneSpec{
			DomainName: "sub",
			ZoneRef:    &domain.ZoneRef{Name: "example-org", Namespace: "default"},
		},
		Status: domain.ZoneStatus{FQDN: "sub.example.org."}, // stale, must be cleared
	}

	repo.On("GetZone", "default", "example-org").Return(parent, nil)
	repo.On("UpdateZoneStatus", child.UID, mock.Anything).Return(nil)

	if err := NewReconciler(repo, nil).ReconcileZone(context.Background(), child); err != nil {
		t.Fatalf("ReconcileZone failed: %v", err)
	}
	if child.Status.FQDN != "" {
		t.Errorf("denied zone should have its fqdn cleared, got %q", child.Status.FQDN)
	}
	repo.AssertExpectations(t)
}

func TestReconcileRecord(t *testing.T) {
	repo := new(testutil.MockRepo)
	parent := rootedZone()
	parent.Status.FQDN = "example.org."
	repo.On("GetZone", "default", "example-org").Return(parent, nil)

	record := &domain.Record{
		Name:      "www",
		Namespace: "default",
		UID:       "record-www",
		Labels:    map[string]string{domain.ParentZoneLabel: "example-org.default"},
		Spec: domain.RecordSpec{
			DomainName: "www",
			Type:       domain.TypeA,
			Class:      domain.ClassIN,
			RData:      "192.168.0.1",
		},
	}

	repo.On("UpdateRecordStatus", record.UID, domain.RecordStatus{FQDN: "www.example.org."}).Return(nil)

	if err := NewReconciler(repo, nil).ReconcileRecord(context.Background(), record); err != nil {
		t.Fatalf("ReconcileRecord failed: %v", err)
	}
	if record.Status.FQDN != "www.example.org." {
		t.Errorf("unexpected fqdn %q", record.Status.FQDN)
	}
	repo.AssertExpectations(t)
}

func TestReconcileRecordDeniedClearsStatus(t *testing.T) {
	repo := new(testutil.MockRepo)
	parent := rootedZone()
	parent.Status.FQDN = "example.org."
	repo.On("GetZone", "default", "example-org").Return(parent, nil)

	record := &domain.Record{
		Name:      "www",
		Namespace: "intruder",
		UID:       "record-www",
		Spec: domain.RecordSpec{
			DomainName: "www",
			ZoneRef:    &domain.ZoneRef{Name: "example-org", Namespace: "default"},
			Type:       domain.TypeA,
			Class:      domain.ClassIN,
			RData:      "192.168.0.1",
		},
		Status: domain.RecordStatus{FQDN: "www.example.org."},
	}

	repo.On("UpdateRecordStatus", record.UID, domain.RecordStatus{}).Return(nil)

	if err := NewReconciler(repo, nil).ReconcileRecord(context.Background(), record); err != nil {
		t.Fatalf("ReconcileRecord failed: %v", err)
	}
	if record.Status.FQDN != "" {
		t.Errorf("denied record should have its fqdn cleared, got %q", record.Status.FQDN)
	}
	repo.AssertExpectations(t)
}

func TestReconcileRecordWithoutParentFails(t *testing.T) {
	repo := new(testutil.MockRepo)
	record := &domain.Record{
		Name:      "orphan",
		Namespace: "default",
		UID:       "record-orphan",
		Spec: domain.RecordSpec{
			DomainName: "www.example.org.",
			Type:       domain.TypeA,
			Class:      domain.ClassIN,
			RData:      "192.168.0.1",
		},
	}

	if err := NewReconciler(repo, nil).ReconcileRecord(context.Background(), record); err == nil {
		t.Error("record without any parent reference should fail reconciliation")
	}
}

func TestNextSerial(t *testing.T) {
	now := time.Date(2026, time.August, 23, 12, 0, 0, 0, time.UTC)

	if got := nextSerial(now, 0); got != 2026082300 {
		t.Errorf("nextSerial(0) = %d, want 2026082300", got)
	}
	if got := nextSerial(now, 2026082300); got != 2026082301 {
		t.Errorf("nextSerial(same day) = %d, want 2026082301", got)
	}
	if got := nextSerial(now, 2020010100); got != 2026082300 {
		t.Errorf("nextSerial(old serial) = %d, want 2026082300", got)
	}
}

func TestHashEntriesStable(t *testing.T) {
	entries := []domain.ZoneEntry{
		{FQDN: "www.example.org.", Type: domain.TypeA, Class: domain.ClassIN, TTL: 360, RData: "192.168.0.1"},
	}

	if hashEntries(entries) != hashEntries(entries) {
		t.Error("hash should be deterministic")
	}
	if hashEntries(entries) == hashEntries(nil) {
		t.Error("hash should depend on entries")
	}

	changed := []domain.ZoneEntry{entries[0]}
	changed[0].RData = "192.168.0.2"
	if hashEntries(entries) == hashEntries(changed) {
		t.Error("hash should change when rdata changes")
	}
}
