package manifest

import (
	"strings"
	"testing"

	"github.com/zonewarden/zonewarden/internal/core/domain"
)

const zoneManifest = `
name: example-org
namespace: default
spec:
  domainName: example.org.
  delegations:
    - namespaces: [default]
      zones: ["*.example.org."]
      records:
        - pattern: "*.@"
          types: [A, aaaa]
`

const recordManifest = `
name: www
namespace: default
labels:
  zonewarden.io/parent-zone: example-org.default
spec:
  domainName: www
  type: a
  ttl: 120
  rdata: 192.168.0.1
`

func TestDecodeZone(t *testing.T) {
	zone, err := DecodeZone(strings.NewReader(zoneManifest))
	if err != nil {
		t.Fatalf("DecodeZone failed: %v", err)
	}

	if zone.Spec.DomainName != "example.org." {
		t.Errorf("unexpected domainName %q", zone.Spec.DomainName)
	}
	if zone.Spec.TTL != domain.DefaultTTL || zone.Spec.Refresh != domain.DefaultRefresh ||
		zone.Spec.Retry != domain.DefaultRetry || zone.Spec.Expire != domain.DefaultExpire ||
		zone.Spec.NegativeResponseCache != domain.DefaultNegativeResponseCache {
		t.Errorf("SOA timer defaults not applied: %+v", zone.Spec)
	}
	if len(zone.Spec.Delegations) != 1 || len(zone.Spec.Delegations[0].Records) != 1 {
		t.Fatalf("delegations not decoded: %+v", zone.Spec.Delegations)
	}
}

func TestDecodeZoneRejectsConflictingParent(t *testing.T) {
	conflicting := `
name: example-org
namespace: default
spec:
  domainName: example.org.
  zoneRef:
    name: parent
`
	if _, err := DecodeZone(strings.NewReader(conflicting)); err == nil {
		t.Error("zone with both fqdn and zoneRef should be rejected")
	}
}

func TestDecodeZoneRejectsBadDelegationType(t *testing.T) {
	bad := `
name: example-org
namespace: default
spec:
  domainName: example.org.
  delegations:
    - records:
        - pattern: "*.@"
          types: [BOGUS]
`
	if _, err := DecodeZone(strings.NewReader(bad)); err == nil {
		t.Error("unknown delegated record type should be rejected")
	}
}

func TestDecodeRecord(t *testing.T) {
	record, err := DecodeRecord(strings.NewReader(recordManifest))
	if err != nil {
		t.Fatalf("DecodeRecord failed: %v", err)
	}

	if record.Spec.Type != domain.TypeA {
		t.Errorf("type not normalized: %q", record.Spec.Type)
	}
	if record.Spec.Class != domain.ClassIN {
		t.Errorf("class should default to IN, got %q", record.Spec.Class)
	}
	if record.Spec.TTL == nil || *record.Spec.TTL != 120 {
		t.Errorf("ttl not decoded: %+v", record.Spec.TTL)
	}
	if record.Labels[domain.ParentZoneLabel] != "example-org.default" {
		t.Errorf("labels not decoded: %+v", record.Labels)
	}
}

func TestDecodeRecordRejectsBadInput(t *testing.T) {
	tests := []struct {
		name     string
		manifest string
	}{
		{"unknown type", `
name: www
namespace: default
spec:
  domainName: www
  type: WHAT
  rdata: 192.168.0.1
`},
		{"unknown class", `
name: www
namespace: default
spec:
  domainName: www
  type: A
  class: XY
  rdata: 192.168.0.1
`},
		{"missing rdata", `
name: www
namespace: default
spec:
  domainName: www
  type: A
`},
		{"malformed rdata", `
name: www
namespace: default
spec:
  domainName: www
  type: A
  rdata: not-an-ip
`},
		{"invalid domain", `
name: www
namespace: default
spec:
  domainName: "bad_label"
  type: A
  rdata: 192.168.0.1
`},
		{"unknown field", `
name: www
namespace: default
spec:
  domainName: www
  type: A
  rdata: 192.168.0.1
  bogus: true
`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := DecodeRecord(strings.NewReader(tt.manifest)); err == nil {
				t.Error("expected a decode error")
			}
		})
	}
}

func TestCheckRDataMX(t *testing.T) {
	record := &domain.Record{
		Name:      "mail",
		Namespace: "default",
		Spec: domain.RecordSpec{
			DomainName: "example.org.",
			Type:       domain.TypeMX,
			Class:      domain.ClassIN,
			RData:      "10 mail1.example.org.",
		},
	}
	if err := ValidateRecord(record); err != nil {
		t.Errorf("valid MX record rejected: %v", err)
	}

	record.Spec.RData = "not a priority"
	if err := ValidateRecord(record); err == nil {
		t.Error("malformed MX rdata should be rejected")
	}
}
