// Package manifest decodes zone and record manifests from YAML and
// validates them at the data-model boundary, so the core only ever sees
// well-formed value types.
package manifest

import (
	"fmt"
	"io"
	"strings"

	"github.com/miekg/dns"
	"gopkg.in/yaml.v3"

	"github.com/zonewarden/zonewarden/internal/core/domain"
)

// DecodeZone reads a zone manifest, applies the SOA timer defaults and
// validates the declared names and delegation patterns.
func DecodeZone(r io.Reader) (*domain.Zone, error) {
	var zone domain.Zone
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&zone); err != nil {
		return nil, fmt.Errorf("decoding zone manifest: %w", err)
	}

	if err := ValidateZone(&zone); err != nil {
		return nil, err
	}

	if zone.Spec.TTL == 0 {
		zone.Spec.TTL = domain.DefaultTTL
	}
	if zone.Spec.Refresh == 0 {
		zone.Spec.Refresh = domain.DefaultRefresh
	}
	if zone.Spec.Retry == 0 {
		zone.Spec.Retry = domain.DefaultRetry
	}
	if zone.Spec.Expire == 0 {
		zone.Spec.Expire = domain.DefaultExpire
	}
	if zone.Spec.NegativeResponseCache == 0 {
		zone.Spec.NegativeResponseCache = domain.DefaultNegativeResponseCache
	}

	return &zone, nil
}

// DecodeRecord reads a record manifest, normalizes type and class onto
// their closed enumerations and sanity-checks the record data.
func DecodeRecord(r io.Reader) (*domain.Record, error) {
	var record domain.Record
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&record); err != nil {
		return nil, fmt.Errorf("decoding record manifest: %w", err)
	}

	if err := ValidateRecord(&record); err != nil {
		return nil, err
	}
	return &record, nil
}

// ValidateZone checks a zone manifest's names and delegation patterns.
func ValidateZone(zone *domain.Zone) error {
	if zone.Name == "" {
		return fmt.Errorf("zone manifest is missing a name")
	}
	if err := domain.ValidateDomainName(string(zone.Spec.DomainName)); err != nil {
		return fmt.Errorf("zone %s: %w", zone, err)
	}

	// Zones either end in the root dot or anchor to a parent, never both.
	if zone.Spec.DomainName.IsFullyQualified() && zone.Spec.ZoneRef != nil {
		return fmt.Errorf("zone %s has both a fully qualified domainName and a zoneRef", zone)
	}

	for _, delegation := range zone.Spec.Delegations {
		for _, rule := range delegation.Records {
			if rule.Pattern == "" {
				return fmt.Errorf("zone %s: record delegation with empty pattern", zone)
			}
			for _, t := range rule.Types {
				if _, err := domain.ParseRecordType(t); err != nil {
					return fmt.Errorf("zone %s: %w", zone, err)
				}
			}
		}
		for _, pattern := range delegation.Zones {
			if pattern == "" {
				return fmt.Errorf("zone %s: zone delegation with empty pattern", zone)
			}
		}
	}
	return nil
}

// ValidateRecord normalizes the record's type and class in place and
// sanity-checks its data.
func ValidateRecord(record *domain.Record) error {
	if record.Name == "" {
		return fmt.Errorf("record manifest is missing a name")
	}
	if err := domain.ValidateDomainName(string(record.Spec.DomainName)); err != nil {
		return fmt.Errorf("record %s: %w", record, err)
	}

	rtype, err := domain.ParseRecordType(string(record.Spec.Type))
	if err != nil {
		return fmt.Errorf("record %s: %w", record, err)
	}
	record.Spec.Type = rtype

	class, err := domain.ParseRecordClass(string(record.Spec.Class))
	if err != nil {
		return fmt.Errorf("record %s: %w", record, err)
	}
	record.Spec.Class = class

	if record.Spec.RData == "" {
		return fmt.Errorf("record %s has no rdata", record)
	}
	if err := checkRData(record); err != nil {
		return fmt.Errorf("record %s: %w", record, err)
	}
	return nil
}

// checkRData parses the record in DNS presentation format as a best-effort
// consistency check of the otherwise opaque rdata. Types without a
// presentation-format parser are let through.
func checkRData(record *domain.Record) error {
	if _, known := dns.StringToType[string(record.Spec.Type)]; !known {
		return nil
	}

	owner := string(record.Spec.DomainName)
	if !strings.HasSuffix(owner, ".") {
		owner += "."
	}
	ttl := domain.DefaultTTL
	if record.Spec.TTL != nil {
		ttl = *record.Spec.TTL
	}

	rr := fmt.Sprintf("%s %d %s %s %s", owner, ttl, record.Spec.Class, record.Spec.Type, record.Spec.RData)
	if _, err := dns.NewRR(rr); err != nil {
		return fmt.Errorf("invalid %s rdata: %w", record.Spec.Type, err)
	}
	return nil
}
