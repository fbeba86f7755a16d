package domain

import (
	"fmt"
	"log/slog"
)

// Candidate is the capability set shared by resources that can attach
// beneath a zone: a computed FQDN, an optional parent reference, and the
// namespace the resource lives in.
type Candidate interface {
	FQDN() (FullyQualifiedDomainName, bool)
	Parent() *ZoneRef
	ResourceNamespace() string
	fmt.Stringer
}

var (
	_ Candidate = (*Zone)(nil)
	_ Candidate = (*Record)(nil)
)

// Authorizer decides whether candidate records and sub-zones may attach
// beneath a parent zone, according to the parent's delegations.
//
// It holds no state besides a logger: every call operates on the immutable
// snapshots it is handed and any number of calls may run concurrently.
// Denials are reported through debug diagnostics only; callers must base
// decisions solely on the returned boolean.
type Authorizer struct {
	log *slog.Logger
}

// NewAuthorizer returns an Authorizer emitting diagnostics through logger.
// A nil logger falls back to slog.Default().
func NewAuthorizer(logger *slog.Logger) *Authorizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Authorizer{log: logger}
}

// contained runs the precondition pipeline shared by records and sub-zones:
// both sides must have a computed FQDN and the candidate must sit strictly
// below the parent.
func (a *Authorizer) contained(parent *Zone, candidate Candidate) (parentFQDN, candidateFQDN FullyQualifiedDomainName, ok bool) {
	parentFQDN, ok = parent.FQDN()
	if !ok {
		a.log.Debug("parent zone has no fqdn and cannot validate candidates",
			"zone", parent.String())
		return "", "", false
	}

	candidateFQDN, ok = candidate.FQDN()
	if !ok {
		a.log.Debug("candidate has no fqdn and cannot be validated",
			"candidate", candidate.String())
		return "", "", false
	}

	if !candidateFQDN.IsSubdomainOf(parentFQDN) {
		a.log.Debug("candidate is not a subdomain of parent zone",
			"candidate", string(candidateFQDN), "zone", string(parentFQDN))
		return "", "", false
	}

	return parentFQDN, candidateFQDN, true
}

// AllowRecord reports whether record may attach beneath parent, given the
// parent's delegations.
func (a *Authorizer) AllowRecord(parent *Zone, record *Record) bool {
	parentFQDN, recordFQDN, ok := a.contained(parent, record)
	if !ok {
		return false
	}

	for _, delegation := range parent.Spec.Delegations {
		if delegation.CoversNamespace(record.Namespace) &&
			delegation.AllowsRecord(parentFQDN, string(record.Spec.Type), record.Spec.DomainName) {
			a.log.Debug("zone allows delegation to record",
				"zone", string(parentFQDN), "record", string(recordFQDN))
			return true
		}
	}

	a.log.Debug("zone forbids delegation to record",
		"zone", string(parentFQDN), "record", string(recordFQDN))
	return false
}

// AllowZone reports whether child may attach beneath parent as a sub-zone,
// given the parent's delegations. A zone is never a valid sub-zone of
// itself.
func (a *Authorizer) AllowZone(parent, child *Zone) bool {
	parentFQDN, childFQDN, ok := a.contained(parent, child)
	if !ok {
		return false
	}

	if parent.UID == child.UID {
		a.log.Debug("zone cannot delegate to itself", "zone", parent.String())
		return false
	}

	for _, delegation := range parent.Spec.Delegations {
		if delegation.CoversNamespace(child.Namespace) &&
			delegation.AllowsZone(parentFQDN, child.Spec.DomainName) {
			a.log.Debug("zone allows delegation to sub-zone",
				"zone", string(parentFQDN), "subzone", string(childFQDN))
			return true
		}
	}

	a.log.Debug("zone forbids delegation to sub-zone",
		"zone", string(parentFQDN), "subzone", string(childFQDN))
	return false
}
