package domain

import (
	"fmt"
	"strings"
)

// ParentZoneLabel is the resource label associating a record or sub-zone
// with its parent zone, in ZoneRef label form ("name" or "name.namespace").
const ParentZoneLabel = "zonewarden.io/parent-zone"

// SOA timer defaults, following RIPE-203 recommendations for small and
// stable zones where responsiveness is not hurt by it. TTL and the negative
// response cache are kept low instead, to reduce failed lookups against
// records still being provisioned.
const (
	DefaultTTL                   uint32 = 360
	DefaultRefresh               uint32 = 86400
	DefaultRetry                 uint32 = 7200
	DefaultExpire                uint32 = 3600000
	DefaultNegativeResponseCache uint32 = 360
)

// ZoneRef is a reference to a zone by name and optional namespace.
type ZoneRef struct {
	Name      string `json:"name" yaml:"name"`
	Namespace string `json:"namespace,omitempty" yaml:"namespace,omitempty"`
}

// Label renders the reference in the single-string form used by the
// parent-zone resource label: "name.namespace", or just "name" when the
// reference carries no namespace.
func (r ZoneRef) Label() string {
	if r.Namespace == "" {
		return r.Name
	}
	return r.Name + "." + r.Namespace
}

func (r ZoneRef) String() string {
	if r.Namespace == "" {
		return r.Name
	}
	return r.Namespace + "/" + r.Name
}

// ParseZoneRefLabel is the inverse of ZoneRef.Label. A label without a
// separator is a name-only reference (no namespace).
func ParseZoneRefLabel(label string) ZoneRef {
	name, namespace, _ := strings.Cut(label, ".")
	return ZoneRef{Name: name, Namespace: namespace}
}

// RecordDelegation grants records matching a domain pattern (and optionally
// a set of record types) the right to attach beneath a zone.
type RecordDelegation struct {
	// Pattern which delegated records must match. The token '@' expands
	// to the delegating zone's FQDN at evaluation time.
	Pattern string `json:"pattern" yaml:"pattern"`

	// Types of record to allow. Empty list implies any.
	Types []string `json:"types,omitempty" yaml:"types,omitempty"`
}

// Matches reports whether a (record type, domain) pair satisfies this rule,
// with zoneFQDN substituted for '@' in the pattern. Type comparison is
// case-insensitive; the stored types keep their case.
func (rd RecordDelegation) Matches(zoneFQDN FullyQualifiedDomainName, recordType string, domain DomainName) bool {
	pattern := strings.ReplaceAll(rd.Pattern, "@", string(zoneFQDN))
	if !MatchesPattern(pattern, domain) {
		return false
	}

	if len(rd.Types) == 0 {
		return true
	}
	for _, delegated := range rd.Types {
		if strings.EqualFold(delegated, recordType) {
			return true
		}
	}
	return false
}

// Delegation grants a scoped set of namespaces permission to insert records
// and sub-zones matching the given patterns into a zone.
type Delegation struct {
	// Namespaces covered by this delegation. Empty means all namespaces.
	Namespaces []string `json:"namespaces,omitempty" yaml:"namespaces,omitempty"`

	// Zones holds domain patterns which delegated sub-zones must match.
	Zones []string `json:"zones,omitempty" yaml:"zones,omitempty"`

	// Records holds the record delegation rules.
	Records []RecordDelegation `json:"records,omitempty" yaml:"records,omitempty"`
}

// CoversNamespace reports whether namespace falls within this delegation's
// scope. An empty namespace list covers everything.
func (d Delegation) CoversNamespace(namespace string) bool {
	if len(d.Namespaces) == 0 {
		return true
	}
	for _, delegated := range d.Namespaces {
		if delegated == namespace {
			return true
		}
	}
	return false
}

// AllowsRecord reports whether at least one record rule in this delegation
// matches the candidate. No record rules means deny.
func (d Delegation) AllowsRecord(zoneFQDN FullyQualifiedDomainName, recordType string, domain DomainName) bool {
	for _, rule := range d.Records {
		if rule.Matches(zoneFQDN, recordType, domain) {
			return true
		}
	}
	return false
}

// AllowsZone reports whether the candidate sub-zone domain matches one of
// this delegation's zone patterns. No zone patterns means deny.
func (d Delegation) AllowsZone(parentFQDN FullyQualifiedDomainName, domain DomainName) bool {
	for _, pattern := range d.Zones {
		if MatchesPattern(strings.ReplaceAll(pattern, "@", string(parentFQDN)), domain) {
			return true
		}
	}
	return false
}

// ZoneSpec is the desired state of a zone as declared by its author.
type ZoneSpec struct {
	DomainName DomainName `json:"domainName" yaml:"domainName"`

	// ZoneRef optionally points at the parent zone this zone is a
	// sub-zone of. Zones have either a zoneRef or a fully qualified
	// domainName, never both.
	ZoneRef *ZoneRef `json:"zoneRef,omitempty" yaml:"zoneRef,omitempty"`

	// Delegations list the namespaced records and zones allowed to
	// insert themselves into this zone.
	Delegations []Delegation `json:"delegations,omitempty" yaml:"delegations,omitempty"`

	// TTL in seconds for the zone's own records in recursive resolvers.
	TTL uint32 `json:"ttl" yaml:"ttl"`

	// Refresh is how often (seconds) secondaries re-query the SOA record
	// to detect zone changes.
	Refresh uint32 `json:"refresh" yaml:"refresh"`

	// Retry is how long (seconds) secondaries wait before retrying a
	// failed refresh. Must be less than Refresh.
	Retry uint32 `json:"retry" yaml:"retry"`

	// Expire is how long (seconds) secondaries keep answering for the
	// zone when the master stays unreachable. Must exceed Refresh+Retry.
	Expire uint32 `json:"expire" yaml:"expire"`

	// NegativeResponseCache bounds the SOA TTL used for negative
	// response caching.
	NegativeResponseCache uint32 `json:"negativeResponseCache" yaml:"negativeResponseCache"`
}

// ZoneEntry is one produced entry of a rendered zone.
type ZoneEntry struct {
	FQDN  FullyQualifiedDomainName `json:"fqdn" yaml:"fqdn"`
	Type  RecordType               `json:"type" yaml:"type"`
	Class RecordClass              `json:"class" yaml:"class"`
	TTL   uint32                   `json:"ttl" yaml:"ttl"`
	RData string                   `json:"rdata" yaml:"rdata"`
}

// ZoneStatus carries the externally-computed attributes of a zone.
type ZoneStatus struct {
	// FQDN is the zone's fully qualified domain name. Identical to
	// .spec.domainName when that is already fully qualified, otherwise
	// the concatenation of the domainName and the parent zone's FQDN.
	FQDN FullyQualifiedDomainName `json:"fqdn,omitempty" yaml:"fqdn,omitempty"`

	// Hash over all relevant zone entries.
	Hash string `json:"hash,omitempty" yaml:"hash,omitempty"`

	// Serial of the latest rendered zone, bumped whenever the hash
	// changes, in accordance with RFC 1912 section 2.2.
	Serial uint32 `json:"serial,omitempty" yaml:"serial,omitempty"`

	Entries []ZoneEntry `json:"entries,omitempty" yaml:"entries,omitempty"`
}

// Zone is a DNS namespace node that may contain records and delegate
// authority over parts of itself to other namespaces.
type Zone struct {
	Name      string            `json:"name" yaml:"name"`
	Namespace string            `json:"namespace" yaml:"namespace"`
	UID       string            `json:"uid,omitempty" yaml:"uid,omitempty"`
	Labels    map[string]string `json:"labels,omitempty" yaml:"labels,omitempty"`

	Spec   ZoneSpec   `json:"spec" yaml:"spec"`
	Status ZoneStatus `json:"status,omitempty" yaml:"status,omitempty"`
}

// ZoneRef produces a reference pointing at this zone.
func (z *Zone) ZoneRef() ZoneRef {
	return ZoneRef{Name: z.Name, Namespace: z.Namespace}
}

// FQDN returns the computed fully qualified domain name, if one has been
// set by the reconciler.
func (z *Zone) FQDN() (FullyQualifiedDomainName, bool) {
	return z.Status.FQDN, z.Status.FQDN != ""
}

// Parent returns the declared parent zone reference, if any.
func (z *Zone) Parent() *ZoneRef { return z.Spec.ZoneRef }

// ResourceNamespace returns the namespace the zone resource lives in.
func (z *Zone) ResourceNamespace() string { return z.Namespace }

func (z *Zone) String() string {
	return fmt.Sprintf("%s/%s", z.Namespace, z.Name)
}
