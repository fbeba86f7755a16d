package domain

import "fmt"

// RecordSpec is the desired state of a single DNS resource record.
type RecordSpec struct {
	DomainName DomainName `json:"domainName" yaml:"domainName"`

	// ZoneRef optionally points at the zone this record belongs under.
	ZoneRef *ZoneRef `json:"zoneRef,omitempty" yaml:"zoneRef,omitempty"`

	Type  RecordType  `json:"type" yaml:"type"`
	Class RecordClass `json:"class" yaml:"class"`

	// TTL override for this record. Nil inherits the zone's TTL.
	TTL *uint32 `json:"ttl,omitempty" yaml:"ttl,omitempty"`

	// RData is the record data in presentation format, opaque to the
	// authorization engine.
	RData string `json:"rdata" yaml:"rdata"`
}

// RecordStatus carries the externally-computed attributes of a record.
type RecordStatus struct {
	FQDN FullyQualifiedDomainName `json:"fqdn,omitempty" yaml:"fqdn,omitempty"`
}

// Record is a single DNS resource record attached under a zone.
type Record struct {
	Name      string            `json:"name" yaml:"name"`
	Namespace string            `json:"namespace" yaml:"namespace"`
	UID       string            `json:"uid,omitempty" yaml:"uid,omitempty"`
	Labels    map[string]string `json:"labels,omitempty" yaml:"labels,omitempty"`

	Spec   RecordSpec   `json:"spec" yaml:"spec"`
	Status RecordStatus `json:"status,omitempty" yaml:"status,omitempty"`
}

// FQDN returns the computed fully qualified domain name, if one has been
// set by the reconciler.
func (r *Record) FQDN() (FullyQualifiedDomainName, bool) {
	return r.Status.FQDN, r.Status.FQDN != ""
}

// Parent returns the declared parent zone reference, if any.
func (r *Record) Parent() *ZoneRef { return r.Spec.ZoneRef }

// ResourceNamespace returns the namespace the record resource lives in.
func (r *Record) ResourceNamespace() string { return r.Namespace }

func (r *Record) String() string {
	return fmt.Sprintf("%s/%s", r.Namespace, r.Name)
}

// IsInternet reports whether the record belongs to the Internet class.
func (s RecordSpec) IsInternet() bool { return s.Class == ClassIN }
