// Package domain contains the core resource model and the delegation
// authorization logic for zonewarden.
package domain

import (
	"fmt"
	"regexp"
	"strings"
)

// A label is standard LDH syntax, or a lone "*" for wildcard records.
var validLabelRegex = regexp.MustCompile(`^[a-zA-Z0-9]([a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?$`)

// DomainName is a dot-separated sequence of labels, not necessarily fully
// qualified. It is compared and matched as text.
type DomainName string

// FullyQualifiedDomainName is a DomainName known to be absolute, i.e. it
// ends with the root dot.
type FullyQualifiedDomainName string

// IsFullyQualified reports whether the domain name ends in the root dot.
func (d DomainName) IsFullyQualified() bool {
	return strings.HasSuffix(string(d), ".")
}

func (d DomainName) String() string { return string(d) }

func (f FullyQualifiedDomainName) String() string { return string(f) }

// DomainName widens an FQDN back into the general name type.
func (f FullyQualifiedDomainName) DomainName() DomainName { return DomainName(f) }

// ValidateDomainName checks label syntax and length limits. The trailing
// root dot is permitted but not required.
func ValidateDomainName(name string) error {
	if name == "" {
		return fmt.Errorf("domain name cannot be empty")
	}
	if name == "." {
		return nil // Root is valid
	}
	if len(name) > 254 {
		return fmt.Errorf("domain name exceeds 253 characters")
	}

	labels := strings.Split(strings.TrimSuffix(name, "."), ".")
	for _, label := range labels {
		if len(label) > 63 {
			return fmt.Errorf("label '%s' exceeds 63 characters", label)
		}
		if label == "" {
			return fmt.Errorf("domain name contains empty label")
		}
		if label == "*" {
			continue
		}
		if !validLabelRegex.MatchString(label) {
			return fmt.Errorf("label '%s' contains invalid characters or format", label)
		}
	}
	return nil
}

// ParseDomainName validates name and returns it as a DomainName.
func ParseDomainName(name string) (DomainName, error) {
	if err := ValidateDomainName(name); err != nil {
		return "", err
	}
	return DomainName(name), nil
}

// ParseFQDN validates name and requires it to be fully qualified.
func ParseFQDN(name string) (FullyQualifiedDomainName, error) {
	if err := ValidateDomainName(name); err != nil {
		return "", err
	}
	if !strings.HasSuffix(name, ".") {
		return "", fmt.Errorf("'%s' is not fully qualified (missing trailing dot)", name)
	}
	return FullyQualifiedDomainName(name), nil
}

// IsSubdomainOf reports whether f sits strictly below parent. A name is
// never a subdomain of itself.
func (f FullyQualifiedDomainName) IsSubdomainOf(parent FullyQualifiedDomainName) bool {
	if f == parent {
		return false
	}
	if parent == "." {
		return f != ""
	}
	return strings.HasSuffix(string(f), "."+string(parent))
}
