package domain

import "testing"

func TestValidateDomainName(t *testing.T) {
	tests := []struct {
		name    string
		wantErr bool
	}{
		{"example.org.", false},
		{"example.org", false},
		{"www.example.org.", false},
		{"a.b.c.", false},
		{"label-with-hyphen.org.", false},
		{"*.example.org.", false}, // wildcard records are legal
		{".", false},
		{"", true},
		{"-starts-with-hyphen.org.", true},
		{"ends-with-hyphen-.org.", true},
		{"invalid_char.org.", true},
		{"double..dot.org.", true},
		{"too-long-label-" + string(make([]byte, 50)) + ".org.", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := ValidateDomainName(tt.name); (err != nil) != tt.wantErr {
				t.Errorf("ValidateDomainName(%q) error = %v, wantErr %v", tt.name, err, tt.wantErr)
			}
		})
	}
}

func TestParseFQDN(t *testing.T) {
	if _, err := ParseFQDN("example.org"); err == nil {
		t.Error("ParseFQDN should reject names without the trailing dot")
	}
	fqdn, err := ParseFQDN("example.org.")
	if err != nil {
		t.Fatalf("ParseFQDN failed: %v", err)
	}
	if fqdn != "example.org." {
		t.Errorf("unexpected fqdn %q", fqdn)
	}
}

func TestIsFullyQualified(t *testing.T) {
	if !DomainName("example.org.").IsFullyQualified() {
		t.Error("example.org. should be fully qualified")
	}
	if DomainName("example.org").IsFullyQualified() {
		t.Error("example.org should not be fully qualified")
	}
}

func TestIsSubdomainOf(t *testing.T) {
	tests := []struct {
		child  FullyQualifiedDomainName
		parent FullyQualifiedDomainName
		want   bool
	}{
		{"www.example.org.", "example.org.", true},
		{"a.b.example.org.", "example.org.", true},
		{"example.org.", "example.org.", false}, // strict: never a subdomain of itself
		{"example.org.", "www.example.org.", false},
		{"wexample.org.", "example.org.", false}, // suffix must align on a label boundary
		{"www.test.com.", "example.org.", false},
		{"example.org.", ".", true},
	}

	for _, tt := range tests {
		if got := tt.child.IsSubdomainOf(tt.parent); got != tt.want {
			t.Errorf("%q.IsSubdomainOf(%q) = %v, want %v", tt.child, tt.parent, got, tt.want)
		}
	}
}
