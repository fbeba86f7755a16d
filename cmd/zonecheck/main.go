// zonecheck answers whether a candidate record or zone manifest would be
// allowed to attach beneath a parent zone, using the same authorization
// engine the reconciler runs. Exit status 0 means allowed, 1 denied.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/pflag"

	"github.com/zonewarden/zonewarden/internal/adapters/manifest"
	"github.com/zonewarden/zonewarden/internal/core/domain"
)

func main() {
	var (
		zonePath   = pflag.String("zone", "", "path to the parent zone manifest (YAML)")
		recordPath = pflag.String("record", "", "path to a candidate record manifest (YAML)")
		childPath  = pflag.String("child-zone", "", "path to a candidate sub-zone manifest (YAML)")
		recordFQDN = pflag.String("record-fqdn", "", "computed FQDN for the candidate record (overrides status.fqdn)")
		childFQDN  = pflag.String("child-fqdn", "", "computed FQDN for the candidate sub-zone (overrides status.fqdn)")
		verbose    = pflag.BoolP("verbose", "v", false, "print engine diagnostics")
	)
	pflag.Parse()

	if *zonePath == "" || (*recordPath == "") == (*childPath == "") {
		fmt.Fprintln(os.Stderr, "usage: zonecheck --zone zone.yaml (--record record.yaml | --child-zone child.yaml)")
		os.Exit(2)
	}

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	parent, err := loadZone(*zonePath)
	if err != nil {
		fatal(err)
	}
	if parent.Status.FQDN == "" && parent.Spec.DomainName.IsFullyQualified() {
		parent.Status.FQDN = domain.FullyQualifiedDomainName(parent.Spec.DomainName)
	}

	auth := domain.NewAuthorizer(logger)

	var allowed bool
	switch {
	case *recordPath != "":
		record, errLoad := loadRecord(*recordPath, *recordFQDN)
		if errLoad != nil {
			fatal(errLoad)
		}
		allowed = auth.AllowRecord(parent, record)
		report("record", record.String(), allowed)

	default:
		child, errLoad := loadChildZone(*childPath, *childFQDN, parent)
		if errLoad != nil {
			fatal(errLoad)
		}
		allowed = auth.AllowZone(parent, child)
		report("zone", child.String(), allowed)
	}

	if !allowed {
		os.Exit(1)
	}
}

func loadZone(path string) (*domain.Zone, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	zone, err := manifest.DecodeZone(f)
	if err != nil {
		return nil, err
	}
	if zone.UID == "" {
		// Manifests checked offline rarely carry UIDs; fall back to the
		// namespace/name identity so self-delegation is still caught.
		zone.UID = zone.String()
	}
	return zone, nil
}

func loadRecord(path, fqdnOverride string) (*domain.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	record, err := manifest.DecodeRecord(f)
	if err != nil {
		return nil, err
	}
	if fqdnOverride != "" {
		fqdn, errParse := domain.ParseFQDN(fqdnOverride)
		if errParse != nil {
			return nil, errParse
		}
		record.Status.FQDN = fqdn
	} else if record.Status.FQDN == "" && record.Spec.DomainName.IsFullyQualified() {
		record.Status.FQDN = domain.FullyQualifiedDomainName(record.Spec.DomainName)
	}
	return record, nil
}

func loadChildZone(path, fqdnOverride string, parent *domain.Zone) (*domain.Zone, error) {
	child, err := loadZone(path)
	if err != nil {
		return nil, err
	}
	switch {
	case fqdnOverride != "":
		fqdn, errParse := domain.ParseFQDN(fqdnOverride)
		if errParse != nil {
			return nil, errParse
		}
		child.Status.FQDN = fqdn
	case child.Status.FQDN == "" && child.Spec.DomainName.IsFullyQualified():
		child.Status.FQDN = domain.FullyQualifiedDomainName(child.Spec.DomainName)
	case child.Status.FQDN == "" && parent.Status.FQDN != "":
		child.Status.FQDN = domain.FullyQualifiedDomainName(string(child.Spec.DomainName) + "." + string(parent.Status.FQDN))
	}
	return child, nil
}

func report(kind, name string, allowed bool) {
	if allowed {
		fmt.Printf("%s %s: allowed\n", kind, name)
	} else {
		fmt.Printf("%s %s: denied\n", kind, name)
	}
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, "zonecheck:", err)
	os.Exit(2)
}
