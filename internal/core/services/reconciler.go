// Package services implements the controller-side collaborators that feed
// the delegation authorizer with finalized resource snapshots.
package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/zonewarden/zonewarden/internal/core/domain"
	"github.com/zonewarden/zonewarden/internal/core/ports"
	"github.com/zonewarden/zonewarden/internal/infrastructure/metrics"
)

type reconciler struct {
	repo ports.ResourceRepository
	auth *domain.Authorizer
	log  *slog.Logger
	now  func() time.Time
}

// NewReconciler builds the reconciler over the given repository. A nil
// logger falls back to slog.Default().
func NewReconciler(repo ports.ResourceRepository, logger *slog.Logger) ports.Reconciler {
	if logger == nil {
		logger = slog.Default()
	}
	return &reconciler{
		repo: repo,
		auth: domain.NewAuthorizer(logger),
		log:  logger,
		now:  time.Now,
	}
}

// resolveParent looks up the zone a resource attaches under, preferring an
// explicit zoneRef over the parent-zone label. References without a
// namespace resolve within the resource's own namespace.
func (r *reconciler) resolveParent(ctx context.Context, ref *domain.ZoneRef, labels map[string]string, namespace string) (*domain.Zone, error) {
	if ref == nil {
		if label, ok := labels[domain.ParentZoneLabel]; ok {
			parsed := domain.ParseZoneRefLabel(label)
			ref = &parsed
		}
	}
	if ref == nil {
		return nil, nil
	}

	ns := ref.Namespace
	if ns == "" {
		ns = namespace
	}
	parent, err := r.repo.GetZone(ctx, ns, ref.Name)
	if err != nil {
		return nil, fmt.Errorf("fetching parent zone %s/%s: %w", ns, ref.Name, err)
	}
	return parent, nil
}

// ReconcileZone computes the zone's FQDN (directly for rooted zones,
// through the parent's delegations for anchored ones), refreshes the zone's
// entries from its authorized records, and persists the resulting status.
func (r *reconciler) ReconcileZone(ctx context.Context, zone *domain.Zone) error {
	timer := time.Now()
	defer func() {
		metrics.ReconcileDuration.WithLabelValues("zone").Observe(time.Since(timer).Seconds())
	}()

	status := zone.Status

	switch {
	case zone.Spec.DomainName.IsFullyQualified():
		if zone.Spec.ZoneRef != nil {
			return fmt.Errorf("zone %s has both a fully qualified domainName and a zoneRef", zone)
		}
		status.FQDN = domain.FullyQualifiedDomainName(zone.Spec.DomainName)

	default:
		parent, err := r.resolveParent(ctx, zone.Spec.ZoneRef, zone.Labels, zone.Namespace)
		if err != nil {
			return err
		}
		if parent == nil {
			return fmt.Errorf("zone %s has a partially qualified domainName but no parent reference", zone)
		}

		candidate := *zone
		candidate.Status.FQDN = qualifyWith(zone.Spec.DomainName, parent)
		if candidate.Status.FQDN == "" {
			// Parent not resolved yet; retry on a later pass.
			status.FQDN = ""
			break
		}

		if !r.auth.AllowZone(parent, &candidate) {
			metrics.AuthorizationDecisions.WithLabelValues("zone", "denied").Inc()
			r.log.Info("zone delegation denied", "zone", zone.String(), "parent", parent.String())
			status.FQDN = ""
			break
		}
		metrics.AuthorizationDecisions.WithLabelValues("zone", "allowed").Inc()
		status.FQDN = candidate.Status.FQDN
	}

	if status.FQDN != "" {
		entries, err := r.collectEntries(ctx, zone, status.FQDN)
		if err != nil {
			return err
		}
		status.Entries = entries

		hash := hashEntries(entries)
		if hash != status.Hash {
			status.Hash = hash
			status.Serial = nextSerial(r.now(), status.Serial)
		}
	} else {
		status.Entries = nil
	}

	if status.FQDN == zone.Status.FQDN && status.Hash == zone.Status.Hash &&
		status.Serial == zone.Status.Serial && len(status.Entries) == len(zone.Status.Entries) {
		return nil
	}

	zone.Status = status
	return r.repo.UpdateZoneStatus(ctx, zone.UID, status)
}

// ReconcileRecord resolves the record's parent zone, asks the authorizer
// whether the record may attach there, and persists the computed FQDN (or
// clears it on denial).
func (r *reconciler) ReconcileRecord(ctx context.Context, record *domain.Record) error {
	timer := time.Now()
	defer func() {
		metrics.ReconcileDuration.WithLabelValues("record").Observe(time.Since(timer).Seconds())
	}()

	parent, err := r.resolveParent(ctx, record.Spec.ZoneRef, record.Labels, record.Namespace)
	if err != nil {
		return err
	}
	if parent == nil {
		return fmt.Errorf("record %s has no parent zone reference", record)
	}

	candidate := *record
	if record.Spec.DomainName.IsFullyQualified() {
		candidate.Status.FQDN = domain.FullyQualifiedDomainName(record.Spec.DomainName)
	} else {
		candidate.Status.FQDN = qualifyWith(record.Spec.DomainName, parent)
	}

	status := domain.RecordStatus{}
	if candidate.Status.FQDN != "" && r.auth.AllowRecord(parent, &candidate) {
		metrics.AuthorizationDecisions.WithLabelValues("record", "allowed").Inc()
		status.FQDN = candidate.Status.FQDN
	} else {
		metrics.AuthorizationDecisions.WithLabelValues("record", "denied").Inc()
		r.log.Info("record delegation denied", "record", record.String(), "parent", parent.String())
	}

	if status == record.Status {
		return nil
	}

	record.Status = status
	return r.repo.UpdateRecordStatus(ctx, record.UID, status)
}

// ReconcileAll reconciles every zone and record in the store. Zones are
// passed over repeatedly so FQDNs propagate down arbitrarily deep zoneRef
// chains before records are evaluated.
func (r *reconciler) ReconcileAll(ctx context.Context) error {
	zones, err := r.repo.ListZones(ctx)
	if err != nil {
		return fmt.Errorf("listing zones: %w", err)
	}

	for pass := 0; pass < max(len(zones), 1); pass++ {
		zones, err = r.repo.ListZones(ctx)
		if err != nil {
			return fmt.Errorf("listing zones: %w", err)
		}
		for i := range zones {
			if err := r.ReconcileZone(ctx, &zones[i]); err != nil {
				r.log.Error("zone reconciliation failed", "zone", zones[i].String(), "error", err)
			}
		}
	}

	records, err := r.repo.ListRecords(ctx)
	if err != nil {
		return fmt.Errorf("listing records: %w", err)
	}
	for i := range records {
		if err := r.ReconcileRecord(ctx, &records[i]); err != nil {
			r.log.Error("record reconciliation failed", "record", records[i].String(), "error", err)
		}
	}

	// Zone entries derive from record statuses, so refresh them once more
	// now that records have settled.
	for i := range zones {
		if err := r.ReconcileZone(ctx, &zones[i]); err != nil {
			r.log.Error("zone reconciliation failed", "zone", zones[i].String(), "error", err)
		}
	}

	return nil
}

// collectEntries renders the zone's authorized records into entries.
func (r *reconciler) collectEntries(ctx context.Context, zone *domain.Zone, fqdn domain.FullyQualifiedDomainName) ([]domain.ZoneEntry, error) {
	withStatus := *zone
	withStatus.Status.FQDN = fqdn

	records, err := r.repo.ListRecordsForZone(ctx, zone.ZoneRef())
	if err != nil {
		return nil, fmt.Errorf("listing records for zone %s: %w", zone, err)
	}

	var entries []domain.ZoneEntry
	for i := range records {
		record := &records[i]
		recordFQDN, ok := record.FQDN()
		if !ok || !r.auth.AllowRecord(&withStatus, record) {
			continue
		}

		ttl := zone.Spec.TTL
		if record.Spec.TTL != nil {
			ttl = *record.Spec.TTL
		}
		entries = append(entries, domain.ZoneEntry{
			FQDN:  recordFQDN,
			Type:  record.Spec.Type,
			Class: record.Spec.Class,
			TTL:   ttl,
			RData: record.Spec.RData,
		})
	}

	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.FQDN != b.FQDN {
			return a.FQDN < b.FQDN
		}
		if a.Type != b.Type {
			return a.Type < b.Type
		}
		return a.RData < b.RData
	})
	return entries, nil
}

// qualifyWith appends the parent zone's FQDN to a partially qualified name.
// Returns "" when the parent has no computed FQDN yet.
func qualifyWith(name domain.DomainName, parent *domain.Zone) domain.FullyQualifiedDomainName {
	parentFQDN, ok := parent.FQDN()
	if !ok {
		return ""
	}
	return domain.FullyQualifiedDomainName(strings.TrimSuffix(string(name), ".") + "." + string(parentFQDN))
}

// hashEntries produces a stable digest of the rendered entries.
func hashEntries(entries []domain.ZoneEntry) string {
	h := sha256.New()
	for _, e := range entries {
		fmt.Fprintf(h, "%s\t%s\t%s\t%d\t%s\n", e.FQDN, e.Type, e.Class, e.TTL, e.RData)
	}
	return hex.EncodeToString(h.Sum(nil))
}

// nextSerial bumps the zone serial in the date-encoded YYYYMMDDnn form of
// RFC 1912 section 2.2, falling back to plain increments once a day's
// revision counter is exhausted.
func nextSerial(now time.Time, current uint32) uint32 {
	date, _ := strconv.ParseUint(now.UTC().Format("20060102"), 10, 64)
	base := uint32(date * 100)
	if current >= base {
		return current + 1
	}
	return base
}
