// Package ports defines the interfaces between the core and its adapters.
package ports

import (
	"context"

	"github.com/zonewarden/zonewarden/internal/core/domain"
)

// ResourceRepository is the store of zone and record manifests.
type ResourceRepository interface {
	GetZone(ctx context.Context, namespace, name string) (*domain.Zone, error)
	ListZones(ctx context.Context) ([]domain.Zone, error)
	CreateZone(ctx context.Context, zone *domain.Zone) error
	UpdateZoneStatus(ctx context.Context, uid string, status domain.ZoneStatus) error
	DeleteZone(ctx context.Context, uid string) error

	GetRecord(ctx context.Context, namespace, name string) (*domain.Record, error)
	ListRecords(ctx context.Context) ([]domain.Record, error)
	ListRecordsForZone(ctx context.Context, zoneRef domain.ZoneRef) ([]domain.Record, error)
	CreateRecord(ctx context.Context, record *domain.Record) error
	UpdateRecordStatus(ctx context.Context, uid string, status domain.RecordStatus) error
	DeleteRecord(ctx context.Context, uid string) error

	Ping(ctx context.Context) error
}

// Reconciler drives zone and record resources towards a consistent state:
// computed FQDNs, authorized attachments, and up-to-date zone entries.
type Reconciler interface {
	ReconcileZone(ctx context.Context, zone *domain.Zone) error
	ReconcileRecord(ctx context.Context, record *domain.Record) error
	ReconcileAll(ctx context.Context) error
}
