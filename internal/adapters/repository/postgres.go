// Package repository persists zone and record manifests in PostgreSQL.
package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/zonewarden/zonewarden/internal/core/domain"
)

// PostgresRepository implements ports.ResourceRepository using PostgreSQL.
type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository creates and returns a new PostgresRepository instance.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const zoneColumns = `uid, namespace, name, labels, domain_name, zone_ref_name, zone_ref_namespace, delegations, ttl, refresh, retry, expire, negative_response_cache, status_fqdn, status_hash, status_serial, status_entries`

const recordColumns = `uid, namespace, name, labels, domain_name, zone_ref_name, zone_ref_namespace, type, class, ttl, rdata, status_fqdn`

func (r *PostgresRepository) GetZone(ctx context.Context, namespace, name string) (*domain.Zone, error) {
	query := `SELECT ` + zoneColumns + ` FROM zones WHERE namespace = $1 AND name = $2`
	zone, err := scanZone(r.db.QueryRowContext(ctx, query, namespace, name))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return zone, nil
}

func (r *PostgresRepository) ListZones(ctx context.Context) ([]domain.Zone, error) {
	query := `SELECT ` + zoneColumns + ` FROM zones ORDER BY namespace, name`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var zones []domain.Zone
	for rows.Next() {
		zone, errScan := scanZone(rows)
		if errScan != nil {
			return nil, errScan
		}
		zones = append(zones, *zone)
	}
	return zones, rows.Err()
}

func (r *PostgresRepository) CreateZone(ctx context.Context, zone *domain.Zone) error {
	if zone.UID == "" {
		zone.UID = uuid.New().String()
	}

	labels, err := json.Marshal(orEmptyMap(zone.Labels))
	if err != nil {
		return fmt.Errorf("marshalling labels: %w", err)
	}
	delegations, err := json.Marshal(orEmptySlice(zone.Spec.Delegations))
	if err != nil {
		return fmt.Errorf("marshalling delegations: %w", err)
	}

	refName, refNamespace := splitZoneRef(zone.Spec.ZoneRef)
	query := `INSERT INTO zones (uid, namespace, name, labels, domain_name, zone_ref_name, zone_ref_namespace,
	          delegations, ttl, refresh, retry, expire, negative_response_cache)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err = r.db.ExecContext(ctx, query,
		zone.UID, zone.Namespace, zone.Name, labels, string(zone.Spec.DomainName), refName, refNamespace,
		delegations, int64(zone.Spec.TTL), int64(zone.Spec.Refresh), int64(zone.Spec.Retry),
		int64(zone.Spec.Expire), int64(zone.Spec.NegativeResponseCache))
	return err
}

func (r *PostgresRepository) UpdateZoneStatus(ctx context.Context, uid string, status domain.ZoneStatus) error {
	entries, err := json.Marshal(orEmptySlice(status.Entries))
	if err != nil {
		return fmt.Errorf("marshalling entries: %w", err)
	}

	query := `UPDATE zones SET status_fqdn = NULLIF($2, ''), status_hash = NULLIF($3, ''),
	          status_serial = $4, status_entries = $5, updated_at = now() WHERE uid = $1`
	result, err := r.db.ExecContext(ctx, query, uid, string(status.FQDN), status.Hash, int64(status.Serial), entries)
	if err != nil {
		return err
	}
	return requireRow(result, "zone", uid)
}

func (r *PostgresRepository) DeleteZone(ctx context.Context, uid string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM zones WHERE uid = $1`, uid)
	if err != nil {
		return err
	}
	return requireRow(result, "zone", uid)
}

func (r *PostgresRepository) GetRecord(ctx context.Context, namespace, name string) (*domain.Record, error) {
	query := `SELECT ` + recordColumns + ` FROM records WHERE namespace = $1 AND name = $2`
	record, err := scanRecord(r.db.QueryRowContext(ctx, query, namespace, name))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return record, nil
}

func (r *PostgresRepository) ListRecords(ctx context.Context) ([]domain.Record, error) {
	query := `SELECT ` + recordColumns + ` FROM records ORDER BY namespace, name`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectRecords(rows)
}

// ListRecordsForZone returns records attached to the zone either through
// their zoneRef or through the parent-zone label. A zoneRef or label without
// a namespace binds within the record's own namespace.
func (r *PostgresRepository) ListRecordsForZone(ctx context.Context, zoneRef domain.ZoneRef) ([]domain.Record, error) {
	query := `SELECT ` + recordColumns + ` FROM records
	          WHERE (zone_ref_name = $1 AND COALESCE(zone_ref_namespace, namespace) = $2)
	             OR (labels->>'` + domain.ParentZoneLabel + `' = $1 || '.' || $2)
	             OR (labels->>'` + domain.ParentZoneLabel + `' = $1 AND namespace = $2)
	          ORDER BY namespace, name`
	rows, err := r.db.QueryContext(ctx, query, zoneRef.Name, zoneRef.Namespace)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectRecords(rows)
}

func (r *PostgresRepository) CreateRecord(ctx context.Context, record *domain.Record) error {
	if record.UID == "" {
		record.UID = uuid.New().String()
	}

	labels, err := json.Marshal(orEmptyMap(record.Labels))
	if err != nil {
		return fmt.Errorf("marshalling labels: %w", err)
	}

	var ttl sql.NullInt64
	if record.Spec.TTL != nil {
		ttl = sql.NullInt64{Int64: int64(*record.Spec.TTL), Valid: true}
	}

	refName, refNamespace := splitZoneRef(record.Spec.ZoneRef)
	query := `INSERT INTO records (uid, namespace, name, labels, domain_name, zone_ref_name, zone_ref_namespace,
	          type, class, ttl, rdata)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err = r.db.ExecContext(ctx, query,
		record.UID, record.Namespace, record.Name, labels, string(record.Spec.DomainName), refName, refNamespace,
		string(record.Spec.Type), string(record.Spec.Class), ttl, record.Spec.RData)
	return err
}

func (r *PostgresRepository) UpdateRecordStatus(ctx context.Context, uid string, status domain.RecordStatus) error {
	query := `UPDATE records SET status_fqdn = NULLIF($2, ''), updated_at = now() WHERE uid = $1`
	result, err := r.db.ExecContext(ctx, query, uid, string(status.FQDN))
	if err != nil {
		return err
	}
	return requireRow(result, "record", uid)
}

func (r *PostgresRepository) DeleteRecord(ctx context.Context, uid string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM records WHERE uid = $1`, uid)
	if err != nil {
		return err
	}
	return requireRow(result, "record", uid)
}

func (r *PostgresRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanZone(row rowScanner) (*domain.Zone, error) {
	var (
		zone                   domain.Zone
		labels, delegations    []byte
		entries                []byte
		refName, refNamespace  sql.NullString
		statusFQDN, statusHash sql.NullString
		statusSerial           sql.NullInt64
		ttl, refresh, retry    int64
		expire, negRespCache   int64
	)

	err := row.Scan(&zone.UID, &zone.Namespace, &zone.Name, &labels, &zone.Spec.DomainName,
		&refName, &refNamespace, &delegations, &ttl, &refresh, &retry, &expire, &negRespCache,
		&statusFQDN, &statusHash, &statusSerial, &entries)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(labels, &zone.Labels); err != nil {
		return nil, fmt.Errorf("unmarshalling labels: %w", err)
	}
	if err := json.Unmarshal(delegations, &zone.Spec.Delegations); err != nil {
		return nil, fmt.Errorf("unmarshalling delegations: %w", err)
	}
	if err := json.Unmarshal(entries, &zone.Status.Entries); err != nil {
		return nil, fmt.Errorf("unmarshalling entries: %w", err)
	}

	zone.Spec.ZoneRef = joinZoneRef(refName, refNamespace)
	zone.Spec.TTL = uint32(ttl)
	zone.Spec.Refresh = uint32(refresh)
	zone.Spec.Retry = uint32(retry)
	zone.Spec.Expire = uint32(expire)
	zone.Spec.NegativeResponseCache = uint32(negRespCache)
	zone.Status.FQDN = domain.FullyQualifiedDomainName(statusFQDN.String)
	zone.Status.Hash = statusHash.String
	if statusSerial.Valid {
		zone.Status.Serial = uint32(statusSerial.Int64)
	}
	return &zone, nil
}

func scanRecord(row rowScanner) (*domain.Record, error) {
	var (
		record                domain.Record
		labels                []byte
		refName, refNamespace sql.NullString
		ttl                   sql.NullInt64
		statusFQDN            sql.NullString
	)

	err := row.Scan(&record.UID, &record.Namespace, &record.Name, &labels, &record.Spec.DomainName,
		&refName, &refNamespace, &record.Spec.Type, &record.Spec.Class, &ttl, &record.Spec.RData, &statusFQDN)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(labels, &record.Labels); err != nil {
		return nil, fmt.Errorf("unmarshalling labels: %w", err)
	}

	record.Spec.ZoneRef = joinZoneRef(refName, refNamespace)
	if ttl.Valid {
		v := uint32(ttl.Int64)
		record.Spec.TTL = &v
	}
	record.Status.FQDN = domain.FullyQualifiedDomainName(statusFQDN.String)
	return &record, nil
}

func collectRecords(rows *sql.Rows) ([]domain.Record, error) {
	var records []domain.Record
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *record)
	}
	return records, rows.Err()
}

func splitZoneRef(ref *domain.ZoneRef) (name, namespace sql.NullString) {
	if ref == nil {
		return
	}
	name = sql.NullString{String: ref.Name, Valid: true}
	if ref.Namespace != "" {
		namespace = sql.NullString{String: ref.Namespace, Valid: true}
	}
	return
}

func joinZoneRef(name, namespace sql.NullString) *domain.ZoneRef {
	if !name.Valid {
		return nil
	}
	return &domain.ZoneRef{Name: name.String, Namespace: namespace.String}
}

func requireRow(result sql.Result, kind, uid string) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("%s %s not found", kind, uid)
	}
	return nil
}

func orEmptyMap(m map[string]string) map[string]string {
	if m == nil {
		return map[string]string{}
	}
	return m
}

func orEmptySlice[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
