// Package testutil provides shared fakes for tests.
package testutil

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/zonewarden/zonewarden/internal/core/domain"
)

// MockRepo implements ports.ResourceRepository over testify mocks.
type MockRepo struct {
	mock.Mock
}

func (m *MockRepo) GetZone(_ context.Context, namespace, name string) (*domain.Zone, error) {
	args := m.Called(namespace, name)
	zone, _ := args.Get(0).(*domain.Zone)
	return zone, args.Error(1)
}

func (m *MockRepo) ListZones(_ context.Context) ([]domain.Zone, error) {
	args := m.Called()
	zones, _ := args.Get(0).([]domain.Zone)
	return zones, args.Error(1)
}

func (m *MockRepo) CreateZone(_ context.Context, zone *domain.Zone) error {
	return m.Called(zone).Error(0)
}

func (m *MockRepo) UpdateZoneStatus(_ context.Context, uid string, status domain.ZoneStatus) error {
	return m.Called(uid, status).Error(0)
}

func (m *MockRepo) DeleteZone(_ context.Context, uid string) error {
	return m.Called(uid).Error(0)
}

func (m *MockRepo) GetRecord(_ context.Context, namespace, name string) (*domain.Record, error) {
	args := m.Called(namespace, name)
	record, _ := args.Get(0).(*domain.Record)
	return record, args.Error(1)
}

func (m *MockRepo) ListRecords(_ context.Context) ([]domain.Record, error) {
	args := m.Called()
	records, _ := args.Get(0).([]domain.Record)
	return records, args.Error(1)
}

func (m *MockRepo) ListRecordsForZone(_ context.Context, zoneRef domain.ZoneRef) ([]domain.Record, error) {
	args := m.Called(zoneRef)
	records, _ := args.Get(0).([]domain.Record)
	return records, args.Error(1)
}

func (m *MockRepo) CreateRecord(_ context.Context, record *domain.Record) error {
	return m.Called(record).Error(0)
}

func (m *MockRepo) UpdateRecordStatus(_ context.Context, uid string, status domain.RecordStatus) error {
	return m.Called(uid, status).Error(0)
}

func (m *MockRepo) DeleteRecord(_ context.Context, uid string) error {
	return m.Called(uid).Error(0)
}

func (m *MockRepo) Ping(_ context.Context) error {
	return m.Called().Error(0)
}
