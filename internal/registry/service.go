// Package registry implements the record-management operations: entity
// registration, sensor assignment and senior lookup. Every operation runs the
// same pipeline: validate input, run the referential checks in a fixed order,
// then perform exactly one store mutation or read. A failure at any step
// aborts the operation before anything is persisted.
package registry

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"caretrack/internal/audit"
	"caretrack/internal/domain"
	"caretrack/internal/platform/metrics"
	"caretrack/internal/storage"
	dErrors "caretrack/pkg/domainerrors"
)

// Service owns the registry business logic. The store is injected so tests
// run against the in-memory implementation.
type Service struct {
	store   storage.Store
	logger  *slog.Logger
	metrics *metrics.Metrics
	audit   *audit.Recorder
}

func New(store storage.Store, logger *slog.Logger, m *metrics.Metrics, recorder *audit.Recorder) *Service {
	return &Service{
		store:   store,
		logger:  logger,
		metrics: m,
		audit:   recorder,
	}
}

// RegisterHome validates and stores a new home.
func (s *Service) RegisterHome(ctx context.Context, home domain.Home) (domain.Home, error) {
	if err := home.Validate(); err != nil {
		return domain.Home{}, err
	}
	if err := s.requireIDFree(ctx, storage.CollectionHomes, "homeId", "Home", home.HomeID); err != nil {
		return domain.Home{}, err
	}
	doc, err := toDocument(home)
	if err != nil {
		return domain.Home{}, err
	}
	if err := s.store.InsertOne(ctx, storage.CollectionHomes, doc); err != nil {
		return domain.Home{}, fmt.Errorf("insert home: %w", err)
	}
	s.metrics.IncrementRegistrations("home")
	s.audit.Record(ctx, audit.ActionRegisterHome, home.HomeID)
	return home, nil
}

// RegisterSensor validates and stores a new sensor.
func (s *Service) RegisterSensor(ctx context.Context, sensor domain.Sensor) (domain.Sensor, error) {
	if err := sensor.Validate(); err != nil {
		return domain.Sensor{}, err
	}
	if err := s.requireIDFree(ctx, storage.CollectionSensors, "sensorId", "Sensor", sensor.SensorID); err != nil {
		return domain.Sensor{}, err
	}
	doc, err := toDocument(sensor)
	if err != nil {
		return domain.Sensor{}, err
	}
	if err := s.store.InsertOne(ctx, storage.CollectionSensors, doc); err != nil {
		return domain.Sensor{}, fmt.Errorf("insert sensor: %w", err)
	}
	s.metrics.IncrementRegistrations("sensor")
	s.audit.Record(ctx, audit.ActionRegisterSensor, sensor.SensorID)
	return sensor, nil
}

// RegisterSenior validates the senior, requires the referenced home to exist,
// then stores the record. Caller-supplied enabled and sensorId values are
// discarded: a senior always starts disabled and unbound.
func (s *Service) RegisterSenior(ctx context.Context, senior domain.Senior) (domain.Senior, error) {
	if err := senior.Validate(); err != nil {
		return domain.Senior{}, err
	}
	if err := s.requireIDFree(ctx, storage.CollectionSeniors, "seniorId", "Senior", senior.SeniorID); err != nil {
		return domain.Senior{}, err
	}
	if err := s.requireHome(ctx, senior.HomeID); err != nil {
		return domain.Senior{}, err
	}
	senior.Enabled = false
	senior.SensorID = nil
	doc, err := toDocument(senior)
	if err != nil {
		return domain.Senior{}, err
	}
	if err := s.store.InsertOne(ctx, storage.CollectionSeniors, doc); err != nil {
		return domain.Senior{}, fmt.Errorf("insert senior: %w", err)
	}
	s.metrics.IncrementRegistrations("senior")
	s.audit.Record(ctx, audit.ActionRegisterSenior, senior.SeniorID)
	return senior, nil
}

// AssignSensor binds a sensor to a senior. Checks run in a fixed order:
// senior exists, sensor not already bound, sensor exists. The binding itself
// is the only update operation in the system.
//
// Known limitation: the uniqueness scan and the update are separate store
// calls with no transaction, so two concurrent assignments of the same sensor
// can both pass the scan and double-bind it.
func (s *Service) AssignSensor(ctx context.Context, assignment domain.SensorAssignment) error {
	if err := assignment.Validate(); err != nil {
		return err
	}
	if err := s.requireSenior(ctx, assignment.SeniorID); err != nil {
		return err
	}
	if err := s.requireSensorUnassigned(ctx, assignment.SensorID); err != nil {
		return err
	}
	if err := s.requireSensor(ctx, assignment.SensorID); err != nil {
		return err
	}
	_, err := s.store.FindOneAndUpdate(ctx, storage.CollectionSeniors,
		storage.Filter{"seniorId": assignment.SeniorID},
		storage.Document{"sensorId": assignment.SensorID})
	if err != nil {
		return fmt.Errorf("assign sensor %d to senior %d: %w", assignment.SensorID, assignment.SeniorID, err)
	}
	s.metrics.IncrementSensorAssignments()
	s.audit.Record(ctx, audit.ActionAssignSensor, assignment.SensorID)
	s.logger.InfoContext(ctx, "sensor assigned",
		"sensor_id", assignment.SensorID,
		"senior_id", assignment.SeniorID,
	)
	return nil
}

// GetSenior looks a senior up by identifier.
func (s *Service) GetSenior(ctx context.Context, seniorID int64) (domain.Senior, error) {
	if err := domain.ValidateEntityID("seniorId", seniorID); err != nil {
		return domain.Senior{}, err
	}
	doc, err := s.store.FindOne(ctx, storage.CollectionSeniors, storage.Filter{"seniorId": seniorID})
	if errors.Is(err, storage.ErrNotFound) {
		return domain.Senior{}, dErrors.New(dErrors.CodeNotFound,
			fmt.Sprintf("Senior %d doesn't exist.", seniorID))
	}
	if err != nil {
		return domain.Senior{}, fmt.Errorf("look up senior %d: %w", seniorID, err)
	}
	var senior domain.Senior
	if err := fromDocument(doc, &senior); err != nil {
		return domain.Senior{}, err
	}
	return senior, nil
}

// toDocument and fromDocument round-trip entities through JSON, which is also
// how both store implementations normalize values. Struct tags decide the
// stored field names, and nil SensorID never produces a sensorId key.

func toDocument(v any) (storage.Document, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode entity: %w", err)
	}
	var doc storage.Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("encode entity: %w", err)
	}
	return doc, nil
}

func fromDocument(doc storage.Document, v any) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("decode entity: %w", err)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("decode entity: %w", err)
	}
	return nil
}
