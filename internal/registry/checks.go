package registry

import (
	"context"
	"errors"
	"fmt"

	"caretrack/internal/storage"
	dErrors "caretrack/pkg/domainerrors"
)

// Referential-integrity checks. Each issues exactly one read against a
// collection and returns a reference error with the caller-visible reason
// when the precondition does not hold. The order they are applied in by
// AssignSensor is fixed so the earliest failing precondition determines the
// reported error.

func (s *Service) requireHome(ctx context.Context, homeID int64) error {
	_, err := s.store.FindOne(ctx, storage.CollectionHomes, storage.Filter{"homeId": homeID})
	if errors.Is(err, storage.ErrNotFound) {
		return dErrors.New(dErrors.CodeReference,
			fmt.Sprintf("Can't assign senior to home ID %d (home doesn't exist).", homeID))
	}
	if err != nil {
		return fmt.Errorf("look up home %d: %w", homeID, err)
	}
	return nil
}

func (s *Service) requireSenior(ctx context.Context, seniorID int64) error {
	_, err := s.store.FindOne(ctx, storage.CollectionSeniors, storage.Filter{"seniorId": seniorID})
	if errors.Is(err, storage.ErrNotFound) {
		return dErrors.New(dErrors.CodeReference,
			fmt.Sprintf("Senior %d doesn't exist. Please register him first, then assign a sensor.", seniorID))
	}
	if err != nil {
		return fmt.Errorf("look up senior %d: %w", seniorID, err)
	}
	return nil
}

// requireSensorUnassigned scans the seniors collection for an existing
// binding to this sensor. Cross-collection uniqueness lives here, not in the
// sensors collection.
func (s *Service) requireSensorUnassigned(ctx context.Context, sensorID int64) error {
	_, err := s.store.FindOne(ctx, storage.CollectionSeniors, storage.Filter{"sensorId": sensorID})
	if err == nil {
		return dErrors.New(dErrors.CodeReference,
			fmt.Sprintf("Sensor %d already belongs to a senior.", sensorID))
	}
	if errors.Is(err, storage.ErrNotFound) {
		return nil
	}
	return fmt.Errorf("look up sensor binding %d: %w", sensorID, err)
}

func (s *Service) requireSensor(ctx context.Context, sensorID int64) error {
	_, err := s.store.FindOne(ctx, storage.CollectionSensors, storage.Filter{"sensorId": sensorID})
	if errors.Is(err, storage.ErrNotFound) {
		return dErrors.New(dErrors.CodeReference,
			fmt.Sprintf("Sensor ID %d doesn't exist.", sensorID))
	}
	if err != nil {
		return fmt.Errorf("look up sensor %d: %w", sensorID, err)
	}
	return nil
}

// requireIDFree enforces identifier uniqueness within a collection with a
// lookup before insert. Not transactional with the insert; see the race note
// on AssignSensor.
func (s *Service) requireIDFree(ctx context.Context, collection, field, entity string, id int64) error {
	_, err := s.store.FindOne(ctx, collection, storage.Filter{field: id})
	if err == nil {
		return dErrors.New(dErrors.CodeReference,
			fmt.Sprintf("%s %d already exists.", entity, id))
	}
	if errors.Is(err, storage.ErrNotFound) {
		return nil
	}
	return fmt.Errorf("look up %s %d: %w", field, id, err)
}
