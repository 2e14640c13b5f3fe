package registry

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/suite"

	"caretrack/internal/domain"
	"caretrack/internal/storage"
	dErrors "caretrack/pkg/domainerrors"
)

type RegistryServiceSuite struct {
	suite.Suite
	ctx     context.Context
	store   *storage.Memory
	service *Service
}

func (s *RegistryServiceSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = storage.NewMemory()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s.service = New(s.store, logger, nil, nil)
}

func TestRegistryServiceSuite(t *testing.T) {
	suite.Run(t, new(RegistryServiceSuite))
}

func (s *RegistryServiceSuite) registerHome(homeID int64) {
	_, err := s.service.RegisterHome(s.ctx, domain.Home{HomeID: homeID, Name: "Clinic", Type: domain.HomeTypeNursing})
	s.Require().NoError(err)
}

func (s *RegistryServiceSuite) registerSensor(sensorID int64) {
	_, err := s.service.RegisterSensor(s.ctx, domain.Sensor{SensorID: sensorID, HardwareVersion: "v1", SoftwareVersion: "1.0"})
	s.Require().NoError(err)
}

func (s *RegistryServiceSuite) registerSenior(seniorID, homeID int64) {
	_, err := s.service.RegisterSenior(s.ctx, domain.Senior{SeniorID: seniorID, Name: "A", HomeID: homeID})
	s.Require().NoError(err)
}

func (s *RegistryServiceSuite) TestRegisterHome() {
	home, err := s.service.RegisterHome(s.ctx, domain.Home{HomeID: 1, Name: "Clinic", Type: domain.HomeTypeNursing})
	s.Require().NoError(err)
	s.Equal(int64(1), home.HomeID)

	stored, err := s.store.FindOne(s.ctx, storage.CollectionHomes, storage.Filter{"homeId": int64(1)})
	s.Require().NoError(err)
	s.Equal("NURSING", stored["type"])
}

func (s *RegistryServiceSuite) TestRegisterHomeRejectsDuplicateID() {
	s.registerHome(1)
	_, err := s.service.RegisterHome(s.ctx, domain.Home{HomeID: 1, Name: "Other", Type: domain.HomeTypePrivate})
	s.Require().Error(err)
	s.True(dErrors.Is(err, dErrors.CodeReference))
	s.EqualError(err, "Home 1 already exists.")
}

func (s *RegistryServiceSuite) TestRegisterHomeRejectsInvalidType() {
	_, err := s.service.RegisterHome(s.ctx, domain.Home{HomeID: 1, Name: "Clinic", Type: "HOSPITAL"})
	s.Require().Error(err)
	s.True(dErrors.Is(err, dErrors.CodeValidation))
}

func (s *RegistryServiceSuite) TestRegisterSeniorRequiresHome() {
	_, err := s.service.RegisterSenior(s.ctx, domain.Senior{SeniorID: 100, Name: "A", HomeID: 7})
	s.Require().Error(err)
	s.True(dErrors.Is(err, dErrors.CodeReference))
	s.EqualError(err, "Can't assign senior to home ID 7 (home doesn't exist).")
}

// Caller-supplied enabled and sensorId must never survive creation.
func (s *RegistryServiceSuite) TestRegisterSeniorStripsEnabledAndSensor() {
	s.registerHome(1)
	sensorID := int64(200)
	senior, err := s.service.RegisterSenior(s.ctx, domain.Senior{
		SeniorID: 100,
		Name:     "A",
		HomeID:   1,
		Enabled:  true,
		SensorID: &sensorID,
	})
	s.Require().NoError(err)
	s.False(senior.Enabled)
	s.Nil(senior.SensorID)

	stored, err := s.store.FindOne(s.ctx, storage.CollectionSeniors, storage.Filter{"seniorId": int64(100)})
	s.Require().NoError(err)
	s.Equal(false, stored["enabled"])
	s.NotContains(stored, "sensorId")
}

func (s *RegistryServiceSuite) TestAssignSensor() {
	s.registerHome(1)
	s.registerSenior(100, 1)
	s.registerSensor(200)

	s.Require().NoError(s.service.AssignSensor(s.ctx, domain.SensorAssignment{SeniorID: 100, SensorID: 200}))

	senior, err := s.service.GetSenior(s.ctx, 100)
	s.Require().NoError(err)
	s.Require().NotNil(senior.SensorID)
	s.Equal(int64(200), *senior.SensorID)
}

// Check order is fixed: senior existence is reported before anything about
// the sensor, and the already-bound case is reported before sensor existence.
func (s *RegistryServiceSuite) TestAssignSensorCheckOrder() {
	err := s.service.AssignSensor(s.ctx, domain.SensorAssignment{SeniorID: 100, SensorID: 200})
	s.Require().EqualError(err, "Senior 100 doesn't exist. Please register him first, then assign a sensor.")

	s.registerHome(1)
	s.registerSenior(100, 1)

	// Sensor 200 was never registered, so the existence check fires next.
	err = s.service.AssignSensor(s.ctx, domain.SensorAssignment{SeniorID: 100, SensorID: 200})
	s.Require().EqualError(err, "Sensor ID 200 doesn't exist.")
}

func (s *RegistryServiceSuite) TestAssignSensorUniqueness() {
	s.registerHome(1)
	s.registerSenior(100, 1)
	s.registerSenior(101, 1)
	s.registerSensor(200)

	s.Require().NoError(s.service.AssignSensor(s.ctx, domain.SensorAssignment{SeniorID: 100, SensorID: 200}))

	err := s.service.AssignSensor(s.ctx, domain.SensorAssignment{SeniorID: 101, SensorID: 200})
	s.Require().Error(err)
	s.True(dErrors.Is(err, dErrors.CodeReference))
	s.EqualError(err, "Sensor 200 already belongs to a senior.")

	// The original binding survives the rejected attempt.
	first, err := s.service.GetSenior(s.ctx, 100)
	s.Require().NoError(err)
	s.Require().NotNil(first.SensorID)
	s.Equal(int64(200), *first.SensorID)

	second, err := s.service.GetSenior(s.ctx, 101)
	s.Require().NoError(err)
	s.Nil(second.SensorID)
}

func (s *RegistryServiceSuite) TestGetSeniorNotFound() {
	_, err := s.service.GetSenior(s.ctx, 404)
	s.Require().Error(err)
	s.True(dErrors.Is(err, dErrors.CodeNotFound))
	s.EqualError(err, "Senior 404 doesn't exist.")
}

func (s *RegistryServiceSuite) TestGetSeniorRejectsOutOfRangeID() {
	_, err := s.service.GetSenior(s.ctx, -1)
	s.Require().Error(err)
	s.True(dErrors.Is(err, dErrors.CodeValidation))
}
