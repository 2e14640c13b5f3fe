//go:build integration

package storage_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"caretrack/internal/storage"
	"caretrack/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	ctx   context.Context
	store *storage.Postgres
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	s.ctx = context.Background()
	pg := containers.NewPostgresContainer(s.T())

	store, err := storage.Open(s.ctx, pg.DSN)
	s.Require().NoError(err)
	s.Require().NoError(store.EnsureSchema(s.ctx))
	s.store = store
}

func (s *PostgresStoreSuite) TearDownSuite() {
	if s.store != nil {
		_ = s.store.Close()
	}
}

func (s *PostgresStoreSuite) SetupTest() {
	// An empty filter is contained in every document.
	for _, collection := range []string{
		storage.CollectionHomes,
		storage.CollectionSensors,
		storage.CollectionSeniors,
		storage.CollectionAudit,
	} {
		_, err := s.store.DeleteMany(s.ctx, collection, storage.Filter{})
		s.Require().NoError(err)
	}
}

func (s *PostgresStoreSuite) TestInsertAndFindOne() {
	s.Require().NoError(s.store.InsertOne(s.ctx, storage.CollectionHomes,
		storage.Document{"homeId": int64(1), "name": "Clinic", "type": "NURSING"}))

	doc, err := s.store.FindOne(s.ctx, storage.CollectionHomes, storage.Filter{"homeId": int64(1)})
	s.Require().NoError(err)
	s.Equal("Clinic", doc["name"])
	s.Equal(float64(1), doc["homeId"])
}

func (s *PostgresStoreSuite) TestFindOneNotFound() {
	_, err := s.store.FindOne(s.ctx, storage.CollectionHomes, storage.Filter{"homeId": int64(99)})
	s.Require().ErrorIs(err, storage.ErrNotFound)
}

func (s *PostgresStoreSuite) TestCollectionsAreIsolated() {
	s.Require().NoError(s.store.InsertOne(s.ctx, storage.CollectionSensors,
		storage.Document{"sensorId": int64(200)}))

	_, err := s.store.FindOne(s.ctx, storage.CollectionSeniors, storage.Filter{"sensorId": int64(200)})
	s.Require().ErrorIs(err, storage.ErrNotFound)
}

func (s *PostgresStoreSuite) TestFindOneAndUpdateMergesFields() {
	s.Require().NoError(s.store.InsertOne(s.ctx, storage.CollectionSeniors,
		storage.Document{"seniorId": int64(100), "name": "Anna", "enabled": false}))

	updated, err := s.store.FindOneAndUpdate(s.ctx, storage.CollectionSeniors,
		storage.Filter{"seniorId": int64(100)}, storage.Document{"sensorId": int64(200)})
	s.Require().NoError(err)
	s.Equal(float64(200), updated["sensorId"])
	s.Equal("Anna", updated["name"])

	doc, err := s.store.FindOne(s.ctx, storage.CollectionSeniors, storage.Filter{"sensorId": int64(200)})
	s.Require().NoError(err)
	s.Equal(float64(100), doc["seniorId"])
}

func (s *PostgresStoreSuite) TestFindOneAndUpdateNotFound() {
	_, err := s.store.FindOneAndUpdate(s.ctx, storage.CollectionSeniors,
		storage.Filter{"seniorId": int64(1)}, storage.Document{"sensorId": int64(2)})
	s.Require().ErrorIs(err, storage.ErrNotFound)
}

func (s *PostgresStoreSuite) TestDeleteMany() {
	s.Require().NoError(s.store.InsertOne(s.ctx, storage.CollectionHomes,
		storage.Document{"homeId": int64(1), "type": "NURSING"}))
	s.Require().NoError(s.store.InsertOne(s.ctx, storage.CollectionHomes,
		storage.Document{"homeId": int64(2), "type": "NURSING"}))
	s.Require().NoError(s.store.InsertOne(s.ctx, storage.CollectionHomes,
		storage.Document{"homeId": int64(3), "type": "PRIVATE"}))

	removed, err := s.store.DeleteMany(s.ctx, storage.CollectionHomes, storage.Filter{"type": "NURSING"})
	s.Require().NoError(err)
	s.Equal(int64(2), removed)

	_, err = s.store.FindOne(s.ctx, storage.CollectionHomes, storage.Filter{"homeId": int64(3)})
	s.Require().NoError(err)
}
