//go:build integration

package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"vetgate/internal/screening/models"
	"vetgate/internal/screening/store"
	id "vetgate/pkg/domain"
	"vetgate/pkg/platform/sentinel"
	"vetgate/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *store.Postgres
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	s.postgres = containers.NewPostgresContainer(s.T())
	s.store = store.NewPostgres(s.postgres.DB)
	s.Require().NoError(s.store.EnsureSchema(context.Background()))
}

func (s *PostgresStoreSuite) SetupTest() {
	s.Require().NoError(s.postgres.TruncateTables(context.Background(), "screening_cases"))
}

func newStoredCase(caseID string, status models.CaseStatus) models.Case {
	now := time.Now().UTC().Truncate(time.Millisecond)
	return models.Case{
		ID:     id.CaseID(caseID),
		Intake: models.Intake{FullName: "Jane Doe", Country: "US"},
		Status: status,
		Decisions: map[models.Stage]models.Decision{
			models.StageAML: {Stage: models.StageAML, Outcome: models.OutcomePass, Reasons: []string{}},
		},
		Timeline:  []models.TimelineEvent{{At: now, Event: "case_created"}},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (s *PostgresStoreSuite) TestRoundTrip() {
	ctx := context.Background()
	c := newStoredCase("pg-case-1", "AML_PROCEED")

	s.Require().NoError(s.store.Save(ctx, c))

	found, err := s.store.FindByID(ctx, c.ID)
	s.Require().NoError(err)
	s.Equal(c.ID, found.ID)
	s.Equal(c.Status, found.Status)
	s.Equal(c.Intake.FullName, found.Intake.FullName)
	s.Len(found.Decisions, 1)
	s.Len(found.Timeline, 1)
}

func (s *PostgresStoreSuite) TestUpsertAdvancesStatus() {
	ctx := context.Background()
	c := newStoredCase("pg-case-2", "CREATED")
	s.Require().NoError(s.store.Save(ctx, c))

	c.Status = "INCOME_PASS"
	c.UpdatedAt = c.UpdatedAt.Add(time.Second)
	s.Require().NoError(s.store.Save(ctx, c))

	found, err := s.store.FindByID(ctx, c.ID)
	s.Require().NoError(err)
	s.Equal(models.CaseStatus("INCOME_PASS"), found.Status)
	s.True(found.UpdatedAt.After(found.CreatedAt))
}

func (s *PostgresStoreSuite) TestMissReturnsNotFound() {
	_, err := s.store.FindByID(context.Background(), "pg-missing")
	s.ErrorIs(err, sentinel.ErrNotFound)
}
