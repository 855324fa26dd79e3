package repository

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"carehaven-edgesim/internal/models"
)

func setupMockSessionsDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock, *SessionsRepository) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	logger := zap.NewNop()
	repo := NewSessionsRepository(db, logger)

	return db, mock, repo
}

func sampleSession(patientID string) models.CognitiveSession {
	return models.CognitiveSession{
		DeviceID:    "SPK-001",
		PatientID:   patientID,
		SessionDate: "2025-09-01T08:12:00Z",
		Attention: models.AttentionMetrics{
			DigitSpanMax: 6, Errors: 1, LatencySec: 1.42,
		},
		ExecutiveFunction: models.ExecutiveFunctionMetrics{
			VerbalFluencyWords: 19, ArticulationRateWps: 1.85, AvgPauseMs: 1040,
		},
		Memory: models.MemoryMetrics{
			ImmediateRecall: 4, DelayedRecall: 3, IntrusionErrors: 0,
		},
		Orientation: models.OrientationMetrics{
			DateCorrect: true, CityCorrect: true,
		},
		ProcessingSpeed: models.ProcessingSpeedMetrics{
			AvgReactionTimeMs: 612, MissedTrials: 0,
		},
		MoodBehavior: models.MoodBehaviorMetrics{
			SentimentScore: 0.62, NarrativeCoherence: 0.71,
		},
	}
}

func TestInsertSession_Success(t *testing.T) {
	db, mock, repo := setupMockSessionsDB(t)
	defer db.Close()

	ctx := context.Background()
	patientID := uuid.New().String()
	session := sampleSession(patientID)

	mock.ExpectExec(`INSERT INTO cognitive_health_data`).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := repo.InsertSession(ctx, &session, nil)

	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestInsertSession_WithCognitiveIndex(t *testing.T) {
	db, mock, repo := setupMockSessionsDB(t)
	defer db.Close()

	ctx := context.Background()
	session := sampleSession(uuid.New().String())
	idx := 0.78

	mock.ExpectExec(`INSERT INTO cognitive_health_data`).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := repo.InsertSession(ctx, &session, &idx)

	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestInsertSession_MissingPatientID(t *testing.T) {
	db, mock, repo := setupMockSessionsDB(t)
	defer db.Close()

	ctx := context.Background()
	session := sampleSession("")

	err := repo.InsertSession(ctx, &session, nil)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "patient_id is required")

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestInsertSessions_PartialFailure(t *testing.T) {
	db, mock, repo := setupMockSessionsDB(t)
	defer db.Close()

	ctx := context.Background()
	sessions := []models.CognitiveSession{
		sampleSession(uuid.New().String()),
		sampleSession(uuid.New().String()),
		sampleSession(uuid.New().String()),
	}

	mock.ExpectExec(`INSERT INTO cognitive_health_data`).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(`INSERT INTO cognitive_health_data`).
		WillReturnError(sql.ErrConnDone)
	mock.ExpectExec(`INSERT INTO cognitive_health_data`).
		WillReturnResult(sqlmock.NewResult(1, 1))

	stats, err := repo.InsertSessions(ctx, sessions)

	require.NoError(t, err)
	assert.Equal(t, 2, stats.Inserted)
	assert.Equal(t, 1, stats.Failed)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCountSessionsByPatient_Success(t *testing.T) {
	db, mock, repo := setupMockSessionsDB(t)
	defer db.Close()

	ctx := context.Background()
	patientID := uuid.New().String()

	rows := sqlmock.NewRows([]string{"count"}).AddRow(30)
	mock.ExpectQuery(`SELECT COUNT`).
		WithArgs(patientID).
		WillReturnRows(rows)

	count, err := repo.CountSessionsByPatient(ctx, patientID)

	require.NoError(t, err)
	assert.Equal(t, 30, count)

	require.NoError(t, mock.ExpectationsWereMet())
}
