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

func setupMockProfilesDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock, *ProfilesRepository) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	logger := zap.NewNop()
	repo := NewProfilesRepository(db, logger)

	return db, mock, repo
}

func profileColumns() []string {
	return []string{
		"patient_id", "name", "dob", "sex", "education_years",
		"comorbidities", "medications", "device_ids", "cognitive_baseline",
	}
}

func TestGetAllProfiles_Success(t *testing.T) {
	db, mock, repo := setupMockProfilesDB(t)
	defer db.Close()

	ctx := context.Background()
	patientID1 := uuid.New().String()
	patientID2 := uuid.New().String()

	rows := sqlmock.NewRows(profileColumns()).
		AddRow(patientID1, "John Smith", "1952-03-14", "male", 14,
			`["hypertension"]`, `["lisinopril"]`,
			`{"wearable":"WEAR-001","speech":"SPK-001"}`,
			`{"mmse":27,"moca":24,"depression_score":5}`).
		AddRow(patientID2, "Mary Johnson", "1948-11-02", "female", 12,
			`[]`, `[]`,
			`{"wearable":"WEAR-002"}`,
			nil)

	mock.ExpectQuery(`SELECT`).WillReturnRows(rows)

	profiles, err := repo.GetAllProfiles(ctx)

	require.NoError(t, err)
	require.Len(t, profiles, 2)
	assert.Equal(t, patientID1, profiles[0].PatientID)
	assert.Equal(t, "John Smith", profiles[0].Name)
	assert.Equal(t, []string{"hypertension"}, profiles[0].Comorbidities)
	assert.Equal(t, "SPK-001", profiles[0].Device(models.DeviceRoleSpeech))
	require.NotNil(t, profiles[0].CognitiveBaseline)
	assert.Equal(t, 27, profiles[0].CognitiveBaseline.MMSE)
	assert.Equal(t, 24, profiles[0].CognitiveBaseline.MoCA)

	assert.Equal(t, patientID2, profiles[1].PatientID)
	assert.Nil(t, profiles[1].CognitiveBaseline)
	assert.Equal(t, "", profiles[1].Device(models.DeviceRoleSpeech))

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetAllProfiles_Empty(t *testing.T) {
	db, mock, repo := setupMockProfilesDB(t)
	defer db.Close()

	ctx := context.Background()

	mock.ExpectQuery(`SELECT`).WillReturnRows(sqlmock.NewRows(profileColumns()))

	profiles, err := repo.GetAllProfiles(ctx)

	require.NoError(t, err)
	assert.Empty(t, profiles)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetRandomProfile_Success(t *testing.T) {
	db, mock, repo := setupMockProfilesDB(t)
	defer db.Close()

	ctx := context.Background()
	patientID := uuid.New().String()

	rows := sqlmock.NewRows(profileColumns()).
		AddRow(patientID, "Robert Brown", "1955-07-20", "male", 16,
			`["diabetes"]`, `["metformin"]`,
			`{"speech":"SPK-003"}`,
			`{"mmse":28,"moca":26,"depression_score":3}`)

	mock.ExpectQuery(`SELECT`).WillReturnRows(rows)

	profile, err := repo.GetRandomProfile(ctx)

	require.NoError(t, err)
	require.NotNil(t, profile)
	assert.Equal(t, patientID, profile.PatientID)
	assert.Equal(t, "SPK-003", profile.Device(models.DeviceRoleSpeech))

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetRandomProfile_NotFound(t *testing.T) {
	db, mock, repo := setupMockProfilesDB(t)
	defer db.Close()

	ctx := context.Background()

	mock.ExpectQuery(`SELECT`).WillReturnError(sql.ErrNoRows)

	profile, err := repo.GetRandomProfile(ctx)

	assert.Error(t, err)
	assert.Nil(t, profile)
	assert.Contains(t, err.Error(), "no patient profiles found")

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpsertProfiles_Success(t *testing.T) {
	db, mock, repo := setupMockProfilesDB(t)
	defer db.Close()

	ctx := context.Background()
	profiles := []models.PatientProfile{
		{
			PatientID:      uuid.New().String(),
			Name:           "John Smith",
			DOB:            "1952-03-14",
			Sex:            "male",
			EducationYears: 14,
			Comorbidities:  []string{"hypertension"},
			Medications:    []string{"lisinopril"},
			DeviceIDs:      map[string]string{"wearable": "WEAR-001"},
			CognitiveBaseline: &models.CognitiveBaseline{
				MMSE: 27, MoCA: 24, DepressionScore: 5,
			},
		},
		{
			PatientID:      uuid.New().String(),
			Name:           "Mary Johnson",
			DOB:            "1948-11-02",
			Sex:            "female",
			EducationYears: 12,
		},
	}

	// 第一行新插入，第二行为已存在更新
	mock.ExpectQuery(`INSERT INTO patient_profiles`).
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}).AddRow(true))
	mock.ExpectQuery(`INSERT INTO patient_profiles`).
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}).AddRow(false))

	stats, err := repo.UpsertProfiles(ctx, profiles)

	require.NoError(t, err)
	assert.Equal(t, 1, stats.Inserted)
	assert.Equal(t, 1, stats.Updated)
	assert.Equal(t, 0, stats.Failed)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpsertProfiles_PartialFailure(t *testing.T) {
	db, mock, repo := setupMockProfilesDB(t)
	defer db.Close()

	ctx := context.Background()
	profiles := []models.PatientProfile{
		{PatientID: uuid.New().String(), Name: "John Smith"},
		{PatientID: uuid.New().String(), Name: "Mary Johnson"},
	}

	mock.ExpectQuery(`INSERT INTO patient_profiles`).
		WillReturnError(sql.ErrConnDone)
	mock.ExpectQuery(`INSERT INTO patient_profiles`).
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}).AddRow(true))

	stats, err := repo.UpsertProfiles(ctx, profiles)

	require.NoError(t, err)
	assert.Equal(t, 1, stats.Inserted)
	assert.Equal(t, 1, stats.Failed)

	require.NoError(t, mock.ExpectationsWereMet())
}
