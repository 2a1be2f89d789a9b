package main

import (
	"bytes"
	"path/filepath"
	"testing"
	"time"

	"github.com/franciscosanchezn/claim-tracker-api/internal/database"
	"github.com/franciscosanchezn/claim-tracker-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// fileOpener opens a fresh connection to one sqlite file per call
func fileOpener(t *testing.T) dbOpener {
	path := filepath.Join(t.TempDir(), "claimctl.db")
	return func() (*gorm.DB, error) {
		return database.InitDatabase(database.DatabaseConfig{Driver: "sqlite", Path: path, MaxRetries: 1})
	}
}

func run(t *testing.T, open dbOpener, args ...string) (string, error) {
	root := newRootCmd(open)
	out := &bytes.Buffer{}
	root.SetOut(out)
	root.SetErr(out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestMigrateAndCreateUser(t *testing.T) {
	open := fileOpener(t)

	out, err := run(t, open, "migrate")
	require.NoError(t, err)
	assert.Contains(t, out, "Schema migrated")

	out, err = run(t, open, "create-user", "--email", "admin@example.com", "--password", "pw", "--role", "admin")
	require.NoError(t, err)
	assert.Contains(t, out, "admin@example.com")
	assert.Contains(t, out, "role admin")

	db, err := open()
	require.NoError(t, err)
	defer database.Close(db)

	var user models.User
	require.NoError(t, db.Where("email = ?", "admin@example.com").First(&user).Error)
	assert.Equal(t, models.RoleAdmin, user.Role)
	assert.True(t, user.CheckPassword("pw"))
}

func TestCreateUserRejectsUnknownRole(t *testing.T) {
	open := fileOpener(t)
	_, err := run(t, open, "migrate")
	require.NoError(t, err)

	_, err = run(t, open, "create-user", "--email", "a@example.com", "--password", "pw", "--role", "root")
	assert.ErrorIs(t, err, models.ErrValidation)
}

func TestCreateUserRequiresFlags(t *testing.T) {
	_, err := run(t, fileOpener(t), "create-user", "--email", "a@example.com")
	assert.Error(t, err)
}

func TestListInsurances(t *testing.T) {
	open := fileOpener(t)
	_, err := run(t, open, "migrate")
	require.NoError(t, err)

	db, err := open()
	require.NoError(t, err)
	pending := models.StatusPending
	require.NoError(t, db.Create(&models.InsuranceRecord{Name: "Jane", Address: "1 Main St", IMEI: "111"}).Error)
	require.NoError(t, db.Create(&models.InsuranceRecord{Name: "John", Address: "2 Main St", IMEI: "222", Status: &pending}).Error)
	require.NoError(t, database.Close(db))

	out, err := run(t, open, "list-insurances")
	require.NoError(t, err)
	assert.Contains(t, out, "IMEI")
	assert.Contains(t, out, "111")
	assert.Contains(t, out, "pending")
}

func TestPurgeTokens(t *testing.T) {
	open := fileOpener(t)
	_, err := run(t, open, "migrate")
	require.NoError(t, err)

	db, err := open()
	require.NoError(t, err)
	require.NoError(t, db.Create(&models.OAuthToken{ClientID: "web", AccessToken: "old", ExpiresAt: time.Now().Add(-time.Hour)}).Error)
	require.NoError(t, db.Create(&models.OAuthToken{ClientID: "web", AccessToken: "new", ExpiresAt: time.Now().Add(time.Hour)}).Error)
	require.NoError(t, database.Close(db))

	out, err := run(t, open, "purge-tokens")
	require.NoError(t, err)
	assert.Contains(t, out, "Removed 1 expired tokens")
}
