package handlers

import (
	"fmt"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/beacondev/beacon/db"
	"github.com/beacondev/beacon/internal/middleware"
	"github.com/beacondev/beacon/internal/models"
	"github.com/beacondev/beacon/internal/types"
	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB points the global db.DB at a fresh in-memory database for the
// duration of one test.
func setupTestDB(t *testing.T) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))

	database, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	previous := db.DB
	db.DB = database
	require.NoError(t, db.MigrateDatabase())

	t.Cleanup(func() {
		if sqlDB, err := database.DB(); err == nil {
			sqlDB.Close()
		}
		db.DB = previous
	})
}

// seedOrgMember creates an organization and an admin member whose current
// organization is set to it.
func seedOrgMember(t *testing.T) (models.Organization, models.User) {
	t.Helper()

	org := models.Organization{Name: "Acme", Slug: "acme"}
	require.NoError(t, db.DB.Create(&org).Error)

	user := models.User{Name: "Ops", Email: "ops@example.com", PasswordHash: "x", OrganizationID: &org.ID}
	require.NoError(t, db.DB.Create(&user).Error)

	membership := models.OrganizationMembership{UserID: user.ID, OrganizationID: org.ID, Role: "admin"}
	require.NoError(t, db.DB.Create(&membership).Error)

	return org, user
}

// authedRequest builds a gin test context with a JSON body and the given user
// already authenticated.
func authedRequest(t *testing.T, user models.User, method, target, body string) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()

	gin.SetMode(gin.TestMode)

	recorder := httptest.NewRecorder()
	ctx, _ := gin.CreateTestContext(recorder)

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	ctx.Request = req

	ctx.Set(types.ContextUserKey, middleware.AuthenticatedUser{
		ID:             user.ID,
		Name:           user.Name,
		Email:          user.Email,
		OrganizationID: user.OrganizationID,
	})

	return ctx, recorder
}
