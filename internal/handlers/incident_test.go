package handlers

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/beacondev/beacon/db"
	"github.com/beacondev/beacon/internal/models"
	"github.com/beacondev/beacon/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCascadeIncidentStatusUpdatesAffectedServices(t *testing.T) {
	setupTestDB(t)
	org, _ := seedOrgMember(t)

	operational := models.Service{OrganizationID: org.ID, Name: "api", Status: types.StatusOperational}
	require.NoError(t, db.DB.Create(&operational).Error)

	alreadyDown := models.Service{OrganizationID: org.ID, Name: "web", Status: types.StatusMajorOutage}
	require.NoError(t, db.DB.Create(&alreadyDown).Error)

	var before models.Service
	require.NoError(t, db.DB.First(&before, alreadyDown.ID).Error)

	cascadeIncidentStatus([]models.Service{operational, alreadyDown}, types.StatusMajorOutage)

	var gotA, gotB models.Service
	require.NoError(t, db.DB.First(&gotA, operational.ID).Error)
	require.NoError(t, db.DB.First(&gotB, alreadyDown.ID).Error)

	assert.Equal(t, types.StatusMajorOutage, gotA.Status)
	assert.Equal(t, types.StatusMajorOutage, gotB.Status)

	// The service already at the cascaded status was not rewritten.
	assert.True(t, gotB.UpdatedAt.Equal(before.UpdatedAt))
}

func TestCascadeIncidentStatusIgnoresIncidentVocabulary(t *testing.T) {
	setupTestDB(t)
	org, _ := seedOrgMember(t)

	service := models.Service{OrganizationID: org.ID, Name: "api", Status: types.StatusOperational}
	require.NoError(t, db.DB.Create(&service).Error)

	cascadeIncidentStatus([]models.Service{service}, types.IncidentInvestigating)

	var got models.Service
	require.NoError(t, db.DB.First(&got, service.ID).Error)
	assert.Equal(t, types.StatusOperational, got.Status)
}

func TestCreateIncidentCascadesExplicitServiceStatus(t *testing.T) {
	setupTestDB(t)
	org, user := seedOrgMember(t)

	service := models.Service{OrganizationID: org.ID, Name: "api", Status: types.StatusOperational}
	require.NoError(t, db.DB.Create(&service).Error)

	body := fmt.Sprintf(
		`{"title":"db down","status":"investigating","service_ids":[%d],"service_status":"major_outage"}`,
		service.ID,
	)
	ctx, recorder := authedRequest(t, user, http.MethodPost, "/api/incidents", body)

	CreateIncident(ctx)
	require.Equal(t, http.StatusCreated, recorder.Code, recorder.Body.String())

	var got models.Service
	require.NoError(t, db.DB.First(&got, service.ID).Error)
	assert.Equal(t, types.StatusMajorOutage, got.Status)
}

func TestCreateIncidentWithIncidentStatusLeavesServicesAlone(t *testing.T) {
	setupTestDB(t)
	org, user := seedOrgMember(t)

	service := models.Service{OrganizationID: org.ID, Name: "api", Status: types.StatusOperational}
	require.NoError(t, db.DB.Create(&service).Error)

	body := fmt.Sprintf(
		`{"title":"db down","status":"investigating","service_ids":[%d]}`,
		service.ID,
	)
	ctx, recorder := authedRequest(t, user, http.MethodPost, "/api/incidents", body)

	CreateIncident(ctx)
	require.Equal(t, http.StatusCreated, recorder.Code, recorder.Body.String())

	// "investigating" is not a service status, so nothing cascades.
	var got models.Service
	require.NoError(t, db.DB.First(&got, service.ID).Error)
	assert.Equal(t, types.StatusOperational, got.Status)
}

func TestCreateIncidentRejectsInvalidServiceStatus(t *testing.T) {
	setupTestDB(t)
	org, user := seedOrgMember(t)

	service := models.Service{OrganizationID: org.ID, Name: "api", Status: types.StatusOperational}
	require.NoError(t, db.DB.Create(&service).Error)

	body := fmt.Sprintf(
		`{"title":"db down","status":"investigating","service_ids":[%d],"service_status":"on-fire"}`,
		service.ID,
	)
	ctx, recorder := authedRequest(t, user, http.MethodPost, "/api/incidents", body)

	CreateIncident(ctx)
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}
