package utils

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
)

func paramID(ctx *gin.Context, name string) (uint64, error) {
	raw := ctx.Param(name)

	if raw == "" {
		return 0, errors.New("missing " + name)
	}

	id, err := strconv.ParseUint(raw, 10, 32)

	if err != nil {
		return 0, errors.New("invalid " + name)
	}

	return id, nil
}

func GetOrganizationID(ctx *gin.Context) (uint64, error) {
	return paramID(ctx, "organization_id")
}

func GetServiceID(ctx *gin.Context) (uint64, error) {
	return paramID(ctx, "service_id")
}

func GetIncidentID(ctx *gin.Context) (uint64, error) {
	return paramID(ctx, "incident_id")
}
