package handler

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHealth(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/health", nil)
	requireStatus(t, rec, http.StatusOK)

	health := decode[HealthResponse](t, rec)
	assert.Equal(t, "ok", health.Status)
	assert.Equal(t, "2024-01", health.ActiveMonth)
	assert.False(t, health.AIConfigured)
	assert.Zero(t, health.Clients)
}

func TestOpenAPI3Spec(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/openapi.json", nil)
	requireStatus(t, rec, http.StatusOK)

	spec := decode[OpenAPI3Spec](t, rec)
	assert.Equal(t, "3.0.3", spec.OpenAPI)
	assert.Equal(t, "http://localhost:8080/api", spec.Servers[0].URL)
	assert.Equal(t, "Fintrack API", spec.Info["title"])
}

func TestConvertParameter(t *testing.T) {
	param := map[string]interface{}{
		"name": "monthId", "in": "path", "required": true, "type": "string",
	}
	out := convert(param).(map[string]interface{})
	assert.Equal(t, map[string]interface{}{"type": "string"}, out["schema"])
	assert.NotContains(t, out, "type")

	ref := convert(map[string]interface{}{"$ref": "#/definitions/domain.Goal"}).(map[string]interface{})
	assert.Equal(t, "#/components/schemas/domain.Goal", ref["$ref"])
}
