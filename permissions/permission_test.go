package permissions_test

import (
	"fieldbook/permissions"
	"fieldbook/shared/constant"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet(t *testing.T) {
	data := permissions.Get()
	require.NotNil(t, data)

	tests := []struct {
		name    string
		path    string
		method  string
		role    string
		allowed bool
		skip    bool
	}{
		{name: "coach creates bookings", path: "/v1/bookings/", method: http.MethodPost, role: constant.RoleCoach, allowed: true},
		{name: "viewer cannot create bookings", path: "/v1/bookings/", method: http.MethodPost, role: constant.RoleViewer},
		{name: "viewer lists bookings", path: "/v1/bookings/", method: http.MethodGet, role: constant.RoleViewer, allowed: true},
		{name: "viewer checks availability", path: "/v1/bookings/availability", method: http.MethodPost, role: constant.RoleViewer, allowed: true},
		{name: "viewer cannot convert", path: "/v1/bookings/{id}/recurrence", method: http.MethodPost, role: constant.RoleViewer},
		{name: "admin deletes", path: "/v1/bookings/{id}", method: http.MethodDelete, role: constant.RoleAdmin, allowed: true},
		{name: "health skips auth", path: "/health", method: http.MethodGet, allowed: true, skip: true},
		{name: "unknown route allows any role", path: "/v1/unknown", method: http.MethodGet, role: constant.RoleViewer, allowed: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			permission := data.FindPermissions(tt.path, tt.method)

			assert.Equal(t, tt.allowed, permission.Allows(tt.role))
			assert.Equal(t, tt.skip, permission.Skip)
		})
	}
}

func TestParse(t *testing.T) {
	_, err := permissions.Parse([]byte("{"))
	assert.Error(t, err)

	_, err = permissions.Parse([]byte(`{"endpoints":[{"path":"v1/bookings","method":"GET"}]}`))
	assert.ErrorIs(t, err, permissions.ErrInvalidPermission)

	_, err = permissions.Parse([]byte(`{"endpoints":[{"path":"/v1/bookings","method":"FETCH"}]}`))
	assert.ErrorIs(t, err, permissions.ErrInvalidPermission)

	_, err = permissions.Parse([]byte(`{"endpoints":[{"path":"/a","method":"GET"},{"path":"/a","method":"GET","skip":true}]}`))
	assert.ErrorIs(t, err, permissions.ErrInvalidPermission)

	data, err := permissions.Parse([]byte(`{"skip":true}`))
	require.NoError(t, err)
	assert.True(t, data.Skip)
	assert.Empty(t, data.Endpoints)
}
