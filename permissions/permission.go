package permissions

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"strings"

	"github.com/rs/zerolog/log"
)

//go:embed permissions.json
var permissionsData []byte

var ErrInvalidPermission = errors.New("invalid permission entry")

var methods = []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete}

// Permission lists the roles allowed on one route pattern. An empty list allows any
// authenticated caller; Skip lets the route through without a token.
type Permission struct {
	Permissions []string `json:"permissions"`
	Path        string   `json:"path"`
	Method      string   `json:"method"`
	Skip        bool     `json:"skip"`
}

func (p Permission) Allows(role string) bool {
	return len(p.Permissions) == 0 || slices.Contains(p.Permissions, role)
}

func (p Permission) key() string {
	return p.Method + " " + p.Path
}

// PermissionData is the route table. Skip disables role checks for every route.
type PermissionData struct {
	Endpoints []Permission `json:"endpoints"`
	Skip      bool         `json:"skip"`

	index map[string]Permission
}

// FindPermissions looks up a chi route pattern. Unlisted routes get the zero Permission,
// which any authenticated caller passes.
func (r *PermissionData) FindPermissions(path, method string) Permission {
	return r.index[Permission{Path: path, Method: method}.key()]
}

// Parse decodes and indexes the route table, rejecting duplicate or malformed entries.
func Parse(data []byte) (*PermissionData, error) {
	var permissions PermissionData

	if err := json.Unmarshal(data, &permissions); err != nil {
		return nil, fmt.Errorf("failed to decode permissions: %w", err)
	}

	permissions.index = make(map[string]Permission, len(permissions.Endpoints))

	for _, endpoint := range permissions.Endpoints {
		if !strings.HasPrefix(endpoint.Path, "/") || !slices.Contains(methods, endpoint.Method) {
			return nil, fmt.Errorf("%w: %q %q", ErrInvalidPermission, endpoint.Method, endpoint.Path)
		}

		if _, exists := permissions.index[endpoint.key()]; exists {
			return nil, fmt.Errorf("%w: duplicate %s", ErrInvalidPermission, endpoint.key())
		}

		permissions.index[endpoint.key()] = endpoint
	}

	return &permissions, nil
}

// Get returns the embedded route table. A broken table is a build defect, so it is fatal.
func Get() *PermissionData {
	permissions, err := Parse(permissionsData)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load embedded permissions")
	}

	log.Info().Int("endpoints", len(permissions.Endpoints)).Msg("Successfully loaded embedded permissions")

	return permissions
}
