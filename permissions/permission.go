// Package permissions holds the embedded route table used by the RBAC middleware.
package permissions

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"
)

//go:embed permissions.json
var embedded []byte

// Endpoint lists the roles allowed on one chi route pattern. Skip marks a public route.
type Endpoint struct {
	Path   string   `json:"path"`
	Method string   `json:"method"`
	Roles  []string `json:"roles"`
	Skip   bool     `json:"skip"`
}

// Allows reports whether role may call the endpoint. An endpoint without roles admits any caller.
func (e Endpoint) Allows(role string) bool {
	return e.Skip || len(e.Roles) == 0 || slices.Contains(e.Roles, role)
}

type PermissionData struct {
	Endpoints []Endpoint `json:"endpoints"`
	Skip      bool       `json:"skip"`

	index map[string]Endpoint
}

func routeKey(method, path string) string {
	return strings.ToUpper(method) + " " + path
}

// Find returns the entry for a route pattern and method, or the zero Endpoint when none is listed.
func (p *PermissionData) Find(path, method string) Endpoint {
	return p.index[routeKey(method, path)]
}

func Parse(data []byte) (*PermissionData, error) {
	permissions := &PermissionData{}
	if err := json.Unmarshal(data, permissions); err != nil {
		return nil, fmt.Errorf("decode permissions: %w", err)
	}

	permissions.index = make(map[string]Endpoint, len(permissions.Endpoints))

	for _, endpoint := range permissions.Endpoints {
		key := routeKey(endpoint.Method, endpoint.Path)
		if _, dup := permissions.index[key]; dup {
			return nil, fmt.Errorf("duplicate permission entry %q", key)
		}

		permissions.index[key] = endpoint
	}

	return permissions, nil
}

var load = sync.OnceValue(func() *PermissionData {
	permissions, err := Parse(embedded)
	if err != nil {
		log.Error().Err(err).Msg("Failed to decode embedded permissions")

		return nil
	}

	log.Info().Int("endpoints", len(permissions.Endpoints)).Msg("Loaded embedded permissions")

	return permissions
})

// Get returns the embedded table, or nil when it cannot be decoded. RBAC denies every request in that case.
func Get() *PermissionData {
	return load()
}
