package specdoc

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/zeebo/blake3"

	"github.com/felixgeelhaar/ticketforge/internal/errors"
)

// Type is the declared planning category of a specification
type Type string

const (
	// TypePRD is a product requirements document
	TypePRD Type = "prd"
	// TypeTechnicalSpec is an engineering design document
	TypeTechnicalSpec Type = "technical_spec"
	// TypeArchitecture is a system architecture description
	TypeArchitecture Type = "architecture"
	// TypeFeatureList is a flat list of requested features
	TypeFeatureList Type = "feature_list"
	// TypeOpenAPI is an OpenAPI 3.x document, validated before planning
	TypeOpenAPI Type = "openapi"
)

// Types returns all valid specification types
func Types() []Type {
	return []Type{TypePRD, TypeTechnicalSpec, TypeArchitecture, TypeFeatureList, TypeOpenAPI}
}

// IsValid reports whether t is a known specification type
func (t Type) IsValid() bool {
	switch t {
	case TypePRD, TypeTechnicalSpec, TypeArchitecture, TypeFeatureList, TypeOpenAPI:
		return true
	default:
		return false
	}
}

// ParseType parses a string into a Type, tolerating case and hyphens
func ParseType(s string) (Type, error) {
	normalized := strings.ToLower(strings.TrimSpace(s))
	normalized = strings.ReplaceAll(normalized, "-", "_")

	t := Type(normalized)
	if !t.IsValid() {
		return "", errors.NewSpecTypeError(s)
	}
	return t, nil
}

// Specification is the raw planning input. ProjectContext is opaque to the
// pipeline; it is passed through to prompts untouched.
type Specification struct {
	ID             string `json:"id"`
	Content        string `json:"content"`
	Type           Type   `json:"type"`
	ProjectContext string `json:"project_context,omitempty"`
}

// Validate checks the specification before any planning work starts.
// OpenAPI documents are additionally parsed and validated structurally.
func (s *Specification) Validate() error {
	if strings.TrimSpace(s.Content) == "" {
		return errors.NewSpecEmptyError()
	}
	if !s.Type.IsValid() {
		return errors.NewSpecTypeError(string(s.Type))
	}
	if s.Type == TypeOpenAPI {
		if err := ValidateOpenAPI([]byte(s.Content)); err != nil {
			return err
		}
	}
	return nil
}

// Canonicalize returns a canonical JSON representation of the specification
// with stable ordering for consistent hashing
func Canonicalize(s *Specification) ([]byte, error) {
	data := map[string]interface{}{
		"id":      s.ID,
		"type":    string(s.Type),
		"content": s.Content,
	}
	if s.ProjectContext != "" {
		data["project_context"] = s.ProjectContext
	}

	// Marshal with sorted keys
	return json.Marshal(sortKeys(data))
}

// Hash computes the blake3 hash of the canonicalized specification.
// The hash is recorded on the planning result so callers can tell which
// exact input produced a plan.
func Hash(s *Specification) (string, error) {
	canonical, err := Canonicalize(s)
	if err != nil {
		return "", fmt.Errorf("canonicalize specification: %w", err)
	}

	hasher := blake3.New()
	if _, err := hasher.Write(canonical); err != nil {
		return "", fmt.Errorf("hash specification: %w", err)
	}

	return fmt.Sprintf("%x", hasher.Sum(nil)), nil
}

// sortKeys recursively sorts map keys for stable JSON output
func sortKeys(v interface{}) interface{} {
	switch val := v.(type) {
	case map[string]interface{}:
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		sorted := make(map[string]interface{}, len(val))
		for _, k := range keys {
			sorted[k] = sortKeys(val[k])
		}
		return sorted

	case []interface{}:
		for i, item := range val {
			val[i] = sortKeys(item)
		}
		return val

	default:
		return v
	}
}
