package specdoc

import (
	"context"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/felixgeelhaar/ticketforge/internal/errors"
)

// ValidateOpenAPI parses content as an OpenAPI 3.x document and validates it
// structurally. External refs are not resolved; planning input must be
// self-contained.
func ValidateOpenAPI(content []byte) error {
	loader := openapi3.NewLoader()
	loader.IsExternalRefsAllowed = false

	doc, err := loader.LoadFromData(content)
	if err != nil {
		return errors.NewSpecOpenAPIError(err)
	}

	if err := doc.Validate(context.Background()); err != nil {
		return errors.NewSpecOpenAPIError(err)
	}

	return nil
}
