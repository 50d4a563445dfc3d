package config

import (
	"encoding/json"

	"github.com/invopop/jsonschema"
	"github.com/rxtech-lab/argo-equity/pkg/errors"
)

// ToJSONSchema renders the JSON schema of t with every definition inlined.
func ToJSONSchema[T any](t T) (string, error) {
	r := new(jsonschema.Reflector)
	r.DoNotReference = true
	schema := r.Reflect(t)

	raw, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeUnknown, "failed to encode JSON schema", err)
	}

	return string(raw), nil
}

// Schema returns the JSON schema of the config file.
func Schema() (string, error) {
	return ToJSONSchema(&Config{})
}
