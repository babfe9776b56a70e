package config

import (
	"encoding/json"
	"reflect"
	"time"

	"github.com/invopop/jsonschema"
	"github.com/rxtech-lab/argo-screener/pkg/errors"
	"github.com/rxtech-lab/argo-screener/pkg/marketdata"
)

// JSONSchema generates the JSON schema of the configuration file.
func JSONSchema() *jsonschema.Schema {
	reflector := jsonschema.Reflector{
		DoNotReference:            true,
		ExpandedStruct:            true,
		AllowAdditionalProperties: false,
		Mapper: func(t reflect.Type) *jsonschema.Schema {
			switch t {
			case reflect.TypeOf(marketdata.Interval("")):
				return enumSchema("string", marketdata.Intervals)
			case reflect.TypeOf(marketdata.Period("")):
				return enumSchema("string", marketdata.Periods)
			case reflect.TypeOf(time.Duration(0)):
				return &jsonschema.Schema{Type: "string", Description: "Go duration, e.g. 30s"}
			}

			return nil
		},
	}

	schema := reflector.Reflect(&Config{})
	schema.Title = "screener-config"
	schema.Description = "Configuration of a signal screener run"
	schema.Version = "http://json-schema.org/draft-07/schema#"

	return schema
}

// JSONSchemaString renders JSONSchema as indented JSON.
func JSONSchemaString() (string, error) {
	data, err := json.MarshalIndent(JSONSchema(), "", "  ")
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeUnknown, "failed to marshal schema", err)
	}

	return string(data), nil
}

func enumSchema[T ~string](typ string, values []T) *jsonschema.Schema {
	enum := make([]any, len(values))
	for i, v := range values {
		enum[i] = string(v)
	}

	return &jsonschema.Schema{Type: typ, Enum: enum}
}
