package config

import (
	"bytes"

	"github.com/invopop/jsonschema"
	"github.com/rxtech-lab/argo-screener/internal/indicator"
	"github.com/rxtech-lab/argo-screener/internal/types"
	"github.com/rxtech-lab/argo-screener/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Indicators is the ordered indicator section of a configuration file. In
// YAML it is a mapping from indicator name to its parameters, which may be
// null (defaults), a list (positional, as accepted by Indicator.Config) or a
// mapping of named parameters:
//
//	indicators:
//	  sma: [20, 10]
//	  rsi: {period: 14}
//	  adx: ~
//
// Mapping order is kept and becomes the column order of the signal table.
type Indicators []indicator.Indicator

// UnmarshalYAML implements yaml.Unmarshaler.
func (ins *Indicators) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode && value.Tag == "!!null" {
		*ins = nil

		return nil
	}

	if value.Kind != yaml.MappingNode {
		return errors.Newf(errors.ErrCodeInvalidConfiguration, "line %d: indicators must be a mapping of name to parameters", value.Line)
	}

	result := make(Indicators, 0, len(value.Content)/2)
	seen := make(map[string]bool, len(value.Content)/2)

	for i := 0; i+1 < len(value.Content); i += 2 {
		key, params := value.Content[i], value.Content[i+1]

		if seen[key.Value] {
			return errors.Newf(errors.ErrCodeIndicatorAlreadyExists, "line %d: indicator %s listed more than once", key.Line, key.Value)
		}

		seen[key.Value] = true

		ind, err := indicator.New(types.IndicatorType(key.Value))
		if err != nil {
			return err
		}

		if err := decodeParams(ind, params); err != nil {
			return err
		}

		result = append(result, ind)
	}

	*ins = result

	return nil
}

func decodeParams(ind indicator.Indicator, params *yaml.Node) error {
	switch params.Kind {
	case yaml.ScalarNode:
		if params.Tag == "!!null" {
			return nil
		}

		var single any
		if err := params.Decode(&single); err != nil {
			return errors.Wrapf(errors.ErrCodeInvalidParameter, err, "%s: line %d", ind.Name(), params.Line)
		}

		return ind.Config(single)
	case yaml.SequenceNode:
		var list []any
		if err := params.Decode(&list); err != nil {
			return errors.Wrapf(errors.ErrCodeInvalidParameter, err, "%s: line %d", ind.Name(), params.Line)
		}

		return ind.Config(list...)
	case yaml.MappingNode:
		return decodeNamedParams(ind, params)
	default:
		return errors.Newf(errors.ErrCodeInvalidParameter, "%s: line %d: unsupported parameter syntax", ind.Name(), params.Line)
	}
}

// decodeNamedParams decodes a parameter mapping, rejecting names the
// indicator does not have.
func decodeNamedParams(ind indicator.Indicator, params *yaml.Node) error {
	data, err := yaml.Marshal(params)
	if err != nil {
		return errors.Wrapf(errors.ErrCodeInvalidParameter, err, "%s: line %d", ind.Name(), params.Line)
	}

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)

	if err := decoder.Decode(ind); err != nil {
		return errors.Wrapf(errors.ErrCodeInvalidParameter, err, "%s: line %d", ind.Name(), params.Line)
	}

	return nil
}

// MarshalYAML implements yaml.Marshaler, writing the named parameter form.
func (ins Indicators) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}

	for _, ind := range ins {
		params := &yaml.Node{}
		if err := params.Encode(ind); err != nil {
			return nil, err
		}

		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: string(ind.Name())},
			params,
		)
	}

	return node, nil
}

// Names returns the indicator names in configuration order.
func (ins Indicators) Names() []types.IndicatorType {
	names := make([]types.IndicatorType, len(ins))
	for i, ind := range ins {
		names[i] = ind.Name()
	}

	return names
}

// JSONSchema describes the mapping with one optional property per
// supported indicator.
func (Indicators) JSONSchema() *jsonschema.Schema {
	reflector := jsonschema.Reflector{
		DoNotReference:            true,
		ExpandedStruct:            true,
		AllowAdditionalProperties: false,
	}

	properties := jsonschema.NewProperties()

	for _, ind := range indicator.Defaults() {
		params := reflector.Reflect(ind)
		params.Version = ""
		params.Description = "Parameters, a positional list, or null for defaults"
		params.Type = ""
		params.OneOf = []*jsonschema.Schema{
			{Type: "object", Properties: params.Properties, Required: params.Required, AdditionalProperties: jsonschema.FalseSchema},
			{Type: "array", Items: &jsonschema.Schema{Type: "number"}},
			{Type: "null"},
		}
		params.Properties = nil
		params.Required = nil
		params.AdditionalProperties = nil

		properties.Set(string(ind.Name()), params)
	}

	return &jsonschema.Schema{
		Type:                 "object",
		Title:                "Indicators",
		Description:          "Indicators to compute, in column order",
		Properties:           properties,
		AdditionalProperties: jsonschema.FalseSchema,
	}
}
