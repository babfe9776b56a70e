package indicator

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rxtech-lab/argo-screener/internal/types"
	"github.com/rxtech-lab/argo-screener/pkg/errors"
)

// Indicator is one configured technical indicator. Implementations are plain
// parameter structs; Compute is a pure function of the frame.
type Indicator interface {
	// Name returns the name of the indicator
	Name() types.IndicatorType
	// Config sets the parameters positionally, in the order of the list form
	// accepted in configuration files (e.g. sma: [20, 10] is slow, fast).
	Config(params ...any) error
	// Validate checks the parameters. It is called once before any data is fetched.
	Validate() error
	// WarmUp returns the number of leading bars that are never classified.
	WarmUp() int
	// Compute classifies every bar of the frame. The result has frame.Len() cells.
	Compute(frame Frame) []types.Signal
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("yaml"), ",", 2)[0]
		if name == "" || name == "-" {
			return field.Name
		}

		return name
	})

	return v
}

// validateParams runs the struct tags of an indicator and maps the first
// failure onto an error code.
func validateParams(name types.IndicatorType, params any) error {
	err := validate.Struct(params)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) || len(validationErrors) == 0 {
		return errors.Wrapf(errors.ErrCodeInvalidParameter, err, "%s: invalid parameters", name)
	}

	fe := validationErrors[0]
	code := errors.ErrCodeInvalidWindow

	switch {
	case fe.Tag() == "ltfield":
		code = errors.ErrCodeInvalidCrossover
	case fe.Kind() == reflect.Float64:
		code = errors.ErrCodeInvalidMultiplier
	}

	return errors.Newf(code, "%s: %s=%v fails %s", name, fe.Field(), fe.Value(), constraint(fe))
}

func constraint(fe validator.FieldError) string {
	if fe.Param() == "" {
		return fe.Tag()
	}

	if fe.Tag() == "ltfield" {
		return "must be less than " + strings.ToLower(fe.Param())
	}

	return fe.Tag() + "=" + fe.Param()
}

// New returns the indicator registered under name with its default parameters.
func New(name types.IndicatorType) (Indicator, error) {
	switch name {
	case types.IndicatorTypeSMA:
		return NewSMA(), nil
	case types.IndicatorTypeEMA:
		return NewEMA(), nil
	case types.IndicatorTypeRSI:
		return NewRSI(), nil
	case types.IndicatorTypeMACD:
		return NewMACD(), nil
	case types.IndicatorTypeBollingerBands:
		return NewBollingerBands(), nil
	case types.IndicatorTypeStochastic:
		return NewStochastic(), nil
	case types.IndicatorTypeADX:
		return NewADX(), nil
	default:
		return nil, errors.Newf(errors.ErrCodeUnknownIndicator, "unknown indicator %q", name)
	}
}

// Defaults returns every supported indicator with default parameters, in
// canonical order.
func Defaults() []Indicator {
	indicators := make([]Indicator, 0, len(types.IndicatorTypes))

	for _, name := range types.IndicatorTypes {
		ind, _ := New(name)
		indicators = append(indicators, ind)
	}

	return indicators
}

// intParam reads params[i] as an int. YAML and JSON decoders hand numbers
// over as int or float64, both are accepted as long as the value is whole.
func intParam(name types.IndicatorType, params []any, i int, field string) (int, error) {
	switch v := params[i].(type) {
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case float64:
		if v != float64(int(v)) {
			return 0, errors.Newf(errors.ErrCodeInvalidParameter, "%s: %s must be a whole number, got %g", name, field, v)
		}

		return int(v), nil
	default:
		return 0, errors.Newf(errors.ErrCodeInvalidParameter, "%s: invalid type for %s parameter, expected int", name, field)
	}
}

func floatParam(name types.IndicatorType, params []any, i int, field string) (float64, error) {
	switch v := params[i].(type) {
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case float64:
		return v, nil
	default:
		return 0, errors.Newf(errors.ErrCodeInvalidParameter, "%s: invalid type for %s parameter, expected number", name, field)
	}
}

func expectParams(name types.IndicatorType, params []any, fields ...string) error {
	if len(params) != len(fields) {
		return errors.Newf(errors.ErrCodeMissingParameter, "%s: Config expects %d parameter(s): %s, got %d",
			name, len(fields), strings.Join(fields, ", "), len(params))
	}

	return nil
}
