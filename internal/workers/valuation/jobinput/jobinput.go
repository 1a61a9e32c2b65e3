// Package jobinput holds the job-variable plumbing shared by the valuation
// workers: schema fragments, decoding and error classification.
package jobinput

import (
	"encoding/json"
	stderrors "errors"
	"fmt"

	"artvaluation-workers/internal/common/errors"
	"artvaluation-workers/internal/valuation"
)

// AssumptionsSchema validates the optional "assumptions" override object.
// Range checks are left to valuation.Assumptions.Validate so that rejected
// values surface as INVALID_INPUT with the offending field.
const AssumptionsSchema = `{
  "type": "object",
  "additionalProperties": false,
  "properties": {
    "basePrice": {"type": "number"},
    "annualGrowth": {"type": "number"},
    "penetration": {"type": "number"},
    "horizonYears": {"type": "integer"},
    "fixedCosts": {"type": "number"},
    "variableCostRatio": {"type": "number"},
    "aestheticDepreciation": {"type": "number"}
  }
}`

// ScenariosSchema validates an optional custom scenario list.
const ScenariosSchema = `{
  "type": "array",
  "minItems": 1,
  "items": {
    "type": "object",
    "required": ["label", "delta"],
    "additionalProperties": false,
    "properties": {
      "label": {"type": "string", "minLength": 1},
      "delta": {"type": "number"}
    }
  }
}`

// ScoresSchema validates a named scorecard.
const ScoresSchema = `{
  "type": "array",
  "minItems": 12,
  "maxItems": 12,
  "items": {
    "type": "object",
    "required": ["dimension", "rating"],
    "additionalProperties": false,
    "properties": {
      "dimension": {"type": "string", "minLength": 1},
      "rating": {"type": "integer", "minimum": 1, "maximum": 5}
    }
  }
}`

// RatingsSchema validates twelve ratings in dimension order.
const RatingsSchema = `{
  "type": "array",
  "minItems": 12,
  "maxItems": 12,
  "items": {"type": "integer", "minimum": 1, "maximum": 5}
}`

// Decode copies decoded job variables into dest through their JSON form.
func Decode(variables map[string]interface{}, dest interface{}) error {
	payload, err := json.Marshal(variables)
	if err != nil {
		return errors.NewInputParsingFailedError(err)
	}
	if err := json.Unmarshal(payload, dest); err != nil {
		return errors.NewInputParsingFailedError(err)
	}
	return nil
}

// Scorecard resolves the two accepted rating shapes. A named scorecard wins
// when both are present.
func Scorecard(scores []valuation.DimensionScore, ratings []int) ([]valuation.DimensionScore, error) {
	switch {
	case len(scores) > 0:
		return scores, nil
	case len(ratings) > 0:
		return valuation.ScoresFromRatings(ratings), nil
	default:
		return nil, errors.NewInvalidInputError("either scores or ratings is required")
	}
}

// Classify maps domain validation failures to INVALID_INPUT. It returns nil
// for anything else so the error handler can fall back to its defaults.
func Classify(err error) *errors.StandardError {
	if !stderrors.Is(err, valuation.ErrInvalidInput) {
		return nil
	}

	stdErr := errors.NewInvalidInputError(err.Error())
	var inputErr *valuation.InputError
	if stderrors.As(err, &inputErr) {
		stdErr.Metadata = map[string]interface{}{
			"invalidField": inputErr.Field,
			"reason":       inputErr.Reason,
		}
	}
	return stdErr
}

// Schema assembles an object schema from named property fragments.
func Schema(required []string, properties map[string]string) string {
	req, _ := json.Marshal(required)
	if required == nil {
		req = []byte("[]")
	}

	props := make(map[string]json.RawMessage, len(properties))
	for name, fragment := range properties {
		props[name] = json.RawMessage(fragment)
	}
	body, _ := json.Marshal(props)

	return fmt.Sprintf(`{"type": "object", "required": %s, "properties": %s}`, req, body)
}
