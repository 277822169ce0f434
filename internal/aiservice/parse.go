package aiservice

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"MediBot/internal/apperr"
)

var nutritionFields = []string{"calories", "fat", "carbohydrates", "sugar", "protein", "serving_size"}

// jsonObjectPattern is greedy: it spans from the first '{' to the last '}'.
var jsonObjectPattern = regexp.MustCompile(`(?s)\{.*\}`)

// decimalPattern admits plain decimal strings only.
var decimalPattern = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)$`)

var (
	ErrNoJSONObject    = apperr.New(apperr.KindProvider, "nutrition.parse", "no JSON object in model response")
	ErrNoNutritionData = apperr.New(apperr.KindProvider, "nutrition.parse", "model response has no nutrition fields")
)

const errNotNumericOrNull = "must be a number or null"

// SchemaError reports a field whose value does not fit NutritionFacts.
type SchemaError struct {
	Field  string
	Reason string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("nutrition field %q %s", e.Field, e.Reason)
}

// ParseNutritionFacts finds the JSON object inside a model reply and checks it
// against the NutritionFacts schema. Prose around the object is ignored.
// Absent keys become null; unknown keys are ignored.
func ParseNutritionFacts(text string) (*NutritionFacts, error) {
	match := jsonObjectPattern.FindString(text)
	if match == "" {
		return nil, ErrNoJSONObject
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal([]byte(match), &raw); err != nil {
		return nil, apperr.Wrap(apperr.KindProvider, "nutrition.parse", "model response JSON is malformed", err)
	}

	facts := &NutritionFacts{}
	numeric := map[string]**float64{
		"calories":      &facts.Calories,
		"fat":           &facts.Fat,
		"carbohydrates": &facts.Carbohydrates,
		"sugar":         &facts.Sugar,
		"protein":       &facts.Protein,
	}

	present := 0
	for _, field := range nutritionFields {
		value, ok := raw[field]
		if !ok {
			continue
		}
		present++

		if field == "serving_size" {
			s, err := parseNullableString(value)
			if err != nil {
				return nil, schemaErr(field, err.Error())
			}
			facts.ServingSize = s
			continue
		}

		n, err := parseNullableNumber(value)
		if err != nil {
			return nil, schemaErr(field, err.Error())
		}
		*numeric[field] = n
	}

	if present == 0 {
		return nil, ErrNoNutritionData
	}
	return facts, nil
}

func schemaErr(field, reason string) error {
	return apperr.Wrap(apperr.KindProvider, "nutrition.parse", "model response does not match schema",
		&SchemaError{Field: field, Reason: reason})
}

func parseNullableNumber(value json.RawMessage) (*float64, error) {
	value = bytes.TrimSpace(value)
	if isNull(value) {
		return nil, nil
	}

	var n float64
	if value[0] == '"' {
		var s string
		if err := json.Unmarshal(value, &s); err != nil {
			return nil, errors.New(errNotNumericOrNull)
		}
		s = strings.TrimSpace(s)
		if s == "" {
			return nil, nil
		}
		if !decimalPattern.MatchString(s) {
			return nil, fmt.Errorf("%s, got %q", errNotNumericOrNull, s)
		}
		parsed, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, fmt.Errorf("%s, got %q", errNotNumericOrNull, s)
		}
		n = parsed
	} else if err := json.Unmarshal(value, &n); err != nil {
		return nil, fmt.Errorf("%s, got %s", errNotNumericOrNull, string(value))
	}

	if math.IsNaN(n) || math.IsInf(n, 0) {
		return nil, errors.New("must be finite")
	}
	if n < 0 {
		return nil, errors.New("must not be negative")
	}
	return &n, nil
}

func parseNullableString(value json.RawMessage) (*string, error) {
	value = bytes.TrimSpace(value)
	if isNull(value) {
		return nil, nil
	}
	var s string
	if err := json.Unmarshal(value, &s); err != nil {
		return nil, fmt.Errorf("must be a string or null, got %s", string(value))
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	return &s, nil
}

func isNull(value json.RawMessage) bool {
	return len(value) == 0 || bytes.Equal(value, []byte("null"))
}
