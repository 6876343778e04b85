package lucygen

import (
	"fmt"
	"strconv"
)

// Params are the caller-supplied non-file fields for one generation.
// Zero values mean "not provided"; a nil Seed omits the field entirely.
type Params struct {
	Prompt      string
	Seed        *int64
	Resolution  string
	Orientation string
}

// BuildFields assembles the provider field map for the given operation.
//
// Rules, per operation spec:
//   - prompt is required; an empty prompt fails with MISSING_PROMPT before
//     any HTTP work is attempted
//   - seed is included only when the operation allows it and a value was
//     provided, stringified as its decimal representation
//   - a fixed resolution is always sent verbatim; caller-supplied values
//     are ignored so the dispatched request can never diverge from the
//     declared, read-only configuration
//   - settable enums (resolution, orientation) fall back to their default
//     when unset and fail with INVALID_OPTION on unknown values
//
// Absent optional fields are omitted entirely, never sent empty.
func BuildFields(spec OperationSpec, p Params) (map[string]string, error) {
	if p.Prompt == "" {
		return nil, newError(CodeMissingPrompt, string(spec.Op), "no prompt provided")
	}

	fields := map[string]string{"prompt": p.Prompt}

	if spec.AllowSeed && p.Seed != nil {
		fields["seed"] = strconv.FormatInt(*p.Seed, 10)
	}

	switch {
	case spec.FixedResolution != "":
		fields["resolution"] = spec.FixedResolution
	case len(spec.ResolutionChoices) > 0:
		value, err := pickOption(spec, "resolution", p.Resolution, spec.DefaultResolution, spec.ResolutionChoices)
		if err != nil {
			return nil, err
		}
		fields["resolution"] = value
	}

	if len(spec.OrientationChoices) > 0 {
		value, err := pickOption(spec, "orientation", p.Orientation, spec.DefaultOrientation, spec.OrientationChoices)
		if err != nil {
			return nil, err
		}
		fields["orientation"] = value
	}

	return fields, nil
}

// pickOption applies the default for unset enum fields and validates
// supplied values against the legal choices.
func pickOption(spec OperationSpec, field, value, fallback string, choices []string) (string, error) {
	if value == "" {
		return fallback, nil
	}
	for _, choice := range choices {
		if value == choice {
			return value, nil
		}
	}
	return "", newError(CodeInvalidOption, string(spec.Op),
		fmt.Sprintf("invalid %s %q, must be one of %v", field, value, choices))
}
