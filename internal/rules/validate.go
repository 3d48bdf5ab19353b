package rules

import "fmt"

// ValidationError describes a structural problem in a loaded catalog.
type ValidationError struct {
	Integration string `json:"integration,omitempty"`
	Field       string `json:"field"`
	Message     string `json:"message"`
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Integration != "" {
		return fmt.Sprintf("integration %q: %s: %s", e.Integration, e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate checks a catalog for structural errors and returns all of
// them. A nil result means the catalog is usable.
//
// Caller filters are not validated: every field of a filter may be
// empty (empty means match-any). Targets and wrappers are required to
// be fully named so the engine never matches or emits against an empty
// name.
func Validate(integrations []Integration) []ValidationError {
	var errs []ValidationError

	seen := make(map[string]bool, len(integrations))
	for _, integ := range integrations {
		if integ.Name == "" {
			errs = append(errs, ValidationError{Field: "name", Message: "integration name is required"})
			continue
		}
		if seen[integ.Name] {
			errs = append(errs, ValidationError{Integration: integ.Name, Field: "name", Message: "duplicate integration name"})
		}
		seen[integ.Name] = true

		if len(integ.MethodReplacements) == 0 {
			errs = append(errs, ValidationError{Integration: integ.Name, Field: "method_replacements", Message: "at least one method replacement is required"})
		}

		for i, mr := range integ.MethodReplacements {
			prefix := fmt.Sprintf("method_replacements[%d]", i)
			if mr.Target.Type == "" {
				errs = append(errs, ValidationError{Integration: integ.Name, Field: prefix + ".target.type", Message: "target type is required"})
			}
			if mr.Target.Method == "" {
				errs = append(errs, ValidationError{Integration: integ.Name, Field: prefix + ".target.method", Message: "target method is required"})
			}
			if mr.Wrapper.Assembly.Name == "" {
				errs = append(errs, ValidationError{Integration: integ.Name, Field: prefix + ".wrapper.assembly.name", Message: "wrapper assembly name is required"})
			}
			if mr.Wrapper.Type == "" {
				errs = append(errs, ValidationError{Integration: integ.Name, Field: prefix + ".wrapper.type", Message: "wrapper type is required"})
			}
			if mr.Wrapper.Method == "" {
				errs = append(errs, ValidationError{Integration: integ.Name, Field: prefix + ".wrapper.method", Message: "wrapper method is required"})
			}
			if mr.Wrapper.Signature == "" {
				errs = append(errs, ValidationError{Integration: integ.Name, Field: prefix + ".wrapper.signature", Message: "wrapper signature is required"})
			}
		}
	}

	return errs
}
