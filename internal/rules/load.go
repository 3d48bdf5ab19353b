package rules

import (
	"fmt"
	"os"
	"path/filepath"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/load"
	"cuelang.org/go/cue/token"

	"github.com/weftlabs/weft/internal/metadata"
)

// Error code constants for catalog loading.
const (
	ErrCodeGeneric     = "E001" // Generic/unknown error
	ErrCodeScanError   = "E002" // Directory scan error
	ErrCodeNoFiles     = "E003" // No CUE files found
	ErrCodeLoadFailed  = "E004" // CUE load failed
	ErrCodeNotFound    = "E005" // Path not found
	ErrCodeBuildFailed = "E006" // CUE build failed
	ErrCodeBadField    = "E008" // Field has wrong type or is malformed
)

// LoadError represents an error that occurred during catalog loading.
type LoadError struct {
	Code    string
	Message string
	Pos     token.Pos // CUE position if available
}

func (e *LoadError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// LoadResult contains the results of loading a catalog directory.
type LoadResult struct {
	Integrations []Integration
	CUEValue     cue.Value // The raw CUE value for additional processing
	FileCount    int       // Number of CUE files found
}

// LoadCatalog loads every CUE file in dir and decodes the integrations
// it declares. Integrations appear in the result in catalog declaration
// order; that order is the engine's rule evaluation order and is never
// re-sorted.
//
// All decode errors are collected; a non-nil result alongside errors
// means the well-formed part of the catalog was decoded.
func LoadCatalog(dir string) (*LoadResult, []error) {
	var errs []error

	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		return nil, []error{&LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("catalog directory not found: %s", dir)}}
	}
	if err != nil {
		return nil, []error{&LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("error accessing catalog directory: %v", err)}}
	}
	if !info.IsDir() {
		return nil, []error{&LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("not a directory: %s", dir)}}
	}

	cueFiles, err := findCUEFiles(dir)
	if err != nil {
		return nil, []error{&LoadError{Code: ErrCodeScanError, Message: fmt.Sprintf("error scanning directory: %v", err)}}
	}
	if len(cueFiles) == 0 {
		return nil, []error{&LoadError{Code: ErrCodeNoFiles, Message: fmt.Sprintf("no CUE files found in %s", dir)}}
	}

	ctx := cuecontext.New()
	cfg := &load.Config{Dir: dir}
	instances := load.Instances([]string{"."}, cfg)
	if len(instances) == 0 {
		return nil, []error{&LoadError{Code: ErrCodeLoadFailed, Message: "no CUE instances loaded"}}
	}

	inst := instances[0]
	if inst.Err != nil {
		return nil, []error{&LoadError{Code: ErrCodeLoadFailed, Message: fmt.Sprintf("loading CUE files: %v", inst.Err)}}
	}

	value := ctx.BuildInstance(inst)
	if err := value.Err(); err != nil {
		return nil, []error{&LoadError{Code: ErrCodeBuildFailed, Message: fmt.Sprintf("building CUE value: %v", err)}}
	}

	result := &LoadResult{
		CUEValue:  value,
		FileCount: len(cueFiles),
	}

	integrationsVal := value.LookupPath(cue.ParsePath("integrations"))
	if !integrationsVal.Exists() {
		errs = append(errs, &LoadError{Code: ErrCodeGeneric, Message: "no integrations found in catalog"})
		return result, errs
	}

	iter, iterErr := integrationsVal.Fields()
	if iterErr != nil {
		errs = append(errs, &LoadError{Code: ErrCodeGeneric, Message: fmt.Sprintf("iterating integrations: %v", iterErr)})
		return result, errs
	}
	for iter.Next() {
		integ, parseErrs := parseIntegration(iter.Label(), iter.Value())
		if len(parseErrs) > 0 {
			errs = append(errs, parseErrs...)
			continue
		}
		result.Integrations = append(result.Integrations, *integ)
	}

	if len(result.Integrations) == 0 && len(errs) == 0 {
		errs = append(errs, &LoadError{Code: ErrCodeGeneric, Message: "no integrations found in catalog"})
	}

	return result, errs
}

// parseIntegration decodes one integration struct. The integration's
// name is its struct label.
func parseIntegration(name string, v cue.Value) (*Integration, []error) {
	integ := &Integration{Name: name}

	mrsVal := v.LookupPath(cue.ParsePath("method_replacements"))
	if !mrsVal.Exists() {
		return nil, []error{badField(v.Pos(), "integrations.%s: method_replacements is required", name)}
	}

	var errs []error
	listIter, err := mrsVal.List()
	if err != nil {
		return nil, []error{badField(mrsVal.Pos(), "integrations.%s: method_replacements must be a list: %v", name, err)}
	}
	for i := 0; listIter.Next(); i++ {
		mr, parseErr := parseMethodReplacement(listIter.Value())
		if parseErr != nil {
			errs = append(errs, badField(listIter.Value().Pos(), "integrations.%s.method_replacements[%d]: %v", name, i, parseErr))
			continue
		}
		integ.MethodReplacements = append(integ.MethodReplacements, *mr)
	}
	if len(errs) > 0 {
		return nil, errs
	}
	return integ, nil
}

func parseMethodReplacement(v cue.Value) (*MethodReplacement, error) {
	mr := &MethodReplacement{}

	// caller is optional; absent means match-any.
	if callerVal := v.LookupPath(cue.ParsePath("caller")); callerVal.Exists() {
		var err error
		mr.Caller.Assembly, err = optionalString(callerVal, "assembly")
		if err != nil {
			return nil, err
		}
		mr.Caller.Type, err = optionalString(callerVal, "type")
		if err != nil {
			return nil, err
		}
		mr.Caller.Method, err = optionalString(callerVal, "method")
		if err != nil {
			return nil, err
		}
	}

	targetVal := v.LookupPath(cue.ParsePath("target"))
	if !targetVal.Exists() {
		return nil, fmt.Errorf("target is required")
	}
	var err error
	mr.Target.Type, err = requiredString(targetVal, "type")
	if err != nil {
		return nil, err
	}
	mr.Target.Method, err = requiredString(targetVal, "method")
	if err != nil {
		return nil, err
	}

	wrapperVal := v.LookupPath(cue.ParsePath("wrapper"))
	if !wrapperVal.Exists() {
		return nil, fmt.Errorf("wrapper is required")
	}
	mr.Wrapper.Assembly, err = parseAssemblyIdentity(wrapperVal.LookupPath(cue.ParsePath("assembly")))
	if err != nil {
		return nil, err
	}
	mr.Wrapper.Type, err = requiredString(wrapperVal, "type")
	if err != nil {
		return nil, err
	}
	mr.Wrapper.Method, err = requiredString(wrapperVal, "method")
	if err != nil {
		return nil, err
	}
	mr.Wrapper.Signature, err = requiredString(wrapperVal, "signature")
	if err != nil {
		return nil, err
	}

	return mr, nil
}

func parseAssemblyIdentity(v cue.Value) (metadata.AssemblyIdentity, error) {
	var asm metadata.AssemblyIdentity
	if !v.Exists() {
		return asm, fmt.Errorf("wrapper.assembly is required")
	}
	var err error
	asm.Name, err = requiredString(v, "name")
	if err != nil {
		return asm, err
	}
	asm.Version, err = optionalString(v, "version")
	if err != nil {
		return asm, err
	}
	asm.PublicKeyToken, err = optionalString(v, "public_key_token")
	if err != nil {
		return asm, err
	}
	return asm, nil
}

func requiredString(v cue.Value, field string) (string, error) {
	fieldVal := v.LookupPath(cue.ParsePath(field))
	if !fieldVal.Exists() {
		return "", fmt.Errorf("%s is required", field)
	}
	s, err := fieldVal.String()
	if err != nil {
		return "", fmt.Errorf("%s must be a string: %v", field, err)
	}
	return s, nil
}

func optionalString(v cue.Value, field string) (string, error) {
	fieldVal := v.LookupPath(cue.ParsePath(field))
	if !fieldVal.Exists() {
		return "", nil
	}
	s, err := fieldVal.String()
	if err != nil {
		return "", fmt.Errorf("%s must be a string: %v", field, err)
	}
	return s, nil
}

func badField(pos token.Pos, format string, args ...any) *LoadError {
	return &LoadError{Code: ErrCodeBadField, Message: fmt.Sprintf(format, args...), Pos: pos}
}

// findCUEFiles walks the directory and returns all .cue file paths.
func findCUEFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() && filepath.Ext(path) == ".cue" {
			files = append(files, path)
		}
		return nil
	})
	return files, err
}
