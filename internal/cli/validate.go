package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/weftlabs/weft/internal/rules"
)

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid        bool              `json:"valid"`
	Integrations int               `json:"integrations"`
	Errors       []ValidationIssue `json:"errors,omitempty"`
}

// ValidationIssue is one load or validation error in a reportable form.
type ValidationIssue struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Pos     string `json:"pos,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <catalog-dir>",
		Short: "Validate a rule catalog",
		Long: `Validate a CUE rule catalog without running the engine.

Performs syntax checking, field decoding, and structural validation
(required target and wrapper fields, duplicate integration names).`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, catalogDir string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	result, loadErrors := rules.LoadCatalog(catalogDir)
	if result == nil && len(loadErrors) > 0 {
		issue := toIssue(loadErrors[0])
		formatter.Error(issue.Code, issue.Message, nil)
		return NewExitError(ExitCommandError, issue.Message)
	}

	formatter.VerboseLog("Found %d CUE file(s) in %s", result.FileCount, catalogDir)

	var issues []ValidationIssue
	for _, err := range loadErrors {
		issues = append(issues, toIssue(err))
	}
	for _, verr := range rules.Validate(result.Integrations) {
		issues = append(issues, ValidationIssue{Code: "V001", Message: verr.Error()})
	}

	if len(issues) > 0 {
		if opts.Format == "json" {
			formatter.Success(ValidationResult{Valid: false, Integrations: len(result.Integrations), Errors: issues})
		} else {
			for _, issue := range issues {
				formatter.Error(issue.Code, issue.Message, nil)
			}
		}
		return NewExitError(ExitFailure, fmt.Sprintf("%d validation error(s)", len(issues)))
	}

	if opts.Format == "json" {
		return formatter.Success(ValidationResult{Valid: true, Integrations: len(result.Integrations)})
	}
	return formatter.Success(fmt.Sprintf("catalog valid: %d integration(s)", len(result.Integrations)))
}

func toIssue(err error) ValidationIssue {
	var loadErr *rules.LoadError
	if errors.As(err, &loadErr) {
		issue := ValidationIssue{Code: loadErr.Code, Message: loadErr.Message}
		if loadErr.Pos.IsValid() {
			issue.Pos = fmt.Sprintf("%s:%d:%d", loadErr.Pos.Filename(), loadErr.Pos.Line(), loadErr.Pos.Column())
		}
		return issue
	}
	return ValidationIssue{Code: rules.ErrCodeGeneric, Message: err.Error()}
}
