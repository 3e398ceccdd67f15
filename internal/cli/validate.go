package cli

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/spf13/cobra"

	"github.com/roach88/scriptlet/internal/catalog"
)

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid     bool                      `json:"valid"`
	Templates int                       `json:"templates"`
	Files     int                       `json:"files"`
	Errors    []catalog.ValidationError `json:"errors,omitempty"`
}

// validationCode extracts the [E1xx] code a compile error message carries.
var validationCode = regexp.MustCompile(`\[(E\d{3})\]`)

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <catalog-dir>",
		Short: "Validate a catalog directory",
		Long: `Compile a catalog directory (CUE declarations and JS resources) and
report every error, including collisions with the built-in templates.

Exit codes:
  0 - Catalog valid
  1 - Validation errors
  2 - Command error (directory not found, no files, etc.)`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}
}

func runValidate(opts *RootOptions, dir string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}

	result, loadErrs := catalog.LoadDir(dir, catalog.LoadModeCollectAll)
	if result == nil {
		var loadErr *catalog.LoadError
		if errors.As(loadErrs[0], &loadErr) {
			return outputValidateError(formatter, loadErr.Code, loadErr.Message)
		}
		return outputValidateError(formatter, catalog.ErrCodeGeneric, loadErrs[0].Error())
	}

	var verrs []catalog.ValidationError
	for _, err := range loadErrs {
		verrs = append(verrs, toValidationError(err))
	}

	if len(verrs) == 0 {
		builtin, err := catalog.Builtin()
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to load built-in catalog", err)
		}
		if err := builtin.Merge(result.Catalog); err != nil {
			verrs = append(verrs, toValidationError(err))
		}
	}

	if len(verrs) > 0 {
		return outputValidationErrors(formatter, result, verrs)
	}

	if formatter.JSON() {
		return formatter.Success(ValidationResult{
			Valid:     true,
			Templates: result.Catalog.Len(),
			Files:     result.FileCount,
		})
	}
	fmt.Fprintf(formatter.Writer, "✓ Catalog valid: %d template(s) in %d file(s)\n", result.Catalog.Len(), result.FileCount)
	return nil
}

// toValidationError maps a load or catalog error to a coded validation
// error. The most specific code in the message wins.
func toValidationError(err error) catalog.ValidationError {
	var verr catalog.ValidationError
	if errors.As(err, &verr) {
		return verr
	}

	ve := catalog.ValidationError{
		Field:   "catalog",
		Message: err.Error(),
		Code:    catalog.ErrCodeGeneric,
	}
	var loadErr *catalog.LoadError
	if errors.As(err, &loadErr) {
		ve.Field = "load"
		ve.Message = loadErr.Message
		ve.Code = loadErr.Code
		if loadErr.Pos.IsValid() {
			ve.Field = fmt.Sprintf("%s:%d", loadErr.Pos.Filename(), loadErr.Pos.Line())
		}
	}
	if m := validationCode.FindStringSubmatch(ve.Message); m != nil {
		ve.Code = m[1]
	}
	return ve
}

// outputValidateError outputs a single command-level error (exit code 2).
func outputValidateError(formatter *OutputFormatter, code, message string) error {
	_ = formatter.Error(code, message, nil)
	return NewExitError(ExitCommandError, fmt.Sprintf("%s: %s", code, message))
}

// outputValidationErrors outputs every validation error (exit code 1).
func outputValidationErrors(formatter *OutputFormatter, result *catalog.LoadResult, errs []catalog.ValidationError) error {
	if formatter.JSON() {
		if err := formatter.Encode(CLIResponse{
			Status: "error",
			Data: ValidationResult{
				Valid:     false,
				Templates: result.Catalog.Len(),
				Files:     result.FileCount,
				Errors:    errs,
			},
			Error: &CLIError{
				Code:    errs[0].Code,
				Message: errs[0].Message,
			},
		}); err != nil {
			return err
		}
		return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(errs)))
	}

	fmt.Fprintln(formatter.Writer, "✗ Validation failed")
	fmt.Fprintln(formatter.Writer)
	for _, e := range errs {
		fmt.Fprintf(formatter.Writer, "%s\n  %s: %s\n\n", e.Field, e.Code, e.Message)
	}
	return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(errs)))
}
