package catalog

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/load"
	"cuelang.org/go/cue/token"

	"github.com/roach88/scriptlet/internal/ir"
)

// LoadMode controls how errors are handled during catalog loading.
type LoadMode int

const (
	// LoadModeFailFast stops on the first error encountered.
	LoadModeFailFast LoadMode = iota
	// LoadModeCollectAll collects all errors before returning.
	LoadModeCollectAll
)

// Load error codes.
const (
	ErrCodeGeneric     = "E001" // Generic/unknown error
	ErrCodeScanError   = "E002" // Directory scan error
	ErrCodeNoFiles     = "E003" // No CUE or JS files found
	ErrCodeLoadFailed  = "E004" // CUE load failed
	ErrCodeNotFound    = "E005" // Path not found
	ErrCodeBuildFailed = "E006" // CUE build failed
	ErrCodeResource    = "E007" // JS resource header invalid
)

// LoadResult contains the results of loading a catalog directory.
type LoadResult struct {
	Catalog   *Catalog
	FileCount int // CUE and JS files found
}

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

// LoadDir loads a catalog directory: the CUE package in dir plus every
// *.js resource below it. A resource whose Name matches a CUE-declared
// template supplies that template's body; the CUE declaration keeps its
// binding contract.
func LoadDir(dir string, mode LoadMode) (*LoadResult, []error) {
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

	cueFiles, err := findFiles(dir, ".cue")
	if err != nil {
		return nil, []error{&LoadError{Code: ErrCodeScanError, Message: fmt.Sprintf("error scanning directory: %v", err)}}
	}
	jsFiles, err := findFiles(dir, ".js")
	if err != nil {
		return nil, []error{&LoadError{Code: ErrCodeScanError, Message: fmt.Sprintf("error scanning directory: %v", err)}}
	}
	if len(cueFiles) == 0 && len(jsFiles) == 0 {
		return nil, []error{&LoadError{Code: ErrCodeNoFiles, Message: fmt.Sprintf("no CUE or JS files found in %s", dir)}}
	}

	result := &LoadResult{
		Catalog:   New(),
		FileCount: len(cueFiles) + len(jsFiles),
	}

	var errs []error
	fail := func(err error) bool {
		errs = append(errs, err)
		return mode == LoadModeFailFast
	}

	if len(cueFiles) > 0 {
		ctx := cuecontext.New()
		instances := load.Instances([]string{"."}, &load.Config{Dir: dir})
		if len(instances) == 0 {
			return result, []error{&LoadError{Code: ErrCodeLoadFailed, Message: "no CUE instances loaded"}}
		}
		inst := instances[0]
		if inst.Err != nil {
			return result, []error{&LoadError{Code: ErrCodeLoadFailed, Message: fmt.Sprintf("loading CUE files: %v", inst.Err)}}
		}
		value := ctx.BuildInstance(inst)
		if err := value.Err(); err != nil {
			return result, []error{&LoadError{Code: ErrCodeBuildFailed, Message: fmt.Sprintf("building CUE value: %v", err)}}
		}

		templates, compileErrs := compileValue(value, mode)
		for _, err := range compileErrs {
			if fail(err) {
				return result, errs
			}
		}
		for _, t := range templates {
			if err := result.Catalog.Add(t); err != nil {
				if fail(&LoadError{Code: ErrCodeGeneric, Message: err.Error()}) {
					return result, errs
				}
			}
		}
	}

	for _, path := range jsFiles {
		if err := loadResource(result.Catalog, path); err != nil {
			if fail(err) {
				return result, errs
			}
		}
	}

	if result.Catalog.Len() == 0 && len(errs) == 0 {
		errs = append(errs, &LoadError{Code: ErrCodeGeneric, Message: "no templates found in catalog"})
	}
	return result, errs
}

// loadResource parses one JS resource and merges it into c.
func loadResource(c *Catalog, path string) error {
	src, err := os.ReadFile(path)
	if err != nil {
		return &LoadError{Code: ErrCodeScanError, Message: fmt.Sprintf("reading %s: %v", path, err)}
	}
	t, err := ParseResource(filepath.Base(path), string(src))
	if err != nil {
		return &LoadError{Code: ErrCodeResource, Message: err.Error()}
	}

	if declared, lookupErr := c.Lookup(t.Name); lookupErr == nil && declared.Name == t.Name {
		merged := *declared
		merged.Body = t.Body
		if verrs := Validate(&merged); len(verrs) > 0 {
			return &LoadError{Code: ErrCodeResource, Message: fmt.Sprintf("%s: %v", path, verrs[0])}
		}
		return c.Put(&merged)
	}
	if err := c.Add(t); err != nil {
		return &LoadError{Code: ErrCodeResource, Message: fmt.Sprintf("%s: %v", path, err)}
	}
	return nil
}

// compileValue compiles every entry of the top-level scriptlet struct.
func compileValue(value cue.Value, mode LoadMode) ([]*ir.Template, []error) {
	scriptletsVal := value.LookupPath(cue.ParsePath("scriptlet"))
	if !scriptletsVal.Exists() {
		return nil, nil
	}

	iter, err := scriptletsVal.Fields()
	if err != nil {
		return nil, []error{&LoadError{Code: ErrCodeGeneric, Message: fmt.Sprintf("iterating scriptlets: %v", err)}}
	}

	var (
		templates []*ir.Template
		errs      []error
	)
	for iter.Next() {
		t, compileErr := CompileTemplate(iter.Value())
		if compileErr != nil {
			errs = append(errs, convertCompileError(compileErr, "scriptlet."+selectorName(iter.Selector())))
			if mode == LoadModeFailFast {
				return templates, errs
			}
			continue
		}
		templates = append(templates, t)
	}
	return templates, errs
}

// findFiles walks dir and returns all file paths with the given extension.
func findFiles(dir, ext string) ([]string, error) {
	var files []string
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() && filepath.Ext(path) == ext {
			files = append(files, path)
		}
		return nil
	})
	return files, err
}

// convertCompileError converts a compile error to a LoadError with position info.
func convertCompileError(err error, context string) *LoadError {
	var compileErr *CompileError
	if errors.As(err, &compileErr) {
		return &LoadError{
			Code:    ErrCodeBuildFailed,
			Message: fmt.Sprintf("%s: %s: %s", context, compileErr.Field, compileErr.Message),
			Pos:     compileErr.Pos,
		}
	}
	return &LoadError{
		Code:    ErrCodeGeneric,
		Message: fmt.Sprintf("%s: %v", context, err),
	}
}
