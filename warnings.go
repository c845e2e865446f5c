package scenery

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tsawler/scenery/core"
	"github.com/tsawler/scenery/manifest"
	"github.com/tsawler/scenery/stage"
)

// Warning codes
const (
	WarnMissingIdentity  = "missing_model_identity"
	WarnMalformedVector  = "malformed_vector"
	WarnNamingConvention = "naming_convention"
	WarnUnlistedModel    = "unlisted_model"
	WarnEntry            = "entry_error"
)

// Warning is a non-fatal problem with one entry. The entry was skipped
// unless Code is WarnUnlistedModel.
type Warning struct {
	Code    string
	Message string

	// List and Index locate a stage entry. Index is 0-based.
	List  string
	Index int

	// Instance is the stage object Id or the manifest key, if known.
	Instance string

	Err error
}

// String returns a one-line description.
func (w Warning) String() string {
	var loc string
	switch {
	case w.List != "":
		loc = fmt.Sprintf("%s[%d]", w.List, w.Index)
		if w.Instance != "" {
			loc += " " + w.Instance
		}
	case w.Instance != "":
		loc = w.Instance
	}
	if loc == "" {
		return w.Message
	}
	return loc + ": " + w.Message
}

// Unwrap returns the underlying error, if any.
func (w Warning) Unwrap() error {
	return w.Err
}

// FormatWarnings renders warnings one per line.
func FormatWarnings(warnings []Warning) string {
	lines := make([]string, len(warnings))
	for i, w := range warnings {
		lines[i] = w.String()
	}
	return strings.Join(lines, "\n")
}

// warningCode classifies a per-entry error.
func warningCode(err error) string {
	var (
		mie *stage.MissingModelIdentityError
		mve *core.MalformedVectorError
		nce *manifest.NamingConventionError
	)
	switch {
	case errors.As(err, &mie):
		return WarnMissingIdentity
	case errors.As(err, &mve):
		return WarnMalformedVector
	case errors.As(err, &nce):
		return WarnNamingConvention
	default:
		return WarnEntry
	}
}

func stageWarning(d stage.Diagnostic) Warning {
	return Warning{
		Code:     warningCode(d.Err),
		Message:  d.Err.Error(),
		List:     d.List,
		Index:    d.Index,
		Instance: d.Instance,
		Err:      d.Err,
	}
}

func manifestWarning(d manifest.Diagnostic) Warning {
	return Warning{
		Code:     warningCode(d.Err),
		Message:  d.Err.Error(),
		Instance: d.Instance,
		Err:      d.Err,
	}
}
