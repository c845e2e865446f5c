package manifest

import "fmt"

// ParseError reports a manifest that is not valid JSON of the expected shape.
type ParseError struct {
	Path string // empty when parsed from memory
	Err  error
}

func (e *ParseError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("invalid manifest %s: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("invalid manifest: %v", e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// NamingConventionError reports an instance key that does not contain the
// "<ModelName>_" prefix the model name is derived from.
type NamingConventionError struct {
	Instance string
}

func (e *NamingConventionError) Error() string {
	return fmt.Sprintf("instance %q does not follow the <ModelName>_<suffix> naming convention", e.Instance)
}
