package fluentschema

import (
	"errors"
	"fmt"
	"strings"

	"github.com/reoring/fluentschema/i18n"
)

// Error codes (exported consts for IDE completion and type safety by convention)
const (
	CodeLockedSchema       = "locked_schema"
	CodePropertyAlreadySet = "property_already_set"
	CodeDuplicateProperty  = "duplicate_property"
	CodeDuplicatePattern   = "duplicate_pattern"
	CodeInvalidArgument    = "invalid_argument"
	CodeRangeInversion     = "range_inversion"
	CodeMissingValueSchema = "missing_value_schema"
	CodeMissingName        = "missing_name"
	CodeItemsAlreadySet    = "items_already_set"
	// Data errors (raised by compiled validators, never by schema construction)
	CodeValidation = "validation"
)

var (
	// ErrSchemaUsage matches every schema construction error through errors.Is.
	ErrSchemaUsage = errors.New("fluentschema: schema usage error")

	// ErrInvalidData matches ValidationError through errors.Is.
	ErrInvalidData = errors.New("fluentschema: invalid data")
)

func usageMessage(code, detail string, data map[string]string) string {
	msg := "fluentschema: " + i18n.T(code, data)
	if detail != "" {
		msg += ": " + detail
	}
	return msg
}

// LockedSchemaError reports a mutation attempted on a locked node.
type LockedSchemaError struct {
	Kind string // node kind, e.g. "string"
	Op   string // rejected operation
}

func (e *LockedSchemaError) Error() string {
	return usageMessage(CodeLockedSchema, fmt.Sprintf("%s on %s node; copy it first", e.Op, e.Kind),
		map[string]string{"kind": e.Kind, "op": e.Op})
}
func (e *LockedSchemaError) Code() string         { return CodeLockedSchema }
func (e *LockedSchemaError) Is(target error) bool { return target == ErrSchemaUsage }

// PropertyAlreadySetError reports a second assignment of a set-once property.
type PropertyAlreadySetError struct {
	Kind     string
	Property string
}

func (e *PropertyAlreadySetError) Error() string {
	return usageMessage(CodePropertyAlreadySet, fmt.Sprintf("%q on %s node", e.Property, e.Kind),
		map[string]string{"kind": e.Kind, "property": e.Property})
}
func (e *PropertyAlreadySetError) Code() string         { return CodePropertyAlreadySet }
func (e *PropertyAlreadySetError) Is(target error) bool { return target == ErrSchemaUsage }

// DuplicatePropertyError reports a property name attached twice to an object.
type DuplicatePropertyError struct {
	Name string
}

func (e *DuplicatePropertyError) Error() string {
	return usageMessage(CodeDuplicateProperty, fmt.Sprintf("%q", e.Name), map[string]string{"name": e.Name})
}
func (e *DuplicatePropertyError) Code() string         { return CodeDuplicateProperty }
func (e *DuplicatePropertyError) Is(target error) bool { return target == ErrSchemaUsage }

// DuplicatePatternError reports an anchored pattern attached twice to an object.
type DuplicatePatternError struct {
	Pattern string
}

func (e *DuplicatePatternError) Error() string {
	return usageMessage(CodeDuplicatePattern, fmt.Sprintf("%q", e.Pattern), map[string]string{"pattern": e.Pattern})
}
func (e *DuplicatePatternError) Code() string         { return CodeDuplicatePattern }
func (e *DuplicatePatternError) Is(target error) bool { return target == ErrSchemaUsage }

// InvalidArgumentError reports an input of the wrong shape passed to a setter.
type InvalidArgumentError struct {
	Op     string
	Reason string
}

func (e *InvalidArgumentError) Error() string {
	return usageMessage(CodeInvalidArgument, e.Op+": "+e.Reason, map[string]string{"op": e.Op, "reason": e.Reason})
}
func (e *InvalidArgumentError) Code() string         { return CodeInvalidArgument }
func (e *InvalidArgumentError) Is(target error) bool { return target == ErrSchemaUsage }

// RangeInversionError reports a bound that would invert the range or leave the
// safe integer range.
type RangeInversionError struct {
	Property string
	Value    any
	Reason   string // e.g. "min must be less than max"
}

func (e *RangeInversionError) Error() string {
	return usageMessage(CodeRangeInversion, fmt.Sprintf("%s=%v: %s", e.Property, e.Value, e.Reason),
		map[string]string{"property": e.Property, "value": fmt.Sprint(e.Value), "reason": e.Reason})
}
func (e *RangeInversionError) Code() string         { return CodeRangeInversion }
func (e *RangeInversionError) Is(target error) bool { return target == ErrSchemaUsage }

// MissingValueSchemaError reports a map locked or exported before Value was set.
type MissingValueSchemaError struct{}

func (e *MissingValueSchemaError) Error() string        { return usageMessage(CodeMissingValueSchema, "", nil) }
func (e *MissingValueSchemaError) Code() string         { return CodeMissingValueSchema }
func (e *MissingValueSchemaError) Is(target error) bool { return target == ErrSchemaUsage }

// MissingNameError reports Compile called without a schema name.
type MissingNameError struct{}

func (e *MissingNameError) Error() string        { return usageMessage(CodeMissingName, "compile requires a name", nil) }
func (e *MissingNameError) Code() string         { return CodeMissingName }
func (e *MissingNameError) Is(target error) bool { return target == ErrSchemaUsage }

// ItemsAlreadySetError reports a second Items call on an array.
type ItemsAlreadySetError struct{}

func (e *ItemsAlreadySetError) Error() string        { return usageMessage(CodeItemsAlreadySet, "", nil) }
func (e *ItemsAlreadySetError) Code() string         { return CodeItemsAlreadySet }
func (e *ItemsAlreadySetError) Is(target error) bool { return target == ErrSchemaUsage }

// Diagnostic is a single finding reported by a validator.
type Diagnostic struct {
	InstancePath string // JSON Pointer into the validated value.
	SchemaPath   string // JSON Pointer to the failing keyword.
	Message      string
}

// ValidationError is returned by compiled validators when a value does not
// conform. It is the only error surfaced to consumers of data.
type ValidationError struct {
	Name        string
	Value       any
	Diagnostics []Diagnostic
	Schema      map[string]any
}

// Error summarizes the first few diagnostics.
func (e *ValidationError) Error() string {
	const maxShown = 3
	b := &strings.Builder{}
	fmt.Fprintf(b, "fluentschema: %s: %s", e.Name, i18n.T(CodeValidation, map[string]string{"name": e.Name}))
	n := len(e.Diagnostics)
	lim := n
	if lim > maxShown {
		lim = maxShown
	}
	for i := 0; i < lim; i++ {
		if i == 0 {
			b.WriteString(": ")
		} else {
			b.WriteString("; ")
		}
		d := e.Diagnostics[i]
		path := d.InstancePath
		if path == "" {
			path = "/"
		}
		fmt.Fprintf(b, "%s at %s", d.Message, path)
	}
	if n > lim {
		fmt.Fprintf(b, "; ... (total %d)", n)
	}
	return b.String()
}
func (e *ValidationError) Code() string         { return CodeValidation }
func (e *ValidationError) Is(target error) bool { return target == ErrInvalidData }

// IsUsageError reports whether err stems from schema construction rather than
// from invalid data.
func IsUsageError(err error) bool { return errors.Is(err, ErrSchemaUsage) }

// AsValidationError extracts a ValidationError using errors.As internally.
func AsValidationError(err error) (*ValidationError, bool) {
	if err == nil {
		return nil, false
	}
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
