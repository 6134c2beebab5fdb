// Package schema implements a minimal recursive structural validator over
// declarative JSON schema documents. It supports the subset the course
// artifacts use: type (single or union), const, enum, pattern, minimum,
// minItems/maxItems, items, required, properties, and closed objects via
// additionalProperties:false. Every violation is collected; validation never
// short-circuits after the first error within a document.
package schema

import (
	"encoding/json"
	"fmt"
	"reflect"
	"regexp"
	"sort"
	"strings"
)

// TypeSet holds the schema "type" keyword, which may be a single string or an
// array of strings in the source document.
type TypeSet []string

func (t *TypeSet) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		*t = TypeSet{single}
		return nil
	}
	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return fmt.Errorf("type must be a string or array of strings: %w", err)
	}
	*t = TypeSet(many)
	return nil
}

// Schema is one node of a declarative schema document.
type Schema struct {
	Type                 TypeSet            `json:"type,omitempty"`
	Properties           map[string]*Schema `json:"properties,omitempty"`
	Required             []string           `json:"required,omitempty"`
	Items                *Schema            `json:"items,omitempty"`
	Enum                 []any              `json:"enum,omitempty"`
	Const                json.RawMessage    `json:"const,omitempty"`
	MinItems             *int               `json:"minItems,omitempty"`
	MaxItems             *int               `json:"maxItems,omitempty"`
	Minimum              *float64           `json:"minimum,omitempty"`
	Pattern              string             `json:"pattern,omitempty"`
	AdditionalProperties *bool              `json:"additionalProperties,omitempty"`
}

// Parse decodes a schema document.
func Parse(data []byte) (*Schema, error) {
	var s Schema
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func matchesType(value any, expected string) bool {
	switch expected {
	case "array":
		_, ok := value.([]any)
		return ok
	case "null":
		return value == nil
	case "object":
		_, ok := value.(map[string]any)
		return ok
	case "string":
		_, ok := value.(string)
		return ok
	case "number", "integer":
		_, ok := value.(float64)
		return ok
	case "boolean":
		_, ok := value.(bool)
		return ok
	default:
		return false
	}
}

func encode(value any) string {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Sprintf("%v", value)
	}
	return string(data)
}

// Validate checks value, as decoded by encoding/json into generic types,
// against s. Returned messages are prefixed with the path of the offending
// value, starting from atPath. const and enum and type failures stop descent
// at that node; everything else accumulates.
func Validate(value any, s *Schema, atPath string) []string {
	var errs []string

	if s.Const != nil {
		var want any
		if err := json.Unmarshal(s.Const, &want); err != nil {
			return []string{fmt.Sprintf("%s: invalid const in schema: %v", atPath, err)}
		}
		if !reflect.DeepEqual(value, want) {
			return []string{fmt.Sprintf("%s: expected constant value %s", atPath, string(s.Const))}
		}
	}

	if len(s.Enum) > 0 {
		matched := false
		options := make([]string, len(s.Enum))
		for i, option := range s.Enum {
			options[i] = encode(option)
			if reflect.DeepEqual(value, option) {
				matched = true
			}
		}
		if !matched {
			return []string{fmt.Sprintf("%s: expected one of %s", atPath, strings.Join(options, ", "))}
		}
	}

	if len(s.Type) > 0 {
		allowed := false
		for _, t := range s.Type {
			if matchesType(value, t) {
				allowed = true
				break
			}
		}
		if !allowed {
			return append(errs, fmt.Sprintf("%s: expected type %s", atPath, strings.Join(s.Type, "|")))
		}
	}

	if str, ok := value.(string); ok && s.Pattern != "" {
		re, err := regexp.Compile(s.Pattern)
		if err != nil {
			errs = append(errs, fmt.Sprintf("%s: invalid pattern %s in schema: %v", atPath, s.Pattern, err))
		} else if !re.MatchString(str) {
			errs = append(errs, fmt.Sprintf("%s: does not match pattern %s", atPath, s.Pattern))
		}
	}

	if num, ok := value.(float64); ok && s.Minimum != nil && num < *s.Minimum {
		errs = append(errs, fmt.Sprintf("%s: must be >= %v", atPath, *s.Minimum))
	}

	if items, ok := value.([]any); ok {
		if s.MinItems != nil && len(items) < *s.MinItems {
			errs = append(errs, fmt.Sprintf("%s: must contain at least %d items", atPath, *s.MinItems))
		}
		if s.MaxItems != nil && len(items) > *s.MaxItems {
			errs = append(errs, fmt.Sprintf("%s: must contain no more than %d items", atPath, *s.MaxItems))
		}
		if s.Items != nil {
			for idx, item := range items {
				errs = append(errs, Validate(item, s.Items, fmt.Sprintf("%s[%d]", atPath, idx))...)
			}
		}
	}

	if object, ok := value.(map[string]any); ok {
		for _, req := range s.Required {
			if _, present := object[req]; !present {
				errs = append(errs, fmt.Sprintf("%s.%s: is required", atPath, req))
			}
		}

		for _, key := range sortedKeys(s.Properties) {
			if child, present := object[key]; present {
				errs = append(errs, Validate(child, s.Properties[key], atPath+"."+key)...)
			}
		}

		if s.AdditionalProperties != nil && !*s.AdditionalProperties {
			for _, key := range sortedObjectKeys(object) {
				if _, declared := s.Properties[key]; !declared {
					errs = append(errs, fmt.Sprintf("%s.%s: additional property is not allowed", atPath, key))
				}
			}
		}
	}

	return errs
}

func sortedKeys(m map[string]*Schema) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func sortedObjectKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
