// Package env loads configuration structs from environment variables using
// struct tags.
package env

import (
	"fmt"
	"os"
	"reflect"
	"strconv"
	"time"
)

// Validator is implemented by config structs that need validation.
type Validator interface {
	Validate() error
}

// ErrInvalidValue is returned when an environment variable value cannot be parsed.
type ErrInvalidValue struct {
	Field  string
	EnvVar string
	Value  string
	Err    error
}

func (e ErrInvalidValue) Error() string {
	return fmt.Sprintf("invalid value for %s=%q (field: %s): %v", e.EnvVar, e.Value, e.Field, e.Err)
}

func (e ErrInvalidValue) Unwrap() error {
	return e.Err
}

// ErrNotStructPointer is returned when Load is called with a non-pointer or
// non-struct argument.
type ErrNotStructPointer struct {
	Type string
}

func (e ErrNotStructPointer) Error() string {
	return fmt.Sprintf("env.Load: argument must be a pointer to struct, got %s", e.Type)
}

// ErrUnsupportedType is returned when a field has an unsupported type.
type ErrUnsupportedType struct {
	Kind string
}

func (e ErrUnsupportedType) Error() string {
	return fmt.Sprintf("unsupported type: %s", e.Kind)
}

// Load loads configuration from environment variables into the provided
// struct pointer.
//
// Supported struct tags:
//   - env:"VAR_NAME"    - maps the field to environment variable VAR_NAME
//   - default:"value"   - used when the environment variable is unset
//
// Supported field types:
//   - string
//   - int, int8, int16, int32, int64
//   - bool
//   - time.Duration (parses Go duration strings like "5s", "1m30s")
//
// Nested structs are loaded recursively. After loading, any struct
// (nested or root) that implements Validator has its Validate method
// called, so a bad combination of values fails at startup rather than at
// first use.
func Load(v any) error {
	ptrVal := reflect.ValueOf(v)
	if ptrVal.Kind() != reflect.Pointer || ptrVal.Elem().Kind() != reflect.Struct {
		return ErrNotStructPointer{Type: fmt.Sprintf("%T", v)}
	}

	if err := parseStruct(ptrVal.Elem()); err != nil {
		return err
	}

	return validateStruct(ptrVal)
}

func parseStruct(val reflect.Value) error {
	typ := val.Type()

	for i := range val.NumField() {
		field := val.Field(i)
		structField := typ.Field(i)

		if !field.CanSet() {
			continue
		}

		// Nested structs are loaded recursively. time.Time is a struct
		// too but has no loadable fields.
		if field.Kind() == reflect.Struct && field.Type() != reflect.TypeOf(time.Time{}) {
			if err := parseStruct(field); err != nil {
				return err
			}
			continue
		}

		envVar := structField.Tag.Get("env")
		if envVar == "" {
			continue
		}

		value, ok := os.LookupEnv(envVar)
		if !ok {
			value, ok = structField.Tag.Lookup("default")
			if !ok {
				continue
			}
		}

		if err := setField(field, value); err != nil {
			return ErrInvalidValue{
				Field:  structField.Name,
				EnvVar: envVar,
				Value:  value,
				Err:    err,
			}
		}
	}

	return nil
}

func setField(field reflect.Value, value string) error {
	switch field.Kind() {
	case reflect.String:
		field.SetString(value)

	case reflect.Bool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return err
		}
		field.SetBool(b)

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if field.Type() == reflect.TypeOf(time.Duration(0)) {
			d, err := time.ParseDuration(value)
			if err != nil {
				return err
			}
			field.SetInt(int64(d))
			return nil
		}
		i, err := strconv.ParseInt(value, 10, field.Type().Bits())
		if err != nil {
			return err
		}
		field.SetInt(i)

	default:
		return ErrUnsupportedType{Kind: field.Kind().String()}
	}

	return nil
}

// validateStruct walks the struct depth-first and calls Validate on every
// addressable struct that implements Validator, innermost first.
func validateStruct(ptrVal reflect.Value) error {
	val := ptrVal.Elem()

	for i := range val.NumField() {
		field := val.Field(i)
		if field.Kind() == reflect.Struct && field.Type() != reflect.TypeOf(time.Time{}) && field.CanAddr() {
			if err := validateStruct(field.Addr()); err != nil {
				return err
			}
		}
	}

	if validator, ok := ptrVal.Interface().(Validator); ok {
		if err := validator.Validate(); err != nil {
			return err
		}
	}

	return nil
}
