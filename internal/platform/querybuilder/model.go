package querybuilder

import (
	"fmt"
	"reflect"
	"strings"
	"sync"
)

// InsertModel builds a single-row INSERT from the `db` tags of a struct.
// Fields tagged "-" or untagged are skipped.
func InsertModel(table string, model any, suffix string) (string, []any, error) {
	cols, vals, err := columnsAndValuesFromModel(model)
	if err != nil {
		return "", nil, err
	}
	return InsertInto(table).
		Columns(cols...).
		Values(vals...).
		Suffix(suffix).
		ToSQL()
}

type modelField struct {
	index  int
	column string
}

var modelFields sync.Map // reflect.Type -> []modelField

func columnsAndValuesFromModel(model any) ([]string, []any, error) {
	value := reflect.ValueOf(model)
	for value.Kind() == reflect.Pointer {
		if value.IsNil() {
			return nil, nil, fmt.Errorf("model cannot be nil")
		}
		value = value.Elem()
	}
	if value.Kind() != reflect.Struct {
		return nil, nil, fmt.Errorf("model must be struct")
	}

	fields := fieldsOf(value.Type())
	if len(fields) == 0 {
		return nil, nil, fmt.Errorf("model has no db columns")
	}
	cols := make([]string, len(fields))
	vals := make([]any, len(fields))
	for i, f := range fields {
		cols[i] = f.column
		vals[i] = value.Field(f.index).Interface()
	}
	return cols, vals, nil
}

func fieldsOf(typ reflect.Type) []modelField {
	if cached, ok := modelFields.Load(typ); ok {
		return cached.([]modelField)
	}

	fields := make([]modelField, 0, typ.NumField())
	for i := 0; i < typ.NumField(); i++ {
		field := typ.Field(i)
		if !field.IsExported() {
			continue
		}
		column, _, _ := strings.Cut(field.Tag.Get("db"), ",")
		column = strings.TrimSpace(column)
		if column == "" || column == "-" {
			continue
		}
		fields = append(fields, modelField{index: i, column: column})
	}
	modelFields.Store(typ, fields)
	return fields
}
