// Package export renders analytical views as CSV, XLSX or PDF documents.
package export

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Table is a view flattened to string cells. Columns are the JSON field names
// of the view's record type, in declaration order.
type Table struct {
	Title   string
	Columns []string
	Rows    [][]string
}

var (
	decimalType     = reflect.TypeOf(decimal.Decimal{})
	nullDecimalType = reflect.TypeOf(decimal.NullDecimal{})
	timeType        = reflect.TypeOf(time.Time{})
)

// TableOf flattens data, a record struct or a slice of record structs.
func TableOf(title string, data any) (Table, error) {
	v := reflect.ValueOf(data)
	for v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return Table{}, fmt.Errorf("export: nil %s", title)
		}
		v = v.Elem()
	}

	var elemType reflect.Type
	var records []reflect.Value
	switch v.Kind() {
	case reflect.Slice:
		elemType = v.Type().Elem()
		for i := 0; i < v.Len(); i++ {
			records = append(records, v.Index(i))
		}
	case reflect.Struct:
		elemType = v.Type()
		records = []reflect.Value{v}
	default:
		return Table{}, fmt.Errorf("export: unsupported %s data of kind %s", title, v.Kind())
	}
	if elemType.Kind() != reflect.Struct {
		return Table{}, fmt.Errorf("export: %s rows are %s, not records", title, elemType.Kind())
	}

	table := Table{Title: title, Columns: columnsOf(elemType), Rows: make([][]string, 0, len(records))}
	for _, rec := range records {
		table.Rows = append(table.Rows, cellsOf(rec))
	}
	return table, nil
}

func jsonName(f reflect.StructField) (string, bool) {
	tag := f.Tag.Get("json")
	if tag == "-" {
		return "", false
	}
	name, _, _ := strings.Cut(tag, ",")
	if name == "" {
		name = f.Name
	}
	return name, true
}

func isLeaf(t reflect.Type) bool {
	return t == decimalType || t == nullDecimalType || t == timeType
}

func columnsOf(t reflect.Type) []string {
	var cols []string
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		if f.Anonymous && f.Type.Kind() == reflect.Struct && !isLeaf(f.Type) {
			cols = append(cols, columnsOf(f.Type)...)
			continue
		}
		if name, ok := jsonName(f); ok {
			cols = append(cols, name)
		}
	}
	return cols
}

func cellsOf(v reflect.Value) []string {
	var cells []string
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		if f.Anonymous && f.Type.Kind() == reflect.Struct && !isLeaf(f.Type) {
			cells = append(cells, cellsOf(v.Field(i))...)
			continue
		}
		if _, ok := jsonName(f); ok {
			cells = append(cells, formatCell(v.Field(i)))
		}
	}
	return cells
}

func formatCell(v reflect.Value) string {
	switch v.Type() {
	case decimalType:
		return v.Interface().(decimal.Decimal).String()
	case nullDecimalType:
		d := v.Interface().(decimal.NullDecimal)
		if !d.Valid {
			return ""
		}
		return d.Decimal.String()
	case timeType:
		return v.Interface().(time.Time).Format(time.DateOnly)
	}

	switch v.Kind() {
	case reflect.Pointer:
		if v.IsNil() {
			return ""
		}
		return formatCell(v.Elem())
	case reflect.String:
		return v.String()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(v.Int(), 10)
	case reflect.Bool:
		return strconv.FormatBool(v.Bool())
	}
	return fmt.Sprint(v.Interface())
}
