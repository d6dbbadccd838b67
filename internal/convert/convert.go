// Copyright 2026 The rql Authors.
// Licensed under Apache 2.0, see LICENCE file for details.

// Package convert renders Go scalar values as the canonical text used inside
// RQL expressions.
package convert

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// ErrUnsupported is returned for values that have no RQL text form.
var ErrUnsupported = errors.New("unsupported value type")

// DateLayout is the ISO-8601 calendar date layout.
const DateLayout = "2006-01-02"

// TimeLayout is the ISO-8601 date and time layout. Fractional seconds are
// trimmed when zero and the offset is always numeric.
const TimeLayout = "2006-01-02T15:04:05.999999-07:00"

// Date is a calendar date without a time of day or location.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// DateOf returns the calendar date of t in t's location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

func (d Date) String() string {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC).Format(DateLayout)
}

var timeType = reflect.TypeOf(time.Time{})

// Text returns the canonical text of a scalar value:
//   - bool as true/false
//   - signed, unsigned and floating point numbers in their shortest form
//   - decimal.Decimal with its exact digits
//   - time.Time and Date as ISO-8601
//   - strings verbatim
//
// Named types with a scalar underlying kind are accepted.
func Text(v any) (string, error) {
	switch v := v.(type) {
	case nil:
		return "", fmt.Errorf("%w: nil", ErrUnsupported)
	case string:
		return v, nil
	case bool:
		return strconv.FormatBool(v), nil
	case decimal.Decimal:
		return v.String(), nil
	case *decimal.Decimal:
		if v == nil {
			return "", fmt.Errorf("%w: nil decimal", ErrUnsupported)
		}
		return v.String(), nil
	case time.Time:
		return v.Format(TimeLayout), nil
	case Date:
		return v.String(), nil
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.String:
		return rv.String(), nil
	case reflect.Bool:
		return strconv.FormatBool(rv.Bool()), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(rv.Int(), 10), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return strconv.FormatUint(rv.Uint(), 10), nil
	case reflect.Float32:
		return strconv.FormatFloat(rv.Float(), 'f', -1, 32), nil
	case reflect.Float64:
		return strconv.FormatFloat(rv.Float(), 'f', -1, 64), nil
	case reflect.Struct:
		if rv.Type().ConvertibleTo(timeType) {
			return rv.Convert(timeType).Interface().(time.Time).Format(TimeLayout), nil
		}
	}
	return "", fmt.Errorf("%w: %T", ErrUnsupported, v)
}

// Items returns the canonical text of every member of a slice or array. Any
// other kind of value is rejected.
func Items(v any) ([]string, error) {
	if v == nil {
		return nil, fmt.Errorf("%w: need slice or array, got nil", ErrUnsupported)
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, fmt.Errorf("%w: need slice or array, got %s", ErrUnsupported, rv.Kind())
	}
	items := make([]string, 0, rv.Len())
	for i := 0; i < rv.Len(); i++ {
		s, err := Text(rv.Index(i).Interface())
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
		items = append(items, s)
	}
	return items, nil
}
