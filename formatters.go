package dryer

import (
	"encoding/json"
	"fmt"
	"math/big"
	"reflect"
	"strings"
	"time"

	"github.com/lestrrat-go/strftime"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// FormatDate renders a date with DateFormat, or HumanizedDateFormat when the
// decorator context is humanized. Non-time values are absent.
func (d *Decorator) FormatDate(value any) (any, error) {
	layout := d.config().DateFormat
	if d.context.Humanize {
		layout = d.config().HumanizedDateFormat
	}
	return formatTimeValue(value, layout)
}

// FormatTime renders a time of day with TimeFormat. Times are never humanized.
func (d *Decorator) FormatTime(value any) (any, error) {
	return formatTimeValue(value, d.config().TimeFormat)
}

// FormatDatetime renders a datetime with DatetimeFormat, or
// HumanizedDatetimeFormat when the decorator context is humanized.
func (d *Decorator) FormatDatetime(value any) (any, error) {
	layout := d.config().DatetimeFormat
	if d.context.Humanize {
		layout = d.config().HumanizedDatetimeFormat
	}
	return formatTimeValue(value, layout)
}

// FormatPrecisionNumber renders a number with a fixed number of fractional
// digits, rounding half away from zero.
//
// Blank input yields float64(0). A precision below 1 yields the exact
// decimal.Decimal. Otherwise the result is a string, grouped by
// Config.NumberLocale when set.
func (d *Decorator) FormatPrecisionNumber(value any, precision int) (any, error) {
	return formatPrecisionNumber(value, precision, d.config().NumberLocale)
}

// ToName returns the name of an associated value, or nil when it has none.
func (d *Decorator) ToName(value any) (any, error) {
	return nameOf(value), nil
}

func formatTimeValue(value any, layout string) (any, error) {
	t, ok := asTime(value)
	if !ok {
		return nil, nil
	}
	out, err := strftime.Format(layout, t)
	if err != nil {
		return nil, fmt.Errorf("%w: pattern %q: %v", ErrFormat, layout, err)
	}
	return out, nil
}

func asTime(value any) (time.Time, bool) {
	switch v := value.(type) {
	case time.Time:
		return v, true
	case *time.Time:
		if v == nil {
			return time.Time{}, false
		}
		return *v, true
	}
	return time.Time{}, false
}

func formatPrecisionNumber(value any, precision int, locale string) (any, error) {
	if isBlank(value) {
		return float64(0), nil
	}
	n, err := asDecimal(value)
	if err != nil {
		return nil, err
	}
	if precision < 1 {
		return n, nil
	}
	places := int32(precision)
	if locale == "" {
		return n.StringFixed(places), nil
	}
	tag, err := language.Parse(locale)
	if err != nil {
		return nil, fmt.Errorf("%w: number locale %q: %v", ErrFormat, locale, err)
	}
	return localizeFixed(n.StringFixed(places), tag), nil
}

// localizeFixed groups the integer digits of fixed with the separators the
// locale uses for 1234.5. Locales whose sample does not use ASCII digits keep
// the plain fixed string.
func localizeFixed(fixed string, tag language.Tag) string {
	sample := message.NewPrinter(tag).Sprint(number.Decimal(1234.5, number.Scale(1)))
	rest, ok := strings.CutPrefix(sample, "1")
	if !ok {
		return fixed
	}
	group, rest, ok := strings.Cut(rest, "234")
	if !ok {
		return fixed
	}
	point, ok := strings.CutSuffix(rest, "5")
	if !ok || point == "" {
		return fixed
	}

	sign, digits := "", fixed
	if strings.HasPrefix(digits, "-") {
		sign, digits = "-", digits[1:]
	}
	whole, frac, _ := strings.Cut(digits, ".")

	var b strings.Builder
	b.WriteString(sign)
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteString(group)
		}
		b.WriteRune(r)
	}
	if frac != "" {
		b.WriteString(point)
		b.WriteString(frac)
	}
	return b.String()
}

// asDecimal converts a numeric value without going through float64 where the
// input is exact.
func asDecimal(value any) (decimal.Decimal, error) {
	switch v := value.(type) {
	case decimal.Decimal:
		return v, nil
	case *decimal.Decimal:
		return *v, nil
	case int:
		return decimal.NewFromInt(int64(v)), nil
	case int8:
		return decimal.NewFromInt(int64(v)), nil
	case int16:
		return decimal.NewFromInt(int64(v)), nil
	case int32:
		return decimal.NewFromInt32(v), nil
	case int64:
		return decimal.NewFromInt(v), nil
	case uint:
		return fromUint64(uint64(v)), nil
	case uint8:
		return fromUint64(uint64(v)), nil
	case uint16:
		return fromUint64(uint64(v)), nil
	case uint32:
		return fromUint64(uint64(v)), nil
	case uint64:
		return fromUint64(v), nil
	case float32:
		return decimal.NewFromFloat32(v), nil
	case float64:
		return decimal.NewFromFloat(v), nil
	case string:
		return parseDecimal(v)
	case json.Number:
		return parseDecimal(v.String())
	case fmt.Stringer:
		return parseDecimal(v.String())
	}

	rv := reflect.ValueOf(value)
	if rv.Kind() == reflect.Ptr && !rv.IsNil() {
		return asDecimal(rv.Elem().Interface())
	}
	return decimal.Decimal{}, fmt.Errorf("%w: %T is not a number", ErrFormat, value)
}

func fromUint64(v uint64) decimal.Decimal {
	return decimal.NewFromBigInt(new(big.Int).SetUint64(v), 0)
}

func parseDecimal(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("%w: %q is not a number", ErrFormat, s)
	}
	return d, nil
}

// nameOf reads Name from an association.
func nameOf(value any) any {
	if isNil(value) {
		return nil
	}
	switch v := value.(type) {
	case Named:
		return v.Name()
	case AttributeReader:
		if name, ok := v.ReadAttribute("name"); ok {
			return name
		}
		return nil
	case map[string]any:
		return v["name"]
	}

	rv := reflect.Indirect(reflect.ValueOf(value))
	switch rv.Kind() {
	case reflect.Struct:
		if fp, ok := planForType(rv.Type()).fields["name"]; ok {
			return rv.FieldByIndex(fp.index).Interface()
		}
	case reflect.Map:
		if key := rv.Type().Key(); key.Kind() == reflect.String {
			if mv := rv.MapIndex(reflect.ValueOf("name").Convert(key)); mv.IsValid() {
				return mv.Interface()
			}
		}
	}
	return nil
}

// isNil reports whether value is nil or a nil pointer, map, slice or interface.
func isNil(value any) bool {
	if value == nil {
		return true
	}
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Interface, reflect.Func, reflect.Chan:
		return rv.IsNil()
	}
	return false
}

// isBlank reports whether value is nil or a whitespace-only string.
func isBlank(value any) bool {
	if isNil(value) {
		return true
	}
	switch v := value.(type) {
	case string:
		return strings.TrimSpace(v) == ""
	case *string:
		return strings.TrimSpace(*v) == ""
	case json.Number:
		return strings.TrimSpace(v.String()) == ""
	}
	return false
}
