package dryer

import (
	"fmt"
	"reflect"
	"strings"
	"sync"
	"unicode"

	"github.com/zoobzio/sentinel"
)

func init() {
	// Register the attribute naming tag with sentinel
	sentinel.Tag("dryer")
}

// recordPlan maps attribute names to struct fields for one record type.
type recordPlan struct {
	typeName string
	fields   map[string]fieldPlan
}

// fieldPlan describes how to read a single field.
type fieldPlan struct {
	index []int  // reflect.Value.FieldByIndex access path
	name  string // Go field name for error messages
}

type namedField struct {
	name string
	fp   fieldPlan
}

// plans caches record plans by struct type.
var plans sync.Map

// planFor returns the record plan for T, scanning with sentinel when T is a
// struct.
func planFor[T any]() *recordPlan {
	rt := reflect.TypeFor[T]()
	if rt.Kind() == reflect.Struct {
		if cached, ok := plans.Load(rt); ok {
			return cached.(*recordPlan)
		}
		spec := sentinel.Scan[T]()
		return storePlan(rt, buildRecordPlan(rt, &spec))
	}
	return planForType(rt)
}

// planForType returns the record plan for rt, dereferencing pointers.
func planForType(rt reflect.Type) *recordPlan {
	for rt.Kind() == reflect.Ptr {
		rt = rt.Elem()
	}
	if cached, ok := plans.Load(rt); ok {
		return cached.(*recordPlan)
	}
	return storePlan(rt, buildRecordPlan(rt, scanRecordType(rt)))
}

func storePlan(rt reflect.Type, plan *recordPlan) *recordPlan {
	actual, _ := plans.LoadOrStore(rt, plan)
	return actual.(*recordPlan)
}

// buildRecordPlan indexes the fields of spec under every name they answer to.
// Tagged names win over derived names when two fields collide.
func buildRecordPlan(rt reflect.Type, spec *sentinel.Metadata) *recordPlan {
	plan := &recordPlan{
		typeName: rt.String(),
		fields:   make(map[string]fieldPlan),
	}
	if spec == nil || rt.Kind() != reflect.Struct {
		return plan
	}
	if spec.TypeName != "" {
		plan.typeName = spec.TypeName
	}

	var derived []namedField
	for _, field := range spec.Fields {
		if len(field.Index) == 0 {
			continue
		}
		sf := rt.FieldByIndex(field.Index)
		if !sf.IsExported() {
			continue
		}
		fp := fieldPlan{index: field.Index, name: field.Name}

		if name := tagName(field.Tags["dryer"]); name != "" {
			plan.add(name, fp)
		} else if name := tagName(sf.Tag.Get("dryer")); name != "" {
			plan.add(name, fp)
		}
		if name := tagName(sf.Tag.Get("json")); name != "" {
			plan.add(name, fp)
		}
		derived = append(derived,
			namedField{field.Name, fp},
			namedField{snakeCase(field.Name), fp},
		)
	}
	for _, d := range derived {
		plan.add(d.name, d.fp)
	}
	return plan
}

func (p *recordPlan) add(name string, fp fieldPlan) {
	if _, exists := p.fields[name]; !exists {
		p.fields[name] = fp
	}
}

// scanRecordType returns field metadata for types sentinel has not scanned.
func scanRecordType(rt reflect.Type) *sentinel.Metadata {
	if spec, ok := sentinel.Lookup(rt.String()); ok {
		return &spec
	}

	if rt.Kind() != reflect.Struct {
		return nil
	}

	spec := sentinel.Metadata{
		TypeName:    rt.Name(),
		PackageName: rt.PkgPath(),
		Fields:      make([]sentinel.FieldMetadata, 0, rt.NumField()),
	}

	for i := 0; i < rt.NumField(); i++ {
		sf := rt.Field(i)
		if !sf.IsExported() {
			continue
		}

		fm := sentinel.FieldMetadata{
			Name:        sf.Name,
			Type:        sf.Type.String(),
			ReflectType: sf.Type,
			Index:       sf.Index,
			Tags:        map[string]string{},
		}
		if v, ok := sf.Tag.Lookup("dryer"); ok {
			fm.Tags["dryer"] = v
		}

		switch sf.Type.Kind() {
		case reflect.Struct:
			fm.Kind = sentinel.KindStruct
		case reflect.Ptr:
			fm.Kind = sentinel.KindPointer
		case reflect.Slice, reflect.Array:
			fm.Kind = sentinel.KindSlice
		case reflect.Map:
			fm.Kind = sentinel.KindMap
		case reflect.Interface:
			fm.Kind = sentinel.KindInterface
		default:
			fm.Kind = sentinel.KindScalar
		}

		spec.Fields = append(spec.Fields, fm)
	}

	return &spec
}

// readAttribute reads the named attribute from object.
func readAttribute(object any, name string) (any, error) {
	switch o := object.(type) {
	case nil:
		return nil, fmt.Errorf("%w: %q on nil object", ErrUnknownAttribute, name)
	case AttributeReader:
		if v, ok := o.ReadAttribute(name); ok {
			return v, nil
		}
		return nil, fmt.Errorf("%w: %q on %T", ErrUnknownAttribute, name, object)
	case map[string]any:
		if v, ok := o[name]; ok {
			return v, nil
		}
		return nil, fmt.Errorf("%w: %q on %T", ErrUnknownAttribute, name, object)
	}

	rv := reflect.ValueOf(object)
	base := rv
	for base.Kind() == reflect.Ptr || base.Kind() == reflect.Interface {
		if base.IsNil() {
			return nil, fmt.Errorf("%w: %q on nil %s", ErrUnknownAttribute, name, rv.Type())
		}
		base = base.Elem()
	}

	switch base.Kind() {
	case reflect.Struct:
		plan := planForType(base.Type())
		if fp, ok := plan.fields[name]; ok {
			return base.FieldByIndex(fp.index).Interface(), nil
		}
	case reflect.Map:
		if key := base.Type().Key(); key.Kind() == reflect.String {
			if v := base.MapIndex(reflect.ValueOf(name).Convert(key)); v.IsValid() {
				return v.Interface(), nil
			}
		}
	}

	if v, ok, err := callAttributeMethod(rv, name); ok {
		return v, err
	}
	return nil, fmt.Errorf("%w: %q on %s", ErrUnknownAttribute, name, rv.Type())
}

var errorType = reflect.TypeFor[error]()

// callAttributeMethod calls an exported zero-argument method named after the
// attribute. Methods may return a value, or a value and an error.
func callAttributeMethod(rv reflect.Value, name string) (any, bool, error) {
	method := exportedName(name)
	m := rv.MethodByName(method)
	if !m.IsValid() && rv.Kind() != reflect.Ptr {
		// Pointer receivers on a value record
		ptr := reflect.New(rv.Type())
		ptr.Elem().Set(rv)
		m = ptr.MethodByName(method)
	}
	if !m.IsValid() {
		return nil, false, nil
	}
	mt := m.Type()
	if mt.NumIn() != 0 {
		return nil, false, nil
	}
	switch {
	case mt.NumOut() == 1:
		return m.Call(nil)[0].Interface(), true, nil
	case mt.NumOut() == 2 && mt.Out(1) == errorType:
		out := m.Call(nil)
		if err, _ := out[1].Interface().(error); err != nil {
			return nil, true, err
		}
		return out[0].Interface(), true, nil
	}
	return nil, false, nil
}

// tagName returns the name part of a struct tag value.
func tagName(tag string) string {
	name, _, _ := strings.Cut(tag, ",")
	if name == "-" {
		return ""
	}
	return name
}

// initialisms are kept upper case by exportedName.
var initialisms = map[string]string{
	"id":   "ID",
	"ip":   "IP",
	"url":  "URL",
	"uri":  "URI",
	"uuid": "UUID",
	"api":  "API",
	"html": "HTML",
	"json": "JSON",
}

// exportedName converts snake_case to an exported Go identifier:
// full_name -> FullName, signed_id -> SignedID.
func exportedName(name string) string {
	var b strings.Builder
	for _, part := range strings.Split(name, "_") {
		if part == "" {
			continue
		}
		if upper, ok := initialisms[strings.ToLower(part)]; ok {
			b.WriteString(upper)
			continue
		}
		runes := []rune(part)
		runes[0] = unicode.ToUpper(runes[0])
		b.WriteString(string(runes))
	}
	return b.String()
}

// snakeCase converts a Go identifier to snake_case:
// CreatedAt -> created_at, SignedID -> signed_id, URLPath -> url_path.
func snakeCase(name string) string {
	runes := []rune(name)
	var b strings.Builder
	for i, r := range runes {
		if unicode.IsUpper(r) {
			if i > 0 {
				prev := runes[i-1]
				nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
				if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower) {
					b.WriteByte('_')
				}
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
