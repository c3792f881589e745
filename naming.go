package hflow

import (
	"math"
	"reflect"
	"regexp"
	"runtime"
	"strings"
)

// TempKey is the result name used for functions without a name.
const TempKey = "_temp"

// closures are named func1, func2, glob..func1 or func1.2 by the compiler.
var closureName = regexp.MustCompile(`^func\d+(\.\d+)*$`)

// FuncName returns the declared name of the function fn, without package
// path or receiver. It returns "" for closures, nil functions and values
// that are not functions.
func FuncName(fn any) string {
	v := reflect.ValueOf(fn)
	if v.Kind() != reflect.Func || v.IsNil() {
		return ""
	}
	rf := runtime.FuncForPC(v.Pointer())
	if rf == nil {
		return ""
	}
	name := rf.Name()
	name = strings.TrimSuffix(name, "-fm")
	name = strings.ReplaceAll(name, "[...]", "")
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}
	// pkg.Func, pkg.(*T).Method, pkg.Outer.func1
	if i := strings.Index(name, "."); i >= 0 {
		name = name[i+1:]
	}
	for _, p := range strings.Split(name, ".") {
		if closureName.MatchString(p) {
			return ""
		}
	}
	if i := strings.LastIndex(name, "."); i >= 0 {
		name = name[i+1:]
	}
	return name
}

// resultKey picks the name a step result is recorded under.
func resultKey(resultName, funcName string) string {
	switch {
	case resultName != "":
		return resultName
	case funcName != "":
		return funcName
	default:
		return TempKey
	}
}

// Falsy reports whether v counts as "no result": nil, a nil pointer, map,
// slice, func, chan or interface, false, a numeric zero, NaN, or "".
// Empty but non-nil maps and slices are not falsy.
func Falsy(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Bool:
		return !rv.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int() == 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return rv.Uint() == 0
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		return f == 0 || math.IsNaN(f)
	case reflect.Complex64, reflect.Complex128:
		return rv.Complex() == 0
	case reflect.String:
		return rv.Len() == 0
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface, reflect.UnsafePointer:
		return rv.IsNil()
	default:
		return false
	}
}
