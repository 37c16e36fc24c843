package apiclient

import (
	"fmt"
	"net/url"
	"reflect"
	"strconv"
	"strings"
)

const (
	// APIHost serves the token and resource endpoints.
	APIHost = "api.phone.id"
	// LoginHost serves the authorization (login) page.
	LoginHost = "login.phone.id"

	apiVersion = "/v2"
)

// Param is a single query or form parameter.
type Param struct {
	Key   string
	Value any
}

// Params is an ordered list of parameters. Order is preserved when the
// parameters are serialized, so identical Params always produce identical output.
type Params []Param

// With returns a copy of p with key set to value. An existing key keeps its
// position; a new key is appended at the end.
func (p Params) With(key string, value any) Params {
	return Merge(p, Params{{Key: key, Value: value}})
}

// Get returns the value stored for key.
func (p Params) Get(key string) (any, bool) {
	for _, param := range p {
		if param.Key == key {
			return param.Value, true
		}
	}
	return nil, false
}

// Encode serializes every parameter as a form body, in order. Empty values are
// kept and encoded as empty strings.
func (p Params) Encode() string {
	var sb strings.Builder
	for i, param := range p {
		if i > 0 {
			sb.WriteByte('&')
		}
		sb.WriteString(url.QueryEscape(param.Key))
		sb.WriteByte('=')
		sb.WriteString(url.QueryEscape(formatValue(param.Value)))
	}
	return sb.String()
}

// Merge combines defaults with overrides, left to right. A key already present
// has its value replaced in place, new keys are appended. The inputs are not modified.
func Merge(defaults Params, overrides ...Params) Params {
	size := len(defaults)
	for _, o := range overrides {
		size += len(o)
	}

	merged := make(Params, 0, size)
	merged = appendOrReplace(merged, defaults)
	for _, o := range overrides {
		merged = appendOrReplace(merged, o)
	}
	return merged
}

func appendOrReplace(dst, src Params) Params {
next:
	for _, param := range src {
		for i := range dst {
			if dst[i].Key == param.Key {
				dst[i].Value = param.Value
				continue next
			}
		}
		dst = append(dst, param)
	}
	return dst
}

// BuildURL returns https://{host}/v2{path} followed by the query string made of
// every non-empty parameter. Nil, empty strings, false and numeric zero are
// dropped entirely rather than encoded as empty values.
func BuildURL(host, path string, params Params) string {
	u := "https://" + host + apiVersion + path

	var query strings.Builder
	for _, param := range params {
		if isEmpty(param.Value) {
			continue
		}
		if query.Len() > 0 {
			query.WriteByte('&')
		}
		query.WriteString(url.QueryEscape(param.Key))
		query.WriteByte('=')
		query.WriteString(url.QueryEscape(formatValue(param.Value)))
	}

	if query.Len() == 0 {
		return u
	}

	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return u + sep + query.String()
}

// BuildAPIURL builds a URL against the API host.
func BuildAPIURL(path string, params Params) string {
	return BuildURL(APIHost, path, params)
}

// BuildLoginURL builds a URL against the login host.
func BuildLoginURL(path string, params Params) string {
	return BuildURL(LoginHost, path, params)
}

// isEmpty reports whether v is a falsy value: nil, an empty string or
// collection, false, or numeric zero. Pointers are followed.
func isEmpty(v any) bool {
	if v == nil {
		return true
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.String, reflect.Map, reflect.Slice, reflect.Array:
		return rv.Len() == 0
	case reflect.Bool:
		return !rv.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int() == 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return rv.Uint() == 0
	case reflect.Float32, reflect.Float64:
		return rv.Float() == 0
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return true
		}
		return isEmpty(rv.Elem().Interface())
	default:
		return false
	}
}

func formatValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case bool:
		return strconv.FormatBool(val)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case fmt.Stringer:
		return val.String()
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return ""
		}
		return formatValue(rv.Elem().Interface())
	}
	return fmt.Sprint(v)
}
