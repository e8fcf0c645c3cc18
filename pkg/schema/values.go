package schema

import "time"

// Values is a normalized payload. Strings stay string, integers become int,
// dates become time.Time and nested objects become Values.
type Values map[string]any

func (v Values) Has(key string) bool {
	_, ok := v[key]
	return ok
}

func (v Values) String(key string) string {
	s, _ := v[key].(string)
	return s
}

func (v Values) Int(key string) (int, bool) {
	n, ok := v[key].(int)
	return n, ok
}

func (v Values) Time(key string) (time.Time, bool) {
	t, ok := v[key].(time.Time)
	return t, ok
}

// Object returns the nested Values under key, or nil.
func (v Values) Object(key string) Values {
	o, _ := v[key].(Values)
	return o
}

// Map converts v into plain maps, formatting dates as YYYY-MM-DD, for
// storage in JSON documents.
func (v Values) Map() map[string]any {
	out := make(map[string]any, len(v))
	for k, val := range v {
		switch t := val.(type) {
		case Values:
			out[k] = t.Map()
		case time.Time:
			out[k] = t.Format(time.DateOnly)
		default:
			out[k] = val
		}
	}
	return out
}
