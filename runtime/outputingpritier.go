package runtime

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Pretty formats a Value as a single-line string, distinguishing
// array-shaped Objects (consecutive "0".."n-1" keys plus "length")
// from plain Objects, since both share the same underlying record.
func Pretty(v Value) string {
	switch t := v.(type) {
	case String:
		return fmt.Sprintf("%q", string(t))
	case *Function:
		return "[function]"
	case *Object:
		if elems, ok := asArray(t); ok {
			parts := make([]string, len(elems))
			for i, el := range elems {
				parts[i] = Pretty(el)
			}
			return "[" + strings.Join(parts, ", ") + "]"
		}
		keys := objectKeys(t)
		parts := make([]string, len(keys))
		for i, k := range keys {
			parts[i] = fmt.Sprintf("%q: %s", k, Pretty(t.GetProperty(k)))
		}
		return "{" + strings.Join(parts, ", ") + "}"
	default:
		return ToString(v)
	}
}

// asArray reports whether o looks like an array literal's lowering:
// own keys "0".."length-1" plus a matching "length".
func asArray(o *Object) ([]Value, bool) {
	lengthVal, ok := o.Properties["length"]
	if !ok {
		return nil, false
	}
	n, ok := lengthVal.Value.(Number)
	if !ok || n < 0 {
		return nil, false
	}
	count := int(n)
	if count != len(o.Properties)-1 {
		return nil, false
	}
	elems := make([]Value, count)
	for i := 0; i < count; i++ {
		desc, ok := o.Properties[strconv.Itoa(i)]
		if !ok {
			return nil, false
		}
		elems[i] = desc.Value
	}
	return elems, true
}

func objectKeys(o *Object) []string {
	keys := make([]string, 0, len(o.Properties))
	for k := range o.Properties {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
