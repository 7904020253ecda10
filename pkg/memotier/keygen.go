package memotier

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// KeyGenFunc builds a call key from the key parts of one invocation:
// the state fingerprint, the method name, the declared attribute
// values, and the call arguments, in that order.
type KeyGenFunc func(parts []any) string

// Keys longer than this are collapsed to a SHA-256 digest to prevent
// unbounded key growth.
const maxPlainKeyLen = 64

// DefaultKeyFunc generates type-sensitive call keys: equal numeric
// values of different underlying types produce distinct keys.
func DefaultKeyFunc(parts []any) string {
	return joinKey(parts, true)
}

// UntypedKeyFunc generates call keys that fold equal numeric values
// of different types together, so f(1) and f(1.0) share an entry.
func UntypedKeyFunc(parts []any) string {
	return joinKey(parts, false)
}

// StateHash returns a 64-bit fingerprint of an object's declared
// mutable state. Combined with the per-object result cache this is
// what retires stale entries: a mutation changes the fingerprint, and
// subsequent calls land under new keys.
func StateHash(o Cacheable) uint64 {
	return xxhash.Sum64String(joinKey(o.CacheState(), true))
}

func joinKey(parts []any, typed bool) string {
	if len(parts) == 0 {
		return "()"
	}
	elems := make([]string, len(parts))
	for i, p := range parts {
		elems[i] = keyPart(p, typed)
	}
	combined := strings.Join(elems, "|")
	if len(combined) <= maxPlainKeyLen {
		return combined
	}
	sum := sha256.Sum256([]byte(combined))
	return hex.EncodeToString(sum[:])
}

// keyPart renders a single key component. Cacheable values are keyed
// by identity plus their own state fingerprint, so a nested object's
// mutation changes the outer key as well.
func keyPart(v any, typed bool) string {
	if v == nil {
		return "nil"
	}
	if c, ok := v.(Cacheable); ok {
		return fmt.Sprintf("c:%d:%d", c.cacheHost().ident(), StateHash(c))
	}

	switch x := v.(type) {
	case string:
		return "s:" + x
	case bool:
		return "b:" + strconv.FormatBool(x)
	case int:
		return numKey(strconv.FormatInt(int64(x), 10), "i", typed)
	case int8:
		return numKey(strconv.FormatInt(int64(x), 10), "i8", typed)
	case int16:
		return numKey(strconv.FormatInt(int64(x), 10), "i16", typed)
	case int32:
		return numKey(strconv.FormatInt(int64(x), 10), "i32", typed)
	case int64:
		return numKey(strconv.FormatInt(x, 10), "i64", typed)
	case uint:
		return numKey(strconv.FormatUint(uint64(x), 10), "u", typed)
	case uint8:
		return numKey(strconv.FormatUint(uint64(x), 10), "u8", typed)
	case uint16:
		return numKey(strconv.FormatUint(uint64(x), 10), "u16", typed)
	case uint32:
		return numKey(strconv.FormatUint(uint64(x), 10), "u32", typed)
	case uint64:
		return numKey(strconv.FormatUint(x, 10), "u64", typed)
	case float32:
		return numKey(strconv.FormatFloat(float64(x), 'g', -1, 32), "f32", typed)
	case float64:
		return numKey(strconv.FormatFloat(x, 'g', -1, 64), "f64", typed)
	}

	return reflectKey(reflect.ValueOf(v), typed)
}

// numKey tags numeric renderings with their type when typed keys are
// requested; untyped keys share the canonical decimal form.
func numKey(s, tag string, typed bool) string {
	if typed {
		return tag + ":" + s
	}
	return s
}

func reflectKey(rv reflect.Value, typed bool) string {
	switch rv.Kind() {
	case reflect.Pointer:
		if rv.IsNil() {
			return "ptr:nil"
		}
		return "ptr:" + keyPart(rv.Elem().Interface(), typed)
	case reflect.Slice:
		if rv.IsNil() {
			return "[]nil"
		}
		fallthrough
	case reflect.Array:
		elems := make([]string, rv.Len())
		for i := range elems {
			elems[i] = keyPart(rv.Index(i).Interface(), typed)
		}
		return "[" + strings.Join(elems, ",") + "]"
	case reflect.Map:
		if rv.IsNil() {
			return "map:nil"
		}
		pairs := make([]string, 0, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			pairs = append(pairs, keyPart(iter.Key().Interface(), typed)+"="+keyPart(iter.Value().Interface(), typed))
		}
		// map iteration order is random
		sort.Strings(pairs)
		return "map{" + strings.Join(pairs, ",") + "}"
	case reflect.Struct:
		t := rv.Type()
		fields := make([]string, 0, rv.NumField())
		for i := 0; i < rv.NumField(); i++ {
			f := t.Field(i)
			if !f.IsExported() {
				continue
			}
			fields = append(fields, f.Name+":"+keyPart(rv.Field(i).Interface(), typed))
		}
		name := t.Name()
		if name == "" {
			name = "struct"
		}
		return name + "{" + strings.Join(fields, ",") + "}"
	default:
		v := rv.Interface()
		return fmt.Sprintf("%T:%v", v, v)
	}
}
