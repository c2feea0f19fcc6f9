package bp

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/tidwall/gjson"
)

// dateLayout is the date-only form used by date inputs.
const dateLayout = "2006-01-02"

// timer is satisfied by BSON datetimes and similar wrappers.
type timer interface{ Time() time.Time }

// Safe turns any value into the string a text input shows: missing and null
// become "", dates become YYYY-MM-DD (UTC), everything else its string form.
// Strings are never reparsed as dates.
func Safe(v any) string {
	if isNilPointer(v) {
		return ""
	}
	switch x := v.(type) {
	case nil:
		return ""
	case gjson.Result:
		return safeResult(x)
	case string:
		return x
	case time.Time:
		return x.UTC().Format(dateLayout)
	case *time.Time:
		return x.UTC().Format(dateLayout)
	case timer:
		return x.Time().UTC().Format(dateLayout)
	case bool:
		return strconv.FormatBool(x)
	case float64:
		return formatNumber(x)
	case float32:
		return formatNumber(float64(x))
	case json.Number:
		return x.String()
	case fmt.Stringer:
		return x.String()
	default:
		return fmt.Sprint(x)
	}
}

func safeResult(r gjson.Result) string {
	switch r.Type {
	case gjson.Null:
		return ""
	case gjson.String:
		return r.Str
	case gjson.Number:
		// números inteiros grandes (documentos) chegam crus
		if n, err := strconv.ParseInt(r.Raw, 10, 64); err == nil {
			return strconv.FormatInt(n, 10)
		}
		return formatNumber(r.Num)
	case gjson.True:
		return "true"
	case gjson.False:
		return "false"
	default:
		return r.Raw
	}
}

func formatNumber(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	case f == 0:
		return "0" // inclui -0
	}
	// notação exponencial fora de [1e-6, 1e21), expoente sem zeros à esquerda
	if a := math.Abs(f); a >= 1e21 || a < 1e-6 {
		s := strconv.FormatFloat(f, 'e', -1, 64)
		mant, exp, _ := strings.Cut(s, "e")
		sign, digits := exp[:1], strings.TrimLeft(exp[1:], "0")
		return mant + "e" + sign + digits
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// Truthy is the checkbox coercion: false, 0, "", null and missing are false,
// anything else is true. "X" and "false" are both true.
func Truthy(v any) bool {
	if isNilPointer(v) {
		return false
	}
	switch x := v.(type) {
	case nil:
		return false
	case gjson.Result:
		switch x.Type {
		case gjson.Null, gjson.False:
			return false
		case gjson.Number:
			return x.Num != 0 && !math.IsNaN(x.Num)
		case gjson.String:
			return x.Str != ""
		default:
			return true
		}
	case bool:
		return x
	case string:
		return x != ""
	case float64:
		return x != 0 && !math.IsNaN(x)
	case float32:
		return x != 0 && !math.IsNaN(float64(x))
	case int:
		return x != 0
	case int64:
		return x != 0
	case int32:
		return x != 0
	default:
		return true
	}
}

func isNilPointer(v any) bool {
	if v == nil {
		return false
	}
	rv := reflect.ValueOf(v)
	return rv.Kind() == reflect.Pointer && rv.IsNil()
}
