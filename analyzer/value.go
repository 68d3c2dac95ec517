package analyzer

import (
	"net"
	"strconv"
	"strings"

	"github.com/Twibooru/fancy-searchable/fault"
)

// normalizeBoolean enforces spec §4.2 step 5's boolean rule.
func normalizeBoolean(value string) (bool, error) {
	switch strings.ToLower(value) {
	case "true":
		return true, nil
	case "false":
		return false, nil
	default:
		return false, fault.New(fault.ValueCode, "not a boolean: "+value)
	}
}

// normalizeInteger parses value as a signed integer, then folds in a fuzz
// or range-suffix bound per spec §4.2 step 5.
func normalizeInteger(value string, fuzz *float64, rangeOp string) (any, error) {
	v, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return nil, fault.New(fault.ValueCode, "not an integer: "+value)
	}
	if rangeOp != "" {
		return intRangeBounds(v, rangeOp), nil
	}
	if fuzz != nil {
		lo := v - int64(*fuzz)
		hi := v + int64(*fuzz)
		return bounds{Gte: lo, Lte: hi}, nil
	}
	return v, nil
}

func intRangeBounds(v int64, op string) bounds {
	switch op {
	case "gt":
		return bounds{Gt: v}
	case "gte":
		return bounds{Gte: v}
	case "lt":
		return bounds{Lt: v}
	case "lte":
		return bounds{Lte: v}
	default: // "eq"
		return bounds{Gte: v, Lte: v}
	}
}

// normalizeFloat mirrors normalizeInteger for float fields.
func normalizeFloat(value string, fuzz *float64, rangeOp string) (any, error) {
	v, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return nil, fault.New(fault.ValueCode, "not a float: "+value)
	}
	if rangeOp != "" {
		return floatRangeBounds(v, rangeOp), nil
	}
	if fuzz != nil {
		return bounds{Gte: v - *fuzz, Lte: v + *fuzz}, nil
	}
	return v, nil
}

func floatRangeBounds(v float64, op string) bounds {
	switch op {
	case "gt":
		return bounds{Gt: v}
	case "gte":
		return bounds{Gte: v}
	case "lt":
		return bounds{Lt: v}
	case "lte":
		return bounds{Lte: v}
	default: // "eq"
		return bounds{Gte: v, Lte: v}
	}
}

// normalizeIP parses an address or CIDR range into its canonical string
// form (spec §4.2 step 5). Range suffixes are not applicable to ip fields;
// a range-suffixed ip atom never reaches here (the suffix gate in the
// analyzer only recognizes date/integer/float base fields).
func normalizeIP(value string) (string, error) {
	if strings.Contains(value, "/") {
		_, ipnet, err := net.ParseCIDR(value)
		if err != nil {
			return "", fault.New(fault.ValueCode, "not a valid CIDR range: "+value)
		}
		return ipnet.String(), nil
	}
	ip := net.ParseIP(value)
	if ip == nil {
		return "", fault.New(fault.ValueCode, "not a valid ip address: "+value)
	}
	return ip.String(), nil
}

// hasUnescapedWildcard reports whether s contains a '*' or '?' not
// preceded by an odd number of backslashes (spec §4.2 step 8).
func hasUnescapedWildcard(s string) bool {
	runes := []rune(s)
	for i := 0; i < len(runes); i++ {
		if runes[i] == '\\' {
			i++
			continue
		}
		if runes[i] == '*' || runes[i] == '?' {
			return true
		}
	}
	return false
}

// stripNonWildcardEscapes removes backslash escapes from s, except that
// `\*` and `\?` are kept verbatim for the downstream engine to interpret
// (spec §4.2 step 8).
func stripNonWildcardEscapes(s string) string {
	runes := []rune(s)
	var sb strings.Builder
	for i := 0; i < len(runes); i++ {
		if runes[i] == '\\' && i+1 < len(runes) {
			next := runes[i+1]
			if next == '*' || next == '?' {
				sb.WriteRune('\\')
				sb.WriteRune(next)
			} else {
				sb.WriteRune(next)
			}
			i++
			continue
		}
		sb.WriteRune(runes[i])
	}
	return sb.String()
}

// unescapeForFuzzy unescapes `\"` to `"` and strips all other backslash
// escapes, for Fuzzy leaf construction (spec §4.2 step 8).
func unescapeForFuzzy(s string) string {
	runes := []rune(s)
	var sb strings.Builder
	for i := 0; i < len(runes); i++ {
		if runes[i] == '\\' && i+1 < len(runes) {
			sb.WriteRune(runes[i+1])
			i++
			continue
		}
		sb.WriteRune(runes[i])
	}
	return sb.String()
}
