// Package transform implements fieldmeta.Transform callables backed by a
// Lua script (spec §4.2 step 7, §9 "Callable field transforms"), grounded
// on the teacher's processor/lua.go sandboxed-VM-pool pattern: this is
// that same pattern retargeted from "parse a raw log line into a
// LogRecord" to "turn a normalized field value into a leaf query
// fragment".
package transform

import (
	"fmt"
	"sync"
	"time"

	"github.com/Twibooru/fancy-searchable/fault"
	"github.com/Twibooru/fancy-searchable/queryast"
	lua "github.com/yuin/gopher-lua"
	luajson "layeh.com/gopher-json"
)

// LuaTransform runs a user-supplied Lua script's `transform(value)`
// function to produce a leaf query fragment, one VM pool per registered
// field. The script must define a global `transform` function taking the
// normalized field value and returning a table shaped
// `{kind = "term"|"range"|"wildcard"|"fuzzy"|"match_phrase"|"match_all"|
// "match_none", value = ..., gt = ..., gte = ..., lt = ..., lte = ...,
// fuzziness = ..., boost = ...}` — the field name itself is filled in by
// the caller, not the script.
type LuaTransform struct {
	field      string
	scriptPath string
	pool       *sync.Pool
}

// NewLuaTransform registers a Lua script as the transform for field.
// scriptPath is loaded once per pooled VM, the same lazy-per-worker load
// the teacher's NewLuaLogProcessor uses.
func NewLuaTransform(field, scriptPath string) *LuaTransform {
	t := &LuaTransform{field: field, scriptPath: scriptPath}
	t.pool = &sync.Pool{
		New: func() any {
			L := lua.NewState(lua.Options{SkipOpenLibs: true})
			for _, lib := range []struct {
				name string
				fn   lua.LGFunction
			}{
				{lua.LoadLibName, lua.OpenPackage},
				{lua.BaseLibName, lua.OpenBase},
				{lua.TabLibName, lua.OpenTable},
				{lua.StringLibName, lua.OpenString},
				{lua.MathLibName, lua.OpenMath},
			} {
				L.Push(L.NewFunction(lib.fn))
				L.Push(lua.LString(lib.name))
				L.Call(1, 0)
			}
			luajson.Preload(L)
			if err := L.DoFile(scriptPath); err != nil {
				panic(err)
			}
			return L
		},
	}
	return t
}

// Apply satisfies fieldmeta.Transform.
func (t *LuaTransform) Apply(value any) (queryast.LeafQuery, error) {
	L := t.pool.Get().(*lua.LState)
	defer t.pool.Put(L)

	arg, err := toLuaValue(value)
	if err != nil {
		return nil, fault.New(fault.ValueCode, "lua transform: "+err.Error())
	}

	if err := L.CallByParam(lua.P{
		Fn:      L.GetGlobal("transform"),
		NRet:    1,
		Protect: true,
	}, arg); err != nil {
		return nil, fault.New(fault.ValueCode, "lua transform script error: "+err.Error())
	}

	ret := L.Get(-1)
	L.Pop(1)

	table, ok := ret.(*lua.LTable)
	if !ok {
		return nil, fault.New(fault.ValueCode, "lua transform: transform() must return a table")
	}
	return decodeLeaf(t.field, luaTableToMap(table))
}

func toLuaValue(value any) (lua.LValue, error) {
	switch v := value.(type) {
	case nil:
		return lua.LNil, nil
	case string:
		return lua.LString(v), nil
	case bool:
		return lua.LBool(v), nil
	case int64:
		return lua.LNumber(v), nil
	case float64:
		return lua.LNumber(v), nil
	case time.Time:
		return lua.LString(v.Format(time.RFC3339)), nil
	default:
		return nil, fmt.Errorf("unsupported value type %T for a lua transform", value)
	}
}

func luaTableToMap(table *lua.LTable) map[string]any {
	res := make(map[string]any)
	table.ForEach(func(key, value lua.LValue) {
		res[key.String()] = convertLuaValue(value)
	})
	return res
}

func convertLuaValue(value lua.LValue) any {
	switch v := value.(type) {
	case *lua.LTable:
		return luaTableToMap(v)
	case lua.LNumber:
		return float64(v)
	case lua.LString:
		return string(v)
	case lua.LBool:
		return bool(v)
	default:
		if value == lua.LNil {
			return nil
		}
		return v.String()
	}
}

func decodeLeaf(field string, m map[string]any) (queryast.LeafQuery, error) {
	kind, _ := m["kind"].(string)
	boost := optFloat(m, "boost")

	switch kind {
	case "term":
		return queryast.Term{Field: field, Value: m["value"], Boost: boost}, nil
	case "wildcard":
		pattern, _ := m["value"].(string)
		return queryast.Wildcard{Field: field, Pattern: pattern, Boost: boost}, nil
	case "fuzzy":
		val, _ := m["value"].(string)
		fuzziness, _ := m["fuzziness"].(float64)
		return queryast.Fuzzy{Field: field, Value: val, Fuzziness: fuzziness, Boost: boost}, nil
	case "match_phrase":
		val, _ := m["value"].(string)
		return queryast.MatchPhrase{Field: field, Value: val, Boost: boost}, nil
	case "range":
		return queryast.Range{Field: field, Gt: m["gt"], Gte: m["gte"], Lt: m["lt"], Lte: m["lte"]}, nil
	case "match_all":
		return queryast.MatchAll{}, nil
	case "match_none":
		return queryast.MatchNone{}, nil
	default:
		return nil, fault.New(fault.ValueCode, "lua transform: unknown leaf kind "+kind)
	}
}

func optFloat(m map[string]any, key string) *float64 {
	v, ok := m[key].(float64)
	if !ok {
		return nil
	}
	return &v
}
