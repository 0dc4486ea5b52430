package ctl

import (
	"reflect"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/pkg/errors"
)

// boolPtrMapper decodes an optional bool flag into *bool,
// the target stays nil when the flag is not set.
type boolPtrMapper struct{}

func (boolPtrMapper) IsBool() bool { return true }

func (boolPtrMapper) Decode(ctx *kong.DecodeContext, target reflect.Value) error {
	val := true
	if ctx.Scan.Peek().Type == kong.FlagValueToken {
		token := ctx.Scan.Pop()
		switch v := token.Value.(type) {
		case bool:
			val = v
		case string:
			switch strings.ToLower(v) {
			case "true", "1", "yes":
				val = true
			case "false", "0", "no":
				val = false
			default:
				return errors.Errorf("bool value must be true, 1, yes, false, 0 or no but got %q", v)
			}
		default:
			return errors.Errorf("expected bool but got %q (%T)", token.Value, token.Value)
		}
	}
	target.Set(reflect.ValueOf(&val))
	return nil
}

// BoolPtrMapper is an option to register a mapper to *bool type flag
var BoolPtrMapper = kong.TypeMapper(reflect.TypeOf((*bool)(nil)), boolPtrMapper{})
