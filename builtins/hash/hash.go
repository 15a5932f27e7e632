// Package hash registers digest and encoding native functions with a
// ScriptEngine, wired to finescript's NativeFunc/MapData calling
// convention.
package hash

import (
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	stdhash "hash"

	"golang.org/x/crypto/ripemd160"

	"github.com/theosib/FineStructureScript/engine"
	"github.com/theosib/FineStructureScript/types"
)

// Register installs md5/sha1/sha256/sha512/ripemd160 digest functions
// (each returning a lowercase hex string) and base64 encode/decode into
// e's global scope.
func Register(e *engine.ScriptEngine) {
	e.RegisterFunction("md5", digestFn(md5.New))
	e.RegisterFunction("sha1", digestFn(sha1.New))
	e.RegisterFunction("sha256", digestFn(sha256.New))
	e.RegisterFunction("sha512", digestFn(sha512.New))
	e.RegisterFunction("ripemd160", digestFn(ripemd160.New))
	e.RegisterFunction("base64_encode", base64Encode)
	e.RegisterFunction("base64_decode", base64Decode)
}

func digestFn(ctor func() stdhash.Hash) types.NativeFunc {
	return func(ctx *types.ExecutionContext, args []types.Value) (types.Value, error) {
		if len(args) < 1 {
			return nil, fmt.Errorf("expected one string argument")
		}
		s, ok := args[0].(*types.StringData)
		if !ok {
			return nil, fmt.Errorf("expected a string argument, got %s", args[0].Kind())
		}
		h := ctor()
		h.Write(s.B)
		return types.NewString(hex.EncodeToString(h.Sum(nil))), nil
	}
}

func base64Encode(ctx *types.ExecutionContext, args []types.Value) (types.Value, error) {
	if len(args) < 1 {
		return nil, fmt.Errorf("expected one string argument")
	}
	s, ok := args[0].(*types.StringData)
	if !ok {
		return nil, fmt.Errorf("expected a string argument, got %s", args[0].Kind())
	}
	return types.NewString(base64.StdEncoding.EncodeToString(s.B)), nil
}

func base64Decode(ctx *types.ExecutionContext, args []types.Value) (types.Value, error) {
	if len(args) < 1 {
		return nil, fmt.Errorf("expected one string argument")
	}
	s, ok := args[0].(*types.StringData)
	if !ok {
		return nil, fmt.Errorf("expected a string argument, got %s", args[0].Kind())
	}
	b, err := base64.StdEncoding.DecodeString(s.String())
	if err != nil {
		return nil, err
	}
	return types.NewStringBytes(b), nil
}
