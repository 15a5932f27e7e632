package eval

import (
	"fmt"
	"strings"

	"github.com/theosib/FineStructureScript/types"
)

// formatString implements the printf-style `%` string operator: a
// flag/width/precision/conversion grammar modeled after C's, applied
// against either a single value or an Array of values supplying
// one value per `%` directive (a bare `%%` is a literal percent and
// consumes no argument).
func formatString(format string, arg types.Value) (string, error) {
	var args []types.Value
	if arr, ok := arg.(*types.ArrayData); ok {
		args = arr.Elems
	} else {
		args = []types.Value{arg}
	}

	var b strings.Builder
	argi := 0
	nextArg := func() (types.Value, error) {
		if argi >= len(args) {
			return nil, fmt.Errorf("too few arguments for format string")
		}
		v := args[argi]
		argi++
		return v, nil
	}

	i := 0
	for i < len(format) {
		c := format[i]
		if c != '%' {
			b.WriteByte(c)
			i++
			continue
		}
		start := i
		i++
		if i < len(format) && format[i] == '%' {
			b.WriteByte('%')
			i++
			continue
		}
		for i < len(format) && strings.ContainsRune("-+0 #", rune(format[i])) {
			i++
		}
		for i < len(format) && format[i] >= '0' && format[i] <= '9' {
			i++
		}
		if i < len(format) && format[i] == '.' {
			i++
			for i < len(format) && format[i] >= '0' && format[i] <= '9' {
				i++
			}
		}
		if i >= len(format) {
			return "", fmt.Errorf("truncated format directive %q", format[start:])
		}
		conv := format[i]
		i++
		spec := format[start:i]

		v, err := nextArg()
		if err != nil {
			return "", err
		}
		rendered, err := applyConversion(spec, conv, v)
		if err != nil {
			return "", err
		}
		b.WriteString(rendered)
	}
	return b.String(), nil
}

func applyConversion(spec string, conv byte, v types.Value) (string, error) {
	goSpec := spec[:len(spec)-1]
	switch conv {
	case 'd', 'i':
		n, ok := v.(types.IntValue)
		if !ok {
			if f, ok := v.(types.FloatValue); ok {
				n = types.IntValue(int64(f))
			} else {
				return "", fmt.Errorf("%%%c requires a numeric argument, got %s", conv, v.Kind())
			}
		}
		return fmt.Sprintf(goSpec+"d", int64(n)), nil
	case 'f', 'g', 'e', 'F', 'G', 'E':
		f, ok := toFloat(v)
		if !ok {
			return "", fmt.Errorf("%%%c requires a numeric argument, got %s", conv, v.Kind())
		}
		return fmt.Sprintf(goSpec+string(conv), f), nil
	case 's':
		return fmt.Sprintf(goSpec+"s", v.String()), nil
	case 'x', 'X', 'o', 'b':
		n, ok := v.(types.IntValue)
		if !ok {
			return "", fmt.Errorf("%%%c requires an int argument, got %s", conv, v.Kind())
		}
		return fmt.Sprintf(goSpec+string(conv), int64(n)), nil
	case 'q':
		return fmt.Sprintf(goSpec+"q", v.String()), nil
	}
	return "", fmt.Errorf("unsupported format conversion %%%c", conv)
}
