package eval

import (
	"fmt"
	"io"
	"log/slog"
	"math"
	"strconv"
	"strings"

	"github.com/ardnew/fala/lang"
)

// TypeName returns the language name of a runtime value's type.
func TypeName(v any) string {
	switch v.(type) {
	case nil:
		return "nada"
	case bool:
		return lang.TypeBool.String()
	case int, int64:
		return lang.TypeInt.String()
	case float64:
		return lang.TypeReal.String()
	case string:
		return lang.TypeText.String()
	case []any:
		return lang.TypeList.String()
	default:
		return fmt.Sprintf("%T", v)
	}
}

// Format renders a value the way print writes it. Booleans are spelled
// verdadeiro and falso, reals always carry a decimal point and lists are
// bracketed with their text elements quoted.
func Format(v any) string {
	return format(v, false)
}

func format(v any, quote bool) string {
	switch v := v.(type) {
	case nil:
		return "nada"
	case bool:
		if v {
			return "verdadeiro"
		}

		return "falso"
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		s := strconv.FormatFloat(v, 'f', -1, 64)
		if !math.IsInf(v, 0) && !math.IsNaN(v) && !strings.Contains(s, ".") {
			s += ".0"
		}

		return s
	case string:
		if quote {
			return strconv.Quote(v)
		}

		return v
	case []any:
		elts := make([]string, len(v))
		for i, e := range v {
			elts[i] = format(e, true)
		}

		return "[" + strings.Join(elts, ", ") + "]"
	default:
		return fmt.Sprint(v)
	}
}

func toInt(v any) (int, bool) {
	switch v := v.(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	default:
		return 0, false
	}
}

func toFloat(v any) (float64, bool) {
	switch v := v.(type) {
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case float64:
		return v, true
	default:
		return 0, false
	}
}

// iterate returns the elements a for-each loop visits: the items of a list
// or the characters of a text.
func iterate(v any) ([]any, error) {
	switch v := v.(type) {
	case []any:
		return v, nil
	case string:
		items := make([]any, 0, len(v))
		for _, r := range v {
			items = append(items, string(r))
		}

		return items, nil
	default:
		return nil, ErrNotIterable.With(slog.String("type", TypeName(v)))
	}
}

// position converts idx to an offset into a sequence of length n. Negative
// indices count from the end.
func position(idx any, n int) (int, error) {
	i, ok := toInt(idx)
	if !ok {
		return 0, ErrType.Wrap(fmt.Errorf("index is %s, not int", TypeName(idx)))
	}

	if i < 0 {
		i += n
	}

	if i < 0 || i >= n {
		return 0, ErrIndex.With(slog.Int("index", i), slog.Int("length", n))
	}

	return i, nil
}

func indexHelper(params ...any) (any, error) {
	switch seq := params[0].(type) {
	case []any:
		i, err := position(params[1], len(seq))
		if err != nil {
			return nil, err
		}

		return seq[i], nil
	case string:
		chars := []rune(seq)

		i, err := position(params[1], len(chars))
		if err != nil {
			return nil, err
		}

		return string(chars[i]), nil
	default:
		return nil, ErrType.Wrap(fmt.Errorf("cannot index %s", TypeName(params[0])))
	}
}

// powHelper raises a number to a power. Two ints with a non-negative
// exponent give an int; anything else numeric gives a real.
func powHelper(params ...any) (any, error) {
	base, exp := params[0], params[1]

	if b, ok := toInt(base); ok {
		if e, ok := toInt(exp); ok && e >= 0 {
			result := 1
			for ; e > 0; e >>= 1 {
				if e&1 == 1 {
					result *= b
				}

				b *= b
			}

			return result, nil
		}
	}

	b, okb := toFloat(base)
	e, oke := toFloat(exp)

	if !okb || !oke {
		return nil, ErrType.Wrap(fmt.Errorf("operation na does not support %s and %s",
			TypeName(base), TypeName(exp)))
	}

	return math.Pow(b, e), nil
}

func (in *Interpreter) callHelper(params ...any) (any, error) {
	name, _ := params[0].(string)

	return in.call(name, params[1:])
}

func (in *Interpreter) printHelper(params ...any) (any, error) {
	return nil, in.write(params, "\n")
}

// readHelper writes its arguments as a prompt and returns one line of
// input without the line terminator.
func (in *Interpreter) readHelper(params ...any) (any, error) {
	if err := in.write(params, ""); err != nil {
		return nil, err
	}

	line, err := in.stdin.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return nil, lang.ErrReadInput.Wrap(err)
	}

	return strings.TrimRight(line, "\r\n"), nil
}

func (in *Interpreter) write(params []any, end string) error {
	parts := make([]string, len(params))
	for i, p := range params {
		parts[i] = Format(p)
	}

	_, err := io.WriteString(in.stdout, strings.Join(parts, " ")+end)
	if err != nil {
		return ErrRuntime.Wrap(err)
	}

	return nil
}
