package cache

import (
	"context"
	"fmt"
	"io"
	"reflect"
	"runtime"
	"strconv"
	"strings"

	"github.com/bhuisgen/recall/pkg/core"
)

// Func is an instrumentable operation.
type Func[A any, R any] func(ctx context.Context, arg A) (R, error)

// Call is a recorded call of an operation.
type Call struct {
	Input  string
	Output string
}

// InputsKey returns the key of the inputs list of the named operation.
func InputsKey(name string) string {
	return name + ":inputs"
}

// OutputsKey returns the key of the outputs list of the named operation.
func OutputsKey(name string) string {
	return name + ":outputs"
}

// CountCalls returns fn wrapped to increment the counter stored under name
// before each call. fn is not called when the increment fails.
func CountCalls[A any, R any](store core.Store, name string, fn Func[A, R]) Func[A, R] {
	return func(ctx context.Context, arg A) (R, error) {
		if _, err := store.Incr(ctx, name); err != nil {
			var zero R
			return zero, fmt.Errorf("count call: %w", err)
		}
		return fn(ctx, arg)
	}
}

// CallHistory returns fn wrapped to append the textual form of its argument
// to the inputs list of name before each call, and its result to the outputs
// list after each successful call.
//
// The two appends are not atomic: a failed call, or concurrent calls, leave
// the lists misaligned.
func CallHistory[A any, R any](store core.Store, name string, fn Func[A, R]) Func[A, R] {
	inputs, outputs := InputsKey(name), OutputsKey(name)

	return func(ctx context.Context, arg A) (R, error) {
		var zero R
		if _, err := store.RPush(ctx, inputs, []byte(fmt.Sprint(arg))); err != nil {
			return zero, fmt.Errorf("record input: %w", err)
		}
		result, err := fn(ctx, arg)
		if err != nil {
			return result, err
		}
		if _, err := store.RPush(ctx, outputs, encodeOutput(result)); err != nil {
			return zero, fmt.Errorf("record output: %w", err)
		}
		return result, nil
	}
}

// History returns the recorded calls of the named operation and the number
// of recorded inputs. Calls are paired by index and truncated to the shorter
// list.
func History(ctx context.Context, store core.Store, name string) ([]Call, int, error) {
	inputs, err := store.LRange(ctx, InputsKey(name), 0, -1)
	if err != nil {
		return nil, 0, fmt.Errorf("read inputs: %w", err)
	}
	outputs, err := store.LRange(ctx, OutputsKey(name), 0, -1)
	if err != nil {
		return nil, 0, fmt.Errorf("read outputs: %w", err)
	}

	n := min(len(inputs), len(outputs))
	calls := make([]Call, 0, n)
	for i := 0; i < n; i++ {
		calls = append(calls, Call{
			Input:  string(inputs[i]),
			Output: string(outputs[i]),
		})
	}

	return calls, len(inputs), nil
}

// Replay writes the recorded calls of the named operation to w.
func Replay(ctx context.Context, store core.Store, name string, w io.Writer) error {
	calls, count, err := History(ctx, store, name)
	if err != nil {
		return err
	}

	if _, err := fmt.Fprintf(w, "%s was called %d times:\n", name, count); err != nil {
		return err
	}
	for _, call := range calls {
		if _, err := fmt.Fprintf(w, "%s(%s) -> %s\n", name, call.Input, call.Output); err != nil {
			return err
		}
	}

	return nil
}

// QualifiedName returns a name for the function value, made of its receiver
// type and method name when it is a method (e.g. "Cache.Store").
func QualifiedName(fn any) string {
	v := reflect.ValueOf(fn)
	if v.Kind() != reflect.Func || v.IsNil() {
		return ""
	}
	f := runtime.FuncForPC(v.Pointer())
	if f == nil {
		return ""
	}

	name := f.Name()
	name = strings.TrimSuffix(name, "-fm")
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}
	if i := strings.Index(name, "."); i >= 0 {
		name = name[i+1:]
	}
	name = strings.NewReplacer("(", "", ")", "", "*", "").Replace(name)

	return name
}

// encodeOutput returns the store representation of a result.
func encodeOutput(v any) []byte {
	switch r := v.(type) {
	case Value:
		return r.Encode()
	case string:
		return []byte(r)
	case []byte:
		return r
	case int:
		return strconv.AppendInt(nil, int64(r), 10)
	case int64:
		return strconv.AppendInt(nil, r, 10)
	case float64:
		return strconv.AppendFloat(nil, r, 'f', -1, 64)
	case bool:
		return strconv.AppendBool(nil, r)
	}
	return []byte(fmt.Sprint(v))
}
