package toolkit_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/petasbytes/go-toolgen/toolkit"
)

type pairArgs struct {
	A int64 `json:"a"`
	B int64 `json:"b"`
}

type failure struct{ msg string }

func (f *failure) Error() string            { return toolkit.ExecutionFailed(f.msg) }
func (f *failure) ExecutionMessage() string { return f.msg }

type quotient struct{}

func (quotient) Name() string { return "quotient" }

func (quotient) Definition(context.Context, string) toolkit.Definition {
	return toolkit.Definition{
		Name:        "quotient",
		Description: toolkit.DefaultDescription("quotient"),
		Parameters: toolkit.Object(
			toolkit.Param("a", toolkit.Number()),
			toolkit.Param("b", toolkit.Number()),
		),
	}
}

func (quotient) Call(_ context.Context, args pairArgs) (int64, error) {
	if args.B == 0 {
		return 0, &failure{msg: "division by zero"}
	}
	return args.A / args.B, nil
}

var _ toolkit.Tool[pairArgs, int64] = quotient{}

func TestDefinition_WireShape(t *testing.T) {
	def := quotient{}.Definition(context.Background(), "")
	b, err := json.Marshal(def)
	require.NoError(t, err)

	doc := gjson.ParseBytes(b)
	assert.Equal(t, "quotient", doc.Get("name").String())
	assert.Equal(t, "Function to quotient", doc.Get("description").String())
	assert.Equal(t, "object", doc.Get("parameters.type").String())
	assert.Equal(t, "number", doc.Get("parameters.properties.a.type").String())
	assert.Equal(t, "Parameter b", doc.Get("parameters.properties.b.description").String())

	var keys []string
	doc.Get("parameters.properties").ForEach(func(k, _ gjson.Result) bool {
		keys = append(keys, k.String())
		return true
	})
	assert.Equal(t, []string{"a", "b"}, keys)
}

func TestObject_EmptyKeepsProperties(t *testing.T) {
	b, err := json.Marshal(toolkit.Object())
	require.NoError(t, err)
	props := gjson.GetBytes(b, "properties")
	require.True(t, props.Exists(), "empty object schema must still carry properties: %s", b)
	assert.True(t, props.IsObject())
	assert.Empty(t, props.Map())
}

func TestArray_NoItems(t *testing.T) {
	b, err := json.Marshal(toolkit.Array(nil))
	require.NoError(t, err)
	assert.Equal(t, "array", gjson.GetBytes(b, "type").String())
	assert.False(t, gjson.GetBytes(b, "items").Exists())

	nested, err := json.Marshal(toolkit.Array(toolkit.Array(toolkit.Text())))
	require.NoError(t, err)
	assert.Equal(t, "string", gjson.GetBytes(nested, "items.items.type").String())
}

func TestBind_CallJSON(t *testing.T) {
	h := toolkit.Bind[pairArgs, int64](quotient{})
	ctx := context.Background()

	out, err := h.CallJSON(ctx, json.RawMessage(`{"a":9,"b":3}`))
	require.NoError(t, err)
	assert.JSONEq(t, `3`, string(out))

	_, err = h.CallJSON(ctx, json.RawMessage(`{"a":1,"b":0}`))
	var f toolkit.Failure
	require.ErrorAs(t, err, &f)
	assert.Equal(t, "division by zero", f.ExecutionMessage())
	assert.Equal(t, "tool execution failed: division by zero", err.Error())

	_, err = h.CallJSON(ctx, json.RawMessage(`{"a":"nine"}`))
	var argErr *toolkit.ArgumentsError
	require.ErrorAs(t, err, &argErr)
	assert.Equal(t, "quotient", argErr.Tool)
}

func TestBind_EmptyPayloadIsZeroArgs(t *testing.T) {
	h := toolkit.Bind[pairArgs, int64](quotient{})
	_, err := h.CallJSON(context.Background(), nil)
	var f toolkit.Failure
	require.ErrorAs(t, err, &f, "zero args divide by zero")
}

func TestErrorText(t *testing.T) {
	if got := toolkit.ErrorText(nil); got != "" {
		t.Fatalf("nil error text: got %q", got)
	}
	if got := toolkit.ErrorText(errors.New("boom")); got != "boom" {
		t.Fatalf("unexpected text: %q", got)
	}
}
