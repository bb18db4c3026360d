package einotool_test

import (
	"context"
	"errors"
	"testing"

	"github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/petasbytes/go-toolgen/examples/calculator"
	"github.com/petasbytes/go-toolgen/toolkit"
	"github.com/petasbytes/go-toolgen/toolkit/einotool"
)

func TestInfo(t *testing.T) {
	ctx := context.Background()
	it := einotool.New(toolkit.Bind[calculator.SumNumbersArgs, int64](calculator.SumNumbers))
	info, err := it.Info(ctx)
	require.NoError(t, err)
	assert.Equal(t, "sum_numbers", info.Name)
	assert.Equal(t, "Function to sum_numbers", info.Desc)
	require.NotNil(t, info.ParamsOneOf)
}

func TestParams(t *testing.T) {
	def := calculator.SumNumbers.Definition(context.Background(), "")
	params := einotool.Params(def.Parameters)
	require.Contains(t, params, "numbers")
	numbers := params["numbers"]
	assert.Equal(t, schema.Array, numbers.Type)
	assert.Equal(t, "Parameter numbers", numbers.Desc)
	require.NotNil(t, numbers.ElemInfo)
	assert.Equal(t, schema.Number, numbers.ElemInfo.Type)

	assert.Empty(t, einotool.Params(calculator.AnswerSecretQuestion.Definition(context.Background(), "").Parameters))
	assert.Empty(t, einotool.Params(nil))
}

func TestInvokableRun(t *testing.T) {
	ctx := context.Background()
	var add tool.InvokableTool
	for _, bt := range einotool.FromRegistry(calculator.Registry()) {
		info, err := bt.Info(ctx)
		require.NoError(t, err)
		if info.Name == "add" {
			add = bt.(tool.InvokableTool)
		}
	}
	require.NotNil(t, add)

	out, err := add.InvokableRun(ctx, `{"a":5,"b":2}`)
	require.NoError(t, err)
	assert.Equal(t, "7", out)

	div := einotool.New(toolkit.Bind[calculator.DivideArgs, int64](calculator.Divide))
	_, err = div.InvokableRun(ctx, `{"a":1,"b":0}`)
	var f toolkit.Failure
	assert.True(t, errors.As(err, &f))
}
