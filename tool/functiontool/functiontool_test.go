package functiontool

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kadirpekel/agentrun/content"
	"github.com/kadirpekel/agentrun/tool"
)

type weatherArgs struct {
	City string `json:"city" jsonschema:"required,description=City to look up"`
}

func TestFunctionToolSchemaDeclaresObjectWithRequired(t *testing.T) {
	ft := New("get_weather", "Gets the weather", func(ctx context.Context, args weatherArgs, callCtx struct{}, state *tool.RunState) (tool.Result, error) {
		return TextResult("sunny in " + args.City), nil
	})

	schema := ft.Parameters()
	assert.Equal(t, "object", schema["type"])
	assert.Equal(t, false, schema["additionalProperties"])
	assert.Contains(t, schema["required"], "city")
}

func TestFunctionToolExecuteDecodesArgs(t *testing.T) {
	ft := New("get_weather", "Gets the weather", func(ctx context.Context, args weatherArgs, callCtx struct{}, state *tool.RunState) (tool.Result, error) {
		return TextResult("sunny in " + args.City), nil
	})

	result, err := ft.Execute(context.Background(), json.RawMessage(`{"city":"NYC"}`), struct{}{}, tool.NewRunState())
	require.NoError(t, err)
	assert.False(t, result.IsError)
	assert.Equal(t, content.NewText("sunny in NYC"), result.Content[0])
}

func TestFunctionToolExecuteInvalidJSONIsRecoverableError(t *testing.T) {
	ft := New("get_weather", "Gets the weather", func(ctx context.Context, args weatherArgs, callCtx struct{}, state *tool.RunState) (tool.Result, error) {
		return TextResult("sunny in " + args.City), nil
	})

	result, err := ft.Execute(context.Background(), json.RawMessage(`{not json`), struct{}{}, tool.NewRunState())
	require.NoError(t, err)
	assert.True(t, result.IsError)
}

func TestNewPanicsOnInvalidName(t *testing.T) {
	assert.Panics(t, func() {
		New("bad name!", "desc", func(ctx context.Context, args weatherArgs, callCtx struct{}, state *tool.RunState) (tool.Result, error) {
			return tool.Result{}, nil
		})
	})
}
