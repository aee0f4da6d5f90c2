package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kadirpekel/agentrun/content"
)

func TestComputeCostNilPricingIsUnknown(t *testing.T) {
	usage := &content.ModelUsage{InputTokens: 100, OutputTokens: 50}
	assert.Nil(t, ComputeCost(usage, nil))
}

func TestComputeCostFallsBackToTopLevelForPlainText(t *testing.T) {
	usage := &content.ModelUsage{InputTokens: 1000, OutputTokens: 500}
	pricing := &Pricing{InputText: 0.001, OutputText: 0.002}

	cost := ComputeCost(usage, pricing)
	require.NotNil(t, cost)
	assert.InDelta(t, 1000*0.001+500*0.002, *cost, 1e-9)
}

func TestComputeCostUsesDetailBucketsWhenPresent(t *testing.T) {
	usage := &content.ModelUsage{
		InputTokens:  1000,
		OutputTokens: 500,
		InputTokensDetails: &content.ModelTokensDetails{
			TextTokens:       600,
			CachedTextTokens: 400,
		},
	}
	pricing := &Pricing{InputText: 0.001, InputCachedText: 0.0002, OutputText: 0.002}

	cost := ComputeCost(usage, pricing)
	require.NotNil(t, cost)
	assert.InDelta(t, 600*0.001+400*0.0002+500*0.002, *cost, 1e-9)
}

func TestComputeCostAdditivity(t *testing.T) {
	pricing := &Pricing{InputText: 0.001, OutputText: 0.002}
	u1 := &content.ModelUsage{InputTokens: 100, OutputTokens: 50}
	u2 := &content.ModelUsage{InputTokens: 200, OutputTokens: 75}

	combined := u1.Add(u2)
	combinedCost := ComputeCost(combined, pricing)

	c1 := ComputeCost(u1, pricing)
	c2 := ComputeCost(u2, pricing)
	require.NotNil(t, c1)
	require.NotNil(t, c2)
	require.NotNil(t, combinedCost)
	assert.InDelta(t, *c1+*c2, *combinedCost, 1e-9)
}
