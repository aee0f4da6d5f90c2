package llm

import "github.com/kadirpekel/agentrun/content"

// ComputeCost applies the cost formula to a usage snapshot. It returns nil
// when pricing is nil (cost unknown, not zero) and a non-nil pointer
// otherwise, even when the computed total is 0.
//
// Missing per-modality detail fields fall back to the top-level
// input_tokens/output_tokens counts only for the plain-text buckets;
// every other bucket defaults to zero when its detail struct is absent.
// Missing rates (a zero-valued Pricing field) default to zero.
func ComputeCost(usage *content.ModelUsage, pricing *Pricing) *float64 {
	if pricing == nil {
		return nil
	}
	if usage == nil {
		zero := 0.0
		return &zero
	}

	inputText, inputAudio, inputImage := usage.InputTokens, 0, 0
	inputCachedText, inputCachedAudio, inputCachedImage := 0, 0, 0
	if d := usage.InputTokensDetails; d != nil {
		inputText = d.TextTokens
		inputAudio = d.AudioTokens
		inputImage = d.ImageTokens
		inputCachedText = d.CachedTextTokens
		inputCachedAudio = d.CachedAudioTokens
		inputCachedImage = d.CachedImageTokens
	}

	outputText, outputAudio, outputImage := usage.OutputTokens, 0, 0
	if d := usage.OutputTokensDetails; d != nil {
		outputText = d.TextTokens
		outputAudio = d.AudioTokens
		outputImage = d.ImageTokens
	}

	total := float64(inputText)*pricing.InputText +
		float64(inputAudio)*pricing.InputAudio +
		float64(inputImage)*pricing.InputImage +
		float64(inputCachedText)*pricing.InputCachedText +
		float64(inputCachedAudio)*pricing.InputCachedAudio +
		float64(inputCachedImage)*pricing.InputCachedImage +
		float64(outputText)*pricing.OutputText +
		float64(outputAudio)*pricing.OutputAudio +
		float64(outputImage)*pricing.OutputImage

	return &total
}
