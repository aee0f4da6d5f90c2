package content

// ModelTokensDetails breaks a token count down by modality and cache
// status. Add treats a nil pointer as all-zero. The cost formula in package
// llm does not: for a nil pointer it bills the top-level token count as
// text, while a zero-valued struct bills nothing.
type ModelTokensDetails struct {
	TextTokens        int `json:"text_tokens,omitempty"`
	AudioTokens       int `json:"audio_tokens,omitempty"`
	ImageTokens       int `json:"image_tokens,omitempty"`
	CachedTextTokens  int `json:"cached_text_tokens,omitempty"`
	CachedAudioTokens int `json:"cached_audio_tokens,omitempty"`
	CachedImageTokens int `json:"cached_image_tokens,omitempty"`
}

// Add returns the field-by-field sum of two details structs, treating a
// nil receiver or argument as all-zero.
func (d *ModelTokensDetails) Add(o *ModelTokensDetails) *ModelTokensDetails {
	if d == nil && o == nil {
		return nil
	}
	result := &ModelTokensDetails{}
	if d != nil {
		result.TextTokens += d.TextTokens
		result.AudioTokens += d.AudioTokens
		result.ImageTokens += d.ImageTokens
		result.CachedTextTokens += d.CachedTextTokens
		result.CachedAudioTokens += d.CachedAudioTokens
		result.CachedImageTokens += d.CachedImageTokens
	}
	if o != nil {
		result.TextTokens += o.TextTokens
		result.AudioTokens += o.AudioTokens
		result.ImageTokens += o.ImageTokens
		result.CachedTextTokens += o.CachedTextTokens
		result.CachedAudioTokens += o.CachedAudioTokens
		result.CachedImageTokens += o.CachedImageTokens
	}
	return result
}

// ModelUsage is the token accounting for one model turn.
type ModelUsage struct {
	InputTokens         int                 `json:"input_tokens"`
	OutputTokens        int                 `json:"output_tokens"`
	InputTokensDetails  *ModelTokensDetails `json:"input_tokens_details,omitempty"`
	OutputTokensDetails *ModelTokensDetails `json:"output_tokens_details,omitempty"`
}

// Add returns the monotonic sum of two usages: top-level counts add, and
// detail structs merge field-by-field with a missing side treated as zero.
func (u *ModelUsage) Add(o *ModelUsage) *ModelUsage {
	if u == nil {
		return o
	}
	if o == nil {
		return u
	}
	return &ModelUsage{
		InputTokens:         u.InputTokens + o.InputTokens,
		OutputTokens:        u.OutputTokens + o.OutputTokens,
		InputTokensDetails:  u.InputTokensDetails.Add(o.InputTokensDetails),
		OutputTokensDetails: u.OutputTokensDetails.Add(o.OutputTokensDetails),
	}
}
