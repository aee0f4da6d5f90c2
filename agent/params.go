// Copyright 2025 Kadir Pekel
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package agent

import (
	"github.com/kadirpekel/agentrun/instruction"
	"github.com/kadirpekel/agentrun/llm"
	"github.com/kadirpekel/agentrun/tool"
	"github.com/kadirpekel/agentrun/toolkit"
)

// DefaultMaxTurns is used when Params.MaxTurns is nil.
const DefaultMaxTurns = 10

// Params configures an Agent. Name and Model are required; everything
// else is optional. Params is immutable after construction and safe to
// share by reference across many sessions.
type Params[C any] struct {
	Name  string
	Model llm.LanguageModel

	Instructions []instruction.Param[C]
	Tools        []tool.Tool[C]
	Toolkits     []toolkit.Toolkit[C]

	ResponseFormat *llm.ResponseFormat

	// MaxTurns caps model invocations per run. Nil selects DefaultMaxTurns;
	// a pointer to 0 makes every run fail immediately with an Invariant
	// error, since a run must always invoke the model at least once.
	MaxTurns *int

	Temperature      *float64
	TopP             *float64
	TopK             *int
	PresencePenalty  *float64
	FrequencyPenalty *float64
	Modalities       []llm.Modality
	Audio            *llm.AudioConfig
	Reasoning        *llm.ReasoningConfig
}

func (p *Params[C]) maxTurns() int {
	if p.MaxTurns == nil {
		return DefaultMaxTurns
	}
	return *p.MaxTurns
}
