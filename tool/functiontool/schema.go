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

package functiontool

import (
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"
)

// generateSchema derives a type:"object" JSON schema from a Go struct's
// json/jsonschema tags.
//
// Supported tags:
//   - json:"name"                      - parameter name
//   - json:",omitempty"                - optional parameter
//   - jsonschema:"required"            - explicitly mark as required
//   - jsonschema:"description=..."     - parameter description
//   - jsonschema:"enum=val1|val2"      - allowed values
//   - jsonschema:"minimum=N,maximum=M" - numeric constraints
func generateSchema[Args any]() (map[string]any, error) {
	reflector := &jsonschema.Reflector{
		RequiredFromJSONSchemaTags: true,
		ExpandedStruct:             true,
		DoNotReference:             true,
	}

	schema := reflector.Reflect(new(Args))

	schemaMap, err := schemaToMap(schema)
	if err != nil {
		return nil, fmt.Errorf("convert schema to map: %w", err)
	}

	if schemaMap["type"] != "object" {
		return nil, fmt.Errorf("tool arguments must reflect to a JSON object, got %v", schemaMap["type"])
	}

	result := map[string]any{
		"type":                 "object",
		"properties":           schemaMap["properties"],
		"additionalProperties": false,
	}
	if required, ok := schemaMap["required"]; ok {
		result["required"] = required
	} else {
		result["required"] = []string{}
	}
	return result, nil
}

func schemaToMap(schema *jsonschema.Schema) (map[string]any, error) {
	data, err := json.Marshal(schema)
	if err != nil {
		return nil, err
	}
	var result map[string]any
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, err
	}
	delete(result, "$schema")
	delete(result, "$id")
	return result, nil
}
