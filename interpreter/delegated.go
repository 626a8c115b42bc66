// Copyright 2025 AxonFlow
// SPDX-License-Identifier: BUSL-1.1
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package interpreter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"axonflow/diagrams/catalog"
	"axonflow/diagrams/diagram"
	"axonflow/diagrams/llm"
)

// completionMaxTokens is sized for the largest spec the limits allow.
const completionMaxTokens = 2048

// Delegated asks a completion provider to produce the diagram specification
// and falls back to the heuristic strategy when the provider is unavailable
// or keeps producing unusable output. One clarifying retry is allowed for a
// malformed response; dependency failures fall back immediately.
type Delegated struct {
	provider llm.Provider
	fallback *Heuristic
	timeout  time.Duration
	system   string // Generated once from the catalog
}

// Interpret implements Strategy.
func (d *Delegated) Interpret(ctx context.Context, text string, opts Options) (*diagram.Spec, error) {
	if err := ValidateDescription(text); err != nil {
		return nil, err
	}

	spec, err := d.attempt(ctx, d.system, diagramPrompt(text), opts)
	if err == nil {
		return spec, nil
	}
	var provErr *llm.ProviderError
	if errors.As(err, &provErr) {
		return d.fallback.Interpret(ctx, text, opts)
	}

	// Malformed output gets exactly one clarifying re-prompt.
	spec, err = d.attempt(ctx, d.system, retryPrompt(text, err), opts)
	if err == nil {
		return spec, nil
	}
	return d.fallback.Interpret(ctx, text, opts)
}

// attempt runs one completion call and parses the result into a validated
// Spec. Provider failures come back as *llm.ProviderError; everything else
// is a parse or validation failure suitable for a retry prompt.
func (d *Delegated) attempt(ctx context.Context, system, prompt string, opts Options) (*diagram.Spec, error) {
	callCtx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	resp, err := d.provider.Complete(callCtx, llm.CompletionRequest{
		Prompt:       prompt,
		SystemPrompt: system,
		MaxTokens:    completionMaxTokens,
		Temperature:  0.2,
	})
	if err != nil {
		return nil, err
	}
	return d.parse(resp.Content, opts)
}

// parse decodes the model output into a Spec, applies request defaults, and
// runs full structural validation plus a catalog check on every node service.
func (d *Delegated) parse(content string, opts Options) (*diagram.Spec, error) {
	payload := stripFences(content)
	if payload == "" {
		return nil, fmt.Errorf("empty response body")
	}

	var spec diagram.Spec
	dec := json.NewDecoder(strings.NewReader(payload))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&spec); err != nil {
		return nil, fmt.Errorf("response is not the expected JSON object: %w", err)
	}

	if spec.Provider == "" {
		if hinted, ok := catalog.ParseProvider(opts.ProviderHint); ok {
			spec.Provider = hinted
		} else {
			spec.Provider = d.fallback.defaultProvider
		}
	}
	if spec.Direction == "" {
		spec.Direction = opts.Direction
		if spec.Direction == "" {
			spec.Direction = diagram.DirectionTopBottom
		}
	}
	spec.LabelsEnabled = opts.LabelsEnabled

	if err := spec.Validate(); err != nil {
		return nil, err
	}
	for _, node := range spec.Nodes {
		if _, err := d.fallback.catalog.Canonical(spec.Provider, node.Service); err != nil {
			return nil, fmt.Errorf("node %q uses unknown service %q for provider %s",
				node.ID, node.Service, spec.Provider)
		}
	}
	return &spec, nil
}

// stripFences removes a surrounding markdown code fence, which models emit
// even when told not to.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		// Drop the language tag line ("json").
		s = s[i+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
