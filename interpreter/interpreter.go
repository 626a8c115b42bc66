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
	"regexp"
	"strings"
	"time"

	"axonflow/diagrams/catalog"
	"axonflow/diagrams/diagram"
	"axonflow/diagrams/llm"
)

// MaxDescriptionLength bounds the free-text input.
const MaxDescriptionLength = 2000

// DefaultLLMTimeout bounds one completion call in the delegated strategy.
const DefaultLLMTimeout = 20 * time.Second

// Options carries the per-request knobs that end up in the produced Spec.
type Options struct {
	ProviderHint  string            // Raw provider hint from the caller; empty means infer
	Direction     diagram.Direction // Layout direction for the produced spec
	LabelsEnabled bool              // Whether node/edge labels are rendered
}

// Strategy converts free text into a canonical diagram specification.
// Implementations must be safe for concurrent use; the strategy is selected
// once at construction, not per request.
type Strategy interface {
	Interpret(ctx context.Context, text string, opts Options) (*diagram.Spec, error)
}

// Config selects and configures the interpretation strategy.
type Config struct {
	Catalog         *catalog.Catalog // Required: keyword vocabulary and icon lookups
	Provider        llm.Provider     // Optional: completion service; nil selects the heuristic strategy
	DefaultProvider catalog.Provider // Provider used when neither text nor hint names one
	LLMTimeout      time.Duration    // Per-call timeout for the delegated strategy
}

// New builds the configured strategy: delegated (with heuristic fallback)
// when a completion provider is configured, plain heuristic otherwise.
func New(cfg Config) Strategy {
	heuristic := NewHeuristic(cfg.Catalog, cfg.DefaultProvider)
	if cfg.Provider == nil {
		return heuristic
	}
	timeout := cfg.LLMTimeout
	if timeout <= 0 {
		timeout = DefaultLLMTimeout
	}
	return &Delegated{
		provider: cfg.Provider,
		fallback: heuristic,
		timeout:  timeout,
		system:   systemPrompt(cfg.Catalog),
	}
}

// Patterns that have no business inside an infrastructure description.
var unsafePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)<script`),
	regexp.MustCompile(`(?i)javascript:`),
	regexp.MustCompile(`(?i)on\w+\s*=`),
	regexp.MustCompile(`(?i)eval\s*\(`),
	regexp.MustCompile(`(?i)exec\s*\(`),
}

// ValidateDescription rejects descriptions no strategy should ever see:
// blank input, oversized input, and content that smells like injection.
func ValidateDescription(text string) error {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return diagram.NewError(diagram.KindUnrecognizedDescription, "description is empty")
	}
	if len(text) > MaxDescriptionLength {
		return diagram.NewError(diagram.KindInvalidInput, "description cannot exceed %d characters", MaxDescriptionLength)
	}
	for _, pattern := range unsafePatterns {
		if pattern.MatchString(text) {
			return diagram.NewError(diagram.KindInvalidInput, "description contains potentially unsafe content")
		}
	}
	return nil
}
