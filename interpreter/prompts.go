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
	"fmt"
	"strings"

	"axonflow/diagrams/catalog"
)

// systemPrompt sets the output contract for the completion service. The
// service keyword lists are generated from the catalog so the prompt never
// drifts from what the builder can actually resolve.
func systemPrompt(c *catalog.Catalog) string {
	var b strings.Builder
	b.WriteString(`You are a diagram architect that converts infrastructure descriptions into a strict JSON specification.

Respond with a single JSON object and nothing else - no prose, no markdown fences. Schema:

{
  "provider": "aws" | "gcp" | "azure",
  "direction": "TB" | "LR" | "BT" | "RL",
  "nodes": [{"id": "...", "service": "...", "label": "...", "cluster_id": "..."}],
  "clusters": [{"id": "...", "label": "...", "parent_id": "..."}],
  "edges": [{"source": "...", "target": "...", "label": "..."}]
}

Rules:
- ids contain only letters, digits, hyphens, underscores
- declare clusters before referencing them from nodes
- every edge endpoint must be a declared node id
- use only the service keywords listed below

Available services:
`)
	for _, provider := range catalog.Providers() {
		fmt.Fprintf(&b, "- %s: %s\n", provider, strings.Join(c.Keywords(provider), ", "))
	}
	b.WriteString("\nGroup related components into clusters and connect them in request-flow order.")
	return b.String()
}

// diagramPrompt wraps the user's description for the first attempt.
func diagramPrompt(text string) string {
	return fmt.Sprintf(`Create an infrastructure diagram specification for: %s

Identify the components, group them logically, and show their relationships.`, text)
}

// retryPrompt is the single clarifying re-prompt used when the first
// response could not be parsed or validated.
func retryPrompt(text string, reason error) string {
	return fmt.Sprintf(`Your previous answer was rejected: %v.

Respond again for the description below with ONLY the JSON object described in the system instructions. No explanations, no markdown.

Description: %s`, reason, text)
}
