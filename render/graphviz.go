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

package render

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"axonflow/diagrams/diagram"
)

// DefaultBinary is the Graphviz layout binary looked up on PATH.
const DefaultBinary = "dot"

// Graphviz renders graphs by shelling out to the Graphviz dot binary.
// It is stateless and safe for concurrent use.
type Graphviz struct {
	Binary string // Layout binary; DefaultBinary when empty
	Format string // Output format; "png" when empty
}

// NewGraphviz creates a Graphviz engine with default settings.
func NewGraphviz() *Graphviz {
	return &Graphviz{Binary: DefaultBinary, Format: "png"}
}

// Render emits the graph as DOT and invokes the layout binary. It fails with
// ErrCodeEngineUnavailable when the binary is not installed and
// ErrCodeRenderFailure for any engine-reported error. No retries.
func (g *Graphviz) Render(ctx context.Context, graph *diagram.Graph, outputPath string) error {
	binary := g.Binary
	if binary == "" {
		binary = DefaultBinary
	}
	format := g.Format
	if format == "" {
		format = "png"
	}

	path, err := exec.LookPath(binary)
	if err != nil {
		return &Error{Code: ErrCodeEngineUnavailable, Detail: fmt.Sprintf("%s not found on host", binary), Cause: err}
	}

	source := EmitDOT(graph)

	cmd := exec.CommandContext(ctx, path, "-T"+format, "-o", outputPath)
	cmd.Stdin = strings.NewReader(source)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		detail := strings.TrimSpace(stderr.String())
		if detail == "" {
			detail = "engine exited abnormally"
		}
		if _, ok := err.(*exec.ExitError); ok {
			return &Error{Code: ErrCodeRenderFailure, Detail: detail, Cause: err}
		}
		return &Error{Code: ErrCodeEngineUnavailable, Detail: detail, Cause: err}
	}
	return nil
}

// EmitDOT serializes a resolved graph to DOT source. Output is deterministic:
// clusters, nodes, and edges appear in their insertion order.
func EmitDOT(graph *diagram.Graph) string {
	var b strings.Builder
	b.WriteString("digraph diagram {\n")
	fmt.Fprintf(&b, "\tlabel=%s;\n", quote(graph.Title))
	fmt.Fprintf(&b, "\trankdir=%s;\n", graph.Direction)
	b.WriteString("\tnode [shape=box, style=rounded];\n")

	// Nodes grouped by owning cluster; clusters nested per their parents.
	byCluster := make(map[string][]diagram.GraphNode)
	for _, node := range graph.Nodes {
		byCluster[node.Cluster] = append(byCluster[node.Cluster], node)
	}
	children := make(map[string][]diagram.GraphCluster)
	for _, cluster := range graph.Clusters {
		children[cluster.Parent] = append(children[cluster.Parent], cluster)
	}

	for _, cluster := range children[""] {
		emitCluster(&b, cluster, children, byCluster, graph.LabelsEnabled, 1)
	}
	for _, node := range byCluster[""] {
		emitNode(&b, node, graph.LabelsEnabled, 1)
	}

	for _, edge := range graph.Edges {
		if edge.Label != "" && graph.LabelsEnabled {
			fmt.Fprintf(&b, "\t%s -> %s [label=%s];\n", quote(edge.Source), quote(edge.Target), quote(edge.Label))
		} else {
			fmt.Fprintf(&b, "\t%s -> %s;\n", quote(edge.Source), quote(edge.Target))
		}
	}

	b.WriteString("}\n")
	return b.String()
}

func emitCluster(b *strings.Builder, cluster diagram.GraphCluster, children map[string][]diagram.GraphCluster, byCluster map[string][]diagram.GraphNode, labels bool, depth int) {
	indent := strings.Repeat("\t", depth)
	fmt.Fprintf(b, "%ssubgraph cluster_%s {\n", indent, sanitize(cluster.ID))
	fmt.Fprintf(b, "%s\tlabel=%s;\n", indent, quote(cluster.Label))
	for _, child := range children[cluster.ID] {
		emitCluster(b, child, children, byCluster, labels, depth+1)
	}
	for _, node := range byCluster[cluster.ID] {
		emitNode(b, node, labels, depth+1)
	}
	fmt.Fprintf(b, "%s}\n", indent)
}

func emitNode(b *strings.Builder, node diagram.GraphNode, labels bool, depth int) {
	indent := strings.Repeat("\t", depth)
	label := node.Label
	if !labels {
		label = node.Icon.Class
	}
	fmt.Fprintf(b, "%s%s [label=%s, tooltip=%s];\n",
		indent, quote(node.ID), quote(label), quote(node.Icon.Module+"."+node.Icon.Class))
}

// quote escapes a value for use as a DOT quoted string.
func quote(s string) string {
	return `"` + strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`).Replace(s) + `"`
}

// sanitize keeps cluster subgraph names within DOT identifier rules.
func sanitize(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			out = append(out, r)
		default:
			out = append(out, '_')
		}
	}
	return string(out)
}
