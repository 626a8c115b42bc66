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

package diagram

import (
	"axonflow/diagrams/catalog"
)

// Graph is the fully resolved node/cluster/edge structure handed to the
// rendering engine. Every node carries its resolved icon reference; nothing
// in a Graph requires further catalog lookups.
type Graph struct {
	Title         string
	Direction     Direction
	LabelsEnabled bool
	Nodes         []GraphNode
	Clusters      []GraphCluster
	Edges         []GraphEdge
}

// GraphNode is a node with its icon resolved.
type GraphNode struct {
	ID      string
	Label   string
	Icon    catalog.IconRef
	Cluster string // Owning cluster id, empty for top-level nodes
}

// GraphCluster is a named grouping, possibly nested.
type GraphCluster struct {
	ID     string
	Label  string
	Parent string
}

// GraphEdge is a directed edge between two resolved nodes.
type GraphEdge struct {
	Source string
	Target string
	Label  string
}

// Builder incrementally assembles and validates a diagram graph. A Builder is
// private to a single request and is not safe for concurrent use - requests
// never share one.
//
// Operations are applied in order: clusters must be declared before the nodes
// that reference them, and nodes before the edges that connect them. Finish
// performs whole-graph validation and icon resolution.
type Builder struct {
	catalog       *catalog.Catalog
	title         string
	direction     Direction
	labelsEnabled bool

	nodes        []builderNode
	nodeIndex    map[string]bool
	clusters     []ClusterSpec
	clusterIndex map[string]bool
	edges        []EdgeSpec
}

type builderNode struct {
	id       string
	service  string
	provider catalog.Provider
	label    string
	cluster  string
}

// NewBuilder creates a Builder for one diagram.
func NewBuilder(c *catalog.Catalog, title string, direction Direction, labelsEnabled bool) (*Builder, error) {
	if err := ValidateTitle(title); err != nil {
		return nil, err
	}
	if _, ok := ParseDirection(string(direction)); !ok {
		return nil, NewError(KindInvalidInput, "invalid direction %q", direction)
	}
	return &Builder{
		catalog:       c,
		title:         title,
		direction:     direction,
		labelsEnabled: labelsEnabled,
		nodeIndex:     make(map[string]bool),
		clusterIndex:  make(map[string]bool),
	}, nil
}

// AddCluster declares a cluster. The parent, if any, must already be declared.
func (b *Builder) AddCluster(id, label, parent string) error {
	if err := ValidateID(id, "cluster id"); err != nil {
		return err
	}
	if err := ValidateLabel(label); err != nil {
		return err
	}
	if b.clusterIndex[id] || b.nodeIndex[id] {
		return NewError(KindDuplicateID, "cluster id %q already exists", id)
	}
	if parent != "" && !b.clusterIndex[parent] {
		return NewError(KindUnknownCluster, "parent cluster %q was not declared", parent)
	}
	b.clusters = append(b.clusters, ClusterSpec{ID: id, Label: label, ParentID: parent})
	b.clusterIndex[id] = true
	return nil
}

// AddNode adds a service node. The cluster, if given, must already be
// declared. The service keyword is not resolved here - icon resolution (and
// its UnknownService failure mode) happens in Finish, the single point where
// the accumulated structure is validated as a whole.
func (b *Builder) AddNode(id, service string, provider catalog.Provider, label, cluster string) error {
	if err := ValidateID(id, "node id"); err != nil {
		return err
	}
	if err := ValidateLabel(label); err != nil {
		return err
	}
	if b.nodeIndex[id] || b.clusterIndex[id] {
		return NewError(KindDuplicateID, "node id %q already exists", id)
	}
	if cluster != "" && !b.clusterIndex[cluster] {
		return NewError(KindUnknownCluster, "cluster %q was not declared", cluster)
	}
	b.nodes = append(b.nodes, builderNode{id: id, service: service, provider: provider, label: label, cluster: cluster})
	b.nodeIndex[id] = true
	return nil
}

// Connect adds a directed edge between two previously added nodes.
func (b *Builder) Connect(source, target, label string) error {
	if !b.nodeIndex[source] {
		return NewError(KindUnknownEndpoint, "source node %q was never added", source)
	}
	if !b.nodeIndex[target] {
		return NewError(KindUnknownEndpoint, "target node %q was never added", target)
	}
	b.edges = append(b.edges, EdgeSpec{Source: source, Target: target, Label: label})
	return nil
}

// Finish validates the accumulated structure as a whole, resolves every
// node's icon through the catalog, and returns the renderable graph.
// It fails with EmptyDiagram when no nodes were added and propagates
// UnknownService from icon resolution.
func (b *Builder) Finish() (*Graph, error) {
	if len(b.nodes) == 0 {
		return nil, NewError(KindEmptyDiagram, "diagram has no nodes")
	}
	if err := ValidateLimits(len(b.nodes), len(b.edges), len(b.clusters)); err != nil {
		return nil, err
	}
	// Per-call checks cannot see cross-entity invariants such as nesting
	// cycles introduced by later declarations; re-check the forest here.
	if err := validateForest(b.clusters); err != nil {
		return nil, err
	}

	g := &Graph{
		Title:         b.title,
		Direction:     b.direction,
		LabelsEnabled: b.labelsEnabled,
		Nodes:         make([]GraphNode, 0, len(b.nodes)),
		Clusters:      make([]GraphCluster, 0, len(b.clusters)),
		Edges:         make([]GraphEdge, 0, len(b.edges)),
	}

	for _, cluster := range b.clusters {
		g.Clusters = append(g.Clusters, GraphCluster{ID: cluster.ID, Label: cluster.Label, Parent: cluster.ParentID})
	}
	for _, node := range b.nodes {
		icon, err := b.catalog.Resolve(node.provider, node.service)
		if err != nil {
			return nil, err
		}
		g.Nodes = append(g.Nodes, GraphNode{ID: node.id, Label: node.label, Icon: icon, Cluster: node.cluster})
	}
	for _, edge := range b.edges {
		g.Edges = append(g.Edges, GraphEdge{Source: edge.Source, Target: edge.Target, Label: edge.Label})
	}

	return g, nil
}
