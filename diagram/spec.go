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
	"strings"

	"axonflow/diagrams/catalog"
)

// Direction is the layout direction passed through to the rendering engine.
type Direction string

const (
	DirectionTopBottom Direction = "TB"
	DirectionBottomTop Direction = "BT"
	DirectionLeftRight Direction = "LR"
	DirectionRightLeft Direction = "RL"
)

// ParseDirection maps a raw direction string to a Direction constant.
// Empty input returns the default top-to-bottom layout.
func ParseDirection(s string) (Direction, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "", "TB":
		return DirectionTopBottom, true
	case "BT":
		return DirectionBottomTop, true
	case "LR":
		return DirectionLeftRight, true
	case "RL":
		return DirectionRightLeft, true
	}
	return "", false
}

// Spec is the canonical intermediate form produced by interpretation.
// It is created per request, fully consumed within that request, and
// discarded - nothing here is persisted.
type Spec struct {
	Title         string            `json:"title,omitempty"`
	Provider      catalog.Provider  `json:"provider"`
	Direction     Direction         `json:"direction"`
	Nodes         []NodeSpec        `json:"nodes"`
	Clusters      []ClusterSpec     `json:"clusters,omitempty"`
	Edges         []EdgeSpec        `json:"edges,omitempty"`
	LabelsEnabled bool              `json:"labels_enabled"`
}

// NodeSpec describes a single service node.
type NodeSpec struct {
	ID        string `json:"id"`                   // Stable id, deterministic from insertion order
	Service   string `json:"service"`              // Service keyword resolved through the catalog
	Label     string `json:"label"`                // Display label
	ClusterID string `json:"cluster_id,omitempty"` // Optional owning cluster
}

// ClusterSpec describes a named grouping of nodes. Nesting via ParentID must
// form a forest.
type ClusterSpec struct {
	ID       string `json:"id"`
	Label    string `json:"label"`
	ParentID string `json:"parent_id,omitempty"`
}

// EdgeSpec describes a directed connection between two existing nodes.
type EdgeSpec struct {
	Source string `json:"source"`
	Target string `json:"target"`
	Label  string `json:"label,omitempty"`
}

// Validate checks the whole specification for referential integrity:
// unique ids with no node/cluster namespace collisions, resolvable cluster
// references, resolvable edge endpoints, and cluster nesting that forms a
// forest. Violated inputs never reach the renderer.
func (s *Spec) Validate() error {
	if _, ok := ParseDirection(string(s.Direction)); !ok {
		return NewError(KindInvalidInput, "invalid direction %q", s.Direction)
	}
	if _, ok := catalog.ParseProvider(string(s.Provider)); !ok {
		return NewError(KindInvalidInput, "invalid provider %q", s.Provider)
	}

	clusterIDs := make(map[string]bool, len(s.Clusters))
	for _, cluster := range s.Clusters {
		if err := ValidateID(cluster.ID, "cluster id"); err != nil {
			return err
		}
		if err := ValidateLabel(cluster.Label); err != nil {
			return err
		}
		if clusterIDs[cluster.ID] {
			return NewError(KindDuplicateID, "cluster id %q already exists", cluster.ID)
		}
		clusterIDs[cluster.ID] = true
	}

	nodeIDs := make(map[string]bool, len(s.Nodes))
	for _, node := range s.Nodes {
		if err := ValidateID(node.ID, "node id"); err != nil {
			return err
		}
		if err := ValidateLabel(node.Label); err != nil {
			return err
		}
		if nodeIDs[node.ID] {
			return NewError(KindDuplicateID, "node id %q already exists", node.ID)
		}
		if clusterIDs[node.ID] {
			return NewError(KindDuplicateID, "node id %q collides with a cluster id", node.ID)
		}
		nodeIDs[node.ID] = true
		if node.ClusterID != "" && !clusterIDs[node.ClusterID] {
			return NewError(KindUnknownCluster, "node %q references undeclared cluster %q", node.ID, node.ClusterID)
		}
	}

	for _, cluster := range s.Clusters {
		if nodeIDs[cluster.ID] {
			return NewError(KindDuplicateID, "cluster id %q collides with a node id", cluster.ID)
		}
		if cluster.ParentID != "" && !clusterIDs[cluster.ParentID] {
			return NewError(KindUnknownCluster, "cluster %q references undeclared parent %q", cluster.ID, cluster.ParentID)
		}
	}
	if err := validateForest(s.Clusters); err != nil {
		return err
	}

	for _, edge := range s.Edges {
		if !nodeIDs[edge.Source] {
			return NewError(KindUnknownEndpoint, "edge source %q does not exist", edge.Source)
		}
		if !nodeIDs[edge.Target] {
			return NewError(KindUnknownEndpoint, "edge target %q does not exist", edge.Target)
		}
	}

	return ValidateLimits(len(s.Nodes), len(s.Edges), len(s.Clusters))
}

// validateForest rejects cycles in cluster nesting. Parent references are
// already known to resolve when this runs.
func validateForest(clusters []ClusterSpec) error {
	parents := make(map[string]string, len(clusters))
	for _, cluster := range clusters {
		parents[cluster.ID] = cluster.ParentID
	}
	for _, cluster := range clusters {
		seen := map[string]bool{cluster.ID: true}
		for current := parents[cluster.ID]; current != ""; current = parents[current] {
			if seen[current] {
				return NewError(KindInvalidInput, "cluster nesting cycle through %q", current)
			}
			seen[current] = true
		}
	}
	return nil
}
