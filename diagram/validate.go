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
	"regexp"
	"strings"
)

// Complexity limits. Diagrams past these sizes stop being readable and start
// being renderer stress tests.
const (
	MaxTitleLength   = 100
	MaxLabelLength   = 50
	MaxIDLength      = 50
	MaxNodesPerSpec  = 50
	MaxEdgesPerSpec  = 100
	MaxClustersCount = 10
)

var idPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// reservedIDs cannot be used as node or cluster ids; they collide with
// generated identifiers in the renderer output.
var reservedIDs = map[string]bool{
	"diagram": true, "node": true, "cluster": true, "edge": true,
	"graph": true, "root": true, "default": true,
}

// ValidateID checks an identifier for syntactic validity. The idType string
// is only used in error detail ("node id", "cluster id").
func ValidateID(id, idType string) error {
	if id == "" {
		return NewError(KindInvalidInput, "%s cannot be empty", idType)
	}
	if len(id) > MaxIDLength {
		return NewError(KindInvalidInput, "%s cannot exceed %d characters", idType, MaxIDLength)
	}
	if !idPattern.MatchString(id) {
		return NewError(KindInvalidInput, "%s %q may only contain alphanumerics, hyphens, and underscores", idType, id)
	}
	if reservedIDs[strings.ToLower(id)] {
		return NewError(KindInvalidInput, "%s %q is a reserved word", idType, id)
	}
	if strings.HasPrefix(id, "-") || strings.HasSuffix(id, "-") ||
		strings.HasPrefix(id, "_") || strings.HasSuffix(id, "_") {
		return NewError(KindInvalidInput, "%s %q cannot start or end with a separator", idType, id)
	}
	return nil
}

// ValidateLabel checks a node, cluster, or edge display label.
func ValidateLabel(label string) error {
	if strings.TrimSpace(label) == "" {
		return NewError(KindInvalidInput, "label cannot be empty")
	}
	if len(strings.TrimSpace(label)) > MaxLabelLength {
		return NewError(KindInvalidInput, "label cannot exceed %d characters", MaxLabelLength)
	}
	return nil
}

// ValidateTitle checks a diagram title.
func ValidateTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return NewError(KindInvalidInput, "title cannot be empty")
	}
	if len(strings.TrimSpace(title)) > MaxTitleLength {
		return NewError(KindInvalidInput, "title cannot exceed %d characters", MaxTitleLength)
	}
	if strings.ContainsAny(title, `<>"|*?\/:`) {
		return NewError(KindInvalidInput, "title contains invalid characters")
	}
	return nil
}

// ValidateLimits checks diagram complexity against the package limits.
func ValidateLimits(nodes, edges, clusters int) error {
	if nodes > MaxNodesPerSpec {
		return NewError(KindInvalidInput, "diagram cannot exceed %d nodes", MaxNodesPerSpec)
	}
	if edges > MaxEdgesPerSpec {
		return NewError(KindInvalidInput, "diagram cannot exceed %d edges", MaxEdgesPerSpec)
	}
	if clusters > MaxClustersCount {
		return NewError(KindInvalidInput, "diagram cannot exceed %d clusters", MaxClustersCount)
	}
	return nil
}
