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

import "fmt"

// Kind categorizes an input error. Every Kind maps to a caller mistake
// ("fix your input"), never to a dependency failure - those use their own
// error types in the llm and render packages.
type Kind string

const (
	// KindUnrecognizedDescription means no strategy could find a single
	// known service keyword in the description.
	KindUnrecognizedDescription Kind = "unrecognized_description"

	// KindDuplicateID means a node or cluster id collided within its
	// namespace, or across the two namespaces.
	KindDuplicateID Kind = "duplicate_id"

	// KindUnknownEndpoint means an edge references a node that was never added.
	KindUnknownEndpoint Kind = "unknown_endpoint"

	// KindUnknownCluster means a node or cluster references a cluster that
	// was not declared first.
	KindUnknownCluster Kind = "unknown_cluster"

	// KindEmptyDiagram means render was requested with zero nodes.
	KindEmptyDiagram Kind = "empty_diagram"

	// KindInvalidInput covers syntactic problems: malformed ids, oversized
	// labels, diagram complexity limits, unsafe description content.
	KindInvalidInput Kind = "invalid_input"
)

// Error is a structured input error carrying the specific reason.
type Error struct {
	Kind   Kind
	Detail string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Detail)
}

// NewError builds an input error with a formatted detail message.
func NewError(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Detail: fmt.Sprintf(format, args...)}
}
