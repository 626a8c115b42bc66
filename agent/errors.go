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

package agent

import (
	"errors"

	"axonflow/diagrams/artifact"
	"axonflow/diagrams/catalog"
	"axonflow/diagrams/diagram"
	"axonflow/diagrams/llm"
	"axonflow/diagrams/render"
)

// Class partitions pipeline failures by who must act: the caller fixes input
// problems, retries resolve dependency problems, and everything else is a bug.
type Class int

const (
	ClassInput      Class = iota // Malformed or unresolvable request content
	ClassNotFound                // Unknown or already reclaimed artifact
	ClassDependency              // Completion service or rendering engine failure
	ClassInternal                // Unexpected failure inside the service
)

// Classify maps a pipeline error to its response class.
func Classify(err error) Class {
	var (
		inputErr    *diagram.Error
		serviceErr  *catalog.UnknownServiceError
		notFound    *artifact.NotFoundError
		providerErr *llm.ProviderError
		renderErr   *render.Error
	)
	switch {
	case errors.As(err, &inputErr), errors.As(err, &serviceErr):
		return ClassInput
	case errors.As(err, &notFound):
		return ClassNotFound
	case errors.As(err, &providerErr), errors.As(err, &renderErr),
		errors.Is(err, artifact.ErrStoreClosed):
		return ClassDependency
	default:
		return ClassInternal
	}
}
