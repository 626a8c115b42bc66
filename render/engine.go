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

// Package render adapts validated diagram graphs to an external rendering
// engine. Layout and pixel generation are delegated entirely to the engine;
// this package only emits a correct graph description and classifies engine
// failures.
package render

import (
	"context"
	"fmt"

	"axonflow/diagrams/diagram"
)

// Engine is the rendering boundary. Implementations consume a resolved graph
// and produce an image file at outputPath.
//
// Rendering failures are deterministic given the same input, so callers must
// not retry - surface the error immediately.
type Engine interface {
	Render(ctx context.Context, g *diagram.Graph, outputPath string) error
}

// Error codes for Error.
const (
	// ErrCodeEngineUnavailable means the engine is not present on the host.
	ErrCodeEngineUnavailable = "engine_unavailable"

	// ErrCodeRenderFailure covers any other engine-reported error.
	ErrCodeRenderFailure = "render_failure"
)

// Error wraps a rendering failure with a code for categorization.
type Error struct {
	Code   string
	Detail string
	Cause  error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("render: %s: %s (cause: %v)", e.Code, e.Detail, e.Cause)
	}
	return fmt.Sprintf("render: %s: %s", e.Code, e.Detail)
}

func (e *Error) Unwrap() error {
	return e.Cause
}
