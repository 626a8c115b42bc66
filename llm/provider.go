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

package llm

import (
	"context"
	"fmt"
	"time"
)

// Provider is the interface every completion backend implements.
// Implementations must be safe for concurrent use.
type Provider interface {
	// Name returns the provider identifier used for logging and metrics.
	Name() string

	// Complete generates a completion for the given request. The context
	// carries the caller's timeout; implementations must return promptly
	// when it is canceled.
	Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error)

	// IsHealthy reports whether the provider believes it can serve requests.
	IsHealthy() bool
}

// CompletionRequest encapsulates the parameters for one completion call.
type CompletionRequest struct {
	Prompt       string  // The user input text
	SystemPrompt string  // Optional instruction that sets output shape
	MaxTokens    int     // Response token cap; 0 uses the provider default
	Temperature  float64 // Sampling temperature; negative uses the provider default
}

// CompletionResponse contains the result of a completion call.
type CompletionResponse struct {
	Content      string        // Generated text
	Model        string        // Model that actually served the request
	InputTokens  int           // Prompt tokens consumed
	OutputTokens int           // Completion tokens generated
	Latency      time.Duration // Wall time for the call
}

// Error codes for ProviderError.
const (
	ErrCodeUnavailable = "unavailable"  // Service unreachable or returned a 5xx
	ErrCodeTimeout     = "timeout"      // Context deadline expired mid-call
	ErrCodeBadResponse = "bad_response" // Service answered but the body was unusable
)

// ProviderError wraps a completion failure with a code for categorization.
type ProviderError struct {
	Provider string
	Code     string
	Message  string
	Cause    error
}

func (e *ProviderError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %s (cause: %v)", e.Provider, e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s: %s", e.Provider, e.Code, e.Message)
}

func (e *ProviderError) Unwrap() error {
	return e.Cause
}

// NewProviderError creates a ProviderError.
func NewProviderError(provider, code, message string, cause error) *ProviderError {
	return &ProviderError{Provider: provider, Code: code, Message: message, Cause: cause}
}
