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

package service

import (
	"os"
	"strconv"
	"time"
)

// Config carries everything the service reads from the environment.
type Config struct {
	Port            string        // HTTP listen port
	GeminiAPIKey    string        // Empty disables the delegated strategy
	GeminiModel     string        // Optional model override
	MockMode        bool          // Force the heuristic strategy even with a key set
	DefaultProvider string        // Provider used when text and hint are silent
	CatalogFile     string        // Optional external catalog override
	TempDir         string        // Artifact directory
	Retention       time.Duration // Artifact lifetime before sweeps reclaim it
	SweepInterval   time.Duration // Background sweep cadence
	LLMTimeout      time.Duration // Per-completion-call timeout
	RequestTimeout  time.Duration // HTTP write deadline per request
	DrainGrace      time.Duration // How long shutdown waits for in-flight downloads
}

// LoadConfig reads the service configuration from environment variables,
// applying defaults for anything unset.
//
// Environment variables used:
//   - PORT: HTTP server port (default: 8080)
//   - GEMINI_API_KEY: Google API key (optional; heuristic-only without it)
//   - GEMINI_MODEL: Gemini model name (optional)
//   - MOCK_MODE: "true" forces the heuristic strategy (default: false)
//   - DEFAULT_PROVIDER: fallback cloud provider (default: aws)
//   - CATALOG_FILE: external catalog YAML path (optional)
//   - TEMP_DIR: artifact directory (default: /tmp/diagrams)
//   - MAX_FILE_AGE_MINUTES: artifact retention (default: 60)
//   - SWEEP_INTERVAL_MINUTES: sweep cadence (default: 5)
//   - LLM_TIMEOUT_SECONDS: completion call timeout (default: 20)
//   - REQUEST_TIMEOUT_SECONDS: HTTP request deadline (default: 60)
//   - DRAIN_GRACE_SECONDS: shutdown drain deadline (default: 10)
func LoadConfig() Config {
	return Config{
		Port:            getEnv("PORT", "8080"),
		GeminiAPIKey:    os.Getenv("GEMINI_API_KEY"),
		GeminiModel:     os.Getenv("GEMINI_MODEL"),
		MockMode:        getEnvBool("MOCK_MODE", false),
		DefaultProvider: getEnv("DEFAULT_PROVIDER", "aws"),
		CatalogFile:     os.Getenv("CATALOG_FILE"),
		TempDir:         getEnv("TEMP_DIR", "/tmp/diagrams"),
		Retention:       time.Duration(getEnvInt("MAX_FILE_AGE_MINUTES", 60)) * time.Minute,
		SweepInterval:   time.Duration(getEnvInt("SWEEP_INTERVAL_MINUTES", 5)) * time.Minute,
		LLMTimeout:      time.Duration(getEnvInt("LLM_TIMEOUT_SECONDS", 20)) * time.Second,
		RequestTimeout:  time.Duration(getEnvInt("REQUEST_TIMEOUT_SECONDS", 60)) * time.Second,
		DrainGrace:      time.Duration(getEnvInt("DRAIN_GRACE_SECONDS", 10)) * time.Second,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil && n > 0 {
			return n
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}
