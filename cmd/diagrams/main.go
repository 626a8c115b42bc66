// Copyright 2025 AxonFlow
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package main is the entry point for the Diagram Architect service.
//
// The service turns free-text infrastructure descriptions into rendered
// architecture diagrams:
// - Interprets descriptions via Gemini or a deterministic keyword heuristic
// - Validates the resulting structure against the service catalog
// - Renders diagrams through Graphviz
// - Serves and eventually reclaims the rendered artifacts
//
// Usage:
//
//	./diagrams
//
// Environment Variables:
//
//	PORT - HTTP server port (default: 8080)
//	GEMINI_API_KEY - Google API key (optional; heuristic-only without it)
//	MOCK_MODE - "true" forces the heuristic strategy
//	DEFAULT_PROVIDER - fallback cloud provider (default: aws)
//	TEMP_DIR - artifact directory (default: /tmp/diagrams)
//	MAX_FILE_AGE_MINUTES - artifact retention (default: 60)
package main

import (
	"axonflow/diagrams/service"
)

func main() {
	service.Run()
}
