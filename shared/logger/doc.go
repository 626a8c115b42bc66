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

// Package logger provides structured JSON logging for service components.
//
// Every entry carries the component name, the container hostname, an
// optional request id, and arbitrary key-value fields, serialized as one
// JSON object per line on stdout where the container runtime collects it.
//
//	log := logger.New("diagram-agent")
//	log.Info(requestID, "diagram rendered", map[string]interface{}{"nodes": 4})
package logger
