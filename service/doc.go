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

/*
Package service is the HTTP surface of the diagram architect.

# Endpoints

	GET  /health              component health
	GET  /prometheus          Prometheus metrics
	POST /generate-diagram    synthesize a diagram from a description
	GET  /diagrams/{filename} download a rendered diagram
	POST /assistant           chat wrapper around synthesis

# Error mapping

Pipeline errors map to status codes by class: input problems are 400,
unknown artifacts 404, completion-service and rendering-engine failures 503,
everything else 500. Error bodies carry {success, error, error_type}.

# Lifecycle

Run blocks until SIGINT/SIGTERM, then stops accepting requests, drains
in-flight downloads bounded by DRAIN_GRACE_SECONDS, and runs a final
artifact sweep.
*/
package service
