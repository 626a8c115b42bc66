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
Package agent orchestrates diagram synthesis end to end.

# Pipeline

One Synthesize call runs the fixed pipeline:

	interpret -> build (validate + resolve icons) -> render -> register

The interpreter produces a canonical specification, the builder replays it
with full referential validation and catalog icon resolution, the rendering
engine materializes the image, and the artifact store takes ownership of the
file. The request path never deletes artifacts; reclamation belongs to the
store's sweeps.

# Error classes

Classify partitions pipeline failures into input, not-found, dependency and
internal classes so the HTTP layer can map them to status codes without
inspecting concrete error types itself.
*/
package agent
