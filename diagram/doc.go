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
Package diagram defines the canonical diagram model and the builder that
assembles it.

# Data model

Spec is the intermediate form every interpretation strategy produces: a
provider, a layout direction, ordered nodes, clusters, and directed edges.
Specs are created per request, consumed within it, and discarded.

Graph is the fully resolved structure handed to the renderer: the same shape
with every service keyword replaced by its icon reference.

# Builder

Builder enforces the structural invariants incrementally:

	b, _ := diagram.NewBuilder(cat, "Infrastructure Diagram", diagram.DirectionTopBottom, true)
	_ = b.AddCluster("web", "Web Tier", "")
	_ = b.AddNode("web1", "ec2", catalog.ProviderAWS, "Web Server", "web")
	_ = b.Connect("lb1", "web1", "routes")  // UnknownEndpoint: lb1 was never added
	g, err := b.Finish()

Per-call checks catch duplicate ids, undeclared clusters, and unknown
endpoints. Finish is the single point where the whole accumulated structure
is validated (cluster nesting forms a forest, complexity limits) and icons
are resolved through the catalog.

# Errors

All failures are *Error values with a Kind from the fixed input-error
taxonomy. They always mean the input is at fault and are never retried.
*/
package diagram
