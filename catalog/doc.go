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
Package catalog maps cloud-provider service keywords to renderable icon
references.

# Overview

The catalog is the static vocabulary of the diagram synthesis pipeline. It is
loaded once at startup from embedded YAML into an immutable structure and then
shared read-only across all requests - no locking is required for lookups.

# Resolution

Resolve applies a fixed priority order with no fuzzy matching:

 1. Exact canonical keyword for the provider ("ec2" under aws)
 2. Provider-specific alias ("application_load_balancer" -> "alb" under aws)
 3. Cross-provider generic alias ("database" -> "rds"/"cloud_sql"/"sql_database")

Anything ambiguous beyond that is the interpreter's problem, not the catalog's.

# Normalization

Normalize canonicalizes raw keywords before lookup: lowercasing, collapsing
separators to underscores, and stripping vendor prefixes ("aws_", "google_")
and "_service" suffixes. Resolve normalizes its input, so callers may pass
keywords exactly as they appear in user text.
*/
package catalog
