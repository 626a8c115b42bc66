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
Package interpreter turns free-text infrastructure descriptions into
canonical diagram specifications.

# Strategies

Two strategies implement the same Strategy interface and are selected once
at startup:

  - Heuristic: deterministic keyword extraction over the catalog vocabulary.
    Quantified mentions ("two web servers") expand into distinct nodes,
    multi-node roles become tier clusters, and consecutive tiers are chained
    with directed edges in mention order. No network calls.

  - Delegated: a completion provider produces the specification as JSON.
    The response is parsed and fully validated. A malformed response earns
    one clarifying re-prompt; provider failures and retry exhaustion both
    hand the request to the heuristic strategy, so a configured completion
    provider never makes the service less available than the heuristic
    baseline.

Both strategies reject input that ValidateDescription flags: empty text,
text over MaxDescriptionLength, or content matching injection patterns.
*/
package interpreter
