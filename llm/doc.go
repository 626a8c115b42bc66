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
Package llm defines the text-completion service boundary used by the
delegated interpretation strategy.

The Provider interface treats the completion service as a black box: a prompt
goes in, text comes out. Implementations must be safe for concurrent use and
must honor context cancellation - the interpreter enforces a timeout on every
call and treats expiry as a recoverable failure.

Errors are *ProviderError values with a code (unavailable, timeout,
bad_response) so the caller can distinguish "the service is down" from "the
service answered garbage". Both trigger fallback to the heuristic strategy;
neither is ever surfaced as an input error.

The gemini subpackage provides the production implementation.
*/
package llm
