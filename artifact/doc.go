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
Package artifact manages the lifecycle of rendered diagram files in a shared
directory.

# Lifecycle

Each artifact moves through a fixed progression:

	Created -> Served (0..N times) -> Eligible for removal (age > retention) -> Removed

The request path that creates an artifact never deletes it; reclamation is
the exclusive job of Sweep, which runs periodically in the background and
once more at shutdown.

# Concurrency

The artifact directory is the only resource contended between requests.
The Store serializes all index mutations under one mutex, which makes
Register atomic with respect to Sweep. Every Open increments the artifact's
active-reader count before bytes flow and the returned Reader decrements it
on Close; an artifact with a nonzero reader count is excluded from sweeps
regardless of age, so a download in flight can never lose its file.

# Shutdown

DrainAndStop refuses new reads, waits for in-flight readers (bounded by a
grace deadline), then runs one final sweep.
*/
package artifact
