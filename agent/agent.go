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

package agent

import (
	"context"
	"fmt"
	"sort"
	"time"

	"axonflow/diagrams/artifact"
	"axonflow/diagrams/catalog"
	"axonflow/diagrams/diagram"
	"axonflow/diagrams/interpreter"
	"axonflow/diagrams/render"
	"axonflow/diagrams/shared/logger"
)

// DefaultTitle is used when neither the request nor the interpreter names one.
const DefaultTitle = "Architecture Diagram"

// Config wires the agent's collaborators. All fields are required except
// OutputFormat, which defaults to png.
type Config struct {
	Catalog      *catalog.Catalog
	Strategy     interpreter.Strategy
	Engine       render.Engine
	Store        *artifact.Store
	OutputFormat string
}

// Request is one diagram synthesis request.
type Request struct {
	Description string // Free-text infrastructure description
	Provider    string // Optional provider hint ("aws", "gcp", "azure")
	Direction   string // Optional layout direction; empty means top-to-bottom
	Title       string // Optional diagram title
	ShowLabels  bool   // Render node and edge labels
}

// Result describes a successfully synthesized diagram.
type Result struct {
	Filename string        // Servable artifact filename
	Artifact artifact.Artifact
	Spec     *diagram.Spec // The interpreted specification, for the response body
	Duration time.Duration
}

// Agent runs the synthesis pipeline: interpret the description, replay the
// specification through a validating builder, render the resolved graph, and
// register the artifact. Safe for concurrent use; all per-request state is
// local to one call.
type Agent struct {
	catalog  *catalog.Catalog
	strategy interpreter.Strategy
	engine   render.Engine
	store    *artifact.Store
	format   string
	log      *logger.Logger
}

// New creates an Agent from its configured collaborators.
func New(cfg Config) *Agent {
	format := cfg.OutputFormat
	if format == "" {
		format = "png"
	}
	return &Agent{
		catalog:  cfg.Catalog,
		strategy: cfg.Strategy,
		engine:   cfg.Engine,
		store:    cfg.Store,
		format:   format,
		log:      logger.New("diagram-agent"),
	}
}

// Synthesize executes the full pipeline for one request. Input problems come
// back as *diagram.Error, rendering and completion failures as their
// package's dependency error types; Classify maps them to response classes.
func (a *Agent) Synthesize(ctx context.Context, requestID string, req Request) (*Result, error) {
	started := time.Now()

	direction, ok := diagram.ParseDirection(req.Direction)
	if !ok {
		return nil, diagram.NewError(diagram.KindInvalidInput, "invalid direction %q", req.Direction)
	}

	spec, err := a.strategy.Interpret(ctx, req.Description, interpreter.Options{
		ProviderHint:  req.Provider,
		Direction:     direction,
		LabelsEnabled: req.ShowLabels,
	})
	if err != nil {
		return nil, err
	}

	graph, err := a.build(req.Title, spec)
	if err != nil {
		return nil, err
	}

	filename := a.store.NewFilename(a.format)
	path, err := a.store.PathFor(filename)
	if err != nil {
		return nil, err
	}
	if err := a.engine.Render(ctx, graph, path); err != nil {
		return nil, err
	}
	registered, err := a.store.Register(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to register rendered artifact: %w", err)
	}

	duration := time.Since(started)
	a.log.InfoWithDuration(requestID, "diagram synthesized", float64(duration.Milliseconds()), map[string]interface{}{
		"filename": filename,
		"provider": string(spec.Provider),
		"nodes":    len(spec.Nodes),
		"edges":    len(spec.Edges),
		"clusters": len(spec.Clusters),
	})

	return &Result{
		Filename: filename,
		Artifact: registered,
		Spec:     spec,
		Duration: duration,
	}, nil
}

// build replays a specification through the validating Builder and returns
// the resolved graph. The builder enforces declaration order, so clusters are
// replayed parents-first.
func (a *Agent) build(title string, spec *diagram.Spec) (*diagram.Graph, error) {
	if title == "" {
		title = spec.Title
	}
	if title == "" {
		title = DefaultTitle
	}

	b, err := diagram.NewBuilder(a.catalog, title, spec.Direction, spec.LabelsEnabled)
	if err != nil {
		return nil, err
	}
	for _, cluster := range orderClusters(spec.Clusters) {
		if err := b.AddCluster(cluster.ID, cluster.Label, cluster.ParentID); err != nil {
			return nil, err
		}
	}
	for _, node := range spec.Nodes {
		if err := b.AddNode(node.ID, node.Service, spec.Provider, node.Label, node.ClusterID); err != nil {
			return nil, err
		}
	}
	for _, edge := range spec.Edges {
		if err := b.Connect(edge.Source, edge.Target, edge.Label); err != nil {
			return nil, err
		}
	}
	return b.Finish()
}

// orderClusters sorts clusters so every parent precedes its children. The
// input is already known to form a forest; unresolved or cyclic parents get
// a depth that leaves them last, and the builder rejects them.
func orderClusters(clusters []diagram.ClusterSpec) []diagram.ClusterSpec {
	if len(clusters) < 2 {
		return clusters
	}
	parents := make(map[string]string, len(clusters))
	for _, c := range clusters {
		parents[c.ID] = c.ParentID
	}
	depth := func(id string) int {
		d := 0
		for current := parents[id]; current != "" && d <= len(clusters); current = parents[current] {
			d++
		}
		return d
	}
	ordered := make([]diagram.ClusterSpec, len(clusters))
	copy(ordered, clusters)
	sort.SliceStable(ordered, func(i, j int) bool {
		return depth(ordered[i].ID) < depth(ordered[j].ID)
	})
	return ordered
}

// FetchArtifact resolves a previously synthesized diagram for download. The
// returned reader pins the artifact against sweeps until closed.
func (a *Agent) FetchArtifact(filename string) (*artifact.Reader, error) {
	return a.store.Open(filename)
}

// RunSweeps executes background artifact sweeps until the context is
// canceled. Run it in its own goroutine.
func (a *Agent) RunSweeps(ctx context.Context, interval time.Duration) {
	a.store.Run(ctx, interval)
}

// Shutdown drains in-flight downloads (bounded by grace) and runs the final
// artifact sweep.
func (a *Agent) Shutdown(grace time.Duration) {
	removed := a.store.DrainAndStop(grace)
	a.log.Info("", "agent stopped", map[string]interface{}{"final_sweep_removed": removed})
}
