// Copyright 2025 AxonFlow
// SPDX-License-Identifier: BUSL-1.1

package agent

import (
	"context"
	"errors"
	"io"
	"os"
	"strings"
	"testing"
	"time"

	"axonflow/diagrams/artifact"
	"axonflow/diagrams/catalog"
	"axonflow/diagrams/diagram"
	"axonflow/diagrams/interpreter"
	"axonflow/diagrams/llm"
	"axonflow/diagrams/render"
)

// stubEngine records render calls and writes a placeholder file.
type stubEngine struct {
	err      error
	rendered int
	lastPath string
}

func (e *stubEngine) Render(_ context.Context, _ *diagram.Graph, outputPath string) error {
	if e.err != nil {
		return e.err
	}
	e.rendered++
	e.lastPath = outputPath
	return os.WriteFile(outputPath, []byte("png-bytes"), 0o644)
}

// stubStrategy returns a fixed specification.
type stubStrategy struct {
	spec *diagram.Spec
	err  error
}

func (s stubStrategy) Interpret(context.Context, string, interpreter.Options) (*diagram.Spec, error) {
	return s.spec, s.err
}

func newTestAgent(t *testing.T, strategy interpreter.Strategy, engine render.Engine) *Agent {
	t.Helper()
	c, err := catalog.Load()
	if err != nil {
		t.Fatalf("catalog.Load failed: %v", err)
	}
	store, err := artifact.NewStore(t.TempDir(), time.Hour)
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}
	if strategy == nil {
		strategy = interpreter.NewHeuristic(c, "")
	}
	return New(Config{Catalog: c, Strategy: strategy, Engine: engine, Store: store})
}

func TestSynthesizePipeline(t *testing.T) {
	engine := &stubEngine{}
	a := newTestAgent(t, nil, engine)

	res, err := a.Synthesize(context.Background(), "req-1", Request{
		Description: "A web app with a load balancer, two web servers, and a MySQL database",
	})
	if err != nil {
		t.Fatalf("Synthesize failed: %v", err)
	}
	if engine.rendered != 1 {
		t.Errorf("rendered = %d, want 1", engine.rendered)
	}
	if !strings.HasPrefix(res.Filename, "diagram_") || !strings.HasSuffix(res.Filename, ".png") {
		t.Errorf("filename = %q", res.Filename)
	}
	if len(res.Spec.Nodes) != 4 {
		t.Errorf("spec nodes = %d, want 4", len(res.Spec.Nodes))
	}

	r, err := a.FetchArtifact(res.Filename)
	if err != nil {
		t.Fatalf("FetchArtifact failed: %v", err)
	}
	defer r.Close()
	data, err := io.ReadAll(r)
	if err != nil || string(data) != "png-bytes" {
		t.Errorf("fetched %q, %v", data, err)
	}
}

func TestSynthesizeInvalidDirection(t *testing.T) {
	a := newTestAgent(t, nil, &stubEngine{})
	_, err := a.Synthesize(context.Background(), "req-1", Request{
		Description: "a web server",
		Direction:   "sideways",
	})
	if Classify(err) != ClassInput {
		t.Fatalf("err = %v, want input class", err)
	}
}

func TestSynthesizeEmptyDescription(t *testing.T) {
	a := newTestAgent(t, nil, &stubEngine{})
	_, err := a.Synthesize(context.Background(), "req-1", Request{Description: "   "})
	var derr *diagram.Error
	if !errors.As(err, &derr) || derr.Kind != diagram.KindUnrecognizedDescription {
		t.Fatalf("err = %v, want UnrecognizedDescription", err)
	}
}

func TestSynthesizeRenderFailure(t *testing.T) {
	engine := &stubEngine{err: &render.Error{Code: render.ErrCodeEngineUnavailable, Detail: "dot not found"}}
	a := newTestAgent(t, nil, engine)

	_, err := a.Synthesize(context.Background(), "req-1", Request{Description: "a web server"})
	if Classify(err) != ClassDependency {
		t.Fatalf("err = %v, want dependency class", err)
	}
}

func TestSynthesizeReplaysNestedClusters(t *testing.T) {
	// Child listed before parent; the replay must still declare parents first.
	spec := &diagram.Spec{
		Provider:  catalog.ProviderAWS,
		Direction: diagram.DirectionTopBottom,
		Clusters: []diagram.ClusterSpec{
			{ID: "private", Label: "Private Subnet", ParentID: "vpc"},
			{ID: "vpc", Label: "VPC"},
		},
		Nodes: []diagram.NodeSpec{
			{ID: "web", Service: "ec2", Label: "Web", ClusterID: "private"},
		},
	}
	engine := &stubEngine{}
	a := newTestAgent(t, stubStrategy{spec: spec}, engine)

	if _, err := a.Synthesize(context.Background(), "req-1", Request{Description: "anything"}); err != nil {
		t.Fatalf("Synthesize failed: %v", err)
	}
	if engine.rendered != 1 {
		t.Errorf("rendered = %d, want 1", engine.rendered)
	}
}

func TestFetchUnknownArtifact(t *testing.T) {
	a := newTestAgent(t, nil, &stubEngine{})
	_, err := a.FetchArtifact("diagram_missing.png")
	if Classify(err) != ClassNotFound {
		t.Fatalf("err = %v, want not-found class", err)
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		err  error
		want Class
	}{
		{diagram.NewError(diagram.KindDuplicateID, "dup"), ClassInput},
		{&catalog.UnknownServiceError{Provider: catalog.ProviderAWS, Keyword: "x"}, ClassInput},
		{&artifact.NotFoundError{Filename: "f"}, ClassNotFound},
		{llm.NewProviderError("gemini", llm.ErrCodeTimeout, "deadline", nil), ClassDependency},
		{&render.Error{Code: render.ErrCodeRenderFailure, Detail: "boom"}, ClassDependency},
		{artifact.ErrStoreClosed, ClassDependency},
		{errors.New("anything else"), ClassInternal},
	}
	for _, tt := range tests {
		if got := Classify(tt.err); got != tt.want {
			t.Errorf("Classify(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}

func TestShutdownSweepsArtifacts(t *testing.T) {
	engine := &stubEngine{}
	c, err := catalog.Load()
	if err != nil {
		t.Fatalf("catalog.Load failed: %v", err)
	}
	store, err := artifact.NewStore(t.TempDir(), time.Nanosecond)
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}
	a := New(Config{Catalog: c, Strategy: interpreter.NewHeuristic(c, ""), Engine: engine, Store: store})

	res, err := a.Synthesize(context.Background(), "req-1", Request{Description: "a web server"})
	if err != nil {
		t.Fatalf("Synthesize failed: %v", err)
	}

	time.Sleep(time.Millisecond) // Let retention lapse
	a.Shutdown(time.Second)

	if _, err := os.Stat(res.Artifact.Path); !os.IsNotExist(err) {
		t.Error("artifact survived the final shutdown sweep")
	}
}
