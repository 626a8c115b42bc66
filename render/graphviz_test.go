// Copyright 2025 AxonFlow
// SPDX-License-Identifier: BUSL-1.1

package render

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"axonflow/diagrams/catalog"
	"axonflow/diagrams/diagram"
)

func sampleGraph() *diagram.Graph {
	return &diagram.Graph{
		Title:         "Infrastructure Diagram",
		Direction:     diagram.DirectionTopBottom,
		LabelsEnabled: true,
		Clusters: []diagram.GraphCluster{
			{ID: "web", Label: "Web Tier"},
			{ID: "inner", Label: "Inner", Parent: "web"},
		},
		Nodes: []diagram.GraphNode{
			{ID: "lb1", Label: "Load Balancer", Icon: catalog.IconRef{Module: "diagrams.aws.network", Class: "ALB"}},
			{ID: "web1", Label: "Web Server", Icon: catalog.IconRef{Module: "diagrams.aws.compute", Class: "EC2"}, Cluster: "web"},
			{ID: "db1", Label: "Database", Icon: catalog.IconRef{Module: "diagrams.aws.database", Class: "RDS"}, Cluster: "inner"},
		},
		Edges: []diagram.GraphEdge{
			{Source: "lb1", Target: "web1", Label: "routes"},
			{Source: "web1", Target: "db1", Label: "queries"},
		},
	}
}

func TestEmitDOTContainsAllEntities(t *testing.T) {
	dot := EmitDOT(sampleGraph())

	wantFragments := []string{
		`rankdir=TB;`,
		`subgraph cluster_web {`,
		`subgraph cluster_inner {`,
		`"lb1" [label="Load Balancer"`,
		`"web1" [label="Web Server"`,
		`"db1" [label="Database"`,
		`"lb1" -> "web1" [label="routes"];`,
		`"web1" -> "db1" [label="queries"];`,
		`tooltip="diagrams.aws.network.ALB"`,
	}
	for _, fragment := range wantFragments {
		if !strings.Contains(dot, fragment) {
			t.Errorf("DOT output missing %q\n%s", fragment, dot)
		}
	}
}

func TestEmitDOTDeterministic(t *testing.T) {
	a := EmitDOT(sampleGraph())
	b := EmitDOT(sampleGraph())
	if a != b {
		t.Error("EmitDOT is not deterministic for identical input")
	}
}

func TestEmitDOTLabelsDisabled(t *testing.T) {
	g := sampleGraph()
	g.LabelsEnabled = false
	dot := EmitDOT(g)

	if !strings.Contains(dot, `"lb1" [label="ALB"`) {
		t.Errorf("expected icon class as label when labels disabled\n%s", dot)
	}
	if strings.Contains(dot, `[label="routes"]`) {
		t.Errorf("edge labels should be omitted when labels disabled\n%s", dot)
	}
}

func TestEmitDOTEscapesQuotes(t *testing.T) {
	g := sampleGraph()
	g.Nodes[0].Label = `says "hi"`
	dot := EmitDOT(g)
	if !strings.Contains(dot, `label="says \"hi\""`) {
		t.Errorf("quotes not escaped\n%s", dot)
	}
}

func TestRenderEngineUnavailable(t *testing.T) {
	engine := &Graphviz{Binary: "definitely-not-a-real-binary", Format: "png"}
	err := engine.Render(context.Background(), sampleGraph(), filepath.Join(t.TempDir(), "out.png"))
	if err == nil {
		t.Fatal("expected error for missing binary")
	}

	var renderErr *Error
	if !errors.As(err, &renderErr) {
		t.Fatalf("expected *render.Error, got %T", err)
	}
	if renderErr.Code != ErrCodeEngineUnavailable {
		t.Errorf("code = %s, want %s", renderErr.Code, ErrCodeEngineUnavailable)
	}
}
