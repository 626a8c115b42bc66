// Copyright 2025 AxonFlow
// SPDX-License-Identifier: BUSL-1.1

package diagram

import (
	"errors"
	"testing"

	"axonflow/diagrams/catalog"
)

func testCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	c, err := catalog.Load()
	if err != nil {
		t.Fatalf("catalog.Load() failed: %v", err)
	}
	return c
}

func testBuilder(t *testing.T) *Builder {
	t.Helper()
	b, err := NewBuilder(testCatalog(t), "Infrastructure Diagram", DirectionTopBottom, true)
	if err != nil {
		t.Fatalf("NewBuilder failed: %v", err)
	}
	return b
}

func assertKind(t *testing.T, err error, want Kind) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s error, got nil", want)
	}
	var diagErr *Error
	if !errors.As(err, &diagErr) {
		t.Fatalf("expected *diagram.Error, got %T: %v", err, err)
	}
	if diagErr.Kind != want {
		t.Fatalf("error kind = %s, want %s (detail: %s)", diagErr.Kind, want, diagErr.Detail)
	}
}

func TestBuilderHappyPath(t *testing.T) {
	b := testBuilder(t)

	if err := b.AddCluster("web", "Web Tier", ""); err != nil {
		t.Fatalf("AddCluster failed: %v", err)
	}
	if err := b.AddNode("lb1", "alb", catalog.ProviderAWS, "Load Balancer", ""); err != nil {
		t.Fatalf("AddNode failed: %v", err)
	}
	if err := b.AddNode("web1", "ec2", catalog.ProviderAWS, "Web Server", "web"); err != nil {
		t.Fatalf("AddNode failed: %v", err)
	}
	if err := b.Connect("lb1", "web1", "routes"); err != nil {
		t.Fatalf("Connect failed: %v", err)
	}

	g, err := b.Finish()
	if err != nil {
		t.Fatalf("Finish failed: %v", err)
	}
	if len(g.Nodes) != 2 || len(g.Edges) != 1 || len(g.Clusters) != 1 {
		t.Errorf("graph = %d nodes, %d edges, %d clusters; want 2, 1, 1", len(g.Nodes), len(g.Edges), len(g.Clusters))
	}
	if g.Nodes[0].Icon.Class != "ALB" {
		t.Errorf("lb1 icon class = %q, want ALB", g.Nodes[0].Icon.Class)
	}
	if g.Nodes[1].Cluster != "web" {
		t.Errorf("web1 cluster = %q, want web", g.Nodes[1].Cluster)
	}
}

func TestAddNodeDuplicateID(t *testing.T) {
	b := testBuilder(t)
	if err := b.AddNode("n1", "ec2", catalog.ProviderAWS, "Web", ""); err != nil {
		t.Fatalf("first AddNode failed: %v", err)
	}
	assertKind(t, b.AddNode("n1", "rds", catalog.ProviderAWS, "DB", ""), KindDuplicateID)
}

func TestAddNodeCollidesWithClusterID(t *testing.T) {
	b := testBuilder(t)
	if err := b.AddCluster("shared", "Shared", ""); err != nil {
		t.Fatalf("AddCluster failed: %v", err)
	}
	assertKind(t, b.AddNode("shared", "ec2", catalog.ProviderAWS, "Web", ""), KindDuplicateID)
}

func TestAddNodeUnknownCluster(t *testing.T) {
	b := testBuilder(t)
	if err := b.AddCluster("c1", "VPC", ""); err != nil {
		t.Fatalf("AddCluster failed: %v", err)
	}
	assertKind(t, b.AddNode("n1", "ec2", catalog.ProviderAWS, "web", "c2"), KindUnknownCluster)
}

func TestConnectUnknownEndpoint(t *testing.T) {
	b := testBuilder(t)
	if err := b.AddNode("a", "ec2", catalog.ProviderAWS, "A", ""); err != nil {
		t.Fatalf("AddNode failed: %v", err)
	}

	assertKind(t, b.Connect("a", "b", ""), KindUnknownEndpoint)
	assertKind(t, b.Connect("z", "a", ""), KindUnknownEndpoint)
}

func TestFinishEmptyDiagram(t *testing.T) {
	b := testBuilder(t)
	_, err := b.Finish()
	assertKind(t, err, KindEmptyDiagram)
}

func TestFinishUnknownService(t *testing.T) {
	b := testBuilder(t)
	if err := b.AddNode("n1", "mainframe", catalog.ProviderAWS, "Old Iron", ""); err != nil {
		t.Fatalf("AddNode failed: %v", err)
	}

	_, err := b.Finish()
	if err == nil {
		t.Fatal("expected UnknownService from Finish")
	}
	var unknownErr *catalog.UnknownServiceError
	if !errors.As(err, &unknownErr) {
		t.Fatalf("expected *catalog.UnknownServiceError, got %T", err)
	}
}

func TestAddClusterUnknownParent(t *testing.T) {
	b := testBuilder(t)
	assertKind(t, b.AddCluster("inner", "Inner", "outer"), KindUnknownCluster)
}

func TestBuilderRejectsBadIDs(t *testing.T) {
	b := testBuilder(t)
	tests := []string{"", "-leading", "trailing_", "has space", "diagram", "x!"}
	for _, id := range tests {
		assertKind(t, b.AddNode(id, "ec2", catalog.ProviderAWS, "Web", ""), KindInvalidInput)
	}
}

func TestSpecValidate(t *testing.T) {
	valid := Spec{
		Provider:  catalog.ProviderAWS,
		Direction: DirectionTopBottom,
		Clusters:  []ClusterSpec{{ID: "web", Label: "Web Tier"}},
		Nodes: []NodeSpec{
			{ID: "lb1", Service: "alb", Label: "Load Balancer"},
			{ID: "web1", Service: "ec2", Label: "Web Server", ClusterID: "web"},
		},
		Edges: []EdgeSpec{{Source: "lb1", Target: "web1"}},
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("valid spec rejected: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*Spec)
		kind   Kind
	}{
		{"dangling edge source", func(s *Spec) { s.Edges[0].Source = "ghost" }, KindUnknownEndpoint},
		{"dangling edge target", func(s *Spec) { s.Edges[0].Target = "ghost" }, KindUnknownEndpoint},
		{"dangling cluster ref", func(s *Spec) { s.Nodes[1].ClusterID = "ghost" }, KindUnknownCluster},
		{"duplicate node id", func(s *Spec) { s.Nodes[1].ID = "lb1" }, KindDuplicateID},
		{"node collides with cluster", func(s *Spec) { s.Nodes[0].ID = "web" }, KindDuplicateID},
		{"bad provider", func(s *Spec) { s.Provider = "ibm" }, KindInvalidInput},
		{"bad direction", func(s *Spec) { s.Direction = "XY" }, KindInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec := valid
			spec.Nodes = append([]NodeSpec(nil), valid.Nodes...)
			spec.Clusters = append([]ClusterSpec(nil), valid.Clusters...)
			spec.Edges = append([]EdgeSpec(nil), valid.Edges...)
			tt.mutate(&spec)
			assertKind(t, spec.Validate(), tt.kind)
		})
	}
}

func TestSpecValidateNestingCycle(t *testing.T) {
	spec := Spec{
		Provider:  catalog.ProviderAWS,
		Direction: DirectionTopBottom,
		Clusters: []ClusterSpec{
			{ID: "a", Label: "A", ParentID: "b"},
			{ID: "b", Label: "B", ParentID: "a"},
		},
		Nodes: []NodeSpec{{ID: "n1", Service: "ec2", Label: "Web"}},
	}
	assertKind(t, spec.Validate(), KindInvalidInput)
}
