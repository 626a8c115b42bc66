// Copyright 2025 AxonFlow
// SPDX-License-Identifier: BUSL-1.1

package catalog

import (
	"errors"
	"testing"
)

func TestLoad(t *testing.T) {
	c, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	for _, provider := range Providers() {
		if len(c.Keywords(provider)) == 0 {
			t.Errorf("provider %q has no services", provider)
		}
	}
}

func TestResolveExactKeyword(t *testing.T) {
	c, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	tests := []struct {
		provider Provider
		keyword  string
		module   string
		class    string
	}{
		{ProviderAWS, "ec2", "diagrams.aws.compute", "EC2"},
		{ProviderAWS, "rds", "diagrams.aws.database", "RDS"},
		{ProviderGCP, "gce", "diagrams.gcp.compute", "ComputeEngine"},
		{ProviderAzure, "vm", "diagrams.azure.compute", "VM"},
	}

	for _, tt := range tests {
		icon, err := c.Resolve(tt.provider, tt.keyword)
		if err != nil {
			t.Errorf("Resolve(%s, %s) failed: %v", tt.provider, tt.keyword, err)
			continue
		}
		if icon.Module != tt.module || icon.Class != tt.class {
			t.Errorf("Resolve(%s, %s) = %+v, want {%s %s}", tt.provider, tt.keyword, icon, tt.module, tt.class)
		}
	}
}

func TestResolveAliasPriority(t *testing.T) {
	c, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	tests := []struct {
		name     string
		provider Provider
		keyword  string
		want     string // canonical service
	}{
		{"provider alias", ProviderAWS, "application_load_balancer", "alb"},
		{"provider alias with spaces", ProviderAWS, "Application Load Balancer", "alb"},
		{"generic alias aws", ProviderAWS, "database", "rds"},
		{"generic alias gcp", ProviderGCP, "database", "cloud_sql"},
		{"generic alias azure", ProviderAzure, "database", "sql_database"},
		{"mysql maps to managed sql", ProviderAWS, "mysql", "rds"},
		{"web server maps to compute", ProviderAWS, "web server", "ec2"},
		{"load balancer generic", ProviderGCP, "load balancer", "cloud_load_balancer"},
		{"exact beats alias", ProviderAzure, "load_balancer", "load_balancer"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := c.Canonical(tt.provider, tt.keyword)
			if err != nil {
				t.Fatalf("Canonical(%s, %s) failed: %v", tt.provider, tt.keyword, err)
			}
			if got != tt.want {
				t.Errorf("Canonical(%s, %s) = %q, want %q", tt.provider, tt.keyword, got, tt.want)
			}
		})
	}
}

func TestResolveUnknownService(t *testing.T) {
	c, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	_, err = c.Resolve(ProviderAWS, "mainframe")
	if err == nil {
		t.Fatal("expected error for unknown service")
	}

	var unknownErr *UnknownServiceError
	if !errors.As(err, &unknownErr) {
		t.Fatalf("expected *UnknownServiceError, got %T", err)
	}
	if unknownErr.Keyword != "mainframe" {
		t.Errorf("error keyword = %q, want %q", unknownErr.Keyword, "mainframe")
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"EC2", "ec2"},
		{"  Load Balancer  ", "load_balancer"},
		{"aws_lambda", "lambda"},
		{"Amazon S3", "s3"},
		{"google_cloud_sql", "cloud_sql"},
		{"relational database service", "relational_database"},
		{"web-server", "web_server"},
		{"Blob Storage", "blob_storage"},
	}

	for _, tt := range tests {
		if got := Normalize(tt.in); got != tt.want {
			t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestParseProvider(t *testing.T) {
	tests := []struct {
		in   string
		want Provider
		ok   bool
	}{
		{"aws", ProviderAWS, true},
		{"Amazon", ProviderAWS, true},
		{"google cloud", ProviderGCP, true},
		{"Microsoft Azure", ProviderAzure, true},
		{"digitalocean", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		got, ok := ParseProvider(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ParseProvider(%q) = (%q, %v), want (%q, %v)", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}
