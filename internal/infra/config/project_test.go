package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const sampleProject = `version: 1
project: my-app
publications:
  - name: cpp
    group: com.example
    version: "1.2"
    variants:
      - name: debug
      - name: release
        id: my-app-rel
repositories:
  - name: local
    type: file
    url: repo
    skip_gate: true
  - name: releases
    type: s3
    bucket: artifacts
    layout: ivy
ledger:
  table: publish-ledger
`

func TestLoadProjectDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "multipub.yaml")
	if err := os.WriteFile(path, []byte(sampleProject), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := LoadProject(path)
	if err != nil {
		t.Fatalf("load project: %v", err)
	}
	if cfg.Root != dir {
		t.Fatalf("unexpected root: %s", cfg.Root)
	}
	pub := cfg.Publications[0]
	if pub.Kind != "maven" || pub.ID != "my-app" {
		t.Fatalf("unexpected publication defaults: %#v", pub)
	}
	if len(pub.Variants) != 2 || pub.Variants[1].ID != "my-app-rel" {
		t.Fatalf("unexpected variants: %#v", pub.Variants)
	}
	if cfg.Repositories[0].Layout != "maven" || !cfg.Repositories[0].SkipGate {
		t.Fatalf("unexpected file repository: %#v", cfg.Repositories[0])
	}
	if cfg.Repositories[1].Layout != "ivy" {
		t.Fatalf("unexpected s3 repository: %#v", cfg.Repositories[1])
	}
	if cfg.BuildPath() != filepath.Join(dir, "build", "publications") {
		t.Fatalf("unexpected build path: %s", cfg.BuildPath())
	}
	if cfg.ResolvePath("repo") != filepath.Join(dir, "repo") {
		t.Fatalf("unexpected resolved path: %s", cfg.ResolvePath("repo"))
	}
	if cfg.Ledger == nil || cfg.Ledger.Table != "publish-ledger" {
		t.Fatalf("unexpected ledger: %#v", cfg.Ledger)
	}
}

func TestParseProjectSchemaErrors(t *testing.T) {
	tests := []struct {
		name    string
		payload string
	}{
		{name: "missing publications", payload: "version: 1\n"},
		{name: "unknown kind", payload: "version: 1\npublications:\n  - {name: a, group: g, version: '1', kind: npm}\n"},
		{name: "s3 without bucket", payload: "version: 1\npublications:\n  - {name: a, group: g, version: '1', id: a}\nrepositories:\n  - {name: r, type: s3}\n"},
		{name: "file without url", payload: "version: 1\npublications:\n  - {name: a, group: g, version: '1', id: a}\nrepositories:\n  - {name: r, type: file}\n"},
		{name: "unknown key", payload: "version: 1\nextra: true\npublications:\n  - {name: a, group: g, version: '1', id: a}\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseProject([]byte(tt.payload), ""); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestParseProjectSemanticErrors(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		want    error
	}{
		{
			name:    "duplicate publication",
			payload: "version: 1\nproject: p\npublications:\n  - {name: a, group: g, version: '1'}\n  - {name: a, group: g, version: '1'}\n",
			want:    errDuplicatePublication,
		},
		{
			name:    "duplicate variant",
			payload: "version: 1\nproject: p\npublications:\n  - {name: a, group: g, version: '1', variants: [{name: x}, {name: x}]}\n",
			want:    errDuplicateVariant,
		},
		{
			name:    "missing bridge id",
			payload: "version: 1\npublications:\n  - {name: a, group: g, version: '1'}\n",
			want:    errMissingBridgeID,
		},
		{
			name:    "duplicate repository",
			payload: "version: 1\nproject: p\npublications:\n  - {name: a, group: g, version: '1'}\nrepositories:\n  - {name: r, type: http, url: 'http://x'}\n  - {name: r, type: http, url: 'http://y'}\n",
			want:    errDuplicateRepository,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseProject([]byte(tt.payload), "")
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestSelect(t *testing.T) {
	cfg, err := ParseProject([]byte(sampleProject), "")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	repos, err := cfg.SelectRepositories([]string{"releases"})
	if err != nil || len(repos) != 1 || repos[0].Name != "releases" {
		t.Fatalf("unexpected selection %#v: %v", repos, err)
	}
	if _, err := cfg.SelectRepositories([]string{"nope"}); !errors.Is(err, errUnknownSelection) {
		t.Fatalf("expected unknown selection, got %v", err)
	}
	pubs, err := cfg.SelectPublications(nil)
	if err != nil || len(pubs) != 1 {
		t.Fatalf("unexpected publications %#v: %v", pubs, err)
	}
	if _, err := cfg.SelectPublications([]string{"other"}); err == nil || !strings.Contains(err.Error(), "publication") {
		t.Fatalf("expected publication selection error, got %v", err)
	}
}

func TestProjectConfigPath(t *testing.T) {
	dir := t.TempDir()
	if _, err := ProjectConfigPath("", dir); !errors.Is(err, ErrProjectNotFound) {
		t.Fatalf("expected ErrProjectNotFound, got %v", err)
	}

	defaultPath := filepath.Join(dir, "multipub.yaml")
	if err := os.WriteFile(defaultPath, []byte("version: 1\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	path, err := ProjectConfigPath("", dir)
	if err != nil {
		t.Fatalf("path: %v", err)
	}
	if path != defaultPath {
		t.Fatalf("unexpected path: %s", path)
	}

	explicit := filepath.Join(dir, "other.yaml")
	if err := os.WriteFile(explicit, []byte("version: 1\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if path, _ := ProjectConfigPath(explicit, "/ignored"); path != explicit {
		t.Fatalf("explicit path should win: %s", path)
	}
	if path, _ := ProjectConfigPath(dir, "/ignored"); path != defaultPath {
		t.Fatalf("explicit directory should resolve to its multipub.yaml: %s", path)
	}
}

func TestParseEnv(t *testing.T) {
	t.Setenv("MULTIPUB_CONFIG", "/tmp/custom.yaml")
	t.Setenv("MULTIPUB_S3_ENDPOINT", "http://localhost:9000")
	t.Setenv("AWS_REGION", "")

	cfg, err := ParseEnv()
	if err != nil {
		t.Fatalf("parse env: %v", err)
	}
	if cfg.ConfigPath != "/tmp/custom.yaml" || cfg.S3Endpoint != "http://localhost:9000" {
		t.Fatalf("unexpected env: %#v", cfg)
	}
	if cfg.AWSRegion != defaultAWSRegion {
		t.Fatalf("expected default region, got %q", cfg.AWSRegion)
	}
}
