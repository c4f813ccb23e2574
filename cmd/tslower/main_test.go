package main

import (
	goerrors "errors"
	"os"
	"path/filepath"
	"testing"

	"tslower/pkg/driver"
	"tslower/pkg/errors"
	"tslower/pkg/source"
	"tslower/pkg/types"
)

func TestNeedsMore(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"type A = string;", false},
		{"interface I {", true},
		{"interface I {\n  x: number\n}", false},
		{"type T = [", true},
		{`type S = "{";`, false},
		{"type S = '(';", false},
		{"type A = number; // {", false},
		{"type S = `a", true},
		{`type S = "\"{";`, false},
	}
	for _, tt := range tests {
		if got := needsMore(tt.input); got != tt.want {
			t.Errorf("needsMore(%q): expected %v, got %v", tt.input, tt.want, got)
		}
	}
}

func TestReportFatal(t *testing.T) {
	soft := errors.Finding{Err: errors.NewTypeError(source.Span{Line: 1, Column: 1}, errors.CodeImplicitAny, "soft"), Recovered: true}
	hard := errors.Finding{Err: errors.NewTypeError(source.Span{Line: 1, Column: 1}, errors.CodeDuplicateIdentifier, "hard")}

	if err := report(source.NewReplSource("x"), nil); err != nil {
		t.Errorf("Expected nil for no findings, got %v", err)
	}
	if err := report(source.NewReplSource("x"), []errors.Finding{soft}); err != nil {
		t.Errorf("Expected nil for recovered findings, got %v", err)
	}
	if err := report(source.NewReplSource("x"), []errors.Finding{soft, hard}); !goerrors.Is(err, errFatal) {
		t.Errorf("Expected errFatal, got %v", err)
	}
}

func TestExpandableUsesAliasBody(t *testing.T) {
	body := types.NewKeyword(types.KwString, source.Span{})
	d := driver.Decl{Kind: "type", Name: "A", Type: &types.Alias{Name: "A", Type: body}}
	if got := expandable(d); got != types.Type(body) {
		t.Errorf("Expected the alias body, got %v", got)
	}
	v := driver.Decl{Kind: "const", Name: "x", Type: body}
	if got := expandable(v); got != types.Type(body) {
		t.Errorf("Expected the declared type, got %v", got)
	}
}

func TestLoadConfigFindsFileInDir(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "tslower.yaml"), []byte("no_implicit_any: true\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := loadConfig(dir, "")
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if !cfg.NoImplicitAny {
		t.Error("Expected no_implicit_any from the file in dir")
	}

	cfg, err = loadConfig(t.TempDir(), "")
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.Path != "" {
		t.Errorf("Expected defaults, got config from %q", cfg.Path)
	}
}

func TestLowerInputReadsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "decls.ts")
	if err := os.WriteFile(path, []byte("type A = string;\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	s, err := openSession(path, "")
	if err != nil {
		t.Fatalf("openSession: %v", err)
	}
	defer s.Close()

	res, err := lowerInput(s, path)
	if err != nil {
		t.Fatalf("lowerInput: %v", err)
	}
	if len(res.Decls) != 1 || res.Decls[0].String() != "type A = string" {
		t.Errorf("Expected %q, got %v", "type A = string", res.Decls)
	}
	if res.Source.DisplayPath() != path {
		t.Errorf("Expected source path %q, got %q", path, res.Source.DisplayPath())
	}
}
