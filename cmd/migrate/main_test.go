package main

import (
	"errors"
	"testing"

	"github.com/golang-migrate/migrate/v4"
)

func TestEffectiveConfigPath(t *testing.T) {
	t.Setenv("CONFIG_PATH", "from-env.yaml")

	if got := effectiveConfigPath("flag.yaml"); got != "flag.yaml" {
		t.Fatalf("expected flag value, got %s", got)
	}
	if got := effectiveConfigPath(""); got != "from-env.yaml" {
		t.Fatalf("expected env value, got %s", got)
	}

	t.Setenv("CONFIG_PATH", "")
	if got := effectiveConfigPath(""); got != "assets/local.yaml" {
		t.Fatalf("expected default path, got %s", got)
	}
}

func TestIntArg(t *testing.T) {
	t.Parallel()

	if n, err := intArg([]string{"steps", "-2"}); err != nil || n != -2 {
		t.Fatalf("unexpected result n=%d err=%v", n, err)
	}
	if _, err := intArg([]string{"force"}); err == nil {
		t.Fatal("expected error for missing argument")
	}
	if _, err := intArg([]string{"force", "x"}); err == nil {
		t.Fatal("expected error for non-numeric argument")
	}
}

func TestIgnoreNoChange(t *testing.T) {
	t.Parallel()

	if err := ignoreNoChange(migrate.ErrNoChange); err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
	other := errors.New("dirty database")
	if err := ignoreNoChange(other); !errors.Is(err, other) {
		t.Fatalf("expected passthrough, got %v", err)
	}
}
