package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFallbackHeuristic_Extract(t *testing.T) {
	src := `struct Config {}
enum Mode {}
fn parse(input: &str) -> Config {}
pub fn run() {}
trait Runner {}
`
	rec := &EntityRecord{File: "main.rs", Module: "main", Language: "rust"}
	(&fallbackHeuristic{}).Extract(src, rec)

	assert.Equal(t, []string{"parse", "run"}, rec.Functions)
	assert.Equal(t, []string{"Config", "Mode", "Runner"}, rec.Classes)

	t.Run("No Relationship Edges", func(t *testing.T) {
		assert.Empty(t, rec.Imports)
		assert.Empty(t, rec.Calls)
		assert.Empty(t, rec.Inherits)
	})
}

func TestFallbackHeuristic_GoSource(t *testing.T) {
	src := "package main\n\ntype Server struct{}\n\nfunc Serve(addr string) error { return nil }\n"
	rec := &EntityRecord{}
	(&fallbackHeuristic{}).Extract(src, rec)

	assert.Equal(t, []string{"Serve"}, rec.Functions)
	// Go's name-before-keyword type syntax is invisible to the keyword scan
	assert.Empty(t, rec.Classes)
}
