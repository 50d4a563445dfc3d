package pipeline

import (
	"strings"
)

// Layer is a single analytic step. Process must be a pure function of its inputs:
// per-symbol state belongs to the strategy that owns the pipeline.
type Layer interface {
	Name() string
	Process(symbol string, data AnalysisData) LayerResult
}

// LayerResult is the outcome of one layer.
type LayerResult struct {
	Passed bool
	// Data is the record the layer received, enriched with the fields it computed
	Data      AnalysisData
	Reasoning string
}

// Pass builds a passing result.
func Pass(data AnalysisData, reasoning string) LayerResult {
	return LayerResult{Passed: true, Data: data, Reasoning: reasoning}
}

// Fail builds a failing result.
func Fail(data AnalysisData, reasoning string) LayerResult {
	return LayerResult{Passed: false, Data: data, Reasoning: reasoning}
}

// Pipeline applies an ordered list of layers to a symbol, stopping at the first failure.
type Pipeline struct {
	layers []Layer
}

// NewPipeline creates a pipeline running layers in the given order.
func NewPipeline(layers ...Layer) *Pipeline {
	return &Pipeline{layers: layers}
}

// Layers returns the layers in execution order.
func (p *Pipeline) Layers() []Layer {
	out := make([]Layer, len(p.layers))
	copy(out, p.layers)

	return out
}

// Run processes initial through every layer. The caller's record is never modified.
// The returned reasoning holds one "[name] reasoning" line per layer that ran, the
// failing layer included.
func (p *Pipeline) Run(symbol string, initial AnalysisData) (bool, AnalysisData, string) {
	if len(p.layers) == 0 {
		return true, initial, ""
	}

	data := initial.Clone()
	lines := make([]string, 0, len(p.layers))

	for _, layer := range p.layers {
		result := layer.Process(symbol, data.Clone())
		lines = append(lines, "["+layer.Name()+"] "+result.Reasoning)
		data = result.Data

		if !result.Passed {
			return false, data, strings.Join(lines, "\n")
		}
	}

	return true, data, strings.Join(lines, "\n")
}
