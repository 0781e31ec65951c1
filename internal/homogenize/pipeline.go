package homogenize

import "fieldscope/internal/models"

// Outcome holds every stage of one header's renaming.
type Outcome struct {
	Normalized string
	Base       string
	Final      string
	Confidence string
}

// Pipeline runs raw header values through the configured stages. In
// homogenize mode: canonicalize → base rules → synonym rules. In
// normalize mode the fixed stages are bypassed and only
// canonicalization (with optional stopword stripping) applies.
type Pipeline struct {
	opts   models.SessionOptions
	engine *SynonymEngine
}

// NewPipeline compiles the synonym rules once and returns a pipeline
// ready to process every header of a run.
func NewPipeline(opts models.SessionOptions, rules []models.SynonymRule) *Pipeline {
	return &Pipeline{
		opts:   opts,
		engine: NewSynonymEngine(rules),
	}
}

// Run transforms one raw header value.
func (p *Pipeline) Run(raw string) Outcome {
	if p.opts.Mode == models.ModeNormalize {
		key := NormalizeOnly(raw, p.opts.StripStopwords)
		return Outcome{
			Normalized: key,
			Base:       key,
			Final:      key,
			Confidence: ScoreConfidence(key, key, key),
		}
	}

	normalized := Canonicalize(raw)
	base := BaseHomogenize(normalized)
	final := p.engine.Apply(base)
	return Outcome{
		Normalized: normalized,
		Base:       base,
		Final:      final,
		Confidence: ScoreConfidence(normalized, base, final),
	}
}

// Engine exposes the compiled synonym engine for effectiveness counting.
func (p *Pipeline) Engine() *SynonymEngine {
	return p.engine
}
