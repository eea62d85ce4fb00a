package extract

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"ai-timetable/api/internal/timetable"
)

// Model is the external vision/language model: one image and one
// instruction in, free text out.
type Model interface {
	Name() string
	Extract(ctx context.Context, image []byte, mime, prompt string) (string, error)
}

type Pipeline struct {
	model  Model
	prompt string
	log    *zap.Logger
}

type Option func(*Pipeline)

// WithPrompt replaces the built-in instruction.
func WithPrompt(p string) Option {
	return func(pl *Pipeline) {
		if p != "" {
			pl.prompt = p
		}
	}
}

func New(m Model, log *zap.Logger, opts ...Option) *Pipeline {
	if log == nil {
		log = zap.NewNop()
	}
	p := &Pipeline{model: m, prompt: Prompt, log: log}
	for _, o := range opts {
		o(p)
	}
	return p
}

func (p *Pipeline) ModelName() string { return p.model.Name() }

// Run turns one image into a timetable. It makes exactly one model call,
// never retries and never persists. Every failure comes back as one of
// the package's error kinds.
func (p *Pipeline) Run(ctx context.Context, img []byte) (*timetable.Data, error) {
	log := p.log.With(zap.String("run_id", uuid.NewString()), zap.String("model", p.model.Name()))
	started := time.Now()

	scaled, mime, err := Downscale(img)
	if err != nil {
		log.Warn("image decode failed", zap.Error(err))
		return nil, err
	}
	log.Debug("image prepared", zap.Int("in_bytes", len(img)), zap.Int("out_bytes", len(scaled)), zap.String("mime", mime))

	resp, err := p.model.Extract(ctx, scaled, mime, p.prompt)
	if err != nil {
		log.Warn("model call failed", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrModel, err)
	}
	log.Debug("model response", zap.Int("chars", len(resp)))

	fragment, err := FindJSON(resp)
	if err != nil {
		log.Warn("no usable JSON in response", zap.Error(err), zap.String("response", truncate(resp, 500)))
		return nil, err
	}

	data, err := Decode(fragment)
	if err != nil {
		log.Warn("decode failed", zap.Error(err))
		return nil, err
	}

	log.Info("timetable extracted",
		zap.Int("days", len(data.Days)),
		zap.Duration("took", time.Since(started)),
	)
	return data, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "…"
}
