// Package scale implements uniform face rescaling.
//
// The host editor's built-in zoom only touches the default face, leaving
// syntax-highlighting and chrome faces at their original size. A Scaler
// instead walks every registered face and multiplies (or divides) each
// eligible explicit height by a fixed factor, bounded to a safe range.
//
// Each Scale call runs in two phases:
//
//  1. Excluded faces are pinned to a concrete explicit height, so later
//     changes to whatever they inherited from cannot drag them along.
//  2. Every eligible face (not excluded, explicit height present) gets the
//     multiplicative step applied. Candidates outside [MinHeight, MaxHeight]
//     are suppressed for that face this round rather than clamped, which
//     preserves relative sizes between faces near the limit.
package scale

import (
	"context"
	"math"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/mbuehler/facezoom/pkg/errors"
	"github.com/mbuehler/facezoom/pkg/face"
	"github.com/mbuehler/facezoom/pkg/observability"
)

// Direction selects between growing and shrinking. An explicit enum rather
// than a signed factor, so callers cannot get the arithmetic backwards.
type Direction int

const (
	// Grow multiplies heights by the configured factor.
	Grow Direction = iota

	// Shrink divides heights by the configured factor.
	Shrink
)

// String returns the direction name for logs and hooks.
func (d Direction) String() string {
	if d == Shrink {
		return "shrink"
	}
	return "grow"
}

// apply computes the candidate height for the direction, truncated toward
// zero (floor, since heights are positive).
func (d Direction) apply(height int, factor float64) int {
	if d == Shrink {
		return int(math.Floor(float64(height) / factor))
	}
	return int(math.Floor(float64(height) * factor))
}

// maxChainDepth bounds inheritance-chain walks. Chains in practice are two or
// three links deep; anything past this is a cycle or a degenerate registry.
const maxChainDepth = 64

// Result summarizes one Scale run.
type Result struct {
	// Scaled counts faces whose height was rewritten.
	Scaled int

	// Skipped counts eligible faces left unchanged because the candidate
	// height fell outside the configured bounds.
	Skipped int

	// Duration is the wall time of the run.
	Duration time.Duration
}

// Scaler applies the clamped multiplicative transform against a registry.
// It holds no state across calls beyond its configuration.
type Scaler struct {
	reg      face.Registry
	cfg      Config
	logger   *log.Logger
	excluded map[string]struct{}
}

// New creates a Scaler for the given registry and configuration.
// A nil logger falls back to log.Default().
func New(reg face.Registry, cfg Config, logger *log.Logger) (*Scaler, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = log.Default()
	}

	excluded := make(map[string]struct{}, len(cfg.Excluded))
	for _, name := range cfg.Excluded {
		excluded[name] = struct{}{}
	}

	return &Scaler{
		reg:      reg,
		cfg:      cfg,
		logger:   logger,
		excluded: excluded,
	}, nil
}

// Config returns the scaler's configuration.
func (s *Scaler) Config() Config {
	return s.cfg
}

// Excluded reports whether a face is exempt from scaling.
func (s *Scaler) Excluded(name string) bool {
	_, ok := s.excluded[name]
	return ok
}

// EffectiveHeight resolves a face's height by walking its inheritance chain:
// the face's own explicit height if present, else the nearest ancestor's,
// else the configured default. Cycles and chains past maxChainDepth fall back
// to the default rather than looping.
//
// Errors come only from the registry backend; missing faces, broken links,
// and cycles all resolve to a height.
func (s *Scaler) EffectiveHeight(ctx context.Context, name string) (int, error) {
	visited := make(map[string]struct{})
	cur := name

	for depth := 0; depth <= maxChainDepth; depth++ {
		if _, seen := visited[cur]; seen {
			s.logger.Warn("inheritance cycle, using default height",
				"face", name, "cycle_at", cur)
			observability.Scale().OnCycleDetected(ctx, name)
			return s.cfg.DefaultHeight, nil
		}
		visited[cur] = struct{}{}

		h, ok, err := s.reg.Height(ctx, cur)
		if err != nil {
			return 0, errors.Wrap(errors.ErrCodeStore, err, "resolve height of %s", name)
		}
		if ok {
			return h, nil
		}

		parent, ok, err := s.reg.Parent(ctx, cur)
		if err != nil {
			return 0, errors.Wrap(errors.ErrCodeStore, err, "resolve height of %s", name)
		}
		if !ok {
			// Chain bottoms out: no explicit height anywhere.
			return s.cfg.DefaultHeight, nil
		}
		cur = parent
	}

	s.logger.Warn("inheritance chain too deep, using default height",
		"face", name, "limit", maxChainDepth)
	observability.Scale().OnCycleDetected(ctx, name)
	return s.cfg.DefaultHeight, nil
}

// Resizeable returns the faces eligible for scaling: every registered face
// that is not excluded and carries an explicit height. Faces relying purely
// on inheritance are resized only indirectly, via their ancestors.
// Order follows registry enumeration.
func (s *Scaler) Resizeable(ctx context.Context) ([]string, error) {
	names, err := s.reg.List(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "list faces")
	}

	eligible := make([]string, 0, len(names))
	for _, name := range names {
		if _, skip := s.excluded[name]; skip {
			continue
		}
		if _, ok, err := s.reg.Height(ctx, name); err != nil {
			return nil, errors.Wrap(errors.ErrCodeStore, err, "read face %s", name)
		} else if ok {
			eligible = append(eligible, name)
		}
	}
	return eligible, nil
}

// FixExcluded pins every excluded face to its current effective height,
// severing its practical dependence on inheritance. Excluded faces missing
// from the registry are silently skipped (the write is a no-op everywhere).
// Calling it twice in a row changes nothing: the second pass resolves each
// face's now-explicit height.
func (s *Scaler) FixExcluded(ctx context.Context) error {
	for _, name := range s.cfg.Excluded {
		h, err := s.EffectiveHeight(ctx, name)
		if err != nil {
			return err
		}
		if err := s.reg.SetHeight(ctx, name, h); err != nil {
			return errors.Wrap(errors.ErrCodeStore, err, "pin face %s", name)
		}
	}
	return nil
}

// Scale applies one grow or shrink step to every eligible face.
//
// Candidates that land outside [MinHeight, MaxHeight] leave the face
// unchanged for this round. Faces approaching a bound in small steps stop
// there naturally; a single call that would jump past the bound is simply
// suppressed for that face.
func (s *Scaler) Scale(ctx context.Context, dir Direction) (*Result, error) {
	start := time.Now()
	logger := s.logger.With("run", uuid.NewString()[:8], "direction", dir.String())
	hooks := observability.Scale()
	hooks.OnScaleStart(ctx, dir.String())

	if err := s.FixExcluded(ctx); err != nil {
		return nil, err
	}

	eligible, err := s.Resizeable(ctx)
	if err != nil {
		return nil, err
	}

	res := &Result{}
	for _, name := range eligible {
		cur, ok, err := s.reg.Height(ctx, name)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeStore, err, "read face %s", name)
		}
		if !ok {
			// Guaranteed present by Resizeable; a concurrent writer removed
			// it. Treat as ineligible this round.
			continue
		}

		logger.Debug("scaling face", "face", name, "height", cur)

		candidate := dir.apply(cur, s.cfg.Factor)
		if candidate < s.cfg.MinHeight || candidate > s.cfg.MaxHeight {
			logger.Debug("candidate out of bounds, leaving unchanged",
				"face", name, "height", cur, "candidate", candidate)
			hooks.OnFaceSkipped(ctx, name, cur, candidate)
			res.Skipped++
			continue
		}

		if err := s.reg.SetHeight(ctx, name, candidate); err != nil {
			return nil, errors.Wrap(errors.ErrCodeStore, err, "write face %s", name)
		}
		hooks.OnFaceScaled(ctx, name, cur, candidate)
		res.Scaled++
	}

	res.Duration = time.Since(start)
	hooks.OnScaleComplete(ctx, dir.String(), res.Scaled, res.Skipped, res.Duration)
	logger.Info("scaled faces",
		"scaled", res.Scaled,
		"skipped", res.Skipped,
		"duration", res.Duration.Round(time.Microsecond))
	return res, nil
}
