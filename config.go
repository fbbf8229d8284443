package narrowphase

import (
	"errors"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

// Config describes a Pipeline. It is usually loaded from YAML:
//
//	detector: sat
//	fallback:
//	  detector: gjk
//	  conditions:
//	    - kind: ellipse
//	    - kinds: [capsule, slice]
//	      strict: true
//	      sort: 1
//	gjk:
//	  maxIterations: 30
//	epa:
//	  maxIterations: 100
//	  distanceEpsilon: 1.0e-8
//	linkPostProcessing: true
//	workers: 4
//	logLevel: info
type Config struct {
	Detector           string          `yaml:"detector"`
	Fallback           FallbackConfig  `yaml:"fallback"`
	GJK                IterationConfig `yaml:"gjk"`
	EPA                IterationConfig `yaml:"epa"`
	LinkPostProcessing bool            `yaml:"linkPostProcessing"`
	Workers            int             `yaml:"workers"`
	LogLevel           string          `yaml:"logLevel"`
}

type FallbackConfig struct {
	Detector   string            `yaml:"detector"`
	Conditions []ConditionConfig `yaml:"conditions"`
}

// ConditionConfig is a SingleTypedFallbackCondition when Kind is set and a
// PairwiseTypedFallbackCondition when Kinds holds two kinds.
type ConditionConfig struct {
	Kind   string   `yaml:"kind,omitempty"`
	Kinds  []string `yaml:"kinds,omitempty"`
	Strict bool     `yaml:"strict,omitempty"`
	Sort   int      `yaml:"sort,omitempty"`
}

type IterationConfig struct {
	MaxIterations   int     `yaml:"maxIterations"`
	DistanceEpsilon float64 `yaml:"distanceEpsilon"`
}

const (
	DetectorSAT = "sat"
	DetectorGJK = "gjk"
)

func DefaultConfig() *Config {
	return &Config{
		Detector: DetectorSAT,
		Fallback: FallbackConfig{
			Detector: DetectorGJK,
			Conditions: []ConditionConfig{
				{Kind: SHAPE_ELLIPSE.String()},
				{Kind: SHAPE_HALF_ELLIPSE.String()},
			},
		},
		GJK: IterationConfig{
			MaxIterations:   MAX_GJK_ITERATIONS,
			DistanceEpsilon: DefaultDistanceEpsilon,
		},
		EPA: IterationConfig{
			MaxIterations:   MAX_EPA_ITERATIONS,
			DistanceEpsilon: DefaultDistanceEpsilon,
		},
		LinkPostProcessing: true,
		LogLevel:           "info",
	}
}

// LoadConfig reads YAML on top of DefaultConfig and validates the result.
func LoadConfig(r io.Reader) (*Config, error) {
	c := DefaultConfig()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: decoding config: %v", ErrInvalidArgument, err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func LoadConfigFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return LoadConfig(f)
}

// Validate returns every problem with the config joined into one error.
// Each of them wraps ErrInvalidArgument.
func (c *Config) Validate() error {
	var errs []error

	if !validDetector(c.Detector) {
		errs = append(errs, invalidArgument("unknown detector %q", c.Detector))
	}
	if len(c.Fallback.Conditions) > 0 && !validDetector(c.Fallback.Detector) {
		errs = append(errs, invalidArgument("unknown fallback detector %q", c.Fallback.Detector))
	}
	for i, cc := range c.Fallback.Conditions {
		if _, err := cc.condition(); err != nil {
			errs = append(errs, fmt.Errorf("fallback condition %d: %w", i, err))
		}
	}

	if c.GJK.MaxIterations < MIN_ITERATIONS {
		errs = append(errs, invalidArgument("gjk.maxIterations must be at least %d, got %d", MIN_ITERATIONS, c.GJK.MaxIterations))
	}
	if c.GJK.DistanceEpsilon <= 0 {
		errs = append(errs, invalidArgument("gjk.distanceEpsilon must be positive, got %v", c.GJK.DistanceEpsilon))
	}
	if c.EPA.MaxIterations < MIN_ITERATIONS {
		errs = append(errs, invalidArgument("epa.maxIterations must be at least %d, got %d", MIN_ITERATIONS, c.EPA.MaxIterations))
	}
	if c.EPA.DistanceEpsilon <= 0 {
		errs = append(errs, invalidArgument("epa.distanceEpsilon must be positive, got %v", c.EPA.DistanceEpsilon))
	}

	if c.Workers < 0 {
		errs = append(errs, invalidArgument("workers must not be negative, got %d", c.Workers))
	}
	if _, err := zapcore.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, invalidArgument("unknown log level %q", c.LogLevel))
	}

	return errors.Join(errs...)
}

func validDetector(name string) bool {
	return name == DetectorSAT || name == DetectorGJK
}

func (cc ConditionConfig) condition() (FallbackCondition, error) {
	switch {
	case cc.Kind != "" && len(cc.Kinds) > 0:
		return nil, invalidArgument("kind and kinds are exclusive")
	case cc.Kind != "":
		k, err := ParseShapeKind(cc.Kind)
		if err != nil {
			return nil, err
		}
		return SingleTypedFallbackCondition{Kind: k, Strict: cc.Strict, Sort: cc.Sort}, nil
	case len(cc.Kinds) == 2:
		a, err := ParseShapeKind(cc.Kinds[0])
		if err != nil {
			return nil, err
		}
		b, err := ParseShapeKind(cc.Kinds[1])
		if err != nil {
			return nil, err
		}
		return PairwiseTypedFallbackCondition{KindA: a, KindB: b, Strict: cc.Strict, Sort: cc.Sort}, nil
	}
	return nil, invalidArgument("a condition needs a kind or exactly two kinds")
}

// Build validates the config and assembles a Pipeline from it.
func (c *Config) Build(logger *zap.Logger) (*Pipeline, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	epa, err := NewEPA(
		WithEPAMaxIterations(c.EPA.MaxIterations),
		WithEPADistanceEpsilon(c.EPA.DistanceEpsilon),
		WithEPALogger(logger),
	)
	if err != nil {
		return nil, err
	}
	gjk, err := NewGJK(
		WithGJKMaxIterations(c.GJK.MaxIterations),
		WithGJKDistanceEpsilon(c.GJK.DistanceEpsilon),
		WithEPA(epa),
		WithGJKLogger(logger),
	)
	if err != nil {
		return nil, err
	}

	named := func(name string) Detector {
		if name == DetectorGJK {
			return gjk
		}
		return NewSAT()
	}

	detector := named(c.Detector)
	if len(c.Fallback.Conditions) > 0 {
		conditions := make([]FallbackCondition, 0, len(c.Fallback.Conditions))
		for _, cc := range c.Fallback.Conditions {
			cond, err := cc.condition()
			if err != nil {
				return nil, err
			}
			conditions = append(conditions, cond)
		}
		detector = NewFallbackDetector(detector, named(c.Fallback.Detector), logger, conditions...)
	}

	var post PostProcessor
	if c.LinkPostProcessing {
		post = NewLinkPostProcessor(logger)
	}

	logger.Debug("pipeline built",
		zap.String("detector", c.Detector),
		zap.Int("fallbackConditions", len(c.Fallback.Conditions)),
		zap.Bool("linkPostProcessing", c.LinkPostProcessing),
	)
	return NewPipeline(detector, gjk, gjk, NewClippingManifoldSolver(), post, c.Workers, logger), nil
}
