// Package config loads retry and circuit-breaker settings from YAML, mapping
// the recognized option surface onto retry.Policy and circuit.Config values.
package config

import (
	"time"

	"github.com/bulwark-io/bulwark/backoff"
	"github.com/bulwark-io/bulwark/circuit"
	"github.com/bulwark-io/bulwark/retry"
)

// Duration is a time.Duration that unmarshals from YAML strings like "500ms"
// or "30s".
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

func (d Duration) std() time.Duration { return time.Duration(d) }

// File is the top-level configuration: shared defaults plus per-service
// overrides keyed by service name.
type File struct {
	Defaults Service            `yaml:"defaults"`
	Services map[string]Service `yaml:"services"`
}

// Service holds the tunables for one downstream service.
type Service struct {
	MaxAttempts     int      `yaml:"max_attempts"`
	BackoffStrategy string   `yaml:"backoff_strategy"` // exponential, linear, constant, random
	BaseDelay       Duration `yaml:"base_delay"`
	MaxDelay        Duration `yaml:"max_delay"`
	JitterFactor    float64  `yaml:"jitter_factor"`
	Increment       Duration `yaml:"increment"`

	UseCircuitBreaker bool     `yaml:"use_circuit_breaker"`
	FailureThreshold  int      `yaml:"failure_threshold"`
	ResetTimeout      Duration `yaml:"reset_timeout"`
	HalfOpenTimeout   Duration `yaml:"half_open_timeout"`
	WindowSize        int      `yaml:"window_size"`
}

// merged overlays s on top of base, field by field.
func (s Service) merged(base Service) Service {
	out := base
	if s.MaxAttempts != 0 {
		out.MaxAttempts = s.MaxAttempts
	}
	if s.BackoffStrategy != "" {
		out.BackoffStrategy = s.BackoffStrategy
	}
	if s.BaseDelay != 0 {
		out.BaseDelay = s.BaseDelay
	}
	if s.MaxDelay != 0 {
		out.MaxDelay = s.MaxDelay
	}
	if s.JitterFactor != 0 {
		out.JitterFactor = s.JitterFactor
	}
	if s.Increment != 0 {
		out.Increment = s.Increment
	}
	if s.UseCircuitBreaker {
		out.UseCircuitBreaker = true
	}
	if s.FailureThreshold != 0 {
		out.FailureThreshold = s.FailureThreshold
	}
	if s.ResetTimeout != 0 {
		out.ResetTimeout = s.ResetTimeout
	}
	if s.HalfOpenTimeout != 0 {
		out.HalfOpenTimeout = s.HalfOpenTimeout
	}
	if s.WindowSize != 0 {
		out.WindowSize = s.WindowSize
	}
	return out
}

// BackoffConfig maps the service settings onto a backoff configuration.
func (s Service) BackoffConfig() (backoff.Config, error) {
	kind, err := backoff.ParseKind(s.BackoffStrategy)
	if err != nil {
		return backoff.Config{}, err
	}
	cfg := backoff.Config{
		Kind:         kind,
		Base:         s.BaseDelay.std(),
		Max:          s.MaxDelay.std(),
		JitterFactor: s.JitterFactor,
		Increment:    s.Increment.std(),
	}
	if cfg.Base == 0 {
		cfg.Base = backoff.DefaultBase
	}
	if cfg.Max == 0 {
		cfg.Max = backoff.DefaultMax
	}
	return cfg, cfg.Validate()
}

// CircuitConfig maps the service settings onto a breaker configuration.
func (s Service) CircuitConfig() circuit.Config {
	return circuit.Config{
		FailureThreshold: s.FailureThreshold,
		ResetTimeout:     s.ResetTimeout.std(),
		HalfOpenTimeout:  s.HalfOpenTimeout.std(),
		WindowSize:       s.WindowSize,
	}
}

// Policy builds the retry policy for the named service.
func (f *File) Policy(name string) (retry.Policy, error) {
	svc := f.Services[name].merged(f.Defaults)

	bcfg, err := svc.BackoffConfig()
	if err != nil {
		return retry.Policy{}, err
	}
	strategy, err := bcfg.Build()
	if err != nil {
		return retry.Policy{}, err
	}

	opts := []retry.Option{
		retry.MaxAttempts(svc.MaxAttempts),
		retry.WithBackoff(strategy),
		retry.WithJitterFactor(bcfg.JitterFactor),
	}
	if svc.UseCircuitBreaker {
		opts = append(opts, retry.WithBreakerConfig(name, svc.CircuitConfig()))
	}
	return retry.NewPolicy(name, opts...), nil
}
