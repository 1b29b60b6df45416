// Package config loads the settings of the cell-lock tool.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/taurusgroup/cell-lock/pkg/ecdsa"
	"github.com/taurusgroup/cell-lock/pkg/hash"
	"github.com/taurusgroup/cell-lock/pkg/lock"
)

// EnvPrefix prefixes every environment variable read by Load, e.g. CELL_LOCK_HASH_ALGORITHM.
const EnvPrefix = "CELL_LOCK"

const (
	AlgorithmBlake2b = "blake2b"
	AlgorithmBlake3  = "blake3"

	BackendDecred   = "decred"
	BackendEthereum = "ethereum"
)

var ErrInvalidConfig = errors.New("config: invalid")

// Config holds every setting of the tool.
type Config struct {
	Hash     HashConfig     `mapstructure:"hash"`
	Recovery RecoveryConfig `mapstructure:"recovery"`
	Batch    BatchConfig    `mapstructure:"batch"`
	Log      LogConfig      `mapstructure:"log"`
}

// HashConfig selects the hash function shared by digests and fingerprints.
type HashConfig struct {
	// Algorithm is "blake2b" or "blake3".
	Algorithm string `mapstructure:"algorithm"`
	// Personalization is the domain separation tag.
	Personalization string `mapstructure:"personalization"`
}

// RecoveryConfig selects the public key recovery backend.
type RecoveryConfig struct {
	Backend string `mapstructure:"backend"`
}

type BatchConfig struct {
	// Workers bounds concurrent checks, <= 0 meaning one per CPU.
	Workers int `mapstructure:"workers"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

// Default returns the protocol configuration.
func Default() *Config {
	return &Config{
		Hash: HashConfig{
			Algorithm:       AlgorithmBlake2b,
			Personalization: string(hash.CKBDefault),
		},
		Recovery: RecoveryConfig{Backend: BackendDecred},
		Log:      LogConfig{Level: "info"},
	}
}

func setDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("hash.algorithm", d.Hash.Algorithm)
	v.SetDefault("hash.personalization", d.Hash.Personalization)
	v.SetDefault("recovery.backend", d.Recovery.Backend)
	v.SetDefault("batch.workers", d.Batch.Workers)
	v.SetDefault("log.level", d.Log.Level)
}

// NewViper creates a Viper instance with defaults and CELL_LOCK_* environment lookup.
func NewViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads the optional config file at path into v, then unmarshals and validates the result.
func Load(v *viper.Viper, path string) (*Config, error) {
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	}
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks that every setting names something that exists.
func (c *Config) Validate() error {
	if _, err := c.HashFunction(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if _, err := ecdsa.RecovererByName(c.Recovery.Backend); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

// HashFunction builds the configured hash function.
func (c *Config) HashFunction() (hash.Function, error) {
	switch c.Hash.Algorithm {
	case AlgorithmBlake2b:
		return hash.Blake2b(hash.Personalization(c.Hash.Personalization))
	case AlgorithmBlake3:
		return hash.Blake3(c.Hash.Personalization), nil
	default:
		return hash.Function{}, fmt.Errorf("unknown hash algorithm %q", c.Hash.Algorithm)
	}
}

// Verifier builds a lock.Verifier from the configuration.
func (c *Config) Verifier(opts ...lock.Option) (*lock.Verifier, error) {
	f, err := c.HashFunction()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	r, err := ecdsa.RecovererByName(c.Recovery.Backend)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	all := append([]lock.Option{lock.WithHash(f), lock.WithRecoverer(r)}, opts...)
	return lock.New(all...), nil
}
