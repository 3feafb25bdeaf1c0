// Package config loads YAML scene files describing engine settings and the entity tree to register.
package config

import (
	"bytes"
	"errors"
	"io"
	"os"

	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// SupportedVersion is the only scene file version Load accepts.
const SupportedVersion = "1"

// SceneFile represents the structure of a scene YAML file.
type SceneFile struct {
	Version  string         `yaml:"version"`
	Engine   EngineConfig   `yaml:"engine"`
	Window   WindowConfig   `yaml:"window"`
	Entities []EntityConfig `yaml:"entities"`
}

// EngineConfig holds frame loop and renderer settings.
type EngineConfig struct {
	MaxFrames        int     `yaml:"maxFrames"`
	TickRate         float64 `yaml:"tickRate"`
	Headless         bool    `yaml:"headless"`
	ForceSoftware    bool    `yaml:"forceSoftware"`
	Profiling        bool    `yaml:"profiling"`
	PackWorkers      int     `yaml:"packWorkers"`
	ShadowResolution uint32  `yaml:"shadowResolution"`
	LogLevel         string  `yaml:"logLevel"`
}

// WindowConfig holds the on-screen window settings. Ignored when headless.
type WindowConfig struct {
	Title  string `yaml:"title"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
}

// EntityConfig describes one entity and its children. An entity with a light block becomes a point light.
type EntityConfig struct {
	Name     string         `yaml:"name"`
	Position [3]float32     `yaml:"position"`
	Movable  bool           `yaml:"movable"`
	Orbit    *OrbitConfig   `yaml:"orbit"`
	Light    *LightConfig   `yaml:"light"`
	Children []EntityConfig `yaml:"children"`
}

// OrbitConfig moves an entity in a horizontal circle around its configured position.
// Orbiting entities are always movable.
type OrbitConfig struct {
	Radius float32 `yaml:"radius"`
	Speed  float32 `yaml:"speed"` // radians per second
}

// LightConfig holds point light and shadow settings. Zero values fall back to the light defaults.
type LightConfig struct {
	Radius       float32     `yaml:"radius"`
	Color        *[3]float32 `yaml:"color"`
	Intensity    *float32    `yaml:"intensity"`
	CastsShadows *bool       `yaml:"castsShadows"`
	Bias         float32     `yaml:"bias"`
	Near         float32     `yaml:"near"`
	Far          float32     `yaml:"far"`
	Strength     *float32    `yaml:"strength"`
	Slot         uint32      `yaml:"slot"`
	Resolution   uint32      `yaml:"resolution"`
}

// Load reads and parses the scene file at path. The result is not validated.
//
// Parameters:
//   - path: the scene file path
//
// Returns:
//   - *SceneFile: the parsed scene
//   - error: a read or parse error
func Load(path string) (*SceneFile, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is provided by user
	if err != nil {
		return nil, zerr.Wrap(err, "failed to read scene file")
	}

	s, err := Parse(data)
	if err != nil {
		return nil, zerr.With(err, "path", path)
	}
	return s, nil
}

// Parse decodes a scene file from YAML. Unknown fields are rejected.
//
// Parameters:
//   - data: the YAML document
//
// Returns:
//   - *SceneFile: the parsed scene
//   - error: a parse error
func Parse(data []byte) (*SceneFile, error) {
	var s SceneFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil && !errors.Is(err, io.EOF) {
		return nil, zerr.Wrap(err, "failed to parse scene file")
	}
	return &s, nil
}

// Validate checks the scene for settings the engine would reject or misbehave on.
//
// Returns:
//   - error: the first problem found, matching one of the package's sentinel errors
func (s *SceneFile) Validate() error {
	if s.Version != SupportedVersion {
		return zerr.With(zerr.Wrap(ErrUnsupportedVersion, "validate"), "version", s.Version)
	}

	e := s.Engine
	switch {
	case e.MaxFrames < 0:
		return zerr.With(zerr.Wrap(ErrInvalidEngineSetting, "validate"), "maxFrames", e.MaxFrames)
	case e.TickRate < 0:
		return zerr.With(zerr.Wrap(ErrInvalidEngineSetting, "validate"), "tickRate", e.TickRate)
	case e.PackWorkers < 0:
		return zerr.With(zerr.Wrap(ErrInvalidEngineSetting, "validate"), "packWorkers", e.PackWorkers)
	}
	if !validResolution(e.ShadowResolution) {
		return zerr.With(zerr.Wrap(ErrInvalidResolution, "validate engine"), "resolution", e.ShadowResolution)
	}

	seen := make(map[string]struct{})
	for i := range s.Entities {
		if err := s.Entities[i].validate(seen); err != nil {
			return err
		}
	}
	return nil
}

func (c *EntityConfig) validate(seen map[string]struct{}) error {
	if c.Name == "" {
		return zerr.Wrap(ErrMissingName, "validate")
	}
	if _, ok := seen[c.Name]; ok {
		return zerr.With(zerr.Wrap(ErrDuplicateName, "validate"), "name", c.Name)
	}
	seen[c.Name] = struct{}{}

	if l := c.Light; l != nil {
		if l.Radius <= 0 {
			return zerr.With(zerr.Wrap(ErrInvalidRadius, "validate"), "name", c.Name)
		}
		if (l.Near != 0 || l.Far != 0) && (l.Near <= 0 || l.Near >= l.Far) {
			return zerr.With(zerr.With(zerr.Wrap(ErrInvalidShadowPlanes, "validate"), "name", c.Name), "near", l.Near)
		}
		if !validResolution(l.Resolution) {
			return zerr.With(zerr.Wrap(ErrInvalidResolution, "validate light"), "name", c.Name)
		}
	}

	for i := range c.Children {
		if err := c.Children[i].validate(seen); err != nil {
			return err
		}
	}
	return nil
}

// validResolution accepts zero (use the default) and powers of two.
func validResolution(r uint32) bool {
	return r&(r-1) == 0
}
