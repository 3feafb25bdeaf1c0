package commands_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/Carmen-Shannon/oxy-shadows/cmd/oxy-shadows/commands"
	"github.com/Carmen-Shannon/oxy-shadows/engine"
	"github.com/Carmen-Shannon/oxy-shadows/engine/config"
	"github.com/Carmen-Shannon/oxy-shadows/engine/logger"
	"github.com/Carmen-Shannon/oxy-shadows/engine/renderer/renderertest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const scene = `
version: "1"
engine:
  maxFrames: 50
  headless: true
  packWorkers: 1
  shadowResolution: 16
entities:
  - name: sun
    light: {radius: 20}
  - name: rig
    children:
      - name: torch
        orbit: {radius: 1, speed: 2}
        light: {radius: 4}
      - name: crate
`

func writeScene(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scene.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

type recorder struct {
	fake     *renderertest.FakeAllocator
	engine   engine.Engine
	headless bool
	frames   int
}

func (r *recorder) factory(s *config.SceneFile, headless bool) (engine.Engine, error) {
	r.fake = renderertest.NewFakeAllocator()
	r.headless = headless
	r.frames = s.Engine.MaxFrames
	r.engine = engine.NewEngine(append(s.EngineOptions(), engine.WithRenderer(r.fake))...)
	return r.engine, nil
}

func newCLI(t *testing.T, factory commands.EngineFactory, args ...string) (*commands.CLI, *bytes.Buffer) {
	t.Helper()
	t.Cleanup(func() { logger.SetLogger(nil) })
	var out bytes.Buffer
	cli := commands.New(factory)
	cli.SetOutput(&out)
	cli.SetArgs(args)
	return cli, &out
}

func TestRunRendersFramesAndShutsDown(t *testing.T) {
	rec := &recorder{}
	cli, out := newCLI(t, rec.factory, "run", "--config", writeScene(t, scene), "--frames", "3", "--log-level", "debug")

	require.NoError(t, cli.Execute(context.Background()))
	assert.True(t, rec.headless)
	assert.Equal(t, 3, rec.frames)
	assert.Equal(t, 3, rec.engine.Frames())
	assert.True(t, rec.fake.Released())
	assert.Zero(t, rec.engine.Registry().Count())
	assert.Contains(t, out.String(), "scene loaded")
	assert.Contains(t, out.String(), "shadow target created")
}

func TestRunUsesSceneFrameLimit(t *testing.T) {
	rec := &recorder{}
	cli, _ := newCLI(t, rec.factory, "run", "-c", writeScene(t, scene))

	require.NoError(t, cli.Execute(context.Background()))
	assert.Equal(t, 50, rec.engine.Frames())
}

func TestRunRejectsUnknownLogLevel(t *testing.T) {
	rec := &recorder{}
	cli, _ := newCLI(t, rec.factory, "run", "-c", writeScene(t, scene), "--log-level", "chatty")

	err := cli.Execute(context.Background())
	require.ErrorIs(t, err, logger.ErrUnknownLevel)
	assert.Nil(t, rec.engine)
}

func TestRunReportsFactoryFailure(t *testing.T) {
	boom := errors.New("no adapter")
	cli, _ := newCLI(t, func(*config.SceneFile, bool) (engine.Engine, error) { return nil, boom },
		"run", "-c", writeScene(t, scene))

	require.ErrorIs(t, cli.Execute(context.Background()), boom)
}

func TestValidate(t *testing.T) {
	cli, out := newCLI(t, nil, "validate", "-c", writeScene(t, scene))

	require.NoError(t, cli.Execute(context.Background()))
	assert.Equal(t, "scene ok: 4 entities, 2 lights\n", out.String())
}

func TestValidateRejectsInvalidScene(t *testing.T) {
	cli, _ := newCLI(t, nil, "validate", "-c", writeScene(t, "version: \"1\"\nentities: [{name: a}, {name: a}]"))

	require.ErrorIs(t, cli.Execute(context.Background()), config.ErrDuplicateName)
}

func TestValidateMissingFile(t *testing.T) {
	cli, _ := newCLI(t, nil, "validate", "-c", filepath.Join(t.TempDir(), "none.yaml"))

	require.ErrorIs(t, cli.Execute(context.Background()), os.ErrNotExist)
}
