package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/hoshinonyaruko/snake-grid/structs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	writeFile(t, path, `{"port":"9000","tick_ms":100,"start_direction":"RIGHT"}`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, 100*time.Millisecond, cfg.TickInterval())
	assert.Equal(t, time.Second, cfg.FoodInterval())
	assert.Equal(t, 10, cfg.Width)
	assert.Equal(t, structs.Right, cfg.Direction())
}

func TestLoadRejectsInvalid(t *testing.T) {
	cases := map[string]string{
		"bad json":      `{"port":`,
		"zero width":    `{"width":0}`,
		"zero tick":     `{"tick_ms":0}`,
		"bad direction": `{"start_direction":"north"}`,
		"tail off grid": `{"start_x":0,"start_direction":"right"}`,
		"head off grid": `{"start_y":10}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.json")
			writeFile(t, path, body)
			_, err := Load(path)
			assert.Error(t, err)
		})
	}
}

func TestDefaultIsValid(t *testing.T) {
	assert.NoError(t, Default().Validate())
}

func TestWatchAppliesPresentationKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	writeFile(t, path, `{}`)

	mu.Lock()
	instance = Default()
	mu.Unlock()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changed := make(chan *AppConfig, 4)
	require.NoError(t, Watch(ctx, path, func(c *AppConfig) { changed <- c }))

	writeFile(t, path, `{"blocksize":12,"width":30}`)

	select {
	case c := <-changed:
		assert.Equal(t, 12, c.Blocksize)
		assert.Equal(t, 10, c.Width, "grid size is fixed at start")
		assert.Equal(t, 12, GetConfigValue("blocksize"))
	case <-time.After(3 * time.Second):
		t.Fatal("no reload observed")
	}
}
