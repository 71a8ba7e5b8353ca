// Package config holds the presenter's user-tunable settings.
package config

import (
	"flag"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/go-gl/mathgl/mgl32"
)

const ValidationLayer = "VK_LAYER_KHRONOS_validation"

type Config struct {
	AppName string
	Width   int
	Height  int

	// Validation requests the Khronos validation layer and a debug messenger.
	// Either is silently skipped if the runtime does not have it.
	Validation bool
	Layers     []string

	ShaderDir      string
	VertexShader   string
	FragmentShader string

	// ImageCount is the desired swapchain length; 0 picks min+1.
	ImageCount int
	ClearColor mgl32.Vec4

	LogLevel      slog.Level
	StatsInterval time.Duration
}

func Default() Config {
	return Config{
		AppName:        "Presenter",
		Width:          800,
		Height:         600,
		Validation:     false,
		Layers:         []string{ValidationLayer},
		ShaderDir:      ".",
		VertexShader:   "shaders/vert.spv",
		FragmentShader: "shaders/frag.spv",
		ClearColor:     mgl32.Vec4{0, 0, 0, 1},
		LogLevel:       slog.LevelInfo,
		StatsInterval:  5 * time.Second,
	}
}

// RegisterFlags binds c's fields to fs. Values already in c become the flag
// defaults.
func (c *Config) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.AppName, "name", c.AppName, "application name reported to the driver and used as window title")
	fs.IntVar(&c.Width, "width", c.Width, "window width")
	fs.IntVar(&c.Height, "height", c.Height, "window height")
	fs.BoolVar(&c.Validation, "validation", c.Validation, "enable validation layers and the debug messenger when installed")
	fs.StringVar(&c.ShaderDir, "shader-dir", c.ShaderDir, "directory shader paths are resolved against")
	fs.StringVar(&c.VertexShader, "vert", c.VertexShader, "compiled vertex shader")
	fs.StringVar(&c.FragmentShader, "frag", c.FragmentShader, "compiled fragment shader")
	fs.IntVar(&c.ImageCount, "images", c.ImageCount, "desired swapchain image count (0 = surface minimum + 1)")
	fs.Var((*colorFlag)(&c.ClearColor), "clear", "clear color as r,g,b,a in [0,1]")
	fs.TextVar(&c.LogLevel, "log-level", c.LogLevel, "log level (debug, info, warn, error)")
	fs.DurationVar(&c.StatsInterval, "stats", c.StatsInterval, "frame statistics log interval (0 disables)")
}

func (c Config) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return errors.Newf("invalid window size %dx%d", c.Width, c.Height)
	}
	if c.ImageCount < 0 {
		return errors.Newf("invalid image count %d", c.ImageCount)
	}
	if c.VertexShader == "" || c.FragmentShader == "" {
		return errors.WithHint(errors.New("shader paths must not be empty"), "pass -vert and -frag")
	}
	for i, v := range c.ClearColor {
		if v < 0 || v > 1 {
			return errors.Newf("clear color component %d out of range: %v", i, v)
		}
	}
	if c.StatsInterval < 0 {
		return errors.Newf("invalid stats interval %s", c.StatsInterval)
	}
	return nil
}

// InstanceLayers returns the layers to offer for negotiation.
func (c Config) InstanceLayers() []string {
	if !c.Validation {
		return nil
	}
	return c.Layers
}

type colorFlag mgl32.Vec4

func (f *colorFlag) String() string {
	if f == nil {
		return ""
	}
	parts := make([]string, len(f))
	for i, v := range f {
		parts[i] = strconv.FormatFloat(float64(v), 'g', -1, 32)
	}
	return strings.Join(parts, ",")
}

func (f *colorFlag) Set(s string) error {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return errors.Newf("want 4 components, got %d", len(parts))
	}
	var c mgl32.Vec4
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 32)
		if err != nil {
			return err
		}
		c[i] = float32(v)
	}
	*f = colorFlag(c)
	return nil
}
