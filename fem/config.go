package fem

import (
	"github.com/notargets/cstfem/element"
	"github.com/notargets/cstfem/linsolve"
	"github.com/notargets/cstfem/loader"
	"io"
	"log/slog"
)

// Config holds everything needed to turn a model into a ready solver
type Config struct {
	Material element.Material
	Solver   linsolve.Settings
	Loader   loader.Config

	// Logger receives build and solve records; nil discards them
	Logger *slog.Logger
}

// DefaultConfig returns the reference material, a 500 iteration CG solve and
// the reference zoom factors.
func DefaultConfig() Config {
	return Config{
		Material: element.DefaultMaterial(),
		Solver:   linsolve.DefaultSettings(),
		Loader:   loader.DefaultConfig(),
	}
}

func (c Config) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
