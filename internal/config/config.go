package config

import (
	"flag"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"

	"github.com/diegok/pixball/internal/game"
)

// Default values for configuration
const (
	DefaultPort       = 5556
	DefaultCellWidth  = 8
	DefaultCellHeight = 16
)

// Environment variables that seed flag defaults
const (
	EnvPort     = "PIXBALL_PORT"
	EnvHTTPPort = "PIXBALL_HTTP_PORT"
	EnvName     = "PIXBALL_NAME"
	EnvSound    = "PIXBALL_SOUND"
	EnvLog      = "PIXBALL_LOG"
	EnvSeed     = "PIXBALL_SEED"
)

// Config holds the application configuration
type Config struct {
	Share      bool
	WatchAddr  string
	Port       int
	HTTPPort   int
	PlayerName string
	Sound      bool
	LogFile    string
	Seed       int64

	Ball       game.Params
	CellWidth  int
	CellHeight int
}

// IsWatcher reports whether pixball mirrors a remote ball instead of
// running its own.
func (c *Config) IsWatcher() bool {
	return c.WatchAddr != ""
}

// LoadEnv reads .env style files into the process environment. Missing
// files are skipped; variables already set win.
func LoadEnv(files ...string) error {
	for _, f := range files {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return errors.Wrapf(err, "loading %s", f)
		}
	}
	return nil
}

// ParseArgs parses command line arguments and returns a Config. Defaults
// come from the PIXBALL_* environment variables when set.
func ParseArgs(args []string) (*Config, error) {
	return parse(args, os.LookupEnv)
}

func parse(args []string, lookup func(string) (string, bool)) (*Config, error) {
	env, err := readEnv(lookup)
	if err != nil {
		return nil, err
	}

	fs := flag.NewFlagSet("pixball", flag.ContinueOnError)

	share := fs.Bool("share", false, "share the ball with watchers")
	watch := fs.String("watch", "", "address of a sharing pixball to watch")
	port := fs.Int("port", env.port, "share port (1-65535)")
	httpPort := fs.Int("http-port", env.httpPort, "status HTTP port when sharing (0 disables)")
	name := fs.String("name", env.name, "name shown to the sharing side")
	sound := fs.Bool("sound", env.sound, "play bounce sounds")
	logFile := fs.String("log", env.logFile, "log file (default: discard)")
	seed := fs.Int64("seed", env.seed, "random seed (0 = time based)")

	defaults := game.DefaultParams()
	radius := fs.Float64("radius", defaults.Radius, "ball radius in virtual pixels")
	damping := fs.Float64("damping", defaults.Damping, "per-frame damping factor (0,1]")
	bounce := fs.Float64("bounce", defaults.BounceDamping, "bounce damping factor (0,1]")
	minSpeed := fs.Float64("min-speed", defaults.MinVelocity, "minimum speed per axis")
	maxThrow := fs.Float64("max-throw", defaults.MaxThrow, "maximum throw speed per axis")
	minWidth := fs.Float64("min-width", defaults.MinViewportWidth, "narrowest viewport in virtual pixels")
	cellW := fs.Int("cell-width", DefaultCellWidth, "virtual pixels per terminal column")
	cellH := fs.Int("cell-height", DefaultCellHeight, "virtual pixels per terminal row")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	// Validate: cannot share and watch at once
	if *share && *watch != "" {
		return nil, errors.New("cannot specify both --share and --watch")
	}

	if *port < 1 || *port > 65535 {
		return nil, errors.Errorf("port must be between 1 and 65535, got %d", *port)
	}
	if *httpPort < 0 || *httpPort > 65535 {
		return nil, errors.Errorf("http-port must be between 0 and 65535, got %d", *httpPort)
	}
	if *httpPort != 0 && !*share {
		return nil, errors.New("--http-port requires --share")
	}
	if *httpPort != 0 && *httpPort == *port {
		return nil, errors.Errorf("http-port and port must differ, both are %d", *port)
	}

	if *radius <= 0 {
		return nil, errors.Errorf("radius must be positive, got %g", *radius)
	}
	if *damping <= 0 || *damping > 1 {
		return nil, errors.Errorf("damping must be in (0,1], got %g", *damping)
	}
	if *bounce <= 0 || *bounce > 1 {
		return nil, errors.Errorf("bounce must be in (0,1], got %g", *bounce)
	}
	if *minSpeed <= 0 {
		return nil, errors.Errorf("min-speed must be positive, got %g", *minSpeed)
	}
	if *maxThrow < *minSpeed {
		return nil, errors.Errorf("max-throw must be at least min-speed (%g), got %g", *minSpeed, *maxThrow)
	}
	if *minWidth < 0 {
		return nil, errors.Errorf("min-width must not be negative, got %g", *minWidth)
	}
	if *cellW < 1 || *cellH < 1 {
		return nil, errors.Errorf("cell size must be at least 1x1, got %dx%d", *cellW, *cellH)
	}

	cfg := &Config{
		Share:      *share,
		WatchAddr:  *watch,
		Port:       *port,
		HTTPPort:   *httpPort,
		PlayerName: *name,
		Sound:      *sound,
		LogFile:    *logFile,
		Seed:       *seed,
		Ball: game.Params{
			Radius:           *radius,
			Damping:          *damping,
			BounceDamping:    *bounce,
			MinVelocity:      *minSpeed,
			MaxThrow:         *maxThrow,
			MinViewportWidth: *minWidth,
		},
		CellWidth:  *cellW,
		CellHeight: *cellH,
	}

	return cfg, nil
}

type envDefaults struct {
	port     int
	httpPort int
	name     string
	sound    bool
	logFile  string
	seed     int64
}

func readEnv(lookup func(string) (string, bool)) (envDefaults, error) {
	d := envDefaults{
		port:  DefaultPort,
		sound: true,
	}

	if v, ok := lookup(EnvPort); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return d, errors.Wrapf(err, "%s", EnvPort)
		}
		d.port = n
	}
	if v, ok := lookup(EnvHTTPPort); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return d, errors.Wrapf(err, "%s", EnvHTTPPort)
		}
		d.httpPort = n
	}
	if v, ok := lookup(EnvSound); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return d, errors.Wrapf(err, "%s", EnvSound)
		}
		d.sound = b
	}
	if v, ok := lookup(EnvSeed); ok {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return d, errors.Wrapf(err, "%s", EnvSeed)
		}
		d.seed = n
	}
	if v, ok := lookup(EnvName); ok {
		d.name = v
	}
	if v, ok := lookup(EnvLog); ok {
		d.logFile = v
	}

	return d, nil
}
