package main

import (
	"fmt"
	"io"
	"log"
	"net"
	"os"

	"github.com/pkg/errors"
	"golang.org/x/term"

	"github.com/diegok/pixball/internal/app"
	"github.com/diegok/pixball/internal/config"
)

func main() {
	if err := config.LoadEnv(".env"); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	cfg, err := config.ParseArgs(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		printUsage()
		os.Exit(1)
	}

	if !term.IsTerminal(int(os.Stdout.Fd())) {
		fmt.Fprintln(os.Stderr, "Error: pixball needs an interactive terminal")
		os.Exit(1)
	}

	closeLog, err := setupLog(cfg.LogFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer closeLog()

	if cfg.Share {
		showShareInfo(cfg.Port, cfg.HTTPPort)
	}

	application := app.NewApp(cfg)
	if err := application.Run(); err != nil {
		log.Printf("exit: %v", err)
		closeLog()
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// setupLog sends the standard logger to path. The terminal belongs to the
// page, so without a path logs are dropped.
func setupLog(path string) (func(), error) {
	if path == "" {
		log.SetOutput(io.Discard)
		return func() {}, nil
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open log file")
	}
	log.SetOutput(f)
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
	return func() { f.Close() }, nil
}

func printUsage() {
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "Usage:")
	fmt.Fprintln(os.Stderr, "  pixball [options]                Open the page with a bouncing ball")
	fmt.Fprintln(os.Stderr, "  pixball --share [options]        Let others watch your ball")
	fmt.Fprintln(os.Stderr, "  pixball --watch <address>        Watch someone else's ball")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "Options:")
	fmt.Fprintln(os.Stderr, "  --port <port>       Share port (default: 5556)")
	fmt.Fprintln(os.Stderr, "  --http-port <port>  Status HTTP port when sharing")
	fmt.Fprintln(os.Stderr, "  --name <name>       Display name")
	fmt.Fprintln(os.Stderr, "  --sound=false       Mute bounce sounds")
	fmt.Fprintln(os.Stderr, "  --log <file>        Write logs to file")
	fmt.Fprintln(os.Stderr, "  --seed <n>          Random seed for the launch")
	fmt.Fprintln(os.Stderr, "  --radius, --damping, --bounce, --min-speed, --max-throw, --min-width")
	fmt.Fprintln(os.Stderr, "                      Ball tuning")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "Environment (or .env):")
	fmt.Fprintln(os.Stderr, "  PIXBALL_PORT, PIXBALL_HTTP_PORT, PIXBALL_NAME, PIXBALL_SOUND, PIXBALL_LOG, PIXBALL_SEED")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "Examples:")
	fmt.Fprintln(os.Stderr, "  pixball")
	fmt.Fprintln(os.Stderr, "  pixball --share --http-port 8080 --name Host")
	fmt.Fprintln(os.Stderr, "  pixball --watch 192.168.1.100")
}

func showShareInfo(port, httpPort int) {
	fmt.Printf("Sharing PixBall on port %d\n", port)
	fmt.Println("Others can watch using:")
	fmt.Println("")

	addrs, err := net.InterfaceAddrs()
	if err != nil {
		fmt.Printf("  pixball --watch localhost:%d\n", port)
		return
	}

	for _, addr := range addrs {
		ipNet, ok := addr.(*net.IPNet)
		if !ok {
			continue
		}

		ip := ipNet.IP
		if ip.IsLoopback() || ip.To4() == nil {
			continue
		}

		fmt.Printf("  pixball --watch %s:%d\n", ip.String(), port)
	}

	fmt.Printf("  pixball --watch localhost:%d  (same machine)\n", port)
	if httpPort > 0 {
		fmt.Printf("\nStatus: http://localhost:%d/ball\n", httpPort)
	}
	fmt.Println("")
}
