package app

import (
	"fmt"
	"log"
	"math/rand"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/pkg/errors"

	"github.com/diegok/pixball/internal/audio"
	"github.com/diegok/pixball/internal/client"
	"github.com/diegok/pixball/internal/config"
	"github.com/diegok/pixball/internal/debounce"
	"github.com/diegok/pixball/internal/game"
	"github.com/diegok/pixball/internal/protocol"
	"github.com/diegok/pixball/internal/server"
	"github.com/diegok/pixball/internal/status"
	"github.com/diegok/pixball/internal/ui"
)

const (
	frameInterval  = 16 * time.Millisecond
	resizeDebounce = 100 * time.Millisecond
	scrollDebounce = 50 * time.Millisecond
)

// App owns the terminal, the page and the ball for one session.
type App struct {
	cfg      *config.Config
	screen   *ui.Screen
	renderer *ui.Renderer
	page     *ui.Page
	sprite   *ui.BallSprite
	ball     *game.Controller
	client   *client.Client
	server   *server.Server
	status   *status.Server

	resize *debounce.Timer
	scroll *debounce.Timer

	frame    int
	pressed  bool
	lastTick time.Time

	quit     chan struct{}
	quitOnce sync.Once
	sigChan  chan os.Signal
}

// NewApp creates a new App instance with the given configuration.
func NewApp(cfg *config.Config) *App {
	return &App{
		cfg:    cfg,
		resize: debounce.New(resizeDebounce),
		scroll: debounce.New(scrollDebounce),
		quit:   make(chan struct{}),
	}
}

// Run is the main entry point for the application.
// It initializes the screen, sets up signal handling, and runs the loop.
func (a *App) Run() error {
	if a.cfg.Sound {
		// The page works fine without sound
		if err := audio.Init(); err != nil {
			log.Printf("audio: %v", err)
		}
	}

	screen, err := ui.InitScreen()
	if err != nil {
		return errors.Wrap(err, "failed to initialize screen")
	}

	return a.run(screen)
}

func (a *App) run(screen *ui.Screen) error {
	a.screen = screen
	a.renderer = ui.NewRenderer(screen)
	a.page = ui.NewPage(a.cfg.CellWidth, a.cfg.CellHeight)
	a.page.SetSize(screen.Size())

	// Setup signal handling
	a.sigChan = make(chan os.Signal, 1)
	signal.Notify(a.sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		select {
		case <-a.sigChan:
			a.stop()
		case <-a.quit:
		}
	}()

	var runErr error
	if a.cfg.IsWatcher() {
		runErr = a.runWatcher()
	} else {
		runErr = a.runLocal()
	}

	a.cleanup()

	return runErr
}

// runLocal mounts the ball on the page and, in share mode, publishes it.
func (a *App) runLocal() error {
	if a.cfg.Share {
		if err := a.startSharing(); err != nil {
			return err
		}
	}

	a.mount()
	return a.mainLoop(nil)
}

func (a *App) mount() {
	cols, _ := a.page.Size()
	dev := game.Device{
		ViewportWidth: float64(cols * a.cfg.CellWidth),
		NoPointer:     !a.screen.HasMouse(),
	}

	a.sprite = ui.NewBallSprite(a.cfg.Ball.Radius)
	a.ball = game.Mount(a.cfg.Ball, dev, a.page, a.sprite, newRand(a.cfg.Seed))
	if a.ball == nil {
		log.Printf("ball disabled: viewport %.0fpx, pointer %v", dev.ViewportWidth, !dev.NoPointer)
		return
	}
	a.ball.OnBounce = audio.PlayBounce
}

func (a *App) startSharing() error {
	name := a.cfg.PlayerName
	if name == "" {
		name = generateRandomName()
	}

	a.server = server.NewServer(a.cfg.Port, name)
	if err := a.server.Start(); err != nil {
		return err
	}
	for _, addr := range a.server.GetServerAddresses() {
		log.Printf("share: pixball --watch %s", addr)
	}

	if a.cfg.HTTPPort > 0 {
		a.status = status.NewServer(a.cfg.HTTPPort, a.server)
		if err := a.status.Start(); err != nil {
			return err
		}
	}
	return nil
}

// runWatcher connects to a sharing host and mirrors its ball.
func (a *App) runWatcher() error {
	addr := a.cfg.WatchAddr
	// Add default port if not specified
	if !hasPort(addr) {
		addr = fmt.Sprintf("%s:%d", addr, config.DefaultPort)
	}

	a.renderer.RenderConnecting(addr)

	name := a.cfg.PlayerName
	if name == "" {
		name = generateRandomName()
	}

	w, h := a.screen.Size()
	a.client = client.NewClient(name, w, h)
	if err := a.client.Connect(addr); err != nil {
		a.renderer.RenderError(err.Error())
		a.screen.PollEvent()
		return err
	}

	return a.mainLoop(a.client)
}

// mainLoop is the only goroutine that touches the ball, the page and the
// screen. With a client it renders the remote ball instead of a local one.
func (a *App) mainLoop(c *client.Client) error {
	events := make(chan tcell.Event)
	go func() {
		for {
			ev := a.screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-a.quit:
				return
			}
		}
	}()

	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()
	a.lastTick = time.Now()

	var (
		snapshots <-chan protocol.BallSnapshot
		byes      <-chan protocol.Bye
		errs      <-chan error
		remote    protocol.BallSnapshot
		hasRemote bool
	)
	if c != nil {
		snapshots, byes, errs = c.Snapshots, c.Bye, c.Error
	}

	for {
		select {
		case <-a.quit:
			return nil

		case ev := <-events:
			if a.handleEvent(ev) {
				return nil
			}

		case <-a.resize.C:
			a.reclamp()

		case <-a.scroll.C:
			a.reclamp()

		case snap := <-snapshots:
			remote, hasRemote = snap, true

		case bye := <-byes:
			a.renderer.RenderError("host left: " + bye.Reason)
			a.screen.PollEvent()
			return nil

		case err := <-errs:
			a.renderer.RenderError(err.Error())
			// Wait for a key press
			a.screen.PollEvent()
			return err

		case now := <-ticker.C:
			dt := now.Sub(a.lastTick)
			a.lastTick = now
			if c != nil {
				a.renderer.RenderWatch(a.page, remote, hasRemote, a.statusLine())
				continue
			}
			a.tick(dt)
		}
	}
}

// tick advances one frame, publishes it and redraws.
func (a *App) tick(dt time.Duration) {
	a.frame++
	if a.ball != nil {
		a.ball.Frame()
		if a.server != nil {
			a.server.Publish(protocol.FromSnapshot(a.ball.Snapshot(a.frame)))
		}
	}
	a.sprite.Update(float32(dt.Seconds()))
	a.renderer.RenderPage(a.page, a.sprite, a.statusLine())
}

func (a *App) reclamp() {
	if a.ball != nil {
		a.ball.Reclamp()
	}
}

// handleEvent processes keyboard, mouse and terminal events.
// Returns true if the application should quit.
func (a *App) handleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if ui.IsQuitKey(ev.Key(), ev.Rune()) {
			return true
		}
		if delta, ok := ui.ScrollKey(ev.Key(), ev.Rune(), a.page.ViewRows()); ok {
			a.scrollBy(delta)
		}

	case *tcell.EventMouse:
		a.handleMouse(ui.PointerFromMouse(ev, a.page))

	case *tcell.EventFocus:
		// Losing focus is the pointer leaving the window
		if !ev.Focused {
			a.release()
		}

	case *tcell.EventResize:
		a.screen.Sync()
		a.page.SetSize(ev.Size())
		a.resize.Trigger()
	}

	return false
}

func (a *App) handleMouse(p ui.Pointer) {
	if p.Wheel != 0 {
		a.scrollBy(p.Wheel)
		return
	}
	if a.ball == nil {
		return
	}

	s := game.Sample{X: p.X, Y: p.Y, At: p.At}
	switch {
	case p.Pressed && !a.pressed:
		if a.ball.StartDrag(s) {
			audio.PlayGrab()
		}
	case p.Pressed:
		a.ball.DragMove(s)
	case a.pressed:
		a.ball.EndDrag()
	}
	a.pressed = p.Pressed
}

func (a *App) release() {
	a.pressed = false
	if a.ball != nil {
		a.ball.EndDrag()
	}
}

func (a *App) scrollBy(delta int) {
	if a.page.Scroll(delta) {
		a.scroll.Trigger()
	}
}

func (a *App) statusLine() ui.Status {
	switch {
	case a.client != nil:
		return ui.Status{
			Text:  "watching " + a.client.HostName,
			Style: tcell.StyleDefault.Foreground(tcell.ColorYellow),
		}
	case a.server != nil:
		return ui.Status{
			Text:  fmt.Sprintf("sharing :%d (%d watching)", a.cfg.Port, a.server.WatcherCount()),
			Style: tcell.StyleDefault.Foreground(tcell.ColorLightGreen),
		}
	case a.ball == nil:
		return ui.Status{Text: "ball off", Style: ui.HintStyle}
	}
	return ui.Status{}
}

func (a *App) stop() {
	a.quitOnce.Do(func() { close(a.quit) })
}

// cleanup shuts down all resources.
func (a *App) cleanup() {
	a.stop()

	if a.ball != nil {
		a.ball.Dispose()
	}
	a.resize.Stop()
	a.scroll.Stop()

	audio.Close()

	if a.client != nil {
		a.client.Close()
	}
	if a.status != nil {
		if err := a.status.Stop(); err != nil {
			log.Printf("%v", err)
		}
	}
	if a.server != nil {
		a.server.Stop()
	}

	if a.screen != nil {
		a.screen.Fini()
	}

	signal.Stop(a.sigChan)
}

func newRand(seed int64) *rand.Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}

// hasPort checks if the address string contains a port number.
func hasPort(addr string) bool {
	return strings.Contains(addr, ":")
}

// generateRandomName creates a random display name.
func generateRandomName() string {
	adjectives := []string{"Swift", "Brave", "Quick", "Sharp", "Bold", "Cool", "Fast", "Keen"}
	nouns := []string{"Ball", "Bounce", "Page", "Pixel", "Star", "Orbit", "Comet", "Hero"}

	r := rand.New(rand.NewSource(time.Now().UnixNano()))
	adj := adjectives[r.Intn(len(adjectives))]
	noun := nouns[r.Intn(len(nouns))]
	num := r.Intn(100)

	return fmt.Sprintf("%s%s%d", adj, noun, num)
}
