package app

import (
	"math/rand"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/diegok/pixball/internal/config"
	"github.com/diegok/pixball/internal/game"
	"github.com/diegok/pixball/internal/ui"
)

func newTestApp(t *testing.T) *App {
	t.Helper()

	sim := tcell.NewSimulationScreen("UTF-8")
	if err := sim.Init(); err != nil {
		t.Fatalf("failed to init simulation screen: %v", err)
	}
	sim.SetSize(120, 40)
	t.Cleanup(sim.Fini)

	cfg := &config.Config{
		Ball:       game.DefaultParams(),
		CellWidth:  config.DefaultCellWidth,
		CellHeight: config.DefaultCellHeight,
	}
	a := NewApp(cfg)
	t.Cleanup(func() {
		a.resize.Stop()
		a.scroll.Stop()
	})

	a.screen = ui.NewScreen(sim)
	a.renderer = ui.NewRenderer(a.screen)
	a.page = ui.NewPage(cfg.CellWidth, cfg.CellHeight)
	a.page.SetSize(120, 40)
	a.sprite = ui.NewBallSprite(cfg.Ball.Radius)

	dev := game.Device{ViewportWidth: 960}
	a.ball = game.Mount(cfg.Ball, dev, a.page, a.sprite, rand.New(rand.NewSource(1)))
	if a.ball == nil {
		t.Fatal("expected ball to mount")
	}
	return a
}

func mouseAtBall(a *App, btn tcell.ButtonMask) *tcell.EventMouse {
	x, y := a.ball.Position()
	col, row := a.page.ToCell(x, y)
	return tcell.NewEventMouse(col, row, btn, tcell.ModNone)
}

func TestQuitKey(t *testing.T) {
	a := newTestApp(t)
	if !a.handleEvent(tcell.NewEventKey(tcell.KeyRune, 'q', tcell.ModNone)) {
		t.Error("expected 'q' to quit")
	}
	if a.handleEvent(tcell.NewEventKey(tcell.KeyRune, 'x', tcell.ModNone)) {
		t.Error("expected 'x' not to quit")
	}
}

func TestDragAndRelease(t *testing.T) {
	a := newTestApp(t)

	a.handleEvent(mouseAtBall(a, tcell.Button1))
	if a.ball.Mode() != game.ModeDragging {
		t.Fatalf("expected dragging after press on ball, got %v", a.ball.Mode())
	}
	if !a.sprite.Grabbed() {
		t.Error("expected sprite grabbed")
	}

	x, y := a.ball.Position()
	col, row := a.page.ToCell(x, y)
	a.handleEvent(tcell.NewEventMouse(col+2, row, tcell.Button1, tcell.ModNone))
	nx, _ := a.ball.Position()
	if nx <= x {
		t.Errorf("expected ball to follow the pointer right of %v, got %v", x, nx)
	}

	a.handleEvent(tcell.NewEventMouse(col+2, row, tcell.ButtonNone, tcell.ModNone))
	if a.ball.Mode() != game.ModeFree {
		t.Errorf("expected free after release, got %v", a.ball.Mode())
	}
}

func TestPressOffBallDoesNotGrab(t *testing.T) {
	a := newTestApp(t)

	x, y := a.ball.Position()
	col, row := a.page.ToCell(x, y)
	// 20 columns is 160px away
	col = (col + 20) % 120
	a.handleEvent(tcell.NewEventMouse(col, row, tcell.Button1, tcell.ModNone))

	if a.ball.Mode() != game.ModeFree {
		t.Errorf("expected free after press off the ball, got %v", a.ball.Mode())
	}
}

func TestFocusLostReleases(t *testing.T) {
	a := newTestApp(t)

	a.handleEvent(mouseAtBall(a, tcell.Button1))
	a.handleEvent(tcell.NewEventFocus(false))

	if a.ball.Mode() != game.ModeFree {
		t.Errorf("expected focus loss to release, got %v", a.ball.Mode())
	}
	if a.pressed {
		t.Error("expected pressed state cleared")
	}
}

func TestFrameSkippedWhileDragging(t *testing.T) {
	a := newTestApp(t)

	a.handleEvent(mouseAtBall(a, tcell.Button1))
	x, y := a.ball.Position()
	a.tick(16 * time.Millisecond)
	nx, ny := a.ball.Position()

	if nx != x || ny != y {
		t.Errorf("expected ball still while held, moved from (%v, %v) to (%v, %v)", x, y, nx, ny)
	}
}

func TestTickMovesBall(t *testing.T) {
	a := newTestApp(t)

	x, y := a.ball.Position()
	a.tick(16 * time.Millisecond)
	nx, ny := a.ball.Position()

	if nx == x && ny == y {
		t.Error("expected free ball to move on tick")
	}
	if a.frame != 1 {
		t.Errorf("expected frame 1, got %d", a.frame)
	}
}

func TestScrollTriggersReclamp(t *testing.T) {
	a := newTestApp(t)
	a.page.SetSize(120, 20)

	a.handleEvent(tcell.NewEventKey(tcell.KeyDown, 0, tcell.ModNone))
	if a.page.ScrollOffset() != 1 {
		t.Errorf("expected scroll offset 1, got %d", a.page.ScrollOffset())
	}

	select {
	case <-a.scroll.C:
	case <-time.After(time.Second):
		t.Fatal("expected scroll debounce to fire")
	}
}

func TestWheelScrolls(t *testing.T) {
	a := newTestApp(t)
	a.page.SetSize(120, 20)

	a.handleEvent(tcell.NewEventMouse(0, 10, tcell.WheelDown, tcell.ModNone))
	if a.page.ScrollOffset() == 0 {
		t.Error("expected wheel to scroll the page")
	}
	if a.ball.Mode() != game.ModeFree {
		t.Error("expected wheel not to grab the ball")
	}
}

func TestResizeUpdatesPage(t *testing.T) {
	a := newTestApp(t)

	a.handleEvent(tcell.NewEventResize(100, 30))
	cols, rows := a.page.Size()
	if cols != 100 || rows != 30 {
		t.Errorf("expected page 100x30, got %dx%d", cols, rows)
	}

	select {
	case <-a.resize.C:
		a.reclamp()
	case <-time.After(time.Second):
		t.Fatal("expected resize debounce to fire")
	}

	x, y := a.ball.Position()
	if !a.ball.Bounds().Contains(x, y) {
		t.Errorf("expected ball inside bounds after reclamp, got (%v, %v)", x, y)
	}
}

func TestHasPort(t *testing.T) {
	if !hasPort("host:5556") {
		t.Error("expected host:5556 to have a port")
	}
	if hasPort("host") {
		t.Error("expected bare host to have no port")
	}
}
