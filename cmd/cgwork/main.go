// cgwork - terminal wireframe viewer for polygonal scenes
// Loads glTF files (one figure per file) and draws them as wireframes.
//
// Controls:
//
//	Mouse drag  - Rotate the figure under the cursor, or the world
//	T           - Toggle pan (drag translates instead of rotating)
//	X/Y/Z/0     - Lock drags to one axis / unlock
//	P           - Toggle perspective / orthographic
//	N           - Toggle vertex normals
//	M           - Toggle polygon normals
//	B           - Toggle bounding boxes
//	+/-, Scroll - Zoom
//	R           - Reset transforms
//	S           - Save a snapshot (-snap)
//	?           - Toggle HUD overlay
//	Esc         - Cancel drag / quit
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	uv "github.com/charmbracelet/ultraviolet"
	"github.com/taigrr/cgwork/internal/config"
	"github.com/taigrr/cgwork/pkg/math3d"
	"github.com/taigrr/cgwork/pkg/models"
	"github.com/taigrr/cgwork/pkg/render"
	"github.com/taigrr/cgwork/pkg/scene"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	flag.IntVar(&cfg.FPS, "fps", cfg.FPS, "Target FPS")
	flag.Var(&cfg.Background, "bg", "Background color (R,G,B)")
	flag.Var(&cfg.WireColor, "wire", "Wire color (R,G,B)")
	flag.Float64Var(&cfg.ProjectionDistance, "d", cfg.ProjectionDistance, "Projection plane distance")
	flag.Float64Var(&cfg.EyeDistance, "eye", cfg.EyeDistance, "Initial eye distance")
	flag.BoolVar(&cfg.Perspective, "perspective", cfg.Perspective, "Start in perspective projection")
	flag.Float64Var(&cfg.NormalScale, "normals", cfg.NormalScale, "Drawn normal length")
	flag.StringVar(&cfg.LogPath, "log", cfg.LogPath, "Write logs to this file")
	snapPath := flag.String("snap", "cgwork.png", "Snapshot path (.png, .bmp, .tif)")
	demo := flag.Bool("demo", false, "Show built-in boxes instead of files")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "cgwork - terminal wireframe viewer\n\n")
		fmt.Fprintf(os.Stderr, "Usage: cgwork [options] <model.gltf|model.glb>...\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nControls:\n")
		fmt.Fprintf(os.Stderr, "  Mouse drag  - Rotate figure (or world)\n")
		fmt.Fprintf(os.Stderr, "  T           - Toggle pan\n")
		fmt.Fprintf(os.Stderr, "  X/Y/Z/0     - Axis lock\n")
		fmt.Fprintf(os.Stderr, "  P           - Perspective / orthographic\n")
		fmt.Fprintf(os.Stderr, "  N/M         - Vertex / polygon normals\n")
		fmt.Fprintf(os.Stderr, "  B           - Bounding boxes\n")
		fmt.Fprintf(os.Stderr, "  +/-         - Zoom\n")
		fmt.Fprintf(os.Stderr, "  R           - Reset\n")
		fmt.Fprintf(os.Stderr, "  S           - Snapshot\n")
		fmt.Fprintf(os.Stderr, "  Esc         - Quit\n")
	}
	flag.Parse()

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if flag.NArg() < 1 && !*demo {
		flag.Usage()
		os.Exit(1)
	}

	logger, closeLog, err := openLogger(cfg.LogPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer closeLog()

	world, title, err := loadWorld(flag.Args(), *demo, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := run(world, title, cfg, *snapPath, logger); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func openLogger(path string) (*slog.Logger, func(), error) {
	if path == "" {
		return slog.New(slog.DiscardHandler), func() {}, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log: %w", err)
	}
	logger := slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return logger, func() { f.Close() }, nil
}

// loadWorld builds the scene: one figure per file, or three boxes in demo
// mode. Per-file problems are logged; a file that cannot be read at all
// fails the whole load.
func loadWorld(paths []string, demo bool, logger *slog.Logger) (*scene.World, string, error) {
	world := scene.NewWorld()
	opts := models.Options{Logger: logger, ComputeNormals: true}

	if demo {
		loader := models.NewLoader(opts)
		sources := map[string]models.Source{
			"cube":  models.NewSliceSource(models.Cube("cube", 1)),
			"slab":  models.NewSliceSource(models.Box("slab", math3d.V3(1.5, -0.25, -1), math3d.V3(3.5, 0.25, 1))),
			"tower": models.NewSliceSource(models.Box("tower", math3d.V3(-3, -1, -0.4), math3d.V3(-2.2, 1.5, 0.4))),
		}
		for _, name := range []string{"cube", "slab", "tower"} {
			if _, _, err := loader.Load(world, name, sources[name]); err != nil {
				return nil, "", err
			}
		}
		return world, "demo", nil
	}

	var names []string
	for _, path := range paths {
		ext := strings.ToLower(filepath.Ext(path))
		if ext != ".gltf" && ext != ".glb" {
			return nil, "", fmt.Errorf("unsupported format: %s (use .gltf or .glb)", ext)
		}
		fig, report, err := models.LoadGLTF(world, path, opts)
		if err != nil {
			return nil, "", fmt.Errorf("load model: %w", err)
		}
		if err := report.Err(); err != nil {
			logger.Warn("model loaded with errors", "path", path, "err", err)
		}
		names = append(names, fig.Name)
	}
	if world.Bounds().IsEmpty() {
		return nil, "", errors.New("no polygonal geometry found")
	}
	return world, strings.Join(names, ", "), nil
}

func polygonCount(world *scene.World) int {
	n := 0
	for _, f := range world.Figures() {
		for _, o := range f.Objects() {
			n += o.Len()
		}
	}
	return n
}

// keyNames are the keys the viewer reacts to.
var keyNames = []string{
	"escape", "ctrl+c",
	"p", "n", "m", "b",
	"x", "y", "z", "0",
	"t", "r", "s", "?",
	"+", "=", "-", "_",
}

// cellToPixel maps a terminal cell to the center of its framebuffer area.
func cellToPixel(x, y int) (float64, float64) {
	return float64(x) + 0.5, float64(y)*2 + 1
}

func run(world *scene.World, title string, cfg *config.Config, snapPath string, logger *slog.Logger) error {
	term := uv.DefaultTerminal()

	width, height, err := term.GetSize()
	if err != nil {
		return fmt.Errorf("get terminal size: %w", err)
	}
	if cfg.Width > 0 && cfg.Height > 0 {
		width, height = cfg.Width, cfg.Height
	}

	if err := term.Start(); err != nil {
		return fmt.Errorf("start terminal: %w", err)
	}

	term.EnterAltScreen()
	term.HideCursor()
	term.Resize(width, height)

	// Enable mouse mode
	fmt.Fprint(os.Stdout, "\x1b[?1003h") // Enable any-event mouse tracking
	fmt.Fprint(os.Stdout, "\x1b[?1006h") // Enable SGR extended mouse mode

	termRenderer := render.NewTerminalRenderer(term, width, height)
	fbWidth, fbHeight := termRenderer.FramebufferSize()
	fb := render.NewFramebuffer(fbWidth, fbHeight)

	v := newViewer(world, cfg, snapPath, logger)
	v.resize(fbWidth, fbHeight)
	hud := NewHUD(title, polygonCount(world))
	logger.Info("viewer started", "figures", len(world.Figures()), "width", fbWidth, "height", fbHeight)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	// Terminal size changes arrive on the event goroutine; the frame loop
	// picks them up here.
	resized := make(chan [2]int, 1)

	go func() {
		for ev := range term.Events() {
			switch ev := ev.(type) {
			case uv.WindowSizeEvent:
				select {
				case <-resized:
				default:
				}
				resized <- [2]int{ev.Width, ev.Height}

			case uv.KeyPressEvent:
				if ev.MatchString("shift+/") {
					v.key("?")
					continue
				}
				for _, name := range keyNames {
					if !ev.MatchString(name) {
						continue
					}
					if v.key(name) {
						cancel()
						return
					}
					break
				}

			case uv.MouseClickEvent:
				v.press(cellToPixel(ev.X, ev.Y))

			case uv.MouseReleaseEvent:
				v.release()

			case uv.MouseMotionEvent:
				v.drag(cellToPixel(ev.X, ev.Y))

			case uv.MouseWheelEvent:
				switch ev.Button {
				case uv.MouseWheelUp:
					v.key("+")
				case uv.MouseWheelDown:
					v.key("-")
				}
			}
		}
	}()

	targetDuration := time.Second / time.Duration(cfg.FPS)

	cleanup := func() {
		fmt.Fprint(os.Stdout, "\x1b[?1003l")
		fmt.Fprint(os.Stdout, "\x1b[?1006l")
		term.ExitAltScreen()
		term.ShowCursor()
		term.Shutdown(context.Background())
	}

	for {
		select {
		case <-ctx.Done():
			cleanup()
			logger.Info("viewer stopped")
			return nil
		case size := <-resized:
			width, height = size[0], size[1]
			term.Erase()
			term.Resize(width, height)
			termRenderer = render.NewTerminalRenderer(term, width, height)
			fbWidth, fbHeight = termRenderer.FramebufferSize()
			fb = render.NewFramebuffer(fbWidth, fbHeight)
			v.resize(fbWidth, fbHeight)
		default:
		}

		now := time.Now()

		v.frame(fb)

		termRenderer.Render(fb)
		if err := termRenderer.Flush(); err != nil {
			cleanup()
			return fmt.Errorf("flush: %w", err)
		}

		hud.UpdateFPS()
		vs, mode, pan := v.status()
		hud.Render(width, height, v.hudVisible(), vs, mode, pan)

		elapsed := time.Since(now)
		if elapsed < targetDuration {
			time.Sleep(targetDuration - elapsed)
		}
	}
}
