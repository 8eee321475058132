// Package app wires configuration, the event bus, a source panel and a file
// watcher into the storysource command.
package app

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync/atomic"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/tliron/commonlog"

	"github.com/dshills/storysource/internal/config"
	"github.com/dshills/storysource/internal/event"
	"github.com/dshills/storysource/internal/highlight"
	"github.com/dshills/storysource/internal/panel"
	"github.com/dshills/storysource/internal/region"
	"github.com/dshills/storysource/internal/render"
	"github.com/dshills/storysource/internal/script"
	"github.com/dshills/storysource/internal/source"
	"github.com/dshills/storysource/internal/splice"
	"github.com/dshills/storysource/internal/view"
)

// Application shows one story document.
type Application struct {
	opts Options
	cfg  config.Config
	out  io.Writer
	log  commonlog.Logger

	bus      event.Bus
	panel    *panel.Panel
	renderer *render.Renderer
	watcher  *source.Watcher
	echo     event.Subscription
	hook     *script.Hook

	// newScreen opens the terminal for Options.Interactive.
	newScreen func() (tcell.Screen, error)
	viewer    atomic.Pointer[view.Viewer]

	running atomic.Bool
}

// New creates an application writing to out. It loads the configuration
// and configures logging but does not read the document yet.
func New(opts Options, out io.Writer) (*Application, error) {
	if opts.SourcePath == "" {
		return nil, ErrNoSource
	}

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, &OperationError{Op: "load config", Target: opts.ConfigPath, Err: err}
	}
	if opts.LogLevel != "" {
		cfg.Log.Level = opts.LogLevel
		if err := cfg.Validate(); err != nil {
			return nil, &OperationError{Op: "load config", Target: "log level", Err: err}
		}
	}
	commonlog.Configure(cfg.Verbosity(), cfg.LogFile())

	a := &Application{
		opts:      opts,
		cfg:       cfg,
		out:       out,
		log:       commonlog.GetLogger("storysource.app"),
		bus:       event.NewBus(),
		newScreen: tcell.NewScreen,
	}

	if path := cmp.Or(opts.Script, cfg.Script.Navigate); path != "" {
		if a.hook, err = script.LoadFile(path, script.WithTimeout(time.Duration(cfg.Script.Timeout))); err != nil {
			return nil, &OperationError{Op: "load script", Target: path, Err: err}
		}
	}

	renderOpts := []render.Option{render.WithStyle(cfg.Highlight.Style)}
	if opts.Color != nil {
		renderOpts = append(renderOpts, render.WithColor(*opts.Color))
	}
	a.renderer = render.New(out, renderOpts...)

	a.panel = panel.New(
		panel.WithTokenizer(highlight.NewChromaTokenizer(cfg.Highlight.Language)),
		panel.WithNavigator(a.navigate),
		panel.WithTransitionOptions(panel.TransitionOptions{
			Validate:       cfg.Panel.Validate,
			ExactEndColumn: cfg.Splice.ExactEndColumn,
		}),
	)
	if err := a.panel.Attach(a.bus); err != nil {
		_ = a.Close()
		return nil, err
	}
	if a.echo, err = panel.EchoEdits(a.bus, "host"); err != nil {
		_ = a.Close()
		return nil, err
	}

	doc := source.Document{
		TextPath:    opts.SourcePath,
		RegionsPath: opts.RegionsPath,
		ActiveKey:   region.Key(opts.Active),
	}
	a.watcher, err = source.NewWatcher(doc, a.bus,
		source.WithDebounce(time.Duration(cfg.Watch.Debounce)),
		source.WithEventSource("host"),
	)
	if err != nil {
		_ = a.Close()
		return nil, &OperationError{Op: "watch", Target: opts.SourcePath, Err: err}
	}
	return a, nil
}

// Config returns the resolved configuration.
func (a *Application) Config() config.Config {
	return a.cfg
}

// Panel returns the source panel.
func (a *Application) Panel() *panel.Panel {
	return a.panel
}

// Run loads the document, applies the optional selection and edit, and
// renders it. With Options.Watch it then re-renders on every change until
// ctx is done.
func (a *Application) Run(ctx context.Context) error {
	if !a.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer a.running.Store(false)

	if err := a.watcher.Reload(ctx); err != nil {
		return &OperationError{Op: "load", Target: a.opts.SourcePath, Err: err}
	}
	if a.opts.Select != "" {
		if err := a.Select(ctx, region.Key(a.opts.Select)); err != nil {
			return err
		}
	}
	if a.opts.Replace != nil {
		if err := a.Edit(ctx, *a.opts.Replace); err != nil {
			return err
		}
	}
	if a.opts.Interactive {
		return a.runInteractive(ctx)
	}
	if err := a.Render(); err != nil {
		return err
	}
	if !a.opts.Watch {
		return nil
	}

	sub, err := a.bus.Subscribe(panel.TopicSourceReplaced, event.HandlerFunc(
		func(context.Context, any) error {
			if _, err := io.WriteString(a.out, "\n"); err != nil {
				return err
			}
			return a.Render()
		}))
	if err != nil {
		return err
	}
	defer func() { _ = a.bus.Unsubscribe(sub) }()

	a.log.Infof("watching %v", a.watcher.Document().Paths())
	return a.watcher.Run(ctx)
}

// runInteractive shows the document in a terminal viewer, reloading it as
// the files change, until the viewer quits or ctx is done.
func (a *Application) runInteractive(ctx context.Context) error {
	screen, err := a.newScreen()
	if err != nil {
		return &OperationError{Op: "open terminal", Err: err}
	}
	if err := screen.Init(); err != nil {
		return &OperationError{Op: "open terminal", Err: err}
	}
	defer screen.Fini()

	v := view.New(screen, a.panel,
		view.WithStyle(render.Style(a.cfg.Highlight.Style)),
		view.WithTint(a.cfg.View.Tint),
		view.WithSelect(a.Select),
	)
	a.viewer.Store(v)
	defer a.viewer.Store(nil)

	sub, err := a.bus.Subscribe(panel.TopicSourceReplaced, event.HandlerFunc(
		func(context.Context, any) error {
			v.Invalidate()
			return nil
		}))
	if err != nil {
		return err
	}
	defer func() { _ = a.bus.Unsubscribe(sub) }()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	watched := make(chan error, 1)
	go func() { watched <- a.watcher.Run(ctx) }()

	err = v.Run(ctx)
	cancel()
	if werr := <-watched; err == nil {
		err = werr
	}
	return err
}

// Render writes the current document.
func (a *Application) Render() error {
	segs, err := a.panel.Render()
	if err != nil {
		return err
	}
	return a.renderer.Render(segs)
}

// Select navigates to the region with key. Navigating makes it the active
// region of the reloaded document.
func (a *Application) Select(ctx context.Context, key region.Key) error {
	navigated, err := a.panel.Activate(key)
	if err != nil {
		return &OperationError{Op: "select", Target: string(key), Err: err}
	}
	if !navigated {
		return nil
	}
	if err := a.watcher.Reload(ctx); err != nil {
		return &OperationError{Op: "select", Target: string(key), Err: err}
	}
	return nil
}

// Edit replaces the text of the active region and, with Options.Write,
// saves the result.
func (a *Application) Edit(ctx context.Context, text string) error {
	st := a.panel.State()
	key, _ := st.ActiveKey()

	if err := a.panel.BeginEdit(); err != nil {
		return &OperationError{Op: "edit", Err: fmt.Errorf("%w: %w", ErrNoActiveRegion, err)}
	}
	if prev, err := splice.Extract(st.Text, st.Active); err == nil {
		a.log.Infof("replacing %q in %s", prev, key)
	}
	if err := a.panel.Edit(ctx, text); err != nil {
		return &OperationError{Op: "edit", Target: string(key), Err: err}
	}
	if !a.opts.Write {
		return nil
	}
	return a.save()
}

// save writes the panel's text and regions back to the document files.
func (a *Application) save() error {
	st := a.panel.State()
	doc := a.watcher.Document()

	var regions []byte
	if doc.RegionsPath != "" {
		// Legacy end columns can leave the edited boundary malformed.
		if err := st.Index.Validate(st.Text); err != nil {
			return &OperationError{Op: "write", Target: doc.RegionsPath, Err: err}
		}
		var err error
		if regions, err = source.EncodeRegionsFile(doc.RegionsPath, st.Index); err != nil {
			return &OperationError{Op: "write", Target: doc.RegionsPath, Err: err}
		}
	}

	if err := os.WriteFile(doc.TextPath, []byte(st.Text), 0o644); err != nil {
		return &OperationError{Op: "write", Target: doc.TextPath, Err: err}
	}
	if doc.RegionsPath == "" {
		a.log.Infof("wrote %s", doc.TextPath)
		return nil
	}
	if err := os.WriteFile(doc.RegionsPath, regions, 0o644); err != nil {
		return &OperationError{Op: "write", Target: doc.RegionsPath, Err: err}
	}
	a.log.Infof("wrote %s and %s", doc.TextPath, doc.RegionsPath)
	return nil
}

// navigate makes group@item the active region of later reloads and runs
// the navigation hook, if any.
func (a *Application) navigate(group, item string) {
	key := region.Key(group + region.KeySeparator + item)
	a.log.Infof("navigating to %s", key)
	a.watcher.SetActiveKey(key)

	if a.hook == nil {
		return
	}
	target, err := a.hook.Navigate(context.Background(), group, item)
	if err != nil {
		a.log.Errorf("navigation hook: %s", err)
		a.notify(err.Error())
		return
	}
	if target != "" {
		a.notify("open " + target)
	}
}

// notify shows msg in the viewer status line, or prints it.
func (a *Application) notify(msg string) {
	if v := a.viewer.Load(); v != nil {
		v.SetStatus(msg)
		return
	}
	fmt.Fprintln(a.out, msg)
}

// Close releases the watcher and bus subscriptions.
func (a *Application) Close() error {
	var errs []error
	if a.watcher != nil {
		errs = append(errs, a.watcher.Close())
	}
	if a.echo != nil {
		errs = append(errs, a.bus.Unsubscribe(a.echo))
		a.echo = nil
	}
	if a.hook != nil {
		errs = append(errs, a.hook.Close())
	}
	errs = append(errs, a.panel.Detach())

	st := a.bus.Stats()
	a.log.Debugf("event bus: %d published, %d delivered, %d failed", st.Published, st.Delivered, st.Failed)
	return errors.Join(errs...)
}
