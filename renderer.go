package webpage

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"
)

// DefaultExt is the template file extension loaded when Options.Ext is empty.
const DefaultExt = ".html"

// Options configures a Renderer.
type Options struct {
	// Ext is the template file extension to load, including the dot.
	// Defaults to DefaultExt.
	Ext string

	// Reload re-parses the template directory before every render. Intended
	// for development; template parse errors surface on the next request
	// instead of at startup only.
	Reload bool

	// Funcs are extra template functions available to all templates.
	Funcs template.FuncMap

	// Logger used for render diagnostics. Defaults to slog.Default().
	Logger *slog.Logger
}

// RenderOptions configures a single render call.
type RenderOptions struct {
	// Status is the HTTP status code to write. Zero means 200.
	Status int

	// Header entries are added to the response before the body is written.
	Header http.Header

	// Funcs are bound for this render only, on a clone of the template set.
	// The http package uses this to bind the request-aware urlFor function.
	Funcs template.FuncMap
}

// Renderer parses a directory of html/template files and renders them with
// the layered context described in the package documentation.
// All methods are safe for concurrent use.
type Renderer struct {
	fsys   fs.FS
	opts   Options
	logger *slog.Logger
	now    func() time.Time

	mu        sync.RWMutex
	templates *template.Template
	names     []string
	global    Context
	pre       Context
}

// New creates a Renderer loading templates from dir with default options.
// The global context is available to every page under the "webpage" key.
func New(dir string, global Context) (*Renderer, error) {
	if _, err := os.Stat(dir); err != nil {
		return nil, fmt.Errorf("template directory: %w", err)
	}
	return NewFS(os.DirFS(dir), Options{}, global)
}

// NewFS creates a Renderer loading templates from fsys. It performs an
// initial parse and fails if no template matches the configured extension.
func NewFS(fsys fs.FS, opts Options, global Context) (*Renderer, error) {
	if opts.Ext == "" {
		opts.Ext = DefaultExt
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	rd := &Renderer{
		fsys:   fsys,
		opts:   opts,
		logger: opts.Logger,
		now:    time.Now,
		global: global.Clone(),
		pre:    Context{},
	}

	if err := rd.Refresh(); err != nil {
		return nil, err
	}

	rd.logger.Debug("renderer initialized", "templates", len(rd.names))
	return rd, nil
}

// funcMap returns the parse-time function map. urlFor is a stub here so
// templates referencing it still parse; the http package rebinds it per
// request with the real route registry.
func (rd *Renderer) funcMap() template.FuncMap {
	fm := template.FuncMap{
		"urlFor": func(name string, pairs ...string) (string, error) {
			return "", errors.New("urlFor: no route registry bound to this render")
		},
	}
	for name, fn := range rd.opts.Funcs {
		fm[name] = fn
	}
	return fm
}

// Refresh re-parses every template file from the filesystem. Template names
// are slash-separated paths relative to the template root, extension
// included ("index.html", "partials/nav.html").
func (rd *Renderer) Refresh() error {
	root := template.New("").Funcs(rd.funcMap())

	var names []string
	err := fs.WalkDir(rd.fsys, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, rd.opts.Ext) {
			return nil
		}

		content, err := fs.ReadFile(rd.fsys, path)
		if err != nil {
			return fmt.Errorf("read template %s: %w", path, err)
		}
		if _, err := root.New(path).Parse(string(content)); err != nil {
			return fmt.Errorf("parse template %s: %w", path, err)
		}
		names = append(names, path)
		return nil
	})
	if err != nil {
		return err
	}

	if len(names) == 0 {
		return fmt.Errorf("%w matching *%s", ErrNoTemplates, rd.opts.Ext)
	}

	rd.mu.Lock()
	rd.templates = root
	rd.names = names
	rd.mu.Unlock()
	return nil
}

// Names returns the names of all loaded templates.
func (rd *Renderer) Names() []string {
	rd.mu.RLock()
	defer rd.mu.RUnlock()
	out := make([]string, len(rd.names))
	copy(out, rd.names)
	return out
}

// Global returns a copy of the global context.
func (rd *Renderer) Global() Context {
	rd.mu.RLock()
	defer rd.mu.RUnlock()
	return rd.global.Clone()
}

// UpdateGlobal merges ctx into the global context. Existing keys are
// overwritten, keys not present in ctx are kept.
func (rd *Renderer) UpdateGlobal(ctx Context) {
	rd.mu.Lock()
	defer rd.mu.Unlock()
	rd.global.Merge(ctx)
}

// PreContext returns a copy of the pre-context.
func (rd *Renderer) PreContext() Context {
	rd.mu.RLock()
	defer rd.mu.RUnlock()
	return rd.pre.Clone()
}

// UpdatePre merges ctx into the pre-context.
func (rd *Renderer) UpdatePre(ctx Context) {
	rd.mu.Lock()
	defer rd.mu.Unlock()
	rd.pre.Merge(ctx)
}

// Render executes the named template with the direct-call merge order:
// caller context, then the request, then the pre-context, then the global
// context under "webpage".
func (rd *Renderer) Render(w http.ResponseWriter, r *http.Request, name string, ctx Context, opts *RenderOptions) error {
	global, pre, err := rd.snapshot()
	if err != nil {
		return err
	}
	return rd.execute(w, name, directContext(ctx, r, global, pre), opts)
}

// RenderPage executes the named template with the page-adapter merge order:
// handler context, then the injected request/webpage/css_timestamp keys,
// then the pre-context.
func (rd *Renderer) RenderPage(w http.ResponseWriter, r *http.Request, name string, ctx Context, opts *RenderOptions) error {
	global, pre, err := rd.snapshot()
	if err != nil {
		return err
	}
	return rd.execute(w, name, pageContext(ctx, r, global, pre, rd.now), opts)
}

// snapshot refreshes in reload mode and returns copies of both shared
// context layers so renders never observe a half-applied update.
func (rd *Renderer) snapshot() (global, pre Context, err error) {
	if rd.opts.Reload {
		if err := rd.Refresh(); err != nil {
			return nil, nil, err
		}
	}
	rd.mu.RLock()
	defer rd.mu.RUnlock()
	return rd.global.Clone(), rd.pre.Clone(), nil
}

func (rd *Renderer) execute(w http.ResponseWriter, name string, data Context, opts *RenderOptions) error {
	if opts == nil {
		opts = &RenderOptions{}
	}

	rd.mu.RLock()
	base := rd.templates
	rd.mu.RUnlock()

	// Always execute a clone. html/template forbids cloning a template set
	// once it has executed, so the parsed base set must stay pristine for
	// the next render's per-request funcs.
	tmpl, err := base.Clone()
	if err != nil {
		return fmt.Errorf("clone templates: %w", err)
	}
	if len(opts.Funcs) > 0 {
		tmpl = tmpl.Funcs(opts.Funcs)
	}

	if tmpl.Lookup(name) == nil {
		return fmt.Errorf("%w: %s", ErrTemplateNotFound, name)
	}

	// Render into a buffer first so a template error never leaks a
	// half-written body behind a success status.
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		return fmt.Errorf("execute template %s: %w", name, err)
	}

	for key, values := range opts.Header {
		for _, v := range values {
			w.Header().Add(key, v)
		}
	}
	if w.Header().Get("Content-Type") == "" {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
	}

	status := opts.Status
	if status == 0 {
		status = http.StatusOK
	}
	w.WriteHeader(status)

	if _, err := buf.WriteTo(w); err != nil {
		rd.logger.Error("failed to write rendered template", "template", name, "error", err)
	}
	return nil
}
