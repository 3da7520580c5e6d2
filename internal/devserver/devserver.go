/*
Copyright © 2026 Benny Powers <web@bennypowers.com>

This program is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

This program is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with this program. If not, see <http://www.gnu.org/licenses/>.
*/
// Package devserver serves a freshly built bundle on every request, with
// autoloading enabled, next to the project files the runtime loader
// fetches when a module is missing from the bundle.
package devserver

import (
	"context"
	"errors"
	"net/http"
	"sync"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/filesystem"

	"bennypowers.dev/superjoin/bundler"
	sjfs "bennypowers.dev/superjoin/fs"
	"bennypowers.dev/superjoin/internal/version"
	"bennypowers.dev/superjoin/resolve"
)

// DefaultRoute is where the bundle is served unless configured otherwise.
const DefaultRoute = "/superjoin.js"

// Options configures a Server.
type Options struct {
	// Route is the URL path of the bundle.
	Route  string
	Logger resolve.Logger
}

// Server is a development HTTP server for one project.
type Server struct {
	mu      sync.Mutex
	bundler *bundler.Bundler
	logger  resolve.Logger
	app     *fiber.App
}

// New creates a Server building with b and serving static files from the
// project root on fsys. It turns on development mode for b.
func New(b *bundler.Bundler, fsys sjfs.FileSystem, opts Options) *Server {
	if opts.Route == "" {
		opts.Route = DefaultRoute
	}
	b.Config().Dev = true

	s := &Server{
		bundler: b,
		logger:  opts.Logger,
	}
	s.app = fiber.New(fiber.Config{
		ErrorHandler:          s.handleError,
		ServerHeader:          "superjoin/" + version.Get().Version,
		DisableStartupMessage: true,
		StrictRouting:         true,
	})
	s.app.Get(opts.Route, s.serveBundle)
	s.app.Use(filesystem.New(filesystem.Config{
		Root: http.FS(sjfs.Sub(fsys, b.Config().Root)),
	}))
	return s
}

// App returns the underlying fiber application.
func (s *Server) App() *fiber.App {
	return s.app
}

// Listen serves on addr until ctx is cancelled.
func (s *Server) Listen(ctx context.Context, addr string) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- s.app.Listen(addr)
	}()

	select {
	case <-ctx.Done():
		return s.app.ShutdownWithContext(context.Background())
	case err := <-errCh:
		return err
	}
}

func (s *Server) serveBundle(c *fiber.Ctx) error {
	content, err := s.build()
	if err != nil {
		return err
	}
	c.Set(fiber.HeaderCacheControl, "no-store")
	c.Type("js")
	return c.SendString(content)
}

// build rebuilds from disk. Requests are serialized because the bundler
// owns a single graph.
func (s *Server) build() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.bundler.ClearCache()
	if err := s.bundler.Collect(); err != nil {
		return "", err
	}
	return s.bundler.Build()
}

func (s *Server) handleError(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	var fiberErr *fiber.Error
	var resErr *resolve.ResolutionError
	var manifestErr *resolve.ManifestMissingError
	switch {
	case errors.As(err, &fiberErr):
		code = fiberErr.Code
	case errors.As(err, &resErr), errors.As(err, &manifestErr):
		code = fiber.StatusNotFound
	}

	if el, ok := s.logger.(errorLogger); ok && code >= fiber.StatusInternalServerError {
		el.Error("request failed", "method", c.Method(), "path", c.Path(), "err", err)
	} else if s.logger != nil {
		s.logger.Warning("%s %s: %v", c.Method(), c.Path(), err)
	}
	return c.Status(code).SendString(err.Error())
}

// errorLogger is implemented by loggers that report server failures apart
// from warnings.
type errorLogger interface {
	Error(msg string, keyvals ...any)
}
