// Package devserver serves the build output directory locally, watches the
// source tree for changes, and pushes reload messages to connected browsers.
package devserver

import (
	"fmt"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"sync"
	"time"

	"github.com/fatih/color"
	"github.com/fsnotify/fsnotify"
	"github.com/gorilla/websocket"
)

// ReloadPath is the websocket endpoint the injected page snippet connects to.
const ReloadPath = "/.stage/reload"

// ReloadJS is the client snippet injected into the served page. It reconnects
// after the server restarts so a dev-server bounce also reloads the page.
const ReloadJS = `(function () {
    function connect() {
        var ws = new WebSocket("ws://" + location.host + "` + ReloadPath + `");
        ws.onmessage = function () { location.reload(); };
        ws.onclose = function () { setTimeout(connect, 1000); };
    }
    connect();
})();`

// Server serves OutDir over HTTP and rebuilds on source changes.
// Rebuild is invoked from the watcher goroutine; on success every connected
// reload client is notified.
type Server struct {
	SourceDir string
	OutDir    string
	Port      string
	Reload    bool
	Open      bool
	Rebuild   func() error

	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[*websocket.Conn]bool
}

// New returns a Server with an initialized client set.
func New(sourceDir, outDir, port string) *Server {
	return &Server{
		SourceDir: sourceDir,
		OutDir:    outDir,
		Port:      port,
		clients:   make(map[*websocket.Conn]bool),
	}
}

// Handler builds the HTTP handler: static files from OutDir plus the reload
// websocket endpoint.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	if s.Reload {
		mux.HandleFunc(ReloadPath, s.handleReload)
	}
	mux.Handle("/", http.FileServer(http.Dir(s.OutDir)))
	return mux
}

// ListenAndServe starts the watcher (when a Rebuild hook is set) and blocks
// serving HTTP. Port-in-use and similar failures surface verbatim from
// net/http.
func (s *Server) ListenAndServe() error {
	if s.Rebuild != nil {
		watcher, err := s.StartWatcher()
		if err != nil {
			return err
		}
		defer func() { _ = watcher.Close() }()
	}

	url := "http://localhost:" + s.Port + "/"
	color.New(color.FgGreen).Printf("Serving %s at %s\n", s.OutDir, url)
	if s.Open {
		if err := openBrowser(url); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: could not open browser: %v\n", err)
		}
	}
	return http.ListenAndServe(":"+s.Port, s.Handler())
}

func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	s.mu.Lock()
	s.clients[conn] = true
	s.mu.Unlock()

	// Drain the connection so close frames are processed; the server never
	// reads application messages from the page.
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				s.mu.Lock()
				delete(s.clients, conn)
				s.mu.Unlock()
				_ = conn.Close()
				return
			}
		}
	}()
}

// Broadcast sends a reload message to every connected client.
func (s *Server) Broadcast() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for conn := range s.clients {
		if err := conn.WriteMessage(websocket.TextMessage, []byte("reload")); err != nil {
			delete(s.clients, conn)
			_ = conn.Close()
		}
	}
}

// ClientCount reports the number of connected reload clients.
func (s *Server) ClientCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.clients)
}

// StartWatcher watches SourceDir recursively and debounces change bursts into
// a single rebuild. Failed rebuilds keep the previous output in place.
// ListenAndServe calls this; it is exported so the watcher can run without
// the HTTP server.
func (s *Server) StartWatcher() (*fsnotify.Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}
	if err := addRecursive(watcher, s.SourceDir); err != nil {
		_ = watcher.Close()
		return nil, err
	}

	go func() {
		var timer *time.Timer
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				// New directories must be watched too.
				if event.Has(fsnotify.Create) {
					if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
						_ = addRecursive(watcher, event.Name)
					}
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
					continue
				}
				if timer != nil {
					timer.Stop()
				}
				timer = time.AfterFunc(100*time.Millisecond, func() {
					if err := s.Rebuild(); err != nil {
						color.New(color.FgRed).Fprintf(os.Stderr, "Build failed: %v\n", err)
						return
					}
					fmt.Println("Rebuilt.")
					if s.Reload {
						s.Broadcast()
					}
				})
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				fmt.Fprintf(os.Stderr, "Watcher error: %v\n", err)
			}
		}
	}()
	return watcher, nil
}

func addRecursive(watcher *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if err := watcher.Add(path); err != nil {
				return fmt.Errorf("watching %s: %w", path, err)
			}
		}
		return nil
	})
}

func openBrowser(url string) error {
	switch runtime.GOOS {
	case "darwin":
		return exec.Command("open", url).Start()
	case "windows":
		return exec.Command("rundll32", "url.dll,FileProtocolHandler", url).Start()
	default:
		return exec.Command("xdg-open", url).Start()
	}
}
