package presenter

import (
	"context"
	"fmt"
	"html/template"
	"io"
	"net/http"

	"github.com/gorilla/mux"

	"skirmish/server/fastview"
)

// Server serves a single status page and a websocket stream of
// BattleSnapshots for one in-progress battle, built on the generic
// fastview.client[T] publisher and a gorilla/mux router.
type Server struct {
	addr    string
	router  *mux.Router
	updates <-chan BattleSnapshot
}

// NewServer wires a status page at "/" and a websocket stream at "/ws".
// updates should receive one BattleSnapshot per Step(); Server does not
// drive the battle itself.
func NewServer(addr string, updates <-chan BattleSnapshot) *Server {
	s := &Server{addr: addr, router: mux.NewRouter(), updates: updates}
	s.router.HandleFunc("/", s.serveIndex).Methods(http.MethodGet)
	s.router.HandleFunc("/ws", s.serveWebsocket)
	return s
}

// Serve blocks, running the HTTP server until ctx is cancelled or an
// unrecoverable error occurs.
func (s *Server) Serve(ctx context.Context) error {
	srv := &http.Server{Addr: s.addr, Handler: s.router}
	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	select {
	case <-ctx.Done():
		return srv.Shutdown(context.Background())
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("presenter: serve: %w", err)
		}
		return nil
	}
}

func (s *Server) serveWebsocket(w http.ResponseWriter, r *http.Request) {
	cli, err := fastview.NewClient(s.updates, w, r)
	if err != nil {
		return
	}
	if err := cli.Sync(); err != nil {
		fmt.Println("presenter: client disconnected:", err)
	}
}

func (s *Server) serveIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html")
	if err := statusTemplate.Execute(w, nil); err != nil {
		_, _ = io.WriteString(w, err.Error())
	}
}

var statusTemplate = template.Must(template.New("status").Parse(`
<!DOCTYPE html>
<html>
<head><link rel="icon" href="data:,"></head>
<body>
<h1>Battle presenter</h1>
<pre id="log"></pre>
<script>
	const ws = new WebSocket("ws://" + location.host + "/ws");
	ws.onmessage = function(event) {
		const snapshot = JSON.parse(event.data);
		const pre = document.getElementById("log");
		for (const line of (snapshot.log || [])) {
			pre.textContent += line + "\n";
		}
	};
</script>
</body>
</html>
`))
