package livereload

import (
	"net/http"
)

// Path is the websocket endpoint the client script connects to.
const Path = "/livereload"

const clientScript = `(function () {
  var scheme = location.protocol === "https:" ? "wss:" : "ws:";
  var retry = 500;
  function connect() {
    var ws = new WebSocket(scheme + "//" + location.host + "` + Path + `");
    ws.onopen = function () { retry = 500; };
    ws.onmessage = function (event) {
      try {
        if (JSON.parse(event.data).type === "reload") { location.reload(); }
      } catch (e) {}
    };
    ws.onclose = function () {
      setTimeout(connect, retry);
      retry = Math.min(retry * 2, 5000);
    };
  }
  connect();
})();
`

// ScriptHandler serves the browser side of live reload.
func ScriptHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/javascript; charset=utf-8")
		w.Header().Set("Cache-Control", "no-store")
		_, _ = w.Write([]byte(clientScript))
	})
}
