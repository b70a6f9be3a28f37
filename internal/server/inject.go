package server

import (
	"bytes"
	"fmt"
)

// liveReloadScript reconnects on close so a server restart picks the
// browser back up. The %d is the WebSocket port.
const liveReloadScript = `<script>
(function() {
  var url = "ws://" + location.hostname + ":%d/__trellis/ws";
  var ws;
  function connect() {
    ws = new WebSocket(url);
    ws.onmessage = function(e) {
      if (e.data === "reload") {
        location.reload();
      }
    };
    ws.onclose = function() {
      setTimeout(connect, 1000);
    };
  }
  connect();
})();
</script>`

// injectLiveReload inserts the reload script into an HTML document,
// immediately before </body> when present, appended otherwise.
func injectLiveReload(html []byte, port int) []byte {
	script := fmt.Appendf(nil, liveReloadScript, port)

	idx := bytes.LastIndex(html, []byte("</body>"))
	if idx == -1 {
		return append(html, script...)
	}

	out := make([]byte, 0, len(html)+len(script))
	out = append(out, html[:idx]...)
	out = append(out, script...)
	out = append(out, html[idx:]...)
	return out
}
