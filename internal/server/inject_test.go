package server

import (
	"strings"
	"testing"
)

func TestInjectLiveReloadBeforeBodyClose(t *testing.T) {
	html := []byte("<html><body><p>hi</p></body></html>")
	out := string(injectLiveReload(html, 3000))

	scriptIdx := strings.Index(out, "<script>")
	bodyIdx := strings.Index(out, "</body>")
	if scriptIdx == -1 || bodyIdx == -1 || scriptIdx > bodyIdx {
		t.Fatalf("script not injected before </body>: %q", out)
	}
	if !strings.Contains(out, ":3000/__trellis/ws") {
		t.Errorf("script does not target the server port: %q", out)
	}
	if !strings.Contains(out, "<p>hi</p>") {
		t.Errorf("original content lost: %q", out)
	}
}

func TestInjectLiveReloadNoBodyTag(t *testing.T) {
	out := string(injectLiveReload([]byte("<p>fragment</p>"), 8080))
	if !strings.HasPrefix(out, "<p>fragment</p>") {
		t.Fatalf("content not preserved: %q", out)
	}
	if !strings.Contains(out, ":8080/__trellis/ws") {
		t.Errorf("script missing: %q", out)
	}
}
