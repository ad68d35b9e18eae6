package http

import (
	"fmt"
	"io"
	"net/http"
)

const fallbackErrorHTML = `<html>
<head><title>%d %s</title></head>
<body>
<center><h1>%d %s</h1></center>
<hr><center>webpage</center>
</body>
</html>`

// writeFallbackErrorPage is the last resort when the configured error
// template itself fails to render. It must never fail.
func writeFallbackErrorPage(w http.ResponseWriter, status int) {
	text := http.StatusText(status)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, fmt.Sprintf(fallbackErrorHTML, status, text, status, text))
}
