package webpage

import (
	"net/http"
	"strconv"
	"time"
)

// Context holds the data passed to a template. Values set by later merge
// layers win, but no key is ever dropped.
type Context map[string]any

// Reserved context keys injected during page rendering.
const (
	KeyRequest      = "request"
	KeyWebpage      = "webpage"
	KeyCSSTimestamp = "css_timestamp"
)

// Clone returns a shallow copy of the context. A nil context clones to an
// empty one so callers can merge into the result.
func (c Context) Clone() Context {
	out := make(Context, len(c))
	for k, v := range c {
		out[k] = v
	}
	return out
}

// Merge copies every key of src into c, overwriting existing keys.
func (c Context) Merge(src Context) {
	for k, v := range src {
		c[k] = v
	}
}

// cssTimestamp returns the current Unix time as a decimal string. Templates
// append it to static asset URLs as a cache-busting query parameter.
func cssTimestamp(now func() time.Time) string {
	return strconv.FormatInt(now().Unix(), 10)
}

// pageContext builds the template data for the page handler adapter.
// Order: handler context, then the injected request/webpage/css_timestamp
// keys, then the pre-context. The pre-context wins over everything.
func pageContext(ctx Context, r *http.Request, global, pre Context, now func() time.Time) Context {
	out := ctx.Clone()
	out[KeyRequest] = r
	out[KeyWebpage] = global
	out[KeyCSSTimestamp] = cssTimestamp(now)
	out.Merge(pre)
	return out
}

// directContext builds the template data for direct rendering.
// Order: caller context, injected request, pre-context, then the global
// context under "webpage". Unlike pageContext, the global context is merged
// last, so a pre-context "webpage" key cannot shadow it.
func directContext(ctx Context, r *http.Request, global, pre Context) Context {
	out := ctx.Clone()
	out[KeyRequest] = r
	out.Merge(pre)
	out[KeyWebpage] = global
	return out
}
