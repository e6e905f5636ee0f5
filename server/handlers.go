package server

import (
	"net/http"

	"github.com/jrsteele09/go-auth-client/deeplink"
	"github.com/jrsteele09/go-auth-client/navigation"
)

// fragmentForwarderPage reposts URL fragment parameters as a query string.
// The provider delivers direct token pairs in the fragment, which the browser
// never sends to the server; this page bounces them back as a query so the
// handler sees them on the second request.
const fragmentForwarderPage = `<!DOCTYPE html>
<html>
<head><title>Completing...</title></head>
<body>
<p>Completing...</p>
<script>
  var h = window.location.hash;
  if (h && h.length > 1) {
    var sep = window.location.search ? "&" : "?";
    window.location.replace(window.location.pathname + window.location.search + sep + h.substring(1));
  }
</script>
</body>
</html>`

const closePage = `<!DOCTYPE html>
<html>
<head><title>Done</title></head>
<body><p>You can close this window and return to the app.</p></body>
</html>`

// redirectHandler receives the OAuth return redirect and points the app at
// the redirect receiver screen.
func (l *Listener) redirectHandler(w http.ResponseWriter, r *http.Request) {
	l.handleDeepLink(w, r, navigation.RouteRedirect)
}

// resetHandler receives the password-recovery link and points the app at the
// reset landing screen.
func (l *Listener) resetHandler(w http.ResponseWriter, r *http.Request) {
	l.handleDeepLink(w, r, navigation.RouteReset)
}

func (l *Listener) handleDeepLink(w http.ResponseWriter, r *http.Request, route string) {
	params, err := deeplink.Parse(r.URL.String())
	if err != nil {
		l.log.Warn().Err(err).Msg("unparseable redirect URL")
		http.Error(w, "bad redirect", http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	if params.IsEmpty() {
		// The interesting parameters may still be hiding in the fragment.
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(fragmentForwarderPage))
		return
	}

	l.log.Debug().Str("route", route).Msg("deep link received")
	l.router.Replace(route, params.Values())

	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(closePage))
}
