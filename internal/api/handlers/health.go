package handlers

import (
	"net/http"
	"strings"
)

var healthMethods = []string{http.MethodGet, http.MethodHead}

// Health reports liveness. Dependencies are not checked.
func Health(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", strings.Join(healthMethods, ", "))
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	writeJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}
