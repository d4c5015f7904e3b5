// deployhook is a small sidecar that listens for GitHub push webhooks and
// runs the deploy script when an allowed branch is pushed. It runs next to
// the tracking daemon and shares nothing with it.
package main

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/exec"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/rs/zerolog"
)

const maxPayloadSize = 5 << 20 // 5 MB

var allowedBranches = map[string]bool{
	"main":       true,
	"master":     true,
	"production": true,
}

type pushEvent struct {
	Ref        string `json:"ref"`
	Repository struct {
		FullName string `json:"full_name"`
	} `json:"repository"`
}

type hook struct {
	secret []byte
	script string
	logger zerolog.Logger
}

func (h *hook) verifySignature(body []byte, signature string) bool {
	const prefix = "sha256="
	if !strings.HasPrefix(signature, prefix) {
		return false
	}
	mac := hmac.New(sha256.New, h.secret)
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature[len(prefix):]))
}

func (h *hook) handle(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxPayloadSize))
	if err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	if !h.verifySignature(body, r.Header.Get("X-Hub-Signature-256")) {
		h.logger.Warn().Str("ip", r.RemoteAddr).Msg("invalid webhook signature")
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}

	if event := r.Header.Get("X-GitHub-Event"); event != "push" {
		w.WriteHeader(http.StatusAccepted)
		fmt.Fprintf(w, "ignoring %s event", event)
		return
	}

	var payload pushEvent
	if err := json.Unmarshal(body, &payload); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	branch := strings.TrimPrefix(payload.Ref, "refs/heads/")
	if !allowedBranches[branch] {
		h.logger.Info().Str("branch", branch).Msg("push to unmonitored branch ignored")
		w.WriteHeader(http.StatusAccepted)
		return
	}

	h.logger.Info().
		Str("repo", payload.Repository.FullName).
		Str("branch", branch).
		Msg("deploy triggered")

	go func() {
		cmd := exec.Command("/bin/sh", h.script, branch)
		out, err := cmd.CombinedOutput()
		if err != nil {
			h.logger.Error().Err(err).Str("output", string(out)).Msg("deploy failed")
			return
		}
		h.logger.Info().Msg("deploy finished")
	}()

	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func main() {
	secret := os.Getenv("DEPLOYHOOK_SECRET")
	if secret == "" {
		fmt.Fprintln(os.Stderr, "DEPLOYHOOK_SECRET is required")
		os.Exit(1)
	}

	h := &hook{
		secret: []byte(secret),
		script: envOr("DEPLOYHOOK_SCRIPT", "./deploy.sh"),
		logger: zerolog.New(os.Stdout).With().Timestamp().Logger(),
	}

	addr := envOr("DEPLOYHOOK_ADDR", ":9000")
	http.HandleFunc("/deploy", h.handle)
	h.logger.Info().Str("addr", addr).Msg("deploy hook listening")
	if err := http.ListenAndServe(addr, nil); err != nil {
		h.logger.Fatal().Err(err).Msg("server stopped")
	}
}
