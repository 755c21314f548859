package e2e

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

const (
	TEST_SERVER_READY_TIMEOUT = 15 * time.Second
	TEST_REPLY_TIMEOUT        = "5s"
)

func binPath(t *testing.T) string {
	t.Helper()
	// Allow overriding bin dir via env var, default to ../../bin (relative to tests/e2e)
	binDir := os.Getenv("COMPANION_BIN_DIR")
	if binDir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			t.Fatalf("Failed to get cwd: %v", err)
		}
		binDir = filepath.Join(cwd, "..", "..", "bin")
	}
	binDir, _ = filepath.Abs(binDir)

	cliPath := filepath.Join(binDir, "companion")
	if _, err := os.Stat(cliPath); os.IsNotExist(err) {
		t.Skipf("CLI binary not found at %s. Build it with 'go build -o bin/companion ./cmd/companion' first.", cliPath)
	}
	return cliPath
}

// isolatedEnv points HOME, XDG dirs and the store at tempDir.
func isolatedEnv(tempDir, storePath string, extra ...string) []string {
	var env []string
	for _, e := range os.Environ() {
		if strings.HasPrefix(e, "HOME=") || strings.HasPrefix(e, "XDG_CONFIG_HOME=") || strings.HasPrefix(e, "COMPANION_") {
			continue
		}
		env = append(env, e)
	}
	env = append(env,
		fmt.Sprintf("HOME=%s", tempDir),
		fmt.Sprintf("XDG_CONFIG_HOME=%s", tempDir),
		fmt.Sprintf("COMPANION_CONFIG=%s", storePath),
	)
	return append(env, extra...)
}

// fakeOpenRouter answers chat completions. Requests whose first message asks
// for quick replies get a JSON array.
func fakeOpenRouter(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			http.NotFound(w, r)
			return
		}
		body, _ := io.ReadAll(r.Body)
		content := "Hello from the fake model! 🌟"
		if strings.Contains(string(body), "JSON array") {
			content = `["Tell me more", "Thanks!", "What's next?"]`
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"choices":[{"message":{"role":"assistant","content":%q}}]}`, content)
	}))
}

func TestEndToEndWorkflow(t *testing.T) {
	cliPath := binPath(t)
	tempDir := t.TempDir()
	storePath := filepath.Join(tempDir, "companion", "companion.db")

	ai := fakeOpenRouter(t)
	defer ai.Close()

	env := isolatedEnv(tempDir, storePath,
		"COMPANION_API_KEY=sk-or-e2e",
	)
	chatArgs := []string{"--base-url", ai.URL, "--provider", "openrouter", "--reply-timeout", TEST_REPLY_TIMEOUT}

	// 1. Initialize
	t.Log("Initializing store...")
	runCmd(t, cliPath, env, "init")
	if _, err := os.Stat(storePath); err != nil {
		t.Fatalf("store not created: %v", err)
	}

	// 2. Chat through the fake model
	t.Log("Sending a message...")
	out := runCmd(t, cliPath, env, append(chatArgs, "send", "hello", "there")...)
	if !strings.Contains(out, "fake model") {
		t.Errorf("expected the fake model's reply, got:\n%s", out)
	}

	// 3. Slash commands stay local
	out = runCmd(t, cliPath, env, append(chatArgs, "send", "/help")...)
	if !strings.Contains(out, "/mood") {
		t.Errorf("expected the command list, got:\n%s", out)
	}

	// 4. Progress reflects two turns
	var stats struct {
		XP            int `json:"xp"`
		Level         int `json:"level"`
		CurrentStreak int `json:"currentStreak"`
		TotalMessages int `json:"totalMessages"`
	}
	decode(t, runCmd(t, cliPath, env, "stats", "--json"), &stats)
	if stats.TotalMessages != 2 || stats.XP < 20 || stats.CurrentStreak != 1 {
		t.Errorf("unexpected stats after two turns: %+v", stats)
	}

	// 5. Complete today's challenge, twice
	runCmd(t, cliPath, env, "challenge", "complete")
	var afterChallenge struct {
		XP int `json:"xp"`
	}
	decode(t, runCmd(t, cliPath, env, "stats", "--json"), &afterChallenge)
	if afterChallenge.XP <= stats.XP {
		t.Errorf("expected challenge xp, still at %d", afterChallenge.XP)
	}
	runCmd(t, cliPath, env, "challenge", "complete")
	var again struct {
		XP int `json:"xp"`
	}
	decode(t, runCmd(t, cliPath, env, "stats", "--json"), &again)
	if again.XP != afterChallenge.XP {
		t.Errorf("second completion changed xp: %d -> %d", afterChallenge.XP, again.XP)
	}

	// 6. History and reactions
	runCmd(t, cliPath, env, "react", "last", "❤️")
	var history []struct {
		Role      string   `json:"role"`
		Reactions []string `json:"reactions"`
	}
	decode(t, runCmd(t, cliPath, env, "history", "--json", "-n", "0"), &history)
	// welcome + two turns
	if len(history) != 5 {
		t.Fatalf("expected 5 messages, got %d", len(history))
	}
	if last := history[len(history)-1]; last.Role != "assistant" || len(last.Reactions) != 1 {
		t.Errorf("expected a reaction on the last reply, got %+v", last)
	}

	// 7. Backups and diagnostics
	runCmd(t, cliPath, env, "backup", "create")
	out = runCmd(t, cliPath, env, "backup", "list")
	if !strings.Contains(out, "companion-") {
		t.Errorf("expected a backup in the list, got:\n%s", out)
	}
	runCmd(t, cliPath, env, "doctor")
}

func TestServeWorkflow(t *testing.T) {
	cliPath := binPath(t)
	tempDir := t.TempDir()
	storePath := filepath.Join(tempDir, "companion.json")
	env := isolatedEnv(tempDir, storePath)

	runCmd(t, cliPath, env, "init")

	addr := freeAddr(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	serveCmd := exec.CommandContext(ctx, cliPath, "--provider", "local", "serve", "--addr", addr)
	serveCmd.Env = env
	var output strings.Builder
	serveCmd.Stdout = &output
	serveCmd.Stderr = &output
	if err := serveCmd.Start(); err != nil {
		t.Fatalf("Failed to start server: %v", err)
	}
	defer func() {
		cancel()
		_ = serveCmd.Wait()
		if t.Failed() {
			t.Logf("Server output: %s", output.String())
		}
	}()

	base := "http://" + addr
	waitForHealth(t, base+"/health", TEST_SERVER_READY_TIMEOUT)

	resp, err := http.Post(base+"/api/session", "application/json", nil)
	if err != nil {
		t.Fatalf("session request failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("session status = %d", resp.StatusCode)
	}

	resp, err = http.Post(base+"/api/messages", "application/json", strings.NewReader(`{"content":"/fortune"}`))
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("submit status = %d", resp.StatusCode)
	}
	var turn struct {
		After struct {
			XP int `json:"xp"`
		} `json:"after"`
		Source string `json:"source"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&turn); err != nil {
		t.Fatalf("failed to decode turn: %v", err)
	}
	if turn.After.XP < 10 {
		t.Errorf("expected at least 10 xp after one turn, got %d", turn.After.XP)
	}
}

func runCmd(t *testing.T, path string, env []string, args ...string) string {
	t.Helper()
	cmd := exec.Command(path, args...)
	cmd.Env = env
	out, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("Command %s %v failed: %v\nOutput: %s", path, args, err, out)
	}
	return string(out)
}

func decode(t *testing.T, out string, v any) {
	t.Helper()
	if err := json.Unmarshal([]byte(out), v); err != nil {
		t.Fatalf("failed to decode %q: %v", out, err)
	}
}

func freeAddr(t *testing.T) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("Failed to find a free port: %v", err)
	}
	defer ln.Close()
	return ln.Addr().String()
}

func waitForHealth(t *testing.T, url string, timeout time.Duration) {
	t.Helper()
	start := time.Now()
	for {
		resp, err := http.Get(url)
		if err == nil {
			resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return
			}
		}
		if time.Since(start) > timeout {
			t.Fatalf("Timed out waiting for %s", url)
		}
		time.Sleep(100 * time.Millisecond)
	}
}
