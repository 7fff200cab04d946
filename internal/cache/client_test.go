package cache

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/leonardcser/motorsport-web/internal/config"
)

func TestClient_AgainstDaemon(t *testing.T) {
	// Unix socket paths are length-limited; keep the directory short.
	dir, err := os.MkdirTemp("", "msc")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.RemoveAll(dir) })
	sock := filepath.Join(dir, "c.sock")

	l, err := Listen(sock)
	if err != nil {
		t.Fatalf("Listen: %v", err)
	}
	backing := NewMemory(Options{})
	done := make(chan error, 1)
	go func() { done <- Serve(l, backing) }()
	t.Cleanup(func() {
		_ = l.Close()
		<-done
	})

	kv, err := Connect(sock)
	if err != nil {
		t.Fatalf("Connect: %v", err)
	}
	if _, err := kv.Get("k"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get missing: %v, want ErrNotFound", err)
	}
	if err := kv.Put("k", []byte("v"), time.Minute); err != nil {
		t.Fatalf("Put: %v", err)
	}
	got, err := kv.Get("k")
	if err != nil || string(got) != "v" {
		t.Fatalf("Get = %q, %v", got, err)
	}
	if err := kv.Delete("k"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if backing.size() != 0 {
		t.Errorf("backing store still holds %d keys", backing.size())
	}
}

func TestDispatch_UnknownOp(t *testing.T) {
	resp := dispatch(NewMemory(Options{}), Request{Op: "flush"})
	if resp.OK || resp.Error != "unknown op" {
		t.Fatalf("resp = %+v", resp)
	}
}

func TestConnect_NoDaemon(t *testing.T) {
	if _, err := Connect(filepath.Join(t.TempDir(), "none.sock")); err == nil {
		t.Fatal("expected dial error")
	}
}

func TestDaemonCommand_ForwardsConfigAndSocket(t *testing.T) {
	t.Setenv(config.EnvCacheSock, "/tmp/other.sock")
	cmd := daemonCommand("/opt/bin/motorsport-cache", "site.yaml", "/tmp/a.sock")

	abs, err := filepath.Abs("site.yaml")
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"/opt/bin/motorsport-cache", "-config", abs}
	if !slices.Equal(cmd.Args, want) {
		t.Errorf("args = %q, want %q", cmd.Args, want)
	}
	// The last assignment wins when the child reads its environment.
	var sock string
	for _, kv := range cmd.Env {
		if v, ok := strings.CutPrefix(kv, config.EnvCacheSock+"="); ok {
			sock = v
		}
	}
	if sock != "/tmp/a.sock" {
		t.Errorf("%s = %q, want /tmp/a.sock", config.EnvCacheSock, sock)
	}
}

func TestDaemonCommand_NoConfigPath(t *testing.T) {
	cmd := daemonCommand("motorsport-cache", "", "/tmp/a.sock")
	if len(cmd.Args) != 1 {
		t.Errorf("args = %q, want no flags", cmd.Args)
	}
}
