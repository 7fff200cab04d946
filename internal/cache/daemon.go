package cache

import (
	"encoding/json"
	"errors"
	"net"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/leonardcser/motorsport-web/internal/config"
	"github.com/leonardcser/motorsport-web/internal/logger"
)

// DaemonBinary is the executable name of cmd/motorsport-cache.
const DaemonBinary = "motorsport-cache"

// Serve answers cache requests on l until it is closed.
func Serve(l net.Listener, kv KV) error {
	for {
		conn, err := l.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			logger.Warnf("cache daemon accept: %v", err)
			continue
		}
		go handleConn(conn, kv)
	}
}

func handleConn(conn net.Conn, kv KV) {
	defer conn.Close()
	dec := json.NewDecoder(conn)
	enc := json.NewEncoder(conn)
	for {
		var req Request
		if err := dec.Decode(&req); err != nil {
			return
		}
		_ = enc.Encode(dispatch(kv, req))
	}
}

func dispatch(kv KV, req Request) Response {
	switch req.Op {
	case OpGet:
		v, err := kv.Get(req.Key)
		if err != nil {
			return Response{Error: err.Error()}
		}
		return Response{OK: true, Value: v}
	case OpPut:
		if err := kv.Put(req.Key, req.Value, time.Duration(req.TTLMilli)*time.Millisecond); err != nil {
			return Response{Error: err.Error()}
		}
		return Response{OK: true}
	case OpDelete:
		if err := kv.Delete(req.Key); err != nil {
			return Response{Error: err.Error()}
		}
		return Response{OK: true}
	default:
		return Response{Error: "unknown op"}
	}
}

// Listen removes a stale socket at path and listens on it with owner-only
// permissions.
func Listen(path string) (net.Listener, error) {
	_ = os.MkdirAll(filepath.Dir(path), 0o755)
	_ = os.Remove(path)
	l, err := net.Listen("unix", path)
	if err != nil {
		return nil, err
	}
	_ = os.Chmod(path, 0o600)
	return l, nil
}

// Connect probes the daemon socket and returns a client for it.
func Connect(sock string) (KV, error) {
	conn, err := net.DialTimeout("unix", sock, 200*time.Millisecond)
	if err != nil {
		return nil, err
	}
	_ = conn.Close()
	return NewClient(sock), nil
}

// ConnectOrSpawn connects to the daemon, starting it first if needed with
// the same config file and socket. When the daemon cannot be reached within
// wait, an in-memory store is returned together with the last connection
// error.
func ConnectOrSpawn(sock, configPath string, wait, defaultTTL time.Duration) (KV, error) {
	kv, err := Connect(sock)
	if err == nil {
		return kv, nil
	}
	logger.Warnf("Failed to connect to cache daemon: %v, attempting to start daemon", err)
	if startErr := StartDaemon(configPath, sock); startErr != nil {
		logger.Errorf("Failed to start cache daemon: %v", startErr)
	} else {
		logger.Infof("Cache daemon started")
	}
	deadline := time.Now().Add(wait)
	for time.Now().Before(deadline) {
		if kv, err = Connect(sock); err == nil {
			return kv, nil
		}
		time.Sleep(200 * time.Millisecond)
	}
	logger.Warnf("Cache daemon unavailable, using in-memory cache: %v", err)
	return NewMemory(Options{DefaultTTL: defaultTTL}), err
}

// StartDaemon launches the cache daemon found next to the running
// executable, on PATH, or in the working directory.
func StartDaemon(configPath, sock string) error {
	bin := findDaemon()
	if bin == "" {
		return exec.ErrNotFound
	}
	return daemonCommand(bin, configPath, sock).Start()
}

func findDaemon() string {
	var candidates []string
	if exePath, err := os.Executable(); err == nil {
		candidates = append(candidates, filepath.Join(filepath.Dir(exePath), DaemonBinary))
	}
	if path, err := exec.LookPath(DaemonBinary); err == nil {
		candidates = append(candidates, path)
	}
	candidates = append(candidates, "./"+DaemonBinary)

	for _, bin := range candidates {
		if _, err := os.Stat(bin); err == nil {
			return bin
		}
	}
	return ""
}

// daemonCommand builds the child process: the parent's config file, made
// absolute, and its socket, which wins over any environment override.
func daemonCommand(bin, configPath, sock string) *exec.Cmd {
	var args []string
	if configPath != "" {
		if abs, err := filepath.Abs(configPath); err == nil {
			configPath = abs
		}
		args = append(args, "-config", configPath)
	}
	cmd := exec.Command(bin, args...)
	cmd.Env = append(os.Environ(), config.EnvCacheSock+"="+sock)
	return cmd
}
