package cache

import (
	"encoding/json"
	"errors"
	"net"
	"time"
)

// Client implements KV over a Unix socket.
type Client struct {
	socketPath  string
	dialTimeout time.Duration
}

func NewClient(socketPath string) *Client {
	return &Client{socketPath: socketPath, dialTimeout: 500 * time.Millisecond}
}

func (c *Client) roundTrip(req Request) (Response, error) {
	var resp Response
	conn, err := net.DialTimeout("unix", c.socketPath, c.dialTimeout)
	if err != nil {
		return resp, err
	}
	defer conn.Close()
	_ = conn.SetDeadline(time.Now().Add(2 * time.Second))
	if err := json.NewEncoder(conn).Encode(&req); err != nil {
		return resp, err
	}
	if err := json.NewDecoder(conn).Decode(&resp); err != nil {
		return resp, err
	}
	if !resp.OK {
		return resp, remoteError(resp.Error)
	}
	return resp, nil
}

func (c *Client) Get(key string) ([]byte, error) {
	resp, err := c.roundTrip(Request{Op: OpGet, Key: key})
	if err != nil {
		return nil, err
	}
	return append([]byte(nil), resp.Value...), nil
}

func (c *Client) Put(key string, value []byte, ttl time.Duration) error {
	_, err := c.roundTrip(Request{Op: OpPut, Key: key, Value: value, TTLMilli: ttl.Milliseconds()})
	return err
}

func (c *Client) Delete(key string) error {
	_, err := c.roundTrip(Request{Op: OpDelete, Key: key})
	return err
}

// remoteError maps daemon error strings back onto the package sentinels.
func remoteError(msg string) error {
	switch msg {
	case ErrNotFound.Error():
		return ErrNotFound
	case ErrExpired.Error():
		return ErrExpired
	}
	return errors.New(msg)
}
