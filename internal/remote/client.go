package remote

import (
	"context"
	"path"
	"strings"

	"github.com/dmitrijs2005/talkpublisher/internal/logging"
)

// connState is the live session plus the Pending Command Marker: the last
// command that failed transiently and has not succeeded since.
type connState struct {
	transport Transport
	pending   string
}

// Client is the resilient list/retrieve facade over a Transport.
type Client struct {
	addr   string
	creds  Credentials
	dial   Dialer
	logger logging.Logger
	state  connState
}

// Dial opens and authenticates the first session.
func Dial(ctx context.Context, addr string, creds Credentials, dial Dialer, logger logging.Logger) (*Client, error) {
	c := &Client{
		addr:   addr,
		creds:  creds,
		dial:   dial,
		logger: logger.With("remote", addr),
	}
	if err := c.connect(ctx); err != nil {
		return nil, err
	}
	return c, nil
}

// List returns the base names of the entries directly under p.
func (c *Client) List(ctx context.Context, p string) ([]string, error) {
	var raw []string
	err := c.do(ctx, "list", p, "NLST "+p, func(t Transport) error {
		var err error
		raw, err = t.NameList(p)
		return err
	})
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(raw))
	for _, entry := range raw {
		name := path.Base(strings.TrimRight(entry, "/"))
		if name == "" || name == "." || name == ".." || name == "/" {
			continue
		}
		names = append(names, name)
	}
	return names, nil
}

// Retrieve returns the full content of the file at p.
func (c *Client) Retrieve(ctx context.Context, p string) ([]byte, error) {
	var data []byte
	err := c.do(ctx, "retrieve", p, "RETR "+p, func(t Transport) error {
		var err error
		data, err = t.Retrieve(p)
		return err
	})
	if err != nil {
		return nil, err
	}
	return data, nil
}

// Close ends the session. The client must not be used afterwards.
func (c *Client) Close() error {
	if c.state.transport == nil {
		return nil
	}
	c.logCmd(context.Background(), "QUIT")
	err := c.state.transport.Quit()
	c.state.transport = nil
	return err
}

// do is the single choke point every command goes through.
func (c *Client) do(ctx context.Context, op, p, cmd string, fn func(Transport) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	c.logCmd(ctx, cmd)
	last := c.state.pending

	err := c.send(fn)
	if err == nil {
		c.state.pending = ""
		c.logger.Debug(ctx, "command succeeded", "cmd", cmd)
		return nil
	}

	c.logger.Debug(ctx, "command failed", "cmd", cmd, "error", err)
	if Classify(err) != KindTransient {
		return newError(op, p, err)
	}
	if cmd == last {
		return newError(op, p, err)
	}

	c.logger.Warn(ctx, "command failed, reconnecting", "cmd", cmd, "error", err)
	if err := c.reconnect(ctx); err != nil {
		return err
	}
	c.state.pending = cmd

	c.logCmd(ctx, cmd)
	if err := c.send(fn); err != nil {
		c.logger.Debug(ctx, "command failed", "cmd", cmd, "error", err)
		return newError(op, p, err)
	}
	c.state.pending = ""
	c.logger.Debug(ctx, "command succeeded", "cmd", cmd)
	return nil
}

func (c *Client) send(fn func(Transport) error) error {
	if c.state.transport == nil {
		return errNoSession
	}
	return fn(c.state.transport)
}

func (c *Client) connect(ctx context.Context) error {
	t, err := c.dial(ctx, c.addr)
	if err != nil {
		return newError("connect", "", err)
	}

	user, password := c.creds.resolve()
	c.logCmd(ctx, "USER "+user)
	c.logCmd(ctx, "PASS "+password)
	if err := t.Login(user, password); err != nil {
		_ = t.Quit()
		return newError("login", "", err)
	}

	c.state.transport = t
	return nil
}

func (c *Client) reconnect(ctx context.Context) error {
	if c.state.transport != nil {
		// The old session is presumed dead; its QUIT result is irrelevant.
		_ = c.state.transport.Quit()
		c.state.transport = nil
	}
	if err := c.connect(ctx); err != nil {
		return &Error{Op: "reconnect", Kind: KindTransient, Err: err}
	}
	return nil
}

func (c *Client) logCmd(ctx context.Context, cmd string) {
	c.logger.Debug(ctx, "sendcmd", "cmd", redact(cmd))
}

func redact(cmd string) string {
	if strings.HasPrefix(strings.ToUpper(cmd), "PASS ") {
		return "PASS ******"
	}
	return cmd
}
