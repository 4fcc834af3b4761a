package remote

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/textproto"
	"time"

	"github.com/jlaffaye/ftp"
)

const defaultFTPPort = "21"

// FTPTransport is a Transport over a single FTP control connection.
type FTPTransport struct {
	conn *ftp.ServerConn
}

// NewFTPDialer returns a Dialer that connects with the given timeout. A
// host without a port gets the standard FTP port.
func NewFTPDialer(timeout time.Duration) Dialer {
	return func(ctx context.Context, addr string) (Transport, error) {
		conn, err := ftp.Dial(withDefaultPort(addr),
			ftp.DialWithContext(ctx),
			ftp.DialWithTimeout(timeout),
		)
		if err != nil {
			return nil, err
		}
		return &FTPTransport{conn: conn}, nil
	}
}

func (t *FTPTransport) Login(user, password string) error {
	return t.conn.Login(user, password)
}

// NameList lists path. An empty answer is only trusted once the directory
// is known to exist: some servers reply to NLST on a missing path with an
// empty 226 instead of a 550.
func (t *FTPTransport) NameList(path string) ([]string, error) {
	entries, err := t.conn.NameList(path)
	if err != nil || len(entries) > 0 {
		return entries, err
	}
	if err := t.ensureDir(path); err != nil {
		return nil, err
	}
	return []string{}, nil
}

// ensureDir changes into path and back. A missing path fails with the
// server's 5xx reply.
func (t *FTPTransport) ensureDir(path string) error {
	cwd, err := t.conn.CurrentDir()
	if err != nil {
		return err
	}
	if err := t.conn.ChangeDir(path); err != nil {
		var tpErr *textproto.Error
		if errors.As(err, &tpErr) && tpErr.Code >= 500 {
			return &textproto.Error{Code: tpErr.Code, Msg: fmt.Sprintf("%s: %s", path, tpErr.Msg)}
		}
		return err
	}
	return t.conn.ChangeDir(cwd)
}

func (t *FTPTransport) Retrieve(path string) ([]byte, error) {
	r, err := t.conn.Retr(path)
	if err != nil {
		return nil, err
	}

	data, err := io.ReadAll(r)
	// Close reads the transfer-complete reply, which can carry the real error.
	cerr := r.Close()
	if err != nil {
		return nil, err
	}
	if cerr != nil {
		return nil, cerr
	}
	return data, nil
}

func (t *FTPTransport) Quit() error {
	return t.conn.Quit()
}

func withDefaultPort(addr string) string {
	if _, _, err := net.SplitHostPort(addr); err == nil {
		return addr
	}
	return net.JoinHostPort(addr, defaultFTPPort)
}
