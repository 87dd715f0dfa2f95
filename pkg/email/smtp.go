package email

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net"
	"net/smtp"
	"strconv"
	"time"

	"gopkg.in/gomail.v2"
)

// implicitTLSPort is the SMTPS port; every other port upgrades with STARTTLS.
const implicitTLSPort = 465

// relayConn is one authenticated SMTP session. Every read and write on it
// fails once the deadline passes, so a stalled relay cannot outlive the
// timeout and a message cut off mid-DATA is never terminated.
type relayConn struct {
	conn   net.Conn
	client *smtp.Client
}

// dialRelay connects, upgrades to TLS and authenticates, all under deadline.
func dialRelay(ctx context.Context, host string, port int, username, password string, deadline time.Time) (gomail.SendCloser, error) {
	addr := net.JoinHostPort(host, strconv.Itoa(port))
	netDialer := &net.Dialer{Deadline: deadline}
	tlsConfig := &tls.Config{ServerName: host, MinVersion: tls.VersionTLS12}

	var conn net.Conn
	var err error
	if port == implicitTLSPort {
		conn, err = (&tls.Dialer{NetDialer: netDialer, Config: tlsConfig}).DialContext(ctx, "tcp", addr)
	} else {
		conn, err = netDialer.DialContext(ctx, "tcp", addr)
	}
	if err != nil {
		return nil, err
	}
	if err := conn.SetDeadline(deadline); err != nil {
		conn.Close()
		return nil, err
	}

	client, err := smtp.NewClient(conn, host)
	if err != nil {
		conn.Close()
		return nil, err
	}

	if port != implicitTLSPort {
		if ok, _ := client.Extension("STARTTLS"); ok {
			if err := client.StartTLS(tlsConfig); err != nil {
				client.Close()
				return nil, err
			}
		}
	}

	if username != "" {
		if ok, _ := client.Extension("AUTH"); ok {
			if err := client.Auth(smtp.PlainAuth("", username, password, host)); err != nil {
				client.Close()
				return nil, fmt.Errorf("smtp auth: %w", err)
			}
		}
	}

	return &relayConn{conn: conn, client: client}, nil
}

func (r *relayConn) Send(from string, to []string, msg io.WriterTo) error {
	if err := r.client.Mail(from); err != nil {
		return err
	}
	for _, addr := range to {
		if err := r.client.Rcpt(addr); err != nil {
			return err
		}
	}

	w, err := r.client.Data()
	if err != nil {
		return err
	}
	if _, err := msg.WriteTo(w); err != nil {
		// Dropping the connection without the final "." abandons the message.
		r.conn.Close()
		return err
	}
	return w.Close()
}

func (r *relayConn) Close() error {
	if err := r.client.Quit(); err != nil {
		r.client.Close()
		return err
	}
	return nil
}
