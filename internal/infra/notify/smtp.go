package notify

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/smtp"
	"strings"
	"time"

	domorder "example.com/food-storefront/internal/domain/order"
)

// DefaultSendTimeout bounds a mail delivery when the caller's context carries
// no deadline of its own.
const DefaultSendTimeout = 10 * time.Second

type sendFunc func(ctx context.Context, addr, from string, to []string, msg []byte) error

// Mailer emails the kitchen a short summary of every new order.
type Mailer struct {
	addr    string
	from    string
	to      []string
	timeout time.Duration
	send    sendFunc
}

func NewMailer(addr, from string, to []string) *Mailer {
	return &Mailer{addr: addr, from: from, to: to, timeout: DefaultSendTimeout, send: sendMail}
}

// OrderPlaced returns once the mail is delivered or ctx is done, whichever
// comes first.
func (m *Mailer) OrderPlaced(ctx context.Context, o *domorder.Order) error {
	if _, ok := ctx.Deadline(); !ok && m.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.timeout)
		defer cancel()
	}

	errCh := make(chan error, 1)
	msg := m.message(o)
	go func() { errCh <- m.send(ctx, m.addr, m.from, m.to, msg) }()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("send order mail: %w", err)
		}
		return nil
	case <-ctx.Done():
		return fmt.Errorf("send order mail: %w", ctx.Err())
	}
}

// sendMail follows smtp.SendMail but dials through ctx and drops the
// connection when ctx ends.
func sendMail(ctx context.Context, addr, from string, to []string, msg []byte) error {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return err
	}
	stop := context.AfterFunc(ctx, func() { _ = conn.Close() })
	defer stop()
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		_ = conn.Close()
		return err
	}
	c, err := smtp.NewClient(conn, host)
	if err != nil {
		_ = conn.Close()
		return err
	}
	defer c.Close()

	if ok, _ := c.Extension("STARTTLS"); ok {
		if err := c.StartTLS(&tls.Config{ServerName: host}); err != nil {
			return err
		}
	}
	if err := c.Mail(from); err != nil {
		return err
	}
	for _, rcpt := range to {
		if err := c.Rcpt(rcpt); err != nil {
			return err
		}
	}
	w, err := c.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write(msg); err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}
	return c.Quit()
}

func (m *Mailer) message(o *domorder.Order) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "To: %s\r\n", strings.Join(m.to, ", "))
	fmt.Fprintf(&b, "From: %s\r\n", m.from)
	fmt.Fprintf(&b, "Subject: New order #%s\r\n", o.ShortID())
	b.WriteString("\r\n")
	for _, it := range o.Items {
		fmt.Fprintf(&b, "%d x %s  %s\r\n", it.Quantity, it.Name, it.Total().StringFixed(2))
	}
	fmt.Fprintf(&b, "Subtotal: %s\r\n", o.Subtotal.StringFixed(2))
	fmt.Fprintf(&b, "Delivery: %s\r\n", o.DeliveryFee.StringFixed(2))
	fmt.Fprintf(&b, "Total: %s\r\n", o.TotalAmount.StringFixed(2))
	fmt.Fprintf(&b, "Deliver to: %s\r\n", o.DeliveryAddress)
	return []byte(b.String())
}
