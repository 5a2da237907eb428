// Package notify raises desktop notifications over the session bus.
package notify

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/godbus/dbus/v5"

	"github.com/rbright/waybar-harvester/internal/harvester"
)

const (
	busName    = "org.freedesktop.Notifications"
	objectPath = dbus.ObjectPath("/org/freedesktop/Notifications")
	method     = busName + ".Notify"
	appName    = "Waybar Harvester"
)

type Notification struct {
	Summary string
	Body    string
	Icon    string
	Timeout time.Duration
}

type Sender interface {
	Send(ctx context.Context, n Notification) error
}

type Client struct {
	conn *dbus.Conn
}

func New(ctx context.Context) (*Client, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return nil, fmt.Errorf("connect session bus: %w", err)
	}
	return &Client{conn: conn}, nil
}

func (c *Client) Close() error {
	if c == nil || c.conn == nil {
		return nil
	}
	return c.conn.Close()
}

func (c *Client) Send(ctx context.Context, n Notification) error {
	timeout := int32(-1)
	if n.Timeout > 0 {
		timeout = int32(n.Timeout / time.Millisecond)
	}

	hints := map[string]dbus.Variant{
		"urgency": dbus.MakeVariant(byte(1)),
	}

	obj := c.conn.Object(busName, objectPath)
	call := obj.CallWithContext(ctx, method, 0,
		appName,
		uint32(0),
		n.Icon,
		n.Summary,
		n.Body,
		[]string{},
		hints,
		timeout,
	)
	if call.Err != nil {
		return fmt.Errorf("send notification: %w", call.Err)
	}
	return nil
}

// Due returns the highlighted entry when it is current or starts within lead.
func Due(result harvester.Result, lead time.Duration) (*harvester.Entry, bool) {
	if !result.Found() {
		return nil, false
	}
	entry := result.CurrentOrNext
	if entry.IsCurrent {
		return entry, true
	}
	if time.Duration(entry.Countdown.Total())*time.Minute <= lead {
		return entry, true
	}
	return nil, false
}

func Message(entry harvester.Entry, name, iconURL string) Notification {
	if strings.TrimSpace(name) == "" {
		name = harvester.DefaultEventName
	}

	summary := fmt.Sprintf("%s starting %s", name, harvester.CountdownText(entry))
	if entry.IsCurrent {
		summary = fmt.Sprintf("%s is live", name)
	}

	body := fmt.Sprintf("%s\n%s - %s", strings.Join(entry.Maps, ", "), entry.StartLabel(), entry.EndLabel())
	if entry.IsCurrent {
		body += fmt.Sprintf(" (Ends in %s)", entry.Label())
	}

	return Notification{
		Summary: summary,
		Body:    body,
		Icon:    iconURL,
		Timeout: 10 * time.Second,
	}
}
