// Package wifi keeps track of the wireless uplink.
package wifi

import (
	"fmt"
	"os/exec"
	"time"

	"github.com/jonboulle/clockwork"
	logger "github.com/sirupsen/logrus"
	"github.com/vishvananda/netlink"
)

type Link interface {
	Connected() bool
	// Join starts associating with the network and returns without waiting.
	Join(ssid, password string) error
	// Reconnect asks the network stack to bring the link back, without waiting.
	Reconnect() error
}

// NetLink reads link state over netlink and hands association to
// NetworkManager.
type NetLink struct {
	Iface string

	start func(name string, args ...string) error
	state func(iface string) (bool, error)
}

func NewNetLink(iface string) *NetLink {
	return &NetLink{
		Iface: iface,
		start: startCommand,
		state: operUp,
	}
}

func (n *NetLink) Connected() bool {
	up, err := n.state(n.Iface)
	if err != nil {
		logger.Debugf("Link state for [%v] unavailable [%v]", n.Iface, err)
		return false
	}
	return up
}

func (n *NetLink) Join(ssid, password string) error {
	if err := n.start("nmcli", "device", "wifi", "connect", ssid, "password", password, "ifname", n.Iface); err != nil {
		return fmt.Errorf("join %v: %w", ssid, err)
	}
	return nil
}

func (n *NetLink) Reconnect() error {
	if err := n.start("nmcli", "device", "connect", n.Iface); err != nil {
		return fmt.Errorf("reconnect %v: %w", n.Iface, err)
	}
	return nil
}

func operUp(iface string) (bool, error) {
	link, err := netlink.LinkByName(iface)
	if err != nil {
		return false, err
	}
	return link.Attrs().OperState == netlink.OperUp, nil
}

// startCommand runs a command in the background and reaps it.
func startCommand(name string, args ...string) error {
	cmd := exec.Command(name, args...)
	if err := cmd.Start(); err != nil {
		return err
	}
	go func() {
		if err := cmd.Wait(); err != nil {
			logger.Debugf("[%v] exited [%v]", name, err)
		}
	}()
	return nil
}

// JoinAndWait starts a join and polls the link until it is up or timeout
// elapses. The result is only reported, callers carry on either way.
func JoinAndWait(l Link, clock clockwork.Clock, ssid, password string, timeout, poll time.Duration) bool {
	logger.Infof("Connecting to WiFi [%v]", ssid)
	if err := l.Join(ssid, password); err != nil {
		logger.Errorf("WiFi join failed [%v]", err)
	}
	t0 := clock.Now()
	for !l.Connected() && clock.Since(t0) < timeout {
		clock.Sleep(poll)
	}
	if l.Connected() {
		logger.Info("WiFi connected")
		return true
	}
	logger.Warn("WiFi not connected, will keep trying from the loop")
	return false
}
