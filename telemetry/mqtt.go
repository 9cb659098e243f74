package telemetry

import (
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	logger "github.com/sirupsen/logrus"
)

const publishTimeout = 5 * time.Second

// Mirror republishes each payload on an MQTT topic, QoS 0, one attempt.
type Mirror struct {
	client mqtt.Client
	topic  string
}

func NewMirror(broker, clientID, topic string) *Mirror {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(broker)
	opts.SetClientID(clientID)
	opts.SetCleanSession(true)
	opts.SetConnectRetry(false)
	opts.SetKeepAlive(30 * time.Second)
	opts.SetConnectionLostHandler(func(_ mqtt.Client, err error) {
		logger.Warnf("MQTT connection lost [%v]", err)
	})
	opts.SetOnConnectHandler(func(_ mqtt.Client) {
		logger.Infof("MQTT connected [%v]", broker)
	})
	return &Mirror{client: mqtt.NewClient(opts), topic: topic}
}

// Connect waits at most timeout for the broker. The station runs without
// the mirror if this fails.
func (m *Mirror) Connect(timeout time.Duration) error {
	token := m.client.Connect()
	if !token.WaitTimeout(timeout) {
		return fmt.Errorf("mqtt connect timeout")
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("mqtt connect: %w", err)
	}
	return nil
}

func (m *Mirror) Publish(body []byte) error {
	if !m.client.IsConnected() {
		return ErrNotConnected
	}
	token := m.client.Publish(m.topic, 0, false, body)
	if !token.WaitTimeout(publishTimeout) {
		return fmt.Errorf("publish timeout for topic %s", m.topic)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("publish %s: %w", m.topic, err)
	}
	return nil
}

func (m *Mirror) Close() {
	m.client.Disconnect(250)
}
