package mqtt

import (
	"encoding/json"
	"fmt"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"go.uber.org/zap"

	"carehaven-edgesim/internal/config"
)

// Publisher 认知会话记录的 MQTT 发布端
//
// 只发布不订阅。记录序列化为 JSON 发到固定主题，供下游管道消费。
type Publisher struct {
	client mqtt.Client
	topic  string
	qos    byte
	logger *zap.Logger
}

// NewPublisher 创建并连接 MQTT 发布端
func NewPublisher(cfg *config.Config, logger *zap.Logger) (*Publisher, error) {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(cfg.MQTT.Broker)
	opts.SetClientID(cfg.MQTT.ClientID)

	if cfg.MQTT.Username != "" {
		opts.SetUsername(cfg.MQTT.Username)
	}
	if cfg.MQTT.Password != "" {
		opts.SetPassword(cfg.MQTT.Password)
	}

	opts.SetAutoReconnect(true)
	opts.SetCleanSession(true)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("failed to connect to MQTT broker: %w", token.Error())
	}

	logger.Info("Connected to MQTT broker",
		zap.String("broker", cfg.MQTT.Broker),
		zap.String("topic", cfg.MQTT.Topic),
	)

	return &Publisher{
		client: client,
		topic:  cfg.MQTT.Topic,
		qos:    cfg.MQTT.QoS,
		logger: logger,
	}, nil
}

// PublishRecord 将任意记录序列化为 JSON 并发布
func (p *Publisher) PublishRecord(record interface{}) error {
	payload, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal record: %w", err)
	}

	token := p.client.Publish(p.topic, p.qos, false, payload)
	token.Wait()
	if token.Error() != nil {
		return fmt.Errorf("failed to publish to topic %s: %w", p.topic, token.Error())
	}

	return nil
}

// Disconnect 断开连接
func (p *Publisher) Disconnect() {
	p.client.Disconnect(250)
}

// IsConnected 检查连接状态
func (p *Publisher) IsConnected() bool {
	return p.client.IsConnected()
}
