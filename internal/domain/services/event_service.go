package services

import (
	"encoding/json"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"campmanager-service/internal/domain/models"
	"campmanager-service/internal/infrastructure/config"
	"campmanager-service/pkg/logger"
)

// InterfaceEventService defines the lifecycle event publisher
type InterfaceEventService interface {
	Connect() error
	Disconnect()
	PublishTransferEvent(event string, requestID uint)
	PublishExitEvent(event string, person models.PersonRef)
}

// EventService publishes transfer and exit lifecycle events to an MQTT
// broker for operations dashboards. Publishing is best-effort: a transition
// never fails because the broker is down, and the service runs disabled
// when no broker is configured.
type EventService struct {
	Config *config.Config
	client mqtt.Client
}

// NewEventService creates a new event service
func NewEventService(cfg *config.Config) InterfaceEventService {
	return &EventService{Config: cfg}
}

// Connect establishes the broker connection; a no-op without a broker URL
func (s *EventService) Connect() error {
	if s.Config.MQTTBrokerURL == "" {
		logger.Info("no MQTT broker configured, lifecycle events disabled")
		return nil
	}

	opts := mqtt.NewClientOptions().
		AddBroker(s.Config.MQTTBrokerURL).
		SetClientID(s.Config.MQTTClientID).
		SetAutoReconnect(true).
		SetMaxReconnectInterval(30 * time.Second).
		SetConnectTimeout(10 * time.Second)

	opts.OnConnectionLost = func(_ mqtt.Client, err error) {
		logger.Warning("MQTT connection lost: %v", err)
	}

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return fmt.Errorf("MQTT connect failed: %w", token.Error())
	}

	s.client = client
	logger.Info("connected to MQTT broker %s", s.Config.MQTTBrokerURL)
	return nil
}

// Disconnect closes the broker connection
func (s *EventService) Disconnect() {
	if s.client != nil && s.client.IsConnected() {
		s.client.Disconnect(250)
	}
}

// PublishTransferEvent emits a transfer lifecycle event
func (s *EventService) PublishTransferEvent(event string, requestID uint) {
	s.publish(event, map[string]interface{}{
		"event":      event,
		"request_id": requestID,
		"time":       time.Now().Format(time.RFC3339),
	})
}

// PublishExitEvent emits an exit formalities lifecycle event
func (s *EventService) PublishExitEvent(event string, person models.PersonRef) {
	s.publish(event, map[string]interface{}{
		"event":       event,
		"person_type": person.Type,
		"person_id":   person.ID,
		"time":        time.Now().Format(time.RFC3339),
	})
}

func (s *EventService) publish(event string, payload map[string]interface{}) {
	if s.client == nil || !s.client.IsConnected() {
		return
	}
	body, err := json.Marshal(payload)
	if err != nil {
		logger.Error("marshal event %s: %v", event, err)
		return
	}
	topic := s.Config.MQTTTopicBase + "/" + event
	token := s.client.Publish(topic, 0, false, body)
	go func() {
		if token.Wait() && token.Error() != nil {
			logger.Warning("publish %s: %v", topic, token.Error())
		}
	}()
}
