package mqtt

import (
	"encoding/json"
	"fmt"
	"log"
	"strconv"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/i474232898/weather-now/internal/weather"
)

// client is the subset of mqtt.Client the publisher uses.
type client interface {
	Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token
	IsConnected() bool
	Disconnect(quiesce uint)
}

type Publisher struct {
	client      client
	topicPrefix string
	enabled     bool
	now         func() time.Time
}

type PublisherConfig struct {
	Broker      string
	ClientID    string
	Username    string
	Password    string
	TopicPrefix string
	Enabled     bool
}

func NewPublisher(cfg PublisherConfig) (*Publisher, error) {
	if !cfg.Enabled {
		return &Publisher{enabled: false}, nil
	}

	opts := mqtt.NewClientOptions().
		AddBroker(cfg.Broker).
		SetClientID(cfg.ClientID).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(5 * time.Second).
		SetConnectionLostHandler(func(c mqtt.Client, err error) {
			log.Printf("ERROR: mqtt: connection lost: %v", err)
		}).
		SetOnConnectHandler(func(c mqtt.Client) {
			log.Println("INFO: mqtt: connected")
		})

	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
		opts.SetPassword(cfg.Password)
	}

	c := mqtt.NewClient(opts)
	token := c.Connect()
	if token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("failed to connect to MQTT broker: %w", token.Error())
	}

	return newPublisher(c, cfg.TopicPrefix), nil
}

func newPublisher(c client, topicPrefix string) *Publisher {
	return &Publisher{
		client:      c,
		topicPrefix: topicPrefix,
		enabled:     true,
		now:         time.Now,
	}
}

// status is the retained JSON document describing the latest settle.
type status struct {
	Phase       weather.Phase     `json:"phase"`
	Temperature string            `json:"temperature"`
	Unit        string            `json:"unit"`
	Location    string            `json:"location"`
	Condition   weather.Condition `json:"condition"`
	Label       string            `json:"label"`
	Icon        string            `json:"icon"`
	TodayHigh   string            `json:"todayHigh"`
	TodayLow    string            `json:"todayLow"`
	TempC       *float64          `json:"temperatureC,omitempty"`
	ErrorKind   weather.ErrorKind `json:"errorKind,omitempty"`
	Error       string            `json:"error,omitempty"`
	UpdatedAt   time.Time         `json:"updatedAt"`
}

type message struct {
	topic    string
	payload  []byte
	retained bool
}

func (p *Publisher) messages(st weather.State) ([]message, error) {
	temperature := ""
	if st.Response != nil {
		temperature = strconv.FormatFloat(st.Response.Current.TemperatureC, 'f', -1, 64)
	}

	values := []struct {
		name  string
		value string
	}{
		{"temperature", temperature},
		{"condition", string(st.Condition)},
		{"icon", st.IconToken()},
		{"location", st.LocationLabel()},
		{"error", st.ErrorMessage()},
	}

	out := make([]message, 0, len(values)+1)
	for _, v := range values {
		out = append(out, message{topic: p.topic(v.name), payload: []byte(v.value)})
	}

	doc := status{
		Phase:       st.Phase(),
		Temperature: st.DisplayTemperature(),
		Unit:        st.TemperatureUnitLabel(),
		Location:    st.LocationLabel(),
		Condition:   st.Condition,
		Label:       st.ConditionLabel(),
		Icon:        st.IconToken(),
		TodayHigh:   st.TodayHigh(),
		TodayLow:    st.TodayLow(),
		ErrorKind:   st.ErrorKind(),
		Error:       st.ErrorMessage(),
		UpdatedAt:   p.now().UTC(),
	}
	if st.Response != nil {
		t := st.Response.Current.TemperatureC
		doc.TempC = &t
	}
	statusJSON, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal status: %w", err)
	}
	out = append(out, message{topic: p.topic("status"), payload: statusJSON, retained: true})
	return out, nil
}

func (p *Publisher) topic(name string) string {
	return fmt.Sprintf("%s/%s", p.topicPrefix, name)
}

// Publish sends one topic per display value and a retained JSON status.
func (p *Publisher) Publish(st weather.State) error {
	if !p.enabled {
		return nil
	}

	msgs, err := p.messages(st)
	if err != nil {
		return err
	}

	for _, m := range msgs {
		token := p.client.Publish(m.topic, 0, m.retained, m.payload)
		token.Wait()
		if token.Error() != nil {
			if m.retained {
				return fmt.Errorf("failed to publish status: %w", token.Error())
			}
			log.Printf("ERROR: mqtt: failed to publish to %s: %v", m.topic, token.Error())
		}
	}
	return nil
}

// Listener adapts Publish to a session settle listener.
func (p *Publisher) Listener() func(weather.State) {
	return func(st weather.State) {
		if err := p.Publish(st); err != nil {
			log.Printf("ERROR: mqtt: %v", err)
		}
	}
}

// PublishHomeAssistantDiscovery announces the temperature and condition sensors.
func (p *Publisher) PublishHomeAssistantDiscovery() error {
	if !p.enabled {
		return nil
	}

	sensors := []struct {
		Name        string
		ID          string
		Unit        string
		DeviceClass string
	}{
		{"Temperature", "temperature", "°C", "temperature"},
		{"Condition", "condition", "", ""},
		{"Location", "location", "", ""},
	}

	for _, sensor := range sensors {
		discoveryTopic := fmt.Sprintf("homeassistant/sensor/weather_now/%s/config", sensor.ID)

		config := map[string]interface{}{
			"name":        fmt.Sprintf("Weather %s", sensor.Name),
			"unique_id":   fmt.Sprintf("weather_now_%s", sensor.ID),
			"state_topic": p.topic(sensor.ID),
			"device": map[string]interface{}{
				"identifiers": []string{"weather_now"},
				"name":        "Weather Now",
			},
		}
		if sensor.Unit != "" {
			config["unit_of_measurement"] = sensor.Unit
		}
		if sensor.DeviceClass != "" {
			config["device_class"] = sensor.DeviceClass
		}

		payload, err := json.Marshal(config)
		if err != nil {
			return fmt.Errorf("failed to marshal discovery config: %w", err)
		}
		token := p.client.Publish(discoveryTopic, 0, true, payload)
		token.Wait()
		if token.Error() != nil {
			return fmt.Errorf("failed to publish discovery for %s: %w", sensor.ID, token.Error())
		}
	}

	return nil
}

func (p *Publisher) IsConnected() bool {
	if !p.enabled {
		return false
	}
	return p.client.IsConnected()
}

func (p *Publisher) Close() {
	if p.enabled && p.client != nil {
		p.client.Disconnect(1000)
	}
}
