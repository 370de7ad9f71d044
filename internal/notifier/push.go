package notifier

import (
	"fmt"
	"log"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/glazeddonut/Tennis-Monitor/internal/config"
)

const (
	ntfyBaseURL       = "https://ntfy.sh"
	pushbulletPushURL = "https://api.pushbullet.com/v2/pushes"
)

// newPushSender builds the configured push channel, or nil when the
// selected service is missing its credentials.
func newPushSender(cfg config.NotifyConfig) sender {
	client := resty.New().SetTimeout(5 * time.Second)
	switch cfg.Service {
	case "ntfy":
		if cfg.NtfyTopic == "" {
			log.Println("⚠️ ntfy topic not configured, push notifications disabled")
			return nil
		}
		return &ntfySender{client: client, topic: cfg.NtfyTopic}
	case "pushbullet":
		if cfg.PushbulletKey == "" {
			log.Println("⚠️ pushbullet API key not configured, push notifications disabled")
			return nil
		}
		return &pushbulletSender{client: client, key: cfg.PushbulletKey}
	default:
		log.Printf("⚠️ unknown push service %q, push notifications disabled", cfg.Service)
		return nil
	}
}

type ntfySender struct {
	client *resty.Client
	topic  string
}

func (s *ntfySender) name() string { return "ntfy" }

func (s *ntfySender) send(title, message string, alert bool) error {
	priority := "default"
	if alert {
		priority = "high"
	}
	resp, err := s.client.R().
		SetHeader("Title", title).
		SetHeader("Priority", priority).
		SetBody(message).
		Post(fmt.Sprintf("%s/%s", ntfyBaseURL, s.topic))
	if err != nil {
		return err
	}
	if resp.StatusCode() != 200 {
		return fmt.Errorf("ntfy returned status %d", resp.StatusCode())
	}
	return nil
}

type pushbulletSender struct {
	client *resty.Client
	key    string
}

func (s *pushbulletSender) name() string { return "pushbullet" }

func (s *pushbulletSender) send(title, message string, alert bool) error {
	resp, err := s.client.R().
		SetHeader("Access-Token", s.key).
		SetBody(map[string]string{
			"type":  "note",
			"title": title,
			"body":  message,
		}).
		Post(pushbulletPushURL)
	if err != nil {
		return err
	}
	if resp.StatusCode() != 200 {
		return fmt.Errorf("pushbullet returned status %d", resp.StatusCode())
	}
	return nil
}
