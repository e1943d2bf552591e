package notifier

import (
	"bytes"
	"encoding/json"
	"log"
	"net/http"
	"time"
)

// Notifier posts order notifications to the configured relay (email/telegram
// bridge). Strictly best-effort: every failure is logged and swallowed so
// checkout never blocks on it.
type Notifier struct {
	url    string
	client *http.Client
}

func New(url string) *Notifier {
	return &Notifier{
		url:    url,
		client: &http.Client{Timeout: 5 * time.Second},
	}
}

func (n *Notifier) Send(payload OrderNotification) {
	if n.url == "" {
		return
	}
	go func() {
		body, err := json.Marshal(payload)
		if err != nil {
			log.Printf("Failed to marshal notification: %v\n", err)
			return
		}

		req, err := http.NewRequest("POST", n.url, bytes.NewBuffer(body))
		if err != nil {
			log.Printf("Failed to create notification request: %v\n", err)
			return
		}

		req.Header.Set("Content-Type", "application/json")

		resp, err := n.client.Do(req)
		if err != nil {
			log.Printf("Notification failed: %v\n", err)
			return
		}
		defer resp.Body.Close()

		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			log.Printf("Notification sent for order %s\n", payload.OrderNumber)
		} else {
			log.Printf("Notification relay returned status %d", resp.StatusCode)
		}
	}()
}
