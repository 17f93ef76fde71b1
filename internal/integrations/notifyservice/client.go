package notifyservice

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Client клиент диспетчеризации уведомлений (SMS/email).
// Фактическая доставка - ответственность NotifyService; здесь только постановка.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        Logger
}

// NewClient создает новый экземпляр клиента NotifyService
func NewClient(baseURL string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// SendBookingCreated ставит уведомление о созданной записи.
// Любая ошибка деградирует в ErrServiceDegraded: бронирование уже зафиксировано,
// падать из-за уведомления нельзя.
func (c *Client) SendBookingCreated(ctx context.Context, n *Notification) error {
	n.Event = EventBookingCreated
	return c.send(ctx, n)
}

// SendBookingCancelled ставит уведомление об отмене записи
func (c *Client) SendBookingCancelled(ctx context.Context, n *Notification) error {
	n.Event = EventBookingCancelled
	return c.send(ctx, n)
}

func (c *Client) send(ctx context.Context, n *Notification) error {
	url := fmt.Sprintf("%s/internal/notifications", c.baseURL)

	payload, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("%w: failed to marshal notification: %v", ErrInternal, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Error("NotifyService unavailable, dropping %s for booking_id=%d: %v", n.Event, n.BookingID, err)
		return fmt.Errorf("%w: event=%s, booking_id=%d", ErrServiceDegraded, n.Event, n.BookingID)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusAccepted && resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		c.log.Error("NotifyService rejected %s for booking_id=%d: status=%d body=%s",
			n.Event, n.BookingID, resp.StatusCode, string(body))
		return fmt.Errorf("%w: unexpected status code %d", ErrInvalidResponse, resp.StatusCode)
	}

	c.log.Info("Notification %s queued for booking_id=%d", n.Event, n.BookingID)
	return nil
}
