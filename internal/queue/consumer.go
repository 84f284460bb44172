package queue

import (
    "encoding/json"
    "errors"
    "fmt"
    "log"
    "os"
    "path/filepath"
    "time"

    amqp "github.com/rabbitmq/amqp091-go"
)

// StartBookingConsumer connects to RabbitMQ, declares the durable
// booking.created and booking.cancelled queues, and starts consuming.
// Each message is appended to logs/booking.log in a single-line,
// human-friendly format. The function runs a reconnect loop with
// exponential backoff and keeps running across broker restarts; failed
// messages are rejected without requeue so the server never loops on a
// poison message.
func StartBookingConsumer() error {
    url := brokerURL()

    backoff := time.Second
    for {
        conn, err := amqp.Dial(url)
        if err != nil {
            log.Printf("booking-consumer: failed to dial broker: %v; retrying in %s", err, backoff)
            time.Sleep(backoff)
            if backoff < 30*time.Second {
                backoff *= 2
            }
            continue
        }
        backoff = time.Second // reset after successful connect

        if err := consumeLoop(conn); err != nil {
            log.Printf("booking-consumer: consume loop ended: %v; reconnecting", err)
            time.Sleep(2 * time.Second)
            continue
        }
    }
}

func consumeLoop(conn *amqp.Connection) error {
    ch, err := conn.Channel()
    if err != nil {
        return fmt.Errorf("channel open: %w", err)
    }
    defer func() { _ = ch.Close() }()

    if err := ch.Qos(50, 0, false); err != nil {
        log.Printf("booking-consumer: set QoS failed: %v", err)
    }

    for _, name := range []string{createdQueueName, cancelledQueueName} {
        if _, err := ch.QueueDeclare(name, true, false, false, false, nil); err != nil {
            return fmt.Errorf("queue declare %s: %w", name, err)
        }
    }

    created, err := ch.Consume(createdQueueName, "", false, false, false, false, nil)
    if err != nil {
        return fmt.Errorf("consume %s: %w", createdQueueName, err)
    }
    cancelled, err := ch.Consume(cancelledQueueName, "", false, false, false, false, nil)
    if err != nil {
        return fmt.Errorf("consume %s: %w", cancelledQueueName, err)
    }

    for {
        select {
        case d, ok := <-created:
            if !ok {
                return errors.New("created deliveries channel closed")
            }
            handleDelivery(d, formatCreated)
        case d, ok := <-cancelled:
            if !ok {
                return errors.New("cancelled deliveries channel closed")
            }
            handleDelivery(d, formatCancelled)
        }
    }
}

func handleDelivery(d amqp.Delivery, format func([]byte) (string, error)) {
    line, err := format(d.Body)
    if err != nil {
        log.Printf("booking-consumer: handle message failed: %v", err)
        _ = d.Nack(false, false) // reject, do not requeue to avoid tight loops
        return
    }
    if err := appendLogLine(line); err != nil {
        log.Printf("booking-consumer: write log failed: %v", err)
        _ = d.Nack(false, false)
        return
    }
    _ = d.Ack(false)
}

func formatCreated(body []byte) (string, error) {
    var ev BookingCreatedEvent
    if err := json.Unmarshal(body, &ev); err != nil {
        return "", fmt.Errorf("unmarshal: %w", err)
    }
    return fmt.Sprintf("[%s] Booking created | booking_id=%d | room_id=%d | title=%q | organizer=%s | slot=%s..%s\n",
        ev.CreatedAt, ev.BookingID, ev.RoomID, ev.Title, ev.OrganizerEmail, ev.StartTime, ev.EndTime), nil
}

func formatCancelled(body []byte) (string, error) {
    var ev BookingCancelledEvent
    if err := json.Unmarshal(body, &ev); err != nil {
        return "", fmt.Errorf("unmarshal: %w", err)
    }
    return fmt.Sprintf("[%s] Booking cancelled | booking_id=%d | room_id=%d | title=%q | slot_start=%s\n",
        ev.CancelledAt, ev.BookingID, ev.RoomID, ev.Title, ev.StartTime), nil
}

func appendLogLine(line string) error {
    if err := os.MkdirAll("logs", 0o755); err != nil {
        return fmt.Errorf("mkdir logs: %w", err)
    }
    fpath := filepath.Join("logs", "booking.log")
    f, err := os.OpenFile(fpath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
    if err != nil {
        return fmt.Errorf("open log file: %w", err)
    }
    defer f.Close()
    if _, err := f.WriteString(line); err != nil {
        return fmt.Errorf("write log: %w", err)
    }
    return nil
}
