package consumer

import (
	"context"
	"encoding/json"
	"fmt"

	"fleamarket/internal/model"
	"fleamarket/internal/monitor"
	"fleamarket/internal/service/notice"
	"fleamarket/pkg/log"
	"fleamarket/pkg/queue"
)

// NoticeConsumer turns sale notice messages from the queue into
// persisted notices for the sellers
type NoticeConsumer struct {
	mq        queue.Queue
	topic     string
	noticeSvc notice.NoticeService
}

// NewNoticeConsumer creates a notice consumer
func NewNoticeConsumer(mq queue.Queue, topic string, noticeSvc notice.NoticeService) *NoticeConsumer {
	return &NoticeConsumer{
		mq:        mq,
		topic:     topic,
		noticeSvc: noticeSvc,
	}
}

// Start subscribes to the sale notice topic. Returns once the
// subscription is registered; message handling runs on the queue's
// consumer goroutine until ctx is cancelled.
func (c *NoticeConsumer) Start(ctx context.Context) error {
	if err := c.mq.Subscribe(ctx, c.topic, c.handleMessage); err != nil {
		return fmt.Errorf("subscribe %s: %w", c.topic, err)
	}

	log.WithField("topic", c.topic).Info("Notice consumer started")
	return nil
}

// handleMessage persists one sale notice. The whole flow is best
// effort: a malformed or failed message is logged and dropped, never
// retried.
func (c *NoticeConsumer) handleMessage(ctx context.Context, topic string, message []byte) error {
	var msg model.SaleNoticeMessage
	if err := json.Unmarshal(message, &msg); err != nil {
		monitor.SaleNoticeConsumedTotal.WithLabelValues("malformed").Inc()
		log.WithFields(map[string]interface{}{
			"topic": topic,
			"error": err.Error(),
		}).Error("Failed to parse sale notice message")
		return err
	}

	n := &model.Notice{
		UserID:  msg.SellerID,
		Type:    model.NoticeTypeSale,
		Title:   "Your goods were sold",
		Content: fmt.Sprintf("%q was bought, order %s", msg.GoodsName, msg.OrderNo),
		GoodsID: &msg.GoodsID,
		OrderNo: &msg.OrderNo,
	}

	if err := c.noticeSvc.Create(ctx, n); err != nil {
		monitor.SaleNoticeConsumedTotal.WithLabelValues("failed").Inc()
		log.WithFields(map[string]interface{}{
			"seller_id": msg.SellerID,
			"goods_id":  msg.GoodsID,
			"error":     err.Error(),
		}).Error("Failed to store sale notice")
		return err
	}

	monitor.SaleNoticeConsumedTotal.WithLabelValues("ok").Inc()
	return nil
}
