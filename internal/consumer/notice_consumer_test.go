package consumer

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"fleamarket/internal/model"
	"fleamarket/pkg/queue"
)

// recordingNoticeService records created notices for assertions
type recordingNoticeService struct {
	created chan *model.Notice
}

func newRecordingNoticeService() *recordingNoticeService {
	return &recordingNoticeService{created: make(chan *model.Notice, 10)}
}

func (s *recordingNoticeService) Create(ctx context.Context, notice *model.Notice) error {
	s.created <- notice
	return nil
}

func (s *recordingNoticeService) List(ctx context.Context, userID uint64, page, pageSize int) ([]*model.Notice, int64, error) {
	return nil, 0, nil
}

func (s *recordingNoticeService) UnreadCount(ctx context.Context, userID uint64) (int64, error) {
	return 0, nil
}

func (s *recordingNoticeService) MarkRead(ctx context.Context, userID, noticeID uint64) error {
	return nil
}

func (s *recordingNoticeService) MarkAllRead(ctx context.Context, userID uint64) error {
	return nil
}

func (s *recordingNoticeService) Delete(ctx context.Context, userID, noticeID uint64) error {
	return nil
}

func (s *recordingNoticeService) DeleteMany(ctx context.Context, userID uint64, noticeIDs []uint64) error {
	return nil
}

func TestNoticeConsumer_EndToEnd(t *testing.T) {
	mq, err := queue.NewMemoryQueue(nil)
	assert.NoError(t, err)
	defer mq.Close()

	svc := newRecordingNoticeService()
	c := NewNoticeConsumer(mq, "notice.sale", svc)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	err = c.Start(ctx)
	assert.NoError(t, err)

	msg := model.SaleNoticeMessage{
		SellerID:  10,
		BuyerID:   7,
		GoodsID:   1,
		GoodsName: "Used bike",
		OrderNo:   "FM1001",
		SoldAt:    time.Now(),
	}
	payload, err := json.Marshal(msg)
	assert.NoError(t, err)

	err = mq.Publish(ctx, "notice.sale", payload)
	assert.NoError(t, err)

	select {
	case n := <-svc.created:
		assert.Equal(t, uint64(10), n.UserID)
		assert.Equal(t, int8(model.NoticeTypeSale), n.Type)
		assert.Contains(t, n.Content, "Used bike")
		if assert.NotNil(t, n.OrderNo) {
			assert.Equal(t, "FM1001", *n.OrderNo)
		}
		if assert.NotNil(t, n.GoodsID) {
			assert.Equal(t, uint64(1), *n.GoodsID)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("notice was not created")
	}
}

func TestNoticeConsumer_MalformedMessageDropped(t *testing.T) {
	mq, err := queue.NewMemoryQueue(nil)
	assert.NoError(t, err)
	defer mq.Close()

	svc := newRecordingNoticeService()
	c := NewNoticeConsumer(mq, "notice.sale", svc)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	err = c.Start(ctx)
	assert.NoError(t, err)

	err = mq.Publish(ctx, "notice.sale", []byte("not json"))
	assert.NoError(t, err)

	select {
	case <-svc.created:
		t.Fatal("malformed message must not create a notice")
	case <-time.After(200 * time.Millisecond):
	}
}
