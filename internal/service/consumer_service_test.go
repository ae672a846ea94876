package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"bistro-cms-be/internal/dto"
	"bistro-cms-be/internal/entity"
	"bistro-cms-be/internal/pkg/logger"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (db *fakeDB) tocUpdateCount() int {
	db.mu.Lock()
	defer db.mu.Unlock()
	return db.tocUpdates
}

func waitAcked(t *testing.T, msg *message.Message) bool {
	t.Helper()
	select {
	case <-msg.Acked():
		return true
	case <-msg.Nacked():
		return false
	case <-time.After(time.Second):
		t.Fatal("message was neither acked nor nacked")
		return false
	}
}

func TestTocIndexerEndToEnd(t *testing.T) {
	db := newFakeDB()
	cache := newFakeCache()
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	defer pubSub.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	indexer := NewConsumerService(pubSub, "toc.reindex", db, cache, logger.NewNopLogger())
	require.NoError(t, indexer.Consume(ctx))

	blog := NewBlogService(db, NewPublisherService("toc.reindex", pubSub), &fakeEvents{}, cache, logger.NewNopLogger())
	created, err := blog.Create(ctx, uuid.New(), &dto.CreatePostRequest{Title: map[string]string{"vi": "Câu chuyện"}})
	require.NoError(t, err)

	_, err = blog.SaveContent(ctx, &dto.SaveContentRequest{
		Id:       created.Id,
		Locale:   "vi",
		Document: json.RawMessage(storyDoc),
	})
	require.NoError(t, err)

	require.Eventually(t, func() bool { return db.tocUpdateCount() == 1 }, time.Second, 10*time.Millisecond)

	post, err := blog.Show(ctx, created.Id)
	require.NoError(t, err)
	require.Len(t, post.Toc["vi"], 2)
	assert.Equal(t, "our-story", post.Toc["vi"][0].ID)
	assert.Equal(t, 3, post.Toc["vi"][1].Level)
}

func TestTocIndexerProcessMessage(t *testing.T) {
	tests := []struct {
		name        string
		payload     func(post *entity.BlogPost) []byte
		failFind    error
		wantAck     bool
		wantUpdates int
		wantEntries int
	}{
		{
			name: "indexes headings",
			payload: func(post *entity.BlogPost) []byte {
				b, _ := json.Marshal(dto.TocReindexMessage{PostId: post.Id, Locale: "vi"})
				return b
			},
			wantAck:     true,
			wantUpdates: 1,
			wantEntries: 2,
		},
		{
			name: "empty translation clears the TOC",
			payload: func(post *entity.BlogPost) []byte {
				b, _ := json.Marshal(dto.TocReindexMessage{PostId: post.Id, Locale: "en"})
				return b
			},
			wantAck:     true,
			wantUpdates: 1,
		},
		{
			name:    "malformed payload is dropped",
			payload: func(*entity.BlogPost) []byte { return []byte("not json") },
			wantAck: true,
		},
		{
			name: "unsupported locale is dropped",
			payload: func(post *entity.BlogPost) []byte {
				b, _ := json.Marshal(dto.TocReindexMessage{PostId: post.Id, Locale: "ko"})
				return b
			},
			wantAck: true,
		},
		{
			name: "deleted post is dropped",
			payload: func(*entity.BlogPost) []byte {
				b, _ := json.Marshal(dto.TocReindexMessage{PostId: uuid.New(), Locale: "vi"})
				return b
			},
			wantAck: true,
		},
		{
			name: "database error is retried",
			payload: func(post *entity.BlogPost) []byte {
				b, _ := json.Marshal(dto.TocReindexMessage{PostId: post.Id, Locale: "vi"})
				return b
			},
			failFind: errors.New("connection reset"),
			wantAck:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newBlogFixture()
			post := f.seedPost(t, "story", entity.PostStatusPublished, map[string]string{"vi": storyDoc})
			f.db.failFind = tt.failFind

			cs := NewConsumerService(nil, "toc.reindex", f.db, f.cache, logger.NewNopLogger()).(*consumerService)
			msg := message.NewMessage(watermill.NewUUID(), tt.payload(post))

			go cs.processMessage(context.Background(), msg)
			assert.Equal(t, tt.wantAck, waitAcked(t, msg))
			assert.Equal(t, tt.wantUpdates, f.db.tocUpdateCount())

			if tt.wantUpdates > 0 {
				f.db.failFind = nil
				stored, err := f.svc.Show(context.Background(), post.Id)
				require.NoError(t, err)
				assert.Len(t, stored.Toc[msgLocale(t, msg)], tt.wantEntries)
				assert.Contains(t, f.cache.invalidated, "story:vi")
			}
		})
	}
}

func msgLocale(t *testing.T, msg *message.Message) string {
	t.Helper()
	var payload dto.TocReindexMessage
	require.NoError(t, json.Unmarshal(msg.Payload, &payload))
	return payload.Locale
}
