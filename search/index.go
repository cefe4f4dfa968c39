// Package search maintains a full-text index over accepted chat messages.
// The index is advisory: writes are fire-and-forget from the hub's point of
// view and a lost document never affects persistence or delivery.
package search

import (
	"context"
	"log/slog"
	"time"

	"chat-hub/repositories"

	"github.com/blugelabs/bluge"
)

// Hit is one search result.
type Hit struct {
	MessageID string
	RoomID    string
	Author    string
	Content   string
	At        time.Time
}

type Index struct {
	log    *slog.Logger
	writer *bluge.Writer
}

// Open creates or reopens an on-disk index.
func Open(log *slog.Logger, path string) (*Index, error) {
	writer, err := bluge.OpenWriter(bluge.DefaultConfig(path))
	if err != nil {
		return nil, err
	}
	return &Index{log: log, writer: writer}, nil
}

// OpenInMemory backs the index with memory only. Used by tests.
func OpenInMemory(log *slog.Logger) (*Index, error) {
	writer, err := bluge.OpenWriter(bluge.InMemoryOnlyConfig())
	if err != nil {
		return nil, err
	}
	return &Index{log: log, writer: writer}, nil
}

func (i *Index) Close() error {
	return i.writer.Close()
}

// Index upserts one message document, keyed by message id. A nil receiver
// drops the write, so a disabled index can travel behind an interface without
// poisoning the message path.
func (i *Index) Index(message repositories.DiskMessage) error {
	if i == nil {
		return nil
	}
	doc := bluge.NewDocument(message.ID.String()).
		AddField(bluge.NewTextField("content", message.Content).StoreValue()).
		AddField(bluge.NewKeywordField("room_id", message.RoomID).StoreValue()).
		AddField(bluge.NewKeywordField("author", message.Username).StoreValue()).
		AddField(bluge.NewDateTimeField("at", message.At).StoreValue())
	return i.writer.Update(doc.ID(), doc)
}

// Search runs a parsed query and returns up to query.Limit hits, best first.
func (i *Index) Search(ctx context.Context, query Query) ([]Hit, error) {
	reader, err := i.writer.Reader()
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := reader.Close(); err != nil {
			i.log.Warn("index reader close failed", "error", err)
		}
	}()

	boolean := bluge.NewBooleanQuery().
		AddMust(bluge.NewMatchQuery(query.Terms).SetField("content"))
	if query.RoomID != "" {
		boolean.AddMust(bluge.NewTermQuery(query.RoomID).SetField("room_id"))
	}
	if query.Author != "" {
		boolean.AddMust(bluge.NewTermQuery(query.Author).SetField("author"))
	}

	iterator, err := reader.Search(ctx, bluge.NewTopNSearch(query.Limit, boolean))
	if err != nil {
		return nil, err
	}

	var hits []Hit
	match, err := iterator.Next()
	for err == nil && match != nil {
		var hit Hit
		visitErr := match.VisitStoredFields(func(field string, value []byte) bool {
			switch field {
			case "_id":
				hit.MessageID = string(value)
			case "room_id":
				hit.RoomID = string(value)
			case "author":
				hit.Author = string(value)
			case "content":
				hit.Content = string(value)
			case "at":
				if at, parseErr := bluge.DecodeDateTime(value); parseErr == nil {
					hit.At = at
				}
			}
			return true
		})
		if visitErr != nil {
			return nil, visitErr
		}
		hits = append(hits, hit)
		match, err = iterator.Next()
	}
	if err != nil {
		return nil, err
	}
	return hits, nil
}
