//go:generate go run go.uber.org/mock/mockgen -source=search.go -destination=../mocks/mock_search_repository.go -package=mocks
package repositories

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"github.com/blugelabs/bluge"
	"github.com/google/uuid"
)

type ISearchRepository interface {
	Index(message DiskMessage) error
	Search(ctx context.Context, room int, text string, limit int) ([]DiskMessage, error)
}

// SearchRepository keeps a full-text index of sanitized messages.
type SearchRepository struct {
	writer *bluge.Writer
	log    *slog.Logger
}

func NewSearchRepository(writer *bluge.Writer, log *slog.Logger) SearchRepository {
	return SearchRepository{writer: writer, log: log}
}

const (
	fieldRoom    = "room"
	fieldAuthor  = "author"
	fieldContent = "content"
	fieldAt      = "at"
)

func (s SearchRepository) Index(message DiskMessage) error {
	doc := bluge.NewDocument(message.ID.String()).
		AddField(bluge.NewKeywordField(fieldRoom, strconv.Itoa(message.Room)).StoreValue()).
		AddField(bluge.NewTextField(fieldContent, message.Content).StoreValue()).
		AddField(bluge.NewStoredOnlyField(fieldAuthor, []byte(message.Author))).
		AddField(bluge.NewStoredOnlyField(fieldAt, []byte(message.At.Format(time.RFC3339Nano))))
	return s.writer.Update(doc.ID(), doc)
}

// Search returns the best matching messages of a room, highest score first.
func (s SearchRepository) Search(ctx context.Context, room int, text string, limit int) ([]DiskMessage, error) {
	reader, err := s.writer.Reader()
	if err != nil {
		return nil, err
	}
	defer func() { _ = reader.Close() }()

	query := bluge.NewBooleanQuery().
		AddMust(bluge.NewMatchQuery(text).SetField(fieldContent)).
		AddMust(bluge.NewTermQuery(strconv.Itoa(room)).SetField(fieldRoom))

	iterator, err := reader.Search(ctx, bluge.NewTopNSearch(limit, query))
	if err != nil {
		return nil, err
	}

	var results []DiskMessage
	match, err := iterator.Next()
	for err == nil && match != nil {
		message := DiskMessage{Room: room}
		visitErr := match.VisitStoredFields(func(field string, value []byte) bool {
			switch field {
			case "_id":
				if id, err := uuid.ParseBytes(value); err == nil {
					message.ID = id
				}
			case fieldAuthor:
				message.Author = string(value)
			case fieldContent:
				message.Content = string(value)
			case fieldAt:
				if at, err := time.Parse(time.RFC3339Nano, string(value)); err == nil {
					message.At = at
				}
			}
			return true
		})
		if visitErr != nil {
			return nil, visitErr
		}
		results = append(results, message)
		match, err = iterator.Next()
	}
	if err != nil {
		return nil, err
	}
	return results, nil
}
