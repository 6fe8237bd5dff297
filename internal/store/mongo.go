package store

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/dmitrymomot/trustnotify/internal/notification"
	mongoconn "github.com/dmitrymomot/trustnotify/pkg/mongo"
)

// MongoCollection is the collection records are written to.
const MongoCollection = "notifications"

type mongoRecord struct {
	ID          string            `bson:"_id"`
	UserID      string            `bson:"user_id"`
	EventType   string            `bson:"event_type"`
	Priority    string            `bson:"priority"`
	ChannelUsed string            `bson:"channel_used"`
	Message     string            `bson:"message"`
	Status      string            `bson:"status"`
	Attempts    int               `bson:"attempts"`
	Signature   string            `bson:"signature"`
	Meta        map[string]string `bson:"meta,omitempty"`
	CreatedAt   time.Time         `bson:"created_at"`
}

func toMongo(r notification.Record) mongoRecord {
	return mongoRecord{
		ID:          r.ID,
		UserID:      r.UserID,
		EventType:   string(r.EventType),
		Priority:    string(r.Priority),
		ChannelUsed: string(r.ChannelUsed),
		Message:     r.Message,
		Status:      string(r.Status),
		Attempts:    r.Attempts,
		Signature:   r.Signature,
		Meta:        r.Meta,
		CreatedAt:   r.CreatedAt,
	}
}

func (m mongoRecord) record() notification.Record {
	return notification.Record{
		ID:          m.ID,
		UserID:      m.UserID,
		EventType:   notification.EventType(m.EventType),
		Priority:    notification.Priority(m.Priority),
		ChannelUsed: notification.Channel(m.ChannelUsed),
		Message:     m.Message,
		Status:      notification.Status(m.Status),
		Attempts:    m.Attempts,
		Signature:   m.Signature,
		Meta:        notification.Meta(m.Meta),
		CreatedAt:   m.CreatedAt.UTC(),
	}
}

// Mongo stores records in a MongoDB collection.
type Mongo struct {
	coll *mongo.Collection
	now  func() time.Time
}

// NewMongo uses db's "notifications" collection and ensures the
// (user_id, created_at desc) index exists.
func NewMongo(ctx context.Context, db *mongo.Database) (*Mongo, error) {
	coll := db.Collection(MongoCollection)
	_, err := coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}},
		Options: options.Index().SetName("user_id_created_at"),
	})
	if err != nil {
		return nil, errors.Join(ErrFailedToCreate, err)
	}
	return &Mongo{coll: coll, now: time.Now}, nil
}

func (s *Mongo) Create(ctx context.Context, rec notification.Record) (notification.Record, error) {
	rec, err := prepare(rec, s.now)
	if err != nil {
		return notification.Record{}, err
	}
	if _, err := s.coll.InsertOne(ctx, toMongo(rec)); err != nil {
		return notification.Record{}, errors.Join(ErrFailedToCreate, err)
	}
	return rec, nil
}

func (s *Mongo) FindByUser(ctx context.Context, userID string) ([]notification.Record, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}})
	cur, err := s.coll.Find(ctx, bson.D{{Key: "user_id", Value: userID}}, opts)
	if err != nil {
		return nil, errors.Join(ErrFailedToQuery, err)
	}
	defer func() { _ = cur.Close(ctx) }()

	var docs []mongoRecord
	if err := cur.All(ctx, &docs); err != nil {
		return nil, errors.Join(ErrFailedToQuery, err)
	}

	out := make([]notification.Record, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.record())
	}
	return out, nil
}

func (s *Mongo) Get(ctx context.Context, userID, id string) (notification.Record, error) {
	var doc mongoRecord
	err := s.coll.FindOne(ctx, bson.D{{Key: "_id", Value: id}, {Key: "user_id", Value: userID}}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return notification.Record{}, ErrNotFound
	}
	if err != nil {
		return notification.Record{}, errors.Join(ErrFailedToQuery, err)
	}
	return doc.record(), nil
}

func (s *Mongo) Ping(ctx context.Context) error {
	return mongoconn.Healthcheck(s.coll.Database().Client())(ctx)
}

func (s *Mongo) Close(ctx context.Context) error {
	return s.coll.Database().Client().Disconnect(ctx)
}
