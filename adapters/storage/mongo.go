package storage

import (
	"context"
	stderrors "errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"

	"ebill/internal/errors"
	"ebill/internal/logging"
)

// billDocument is the BSON shape of a stored bill
type billDocument struct {
	ID            primitive.ObjectID `bson:"_id,omitempty"`
	CustomerID    int                `bson:"customerId"`
	CustomerName  string             `bson:"customerName"`
	UnitsConsumed int                `bson:"unitsConsumed"`
	Amount        float64            `bson:"amount"`
	Surcharge     float64            `bson:"surcharge"`
	TotalAmount   float64            `bson:"totalAmount"`
}

func toDocument(r *BillRecord) billDocument {
	return billDocument{
		CustomerID:    r.CustomerID,
		CustomerName:  r.CustomerName,
		UnitsConsumed: r.UnitsConsumed,
		Amount:        r.Amount,
		Surcharge:     r.Surcharge,
		TotalAmount:   r.TotalAmount,
	}
}

func fromDocument(d *billDocument) *BillRecord {
	r := &BillRecord{
		CustomerID:    d.CustomerID,
		CustomerName:  d.CustomerName,
		UnitsConsumed: d.UnitsConsumed,
		Amount:        d.Amount,
		Surcharge:     d.Surcharge,
		TotalAmount:   d.TotalAmount,
	}
	if !d.ID.IsZero() {
		r.ID = d.ID.Hex()
	}
	return r
}

// MongoStore stores bills in a MongoDB collection. The database and
// collection are created by the server on first insert.
type MongoStore struct {
	client     *mongo.Client
	collection *mongo.Collection
	log        *zap.Logger
}

// NewMongoStore connects to uri and verifies the primary is reachable
func NewMongoStore(ctx context.Context, uri, database, collection string) (*MongoStore, error) {
	if uri == "" {
		return nil, errors.Connection("no mongo connection string configured (set EBILL_STORAGE_URI)", nil)
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, errors.Connection("connect to mongo", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.WithoutCancel(ctx))
		return nil, errors.Connection("ping mongo", err)
	}

	log := logging.Named("storage.mongo")
	log.Debug("connected", zap.String("database", database), zap.String("collection", collection))

	return &MongoStore{
		client:     client,
		collection: client.Database(database).Collection(collection),
		log:        log,
	}, nil
}

func (s *MongoStore) Save(ctx context.Context, record *BillRecord) (string, error) {
	res, err := s.collection.InsertOne(ctx, toDocument(record))
	if err != nil {
		return "", errors.Write("insert bill", err)
	}

	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		s.log.Warn("unexpected inserted id type", zap.Any("id", res.InsertedID))
		return "", nil
	}
	return oid.Hex(), nil
}

func (s *MongoStore) Get(ctx context.Context, id string) (*BillRecord, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, errors.NotFound("bill", id)
	}

	var doc billDocument
	err = s.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
	if stderrors.Is(err, mongo.ErrNoDocuments) {
		return nil, errors.NotFound("bill", id)
	}
	if err != nil {
		return nil, errors.Write("find bill", err)
	}
	return fromDocument(&doc), nil
}

func (s *MongoStore) List(ctx context.Context, filter *ListFilter) ([]*BillRecord, error) {
	query := bson.M{}
	if filter != nil && filter.CustomerID != nil {
		query["customerId"] = *filter.CustomerID
	}

	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	if filter != nil && filter.Limit > 0 {
		opts.SetLimit(int64(filter.Limit))
	}

	cursor, err := s.collection.Find(ctx, query, opts)
	if err != nil {
		return nil, errors.Write("find bills", err)
	}

	var docs []billDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, errors.Write("decode bills", err)
	}

	results := make([]*BillRecord, 0, len(docs))
	for i := range docs {
		results = append(results, fromDocument(&docs[i]))
	}
	return results, nil
}

func (s *MongoStore) Close(ctx context.Context) error {
	if err := s.client.Disconnect(ctx); err != nil {
		return errors.Connection("disconnect from mongo", err)
	}
	return nil
}
