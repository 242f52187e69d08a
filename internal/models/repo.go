package models

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Keys of the records kept in the key-value store.
const (
	ProfileKey     = "userProfile"
	CatalogKey     = "books"
	CurrentUserKey = "currentUser"
	UserKey        = "user"
)

const KVColName = "kv"

// KVStore is the persistence substrate shared by the profile and catalog screens.
type KVStore interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}

// MemoryStore keeps records in process memory. Used as the default backend and in tests.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string]string)}
}

func (m *MemoryStore) Get(ctx context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	value, ok := m.data[key]
	return value, ok, nil
}

func (m *MemoryStore) Set(ctx context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *MemoryStore) Remove(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

type kvDocument struct {
	Key       string    `bson:"_id"`
	Value     string    `bson:"value"`
	UpdatedAt time.Time `bson:"updated_at"`
}

type MongodbRepo struct {
	mongodbClient *mongo.Client
	dbName        string
}

func MongodbNewRepo(mongodbClient *mongo.Client, dbName string) *MongodbRepo {
	return &MongodbRepo{
		mongodbClient: mongodbClient,
		dbName:        dbName,
	}
}

func (mdb *MongodbRepo) GetCollection(ctx context.Context, dbName, colName string) (*mongo.Collection, error) {
	if mdb.mongodbClient == nil {
		return nil, fmt.Errorf("mongodb client is not initialized")
	}
	return mdb.mongodbClient.Database(dbName).Collection(colName), nil
}

func (mdb *MongodbRepo) Get(ctx context.Context, key string) (string, bool, error) {
	col, err := mdb.GetCollection(ctx, mdb.dbName, KVColName)
	if err != nil {
		return "", false, err
	}

	var doc kvDocument
	err = col.FindOne(ctx, bson.M{"_id": key}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("error reading %q: %w", key, err)
	}
	return doc.Value, true, nil
}

func (mdb *MongodbRepo) Set(ctx context.Context, key, value string) error {
	col, err := mdb.GetCollection(ctx, mdb.dbName, KVColName)
	if err != nil {
		return err
	}

	update := bson.M{
		"$set": bson.M{
			"value":      value,
			"updated_at": time.Now(),
		},
	}
	opts := options.Update().SetUpsert(true)
	if _, err := col.UpdateOne(ctx, bson.M{"_id": key}, update, opts); err != nil {
		return fmt.Errorf("error writing %q: %w", key, err)
	}
	return nil
}

func (mdb *MongodbRepo) Remove(ctx context.Context, key string) error {
	col, err := mdb.GetCollection(ctx, mdb.dbName, KVColName)
	if err != nil {
		return err
	}
	if _, err := col.DeleteOne(ctx, bson.M{"_id": key}); err != nil {
		return fmt.Errorf("error removing %q: %w", key, err)
	}
	return nil
}

// RedisRepo stores every record under namespace:key with no expiry.
type RedisRepo struct {
	client    redis.UniversalClient
	namespace string
}

func RedisNewRepo(client redis.UniversalClient, namespace string) *RedisRepo {
	return &RedisRepo{
		client:    client,
		namespace: namespace,
	}
}

func (r *RedisRepo) key(key string) string {
	if r.namespace == "" {
		return key
	}
	return r.namespace + ":" + key
}

func (r *RedisRepo) Get(ctx context.Context, key string) (string, bool, error) {
	value, err := r.client.Get(ctx, r.key(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("error reading %q: %w", key, err)
	}
	return value, true, nil
}

func (r *RedisRepo) Set(ctx context.Context, key, value string) error {
	if err := r.client.Set(ctx, r.key(key), value, 0).Err(); err != nil {
		return fmt.Errorf("error writing %q: %w", key, err)
	}
	return nil
}

func (r *RedisRepo) Remove(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, r.key(key)).Err(); err != nil {
		return fmt.Errorf("error removing %q: %w", key, err)
	}
	return nil
}
