package container

import (
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/my-maps-api/config"
	"github.com/oksasatya/my-maps-api/internal/domain/store"
	"github.com/oksasatya/my-maps-api/pkg/helpers"
)

// app-level container to share constructed components across packages.
// cmd/main.go fills it once at startup; the router wires modules from it.

var (
	cfg         *config.Config
	logger      *logrus.Logger
	entityStore store.EntityStore
	blobStore   store.BlobStore
	redisClient *redis.Client
	esClient    *elasticsearch.Client
	rabbitPub   *helpers.RabbitPublisher
)

func SetConfig(c *config.Config)              { cfg = c }
func GetConfig() *config.Config               { return cfg }
func SetLogger(l *logrus.Logger)              { logger = l }
func GetLogger() *logrus.Logger               { return logger }
func SetEntityStore(s store.EntityStore)      { entityStore = s }
func GetEntityStore() store.EntityStore       { return entityStore }
func SetBlobStore(b store.BlobStore)          { blobStore = b }
func GetBlobStore() store.BlobStore           { return blobStore }
func SetRedis(r *redis.Client)                { redisClient = r }
func GetRedis() *redis.Client                 { return redisClient }
func SetES(c *elasticsearch.Client)           { esClient = c }
func GetES() *elasticsearch.Client            { return esClient }
func SetRabbitPub(p *helpers.RabbitPublisher) { rabbitPub = p }
func GetRabbitPub() *helpers.RabbitPublisher  { return rabbitPub }

// Reset clears every component; used between tests.
func Reset() {
	cfg, logger = nil, nil
	entityStore, blobStore = nil, nil
	redisClient, esClient, rabbitPub = nil, nil, nil
}
