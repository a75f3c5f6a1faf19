package config

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// DB holds the database connections
type DB struct {
	Postgres *gorm.DB
	Mongo    *mongo.Client
	// Redis is nil when REDIS_ADDR is unset; the author cache is then disabled.
	Redis *redis.Client
}

// InitDB initializes and returns the database connections
func InitDB(ctx context.Context, cfg *Config) (*DB, error) {
	postgresDB, err := initPostgres(cfg)
	if err != nil {
		return nil, errors.Wrap(err, "connect to PostgreSQL")
	}

	mongoClient, err := initMongo(ctx, cfg)
	if err != nil {
		closePostgres(postgresDB)
		return nil, errors.Wrap(err, "connect to MongoDB")
	}

	db := &DB{Postgres: postgresDB, Mongo: mongoClient}
	if cfg.RedisAddr != "" {
		db.Redis = initRedis(ctx, cfg)
	}
	return db, nil
}

// initPostgres initializes the PostgreSQL database connection using GORM
func initPostgres(cfg *Config) (*gorm.DB, error) {
	gormCfg := &gorm.Config{
		// Unique violations surface as gorm.ErrDuplicatedKey.
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Warn),
	}
	if cfg.IsDevelopment() {
		gormCfg.Logger = gormlogger.Default.LogMode(gormlogger.Info)
	}
	db, err := gorm.Open(postgres.Open(cfg.PostgresConnStr), gormCfg)
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if err = sqlDB.Ping(); err != nil {
		return nil, err
	}

	logrus.Info("connected to PostgreSQL")
	return db, nil
}

// initMongo initializes the MongoDB connection. Every operation on the
// client is bounded by the store timeout.
func initMongo(ctx context.Context, cfg *Config) (*mongo.Client, error) {
	clientOptions := options.Client().ApplyURI(cfg.MongoURI).SetTimeout(cfg.StoreTimeout)
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, err
	}
	if err = client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}

	logrus.WithField("database", cfg.MongoDatabase).Info("connected to MongoDB")
	return client, nil
}

// initRedis never fails: an unreachable cache only costs extra user lookups.
func initRedis(ctx context.Context, cfg *Config) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.RedisAddr,
		Password:     cfg.RedisPassword,
		DB:           cfg.RedisDB,
		ReadTimeout:  cfg.StoreTimeout,
		WriteTimeout: cfg.StoreTimeout,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		logrus.WithError(err).WithField("addr", cfg.RedisAddr).Warn("redis not reachable, author cache will miss")
	} else {
		logrus.WithField("addr", cfg.RedisAddr).Info("connected to Redis")
	}
	return client
}

// MongoDatabase returns the configured application database
func (db *DB) MongoDatabase(cfg *Config) *mongo.Database {
	return db.Mongo.Database(cfg.MongoDatabase)
}

// CloseDB closes the database connections
func (db *DB) CloseDB() {
	closePostgres(db.Postgres)

	if db.Mongo != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := db.Mongo.Disconnect(ctx); err != nil {
			logrus.WithError(err).Error("closing MongoDB connection")
		} else {
			logrus.Info("MongoDB connection closed")
		}
	}

	if db.Redis != nil {
		if err := db.Redis.Close(); err != nil {
			logrus.WithError(err).Error("closing Redis connection")
		}
	}
}

func closePostgres(pg *gorm.DB) {
	if pg == nil {
		return
	}
	sqlDB, err := pg.DB()
	if err != nil {
		logrus.WithError(err).Error("getting SQL DB from GORM")
		return
	}
	if err := sqlDB.Close(); err != nil {
		logrus.WithError(err).Error("closing PostgreSQL connection")
		return
	}
	logrus.Info("PostgreSQL connection closed")
}
