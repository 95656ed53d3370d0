package archive

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"time"

	"github.com/glebarez/sqlite"
	gocache "github.com/patrickmn/go-cache"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/arloliu/canz/blob"
	"github.com/arloliu/canz/errs"
	"github.com/arloliu/canz/internal/options"
)

// Archive is a SQLite-backed trace store.
type Archive struct {
	db    *gorm.DB
	cache *gocache.Cache
	ttl   time.Duration
	log   *logrus.Logger
}

// Open opens or creates the archive database at path and migrates its schema.
func Open(path string, opts ...Option) (*Archive, error) {
	cfg := defaultConfig()
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	// By default only log errors but print every query when query logging is enabled.
	gormLog := logger.Default.LogMode(logger.Error)
	if cfg.queryLogging {
		gormLog = logger.Default.LogMode(logger.Info)
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{Logger: gormLog})
	if err != nil {
		return nil, fmt.Errorf("error opening archive %s: %w", path, err)
	}
	if err := db.AutoMigrate(&Trace{}); err != nil {
		return nil, fmt.Errorf("error auto migrating archive: %w", err)
	}

	cfg.log.WithField("path", path).Debug("archive opened")

	return &Archive{
		db:    db,
		cache: gocache.New(cfg.cacheTTL, 2*cfg.cacheTTL),
		ttl:   cfg.cacheTTL,
		log:   cfg.log,
	}, nil
}

// Close releases the database connection.
func (a *Archive) Close() error {
	database, err := a.db.DB()
	if err != nil {
		return fmt.Errorf("error while getting current connection: %w", err)
	}
	if err := database.Close(); err != nil {
		return fmt.Errorf("error while closing archive: %w", err)
	}
	a.cache.Flush()

	return nil
}

func cacheKey(channel string, seq uint32) string {
	return channel + "/" + strconv.FormatUint(uint64(seq), 10)
}

// Put validates a trace and stores it under (channel, seq).
//
// A trace written with blob.WithChannel must have been written for the same channel.
//
// Returns:
//   - error: errs.ErrInvalidChannel, errs.ErrTraceExists, trace decoding errors or database errors
func (a *Archive) Put(ctx context.Context, channel string, seq uint32, data []byte) error {
	if channel == "" {
		return errs.ErrInvalidChannel
	}

	decoder, err := blob.NewTraceDecoder(data)
	if err != nil {
		return fmt.Errorf("invalid trace: %w", err)
	}
	if id := decoder.ChannelID(); id != 0 && !decoder.MatchesChannel(channel) {
		return fmt.Errorf("%w: trace was written for channel id %#x, not %s", errs.ErrInvalidChannel, id, channel)
	}
	if err := decoder.Verify(); err != nil {
		return fmt.Errorf("invalid trace: %w", err)
	}

	header := decoder.Header()
	trace := &Trace{
		Channel:     channel,
		Seq:         seq,
		StartTime:   header.StartTimeAsTime().UTC(),
		SampleCount: decoder.Len(),
		BlockCount:  decoder.BlockCount(),
		Data:        slices.Clone(data),
	}

	err = a.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&Trace{}).Where("channel = ? AND seq = ?", channel, seq).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return fmt.Errorf("%w: %s/%d", errs.ErrTraceExists, channel, seq)
		}

		return tx.Create(trace).Error
	})
	if err != nil {
		return err
	}

	a.log.WithFields(logrus.Fields{
		"channel": channel,
		"seq":     seq,
		"samples": trace.SampleCount,
		"bytes":   len(data),
	}).Info("trace stored")

	return nil
}

func (a *Archive) find(ctx context.Context, channel string, seq uint32) (*Trace, error) {
	var trace Trace
	err := a.db.WithContext(ctx).Where("channel = ? AND seq = ?", channel, seq).First(&trace).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s/%d", errs.ErrTraceNotFound, channel, seq)
		}

		return nil, err
	}

	return &trace, nil
}

// Get returns the decoded samples stored under (channel, seq).
//
// Decoded samples are cached; the returned slice is a copy the caller may modify.
func (a *Archive) Get(ctx context.Context, channel string, seq uint32) ([]int32, error) {
	key := cacheKey(channel, seq)
	if cached, ok := a.cache.Get(key); ok {
		a.log.WithField("key", key).Debug("trace cache hit")
		samples, _ := cached.([]int32)

		return slices.Clone(samples), nil
	}

	trace, err := a.find(ctx, channel, seq)
	if err != nil {
		return nil, err
	}

	decoder, err := blob.NewTraceDecoder(trace.Data)
	if err != nil {
		return nil, fmt.Errorf("stored trace %s: %w", key, err)
	}
	samples, err := decoder.Samples()
	if err != nil {
		return nil, fmt.Errorf("stored trace %s: %w", key, err)
	}

	if a.ttl != 0 {
		a.cache.Set(key, samples, gocache.DefaultExpiration)
	}

	return slices.Clone(samples), nil
}

// Raw returns the encoded trace stored under (channel, seq).
func (a *Archive) Raw(ctx context.Context, channel string, seq uint32) ([]byte, error) {
	trace, err := a.find(ctx, channel, seq)
	if err != nil {
		return nil, err
	}

	return trace.Data, nil
}

// List describes every trace stored for channel in sequence order.
func (a *Archive) List(ctx context.Context, channel string) ([]TraceInfo, error) {
	var traces []Trace
	err := a.db.WithContext(ctx).Where("channel = ?", channel).Order("seq").Find(&traces).Error
	if err != nil {
		return nil, err
	}

	infos := make([]TraceInfo, 0, len(traces))
	for i := range traces {
		infos = append(infos, traces[i].info())
	}

	return infos, nil
}

// Delete removes the trace stored under (channel, seq).
func (a *Archive) Delete(ctx context.Context, channel string, seq uint32) error {
	result := a.db.WithContext(ctx).Where("channel = ? AND seq = ?", channel, seq).Delete(&Trace{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: %s/%d", errs.ErrTraceNotFound, channel, seq)
	}

	a.cache.Delete(cacheKey(channel, seq))
	a.log.WithFields(logrus.Fields{"channel": channel, "seq": seq}).Info("trace deleted")

	return nil
}
