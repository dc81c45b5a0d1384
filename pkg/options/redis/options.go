// Package redisopts provides options for Redis client configuration.
package redisopts

import (
	"fmt"
	"time"

	"github.com/spf13/pflag"
)

// Options contains Redis client configuration.
type Options struct {
	// Addr is the Redis server address (host:port).
	Addr string `json:"addr" mapstructure:"addr"`

	// Password for authentication.
	Password string `json:"password" mapstructure:"password"`

	// Database index.
	Database int `json:"database" mapstructure:"database"`

	// PoolSize is the connection pool size.
	PoolSize int `json:"pool-size" mapstructure:"pool-size"`

	// DialTimeout for establishing new connections.
	DialTimeout time.Duration `json:"dial-timeout" mapstructure:"dial-timeout"`

	// ReadTimeout for socket reads.
	ReadTimeout time.Duration `json:"read-timeout" mapstructure:"read-timeout"`

	// WriteTimeout for socket writes.
	WriteTimeout time.Duration `json:"write-timeout" mapstructure:"write-timeout"`
}

// NewOptions creates new Options with defaults.
func NewOptions() *Options {
	return &Options{
		Addr:         "localhost:6379",
		Database:     0,
		PoolSize:     10,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	}
}

// AddFlags adds flags to the flagset.
func (o *Options) AddFlags(fs *pflag.FlagSet) {
	fs.StringVar(&o.Addr, "redis.addr", o.Addr, "Redis server address (host:port).")
	fs.StringVar(&o.Password, "redis.password", o.Password, "Redis password for authentication.")
	fs.IntVar(&o.Database, "redis.database", o.Database, "Redis database index.")
	fs.IntVar(&o.PoolSize, "redis.pool-size", o.PoolSize, "Redis connection pool size.")
	fs.DurationVar(&o.DialTimeout, "redis.dial-timeout", o.DialTimeout, "Timeout for establishing new connections.")
	fs.DurationVar(&o.ReadTimeout, "redis.read-timeout", o.ReadTimeout, "Timeout for socket reads.")
	fs.DurationVar(&o.WriteTimeout, "redis.write-timeout", o.WriteTimeout, "Timeout for socket writes.")
}

// Validate validates the options.
func (o *Options) Validate() error {
	if o == nil {
		return nil
	}

	if o.Addr == "" {
		return fmt.Errorf("redis addr is required")
	}
	if o.Database < 0 || o.Database > 15 {
		return fmt.Errorf("redis database %d is out of range", o.Database)
	}
	return nil
}
