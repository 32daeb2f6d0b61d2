// Package config provides runtime configuration values for the service.
package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds configuration knobs for the HTTP server, cart storage,
// collaborator endpoints, and the audit event pipeline.
type Config struct {
	HTTPAddr        string
	ShutdownTimeout time.Duration

	// Cart persistence.
	CartNamespace string
	StorageKind   string // memory | file | postgres
	StorageDir    string
	DatabaseURL   string

	// Collaborator services.
	CatalogBaseURL  string
	CheckoutBaseURL string

	// Audit event pipeline.
	KafkaBrokers     string
	AuditTopic       string
	AuditQueueBuffer int
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func atoienv(key string, def int) int {
	v := getenv(key, "")
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func durenvs(key string, defSec int) time.Duration {
	sec := atoienv(key, defSec)
	return time.Duration(sec) * time.Second
}

// Load collects configuration from environment with defaults.
func Load() Config {
	return Config{
		HTTPAddr:        getenv("HTTP_ADDR", ":8080"),
		ShutdownTimeout: durenvs("SHUTDOWN_TIMEOUT", 15),

		CartNamespace: getenv("CART_NAMESPACE", "cocoguard_cart"),
		StorageKind:   getenv("CART_STORAGE", "memory"),
		StorageDir:    getenv("CART_STORAGE_DIR", "carts"),
		DatabaseURL:   os.Getenv("DATABASE_URL"),

		CatalogBaseURL:  getenv("CATALOG_BASE_URL", "http://localhost:9090"),
		CheckoutBaseURL: os.Getenv("CHECKOUT_BASE_URL"),

		KafkaBrokers:     os.Getenv("KAFKA_BROKERS"),
		AuditTopic:       getenv("AUDIT_TOPIC", "cocoguard.cart.audit"),
		AuditQueueBuffer: atoienv("AUDIT_QUEUE_BUFFER", 128),
	}
}
