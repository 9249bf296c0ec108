package main

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/example/nova-commerce/internal/infrastructure/kafka"
	"github.com/example/nova-commerce/internal/logger"
)

func TestCloseProducer(t *testing.T) {
	log := logger.For("test")

	assert.NotPanics(t, func() { closeProducer(nil, log) })
	assert.NotPanics(t, func() {
		closeProducer(kafka.NewProducer([]string{"localhost:9092"}, "nova-events"), log)
	})
}

func TestLoadSeed_DefaultWhenPathEmpty(t *testing.T) {
	seed, err := loadSeed("")

	assert.NoError(t, err)
	assert.Len(t, seed.Products, 8)
}
