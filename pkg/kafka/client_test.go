package kafka

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBrokers(t *testing.T) {
	assert.Equal(t, []string{"a:9092", "b:9092"}, brokers(" a:9092, ,b:9092 "))
	assert.Nil(t, brokers(""))
}

func TestAttemptCounter(t *testing.T) {
	c := newAttemptCounter()
	assert.Equal(t, 1, c.inc("0:1"))
	assert.Equal(t, 2, c.inc("0:1"))
	assert.Equal(t, 1, c.inc("0:2"))
	c.reset("0:1")
	assert.Equal(t, 1, c.inc("0:1"))
}
