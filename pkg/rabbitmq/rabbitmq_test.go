package rabbitmq

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewClientRejectsBadURL(t *testing.T) {
	_, err := NewClient(Config{URL: "http://not-amqp"})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to connect to RabbitMQ")
}

func TestClientWithoutChannel(t *testing.T) {
	c := &Client{}
	assert.Error(t, c.Publish("", OrderQueue, []byte("{}")))
	assert.Error(t, c.PublishOrderCreated(map[string]string{"order_id": "o-1"}))
	assert.Error(t, c.ConsumeOrderEvents(nil))
	assert.NoError(t, c.Close())
}
