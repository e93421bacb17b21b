package publishers

import (
	"context"
	"testing"

	"cloud.google.com/go/pubsub"
	"cloud.google.com/go/pubsub/pstest"
	"github.com/Adda-Baaj/metrics-harvester/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPubSubPublisherPublishes(t *testing.T) {
	// Use the in-memory Pub/Sub emulator.
	server := pstest.NewServer()
	defer server.Close()
	t.Setenv("PUBSUB_EMULATOR_HOST", server.Addr)

	ctx := context.Background()
	admin, err := pubsub.NewClient(ctx, "test-project")
	require.NoError(t, err)
	defer admin.Close()
	_, err = admin.CreateTopic(ctx, "datasets")
	require.NoError(t, err)

	pub, err := newPubSubPublisher(ctx, PublisherConfig{
		ID:     "gcp",
		Type:   TypePubSub,
		PubSub: &PubSubPublisherConfig{ProjectID: "test-project", Topic: "datasets"},
	}, nil)
	require.NoError(t, err)

	err = pub.Publish(ctx, NewEvent(domain.Result{Endpoint: "relay_users"}))
	require.NoError(t, err)

	msgs := server.Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, "relay_users", msgs[0].Attributes["endpoint"])

	fanout := NewFanout([]Publisher{pub})
	assert.NoError(t, fanout.Close())
}
