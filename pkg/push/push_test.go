package push

import (
	"context"
	"errors"
	"strings"
	"testing"

	"firebase.google.com/go/v4/messaging"
	"github.com/ArowuTest/customerconnect-backend/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMessaging struct {
	got []*messaging.Message
	err error
}

func (f *fakeMessaging) Send(_ context.Context, m *messaging.Message) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.got = append(f.got, m)
	return "projects/p/messages/1", nil
}

func TestFCMNotifierPublishesToCustomerTopic(t *testing.T) {
	fake := &fakeMessaging{}
	n := NewFCM(fake)

	id, err := n.Send(context.Background(), "64b7f0c2a1", "Campaign", "Hi Ada")
	require.NoError(t, err)
	assert.Equal(t, "projects/p/messages/1", id)

	require.Len(t, fake.got, 1)
	assert.Equal(t, "customer-64b7f0c2a1", fake.got[0].Topic)
	assert.Equal(t, "Hi Ada", fake.got[0].Notification.Body)
}

func TestFCMNotifierWrapsErrors(t *testing.T) {
	n := NewFCM(&fakeMessaging{err: errors.New("unregistered")})

	_, err := n.Send(context.Background(), "x", "t", "b")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unregistered")
}

func TestNewSimulatesWithoutCredentials(t *testing.T) {
	n, err := New(context.Background(), config.PushConfig{}, nil)
	require.NoError(t, err)

	id, err := n.Send(context.Background(), "x", "t", "b")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(id, "push-sim-"))
}
