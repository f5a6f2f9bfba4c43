package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/ArowuTest/customerconnect-backend/internal/dedup"
	"github.com/ArowuTest/customerconnect-backend/internal/logger"
	"github.com/ArowuTest/customerconnect-backend/internal/models"
	"github.com/ArowuTest/customerconnect-backend/internal/repositories"
	"github.com/ArowuTest/customerconnect-backend/internal/repositories/memory"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// recorder captures every send made through one fake channel
type recorder struct {
	mu     sync.Mutex
	failTo map[string]bool
	sent   []string
	bodies []string
}

func newRecorder(failTo ...string) *recorder {
	r := &recorder{failTo: map[string]bool{}}
	for _, to := range failTo {
		r.failTo[to] = true
	}
	return r
}

func (r *recorder) record(to, body string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failTo[to] {
		return "", fmt.Errorf("provider rejected %s", to)
	}
	r.sent = append(r.sent, to)
	r.bodies = append(r.bodies, body)
	return fmt.Sprintf("ext-%d", len(r.sent)), nil
}

func (r *recorder) recipients() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.sent...)
}

type fakeSMS struct{ *recorder }

func (f fakeSMS) SendSMS(_ context.Context, to, body string) (string, error) {
	return f.record(to, body)
}

type fakeMailer struct{ *recorder }

func (f fakeMailer) Send(_ context.Context, to, _, body string) (string, error) {
	return f.record(to, body)
}

type fakePush struct{ *recorder }

func (f fakePush) Send(_ context.Context, recipientID, _, body string) (string, error) {
	return f.record(recipientID, body)
}

type fakeGenerator struct {
	reply   string
	err     error
	prompts []string
}

func (g *fakeGenerator) Generate(_ context.Context, prompt string) (string, error) {
	g.prompts = append(g.prompts, prompt)
	return g.reply, g.err
}

type testEnv struct {
	store     *repositories.Store
	owner     primitive.ObjectID
	sms       *recorder
	email     *recorder
	push      *recorder
	generator *fakeGenerator
	pipeline  *DeliveryPipeline

	segments  SegmentService
	campaigns CampaignService
	customers CustomerService
	orders    OrderService
	comms     CommunicationService
	insights  InsightService
	analytics AnalyticsService
}

func newTestEnv(t *testing.T) *testEnv {
	return newTestEnvWithStall(t, time.Minute)
}

func newTestEnvWithStall(t *testing.T, stall time.Duration) *testEnv {
	t.Helper()
	log := logger.Discard()
	store := memory.NewStore()

	env := &testEnv{
		store:     store,
		owner:     primitive.NewObjectID(),
		sms:       newRecorder(),
		email:     newRecorder(),
		push:      newRecorder(),
		generator: &fakeGenerator{},
	}
	senders := Senders{
		Email:          fakeMailer{env.email},
		SMS:            fakeSMS{env.sms},
		Push:           fakePush{env.push},
		DefaultSubject: "Message from CustomerConnect",
	}

	env.pipeline = NewDeliveryPipeline(store.Campaigns, store.Messages, store.Logs, senders, stall, log)
	env.segments = NewSegmentService(store.Segments, store.Customers, log)
	env.campaigns = NewCampaignService(store.Campaigns, store.Segments, env.segments, env.pipeline, log)
	env.customers = NewCustomerService(store.Customers, log)
	env.orders = NewOrderService(store.Orders, store.Customers, log)
	env.comms = NewCommunicationService(store.Logs, store.Customers, senders, dedup.NewMemoryFilter(time.Hour), log)
	env.insights = NewInsightService(store, env.generator, log)
	env.analytics = NewAnalyticsService(store)
	return env
}

func (e *testEnv) addCustomer(t *testing.T, name, phone string, spent float64) *models.Customer {
	t.Helper()
	c, err := e.customers.Create(context.Background(), e.owner, &models.CreateCustomerRequest{
		Name:       name,
		Email:      fmt.Sprintf("%s-%s@example.com", firstWord(name), primitive.NewObjectID().Hex()),
		Phone:      phone,
		TotalSpent: spent,
	})
	require.NoError(t, err)
	return c
}

func (e *testEnv) addSegment(t *testing.T, rs ...models.Rule) *models.Segment {
	t.Helper()
	s, err := e.segments.Create(context.Background(), e.owner, &models.CreateSegmentRequest{
		Name:  "segment",
		Rules: rs,
	})
	require.NoError(t, err)
	return s
}

func (e *testEnv) addCampaign(t *testing.T, segment *models.Segment, channel models.ChannelType, body string) *models.Campaign {
	t.Helper()
	c, err := e.campaigns.Create(context.Background(), e.owner, &models.CreateCampaignRequest{
		Name:      "campaign",
		Type:      channel,
		SegmentID: segment.ID.Hex(),
		Message:   models.CampaignMessageInput{Subject: "Hello", Content: body},
	})
	require.NoError(t, err)
	return c
}

func everyone() models.Rule {
	return models.Rule{Field: "totalSpent", Operator: ">", Value: "-1"}
}

func firstWord(s string) string {
	for i, r := range s {
		if r == ' ' {
			return s[:i]
		}
	}
	return s
}

var errBoom = errors.New("boom")
