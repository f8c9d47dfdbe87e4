package core

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eino_grocery_bot/pkg"
)

// fakeNode answers with a fixed output and counts its calls
type fakeNode struct {
	name   string
	output NodeOutput
	err    error
	calls  int
	update *pkg.ConversationContext
}

func (f *fakeNode) Execute(ctx context.Context, input NodeInput) (NodeOutput, error) {
	f.calls++
	if f.update != nil && input.Context != nil {
		*input.Context = *f.update
	}
	return f.output, f.err
}

func (f *fakeNode) GetName() string {
	return f.name
}

func (f *fakeNode) GetType() NodeType {
	return NodeTypeResolver
}

type memoryContexts struct {
	mu    sync.Mutex
	data  map[string]pkg.ConversationContext
	saves int
	err   error
}

func newMemoryContexts() *memoryContexts {
	return &memoryContexts{data: make(map[string]pkg.ConversationContext)}
}

func (m *memoryContexts) Load(ctx context.Context, id string) (pkg.ConversationContext, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.data[id], m.err
}

func (m *memoryContexts) Save(ctx context.Context, id string, c pkg.ConversationContext) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saves++
	m.data[id] = c
	return nil
}

func (m *memoryContexts) Reset(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, id)
	return nil
}

type recordingLog struct {
	records []pkg.UnansweredRecord
	err     error
}

func (r *recordingLog) Append(record pkg.UnansweredRecord) error {
	if r.err != nil {
		return r.err
	}
	r.records = append(r.records, record)
	return nil
}

type recordingSink struct{ entries []pkg.TranscriptEntry }

func (r *recordingSink) Record(ctx context.Context, entry pkg.TranscriptEntry) error {
	r.entries = append(r.entries, entry)
	return nil
}

type recordingMetrics struct {
	turns      []string
	fallbacks  []error
	unanswered int
}

func (r *recordingMetrics) ObserveTurn(resolvedBy string, d time.Duration) {
	r.turns = append(r.turns, resolvedBy)
}

func (r *recordingMetrics) ObserveFallback(err error) {
	r.fallbacks = append(r.fallbacks, err)
}

func (r *recordingMetrics) IncUnanswered() {
	r.unanswered++
}

type harness struct {
	processor *Processor
	nodes     map[State]*fakeNode
	contexts  *memoryContexts
	log       *recordingLog
	sink      *recordingSink
	metrics   *recordingMetrics
}

// newHarness binds a no-match fake node to every resolver state
func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		nodes:    make(map[State]*fakeNode),
		contexts: newMemoryContexts(),
		log:      &recordingLog{},
		sink:     &recordingSink{},
		metrics:  &recordingMetrics{},
	}
	h.processor = NewProcessor(Config{StoreName: "Zepto"}, h.contexts, h.log,
		WithTranscript(h.sink), WithMetrics(h.metrics))

	for _, state := range []State{StateGreetingCheck, StateFAQ, StateCatalog, StateFestival, StateContextFollowup, StateFallback} {
		node := &fakeNode{name: string(state)}
		h.nodes[state] = node
		require.NoError(t, h.processor.AddNode(state, node))
	}
	return h
}

func (h *harness) ask(t *testing.T, message string) *ProcessorOutput {
	t.Helper()
	out, err := h.processor.Execute(context.Background(), ProcessorInput{SessionID: "s1", Message: message})
	require.NoError(t, err)
	return out
}

func TestProcessor_GreetingShortCircuits(t *testing.T) {
	h := newHarness(t)
	h.nodes[StateGreetingCheck].output = Answered("welcome")
	h.nodes[StateFAQ].output = Answered("faq")

	out := h.ask(t, "hi, can i track my order")
	assert.Equal(t, "welcome", out.Response)
	assert.Equal(t, StateGreetingCheck, out.ResolvedBy)
	assert.Equal(t, []State{StateNewTurn, StateGreetingCheck, StateDone}, out.ExecutionPath)
	assert.Zero(t, h.nodes[StateFAQ].calls)
	assert.Zero(t, h.nodes[StateCatalog].calls)
}

func TestProcessor_CascadeOrder(t *testing.T) {
	h := newHarness(t)
	h.nodes[StateFestival].output = Answered("festival")
	h.nodes[StateFallback].output = Answered("model")

	out := h.ask(t, "happy diwali")
	assert.Equal(t, "festival", out.Response)
	assert.Equal(t, StateFestival, out.ResolvedBy)
	assert.Equal(t, []State{
		StateNewTurn, StateGreetingCheck, StateIntentPrefixCheck,
		StateFAQ, StateCatalog, StateFestival, StateDone,
	}, out.ExecutionPath)
	assert.Zero(t, h.nodes[StateFallback].calls)
}

func TestProcessor_YesNoWrapsCatalogAnswer(t *testing.T) {
	h := newHarness(t)
	h.nodes[StateFAQ].output = Answered("faq")
	h.nodes[StateCatalog].output = Answered("Apple is available under Fruits for ₹120.")

	out := h.ask(t, "Do you have apples?")
	assert.Equal(t, "Yes, Apple is available under Fruits for ₹120.", out.Response)
	assert.Equal(t, StateCatalog, out.ResolvedBy)
	assert.True(t, out.YesNoWrapped)
	assert.Zero(t, h.nodes[StateFAQ].calls, "a wrapped answer short-circuits the cascade")
}

func TestProcessor_YesNoNegative(t *testing.T) {
	h := newHarness(t)
	h.nodes[StateCatalog].output = Answered("Zepto doesn’t sell large appliances like fridge. It mainly offers groceries and small gadgets.")

	out := h.ask(t, "can i buy a fridge")
	assert.Equal(t, "No, Zepto doesn’t sell large appliances like fridge. It mainly offers groceries and small gadgets.", out.Response)
}

func TestProcessor_YesNoFallsBackToModel(t *testing.T) {
	h := newHarness(t)
	h.nodes[StateFallback].output = Answered("Yes, we stock pet food.")

	out := h.ask(t, "does zepto sell dog food")
	assert.Equal(t, "Yes, we stock pet food.", out.Response)
	assert.Equal(t, StateFallback, out.ResolvedBy)
	assert.Equal(t, []State{
		StateNewTurn, StateGreetingCheck, StateIntentPrefixCheck,
		StateCatalog, StateFallback, StateDone,
	}, out.ExecutionPath)
}

func TestProcessor_YesNoContinuesCascadeWithoutRetrying(t *testing.T) {
	h := newHarness(t)
	h.nodes[StateFAQ].output = Answered("Delivery is free above ₹99.")

	out := h.ask(t, "is there a delivery fee")
	assert.Equal(t, "Delivery is free above ₹99.", out.Response)
	assert.False(t, out.YesNoWrapped)
	assert.Equal(t, 1, h.nodes[StateCatalog].calls)
	assert.Equal(t, 1, h.nodes[StateFallback].calls)
	assert.Equal(t, []State{
		StateNewTurn, StateGreetingCheck, StateIntentPrefixCheck,
		StateCatalog, StateFallback, StateFAQ, StateDone,
	}, out.ExecutionPath)
}

func TestProcessor_LogsUnanswered(t *testing.T) {
	h := newHarness(t)
	h.nodes[StateFallback].output = NodeOutput{Error: errors.New("model timeout")}

	start := time.Now()
	out := h.ask(t, "Who won the match?")

	assert.Equal(t, Apology, out.Response)
	assert.Equal(t, StateLogUnanswered, out.ResolvedBy)
	assert.True(t, out.Logged)
	require.Len(t, h.log.records, 1)
	assert.Equal(t, "Who won the match?", h.log.records[0].Question)
	assert.False(t, h.log.records[0].Timestamp.Before(start))
	assert.Equal(t, 1, h.metrics.unanswered)
	require.Len(t, h.metrics.fallbacks, 1)
	assert.Error(t, h.metrics.fallbacks[0])
	assert.Equal(t, StateDone, out.ExecutionPath[len(out.ExecutionPath)-1])
}

func TestProcessor_UnansweredLogFailureStillApologises(t *testing.T) {
	h := newHarness(t)
	h.log.err = errors.New("disk full")

	out := h.ask(t, "???")
	assert.Equal(t, Apology, out.Response)
	assert.False(t, out.Logged)
}

func TestProcessor_NodeErrorIsAbsorbed(t *testing.T) {
	h := newHarness(t)
	h.nodes[StateFAQ].err = errors.New("boom")
	h.nodes[StateCatalog].output = Answered("Rice is available under Groceries for ₹30.")

	out := h.ask(t, "rice")
	assert.Equal(t, "Rice is available under Groceries for ₹30.", out.Response)
}

func TestProcessor_EmptyAnswerIsNoMatch(t *testing.T) {
	h := newHarness(t)
	h.nodes[StateFAQ].output = NodeOutput{Matched: true}
	h.nodes[StateCatalog].output = Answered("catalog")

	out := h.ask(t, "rice")
	assert.Equal(t, "catalog", out.Response)
}

func TestProcessor_SavesContextOnlyWhenChanged(t *testing.T) {
	h := newHarness(t)
	h.nodes[StateCatalog].output = Answered("Apple is available under Fruits for ₹120.")
	h.nodes[StateCatalog].update = &pkg.ConversationContext{LastItem: "apple", LastCategory: "fruits"}

	out := h.ask(t, "apple")
	assert.True(t, out.ContextUpdated)
	assert.Equal(t, pkg.ConversationContext{LastItem: "apple", LastCategory: "fruits"}, h.contexts.data["s1"])

	out = h.ask(t, "apple")
	assert.False(t, out.ContextUpdated)
	assert.Equal(t, 1, h.contexts.saves)
}

func TestProcessor_ContextLoadFailureStartsEmpty(t *testing.T) {
	h := newHarness(t)
	h.contexts.err = errors.New("redis down")
	h.nodes[StateFAQ].output = Answered("faq")

	out := h.ask(t, "what is zepto")
	assert.Equal(t, "faq", out.Response)
}

func TestProcessor_TranscriptAndMetrics(t *testing.T) {
	h := newHarness(t)
	h.nodes[StateFAQ].output = Answered("Zepto is a delivery app.")

	h.ask(t, "What is Zepto?")
	require.Len(t, h.sink.entries, 1)
	entry := h.sink.entries[0]
	assert.Equal(t, "s1", entry.SessionID)
	assert.Equal(t, "What is Zepto?", entry.UserMessage)
	assert.Equal(t, "Zepto is a delivery app.", entry.BotMessage)
	assert.Equal(t, "FAQ", entry.ResolvedBy)
	assert.Equal(t, []string{"FAQ"}, h.metrics.turns)
	assert.Empty(t, h.metrics.fallbacks, "fallback metrics only when the fallback ran")
}

func TestProcessor_RejectsEmptySession(t *testing.T) {
	h := newHarness(t)
	_, err := h.processor.Execute(context.Background(), ProcessorInput{Message: "hi"})
	assert.ErrorIs(t, err, ErrEmptySessionID)
}

func TestProcessor_MissingNodesMeanNoMatch(t *testing.T) {
	p := NewProcessor(Config{}, newMemoryContexts(), nil)
	out, err := p.Execute(context.Background(), ProcessorInput{SessionID: "s1", Message: "anything"})
	require.NoError(t, err)
	assert.Equal(t, Apology, out.Response)
	assert.False(t, out.Logged)
}

func TestProcessor_AddNodeValidation(t *testing.T) {
	p := NewProcessor(Config{}, newMemoryContexts(), nil)
	assert.Error(t, p.AddNode(StateFAQ, nil))
	assert.Error(t, p.AddNode(StateFAQ, &fakeNode{}))

	_, err := p.GetNode(StateFAQ)
	assert.Error(t, err)

	require.NoError(t, p.AddNode(StateFAQ, &fakeNode{name: "faq"}))
	node, err := p.GetNode(StateFAQ)
	require.NoError(t, err)
	assert.Equal(t, "faq", node.GetName())
}

func TestProcessor_UsesClockAndLocation(t *testing.T) {
	loc := time.FixedZone("IST", 5*60*60+30*60)
	fixed := time.Date(2026, 11, 7, 20, 0, 0, 0, time.UTC) // already Nov 8 in IST

	var seen time.Time
	p := NewProcessor(Config{Location: loc}, newMemoryContexts(), nil, WithClock(func() time.Time { return fixed }))
	require.NoError(t, p.AddNode(StateFestival, nodeFunc(func(input NodeInput) NodeOutput {
		seen = input.Now
		return NoMatch()
	})))

	_, err := p.Execute(context.Background(), ProcessorInput{SessionID: "s1", Message: "anything"})
	require.NoError(t, err)
	assert.Equal(t, 8, seen.Day())
}

type nodeFunc func(input NodeInput) NodeOutput

func (f nodeFunc) Execute(ctx context.Context, input NodeInput) (NodeOutput, error) {
	return f(input), nil
}

func (f nodeFunc) GetName() string {
	return "func"
}

func (f nodeFunc) GetType() NodeType {
	return NodeTypeResolver
}
