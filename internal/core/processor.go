package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"eino_grocery_bot/internal/text"
	"eino_grocery_bot/pkg"
	"eino_grocery_bot/src/logger"
)

// Apology is returned when every state failed to answer
const Apology = "Sorry, I don’t have an answer for that yet — but I’ll learn soon!"

var ErrEmptySessionID = errors.New("session id cannot be empty")

// Processor runs one turn through the state machine
//
//	NEW_TURN -> GREETING_CHECK -> INTENT_PREFIX_CHECK -> FAQ -> CATALOG ->
//	FESTIVAL -> CONTEXT_FOLLOWUP -> FALLBACK -> LOG_UNANSWERED -> DONE
//
// Any state that answers jumps to DONE. Turns of one session must not
// overlap; independent sessions may run concurrently.
type Processor struct {
	nodes      map[State]Node
	config     Config
	flow       GraphFlow
	contexts   ContextStore
	unanswered UnansweredLog
	transcript TranscriptSink
	metrics    Metrics
	now        func() time.Time
}

// Option configures optional collaborators of the processor
type Option func(*Processor)

// WithTranscript emits a transcript entry for every turn
func WithTranscript(sink TranscriptSink) Option {
	return func(p *Processor) { p.transcript = sink }
}

// WithMetrics records per-turn metrics
func WithMetrics(m Metrics) Option {
	return func(p *Processor) { p.metrics = m }
}

// WithClock overrides the time source
func WithClock(now func() time.Time) Option {
	return func(p *Processor) { p.now = now }
}

// NewProcessor creates a processor. contexts and unanswered are required.
func NewProcessor(config Config, contexts ContextStore, unanswered UnansweredLog, opts ...Option) *Processor {
	flow := config.Flow
	if len(flow.Cascade) == 0 {
		flow = DefaultFlow()
	}

	p := &Processor{
		nodes:      make(map[State]Node),
		config:     config,
		flow:       flow,
		contexts:   contexts,
		unanswered: unanswered,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// AddNode binds a node to a state
func (p *Processor) AddNode(state State, node Node) error {
	if node == nil {
		return fmt.Errorf("node cannot be nil")
	}
	if node.GetName() == "" {
		return fmt.Errorf("node name cannot be empty")
	}

	p.nodes[state] = node
	logger.Debug().Str("state", string(state)).Str("node", node.GetName()).Str("type", string(node.GetType())).Msg("➕ Added node")
	return nil
}

// GetNode retrieves the node bound to a state
func (p *Processor) GetNode(state State) (Node, error) {
	node, exists := p.nodes[state]
	if !exists {
		return nil, fmt.Errorf("node not found: %s", state)
	}
	return node, nil
}

// ResetSession forgets the context of a session
func (p *Processor) ResetSession(ctx context.Context, sessionID string) error {
	return p.contexts.Reset(ctx, sessionID)
}

// Execute answers one utterance. The returned response is never empty;
// an error is only returned for an invalid input.
func (p *Processor) Execute(ctx context.Context, input ProcessorInput) (*ProcessorOutput, error) {
	if input.SessionID == "" {
		return nil, ErrEmptySessionID
	}

	startTime := p.now()
	ctx, log := logger.StartTurn(ctx, input.SessionID)

	convCtx, err := p.contexts.Load(ctx, input.SessionID)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to load session context, starting empty")
		convCtx = pkg.ConversationContext{}
	}
	before := convCtx

	nodeInput := NodeInput{
		Raw:       input.Message,
		Query:     text.Normalize(input.Message),
		SessionID: input.SessionID,
		Context:   &convCtx,
		Now:       startTime.In(p.location()),
	}

	output := &ProcessorOutput{ExecutionPath: []State{StateNewTurn}}
	p.run(ctx, nodeInput, output)

	if convCtx != before {
		if err := p.contexts.Save(ctx, input.SessionID, convCtx); err != nil {
			log.Warn().Err(err).Msg("Failed to save session context")
		} else {
			output.ContextUpdated = true
		}
	}

	output.ExecutionPath = append(output.ExecutionPath, StateDone)
	duration := p.now().Sub(startTime)
	output.ProcessingTime = duration.Milliseconds()

	if p.transcript != nil {
		entry := pkg.TranscriptEntry{
			Timestamp:   startTime,
			SessionID:   input.SessionID,
			UserMessage: input.Message,
			BotMessage:  output.Response,
			ResolvedBy:  string(output.ResolvedBy),
		}
		if err := p.transcript.Record(ctx, entry); err != nil {
			log.Warn().Err(err).Msg("Failed to record transcript")
		}
	}
	if p.metrics != nil {
		p.metrics.ObserveTurn(string(output.ResolvedBy), duration)
	}

	log.Info().
		Str("resolved_by", string(output.ResolvedBy)).
		Interface("path", output.ExecutionPath).
		Bool("context_updated", output.ContextUpdated).
		Dur("duration", duration).
		Msg("🏁 Turn completed")

	return output, nil
}

// run walks the states and fills output.Response and output.ResolvedBy
func (p *Processor) run(ctx context.Context, input NodeInput, output *ProcessorOutput) {
	output.ExecutionPath = append(output.ExecutionPath, StateGreetingCheck)
	if answer, ok := p.resolve(ctx, StateGreetingCheck, input); ok {
		output.Response, output.ResolvedBy = answer, StateGreetingCheck
		return
	}

	output.ExecutionPath = append(output.ExecutionPath, StateIntentPrefixCheck)
	tried := make(map[State]bool)
	if IsYesNoQuestion(input.Query) {
		for _, state := range p.flow.YesNoStates {
			tried[state] = true
			output.ExecutionPath = append(output.ExecutionPath, state)
			if answer, ok := p.resolve(ctx, state, input); ok {
				output.Response, output.ResolvedBy = WrapYesNo(answer), state
				output.YesNoWrapped = true
				return
			}
		}
	}

	for _, state := range p.flow.Cascade {
		if tried[state] {
			continue
		}
		output.ExecutionPath = append(output.ExecutionPath, state)
		if answer, ok := p.resolve(ctx, state, input); ok {
			output.Response, output.ResolvedBy = answer, state
			return
		}
	}

	output.ExecutionPath = append(output.ExecutionPath, StateLogUnanswered)
	output.Response, output.ResolvedBy = Apology, StateLogUnanswered
	output.Logged = p.logUnanswered(ctx, input)
}

// resolve executes the node bound to state. A missing node, a node error or
// an empty answer all count as no match.
func (p *Processor) resolve(ctx context.Context, state State, input NodeInput) (string, bool) {
	node, exists := p.nodes[state]
	if !exists {
		return "", false
	}

	out, err := node.Execute(ctx, input)
	if err == nil {
		err = out.Error
	}
	if state == StateFallback && p.metrics != nil {
		p.metrics.ObserveFallback(err)
	}
	if err != nil {
		logger.FromContext(ctx).Warn().Err(err).Str("state", string(state)).Msg("⚠️ Node failed, falling through")
		return "", false
	}

	if !out.Matched || out.Answer == "" {
		return "", false
	}
	return out.Answer, true
}

func (p *Processor) logUnanswered(ctx context.Context, input NodeInput) bool {
	if p.metrics != nil {
		p.metrics.IncUnanswered()
	}
	if p.unanswered == nil {
		return false
	}

	record := pkg.UnansweredRecord{Question: input.Raw, Timestamp: p.now()}
	if err := p.unanswered.Append(record); err != nil {
		logger.FromContext(ctx).Warn().Err(err).Msg("Failed to log unanswered question")
		return false
	}
	return true
}

func (p *Processor) location() *time.Location {
	if p.config.Location != nil {
		return p.config.Location
	}
	return time.Local
}
