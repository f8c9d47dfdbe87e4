package core

import (
	"context"
	"time"

	"eino_grocery_bot/pkg"
)

// State is one step of the per-turn state machine
type State string

const (
	StateNewTurn           State = "NEW_TURN"
	StateGreetingCheck     State = "GREETING_CHECK"
	StateIntentPrefixCheck State = "INTENT_PREFIX_CHECK"
	StateFAQ               State = "FAQ"
	StateCatalog           State = "CATALOG"
	StateFestival          State = "FESTIVAL"
	StateContextFollowup   State = "CONTEXT_FOLLOWUP"
	StateFallback          State = "FALLBACK"
	StateLogUnanswered     State = "LOG_UNANSWERED"
	StateDone              State = "DONE"
)

// Node represents a single resolver bound to a state of the flow
type Node interface {
	Execute(ctx context.Context, input NodeInput) (NodeOutput, error)
	GetName() string
	GetType() NodeType
}

// NodeType defines the different types of nodes in the flow
type NodeType string

const (
	NodeTypeGreeting NodeType = "greeting"
	NodeTypeResolver NodeType = "resolver"
	NodeTypeGateway  NodeType = "gateway"
)

// NodeInput contains the input data for a node
type NodeInput struct {
	// Raw is the utterance as typed; only the fallback gateway sees it
	Raw string `json:"raw"`
	// Query is the normalized utterance
	Query     string `json:"query"`
	SessionID string `json:"session_id"`
	// Context is the session context; the catalog and follow-up resolvers
	// overwrite it on a structured match
	Context *pkg.ConversationContext `json:"context"`
	Now     time.Time                `json:"now"`
}

// NodeOutput contains the output data from a node. Matched false is the
// "no match" signal and makes the flow fall through to the next state.
type NodeOutput struct {
	Answer  string `json:"answer,omitempty"`
	Matched bool   `json:"matched"`
	// Error is an absorbed failure, logged but never shown to the user
	Error error `json:"-"`
}

// NoMatch is the output of a resolver that could not answer
func NoMatch() NodeOutput {
	return NodeOutput{}
}

// Answered is the output of a resolver that produced an answer
func Answered(answer string) NodeOutput {
	return NodeOutput{Answer: answer, Matched: true}
}

// ProcessorInput is the main input for the processor
type ProcessorInput struct {
	SessionID string `json:"session_id"`
	Message   string `json:"message"`
}

// ProcessorOutput is the main output from the processor
type ProcessorOutput struct {
	Response string `json:"response"`
	// ResolvedBy is the state whose node produced Response, or
	// StateLogUnanswered for the apology
	ResolvedBy     State   `json:"resolved_by"`
	ExecutionPath  []State `json:"execution_path"`
	YesNoWrapped   bool    `json:"yes_no_wrapped"`
	ContextUpdated bool    `json:"context_updated"`
	Logged         bool    `json:"logged"`
	ProcessingTime int64   `json:"processing_time_ms"`
}

// GraphFlow is the fixed order of resolver states tried after the greeting
// and intent-prefix checks
type GraphFlow struct {
	Cascade []State `json:"cascade"`
	// YesNoStates are tried first, in order, for yes/no questions
	YesNoStates []State `json:"yes_no_states"`
}

// DefaultFlow returns FAQ -> CATALOG -> FESTIVAL -> CONTEXT_FOLLOWUP -> FALLBACK
func DefaultFlow() GraphFlow {
	return GraphFlow{
		Cascade:     []State{StateFAQ, StateCatalog, StateFestival, StateContextFollowup, StateFallback},
		YesNoStates: []State{StateCatalog, StateFallback},
	}
}

// Config holds all configuration for the processor and its nodes
type Config struct {
	StoreName     string         `json:"store_name"`
	FAQThreshold  int            `json:"faq_threshold"`
	ItemThreshold int            `json:"item_threshold"`
	Location      *time.Location `json:"-"`
	Flow          GraphFlow      `json:"flow"`
}

// ContextStore loads and saves the per-session context
type ContextStore interface {
	Load(ctx context.Context, sessionID string) (pkg.ConversationContext, error)
	Save(ctx context.Context, sessionID string, convCtx pkg.ConversationContext) error
	Reset(ctx context.Context, sessionID string) error
}

// UnansweredLog receives questions no state could answer
type UnansweredLog interface {
	Append(record pkg.UnansweredRecord) error
}

// TranscriptSink receives one entry per completed turn
type TranscriptSink interface {
	Record(ctx context.Context, entry pkg.TranscriptEntry) error
}

// Metrics observes completed turns
type Metrics interface {
	ObserveTurn(resolvedBy string, duration time.Duration)
	ObserveFallback(err error)
	IncUnanswered()
}
