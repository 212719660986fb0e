package eventconsumers

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/akormos/alert-trading/src/eventmodels"
	"github.com/akormos/alert-trading/src/utils"
)

// CompletionService extracts structured trade fields from free-form alert
// text.
type CompletionService interface {
	Generate(ctx context.Context, systemPrompt string, userPrompt string) (string, error)
}

// IntentResolver turns raw alert text into a TradeIntent, using its own
// memory of open positions to complete partial alerts ("trim qqq calls").
// The memory is a hint only; the broker's actual position is re-checked at
// execution time.
type IntentResolver struct {
	completion CompletionService
	config     *eventmodels.PipelineYAML
	now        func() time.Time

	mu        sync.Mutex
	contexts  map[string]*eventmodels.PositionContext
	lastReset time.Time
}

func NewIntentResolver(completion CompletionService, config *eventmodels.PipelineYAML) *IntentResolver {
	return &IntentResolver{
		completion: completion,
		config:     config,
		now:        time.Now,
		contexts:   make(map[string]*eventmodels.PositionContext),
		lastReset:  time.Now(),
	}
}

// Resolve returns the structured intent extracted from rawText, or nil when
// the text does not describe an actionable trade. A nil result is a normal
// outcome, not an error.
func (r *IntentResolver) Resolve(ctx context.Context, rawText string) *eventmodels.TradeIntent {
	if strings.TrimSpace(rawText) == "" {
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.resetContextIfNeeded()

	userPrompt := r.injectContext(rawText)

	output, err := r.completion.Generate(ctx, r.systemPrompt(), userPrompt)
	if err != nil {
		log.Errorf("IntentResolver.Resolve(): completion failed: %v", err)
		return nil
	}

	intent, err := r.parseCompletion(output, rawText)
	if err != nil {
		log.Debugf("IntentResolver.Resolve(): no intent in %q: %v", rawText, err)
		return nil
	}

	if intent.Action == eventmodels.TradeActionSpeculate {
		log.Debugf("IntentResolver.Resolve(): speculative alert, not recorded: %q", rawText)
		return nil
	}

	// Never infer a sell for a contract we do not believe we hold, no matter
	// what the completion service proposed.
	if intent.Action == eventmodels.TradeActionSell {
		tracked, found := r.contexts[intent.Symbol]
		if !found || tracked.Quantity <= 0 || tracked.OptionType != intent.OptionType {
			log.Infof("IntentResolver.Resolve(): downgrading sell for %s %s: no tracked position", intent.Symbol, intent.OptionType)
			return nil
		}
	}

	r.updateContext(intent)

	return intent
}

// PositionSnapshot returns a copy of the tracked position contexts.
func (r *IntentResolver) PositionSnapshot() []eventmodels.PositionContext {
	r.mu.Lock()
	defer r.mu.Unlock()

	snapshot := make([]eventmodels.PositionContext, 0, len(r.contexts))
	for _, position := range r.contexts {
		snapshot = append(snapshot, *position)
	}

	return snapshot
}

// resetContextIfNeeded clears all tracked positions the first time the
// resolver runs on a new calendar day. Callers must hold r.mu.
func (r *IntentResolver) resetContextIfNeeded() {
	now := r.now()

	y1, m1, d1 := r.lastReset.Date()
	y2, m2, d2 := now.Date()
	if y1 == y2 && m1 == m2 && d1 == d2 {
		return
	}

	log.Infof("IntentResolver: clearing position context for new session: %v", now.Format("2006-01-02"))
	r.contexts = make(map[string]*eventmodels.PositionContext)
	r.lastReset = now
}

// injectContext prepends at most one tracked position summary when the alert
// text mentions a symbol we are already holding.
func (r *IntentResolver) injectContext(rawText string) string {
	upper := strings.ToUpper(rawText)

	for symbol, position := range r.contexts {
		if strings.Contains(upper, symbol) {
			contextText := fmt.Sprintf("Previous trade for %s: symbol: %s, contract_type: %s, expiry: %s, strike: %v, quantity: %d.",
				symbol, symbol, position.OptionType, position.Expiry, position.Strike, position.Quantity)
			return contextText + " " + rawText
		}
	}

	return rawText
}

func (r *IntentResolver) systemPrompt() string {
	var positions strings.Builder
	if len(r.contexts) == 0 {
		positions.WriteString("No open positions")
	} else {
		first := true
		for _, position := range r.contexts {
			if !first {
				positions.WriteString(" | ")
			}
			positions.WriteString(position.Summary())
			first = false
		}
	}

	return "You are an expert in quantitative options trading. " +
		"Current open positions: " + positions.String() + ". " +
		"You will be given a message that could be a direct trade alert, a news update, or a speculative idea. " +
		"Infer whether the most appropriate action is one of: " +
		"(1) BUY - the message contains a clear, actionable trade entry signal; " +
		"(2) SELL - the message recommends trimming, taking profit, exiting a position, or moving a stop loss to breakeven; " +
		"(3) SPECULATE - the message is commentary or watch-only. " +
		"The action can only be one of BUY, SELL and SPECULATE. Trimming and taking profit mean SELL, grabbing means BUY. " +
		"You can only return SELL if the current holding of this contract is strictly larger than 0. " +
		"If relevant, extract: symbol, contract_type (call or put), expiry (e.g. 6/06), strike (an integer), entry price, quantity. " +
		fmt.Sprintf("Quantity for BUY is %d unless specified. Quantity for SELL is %d unless specified. ", r.config.DefaultBuyQuantity, r.config.DefaultSellQuantity) +
		"If any field is missing but the open positions contain a symbol and option type matching the message, infer the missing fields from the open positions. " +
		"Return a single line with all of the following fields: symbol: ..., contract_type: ..., expiry: ..., strike: ..., entry: ..., action: ..., quantity: ... " +
		"If a field is not found, fill it with 'N/A'."
}

// parseCompletion converts the completion service's key/value output into a
// validated intent. Any missing required field is a rejection.
func (r *IntentResolver) parseCompletion(output string, rawText string) (*eventmodels.TradeIntent, error) {
	fields := make(map[string]string)

	for _, line := range strings.Split(output, "\n") {
		for _, part := range strings.Split(line, ",") {
			kv := strings.SplitN(part, ":", 2)
			if len(kv) != 2 {
				continue
			}

			key := strings.ToLower(strings.TrimSpace(kv[0]))
			value := strings.TrimSpace(kv[1])
			if key != "" && value != "" {
				fields[key] = value
			}
		}
	}

	action := strings.ToUpper(strings.Trim(fields["action"], ". "))
	switch eventmodels.TradeAction(action) {
	case eventmodels.TradeActionBuy, eventmodels.TradeActionSell:
	case eventmodels.TradeActionSpeculate:
		return &eventmodels.TradeIntent{Action: eventmodels.TradeActionSpeculate, SourceText: rawText}, nil
	default:
		return nil, fmt.Errorf("parseCompletion: invalid action %q", fields["action"])
	}

	symbol := strings.ToUpper(strings.TrimSpace(fields["symbol"]))
	if symbol == "" || symbol == "N/A" {
		return nil, fmt.Errorf("parseCompletion: missing symbol")
	}

	optionType, err := utils.NormalizeOptionType(fields["contract_type"])
	if err != nil {
		return nil, fmt.Errorf("parseCompletion: %w", err)
	}

	expiry, err := utils.NormalizeExpiry(fields["expiry"], r.now())
	if err != nil {
		return nil, fmt.Errorf("parseCompletion: %w", err)
	}

	strike, err := utils.ParseStrike(fields["strike"])
	if err != nil {
		return nil, fmt.Errorf("parseCompletion: %w", err)
	}

	entry, err := utils.ParsePrice(fields["entry"])
	if err != nil {
		log.Debugf("IntentResolver.parseCompletion(): ignoring entry price: %v", err)
		entry = nil
	}

	quantity := 0
	if rawQty, found := fields["quantity"]; found && !strings.EqualFold(rawQty, "N/A") {
		if _, scanErr := fmt.Sscanf(strings.TrimSpace(rawQty), "%d", &quantity); scanErr != nil {
			quantity = 0
		}
	}

	if quantity <= 0 {
		if action == string(eventmodels.TradeActionBuy) {
			quantity = r.config.DefaultBuyQuantity
		} else {
			quantity = r.config.DefaultSellQuantity
		}
	}

	intent := &eventmodels.TradeIntent{
		ID:         uuid.New(),
		Symbol:     symbol,
		OptionType: eventmodels.OptionType(optionType),
		Expiry:     expiry,
		Strike:     strike,
		Action:     eventmodels.TradeAction(action),
		Quantity:   quantity,
		EntryPrice: entry,
		SourceText: rawText,
		Timestamp:  r.now(),
	}

	if err := intent.Validate(); err != nil {
		return nil, fmt.Errorf("parseCompletion: %w", err)
	}

	return intent, nil
}

// updateContext records the accepted intent in the position memory: a buy
// creates or extends the tracked position, a sell shrinks it and removes it
// at zero. Callers must hold r.mu; runs exactly once per accepted intent.
func (r *IntentResolver) updateContext(intent *eventmodels.TradeIntent) {
	switch intent.Action {
	case eventmodels.TradeActionBuy:
		if tracked, found := r.contexts[intent.Symbol]; found && tracked.OptionType == intent.OptionType && tracked.Expiry == intent.Expiry && tracked.Strike == intent.Strike {
			tracked.Quantity += intent.Quantity
			return
		}

		r.contexts[intent.Symbol] = &eventmodels.PositionContext{
			Symbol:     intent.Symbol,
			OptionType: intent.OptionType,
			Expiry:     intent.Expiry,
			Strike:     intent.Strike,
			Quantity:   intent.Quantity,
		}

	case eventmodels.TradeActionSell:
		tracked, found := r.contexts[intent.Symbol]
		if !found {
			return
		}

		tracked.Quantity -= intent.Quantity
		if tracked.Quantity <= 0 {
			log.Infof("IntentResolver: no remaining position in %s, removing from context", intent.Symbol)
			delete(r.contexts, intent.Symbol)
		}
	}
}
