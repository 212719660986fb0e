package eventservices

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"

	"github.com/akormos/alert-trading/src/eventmodels"
)

type quoteStreamPayload struct {
	Symbols []string `json:"symbols"`
	Filter  []string `json:"filter"`
	Action  string   `json:"action,omitempty"`
}

// quoteStream holds a live websocket quote subscription for one contract.
// The reader goroutine updates the latest sample until Close is called or
// the stream context ends.
type quoteStream struct {
	conn   *websocket.Conn
	symbol string
	cancel context.CancelFunc

	mu     sync.Mutex
	latest eventmodels.OptionQuoteDTO
	closed bool
}

// SubscribeQuotes opens the broker's market-data websocket session and
// subscribes to quotes for a single contract. The returned subscription must
// be closed on every exit path.
func (c *BrokerAPIClient) SubscribeQuotes(ctx context.Context, contractSymbol string) (QuoteSubscription, error) {
	log.Infof("SubscribeQuotes: connecting to %s", c.streamURL)

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, c.streamURL, nil)
	if err != nil {
		return nil, fmt.Errorf("SubscribeQuotes: failed to connect to quote stream: %w", err)
	}

	payload := quoteStreamPayload{
		Symbols: []string{contractSymbol},
		Filter:  []string{"quote"},
	}

	if err := conn.WriteJSON(payload); err != nil {
		conn.Close()
		return nil, fmt.Errorf("SubscribeQuotes: failed to write subscribe payload: %w", err)
	}

	streamCtx, cancel := context.WithCancel(ctx)

	s := &quoteStream{
		conn:   conn,
		symbol: contractSymbol,
		cancel: cancel,
		latest: eventmodels.OptionQuoteDTO{
			ContractSymbol: contractSymbol,
			Bid:            math.NaN(),
			Ask:            math.NaN(),
			Last:           math.NaN(),
		},
	}

	go s.readLoop(streamCtx)

	return s, nil
}

func (s *quoteStream) readLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
			s.conn.SetReadDeadline(time.Now().UTC().Add(30 * time.Second))
			_, message, err := s.conn.ReadMessage()
			if err != nil {
				if ctx.Err() != nil {
					return
				}

				log.Errorf("quoteStream.readLoop(): %v", err)
				return
			}

			var update eventmodels.OptionQuoteDTO
			if err := json.Unmarshal(message, &update); err != nil {
				log.Errorf("quoteStream.readLoop(): failed to unmarshal quote: %v", err)
				continue
			}

			if update.ContractSymbol != s.symbol {
				continue
			}

			s.mu.Lock()
			if update.Bid > 0 {
				s.latest.Bid = update.Bid
			}
			if update.Ask > 0 {
				s.latest.Ask = update.Ask
			}
			if update.Last > 0 {
				s.latest.Last = update.Last
			}
			s.mu.Unlock()
		}
	}
}

func (s *quoteStream) Latest() eventmodels.OptionQuoteDTO {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.latest
}

func (s *quoteStream) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.mu.Unlock()

	s.cancel()

	unsubscribe := quoteStreamPayload{
		Symbols: []string{s.symbol},
		Filter:  []string{"quote"},
		Action:  "unsubscribe",
	}

	if err := s.conn.WriteJSON(unsubscribe); err != nil {
		log.Errorf("quoteStream.Close(): failed to write unsubscribe payload: %v", err)
	}

	if err := s.conn.Close(); err != nil {
		return fmt.Errorf("quoteStream.Close(): failed to close connection: %w", err)
	}

	return nil
}
