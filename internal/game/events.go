package game

import "time"

// EventType represents a game event type with type safety
type EventType string

// EventType constants for game domain events
const (
	EventTypeHandStarted EventType = "hand_started"
	EventTypeAction      EventType = "action"
	EventTypeRoundEnded  EventType = "round_ended"
	EventTypeHandEnded   EventType = "hand_ended"
)

// String returns the string representation of the event type
func (et EventType) String() string {
	return string(et)
}

// GameEvent represents any event that occurs during a hand
type GameEvent interface {
	EventType() EventType
	Timestamp() time.Time
}

// SeatInfo is a player's identity and stack at a point in the hand.
type SeatInfo struct {
	PlayerID string       `json:"playerId"`
	Name     string       `json:"name"`
	Seat     int          `json:"seat"`
	Stack    int          `json:"stack"`
	Status   PlayerStatus `json:"status"`
}

// ActionContext is the table state a player faced when choosing an action.
type ActionContext struct {
	Status              PlayerStatus
	Stack               int
	PlayerBet           int
	CurrentBet          int
	BigBlind            int
	Round               int
	IsBigBlind          bool
	HasActedVoluntarily bool
}

// Owed returns the chips needed to call.
func (c ActionContext) Owed() int {
	return max(c.CurrentBet-c.PlayerBet, 0)
}

// HandStartedEvent is published after forced bets are posted. Seats carries
// stacks from before the blinds and antes.
type HandStartedEvent struct {
	GameID     string
	HandNumber int
	Seats      []SeatInfo
	DealerID   string
	SmallBlind int
	BigBlind   int
	Ante       int
	timestamp  time.Time
}

func (e HandStartedEvent) EventType() EventType { return EventTypeHandStarted }
func (e HandStartedEvent) Timestamp() time.Time { return e.timestamp }

// ActionEvent is published when a player takes an action
type ActionEvent struct {
	HandNumber int
	PlayerID   string
	PlayerName string
	Action     ActionType
	Amount     int
	Before     ActionContext
	PotAfter   int
	timestamp  time.Time
}

func (e ActionEvent) EventType() EventType { return EventTypeAction }
func (e ActionEvent) Timestamp() time.Time { return e.timestamp }

// RoundEndedEvent is published when a betting round closes without ending the hand
type RoundEndedEvent struct {
	HandNumber int
	Round      int // The round that just ended
	Pot        int
	timestamp  time.Time
}

func (e RoundEndedEvent) EventType() EventType { return EventTypeRoundEnded }
func (e RoundEndedEvent) Timestamp() time.Time { return e.timestamp }

// HandEndedEvent is published after pots are paid out
type HandEndedEvent struct {
	HandNumber    int
	Winners       []string
	Distributions []Distribution
	Uncontested   bool       // Everyone else folded
	Seats         []SeatInfo // Stacks after payout
	timestamp     time.Time
}

func (e HandEndedEvent) EventType() EventType { return EventTypeHandEnded }
func (e HandEndedEvent) Timestamp() time.Time { return e.timestamp }

// EventSubscriber can subscribe to game events
type EventSubscriber interface {
	OnEvent(event GameEvent)
}

// EventBus manages event publishing and subscription
type EventBus interface {
	Subscribe(subscriber EventSubscriber)
	Unsubscribe(subscriber EventSubscriber)
	Publish(event GameEvent)
}

// SimpleEventBus is a basic in-memory event bus implementation
type SimpleEventBus struct {
	subscribers []EventSubscriber
}

// NewEventBus creates a new event bus
func NewEventBus() *SimpleEventBus {
	return &SimpleEventBus{}
}

// Subscribe adds a subscriber to receive events
func (bus *SimpleEventBus) Subscribe(subscriber EventSubscriber) {
	bus.subscribers = append(bus.subscribers, subscriber)
}

// Unsubscribe removes a subscriber from receiving events
func (bus *SimpleEventBus) Unsubscribe(subscriber EventSubscriber) {
	for i, sub := range bus.subscribers {
		if sub == subscriber {
			bus.subscribers = append(bus.subscribers[:i], bus.subscribers[i+1:]...)
			break
		}
	}
}

// Publish sends an event to all subscribers in subscription order
func (bus *SimpleEventBus) Publish(event GameEvent) {
	for _, subscriber := range bus.subscribers {
		subscriber.OnEvent(event)
	}
}
