package eventbus

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrClosed возвращается при публикации в закрытую шину
var ErrClosed = errors.New("eventbus: шина закрыта")

// Envelope описывает универсальный контейнер события.
type Envelope struct {
	ID        uuid.UUID         // Уникальный идентификатор
	Timestamp time.Time         // Время создания события (UTC)
	Source    string            // Имя подсистемы-источника
	EventType string            // Тип события (BlockChange, PropPlace…)
	Priority  int               // 0=Low … 9=Critical (для backpressure)
	Payload   []byte            // Событие в JSON
	Metadata  map[string]string // Произвольные метаданные
}

// NewEnvelope упаковывает событие в конверт, сериализуя его в JSON
func NewEnvelope(source, eventType string, payload any) (*Envelope, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("сериализация события %s: %w", eventType, err)
	}
	return &Envelope{
		ID:        uuid.New(),
		Timestamp: time.Now().UTC(),
		Source:    source,
		EventType: eventType,
		Payload:   data,
	}, nil
}

// Filter позволяет подписаться только на нужные события.
type Filter struct {
	Types   []string // Пусто: все типы
	Sources []string // Пусто: все источники
}

// Subscription возвращается при подписке; позволяет отписаться.
type Subscription interface {
	Unsubscribe()
}

// Handler потребляет события.
type Handler func(ctx context.Context, ev *Envelope)

// Stats агрегированные метрики шины.
type Stats struct {
	Published uint64
	Consumed  uint64
	Dropped   uint64
	InFlight  int
}

// EventBus определяет абстракцию шины событий.
type EventBus interface {
	Publish(ctx context.Context, ev *Envelope) error
	Subscribe(ctx context.Context, f Filter, h Handler) (Subscription, error)
	Metrics() Stats
	Close()
}

//================ In-Memory implementation =================//

type memoryBus struct {
	mu     sync.RWMutex // Защищает closed и отправку в buffer
	closed bool

	subsMu      sync.RWMutex
	subscribers map[int]subscriber
	nextID      int
	statsLock   sync.Mutex
	stats       Stats
	buffer      chan *Envelope
	done        chan struct{}
	handlers    sync.WaitGroup
}

type subscriber struct {
	filter  Filter
	handler Handler
	ctx     context.Context
	cancel  context.CancelFunc
}

// NewMemoryBus создаёт in-memory Bus с указанным буфером.
func NewMemoryBus(capacity int) EventBus {
	mb := &memoryBus{
		subscribers: make(map[int]subscriber),
		buffer:      make(chan *Envelope, capacity),
		done:        make(chan struct{}),
	}
	go mb.dispatchLoop()
	return mb
}

func (mb *memoryBus) Publish(ctx context.Context, ev *Envelope) error {
	// Блокировка на чтение не даёт Close закрыть канал во время отправки
	mb.mu.RLock()
	defer mb.mu.RUnlock()
	if mb.closed {
		return ErrClosed
	}

	select {
	case mb.buffer <- ev:
		mb.countPublished()
		return nil
	default:
		// Буфер заполнен, дропаём низкий приоритет (<5)
		if ev.Priority < 5 {
			mb.countDropped()
			return nil
		}
		// Для High-priority блокируем до освобождения места или отмены контекста
		select {
		case mb.buffer <- ev:
			mb.countPublished()
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (mb *memoryBus) countPublished() {
	mb.statsLock.Lock()
	mb.stats.Published++
	mb.statsLock.Unlock()
}

func (mb *memoryBus) countDropped() {
	mb.statsLock.Lock()
	mb.stats.Dropped++
	mb.statsLock.Unlock()
}

func (mb *memoryBus) Subscribe(ctx context.Context, f Filter, h Handler) (Subscription, error) {
	mb.mu.RLock()
	defer mb.mu.RUnlock()
	if mb.closed {
		return nil, ErrClosed
	}

	mb.subsMu.Lock()
	defer mb.subsMu.Unlock()
	id := mb.nextID
	mb.nextID++
	cctx, cancel := context.WithCancel(ctx)
	mb.subscribers[id] = subscriber{filter: f, handler: h, ctx: cctx, cancel: cancel}

	return &memSub{bus: mb, id: id}, nil
}

func (mb *memoryBus) Metrics() Stats {
	mb.statsLock.Lock()
	defer mb.statsLock.Unlock()
	s := mb.stats
	s.InFlight = len(mb.buffer)
	return s
}

// Close прекращает приём событий, доставляет уже принятые и дожидается обработчиков
func (mb *memoryBus) Close() {
	mb.mu.Lock()
	if mb.closed {
		mb.mu.Unlock()
		return
	}
	mb.closed = true
	close(mb.buffer)
	mb.mu.Unlock()

	<-mb.done
	mb.handlers.Wait()
}

// dispatchLoop рассылает события подписчикам.
func (mb *memoryBus) dispatchLoop() {
	defer close(mb.done)

	for ev := range mb.buffer {
		mb.subsMu.RLock()
		subs := make([]subscriber, 0, len(mb.subscribers))
		for _, sub := range mb.subscribers {
			subs = append(subs, sub)
		}
		mb.subsMu.RUnlock()

		for _, sub := range subs {
			if !matchFilter(ev, sub.filter) {
				continue
			}
			mb.handlers.Add(1)
			go func(s subscriber) {
				defer mb.handlers.Done()
				select {
				case <-s.ctx.Done():
					return
				default:
					s.handler(s.ctx, ev)
					mb.statsLock.Lock()
					mb.stats.Consumed++
					mb.statsLock.Unlock()
				}
			}(sub)
		}
	}
}

func matchFilter(ev *Envelope, f Filter) bool {
	match := func(val string, arr []string) bool {
		if len(arr) == 0 {
			return true
		}
		for _, v := range arr {
			if v == val {
				return true
			}
		}
		return false
	}
	return match(ev.EventType, f.Types) && match(ev.Source, f.Sources)
}

type memSub struct {
	bus *memoryBus
	id  int
}

func (s *memSub) Unsubscribe() {
	s.bus.subsMu.Lock()
	if sub, ok := s.bus.subscribers[s.id]; ok {
		sub.cancel()
		delete(s.bus.subscribers, s.id)
	}
	s.bus.subsMu.Unlock()
}
