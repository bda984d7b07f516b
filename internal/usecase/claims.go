package usecase

import (
	"context"
	"sync"
	"time"
)

// Claim é o resultado de tentar reservar uma linha para o sync.
// OrderID preenchido significa que o pedido já existe e só falta gravar na planilha.
type Claim struct {
	Acquired bool
	OrderID  string
}

// ClaimStore impede que duas execuções do sync criem pedido para a mesma linha.
type ClaimStore interface {
	Claim(ctx context.Context, submissionID string) (Claim, error)
	Complete(ctx context.Context, submissionID, orderID string) error
	// Release só libera reservas sem pedido.
	Release(ctx context.Context, submissionID string) error
	// Forget marca que o pedido já está na planilha. A reserva ainda segura a
	// linha por um TTL (execuções com leitura antiga) e depois some.
	Forget(ctx context.Context, submissionID string) error
}

// LocalClaimStore protege uma única instância. Com mais de uma réplica use o Postgres.
type LocalClaimStore struct {
	mu     sync.Mutex
	ttl    time.Duration
	now    func() time.Time
	claims map[string]*localClaim
}

type localClaim struct {
	claimedAt time.Time
	orderID   string
	writtenAt time.Time
}

func (c *localClaim) expired(now time.Time, ttl time.Duration) bool {
	return !c.writtenAt.IsZero() && now.Sub(c.writtenAt) >= ttl
}

func NewLocalClaimStore(ttl time.Duration) *LocalClaimStore {
	return &LocalClaimStore{
		ttl:    ttl,
		now:    time.Now,
		claims: make(map[string]*localClaim),
	}
}

func (s *LocalClaimStore) Claim(_ context.Context, submissionID string) (Claim, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if c, ok := s.claims[submissionID]; ok && !c.expired(now, s.ttl) {
		if c.orderID != "" {
			return Claim{Acquired: true, OrderID: c.orderID}, nil
		}
		if now.Sub(c.claimedAt) < s.ttl {
			return Claim{}, nil
		}
	}

	s.claims[submissionID] = &localClaim{claimedAt: now}
	return Claim{Acquired: true}, nil
}

func (s *LocalClaimStore) Complete(_ context.Context, submissionID, orderID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.claims[submissionID]
	if !ok {
		c = &localClaim{claimedAt: s.now()}
		s.claims[submissionID] = c
	}
	c.orderID = orderID
	return nil
}

func (s *LocalClaimStore) Release(_ context.Context, submissionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if c, ok := s.claims[submissionID]; ok && c.orderID == "" {
		delete(s.claims, submissionID)
	}
	return nil
}

func (s *LocalClaimStore) Forget(_ context.Context, submissionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if c, ok := s.claims[submissionID]; ok && c.orderID != "" {
		c.writtenAt = now
	}
	for id, c := range s.claims {
		if c.expired(now, s.ttl) {
			delete(s.claims, id)
		}
	}
	return nil
}

func (s *LocalClaimStore) size() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.claims)
}
