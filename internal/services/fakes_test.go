package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"eventlivechat/internal/domain"
)

// fakeSubscriberRepo implements domain.SubscriberRepository for tests.
type fakeSubscriberRepo struct {
	mu        sync.Mutex
	byID      map[string]*domain.Subscriber
	byEmail   map[string]*domain.Subscriber
	byCode    map[string]*domain.Subscriber
	nextID    int
	createErr error
	// emailGetMisses forces that many GetByEmail calls to miss, to exercise
	// the concurrent-create race.
	emailGetMisses int
	// setCodeErrs is consumed one per SetAccessCode call, allowing collision
	// sequences to be scripted.
	setCodeErrs []error
	setCodeCalls int
	confirmCalls int
}

func newFakeSubscriberRepo() *fakeSubscriberRepo {
	return &fakeSubscriberRepo{
		byID:    make(map[string]*domain.Subscriber),
		byEmail: make(map[string]*domain.Subscriber),
		byCode:  make(map[string]*domain.Subscriber),
	}
}

func (f *fakeSubscriberRepo) add(s *domain.Subscriber) *domain.Subscriber {
	f.mu.Lock()
	defer f.mu.Unlock()
	if s.ID == "" {
		f.nextID++
		s.ID = fmt.Sprintf("sub-%d", f.nextID)
	}
	f.byID[s.ID] = s
	f.byEmail[s.Email] = s
	if s.AccessCode != "" {
		f.byCode[s.AccessCode] = s
	}
	return s
}

func (f *fakeSubscriberRepo) Create(ctx context.Context, s *domain.Subscriber) error {
	f.mu.Lock()
	if f.createErr != nil {
		err := f.createErr
		f.mu.Unlock()
		return err
	}
	if _, ok := f.byEmail[s.Email]; ok {
		f.mu.Unlock()
		return domain.ErrDuplicateEmail
	}
	f.mu.Unlock()
	f.add(s)
	return nil
}

func (f *fakeSubscriberRepo) GetByID(ctx context.Context, id string) (*domain.Subscriber, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if s, ok := f.byID[id]; ok {
		cp := *s
		return &cp, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeSubscriberRepo) GetByEmail(ctx context.Context, email string) (*domain.Subscriber, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.emailGetMisses > 0 {
		f.emailGetMisses--
		return nil, domain.ErrNotFound
	}
	if s, ok := f.byEmail[email]; ok {
		cp := *s
		return &cp, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeSubscriberRepo) GetByAccessCode(ctx context.Context, code string) (*domain.Subscriber, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if s, ok := f.byCode[code]; ok {
		cp := *s
		return &cp, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeSubscriberRepo) SetAccessCode(ctx context.Context, subscriberID, code string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.setCodeCalls++
	if len(f.setCodeErrs) > 0 {
		err := f.setCodeErrs[0]
		f.setCodeErrs = f.setCodeErrs[1:]
		if err != nil {
			return false, err
		}
	}
	s, ok := f.byID[subscriberID]
	if !ok {
		return false, domain.ErrNotFound
	}
	if s.AccessCode != "" {
		return false, nil
	}
	s.AccessCode = code
	f.byCode[code] = s
	return true, nil
}

func (f *fakeSubscriberRepo) MarkConfirmed(ctx context.Context, subscriberID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.confirmCalls++
	s, ok := f.byID[subscriberID]
	if !ok {
		return domain.ErrNotFound
	}
	s.Confirmed = true
	return nil
}

// fakeSubscriptionRepo implements domain.SubscriptionRepository for tests.
type fakeSubscriptionRepo struct {
	mu    sync.Mutex
	pairs map[string]bool // eventID + "|" + subscriberID
	err   error
}

func newFakeSubscriptionRepo() *fakeSubscriptionRepo {
	return &fakeSubscriptionRepo{pairs: make(map[string]bool)}
}

func (f *fakeSubscriptionRepo) Create(ctx context.Context, sub *domain.Subscription) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	key := sub.EventID + "|" + sub.SubscriberID
	if f.pairs[key] {
		return domain.ErrAlreadySubscribed
	}
	f.pairs[key] = true
	sub.ID = "subsc-1"
	return nil
}

func (f *fakeSubscriptionRepo) Exists(ctx context.Context, eventID, subscriberID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return false, f.err
	}
	return f.pairs[eventID+"|"+subscriberID], nil
}

// fakeEventRepo implements domain.EventRepository for tests.
type fakeEventRepo struct {
	mu      sync.Mutex
	byID    map[string]*domain.Event
	byTitle map[string]*domain.Event
	upserts int
	err     error
}

func newFakeEventRepo() *fakeEventRepo {
	return &fakeEventRepo{
		byID:    make(map[string]*domain.Event),
		byTitle: make(map[string]*domain.Event),
	}
}

func (f *fakeEventRepo) add(e *domain.Event) *domain.Event {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.byID[e.ID] = e
	f.byTitle[e.Title] = e
	return e
}

func (f *fakeEventRepo) Create(ctx context.Context, e *domain.Event) error {
	e.ID = "event-created"
	f.add(e)
	return nil
}

func (f *fakeEventRepo) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	if e, ok := f.byID[id]; ok {
		return e, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeEventRepo) GetByTitle(ctx context.Context, title string) (*domain.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if e, ok := f.byTitle[title]; ok {
		return e, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeEventRepo) List(ctx context.Context) ([]*domain.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var events []*domain.Event
	for _, e := range f.byID {
		events = append(events, e)
	}
	return events, nil
}

func (f *fakeEventRepo) UpsertByTitle(ctx context.Context, e *domain.Event) error {
	f.mu.Lock()
	if f.err != nil {
		f.mu.Unlock()
		return f.err
	}
	f.upserts++
	if existing, ok := f.byTitle[e.Title]; ok {
		existing.Description = e.Description
		e.ID = existing.ID
		f.mu.Unlock()
		return nil
	}
	e.ID = "event-upserted"
	f.mu.Unlock()
	f.add(e)
	return nil
}

// fakeEmailService implements domain.EmailService for tests.
type fakeEmailService struct {
	mu   sync.Mutex
	sent []*domain.ConfirmationEmailData
	errs []error
	done chan struct{}
}

func newFakeEmailService() *fakeEmailService {
	return &fakeEmailService{done: make(chan struct{}, 16)}
}

func (f *fakeEmailService) SendConfirmation(ctx context.Context, data *domain.ConfirmationEmailData) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.errs) > 0 {
		err := f.errs[0]
		f.errs = f.errs[1:]
		if err != nil {
			return err
		}
	}
	f.sent = append(f.sent, data)
	f.done <- struct{}{}
	return nil
}

func (f *fakeEmailService) waitForSend(timeout time.Duration) bool {
	select {
	case <-f.done:
		return true
	case <-time.After(timeout):
		return false
	}
}

func (f *fakeEmailService) sentCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sent)
}

// fakeTokenIssuer implements domain.SessionTokenIssuer for tests.
type fakeTokenIssuer struct {
	token string
	err   error
}

func (f *fakeTokenIssuer) Issue(subscriberID, accessCode string, expiry time.Duration) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	if f.token != "" {
		return f.token, nil
	}
	return "token-" + subscriberID, nil
}

// fakeCatalogFetcher implements domain.CatalogFetcher for tests.
type fakeCatalogFetcher struct {
	rows []domain.CatalogRow
	err  error
}

func (f *fakeCatalogFetcher) Fetch(ctx context.Context) ([]domain.CatalogRow, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.rows, nil
}
