package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dpavlenko/cashcard/internal/common"
	"github.com/dpavlenko/cashcard/internal/server/models"
	"github.com/dpavlenko/cashcard/internal/server/paging"
	"github.com/dpavlenko/cashcard/internal/server/services"
)

// memoryStore backs the router with the full service semantics in memory, so
// the whole request flow can be exercised without a database.
type memoryStore struct {
	mu     sync.Mutex
	users  map[string]string
	cards  map[int64]*models.CashCard
	nextID int64
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		users: make(map[string]string),
		cards: make(map[int64]*models.CashCard),
	}
}

func (m *memoryStore) Register(ctx context.Context, username, password string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[username]; ok {
		return nil, common.ErrorConflict
	}
	m.users[username] = password
	return &models.User{Username: username, PasswordHash: "hash:" + password}, nil
}

func (m *memoryStore) Authenticate(ctx context.Context, username, password string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.users[username]
	if !ok || stored != password {
		return "", common.ErrorUnauthenticated
	}
	return username, nil
}

func (m *memoryStore) Profile(ctx context.Context, caller, target string) (*services.Profile, error) {
	if caller != target {
		return nil, common.ErrorForbidden
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[target]; !ok {
		return nil, common.ErrorNotFound
	}
	role := "NON_OWNER"
	for _, c := range m.cards {
		if c.Owner == target {
			role = "CARD_OWNER"
			break
		}
	}
	return &services.Profile{Username: target, Role: role}, nil
}

func (m *memoryStore) ChangePassword(ctx context.Context, caller, target, currentPassword, newPassword string) error {
	if caller != target {
		return common.ErrorForbidden
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.users[target]
	if !ok {
		return common.ErrorNotFound
	}
	if stored != currentPassword {
		return common.ErrorUnauthorized
	}
	m.users[target] = newPassword
	return nil
}

func (m *memoryStore) DeleteAccount(ctx context.Context, caller, target, password string) error {
	if caller != target {
		return common.ErrorForbidden
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.users[target]
	if !ok {
		return common.ErrorNotFound
	}
	if stored != password {
		return common.ErrorUnauthorized
	}
	for id, c := range m.cards {
		if c.Owner == target {
			delete(m.cards, id)
		}
	}
	delete(m.users, target)
	return nil
}

func (m *memoryStore) Create(ctx context.Context, owner string, amount decimal.Decimal) (*models.CashCard, error) {
	if owner == "" {
		return nil, common.ErrorUnauthenticated
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	card := &models.CashCard{ID: m.nextID, Amount: amount, Owner: owner}
	m.cards[card.ID] = card
	return card, nil
}

func (m *memoryStore) Get(ctx context.Context, caller string, id int64) (*models.CashCard, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	card, ok := m.cards[id]
	if !ok || card.Owner != caller {
		return nil, common.ErrorNotFound
	}
	return card, nil
}

func (m *memoryStore) List(ctx context.Context, caller string, page paging.Page) ([]*models.CashCard, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var owned []*models.CashCard
	for _, c := range m.cards {
		if c.Owner == caller {
			owned = append(owned, c)
		}
	}

	sort.Slice(owned, func(i, j int) bool {
		var less bool
		switch page.Sort {
		case paging.SortByID:
			less = owned[i].ID < owned[j].ID
		default:
			less = owned[i].Amount.LessThan(owned[j].Amount)
		}
		if page.Direction == paging.Descending {
			return !less
		}
		return less
	})

	start := page.Offset()
	if start >= len(owned) {
		return nil, nil
	}
	end := start + page.Limit()
	if end > len(owned) {
		end = len(owned)
	}
	return owned[start:end], nil
}

func (m *memoryStore) Update(ctx context.Context, caller string, id int64, amount decimal.Decimal) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	card, ok := m.cards[id]
	if !ok || card.Owner != caller {
		return common.ErrorNotFound
	}
	card.Amount = amount
	return nil
}

func (m *memoryStore) Delete(ctx context.Context, caller string, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	card, ok := m.cards[id]
	if !ok || card.Owner != caller {
		return common.ErrorNotFound
	}
	delete(m.cards, id)
	return nil
}

func TestCardLifecycle_EndToEnd(t *testing.T) {
	store := newMemoryStore()
	h := newTestRouter(store, store)

	// Two accounts.
	w := doRequest(t, h, http.MethodPost, "/users/register",
		`{"username":"sarah1","password":"abc123456"}`, "", "")
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "/users/sarah1", w.Header().Get("Location"))

	w = doRequest(t, h, http.MethodPost, "/users/register",
		`{"username":"kumar2","password":"xyz789012"}`, "", "")
	require.Equal(t, http.StatusCreated, w.Code)

	// Registering the same username again must conflict.
	w = doRequest(t, h, http.MethodPost, "/users/register",
		`{"username":"sarah1","password":"other12345"}`, "", "")
	require.Equal(t, http.StatusConflict, w.Code)

	// Sarah's cards.
	for _, amount := range []string{"1.00", "123.45", "150.00"} {
		w = doRequest(t, h, http.MethodPost, "/cashcards",
			fmt.Sprintf(`{"amount":%s}`, amount), "sarah1", "abc123456")
		require.Equal(t, http.StatusCreated, w.Code)
		assert.NotEmpty(t, w.Header().Get("Location"))
	}

	// Owner reads their card.
	w = doRequest(t, h, http.MethodGet, "/cashcards/1", "", "sarah1", "abc123456")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"id":1,"amount":1.00,"owner":"sarah1"}`, w.Body.String())

	// Another authenticated user gets NOT_FOUND, never FORBIDDEN.
	w = doRequest(t, h, http.MethodGet, "/cashcards/1", "", "kumar2", "xyz789012")
	require.Equal(t, http.StatusNotFound, w.Code)

	// Largest amount first, one per page.
	w = doRequest(t, h, http.MethodGet, "/cashcards?page=0&size=1&sort=amount,desc", "", "sarah1", "abc123456")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[{"id":3,"amount":150.00,"owner":"sarah1"}]`, w.Body.String())

	// Default page shape: all three, smallest amount first.
	w = doRequest(t, h, http.MethodGet, "/cashcards", "", "sarah1", "abc123456")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[
		{"id":1,"amount":1.00,"owner":"sarah1"},
		{"id":2,"amount":123.45,"owner":"sarah1"},
		{"id":3,"amount":150.00,"owner":"sarah1"}
	]`, w.Body.String())

	// A user with no cards sees an empty list.
	w = doRequest(t, h, http.MethodGet, "/cashcards", "", "kumar2", "xyz789012")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "[]", w.Body.String())

	// Update preserves id and owner.
	w = doRequest(t, h, http.MethodPut, "/cashcards/1", `{"amount":19.99}`, "sarah1", "abc123456")
	require.Equal(t, http.StatusNoContent, w.Code)

	w = doRequest(t, h, http.MethodGet, "/cashcards/1", "", "sarah1", "abc123456")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"id":1,"amount":19.99,"owner":"sarah1"}`, w.Body.String())

	// Updating someone else's card looks like a missing card.
	w = doRequest(t, h, http.MethodPut, "/cashcards/1", `{"amount":0.01}`, "kumar2", "xyz789012")
	require.Equal(t, http.StatusNotFound, w.Code)

	// Same for delete; then the owner really deletes it.
	w = doRequest(t, h, http.MethodDelete, "/cashcards/1", "", "kumar2", "xyz789012")
	require.Equal(t, http.StatusNotFound, w.Code)

	w = doRequest(t, h, http.MethodDelete, "/cashcards/1", "", "sarah1", "abc123456")
	require.Equal(t, http.StatusNoContent, w.Code)

	w = doRequest(t, h, http.MethodGet, "/cashcards/1", "", "sarah1", "abc123456")
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestAccountLifecycle_EndToEnd(t *testing.T) {
	store := newMemoryStore()
	h := newTestRouter(store, store)

	w := doRequest(t, h, http.MethodPost, "/users/register",
		`{"username":"sarah1","password":"abc123456"}`, "", "")
	require.Equal(t, http.StatusCreated, w.Code)

	// Role reflects ownership: none yet.
	w = doRequest(t, h, http.MethodGet, "/users/sarah1", "", "sarah1", "abc123456")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"username":"sarah1","role":"NON_OWNER"}`, w.Body.String())

	w = doRequest(t, h, http.MethodPost, "/cashcards", `{"amount":250.00}`, "sarah1", "abc123456")
	require.Equal(t, http.StatusCreated, w.Code)

	w = doRequest(t, h, http.MethodGet, "/users/sarah1", "", "sarah1", "abc123456")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"username":"sarah1","role":"CARD_OWNER"}`, w.Body.String())

	// Password rotation: old credential stops working immediately.
	w = doRequest(t, h, http.MethodPut, "/users/sarah1/change-password",
		`{"currentPassword":"abc123456","newPassword":"newpassword1"}`, "sarah1", "abc123456")
	require.Equal(t, http.StatusNoContent, w.Code)

	w = doRequest(t, h, http.MethodGet, "/users/sarah1", "", "sarah1", "abc123456")
	require.Equal(t, http.StatusUnauthorized, w.Code)

	w = doRequest(t, h, http.MethodGet, "/users/sarah1", "", "sarah1", "newpassword1")
	require.Equal(t, http.StatusOK, w.Code)

	// Deletion with the wrong password leaves the account usable.
	w = doRequest(t, h, http.MethodDelete, "/users/sarah1",
		`{"password":"abc123456"}`, "sarah1", "newpassword1")
	require.Equal(t, http.StatusUnauthorized, w.Code)

	w = doRequest(t, h, http.MethodGet, "/users/sarah1", "", "sarah1", "newpassword1")
	require.Equal(t, http.StatusOK, w.Code)

	// Real deletion removes the credential and the cards with it.
	w = doRequest(t, h, http.MethodDelete, "/users/sarah1",
		`{"password":"newpassword1"}`, "sarah1", "newpassword1")
	require.Equal(t, http.StatusNoContent, w.Code)

	w = doRequest(t, h, http.MethodGet, "/users/sarah1", "", "sarah1", "newpassword1")
	require.Equal(t, http.StatusUnauthorized, w.Code)
}
