package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"store-rating/internal/domain"
)

// memDB is an in-memory stand-in for the three repositories. It enforces
// the same uniqueness and cascade rules as the schema.
type memDB struct {
	mu      sync.Mutex
	nextID  uint64
	users   map[uint64]*domain.User
	stores  map[uint64]*domain.Store
	ratings map[[2]uint64]*domain.Rating

	failStoreInsert error
}

func newMemDB() *memDB {
	return &memDB{
		users:   map[uint64]*domain.User{},
		stores:  map[uint64]*domain.Store{},
		ratings: map[[2]uint64]*domain.Rating{},
	}
}

func (m *memDB) id() uint64 { m.nextID++; return m.nextID }

type memUsers struct{ *memDB }
type memStores struct{ *memDB }
type memRatings struct{ *memDB }

func (m memUsers) Create(_ context.Context, u *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.insertUser(u)
}

func (m *memDB) insertUser(u *domain.User) error {
	u.Email = domain.NormalizeEmail(u.Email)
	for _, x := range m.users {
		if x.Email == u.Email {
			return domain.ErrDuplicateEmail
		}
	}
	u.ID = m.id()
	u.CreatedAt = time.Now()
	cp := *u
	m.users[u.ID] = &cp
	return nil
}

func (m memUsers) FindByID(_ context.Context, id uint64) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (m memUsers) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	email = domain.NormalizeEmail(email)
	for _, u := range m.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m memUsers) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := m.FindByEmail(ctx, email)
	return err == nil, nil
}

func (m memUsers) ExistsWithRole(_ context.Context, role domain.Role) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Role == role {
			return true, nil
		}
	}
	return false, nil
}

func (m memUsers) UpdatePassword(_ context.Context, id uint64, hash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return domain.ErrNotFound
	}
	u.PasswordHash = hash
	return nil
}

func (m memUsers) Delete(_ context.Context, id uint64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.users, id)
	for sid, s := range m.stores {
		if s.OwnerID == id {
			delete(m.stores, sid)
		}
	}
	for k := range m.ratings {
		_, storeAlive := m.stores[k[1]]
		if k[0] == id || !storeAlive {
			delete(m.ratings, k)
		}
	}
	return nil
}

func (m memUsers) List(context.Context, domain.ListParams) ([]domain.UserRow, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.UserRow, 0, len(m.users))
	for _, u := range m.users {
		out = append(out, domain.UserRow{ID: u.ID, Name: u.Name, Email: u.Email, Address: u.Address, Role: u.Role})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m memUsers) Count(context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.users)), nil
}

func (m memStores) CreateWithOwner(_ context.Context, owner *domain.User, s *domain.Store) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.insertUser(owner); err != nil {
		return err
	}
	rollback := func(err error) error {
		delete(m.users, owner.ID)
		owner.ID, s.ID = 0, 0
		return err
	}
	if m.failStoreInsert != nil {
		return rollback(m.failStoreInsert)
	}
	for _, x := range m.stores {
		if x.Email == domain.NormalizeEmail(s.Email) {
			return rollback(domain.ErrDuplicateEmail)
		}
	}
	s.Email = domain.NormalizeEmail(s.Email)
	s.OwnerID = owner.ID
	s.ID = m.id()
	cp := *s
	m.stores[s.ID] = &cp
	return nil
}

func (m memStores) ExistsByEmail(_ context.Context, email string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.stores {
		if s.Email == domain.NormalizeEmail(email) {
			return true, nil
		}
	}
	return false, nil
}

func (m *memDB) aggregate(storeID uint64) (float64, int64) {
	var sum, n int64
	for k, r := range m.ratings {
		if k[1] == storeID {
			sum += int64(r.Value)
			n++
		}
	}
	if n == 0 {
		return 0, 0
	}
	return float64(sum) / float64(n), n
}

func (m *memDB) row(s *domain.Store) domain.StoreRow {
	avg, n := m.aggregate(s.ID)
	return domain.StoreRow{ID: s.ID, Name: s.Name, Email: s.Email, Address: s.Address, OwnerID: s.OwnerID, Rating: avg, TotalRatings: n}
}

func (m memStores) FindByOwner(_ context.Context, ownerID uint64) (*domain.StoreRow, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var found *domain.Store
	for _, s := range m.stores {
		if s.OwnerID == ownerID && (found == nil || s.ID < found.ID) {
			found = s
		}
	}
	if found == nil {
		return nil, domain.ErrNotFound
	}
	r := m.row(found)
	return &r, nil
}

func (m memStores) List(context.Context, domain.ListParams) ([]domain.StoreRow, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.StoreRow, 0, len(m.stores))
	for _, s := range m.stores {
		out = append(out, m.row(s))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m memStores) Count(context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.stores)), nil
}

func (m memRatings) Upsert(_ context.Context, userID, storeID uint64, value int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.stores[storeID]; !ok {
		return domain.ErrReferentialIntegrity
	}
	if _, ok := m.users[userID]; !ok {
		return domain.ErrReferentialIntegrity
	}
	k := [2]uint64{userID, storeID}
	if r, ok := m.ratings[k]; ok {
		r.Value = value
		return nil
	}
	m.ratings[k] = &domain.Rating{ID: m.id(), UserID: userID, StoreID: storeID, Value: value, CreatedAt: time.Now()}
	return nil
}

func (m memRatings) UserRating(_ context.Context, userID, storeID uint64) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if r, ok := m.ratings[[2]uint64{userID, storeID}]; ok {
		return r.Value, nil
	}
	return 0, nil
}

func (m memRatings) StoreReviews(_ context.Context, storeID uint64) ([]domain.StoreReview, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.StoreReview
	for k, r := range m.ratings {
		if k[1] == storeID {
			out = append(out, domain.StoreReview{Rating: r.Value, CreatedAt: r.CreatedAt, UserName: m.users[k[0]].Name})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m memRatings) StoresForUser(_ context.Context, userID uint64, _ domain.ListParams) ([]domain.UserStoreRow, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.UserStoreRow, 0, len(m.stores))
	for _, s := range m.stores {
		avg, n := m.aggregate(s.ID)
		var mine int
		if r, ok := m.ratings[[2]uint64{userID, s.ID}]; ok {
			mine = r.Value
		}
		out = append(out, domain.UserStoreRow{ID: s.ID, Name: s.Name, Address: s.Address, OverallRating: avg, UserRating: mine, TotalRatings: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m memRatings) Count(context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.ratings)), nil
}
