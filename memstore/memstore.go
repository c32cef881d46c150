// Package memstore provides in-memory implementations of the service stores.
// They back the service and handler tests and mirror the repository
// semantics, including ErrNotFound and the conditional contact update.
package memstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/citynect/property-backend/models"
	"github.com/citynect/property-backend/repository"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Properties struct {
	mu    sync.Mutex
	items []models.Property
}

func NewProperties(items ...models.Property) *Properties {
	p := &Properties{}
	for _, item := range items {
		p.Add(item)
	}
	return p
}

func (p *Properties) Add(item models.Property) primitive.ObjectID {
	p.mu.Lock()
	defer p.mu.Unlock()
	if item.ID.IsZero() {
		item.ID = primitive.NewObjectID()
	}
	p.items = append(p.items, item)
	return item.ID
}

func (p *Properties) Get(id primitive.ObjectID) (models.Property, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, item := range p.items {
		if item.ID == id {
			return item, true
		}
	}
	return models.Property{}, false
}

func (p *Properties) matching(filter bson.M) ([]models.Property, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	out := []models.Property{}
	for _, item := range p.items {
		ok, err := Match(item, filter)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, item)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].CreatedOn.Equal(out[j].CreatedOn) {
			return out[i].CreatedOn.After(out[j].CreatedOn)
		}
		return out[i].ID.Hex() > out[j].ID.Hex()
	})
	return out, nil
}

func (p *Properties) Find(_ context.Context, filter bson.M, skip, limit int64) ([]models.Property, error) {
	all, err := p.matching(filter)
	if err != nil {
		return nil, err
	}
	if skip >= int64(len(all)) {
		return []models.Property{}, nil
	}
	all = all[skip:]
	if limit > 0 && limit < int64(len(all)) {
		all = all[:limit]
	}
	return all, nil
}

func (p *Properties) Count(_ context.Context, filter bson.M) (int64, error) {
	all, err := p.matching(filter)
	return int64(len(all)), err
}

func (p *Properties) FindByID(_ context.Context, id string) (*models.Property, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, repository.ErrNotFound
	}
	item, ok := p.Get(oid)
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &item, nil
}

func (p *Properties) FindByIDs(ctx context.Context, ids []string) ([]models.Property, error) {
	oids := repository.ObjectIDs(ids)
	if len(oids) == 0 {
		return []models.Property{}, nil
	}
	return p.Find(ctx, bson.M{"_id": bson.M{"$in": oids}}, 0, 0)
}

func (p *Properties) Titles(ctx context.Context, filter bson.M, limit int64) ([]string, error) {
	items, err := p.Find(ctx, filter, 0, limit)
	if err != nil {
		return nil, err
	}
	titles := make([]string, len(items))
	for i, item := range items {
		titles[i] = item.Title
	}
	return titles, nil
}

func (p *Properties) SoftDelete(_ context.Context, id string) error {
	return p.update(id, func(item *models.Property) { item.IsDeleted = 1 })
}

func (p *Properties) SetLifecycleStatus(_ context.Context, id, status string) error {
	return p.update(id, func(item *models.Property) { item.PropertyCurrentStatus = status })
}

func (p *Properties) BackfillSqFt(context.Context) (int64, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	var n int64
	for i := range p.items {
		if v, ok := repository.ParseSquareFeet(p.items[i].SquareFt); ok && v != p.items[i].SqFt {
			p.items[i].SqFt = v
			n++
		}
	}
	return n, nil
}

func (p *Properties) update(id string, fn func(*models.Property)) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return repository.ErrNotFound
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	for i := range p.items {
		if p.items[i].ID == oid {
			fn(&p.items[i])
			return nil
		}
	}
	return repository.ErrNotFound
}

type Users struct {
	mu    sync.Mutex
	items map[primitive.ObjectID]*models.User
}

func NewUsers(users ...*models.User) *Users {
	u := &Users{items: map[primitive.ObjectID]*models.User{}}
	for _, user := range users {
		_ = u.Insert(context.Background(), user)
	}
	return u
}

// Get returns a copy of the stored user.
func (u *Users) Get(id primitive.ObjectID) (models.User, bool) {
	u.mu.Lock()
	defer u.mu.Unlock()
	user, ok := u.items[id]
	if !ok {
		return models.User{}, false
	}
	return copyUser(user), true
}

func copyUser(user *models.User) models.User {
	c := *user
	c.SavedPropertyIDs = append([]string{}, user.SavedPropertyIDs...)
	c.ContactedPropertyIDs = append([]string{}, user.ContactedPropertyIDs...)
	return c
}

func (u *Users) FindByID(_ context.Context, id string) (*models.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, repository.ErrNotFound
	}
	user, ok := u.Get(oid)
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &user, nil
}

func (u *Users) FindByNumber(_ context.Context, number string) (*models.User, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	for _, user := range u.items {
		if user.Number == number {
			c := copyUser(user)
			return &c, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (u *Users) Insert(_ context.Context, user *models.User) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	for _, existing := range u.items {
		if user.Number != "" && existing.Number == user.Number {
			return repository.ErrDuplicate
		}
	}
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	c := copyUser(user)
	u.items[user.ID] = &c
	return nil
}

func (u *Users) with(id string, fn func(*models.User)) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return repository.ErrNotFound
	}
	u.mu.Lock()
	defer u.mu.Unlock()
	user, ok := u.items[oid]
	if !ok {
		return repository.ErrNotFound
	}
	fn(user)
	return nil
}

func (u *Users) AddSavedProperty(_ context.Context, userID, propID string) error {
	return u.with(userID, func(user *models.User) {
		if !user.HasSaved(propID) {
			user.SavedPropertyIDs = append(user.SavedPropertyIDs, propID)
		}
	})
}

func (u *Users) RemoveSavedProperty(_ context.Context, userID, propID string) error {
	return u.with(userID, func(user *models.User) {
		kept := user.SavedPropertyIDs[:0]
		for _, id := range user.SavedPropertyIDs {
			if id != propID {
				kept = append(kept, id)
			}
		}
		user.SavedPropertyIDs = kept
	})
}

func (u *Users) RecordContact(_ context.Context, userID, propID string) (bool, error) {
	spent := false
	err := u.with(userID, func(user *models.User) {
		if user.HasContacted(propID) || user.Limit <= 0 {
			return
		}
		user.ContactedPropertyIDs = append(user.ContactedPropertyIDs, propID)
		user.Limit--
		user.TotalCount++
		spent = true
	})
	return spent, err
}

func (u *Users) DecrementWrongPassLimit(_ context.Context, userID string) error {
	return u.with(userID, func(user *models.User) { user.WrongPassLimit-- })
}

func (u *Users) SetPassword(_ context.Context, userID, hash string, wrongPassLimit int) error {
	return u.with(userID, func(user *models.User) {
		user.Password = hash
		user.WrongPassLimit = wrongPassLimit
	})
}

func (u *Users) SetEntitlement(_ context.Context, userID string, e repository.EntitlementUpdate) error {
	return u.with(userID, func(user *models.User) {
		user.IsPremium = e.IsPremium
		user.Limit = e.Limit
		user.WrongPassLimit = e.WrongPassLimit
		if e.Password != "" {
			user.Password = e.Password
		}
		if e.Plan != nil {
			plan := *e.Plan
			user.ActivePlanDetails = &plan
		}
	})
}

func (u *Users) Downgrade(_ context.Context, userID string) error {
	return u.with(userID, func(user *models.User) { user.IsPremium = 0 })
}

func (u *Users) ResetContactLimits(_ context.Context, limit int, privilegedID string, privilegedLimit, wrongPassLimit int) (int64, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	var n int64
	for id, user := range u.items {
		if user.IsPremium != 1 {
			continue
		}
		if id.Hex() == privilegedID {
			user.Limit = privilegedLimit
		} else {
			user.Limit = limit
			n++
		}
		user.WrongPassLimit = wrongPassLimit
	}
	return n, nil
}

func (u *Users) ResetWrongPassLimits(_ context.Context, n int) (int64, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	for _, user := range u.items {
		user.WrongPassLimit = n
	}
	return int64(len(u.items)), nil
}

type pairKey struct{ userID, propID string }

type Statuses struct {
	mu    sync.Mutex
	items map[pairKey]*models.PropertyStatus
}

func NewStatuses() *Statuses {
	return &Statuses{items: map[pairKey]*models.PropertyStatus{}}
}

func (s *Statuses) Upsert(_ context.Context, userID, propID, status string, now time.Time) (*models.PropertyStatus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := pairKey{userID, propID}
	rec, ok := s.items[key]
	if !ok {
		rec = &models.PropertyStatus{ID: primitive.NewObjectID(), UserID: userID, PropID: propID, CreatedOn: now}
		s.items[key] = rec
	}
	rec.Status = status
	rec.UpdatedOn = now
	c := *rec
	return &c, nil
}

// Len reports how many (user, property) status records exist.
func (s *Statuses) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

func (s *Statuses) ForUser(_ context.Context, userID string, propIDs []string) (map[string]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := map[string]string{}
	for _, id := range propIDs {
		if rec, ok := s.items[pairKey{userID, id}]; ok {
			out[id] = rec.Status
		}
	}
	return out, nil
}

func (s *Statuses) PropertyIDsWithStatus(_ context.Context, userID string, statuses []string) ([]string, error) {
	want := map[string]bool{}
	for _, st := range statuses {
		want[st] = true
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := []string{}
	for key, rec := range s.items {
		if key.userID == userID && want[rec.Status] {
			ids = append(ids, key.propID)
		}
	}
	sort.Strings(ids)
	return ids, nil
}

type Remarks struct {
	mu    sync.Mutex
	items map[pairKey]*models.PropertyRemark
}

func NewRemarks() *Remarks {
	return &Remarks{items: map[pairKey]*models.PropertyRemark{}}
}

func (r *Remarks) Upsert(_ context.Context, userID, propID, remark string, now time.Time) (*models.PropertyRemark, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := pairKey{userID, propID}
	rec, ok := r.items[key]
	if !ok {
		rec = &models.PropertyRemark{ID: primitive.NewObjectID(), UserID: userID, PropID: propID, CreatedOn: now}
		r.items[key] = rec
	}
	rec.Remark = remark
	rec.UpdatedOn = now
	c := *rec
	return &c, nil
}

func (r *Remarks) ForUser(_ context.Context, userID string, propIDs []string) (map[string]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := map[string]string{}
	for _, id := range propIDs {
		if rec, ok := r.items[pairKey{userID, id}]; ok {
			out[id] = rec.Remark
		}
	}
	return out, nil
}
