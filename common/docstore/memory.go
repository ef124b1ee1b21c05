// Copyright (c) CurioSwitch (choko@curioswitch.org)
// SPDX-License-Identifier: BUSL-1.1

package docstore

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/google/uuid"

	"github.com/curioswitch/hamatcon/common/hamatcondb"
)

// DefaultMaxAttempts is the number of times a transaction is attempted
// before giving up, matching Firestore.
const DefaultMaxAttempts = 5

type docKind int

const (
	kindRecipe docKind = iota
	kindFavorite
	kindRating
)

// docKey identifies a document. parent is the user ID of a favorite or the
// recipe ID of a rating.
type docKey struct {
	kind   docKind
	parent string
	id     string
}

func recipeKey(id string) docKey {
	return docKey{kind: kindRecipe, id: id}
}

func favoriteKey(userID string, recipeID string) docKey {
	return docKey{kind: kindFavorite, parent: userID, id: recipeID}
}

func ratingKey(recipeID string, userID string) docKey {
	return docKey{kind: kindRating, parent: recipeID, id: userID}
}

// MemoryOption configures a Memory store.
type MemoryOption func(*Memory)

// WithMaxAttempts sets the number of attempts of a transaction before it
// fails with ErrConflict.
func WithMaxAttempts(n int) MemoryOption {
	return func(m *Memory) {
		m.maxAttempts = max(n, 1)
	}
}

// Memory is a Store in process memory. Transactions use optimistic
// concurrency: documents read are checked for modification when committing
// and the transaction is run again with fresh reads on conflict.
type Memory struct {
	mu       sync.Mutex
	seq      uint64
	docs     map[docKey]any
	versions map[docKey]uint64
	lastTS   time.Time
	watchers map[string]map[chan struct{}]struct{}

	maxAttempts int
}

var _ Store = (*Memory)(nil)

// NewMemory returns an empty Memory store.
func NewMemory(opts ...MemoryOption) *Memory {
	m := &Memory{
		docs:        map[docKey]any{},
		versions:    map[docKey]uint64{},
		watchers:    map[string]map[chan struct{}]struct{}{},
		maxAttempts: DefaultMaxAttempts,
	}
	for _, o := range opts {
		o(m)
	}
	return m
}

func (m *Memory) RunTransaction(ctx context.Context, f func(ctx context.Context, tx Tx) error) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = time.Millisecond
	b.MaxInterval = 50 * time.Millisecond

	_, err := backoff.Retry(ctx, func() (struct{}, error) {
		tx := &memoryTx{m: m, reads: map[docKey]uint64{}}
		if err := f(ctx, tx); err != nil {
			return struct{}{}, backoff.Permanent(err)
		}
		if err := m.commit(tx.reads, tx.ops); err != nil {
			if errors.Is(err, ErrConflict) {
				return struct{}{}, err
			}
			return struct{}{}, backoff.Permanent(err)
		}
		return struct{}{}, nil
	}, backoff.WithBackOff(b), backoff.WithMaxTries(uint(m.maxAttempts)))
	if errors.Is(err, ErrConflict) {
		return fmt.Errorf("docstore: transaction failed after %d attempts: %w", m.maxAttempts, err)
	}
	return err
}

func (m *Memory) NewBatch() Batch {
	return &memoryBatch{m: m}
}

func (m *Memory) CreateRecipe(_ context.Context, r *hamatcondb.Recipe) (string, error) {
	id := r.ID
	if id == "" {
		id = uuid.NewString()
	}
	rec := cloneRecipe(r)
	rec.ID = id

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.docs[recipeKey(id)]; ok {
		return "", fmt.Errorf("docstore: creating recipe %s: %w", id, ErrAlreadyExists)
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = m.timestamp()
	}
	m.write(recipeKey(id), rec)
	m.notify(recipesTopic)
	return id, nil
}

func (m *Memory) DeleteRecipe(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.docs[recipeKey(id)]; !ok {
		return fmt.Errorf("docstore: deleting recipe %s: %w", id, ErrNotFound)
	}
	for k := range m.docs {
		if k.kind == kindRating && k.parent == id {
			m.write(k, nil)
		}
	}
	m.write(recipeKey(id), nil)
	m.notify(recipesTopic)
	return nil
}

func (m *Memory) Recipe(_ context.Context, id string) (*hamatcondb.Recipe, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	r, ok := m.docs[recipeKey(id)].(*hamatcondb.Recipe)
	if !ok {
		return nil, fmt.Errorf("docstore: reading recipe %s: %w", id, ErrNotFound)
	}
	return readRecipe(r), nil
}

func (m *Memory) Recipes(_ context.Context, ownerUID string) ([]*hamatcondb.Recipe, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.recipes(ownerUID), nil
}

func (m *Memory) Rating(_ context.Context, recipeID string, userID string) (*hamatcondb.Rating, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	r, ok := m.docs[ratingKey(recipeID, userID)].(*hamatcondb.Rating)
	if !ok {
		return nil, nil
	}
	c := *r
	return &c, nil
}

func (m *Memory) Favorites(_ context.Context, userID string) ([]*hamatcondb.Favorite, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.favorites(userID), nil
}

func (m *Memory) WatchRecipes(ctx context.Context, ownerUID string, fn func([]*hamatcondb.Recipe)) error {
	return m.watch(ctx, recipesTopic, func() {
		m.mu.Lock()
		recipes := m.recipes(ownerUID)
		m.mu.Unlock()
		fn(recipes)
	})
}

func (m *Memory) WatchFavorites(ctx context.Context, userID string, fn func([]*hamatcondb.Favorite)) error {
	return m.watch(ctx, favoritesTopic(userID), func() {
		m.mu.Lock()
		favorites := m.favorites(userID)
		m.mu.Unlock()
		fn(favorites)
	})
}

const recipesTopic = "recipes"

func favoritesTopic(userID string) string {
	return "favorites/" + userID
}

// watch calls deliver once and then after every change to topic until ctx is
// done. Changes made while deliver runs are coalesced into one more call.
func (m *Memory) watch(ctx context.Context, topic string, deliver func()) error {
	ch := make(chan struct{}, 1)

	m.mu.Lock()
	if m.watchers[topic] == nil {
		m.watchers[topic] = map[chan struct{}]struct{}{}
	}
	m.watchers[topic][ch] = struct{}{}
	m.mu.Unlock()

	defer func() {
		m.mu.Lock()
		delete(m.watchers[topic], ch)
		m.mu.Unlock()
	}()

	for {
		if ctx.Err() != nil {
			return nil
		}
		deliver()
		select {
		case <-ctx.Done():
			return nil
		case <-ch:
		}
	}
}

// notify must be called with mu held.
func (m *Memory) notify(topic string) {
	for ch := range m.watchers[topic] {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

// recipes must be called with mu held.
func (m *Memory) recipes(ownerUID string) []*hamatcondb.Recipe {
	var res []*hamatcondb.Recipe
	for k, d := range m.docs {
		if k.kind != kindRecipe {
			continue
		}
		r := d.(*hamatcondb.Recipe)
		if ownerUID != "" && r.OwnerUID != ownerUID {
			continue
		}
		res = append(res, readRecipe(r))
	}
	slices.SortFunc(res, func(a, b *hamatcondb.Recipe) int {
		return cmp.Compare(a.ID, b.ID)
	})
	return res
}

// favorites must be called with mu held.
func (m *Memory) favorites(userID string) []*hamatcondb.Favorite {
	var res []*hamatcondb.Favorite
	for k, d := range m.docs {
		if k.kind != kindFavorite || k.parent != userID {
			continue
		}
		f := *d.(*hamatcondb.Favorite)
		res = append(res, &f)
	}
	slices.SortFunc(res, func(a, b *hamatcondb.Favorite) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.RecipeID, b.RecipeID)
	})
	return res
}

// timestamp returns a strictly increasing server time. mu must be held.
func (m *Memory) timestamp() time.Time {
	now := time.Now().UTC()
	if !now.After(m.lastTS) {
		now = m.lastTS.Add(time.Microsecond)
	}
	m.lastTS = now
	return now
}

// write stores or, for a nil doc, deletes a document. mu must be held.
func (m *Memory) write(k docKey, doc any) {
	m.seq++
	m.versions[k] = m.seq
	if doc == nil {
		delete(m.docs, k)
		return
	}
	m.docs[k] = doc
}

type memoryOp struct {
	key     docKey
	doc     any
	del     bool
	updates []Update
}

// commit applies ops atomically if no document in reads changed since it was
// read.
func (m *Memory) commit(reads map[docKey]uint64, ops []memoryOp) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for k, v := range reads {
		if m.versions[k] != v {
			return ErrConflict
		}
	}

	staged := map[docKey]any{}
	var order []docKey
	current := func(k docKey) any {
		if d, ok := staged[k]; ok {
			return d
		}
		return m.docs[k]
	}
	for _, op := range ops {
		if _, ok := staged[op.key]; !ok {
			order = append(order, op.key)
		}
		switch {
		case op.del:
			staged[op.key] = nil
		case op.doc != nil:
			staged[op.key] = m.stamp(op.doc)
		default:
			r, ok := current(op.key).(*hamatcondb.Recipe)
			if !ok {
				return fmt.Errorf("docstore: updating recipe %s: %w", op.key.id, ErrNotFound)
			}
			r = cloneRecipe(r)
			if err := applyUpdates(r, op.updates); err != nil {
				return fmt.Errorf("docstore: updating recipe %s: %w", op.key.id, err)
			}
			staged[op.key] = r
		}
	}

	topics := map[string]struct{}{}
	for _, k := range order {
		m.write(k, staged[k])
		switch k.kind {
		case kindRecipe:
			topics[recipesTopic] = struct{}{}
		case kindFavorite:
			topics[favoritesTopic(k.parent)] = struct{}{}
		case kindRating:
		}
	}
	for t := range topics {
		m.notify(t)
	}
	return nil
}

// stamp fills in server timestamps of a document being written. mu must be
// held.
func (m *Memory) stamp(doc any) any {
	switch d := doc.(type) {
	case *hamatcondb.Favorite:
		if d.CreatedAt.IsZero() {
			d.CreatedAt = m.timestamp()
		}
	case *hamatcondb.Rating:
		if d.UpdatedAt.IsZero() {
			d.UpdatedAt = m.timestamp()
		}
	}
	return doc
}

func applyUpdates(r *hamatcondb.Recipe, updates []Update) error {
	for _, u := range updates {
		var err error
		switch u.Field {
		case hamatcondb.FieldFavoritesCount:
			err = updateInt(&r.FavoritesCount, u)
		case hamatcondb.FieldRatingSum:
			err = updateInt(&r.RatingSum, u)
		case hamatcondb.FieldRatingCount:
			err = updateInt(&r.RatingCount, u)
		case hamatcondb.FieldName:
			err = updateString(&r.Name, u)
		case hamatcondb.FieldCuisine:
			err = updateString(&r.Cuisine, u)
		case hamatcondb.FieldInstructions:
			err = updateString(&r.Instructions, u)
		case hamatcondb.FieldImageURL:
			err = updateString(&r.ImageURL, u)
		case hamatcondb.FieldIngredients:
			v, ok := u.Value.([]string)
			if u.Increment || !ok {
				err = fmt.Errorf("field %q: want string list, got %T", u.Field, u.Value)
				break
			}
			r.Ingredients = slices.Clone(v)
		case hamatcondb.FieldCookTime:
			err = updateString(&r.CookTime, u)
		case hamatcondb.FieldOwnerUID:
			err = updateString(&r.OwnerUID, u)
		case hamatcondb.FieldDifficulty:
			var s string
			if d, ok := u.Value.(hamatcondb.Difficulty); ok {
				u.Value = string(d)
			}
			err = updateString(&s, u)
			r.Difficulty = hamatcondb.Difficulty(s)
		default:
			err = fmt.Errorf("unsupported field %q", u.Field)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func updateInt(dst *int64, u Update) error {
	if u.Increment {
		*dst += u.Delta
		return nil
	}
	switch v := u.Value.(type) {
	case int64:
		*dst = v
	case int:
		*dst = int64(v)
	default:
		return fmt.Errorf("field %q: want integer, got %T", u.Field, u.Value)
	}
	return nil
}

func updateString(dst *string, u Update) error {
	v, ok := u.Value.(string)
	if u.Increment || !ok {
		return fmt.Errorf("field %q: want string, got %T", u.Field, u.Value)
	}
	*dst = v
	return nil
}

func cloneRecipe(r *hamatcondb.Recipe) *hamatcondb.Recipe {
	c := *r
	c.Ingredients = slices.Clone(r.Ingredients)
	return &c
}

func readRecipe(r *hamatcondb.Recipe) *hamatcondb.Recipe {
	c := cloneRecipe(r)
	c.Sanitize()
	return c
}

type memoryTx struct {
	m     *Memory
	reads map[docKey]uint64
	ops   []memoryOp
}

func (t *memoryTx) read(k docKey) (any, error) {
	if len(t.ops) > 0 {
		return nil, ErrReadAfterWrite
	}
	t.m.mu.Lock()
	defer t.m.mu.Unlock()
	// The commit is checked against the first read, which the transaction
	// may have already acted on.
	if _, ok := t.reads[k]; !ok {
		t.reads[k] = t.m.versions[k]
	}
	return t.m.docs[k], nil
}

func (t *memoryTx) Recipe(id string) (*hamatcondb.Recipe, error) {
	d, err := t.read(recipeKey(id))
	if err != nil {
		return nil, err
	}
	r, ok := d.(*hamatcondb.Recipe)
	if !ok {
		return nil, fmt.Errorf("docstore: reading recipe %s: %w", id, ErrNotFound)
	}
	return readRecipe(r), nil
}

func (t *memoryTx) Favorite(userID string, recipeID string) (*hamatcondb.Favorite, error) {
	d, err := t.read(favoriteKey(userID, recipeID))
	if err != nil {
		return nil, err
	}
	f, ok := d.(*hamatcondb.Favorite)
	if !ok {
		return nil, nil
	}
	c := *f
	return &c, nil
}

func (t *memoryTx) Rating(recipeID string, userID string) (*hamatcondb.Rating, error) {
	d, err := t.read(ratingKey(recipeID, userID))
	if err != nil {
		return nil, err
	}
	r, ok := d.(*hamatcondb.Rating)
	if !ok {
		return nil, nil
	}
	c := *r
	return &c, nil
}

func (t *memoryTx) SetFavorite(userID string, f *hamatcondb.Favorite) error {
	c := *f
	t.ops = append(t.ops, memoryOp{key: favoriteKey(userID, f.RecipeID), doc: &c})
	return nil
}

func (t *memoryTx) DeleteFavorite(userID string, recipeID string) error {
	t.ops = append(t.ops, memoryOp{key: favoriteKey(userID, recipeID), del: true})
	return nil
}

func (t *memoryTx) SetRating(recipeID string, userID string, r *hamatcondb.Rating) error {
	c := *r
	t.ops = append(t.ops, memoryOp{key: ratingKey(recipeID, userID), doc: &c})
	return nil
}

func (t *memoryTx) UpdateRecipe(id string, updates ...Update) error {
	t.ops = append(t.ops, memoryOp{key: recipeKey(id), updates: updates})
	return nil
}

type memoryBatch struct {
	m   *Memory
	ops []memoryOp
}

func (b *memoryBatch) UpdateRecipe(id string, updates ...Update) error {
	if len(b.ops) >= MaxBatchWrites {
		return ErrTooManyOps
	}
	b.ops = append(b.ops, memoryOp{key: recipeKey(id), updates: updates})
	return nil
}

func (b *memoryBatch) Len() int {
	return len(b.ops)
}

func (b *memoryBatch) Commit(_ context.Context) error {
	if len(b.ops) == 0 {
		return nil
	}
	return b.m.commit(nil, b.ops)
}
