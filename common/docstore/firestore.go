// Copyright (c) CurioSwitch (choko@curioswitch.org)
// SPDX-License-Identifier: BUSL-1.1

package docstore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/curioswitch/hamatcon/common/hamatcondb"
)

// Firestore is a Store backed by Cloud Firestore. Transactions are retried by
// the Firestore client.
type Firestore struct {
	client      *firestore.Client
	maxAttempts int
}

var _ Store = (*Firestore)(nil)

// NewFirestore returns a Store using client.
func NewFirestore(client *firestore.Client) *Firestore {
	return &Firestore{
		client:      client,
		maxAttempts: DefaultMaxAttempts,
	}
}

func (s *Firestore) recipes() *firestore.CollectionRef {
	return s.client.Collection(hamatcondb.CollectionRecipes)
}

func (s *Firestore) favorites(userID string) *firestore.CollectionRef {
	return s.client.Collection(hamatcondb.CollectionUsers).Doc(userID).Collection(hamatcondb.CollectionFavorites)
}

func (s *Firestore) ratings(recipeID string) *firestore.CollectionRef {
	return s.recipes().Doc(recipeID).Collection(hamatcondb.CollectionRatings)
}

func (s *Firestore) RunTransaction(ctx context.Context, f func(ctx context.Context, tx Tx) error) error {
	err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		return f(ctx, &firestoreTx{s: s, tx: tx})
	}, firestore.MaxAttempts(s.maxAttempts))
	if status.Code(err) == codes.Aborted {
		return fmt.Errorf("docstore: transaction failed after %d attempts: %w: %w", s.maxAttempts, ErrConflict, err)
	}
	return err
}

func (s *Firestore) NewBatch() Batch {
	return &firestoreBatch{
		s:     s,
		batch: s.client.Batch(), //nolint:staticcheck // BulkWriter is not atomic.
	}
}

func (s *Firestore) CreateRecipe(ctx context.Context, r *hamatcondb.Recipe) (string, error) {
	doc := s.recipes().NewDoc()
	if r.ID != "" {
		doc = s.recipes().Doc(r.ID)
	}
	if _, err := doc.Create(ctx, r); err != nil {
		if status.Code(err) == codes.AlreadyExists {
			return "", fmt.Errorf("docstore: creating recipe %s: %w", doc.ID, ErrAlreadyExists)
		}
		return "", fmt.Errorf("docstore: creating recipe %s: %w", doc.ID, err)
	}
	return doc.ID, nil
}

func (s *Firestore) DeleteRecipe(ctx context.Context, id string) error {
	doc := s.recipes().Doc(id)
	if _, err := doc.Get(ctx); err != nil {
		if status.Code(err) == codes.NotFound {
			return fmt.Errorf("docstore: deleting recipe %s: %w", id, ErrNotFound)
		}
		return fmt.Errorf("docstore: deleting recipe %s: %w", id, err)
	}

	refs, err := s.ratings(id).DocumentRefs(ctx).GetAll()
	if err != nil {
		return fmt.Errorf("docstore: listing ratings of recipe %s: %w", id, err)
	}
	// The recipe goes last so a failed delete can be retried.
	refs = append(refs, doc)
	for chunk := range slices.Chunk(refs, MaxBatchWrites) {
		batch := s.client.Batch() //nolint:staticcheck // BulkWriter is not atomic.
		for _, ref := range chunk {
			batch.Delete(ref)
		}
		if _, err := batch.Commit(ctx); err != nil {
			return fmt.Errorf("docstore: deleting recipe %s: %w", id, err)
		}
	}
	return nil
}

func (s *Firestore) Recipe(ctx context.Context, id string) (*hamatcondb.Recipe, error) {
	doc, err := s.recipes().Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, fmt.Errorf("docstore: reading recipe %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("docstore: reading recipe %s: %w", id, err)
	}
	return recipeFromDoc(doc), nil
}

func (s *Firestore) recipeQuery(ownerUID string) firestore.Query {
	q := s.recipes().Query
	if ownerUID != "" {
		q = q.Where(hamatcondb.FieldOwnerUID, "==", ownerUID)
	}
	return q
}

func (s *Firestore) Recipes(ctx context.Context, ownerUID string) ([]*hamatcondb.Recipe, error) {
	docs, err := s.recipeQuery(ownerUID).Documents(ctx).GetAll()
	if err != nil {
		return nil, fmt.Errorf("docstore: listing recipes: %w", err)
	}
	return recipesFromDocs(docs), nil
}

func (s *Firestore) Rating(ctx context.Context, recipeID string, userID string) (*hamatcondb.Rating, error) {
	doc, err := s.ratings(recipeID).Doc(userID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("docstore: reading rating of recipe %s: %w", recipeID, err)
	}
	return ratingFromDoc(doc), nil
}

func (s *Firestore) favoritesQuery(userID string) firestore.Query {
	return s.favorites(userID).OrderBy("ts", firestore.Desc)
}

func (s *Firestore) Favorites(ctx context.Context, userID string) ([]*hamatcondb.Favorite, error) {
	docs, err := s.favoritesQuery(userID).Documents(ctx).GetAll()
	if err != nil {
		return nil, fmt.Errorf("docstore: listing favorites: %w", err)
	}
	return favoritesFromDocs(docs), nil
}

func (s *Firestore) WatchRecipes(ctx context.Context, ownerUID string, fn func([]*hamatcondb.Recipe)) error {
	return watch(ctx, s.recipeQuery(ownerUID), recipesFromDocs, fn)
}

func (s *Firestore) WatchFavorites(ctx context.Context, userID string, fn func([]*hamatcondb.Favorite)) error {
	return watch(ctx, s.favoritesQuery(userID), favoritesFromDocs, fn)
}

func watch[T any](ctx context.Context, q firestore.Query, decode func([]*firestore.DocumentSnapshot) []T, fn func([]T)) error {
	it := q.Snapshots(ctx)
	defer it.Stop()

	for {
		snap, err := it.Next()
		if err != nil {
			if ctx.Err() != nil || status.Code(err) == codes.Canceled || errors.Is(err, iterator.Done) {
				return nil
			}
			return fmt.Errorf("docstore: watching query: %w", err)
		}
		docs, err := snap.Documents.GetAll()
		if err != nil {
			return fmt.Errorf("docstore: reading query snapshot: %w", err)
		}
		res := decode(docs)
		if ctx.Err() != nil {
			return nil
		}
		fn(res)
	}
}

func recipeFromDoc(doc *firestore.DocumentSnapshot) *hamatcondb.Recipe {
	r, invalid := hamatcondb.RecipeFromData(doc.Ref.ID, doc.Data())
	logInvalid(doc, invalid)
	return r
}

func recipesFromDocs(docs []*firestore.DocumentSnapshot) []*hamatcondb.Recipe {
	res := make([]*hamatcondb.Recipe, len(docs))
	for i, doc := range docs {
		res[i] = recipeFromDoc(doc)
	}
	return res
}

func favoriteFromDoc(doc *firestore.DocumentSnapshot) *hamatcondb.Favorite {
	f, invalid := hamatcondb.FavoriteFromData(doc.Ref.ID, doc.Data())
	logInvalid(doc, invalid)
	return f
}

func favoritesFromDocs(docs []*firestore.DocumentSnapshot) []*hamatcondb.Favorite {
	res := make([]*hamatcondb.Favorite, len(docs))
	for i, doc := range docs {
		res[i] = favoriteFromDoc(doc)
	}
	return res
}

func ratingFromDoc(doc *firestore.DocumentSnapshot) *hamatcondb.Rating {
	r, invalid := hamatcondb.RatingFromData(doc.Data())
	logInvalid(doc, invalid)
	return r
}

func logInvalid(doc *firestore.DocumentSnapshot, fields []string) {
	if len(fields) > 0 {
		slog.Warn("docstore: ignoring malformed fields", "document", doc.Ref.Path, "fields", fields)
	}
}

func toFirestoreUpdates(updates []Update) []firestore.Update {
	res := make([]firestore.Update, len(updates))
	for i, u := range updates {
		v := u.Value
		if u.Increment {
			v = firestore.Increment(u.Delta)
		}
		res[i] = firestore.Update{Path: u.Field, Value: v}
	}
	return res
}

type firestoreTx struct {
	s     *Firestore
	tx    *firestore.Transaction
	wrote bool
}

func (t *firestoreTx) get(ref *firestore.DocumentRef) (*firestore.DocumentSnapshot, error) {
	if t.wrote {
		return nil, ErrReadAfterWrite
	}
	doc, err := t.tx.Get(ref)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("docstore: reading %s: %w", ref.Path, err)
	}
	return doc, nil
}

func (t *firestoreTx) Recipe(id string) (*hamatcondb.Recipe, error) {
	doc, err := t.get(t.s.recipes().Doc(id))
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, fmt.Errorf("docstore: reading recipe %s: %w", id, ErrNotFound)
	}
	return recipeFromDoc(doc), nil
}

func (t *firestoreTx) Favorite(userID string, recipeID string) (*hamatcondb.Favorite, error) {
	doc, err := t.get(t.s.favorites(userID).Doc(recipeID))
	if err != nil || doc == nil {
		return nil, err
	}
	return favoriteFromDoc(doc), nil
}

func (t *firestoreTx) Rating(recipeID string, userID string) (*hamatcondb.Rating, error) {
	doc, err := t.get(t.s.ratings(recipeID).Doc(userID))
	if err != nil || doc == nil {
		return nil, err
	}
	return ratingFromDoc(doc), nil
}

func (t *firestoreTx) SetFavorite(userID string, f *hamatcondb.Favorite) error {
	t.wrote = true
	return t.tx.Set(t.s.favorites(userID).Doc(f.RecipeID), f)
}

func (t *firestoreTx) DeleteFavorite(userID string, recipeID string) error {
	t.wrote = true
	return t.tx.Delete(t.s.favorites(userID).Doc(recipeID))
}

func (t *firestoreTx) SetRating(recipeID string, userID string, r *hamatcondb.Rating) error {
	t.wrote = true
	return t.tx.Set(t.s.ratings(recipeID).Doc(userID), r)
}

func (t *firestoreTx) UpdateRecipe(id string, updates ...Update) error {
	t.wrote = true
	return t.tx.Update(t.s.recipes().Doc(id), toFirestoreUpdates(updates))
}

type firestoreBatch struct {
	s     *Firestore
	batch *firestore.WriteBatch
	n     int
}

func (b *firestoreBatch) UpdateRecipe(id string, updates ...Update) error {
	if b.n >= MaxBatchWrites {
		return ErrTooManyOps
	}
	b.batch.Update(b.s.recipes().Doc(id), toFirestoreUpdates(updates))
	b.n++
	return nil
}

func (b *firestoreBatch) Len() int {
	return b.n
}

func (b *firestoreBatch) Commit(ctx context.Context) error {
	if b.n == 0 {
		return nil
	}
	if _, err := b.batch.Commit(ctx); err != nil {
		return fmt.Errorf("docstore: committing batch of %d writes: %w", b.n, err)
	}
	return nil
}
