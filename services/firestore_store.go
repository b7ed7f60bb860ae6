package services

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// FirestoreStore is the DocumentStore backed by Cloud Firestore.
type FirestoreStore struct {
	FirestoreClient *firestore.Client
}

func NewFirestoreStore(client *firestore.Client) *FirestoreStore {
	return &FirestoreStore{FirestoreClient: client}
}

type firestoreSnapshots struct {
	collection string
	it         *firestore.QuerySnapshotIterator
}

func (s *FirestoreStore) Watch(ctx context.Context, collection string) SnapshotIterator {
	return &firestoreSnapshots{
		collection: collection,
		it:         s.FirestoreClient.Collection(collection).Snapshots(ctx),
	}
}

func (f *firestoreSnapshots) Next() (*RawSnapshot, error) {
	qs, err := f.it.Next()
	if err != nil {
		return nil, storeError("watch", f.collection, "", classifyFirestoreError(err))
	}

	docs, err := qs.Documents.GetAll()
	if err != nil {
		return nil, storeError("watch", f.collection, "", classifyFirestoreError(err))
	}

	snapshot := &RawSnapshot{
		Collection: f.collection,
		Documents:  make([]Document, 0, len(docs)),
		ReadTime:   qs.ReadTime,
	}
	for _, doc := range docs {
		snapshot.Documents = append(snapshot.Documents, Document{ID: doc.Ref.ID, Data: doc.Data()})
	}
	return snapshot, nil
}

func (f *firestoreSnapshots) Stop() {
	f.it.Stop()
}

func (s *FirestoreStore) Create(ctx context.Context, collection, id string, data map[string]interface{}) (string, error) {
	coll := s.FirestoreClient.Collection(collection)

	// Let Firestore generate the ID unless the caller picked one
	var docRef *firestore.DocumentRef
	if id == "" {
		docRef = coll.NewDoc()
	} else {
		docRef = coll.Doc(id)
	}

	if _, err := docRef.Create(ctx, toFirestoreFields(data)); err != nil {
		return "", storeError("create", collection, docRef.ID, classifyFirestoreError(err))
	}
	return docRef.ID, nil
}

func (s *FirestoreStore) Update(ctx context.Context, collection, id string, data map[string]interface{}) error {
	if id == "" {
		return storeError("update", collection, id, ErrNotFound)
	}
	updates := make([]firestore.Update, 0, len(data))
	for path, value := range data {
		updates = append(updates, firestore.Update{Path: path, Value: toFirestoreValue(value)})
	}

	_, err := s.FirestoreClient.Collection(collection).Doc(id).Update(ctx, updates)
	return storeError("update", collection, id, classifyFirestoreError(err))
}

func (s *FirestoreStore) Delete(ctx context.Context, collection, id string) error {
	if id == "" {
		return storeError("delete", collection, id, ErrNotFound)
	}
	// Exists turns a delete of a missing document into NotFound instead of a no-op
	_, err := s.FirestoreClient.Collection(collection).Doc(id).Delete(ctx, firestore.Exists)
	return storeError("delete", collection, id, classifyFirestoreError(err))
}

func (s *FirestoreStore) Query(ctx context.Context, collection, orderBy string, desc bool, limit int) ([]Document, error) {
	direction := firestore.Asc
	if desc {
		direction = firestore.Desc
	}
	query := s.FirestoreClient.Collection(collection).OrderBy(orderBy, direction)
	if limit > 0 {
		query = query.Limit(limit)
	}

	iter := query.Documents(ctx)
	defer iter.Stop()

	var docs []Document
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, storeError("query", collection, "", classifyFirestoreError(err))
		}
		docs = append(docs, Document{ID: doc.Ref.ID, Data: doc.Data()})
	}
	return docs, nil
}

func (s *FirestoreStore) Close() error {
	return s.FirestoreClient.Close()
}

func toFirestoreFields(data map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(data))
	for k, v := range data {
		out[k] = toFirestoreValue(v)
	}
	return out
}

func toFirestoreValue(v interface{}) interface{} {
	sentinel, ok := v.(fieldSentinel)
	if !ok {
		return v
	}
	switch sentinel {
	case ServerTimestamp:
		return firestore.ServerTimestamp
	case DeleteField:
		return firestore.Delete
	}
	return v
}

func classifyFirestoreError(err error) error {
	if err == nil {
		return nil
	}
	switch status.Code(err) {
	case codes.NotFound:
		return fmt.Errorf("%w: %v", ErrNotFound, err)
	case codes.AlreadyExists:
		return fmt.Errorf("%w: %v", ErrAlreadyExists, err)
	case codes.PermissionDenied, codes.Unauthenticated:
		return fmt.Errorf("%w: %v", ErrPermissionDenied, err)
	}
	return err
}
