package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

var errIteratorStopped = errors.New("snapshot iterator stopped")

// MemoryStore is an in-process DocumentStore with the same push semantics as
// Firestore: every write fans a full snapshot out to the collection's watchers.
// It backs the memory driver and the tests.
type MemoryStore struct {
	mu          sync.Mutex
	collections map[string]map[string]memoryDoc
	watchers    map[string]map[uint64]*memoryIterator
	seq         uint64
	lastStamp   time.Time
	writeErr    error

	now func() time.Time
}

type memoryDoc struct {
	seq  uint64
	data map[string]interface{}
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		collections: make(map[string]map[string]memoryDoc),
		watchers:    make(map[string]map[uint64]*memoryIterator),
		now:         time.Now,
	}
}

// SetWriteError makes every following write fail with err until cleared with nil.
func (s *MemoryStore) SetWriteError(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.writeErr = err
}

// BreakWatchers fails every open watch on the collection with err.
func (s *MemoryStore) BreakWatchers(collection string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, w := range s.watchers[collection] {
		w.push(memoryEvent{err: err})
		delete(s.watchers[collection], id)
	}
}

// Get returns a copy of one document, for assertions.
func (s *MemoryStore) Get(collection, id string) (map[string]interface{}, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, ok := s.collections[collection][id]
	if !ok {
		return nil, false
	}
	return copyFields(doc.data), true
}

// Count returns the number of documents in a collection.
func (s *MemoryStore) Count(collection string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.collections[collection])
}

func (s *MemoryStore) Watch(ctx context.Context, collection string) SnapshotIterator {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.seq++
	it := &memoryIterator{
		ctx:        ctx,
		store:      s,
		collection: collection,
		id:         s.seq,
		events:     make(chan memoryEvent, 1),
		stop:       make(chan struct{}),
	}
	if s.watchers[collection] == nil {
		s.watchers[collection] = make(map[uint64]*memoryIterator)
	}
	s.watchers[collection][it.id] = it
	it.push(memoryEvent{snapshot: s.snapshotLocked(collection)})
	return it
}

func (s *MemoryStore) Create(ctx context.Context, collection, id string, data map[string]interface{}) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", storeError("create", collection, id, err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.writeErr != nil {
		return "", storeError("create", collection, id, s.writeErr)
	}
	if id == "" {
		id = uuid.NewString()
	}
	docs := s.collections[collection]
	if docs == nil {
		docs = make(map[string]memoryDoc)
		s.collections[collection] = docs
	}
	if _, exists := docs[id]; exists {
		return "", storeError("create", collection, id, ErrAlreadyExists)
	}

	s.seq++
	doc := memoryDoc{seq: s.seq, data: make(map[string]interface{}, len(data))}
	for k, v := range data {
		if sentinel, ok := v.(fieldSentinel); ok {
			if sentinel == ServerTimestamp {
				doc.data[k] = s.stampLocked()
			}
			continue
		}
		doc.data[k] = v
	}
	docs[id] = doc
	s.notifyLocked(collection)
	return id, nil
}

func (s *MemoryStore) Update(ctx context.Context, collection, id string, data map[string]interface{}) error {
	if err := ctx.Err(); err != nil {
		return storeError("update", collection, id, err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.writeErr != nil {
		return storeError("update", collection, id, s.writeErr)
	}
	doc, ok := s.collections[collection][id]
	if !ok {
		return storeError("update", collection, id, ErrNotFound)
	}
	updated := copyFields(doc.data)
	for k, v := range data {
		if sentinel, ok := v.(fieldSentinel); ok {
			switch sentinel {
			case DeleteField:
				delete(updated, k)
			case ServerTimestamp:
				updated[k] = s.stampLocked()
			}
			continue
		}
		updated[k] = v
	}
	doc.data = updated
	s.collections[collection][id] = doc
	s.notifyLocked(collection)
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, collection, id string) error {
	if err := ctx.Err(); err != nil {
		return storeError("delete", collection, id, err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.writeErr != nil {
		return storeError("delete", collection, id, s.writeErr)
	}
	if _, ok := s.collections[collection][id]; !ok {
		return storeError("delete", collection, id, ErrNotFound)
	}
	delete(s.collections[collection], id)
	s.notifyLocked(collection)
	return nil
}

func (s *MemoryStore) Query(ctx context.Context, collection, orderBy string, desc bool, limit int) ([]Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, storeError("query", collection, "", err)
	}
	s.mu.Lock()
	snapshot := s.snapshotLocked(collection)
	s.mu.Unlock()

	docs := snapshot.Documents
	sort.SliceStable(docs, func(i, j int) bool {
		if desc {
			return lessField(docs[j].Data[orderBy], docs[i].Data[orderBy])
		}
		return lessField(docs[i].Data[orderBy], docs[j].Data[orderBy])
	})
	if limit > 0 && len(docs) > limit {
		docs = docs[:limit]
	}
	return docs, nil
}

func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for collection, ws := range s.watchers {
		for id, w := range ws {
			w.push(memoryEvent{err: errIteratorStopped})
			delete(ws, id)
		}
		delete(s.watchers, collection)
	}
	return nil
}

// stampLocked hands out strictly increasing commit times.
func (s *MemoryStore) stampLocked() time.Time {
	t := s.now().UTC()
	if !t.After(s.lastStamp) {
		t = s.lastStamp.Add(time.Microsecond)
	}
	s.lastStamp = t
	return t
}

func (s *MemoryStore) snapshotLocked(collection string) *RawSnapshot {
	docs := s.collections[collection]
	snapshot := &RawSnapshot{
		Collection: collection,
		Documents:  make([]Document, 0, len(docs)),
		ReadTime:   s.now().UTC(),
	}
	type ordered struct {
		id  string
		doc memoryDoc
	}
	list := make([]ordered, 0, len(docs))
	for id, doc := range docs {
		list = append(list, ordered{id, doc})
	}
	sort.Slice(list, func(i, j int) bool { return list[i].doc.seq < list[j].doc.seq })
	for _, o := range list {
		snapshot.Documents = append(snapshot.Documents, Document{ID: o.id, Data: copyFields(o.doc.data)})
	}
	return snapshot
}

func (s *MemoryStore) notifyLocked(collection string) {
	ws := s.watchers[collection]
	if len(ws) == 0 {
		return
	}
	for _, w := range ws {
		w.push(memoryEvent{snapshot: s.snapshotLocked(collection)})
	}
}

func (s *MemoryStore) removeWatcher(collection string, id uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.watchers[collection], id)
}

type memoryEvent struct {
	snapshot *RawSnapshot
	err      error
}

type memoryIterator struct {
	ctx        context.Context
	store      *MemoryStore
	collection string
	id         uint64
	events     chan memoryEvent
	stop       chan struct{}
	stopOnce   sync.Once
}

// push keeps only the newest event; every snapshot is complete on its own.
func (it *memoryIterator) push(ev memoryEvent) {
	select {
	case it.events <- ev:
		return
	default:
	}
	select {
	case <-it.events:
	default:
	}
	select {
	case it.events <- ev:
	default:
	}
}

func (it *memoryIterator) Next() (*RawSnapshot, error) {
	select {
	case ev := <-it.events:
		if ev.err != nil {
			return nil, storeError("watch", it.collection, "", ev.err)
		}
		return ev.snapshot, nil
	case <-it.ctx.Done():
		return nil, storeError("watch", it.collection, "", it.ctx.Err())
	case <-it.stop:
		return nil, storeError("watch", it.collection, "", errIteratorStopped)
	}
}

func (it *memoryIterator) Stop() {
	it.stopOnce.Do(func() {
		close(it.stop)
		it.store.removeWatcher(it.collection, it.id)
	})
}

func copyFields(data map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(data))
	for k, v := range data {
		out[k] = v
	}
	return out
}

func lessField(a, b interface{}) bool {
	switch av := a.(type) {
	case time.Time:
		if bv, ok := b.(time.Time); ok {
			return av.Before(bv)
		}
	case int64:
		if bv, ok := b.(int64); ok {
			return av < bv
		}
	case string:
		if bv, ok := b.(string); ok {
			return av < bv
		}
	}
	return fmt.Sprint(a) < fmt.Sprint(b)
}
